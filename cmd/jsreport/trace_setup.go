package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jsreport/internal/trace"
)

// persistentStrings reads root persistent string flags in the order given.
func persistentStrings(cmd *cobra.Command, names ...string) ([]string, error) {
	out := make([]string, len(names))
	for i, name := range names {
		v, err := cmd.Root().PersistentFlags().GetString(name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		out[i] = v
	}
	return out, nil
}

// setupTracing attaches the tracer selected by --trace, --trace-level and
// --trace-format to the command context, under a root span named after the
// command. The cleanup closes the span and the tracer.
func setupTracing(cmd *cobra.Command) (func(), error) {
	vals, err := persistentStrings(cmd, "trace", "trace-level", "trace-format")
	if err != nil {
		return nil, err
	}
	output := vals[0]

	level, err := trace.ParseLevel(vals[1])
	if err != nil {
		return nil, err
	}
	// --trace без уровня включает фазы
	if output != "" && level == trace.LevelOff && !cmd.Root().PersistentFlags().Changed("trace-level") {
		level = trace.LevelPhase
	}
	format, err := trace.ParseFormat(vals[2])
	if err != nil {
		return nil, err
	}

	tracer, err := trace.New(trace.Config{Level: level, Format: format, OutputPath: output})
	if err != nil {
		return nil, err
	}
	ctx := trace.WithTracer(cmd.Context(), tracer)
	if !tracer.Enabled() {
		cmd.SetContext(ctx)
		return func() {}, nil
	}

	root := trace.Begin(tracer, trace.ScopeCommand, "cmd:"+cmd.Name(), 0)
	cmd.SetContext(trace.WithSpan(ctx, root))
	return func() {
		root.End("")
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: %v\n", err)
		}
	}, nil
}
