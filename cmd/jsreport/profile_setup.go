package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jsreport/internal/prof"
)

// setupProfiling starts the profiles requested by the persistent flags.
// The returned cleanup stops them and writes the heap profile.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	vals, err := persistentStrings(cmd, "cpu-profile", "mem-profile", "runtime-trace")
	if err != nil {
		return nil, err
	}
	cfg := prof.Config{CPU: vals[0], Heap: vals[1], Trace: vals[2]}
	if !cfg.Enabled() {
		return func() {}, nil
	}

	session, err := prof.Start(cfg)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
	}, nil
}
