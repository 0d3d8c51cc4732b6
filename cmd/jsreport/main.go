package main

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"jsreport/internal/version"
)

// errFindings is returned by lint --exit-code when a report is not empty.
// It exits with status 1 without printing anything else.
var errFindings = errors.New("lint findings reported")

// teardown stops tracing and profiling; it runs once, after success or failure.
var (
	teardown     func()
	teardownOnce sync.Once
)

func runTeardown() {
	teardownOnce.Do(func() {
		if teardown != nil {
			teardown()
		}
	})
}

var rootCmd = &cobra.Command{
	Use:           "jsreport",
	Short:         "Report JSLINT findings as line::char::reason records",
	Long:          `jsreport runs a JSLINT engine over JavaScript sources and prints its verdict in a compact line-oriented format`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := applyColorFlag(cmd); err != nil {
			return err
		}
		stopProfiles, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		cleanup, err := setupTracing(cmd)
		if err != nil {
			stopProfiles()
			return err
		}
		teardown = func() {
			cleanup()
			stopProfiles()
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		runTeardown()
	},
}

// main registers subcommands and persistent flags, then executes the root command.
// Any error exits with status 1.
func main() {
	rootCmd.Version = version.Current().Version

	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	addRootFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		// traces must reach disk even when the command failed
		runTeardown()
		if !errors.Is(err, errFindings) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// addRootFlags registers the global flags every subcommand reads through cmd.Root().
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	cmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	cmd.PersistentFlags().Bool("timings", false, "show per-file timing information on stderr")
	cmd.PersistentFlags().String("config", "", "path to .jsreport.toml (default: search upwards from the working directory)")
	cmd.PersistentFlags().String("trace", "", "write trace events to a file (- for stderr)")
	cmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	cmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	cmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	cmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
	cmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to this file")
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves --color against the terminal state of stdout.
func useColor(cmd *cobra.Command) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	mode, err := readSwitch("color", value)
	if err != nil {
		return false, err
	}
	return mode.enabled(os.Stdout), nil
}

func applyColorFlag(cmd *cobra.Command) error {
	on, err := useColor(cmd)
	if err != nil {
		return err
	}
	color.NoColor = !on
	return nil
}

func quietFlag(cmd *cobra.Command) (bool, error) {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return false, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	return quiet, nil
}
