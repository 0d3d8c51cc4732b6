package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"jsreport/internal/lint"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Validate a line::char::reason report and print its records",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		showKind, err := cmd.Flags().GetBool("kind")
		if err != nil {
			return fmt.Errorf("failed to get kind flag: %w", err)
		}
		fatal, err := cmd.Flags().GetString("fatal-message")
		if err != nil {
			return fmt.Errorf("failed to get fatal-message flag: %w", err)
		}
		name, data, err := readReportInput(cmd, args)
		if err != nil {
			return err
		}
		lines, err := lint.ParseReport(string(data))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		writeParsed(cmd.OutOrStdout(), lines, showKind, lint.Reporter{FatalMessage: fatal})
		return nil
	},
}

func init() {
	addParseFlags(parseCmd)
}

func addParseFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("kind", false, "prefix each record with its kind (diagnostic|fatal|implied)")
	cmd.Flags().String("fatal-message", lint.DefaultFatalMessage, "reason that marks a 0::0 record as fatal")
}

func readReportInput(cmd *cobra.Command, args []string) (string, []byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return stdinName, nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return stdinName, data, nil
	}
	// #nosec G304 -- path is provided by the user
	data, err := os.ReadFile(args[0])
	if err != nil {
		return args[0], nil, fmt.Errorf("failed to read report: %w", err)
	}
	return args[0], data, nil
}

func writeParsed(w io.Writer, lines []lint.Line, showKind bool, r lint.Reporter) {
	var b strings.Builder
	for _, l := range lines {
		if showKind {
			fmt.Fprintf(&b, "%-10s ", r.Classify(l))
		}
		fmt.Fprintf(&b, "%d:%d: %s\n", l.Line, l.Character, l.Reason)
	}
	_, _ = io.WriteString(w, b.String())
}
