package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"jsreport/internal/version"
)

// versionPayload is what `version` prints; optional fields stay empty unless requested.
type versionPayload struct {
	Tool       string `json:"tool"`
	Version    string `json:"version"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show jsreport build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}
		payload, err := buildVersionPayload(cmd, version.Current())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		switch strings.ToLower(format) {
		case "pretty":
			writeVersionText(out, payload)
			return nil
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		}
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	},
}

func init() {
	addVersionFlags(versionCmd)
}

func addVersionFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("hash", false, "include git commit hash")
	cmd.Flags().Bool("message", false, "include git commit message")
	cmd.Flags().Bool("date", false, "include build timestamp")
	cmd.Flags().Bool("full", false, "show every recorded bit of build metadata")
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

// buildVersionPayload fills the optional fields selected by --hash, --message,
// --date or --full. Selected but unrecorded values read "unknown".
func buildVersionPayload(cmd *cobra.Command, info version.Info) (versionPayload, error) {
	p := versionPayload{Tool: "jsreport", Version: info.Version}
	full, err := cmd.Flags().GetBool("full")
	if err != nil {
		return p, fmt.Errorf("failed to get full flag: %w", err)
	}
	fields := []struct {
		flag  string
		value string
		dst   *string
	}{
		{"hash", info.GitCommit, &p.GitCommit},
		{"message", info.GitMessage, &p.GitMessage},
		{"date", info.BuildDate, &p.BuildDate},
	}
	for _, f := range fields {
		on, err := cmd.Flags().GetBool(f.flag)
		if err != nil {
			return p, fmt.Errorf("failed to get %s flag: %w", f.flag, err)
		}
		if on || full {
			*f.dst = valueOrUnknown(f.value)
		}
	}
	return p, nil
}

func writeVersionText(out io.Writer, p versionPayload) {
	fmt.Fprintf(out, "%s %s\n", p.Tool, version.Colored(p.Version))
	for _, row := range [][2]string{{"commit:", p.GitCommit}, {"message:", p.GitMessage}, {"built:", p.BuildDate}} {
		if row[1] != "" {
			fmt.Fprintf(out, "%-8s %s\n", row[0], row[1])
		}
	}
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
