package reportfmt

import (
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"jsreport/internal/driver"
	"jsreport/internal/source"
)

// Plain writes the raw report text. A single result prints exactly its report
// and one newline, or nothing when clean. Several results put a
// "== <path> ==" header above each non-empty report.
func Plain(w io.Writer, fs *source.FileSet, results []*driver.FileResult, opts Options) error {
	var b strings.Builder
	if len(results) == 1 {
		if r := results[0]; r != nil && r.Report != "" {
			b.WriteString(r.Report)
			b.WriteByte('\n')
		}
		_, err := io.WriteString(w, b.String())
		return err
	}
	for _, r := range results {
		if r == nil || r.Report == "" {
			continue
		}
		b.WriteString("== ")
		b.WriteString(displayPath(fs, r, opts))
		b.WriteString(" ==\n")
		b.WriteString(r.Report)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Console mimics the classic console reporter: a "./<path>" group header once
// per file, then one "    %4d: <reason>" row per report line.
func Console(w io.Writer, fs *source.FileSet, results []*driver.FileResult, opts Options) error {
	var b strings.Builder
	for _, r := range results {
		if r == nil || len(r.Lines) == 0 {
			continue
		}
		b.WriteString(consoleHeader(displayPath(fs, r, opts)))
		b.WriteByte('\n')
		for _, l := range r.Lines {
			b.WriteString("    ")
			b.WriteString(padLeft(strconv.Itoa(l.Line), 4))
			b.WriteString(": ")
			b.WriteString(l.Reason)
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func consoleHeader(path string) string {
	if path == "" || filepath.IsAbs(path) || strings.HasPrefix(path, "<") {
		return path
	}
	return "./" + filepath.ToSlash(filepath.Clean(path))
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
