package reportfmt

import (
	"encoding/json"
	"io"

	"jsreport/internal/driver"
	"jsreport/internal/source"
)

// LineJSON is one parsed report line.
type LineJSON struct {
	Line      int    `json:"line"`
	Character int    `json:"character"`
	Reason    string `json:"reason"`
	Kind      string `json:"kind"`
}

// FileJSON is the result for one input.
type FileJSON struct {
	Path   string     `json:"path"`
	OK     bool       `json:"ok"`
	Cached bool       `json:"cached"`
	Lines  []LineJSON `json:"lines"`
	Report string     `json:"report"`
}

// ReportOutput is the root of the JSON output.
type ReportOutput struct {
	Files []FileJSON `json:"files"`
	Count int        `json:"count"`
}

// BuildOutput assembles the JSON structure without serialising it.
func BuildOutput(fs *source.FileSet, results []*driver.FileResult, opts Options) ReportOutput {
	files := make([]FileJSON, 0, len(results))
	for _, r := range results {
		if r == nil {
			continue
		}
		lines := make([]LineJSON, len(r.Lines))
		for i, l := range r.Lines {
			lines[i] = LineJSON{
				Line:      l.Line,
				Character: l.Character,
				Reason:    l.Reason,
				Kind:      r.LineKind(i).String(),
			}
		}
		files = append(files, FileJSON{
			Path:   displayPath(fs, r, opts),
			OK:     r.Result.OK,
			Cached: r.Cached,
			Lines:  lines,
			Report: r.Report,
		})
	}
	return ReportOutput{Files: files, Count: len(files)}
}

// JSON writes results as indented JSON.
func JSON(w io.Writer, fs *source.FileSet, results []*driver.FileResult, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildOutput(fs, results, opts))
}
