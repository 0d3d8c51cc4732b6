package reportfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"jsreport/internal/driver"
	"jsreport/internal/lint"
	"jsreport/internal/source"
)

func result(t *testing.T, path, report string) *driver.FileResult {
	t.Helper()
	lines, err := lint.ParseReport(report)
	if err != nil {
		t.Fatalf("ParseReport(%q): %v", report, err)
	}
	return &driver.FileResult{
		Path:   path,
		Result: lint.Result{OK: report == ""},
		Report: report,
		Lines:  lines,
	}
}

const sampleReport = "1::5::Missing semicolon.\n0::0::Implied globals:window"

func TestPlainSingle(t *testing.T) {
	tests := []struct {
		name   string
		report string
		want   string
	}{
		{"findings", sampleReport, sampleReport + "\n"},
		{"clean", "", ""},
		{"fatal", "0::0::JSLINT had a fatal error.", "0::0::JSLINT had a fatal error.\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Plain(&buf, nil, []*driver.FileResult{result(t, "a.js", tt.report)}, Options{}); err != nil {
				t.Fatal(err)
			}
			if buf.String() != tt.want {
				t.Fatalf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestPlainMultiple(t *testing.T) {
	var buf bytes.Buffer
	results := []*driver.FileResult{
		result(t, "a.js", ""),
		result(t, "b.js", sampleReport),
		result(t, "c.js", "3::1::Unused 'x'."),
	}
	if err := Plain(&buf, nil, results, Options{}); err != nil {
		t.Fatal(err)
	}
	want := "== b.js ==\n" + sampleReport + "\n== c.js ==\n3::1::Unused 'x'.\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	results := []*driver.FileResult{
		result(t, "lib/b.js", "12::5::Missing semicolon.\n0::0::Implied globals:window"),
		result(t, "a.js", ""),
		result(t, "<text>", "1::1::Bad."),
	}
	if err := Console(&buf, nil, results, Options{}); err != nil {
		t.Fatal(err)
	}
	want := "./lib/b.js\n" +
		"      12: Missing semicolon.\n" +
		"       0: Implied globals:window\n" +
		"<text>\n" +
		"       1: Bad.\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrettyNoColor(t *testing.T) {
	var buf bytes.Buffer
	clean := result(t, "a.js", "")
	clean.Cached = true
	results := []*driver.FileResult{
		clean,
		result(t, "b.js", "10::12::Missing semicolon.\n0::0::Implied globals:window"),
	}
	if err := Pretty(&buf, nil, results, Options{Color: false}); err != nil {
		t.Fatal(err)
	}
	want := "a.js ok (cached)\n" +
		"b.js\n" +
		"  10:12  Missing semicolon.\n" +
		"  0:0    Implied globals:window\n" +
		"2 files, 1 with findings\n"
	if buf.String() != want {
		t.Fatalf("got:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestPrettyColor(t *testing.T) {
	var buf bytes.Buffer
	results := []*driver.FileResult{result(t, "a.js", "0::0::JSLINT had a fatal error.")}
	if err := Pretty(&buf, nil, results, Options{Color: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI escapes, got %q", buf.String())
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	results := []*driver.FileResult{
		result(t, "a.js", ""),
		result(t, "b.js", sampleReport),
	}
	if err := JSON(&buf, nil, results, Options{}); err != nil {
		t.Fatal(err)
	}
	var out ReportOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 2 || !out.Files[0].OK || out.Files[1].OK {
		t.Fatalf("unexpected output: %+v", out)
	}
	if len(out.Files[0].Lines) != 0 {
		t.Fatalf("clean file must have no lines: %+v", out.Files[0])
	}
	got := out.Files[1].Lines
	if len(got) != 2 || got[0].Kind != "diagnostic" || got[1].Kind != "implied" || got[0].Character != 5 {
		t.Fatalf("unexpected lines: %+v", got)
	}
	if !strings.Contains(buf.String(), "\n  \"files\"") {
		t.Fatalf("expected two-space indentation:\n%s", buf.String())
	}
}

func TestDisplayPathModes(t *testing.T) {
	fs := source.NewFileSetWithBase("/work")
	id := fs.Add("/work/src/app.js", []byte("x"), 0)
	r := &driver.FileResult{Path: "/work/src/app.js", FileID: id}

	if got := displayPath(fs, r, Options{PathMode: PathModeBasename}); got != "app.js" {
		t.Fatalf("basename = %q", got)
	}
	if got := displayPath(fs, r, Options{PathMode: PathModeRelative}); got != "src/app.js" {
		t.Fatalf("relative = %q", got)
	}
	if got := displayPath(nil, r, Options{PathMode: PathModeBasename}); got != r.Path {
		t.Fatalf("nil file set must keep the raw path, got %q", got)
	}
}

func TestParseFormatAndPathMode(t *testing.T) {
	if f, err := ParseFormat(""); err != nil || f != FormatPlain {
		t.Fatalf("empty format: %v %v", f, err)
	}
	if f, err := ParseFormat("JSON"); err != nil || f != FormatJSON {
		t.Fatalf("JSON: %v %v", f, err)
	}
	if _, err := ParseFormat("sarif"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if m, err := ParsePathMode("rel"); err != nil || m != PathModeRelative {
		t.Fatalf("rel: %v %v", m, err)
	}
	if _, err := ParsePathMode("weird"); err == nil {
		t.Fatal("expected error for unknown path mode")
	}
}

func TestKindsFollowFileResult(t *testing.T) {
	r := result(t, "a.js", "0::0::Missing semicolon.\n0::0::engine gave up")
	r.Kinds = []lint.LineKind{lint.KindDiagnostic, lint.KindFatal}

	out := BuildOutput(nil, []*driver.FileResult{r}, Options{})
	got := out.Files[0].Lines
	if got[0].Kind != "diagnostic" || got[1].Kind != "fatal" {
		t.Fatalf("unexpected kinds: %+v", got)
	}

	// without Kinds a position-less line is fatal only for the default message
	plain := result(t, "b.js", "0::0::Missing semicolon.\n0::0::JSLINT had a fatal error.")
	got = BuildOutput(nil, []*driver.FileResult{plain}, Options{}).Files[0].Lines
	if got[0].Kind != "diagnostic" || got[1].Kind != "fatal" {
		t.Fatalf("unexpected fallback kinds: %+v", got)
	}
}
