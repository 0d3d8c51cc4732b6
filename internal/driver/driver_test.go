package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"jsreport/internal/cache"
	"jsreport/internal/lint"
	"jsreport/internal/source"
)

// fakeEngine flags every source containing "bad" and fails on "boom".
type fakeEngine struct {
	calls atomic.Int32
}

var errBoom = errors.New("engine crashed")

func (e *fakeEngine) Name() string { return "fake" }

func (e *fakeEngine) Lint(_ context.Context, src []byte) (lint.Result, error) {
	e.calls.Add(1)
	text := string(src)
	switch {
	case strings.Contains(text, "boom"):
		return lint.Result{}, errBoom
	case strings.Contains(text, "bad"):
		return lint.Failed([]*lint.Error{{Line: 0, Character: 4, Reason: "Missing semicolon."}}, "window"), nil
	default:
		return lint.Clean(), nil
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLintTextReport(t *testing.T) {
	eng := &fakeEngine{}
	res, err := LintText(context.Background(), source.NewFileSet(), "<text>", "var a = bad", Options{Engine: eng})
	if err != nil {
		t.Fatalf("LintText: %v", err)
	}
	want := "1::5::Missing semicolon.\n0::0::Implied globals:window"
	if res.Report != want {
		t.Fatalf("report = %q, want %q", res.Report, want)
	}
	if len(res.Lines) != 2 || res.Lines[1].Kind() != lint.KindImplied {
		t.Fatalf("unexpected parsed lines: %+v", res.Lines)
	}
	if res.Clean() || res.Cached {
		t.Fatalf("unexpected flags: clean=%v cached=%v", res.Clean(), res.Cached)
	}
	if len(res.Timing.Phases) != 2 {
		t.Fatalf("expected lint and report phases, got %+v", res.Timing.Phases)
	}
}

func TestLintTextClean(t *testing.T) {
	res, err := LintText(context.Background(), source.NewFileSet(), "<text>", "var a = 1;", Options{Engine: &fakeEngine{}})
	if err != nil {
		t.Fatalf("LintText: %v", err)
	}
	if res.Report != "" || len(res.Lines) != 0 || !res.Clean() {
		t.Fatalf("clean source produced %+v", res)
	}
}

func TestLintSourceNoEngine(t *testing.T) {
	_, err := LintText(context.Background(), source.NewFileSet(), "x", "x", Options{})
	if !errors.Is(err, ErrNoEngine) {
		t.Fatalf("expected ErrNoEngine, got %v", err)
	}
}

func TestLintUsesCache(t *testing.T) {
	c, err := cache.OpenDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	eng := &fakeEngine{}
	opts := Options{Engine: eng, Cache: c, RuntimeKey: "fake"}

	first, err := LintText(context.Background(), source.NewFileSet(), "a.js", "bad()", opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := LintText(context.Background(), source.NewFileSet(), "a.js", "bad()", opts)
	if err != nil {
		t.Fatal(err)
	}
	if eng.calls.Load() != 1 {
		t.Fatalf("engine called %d times, want 1", eng.calls.Load())
	}
	if first.Cached || !second.Cached {
		t.Fatalf("cached flags: first=%v second=%v", first.Cached, second.Cached)
	}
	if first.Report != second.Report {
		t.Fatalf("cached report differs:\n%q\n%q", first.Report, second.Report)
	}

	opts.RuntimeKey = "other"
	if third, err := LintText(context.Background(), source.NewFileSet(), "a.js", "bad()", opts); err != nil || third.Cached {
		t.Fatalf("different runtime key must miss the cache (cached=%v err=%v)", third != nil && third.Cached, err)
	}
}

func TestLintPathMissing(t *testing.T) {
	_, err := LintPath(context.Background(), source.NewFileSet(), filepath.Join(t.TempDir(), "nope.js"), Options{Engine: &fakeEngine{}})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLintDirSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.js"), "bad")
	writeFile(t, filepath.Join(dir, "a.js"), "ok();")
	writeFile(t, filepath.Join(dir, "sub", "c.JS"), "bad")
	writeFile(t, filepath.Join(dir, "node_modules", "dep.js"), "bad")
	writeFile(t, filepath.Join(dir, ".hidden", "h.js"), "bad")
	writeFile(t, filepath.Join(dir, "readme.txt"), "bad")

	results, err := LintDir(context.Background(), source.NewFileSet(), dir, nil, Options{Engine: &fakeEngine{}, Jobs: 2})
	if err != nil {
		t.Fatalf("LintDir: %v", err)
	}
	var got []string
	for _, r := range results {
		rel, _ := filepath.Rel(dir, r.Path)
		got = append(got, filepath.ToSlash(rel))
	}
	want := []string{"a.js", "b.js", "sub/c.JS"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("files = %v, want %v", got, want)
	}
	if results[0].Report != "" || results[1].Report == "" {
		t.Fatalf("unexpected reports: %q / %q", results[0].Report, results[1].Report)
	}
}

func TestLintDirEngineError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.js"), "boom")
	writeFile(t, filepath.Join(dir, "b.js"), "ok")

	_, err := LintDir(context.Background(), source.NewFileSet(), dir, nil, Options{Engine: &fakeEngine{}, Jobs: 1})
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected engine error, got %v", err)
	}
}

func TestLintDirEmpty(t *testing.T) {
	results, err := LintDir(context.Background(), source.NewFileSet(), t.TempDir(), nil, Options{Engine: &fakeEngine{}})
	if err != nil || len(results) != 0 {
		t.Fatalf("empty dir: results=%v err=%v", results, err)
	}
}

func TestProgressEvents(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.js"), "bad")

	ch := make(chan Event, 32)
	_, err := LintDir(context.Background(), source.NewFileSet(), dir, nil, Options{Engine: &fakeEngine{}, Progress: ChannelSink{Ch: ch}})
	if err != nil {
		t.Fatal(err)
	}
	close(ch)

	var seq []string
	for evt := range ch {
		seq = append(seq, string(evt.Stage)+":"+string(evt.Status))
	}
	want := []string{
		"read:queued", "read:working", "read:done",
		"lint:working", "lint:done",
		"report:working", "report:done",
	}
	if strings.Join(seq, " ") != strings.Join(want, " ") {
		t.Fatalf("events = %v\nwant %v", seq, want)
	}
}

// bangEngine reports the character offset of the first '!' on line 1.
type bangEngine struct{}

func (bangEngine) Name() string { return "bang" }

func (bangEngine) Lint(_ context.Context, src []byte) (lint.Result, error) {
	text := string(src)
	i := strings.IndexByte(text, '!')
	if i < 0 {
		return lint.Clean(), nil
	}
	return lint.Failed([]*lint.Error{{Line: 0, Character: utf8.RuneCountInString(text[:i]), Reason: "bang"}}), nil
}

func TestLintPathKeepsDecomposedText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accent.js")
	writeFile(t, path, "e\u0301!") // decomposed é

	tests := []struct {
		name string
		nfc  bool
		want string
	}{
		{"raw by default", false, "1::3::bang"},
		{"composed on request", true, "1::2::bang"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := source.NewFileSet()
			fs.ComposeNFC(tt.nfc)
			res, err := LintPath(context.Background(), fs, path, Options{Engine: bangEngine{}})
			if err != nil {
				t.Fatalf("LintPath: %v", err)
			}
			if res.Report != tt.want {
				t.Fatalf("report = %q, want %q", res.Report, tt.want)
			}
		})
	}
}

func TestLintTextChecks(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		checks bool
		want   string
	}{
		{"off keeps clean empty", "var a = 1; ", false, ""},
		{"clean engine", "var a = 1; ", true, "1::0::Line has trailing whitespace."},
		{"after engine report", "var a = bad\n\tb;", true, "1::5::Missing semicolon.\n0::0::Implied globals:window\n2::0::Line contains a tab character."},
		{"nothing to flag", "var a = 1;", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := LintText(context.Background(), source.NewFileSet(), "<text>", tt.text, Options{Engine: &fakeEngine{}, TextChecks: tt.checks})
			if err != nil {
				t.Fatalf("LintText: %v", err)
			}
			if res.Report != tt.want {
				t.Fatalf("report = %q, want %q", res.Report, tt.want)
			}
			if len(res.Kinds) != len(res.Lines) {
				t.Fatalf("kinds %v do not match lines %+v", res.Kinds, res.Lines)
			}
		})
	}
}

// positionlessEngine returns a diagnostic the reporter clamps to 0::0 and a fatal sentinel.
type positionlessEngine struct{}

func (positionlessEngine) Name() string { return "positionless" }

func (positionlessEngine) Lint(context.Context, []byte) (lint.Result, error) {
	return lint.Failed([]*lint.Error{{Line: -1, Character: -1, Reason: "Missing semicolon."}, nil}), nil
}

func TestLintSourceKindsUseFatalMessage(t *testing.T) {
	opts := Options{Engine: positionlessEngine{}, Reporter: lint.Reporter{FatalMessage: "engine gave up"}}
	res, err := LintText(context.Background(), source.NewFileSet(), "<text>", "x", opts)
	if err != nil {
		t.Fatalf("LintText: %v", err)
	}
	if res.Report != "0::0::Missing semicolon.\n0::0::engine gave up" {
		t.Fatalf("report = %q", res.Report)
	}
	want := []lint.LineKind{lint.KindDiagnostic, lint.KindFatal}
	for i, k := range want {
		if res.LineKind(i) != k {
			t.Fatalf("line %d kind = %s, want %s", i, res.LineKind(i), k)
		}
	}
}
