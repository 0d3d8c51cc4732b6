package source

import (
	"path/filepath"
	"testing"
)

func TestRelativePath(t *testing.T) {
	base := t.TempDir()
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"nested", filepath.Join(base, "lib", "app.js"), "lib/app.js"},
		{"base itself", base, "."},
		{"sibling falls back to absolute", filepath.Join(filepath.Dir(base), "elsewhere", "x.js"),
			normalizePath(filepath.Join(filepath.Dir(base), "elsewhere", "x.js"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RelativePath(tt.target, base)
			if err != nil {
				t.Fatalf("RelativePath: %v", err)
			}
			if got != tt.want {
				t.Fatalf("RelativePath(%q) = %q, want %q", tt.target, got, tt.want)
			}
		})
	}
}

func TestAbsolutePathUsesForwardSlashes(t *testing.T) {
	got, err := AbsolutePath("lib/../app.js")
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(filepath.FromSlash(got)) || filepath.Base(got) != "app.js" {
		t.Fatalf("AbsolutePath = %q", got)
	}
	if got != filepath.ToSlash(got) {
		t.Fatalf("expected forward slashes, got %q", got)
	}
}

func TestBaseName(t *testing.T) {
	for in, want := range map[string]string{
		"a/b/c.js": "c.js",
		"c.js":     "c.js",
		"a/b/":     "b",
	} {
		if got := BaseName(in); got != want {
			t.Errorf("BaseName(%q) = %q, want %q", in, got, want)
		}
	}
}
