package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestCurrent_Defaults(t *testing.T) {
	origVersion := Version
	defer func() { Version = origVersion }()

	Version = "  "
	if got := Current().Version; got != "dev" {
		t.Fatalf("blank version = %q, want dev", got)
	}

	Version = " 1.2.3 "
	GitCommit = " abc123 "
	defer func() { GitCommit = "" }()
	info := Current()
	if info.Version != "1.2.3" || info.GitCommit != "abc123" {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestColored(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = orig }()

	tests := []string{
		"0.1.0",
		"0.1.0-dev",
		"1.2.3-rc.1+build.123",
		"dev",
		"1.2",
	}
	for _, v := range tests {
		if got := Colored(v); got != v {
			t.Errorf("Colored(%q) without color = %q", v, got)
		}
	}
}

func TestColored_Paints(t *testing.T) {
	orig := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = orig }()

	if got := Colored("1.2.3"); got == "1.2.3" {
		t.Fatal("expected escape sequences around version parts")
	}
	if got := Colored("dev"); got != "dev" {
		t.Fatalf("non-semver must be untouched, got %q", got)
	}
}
