package reportfmt

import (
	"fmt"
	"io"
	"strings"

	"jsreport/internal/driver"
	"jsreport/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto keeps short or relative paths as given.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

func (m PathMode) String() string {
	switch m {
	case PathModeAbsolute:
		return "absolute"
	case PathModeRelative:
		return "relative"
	case PathModeBasename:
		return "basename"
	default:
		return "auto"
	}
}

// ParsePathMode accepts auto, absolute, relative or basename.
func ParsePathMode(s string) (PathMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return PathModeAuto, nil
	case "absolute", "abs":
		return PathModeAbsolute, nil
	case "relative", "rel":
		return PathModeRelative, nil
	case "basename", "base":
		return PathModeBasename, nil
	default:
		return PathModeAuto, fmt.Errorf("unknown path mode %q", s)
	}
}

// Options configure every output format.
type Options struct {
	Color    bool
	PathMode PathMode
	// BaseDir anchors relative paths; empty means the file set's base.
	BaseDir string
}

// displayPath resolves the path printed for r.
func displayPath(fs *source.FileSet, r *driver.FileResult, opts Options) string {
	if fs == nil {
		return r.Path
	}
	f := fs.Get(r.FileID)
	if f == nil {
		return r.Path
	}
	base := opts.BaseDir
	if base == "" && opts.PathMode == PathModeRelative {
		base = fs.BaseDir()
	}
	return f.FormatPath(opts.PathMode.String(), base)
}

// Format names an output format on the command line.
type Format string

const (
	FormatPlain   Format = "plain"
	FormatConsole Format = "console"
	FormatPretty  Format = "pretty"
	FormatJSON    Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPlain, nil
	case FormatPlain, FormatConsole, FormatPretty, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q (must be plain, console, pretty or json)", s)
	}
}

// Write renders results in the given format.
func Write(format Format, w io.Writer, fs *source.FileSet, results []*driver.FileResult, opts Options) error {
	switch format {
	case FormatConsole:
		return Console(w, fs, results, opts)
	case FormatPretty:
		return Pretty(w, fs, results, opts)
	case FormatJSON:
		return JSON(w, fs, results, opts)
	default:
		return Plain(w, fs, results, opts)
	}
}
