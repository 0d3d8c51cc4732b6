package reportfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"jsreport/internal/driver"
	"jsreport/internal/lint"
	"jsreport/internal/source"
)

type palette struct {
	path    *color.Color
	pos     *color.Color
	fatal   *color.Color
	implied *color.Color
	ok      *color.Color
	cached  *color.Color
	summary *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		path:    color.New(color.Bold),
		pos:     color.New(color.FgCyan),
		fatal:   color.New(color.FgRed, color.Bold),
		implied: color.New(color.FgYellow),
		ok:      color.New(color.FgGreen),
		cached:  color.New(color.Faint),
		summary: color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.path, p.pos, p.fatal, p.implied, p.ok, p.cached, p.summary} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty prints a colored, column-aligned report per file followed by a summary.
// Clean files get a single "ok" line.
func Pretty(w io.Writer, fs *source.FileSet, results []*driver.FileResult, opts Options) error {
	pal := newPalette(opts.Color)
	var b strings.Builder
	flagged := 0
	for _, r := range results {
		if r == nil {
			continue
		}
		path := displayPath(fs, r, opts)
		suffix := ""
		if r.Cached {
			suffix = " " + pal.cached.Sprint("(cached)")
		}
		if len(r.Lines) == 0 {
			fmt.Fprintf(&b, "%s %s%s\n", pal.path.Sprint(path), pal.ok.Sprint("ok"), suffix)
			continue
		}
		flagged++
		fmt.Fprintf(&b, "%s%s\n", pal.path.Sprint(path), suffix)

		width := 0
		for _, l := range r.Lines {
			width = max(width, runewidth.StringWidth(position(l)))
		}
		for i, l := range r.Lines {
			pos := runewidth.FillRight(position(l), width)
			switch r.LineKind(i) {
			case lint.KindFatal:
				fmt.Fprintf(&b, "  %s  %s\n", pal.pos.Sprint(pos), pal.fatal.Sprint(l.Reason))
			case lint.KindImplied:
				fmt.Fprintf(&b, "  %s  %s\n", pal.pos.Sprint(pos), pal.implied.Sprint(l.Reason))
			default:
				fmt.Fprintf(&b, "  %s  %s\n", pal.pos.Sprint(pos), l.Reason)
			}
		}
	}
	if len(results) > 1 {
		fmt.Fprintf(&b, "%s\n", pal.summary.Sprintf("%d files, %d with findings", len(results), flagged))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func position(l lint.Line) string {
	return fmt.Sprintf("%d:%d", l.Line, l.Character)
}
