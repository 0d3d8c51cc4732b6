package lint

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedLine is wrapped by parse errors for lines that are not ReportLine records.
var ErrMalformedLine = errors.New("malformed report line")

// LineKind classifies a parsed report line.
type LineKind uint8

const (
	// KindDiagnostic is a positioned engine diagnostic.
	KindDiagnostic LineKind = iota
	// KindFatal is a line without a position (engine abort or malformed entry).
	KindFatal
	KindImplied
)

func (k LineKind) String() string {
	switch k {
	case KindDiagnostic:
		return "diagnostic"
	case KindFatal:
		return "fatal"
	case KindImplied:
		return "implied"
	}
	return "unknown"
}

// Line is one parsed ReportLine. Positions are 1-based; 0 means "no position".
type Line struct {
	Line      int
	Character int
	Reason    string
}

// Kind classifies the line against DefaultFatalMessage.
func (l Line) Kind() LineKind {
	return defaultReporter.Classify(l)
}

// Classify reports what produced l. A line without a position is fatal only
// when its reason is r's fatal message; a diagnostic clamped to 0::0 keeps
// its kind.
func (r Reporter) Classify(l Line) LineKind {
	switch {
	case l.Line != 0 || l.Character != 0:
		return KindDiagnostic
	case strings.HasPrefix(l.Reason, ImpliedPrefix):
		return KindImplied
	case l.Reason == r.fatalMessage():
		return KindFatal
	}
	return KindDiagnostic
}

// Implied returns the names listed by an implied-globals line.
func (l Line) Implied() []string {
	if l.Kind() != KindImplied {
		return nil
	}
	rest := strings.TrimPrefix(l.Reason, ImpliedPrefix)
	if rest == "" {
		return nil
	}
	return strings.Split(rest, ", ")
}

func (l Line) String() string {
	return formatLine(l.Line, l.Character, l.Reason)
}

// ParseReportLine splits a single "<line>::<character>::<reason>" record.
// The reason may contain "::" itself.
func ParseReportLine(s string) (Line, error) {
	s = strings.TrimRight(s, "\r")
	parts := strings.SplitN(s, fieldSep, 3)
	if len(parts) != 3 {
		return Line{}, fmt.Errorf("%w: %q", ErrMalformedLine, s)
	}
	line, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Line{}, fmt.Errorf("%w: bad line %q", ErrMalformedLine, parts[0])
	}
	char, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Line{}, fmt.Errorf("%w: bad character %q", ErrMalformedLine, parts[1])
	}
	if line < 0 || char < 0 {
		return Line{}, fmt.Errorf("%w: negative position in %q", ErrMalformedLine, s)
	}
	return Line{Line: line, Character: char, Reason: parts[2]}, nil
}

// ParseReport parses a whole report. Blank lines are skipped, and the first
// malformed line aborts parsing with its 1-based line number. Reasons keep
// their trailing spaces.
func ParseReport(report string) ([]Line, error) {
	var out []Line
	for i, s := range strings.Split(report, "\n") {
		if strings.TrimSpace(s) == "" {
			continue
		}
		l, err := ParseReportLine(s)
		if err != nil {
			return nil, fmt.Errorf("report line %d: %w", i+1, err)
		}
		out = append(out, l)
	}
	return out, nil
}
