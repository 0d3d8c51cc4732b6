package lint

import (
	"strings"
	"unicode/utf8"
)

// MaxLineLength is the longest line CheckText accepts, in characters.
const MaxLineLength = 78

// Reasons produced by CheckText.
const (
	ReasonLineTooLong        = "Line exceeds 78 characters."
	ReasonTrailingWhitespace = "Line has trailing whitespace."
	ReasonConflictMarker     = "File has conflicts."
	ReasonTabCharacter       = "Line contains a tab character."
)

// CheckText runs the plain-text checks that accompany the engine: line
// length, trailing spaces, merge-conflict markers and tabs. Each finding is
// a "<line>::0::<reason>" record; within a line the checks keep that order.
func CheckText(src string) []string {
	var out []string
	for i, line := range splitLines(src) {
		n := i + 1
		if utf8.RuneCountInString(line) > MaxLineLength {
			out = append(out, formatLine(n, 0, ReasonLineTooLong))
		}
		if strings.HasSuffix(line, " ") {
			out = append(out, formatLine(n, 0, ReasonTrailingWhitespace))
		}
		if strings.HasPrefix(line, "<<<<<<<") || strings.HasPrefix(line, ">>>>>>>") {
			out = append(out, formatLine(n, 0, ReasonConflictMarker))
		}
		if strings.Contains(line, "\t") {
			out = append(out, formatLine(n, 0, ReasonTabCharacter))
		}
	}
	return out
}

// splitLines breaks src at \n, \r\n and lone \r. A final terminator does not
// start another line.
func splitLines(src string) []string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.ReplaceAll(src, "\r", "\n")
	src = strings.TrimSuffix(src, "\n")
	if src == "" {
		return nil
	}
	return strings.Split(src, "\n")
}
