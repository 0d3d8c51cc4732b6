package lint

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

const (
	// DefaultFatalMessage is printed for entries the engine left without a position.
	DefaultFatalMessage = "JSLINT had a fatal error."

	// ImpliedPrefix starts the implied-globals summary reason.
	ImpliedPrefix = "Implied globals:"

	fieldSep = "::"
)

// Reporter formats lint results. The zero value uses DefaultFatalMessage.
type Reporter struct {
	FatalMessage string
}

var defaultReporter Reporter

// FormatErrors formats errs with the default reporter.
func FormatErrors(errs []*Error) []string {
	return defaultReporter.FormatErrors(errs)
}

// FormatImpliedGlobals formats implied with the default reporter.
func FormatImpliedGlobals(implied map[string]bool) (string, bool) {
	return defaultReporter.FormatImpliedGlobals(implied)
}

// BuildReport builds the report for res with the default reporter.
func BuildReport(res Result) string {
	return defaultReporter.BuildReport(res)
}

func (r Reporter) fatalMessage() string {
	if r.FatalMessage == "" {
		return DefaultFatalMessage
	}
	return r.FatalMessage
}

// FormatErrors renders one line per entry, in engine order.
func (r Reporter) FormatErrors(errs []*Error) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, r.formatError(e))
	}
	return out
}

func (r Reporter) formatError(e *Error) string {
	if e.malformed() {
		return formatLine(0, 0, r.fatalMessage())
	}
	// {-1,-1,...} записи после сдвига дают 0::0, как и фатальная строка.
	return formatLine(oneBased(e.Line), oneBased(e.Character), e.Reason)
}

// FormatImpliedGlobals renders the sorted implied-globals summary.
// The second result is false when there is nothing to report.
func (r Reporter) FormatImpliedGlobals(implied map[string]bool) (string, bool) {
	names := Result{Implied: implied}.ImpliedNames()
	if len(names) == 0 {
		return "", false
	}
	sort.Strings(names)
	return formatLine(0, 0, ImpliedPrefix+strings.Join(names, ", ")), true
}

// BuildReport renders the whole report for res. A clean verdict yields "".
func (r Reporter) BuildReport(res Result) string {
	if res.OK {
		return ""
	}
	lines := r.FormatErrors(res.Errors)
	if implied, ok := r.FormatImpliedGlobals(res.Implied); ok {
		lines = append(lines, implied)
	}
	return strings.Join(lines, "\n")
}

// oneBased shifts an engine position to 1-based, clamping negatives to 0
// and saturating at math.MaxInt.
func oneBased(pos int) int {
	switch {
	case pos < 0:
		return 0
	case pos == math.MaxInt:
		return pos
	}
	return pos + 1
}

func formatLine(line, char int, reason string) string {
	var b strings.Builder
	b.Grow(len(reason) + 16)
	b.WriteString(strconv.Itoa(line))
	b.WriteString(fieldSep)
	b.WriteString(strconv.Itoa(char))
	b.WriteString(fieldSep)
	b.WriteString(sanitizeReason(reason))
	return b.String()
}

// sanitizeReason keeps a reason on a single report line.
func sanitizeReason(msg string) string {
	if !strings.ContainsAny(msg, "\r\n") {
		return msg
	}
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	return strings.TrimSpace(strings.ReplaceAll(msg, "\n", " "))
}
