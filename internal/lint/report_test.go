package lint

import (
	"math"
	"slices"
	"testing"
)

func TestFormatErrorsOneBased(t *testing.T) {
	got := FormatErrors([]*Error{{Line: 0, Character: 0, Reason: "X"}})
	if want := []string{"1::1::X"}; !slices.Equal(got, want) {
		t.Fatalf("FormatErrors = %q, want %q", got, want)
	}
}

func TestFormatErrorsPreservesOrder(t *testing.T) {
	errs := []*Error{
		{Line: 9, Character: 2, Reason: "late"},
		{Line: 0, Character: 5, Reason: "early"},
		{Line: 3, Character: 0, Reason: "middle"},
	}
	want := []string{"10::3::late", "1::6::early", "4::1::middle"}
	if got := FormatErrors(errs); !slices.Equal(got, want) {
		t.Fatalf("FormatErrors = %q, want %q", got, want)
	}
}

func TestFormatErrorsFatalSentinel(t *testing.T) {
	tests := []struct {
		name string
		errs []*Error
		want []string
	}{
		{
			name: "only nil",
			errs: []*Error{nil},
			want: []string{"0::0::JSLINT had a fatal error."},
		},
		{
			name: "nil first",
			errs: []*Error{nil, {Line: 1, Character: 1, Reason: "a"}},
			want: []string{"0::0::JSLINT had a fatal error.", "2::2::a"},
		},
		{
			name: "nil last",
			errs: []*Error{{Line: 1, Character: 1, Reason: "a"}, nil},
			want: []string{"2::2::a", "0::0::JSLINT had a fatal error."},
		},
		{
			name: "missing reason",
			errs: []*Error{{Line: 7, Character: 3}},
			want: []string{"0::0::JSLINT had a fatal error."},
		},
		{
			name: "minus one sentinel converges",
			errs: []*Error{{Line: -1, Character: -1, Reason: "JSLINT had a fatal error."}},
			want: []string{"0::0::JSLINT had a fatal error."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatErrors(tt.errs); !slices.Equal(got, tt.want) {
				t.Fatalf("FormatErrors = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatErrorsCustomFatalMessage(t *testing.T) {
	r := Reporter{FatalMessage: "engine gave up"}
	got := r.FormatErrors([]*Error{{Line: 0, Character: 1, Reason: "x"}, nil})
	want := []string{"1::2::x", "0::0::engine gave up"}
	if !slices.Equal(got, want) {
		t.Fatalf("FormatErrors = %q, want %q", got, want)
	}
}

func TestFormatErrorsSingleLineReason(t *testing.T) {
	got := FormatErrors([]*Error{{Line: 1, Character: 2, Reason: "first\r\nsecond"}})
	if want := []string{"2::3::first second"}; !slices.Equal(got, want) {
		t.Fatalf("FormatErrors = %q, want %q", got, want)
	}
}

func TestFormatImpliedGlobalsSorted(t *testing.T) {
	implied := map[string]bool{"b": true, "a": true, "c": true}
	for range 10 {
		got, ok := FormatImpliedGlobals(implied)
		if !ok {
			t.Fatal("expected an implied globals line")
		}
		if want := "0::0::Implied globals:a, b, c"; got != want {
			t.Fatalf("FormatImpliedGlobals = %q, want %q", got, want)
		}
	}
}

func TestFormatImpliedGlobalsEmpty(t *testing.T) {
	for _, implied := range []map[string]bool{nil, {}, {"hidden": false}} {
		if got, ok := FormatImpliedGlobals(implied); ok || got != "" {
			t.Fatalf("FormatImpliedGlobals(%v) = %q, %v; want nothing", implied, got, ok)
		}
	}
}

func TestBuildReportScenarios(t *testing.T) {
	tests := []struct {
		name string
		res  Result
		want string
	}{
		{
			name: "missing semicolon",
			res:  Failed([]*Error{{Line: 4, Character: 10, Reason: "Missing semicolon"}}),
			want: "5::11::Missing semicolon",
		},
		{
			name: "fatal with implied",
			res:  Failed([]*Error{nil}, "foo"),
			want: "0::0::JSLINT had a fatal error.\n0::0::Implied globals:foo",
		},
		{
			name: "clean ignores implied",
			res:  Result{OK: true, Implied: map[string]bool{"foo": true}, Errors: []*Error{{Reason: "x"}}},
			want: "",
		},
		{
			name: "implied only",
			res:  Failed(nil, "window", "$"),
			want: "0::0::Implied globals:$, window",
		},
		{
			name: "failure without findings",
			res:  Result{},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildReport(tt.res); got != tt.want {
				t.Fatalf("BuildReport:\nwant:\n%s\n\ngot:\n%s", tt.want, got)
			}
		})
	}
}

func TestBuildReportIsPure(t *testing.T) {
	res := Failed([]*Error{{Line: 2, Character: 4, Reason: "Unused 'x'."}, nil}, "z", "y")
	first := BuildReport(res)
	second := BuildReport(res)
	if first != second {
		t.Fatalf("BuildReport not deterministic:\n%s\n---\n%s", first, second)
	}
	if res.Errors[0].Line != 2 || res.Errors[0].Character != 4 {
		t.Fatalf("BuildReport mutated its input: %+v", res.Errors[0])
	}
}

func TestBuildReportOneLinePerEntry(t *testing.T) {
	errs := make([]*Error, 0, 50)
	for i := range 50 {
		if i%7 == 0 {
			errs = append(errs, nil)
			continue
		}
		errs = append(errs, &Error{Line: i, Character: i, Reason: "r"})
	}
	lines, err := ParseReport(BuildReport(Failed(errs)))
	if err != nil {
		t.Fatalf("ParseReport: %v", err)
	}
	if len(lines) != len(errs) {
		t.Fatalf("got %d lines, want %d", len(lines), len(errs))
	}
	for i, l := range lines {
		if errs[i] == nil {
			if l.Kind() != KindFatal {
				t.Fatalf("line %d: kind %s, want fatal", i, l.Kind())
			}
			continue
		}
		if l.Line != i+1 || l.Character != i+1 {
			t.Fatalf("line %d: got %d:%d", i, l.Line, l.Character)
		}
	}
}

func TestFormatErrorsSaturatesPositions(t *testing.T) {
	got := FormatErrors([]*Error{{Line: math.MaxInt, Character: 0, Reason: "far"}})
	lines, err := ParseReport(got[0])
	if err != nil {
		t.Fatalf("ParseReport(%q): %v", got[0], err)
	}
	if lines[0].Line != math.MaxInt || lines[0].Character != 1 {
		t.Fatalf("got %+v", lines[0])
	}
}
