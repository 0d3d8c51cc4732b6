package lint

// Error is a single engine diagnostic. Line and Character are 0-based.
type Error struct {
	Line      int
	Character int
	Reason    string
}

// Result is what the engine hands back for one source text.
type Result struct {
	OK      bool
	Errors  []*Error
	Implied map[string]bool
}

// Clean returns a result with a clean verdict.
func Clean() Result {
	return Result{OK: true}
}

// Failed builds a failing result from engine-ordered errors and implied names.
func Failed(errs []*Error, implied ...string) Result {
	res := Result{Errors: errs}
	if len(implied) > 0 {
		res.Implied = make(map[string]bool, len(implied))
		for _, name := range implied {
			res.Implied[name] = true
		}
	}
	return res
}

// ImpliedNames returns the names with a truthy marker, in no particular order.
func (r Result) ImpliedNames() []string {
	names := make([]string, 0, len(r.Implied))
	for name, marked := range r.Implied {
		if marked {
			names = append(names, name)
		}
	}
	return names
}

// malformed reports whether the entry cannot be rendered with a position.
func (e *Error) malformed() bool {
	return e == nil || e.Reason == ""
}
