package trace

import (
	"fmt"
	"strings"
	"time"
)

// Kind is the type of a trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindFailure
)

// Scope is the granularity of an event; lower values are coarser.
type Scope uint8

const (
	ScopeCommand Scope = iota + 1 // a whole CLI command
	ScopeFile                     // one linted source
	ScopeEngine                   // one engine invocation
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff Level = iota
	LevelError
	LevelPhase
	LevelDetail
	LevelDebug
)

var (
	kindNames  = [...]string{KindSpanBegin: "begin", KindSpanEnd: "end", KindPoint: "point", KindFailure: "failure"}
	scopeNames = [...]string{ScopeCommand: "command", ScopeFile: "file", ScopeEngine: "engine"}
	levelNames = [...]string{LevelOff: "off", LevelError: "error", LevelPhase: "phase", LevelDetail: "detail", LevelDebug: "debug"}
)

func nameOf(names []string, i int) string {
	if i < len(names) && names[i] != "" {
		return names[i]
	}
	return "unknown"
}

func (k Kind) String() string  { return nameOf(kindNames[:], int(k)) }
func (s Scope) String() string { return nameOf(scopeNames[:], int(s)) }
func (l Level) String() string { return nameOf(levelNames[:], int(l)) }

// ParseLevel accepts a level name; the empty string means off.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelOff, nil
	}
	for l, name := range levelNames {
		if name == s {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|detail|debug)", s)
}

// finest is the deepest scope each level lets through. Failures pass
// whenever tracing is on.
var finest = [...]Scope{LevelOff: 0, LevelError: 0, LevelPhase: ScopeCommand, LevelDetail: ScopeFile, LevelDebug: ScopeEngine}

// ShouldEmit reports whether an event of scope and kind passes l.
func (l Level) ShouldEmit(scope Scope, kind Kind) bool {
	if l == LevelOff || int(l) >= len(finest) {
		return false
	}
	return kind == KindFailure || scope <= finest[l]
}

// Event is one trace record.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for root spans
	Name     string
	Detail   string
	Extra    map[string]string
}
