package trace

import (
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns the next event sequence number.
func NextSeq() uint64 { return seqCounter.Add(1) }

// NextSpanID returns a fresh span ID; zero is never returned.
func NextSpanID() uint64 { return spanCounter.Add(1) }

// Span is an open begin/end pair. A disabled span still measures time.
type Span struct {
	tracer  Tracer
	begin   Event
	started time.Time
}

func live(t Tracer) bool {
	return t != nil && t.Enabled()
}

func send(t Tracer, ev Event) {
	ev.Time = time.Now()
	ev.Seq = NextSeq()
	t.Emit(&ev)
}

// Begin opens a span under parent (0 for a root span) and emits its begin event.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	s := &Span{tracer: Nop, started: time.Now()}
	if !live(t) || !t.Level().ShouldEmit(scope, KindSpanBegin) {
		return s
	}
	s.tracer = t
	s.begin = Event{
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   NextSpanID(),
		ParentID: parent,
		Name:     name,
	}
	send(t, s.begin)
	return s
}

// End emits the end event with detail and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil {
		return 0
	}
	dur := time.Since(s.started)
	if live(s.tracer) {
		ev := s.begin
		ev.Kind = KindSpanEnd
		ev.Detail = detail
		send(s.tracer, ev)
	}
	return dur
}

// WithExtra attaches a key/value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || !live(s.tracer) {
		return s
	}
	if s.begin.Extra == nil {
		s.begin.Extra = make(map[string]string, 2)
	}
	s.begin.Extra[key] = value
	return s
}

// ID returns the span ID, or 0 when the span is not traced.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.begin.SpanID
}

// Fail records err as a failure event. Nil errors are ignored.
func Fail(t Tracer, scope Scope, name string, err error) {
	if err == nil || !live(t) {
		return
	}
	send(t, Event{Kind: KindFailure, Scope: scope, Name: name, Detail: err.Error()})
}

// Point records an instant event.
func Point(t Tracer, scope Scope, name, detail string) {
	if !live(t) || !t.Level().ShouldEmit(scope, KindPoint) {
		return
	}
	send(t, Event{Kind: KindPoint, Scope: scope, Name: name, Detail: detail})
}
