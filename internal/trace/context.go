package trace

import "context"

type stateKey struct{}

// state is what a context carries: the tracer and the innermost open span.
type state struct {
	tracer Tracer
	span   uint64
}

func stateOf(ctx context.Context) state {
	if ctx != nil {
		if st, ok := ctx.Value(stateKey{}).(state); ok {
			return st
		}
	}
	return state{tracer: Nop}
}

// FromContext returns the context's tracer, or Nop.
func FromContext(ctx context.Context) Tracer {
	return stateOf(ctx).tracer
}

// WithTracer attaches t to ctx. A nil t means Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	st := stateOf(ctx)
	st.tracer = t
	return context.WithValue(ctx, stateKey{}, st)
}

// SpanContext identifies the span new spans should use as parent.
type SpanContext struct {
	SpanID uint64
}

// CurrentSpan returns the innermost span recorded in ctx.
func CurrentSpan(ctx context.Context) SpanContext {
	return SpanContext{SpanID: stateOf(ctx).span}
}

// WithSpan makes s the parent of spans started from the returned context.
// Untraced spans leave ctx unchanged.
func WithSpan(ctx context.Context, s *Span) context.Context {
	if s.ID() == 0 {
		return ctx
	}
	st := stateOf(ctx)
	st.span = s.ID()
	return context.WithValue(ctx, stateKey{}, st)
}
