// Package trace is the structured event log of jsreport.
//
// It records where time goes while a lint run reads sources, waits on the
// JavaScript engine and renders reports, which is usually all one needs to
// explain a slow or stuck engine.
//
// # Usage
//
//	jsreport lint --trace=- --trace-level=detail src/
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: failures only
//   - LevelPhase: command boundaries
//   - LevelDetail: per-file events
//   - LevelDebug: everything, including engine invocations
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, path, 0)
//	defer span.End("")
package trace
