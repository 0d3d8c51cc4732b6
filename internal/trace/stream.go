package trace

import (
	"io"
	"sync"
	"time"
)

// StreamTracer encodes each event as it arrives and writes it straight through.
type StreamTracer struct {
	level  Level
	encode func(*Event) []byte

	mu sync.Mutex
	w  io.Writer
}

// NewStreamTracer writes events passing level to w in format.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	t := &StreamTracer{w: w, level: level, encode: encodeNDJSON}
	if format != FormatNDJSON {
		start := time.Now()
		t.encode = func(ev *Event) []byte { return encodeText(ev, start) }
	}
	return t
}

func (t *StreamTracer) Emit(ev *Event) {
	if ev == nil || !t.level.ShouldEmit(ev.Scope, ev.Kind) {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	if ev.Seq == 0 {
		ev.Seq = NextSeq()
	}
	line := t.encode(ev)

	t.mu.Lock()
	// ошибки записи трассы не должны прерывать линтинг
	_, _ = t.w.Write(line)
	t.mu.Unlock()
}

func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return flushWriter(t.w)
}

// Close flushes and closes the underlying writer when it is an io.Closer.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := flushWriter(t.w); err != nil {
		return err
	}
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }

func flushWriter(w io.Writer) error {
	if f, ok := w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}
