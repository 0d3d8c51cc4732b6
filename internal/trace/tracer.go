package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Tracer receives events. Emit must be safe for concurrent use.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Close() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// Nop discards everything.
var Nop Tracer = nopTracer{}

// Config selects where and how events are written.
type Config struct {
	Level      Level
	Format     Format
	Output     io.Writer // wins over OutputPath
	OutputPath string    // "" or "-" is stderr
}

// New returns Nop for LevelOff and a StreamTracer otherwise.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	format := cfg.Format
	if format == FormatAuto {
		format = formatForPath(cfg.OutputPath)
	}

	w := cfg.Output
	if w == nil {
		switch cfg.OutputPath {
		case "", "-":
			// stderr must survive Close
			w = struct{ io.Writer }{os.Stderr}
		default:
			f, err := os.Create(cfg.OutputPath)
			if err != nil {
				return nil, fmt.Errorf("failed to open trace output: %w", err)
			}
			w = f
		}
	}
	return NewStreamTracer(w, cfg.Level, format), nil
}

func formatForPath(path string) Format {
	switch filepath.Ext(path) {
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	}
	return FormatText
}
