// Package engine runs a JSLint-style JavaScript lint engine over source text
// and converts its loosely typed verdict into lint.Result values.
//
// The engine itself is an opaque third-party script. It must define a global
// JSLINT function that returns the overall verdict and leaves its findings in
// JSLINT.errors and JSLINT.implied (or JSLINT.data().implieds in newer
// editions). Embedded evaluates the script in-process; Command hands it to an
// external JavaScript shell the way classic lint wrappers did.
package engine

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"time"

	"jsreport/internal/lint"
)

// Runtime selects how the engine script is executed.
type Runtime string

const (
	// RuntimeEmbedded evaluates the bundle in an in-process VM.
	RuntimeEmbedded Runtime = "embedded"
	// RuntimeExec runs the bundle in an external JavaScript shell.
	RuntimeExec Runtime = "exec"
)

// ParseRuntime validates a runtime name.
func ParseRuntime(s string) (Runtime, error) {
	switch Runtime(s) {
	case RuntimeEmbedded, "":
		return RuntimeEmbedded, nil
	case RuntimeExec:
		return RuntimeExec, nil
	}
	return "", fmt.Errorf("unknown runtime %q (expected embedded|exec)", s)
}

var (
	// ErrNoEntryPoint is returned when the bundle does not define a callable JSLINT.
	ErrNoEntryPoint = errors.New("lint engine does not define a JSLINT function")
	// ErrBadOutput is returned when an external shell prints something that is not a verdict.
	ErrBadOutput = errors.New("lint engine produced unreadable output")
)

// Engine lints one source text.
type Engine interface {
	Lint(ctx context.Context, src []byte) (lint.Result, error)
	Name() string
}

// Bundle is the engine script, loaded once and shared by every run.
type Bundle struct {
	Path   string
	Source []byte
	Digest [32]byte
}

// LoadBundle reads the engine script from disk.
func LoadBundle(path string) (*Bundle, error) {
	// #nosec G304 -- path is provided by the operator
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lint engine: %w", err)
	}
	return NewBundle(path, content), nil
}

// NewBundle wraps in-memory engine source.
func NewBundle(name string, content []byte) *Bundle {
	return &Bundle{
		Path:   name,
		Source: content,
		Digest: sha256.Sum256(content),
	}
}

// withTimeout bounds a single engine run when d > 0.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// isBlank mirrors the classic wrappers, which never asked the engine about empty text.
func isBlank(src []byte) bool {
	return len(src) == 0
}
