package engine

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"jsreport/internal/lint"
	"jsreport/internal/trace"
)

//go:embed driver.js
var driverScript []byte

// DefaultCommand is the classic SpiderMonkey invocation: js -f <engine> <driver> <source>.
var DefaultCommand = []string{"js", "-f", "{engine}", "{driver}"}

const (
	engineVar = "{engine}"
	driverVar = "{driver}"
)

// Command runs the bundle in an external JavaScript shell.
// Argv is a template: {engine} and {driver} are replaced with script paths,
// and the source text is appended as the final argument.
type Command struct {
	Argv    []string
	Bundle  *Bundle
	Timeout time.Duration
}

// NewCommand validates the argv template.
func NewCommand(argv []string, b *Bundle, timeout time.Duration) (*Command, error) {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return nil, fmt.Errorf("empty lint engine command")
	}
	if b == nil {
		return nil, fmt.Errorf("missing lint engine bundle")
	}
	return &Command{Argv: append([]string(nil), argv...), Bundle: b, Timeout: timeout}, nil
}

// Name implements Engine.
func (c *Command) Name() string { return string(RuntimeExec) }

// Lint implements Engine.
func (c *Command) Lint(ctx context.Context, src []byte) (res lint.Result, err error) {
	if isBlank(src) {
		return lint.Clean(), nil
	}
	ctx, cancel := withTimeout(ctx, c.Timeout)
	defer cancel()

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeEngine, "engine:exec", trace.CurrentSpan(ctx).SpanID)
	defer func() {
		if err != nil {
			span.End(err.Error())
			return
		}
		span.End("")
	}()

	driverPath, cleanup, err := writeDriver()
	if err != nil {
		return lint.Result{}, err
	}
	defer cleanup()

	argv := c.expand(driverPath)
	argv = append(argv, string(src))
	span.WithExtra("argv0", argv[0])

	// #nosec G204 -- the command comes from operator configuration
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return lint.Result{}, fmt.Errorf("lint engine %s: %w", argv[0], ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return lint.Result{}, fmt.Errorf("lint engine %s: %w: %s", argv[0], err, msg)
		}
		return lint.Result{}, fmt.Errorf("lint engine %s: %w", argv[0], err)
	}

	line := lastLine(stdout.Bytes())
	if len(line) == 0 {
		return lint.Result{}, fmt.Errorf("%w: no verdict printed by %s", ErrBadOutput, argv[0])
	}
	return decodeJSON(line)
}

func (c *Command) expand(driverPath string) []string {
	out := make([]string, 0, len(c.Argv)+1)
	for _, arg := range c.Argv {
		arg = strings.ReplaceAll(arg, engineVar, c.Bundle.Path)
		arg = strings.ReplaceAll(arg, driverVar, driverPath)
		out = append(out, arg)
	}
	return out
}

func writeDriver() (string, func(), error) {
	f, err := os.CreateTemp("", "jsreport-driver-*.js")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create driver script: %w", err)
	}
	_, werr := f.Write(driverScript)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(f.Name())
		return "", nil, fmt.Errorf("failed to write driver script: %w", err)
	}
	return f.Name(), func() { _ = os.Remove(f.Name()) }, nil
}

// lastLine returns the last non-empty line; shells may print banners first.
func lastLine(out []byte) []byte {
	out = bytes.TrimSpace(out)
	if i := bytes.LastIndexByte(out, '\n'); i >= 0 {
		out = bytes.TrimSpace(out[i+1:])
	}
	return out
}
