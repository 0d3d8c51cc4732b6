package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dop251/goja"

	"jsreport/internal/lint"
	"jsreport/internal/trace"
)

// Embedded runs the bundle inside a goja VM. Each Lint call gets a fresh VM,
// so nothing the engine stores on its globals survives between files.
type Embedded struct {
	Bundle  *Bundle
	Timeout time.Duration

	program *goja.Program
}

// NewEmbedded compiles the bundle once; the compiled program is shared by all runs.
func NewEmbedded(b *Bundle, timeout time.Duration) (*Embedded, error) {
	if b == nil {
		return nil, fmt.Errorf("missing lint engine bundle")
	}
	prog, err := goja.Compile(b.Path, string(b.Source), false)
	if err != nil {
		return nil, fmt.Errorf("failed to compile lint engine %s: %w", b.Path, err)
	}
	return &Embedded{Bundle: b, Timeout: timeout, program: prog}, nil
}

// Name implements Engine.
func (e *Embedded) Name() string { return string(RuntimeEmbedded) }

// Lint implements Engine.
func (e *Embedded) Lint(ctx context.Context, src []byte) (res lint.Result, err error) {
	if isBlank(src) {
		return lint.Clean(), nil
	}
	ctx, cancel := withTimeout(ctx, e.Timeout)
	defer cancel()

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeEngine, "engine:embedded", trace.CurrentSpan(ctx).SpanID)
	defer func() {
		detail := "clean"
		if err != nil {
			detail = err.Error()
		} else if !res.OK {
			detail = fmt.Sprintf("%d errors", len(res.Errors))
		}
		span.End(detail)
	}()

	vm := goja.New()
	stop := context.AfterFunc(ctx, func() {
		vm.Interrupt(ctx.Err())
	})
	defer stop()

	if _, err := vm.RunProgram(e.program); err != nil {
		return lint.Result{}, vmError(ctx, "failed to load lint engine", err)
	}

	jslint := vm.Get("JSLINT")
	fn, ok := goja.AssertFunction(jslint)
	if !ok {
		return lint.Result{}, ErrNoEntryPoint
	}
	verdict, err := fn(goja.Undefined(), vm.ToValue(string(src)))
	if err != nil {
		return lint.Result{}, vmError(ctx, "lint engine failed", err)
	}

	obj := jslint.ToObject(vm)
	return Decode(verdict.ToBoolean(), export(obj.Get("errors")), impliedValue(vm, obj)), nil
}

// impliedValue prefers JSLINT.implied and falls back to JSLINT.data().implieds.
func impliedValue(vm *goja.Runtime, obj *goja.Object) any {
	if v := export(obj.Get("implied")); v != nil {
		return v
	}
	data, ok := goja.AssertFunction(obj.Get("data"))
	if !ok {
		return nil
	}
	report, err := data(obj)
	if err != nil || goja.IsUndefined(report) || goja.IsNull(report) {
		return nil
	}
	return export(report.ToObject(vm).Get("implieds"))
}

func export(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	return v.Export()
}

func vmError(ctx context.Context, msg string, err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) && ctx.Err() != nil {
		return fmt.Errorf("%s: %w", msg, ctx.Err())
	}
	return fmt.Errorf("%s: %w", msg, err)
}
