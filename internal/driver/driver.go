package driver

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"jsreport/internal/cache"
	"jsreport/internal/engine"
	"jsreport/internal/lint"
	"jsreport/internal/observ"
	"jsreport/internal/source"
	"jsreport/internal/trace"
)

// ErrNoEngine is returned when Options carry no engine.
var ErrNoEngine = errors.New("no lint engine configured")

// Options configure a lint run.
type Options struct {
	Engine   engine.Engine
	Reporter lint.Reporter
	// Cache is optional; nil disables result caching.
	Cache *cache.Cache
	// BundleDigest identifies the engine script in cache keys.
	BundleDigest [32]byte
	// RuntimeKey distinguishes engine invocations (runtime name, command line).
	RuntimeKey string
	Progress   ProgressSink
	// Jobs bounds LintFiles parallelism; 0 means runtime.NumCPU().
	Jobs int
	// TextChecks appends lint.CheckText records after the engine report.
	TextChecks bool
}

// FileResult is the outcome of linting one source.
type FileResult struct {
	Path   string
	FileID source.FileID
	Result lint.Result
	Report string
	Lines  []lint.Line
	// Kinds classifies Lines against the run's fatal message.
	Kinds  []lint.LineKind
	Cached bool
	Timing observ.Report
}

// Clean reports whether the engine accepted the source.
func (r *FileResult) Clean() bool {
	return r.Result.OK
}

// LineKind returns the kind of Lines[i], falling back to the default
// fatal message when Kinds was not filled in.
func (r *FileResult) LineKind(i int) lint.LineKind {
	if i < len(r.Kinds) {
		return r.Kinds[i]
	}
	return r.Lines[i].Kind()
}

// LintSource lints a file already stored in fs: cache lookup, engine, report.
func LintSource(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) (*FileResult, error) {
	if opts.Engine == nil {
		return nil, ErrNoEngine
	}
	file := fs.Get(id)
	if file == nil {
		return nil, fmt.Errorf("unknown file id %d", id)
	}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "lint:"+file.Path, trace.CurrentSpan(ctx).SpanID)
	ctx = trace.WithSpan(ctx, span)

	timer := observ.NewTimer()
	out := &FileResult{Path: file.Path, FileID: id}

	start := time.Now()
	emit(opts.Progress, Event{File: file.Path, Stage: StageLint, Status: StatusWorking})
	stop := timer.Start(string(StageLint))

	key := cacheKey(opts, file)
	res, hit := lookup(opts.Cache, key, tracer)
	if hit {
		out.Cached = true
		trace.Point(tracer, trace.ScopeFile, "cache:hit", file.Path)
		stop("cached")
	} else {
		var err error
		res, err = opts.Engine.Lint(ctx, file.Content)
		if err != nil {
			stop("error")
			trace.Fail(tracer, trace.ScopeFile, "lint:"+file.Path, err)
			span.End("error")
			emit(opts.Progress, Event{File: file.Path, Stage: StageLint, Status: StatusError, Err: err, Elapsed: time.Since(start)})
			return nil, fmt.Errorf("%s: %w", file.Path, err)
		}
		stop(opts.Engine.Name())
		if opts.Cache != nil {
			if err := opts.Cache.Put(key, res); err != nil {
				trace.Fail(tracer, trace.ScopeFile, "cache:put", err)
			}
		}
	}
	out.Result = res
	emit(opts.Progress, Event{File: file.Path, Stage: StageLint, Status: StatusDone, Elapsed: time.Since(start)})

	stop = timer.Start(string(StageReport))
	emit(opts.Progress, Event{File: file.Path, Stage: StageReport, Status: StatusWorking})
	out.Report = buildReport(opts, res, file.Content)
	lines, err := lint.ParseReport(out.Report)
	if err != nil {
		stop("error")
		span.End("error")
		emit(opts.Progress, Event{File: file.Path, Stage: StageReport, Status: StatusError, Err: err})
		return nil, fmt.Errorf("%s: %w", file.Path, err)
	}
	out.Lines = lines
	out.Kinds = make([]lint.LineKind, len(lines))
	for i, l := range lines {
		out.Kinds[i] = opts.Reporter.Classify(l)
	}
	stop(fmt.Sprintf("%d lines", len(lines)))
	emit(opts.Progress, Event{File: file.Path, Stage: StageReport, Status: StatusDone, Elapsed: time.Since(start)})

	out.Timing = timer.Report()
	span.WithExtra("cached", fmt.Sprint(out.Cached)).End(fmt.Sprintf("ok=%t", res.OK))
	return out, nil
}

// LintPath reads path from disk into fs and lints it.
func LintPath(ctx context.Context, fs *source.FileSet, path string, opts Options) (*FileResult, error) {
	id, err := readFile(fs, path, opts.Progress)
	if err != nil {
		return nil, err
	}
	return LintSource(ctx, fs, id, opts)
}

// LintText lints in-memory text under the display name name.
func LintText(ctx context.Context, fs *source.FileSet, name, text string, opts Options) (*FileResult, error) {
	id := fs.AddVirtual(name, []byte(text))
	emit(opts.Progress, Event{File: name, Stage: StageRead, Status: StatusDone})
	return LintSource(ctx, fs, id, opts)
}

// LintDir lints every script under dir in parallel. Results follow sorted path order.
// The first failure cancels the files still waiting.
func LintDir(ctx context.Context, fs *source.FileSet, dir string, exts []string, opts Options) ([]*FileResult, error) {
	files, err := source.ListScripts(dir, exts)
	if err != nil {
		return nil, err
	}
	return LintFiles(ctx, fs, files, opts)
}

// LintFiles lints the given paths in parallel, bounded by opts.Jobs.
// Results keep the order of paths.
func LintFiles(ctx context.Context, fs *source.FileSet, files []string, opts Options) ([]*FileResult, error) {
	if len(files) == 0 {
		return nil, nil
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeCommand, "lint-files", trace.CurrentSpan(ctx).SpanID).
		WithExtra("files", fmt.Sprint(len(files)))
	ctx = trace.WithSpan(ctx, span)
	defer span.End("")

	for _, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]*FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			id, err := readFile(fs, path, opts.Progress)
			if err != nil {
				return err
			}
			res, err := LintSource(gctx, fs, id, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func readFile(fs *source.FileSet, path string, sink ProgressSink) (source.FileID, error) {
	start := time.Now()
	emit(sink, Event{File: path, Stage: StageRead, Status: StatusWorking})
	id, err := fs.Load(path)
	if err != nil {
		emit(sink, Event{File: path, Stage: StageRead, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	emit(sink, Event{File: path, Stage: StageRead, Status: StatusDone, Elapsed: time.Since(start)})
	return id, nil
}

// buildReport renders the engine report, then the text-check records when enabled.
func buildReport(opts Options, res lint.Result, content []byte) string {
	report := opts.Reporter.BuildReport(res)
	if !opts.TextChecks || len(content) == 0 {
		return report
	}
	records := lint.CheckText(string(content))
	if report != "" {
		records = append([]string{report}, records...)
	}
	return strings.Join(records, "\n")
}

func cacheKey(opts Options, file *source.File) cache.Digest {
	return cache.Combine(cache.Digest(opts.BundleDigest), cache.Digest(file.Hash), cache.Sum(opts.RuntimeKey))
}

func lookup(c *cache.Cache, key cache.Digest, tracer trace.Tracer) (lint.Result, bool) {
	if c == nil {
		return lint.Result{}, false
	}
	res, ok, err := c.Get(key)
	if err != nil {
		// битая запись: считаем промахом, она будет перезаписана
		trace.Fail(tracer, trace.ScopeFile, "cache:get "+hex.EncodeToString(key[:4]), err)
		return lint.Result{}, false
	}
	return res, ok
}
