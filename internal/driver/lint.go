// Package driver lints batches of files: it expands patterns, runs one
// linter per file on a bounded worker pool, writes fixed documents back and
// caches results between runs.
package driver

import (
	"context"
	"crypto/sha256"
	"errors"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"cutesy/internal/diag"
	"cutesy/internal/linter"
	"cutesy/internal/observ"
	"cutesy/internal/source"
)

// LintOptions configures a batch run.
type LintOptions struct {
	// NewLinter builds the linter for one file. Linters aren't shared
	// between workers.
	NewLinter func() *linter.Linter
	Fix       bool
	Jobs      int
	// Cache is optional. Fingerprint must change whenever an option that
	// affects results changes.
	Cache       *DiskCache
	Fingerprint string
	Progress    ProgressSink
	// Timings records per-file phase durations in FileResult.Timing.
	Timings bool
}

// FileResult captures the result of linting a single file.
type FileResult struct {
	Path        string
	Diagnostics []diag.Diagnostic
	// Fatal is set when a structural error aborted the document; its
	// diagnostic is the last entry of Diagnostics.
	Fatal bool
	// Skipped is set for documents that aren't HTML5.
	Skipped bool
	// Fixed is set when a fixed document was written back.
	Fixed  bool
	Cached bool
	Err    error
	Timing *observ.Report
}

// Problems reports whether the file has diagnostics or failed.
func (r FileResult) Problems() bool {
	return len(r.Diagnostics) > 0 || r.Err != nil
}

// LintFiles lints files in parallel and returns results in the order of
// files. Errors of single files are reported in their FileResult; the
// returned error is set only when the run itself was canceled.
func LintFiles(ctx context.Context, files []string, opts LintOptions) ([]FileResult, error) {
	if opts.NewLinter == nil {
		opts.NewLinter = func() *linter.Linter { return linter.New(linter.WithFix(opts.Fix)) }
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	for _, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusQueued})
	}

	// Each goroutine writes only its own index, no mutex needed
	results := make([]FileResult, len(files))
	if len(files) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = lintFile(gctx, path, &opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func lintFile(ctx context.Context, path string, opts *LintOptions) (res FileResult) {
	res.Path = path
	timer := observ.NewTimer()
	start := time.Now()
	fail := func(stage Stage, err error) FileResult {
		emit(opts.Progress, Event{File: path, Stage: stage, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		res.Err = err
		return res
	}
	defer func() {
		if opts.Timings {
			report := timer.Report()
			res.Timing = &report
		}
	}()

	emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusWorking})
	idx := timer.Begin("read")
	fileSet := source.NewFileSet()
	id, err := fileSet.Load(path)
	timer.End(idx, "")
	if err != nil {
		return fail(StageRead, err)
	}
	file := fileSet.Get(id)

	emit(opts.Progress, Event{File: path, Stage: StageLint, Status: StatusWorking})
	key := Key(opts.Fingerprint, file.Hash)
	out, hit := lookup(opts.Cache, key)
	if hit {
		timer.End(timer.Begin("cache"), "hit")
		res.Cached = true
	} else {
		idx = timer.Begin("lint")
		out, err = lintContent(ctx, opts.NewLinter(), string(file.Content))
		timer.End(idx, "")
		if err != nil {
			return fail(StageLint, err)
		}
		if opts.Cache != nil {
			// A failed cache write only costs a relint next time.
			_ = opts.Cache.Put(key, toPayload(out))
		}
	}
	res.Diagnostics = out.diags
	res.Fatal = out.fatal
	res.Skipped = out.skipped

	if opts.Fix && out.changed {
		emit(opts.Progress, Event{File: path, Stage: StageWrite, Status: StatusWorking})
		idx = timer.Begin("write")
		err := os.WriteFile(path, file.Encode(out.output), file.Mode)
		timer.End(idx, "")
		if err != nil {
			return fail(StageWrite, err)
		}
		res.Fixed = true
		if opts.Cache != nil {
			// Fixing is idempotent: the written document lints clean of
			// fixable rules with the same leftovers.
			fixed := out
			fixed.changed, fixed.output = false, ""
			_ = opts.Cache.Put(Key(opts.Fingerprint, sha256.Sum256([]byte(out.output))), toPayload(fixed))
		}
	}

	status := StatusDone
	if res.Skipped {
		status = StatusSkipped
	}
	emit(opts.Progress, Event{File: path, Stage: StageLint, Status: status, Elapsed: time.Since(start)})
	return res
}

type outcome struct {
	diags   []diag.Diagnostic
	fatal   bool
	skipped bool
	changed bool
	output  string
}

// lintContent lints one document and folds the skip and structural error
// cases into the outcome.
func lintContent(ctx context.Context, l *linter.Linter, text string) (outcome, error) {
	res, err := l.Lint(ctx, text)
	switch {
	case err == nil:
	case errors.Is(err, diag.ErrDoctype):
		return outcome{skipped: true}, nil
	default:
		if se, ok := diag.AsStructural(err); ok {
			return outcome{diags: []diag.Diagnostic{se.Diagnostic}, fatal: true}, nil
		}
		return outcome{}, err
	}
	out := outcome{diags: res.Diagnostics}
	if l.Fix() && res.Output != text {
		out.changed = true
		out.output = res.Output
	}
	return out, nil
}

func lookup(cache *DiskCache, key Digest) (outcome, bool) {
	var payload CachedResult
	if ok, err := cache.Get(key, &payload); err != nil || !ok {
		return outcome{}, false
	}
	diags, ok := fromCached(payload.Diagnostics)
	if !ok {
		return outcome{}, false
	}
	return outcome{
		diags:   diags,
		fatal:   payload.Fatal,
		skipped: payload.Skipped,
		changed: payload.Changed,
		output:  payload.Output,
	}, true
}

func toPayload(o outcome) *CachedResult {
	return &CachedResult{
		Skipped:     o.skipped,
		Fatal:       o.fatal,
		Changed:     o.changed,
		Output:      o.output,
		Diagnostics: toCached(o.diags),
	}
}
