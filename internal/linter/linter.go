// Package linter checks and formats HTML documents. It drives the lexer
// with a handler that tracks document structure and indentation, and
// either reports diagnostics or writes the canonical form of the document.
package linter

import (
	"context"
	"strings"

	"cutesy/internal/attrs"
	"cutesy/internal/diag"
	"cutesy/internal/lexer"
)

// Result is the outcome of linting one document. Output is the formatted
// document when fixing and the input otherwise.
type Result struct {
	Output      string
	Diagnostics []diag.Diagnostic
}

// Linter lints documents with a fixed configuration. A Linter holds the
// preprocessor's per-document state while linting, so it must not be used
// from several goroutines at once.
type Linter struct {
	opts options
}

// New returns a linter with the given options applied over the defaults.
func New(opts ...Option) *Linter {
	o := options{
		style:      Tab,
		tabWidth:   DefaultTabWidth,
		maxItems:   DefaultMaxItems,
		lineLength: DefaultLineLength,
		processors: []attrs.Processor{attrs.Whitespace{}},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Linter{opts: o}
}

// Fix reports whether the linter rewrites documents.
func (l *Linter) Fix() bool {
	return l.opts.fix
}

// Lint checks or formats text. It returns a *diag.StructuralError when the
// document can't be processed, diag.ErrDoctype when the document isn't HTML5
// and doctype checking is off, and a *diag.ConfigurationError when fixing is
// asked for with a structural rule ignored.
func (l *Linter) Lint(ctx context.Context, text string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	r := newRun(&l.opts)
	data := text
	cfg := lexer.Config{}
	if pre := l.opts.pre; pre != nil {
		if err := pre.Reset(text, l.opts.fix); err != nil {
			return Result{}, err
		}
		processed, err := pre.Process()
		if err != nil {
			return Result{}, err
		}
		data = processed
		cfg.Open, cfg.Close = pre.Delims()
	}

	r.scanner = lexer.New(cfg)
	if err := r.scanner.Scan(data, r); err != nil {
		if se, ok := diag.AsStructural(err); ok && l.opts.pre != nil {
			restored := []diag.Diagnostic{se.Diagnostic}
			if _, rerr := l.opts.pre.Restore(data, restored); rerr == nil {
				se.Diagnostic = restored[0]
			}
		}
		return Result{}, err
	}

	out := data
	if l.opts.fix {
		out = strings.Join(r.result, "")
	}
	if r.mode == modeDocument && !strings.HasSuffix(out, "\n") {
		if r.fixing(diag.MissingFinalNewline) {
			out += "\n"
		} else if err := r.report(diag.MissingFinalNewline, 0, 0, nil); err != nil {
			return Result{}, err
		}
	}

	diags := r.diags
	if pre := l.opts.pre; pre != nil {
		restored, err := pre.Restore(out, diags.Items())
		if err != nil {
			return Result{}, err
		}
		out = restored
		for _, d := range pre.Errors() {
			if err := r.handle(d); err != nil {
				return Result{}, err
			}
		}
	}
	diags.Sort()

	if !l.opts.fix {
		out = text
	}
	return Result{Output: out, Diagnostics: diags.Items()}, nil
}
