// Package attrs defines the attribute value processor contract and the
// built-in whitespace and reindent processors.
package attrs

import (
	"cutesy/internal/diag"
	"cutesy/internal/preprocess"
)

// Context describes the attribute a processor is working on.
type Context struct {
	Attr string
	// Line and Column locate the tag that owns the attribute.
	Line   int
	Column int

	Indent     string // one level of indentation
	Level      int
	TabWidth   int
	LineLength int
	MaxItems   int
	Quote      byte // bounding quote the value will be written with
	Solo       bool // the attribute is alone on its tag

	// Preprocessor is nil for documents without template instructions.
	Preprocessor *preprocess.Preprocessor
}

// Processor rewrites an attribute value. Diagnostics it returns are
// positioned at the owning tag.
type Processor interface {
	Process(ctx Context, value string) (string, []diag.Diagnostic)
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx Context, value string) (string, []diag.Diagnostic)

func (f ProcessorFunc) Process(ctx Context, value string) (string, []diag.Diagnostic) {
	return f(ctx, value)
}

// Diagnostic builds a diagnostic for the attribute at the tag position.
func (ctx Context) Diagnostic(code diag.Code) diag.Diagnostic {
	return diag.New(code, ctx.Line, ctx.Column).WithAttr(ctx.Attr)
}
