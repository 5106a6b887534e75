package linter

import (
	"strings"

	"cutesy/internal/attrs"
	"cutesy/internal/diag"
	"cutesy/internal/preprocess"
)

// IndentStyle selects the indentation unit.
type IndentStyle uint8

const (
	Tab IndentStyle = iota
	Spaces
)

func (s IndentStyle) String() string {
	if s == Spaces {
		return "spaces"
	}
	return "tab"
}

// ParseIndentStyle accepts "tab" and "spaces".
func ParseIndentStyle(s string) (IndentStyle, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tab", "tabs":
		return Tab, true
	case "space", "spaces":
		return Spaces, true
	}
	return Tab, false
}

const (
	DefaultTabWidth   = 4
	DefaultMaxItems   = 5
	DefaultLineLength = 99
)

type options struct {
	fix          bool
	checkDoctype bool
	pre          *preprocess.Preprocessor
	processors   []attrs.Processor
	ignore       diag.IgnoreSet
	style        IndentStyle
	tabWidth     int
	maxItems     int
	lineLength   int
}

// Option configures a Linter.
type Option func(*options)

// WithFix makes Lint rewrite the document instead of only reporting.
func WithFix(fix bool) Option {
	return func(o *options) { o.fix = fix }
}

// WithCheckDoctype lints documents with a non-html doctype, reporting E1,
// instead of skipping them.
func WithCheckDoctype(check bool) Option {
	return func(o *options) { o.checkDoctype = check }
}

// WithPreprocessor enables template instructions.
func WithPreprocessor(p *preprocess.Preprocessor) Option {
	return func(o *options) { o.pre = p }
}

// WithProcessors sets the attribute value processors, applied in order.
func WithProcessors(ps ...attrs.Processor) Option {
	return func(o *options) { o.processors = append([]attrs.Processor(nil), ps...) }
}

// WithIgnore suppresses rules.
func WithIgnore(set diag.IgnoreSet) Option {
	return func(o *options) { o.ignore = set }
}

// WithIndentation sets the indentation unit. width is the number of spaces
// per level and the width a tab counts for.
func WithIndentation(style IndentStyle, width int) Option {
	return func(o *options) {
		o.style = style
		if width > 0 {
			o.tabWidth = width
		}
	}
}

// WithMaxItemsPerLine limits the attributes kept on one line.
func WithMaxItemsPerLine(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxItems = n
		}
	}
}

// WithLineLength sets the width above which tags wrap their attributes.
func WithLineLength(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.lineLength = n
		}
	}
}

func (o *options) indent() string {
	if o.style == Spaces {
		return strings.Repeat(" ", o.tabWidth)
	}
	return "\t"
}
