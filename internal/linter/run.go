package linter

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"cutesy/internal/diag"
	"cutesy/internal/lexer"
)

type mode uint8

const (
	modeUnset mode = iota
	modeDocument
	modeUnstructured
)

// frame is an open element and the level it was opened at.
type frame struct {
	name  string
	level int
}

// expectation is the indentation owed by the line a data chunk left open.
type expectation struct {
	set     bool
	pending bool   // fix: the indentation hasn't been written yet
	literal string // check: the indentation found in the document
}

// blankTail records a data chunk that ended with a blank line.
type blankTail struct {
	set  bool
	line int
}

// run is the state of a single Lint call. It implements lexer.Handler.
type run struct {
	*options
	indentUnit  string
	blankIndent *regexp.Regexp
	scanner     *lexer.Scanner

	mode     mode
	level    int
	stack    []frame
	expected expectation
	diags    *diag.Bag

	// fix output and its position
	result []string
	line   int
	col    int

	// blank-line state carried from one event to the next
	opener     bool
	tail       blankTail
	openerLine int
}

func newRun(o *options) *run {
	return &run{
		options:    o,
		indentUnit: o.indent(),
		diags:      diag.NewBag(8),
		line:       1,
	}
}

// ===== Errors =====

// pos returns the position diagnostics are reported at: the output position
// when fixing, the scanner position otherwise.
func (r *run) pos() (int, int) {
	if r.fix {
		return r.line, r.col
	}
	return r.scanner.Pos()
}

// diagnostic builds a diagnostic at the current line plus lineOffset. A
// negative column means the current column.
func (r *run) diagnostic(code diag.Code, lineOffset, column int, repl map[string]string) diag.Diagnostic {
	line, col := r.pos()
	if column >= 0 {
		col = column
	}
	d := diag.New(code, line+lineOffset, col)
	if len(repl) > 0 {
		d.Replacements = repl
	}
	return d
}

func (r *run) report(code diag.Code, lineOffset, column int, repl map[string]string) error {
	return r.handle(r.diagnostic(code, lineOffset, column, repl))
}

func (r *run) reportTag(code diag.Code, tag string) error {
	return r.report(code, 0, -1, map[string]string{"tag": tag})
}

// handle records d, drops it when ignored, or aborts when fixing can't
// continue past it.
func (r *run) handle(d diag.Diagnostic) error {
	ignored := r.ignore.Ignored(d.Code)
	if r.fix && d.Code.Structural() {
		if ignored {
			return &diag.ConfigurationError{Code: d.Code}
		}
		return diag.NewStructuralError(d)
	}
	if ignored {
		return nil
	}
	r.diags.Add(d)
	return nil
}

func (r *run) fixing(code diag.Code) bool {
	return r.fix && !r.ignore.Ignored(code)
}

// ===== lexer.Handler plumbing =====

func (r *run) Report(code diag.Code, repl map[string]string) error {
	return r.report(code, 0, -1, repl)
}

func (r *run) Fatal(code diag.Code, repl map[string]string) error {
	return diag.NewStructuralError(r.diagnostic(code, 0, -1, repl))
}

func (r *run) Fixing(code diag.Code) bool {
	return r.fixing(code)
}

// ===== Output =====

func (r *run) process(chunk string) {
	if chunk == "" {
		return
	}
	r.result = append(r.result, chunk)
	if n := strings.Count(chunk, "\n"); n > 0 {
		r.line += n
		r.col = utf8.RuneCountInString(chunk[strings.LastIndexByte(chunk, '\n')+1:])
	} else {
		r.col += utf8.RuneCountInString(chunk)
	}
}

// breakForInlineTag prepares the output for a newline before a tag that
// doesn't start its line. It fails when the tag follows text directly.
func (r *run) breakForInlineTag() bool {
	if len(r.result) == 0 {
		return false
	}
	last := r.result[len(r.result)-1]
	switch {
	case strings.HasSuffix(last, " "):
		r.result[len(r.result)-1] = last[:len(last)-1]
		r.col--
		return true
	case strings.HasSuffix(last, ">"):
		return true
	}
	return false
}

func (r *run) indentation(level int) string {
	return strings.Repeat(r.indentUnit, max(level, 0))
}

// reconcile settles the indentation owed by the previous data chunk, now
// that the level of the next event is known.
func (r *run) reconcile() error {
	if !r.expected.set {
		return nil
	}
	want := r.indentation(r.level)
	exp := r.expected
	r.expected = expectation{}
	if r.fix {
		r.process(want)
		return nil
	}
	if exp.literal != want {
		return r.report(diag.Indentation, 0, 0, nil)
	}
	return nil
}

func (r *run) encounteredData() {
	if r.mode == modeUnset {
		r.mode = modeUnstructured
	}
}

// event starts handling a lexer event and returns the blank-line state the
// previous event left behind.
func (r *run) event() (opener bool, tail blankTail) {
	opener, tail = r.opener, r.tail
	r.opener = false
	r.tail = blankTail{}
	return opener, tail
}

// closeBlank removes or reports a blank line left right before a closing
// tag or instruction.
func (r *run) closeBlank(tail blankTail) error {
	if !tail.set {
		return nil
	}
	if r.fix {
		last := len(r.result) - 1
		if last >= 0 && strings.HasSuffix(r.result[last], "\n\n") {
			r.result[last] = r.result[last][:len(r.result[last])-1]
			r.line--
		}
		return nil
	}
	if tail.line == r.openerLine {
		return nil
	}
	line, _ := r.scanner.Pos()
	return r.report(diag.VerticalWhitespace, tail.line-line, 0, nil)
}
