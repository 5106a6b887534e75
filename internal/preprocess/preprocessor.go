package preprocess

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"cutesy/internal/diag"
	"cutesy/internal/instr"
)

type entry struct {
	placeholder string
	original    string
	typ         instr.Type
}

type frame struct {
	typ   instr.Type
	name  string
	delim Delimiters
}

// Preprocessor replaces template instructions with placeholders and
// restores them afterwards. A Preprocessor is reset per document and must
// not be shared between goroutines.
type Preprocessor struct {
	grammar Grammar

	text  string
	fix   bool
	left  rune
	right rune

	// position of the cursor in the original text
	line   int
	offset int
	cursor int

	out       strings.Builder
	table     []entry
	lookup    map[string]int
	stack     []frame
	errors    []diag.Diagnostic
	nextOpen  []int
	processed bool
}

// New returns a Preprocessor for the grammar.
func New(g Grammar) *Preprocessor {
	return &Preprocessor{grammar: g}
}

// Grammar returns the template language the preprocessor understands.
func (p *Preprocessor) Grammar() Grammar {
	return p.grammar
}

// Reset prepares the preprocessor for a new document and picks placeholder
// delimiters that don't occur in it.
func (p *Preprocessor) Reset(text string, fix bool) error {
	left, right, err := chooseDelimiters(text)
	if err != nil {
		return err
	}
	p.text = text
	p.fix = fix
	p.left, p.right = left, right
	p.processed = false
	p.table = nil
	p.lookup = nil
	p.stack = nil
	p.errors = nil
	p.out.Reset()
	return nil
}

// Fix reports whether the preprocessor formats instructions.
func (p *Preprocessor) Fix() bool {
	return p.fix
}

// Delims returns the placeholder delimiters chosen by Reset.
func (p *Preprocessor) Delims() (rune, rune) {
	return p.left, p.right
}

// Errors returns the reportable diagnostics collected by Process.
func (p *Preprocessor) Errors() []diag.Diagnostic {
	return p.errors
}

// Process replaces every instruction with a placeholder and returns the
// placeholder text.
func (p *Preprocessor) Process() (string, error) {
	p.line = 1
	p.offset = 0
	p.cursor = 0
	p.table = p.table[:0]
	p.lookup = make(map[string]int)
	p.stack = p.stack[:0]
	p.errors = p.errors[:0]
	p.out.Reset()
	p.out.Grow(len(p.text))

	delims := p.grammar.Delimiters()
	p.nextOpen = make([]int, len(delims))
	for i := range p.nextOpen {
		p.nextOpen[i] = -1
	}

	for p.cursor < len(p.text) {
		i, at := p.findOpener(delims)
		if i < 0 {
			at = len(p.text)
		}
		if p.cursor < at {
			p.out.WriteString(p.text[p.cursor:at])
		}
		p.advance(at)
		if i < 0 {
			break
		}
		if err := p.handleMatch(delims[i]); err != nil {
			return "", err
		}
	}

	if len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		closer, ok := p.grammar.Closers()[top.name]
		if !ok {
			closer = "end" + top.name
		}
		return "", p.fatalHere(diag.ExpectedInstruction, top.delim.Open+" "+closer+" "+top.delim.Close)
	}

	p.processed = true
	return p.out.String(), nil
}

// findOpener returns the index of the delimiter pair whose opener occurs
// first at or after the cursor, and its position.
func (p *Preprocessor) findOpener(delims []Delimiters) (int, int) {
	best, bestAt := -1, -1
	for i, d := range delims {
		at := p.nextOpen[i]
		if at < p.cursor && at != len(p.text) {
			at = strings.Index(p.text[p.cursor:], d.Open)
			if at < 0 {
				at = len(p.text)
			} else {
				at += p.cursor
			}
			p.nextOpen[i] = at
		}
		if at == len(p.text) {
			continue
		}
		// longer openers win ties so that overlapping pairs stay unambiguous
		if best < 0 || at < bestAt || (at == bestAt && len(d.Open) > len(delims[best].Open)) {
			best, bestAt = i, at
		}
	}
	return best, bestAt
}

func (p *Preprocessor) handleMatch(d Delimiters) error {
	start := p.cursor
	bodyStart := start + len(d.Open)

	closeAt := strings.Index(p.text[bodyStart:], d.Close)
	if closeAt < 0 {
		return p.fatalHere(diag.MalformedInstruction, "")
	}
	closeAt += bodyStart

	name, typ, err := p.grammar.ParseInstruction(d, p.text, bodyStart, closeAt)
	if err != nil {
		if errors.Is(err, ErrMalformed) {
			return p.fatalHere(diag.MalformedInstruction, "")
		}
		return fmt.Errorf("parse instruction: %w", err)
	}

	end := closeAt + len(d.Close)
	tag := d.Open + " " + name + " " + d.Close
	collapse := true

	switch typ {
	case instr.EndComment:
		// closing comments are consumed together with their opener
		return p.fatalHere(diag.UnmatchedInstruction, tag)

	case instr.Comment:
		collapse = false
		closing, ok := p.grammar.ClosingTags()[name]
		if !ok {
			closing = "end" + name
		}
		search := d.Open + " " + closing + " " + d.Close
		tag = tag + " … " + search
		re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(d.Open) + `[ \t]*` +
			regexp.QuoteMeta(closing) + `[ \t]*` + regexp.QuoteMeta(d.Close))
		loc := re.FindStringIndex(p.text[end:])
		if loc == nil {
			return p.fatalHere(diag.ExpectedInstruction, search)
		}
		end += loc[1]

	case instr.Ignored:
		collapse = false
	}

	if err := p.trackBlock(typ, name, d, tag); err != nil {
		return err
	}

	raw := p.text[start:end]
	middle := raw[len(d.Open) : len(raw)-len(d.Close)]

	if !p.fix && (!strings.HasPrefix(middle, " ") || !strings.HasSuffix(middle, " ")) {
		p.logError(diag.InstructionPadding, tag)
	}

	var formatted string
	if collapse {
		parts := append([]string{d.Open}, splitOutsideStrings(middle)...)
		formatted = strings.Join(append(parts, d.Close), " ")
	} else {
		formatted = d.Open + " " + strings.TrimSpace(middle) + " " + d.Close
	}

	if !p.fix {
		trimmed := strings.TrimPrefix(middle, " ")
		trimmed = strings.TrimSuffix(trimmed, " ")
		want := formatted[len(d.Open) : len(formatted)-len(d.Close)]
		if len(want) >= 2 {
			want = want[1 : len(want)-1]
		} else {
			want = ""
		}
		if trimmed != want {
			p.logError(diag.InstructionExtraWS, tag)
		}
	}

	// Fixing writes the formatted instruction back, so the placeholder has
	// to match its length; checking keeps the raw text in place.
	original := raw
	if p.fix {
		original = formatted
	}

	id := base36(len(p.table))
	pad := utf8.RuneCountInString(original) - 3 - len(id)
	if pad < 0 {
		return p.fatalHere(diag.InstructionTooShort, "")
	}

	placeholder := string(p.left) + string(typ.Char()) + id + strings.Repeat("-", pad) + string(p.right)
	p.lookup[placeholder] = len(p.table)
	p.table = append(p.table, entry{placeholder: placeholder, original: original, typ: typ})
	p.out.WriteString(placeholder)
	p.advance(end)
	return nil
}

func (p *Preprocessor) trackBlock(typ instr.Type, name string, d Delimiters, tag string) error {
	if typ.StartsBlock() || typ == instr.Freeform {
		p.stack = append(p.stack, frame{typ: typ, name: name, delim: d})
		return nil
	}

	want, ok := typ.Opener()
	if !ok {
		return nil
	}
	if len(p.stack) == 0 {
		return p.fatalHere(diag.UnmatchedInstruction, tag)
	}
	top := p.stack[len(p.stack)-1].typ
	// loops take middle branches too ({% for %}…{% empty %})
	if top != want && !(typ.ContinuesBlock() && top == instr.Repeatable) {
		return p.fatalHere(diag.UnmatchedInstruction, tag)
	}
	if !typ.ContinuesBlock() {
		p.stack = p.stack[:len(p.stack)-1]
	}
	return nil
}

// splitOutsideStrings splits s on spaces that are not inside a quoted
// string and drops empty parts. Backslashes escape quotes inside strings.
func splitOutsideStrings(s string) []string {
	var (
		parts   []string
		current strings.Builder
		quote   rune
		escaped bool
	)
	for _, r := range s {
		wasEscaped := escaped
		escaped = false
		switch {
		case r == ' ' && quote == 0:
			if current.Len() > 0 {
				parts = append(parts, current.String())
			}
			current.Reset()
			continue
		case quote != 0 && r == '\\':
			escaped = !wasEscaped
		case r == '\'' || r == '"':
			if quote == 0 {
				quote = r
			} else if !wasEscaped && r == quote {
				quote = 0
			}
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

// advance moves the cursor to end, updating line and offset.
func (p *Preprocessor) advance(end int) {
	if end <= p.cursor {
		return
	}
	chunk := p.text[p.cursor:end]
	if n := strings.Count(chunk, "\n"); n > 0 {
		p.line += n
		p.offset = utf8.RuneCountInString(chunk[strings.LastIndexByte(chunk, '\n')+1:])
	} else {
		p.offset += utf8.RuneCountInString(chunk)
	}
	p.cursor = end
}

// MakeFatalError builds a structural error for a preprocessing rule at the
// given position.
func (p *Preprocessor) MakeFatalError(code diag.Code, line, column int, replacements map[string]string) *diag.StructuralError {
	d := diag.New(code, line, column)
	for k, v := range replacements {
		d = d.With(k, v)
	}
	return diag.NewStructuralError(d)
}

func (p *Preprocessor) fatalHere(code diag.Code, tag string) *diag.StructuralError {
	var repl map[string]string
	if tag != "" {
		repl = map[string]string{"tag": tag}
	}
	return p.MakeFatalError(code, p.line, p.offset, repl)
}

func (p *Preprocessor) logError(code diag.Code, tag string) {
	p.errors = append(p.errors, diag.New(code, p.line, p.offset).WithTag(tag))
}
