package tailwind

import (
	"strings"
	"unicode/utf8"

	"cutesy/internal/attrs"
	"cutesy/internal/diag"
	"cutesy/internal/instr"
	"cutesy/internal/preprocess"
)

// Token is a class name, or a block instruction with what it wraps. A
// block's first and last tokens are its opening and closing instructions.
type Token struct {
	Text  string
	Block []Token
}

// Processor orders class attributes. Block instructions inside the value
// move as a unit and sort their own contents branch by branch.
type Processor struct{}

var _ attrs.Processor = Processor{}

// Process implements attrs.Processor.
func (Processor) Process(ctx attrs.Context, value string) (string, []diag.Diagnostic) {
	if ctx.Attr != "class" {
		return value, nil
	}
	l := layout{
		ctx:       ctx,
		pre:       ctx.Preprocessor,
		maxLength: ctx.LineLength - (ctx.Level+1)*ctx.TabWidth,
	}

	names := strings.Fields(value)
	tokens := make([]Token, 0, len(names))
	if l.pre != nil {
		for _, n := range names {
			if l.overlaps(n) {
				return value, []diag.Diagnostic{ctx.Diagnostic(diag.ClassInstructionOverlap)}
			}
		}
		var d *diag.Diagnostic
		if tokens, d = l.tree(l.expand(names)); d != nil {
			return value, []diag.Diagnostic{*d}
		}
	} else {
		for _, n := range names {
			tokens = append(tokens, Token{Text: n})
		}
	}

	grouped := groupTokens(tokens)
	nested := false
	for gi, g := range grouped {
		for i, t := range g {
			if t.Block != nil {
				grouped[gi][i] = l.compact(l.sortBlock(t))
			}
			nested = nested || grouped[gi][i].Block != nil
		}
	}

	var all []string
	for _, g := range grouped {
		for _, t := range g {
			all = collect(all, t)
		}
	}
	oneLine := strings.Join(all, " ")
	if !nested && utf8.RuneCountInString(oneLine) <= l.maxLength-len(`class=""`) {
		return oneLine, nil
	}
	return l.lines(grouped), nil
}

type layout struct {
	ctx       attrs.Context
	pre       *preprocess.Preprocessor
	maxLength int
}

// control returns the type of a block instruction placeholder.
func (l layout) control(s string) (instr.Type, bool) {
	if l.pre == nil {
		return 0, false
	}
	typ, ok := l.pre.Placeholder(s)
	if !ok || !(typ.StartsBlock() || typ.ContinuesBlock() || typ.EndsBlock()) {
		return 0, false
	}
	return typ, true
}

// overlaps reports a class name glued to the outside of a block: text
// before an opening instruction or after a closing one.
func (l layout) overlaps(name string) bool {
	spans := l.pre.Placeholders(name)
	for i, sp := range spans {
		switch {
		case sp.Type.StartsBlock() && sp.Start > 0:
			if i == 0 || spans[i-1].End != sp.Start {
				return true
			}
		case sp.Type.EndsBlock() && sp.End < len(name):
			if i == len(spans)-1 || spans[i+1].Start != sp.End {
				return true
			}
		}
	}
	return false
}

// expand splits block instructions out of the class names around them.
func (l layout) expand(names []string) []string {
	var out []string
	for _, n := range names {
		pos := 0
		for _, sp := range l.pre.Placeholders(n) {
			if !sp.Type.StartsBlock() && !sp.Type.ContinuesBlock() && !sp.Type.EndsBlock() {
				continue
			}
			if part := strings.TrimSpace(n[pos:sp.Start]); part != "" {
				out = append(out, part)
			}
			out = append(out, n[sp.Start:sp.End])
			pos = sp.End
		}
		if part := strings.TrimSpace(n[pos:]); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// tree nests the tokens inside the blocks that contain them.
func (l layout) tree(names []string) ([]Token, *diag.Diagnostic) {
	var (
		top   []Token
		stack [][]Token
	)
	add := func(t Token) {
		if len(stack) == 0 {
			top = append(top, t)
			return
		}
		stack[len(stack)-1] = append(stack[len(stack)-1], t)
	}
	for _, n := range names {
		typ, ok := l.control(n)
		switch {
		case !ok:
			add(Token{Text: n})
		case typ.StartsBlock():
			stack = append(stack, []Token{{Text: n}})
		case len(stack) == 0:
			d := l.ctx.Diagnostic(diag.UnmatchedInstruction)
			if orig, found := l.pre.Original(n); found {
				d = d.WithTag(orig)
			}
			return nil, &d
		case typ.ContinuesBlock():
			add(Token{Text: n})
		default:
			block := append(stack[len(stack)-1], Token{Text: n})
			stack = stack[:len(stack)-1]
			add(Token{Block: block})
		}
	}
	if len(stack) > 0 {
		d := l.ctx.Diagnostic(diag.ClassInstructionOverlap)
		return nil, &d
	}
	return top, nil
}

// sortBlock sorts each run of class names between the controls of a block.
// Branch instructions and nested blocks stay where they are.
func (l layout) sortBlock(b Token) Token {
	interior := b.Block[1 : len(b.Block)-1]
	out := []Token{b.Block[0]}
	var run []string
	flush := func() {
		for _, n := range Sort(run) {
			out = append(out, Token{Text: n})
		}
		run = nil
	}
	for _, t := range interior {
		switch {
		case t.Block != nil:
			flush()
			out = append(out, l.sortBlock(t))
		case l.isControl(t.Text):
			flush()
			out = append(out, t)
		default:
			run = append(run, t.Text)
		}
	}
	flush()
	return Token{Block: append(out, b.Block[len(b.Block)-1])}
}

func (l layout) isControl(s string) bool {
	_, ok := l.control(s)
	return ok
}

// compact writes a block on one line when it holds no nested block that
// stays multi-line and fits. Instructions are glued to their neighbors.
func (l layout) compact(b Token) Token {
	if b.Block == nil {
		return b
	}
	items := make([]Token, len(b.Block))
	flat := true
	for i, t := range b.Block {
		items[i] = l.compact(t)
		flat = flat && items[i].Block == nil
	}
	if !flat {
		return Token{Block: items}
	}
	var s strings.Builder
	for i, t := range items {
		if i > 0 && !l.isControl(items[i-1].Text) && !l.isControl(t.Text) {
			s.WriteByte(' ')
		}
		s.WriteString(t.Text)
	}
	if utf8.RuneCountInString(s.String()) <= l.maxLength {
		return Token{Text: s.String()}
	}
	return Token{Block: items}
}

func collect(out []string, t Token) []string {
	if t.Block == nil {
		return append(out, t.Text)
	}
	for _, c := range t.Block {
		out = collect(out, c)
	}
	return out
}

type line struct {
	column int
	text   string
}

// columns lays out a token one name per line, block contents one level in.
// Branch instructions sit at their block's level.
func (l layout) columns(t Token, column int) []line {
	if t.Block == nil {
		if typ, ok := l.control(t.Text); ok && typ.ContinuesBlock() {
			column--
		}
		return []line{{column, t.Text}}
	}
	out := []line{{column, t.Block[0].Text}}
	for _, c := range t.Block[1 : len(t.Block)-1] {
		out = append(out, l.columns(c, column+1)...)
	}
	return append(out, line{column, t.Block[len(t.Block)-1].Text})
}

// lines writes one group per line, splitting groups that don't fit.
func (l layout) lines(grouped [][]Token) string {
	indent := strings.Repeat(l.ctx.Indent, l.ctx.Level+1)
	out := []string{""}
	addColumns := func(t Token) {
		for _, ln := range l.columns(t, 0) {
			out = append(out, indent+strings.Repeat(l.ctx.Indent, max(ln.column, 0))+ln.text)
		}
	}

	if len(grouped) == 1 {
		for _, t := range grouped[0] {
			addColumns(t)
		}
	} else {
		for _, g := range grouped {
			if hasBlock(g) {
				for _, t := range g {
					addColumns(t)
				}
				continue
			}
			texts := make([]string, len(g))
			for i, t := range g {
				texts[i] = t.Text
			}
			if joined := indent + strings.Join(texts, " "); utf8.RuneCountInString(joined) <= l.maxLength {
				out = append(out, joined)
				continue
			}
			for _, s := range texts {
				out = append(out, indent+s)
			}
		}
	}
	out = append(out, strings.Repeat(l.ctx.Indent, l.ctx.Level))
	return strings.Join(out, "\n")
}

func hasBlock(g []Token) bool {
	for _, t := range g {
		if t.Block != nil {
			return true
		}
	}
	return false
}
