package linter

import (
	"strings"
	"unicode/utf8"

	"cutesy/internal/diag"
	"cutesy/internal/instr"
	"cutesy/internal/lexer"
)

func (r *run) Decl(decl string) error {
	r.event()
	if err := r.reconcile(); err != nil {
		return err
	}

	if r.mode != modeUnset {
		code := diag.DoctypeNotFirst
		if r.mode == modeDocument {
			code = diag.SecondDeclaration
		}
		if err := r.report(code, 0, -1, nil); err != nil {
			return err
		}
		if r.fix {
			r.process("<!" + decl + ">")
		}
		return nil
	}

	lower := strings.ToLower(decl)
	if r.fixing(diag.DoctypeCase) {
		decl = lower
	} else if lower != decl {
		if err := r.report(diag.DoctypeCase, 0, -1, nil); err != nil {
			return err
		}
	}

	joined := strings.Join(strings.Fields(lower), " ")
	if r.fixing(diag.TagWhitespace) {
		decl = strings.Join(strings.Fields(decl), " ")
	} else if joined != lower {
		if err := r.reportTag(diag.TagWhitespace, "<!"+joined+">"); err != nil {
			return err
		}
	}

	if joined != "doctype html" {
		if !r.checkDoctype {
			return diag.ErrDoctype
		}
		if err := r.report(diag.DoctypeNotHTML, 0, -1, nil); err != nil {
			return err
		}
	}

	r.mode = modeDocument
	if r.fix {
		r.process("<!" + decl + ">")
	}
	return nil
}

func (r *run) StartTag(t lexer.Tag) error {
	r.event()
	return r.startTag(t)
}

func (r *run) StartEndTag(t lexer.Tag) error {
	r.event()
	if err := r.startTag(t); err != nil {
		return err
	}
	name := strings.ToLower(t.Name)
	if lexer.IsVoid(name) {
		if !r.fix {
			return r.reportTag(diag.VoidSelfClosing, "<"+name+">")
		}
		return nil
	}
	if !r.fix {
		if err := r.reportTag(diag.NonVoidSelfClosing, "<"+name+">"); err != nil {
			return err
		}
	}
	r.opener = false
	return r.endTag(name)
}

func (r *run) EndTag(name string) error {
	_, tail := r.event()
	if lower := strings.ToLower(name); lower != name {
		if !r.fix {
			if err := r.reportTag(diag.TagCase, "</"+name+">"); err != nil {
				return err
			}
		}
		name = lower
	}
	if err := r.closeBlank(tail); err != nil {
		return err
	}
	return r.endTag(name)
}

// endTag pops the stack down to the nearest matching element, wherever it
// is. Instructions never touch the stack.
func (r *run) endTag(name string) error {
	found := -1
	for i := len(r.stack) - 1; i >= 0; i-- {
		if r.stack[i].name == name {
			found = i
			break
		}
	}

	if found < 0 {
		if err := r.reportTag(diag.UnmatchedClosingTag, "</"+name+">"); err != nil {
			return err
		}
	} else {
		for i := len(r.stack) - 1; i > found; i-- {
			if err := r.reportTag(diag.ExpectedClosingTag, "</"+r.stack[i].name+">"); err != nil {
				return err
			}
		}
		r.level = r.stack[found].level
		r.stack = r.stack[:found]
	}

	if name != r.scanner.CDATA() {
		if err := r.reconcile(); err != nil {
			return err
		}
	}
	if r.fix {
		r.process("</" + name + ">")
	}
	return nil
}

func (r *run) EntityRef(name string) error {
	r.event()
	return r.reference("&" + name + ";")
}

func (r *run) CharRef(name string) error {
	r.event()
	return r.reference("&#" + name + ";")
}

func (r *run) reference(text string) error {
	r.encounteredData()
	if err := r.reconcile(); err != nil {
		return err
	}
	if r.fix {
		r.process(text)
	}
	return nil
}

func (r *run) Comment(raw string) error {
	r.event()
	if err := r.reconcile(); err != nil {
		return err
	}
	if r.fix {
		r.process(raw)
	}
	return nil
}

// Instruction adjusts indentation around block instructions: closing and
// continuing instructions step out before their own line is checked, opening
// and continuing ones step in after it.
func (r *run) Instruction(body string) error {
	_, tail := r.event()
	c, _ := utf8.DecodeRuneInString(body)
	typ, ok := instr.FromChar(c)
	if !ok {
		typ = instr.Value
	}

	if typ.EndsBlock() || typ.ContinuesBlock() {
		if err := r.closeBlank(tail); err != nil {
			return err
		}
		r.level--
	}
	if err := r.reconcile(); err != nil {
		return err
	}
	if typ.StartsBlock() || typ.ContinuesBlock() {
		r.level++
		r.opener = true
	}

	if r.fix {
		left, right := r.scanner.Delims()
		r.process(left + body + right)
	}
	return nil
}
