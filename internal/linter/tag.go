package linter

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"cutesy/internal/diag"
	"cutesy/internal/lexer"
)

func (r *run) startTag(t lexer.Tag) error {
	r.encounteredData()
	onNewLine := r.expected.set

	name := strings.ToLower(t.Name)
	if name != t.Name && !r.fix {
		if err := r.reportTag(diag.TagCase, "<"+t.Name+">"); err != nil {
			return err
		}
	}

	in := make([]attr, len(t.Attrs))
	for i, a := range t.Attrs {
		in[i] = attr{name: a.Name, value: a.Value, hasValue: a.HasValue}
	}
	solo := len(in) == 1

	// a first pass measures the tag as it would be written
	_, strs, err := r.attrStrings(in, solo, false, 0)
	if err != nil {
		return err
	}
	breaking := anyBreaks(strs)
	width := 2 + len(strs) + utf8.RuneCountInString(name) + r.tabWidth*r.level
	for _, s := range strs {
		width += utf8.RuneCountInString(s)
	}
	wrap := len(strs) > 1 && (len(strs) > r.maxItems || width > r.lineLength || breaking)

	// a lone multi-line attribute stays inline, its lines one level up
	inline := breaking && !wrap
	if inline {
		r.level--
	}
	_, strs, err = r.attrStrings(in, solo, true, 0)
	if inline {
		r.level++
	}
	if err != nil {
		return err
	}

	if wrap && !onNewLine {
		if r.fixing(diag.LongTagInline) && r.breakForInlineTag() {
			r.process("\n")
			r.expected = expectation{set: true, pending: true}
			onNewLine = true
		} else if err := r.reportTag(diag.LongTagInline, "<"+name+">"); err != nil {
			return err
		}
	}
	if err := r.reconcile(); err != nil {
		return err
	}
	wrap = wrap && onNewLine

	var attrText string
	switch {
	case wrap:
		inner := r.indentation(r.level + 1)
		attrText = "\n" + inner + strings.Join(strs, "\n"+inner) + "\n" + r.indentation(r.level)
	case len(strs) > 0:
		attrText = " " + strings.Join(strs, " ")
	}
	attrText = r.blankIndentRE().ReplaceAllLiteralString(attrText, "\n\n")

	if !r.fix {
		newWS, oldWS := whitespaceOf(attrText), whitespaceOf(t.Raw)
		if newWS != oldWS {
			code := diag.TagWhitespace
			switch {
			case strings.Contains(newWS, "\n") && !strings.Contains(oldWS, "\n") && wrap:
				code = diag.AttributesMultiline
			case !strings.Contains(newWS, "\n") && strings.Contains(oldWS, "\n") && !wrap:
				code = diag.AttributesSingleLine
			}
			if err := r.reportTag(code, "<"+name+">"); err != nil {
				return err
			}
		}
	}

	if r.fix {
		r.process("<" + name + attrText + ">")
	}
	if !lexer.IsVoid(name) {
		r.stack = append(r.stack, frame{name: name, level: r.level})
		if name != "html" {
			r.level++
		}
		r.opener = true
	}
	return nil
}

// blankIndentRE matches lines holding only indentation.
func (r *run) blankIndentRE() *regexp.Regexp {
	if r.blankIndent == nil {
		r.blankIndent = regexp.MustCompile(`\n(?:` + regexp.QuoteMeta(r.indentUnit) + `)+\n`)
	}
	return r.blankIndent
}

func anyBreaks(strs []string) bool {
	for _, s := range strs {
		if strings.ContainsAny(s, "\n\t") {
			return true
		}
	}
	return false
}

// whitespaceOf keeps only the whitespace characters of s.
func whitespaceOf(s string) string {
	var b strings.Builder
	for _, c := range s {
		if lexer.IsSpace(c) {
			b.WriteRune(c)
		}
	}
	return b.String()
}
