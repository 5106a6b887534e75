package lexer

import (
	"strings"

	"cutesy/internal/diag"
)

// scanMarkup handles everything starting with '<'. Markup that doesn't
// parse is passed to the handler as data.
func (s *Scanner) scanMarkup(h Handler) error {
	i := s.cur.Int()
	rest := s.cur.Rest()

	var (
		end int
		err error
	)
	switch {
	case len(rest) > 2 && rest[1] == '/' && isLetter(rest[2]):
		end, err = s.parseEndTag(h, i)
	case s.cdata != "":
		// only closing tags are markup inside raw text
		return s.emitData(h, i+1)
	case len(rest) > 1 && isLetter(rest[1]):
		end, err = s.parseStartTag(h, i)
	case strings.HasPrefix(rest, "<!--"):
		end, err = s.parseComment(h, i)
	case strings.HasPrefix(rest, "<!"):
		end, err = s.parseDeclaration(h, i)
	default:
		if err := h.Report(diag.RawLeftAngle, nil); err != nil {
			return err
		}
		return s.emitData(h, i+1)
	}
	if err != nil {
		return err
	}

	if end < 0 {
		end = s.recoverEnd(i)
		return s.emitData(h, end)
	}
	s.advance(end)
	return nil
}

// recoverEnd finds where unparseable markup starting at i ends: after the
// next '>', before the next '<', or after the '<' itself.
func (s *Scanner) recoverEnd(i int) int {
	if gt := strings.IndexByte(s.text[i+1:], '>'); gt >= 0 {
		return i + 1 + gt + 1
	}
	if lt := strings.IndexByte(s.text[i+1:], '<'); lt >= 0 {
		return i + 1 + lt
	}
	return i + 1
}

// ===== Start tags =====

func (s *Scanner) parseStartTag(h Handler, i int) (int, error) {
	text := s.text

	if s.open != "" {
		j := i + 2
		for j < len(text) && isNameByte(text[j]) {
			j++
		}
		if strings.HasPrefix(text[j:], s.open) {
			return 0, h.Fatal(diag.InstructionOverlap, map[string]string{"tag": "Instruction"})
		}
	}

	end := s.wholeStartTag(i)
	if end < 0 {
		return -1, h.Report(diag.MalformedTag, nil)
	}

	tag := Tag{Raw: text[i:end]}

	k := i + 1
	for k < end && isTagNameByte(text[k]) {
		k++
	}
	tag.Name = text[i+1 : k]
	k = skipSpaceOrSlash(text, k)

	for k < end {
		attr, next, ok := matchAttr(text, k)
		if !ok {
			break
		}
		switch {
		case !attr.HasValue:
		case len(attr.Value) >= 2 && attr.Value[0] == '"' && attr.Value[len(attr.Value)-1] == '"':
			attr.Value = attr.Value[1 : len(attr.Value)-1]
		case len(attr.Value) >= 2 && attr.Value[0] == '\'' && attr.Value[len(attr.Value)-1] == '\'':
			attr.Value = attr.Value[1 : len(attr.Value)-1]
			if !strings.Contains(attr.Value, `"`) && !h.Fixing(diag.AttributeQuotes) {
				if err := h.Report(diag.AttributeQuotes, map[string]string{"attr": attr.Name}); err != nil {
					return 0, err
				}
			}
		default:
			if !h.Fixing(diag.AttributeUnquoted) {
				if err := h.Report(diag.AttributeUnquoted, map[string]string{"attr": attr.Name}); err != nil {
					return 0, err
				}
			}
		}
		tag.Attrs = append(tag.Attrs, attr)
		k = next
	}

	switch trimSpace(text[k:end]) {
	case ">":
		if err := h.StartTag(tag); err != nil {
			return 0, err
		}
		if name := strings.ToLower(tag.Name); IsRawText(name) {
			s.cdata = name
		}
	case "/>":
		if err := h.StartEndTag(tag); err != nil {
			return 0, err
		}
	default:
		if err := h.Data(tag.Raw); err != nil {
			return 0, err
		}
	}
	return end, nil
}

// wholeStartTag returns the offset just past the start tag at i, or -1 when
// the tag is incomplete.
func (s *Scanner) wholeStartTag(i int) int {
	text := s.text
	j := i + 2
	for j < len(text) && isTagNameByte(text[j]) {
		j++
	}
	for j < len(text) && (isSpace(text[j]) || text[j] == '/') {
		j++
	}
	for {
		_, next, ok := matchAttr(text, j)
		if !ok {
			break
		}
		j = next
	}
	for j < len(text) && isSpace(text[j]) {
		j++
	}

	if j >= len(text) {
		return -1
	}
	switch c := text[j]; {
	case c == '>':
		return j + 1
	case c == '/':
		if strings.HasPrefix(text[j:], "/>") {
			return j + 2
		}
		return -1
	case isLetter(c) || c == '=':
		return -1
	}
	if j > i {
		return j
	}
	return i + 1
}

// matchAttr matches one attribute at k together with the whitespace and
// stray slashes after it. An attribute name must follow a quote, whitespace
// or a slash.
func matchAttr(text string, k int) (Attr, int, bool) {
	if k == 0 || k >= len(text) {
		return Attr{}, k, false
	}
	if p := text[k-1]; !(p == '\'' || p == '"' || p == '/' || isSpace(p)) {
		return Attr{}, k, false
	}
	if c := text[k]; isSpace(c) || c == '/' || c == '>' {
		return Attr{}, k, false
	}

	j := k + 1
	for j < len(text) && !isSpace(text[j]) && text[j] != '/' && text[j] != '=' && text[j] != '>' {
		j++
	}
	attr := Attr{Name: text[k:j]}

	if value, end, ok := matchValue(text, j); ok {
		attr.Value = value
		attr.HasValue = true
		j = end
	}
	return attr, skipSpaceOrSlash(text, j), true
}

// matchValue matches \s*=+\s*('…'|"…"|bare)\s* at j.
func matchValue(text string, j int) (string, int, bool) {
	k := j
	for k < len(text) && isSpace(text[k]) {
		k++
	}
	if k >= len(text) || text[k] != '=' {
		return "", j, false
	}
	for k < len(text) && text[k] == '=' {
		k++
	}
	for k < len(text) && isSpace(text[k]) {
		k++
	}

	start := k
	if k < len(text) && (text[k] == '"' || text[k] == '\'') {
		q := strings.IndexByte(text[k+1:], text[k])
		if q < 0 {
			return "", j, false
		}
		k += q + 2
	} else {
		for k < len(text) && text[k] != '>' && !isSpace(text[k]) {
			k++
		}
	}
	value := text[start:k]

	for k < len(text) && isSpace(text[k]) {
		k++
	}
	return value, k, true
}

// skipSpaceOrSlash skips (?:\s|/(?!>))*.
func skipSpaceOrSlash(text string, k int) int {
	for k < len(text) {
		switch {
		case isSpace(text[k]):
			k++
		case text[k] == '/' && !strings.HasPrefix(text[k:], "/>"):
			k++
		default:
			return k
		}
	}
	return k
}

// ===== End tags =====

// matchEndTag matches </name\s*> and returns the name and length.
func matchEndTag(text string) (string, int) {
	j := 3
	for j < len(text) && isNameByte(text[j]) {
		j++
	}
	name := text[2:j]
	for j < len(text) && isSpace(text[j]) {
		j++
	}
	if j >= len(text) || text[j] != '>' {
		return name, -1
	}
	return name, j + 1
}

func (s *Scanner) parseEndTag(h Handler, i int) (int, error) {
	rest := s.text[i:]
	name, n := matchEndTag(rest)
	if n < 0 {
		if s.open != "" {
			j := 2 + len(name)
			for j < len(rest) && isSpace(rest[j]) {
				j++
			}
			if strings.HasPrefix(rest[j:], s.open) {
				return 0, h.Fatal(diag.InstructionOverlap, map[string]string{"tag": "Instruction"})
			}
		}
		if s.cdata != "" {
			return -1, nil
		}
		return -1, h.Report(diag.MalformedClosingTag, nil)
	}

	raw := rest[:n]
	if HasSpace(raw) {
		if h.Fixing(diag.ClosingTagWhitespace) {
			raw = "</" + name + ">"
		} else if err := h.Report(diag.ClosingTagWhitespace, map[string]string{"tag": "</" + name + ">"}); err != nil {
			return 0, err
		}
	}

	if s.cdata != "" && strings.ToLower(name) != s.cdata {
		return i + n, h.Data(raw)
	}

	if err := h.EndTag(name); err != nil {
		return 0, err
	}
	s.cdata = ""
	return i + n, nil
}

// ===== Comments and declarations =====

func (s *Scanner) parseComment(h Handler, i int) (int, error) {
	end := commentEnd(s.text, i+4)
	if end < 0 {
		return -1, nil
	}
	return end, h.Comment(s.text[i:end])
}

// commentEnd finds --\s*> at or after j and returns the offset after it.
func commentEnd(text string, j int) int {
	for {
		d := strings.Index(text[j:], "--")
		if d < 0 {
			return -1
		}
		k := j + d + 2
		for k < len(text) && isSpace(text[k]) {
			k++
		}
		if k < len(text) && text[k] == '>' {
			return k + 1
		}
		j += d + 1
	}
}

func (s *Scanner) parseDeclaration(h Handler, i int) (int, error) {
	text := s.text
	rest := text[i:]

	switch {
	case strings.HasPrefix(rest, "<!["):
		end := markedSectionEnd(text, i)
		if end < 0 {
			return -1, nil
		}
		return end, h.Comment(text[i:end])

	case len(rest) >= 9 && strings.EqualFold(rest[:9], "<!doctype"):
		gt := strings.IndexByte(text[i+9:], '>')
		if gt < 0 {
			return -1, nil
		}
		gt += i + 9
		return gt + 1, h.Decl(text[i+2 : gt])
	}

	// bogus comment
	gt := strings.IndexByte(text[i+2:], '>')
	if gt < 0 {
		return -1, nil
	}
	end := i + 2 + gt + 1
	return end, h.Comment(text[i:end])
}

// markedSectionEnd finds the end of <![name ...]]> or the conditional
// <![if ...]> form.
func markedSectionEnd(text string, i int) int {
	j := i + 3
	start := j
	for j < len(text) && (isLetter(text[j]) || (j > start && (isDec(text[j]) || text[j] == '-' || text[j] == '_' || text[j] == '.'))) {
		j++
	}
	closer := "]]>"
	switch strings.ToLower(text[start:j]) {
	case "temp", "cdata", "ignore", "include", "rcdata":
	case "if", "else", "endif":
		closer = "]>"
	default:
		closer = ">"
	}
	end := strings.Index(text[i+3:], closer)
	if end < 0 {
		return -1
	}
	return i + 3 + end + len(closer)
}
