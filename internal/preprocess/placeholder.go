package preprocess

import (
	"strings"
	"unicode/utf8"

	"cutesy/internal/instr"
)

// Span locates a placeholder in a string by byte offsets.
type Span struct {
	Start int
	End   int
	Type  instr.Type
}

// Contains reports whether s contains a placeholder opening delimiter.
func (p *Preprocessor) Contains(s string) bool {
	return p.left != 0 && strings.ContainsRune(s, p.left)
}

// Placeholders returns the well-formed placeholders in s, in order.
func (p *Preprocessor) Placeholders(s string) []Span {
	var spans []Span
	i := 0
	for {
		j := strings.IndexRune(s[i:], p.left)
		if j < 0 {
			return spans
		}
		start := i + j
		n, ok := p.scanPlaceholder(s[start:])
		if !ok {
			i = start + utf8.RuneLen(p.left)
			continue
		}
		typ, _ := instr.FromChar(rune(s[start+utf8.RuneLen(p.left)]))
		spans = append(spans, Span{Start: start, End: start + n, Type: typ})
		i = start + n
	}
}

// Placeholder reports the instruction type of s when s is exactly one
// placeholder.
func (p *Preprocessor) Placeholder(s string) (instr.Type, bool) {
	n, ok := p.scanPlaceholder(s)
	if !ok || n != len(s) {
		return 0, false
	}
	return instr.FromChar(rune(s[utf8.RuneLen(p.left)]))
}

// scanPlaceholder matches L[a-n][0-9a-z]*-*R at the start of s and returns
// its byte length.
func (p *Preprocessor) scanPlaceholder(s string) (int, bool) {
	r, size := utf8.DecodeRuneInString(s)
	if r != p.left || size >= len(s) {
		return 0, false
	}
	i := size
	if _, ok := instr.FromChar(rune(s[i])); !ok {
		return 0, false
	}
	i++
	for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] >= 'a' && s[i] <= 'z') {
		i++
	}
	for i < len(s) && s[i] == '-' {
		i++
	}
	r, size = utf8.DecodeRuneInString(s[i:])
	if r != p.right {
		return 0, false
	}
	return i + size, true
}

// Original returns the instruction text a placeholder stands for.
func (p *Preprocessor) Original(placeholder string) (string, bool) {
	i, ok := p.lookup[placeholder]
	if !ok {
		return "", false
	}
	return p.table[i].original, true
}
