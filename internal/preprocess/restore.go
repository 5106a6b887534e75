package preprocess

import (
	"strings"
	"unicode/utf8"

	"cutesy/internal/diag"
)

// Restore replaces each placeholder in text with its instruction and shifts
// the positions of diags, which were computed against the placeholder text,
// to account for newlines inside restored instructions. diags is updated in
// place.
func (p *Preprocessor) Restore(text string, diags []diag.Diagnostic) (string, error) {
	if !p.processed {
		return "", diag.ErrSetup
	}

	var (
		b        strings.Builder
		inserted []int // byte offsets in the output of restored newlines
		consumed = make([]bool, len(p.table))
	)
	b.Grow(len(text))

	leftLen := utf8.RuneLen(p.left)
	i := 0
	for i < len(text) {
		j := strings.IndexRune(text[i:], p.left)
		if j < 0 {
			break
		}
		start := i + j
		n, ok := p.scanPlaceholder(text[start:])
		if !ok {
			b.WriteString(text[i : start+leftLen])
			i = start + leftLen
			continue
		}
		end := start + n
		idx, known := p.lookup[text[start:end]]
		if !known || consumed[idx] {
			b.WriteString(text[i:end])
			i = end
			continue
		}
		consumed[idx] = true
		b.WriteString(text[i:start])

		original := p.table[idx].original
		base := b.Len()
		for k := 0; k < len(original); k++ {
			if original[k] == '\n' {
				inserted = append(inserted, base+k)
			}
		}
		b.WriteString(original)
		i = end
	}
	b.WriteString(text[i:])
	out := b.String()

	if len(inserted) > 0 && len(diags) > 0 {
		shiftDiagnostics(out, inserted, diags)
	}
	return out, nil
}

// shiftDiagnostics walks the restored text and, for every restored newline,
// moves the diagnostics after it down one line.
func shiftDiagnostics(text string, inserted []int, diags []diag.Diagnostic) {
	line, col := 1, 0
	next := 0
	for pos, r := range text {
		if r != '\n' {
			col++
			continue
		}
		if next < len(inserted) && inserted[next] == pos {
			next++
			for i := range diags {
				d := &diags[i]
				switch {
				case d.Line > line:
					d.Line++
				case d.Line == line && d.Column > col:
					d.Line++
					d.Column -= col + 1
				}
			}
		}
		line++
		col = 0
	}
}
