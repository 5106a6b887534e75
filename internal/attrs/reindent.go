package attrs

import (
	"regexp"
	"strings"

	"cutesy/internal/diag"
)

// Reindent re-indents multi-line values relative to the shallowest interior
// line. Content lines go one level deeper than the tag, the closing line at
// the tag's level.
type Reindent struct{}

var leadingInlineSpaceRE = regexp.MustCompile(`^[^\S\n]*(\S|\n)`)

type indentedLine struct {
	indents int
	content string
}

// Process implements Processor.
func (Reindent) Process(ctx Context, value string) (string, []diag.Diagnostic) {
	value = leadingInlineSpaceRE.ReplaceAllString(value, "${1}")
	if !strings.Contains(value, "\n") {
		return value, nil
	}

	raw := strings.Split(value, "\n")
	lines := make([]indentedLine, len(raw))
	for i, line := range raw {
		lines[i] = indentedLine{
			indents: countIndents(line, ctx.TabWidth),
			content: strings.TrimSpace(line),
		}
	}

	// the last line is only used when nothing in between has content
	minIndents := -1
	for _, l := range lines[1 : len(lines)-1] {
		if l.content != "" && (minIndents < 0 || l.indents < minIndents) {
			minIndents = l.indents
		}
	}
	if minIndents < 0 {
		minIndents = lines[len(lines)-1].indents
	}

	out := make([]string, 0, len(lines))
	out = append(out, lines[0].content)
	for _, l := range lines[1:] {
		if l.content == "" {
			out = append(out, "")
			continue
		}
		depth := max(ctx.Level+1+l.indents-minIndents, 0)
		out = append(out, strings.Repeat(ctx.Indent, depth)+l.content)
	}
	if out[len(out)-1] == "" {
		out[len(out)-1] = strings.Repeat(ctx.Indent, ctx.Level)
	}
	return strings.Join(out, "\n"), nil
}

// countIndents counts leading indentation units, where a unit is a tab or
// tabWidth spaces.
func countIndents(line string, tabWidth int) int {
	unit := strings.Repeat(" ", max(tabWidth, 1))
	n, i := 0, 0
	for {
		switch {
		case strings.HasPrefix(line[i:], unit):
			i += len(unit)
		case strings.HasPrefix(line[i:], "\t"):
			i++
		default:
			return n
		}
		n++
	}
}
