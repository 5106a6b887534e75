package linter

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"cutesy/internal/diag"
	"cutesy/internal/lexer"
)

var (
	trailingSpaceRE = regexp.MustCompile(`[ \t]+\n`)
	lineIndentRE    = regexp.MustCompile(`\n[ \t]*`)
	extraNewlinesRE = regexp.MustCompile(`\n{3,}`)
	leadingBlankRE  = regexp.MustCompile(`^[ \t]*\n(?:[ \t]*\n)+`)
)

const (
	asciiSpaceCutset  = " \t\n\r\f\v"
	blankLineFragment = "\n\n"
)

func (r *run) Data(text string) error {
	opener, _ := r.event()
	r.encounteredData()
	if err := r.reconcile(); err != nil {
		return err
	}

	if r.scanner.CDATA() != "" || r.scanner.Freeform() {
		if r.fix {
			r.process(text)
		}
		return nil
	}

	line, col := r.scanner.Pos()
	r.openerLine = 0

	if opener {
		if loc := leadingBlankRE.FindStringIndex(text); loc != nil {
			if r.fix {
				text = "\n" + text[loc[1]:]
			} else {
				if err := r.report(diag.VerticalWhitespace, 1, 0, nil); err != nil {
					return err
				}
				r.openerLine = line + 1
			}
		}
	}

	if r.fix {
		text = trailingSpaceRE.ReplaceAllLiteralString(text, "\n")
	} else {
		for _, m := range trailingSpaceRE.FindAllStringIndex(text, -1) {
			offset, column := offsetOf(text, m[0], col)
			if err := r.report(diag.TrailingWhitespace, offset, column, nil); err != nil {
				return err
			}
		}
	}

	indentation := r.indentation(r.level)
	newText := lineIndentRE.ReplaceAllLiteralString(text, "\n"+indentation)
	if indentation != "" {
		blank := "\n" + indentation + "\n"
		for strings.Contains(newText, blank) {
			newText = strings.ReplaceAll(newText, blank, blankLineFragment)
		}
	}
	if strings.HasSuffix(newText, "\n"+indentation) {
		newText = newText[:len(newText)-len(indentation)]
		r.expected = expectation{set: true, pending: true}
	}

	if r.fix {
		text = extraNewlinesRE.ReplaceAllLiteralString(newText, blankLineFragment)
	} else {
		lines := strings.Split(text, "\n")
		newLines := strings.Split(newText, "\n")
		for i, l := range newLines {
			if i == len(newLines)-1 && l == "" {
				r.expected = expectation{set: true, literal: lines[i]}
				break
			}
			if l != lines[i] {
				if err := r.report(diag.Indentation, i, 0, nil); err != nil {
					return err
				}
			}
		}
		for _, m := range extraNewlinesRE.FindAllStringIndex(newText, -1) {
			if err := r.report(diag.VerticalWhitespace, strings.Count(newText[:m[0]], "\n"), 0, nil); err != nil {
				return err
			}
		}
	}

	if err := r.collapseSpaces(text, col); err != nil {
		return err
	}

	// a blank line right before a closing tag or instruction
	tailText := newText
	if r.fix {
		tailText = text
	}
	if strings.HasSuffix(tailText, blankLineFragment) {
		r.tail = blankTail{set: true, line: line + strings.Count(tailText, "\n") - 1}
	}
	return nil
}

// collapseSpaces reduces whitespace runs inside each line to one space and
// writes the chunk when fixing.
func (r *run) collapseSpaces(text string, col int) error {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		contents, start := line, ""
		if i > 0 {
			contents = strings.TrimLeft(line, asciiSpaceCutset)
			start = line[:len(line)-len(contents)]
		}

		trimmedLeft := strings.TrimLeft(contents, asciiSpaceCutset)
		trimmedRight := strings.TrimRight(contents, asciiSpaceCutset)
		var b strings.Builder
		if trimmedLeft != "" && len(trimmedLeft) < len(contents) {
			b.WriteByte(' ')
		}
		b.WriteString(strings.Join(strings.FieldsFunc(contents, lexer.IsSpace), " "))
		if len(trimmedRight) < len(contents) {
			b.WriteByte(' ')
		}
		newContents := b.String()

		if r.fix {
			lines[i] = start + newContents
			continue
		}
		// trailing whitespace before a newline is F2's concern
		got, want := trimmedRight, strings.TrimRight(newContents, asciiSpaceCutset)
		if i == len(lines)-1 {
			got, want = contents, newContents
		}
		if got == want {
			continue
		}
		column := utf8.RuneCountInString(start) + firstDifference(got, want)
		if i == 0 {
			column += col
		}
		if err := r.report(diag.HorizontalWhitespace, i, column, nil); err != nil {
			return err
		}
	}
	if r.fix {
		r.process(strings.Join(lines, "\n"))
	}
	return nil
}

// offsetOf returns the line offset and column of byte index i in text,
// where the text starts at column col.
func offsetOf(text string, i, col int) (int, int) {
	before := text[:i]
	nl := strings.LastIndexByte(before, '\n')
	if nl < 0 {
		return 0, col + utf8.RuneCountInString(before)
	}
	return strings.Count(before, "\n"), utf8.RuneCountInString(before[nl+1:])
}

// firstDifference returns the rune index where a and b first differ.
func firstDifference(a, b string) int {
	n := 0
	for a != "" && b != "" {
		ra, sa := utf8.DecodeRuneInString(a)
		rb, sb := utf8.DecodeRuneInString(b)
		if ra != rb {
			return n
		}
		a, b = a[sa:], b[sb:]
		n++
	}
	return n
}
