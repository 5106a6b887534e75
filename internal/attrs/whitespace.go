package attrs

import (
	"regexp"
	"strings"

	"cutesy/internal/diag"
)

// Whitespace trims and collapses whitespace inside attribute values and
// encodes raw bounding quotes.
type Whitespace struct{}

var (
	stringLiteralRE = regexp.MustCompile(`(?s)"(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*'`)

	firstLineContentRE = regexp.MustCompile(`^[^\S\n]*\S`)
	leadingHSpaceRE    = regexp.MustCompile(`^[^\S\n]*(\S)`)
	trailingSpaceRE    = regexp.MustCompile(`\s*$`)
	lastContentRE      = regexp.MustCompile(`(\S)\s*$`)
	blankRunRE         = regexp.MustCompile(`(?:[^\S\n]*\r?\n){2,}`)
	leadingNewlinesRE  = regexp.MustCompile(`^(?:\n[^\S\n]*){2,}`)
	trailingNewlinesRE = regexp.MustCompile(`(?:[^\S\n]*\n)+([^\S\n]*)$`)
	lineTrailingRE     = regexp.MustCompile(`[^\S\n]+\n`)
	leadingLineRE      = regexp.MustCompile(`^\s*\n\s*`)
	trailingLineRE     = regexp.MustCompile(`\s*\n\s*$`)
)

// Process implements Processor.
func (Whitespace) Process(ctx Context, value string) (string, []diag.Diagnostic) {
	var diags []diag.Diagnostic
	if HasRawQuote(value, ctx.Quote) {
		diags = append(diags, ctx.Diagnostic(diag.AttributeOwnQuote))
		value = EncodeQuote(value, ctx.Quote)
	}

	if !strings.Contains(strings.TrimSpace(value), "\n") {
		value = leadingLineRE.ReplaceAllString(value, " ")
		value = trailingLineRE.ReplaceAllString(value, " ")
		return CollapseOutsideStrings(strings.TrimSpace(value)), diags
	}

	if firstLineContentRE.MatchString(value) {
		// content starts on the line of the opening quote
		value = leadingHSpaceRE.ReplaceAllString(value, "${1}")
		value = trailingSpaceRE.ReplaceAllString(value, "")
	} else {
		end := "\n" + strings.Repeat(ctx.Indent, ctx.Level)
		value = lastContentRE.ReplaceAllString(value, "${1}"+escapeReplacement(end))
	}
	value = blankRunRE.ReplaceAllString(value, "\n\n")
	value = leadingNewlinesRE.ReplaceAllString(value, "\n\n")
	value = trailingNewlinesRE.ReplaceAllString(value, "\n${1}")
	value = lineTrailingRE.ReplaceAllString(value, "\n")
	return CollapseOutsideStrings(value), diags
}

// HasRawQuote reports whether value contains quote unencoded. Encoded forms
// (&quot;, %22, ") are fine; backslash escapes are not, since HTML
// ignores them. Unknown quote characters are treated as present.
func HasRawQuote(value string, quote byte) bool {
	switch quote {
	case '"', '\'':
		return strings.IndexByte(value, quote) >= 0
	default:
		return true
	}
}

// EncodeQuote replaces every raw quote in value with its entity.
func EncodeQuote(value string, quote byte) string {
	switch quote {
	case '"':
		return strings.ReplaceAll(value, `"`, "&quot;")
	case '\'':
		return strings.ReplaceAll(value, "'", "&apos;")
	default:
		return value
	}
}

// CollapseOutsideStrings reduces runs of two or more spaces or tabs between
// non-whitespace characters to one space, leaving quoted substrings alone.
func CollapseOutsideStrings(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pos := 0
	for _, m := range stringLiteralRE.FindAllStringIndex(s, -1) {
		b.WriteString(collapseMiddleRuns(s[pos:m[0]]))
		b.WriteString(s[m[0]:m[1]])
		pos = m[1]
	}
	b.WriteString(collapseMiddleRuns(s[pos:]))
	return b.String()
}

// collapseMiddleRuns rewrites [^\S\n]{2,} runs that have non-whitespace on
// both sides within chunk.
func collapseMiddleRuns(chunk string) string {
	var b strings.Builder
	b.Grow(len(chunk))
	i := 0
	for i < len(chunk) {
		if !isHSpace(chunk[i]) {
			b.WriteByte(chunk[i])
			i++
			continue
		}
		j := i
		for j < len(chunk) && isHSpace(chunk[j]) {
			j++
		}
		if j-i >= 2 && i > 0 && !isSpace(chunk[i-1]) && j < len(chunk) && !isSpace(chunk[j]) {
			b.WriteByte(' ')
		} else {
			b.WriteString(chunk[i:j])
		}
		i = j
	}
	return b.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isHSpace(c byte) bool {
	return c != '\n' && isSpace(c)
}

func escapeReplacement(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}
