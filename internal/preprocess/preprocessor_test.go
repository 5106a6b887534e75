package preprocess

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"cutesy/internal/diag"
	"cutesy/internal/instr"
)

// testGrammar is a small Django-like grammar: "{{" values, "{#" ignored,
// and a handful of "{%" block tags.
type testGrammar struct{}

func (testGrammar) Name() string { return "test" }

func (testGrammar) Delimiters() []Delimiters {
	return []Delimiters{{"{%", "%}"}, {"{{", "}}"}, {"{#", "#}"}}
}

func (testGrammar) ClosingTags() map[string]string {
	return map[string]string{"comment": "endcomment"}
}

func (testGrammar) Closers() map[string]string {
	return map[string]string{"test": "endtest", "if": "endif"}
}

func (testGrammar) ParseInstruction(d Delimiters, text string, start, end int) (string, instr.Type, error) {
	fields := strings.Fields(text[start:end])
	if len(fields) == 0 {
		if d.Open == "{#" {
			return "…", instr.Ignored, nil
		}
		return "", 0, ErrMalformed
	}
	switch d.Open {
	case "{{":
		return "…", instr.Value, nil
	case "{#":
		return "…", instr.Ignored, nil
	}
	switch fields[0] {
	case "test":
		return "test", instr.Partial, nil
	case "endtest":
		return "endtest", instr.EndPartial, nil
	case "if":
		return "if", instr.Conditional, nil
	case "else":
		return "else", instr.LastConditional, nil
	case "endif":
		return "endif", instr.EndConditional, nil
	case "comment":
		return "comment", instr.Comment, nil
	case "endcomment":
		return "endcomment", instr.EndComment, nil
	}
	return fields[0], instr.Value, nil
}

func process(t *testing.T, text string, fix bool) (*Preprocessor, string, error) {
	t.Helper()
	p := New(testGrammar{})
	if err := p.Reset(text, fix); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	out, err := p.Process()
	return p, out, err
}

func structuralCode(t *testing.T, err error) diag.Code {
	t.Helper()
	se, ok := diag.AsStructural(err)
	if !ok {
		t.Fatalf("expected structural error, got %v", err)
	}
	return se.Diagnostic.Code
}

func TestProcessReplacesInstructions(t *testing.T) {
	text := "<div>{{ variable }}{% test %}<span>content</span>{% endtest %}{# note #}</div>"
	p, out, err := process(t, text, false)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	for _, brace := range []string{"{{", "{%", "{#"} {
		if strings.Contains(out, brace) {
			t.Fatalf("%q left in %q", brace, out)
		}
	}
	if !strings.Contains(out, "<span>content</span>") {
		t.Fatalf("content lost: %q", out)
	}
	if utf8.RuneCountInString(out) != utf8.RuneCountInString(text) {
		t.Fatalf("length changed: %d -> %d", utf8.RuneCountInString(text), utf8.RuneCountInString(out))
	}

	spans := p.Placeholders(out)
	want := []instr.Type{instr.Value, instr.Partial, instr.EndPartial, instr.Ignored}
	if len(spans) != len(want) {
		t.Fatalf("found %d placeholders, want %d", len(spans), len(want))
	}
	for i, sp := range spans {
		if sp.Type != want[i] {
			t.Errorf("placeholder %d: type %v, want %v", i, sp.Type, want[i])
		}
		typ, ok := p.Placeholder(out[sp.Start:sp.End])
		if !ok || typ != want[i] {
			t.Errorf("Placeholder(%q) = %v, %v", out[sp.Start:sp.End], typ, ok)
		}
	}
}

func TestPlaceholderShape(t *testing.T) {
	p, out, err := process(t, "{{ a }}", false)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	l, r := p.Delims()
	// first id is empty: L + type + 4 dashes + R
	want := string(l) + "i----" + string(r)
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
	if orig, ok := p.Original(out); !ok || orig != "{{ a }}" {
		t.Fatalf("Original = %q, %v", orig, ok)
	}
}

func TestProcessWithoutInstructions(t *testing.T) {
	for _, text := range []string{"", "<div><p>Pure HTML content</p></div>"} {
		_, out, err := process(t, text, false)
		if err != nil {
			t.Fatalf("Process(%q): %v", text, err)
		}
		if out != text {
			t.Fatalf("Process(%q) = %q", text, out)
		}
	}
}

func TestProcessFatalErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want diag.Code
		tag  string
	}{
		{"empty tag", "<div>{% %}</div>", diag.MalformedInstruction, ""},
		{"unterminated", "<div>{% test %content</div>", diag.MalformedInstruction, ""},
		{"dangling block", "<div>{% test %}content</div>", diag.ExpectedInstruction, "{% endtest %}"},
		{"missing comment end", "<div>{% comment %}some comment</div>", diag.ExpectedInstruction, "{% endcomment %}"},
		{"stray end comment", "{% endcomment %}", diag.UnmatchedInstruction, "{% endcomment %}"},
		{"stray end", "{% endtest %}", diag.UnmatchedInstruction, "{% endtest %}"},
		{"else without if", "{% test %}{% else %}{% endtest %}", diag.UnmatchedInstruction, "{% else %}"},
		{"mismatched end", "{% if a %}{% endtest %}", diag.UnmatchedInstruction, "{% endtest %}"},
		{"too short", strings.Repeat("{##}", 37), diag.InstructionTooShort, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := process(t, tt.text, false)
			if got := structuralCode(t, err); got != tt.want {
				t.Fatalf("got %s, want %s", got.ID(), tt.want.ID())
			}
			se, _ := diag.AsStructural(err)
			if se.Diagnostic.Replacements["tag"] != tt.tag {
				t.Fatalf("tag %q, want %q", se.Diagnostic.Replacements["tag"], tt.tag)
			}
			if se.Diagnostic.Severity != diag.SevFatal {
				t.Fatalf("severity %v", se.Diagnostic.Severity)
			}
		})
	}
}

func TestFatalErrorPosition(t *testing.T) {
	_, _, err := process(t, "<p>\n  ok {{ a }}\n  {% endtest %}", false)
	se, ok := diag.AsStructural(err)
	if !ok {
		t.Fatalf("expected structural error, got %v", err)
	}
	if se.Diagnostic.Line != 3 || se.Diagnostic.Column != 2 {
		t.Fatalf("position %d:%d, want 3:2", se.Diagnostic.Line, se.Diagnostic.Column)
	}
}

func TestCommentsAreAbsorbed(t *testing.T) {
	text := "<div>{% comment %}some {% if %} comment{% ENDCOMMENT %}</div>"
	p, out, err := process(t, text, false)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if strings.Contains(out, "some") || strings.Contains(out, "{%") {
		t.Fatalf("comment body leaked: %q", out)
	}
	spans := p.Placeholders(out)
	if len(spans) != 1 || spans[0].Type != instr.Comment {
		t.Fatalf("spans %+v", spans)
	}
}

func TestCheckModeFormattingErrors(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"<div>{{variable}}</div>", "P6"},
		{"<div>{{ block    param1=value1    param2=value2 }}</div>", "P5"},
		{"{{  a }}", "P5"},
		{"{{ 'keep   this' }}", ""},
		{"{% if a   %}{% endif %}", "P5"},
	}
	for _, tt := range tests {
		p, _, err := process(t, tt.text, false)
		if err != nil {
			t.Fatalf("Process(%q): %v", tt.text, err)
		}
		if got := diag.FormatCodes(p.Errors()); got != tt.want {
			t.Errorf("Process(%q) errors %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestFixModeCollapsesInstructions(t *testing.T) {
	text := "<p>{{a}}{%  if   x == 'a  b'  %}y{% endif %}</p>"
	p, out, err := process(t, text, true)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(p.Errors()) != 0 {
		t.Fatalf("fix mode must not report: %v", p.Errors())
	}
	restored, err := p.Restore(out, nil)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	want := "<p>{{ a }}{% if x == 'a  b' %}y{% endif %}</p>"
	if restored != want {
		t.Fatalf("got %q, want %q", restored, want)
	}
}

func TestSplitOutsideStrings(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{" a  b ", []string{"a", "b"}},
		{` x "a  b"  y `, []string{"x", `"a  b"`, "y"}},
		{` "esc \"  q"  z`, []string{`"esc \"  q"`, "z"}},
		{` 'it"s  fine' `, []string{`'it"s  fine'`}},
		{"   ", nil},
	}
	for _, tt := range tests {
		got := splitOutsideStrings(tt.in)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("splitOutsideStrings(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBase36(t *testing.T) {
	tests := map[int]string{0: "", 1: "1", 10: "a", 35: "z", 36: "10", 1295: "zz"}
	for n, want := range tests {
		if got := base36(n); got != want {
			t.Errorf("base36(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestRestoreBeforeProcess(t *testing.T) {
	p := New(testGrammar{})
	if err := p.Reset("{{ a }}", false); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if _, err := p.Restore("", nil); !errors.Is(err, diag.ErrSetup) {
		t.Fatalf("got %v, want ErrSetup", err)
	}
}
