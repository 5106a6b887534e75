package django

import (
	"strings"
	"testing"

	"cutesy/internal/diag"
	"cutesy/internal/instr"
	"cutesy/internal/preprocess"
)

func TestGrammarTables(t *testing.T) {
	g := Grammar{}
	want := map[string]bool{"{%": false, "{{": false, "{#": false}
	for _, d := range g.Delimiters() {
		want[d.Open] = true
	}
	for open, seen := range want {
		if !seen {
			t.Errorf("missing delimiter %q", open)
		}
	}
	for _, name := range []string{"freeform", "comment"} {
		if _, ok := g.ClosingTags()[name]; !ok {
			t.Errorf("closing tag for %q missing", name)
		}
	}
}

func TestParseInstruction(t *testing.T) {
	tests := []struct {
		html string
		name string
		typ  instr.Type
	}{
		{"{{ variable }}", "…", instr.Value},
		{"{% if condition %}", "if", instr.Conditional},
		{"{% endif %}", "endif", instr.EndConditional},
		{"{% elif condition %}", "elif", instr.MidConditional},
		{"{% else %}", "else", instr.LastConditional},
		{"{% for item in items %}", "for", instr.Repeatable},
		{"{% endfor %}", "endfor", instr.EndRepeatable},
		{"{% empty %}", "empty", instr.MidConditional},
		{"{% block content %}", "block", instr.Partial},
		{"{% endblock %}", "endblock", instr.EndPartial},
		{"{% with value=variable %}", "with", instr.Partial},
		{"{% endwith %}", "endwith", instr.EndPartial},
		{"{% comment %}", "comment", instr.Comment},
		{"{% endcomment %}", "endcomment", instr.EndComment},
		{"{% spaceless %}", "spaceless", instr.Freeform},
		{"{% endspaceless %}", "endspaceless", instr.EndFreeform},
		{"{% blocktrans %}", "blocktrans", instr.Conditional},
		{"{% plural %}", "plural", instr.LastConditional},
		{"{% endblocktrans %}", "endblocktrans", instr.EndConditional},
		{"{% load static %}", "load", instr.Value},
		{"{# a note #}", "…", instr.Ignored},
		{"{##}", "…", instr.Ignored},
		{"{# freeform #}", "freeform", instr.Freeform},
		{"{# endfreeform #}", "endfreeform", instr.EndFreeform},
	}
	g := Grammar{}
	for _, tt := range tests {
		d := preprocess.Delimiters{Open: tt.html[:2], Close: tt.html[len(tt.html)-2:]}
		name, typ, err := g.ParseInstruction(d, tt.html, 2, len(tt.html)-2)
		if err != nil {
			t.Fatalf("ParseInstruction(%q): %v", tt.html, err)
		}
		if name != tt.name || typ != tt.typ {
			t.Errorf("ParseInstruction(%q) = %q, %v; want %q, %v", tt.html, name, typ, tt.name, tt.typ)
		}
	}
}

func TestParseEmptyTag(t *testing.T) {
	d := preprocess.Delimiters{Open: "{%", Close: "%}"}
	if _, _, err := (Grammar{}).ParseInstruction(d, "{%  %}", 2, 4); err != preprocess.ErrMalformed {
		t.Fatalf("got %v, want ErrMalformed", err)
	}
}

func TestProcessStructure(t *testing.T) {
	tests := []struct {
		name string
		html string
		want diag.Code
		tag  string
	}{
		{"dangling if", "<div>{% if a %}x</div>", diag.ExpectedInstruction, "{% endif %}"},
		{"dangling spaceless", "{% spaceless %}<p></p>", diag.ExpectedInstruction, "{% endspaceless %}"},
		{"dangling freeform comment", "{# freeform #}<p></p>", diag.ExpectedInstruction, "{# endfreeform #}"},
		{"empty outside a block", "<p>{% empty %}</p>", diag.UnmatchedInstruction, "{% empty %}"},
		{"endfor closing if", "{% if a %}{% endfor %}", diag.UnmatchedInstruction, "{% endfor %}"},
		{"plural outside blocktrans", "{% plural %}", diag.UnmatchedInstruction, "{% plural %}"},
		{"stray endblock", "{% endblock %}", diag.UnmatchedInstruction, "{% endblock %}"},
		{"stray endspaceless", "<p></p>{% endspaceless %}", diag.UnmatchedInstruction, "{% endspaceless %}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New()
			if err := p.Reset(tt.html, false); err != nil {
				t.Fatalf("Reset: %v", err)
			}
			_, err := p.Process()
			se, ok := diag.AsStructural(err)
			if !ok {
				t.Fatalf("expected structural error, got %v", err)
			}
			if se.Diagnostic.Code != tt.want || se.Diagnostic.Replacements["tag"] != tt.tag {
				t.Fatalf("got %s %q, want %s %q", se.Diagnostic.Code.ID(), se.Diagnostic.Replacements["tag"], tt.want.ID(), tt.tag)
			}
		})
	}
}

func TestProcessValidTemplate(t *testing.T) {
	html := strings.Join([]string{
		"{% block content %}",
		"{% for item in items %}",
		"<p>{{ item }}</p>",
		"{% empty %}",
		"<p>none</p>",
		"{% endfor %}",
		"{% blocktrans count n=items|length %}one{% plural %}many{% endblocktrans %}",
		"{% endblock %}",
		"",
	}, "\n")
	p := New()
	if err := p.Reset(html, false); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	out, err := p.Process()
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %s", diag.FormatCodes(p.Errors()))
	}
	restored, err := p.Restore(out, nil)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored != html {
		t.Fatalf("round trip changed the document:\n%s", restored)
	}
}
