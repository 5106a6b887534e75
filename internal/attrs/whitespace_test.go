package attrs

import (
	"strings"
	"testing"

	"cutesy/internal/diag"
)

func testContext(level int) Context {
	return Context{
		Attr:       "data-content",
		Line:       1,
		Column:     10,
		Indent:     "  ",
		Level:      level,
		TabWidth:   2,
		LineLength: 80,
		MaxItems:   5,
		Quote:      '"',
	}
}

func TestHasRawQuote(t *testing.T) {
	tests := []struct {
		value string
		quote byte
		want  bool
	}{
		{`some "text" here`, '"', true},
		{"some text here", '"', false},
		{"some &quot; text", '"', false},
		{"some &#34; text", '"', false},
		{"some &#x22; text", '"', false},
		{"some %22 text", '"', false},
		{`some " text`, '"', false},
		{`some \x22 text`, '"', false},
		{"some 'text' here", '\'', true},
		{"some &apos; text", '\'', false},
		{"some %27 text", '\'', false},
		{`some \" text`, '"', true},
		{`some \' text`, '\'', true},
		{"some text", '`', true},
	}
	for _, tt := range tests {
		if got := HasRawQuote(tt.value, tt.quote); got != tt.want {
			t.Errorf("HasRawQuote(%q, %q) = %v, want %v", tt.value, tt.quote, got, tt.want)
		}
	}
}

func TestCollapseOutsideStrings(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello    world", "hello world"},
		{"a  b   c    d", "a b c d"},
		{"hello \t\t world", "hello world"},
		{`hello "multiple    spaces" world    end`, `hello "multiple    spaces" world end`},
		{"hello 'multiple    spaces' world    end", "hello 'multiple    spaces' world end"},
		{`start   "first  string"   middle   "second  string"   end`, `start   "first  string"   middle   "second  string"   end`},
		{"", ""},
		{"   ", "   "},
		{"hello  \n  world", "hello  \n  world"},
		{`hello "string with \" quote"   end`, `hello "string with \" quote"   end`},
	}
	for _, tt := range tests {
		if got := CollapseOutsideStrings(tt.in); got != tt.want {
			t.Errorf("CollapseOutsideStrings(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWhitespaceProcess(t *testing.T) {
	tests := []struct {
		name  string
		level int
		in    string
		want  string
	}{
		{"collapse", 1, "hello    world", "hello world"},
		{"empty", 1, "", ""},
		{"only whitespace", 1, "   \t  ", ""},
		{"wrapping newlines", 1, "\n  hello world  \n", "hello world"},
		{
			name:  "first line content",
			level: 1,
			in:    "  hello world\n    line two\n    line three  ",
			want:  "hello world\n    line two\n    line three",
		},
		{
			name:  "blank runs",
			level: 1,
			in:    "\n    line one\n\n\n    line two\n\n    line three\n    ",
			want:  "\n    line one\n\n    line two\n\n    line three\n  ",
		},
		{
			name:  "trailing line whitespace",
			level: 1,
			in:    "\n    line one\n    line two\t\t\n    line three  ",
			want:  "\n    line one\n    line two\n    line three\n  ",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, diags := Whitespace{}.Process(testContext(tt.level), tt.in)
			if got != tt.want {
				t.Errorf("Process(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if len(diags) != 0 {
				t.Errorf("unexpected diagnostics %v", diags)
			}
		})
	}
}

func TestWhitespaceNoFirstLineContent(t *testing.T) {
	got, _ := Whitespace{}.Process(testContext(2), "\n    hello world\n    line two\n    ")
	if !strings.HasSuffix(got, "\n    ") {
		t.Fatalf("Process = %q, want the closing line at level 2", got)
	}
}

func TestWhitespaceEncodesOwnQuote(t *testing.T) {
	ctx := testContext(1)
	ctx.Attr = "onclick"
	ctx.Line, ctx.Column = 2, 15

	got, diags := Whitespace{}.Process(ctx, `alert("hello")`)
	if got != "alert(&quot;hello&quot;)" {
		t.Fatalf("Process = %q", got)
	}
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	d := diags[0]
	if d.Code != diag.AttributeOwnQuote || d.Line != 2 || d.Column != 15 || d.Replacements["attr"] != "onclick" {
		t.Errorf("diagnostic = %+v", d)
	}

	ctx.Quote = '\''
	got, diags = Whitespace{}.Process(ctx, "hello 'world' test")
	if got != "hello &apos;world&apos; test" || len(diags) != 1 {
		t.Errorf("single quote: %q %v", got, diags)
	}
}

func TestWhitespaceQuotedStringsAfterEncoding(t *testing.T) {
	in := "\n    const    data = \"keep  spaces\";\n    const    other    = value;"
	got, diags := Whitespace{}.Process(testContext(1), in)
	for _, want := range []string{"&quot;keep spaces&quot;", "const data", "const other = value"} {
		if !strings.Contains(got, want) {
			t.Errorf("Process = %q, missing %q", got, want)
		}
	}
	if len(diags) != 1 {
		t.Errorf("got %d diagnostics, want 1", len(diags))
	}
}
