package diag

import (
	"strings"
	"testing"
)

func TestCodesAreUnique(t *testing.T) {
	seen := map[string]Code{}
	for _, c := range Codes() {
		if prev, ok := seen[c.ID()]; ok {
			t.Fatalf("%s used by %d and %d", c.ID(), prev, c)
		}
		seen[c.ID()] = c
	}
	if len(seen) != 38 {
		t.Fatalf("expected 38 rules, got %d", len(seen))
	}
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		in   string
		want Code
		ok   bool
	}{
		{"F3", Indentation, true},
		{"f16", AttributeOwnQuote, true},
		{" TW1 ", ClassInstructionOverlap, true},
		{"Z9", UnknownCode, false},
		{"", UnknownCode, false},
	}
	for _, tt := range tests {
		got, ok := ParseCode(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseCode(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCategory(t *testing.T) {
	tests := map[Code]string{
		Indentation:             "F",
		InstructionTooShort:     "T",
		ClassInstructionOverlap: "TW",
		DoctypeNotHTML:          "E",
	}
	for c, want := range tests {
		if got := c.Category(); got != want {
			t.Errorf("%s: category %q, want %q", c.ID(), got, want)
		}
	}
}

func TestMessageReplacements(t *testing.T) {
	d := New(AttributeCase, 1, 0).WithAttr("CLASS")
	if got, want := d.Message(), "Attribute “CLASS” not lowercase"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got := New(Indentation, 1, 0).Message(); got != "Incorrect indentation" {
		t.Fatalf("got %q", got)
	}
}

func TestStructuralFlags(t *testing.T) {
	structural := []Code{TrailingWhitespace, Indentation, VoidSelfClosing, AttributeQuotes, ClassInstructionOverlap}
	for _, c := range structural {
		if !c.Structural() {
			t.Errorf("%s should be structural", c.ID())
		}
	}
	for _, c := range []Code{AttributeOrder, DoctypeCase, MissingFinalNewline, InstructionExtraWS} {
		if c.Structural() {
			t.Errorf("%s should not be structural", c.ID())
		}
	}
}

func TestIgnoreSet(t *testing.T) {
	set := ParseIgnore("F3, d", "TW")
	tests := map[Code]bool{
		Indentation:             true,
		TrailingWhitespace:      false,
		ExpectedClosingTag:      true,
		ClassInstructionOverlap: true,
		InstructionTooShort:     false,
		UnknownCode:             false,
	}
	for c, want := range tests {
		if got := set.Ignored(c); got != want {
			t.Errorf("Ignored(%s) = %v, want %v", c.ID(), got, want)
		}
	}
	if codes := set.Codes(); len(codes) != 1 || codes[0] != Indentation {
		t.Errorf("Codes() = %v", codes)
	}
	if names := strings.Join(set.Names(), ","); names != "D,F3,TW" {
		t.Errorf("Names() = %s", names)
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(4)
	b.Add(New(VerticalWhitespace, 4, 0))
	b.Add(New(Indentation, 2, 3))
	b.Add(New(VerticalWhitespace, 4, 0))
	b.Add(New(TrailingWhitespace, 2, 1))
	b.Sort()
	b.Dedup()
	if got, want := FormatCodes(b.Items()), "F2 F3 F4"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if !b.Has(Indentation, 2) || b.Has(Indentation, 4) {
		t.Fatal("Has reported wrong membership")
	}
}
