package instr_test

import (
	"testing"

	"cutesy/internal/instr"
)

func TestCharRoundTrip(t *testing.T) {
	if instr.Partial.Char() != 'a' || instr.Ignored.Char() != 'n' {
		t.Fatalf("unexpected range %q..%q", instr.Partial.Char(), instr.Ignored.Char())
	}
	if instr.LastChar != 'n' {
		t.Fatalf("LastChar = %q", instr.LastChar)
	}
	for r := instr.FirstChar; r <= instr.LastChar; r++ {
		typ, ok := instr.FromChar(r)
		if !ok {
			t.Fatalf("%q not decoded", r)
		}
		if typ.Char() != r {
			t.Fatalf("%q decoded to %v (%q)", r, typ, typ.Char())
		}
	}
	if _, ok := instr.FromChar('o'); ok {
		t.Fatal("'o' must not decode")
	}
}

func TestFacets(t *testing.T) {
	tests := []struct {
		typ                    instr.Type
		starts, continues, end bool
	}{
		{instr.Partial, true, false, false},
		{instr.EndPartial, false, false, true},
		{instr.Conditional, true, false, false},
		{instr.MidConditional, false, true, false},
		{instr.LastConditional, false, true, false},
		{instr.EndConditional, false, false, true},
		{instr.Repeatable, true, false, false},
		{instr.EndRepeatable, false, false, true},
		{instr.Value, false, false, false},
		{instr.Freeform, false, false, false},
		{instr.EndFreeform, false, false, false},
		{instr.Comment, false, false, false},
		{instr.EndComment, false, false, false},
		{instr.Ignored, false, false, false},
	}
	for _, tt := range tests {
		if tt.typ.StartsBlock() != tt.starts || tt.typ.ContinuesBlock() != tt.continues || tt.typ.EndsBlock() != tt.end {
			t.Errorf("%v: facets (%v %v %v), want (%v %v %v)", tt.typ,
				tt.typ.StartsBlock(), tt.typ.ContinuesBlock(), tt.typ.EndsBlock(),
				tt.starts, tt.continues, tt.end)
		}
	}
}

func TestOpener(t *testing.T) {
	tests := map[instr.Type]instr.Type{
		instr.MidConditional:  instr.Conditional,
		instr.LastConditional: instr.Conditional,
		instr.EndConditional:  instr.Conditional,
		instr.EndPartial:      instr.Partial,
		instr.EndRepeatable:   instr.Repeatable,
		instr.EndFreeform:     instr.Freeform,
	}
	for typ, want := range tests {
		got, ok := typ.Opener()
		if !ok || got != want {
			t.Errorf("%v.Opener() = %v, %v; want %v", typ, got, ok, want)
		}
	}
	if _, ok := instr.Value.Opener(); ok {
		t.Error("value has no opener")
	}
}
