package diag

import "testing"

func TestFormatShortDiagnostics(t *testing.T) {
	diags := []Diagnostic{
		New(Indentation, 3, 0),
		New(ExpectedClosingTag, 1, 11).WithTag("</span>"),
		NewStructuralError(New(MalformedInstruction, 5, 2)).Diagnostic,
	}

	expected := "D3 1:11 Expected </span>\n" +
		"F3 3:0 Incorrect indentation\n" +
		"FATAL P4 5:2 Malformed processing instruction"

	if got := FormatShortDiagnostics(diags); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatCodes(t *testing.T) {
	got := FormatCodes([]Diagnostic{New(DoctypeCase, 1, 0), New(RawAmpersand, 2, 4)})
	if got != "F1 E2" {
		t.Fatalf("got %q", got)
	}
}
