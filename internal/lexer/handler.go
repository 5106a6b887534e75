package lexer

import "cutesy/internal/diag"

// Attr is one attribute of a start tag. Value is already stripped of its
// quotes; HasValue is false for bare attributes such as "disabled".
type Attr struct {
	Name     string
	Value    string
	HasValue bool
}

// Tag is a parsed start tag. Raw is the exact source text of the tag.
type Tag struct {
	Name  string
	Attrs []Attr
	Raw   string
}

// Handler receives scanner events in document order. Returning an error
// stops the scan and the error is returned from Scan.
type Handler interface {
	Decl(decl string) error
	StartTag(t Tag) error
	StartEndTag(t Tag) error
	EndTag(name string) error
	Data(text string) error
	EntityRef(name string) error
	CharRef(name string) error
	// Comment receives comments, bogus comments and marked sections verbatim.
	Comment(raw string) error
	// Instruction receives the inside of a placeholder, type character first.
	Instruction(body string) error

	// Report records a recoverable diagnostic at the current position.
	Report(code diag.Code, replacements map[string]string) error
	// Fatal builds the error that aborts the scan.
	Fatal(code diag.Code, replacements map[string]string) error
	// Fixing reports whether violations of code are rewritten instead of
	// reported.
	Fixing(code diag.Code) bool
}
