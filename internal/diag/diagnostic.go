package diag

import "strings"

// Diagnostic is a single rule violation found in a document.
// Line is 1-based, Column is 0-based.
type Diagnostic struct {
	Severity     Severity
	Code         Code
	Line         int
	Column       int
	Replacements map[string]string
}

// Message renders the rule template with the diagnostic's replacements.
func (d Diagnostic) Message() string {
	msg := d.Code.Title()
	if len(d.Replacements) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, 2*len(d.Replacements))
	for k, v := range d.Replacements {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

// Before reports whether d sorts before other by position.
func (d Diagnostic) Before(other Diagnostic) bool {
	if d.Line != other.Line {
		return d.Line < other.Line
	}
	return d.Column < other.Column
}
