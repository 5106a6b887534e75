package diag

import (
	"fmt"
	"sort"
	"strings"
)

type goldenDiagnostic struct {
	Severity string
	Code     string
	Line     int
	Column   int
	Message  string
}

// FormatShortDiagnostics renders diagnostics into a stable, single-line-per-entry
// representation used by tests and the CLI's short output:
//
//	F3 2:0 Incorrect indentation
//
// Fatal diagnostics are prefixed with "FATAL ".
func FormatShortDiagnostics(diags []Diagnostic) string {
	if len(diags) == 0 {
		return ""
	}

	rendered := make([]goldenDiagnostic, 0, len(diags))
	for _, d := range diags {
		rendered = append(rendered, goldenDiagnostic{
			Severity: severityLabel(d.Severity),
			Code:     d.Code.ID(),
			Line:     d.Line,
			Column:   d.Column,
			Message:  sanitizeMessage(d.Message()),
		})
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		return di.Column < dj.Column
	})

	var b strings.Builder
	for i, d := range rendered {
		fmt.Fprintf(&b, "%s%s %d:%d %s", d.Severity, d.Code, d.Line, d.Column, d.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// FormatCodes lists the rule identifiers of diags in order, space separated.
func FormatCodes(diags []Diagnostic) string {
	ids := make([]string, len(diags))
	for i, d := range diags {
		ids[i] = d.Code.ID()
	}
	return strings.Join(ids, " ")
}

func severityLabel(sev Severity) string {
	if sev == SevFatal {
		return "FATAL "
	}
	return ""
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
