// Package django implements the Django template language grammar for the
// placeholder preprocessor.
package django

import (
	"strings"

	"cutesy/internal/instr"
	"cutesy/internal/preprocess"
)

var delimiters = []preprocess.Delimiters{
	{Open: "{%", Close: "%}"},
	{Open: "{{", Close: "}}"},
	{Open: "{#", Close: "#}"},
}

var closingTags = map[string]string{
	"freeform":       "endfreeform",
	"comment":        "endcomment",
	"spaceless":      "endspaceless",
	"spaceless_json": "endspaceless_json",
}

var closers = map[string]string{
	"block":          "endblock",
	"if":             "endif",
	"for":            "endfor",
	"while":          "endwhile",
	"with":           "endwith",
	"blocktrans":     "endblocktrans",
	"freeform":       "endfreeform",
	"spaceless":      "endspaceless",
	"spaceless_json": "endspaceless_json",
}

var tags = map[string]instr.Type{
	"block":             instr.Partial,
	"endblock":          instr.EndPartial,
	"if":                instr.Conditional,
	"elif":              instr.MidConditional,
	"else":              instr.LastConditional,
	"endif":             instr.EndConditional,
	"for":               instr.Repeatable,
	"empty":             instr.MidConditional,
	"endfor":            instr.EndRepeatable,
	"while":             instr.Repeatable,
	"endwhile":          instr.EndRepeatable,
	"with":              instr.Partial,
	"endwith":           instr.EndPartial,
	"blocktrans":        instr.Conditional,
	"plural":            instr.LastConditional,
	"endblocktrans":     instr.EndConditional,
	"comment":           instr.Comment,
	"endcomment":        instr.EndComment,
	"spaceless":         instr.Freeform,
	"endspaceless":      instr.EndFreeform,
	"spaceless_json":    instr.Freeform,
	"endspaceless_json": instr.EndFreeform,
}

// Directive comments understood inside {# #}.
var commentTags = map[string]instr.Type{
	"freeform":    instr.Freeform,
	"endfreeform": instr.EndFreeform,
}

// Grammar is the Django template grammar.
type Grammar struct{}

// New returns a preprocessor configured for Django templates.
func New() *preprocess.Preprocessor {
	return preprocess.New(Grammar{})
}

func (Grammar) Name() string { return "django" }

func (Grammar) Delimiters() []preprocess.Delimiters { return delimiters }

func (Grammar) ClosingTags() map[string]string { return closingTags }

func (Grammar) Closers() map[string]string { return closers }

// ParseInstruction classifies a Django tag by its first word. Variables are
// values, unknown tags behave like values, and comments are ignored unless
// they are freeform directives.
func (Grammar) ParseInstruction(d preprocess.Delimiters, text string, start, end int) (string, instr.Type, error) {
	if d.Open == "{{" {
		return "…", instr.Value, nil
	}

	fields := strings.Fields(text[start:end])
	if len(fields) == 0 {
		if d.Open == "{#" {
			return "…", instr.Ignored, nil
		}
		return "", 0, preprocess.ErrMalformed
	}
	name := fields[0]

	if d.Open == "{#" {
		if typ, ok := commentTags[name]; ok {
			return name, typ, nil
		}
		return "…", instr.Ignored, nil
	}

	if typ, ok := tags[name]; ok {
		return name, typ, nil
	}
	return name, instr.Value, nil
}
