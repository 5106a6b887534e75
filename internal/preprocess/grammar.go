package preprocess

import (
	"errors"

	"cutesy/internal/instr"
)

// ErrMalformed is returned by a Grammar when an instruction can't be parsed.
var ErrMalformed = errors.New("malformed processing instruction")

// Delimiters is an opening and closing delimiter pair, e.g. "{%" and "%}".
type Delimiters struct {
	Open  string
	Close string
}

// Grammar describes a template language.
type Grammar interface {
	// Name identifies the grammar in configuration, e.g. "django".
	Name() string
	// Delimiters lists the recognized delimiter pairs.
	Delimiters() []Delimiters
	// ClosingTags maps comment-like instruction names to the keyword that
	// closes them. Their bodies are skipped without parsing.
	ClosingTags() map[string]string
	// Closers maps block-opening instruction names to the keyword that closes
	// them, used to name the expected instruction when a block is left open.
	Closers() map[string]string
	// ParseInstruction classifies text[start:end], the body between d.Open
	// and d.Close, into a display name and instruction type.
	ParseInstruction(d Delimiters, text string, start, end int) (string, instr.Type, error)
}
