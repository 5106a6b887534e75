package instr

// Type classifies a template instruction by its role in block nesting.
// Each type maps to one placeholder character in the contiguous range a-n.
type Type uint8

const (
	// Partial opens a named block, e.g. {% block %}.
	Partial Type = iota
	// EndPartial closes a Partial.
	EndPartial
	// Conditional opens an if-like block.
	Conditional
	// MidConditional continues a Conditional, e.g. elif.
	MidConditional
	// LastConditional is the final branch of a Conditional, e.g. else.
	LastConditional
	// EndConditional closes a Conditional.
	EndConditional
	// Repeatable opens a loop.
	Repeatable
	// EndRepeatable closes a Repeatable.
	EndRepeatable
	// Value is an expression or standalone tag.
	Value
	// Freeform starts a region that is passed through unformatted.
	Freeform
	// EndFreeform ends a Freeform region.
	EndFreeform
	// Comment is a block comment whose body is never inspected.
	Comment
	// EndComment closes a Comment.
	EndComment
	// Ignored is an instruction that is kept verbatim.
	Ignored

	typeCount
)

// FirstChar and LastChar bound the placeholder type characters.
const (
	FirstChar = 'a'
	LastChar  = FirstChar + rune(typeCount) - 1
)

var names = [typeCount]string{
	Partial:         "partial",
	EndPartial:      "end partial",
	Conditional:     "conditional",
	MidConditional:  "mid conditional",
	LastConditional: "last conditional",
	EndConditional:  "end conditional",
	Repeatable:      "repeatable",
	EndRepeatable:   "end repeatable",
	Value:           "value",
	Freeform:        "freeform",
	EndFreeform:     "end freeform",
	Comment:         "comment",
	EndComment:      "end comment",
	Ignored:         "ignored",
}

func (t Type) String() string {
	if t >= typeCount {
		return "invalid"
	}
	return names[t]
}

// Char returns the placeholder character for t.
func (t Type) Char() rune {
	return FirstChar + rune(t)
}

// FromChar decodes a placeholder character.
func FromChar(r rune) (Type, bool) {
	if r < FirstChar || r > LastChar {
		return 0, false
	}
	return Type(r - FirstChar), true
}

// StartsBlock reports whether t opens an indented block.
func (t Type) StartsBlock() bool {
	switch t {
	case Partial, Conditional, Repeatable:
		return true
	default:
		return false
	}
}

// ContinuesBlock reports whether t is an else-like branch.
func (t Type) ContinuesBlock() bool {
	switch t {
	case MidConditional, LastConditional:
		return true
	default:
		return false
	}
}

// EndsBlock reports whether t closes an indented block.
func (t Type) EndsBlock() bool {
	switch t {
	case EndPartial, EndConditional, EndRepeatable:
		return true
	default:
		return false
	}
}

// Opener returns the type that must be open for a continuing or closing
// instruction to be valid. Freeform pairs are included so that unbalanced
// freeform regions are caught, although they never change indentation.
func (t Type) Opener() (Type, bool) {
	switch t {
	case MidConditional, LastConditional, EndConditional:
		return Conditional, true
	case EndPartial:
		return Partial, true
	case EndRepeatable:
		return Repeatable, true
	case EndFreeform:
		return Freeform, true
	default:
		return 0, false
	}
}
