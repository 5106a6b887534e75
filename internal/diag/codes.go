package diag

import (
	"fmt"
	"strings"
)

// Code identifies a lint rule.
type Code uint16

const (
	// UnknownCode is the zero value and never reported.
	UnknownCode Code = iota

	// Temporary preprocessing rules
	InstructionTooShort // T1

	// Preprocessing rules
	InstructionOverlap   // P1
	ExpectedInstruction  // P2
	UnmatchedInstruction // P3
	MalformedInstruction // P4
	InstructionExtraWS   // P5
	InstructionPadding   // P6

	// Document structure rules
	DoctypeNotFirst     // D1
	SecondDeclaration   // D2
	ExpectedClosingTag  // D3
	UnmatchedClosingTag // D4
	VoidSelfClosing     // D5
	NonVoidSelfClosing  // D6
	MalformedTag        // D7
	MalformedClosingTag // D8
	MissingFinalNewline // D9

	// Formatting rules
	DoctypeCase          // F1
	TrailingWhitespace   // F2
	Indentation          // F3
	VerticalWhitespace   // F4
	HorizontalWhitespace // F5
	AttributeOrder       // F6
	TagCase              // F7
	AttributeCase        // F8
	AttributeUnquoted    // F9
	AttributeQuotes      // F10
	ClosingTagWhitespace // F11
	LongTagInline        // F12
	TagWhitespace        // F13
	AttributesMultiline  // F14
	AttributesSingleLine // F15
	AttributeOwnQuote    // F16
	AttributeValueFormat // F17

	// Encoding & language rules
	DoctypeNotHTML // E1
	RawAmpersand   // E2
	RawLeftAngle   // E3
	RawRightAngle  // E4

	// Tailwind rules
	ClassInstructionOverlap // TW1

	codeCount
)

type rule struct {
	id         string
	message    string
	structural bool
	fixable    bool
}

var rules = [codeCount]rule{
	UnknownCode:         {"?", "Unknown rule", false, false},
	InstructionTooShort: {"T1", "Instruction not long enough to generate a placeholder", true, false},

	InstructionOverlap:   {"P1", "{tag} overlaps HTML elements or attributes", true, false},
	ExpectedInstruction:  {"P2", "Expected {tag}", true, false},
	UnmatchedInstruction: {"P3", "{tag} doesn’t have a matching opening instruction", true, false},
	MalformedInstruction: {"P4", "Malformed processing instruction", true, false},
	InstructionExtraWS:   {"P5", "Extra whitespace in {tag}", false, false},
	InstructionPadding:   {"P6", "Expected padding in {tag}", false, false},

	DoctypeNotFirst:     {"D1", "Expected doctype before other HTML elements", false, false},
	SecondDeclaration:   {"D2", "Second declaration found; “doctype” should be the only declaration", false, false},
	ExpectedClosingTag:  {"D3", "Expected {tag}", false, false},
	UnmatchedClosingTag: {"D4", "{tag} doesn’t have a matching opening tag", false, false},
	VoidSelfClosing:     {"D5", "Unnecessary self-closing of {tag}", true, true},
	NonVoidSelfClosing:  {"D6", "Self-closing of non-void element {tag}", true, true},
	MalformedTag:        {"D7", "Malformed tag", false, false},
	MalformedClosingTag: {"D8", "Malformed closing tag", false, false},
	MissingFinalNewline: {"D9", "Expected blank line at end of document", false, true},

	DoctypeCase:          {"F1", "Doctype not lowercase", false, true},
	TrailingWhitespace:   {"F2", "Trailing whitespace", true, true},
	Indentation:          {"F3", "Incorrect indentation", true, true},
	VerticalWhitespace:   {"F4", "Extra vertical whitespace", true, true},
	HorizontalWhitespace: {"F5", "Extra horizontal whitespace", true, true},
	AttributeOrder:       {"F6", "Incorrect attribute order", false, true},
	TagCase:              {"F7", "{tag} not lowercase", true, true},
	AttributeCase:        {"F8", "Attribute “{attr}” not lowercase", true, true},
	AttributeUnquoted:    {"F9", "Attribute “{attr}” missing quotes", true, true},
	AttributeQuotes:      {"F10", "Attribute “{attr}” using wrong quotes", true, false},
	ClosingTagWhitespace: {"F11", "{tag} contains whitespace", true, true},
	LongTagInline:        {"F12", "Long tag {tag} should be on a new line", false, true},
	TagWhitespace:        {"F13", "Nonstandard whitespace in {tag}", true, true},
	AttributesMultiline:  {"F14", "Expected {tag} attributes on new lines", true, true},
	AttributesSingleLine: {"F15", "Expected {tag} attributes on a single line", true, true},
	AttributeOwnQuote:    {"F16", "Attribute “{attr}” contains its own quote character", false, false},
	AttributeValueFormat: {"F17", "Incorrect “{attr}” value formatting", false, true},

	DoctypeNotHTML: {"E1", "Doctype not “html”", false, false},
	RawAmpersand:   {"E2", "Ampersand not represented as “&amp;”", false, false},
	RawLeftAngle:   {"E3", "Left angle bracket not represented as “&lt;”", false, false},
	RawRightAngle:  {"E4", "Right angle bracket not represented as “&gt;”", false, false},

	ClassInstructionOverlap: {"TW1", "Control instruction overlaps class names", true, false},
}

var byID = func() map[string]Code {
	m := make(map[string]Code, codeCount)
	for c := UnknownCode + 1; c < codeCount; c++ {
		m[rules[c].id] = c
	}
	return m
}()

// Codes returns every known rule code in catalog order.
func Codes() []Code {
	out := make([]Code, 0, codeCount-1)
	for c := UnknownCode + 1; c < codeCount; c++ {
		out = append(out, c)
	}
	return out
}

// ParseCode resolves a rule identifier such as "F3".
func ParseCode(id string) (Code, bool) {
	c, ok := byID[strings.ToUpper(strings.TrimSpace(id))]
	return c, ok
}

func (c Code) valid() bool {
	return c > UnknownCode && c < codeCount
}

// ID returns the short rule identifier, e.g. "F3".
func (c Code) ID() string {
	if !c.valid() {
		return rules[UnknownCode].id
	}
	return rules[c].id
}

// Title returns the message template with {name} placeholders.
func (c Code) Title() string {
	if !c.valid() {
		return rules[UnknownCode].message
	}
	return rules[c].message
}

// Structural reports whether the rule aborts a document while fixing.
func (c Code) Structural() bool {
	return c.valid() && rules[c].structural
}

// Fixable reports whether fix mode rewrites violations of the rule.
func (c Code) Fixable() bool {
	return c.valid() && rules[c].fixable
}

// Category returns the alphabetic prefix of the rule identifier.
func (c Code) Category() string {
	id := c.ID()
	i := strings.IndexAny(id, "0123456789")
	if i < 0 {
		return id
	}
	return id[:i]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
