// Package preprocess implements the placeholder protocol that lets template
// languages pass through an HTML-only tokenizer.
//
// # Protocol
//
// Process scans a document for instruction delimiters supplied by a Grammar
// and replaces every instruction with a placeholder of the same length:
//
//	L type id padding R
//
// L and R are two code points chosen per document so that they never occur
// in it. type is the instr.Type character, id is the base36 index into the
// instruction table (empty for the first instruction), and padding is a run
// of dashes. Equal length keeps every line and column computed on the
// placeholder text valid for the original, except for newlines inside
// instructions, which Restore accounts for.
//
// # Errors
//
// Unterminated or unbalanced instructions abort with a *diag.StructuralError.
// Formatting problems inside instructions (P5, P6) are collected and returned
// by Errors. Restore before Process returns diag.ErrSetup.
package preprocess
