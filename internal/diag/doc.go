// Package diag defines the rule catalog and diagnostic model shared by the
// preprocessor, lexer, linter and attribute processors.
//
// # Rules
//
// Code is a closed enum of lint rules. Each code carries a short identifier
// ("F3"), a message template with {name} placeholders, and two flags:
//
//   - Structural – violating the rule while fixing aborts the document, since
//     continuing could corrupt output. Ignoring a structural rule together with
//     fix mode is a ConfigurationError.
//   - Fixable – fix mode rewrites the violation instead of reporting it.
//
// The category of a rule is its alphabetic prefix: D (document structure),
// F (formatting), E (encoding), P (preprocessing), T (placeholder), TW
// (Tailwind). IgnoreSet matches exact codes or categories.
//
// # Data model
//
// Diagnostic records one violation: 1-based Line, 0-based Column, the Code and
// a replacement map for the message template. Positions are assigned against
// placeholder text and shifted by the preprocessor's restore pass, so they
// match the document the user sees.
//
// # Errors
//
// Reportable diagnostics are collected in a Bag. Fatal conditions are returned
// as *StructuralError holding exactly one diagnostic. ErrDoctype is a skip
// signal rather than a failure.
package diag
