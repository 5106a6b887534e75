package diag

import (
	"errors"
	"fmt"
)

var (
	// ErrDoctype is returned when a document declares a doctype other than
	// "html" and doctype checking is off. Callers skip such documents.
	ErrDoctype = errors.New("document is not HTML5")

	// ErrSetup is returned when a preprocessor is used out of order.
	ErrSetup = errors.New("preprocessor used before processing")
)

// StructuralError aborts processing of a document. It carries exactly one
// diagnostic.
type StructuralError struct {
	Diagnostic Diagnostic
}

// NewStructuralError wraps d, marking it fatal.
func NewStructuralError(d Diagnostic) *StructuralError {
	d.Severity = SevFatal
	return &StructuralError{Diagnostic: d}
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%d:%d %s %s", e.Diagnostic.Line, e.Diagnostic.Column, e.Diagnostic.Code.ID(), e.Diagnostic.Message())
}

// ConfigurationError reports options that can't be honored together.
type ConfigurationError struct {
	Code Code
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("Can’t run --fix with structural rule %s ignored", e.Code.ID())
}

// AsStructural unwraps err into a *StructuralError when possible.
func AsStructural(err error) (*StructuralError, bool) {
	var se *StructuralError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
