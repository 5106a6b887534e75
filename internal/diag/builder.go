package diag

// New returns an error-severity diagnostic at the given position.
func New(code Code, line, column int) Diagnostic {
	return Diagnostic{
		Severity: SevError,
		Code:     code,
		Line:     line,
		Column:   column,
	}
}

// With returns a copy of d with the named replacement set.
func (d Diagnostic) With(key, value string) Diagnostic {
	repl := make(map[string]string, len(d.Replacements)+1)
	for k, v := range d.Replacements {
		repl[k] = v
	}
	repl[key] = value
	d.Replacements = repl
	return d
}

// WithTag is a shortcut for With("tag", tag).
func (d Diagnostic) WithTag(tag string) Diagnostic {
	return d.With("tag", tag)
}

// WithAttr is a shortcut for With("attr", attr).
func (d Diagnostic) WithAttr(attr string) Diagnostic {
	return d.With("attr", attr)
}
