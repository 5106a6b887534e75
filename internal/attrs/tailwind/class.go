// Package tailwind orders the names in class attributes the way Tailwind CSS
// projects conventionally write them: utilities by group, then variants,
// with project-specific classes last.
package tailwind

import "strings"

// Class is one parsed class name.
type Class struct {
	// Name is the utility without variants or the negative prefix.
	Name      string
	Modifiers []string
	Full      string
}

// Parse splits a class name into its variants and utility. Colons and @
// inside brackets or after a backslash don't separate variants.
func Parse(full string) Class {
	var (
		parts    []string
		buf      strings.Builder
		brackets bool
		escape   bool
	)
	for _, c := range full {
		switch {
		case escape:
			buf.WriteRune(c)
			escape = false
		case c == '\\':
			buf.WriteRune(c)
			escape = true
		case (c == ':' || c == '@') && !brackets:
			parts = append(parts, buf.String())
			buf.Reset()
		default:
			switch c {
			case '[':
				brackets = true
			case ']':
				brackets = false
			}
			buf.WriteRune(c)
		}
	}
	parts = append(parts, buf.String())

	mods := parts[:len(parts)-1]
	name := strings.TrimPrefix(parts[len(parts)-1], "-")

	// an empty part comes from @: it prefixes the next variant, or the
	// utility when it is the last one (@container)
	var modifiers []string
	for i := 0; i < len(mods); i++ {
		switch {
		case mods[i] == "" && i+1 < len(mods):
			modifiers = append(modifiers, "@"+mods[i+1])
			i++
		case mods[i] == "":
			name = "@" + name
		default:
			modifiers = append(modifiers, mods[i])
		}
	}
	return Class{Name: name, Modifiers: modifiers, Full: full}
}
