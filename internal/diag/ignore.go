package diag

import (
	"sort"
	"strings"
)

// IgnoreSet holds rule codes and categories to suppress.
// Entries are either exact codes ("F3") or category prefixes ("F", "TW").
type IgnoreSet map[string]struct{}

// ParseIgnore builds an IgnoreSet from comma or whitespace separated entries.
func ParseIgnore(specs ...string) IgnoreSet {
	set := make(IgnoreSet)
	for _, spec := range specs {
		for _, f := range strings.FieldsFunc(spec, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n'
		}) {
			set[strings.ToUpper(f)] = struct{}{}
		}
	}
	return set
}

// Ignored reports whether the rule is suppressed by exact code, category,
// or first letter.
func (s IgnoreSet) Ignored(c Code) bool {
	if len(s) == 0 || !c.valid() {
		return false
	}
	id := c.ID()
	if _, ok := s[id]; ok {
		return true
	}
	if _, ok := s[c.Category()]; ok {
		return true
	}
	_, ok := s[id[:1]]
	return ok
}

// Codes returns the exact codes the set names, skipping categories.
func (s IgnoreSet) Codes() []Code {
	var out []Code
	for _, c := range Codes() {
		if _, ok := s[c.ID()]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Names returns the entries of the set, sorted.
func (s IgnoreSet) Names() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
