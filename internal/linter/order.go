package linter

import "strings"

// attrPriority lists what comes first in a tag, in order. Each entry holds
// for names that belong later, so ordering by the flags puts matches first.
var attrPriority = []func(name string) bool{
	not(is("⚡")),
	not(is("amp")),
	not(is("lang")),
	not(is("rel")),
	not(is("as")),
	not(is("for")),
	not(is("type")),
	not(is("id")),
	not(is("class")),
	not(contains("class")),
	not(is("name")),
	not(contains("href")),
	not(is("itemid")),
	not(is("itemscope")),
	not(is("itemtype")),
	not(is("itemprop")),
	not(is("property")),
	not(is("content")),
	not(is("value")),
	not(contains("value")),
	not(is("placeholder")),
	not(is("checked")),
	not(contains("checked")),
	not(is("href")),
	not(is("src")),
	not(contains("src")),
	not(is("multiple")),
	not(is("size")),
	not(is("step")),
	not(is("sizes")),
	not(is("width")),
	not(is("height")),
	not(is("alt")),
	not(is("title")),
	not(is("pattern")),
	not(is("maxlength")),
	not(is("disabled")),
	not(is("hidden")),
	not(contains("hidden")),
	not(is("readonly")),
	not(is("required")),
	not(is("autocomplete")),
	not(is("autofocus")),
	not(is("tabindex")),
	not(hasPrefix("form")),
	not(is("style")),
	// pushed to the end, the last prefix furthest
	hasPrefix("on"),
	hasPrefix("@"),
	hasPrefix("x-"),
	hasPrefix("data-"),
}

func is(s string) func(string) bool        { return func(n string) bool { return n == s } }
func contains(s string) func(string) bool  { return func(n string) bool { return strings.Contains(n, s) } }
func hasPrefix(s string) func(string) bool { return func(n string) bool { return strings.HasPrefix(n, s) } }
func not(f func(string) bool) func(string) bool {
	return func(n string) bool { return !f(n) }
}

// orderKey returns a string whose byte order is the attribute order. Groups
// without a named attribute sort last.
func orderKey(name *string) string {
	var b strings.Builder
	b.Grow(len(attrPriority) + 16)
	if name == nil {
		b.WriteByte('1')
		return b.String()
	}
	b.WriteByte('0')
	for _, f := range attrPriority {
		if f(*name) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	b.WriteString(*name)
	return b.String()
}
