package linter

import (
	"sort"
	"strings"
	"unicode/utf8"

	"cutesy/internal/attrs"
	"cutesy/internal/diag"
	"cutesy/internal/instr"
)

type attr struct {
	name     string
	value    string
	hasValue bool
}

// attrGroup is one attribute, or the attributes of one instruction block
// written together. key is the name the group sorts by; nil sorts last.
type attrGroup struct {
	key   *string
	items []string
}

// attrStrings renders attributes in canonical order. Instruction blocks
// around attributes become groups that move as a unit. final marks the pass
// whose diagnostics are kept; depth is the block nesting, names are split
// at depth 0 only.
func (r *run) attrStrings(in []attr, solo, final bool, depth int) (*string, []string, error) {
	all := in
	if depth == 0 {
		var err error
		if all, err = r.splitNames(in, final); err != nil {
			return nil, nil, err
		}
	}

	var (
		groups   []attrGroup
		nesting  int
		group    []string
		groupKey *string
		sub      []attr
	)
	flushSub := func() error {
		key, strs, err := r.attrStrings(sub, false, final, depth+1)
		if err != nil {
			return err
		}
		groupKey = minKey(groupKey, key)
		for _, s := range strs {
			group = append(group, r.indentUnit+s)
		}
		sub = nil
		return nil
	}

	for _, a := range all {
		typ, isBlock := r.blockType(a.name)
		switch {
		case isBlock && typ.StartsBlock():
			nesting++
			if nesting == 1 {
				group, groupKey, sub = []string{a.name}, nil, nil
			} else {
				sub = append(sub, a)
			}
		case isBlock && typ.ContinuesBlock() && nesting > 0:
			if nesting > 1 {
				sub = append(sub, a)
				continue
			}
			if err := flushSub(); err != nil {
				return nil, nil, err
			}
			group = append(group, a.name)
		case isBlock && typ.EndsBlock() && nesting > 0:
			if nesting > 1 {
				sub = append(sub, a)
				nesting--
				continue
			}
			if err := flushSub(); err != nil {
				return nil, nil, err
			}
			group = append(group, a.name)
			groups = append(groups, attrGroup{key: groupKey, items: group})
			group, groupKey = nil, nil
			nesting--
		case nesting > 0:
			sub = append(sub, a)
		default:
			s, err := r.attrString(a, solo, final)
			if err != nil {
				return nil, nil, err
			}
			name := a.name
			groups = append(groups, attrGroup{key: &name, items: []string{s}})
		}
	}
	if nesting > 0 {
		// the block doesn't close inside this tag; keep what was collected
		if err := flushSub(); err != nil {
			return nil, nil, err
		}
		groups = append(groups, attrGroup{key: groupKey, items: group})
	}

	keys := make([]string, len(groups))
	for i, g := range groups {
		keys[i] = orderKey(g.key)
	}
	order := make([]int, len(groups))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return keys[order[i]] < keys[order[j]] })
	sorted := true
	for i, j := range order {
		if i != j {
			sorted = false
			break
		}
	}
	if r.fix {
		reordered := make([]attrGroup, len(groups))
		for i, j := range order {
			reordered[i] = groups[j]
		}
		groups = reordered
	} else if !sorted && final {
		if err := r.report(diag.AttributeOrder, 0, -1, nil); err != nil {
			return nil, nil, err
		}
	}

	var key *string
	if len(groups) > 0 {
		key = groups[0].key
	}

	var out []string
	for _, g := range groups {
		switch {
		case r.flattenable(g.items):
			inner := make([]string, 0, len(g.items)-2)
			for _, s := range g.items[1 : len(g.items)-1] {
				inner = append(inner, strings.TrimPrefix(s, r.indentUnit))
			}
			out = append(out, g.items[0]+strings.Join(inner, " ")+g.items[len(g.items)-1])
		case len(g.items) == 2:
			out = append(out, g.items[0]+g.items[1])
		default:
			out = append(out, g.items...)
		}
	}
	return key, out, nil
}

// flattenable reports whether a block group fits on one line.
func (r *run) flattenable(items []string) bool {
	if len(items) < 3 || len(items) > r.maxItems {
		return false
	}
	width := r.tabWidth * (r.level + 1)
	for _, s := range items {
		if strings.Contains(s, "\n") {
			return false
		}
		width += utf8.RuneCountInString(s)
	}
	return width <= r.lineLength
}

// attrString renders one attribute, running the value processors.
func (r *run) attrString(a attr, solo, final bool) (string, error) {
	if !a.hasValue {
		return a.name, nil
	}
	quote := byte('"')
	if strings.Contains(a.value, `"`) {
		quote = '\''
	}
	line, col := r.scanner.Pos()
	ctx := attrs.Context{
		Attr:         a.name,
		Line:         line,
		Column:       col,
		Indent:       r.indentUnit,
		Level:        max(r.level, 0) + 1,
		TabWidth:     r.tabWidth,
		LineLength:   r.lineLength,
		MaxItems:     r.maxItems,
		Quote:        quote,
		Solo:         solo,
		Preprocessor: r.pre,
	}

	value := a.value
	clean := true
	for _, p := range r.processors {
		var diags []diag.Diagnostic
		value, diags = p.Process(ctx, value)
		if len(diags) > 0 {
			clean = false
		}
		if !final {
			continue
		}
		for _, d := range diags {
			if err := r.handle(d); err != nil {
				return "", err
			}
		}
	}
	if final && clean && value != a.value && !r.fixing(diag.AttributeValueFormat) {
		if err := r.handle(ctx.Diagnostic(diag.AttributeValueFormat)); err != nil {
			return "", err
		}
	}
	return a.name + "=" + string(quote) + value + string(quote), nil
}

// splitNames separates block instructions written inside attribute names
// from the literal names around them. Names are lowercased.
func (r *run) splitNames(in []attr, final bool) ([]attr, error) {
	out := make([]attr, 0, len(in))
	for _, a := range in {
		name := a.name
		if r.pre != nil && r.pre.Contains(name) {
			var lit []string
			pos := 0
			for _, sp := range r.pre.Placeholders(name) {
				if !sp.Type.StartsBlock() && !sp.Type.ContinuesBlock() && !sp.Type.EndsBlock() {
					continue
				}
				lit = append(lit, name[pos:sp.Start], name[sp.Start:sp.End])
				pos = sp.End
			}
			lit = append(lit, name[pos:])
			// the value belongs to the last literal part
			owner := -1
			for i := 0; i < len(lit); i += 2 {
				if lit[i] != "" {
					owner = i
				}
			}
			for i, part := range lit {
				if part == "" {
					continue
				}
				if i%2 == 1 {
					out = append(out, attr{name: part})
					continue
				}
				lower, err := r.lowerName(part, final)
				if err != nil {
					return nil, err
				}
				na := attr{name: lower}
				if i == owner {
					na.value, na.hasValue = a.value, a.hasValue
				}
				out = append(out, na)
			}
			continue
		}
		lower, err := r.lowerName(name, final)
		if err != nil {
			return nil, err
		}
		out = append(out, attr{name: lower, value: a.value, hasValue: a.hasValue})
	}
	return out, nil
}

func (r *run) lowerName(name string, final bool) (string, error) {
	lower := strings.ToLower(name)
	if lower != name && final && !r.fix {
		if err := r.report(diag.AttributeCase, 0, -1, map[string]string{"attr": lower}); err != nil {
			return "", err
		}
	}
	return lower, nil
}

// blockType classifies an attribute that is a single block instruction
// placeholder.
func (r *run) blockType(name string) (instr.Type, bool) {
	if r.pre == nil {
		return 0, false
	}
	typ, ok := r.pre.Placeholder(name)
	if !ok {
		return 0, false
	}
	return typ, typ.StartsBlock() || typ.ContinuesBlock() || typ.EndsBlock()
}

func minKey(a, b *string) *string {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case *b < *a:
		return b
	}
	return a
}
