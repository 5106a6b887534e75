package tailwind

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
)

type group struct {
	name     string
	patterns []*regexp.Regexp
}

func newGroup(name string, patterns ...string) group {
	g := group{name: name}
	for _, p := range patterns {
		g.patterns = append(g.patterns, regexp.MustCompile(`^(?:`+p+`)`))
	}
	return g
}

// groups in output order. A class belongs to the first group with a
// matching pattern.
var groups = []group{
	newGroup("position/float",
		`static|fixed|absolute|relative|sticky`,
		`float-|clear-`,
		`z-|isolation|inset-|top-|right-|bottom-|left-`),
	newGroup("flex/grid core",
		`container|block|inline|inline-block|inline-flex|flex|grid|contents|hidden`,
		`order-`,
		`flex-|grow|shrink|basis-`,
		`grid-cols-|grid-rows-|col-span-|row-span-|col-start-|col-end-|row-start-|row-end-`),
	newGroup("flex/grid alignment",
		`place-content-|place-items-|place-self-`,
		`justify-|content-`,
		`items-|self-`,
		`columns-`,
		`gap-|space-[xy]-`),
	newGroup("spacing",
		`m[trblxyse]?-\S+`,
		`p[trblxyse]?-\S+`),
	newGroup("sizing",
		`w-|min-w-|max-w-|h-|min-h-|max-h-|aspect-`),
	newGroup("typography",
		`font-|text-|leading-|tracking-|list-|placeholder-|whitespace-|break-|hyphens-`,
		`align-`,
		`content-`),
	newGroup("object/overflow",
		`object-`,
		`overflow-`),
	newGroup("backgrounds",
		`bg-`,
		`from-|via-|to-|gradient-`),
	newGroup("borders",
		`border-|rounded-|divide-|outline-`),
	newGroup("effects",
		`shadow-|opacity-|mix-blend-|backdrop-`),
	newGroup("svg",
		`fill-|stroke-`),
	newGroup("transforms",
		`transform|scale-|rotate-|translate-|skew-`),
	newGroup("transitions",
		`transition|duration-|ease-|delay-|animate-`),
	newGroup("interactivity",
		`cursor-|select-|pointer-events-|touch-|scroll-|overscroll-|snap-`),
	newGroup("accessibility",
		`sr-only|not-sr-only`),
}

const (
	spacingGroup = 3
	bordersGroup = 8
	userGroup    = -1
)

// otherGroup holds bare Tailwind words no pattern claims.
var otherGroup = len(groups)

var (
	responsiveOrder = indexOf("xs", "sm", "md", "lg", "xl", "2xl")
	stateOrder      = indexOf(
		// group and peer variants gate the rest
		"group-hover", "group-focus", "group-active", "group-visited",
		"peer-checked", "peer-invalid", "peer-focus", "peer-hover",
		"focus-within", "focus-visible", "focus", "hover", "active", "visited",
		"checked", "disabled", "required", "invalid", "read-only", "open",
		"dark", "rtl", "ltr",
	)
	bareWords = indexOf("container", "flex", "grid", "contents", "hidden")

	payloadRE           = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)`)
	arbitrarySelectorRE = regexp.MustCompile(`^\[([^\]]+)\]$`)
)

func indexOf(names ...string) map[string]int {
	m := make(map[string]int, len(names))
	for i, n := range names {
		m[n] = i
	}
	return m
}

// findGroup returns the group rank of a utility, or userGroup for classes
// that don't look like Tailwind. BEM-style names are always user classes.
func findGroup(name string) int {
	outside := payloadRE.ReplaceAllString(name, "")
	if strings.Contains(outside, "--") || strings.Contains(outside, "__") {
		return userGroup
	}
	for i, g := range groups {
		for _, re := range g.patterns {
			if re.MatchString(name) {
				return i
			}
		}
	}
	if _, ok := bareWords[name]; ok {
		return otherGroup
	}
	return userGroup
}

// arbitrarySelector reports whether a variant targets other elements, like
// [&>*]. The self selector [&] doesn't.
func arbitrarySelector(modifier string) bool {
	m := arbitrarySelectorRE.FindStringSubmatch(modifier)
	if m == nil {
		return false
	}
	inner := strings.ReplaceAll(m[1], "_", "")
	return strings.HasPrefix(inner, "&") && inner != "&"
}

type entry struct {
	index int
	class Class
	token Token
}

// sortKey orders utilities inside a group: by family, unmodified first,
// then by variants, name and original position.
type sortKey struct {
	head        string
	specificity int
	modified    bool
	responsive  []int
	state       []int
	other       []string
	name        string
	index       int
}

func keyOf(rank int, e entry) sortKey {
	name := e.class.Name
	head, _, _ := strings.Cut(name, "-")
	k := sortKey{
		head:     head,
		modified: len(e.class.Modifiers) > 0,
		name:     name,
		index:    e.index,
	}
	switch rank {
	case spacingGroup:
		k.specificity = spacingSpecificity(name)
	case bordersGroup:
		k.specificity = borderSpecificity(name)
	default:
		k.specificity = strings.Count(name, "-")
	}
	for _, m := range e.class.Modifiers {
		if i, ok := responsiveOrder[m]; ok {
			k.responsive = append(k.responsive, i)
		} else if i, ok := stateOrder[m]; ok {
			k.state = append(k.state, i)
		} else {
			k.other = append(k.other, m)
		}
	}
	return k
}

func compareKeys(a, b sortKey) int {
	if c := cmp.Compare(a.head, b.head); c != 0 {
		return c
	}
	if c := cmp.Compare(a.specificity, b.specificity); c != 0 {
		return c
	}
	if a.modified != b.modified {
		if a.modified {
			return 1
		}
		return -1
	}
	if c := slices.Compare(a.responsive, b.responsive); c != 0 {
		return c
	}
	if c := slices.Compare(a.state, b.state); c != 0 {
		return c
	}
	if c := slices.Compare(a.other, b.other); c != 0 {
		return c
	}
	if c := cmp.Compare(a.name, b.name); c != 0 {
		return c
	}
	return cmp.Compare(a.index, b.index)
}

// p- and m- come before the axis forms, which come before single sides.
func spacingSpecificity(name string) int {
	switch {
	case len(name) < 2:
		return 0
	case strings.HasPrefix(name[1:], "-"):
		return 0
	case strings.HasPrefix(name[1:], "x-"), strings.HasPrefix(name[1:], "y-"):
		return 1
	case strings.ContainsAny(name[1:2], "tbrlse") && strings.HasPrefix(name[2:], "-"):
		return 2
	}
	return 0
}

func borderSpecificity(name string) int {
	switch {
	case strings.HasPrefix(name, "border-"):
		rest := name[len("border-"):]
		switch {
		case strings.HasPrefix(rest, "x-"), strings.HasPrefix(rest, "y-"):
			return 1
		case len(rest) > 1 && strings.ContainsAny(rest[:1], "tbrlse") && rest[1] == '-':
			return 2
		}
	case strings.HasPrefix(name, "rounded-"):
		return strings.Count(name, "-")
	}
	return 0
}

// Group sorts class names into Tailwind groups. Recognized utilities come
// first in group order, then one group per arbitrary selector variant in
// first-seen order, then user classes in their original order.
func Group(names []string) [][]string {
	tokens := make([]Token, len(names))
	for i, n := range names {
		tokens[i] = Token{Text: n}
	}
	var out [][]string
	for _, g := range groupTokens(tokens) {
		strs := make([]string, len(g))
		for i, t := range g {
			strs[i] = t.Text
		}
		out = append(out, strs)
	}
	return out
}

// Sort is Group flattened.
func Sort(names []string) []string {
	var out []string
	for _, g := range Group(names) {
		out = append(out, g...)
	}
	return out
}

// groupTokens groups literal tokens; blocks are kept with the user classes.
func groupTokens(tokens []Token) [][]Token {
	var (
		ranked    = make([][]entry, otherGroup+1)
		selectors [][]entry
		selectorN = map[string]int{}
		user      []Token
	)
	for i, t := range tokens {
		if t.Block != nil {
			user = append(user, t)
			continue
		}
		e := entry{index: i, class: Parse(t.Text), token: t}
		if sel, ok := firstSelector(e.class.Modifiers); ok {
			n, seen := selectorN[sel]
			if !seen {
				n = len(selectors)
				selectorN[sel] = n
				selectors = append(selectors, nil)
			}
			selectors[n] = append(selectors[n], e)
			continue
		}
		rank := findGroup(e.class.Name)
		if rank == userGroup {
			user = append(user, t)
			continue
		}
		ranked[rank] = append(ranked[rank], e)
	}

	var out [][]Token
	emit := func(es []entry) {
		g := make([]Token, len(es))
		for i, e := range es {
			g[i] = e.token
		}
		out = append(out, g)
	}
	for rank, es := range ranked {
		if len(es) == 0 {
			continue
		}
		slices.SortStableFunc(es, func(a, b entry) int {
			return compareKeys(keyOf(rank, a), keyOf(rank, b))
		})
		emit(es)
	}
	for _, es := range selectors {
		slices.SortStableFunc(es, func(a, b entry) int {
			ra, rb := baseRank(a), baseRank(b)
			if c := cmp.Compare(ra, rb); c != 0 {
				return c
			}
			return compareKeys(keyOf(ra, a), keyOf(rb, b))
		})
		emit(es)
	}
	if len(user) > 0 {
		out = append(out, user)
	}
	return out
}

func firstSelector(modifiers []string) (string, bool) {
	for _, m := range modifiers {
		if arbitrarySelector(m) {
			return m, true
		}
	}
	return "", false
}

// baseRank ranks a class under an arbitrary selector by its utility alone.
func baseRank(e entry) int {
	if rank := findGroup(e.class.Name); rank != userGroup {
		return rank
	}
	return otherGroup
}
