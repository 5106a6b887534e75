package diag

import (
	"fmt"
	"sort"
)

// Bag collects diagnostics for a single document.
type Bag struct {
	items []Diagnostic
}

func NewBag(capacity int) *Bag {
	return &Bag{items: make([]Diagnostic, 0, capacity)}
}

func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

// Reset drops all diagnostics but keeps the backing storage.
func (b *Bag) Reset() {
	b.items = b.items[:0]
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the internal slice; callers must not keep it across Reset.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Sort orders diagnostics by line, then column. Ties keep insertion order.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		return b.items[i].Before(b.items[j])
	})
}

// Dedup drops repeated diagnostics with the same code and position.
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	newitems := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%d:%d", d.Code.ID(), d.Line, d.Column)
		if seen[key] {
			continue
		}
		seen[key] = true
		newitems = append(newitems, d)
	}
	b.items = newitems
}

// Has reports whether a diagnostic with the code exists at the given line.
func (b *Bag) Has(code Code, line int) bool {
	for i := range b.items {
		if b.items[i].Code == code && b.items[i].Line == line {
			return true
		}
	}
	return false
}
