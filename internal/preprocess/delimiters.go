package preprocess

import (
	"errors"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ErrNoDelimiters is returned when every candidate code point is taken.
var ErrNoDelimiters = errors.New("no unused code points left for placeholder delimiters")

// firstCandidate is the first code point considered for a delimiter (¡).
const firstCandidate = 0xA1

var specialChars = map[rune]struct{}{
	' ': {}, '&': {}, '<': {}, '>': {}, '\'': {}, '"': {}, '/': {}, '#': {},
	'=': {}, '.': {}, '?': {}, '!': {},
	'\u00a0': {}, // no-break space
	'\u00ad': {}, // soft hyphen
	'\u200b': {}, // zero width space
}

// chooseDelimiters picks the first two usable code points at or above
// firstCandidate that don't occur in text.
func chooseDelimiters(text string) (rune, rune, error) {
	present := make(map[rune]struct{})
	for _, r := range text {
		if r >= firstCandidate {
			present[r] = struct{}{}
		}
	}

	next := func(from rune) (rune, bool) {
		for r := from; r <= unicode.MaxRune; r++ {
			if usableDelimiter(r, present) {
				return r, true
			}
		}
		return 0, false
	}

	left, ok := next(firstCandidate)
	if !ok {
		return 0, 0, ErrNoDelimiters
	}
	right, ok := next(left + 1)
	if !ok {
		return 0, 0, ErrNoDelimiters
	}
	return left, right, nil
}

func usableDelimiter(r rune, present map[rune]struct{}) bool {
	if !utf8.ValidRune(r) {
		return false
	}
	if _, ok := present[r]; ok {
		return false
	}
	if _, ok := specialChars[r]; ok {
		return false
	}
	// Tag and attribute names are lowercased; a cased delimiter would not
	// survive that.
	if unicode.ToLower(r) != r {
		return false
	}
	return !isCombining(r)
}

func isCombining(r rune) bool {
	return norm.NFD.PropertiesString(string(r)).CCC() != 0
}
