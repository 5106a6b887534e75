package lexer

import (
	"strings"

	"golang.org/x/net/html/atom"
)

// ===== Classifiers =====

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'f') ||
		(b >= 'A' && b <= 'F')
}

// isNameByte matches [-.a-zA-Z0-9:_], the closing tag name alphabet.
func isNameByte(b byte) bool {
	return isLetter(b) || isDec(b) || b == '-' || b == '.' || b == ':' || b == '_'
}

// isTagNameByte matches the lenient start tag name alphabet.
func isTagNameByte(b byte) bool {
	switch b {
	case '\t', '\n', '\r', '\f', ' ', '/', '>', 0:
		return false
	}
	return true
}

// trimSpace strips ASCII whitespace from both ends of s.
func trimSpace(s string) string {
	return strings.TrimFunc(s, func(r rune) bool { return r < 0x80 && isSpace(byte(r)) })
}

// HasSpace reports whether s contains ASCII whitespace.
func HasSpace(s string) bool {
	for i := 0; i < len(s); i++ {
		if isSpace(s[i]) {
			return true
		}
	}
	return false
}

// IsSpace reports whether r is one of the whitespace characters HTML
// formatting cares about.
func IsSpace(r rune) bool {
	return r < 0x80 && isSpace(byte(r))
}

// ===== Elements =====

// IsVoid reports whether the lowercase tag name is a void element.
func IsVoid(name string) bool {
	switch atom.Lookup([]byte(name)) {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Command, atom.Embed,
		atom.Hr, atom.Img, atom.Input, atom.Keygen, atom.Link, atom.Meta,
		atom.Param, atom.Source, atom.Track, atom.Wbr:
		return true
	}
	return false
}

// IsRawText reports whether the lowercase tag name holds raw text that is
// not scanned for markup.
func IsRawText(name string) bool {
	switch atom.Lookup([]byte(name)) {
	case atom.Script, atom.Style:
		return true
	}
	return false
}
