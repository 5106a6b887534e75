package lexer

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// Cursor is a byte position in the document being scanned.
type Cursor struct {
	src string
	Off uint32
	// Limit is the exclusive upper bound for Off.
	Limit uint32
}

// NewCursor creates a cursor at the start of src.
func NewCursor(src string) Cursor {
	limit, err := safecast.Conv[uint32](len(src))
	if err != nil {
		panic(fmt.Errorf("document length overflow: %w", err))
	}
	return Cursor{src: src, Limit: limit}
}

// EOF reports whether the cursor reached the end of the document.
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek returns the current byte, or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.src[c.Off]
}

// HasPrefix reports whether the rest of the document starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	return strings.HasPrefix(c.Rest(), s)
}

// Rest returns the unread part of the document.
func (c *Cursor) Rest() string {
	if c.EOF() {
		return ""
	}
	return c.src[c.Off:c.Limit]
}

// Int returns the offset as an int.
func (c *Cursor) Int() int {
	return int(c.Off)
}

// Seek moves the cursor to an absolute byte offset.
func (c *Cursor) Seek(off int) {
	u, err := safecast.Conv[uint32](off)
	if err != nil {
		panic(fmt.Errorf("seek overflow: %w", err))
	}
	if u > c.Limit {
		u = c.Limit
	}
	c.Off = u
}
