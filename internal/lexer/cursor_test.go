package lexer

import "testing"

func TestCursorSequentialReading(t *testing.T) {
	c := NewCursor("a\nb")
	want := []byte{'a', '\n', 'b'}
	for i, b := range want {
		if c.EOF() {
			t.Fatalf("unexpected EOF at %d", i)
		}
		if got := c.Peek(); got != b {
			t.Fatalf("Peek at %d = %q, want %q", i, got, b)
		}
		c.Seek(c.Int() + 1)
	}
	if !c.EOF() {
		t.Fatal("expected EOF at end")
	}
	if c.Peek() != 0 {
		t.Errorf("Peek at EOF = %q, want 0", c.Peek())
	}
	if c.Rest() != "" {
		t.Errorf("Rest at EOF = %q", c.Rest())
	}
}

func TestCursorPrefixAndSeek(t *testing.T) {
	c := NewCursor("<!-- x -->")
	if !c.HasPrefix("<!--") {
		t.Fatal("expected comment prefix")
	}
	c.Seek(5)
	if c.Rest() != "x -->" {
		t.Fatalf("Rest = %q", c.Rest())
	}
	c.Seek(100)
	if !c.EOF() || c.Int() != 10 {
		t.Fatalf("Seek past the end: off %d eof %v", c.Int(), c.EOF())
	}
}
