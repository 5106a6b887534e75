package lexer

import (
	"strings"
	"unicode/utf8"

	"cutesy/internal/diag"
	"cutesy/internal/instr"
)

// Config describes the placeholder delimiters produced by the preprocessor.
// Zero runes mean the document has no placeholders.
type Config struct {
	Open  rune
	Close rune
}

// Scanner is a single-pass HTML tokenizer. It never backtracks over text it
// has reported: every byte of the input reaches the handler exactly once,
// either as markup or as data.
type Scanner struct {
	cfg   Config
	open  string
	close string

	text string
	cur  Cursor

	// position of the cursor: 1-based line, 0-based column in runes
	line int
	col  int

	cdata    string
	freeform int
}

// New returns a scanner for the given placeholder configuration.
func New(cfg Config) *Scanner {
	s := &Scanner{cfg: cfg}
	if cfg.Open != 0 {
		s.open = string(cfg.Open)
		s.close = string(cfg.Close)
	}
	return s
}

// Pos returns the line and column of the event being handled.
func (s *Scanner) Pos() (line, col int) {
	return s.line, s.col
}

// Delims returns the placeholder delimiters as strings.
func (s *Scanner) Delims() (open, close string) {
	return s.open, s.close
}

// CDATA returns the raw text element the scanner is inside, or "".
func (s *Scanner) CDATA() string {
	return s.cdata
}

// Freeform reports whether the scanner is inside a freeform instruction
// block, where markup is passed through as data.
func (s *Scanner) Freeform() bool {
	return s.freeform > 0
}

// Scan tokenizes text and drives h.
func (s *Scanner) Scan(text string, h Handler) error {
	s.text = text
	s.cur = NewCursor(text)
	s.line, s.col = 1, 0
	s.cdata = ""
	s.freeform = 0

	for !s.cur.EOF() {
		at := s.nextInteresting()
		if start := s.cur.Int(); start < at {
			if err := h.Data(text[start:at]); err != nil {
				return err
			}
			s.advance(at)
		}
		if s.cur.EOF() {
			break
		}

		var err error
		switch {
		case s.open != "" && s.cur.HasPrefix(s.open):
			err = s.scanInstruction(h)
		case s.freeform > 0:
			// markup inside freeform blocks is reproduced as-is
			err = s.emitData(h, s.cur.Int()+1)
		case s.cur.Peek() == '<':
			err = s.scanMarkup(h)
		default:
			err = s.scanReference(h)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// nextInteresting returns the offset of the next byte that may start
// markup, a reference or a placeholder.
func (s *Scanner) nextInteresting() int {
	rest := s.cur.Rest()
	var at int
	if s.cdata != "" {
		at = strings.Index(rest, "</")
	} else {
		at = strings.IndexAny(rest, "<&")
	}
	if s.open != "" {
		if i := strings.Index(rest, s.open); i >= 0 && (at < 0 || i < at) {
			at = i
		}
	}
	if at < 0 {
		return len(s.text)
	}
	return s.cur.Int() + at
}

// advance moves the cursor to end, updating line and column.
func (s *Scanner) advance(end int) {
	start := s.cur.Int()
	if end <= start {
		return
	}
	chunk := s.text[start:end]
	if n := strings.Count(chunk, "\n"); n > 0 {
		s.line += n
		s.col = utf8.RuneCountInString(chunk[strings.LastIndexByte(chunk, '\n')+1:])
	} else {
		s.col += utf8.RuneCountInString(chunk)
	}
	s.cur.Seek(end)
}

func (s *Scanner) emitData(h Handler, end int) error {
	if err := h.Data(s.text[s.cur.Int():end]); err != nil {
		return err
	}
	s.advance(end)
	return nil
}

func (s *Scanner) scanInstruction(h Handler) error {
	start := s.cur.Int()
	bodyStart := start + len(s.open)
	end := strings.Index(s.text[bodyStart:], s.close)
	if end < 0 {
		// not a placeholder after all
		return s.emitData(h, bodyStart)
	}
	body := s.text[bodyStart : bodyStart+end]

	r, _ := utf8.DecodeRuneInString(body)
	if typ, ok := instr.FromChar(r); ok {
		switch typ {
		case instr.Freeform:
			s.freeform++
		case instr.EndFreeform:
			if s.freeform > 0 {
				s.freeform--
			}
		}
	}

	if err := h.Instruction(body); err != nil {
		return err
	}
	s.advance(bodyStart + end + len(s.close))
	return nil
}

func (s *Scanner) scanReference(h Handler) error {
	rest := s.cur.Rest()

	if strings.HasPrefix(rest, "&#") {
		if n := matchCharRef(rest); n > 0 {
			if err := h.CharRef(rest[2 : n-1]); err != nil {
				return err
			}
			s.advance(s.cur.Int() + n)
			return nil
		}
	} else if n := matchEntityRef(rest); n > 0 {
		if err := h.EntityRef(rest[1 : n-1]); err != nil {
			return err
		}
		s.advance(s.cur.Int() + n)
		return nil
	}

	// a bare ampersand
	data := "&"
	if h.Fixing(diag.RawAmpersand) {
		data = "&amp;"
	} else if err := h.Report(diag.RawAmpersand, nil); err != nil {
		return err
	}
	if err := h.Data(data); err != nil {
		return err
	}
	s.advance(s.cur.Int() + 1)
	return nil
}

// matchCharRef matches &#(?:[0-9]+|[xX][0-9a-fA-F]+); and returns its
// length, or 0.
func matchCharRef(s string) int {
	i := 2
	digit := isDec
	if i < len(s) && (s[i] == 'x' || s[i] == 'X') {
		i++
		digit = isHex
	}
	start := i
	for i < len(s) && digit(s[i]) {
		i++
	}
	if i == start || i >= len(s) || s[i] != ';' {
		return 0
	}
	return i + 1
}

// matchEntityRef matches &([a-zA-Z][-.a-zA-Z0-9]*); and returns its length,
// or 0.
func matchEntityRef(s string) int {
	if len(s) < 2 || !isLetter(s[1]) {
		return 0
	}
	i := 2
	for i < len(s) && (isLetter(s[i]) || isDec(s[i]) || s[i] == '-' || s[i] == '.') {
		i++
	}
	if i >= len(s) || s[i] != ';' {
		return 0
	}
	return i + 1
}
