package irtext

import (
	"strings"
)

// scanner walks one line of assembly text. It never fails; callers check
// what they consume.
type scanner struct {
	src string
	pos int
}

func newScanner(src string) *scanner {
	return &scanner{src: src}
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) && (s.src[s.pos] == ' ' || s.src[s.pos] == '\t') {
		s.pos++
	}
}

func (s *scanner) eof() bool {
	s.skipSpace()
	return s.pos >= len(s.src)
}

func (s *scanner) peek() byte {
	s.skipSpace()
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

// accept consumes lit if the remaining input starts with it.
func (s *scanner) accept(lit string) bool {
	s.skipSpace()
	if strings.HasPrefix(s.src[s.pos:], lit) {
		s.pos += len(lit)
		return true
	}
	return false
}

// acceptWord consumes word only when it is not followed by another word
// character, so "i" never matches the prefix of "i32".
func (s *scanner) acceptWord(word string) bool {
	s.skipSpace()
	rest := s.src[s.pos:]
	if !strings.HasPrefix(rest, word) {
		return false
	}
	if len(rest) > len(word) && isWordByte(rest[len(word)]) {
		return false
	}
	s.pos += len(word)
	return true
}

// word reads a run of identifier bytes.
func (s *scanner) word() string {
	s.skipSpace()
	start := s.pos
	for s.pos < len(s.src) && isWordByte(s.src[s.pos]) {
		s.pos++
	}
	return s.src[start:s.pos]
}

// token reads up to the next separator: a comma, a closing paren or
// whitespace.
func (s *scanner) token() string {
	s.skipSpace()
	start := s.pos
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == ',' || c == ')' || c == ' ' || c == '\t' {
			break
		}
		s.pos++
	}
	return s.src[start:s.pos]
}

func (s *scanner) rest() string {
	s.skipSpace()
	return s.src[s.pos:]
}

func isWordByte(c byte) bool {
	return c == '_' || c == '.' || c == '-' || c == '$' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') ||
		c >= 0x80
}
