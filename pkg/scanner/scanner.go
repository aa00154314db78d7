// Package scanner provides a cursor over a token sequence with unlimited,
// resettable lookahead.
package scanner

import (
	"github.com/nanocc/nanocc/pkg/diag"
	"github.com/nanocc/nanocc/pkg/lexer"
)

// Scanner holds two indices into the same token slice: the committed cursor
// and a lookahead cursor that runs ahead of it on Peek.
type Scanner struct {
	tokens []lexer.Token
	pos    int // committed position
	peek   int // lookahead position, always >= pos
}

// New creates a Scanner over tokens
func New(tokens []lexer.Token) *Scanner {
	return &Scanner{tokens: tokens}
}

// Peek returns the token at the lookahead cursor and advances it.
// Repeated calls look further ahead; ok is false past the end of input.
func (s *Scanner) Peek() (tok lexer.Token, ok bool) {
	if s.peek >= len(s.tokens) {
		return lexer.Token{Type: lexer.TokenEOF}, false
	}
	tok = s.tokens[s.peek]
	s.peek++
	return tok, true
}

// ResetPeek rewinds the lookahead cursor to the committed position
func (s *Scanner) ResetPeek() {
	s.peek = s.pos
}

// Pop consumes one token. msg describes what was expected and becomes the
// error message when input is exhausted.
func (s *Scanner) Pop(msg string) (lexer.Token, error) {
	s.peek = s.pos
	if s.pos >= len(s.tokens) {
		return lexer.Token{Type: lexer.TokenEOF}, diag.Parsef("%s: unexpected end of input", msg)
	}
	tok := s.tokens[s.pos]
	s.pos++
	s.peek = s.pos
	return tok, nil
}

// Take consumes one token and checks that it has type want.
// Payloads are not compared.
func (s *Scanner) Take(want lexer.TokenType, msg string) (lexer.Token, error) {
	tok, err := s.Pop(msg)
	if err != nil {
		return tok, err
	}
	if tok.Type != want {
		return tok, diag.Parsef("%s: got %s at line %d, col %d", msg, tok, tok.Line, tok.Column)
	}
	return tok, nil
}

// Done reports whether every token has been consumed
func (s *Scanner) Done() bool {
	return s.pos >= len(s.tokens)
}

// Remaining returns the number of unconsumed tokens
func (s *Scanner) Remaining() int {
	return len(s.tokens) - s.pos
}
