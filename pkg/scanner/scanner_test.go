package scanner

import (
	"errors"
	"strings"
	"testing"

	"github.com/nanocc/nanocc/pkg/diag"
	"github.com/nanocc/nanocc/pkg/lexer"
)

func mustTokenize(t *testing.T, src string) []lexer.Token {
	t.Helper()
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("tokenize %q: %v", src, err)
	}
	return tokens
}

func TestPeekDoesNotConsume(t *testing.T) {
	s := New(mustTokenize(t, "a = 1"))

	first, ok := s.Peek()
	if !ok || first.Type != lexer.TokenIdent {
		t.Fatalf("first peek = %v, %v", first, ok)
	}
	second, ok := s.Peek()
	if !ok || second.Type != lexer.TokenAssign {
		t.Fatalf("second peek = %v, %v", second, ok)
	}

	s.ResetPeek()
	tok, err := s.Pop("identifier")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Literal != "a" {
		t.Errorf("pop after reset returned %v, want IDENT(a)", tok)
	}
}

func TestPopCommitsLookahead(t *testing.T) {
	s := New(mustTokenize(t, "1 + 2"))

	s.Peek()
	s.Peek()
	s.Peek()
	if _, err := s.Pop("first"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tok, ok := s.Peek()
	if !ok || tok.Type != lexer.TokenPlus {
		t.Errorf("peek after pop = %v, want +", tok)
	}
}

func TestPeekAtEnd(t *testing.T) {
	s := New(mustTokenize(t, "x"))
	s.Peek()
	tok, ok := s.Peek()
	if ok {
		t.Errorf("expected no token past end, got %v", tok)
	}
	if tok.Type != lexer.TokenEOF {
		t.Errorf("expected EOF placeholder, got %v", tok)
	}
}

func TestPopExhausted(t *testing.T) {
	s := New(nil)
	_, err := s.Pop("expected '}'")
	if err == nil {
		t.Fatal("expected error on empty input")
	}
	if !errors.Is(err, diag.ErrParse) {
		t.Errorf("expected parse error, got %v", err)
	}
	if !strings.Contains(err.Error(), "expected '}'") {
		t.Errorf("error should carry context message, got %q", err.Error())
	}
}

func TestTake(t *testing.T) {
	s := New(mustTokenize(t, "; 5 )"))

	if _, err := s.Take(lexer.TokenSemicolon, "expected ';'"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tok, err := s.Take(lexer.TokenInt, "expected integer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Value != 5 {
		t.Errorf("take returned %v, want INT(5)", tok)
	}

	_, err = s.Take(lexer.TokenLBrace, "expected '{'")
	if !errors.Is(err, diag.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
	if !strings.Contains(err.Error(), "expected '{'") {
		t.Errorf("error should carry context message, got %q", err.Error())
	}
	if !s.Done() {
		t.Errorf("mismatched take still consumes, %d tokens remain", s.Remaining())
	}
}
