// Package lexer turns C source text into the flat token sequence consumed by
// the parser.
package lexer

import (
	"strconv"
	"strings"

	"github.com/nanocc/nanocc/pkg/diag"
)

// Lexer tokenizes C source code
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // next reading position
	ch      byte // current character
	line    int
	column  int

	openComment bool // a block comment ran into EOF
}

// New creates a new Lexer for the given input
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.column++

	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// NextToken returns the next token from the input.
// Characters that cannot begin a token come back as TokenIllegal.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()
	l.skipComments()
	l.skipWhitespace()

	tok := Token{Line: l.line, Column: l.column}

	if l.openComment {
		tok.Type = TokenIllegal
		tok.Literal = "/*"
		return tok
	}

	switch l.ch {
	case 0:
		tok.Type = TokenEOF
		tok.Literal = ""
	case '+':
		tok = l.newToken(TokenPlus, l.ch)
	case '-':
		tok = l.newToken(TokenMinus, l.ch)
	case '*':
		tok = l.newToken(TokenStar, l.ch)
	case '/':
		tok = l.newToken(TokenSlash, l.ch)
	case '~':
		tok = l.newToken(TokenTilde, l.ch)
	case '=':
		tok = l.twoCharToken('=', TokenEq, TokenAssign)
	case '!':
		tok = l.twoCharToken('=', TokenNe, TokenNot)
	case '<':
		tok = l.twoCharToken('=', TokenLe, TokenLt)
	case '>':
		tok = l.twoCharToken('=', TokenGe, TokenGt)
	case '&':
		tok = l.twoCharToken('&', TokenAnd, TokenIllegal)
	case '|':
		tok = l.twoCharToken('|', TokenOr, TokenIllegal)
	case '(':
		tok = l.newToken(TokenLParen, l.ch)
	case ')':
		tok = l.newToken(TokenRParen, l.ch)
	case '{':
		tok = l.newToken(TokenLBrace, l.ch)
	case '}':
		tok = l.newToken(TokenRBrace, l.ch)
	case ';':
		tok = l.newToken(TokenSemicolon, l.ch)
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = LookupIdent(tok.Literal)
			return tok
		} else if isDigit(l.ch) {
			tok.Type = TokenInt
			tok.Literal = l.readNumber()
			if v, err := strconv.ParseInt(tok.Literal, 10, 32); err == nil {
				tok.Value = int32(v)
			} else {
				tok.Type = TokenIllegal
			}
			return tok
		} else {
			tok = l.newToken(TokenIllegal, l.ch)
		}
	}

	l.readChar()
	return tok
}

func (l *Lexer) newToken(tokenType TokenType, ch byte) Token {
	return Token{Type: tokenType, Literal: string(ch), Line: l.line, Column: l.column}
}

// twoCharToken returns long when the next character is second, else short
func (l *Lexer) twoCharToken(second byte, long, short TokenType) Token {
	if l.peekChar() == second {
		tok := Token{Type: long, Literal: string([]byte{l.ch, second}), Line: l.line, Column: l.column}
		l.readChar()
		return tok
	}
	return l.newToken(short, l.ch)
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) skipComments() {
	for l.ch == '/' {
		if l.peekChar() == '/' {
			// Single-line comment
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			l.skipWhitespace()
		} else if l.peekChar() == '*' {
			l.readChar() // consume /
			l.readChar() // consume *
			for {
				if l.ch == 0 {
					l.openComment = true
					return
				}
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar() // consume *
					l.readChar() // consume /
					break
				}
				l.readChar()
			}
			l.skipWhitespace()
		} else {
			break
		}
	}
}

func (l *Lexer) readIdentifier() string {
	pos := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[pos:l.pos]
}

func (l *Lexer) readNumber() string {
	pos := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[pos:l.pos]
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// Tokenize lexes the whole input. The returned slice does not include the
// trailing EOF token. The first illegal character aborts with a lex error.
func Tokenize(input string) ([]Token, error) {
	l := New(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		switch tok.Type {
		case TokenEOF:
			return tokens, nil
		case TokenIllegal:
			return nil, illegalTokenError(tok)
		}
		tokens = append(tokens, tok)
	}
}

// TokenizeLines lexes source supplied as a sequence of lines
func TokenizeLines(lines []string) ([]Token, error) {
	return Tokenize(strings.Join(lines, "\n"))
}

func illegalTokenError(tok Token) error {
	switch {
	case tok.Literal == "/*":
		return diag.Lexf("line %d, col %d: unterminated comment", tok.Line, tok.Column)
	case tok.Literal != "" && isDigit(tok.Literal[0]):
		return diag.Lexf("line %d, col %d: integer literal %s out of range", tok.Line, tok.Column, tok.Literal)
	}
	return diag.Lexf("line %d, col %d: unexpected character %q", tok.Line, tok.Column, tok.Literal)
}
