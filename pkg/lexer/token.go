package lexer

import "fmt"

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenIllegal

	// Literals
	TokenIdent // main, foo, x
	TokenInt   // 42

	// Keywords
	TokenInt_   // int
	TokenReturn // return

	// Operators
	TokenMinus // -
	TokenTilde // ~
	TokenNot   // !
	TokenPlus  // +
	TokenStar  // *
	TokenSlash // /
	TokenAnd   // &&
	TokenOr    // ||
	TokenEq    // ==
	TokenNe    // !=
	TokenLt    // <
	TokenLe    // <=
	TokenGt    // >
	TokenGe    // >=

	// Delimiters
	TokenAssign    // =
	TokenLParen    // (
	TokenRParen    // )
	TokenLBrace    // {
	TokenRBrace    // }
	TokenSemicolon // ;
)

var tokenNames = map[TokenType]string{
	TokenEOF:       "EOF",
	TokenIllegal:   "ILLEGAL",
	TokenIdent:     "IDENT",
	TokenInt:       "INT",
	TokenInt_:      "int",
	TokenReturn:    "return",
	TokenMinus:     "-",
	TokenTilde:     "~",
	TokenNot:       "!",
	TokenPlus:      "+",
	TokenStar:      "*",
	TokenSlash:     "/",
	TokenAnd:       "&&",
	TokenOr:        "||",
	TokenEq:        "==",
	TokenNe:        "!=",
	TokenLt:        "<",
	TokenLe:        "<=",
	TokenGt:        ">",
	TokenGe:        ">=",
	TokenAssign:    "=",
	TokenLParen:    "(",
	TokenRParen:    ")",
	TokenLBrace:    "{",
	TokenRBrace:    "}",
	TokenSemicolon: ";",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token represents a lexical token.
// Value holds the decoded literal for TokenInt; Literal holds the source text
// (the name, for TokenIdent).
type Token struct {
	Type    TokenType
	Literal string
	Value   int32
	Line    int
	Column  int
}

// Equal reports whether two tokens have the same type and payload.
// Positions are ignored.
func (t Token) Equal(o Token) bool {
	if t.Type != o.Type {
		return false
	}
	switch t.Type {
	case TokenInt:
		return t.Value == o.Value
	case TokenIdent:
		return t.Literal == o.Literal
	}
	return true
}

func (t Token) String() string {
	switch t.Type {
	case TokenInt:
		return fmt.Sprintf("INT(%d)", t.Value)
	case TokenIdent:
		return fmt.Sprintf("IDENT(%s)", t.Literal)
	}
	return t.Type.String()
}

// keywords maps keyword strings to token types
var keywords = map[string]TokenType{
	"int":    TokenInt_,
	"return": TokenReturn,
}

// LookupIdent returns the token type for an identifier (keyword or IDENT)
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdent
}
