package lexer

import "github.com/nanocc/nanocc/pkg/diag"

// UnaryOperator represents prefix operators
type UnaryOperator int

const (
	OpNeg    UnaryOperator = iota // -
	OpBitNot                      // ~
	OpNot                         // !
)

func (op UnaryOperator) String() string {
	names := []string{"-", "~", "!"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// BinaryOperator represents infix operators
type BinaryOperator int

const (
	OpAdd BinaryOperator = iota
	OpSub
	OpMul
	OpDiv
	OpAnd // &&
	OpOr  // ||
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

func (op BinaryOperator) String() string {
	names := []string{"+", "-", "*", "/", "&&", "||", "==", "!=", "<", "<=", ">", ">="}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// IsShortCircuit reports whether the right operand is evaluated conditionally
func (op BinaryOperator) IsShortCircuit() bool {
	return op == OpAnd || op == OpOr
}

// IsComparison reports whether op yields a 0/1 truth value from a compare
func (op BinaryOperator) IsComparison() bool {
	switch op {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return true
	}
	return false
}

var unaryOps = map[TokenType]UnaryOperator{
	TokenMinus: OpNeg,
	TokenTilde: OpBitNot,
	TokenNot:   OpNot,
}

var binaryOps = map[TokenType]BinaryOperator{
	TokenPlus:  OpAdd,
	TokenMinus: OpSub,
	TokenStar:  OpMul,
	TokenSlash: OpDiv,
	TokenAnd:   OpAnd,
	TokenOr:    OpOr,
	TokenEq:    OpEq,
	TokenNe:    OpNe,
	TokenLt:    OpLt,
	TokenLe:    OpLe,
	TokenGt:    OpGt,
	TokenGe:    OpGe,
}

// UnaryOperatorFor narrows tok to a unary operator.
// '-' maps to negation here; the parser decides by position whether a '-'
// is unary or binary.
func UnaryOperatorFor(tok Token) (UnaryOperator, error) {
	if op, ok := unaryOps[tok.Type]; ok {
		return op, nil
	}
	return 0, diag.Parsef("%s is not a unary operator", tok)
}

// BinaryOperatorFor narrows tok to a binary operator
func BinaryOperatorFor(tok Token) (BinaryOperator, error) {
	if op, ok := binaryOps[tok.Type]; ok {
		return op, nil
	}
	return 0, diag.Parsef("%s is not a binary operator", tok)
}
