// Package parser implements a recursive descent parser for the supported C
// subset. The first syntax error aborts the parse.
package parser

import (
	"github.com/nanocc/nanocc/pkg/cabs"
	"github.com/nanocc/nanocc/pkg/diag"
	"github.com/nanocc/nanocc/pkg/lexer"
	"github.com/nanocc/nanocc/pkg/scanner"
)

// Parser parses a token sequence into a Cabs AST
type Parser struct {
	s *scanner.Scanner
}

// New creates a new Parser reading from s
func New(s *scanner.Scanner) *Parser {
	return &Parser{s: s}
}

// Parse parses a complete token sequence
func Parse(tokens []lexer.Token) (*cabs.Program, error) {
	return ParseProgram(scanner.New(tokens))
}

// ParseProgram parses a program from s
func ParseProgram(s *scanner.Scanner) (*cabs.Program, error) {
	return New(s).ParseProgram()
}

// ParseProgram parses `program := function` and rejects trailing input
func (p *Parser) ParseProgram() (*cabs.Program, error) {
	fn, err := p.parseFunction()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.s.Peek(); ok {
		p.s.ResetPeek()
		return nil, diag.Parsef("unexpected %s after end of function at line %d, col %d", tok, tok.Line, tok.Column)
	}
	return &cabs.Program{Func: fn}, nil
}

// peekType returns the type of the next token without consuming it
func (p *Parser) peekType() (lexer.TokenType, bool) {
	tok, ok := p.s.Peek()
	p.s.ResetPeek()
	return tok.Type, ok
}

// parseFunction parses `'int' IDENT '(' ')' '{' statement* '}'`
func (p *Parser) parseFunction() (cabs.FunDef, error) {
	var fn cabs.FunDef

	if _, err := p.s.Take(lexer.TokenInt_, "expected 'int' return type"); err != nil {
		return fn, err
	}
	name, err := p.s.Take(lexer.TokenIdent, "expected function name")
	if err != nil {
		return fn, err
	}
	fn.Name = name.Literal

	if _, err := p.s.Take(lexer.TokenLParen, "expected '(' after function name"); err != nil {
		return fn, err
	}
	if _, err := p.s.Take(lexer.TokenRParen, "expected ')' in function declarator"); err != nil {
		return fn, err
	}
	if _, err := p.s.Take(lexer.TokenLBrace, "expected '{' to open function body"); err != nil {
		return fn, err
	}

	fn.Body = []cabs.Stmt{}
	for {
		typ, ok := p.peekType()
		if !ok {
			return fn, diag.Parsef("expected '}' to close function body: unexpected end of input")
		}
		if typ == lexer.TokenRBrace {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return fn, err
		}
		fn.Body = append(fn.Body, stmt)
	}

	if _, err := p.s.Take(lexer.TokenRBrace, "expected '}' to close function body"); err != nil {
		return fn, err
	}
	return fn, nil
}

func (p *Parser) parseStatement() (cabs.Stmt, error) {
	typ, _ := p.peekType()
	switch typ {
	case lexer.TokenReturn:
		return p.parseReturnStatement()
	case lexer.TokenInt_:
		return p.parseDeclaration()
	default:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.s.Take(lexer.TokenSemicolon, "expected ';' after expression"); err != nil {
			return nil, err
		}
		return cabs.ExprStmt{Expr: expr}, nil
	}
}

func (p *Parser) parseReturnStatement() (cabs.Stmt, error) {
	p.s.Pop("expected 'return'")

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.s.Take(lexer.TokenSemicolon, "expected ';' after return value"); err != nil {
		return nil, err
	}
	return cabs.Return{Expr: expr}, nil
}

// parseDeclaration parses `'int' IDENT ('=' expr)? ';'`
func (p *Parser) parseDeclaration() (cabs.Stmt, error) {
	p.s.Pop("expected 'int'")

	name, err := p.s.Take(lexer.TokenIdent, "expected variable name after 'int'")
	if err != nil {
		return nil, err
	}
	decl := cabs.Declare{Name: name.Literal}

	if typ, _ := p.peekType(); typ == lexer.TokenAssign {
		p.s.Pop("expected '='")
		init, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		decl.Init = init
	}

	if _, err := p.s.Take(lexer.TokenSemicolon, "expected ';' after declaration"); err != nil {
		return nil, err
	}
	return decl, nil
}

// parseExpression parses `IDENT '=' expr | logic_or`.
// Assignment needs two tokens of lookahead; when the second is not '=' the
// lookahead is abandoned and the same tokens are parsed as logic_or.
func (p *Parser) parseExpression() (cabs.Expr, error) {
	first, ok1 := p.s.Peek()
	second, ok2 := p.s.Peek()
	p.s.ResetPeek()

	if ok1 && ok2 && first.Type == lexer.TokenIdent && second.Type == lexer.TokenAssign {
		p.s.Pop("expected identifier")
		p.s.Pop("expected '='")
		rhs, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return cabs.Assign{Name: first.Literal, Expr: rhs}, nil
	}

	return p.parseLogicalOr()
}

// parseBinaryLevel folds one left-associative precedence level: operands come
// from next, and only operators listed in ops are accepted at this level.
func (p *Parser) parseBinaryLevel(next func() (cabs.Expr, error), ops ...cabs.BinaryOp) (cabs.Expr, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}

	for {
		tok, ok := p.s.Peek()
		p.s.ResetPeek()
		if !ok {
			break
		}
		op, err := lexer.BinaryOperatorFor(tok)
		if err != nil || !containsOp(ops, op) {
			break
		}
		p.s.Pop("expected operator")

		right, err := next()
		if err != nil {
			return nil, err
		}
		expr = cabs.Binary{Op: op, Left: expr, Right: right}
	}

	return expr, nil
}

func containsOp(ops []cabs.BinaryOp, op cabs.BinaryOp) bool {
	for _, o := range ops {
		if o == op {
			return true
		}
	}
	return false
}

func (p *Parser) parseLogicalOr() (cabs.Expr, error) {
	return p.parseBinaryLevel(p.parseLogicalAnd, cabs.OpOr)
}

func (p *Parser) parseLogicalAnd() (cabs.Expr, error) {
	return p.parseBinaryLevel(p.parseEquality, cabs.OpAnd)
}

func (p *Parser) parseEquality() (cabs.Expr, error) {
	return p.parseBinaryLevel(p.parseRelational, cabs.OpEq, cabs.OpNe)
}

func (p *Parser) parseRelational() (cabs.Expr, error) {
	return p.parseBinaryLevel(p.parseAdditive, cabs.OpLt, cabs.OpLe, cabs.OpGt, cabs.OpGe)
}

func (p *Parser) parseAdditive() (cabs.Expr, error) {
	return p.parseBinaryLevel(p.parseTerm, cabs.OpAdd, cabs.OpSub)
}

func (p *Parser) parseTerm() (cabs.Expr, error) {
	return p.parseBinaryLevel(p.parseFactor, cabs.OpMul, cabs.OpDiv)
}

// parseFactor parses parenthesized expressions, unary operators, variables
// and integer literals
func (p *Parser) parseFactor() (cabs.Expr, error) {
	tok, err := p.s.Pop("expected expression")
	if err != nil {
		return nil, err
	}

	switch tok.Type {
	case lexer.TokenLParen:
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.s.Take(lexer.TokenRParen, "parenthesis not balanced, expected ')'"); err != nil {
			return nil, err
		}
		return inner, nil
	case lexer.TokenMinus, lexer.TokenTilde, lexer.TokenNot:
		op, err := lexer.UnaryOperatorFor(tok)
		if err != nil {
			return nil, err
		}
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return cabs.Unary{Op: op, Expr: operand}, nil
	case lexer.TokenIdent:
		return cabs.Variable{Name: tok.Literal}, nil
	case lexer.TokenInt:
		return cabs.Constant{Value: tok.Value}, nil
	default:
		return nil, diag.Parsef("expected expression, got %s at line %d, col %d", tok, tok.Line, tok.Column)
	}
}
