// Package cabs defines the abstract syntax tree for the supported C subset
package cabs

import "github.com/nanocc/nanocc/pkg/lexer"

// Node is the base interface for all AST nodes
type Node interface {
	implCabsNode()
}

// Expr is the interface for all expression nodes
type Expr interface {
	Node
	implCabsExpr()
}

// Stmt is the interface for all statement nodes
type Stmt interface {
	Node
	implCabsStmt()
}

// Re-export operator types
type (
	UnaryOp  = lexer.UnaryOperator
	BinaryOp = lexer.BinaryOperator
)

// Re-export operator constants
const (
	OpNeg    = lexer.OpNeg
	OpBitNot = lexer.OpBitNot
	OpNot    = lexer.OpNot

	OpAdd = lexer.OpAdd
	OpSub = lexer.OpSub
	OpMul = lexer.OpMul
	OpDiv = lexer.OpDiv
	OpAnd = lexer.OpAnd
	OpOr  = lexer.OpOr
	OpEq  = lexer.OpEq
	OpNe  = lexer.OpNe
	OpLt  = lexer.OpLt
	OpLe  = lexer.OpLe
	OpGt  = lexer.OpGt
	OpGe  = lexer.OpGe
)

// Constant represents an integer constant
type Constant struct {
	Value int32
}

// Variable represents a reference to a declared local
type Variable struct {
	Name string
}

// Unary represents a unary expression
type Unary struct {
	Op   UnaryOp
	Expr Expr
}

// Binary represents a binary expression
type Binary struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// Assign represents `name = expr`. Its value is the assigned value.
type Assign struct {
	Name string
	Expr Expr
}

// Return represents a return statement
type Return struct {
	Expr Expr
}

// Declare represents `int name;` or `int name = init;`
type Declare struct {
	Name string
	Init Expr // nil when there is no initializer
}

// ExprStmt represents an expression evaluated for its side effects
type ExprStmt struct {
	Expr Expr
}

// FunDef represents a zero-argument int function definition
type FunDef struct {
	Name string
	Body []Stmt
}

// Program is the root of the tree: exactly one function
type Program struct {
	Func FunDef
}

// Marker methods for interface implementation
func (Constant) implCabsNode() {}
func (Constant) implCabsExpr() {}

func (Variable) implCabsNode() {}
func (Variable) implCabsExpr() {}

func (Unary) implCabsNode() {}
func (Unary) implCabsExpr() {}

func (Binary) implCabsNode() {}
func (Binary) implCabsExpr() {}

func (Assign) implCabsNode() {}
func (Assign) implCabsExpr() {}

func (Return) implCabsNode() {}
func (Return) implCabsStmt() {}

func (Declare) implCabsNode() {}
func (Declare) implCabsStmt() {}

func (ExprStmt) implCabsNode() {}
func (ExprStmt) implCabsStmt() {}

func (FunDef) implCabsNode()  {}
func (Program) implCabsNode() {}
