// Package cabs provides AST printing functionality
package cabs

import (
	"fmt"
	"io"
	"strings"
)

// Printer outputs the AST as C source. Nested binary and assignment
// expressions are parenthesized, so the output parses back to the same tree.
type Printer struct {
	w      io.Writer
	indent int
}

// NewPrinter creates a new AST printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, indent: 0}
}

// PrintProgram prints a complete program
func (p *Printer) PrintProgram(prog *Program) {
	p.printFunDef(prog.Func)
}

// String renders a node with a fresh printer
func String(n Node) string {
	var sb strings.Builder
	p := NewPrinter(&sb)
	switch v := n.(type) {
	case *Program:
		p.PrintProgram(v)
	case Program:
		p.PrintProgram(&v)
	case FunDef:
		p.printFunDef(v)
	case Stmt:
		p.printStmt(v)
	case Expr:
		p.printExpr(v)
	}
	return sb.String()
}

func (p *Printer) writeIndent() {
	fmt.Fprint(p.w, strings.Repeat("  ", p.indent))
}

func (p *Printer) printFunDef(f FunDef) {
	fmt.Fprintf(p.w, "int %s()\n", f.Name)
	fmt.Fprintln(p.w, "{")
	p.indent++
	for _, stmt := range f.Body {
		p.printStmt(stmt)
	}
	p.indent--
	fmt.Fprintln(p.w, "}")
}

func (p *Printer) printStmt(stmt Stmt) {
	p.writeIndent()
	switch s := stmt.(type) {
	case Return:
		fmt.Fprint(p.w, "return ")
		p.printExpr(s.Expr)
		fmt.Fprintln(p.w, ";")
	case Declare:
		fmt.Fprintf(p.w, "int %s", s.Name)
		if s.Init != nil {
			fmt.Fprint(p.w, " = ")
			p.printExpr(s.Init)
		}
		fmt.Fprintln(p.w, ";")
	case ExprStmt:
		p.printExpr(s.Expr)
		fmt.Fprintln(p.w, ";")
	default:
		fmt.Fprintf(p.w, "/* unknown stmt %T */\n", stmt)
	}
}

func (p *Printer) printExpr(expr Expr) {
	switch e := expr.(type) {
	case Constant:
		fmt.Fprintf(p.w, "%d", e.Value)
	case Variable:
		fmt.Fprint(p.w, e.Name)
	case Unary:
		fmt.Fprint(p.w, e.Op.String())
		p.printOperand(e.Expr)
	case Binary:
		p.printOperand(e.Left)
		fmt.Fprintf(p.w, " %s ", e.Op.String())
		p.printOperand(e.Right)
	case Assign:
		fmt.Fprintf(p.w, "%s = ", e.Name)
		p.printOperand(e.Expr)
	default:
		fmt.Fprintf(p.w, "/* unknown expr %T */", expr)
	}
}

// printOperand prints a sub-expression, in parentheses unless it is atomic
func (p *Printer) printOperand(expr Expr) {
	switch expr.(type) {
	case Binary, Assign, Unary:
		fmt.Fprint(p.w, "(")
		p.printExpr(expr)
		fmt.Fprint(p.w, ")")
	default:
		p.printExpr(expr)
	}
}
