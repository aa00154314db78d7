// Package codegen translates a Cabs program into x86-64 assembly using a
// stack-machine evaluation model: every expression leaves its value in %eax,
// and binary operators save their left operand on the machine stack while
// the right operand is evaluated.
package codegen

import (
	"fmt"

	"github.com/nanocc/nanocc/pkg/asm"
	"github.com/nanocc/nanocc/pkg/cabs"
	"github.com/nanocc/nanocc/pkg/diag"
)

// SlotSize is the width of one local variable's stack-frame slot
const SlotSize = 8

// Register roles of the evaluation model
const (
	Primary   = asm.RAX
	Secondary = asm.RCX
)

// Generator holds the state of one generation pass. A Generator must not be
// shared between concurrent passes.
type Generator struct {
	symbols    map[string]int // variable name -> offset from %rbp
	stackIndex int            // offset of the most recently allocated slot
	labelCount int
	fn         *asm.Function
}

// New creates a Generator
func New() *Generator {
	return &Generator{symbols: make(map[string]int)}
}

// Generate translates prog with a fresh Generator
func Generate(prog *cabs.Program) (*asm.Program, error) {
	return New().Generate(prog)
}

// Generate translates prog. State from any earlier pass is discarded, so
// the same input always yields the same labels and offsets.
func (g *Generator) Generate(prog *cabs.Program) (*asm.Program, error) {
	g.reset()

	fn, err := g.generateFunction(prog.Func)
	if err != nil {
		return nil, err
	}
	return &asm.Program{Functions: []asm.Function{*fn}}, nil
}

func (g *Generator) reset() {
	g.symbols = make(map[string]int)
	g.stackIndex = 0
	g.labelCount = 0
	g.fn = nil
}

// Offset returns the frame offset recorded for a declared variable
func (g *Generator) Offset(name string) (int, bool) {
	ofs, ok := g.symbols[name]
	return ofs, ok
}

// newLabels mints a clause/end label pair unique within this pass
func (g *Generator) newLabels() (clause, end asm.Label) {
	g.labelCount++
	return asm.Label(fmt.Sprintf(".Lclause%d", g.labelCount)),
		asm.Label(fmt.Sprintf(".Lend%d", g.labelCount))
}

func (g *Generator) emit(insts ...asm.Instruction) {
	g.fn.Append(insts...)
}

func (g *Generator) prologue() {
	g.emit(
		asm.PUSH{Rs: asm.RBP},
		asm.MOV{Rd: asm.RBP, Rs: asm.RSP, Is64: true},
	)
}

func (g *Generator) epilogue() {
	g.emit(
		asm.MOV{Rd: asm.RSP, Rs: asm.RBP, Is64: true},
		asm.POP{Rd: asm.RBP},
		asm.RET{},
	)
}

func (g *Generator) generateFunction(f cabs.FunDef) (*asm.Function, error) {
	g.fn = asm.NewFunction(f.Name)
	g.prologue()

	for _, stmt := range f.Body {
		if err := g.generateStatement(stmt); err != nil {
			return nil, err
		}
	}

	// Falling off the end of the body returns 0
	if !endsWithReturn(f.Body) {
		g.emit(asm.MOVi{Rd: Primary, Imm: 0})
		g.epilogue()
	}

	return g.fn, nil
}

func endsWithReturn(body []cabs.Stmt) bool {
	if len(body) == 0 {
		return false
	}
	_, ok := body[len(body)-1].(cabs.Return)
	return ok
}

func (g *Generator) generateStatement(stmt cabs.Stmt) error {
	switch s := stmt.(type) {
	case cabs.Return:
		if err := g.generateExpr(s.Expr); err != nil {
			return err
		}
		g.epilogue()
		return nil

	case cabs.Declare:
		if _, exists := g.symbols[s.Name]; exists {
			return diag.CodeGenf("variable %s already declared", s.Name)
		}
		var init cabs.Expr = cabs.Constant{Value: 0}
		if s.Init != nil {
			init = s.Init
		}
		if err := g.generateExpr(init); err != nil {
			return err
		}
		g.stackIndex -= SlotSize
		g.symbols[s.Name] = g.stackIndex
		g.emit(asm.PUSH{Rs: Primary})
		return nil

	case cabs.ExprStmt:
		return g.generateExpr(s.Expr)

	default:
		return diag.CodeGenf("unsupported statement %T", stmt)
	}
}

func (g *Generator) generateExpr(expr cabs.Expr) error {
	switch e := expr.(type) {
	case cabs.Constant:
		g.emit(asm.MOVi{Rd: Primary, Imm: e.Value})
		return nil

	case cabs.Variable:
		ofs, ok := g.symbols[e.Name]
		if !ok {
			return diag.CodeGenf("variable %s not declared", e.Name)
		}
		g.emit(asm.LOAD{Rd: Primary, Base: asm.RBP, Ofs: ofs})
		return nil

	case cabs.Assign:
		ofs, ok := g.symbols[e.Name]
		if !ok {
			return diag.CodeGenf("variable %s not declared", e.Name)
		}
		if err := g.generateExpr(e.Expr); err != nil {
			return err
		}
		g.emit(asm.STORE{Rs: Primary, Base: asm.RBP, Ofs: ofs})
		return nil

	case cabs.Unary:
		return g.generateUnary(e)

	case cabs.Binary:
		switch e.Op {
		case cabs.OpAnd:
			return g.generateAnd(e)
		case cabs.OpOr:
			return g.generateOr(e)
		}
		return g.generateBinary(e)

	default:
		return diag.CodeGenf("unsupported expression %T", expr)
	}
}

func (g *Generator) generateUnary(u cabs.Unary) error {
	if err := g.generateExpr(u.Expr); err != nil {
		return err
	}
	switch u.Op {
	case cabs.OpNeg:
		g.emit(asm.NEG{Rd: Primary})
	case cabs.OpBitNot:
		g.emit(asm.NOT{Rd: Primary})
	case cabs.OpNot:
		g.emit(
			asm.CMPi{Rn: Primary, Imm: 0},
			asm.MOVi{Rd: Primary, Imm: 0},
			asm.SET{Cond: asm.CondE, Rd: Primary},
		)
	default:
		return diag.CodeGenf("unsupported unary operator %s", u.Op)
	}
	return nil
}

// comparisons maps each comparison operator to the condition tested after
// `cmpl %eax, %ecx` (flags from lhs - rhs)
var comparisons = map[cabs.BinaryOp]asm.CondCode{
	cabs.OpEq: asm.CondE,
	cabs.OpNe: asm.CondNE,
	cabs.OpLt: asm.CondL,
	cabs.OpLe: asm.CondLE,
	cabs.OpGt: asm.CondG,
	cabs.OpGe: asm.CondGE,
}

func (g *Generator) generateBinary(b cabs.Binary) error {
	if err := g.generateExpr(b.Left); err != nil {
		return err
	}
	g.emit(asm.PUSH{Rs: Primary})
	if err := g.generateExpr(b.Right); err != nil {
		return err
	}
	// lhs in %ecx, rhs in %eax
	g.emit(asm.POP{Rd: Secondary})

	switch b.Op {
	case cabs.OpAdd:
		g.emit(asm.ADD{Rd: Primary, Rs: Secondary})
	case cabs.OpMul:
		g.emit(asm.IMUL{Rd: Primary, Rs: Secondary})
	case cabs.OpSub:
		g.emit(
			asm.XCHG{Ra: Primary, Rb: Secondary},
			asm.SUB{Rd: Primary, Rs: Secondary},
		)
	case cabs.OpDiv:
		g.emit(
			asm.XCHG{Ra: Primary, Rb: Secondary},
			asm.CLTD{},
			asm.IDIV{Rs: Secondary},
		)
	default:
		cond, ok := comparisons[b.Op]
		if !ok {
			return diag.CodeGenf("unsupported binary operator %s", b.Op)
		}
		g.emit(
			asm.CMP{Rn: Secondary, Rm: Primary},
			asm.MOVi{Rd: Primary, Imm: 0},
			asm.SET{Cond: cond, Rd: Primary},
		)
	}
	return nil
}

// normalize turns the value in %eax into 0 or 1
func (g *Generator) normalize() {
	g.emit(
		asm.CMPi{Rn: Primary, Imm: 0},
		asm.MOVi{Rd: Primary, Imm: 0},
		asm.SET{Cond: asm.CondNE, Rd: Primary},
	)
}

// generateAnd emits `lhs && rhs`. The right operand is reached only through
// the clause label when lhs is nonzero.
func (g *Generator) generateAnd(b cabs.Binary) error {
	if v, ok := constantValue(b.Left); ok && v == 0 {
		g.emit(asm.MOVi{Rd: Primary, Imm: 0})
		return nil
	}

	if err := g.generateExpr(b.Left); err != nil {
		return err
	}
	clause, end := g.newLabels()
	g.emit(
		asm.CMPi{Rn: Primary, Imm: 0},
		asm.Jcc{Cond: asm.CondNE, Target: clause},
		asm.JMP{Target: end},
	)
	g.fn.AppendLabel(clause)
	if err := g.generateExpr(b.Right); err != nil {
		return err
	}
	g.normalize()
	g.fn.AppendLabel(end)
	return nil
}

// generateOr emits `lhs || rhs`. A nonzero lhs sets the result to 1 and
// skips the right operand.
func (g *Generator) generateOr(b cabs.Binary) error {
	if v, ok := constantValue(b.Left); ok && v != 0 {
		g.emit(asm.MOVi{Rd: Primary, Imm: 1})
		return nil
	}

	if err := g.generateExpr(b.Left); err != nil {
		return err
	}
	clause, end := g.newLabels()
	g.emit(
		asm.CMPi{Rn: Primary, Imm: 0},
		asm.Jcc{Cond: asm.CondE, Target: clause},
		asm.MOVi{Rd: Primary, Imm: 1},
		asm.JMP{Target: end},
	)
	g.fn.AppendLabel(clause)
	if err := g.generateExpr(b.Right); err != nil {
		return err
	}
	g.normalize()
	g.fn.AppendLabel(end)
	return nil
}
