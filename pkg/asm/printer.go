package asm

import (
	"fmt"
	"io"
	"runtime"
)

// Printer outputs x86-64 assembly in GNU as (AT&T) syntax
type Printer struct {
	w        io.Writer
	isDarwin bool
}

// NewPrinter creates a new assembly printer for the host platform
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, isDarwin: runtime.GOOS == "darwin"}
}

// NewPrinterFor creates a printer for an explicit target OS
func NewPrinterFor(w io.Writer, goos string) *Printer {
	return &Printer{w: w, isDarwin: goos == "darwin"}
}

// PrintProgram outputs an entire program
func (p *Printer) PrintProgram(prog *Program) {
	fmt.Fprintf(p.w, "\t.text\n")
	for _, f := range prog.Functions {
		p.printFunction(f)
	}
	if !p.isDarwin {
		fmt.Fprintf(p.w, "\t.section\t.note.GNU-stack,\"\",@progbits\n")
	}
}

// symbolName returns the symbol name with platform-appropriate prefix
func (p *Printer) symbolName(name string) string {
	if p.isDarwin {
		return "_" + name
	}
	return name
}

func (p *Printer) printFunction(f Function) {
	name := p.symbolName(f.Name)
	fmt.Fprintf(p.w, "\t.globl\t%s\n", name)
	if !p.isDarwin {
		fmt.Fprintf(p.w, "\t.type\t%s, @function\n", name)
	}
	fmt.Fprintf(p.w, "%s:\n", name)

	for _, inst := range f.Code {
		p.printInstruction(inst)
	}

	if !p.isDarwin {
		fmt.Fprintf(p.w, "\t.size\t%s, .-%s\n", name, name)
	}
	fmt.Fprintf(p.w, "\n")
}

// regName8 returns the low byte register name
func regName8(r Reg) string {
	names := []string{"%al", "%cl", "%dl", "%bpl", "%spl"}
	return names[r]
}

// regName32 returns the 32-bit register name
func regName32(r Reg) string {
	names := []string{"%eax", "%ecx", "%edx", "%ebp", "%esp"}
	return names[r]
}

// regName64 returns the 64-bit register name
func regName64(r Reg) string {
	names := []string{"%rax", "%rcx", "%rdx", "%rbp", "%rsp"}
	return names[r]
}

// regName returns register name based on Is64 flag
func regName(r Reg, is64 bool) string {
	if is64 {
		return regName64(r)
	}
	return regName32(r)
}

// memOperand formats ofs(%base); base registers are always 64-bit
func memOperand(base Reg, ofs int) string {
	if ofs == 0 {
		return fmt.Sprintf("(%s)", regName64(base))
	}
	return fmt.Sprintf("%d(%s)", ofs, regName64(base))
}

func (p *Printer) printInstruction(inst Instruction) {
	switch i := inst.(type) {
	// Labels
	case LabelDef:
		fmt.Fprintf(p.w, "%s:\n", i.Name)
		return

	// Data movement
	case MOVi:
		fmt.Fprintf(p.w, "\tmovl\t$%d, %s\n", i.Imm, regName32(i.Rd))
	case MOV:
		mnemonic := "movl"
		if i.Is64 {
			mnemonic = "movq"
		}
		fmt.Fprintf(p.w, "\t%s\t%s, %s\n", mnemonic, regName(i.Rs, i.Is64), regName(i.Rd, i.Is64))
	case LOAD:
		fmt.Fprintf(p.w, "\tmovl\t%s, %s\n", memOperand(i.Base, i.Ofs), regName32(i.Rd))
	case STORE:
		fmt.Fprintf(p.w, "\tmovl\t%s, %s\n", regName32(i.Rs), memOperand(i.Base, i.Ofs))
	case PUSH:
		fmt.Fprintf(p.w, "\tpushq\t%s\n", regName64(i.Rs))
	case POP:
		fmt.Fprintf(p.w, "\tpopq\t%s\n", regName64(i.Rd))
	case XCHG:
		fmt.Fprintf(p.w, "\txchgl\t%s, %s\n", regName32(i.Ra), regName32(i.Rb))

	// Arithmetic
	case NEG:
		fmt.Fprintf(p.w, "\tnegl\t%s\n", regName32(i.Rd))
	case NOT:
		fmt.Fprintf(p.w, "\tnotl\t%s\n", regName32(i.Rd))
	case ADD:
		fmt.Fprintf(p.w, "\taddl\t%s, %s\n", regName32(i.Rs), regName32(i.Rd))
	case SUB:
		fmt.Fprintf(p.w, "\tsubl\t%s, %s\n", regName32(i.Rs), regName32(i.Rd))
	case IMUL:
		fmt.Fprintf(p.w, "\timull\t%s, %s\n", regName32(i.Rs), regName32(i.Rd))
	case CLTD:
		fmt.Fprintf(p.w, "\tcltd\n")
	case IDIV:
		fmt.Fprintf(p.w, "\tidivl\t%s\n", regName32(i.Rs))

	// Compare
	case CMP:
		fmt.Fprintf(p.w, "\tcmpl\t%s, %s\n", regName32(i.Rm), regName32(i.Rn))
	case CMPi:
		fmt.Fprintf(p.w, "\tcmpl\t$%d, %s\n", i.Imm, regName32(i.Rn))
	case SET:
		fmt.Fprintf(p.w, "\tset%s\t%s\n", i.Cond, regName8(i.Rd))

	// Branches
	case JMP:
		fmt.Fprintf(p.w, "\tjmp\t%s\n", i.Target)
	case Jcc:
		fmt.Fprintf(p.w, "\tj%s\t%s\n", i.Cond, i.Target)
	case RET:
		fmt.Fprintf(p.w, "\tret\n")

	default:
		fmt.Fprintf(p.w, "\t# unknown instruction %T\n", inst)
	}
}
