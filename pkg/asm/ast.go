// Package asm defines the x86-64 assembly representation.
// This is the final output of the compiler: one typed struct per instruction
// form the code generator emits, printed in GNU as (AT&T) syntax.
package asm

// Reg is a general purpose register. The instruction decides the width it
// is printed at.
type Reg int

const (
	RAX Reg = iota // primary result register
	RCX            // secondary operand register
	RDX            // sign extension for division
	RBP            // frame pointer
	RSP            // stack pointer
)

// Label represents a branch target label
type Label string

// CondCode is a flag condition used by SETcc and Jcc
type CondCode int

const (
	CondE CondCode = iota
	CondNE
	CondL
	CondLE
	CondG
	CondGE
)

func (c CondCode) String() string {
	names := []string{"e", "ne", "l", "le", "g", "ge"}
	if int(c) < len(names) {
		return names[c]
	}
	return "?"
}

// --- Instruction Interface ---

// Instruction is the interface for x86-64 instructions
type Instruction interface {
	implInstruction()
}

// --- Data Movement ---

// MOVi - Load 32-bit immediate (movl $imm, %r32)
type MOVi struct {
	Rd  Reg
	Imm int32
}

// MOV - Register to register copy
type MOV struct {
	Rd, Rs Reg
	Is64   bool
}

// LOAD - Load 32-bit value from Base+Ofs (movl ofs(%base), %r32)
type LOAD struct {
	Rd   Reg
	Base Reg
	Ofs  int
}

// STORE - Store 32-bit value to Base+Ofs (movl %r32, ofs(%base))
type STORE struct {
	Rs   Reg
	Base Reg
	Ofs  int
}

// PUSH - Push 64-bit register
type PUSH struct {
	Rs Reg
}

// POP - Pop 64-bit register
type POP struct {
	Rd Reg
}

// XCHG - Exchange two 32-bit registers
type XCHG struct {
	Ra, Rb Reg
}

// --- Arithmetic ---

// NEG - Negate in place
type NEG struct {
	Rd Reg
}

// NOT - Bitwise complement in place
type NOT struct {
	Rd Reg
}

// ADD - Rd = Rd + Rs
type ADD struct {
	Rd, Rs Reg
}

// SUB - Rd = Rd - Rs
type SUB struct {
	Rd, Rs Reg
}

// IMUL - Rd = Rd * Rs (signed)
type IMUL struct {
	Rd, Rs Reg
}

// CLTD - Sign-extend %eax into %edx:%eax
type CLTD struct{}

// IDIV - Signed divide %edx:%eax by Rs; quotient in %eax
type IDIV struct {
	Rs Reg
}

// --- Compare ---

// CMP - Set flags from Rn - Rm (cmpl %rm, %rn)
type CMP struct {
	Rn, Rm Reg
}

// CMPi - Set flags from Rn - Imm
type CMPi struct {
	Rn  Reg
	Imm int32
}

// SET - Set low byte of Rd to 1 if Cond holds, else 0
type SET struct {
	Cond CondCode
	Rd   Reg
}

// --- Branches ---

// JMP - Unconditional jump
type JMP struct {
	Target Label
}

// Jcc - Conditional jump
type Jcc struct {
	Cond   CondCode
	Target Label
}

// RET - Return
type RET struct{}

// LabelDef - Label definition (pseudo-instruction)
type LabelDef struct {
	Name Label
}

// Marker methods
func (MOVi) implInstruction()     {}
func (MOV) implInstruction()      {}
func (LOAD) implInstruction()     {}
func (STORE) implInstruction()    {}
func (PUSH) implInstruction()     {}
func (POP) implInstruction()      {}
func (XCHG) implInstruction()     {}
func (NEG) implInstruction()      {}
func (NOT) implInstruction()      {}
func (ADD) implInstruction()      {}
func (SUB) implInstruction()      {}
func (IMUL) implInstruction()     {}
func (CLTD) implInstruction()     {}
func (IDIV) implInstruction()     {}
func (CMP) implInstruction()      {}
func (CMPi) implInstruction()     {}
func (SET) implInstruction()      {}
func (JMP) implInstruction()      {}
func (Jcc) implInstruction()      {}
func (RET) implInstruction()      {}
func (LabelDef) implInstruction() {}

// --- Function and Program ---

// Function represents an assembly function
type Function struct {
	Name string
	Code []Instruction
}

// Program represents a complete assembly translation unit
type Program struct {
	Functions []Function
}

// NewFunction creates a new assembly function
func NewFunction(name string) *Function {
	return &Function{
		Name: name,
		Code: make([]Instruction, 0),
	}
}

// Append adds instructions to the function
func (f *Function) Append(insts ...Instruction) {
	f.Code = append(f.Code, insts...)
}

// AppendLabel adds a label definition
func (f *Function) AppendLabel(name Label) {
	f.Code = append(f.Code, LabelDef{Name: name})
}
