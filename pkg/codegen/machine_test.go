package codegen

import (
	"fmt"
	"math"

	"github.com/nanocc/nanocc/pkg/asm"
)

// machine executes the instruction subset emitted by the generator so tests
// can check results without an assembler. Registers are 64 bits wide; 32-bit
// writes zero-extend like the hardware does.
type machine struct {
	regs   [5]uint64
	mem    map[uint64]uint64 // 8-byte stack cells keyed by address
	flagsA int32             // last comparison operands: flagsA - flagsB
	flagsB int32
	steps  int
}

const (
	stackTop      = 0x10000
	returnAddress = 0xdead
	maxSteps      = 100000
)

func (m *machine) get32(r asm.Reg) int32 {
	return int32(uint32(m.regs[r]))
}

func (m *machine) set32(r asm.Reg, v int32) {
	m.regs[r] = uint64(uint32(v))
}

func (m *machine) push(v uint64) {
	m.regs[asm.RSP] -= 8
	m.mem[m.regs[asm.RSP]] = v
}

func (m *machine) pop() uint64 {
	v := m.mem[m.regs[asm.RSP]]
	m.regs[asm.RSP] += 8
	return v
}

func (m *machine) holds(c asm.CondCode) bool {
	switch c {
	case asm.CondE:
		return m.flagsA == m.flagsB
	case asm.CondNE:
		return m.flagsA != m.flagsB
	case asm.CondL:
		return m.flagsA < m.flagsB
	case asm.CondLE:
		return m.flagsA <= m.flagsB
	case asm.CondG:
		return m.flagsA > m.flagsB
	case asm.CondGE:
		return m.flagsA >= m.flagsB
	}
	return false
}

// run executes the named function and returns %eax at its outermost ret
func run(prog *asm.Program, name string) (int32, error) {
	var fn *asm.Function
	for i := range prog.Functions {
		if prog.Functions[i].Name == name {
			fn = &prog.Functions[i]
		}
	}
	if fn == nil {
		return 0, fmt.Errorf("function %s not found", name)
	}

	labels := make(map[asm.Label]int)
	for i, inst := range fn.Code {
		if def, ok := inst.(asm.LabelDef); ok {
			if _, dup := labels[def.Name]; dup {
				return 0, fmt.Errorf("label %s defined twice", def.Name)
			}
			labels[def.Name] = i
		}
	}

	m := &machine{mem: make(map[uint64]uint64)}
	m.regs[asm.RSP] = stackTop
	m.regs[asm.RBP] = stackTop
	m.push(returnAddress)

	jump := func(target asm.Label) (int, error) {
		idx, ok := labels[target]
		if !ok {
			return 0, fmt.Errorf("jump to undefined label %s", target)
		}
		return idx, nil
	}

	for pc := 0; pc < len(fn.Code); pc++ {
		m.steps++
		if m.steps > maxSteps {
			return 0, fmt.Errorf("step limit exceeded")
		}

		switch i := fn.Code[pc].(type) {
		case asm.LabelDef:
		case asm.MOVi:
			m.set32(i.Rd, i.Imm)
		case asm.MOV:
			if i.Is64 {
				m.regs[i.Rd] = m.regs[i.Rs]
			} else {
				m.set32(i.Rd, m.get32(i.Rs))
			}
		case asm.LOAD:
			addr := uint64(int64(m.regs[i.Base]) + int64(i.Ofs))
			m.set32(i.Rd, int32(uint32(m.mem[addr])))
		case asm.STORE:
			addr := uint64(int64(m.regs[i.Base]) + int64(i.Ofs))
			m.mem[addr] = (m.mem[addr] &^ 0xffffffff) | uint64(uint32(m.get32(i.Rs)))
		case asm.PUSH:
			m.push(m.regs[i.Rs])
		case asm.POP:
			m.regs[i.Rd] = m.pop()
		case asm.XCHG:
			a, b := m.get32(i.Ra), m.get32(i.Rb)
			m.set32(i.Ra, b)
			m.set32(i.Rb, a)
		case asm.NEG:
			m.set32(i.Rd, -m.get32(i.Rd))
		case asm.NOT:
			m.set32(i.Rd, ^m.get32(i.Rd))
		case asm.ADD:
			m.set32(i.Rd, m.get32(i.Rd)+m.get32(i.Rs))
		case asm.SUB:
			m.set32(i.Rd, m.get32(i.Rd)-m.get32(i.Rs))
		case asm.IMUL:
			m.set32(i.Rd, m.get32(i.Rd)*m.get32(i.Rs))
		case asm.CLTD:
			if m.get32(asm.RAX) < 0 {
				m.set32(asm.RDX, -1)
			} else {
				m.set32(asm.RDX, 0)
			}
		case asm.IDIV:
			divisor := m.get32(i.Rs)
			dividend := m.get32(asm.RAX)
			if divisor == 0 || (dividend == math.MinInt32 && divisor == -1) {
				return 0, fmt.Errorf("division fault")
			}
			m.set32(asm.RAX, dividend/divisor)
			m.set32(asm.RDX, dividend%divisor)
		case asm.CMP:
			m.flagsA, m.flagsB = m.get32(i.Rn), m.get32(i.Rm)
		case asm.CMPi:
			m.flagsA, m.flagsB = m.get32(i.Rn), i.Imm
		case asm.SET:
			var bit uint64
			if m.holds(i.Cond) {
				bit = 1
			}
			m.regs[i.Rd] = (m.regs[i.Rd] &^ 0xff) | bit
		case asm.JMP:
			idx, err := jump(i.Target)
			if err != nil {
				return 0, err
			}
			pc = idx
		case asm.Jcc:
			if m.holds(i.Cond) {
				idx, err := jump(i.Target)
				if err != nil {
					return 0, err
				}
				pc = idx
			}
		case asm.RET:
			if m.pop() != returnAddress {
				return 0, fmt.Errorf("ret with unbalanced stack")
			}
			if m.regs[asm.RSP] != stackTop {
				return 0, fmt.Errorf("stack pointer %#x after ret, want %#x", m.regs[asm.RSP], stackTop)
			}
			return m.get32(asm.RAX), nil
		default:
			return 0, fmt.Errorf("unknown instruction %T", i)
		}
	}
	return 0, fmt.Errorf("fell off the end of %s", name)
}
