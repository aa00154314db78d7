package codegen

import (
	"math"

	"github.com/nanocc/nanocc/pkg/cabs"
)

// constantValue evaluates expressions built only from literals and operators.
// It is used to decide short-circuit operators whose right operand can never
// run. Anything touching a variable, or that would trap at run time, is not
// constant.
func constantValue(expr cabs.Expr) (int32, bool) {
	switch e := expr.(type) {
	case cabs.Constant:
		return e.Value, true

	case cabs.Unary:
		v, ok := constantValue(e.Expr)
		if !ok {
			return 0, false
		}
		switch e.Op {
		case cabs.OpNeg:
			return -v, true
		case cabs.OpBitNot:
			return ^v, true
		case cabs.OpNot:
			return boolValue(v == 0), true
		}

	case cabs.Binary:
		l, ok := constantValue(e.Left)
		if !ok {
			return 0, false
		}
		switch e.Op {
		case cabs.OpAnd:
			if l == 0 {
				return 0, true
			}
			r, ok := constantValue(e.Right)
			return boolValue(r != 0), ok
		case cabs.OpOr:
			if l != 0 {
				return 1, true
			}
			r, ok := constantValue(e.Right)
			return boolValue(r != 0), ok
		}

		r, ok := constantValue(e.Right)
		if !ok {
			return 0, false
		}
		switch e.Op {
		case cabs.OpAdd:
			return l + r, true
		case cabs.OpSub:
			return l - r, true
		case cabs.OpMul:
			return l * r, true
		case cabs.OpDiv:
			if r == 0 || (l == math.MinInt32 && r == -1) {
				return 0, false
			}
			return l / r, true
		case cabs.OpEq:
			return boolValue(l == r), true
		case cabs.OpNe:
			return boolValue(l != r), true
		case cabs.OpLt:
			return boolValue(l < r), true
		case cabs.OpLe:
			return boolValue(l <= r), true
		case cabs.OpGt:
			return boolValue(l > r), true
		case cabs.OpGe:
			return boolValue(l >= r), true
		}
	}
	return 0, false
}

func boolValue(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
