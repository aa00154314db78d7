package cabs

// Equal reports whether two trees have the same shape, operators, names and
// literal values.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case Constant:
		y, ok := b.(Constant)
		return ok && x.Value == y.Value
	case Variable:
		y, ok := b.(Variable)
		return ok && x.Name == y.Name
	case Unary:
		y, ok := b.(Unary)
		return ok && x.Op == y.Op && equalExpr(x.Expr, y.Expr)
	case Binary:
		y, ok := b.(Binary)
		return ok && x.Op == y.Op && equalExpr(x.Left, y.Left) && equalExpr(x.Right, y.Right)
	case Assign:
		y, ok := b.(Assign)
		return ok && x.Name == y.Name && equalExpr(x.Expr, y.Expr)
	case Return:
		y, ok := b.(Return)
		return ok && equalExpr(x.Expr, y.Expr)
	case Declare:
		y, ok := b.(Declare)
		return ok && x.Name == y.Name && equalExpr(x.Init, y.Init)
	case ExprStmt:
		y, ok := b.(ExprStmt)
		return ok && equalExpr(x.Expr, y.Expr)
	case FunDef:
		y, ok := b.(FunDef)
		return ok && equalFunDef(x, y)
	case Program:
		y, ok := b.(Program)
		return ok && equalFunDef(x.Func, y.Func)
	case *Program:
		y, ok := b.(*Program)
		return ok && equalFunDef(x.Func, y.Func)
	}
	return false
}

// equalExpr unwraps the nil interface case so that a missing initializer
// only equals another missing initializer.
func equalExpr(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Equal(a, b)
}

func equalFunDef(a, b FunDef) bool {
	if a.Name != b.Name || len(a.Body) != len(b.Body) {
		return false
	}
	for i := range a.Body {
		if !Equal(a.Body[i], b.Body[i]) {
			return false
		}
	}
	return true
}
