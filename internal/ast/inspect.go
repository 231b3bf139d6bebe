package ast

// Children returns the immediate subexpressions of e in evaluation order.
func Children(e Expr) []Expr {
	switch n := e.(type) {
	case *EAbs:
		return []Expr{n.Body}
	case *EApp:
		return append([]Expr{n.Fn}, n.Args...)
	case *EStruct:
		out := make([]Expr, len(n.Fields))
		for i, f := range n.Fields {
			out[i] = f.Value
		}
		return out
	case *EStructAccess:
		return []Expr{n.Struct}
	case *ETuple:
		return n.Elements
	case *ETupleAccess:
		return []Expr{n.Tuple}
	case *EInj:
		return []Expr{n.Arg}
	case *EMatch:
		out := []Expr{n.Scrutinee}
		for _, arm := range n.Arms {
			out = append(out, arm.Body)
		}
		return out
	case *EArray:
		return n.Elements
	case *EIfThenElse:
		return []Expr{n.Cond, n.Then, n.Else}
	case *EAssert:
		return []Expr{n.Arg}
	case *EErrorOnEmpty:
		return []Expr{n.Arg}
	case *EDefault:
		return append(append([]Expr{}, n.Exceptions...), n.Just, n.Cons)
	default:
		return nil
	}
}

// Inspect traverses e in depth-first order. If f returns false, the
// children of that node are skipped.
func Inspect(e Expr, f func(Expr) bool) {
	if e == nil || !f(e) {
		return
	}
	for _, c := range Children(e) {
		Inspect(c, f)
	}
}

// IsDefaultConstruct reports whether e is a node that must not survive
// default elimination.
func IsDefaultConstruct(e Expr) bool {
	switch n := e.(type) {
	case *EDefault, *EErrorOnEmpty:
		return true
	case *ELit:
		return n.IsEmpty()
	}
	return false
}

// FindDefaultConstruct returns the first default construct in e, or nil.
func FindDefaultConstruct(e Expr) Expr {
	var found Expr
	Inspect(e, func(n Expr) bool {
		if found != nil {
			return false
		}
		if IsDefaultConstruct(n) {
			found = n
			return false
		}
		return true
	})
	return found
}
