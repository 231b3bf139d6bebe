package ast

import "github.com/extinctpotato/catala/internal/typesystem"

// AlphaEqual reports whether a and b are the same tree up to a consistent
// one-to-one renaming of variables. Positions are ignored, types are not.
func AlphaEqual(a, b Expr) bool {
	eq := &alphaEq{left: make(map[*Var]*Var), right: make(map[*Var]*Var)}
	return eq.expr(a, b)
}

type alphaEq struct {
	left  map[*Var]*Var
	right map[*Var]*Var
}

func (q *alphaEq) bind(a, b *Var) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if mb, ok := q.left[a]; ok {
		return mb == b
	}
	if ma, ok := q.right[b]; ok {
		return ma == a
	}
	q.left[a] = b
	q.right[b] = a
	return true
}

func (q *alphaEq) all(as, bs []Expr) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !q.expr(as[i], bs[i]) {
			return false
		}
	}
	return true
}

func (q *alphaEq) expr(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !typesystem.Equal(a.GetMark().Type, b.GetMark().Type) {
		return false
	}
	switch x := a.(type) {
	case *EVar:
		y, ok := b.(*EVar)
		return ok && q.bind(x.Var, y.Var)
	case *ELit:
		y, ok := b.(*ELit)
		return ok && x.Kind == y.Kind && x.Int == y.Int && x.Bool == y.Bool && x.Str == y.Str
	case *EOp:
		y, ok := b.(*EOp)
		return ok && x.Op == y.Op
	case *EAbs:
		y, ok := b.(*EAbs)
		if !ok || len(x.Params) != len(y.Params) {
			return false
		}
		for i := range x.Params {
			if !q.bind(x.Params[i], y.Params[i]) {
				return false
			}
		}
		return q.expr(x.Body, y.Body)
	case *EApp:
		y, ok := b.(*EApp)
		return ok && q.expr(x.Fn, y.Fn) && q.all(x.Args, y.Args)
	case *EStruct:
		y, ok := b.(*EStruct)
		if !ok || x.Name != y.Name || len(x.Fields) != len(y.Fields) {
			return false
		}
		for i := range x.Fields {
			if x.Fields[i].Name != y.Fields[i].Name || !q.expr(x.Fields[i].Value, y.Fields[i].Value) {
				return false
			}
		}
		return true
	case *EStructAccess:
		y, ok := b.(*EStructAccess)
		return ok && x.Name == y.Name && x.Field == y.Field && q.expr(x.Struct, y.Struct)
	case *ETuple:
		y, ok := b.(*ETuple)
		return ok && q.all(x.Elements, y.Elements)
	case *ETupleAccess:
		y, ok := b.(*ETupleAccess)
		return ok && x.Index == y.Index && q.expr(x.Tuple, y.Tuple)
	case *EInj:
		y, ok := b.(*EInj)
		return ok && x.Enum == y.Enum && x.Ctor == y.Ctor && q.expr(x.Arg, y.Arg)
	case *EMatch:
		y, ok := b.(*EMatch)
		if !ok || x.Enum != y.Enum || len(x.Arms) != len(y.Arms) || !q.expr(x.Scrutinee, y.Scrutinee) {
			return false
		}
		for i := range x.Arms {
			ax, ay := x.Arms[i], y.Arms[i]
			if ax.Ctor != ay.Ctor || !q.bind(ax.Var, ay.Var) || !q.expr(ax.Body, ay.Body) {
				return false
			}
		}
		return true
	case *EArray:
		y, ok := b.(*EArray)
		return ok && q.all(x.Elements, y.Elements)
	case *EIfThenElse:
		y, ok := b.(*EIfThenElse)
		return ok && q.expr(x.Cond, y.Cond) && q.expr(x.Then, y.Then) && q.expr(x.Else, y.Else)
	case *EAssert:
		y, ok := b.(*EAssert)
		return ok && q.expr(x.Arg, y.Arg)
	case *EErrorOnEmpty:
		y, ok := b.(*EErrorOnEmpty)
		return ok && q.expr(x.Arg, y.Arg)
	case *EDefault:
		y, ok := b.(*EDefault)
		return ok && q.all(x.Exceptions, y.Exceptions) && q.expr(x.Just, y.Just) && q.expr(x.Cons, y.Cons)
	case *ERaise:
		y, ok := b.(*ERaise)
		return ok && x.Kind == y.Kind
	}
	return false
}
