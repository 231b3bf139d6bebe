package interpreter

import (
	"errors"

	"github.com/extinctpotato/catala/internal/ast"
	"github.com/extinctpotato/catala/internal/source"
)

// Binding is the value of one top-level declaration.
type Binding struct {
	Var   *ast.Var
	Value Object
}

// LoadProgram evaluates the declarations of p in order and makes them
// visible to later evaluations. A declaration whose value is empty is bound
// to EMPTY and only fails where it is read.
func (e *Evaluator) LoadProgram(p *ast.Program) ([]Binding, error) {
	if p.Ctx != nil {
		e.Decls = p.Ctx
	}
	out := make([]Binding, 0, len(p.Decls))
	for _, d := range p.Decls {
		var (
			v   Object
			err error
		)
		switch d := d.(type) {
		case *ast.ScopeDecl:
			v = &Scope{Name: d.Var.String(), Body: d.Body}
		case *ast.TopLevelDecl:
			v, err = e.Eval(d.Expr, EmptyEnv())
			if errors.Is(err, ErrEmpty) {
				v, err = EMPTY, nil
			}
		}
		if err != nil {
			return nil, err
		}
		e.globals[d.DeclVar()] = v
		out = append(out, Binding{Var: d.DeclVar(), Value: v})
	}
	return out, nil
}

// Global returns the value bound to a top-level declaration.
func (e *Evaluator) Global(v *ast.Var) (Object, bool) {
	obj, ok := e.globals[v]
	return obj, ok
}

// Call looks up a declaration by variable and applies it.
func (e *Evaluator) Call(v *ast.Var, args ...Object) (Object, error) {
	fn, ok := e.globals[v]
	if !ok {
		return nil, errors.New("undeclared " + v.String())
	}
	if fn == EMPTY {
		return nil, ErrEmpty
	}
	return e.Apply(fn, args, source.NoPos)
}
