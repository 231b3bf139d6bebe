package interpreter

import (
	"context"
	"errors"
	"fmt"

	"github.com/extinctpotato/catala/internal/ast"
	"github.com/extinctpotato/catala/internal/config"
	"github.com/extinctpotato/catala/internal/persistent"
	"github.com/extinctpotato/catala/internal/source"
)

// Env binds variables to values. Closures capture it by reference.
type Env = *persistent.Map[*ast.Var, Object]

func EmptyEnv() Env {
	return persistent.Empty[*ast.Var, Object]()
}

const maxEvalDepth = 10000

// Evaluator evaluates both source trees, where ErrEmpty models the empty
// value, and translated trees, where absence is an option value.
type Evaluator struct {
	Context context.Context
	Decls   *ast.DeclContext

	globals   map[*ast.Var]Object
	evalDepth int
}

func New(decls *ast.DeclContext) *Evaluator {
	if decls == nil {
		decls = ast.NewDeclContext()
	}
	return &Evaluator{Decls: decls, globals: make(map[*ast.Var]Object)}
}

func (e *Evaluator) Eval(node ast.Expr, env Env) (Object, error) {
	e.evalDepth++
	defer func() { e.evalDepth-- }()
	if e.evalDepth > maxEvalDepth {
		return nil, fmt.Errorf("%s: maximum recursion depth exceeded", node.GetMark().Pos)
	}
	if e.Context != nil {
		if err := e.Context.Err(); err != nil {
			return nil, fmt.Errorf("execution cancelled: %w", err)
		}
	}
	return e.evalCore(node, env)
}

func (e *Evaluator) evalCore(node ast.Expr, env Env) (Object, error) {
	pos := node.GetMark().Pos

	switch n := node.(type) {
	case *ast.EVar:
		obj, ok := env.Get(n.Var)
		if !ok {
			obj, ok = e.globals[n.Var]
		}
		if !ok {
			return nil, fmt.Errorf("%s: unbound variable %s", pos, n.Var)
		}
		if obj == EMPTY {
			return nil, ErrEmpty
		}
		return obj, nil

	case *ast.ELit:
		return evalLiteral(n)

	case *ast.EOp:
		return nil, fmt.Errorf("%s: operator %s used as a value", pos, n.Op)

	case *ast.EAbs:
		return &Function{Params: n.Params, Body: n.Body, Env: env}, nil

	case *ast.EApp:
		return e.evalApp(n, env)

	case *ast.EStruct:
		fields := make([]StructField, len(n.Fields))
		for i, f := range n.Fields {
			v, err := e.Eval(f.Value, env)
			if err != nil {
				return nil, err
			}
			fields[i] = StructField{Name: f.Name, Value: v}
		}
		return &Struct{Name: n.Name, Fields: fields}, nil

	case *ast.EStructAccess:
		obj, err := e.Eval(n.Struct, env)
		if err != nil {
			return nil, err
		}
		s, ok := obj.(*Struct)
		if !ok {
			return nil, fmt.Errorf("%s: field access on %s", pos, obj.Type())
		}
		v, ok := s.Get(n.Field)
		if !ok {
			return nil, fmt.Errorf("%s: struct %s has no field %s", pos, s.Name, n.Field)
		}
		return v, nil

	case *ast.ETuple:
		elems, err := e.evalAll(n.Elements, env)
		if err != nil {
			return nil, err
		}
		return &Tuple{Elements: elems}, nil

	case *ast.ETupleAccess:
		obj, err := e.Eval(n.Tuple, env)
		if err != nil {
			return nil, err
		}
		t, ok := obj.(*Tuple)
		if !ok || n.Index < 0 || n.Index >= len(t.Elements) {
			return nil, newError(config.IndexOutOfBoundsName, config.IndexOutOfBoundsMessage, pos)
		}
		return t.Elements[n.Index], nil

	case *ast.EInj:
		v, err := e.Eval(n.Arg, env)
		if err != nil {
			return nil, err
		}
		return &EnumValue{Enum: n.Enum, Ctor: n.Ctor, Payload: v}, nil

	case *ast.EMatch:
		obj, err := e.Eval(n.Scrutinee, env)
		if err != nil {
			return nil, err
		}
		ev, ok := obj.(*EnumValue)
		if !ok {
			return nil, fmt.Errorf("%s: match on %s", pos, obj.Type())
		}
		for _, arm := range n.Arms {
			if arm.Ctor != ev.Ctor {
				continue
			}
			inner := env
			if arm.Var != nil {
				inner = inner.Put(arm.Var, ev.Payload)
			}
			return e.Eval(arm.Body, inner)
		}
		return nil, fmt.Errorf("%s: no arm for constructor %s", pos, ev.Ctor)

	case *ast.EArray:
		elems, err := e.evalAll(n.Elements, env)
		if err != nil {
			return nil, err
		}
		return &Array{Elements: elems}, nil

	case *ast.EIfThenElse:
		c, err := e.evalBool(n.Cond, env)
		if err != nil {
			return nil, err
		}
		if c {
			return e.Eval(n.Then, env)
		}
		return e.Eval(n.Else, env)

	case *ast.EAssert:
		ok, err := e.evalBool(n.Arg, env)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, newError(config.AssertionFailedName, config.AssertionFailedMessage, pos)
		}
		return UNIT, nil

	case *ast.EErrorOnEmpty:
		v, err := e.Eval(n.Arg, env)
		if errors.Is(err, ErrEmpty) {
			return nil, newError(config.NoValueProvidedName, config.NoValueProvidedMessage, pos)
		}
		return v, err

	case *ast.EDefault:
		return e.evalDefault(n, env)

	case *ast.ERaise:
		switch n.Kind {
		case ast.RaiseConflict:
			return nil, newError(config.ConflictErrorName, config.ConflictErrorMessage, pos)
		default:
			return nil, newError(config.NoValueProvidedName, config.NoValueProvidedMessage, pos)
		}
	}

	return nil, fmt.Errorf("%s: cannot evaluate %T", pos, node)
}

func evalLiteral(n *ast.ELit) (Object, error) {
	switch n.Kind {
	case ast.LitUnit:
		return UNIT, nil
	case ast.LitBool:
		return nativeBool(n.Bool), nil
	case ast.LitInt:
		return &Integer{Value: n.Int}, nil
	case ast.LitMoney:
		return &Money{Cents: n.Int}, nil
	case ast.LitString:
		return &String{Value: n.Str}, nil
	case ast.LitEmpty:
		return nil, ErrEmpty
	}
	return nil, fmt.Errorf("%s: unknown literal kind %d", n.Mark.Pos, n.Kind)
}

func (e *Evaluator) evalAll(exprs []ast.Expr, env Env) ([]Object, error) {
	out := make([]Object, len(exprs))
	for i, x := range exprs {
		v, err := e.Eval(x, env)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *Evaluator) evalBool(x ast.Expr, env Env) (bool, error) {
	v, err := e.Eval(x, env)
	if err != nil {
		return false, err
	}
	b, ok := v.(*Boolean)
	if !ok {
		return false, fmt.Errorf("%s: expected a boolean, got %s", x.GetMark().Pos, v.Type())
	}
	return b.Value, nil
}

func (e *Evaluator) evalApp(n *ast.EApp, env Env) (Object, error) {
	if op, ok := n.Fn.(*ast.EOp); ok {
		args, err := e.evalAll(n.Args, env)
		if err != nil {
			return nil, err
		}
		return e.applyOperator(op, args)
	}

	fn, err := e.Eval(n.Fn, env)
	if err != nil {
		return nil, err
	}
	args, err := e.evalAll(n.Args, env)
	if err != nil {
		return nil, err
	}
	return e.Apply(fn, args, n.Mark.Pos)
}

// Apply calls a function or scope value.
func (e *Evaluator) Apply(fn Object, args []Object, pos source.Pos) (Object, error) {
	switch f := fn.(type) {
	case *Function:
		if len(args) != len(f.Params) {
			return nil, fmt.Errorf("%s: function of %d parameters applied to %d arguments", pos, len(f.Params), len(args))
		}
		inner := f.Env
		for i, p := range f.Params {
			inner = inner.Put(p, args[i])
		}
		return e.Eval(f.Body, inner)
	case *Scope:
		if len(args) != 1 {
			return nil, fmt.Errorf("%s: scope %s applied to %d arguments", pos, f.Name, len(args))
		}
		return e.runScope(f, args[0])
	}
	return nil, fmt.Errorf("%s: %s is not callable", pos, fn.Type())
}

// evalDefault implements the source semantics of a default node: the
// applicable exceptions are counted in order; with none, the consequence
// applies only under a true justification.
func (e *Evaluator) evalDefault(n *ast.EDefault, env Env) (Object, error) {
	var found Object
	for _, ex := range n.Exceptions {
		v, err := e.Eval(ex, env)
		if errors.Is(err, ErrEmpty) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if found != nil {
			return nil, newError(config.ConflictErrorName, config.ConflictErrorMessage, n.Mark.Pos)
		}
		found = v
	}
	if found != nil {
		return found, nil
	}

	just, err := e.evalBool(n.Just, env)
	if err != nil {
		return nil, err
	}
	if !just {
		return nil, ErrEmpty
	}
	return e.Eval(n.Cons, env)
}

// runScope evaluates a scope body. A let whose value is empty binds EMPTY,
// so the scope only becomes empty if the value is read.
func (e *Evaluator) runScope(s *Scope, input Object) (Object, error) {
	env := EmptyEnv().Put(s.Body.InputVar, input)
	for _, let := range s.Body.Lets {
		v, err := e.Eval(let.Expr, env)
		if errors.Is(err, ErrEmpty) {
			v, err = EMPTY, nil
		}
		if err != nil {
			return nil, err
		}
		env = env.Put(let.Var, v)
	}
	return e.Eval(s.Body.Result, env)
}
