package interpreter

import (
	"fmt"

	"github.com/extinctpotato/catala/internal/ast"
	"github.com/extinctpotato/catala/internal/config"
)

func (e *Evaluator) applyOperator(op *ast.EOp, args []Object) (Object, error) {
	pos := op.Mark.Pos
	if len(args) != op.Op.Arity() {
		return nil, fmt.Errorf("%s: operator %s expects %d arguments, got %d", pos, op.Op, op.Op.Arity(), len(args))
	}

	switch op.Op {
	case ast.OpHandleDefaultOpt:
		return e.handleDefaultOpt(op, args)
	case ast.OpNot:
		b, ok := args[0].(*Boolean)
		if !ok {
			return nil, typeMismatch(op, args)
		}
		return nativeBool(!b.Value), nil
	case ast.OpNeg:
		switch v := args[0].(type) {
		case *Integer:
			return &Integer{Value: -v.Value}, nil
		case *Money:
			return &Money{Cents: -v.Cents}, nil
		}
		return nil, typeMismatch(op, args)
	case ast.OpLength:
		arr, ok := args[0].(*Array)
		if !ok {
			return nil, typeMismatch(op, args)
		}
		return &Integer{Value: int64(len(arr.Elements))}, nil
	case ast.OpEq:
		return nativeBool(ObjectsEqual(args[0], args[1])), nil
	case ast.OpNeq:
		return nativeBool(!ObjectsEqual(args[0], args[1])), nil
	case ast.OpAnd, ast.OpOr:
		l, lok := args[0].(*Boolean)
		r, rok := args[1].(*Boolean)
		if !lok || !rok {
			return nil, typeMismatch(op, args)
		}
		if op.Op == ast.OpAnd {
			return nativeBool(l.Value && r.Value), nil
		}
		return nativeBool(l.Value || r.Value), nil
	}

	l, lok := numeric(args[0])
	r, rok := numeric(args[1])
	if !lok || !rok || args[0].Type() != args[1].Type() {
		return nil, typeMismatch(op, args)
	}
	wrap := func(v int64) Object {
		if _, money := args[0].(*Money); money {
			return &Money{Cents: v}
		}
		return &Integer{Value: v}
	}

	switch op.Op {
	case ast.OpAdd:
		return wrap(l + r), nil
	case ast.OpSub:
		return wrap(l - r), nil
	case ast.OpMul:
		if _, money := args[0].(*Money); money {
			return nil, typeMismatch(op, args)
		}
		return wrap(l * r), nil
	case ast.OpDiv:
		if r == 0 {
			return nil, newError(config.DivisionByZeroName, config.DivisionByZeroMessage, pos)
		}
		return wrap(l / r), nil
	case ast.OpLt:
		return nativeBool(l < r), nil
	case ast.OpLte:
		return nativeBool(l <= r), nil
	case ast.OpGt:
		return nativeBool(l > r), nil
	case ast.OpGte:
		return nativeBool(l >= r), nil
	}
	return nil, fmt.Errorf("%s: unknown operator %s", pos, op.Op)
}

func numeric(obj Object) (int64, bool) {
	switch v := obj.(type) {
	case *Integer:
		return v.Value, true
	case *Money:
		return v.Cents, true
	}
	return 0, false
}

func typeMismatch(op *ast.EOp, args []Object) error {
	types := make([]ObjectType, len(args))
	for i, a := range args {
		types[i] = a.Type()
	}
	return fmt.Errorf("%s: operator %s not defined on %v", op.Mark.Pos, op.Op, types)
}

// handleDefaultOpt is the runtime counterpart of a translated default node.
// Exception thunks are forced in order; two present results are a conflict
// reported at the operator's position. With no exception, the consequence is
// forced only when the justification is present and true.
func (e *Evaluator) handleDefaultOpt(op *ast.EOp, args []Object) (Object, error) {
	pos := op.Mark.Pos
	exceptions, ok := args[0].(*Array)
	if !ok {
		return nil, typeMismatch(op, args)
	}

	var found Object
	for _, th := range exceptions.Elements {
		v, err := e.force(th, op)
		if err != nil {
			return nil, err
		}
		if payload, present, _ := AsOption(v); present {
			if found != nil {
				return nil, newError(config.ConflictErrorName, config.ConflictErrorMessage, pos)
			}
			found = payload
		}
	}
	if found != nil {
		return Some(found), nil
	}

	just, err := e.force(args[1], op)
	if err != nil {
		return nil, err
	}
	payload, present, _ := AsOption(just)
	if b, isBool := payload.(*Boolean); !present || !isBool || !b.Value {
		return None(), nil
	}
	return e.force(args[2], op)
}

// force calls a unit thunk and checks that it returned an option.
func (e *Evaluator) force(th Object, op *ast.EOp) (Object, error) {
	v, err := e.Apply(th, []Object{UNIT}, op.Mark.Pos)
	if err != nil {
		return nil, err
	}
	if _, _, ok := AsOption(v); !ok {
		return nil, fmt.Errorf("%s: %s thunk returned %s, not an option", op.Mark.Pos, op.Op, v.Type())
	}
	return v, nil
}
