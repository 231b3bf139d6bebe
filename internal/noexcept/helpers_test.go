package noexcept

import (
	"context"
	"errors"
	"testing"

	"github.com/extinctpotato/catala/internal/analyzer"
	"github.com/extinctpotato/catala/internal/ast"
	"github.com/extinctpotato/catala/internal/config"
	"github.com/extinctpotato/catala/internal/interpreter"
	"github.com/extinctpotato/catala/internal/source"
	"github.com/extinctpotato/catala/internal/typesystem"
)

var pos = source.At("test.catala_en", 1, 1)

func at(line int) source.Pos { return source.At("test.catala_en", line, 1) }

func intLit(n int64) ast.Expr { return ast.IntLit(n, pos) }

func boolLit(b bool) ast.Expr { return ast.BoolLit(b, pos) }

func emptyInt() ast.Expr { return ast.EmptyLit(typesystem.Int, pos) }

func ref(v *ast.Var, t typesystem.Type) ast.Expr { return ast.Ref(v, t, pos) }

func def(p source.Pos, exceptions []ast.Expr, just, cons ast.Expr) *ast.EDefault {
	return &ast.EDefault{
		Mark:       ast.Mark{Pos: p, Type: cons.GetMark().Type},
		Exceptions: exceptions,
		Just:       just,
		Cons:       cons,
	}
}

func errorOnEmpty(e ast.Expr) ast.Expr {
	return &ast.EErrorOnEmpty{Mark: ast.Mark{Pos: e.GetMark().Pos, Type: e.GetMark().Type}, Arg: e}
}

func binop(op ast.Operator, ret typesystem.Type, a, b ast.Expr) ast.Expr {
	ft := typesystem.TFunc{Params: []typesystem.Type{a.GetMark().Type, b.GetMark().Type}, ReturnType: ret}
	return &ast.EApp{
		Mark: ast.Mark{Pos: pos, Type: ret},
		Fn:   &ast.EOp{Mark: ast.Mark{Pos: pos, Type: ft}, Op: op},
		Args: []ast.Expr{a, b},
	}
}

func app(t typesystem.Type, fn ast.Expr, args ...ast.Expr) *ast.EApp {
	return &ast.EApp{Mark: ast.Mark{Pos: pos, Type: t}, Fn: fn, Args: args}
}

func lambda(param *ast.Var, pt typesystem.Type, body ast.Expr) *ast.EAbs {
	return &ast.EAbs{
		Mark:       ast.Mark{Pos: pos, Type: typesystem.TFunc{Params: []typesystem.Type{pt}, ReturnType: body.GetMark().Type}},
		Params:     []*ast.Var{param},
		ParamTypes: []typesystem.Type{pt},
		Body:       body,
	}
}

func thunk(body ast.Expr) *ast.EAbs {
	return ast.Thunk(ast.NewVar("_"), body, pos)
}

func ifThenElse(c, th, el ast.Expr) ast.Expr {
	return &ast.EIfThenElse{Mark: ast.Mark{Pos: pos, Type: th.GetMark().Type}, Cond: c, Then: th, Else: el}
}

// outcome is the result of evaluating an expression: a value, absence, or
// a runtime error.
type outcome struct {
	value  interpreter.Object
	absent bool
	err    error
}

func evalSource(t *testing.T, e ast.Expr) outcome {
	t.Helper()
	v, err := interpreter.New(nil).Eval(e, interpreter.EmptyEnv())
	if errors.Is(err, interpreter.ErrEmpty) {
		return outcome{absent: true}
	}
	return outcome{value: v, err: err}
}

func evalTarget(t *testing.T, e ast.Expr) outcome {
	t.Helper()
	v, err := interpreter.New(nil).Eval(e, interpreter.EmptyEnv())
	if err != nil {
		if errors.Is(err, interpreter.ErrEmpty) {
			t.Fatalf("translated expression produced the empty value")
		}
		return outcome{err: err}
	}
	return fromOption(t, v)
}

func fromOption(t *testing.T, v interpreter.Object) outcome {
	t.Helper()
	payload, present, ok := interpreter.AsOption(v)
	if !ok {
		t.Fatalf("translated result %s is not an option", v.Inspect())
	}
	if !present {
		return outcome{absent: true}
	}
	return outcome{value: payload}
}

func translate(t *testing.T, e ast.Expr) ast.Expr {
	t.Helper()
	out, err := TranslateExpr(e, nil)
	if err != nil {
		t.Fatalf("TranslateExpr() error: %v", err)
	}
	if bad := ast.FindDefaultConstruct(out); bad != nil {
		t.Fatalf("default construct %T left in output", bad)
	}
	return out
}

// expectEquivalent checks that e and its translation agree.
func expectEquivalent(t *testing.T, e ast.Expr) outcome {
	t.Helper()
	src := evalSource(t, e)
	tgt := evalTarget(t, translate(t, e))
	compareOutcomes(t, src, tgt)
	return tgt
}

func compareOutcomes(t *testing.T, src, tgt outcome) {
	t.Helper()
	switch {
	case src.err != nil || tgt.err != nil:
		var se, te *interpreter.RuntimeError
		if !errors.As(src.err, &se) || !errors.As(tgt.err, &te) {
			t.Fatalf("errors differ: source %v, translated %v", src.err, tgt.err)
		}
		if se.Kind != te.Kind || se.Pos.String() != te.Pos.String() {
			t.Errorf("source raised %v, translated raised %v", se, te)
		}
	case src.absent || tgt.absent:
		if src.absent != tgt.absent {
			t.Errorf("absence differs: source %v, translated %v", src.absent, tgt.absent)
		}
	default:
		if !interpreter.ObjectsEqual(src.value, tgt.value) {
			t.Errorf("source = %s, translated = %s", src.value.Inspect(), tgt.value.Inspect())
		}
	}
}

func expectInt(t *testing.T, o outcome, want int64) {
	t.Helper()
	if o.err != nil || o.absent {
		t.Fatalf("got error=%v absent=%v, want %d", o.err, o.absent, want)
	}
	i, ok := o.value.(*interpreter.Integer)
	if !ok || i.Value != want {
		t.Errorf("got %s, want %d", o.value.Inspect(), want)
	}
}

func expectKind(t *testing.T, o outcome, kind string) {
	t.Helper()
	if !interpreter.IsKind(o.err, kind) {
		t.Errorf("got error %v, want %s", o.err, kind)
	}
}

func translateProgram(t *testing.T, p *ast.Program, opts *config.Options) *ast.Program {
	t.Helper()
	res, err := analyzer.AnalyzeProgram(p)
	if err != nil {
		t.Fatalf("AnalyzeProgram() error: %v", err)
	}
	out, err := (&Pass{Options: opts}).TranslateProgram(context.Background(), p, res)
	if err != nil {
		t.Fatalf("TranslateProgram() error: %v", err)
	}
	return out
}
