package analyzer

import (
	"errors"
	"testing"

	"github.com/extinctpotato/catala/internal/ast"
	"github.com/extinctpotato/catala/internal/diagnostics"
	"github.com/extinctpotato/catala/internal/source"
	"github.com/extinctpotato/catala/internal/typesystem"
)

var pos = source.At("test.catala_en", 1, 1)

func intLit(n int64) ast.Expr { return ast.IntLit(n, pos) }

func empty() ast.Expr { return ast.EmptyLit(typesystem.Int, pos) }

func def(exceptions []ast.Expr, just, cons ast.Expr) *ast.EDefault {
	return &ast.EDefault{
		Mark:       ast.Mark{Pos: pos, Type: cons.GetMark().Type},
		Exceptions: exceptions,
		Just:       just,
		Cons:       cons,
	}
}

func op(o ast.Operator, t typesystem.Type) *ast.EOp {
	return &ast.EOp{Mark: ast.Mark{Pos: pos, Type: t}, Op: o}
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

var intBinOp = typesystem.TFunc{Params: []typesystem.Type{typesystem.Int, typesystem.Int}, ReturnType: typesystem.Int}

func analyzeClosed(t *testing.T, e ast.Expr) (*Analyzer, ast.Purity) {
	t.Helper()
	a := New(nil)
	p, err := a.AnalyzeExpr(e)
	if err != nil {
		t.Fatalf("AnalyzeExpr() error: %v", err)
	}
	return a, p
}

func expectCode(t *testing.T, e ast.Expr, code diagnostics.ErrorCode) {
	t.Helper()
	_, err := New(nil).AnalyzeExpr(e)
	var diag *diagnostics.DiagnosticError
	if !errors.As(err, &diag) {
		t.Fatalf("expected %s, got %v", code, err)
	}
	if diag.Code != code {
		t.Errorf("Code = %s, want %s", diag.Code, code)
	}
}

func TestLiteralPurity(t *testing.T) {
	if _, p := analyzeClosed(t, intLit(3)); p.MayBeAbsent {
		t.Errorf("int literal should be present")
	}
	if _, p := analyzeClosed(t, empty()); !p.MayBeAbsent {
		t.Errorf("empty literal should be absent")
	}
}

func TestDefaultAndErrorOnEmpty(t *testing.T) {
	d := def(nil, ast.BoolLit(true, pos), intLit(1))
	a, p := analyzeClosed(t, d)
	if !p.MayBeAbsent {
		t.Errorf("default should be absent")
	}
	if a.PurityMap[d.Just].MayBeAbsent {
		t.Errorf("justification literal should be annotated present")
	}

	e := &ast.EErrorOnEmpty{Mark: ast.Mark{Pos: pos, Type: typesystem.Int}, Arg: def(nil, ast.BoolLit(true, pos), intLit(1))}
	if _, p := analyzeClosed(t, e); p.MayBeAbsent {
		t.Errorf("error_on_empty should be present")
	}
}

func TestOperatorApplicationIsUnionOfArguments(t *testing.T) {
	present := app(typesystem.Int, op(ast.OpAdd, intBinOp), intLit(1), intLit(2))
	if _, p := analyzeClosed(t, present); p.MayBeAbsent {
		t.Errorf("1 + 2 should be present")
	}
	absent := app(typesystem.Int, op(ast.OpAdd, intBinOp), intLit(1), empty())
	if _, p := analyzeClosed(t, absent); !p.MayBeAbsent {
		t.Errorf("1 + empty should be absent")
	}
}

func TestAbstractionCarriesReturnFlag(t *testing.T) {
	x := ast.NewVar("x")
	f := lambda(x, typesystem.Int, def(nil, ast.BoolLit(false, pos), ast.Ref(x, typesystem.Int, pos)))
	_, p := analyzeClosed(t, f)
	if p.MayBeAbsent {
		t.Errorf("a function value is never absent")
	}
	if !p.ReturnMayBeAbsent {
		t.Errorf("function returning a default should have ReturnMayBeAbsent")
	}
}

func TestLetPropagatesReturnFlag(t *testing.T) {
	// let f = (fun y -> <empty>) in f 1
	f, y := ast.NewVar("f"), ast.NewVar("y")
	fn := lambda(y, typesystem.Int, empty())
	call := app(typesystem.Int, ast.Ref(f, fn.Mark.Type, pos), intLit(1))
	let := ast.Let(f, fn.Mark.Type, fn, call, pos)

	a, p := analyzeClosed(t, let)
	if !a.PurityMap[call].MayBeAbsent {
		t.Errorf("call of a let-bound absent-returning function should be absent")
	}
	if !p.MayBeAbsent {
		t.Errorf("let should inherit the absence of its body")
	}
}

func TestThunkCallIsAbsent(t *testing.T) {
	th := ast.NewVar("th")
	thunkT := typesystem.MakeThunk(typesystem.Int)
	body := app(typesystem.Int, ast.Ref(th, thunkT, pos), ast.UnitLit(pos))
	outer := lambda(th, thunkT, body)
	a, _ := analyzeClosed(t, outer)
	if !a.PurityMap[body].MayBeAbsent {
		t.Errorf("forcing a thunk parameter should be absent")
	}
}

func TestMatchArmBinderIsPresent(t *testing.T) {
	v := ast.NewVar("v")
	scrut := ast.Some(intLit(4), pos)
	m := ast.MatchOption(scrut, intLit(0), v, ast.Ref(v, typesystem.Int, pos), pos)
	if _, p := analyzeClosed(t, m); p.MayBeAbsent {
		t.Errorf("match over present arms should be present")
	}
}

func TestMalformedRedex(t *testing.T) {
	x, y := ast.NewVar("x"), ast.NewVar("y")
	two := &ast.EAbs{
		Mark:       ast.Mark{Pos: pos, Type: intBinOp},
		Params:     []*ast.Var{x, y},
		ParamTypes: []typesystem.Type{typesystem.Int, typesystem.Int},
		Body:       ast.Ref(x, typesystem.Int, pos),
	}
	expectCode(t, app(typesystem.Int, two, intLit(1), intLit(2)), diagnostics.ErrI001)

	inner := app(intBinOp, lambda(x, typesystem.Int, two), intLit(1))
	expectCode(t, app(typesystem.Int, inner, intLit(2)), diagnostics.ErrI001)
}

func TestFunctionTypedException(t *testing.T) {
	x := ast.NewVar("x")
	fn := lambda(x, typesystem.Int, ast.Ref(x, typesystem.Int, pos))
	d := &ast.EDefault{
		Mark:       ast.Mark{Pos: pos, Type: fn.Mark.Type},
		Exceptions: []ast.Expr{fn},
		Just:       ast.BoolLit(true, pos),
		Cons:       fn,
	}
	expectCode(t, d, diagnostics.ErrI007)
}

func TestUnboundVariable(t *testing.T) {
	expectCode(t, ast.Ref(ast.NewVar("ghost"), typesystem.Int, pos), diagnostics.ErrI005)
}

func TestRecursiveDeclarationReachesFixpoint(t *testing.T) {
	// g = fun x -> if x = 0 then <empty> else g (x - 1)
	g, x := ast.NewVar("g"), ast.NewVar("x")
	gT := typesystem.TFunc{Params: []typesystem.Type{typesystem.Int}, ReturnType: typesystem.Int}
	cmp := typesystem.TFunc{Params: []typesystem.Type{typesystem.Int, typesystem.Int}, ReturnType: typesystem.Bool}
	rec := app(typesystem.Int, ast.Ref(g, gT, pos),
		app(typesystem.Int, op(ast.OpSub, intBinOp), ast.Ref(x, typesystem.Int, pos), intLit(1)))
	body := &ast.EIfThenElse{
		Mark: ast.Mark{Pos: pos, Type: typesystem.Int},
		Cond: app(typesystem.Bool, op(ast.OpEq, cmp), ast.Ref(x, typesystem.Int, pos), intLit(0)),
		Then: empty(),
		Else: rec,
	}
	prog := &ast.Program{
		Ctx:   ast.NewDeclContext(),
		Decls: []ast.Decl{&ast.TopLevelDecl{Pos: pos, Var: g, Type: gT, Expr: lambda(x, typesystem.Int, body)}},
	}

	res, err := AnalyzeProgram(prog)
	if err != nil {
		t.Fatalf("AnalyzeProgram() error: %v", err)
	}
	if !res.Decls[g].ReturnMayBeAbsent {
		t.Errorf("g should have ReturnMayBeAbsent")
	}
	if !res.Of(rec).MayBeAbsent {
		t.Errorf("recursive call should be annotated absent after the fixpoint")
	}
}

func TestScopeBodyPurity(t *testing.T) {
	in, v := ast.NewVar("input"), ast.NewVar("v")
	body := &ast.ScopeBody{
		InputVar:     in,
		InputStruct:  "In",
		OutputStruct: "Out",
		Lets: []*ast.ScopeLet{{
			Pos:  pos,
			Kind: ast.ScopeVarDefinition,
			Var:  v,
			Type: typesystem.Int,
			Expr: def(nil, ast.BoolLit(true, pos), intLit(1)),
		}},
		Result: &ast.EStruct{
			Mark:   ast.Mark{Pos: pos, Type: typesystem.TStruct{Name: "Out"}},
			Name:   "Out",
			Fields: []*ast.FieldValue{{Name: "v", Value: ast.Ref(v, typesystem.Int, pos)}},
		},
	}
	p := New(nil).AnalyzeScopeBody(EmptyEnv(), body)
	if !p.ReturnMayBeAbsent {
		t.Errorf("scope whose output reads an absent var should have ReturnMayBeAbsent")
	}
}

func TestAbsentReturningFunctionAsValue(t *testing.T) {
	x, y, h, g := ast.NewVar("x"), ast.NewVar("y"), ast.NewVar("h"), ast.NewVar("g")
	intFn := typesystem.TFunc{Params: []typesystem.Type{typesystem.Int}, ReturnType: typesystem.Int}
	partial := func() *ast.EAbs {
		return lambda(x, typesystem.Int, def(nil, ast.BoolLit(true, pos), ast.Ref(x, typesystem.Int, pos)))
	}
	// let h = fun g -> g 1 in h partial
	hT := typesystem.TFunc{Params: []typesystem.Type{intFn}, ReturnType: typesystem.Int}
	hFn := lambda(g, intFn, app(typesystem.Int, ast.Ref(g, intFn, pos), intLit(1)))
	passed := ast.Let(h, hT, hFn, app(typesystem.Int, ast.Ref(h, hT, pos), partial()), pos)

	tupleT := typesystem.TTuple{Elements: []typesystem.Type{intFn}}
	stored := &ast.ETuple{Mark: ast.Mark{Pos: pos, Type: tupleT}, Elements: []ast.Expr{partial()}}

	// fun y -> fun x -> < | true :- x >
	curried := lambda(y, typesystem.Int, partial())

	tests := []struct {
		name string
		e    ast.Expr
	}{
		{"argument", passed},
		{"tuple element", stored},
		{"curried result", curried},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectCode(t, tt.e, diagnostics.ErrI010)
		})
	}
}

func TestAbsentReturningFunctionThroughLet(t *testing.T) {
	// let f = fun x -> < | true :- x > in f 2
	f, x := ast.NewVar("f"), ast.NewVar("x")
	fn := lambda(x, typesystem.Int, def(nil, ast.BoolLit(true, pos), ast.Ref(x, typesystem.Int, pos)))
	call := app(typesystem.Int, ast.Ref(f, fn.Mark.Type, pos), intLit(2))
	_, p := analyzeClosed(t, ast.Let(f, fn.Mark.Type, fn, call, pos))
	if !p.MayBeAbsent {
		t.Errorf("call through a let-bound function should be absent")
	}
}
