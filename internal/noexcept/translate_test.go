package noexcept

import (
	"errors"
	"testing"

	"github.com/extinctpotato/catala/internal/analyzer"
	"github.com/extinctpotato/catala/internal/ast"
	"github.com/extinctpotato/catala/internal/config"
	"github.com/extinctpotato/catala/internal/diagnostics"
	"github.com/extinctpotato/catala/internal/fresh"
	"github.com/extinctpotato/catala/internal/typesystem"
)

func TestNestedDefaultIsAbsent(t *testing.T) {
	inner := def(pos, nil, boolLit(false), intLit(1))
	outer := def(pos, nil, boolLit(true), inner)
	o := expectEquivalent(t, outer)
	if !o.absent {
		t.Errorf("nested default should be absent")
	}
}

func TestConflictingExceptions(t *testing.T) {
	d := def(at(7), []ast.Expr{intLit(1), intLit(2)}, boolLit(true), intLit(3))
	o := expectEquivalent(t, d)
	expectKind(t, o, config.ConflictErrorName)
}

func TestEmptyExceptionIsSkipped(t *testing.T) {
	d := def(pos, []ast.Expr{emptyInt(), intLit(5)}, boolLit(true), intLit(3))
	expectInt(t, expectEquivalent(t, d), 5)
}

func TestJustificationFallback(t *testing.T) {
	expectInt(t, expectEquivalent(t, def(pos, nil, boolLit(true), intLit(7))), 7)
	if o := expectEquivalent(t, def(pos, nil, boolLit(false), intLit(7))); !o.absent {
		t.Errorf("false justification should be absent")
	}
	// An empty justification makes the default empty as well.
	just := ast.EmptyLit(typesystem.Bool, pos)
	if o := expectEquivalent(t, def(pos, nil, just, intLit(7))); !o.absent {
		t.Errorf("empty justification should be absent")
	}
}

func TestErrorOnEmpty(t *testing.T) {
	expectInt(t, expectEquivalent(t, errorOnEmpty(def(pos, nil, boolLit(true), intLit(9)))), 9)

	o := expectEquivalent(t, errorOnEmpty(def(at(3), nil, boolLit(false), intLit(9))))
	expectKind(t, o, config.NoValueProvidedName)
}

func TestOperatorOverAbsentOperand(t *testing.T) {
	sum := binop(ast.OpAdd, typesystem.Int, intLit(1), def(pos, nil, boolLit(false), intLit(2)))
	if o := expectEquivalent(t, sum); !o.absent {
		t.Errorf("1 + empty should be absent")
	}
	sum = binop(ast.OpAdd, typesystem.Int, def(pos, nil, boolLit(true), intLit(40)), def(pos, nil, boolLit(true), intLit(2)))
	expectInt(t, expectEquivalent(t, sum), 42)
}

func TestAbsentOperandIsResolvedFirst(t *testing.T) {
	// (1 / 0) + < | false :- 2 >
	e := binop(ast.OpAdd, typesystem.Int,
		binop(ast.OpDiv, typesystem.Int, intLit(1), intLit(0)),
		def(pos, nil, boolLit(false), intLit(2)))

	src := evalSource(t, e)
	expectKind(t, src, config.DivisionByZeroName)

	// The default is bound before the sum is computed, so its absence wins
	// over the failure of its strict sibling.
	if tgt := evalTarget(t, translate(t, e)); tgt.err != nil || !tgt.absent {
		t.Errorf("translated: err=%v absent=%v, want ENone", tgt.err, tgt.absent)
	}

	// A present default leaves the sibling failure in place.
	e = binop(ast.OpAdd, typesystem.Int,
		binop(ast.OpDiv, typesystem.Int, intLit(1), intLit(0)),
		def(pos, nil, boolLit(true), intLit(2)))
	expectKind(t, evalTarget(t, translate(t, e)), config.DivisionByZeroName)
}

func TestConditionalBranchesStayLazy(t *testing.T) {
	conflict := def(at(11), []ast.Expr{intLit(1), intLit(2)}, boolLit(true), intLit(0))
	e := ifThenElse(boolLit(true), intLit(1), conflict)
	expectInt(t, expectEquivalent(t, e), 1)

	e = ifThenElse(boolLit(false), intLit(1), conflict)
	expectKind(t, expectEquivalent(t, e), config.ConflictErrorName)
}

func TestFunctionReturningAbsence(t *testing.T) {
	// let f = fun x -> < | x > 0 :- x > in f n
	for _, tc := range []struct {
		arg    int64
		absent bool
	}{{3, false}, {0, true}} {
		f, x := ast.NewVar("f"), ast.NewVar("x")
		body := def(pos, nil, binop(ast.OpGt, typesystem.Bool, ref(x, typesystem.Int), intLit(0)), ref(x, typesystem.Int))
		fn := lambda(x, typesystem.Int, body)
		call := app(typesystem.Int, ref(f, fn.Mark.Type), intLit(tc.arg))
		o := expectEquivalent(t, ast.Let(f, fn.Mark.Type, fn, call, pos))
		if o.absent != tc.absent {
			t.Errorf("f %d: absent = %v, want %v", tc.arg, o.absent, tc.absent)
		}
	}
}

func TestAbsentReturningFunctionPassedAsArgument(t *testing.T) {
	// let h = fun g -> g 1 in h (fun x -> < | x > 0 :- x >)
	h, g, x := ast.NewVar("h"), ast.NewVar("g"), ast.NewVar("x")
	intFn := typesystem.TFunc{Params: []typesystem.Type{typesystem.Int}, ReturnType: typesystem.Int}
	hFn := lambda(g, intFn, app(typesystem.Int, ref(g, intFn), intLit(1)))
	partial := lambda(x, typesystem.Int,
		def(pos, nil, binop(ast.OpGt, typesystem.Bool, ref(x, typesystem.Int), intLit(0)), ref(x, typesystem.Int)))
	e := ast.Let(h, hFn.Mark.Type, hFn, app(typesystem.Int, ref(h, hFn.Mark.Type), partial), pos)

	_, err := TranslateExpr(e, nil)
	var diag *diagnostics.DiagnosticError
	if !errors.As(err, &diag) || diag.Code != diagnostics.ErrI010 {
		t.Fatalf("TranslateExpr() error = %v, want %s", err, diagnostics.ErrI010)
	}

	// The same function bound by a let keeps its flag and translates.
	f, y := ast.NewVar("f"), ast.NewVar("y")
	fn := lambda(y, typesystem.Int,
		def(pos, nil, binop(ast.OpGt, typesystem.Bool, ref(y, typesystem.Int), intLit(0)), ref(y, typesystem.Int)))
	call := app(typesystem.Int, ref(f, fn.Mark.Type), intLit(1))
	expectInt(t, expectEquivalent(t, ast.Let(f, fn.Mark.Type, fn, call, pos)), 1)
}

func TestThunkParameter(t *testing.T) {
	// let g = fun th -> th () + 1 in g (fun _ -> < | true :- 4 >)
	g, th := ast.NewVar("g"), ast.NewVar("th")
	thunkT := typesystem.MakeThunk(typesystem.Int)
	force := app(typesystem.Int, ref(th, thunkT), ast.UnitLit(pos))
	fn := lambda(th, thunkT, binop(ast.OpAdd, typesystem.Int, force, intLit(1)))
	call := app(typesystem.Int, ref(g, fn.Mark.Type), thunk(def(pos, nil, boolLit(true), intLit(4))))
	expectInt(t, expectEquivalent(t, ast.Let(g, fn.Mark.Type, fn, call, pos)), 5)
}

func TestLetOfAbsentValue(t *testing.T) {
	// let y = < | false :- 1 > in 10
	y := ast.NewVar("y")
	e := ast.Let(y, typesystem.Int, def(pos, nil, boolLit(false), intLit(1)), intLit(10), pos)
	if o := expectEquivalent(t, e); !o.absent {
		t.Errorf("let over an empty value should be absent")
	}
}

func TestMatchWithAbsentArm(t *testing.T) {
	v := ast.NewVar("v")
	m := ast.MatchOption(ast.Some(intLit(4), pos), def(pos, nil, boolLit(false), intLit(0)), v,
		binop(ast.OpMul, typesystem.Int, ref(v, typesystem.Int), intLit(2)), pos)
	expectInt(t, expectEquivalent(t, m), 8)
}

func TestAssertOverAbsentValue(t *testing.T) {
	a := &ast.EAssert{Mark: ast.Mark{Pos: pos, Type: typesystem.Unit}, Arg: def(pos, nil, boolLit(false), boolLit(true))}
	o := evalTarget(t, translate(t, a))
	expectKind(t, o, config.NoValueProvidedName)
}

func TestSiblingDefaultsGetDistinctHoists(t *testing.T) {
	d1 := def(pos, nil, boolLit(true), intLit(1))
	d2 := def(pos, nil, boolLit(true), intLit(2))
	sum := binop(ast.OpAdd, typesystem.Int, d1, d2)

	a := analyzer.New(nil)
	a.Analyze(analyzer.EmptyEnv(), sum)
	tr := newTranslator(fresh.ForDecl(0), &analyzer.Result{Exprs: a.PurityMap}, nil)

	_, hs := tr.translateAndHoist(EmptyCtx(), sum)
	if hs.Len() != 2 {
		t.Fatalf("got %d hoists, want 2", hs.Len())
	}
	if hs.entries[0].v == hs.entries[1].v || hs.entries[0].v.String() == hs.entries[1].v.String() {
		t.Errorf("placeholders collide: %s", hs.entries[0].v)
	}
	if hs.entries[0].expr != d1 || hs.entries[1].expr != d2 {
		t.Errorf("hoists are not in source order")
	}
}

func TestUnionRejectsDuplicatePlaceholder(t *testing.T) {
	h := &hoist{v: ast.NewVar("p"), expr: intLit(1), ctx: EmptyCtx()}
	defer func() {
		if recover() == nil {
			t.Errorf("union of overlapping tables should abort")
		}
	}()
	union(single(h), single(h))
}

func TestUnanalyzedTreeIsRejected(t *testing.T) {
	cond := func() ast.Expr {
		return &ast.EIfThenElse{Mark: ast.Mark{Pos: pos, Type: typesystem.Int}, Cond: boolLit(true), Then: intLit(1), Else: intLit(2)}
	}
	a := analyzer.New(nil)
	a.Analyze(analyzer.EmptyEnv(), cond())
	tr := newTranslator(fresh.ForDecl(0), &analyzer.Result{Exprs: a.PurityMap}, nil)

	other := cond()
	err := diagnostics.Catch(func() { tr.translateFull(EmptyCtx(), other) })
	var diag *diagnostics.DiagnosticError
	if !errors.As(err, &diag) || diag.Code != diagnostics.ErrI002 {
		t.Errorf("error = %v, want %s", err, diagnostics.ErrI002)
	}
}

func TestTranslateType(t *testing.T) {
	thunkT := typesystem.MakeThunk(typesystem.Int)
	fn := typesystem.TFunc{Params: []typesystem.Type{thunkT}, ReturnType: typesystem.Bool}
	got := TranslateType(fn)
	want := typesystem.TFunc{Params: []typesystem.Type{typesystem.MakeOption(typesystem.Int)}, ReturnType: typesystem.Bool}
	if !typesystem.Equal(got, want) {
		t.Errorf("TranslateType(%s) = %s, want %s", fn, got, want)
	}
}
