package ast

import (
	"testing"

	"github.com/extinctpotato/catala/internal/source"
	"github.com/extinctpotato/catala/internal/typesystem"
)

var testPos = source.At("ast.catala_en", 1, 1)

func identity(v *Var) Expr {
	abs := &EAbs{
		Mark:       Mark{Pos: testPos, Type: typesystem.TFunc{Params: []typesystem.Type{typesystem.Int}, ReturnType: typesystem.Int}},
		Params:     []*Var{v},
		ParamTypes: []typesystem.Type{typesystem.Int},
		Body:       Ref(v, typesystem.Int, testPos),
	}
	return abs
}

func TestAlphaEqual(t *testing.T) {
	x, y, z := NewVar("x"), NewVar("y"), NewVar("z")
	if !AlphaEqual(identity(x), identity(y)) {
		t.Errorf("fun x -> x and fun y -> y should be alpha-equal")
	}

	constant := &EAbs{
		Mark:       Mark{Pos: testPos, Type: typesystem.TFunc{Params: []typesystem.Type{typesystem.Int}, ReturnType: typesystem.Int}},
		Params:     []*Var{x},
		ParamTypes: []typesystem.Type{typesystem.Int},
		Body:       Ref(z, typesystem.Int, testPos),
	}
	if AlphaEqual(identity(y), constant) {
		t.Errorf("fun y -> y and fun x -> z should differ")
	}

	if AlphaEqual(IntLit(1, testPos), IntLit(2, testPos)) {
		t.Errorf("distinct literals compare equal")
	}
	if AlphaEqual(Some(IntLit(1, testPos), testPos), Some(BoolLit(true, testPos), testPos)) {
		t.Errorf("options of different types compare equal")
	}
	if !AlphaEqual(None(typesystem.Int, testPos), None(typesystem.Int, source.NoPos)) {
		t.Errorf("positions should be ignored")
	}
}

func TestFindDefaultConstruct(t *testing.T) {
	d := &EDefault{
		Mark: Mark{Pos: testPos, Type: typesystem.Int},
		Just: BoolLit(true, testPos),
		Cons: IntLit(1, testPos),
	}
	e := Let(NewVar("v"), typesystem.Int, d, IntLit(0, testPos), testPos)
	if got := FindDefaultConstruct(e); got != d {
		t.Errorf("FindDefaultConstruct() = %v, want the default node", got)
	}

	empty := EmptyLit(typesystem.Int, testPos)
	if got := FindDefaultConstruct(Some(empty, testPos)); got != empty {
		t.Errorf("empty literal not found")
	}

	clean := MatchOption(None(typesystem.Int, testPos), IntLit(0, testPos), NewVar("v"), IntLit(1, testPos), testPos)
	if got := FindDefaultConstruct(clean); got != nil {
		t.Errorf("FindDefaultConstruct() = %T, want nil", got)
	}
}

func TestVarString(t *testing.T) {
	if got := NewVar("x").String(); got != "x" {
		t.Errorf("source var printed as %q", got)
	}
	v := &Var{Name: "x", Namespace: "d0", Index: 3}
	if got := v.String(); got != "x__d0_3" {
		t.Errorf("fresh var printed as %q", got)
	}
	var nilVar *Var
	if got := nilVar.String(); got != "<nil var>" {
		t.Errorf("nil var printed as %q", got)
	}
}

func TestVarHashesDifferForSameName(t *testing.T) {
	seen := make(map[uint32]bool)
	for i := 0; i < 64; i++ {
		h := NewVar("x").Hash()
		if seen[h] {
			t.Fatalf("two vars named x share hash %d", h)
		}
		seen[h] = true
	}
	if a, b := NewIndexedVar("x", "d0", 1), NewIndexedVar("x", "d0", 1); a.Hash() == b.Hash() {
		t.Errorf("indexed vars with the same printed name share a hash")
	}
}

func TestScopeLetKindNames(t *testing.T) {
	for _, k := range []ScopeLetKind{ScopeVarDefinition, SubScopeVarDefinition, CallingSubScope,
		DestructuringInputStruct, DestructuringSubScopeResults, Assertion} {
		got, ok := ScopeLetKindByName(k.String())
		if !ok || got != k {
			t.Errorf("ScopeLetKindByName(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ScopeLetKindByName("nonsense"); ok {
		t.Errorf("unknown kind accepted")
	}
}
