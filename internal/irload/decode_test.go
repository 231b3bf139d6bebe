package irload

import (
	"strings"
	"testing"

	"github.com/extinctpotato/catala/internal/ast"
	"github.com/extinctpotato/catala/internal/typesystem"
)

func TestLoadFixture(t *testing.T) {
	p, err := Load("testdata/overrides.yaml")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if p.Name != "overrides" {
		t.Errorf("Name = %q", p.Name)
	}
	if len(p.Decls) != 4 {
		t.Fatalf("got %d declarations, want 4", len(p.Decls))
	}

	ovr, _ := p.Ctx.Structs["BIn"].FieldType("ovr")
	if !typesystem.IsThunk(ovr) {
		t.Errorf("BIn.ovr has type %s, want a thunk", ovr)
	}
	if high, _ := p.Ctx.Enums["Bracket"].CtorType("High"); !typesystem.Equal(high, typesystem.Int) {
		t.Errorf("High carries %s", high)
	}

	a := p.Decls[0].(*ast.ScopeDecl)
	if got := a.Body.Lets[1].Pos; got.StartLine != 3 || len(got.LawHeadings) != 2 || got.File != "overrides.catala_en" {
		t.Errorf("let y at %s", got.Describe())
	}
	if _, ok := a.Body.Lets[1].Expr.(*ast.EErrorOnEmpty); !ok {
		t.Errorf("let y is %T", a.Body.Lets[1].Expr)
	}

	b := p.Decls[1].(*ast.ScopeDecl)
	call := b.Body.Lets[3].Expr.(*ast.EApp)
	if callee := call.Fn.(*ast.EVar); callee.Var != a.Var {
		t.Errorf("subscope call does not refer to scope A")
	}
	if b.Body.Lets[3].Kind != ast.CallingSubScope {
		t.Errorf("kind = %s", b.Body.Lets[3].Kind)
	}

	rate := p.Decls[3].(*ast.TopLevelDecl)
	m := rate.Expr.(*ast.EMatch)
	if m.Enum != "Bracket" || m.Arms[1].Var == nil {
		t.Errorf("match = %+v", m)
	}
	if ref := m.Scrutinee.(*ast.EApp).Fn.(*ast.EVar); ref.Var != p.Decls[2].DeclVar() {
		t.Errorf("rate does not call bracket")
	}
}

func TestShadowing(t *testing.T) {
	src := `
version: 1
decls:
  - let: v
    type: Int
    expr:
      let: x
      value: {int: 1}
      in:
        let: x
        value: {op: "+", args: [{var: x}, {int: 1}]}
        in: {var: x}
`
	p, err := Decode([]byte(src), "shadow.yaml")
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	outer := p.Decls[0].(*ast.TopLevelDecl).Expr.(*ast.EApp)
	outerVar := outer.Fn.(*ast.EAbs).Params[0]
	inner := outer.Fn.(*ast.EAbs).Body.(*ast.EApp)
	innerAbs := inner.Fn.(*ast.EAbs)
	if innerAbs.Params[0] == outerVar {
		t.Fatalf("shadowing binder reuses the outer variable")
	}
	if ref := innerAbs.Body.(*ast.EVar); ref.Var != innerAbs.Params[0] {
		t.Errorf("body refers to the outer x")
	}
	if p.Name != "shadow" {
		t.Errorf("unit name = %q, want the file name", p.Name)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"version", "version: 2\ndecls: []", "unsupported program version 2"},
		{"unbound", "version: 1\ndecls:\n  - {let: v, type: Int, line: 4, expr: {var: w}}", "x.yaml:4: unbound variable w"},
		{"two forms", "version: 1\ndecls:\n  - {let: v, type: Int, expr: {int: 1, bool: true}}", "exactly one form"},
		{"no form", "version: 1\ndecls:\n  - {let: v, type: Int, expr: {line: 3}}", "exactly one form"},
		{"bad type", "version: 1\ndecls:\n  - {let: v, type: Option<>, expr: {int: 1}}", "takes one type argument"},
		{"unknown struct", "version: 1\ndecls:\n  - {scope: S, input: I, output: O}", "unknown struct \"I\""},
		{"arity", "version: 1\ndecls:\n  - {let: v, type: Int, expr: {op: \"+\", args: [{int: 1}]}}", "expects 2 arguments"},
		{"raise type", "version: 1\ndecls:\n  - {let: v, type: Int, expr: {raise: ConflictError}}", "missing type"},
		{"kind", "version: 1\nstructs: [{name: I}]\ndecls:\n  - {scope: S, input: I, output: I, lets: [{kind: nope, var: a, type: Int, expr: {int: 1}}]}",
			"unknown scope binding kind"},
		{"yaml", "version: [", "parsing x.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.src), "x.yaml")
			if err == nil || !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("Decode() error = %v, want it to mention %q", err, tt.msg)
			}
		})
	}
}
