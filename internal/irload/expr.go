package irload

import (
	"github.com/extinctpotato/catala/internal/ast"
	"github.com/extinctpotato/catala/internal/config"
	"github.com/extinctpotato/catala/internal/source"
	"github.com/extinctpotato/catala/internal/typesystem"
)

// forms lists the form keys set on s.
func forms(s *ExprSpec) []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(s.Unit, "unit")
	add(s.Bool != nil, "bool")
	add(s.Int != nil, "int")
	add(s.Money != nil, "money")
	add(s.String != nil, "string")
	add(s.Empty != "", "empty")
	add(s.Var != "", "var")
	add(s.Op != "", "op")
	add(s.App != nil, "app")
	add(s.Fun != nil, "fun")
	add(s.Let != "", "let")
	add(s.Struct != "", "struct")
	add(s.Field != "", "field")
	add(s.Tuple != nil, "tuple")
	add(s.Index != nil, "index")
	add(s.Inj != "", "inj")
	add(s.Some != nil, "some")
	add(s.None != "", "none")
	add(s.Match != nil, "match")
	add(s.Array != nil || s.Elem != "", "array")
	add(s.If != nil, "if")
	add(s.Assert != nil, "assert")
	add(s.ErrorOnEmpty != nil, "error_on_empty")
	add(s.Default != nil, "default")
	add(s.Raise != "", "raise")
	return out
}

func (d *decoder) expr(scope *env, s *ExprSpec, parent source.Pos) (ast.Expr, error) {
	if s == nil {
		return nil, d.errorf(parent, "missing expression")
	}
	p := at(parent, s.Line)
	fs := forms(s)
	if len(fs) != 1 {
		return nil, d.errorf(p, "expression must have exactly one form, got %v", fs)
	}

	switch fs[0] {
	case "unit":
		return ast.UnitLit(p), nil
	case "bool":
		return ast.BoolLit(*s.Bool, p), nil
	case "int":
		return ast.IntLit(*s.Int, p), nil
	case "money":
		return &ast.ELit{Mark: ast.Mark{Pos: p, Type: typesystem.Money}, Kind: ast.LitMoney, Int: *s.Money}, nil
	case "string":
		return &ast.ELit{Mark: ast.Mark{Pos: p, Type: typesystem.String}, Kind: ast.LitString, Str: *s.String}, nil
	case "empty":
		t, err := d.parseType(p, s.Empty)
		if err != nil {
			return nil, err
		}
		return ast.EmptyLit(t, p), nil

	case "var":
		b, ok := scope.lookup(s.Var)
		if !ok {
			return nil, d.errorf(p, "unbound variable %s", s.Var)
		}
		return ast.Ref(b.v, b.t, p), nil

	case "op":
		return d.operator(scope, s, p)
	case "app":
		return d.application(scope, s, p)
	case "fun":
		return d.function(scope, s, p)
	case "let":
		return d.let(scope, s, p)

	case "struct":
		return d.structLit(scope, s, p)
	case "field":
		return d.fieldAccess(scope, s, p)

	case "tuple":
		elems, err := d.exprs(scope, s.Tuple, p)
		if err != nil {
			return nil, err
		}
		types := make([]typesystem.Type, len(elems))
		for i, e := range elems {
			types[i] = e.GetMark().Type
		}
		return &ast.ETuple{Mark: ast.Mark{Pos: p, Type: typesystem.TTuple{Elements: types}}, Elements: elems}, nil
	case "index":
		tuple, err := d.expr(scope, s.Of, p)
		if err != nil {
			return nil, err
		}
		tt, ok := tuple.GetMark().Type.(typesystem.TTuple)
		if !ok || *s.Index < 0 || *s.Index >= len(tt.Elements) {
			return nil, d.errorf(p, "index %d into %s", *s.Index, tuple.GetMark().Type)
		}
		return &ast.ETupleAccess{Mark: ast.Mark{Pos: p, Type: tt.Elements[*s.Index]}, Tuple: tuple, Index: *s.Index}, nil

	case "inj":
		return d.injection(scope, s, p)
	case "some":
		arg, err := d.expr(scope, s.Some, p)
		if err != nil {
			return nil, err
		}
		return ast.Some(arg, p), nil
	case "none":
		t, err := d.parseType(p, s.None)
		if err != nil {
			return nil, err
		}
		return ast.None(t, p), nil
	case "match":
		return d.match(scope, s, p)

	case "array":
		elems, err := d.exprs(scope, s.Array, p)
		if err != nil {
			return nil, err
		}
		var elem typesystem.Type
		switch {
		case s.Elem != "":
			if elem, err = d.parseType(p, s.Elem); err != nil {
				return nil, err
			}
		case len(elems) > 0:
			elem = elems[0].GetMark().Type
		default:
			return nil, d.errorf(p, "empty array needs an elem type")
		}
		return &ast.EArray{Mark: ast.Mark{Pos: p, Type: typesystem.MakeArray(elem)}, Elements: elems}, nil

	case "if":
		parts, err := d.exprs(scope, []*ExprSpec{s.If, s.Then, s.Else}, p)
		if err != nil {
			return nil, err
		}
		return &ast.EIfThenElse{Mark: ast.Mark{Pos: p, Type: parts[1].GetMark().Type}, Cond: parts[0], Then: parts[1], Else: parts[2]}, nil
	case "assert":
		arg, err := d.expr(scope, s.Assert, p)
		if err != nil {
			return nil, err
		}
		return &ast.EAssert{Mark: ast.Mark{Pos: p, Type: typesystem.Unit}, Arg: arg}, nil
	case "error_on_empty":
		arg, err := d.expr(scope, s.ErrorOnEmpty, p)
		if err != nil {
			return nil, err
		}
		return &ast.EErrorOnEmpty{Mark: ast.Mark{Pos: p, Type: arg.GetMark().Type}, Arg: arg}, nil
	case "default":
		return d.defaultTerm(scope, s, p)

	case "raise":
		var kind ast.RaiseKind
		switch s.Raise {
		case config.NoValueProvidedName:
			kind = ast.RaiseNoValueProvided
		case config.ConflictErrorName:
			kind = ast.RaiseConflict
		default:
			return nil, d.errorf(p, "unknown raise kind %q", s.Raise)
		}
		t, err := d.parseType(p, s.Type)
		if err != nil {
			return nil, err
		}
		return &ast.ERaise{Mark: ast.Mark{Pos: p, Type: t}, Kind: kind}, nil
	}
	return nil, d.errorf(p, "unsupported form %s", fs[0])
}

func (d *decoder) exprs(scope *env, specs []*ExprSpec, p source.Pos) ([]ast.Expr, error) {
	out := make([]ast.Expr, len(specs))
	for i, s := range specs {
		e, err := d.expr(scope, s, p)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// typeOr returns the annotated type of s, or derived when there is none.
func (d *decoder) typeOr(s *ExprSpec, p source.Pos, derived typesystem.Type) (typesystem.Type, error) {
	if s.Type != "" {
		return d.parseType(p, s.Type)
	}
	if derived == nil {
		return nil, d.errorf(p, "cannot derive the type, annotate it")
	}
	return derived, nil
}

func (d *decoder) operator(scope *env, s *ExprSpec, p source.Pos) (ast.Expr, error) {
	op, ok := ast.OperatorByName(s.Op)
	if !ok {
		return nil, d.errorf(p, "unknown operator %q", s.Op)
	}
	args, err := d.exprs(scope, s.Args, p)
	if err != nil {
		return nil, err
	}
	if len(args) != op.Arity() {
		return nil, d.errorf(p, "operator %s expects %d arguments, got %d", op, op.Arity(), len(args))
	}
	params := make([]typesystem.Type, len(args))
	for i, a := range args {
		params[i] = a.GetMark().Type
	}

	var derived typesystem.Type
	switch op {
	case ast.OpNot, ast.OpAnd, ast.OpOr, ast.OpEq, ast.OpNeq, ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		derived = typesystem.Bool
	case ast.OpLength:
		derived = typesystem.Int
	case ast.OpHandleDefaultOpt:
		derived, _ = typesystem.ReturnType(params[2])
	default:
		derived = params[0]
	}
	ret, err := d.typeOr(s, p, derived)
	if err != nil {
		return nil, err
	}
	return &ast.EApp{
		Mark: ast.Mark{Pos: p, Type: ret},
		Fn:   &ast.EOp{Mark: ast.Mark{Pos: p, Type: typesystem.TFunc{Params: params, ReturnType: ret}}, Op: op},
		Args: args,
	}, nil
}

func (d *decoder) application(scope *env, s *ExprSpec, p source.Pos) (ast.Expr, error) {
	fn, err := d.expr(scope, s.App, p)
	if err != nil {
		return nil, err
	}
	args, err := d.exprs(scope, s.Args, p)
	if err != nil {
		return nil, err
	}
	derived, _ := typesystem.ReturnType(fn.GetMark().Type)
	ret, err := d.typeOr(s, p, derived)
	if err != nil {
		return nil, err
	}
	return &ast.EApp{Mark: ast.Mark{Pos: p, Type: ret}, Fn: fn, Args: args}, nil
}

func (d *decoder) function(scope *env, s *ExprSpec, p source.Pos) (ast.Expr, error) {
	if len(s.Fun) == 0 {
		return nil, d.errorf(p, "function without parameters")
	}
	params := make([]*ast.Var, len(s.Fun))
	types := make([]typesystem.Type, len(s.Fun))
	inner := scope
	for i, ps := range s.Fun {
		t, err := d.parseType(p, ps.Type)
		if err != nil {
			return nil, err
		}
		types[i] = t
		params[i], inner = inner.bind(ps.Name, t)
	}
	body, err := d.expr(inner, s.Body, p)
	if err != nil {
		return nil, err
	}
	return &ast.EAbs{
		Mark:       ast.Mark{Pos: p, Type: typesystem.TFunc{Params: types, ReturnType: body.GetMark().Type}},
		Params:     params,
		ParamTypes: types,
		Body:       body,
	}, nil
}

// let decodes {let: x, type: T, value: e, in: body}. The type annotation is
// the binder's and defaults to the value's type.
func (d *decoder) let(scope *env, s *ExprSpec, p source.Pos) (ast.Expr, error) {
	value, err := d.expr(scope, s.Value, p)
	if err != nil {
		return nil, err
	}
	t, err := d.typeOr(s, p, value.GetMark().Type)
	if err != nil {
		return nil, err
	}
	v, inner := scope.bind(s.Let, t)
	body, err := d.expr(inner, s.In, p)
	if err != nil {
		return nil, err
	}
	return ast.Let(v, t, value, body, p), nil
}

func (d *decoder) structLit(scope *env, s *ExprSpec, p source.Pos) (ast.Expr, error) {
	decl, ok := d.ctx.Structs[s.Struct]
	if !ok {
		return nil, d.errorf(p, "unknown struct %s", s.Struct)
	}
	if len(s.Fields) != len(decl.Fields) {
		return nil, d.errorf(p, "struct %s has %d fields, got %d", s.Struct, len(decl.Fields), len(s.Fields))
	}
	fields := make([]*ast.FieldValue, len(s.Fields))
	for i, fs := range s.Fields {
		if _, ok := decl.FieldType(fs.Name); !ok {
			return nil, d.errorf(p, "struct %s has no field %s", s.Struct, fs.Name)
		}
		v, err := d.expr(scope, fs.Value, p)
		if err != nil {
			return nil, err
		}
		fields[i] = &ast.FieldValue{Name: fs.Name, Value: v}
	}
	return &ast.EStruct{Mark: ast.Mark{Pos: p, Type: typesystem.TStruct{Name: s.Struct}}, Name: s.Struct, Fields: fields}, nil
}

func (d *decoder) fieldAccess(scope *env, s *ExprSpec, p source.Pos) (ast.Expr, error) {
	of, err := d.expr(scope, s.Of, p)
	if err != nil {
		return nil, err
	}
	st, ok := of.GetMark().Type.(typesystem.TStruct)
	if !ok {
		return nil, d.errorf(p, "field %s of non-struct %s", s.Field, of.GetMark().Type)
	}
	decl, ok := d.ctx.Structs[st.Name]
	if !ok {
		return nil, d.errorf(p, "unknown struct %s", st.Name)
	}
	ft, ok := decl.FieldType(s.Field)
	if !ok {
		return nil, d.errorf(p, "struct %s has no field %s", st.Name, s.Field)
	}
	return &ast.EStructAccess{Mark: ast.Mark{Pos: p, Type: ft}, Struct: of, Name: st.Name, Field: s.Field}, nil
}

func (d *decoder) injection(scope *env, s *ExprSpec, p source.Pos) (ast.Expr, error) {
	decl, ok := d.ctx.Enums[s.Enum]
	if !ok {
		return nil, d.errorf(p, "unknown enum %q", s.Enum)
	}
	if _, ok := decl.CtorType(s.Inj); !ok {
		return nil, d.errorf(p, "enum %s has no constructor %s", s.Enum, s.Inj)
	}
	var arg ast.Expr = ast.UnitLit(p)
	if s.Arg != nil {
		var err error
		if arg, err = d.expr(scope, s.Arg, p); err != nil {
			return nil, err
		}
	}
	return &ast.EInj{Mark: ast.Mark{Pos: p, Type: typesystem.TEnum{Name: s.Enum}}, Enum: s.Enum, Ctor: s.Inj, Arg: arg}, nil
}

// payloadTypes returns the enum name and constructor payload types of a
// scrutinee type.
func (d *decoder) payloadTypes(t typesystem.Type) (string, map[string]typesystem.Type, bool) {
	if elem, ok := typesystem.OptionElem(t); ok {
		return config.OptionEnumName, map[string]typesystem.Type{
			config.NoneCtorName: typesystem.Unit,
			config.SomeCtorName: elem,
		}, true
	}
	et, ok := t.(typesystem.TEnum)
	if !ok {
		return "", nil, false
	}
	decl, ok := d.ctx.Enums[et.Name]
	if !ok {
		return "", nil, false
	}
	payloads := make(map[string]typesystem.Type, len(decl.Ctors))
	for _, c := range decl.Ctors {
		payloads[c.Name] = c.Type
	}
	return decl.Name, payloads, true
}

func (d *decoder) match(scope *env, s *ExprSpec, p source.Pos) (ast.Expr, error) {
	scrutinee, err := d.expr(scope, s.Match, p)
	if err != nil {
		return nil, err
	}
	enum, payloads, ok := d.payloadTypes(scrutinee.GetMark().Type)
	if !ok {
		return nil, d.errorf(p, "match on non-enum %s", scrutinee.GetMark().Type)
	}
	if len(s.Arms) != len(payloads) {
		return nil, d.errorf(p, "match on %s has %d arms, want %d", enum, len(s.Arms), len(payloads))
	}

	arms := make([]*ast.MatchArm, len(s.Arms))
	seen := make(map[string]bool, len(s.Arms))
	for i, as := range s.Arms {
		pt, ok := payloads[as.Ctor]
		if !ok || seen[as.Ctor] {
			return nil, d.errorf(p, "unexpected arm %s in match on %s", as.Ctor, enum)
		}
		seen[as.Ctor] = true
		arm := &ast.MatchArm{Ctor: as.Ctor}
		inner := scope
		if as.Var != "" {
			arm.Var, inner = scope.bind(as.Var, pt)
		}
		if arm.Body, err = d.expr(inner, as.Body, p); err != nil {
			return nil, err
		}
		arms[i] = arm
	}
	if len(arms) == 0 {
		return nil, d.errorf(p, "match without arms")
	}

	t, err := d.typeOr(s, p, arms[0].Body.GetMark().Type)
	if err != nil {
		return nil, err
	}
	return &ast.EMatch{Mark: ast.Mark{Pos: p, Type: t}, Scrutinee: scrutinee, Enum: enum, Arms: arms}, nil
}

func (d *decoder) defaultTerm(scope *env, s *ExprSpec, p source.Pos) (ast.Expr, error) {
	excs, err := d.exprs(scope, s.Default.Exceptions, p)
	if err != nil {
		return nil, err
	}
	just, err := d.expr(scope, s.Default.Just, p)
	if err != nil {
		return nil, err
	}
	cons, err := d.expr(scope, s.Default.Cons, p)
	if err != nil {
		return nil, err
	}
	return &ast.EDefault{Mark: ast.Mark{Pos: p, Type: cons.GetMark().Type}, Exceptions: excs, Just: just, Cons: cons}, nil
}
