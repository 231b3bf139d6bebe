package noexcept

import (
	"github.com/extinctpotato/catala/internal/analyzer"
	"github.com/extinctpotato/catala/internal/ast"
	"github.com/extinctpotato/catala/internal/config"
	"github.com/extinctpotato/catala/internal/diagnostics"
	"github.com/extinctpotato/catala/internal/fresh"
	"github.com/extinctpotato/catala/internal/typesystem"
)

// translator rewrites the expressions of one declaration. It aborts through
// diagnostics.Internal and must run below a Recover boundary.
type translator struct {
	fresh  *fresh.Generator
	purity *analyzer.Result
	decls  *ast.DeclContext
}

func newTranslator(gen *fresh.Generator, purity *analyzer.Result, decls *ast.DeclContext) *translator {
	if decls == nil {
		decls = ast.NewDeclContext()
	}
	return &translator{fresh: gen, purity: purity, decls: decls}
}

func (t *translator) of(e ast.Expr) ast.Purity {
	return t.purity.Of(e)
}

// translateFull translates e into an expression of type Option<T'> where T'
// is the translated type of e: all hoists found in e are materialized here.
func (t *translator) translateFull(ctx Ctx, e ast.Expr) ast.Expr {
	body, hs := t.translateAndHoist(ctx, e)
	return t.materialize(hs, body, true)
}

// translateValue translates e where no absence may occur.
func (t *translator) translateValue(ctx Ctx, e ast.Expr, where string) ast.Expr {
	out, hs := t.translateAndHoist(ctx, e)
	requireEmpty(hs, e, where)
	return out
}

// translateAndHoist translates e in place. Absence-producing subterms are
// replaced by placeholder references and returned as hoists, to be resolved
// by the nearest enclosing materialization.
func (t *translator) translateAndHoist(ctx Ctx, e ast.Expr) (ast.Expr, *hoists) {
	pos := e.GetMark().Pos

	switch n := e.(type) {
	case *ast.EVar:
		info, ok := ctx.lookup(n.Var)
		if !ok {
			diagnostics.Internal(diagnostics.ErrI005, pos, "variable %s is not bound", n.Var)
		}
		if info.mayBeAbsent && !info.isThunk {
			elem, _ := typesystem.OptionElem(info.typ)
			return t.hoist(ctx, e, elem, config.OptionalValueName)
		}
		return info.ref(pos), noHoists()

	case *ast.ELit:
		if n.IsEmpty() {
			return t.hoist(ctx, e, TranslateType(n.Mark.Type), config.EmptyHoistName)
		}
		lit := *n
		return &lit, noHoists()

	case *ast.EOp:
		return &ast.EOp{Mark: n.Mark.WithType(TranslateType(n.Mark.Type)), Op: n.Op}, noHoists()

	case *ast.ERaise:
		return &ast.ERaise{Mark: n.Mark.WithType(TranslateType(n.Mark.Type)), Kind: n.Kind}, noHoists()

	case *ast.EDefault:
		return t.hoist(ctx, e, TranslateType(n.Mark.Type), config.DefaultHoistName)

	case *ast.EErrorOnEmpty:
		arg := t.translateFull(ctx, n.Arg)
		elem := TranslateType(n.Mark.Type)
		x := t.fresh.Fresh(config.UnwrappedName)
		raise := &ast.ERaise{Mark: ast.Mark{Pos: pos, Type: elem}, Kind: ast.RaiseNoValueProvided}
		return ast.MatchOption(arg, raise, x, ast.Ref(x, elem, pos), pos), noHoists()

	case *ast.EAbs:
		return t.translateAbs(ctx, n), noHoists()

	case *ast.EApp:
		return t.translateApp(ctx, n)

	case *ast.EIfThenElse:
		if t.of(n.Then).MayBeAbsent || t.of(n.Else).MayBeAbsent {
			return t.hoistWhole(ctx, e, config.CondHoistName)
		}
		c, ch := t.translateAndHoist(ctx, n.Cond)
		th, thh := t.translateAndHoist(ctx, n.Then)
		el, elh := t.translateAndHoist(ctx, n.Else)
		return &ast.EIfThenElse{Mark: n.Mark.WithType(TranslateType(n.Mark.Type)), Cond: c, Then: th, Else: el},
			union(ch, thh, elh)

	case *ast.EMatch:
		for _, arm := range n.Arms {
			if t.of(arm.Body).MayBeAbsent {
				return t.hoistWhole(ctx, e, config.MatchHoistName)
			}
		}
		s, sh := t.translateAndHoist(ctx, n.Scrutinee)
		arms := make([]*ast.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			inner, v := t.bindArm(ctx, n, s, arm)
			arms[i] = &ast.MatchArm{Ctor: arm.Ctor, Var: v, Body: t.translateValue(inner, arm.Body, "match arm "+arm.Ctor)}
		}
		return &ast.EMatch{Mark: n.Mark.WithType(TranslateType(n.Mark.Type)), Scrutinee: s, Enum: n.Enum, Arms: arms}, sh

	case *ast.EAssert:
		if t.of(n.Arg).MayBeAbsent {
			return t.hoistWhole(ctx, e, config.AssertHoistName)
		}
		arg, hs := t.translateAndHoist(ctx, n.Arg)
		return &ast.EAssert{Mark: n.Mark.WithType(TranslateType(n.Mark.Type)), Arg: arg}, hs

	case *ast.EStruct:
		fields := make([]*ast.FieldValue, len(n.Fields))
		tables := make([]*hoists, len(n.Fields))
		for i, f := range n.Fields {
			v, hs := t.translateAndHoist(ctx, f.Value)
			fields[i] = &ast.FieldValue{Name: f.Name, Value: v}
			tables[i] = hs
		}
		return &ast.EStruct{Mark: n.Mark.WithType(TranslateType(n.Mark.Type)), Name: n.Name, Fields: fields}, union(tables...)

	case *ast.EStructAccess:
		s, hs := t.translateAndHoist(ctx, n.Struct)
		return &ast.EStructAccess{Mark: n.Mark.WithType(TranslateType(n.Mark.Type)), Struct: s, Name: n.Name, Field: n.Field}, hs

	case *ast.ETuple:
		elems, hs := t.translateAll(ctx, n.Elements)
		return &ast.ETuple{Mark: n.Mark.WithType(TranslateType(n.Mark.Type)), Elements: elems}, hs

	case *ast.ETupleAccess:
		tup, hs := t.translateAndHoist(ctx, n.Tuple)
		return &ast.ETupleAccess{Mark: n.Mark.WithType(TranslateType(n.Mark.Type)), Tuple: tup, Index: n.Index}, hs

	case *ast.EInj:
		arg, hs := t.translateAndHoist(ctx, n.Arg)
		return &ast.EInj{Mark: n.Mark.WithType(TranslateType(n.Mark.Type)), Enum: n.Enum, Ctor: n.Ctor, Arg: arg}, hs

	case *ast.EArray:
		elems, hs := t.translateAll(ctx, n.Elements)
		return &ast.EArray{Mark: n.Mark.WithType(TranslateType(n.Mark.Type)), Elements: elems}, hs
	}

	diagnostics.Internal(diagnostics.ErrI009, pos, "unexpected expression %T", e)
	return nil, nil
}

func (t *translator) translateAll(ctx Ctx, es []ast.Expr) ([]ast.Expr, *hoists) {
	out := make([]ast.Expr, len(es))
	tables := make([]*hoists, len(es))
	for i, e := range es {
		out[i], tables[i] = t.translateAndHoist(ctx, e)
	}
	return out, union(tables...)
}

// hoist replaces e by a fresh placeholder of type elem.
func (t *translator) hoist(ctx Ctx, e ast.Expr, elem typesystem.Type, base string) (ast.Expr, *hoists) {
	v := t.fresh.Fresh(base)
	return ast.Ref(v, elem, e.GetMark().Pos), single(&hoist{v: v, expr: e, ctx: ctx})
}

// hoistWhole hoists a composite expression whose value may be absent.
func (t *translator) hoistWhole(ctx Ctx, e ast.Expr, base string) (ast.Expr, *hoists) {
	p := ast.Purity{ReturnMayBeAbsent: t.of(e).ReturnMayBeAbsent}
	return t.hoist(ctx, e, binderType(p, e.GetMark().Type), base)
}

func (t *translator) translateAbs(ctx Ctx, n *ast.EAbs) ast.Expr {
	pos := n.Mark.Pos

	// A thunk is only a deferral device: its translation is the option its
	// body evaluates to.
	if typesystem.IsThunk(n.Mark.Type) && len(n.Params) == 1 {
		inner := ctx.extend(n.Params[0], varInfo{unitValue: true, typ: typesystem.Unit})
		return t.translateFull(inner, n.Body)
	}

	inner := ctx
	params := make([]*ast.Var, len(n.Params))
	types := make([]typesystem.Type, len(n.Params))
	for i, p := range n.Params {
		src := paramType(n, i)
		params[i] = t.fresh.Rename(p)
		types[i] = TranslateType(src)
		inner = inner.present(p, params[i], src, types[i])
	}

	var body ast.Expr
	if t.of(n).ReturnMayBeAbsent {
		body = t.translateFull(inner, n.Body)
	} else {
		body = t.translateValue(inner, n.Body, "function body")
	}
	return &ast.EAbs{
		Mark:       ast.Mark{Pos: pos, Type: typesystem.TFunc{Params: types, ReturnType: body.GetMark().Type}},
		Params:     params,
		ParamTypes: types,
		Body:       body,
	}
}

func (t *translator) translateApp(ctx Ctx, n *ast.EApp) (ast.Expr, *hoists) {
	if abs, ok := n.IsLetRedex(); ok {
		if t.of(n).MayBeAbsent {
			return t.hoistWhole(ctx, n, config.LetHoistName)
		}
		arg, hs := t.translateAndHoist(ctx, n.Args[0])
		x := t.fresh.Rename(abs.Params[0])
		inner := ctx.present(abs.Params[0], x, paramType(abs, 0), arg.GetMark().Type)
		body := t.translateValue(inner, abs.Body, "let body")
		return ast.Let(x, arg.GetMark().Type, arg, body, n.Mark.Pos), hs
	}

	if op, ok := n.Fn.(*ast.EOp); ok {
		if op.Op == ast.OpHandleDefaultOpt {
			return t.translateHandler(ctx, n, op), noHoists()
		}
		fn, fh := t.translateAndHoist(ctx, n.Fn)
		args, ah := t.translateAll(ctx, n.Args)
		return &ast.EApp{Mark: n.Mark.WithType(TranslateType(n.Mark.Type)), Fn: fn, Args: args}, union(fh, ah)
	}

	if t.of(n).MayBeAbsent {
		return t.hoistWhole(ctx, n, config.ApplyHoistName)
	}
	fn, fh := t.translateAndHoist(ctx, n.Fn)
	args, ah := t.translateAll(ctx, n.Args)
	return &ast.EApp{Mark: n.Mark.WithType(TranslateType(n.Mark.Type)), Fn: fn, Args: args}, union(fh, ah)
}

// translateHandler rebuilds a handle_default_opt application found in an
// already translated tree. Its thunk arguments are runtime thunks, not
// deferred absence, and are kept as they are.
func (t *translator) translateHandler(ctx Ctx, n *ast.EApp, op *ast.EOp) ast.Expr {
	keep := func(e ast.Expr) ast.Expr {
		abs, ok := e.(*ast.EAbs)
		if !ok || len(abs.Params) != 1 {
			return t.translateValue(ctx, e, config.HandleDefaultOptName+" argument")
		}
		param := t.fresh.Rename(abs.Params[0])
		inner := ctx.present(abs.Params[0], param, typesystem.Unit, typesystem.Unit)
		body := t.translateValue(inner, abs.Body, config.HandleDefaultOptName+" thunk")
		return ast.Thunk(param, body, abs.Mark.Pos)
	}

	args := make([]ast.Expr, len(n.Args))
	for i, arg := range n.Args {
		if arr, ok := arg.(*ast.EArray); ok {
			elems := make([]ast.Expr, len(arr.Elements))
			for j, e := range arr.Elements {
				elems[j] = keep(e)
			}
			args[i] = &ast.EArray{Mark: arr.Mark, Elements: elems}
			continue
		}
		args[i] = keep(arg)
	}
	return &ast.EApp{Mark: n.Mark, Fn: &ast.EOp{Mark: op.Mark, Op: op.Op}, Args: args}
}

// bindArm binds the payload of a match arm. s is the translated scrutinee.
func (t *translator) bindArm(ctx Ctx, m *ast.EMatch, s ast.Expr, arm *ast.MatchArm) (Ctx, *ast.Var) {
	if arm.Var == nil {
		return ctx, nil
	}
	src := t.payloadType(m.Enum, arm.Ctor, s.GetMark().Type)
	v := t.fresh.Rename(arm.Var)
	return ctx.present(arm.Var, v, src, TranslateType(src)), v
}

// payloadType returns the source payload type of ctor.
func (t *translator) payloadType(enum, ctor string, scrutinee typesystem.Type) typesystem.Type {
	if enum == config.OptionEnumName {
		if ctor == config.SomeCtorName {
			if elem, ok := typesystem.OptionElem(scrutinee); ok {
				return elem
			}
			return typesystem.TAny{}
		}
		return typesystem.Unit
	}
	if decl, ok := t.decls.Enums[enum]; ok {
		if ct, ok := decl.CtorType(ctor); ok {
			return ct
		}
	}
	return typesystem.TAny{}
}

func paramType(abs *ast.EAbs, i int) typesystem.Type {
	if i < len(abs.ParamTypes) {
		return abs.ParamTypes[i]
	}
	return nil
}
