package noexcept

import (
	"github.com/extinctpotato/catala/internal/ast"
	"github.com/extinctpotato/catala/internal/config"
	"github.com/extinctpotato/catala/internal/diagnostics"
	"github.com/extinctpotato/catala/internal/typesystem"
)

// materialize binds every hoist around body. The first hoist discovered
// becomes the outermost match, so hoists are resolved in source order:
//
//	match resolve(h1) with
//	| ENone _ -> ENone ()
//	| ESome h1 -> ... match resolve(hn) with ... | ESome hn -> body
//
// With wrapSome the body is a plain value and is wrapped in ESome; otherwise
// it must already be an option.
func (t *translator) materialize(hs *hoists, body ast.Expr, wrapSome bool) ast.Expr {
	pos := body.GetMark().Pos

	// A lone hoist standing for the whole expression needs no rebinding.
	if wrapSome && hs.Len() == 1 {
		if ref, ok := body.(*ast.EVar); ok && ref.Var == hs.entries[0].v {
			return t.resolve(hs.entries[0])
		}
	}

	acc := body
	if wrapSome {
		acc = ast.Some(body, pos)
	}
	elem, ok := typesystem.OptionElem(acc.GetMark().Type)
	if !ok {
		diagnostics.Internal(diagnostics.ErrI009, pos, "materialized body of type %s is not an option", acc.GetMark().Type)
	}
	for i := hs.Len() - 1; i >= 0; i-- {
		h := hs.entries[i]
		acc = ast.MatchOption(t.resolve(h), ast.None(elem, pos), h.v, acc, pos)
	}
	return acc
}

// resolve produces the option-typed expression a hoist stands for.
func (t *translator) resolve(h *hoist) ast.Expr {
	ctx := h.ctx
	pos := h.expr.GetMark().Pos

	switch n := h.expr.(type) {
	case *ast.EVar:
		info, ok := ctx.lookup(n.Var)
		if !ok {
			diagnostics.Internal(diagnostics.ErrI005, pos, "variable %s is not bound", n.Var)
		}
		return info.ref(pos)

	case *ast.ELit:
		return ast.None(TranslateType(n.Mark.Type), pos)

	case *ast.EDefault:
		return t.resolveDefault(ctx, n)

	case *ast.EApp:
		if abs, ok := n.IsLetRedex(); ok {
			return t.resolveLet(ctx, n, abs)
		}
		return t.resolveApp(ctx, n)

	case *ast.EIfThenElse:
		c, hs := t.translateAndHoist(ctx, n.Cond)
		th := t.translateFull(ctx, n.Then)
		el := t.translateFull(ctx, n.Else)
		cond := &ast.EIfThenElse{Mark: ast.Mark{Pos: pos, Type: th.GetMark().Type}, Cond: c, Then: th, Else: el}
		return t.materialize(hs, cond, false)

	case *ast.EMatch:
		s, hs := t.translateAndHoist(ctx, n.Scrutinee)
		arms := make([]*ast.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			inner, v := t.bindArm(ctx, n, s, arm)
			arms[i] = &ast.MatchArm{Ctor: arm.Ctor, Var: v, Body: t.translateFull(inner, arm.Body)}
		}
		m := &ast.EMatch{
			Mark:      ast.Mark{Pos: pos, Type: typesystem.MakeOption(TranslateType(n.Mark.Type))},
			Scrutinee: s,
			Enum:      n.Enum,
			Arms:      arms,
		}
		return t.materialize(hs, m, false)

	case *ast.EAssert:
		arg := t.translateFull(ctx, n.Arg)
		b := t.fresh.Fresh(config.AssertHoistName)
		unit := typesystem.MakeOption(typesystem.Unit)
		raise := &ast.ERaise{Mark: ast.Mark{Pos: pos, Type: unit}, Kind: ast.RaiseNoValueProvided}
		assert := &ast.EAssert{Mark: ast.Mark{Pos: pos, Type: typesystem.Unit}, Arg: ast.Ref(b, typesystem.Bool, pos)}
		return ast.MatchOption(arg, raise, b, ast.Some(assert, pos), pos)
	}

	diagnostics.Internal(diagnostics.ErrI009, pos, "cannot resolve hoisted %T", h.expr)
	return nil
}

// resolveDefault lowers a default node onto the handle_default_opt
// primitive. Every component is wrapped in a thunk so that exceptions are
// evaluated in order and the justification only when no exception applies.
func (t *translator) resolveDefault(ctx Ctx, d *ast.EDefault) ast.Expr {
	pos := d.Mark.Pos
	elem := TranslateType(d.Mark.Type)
	opt := typesystem.MakeOption(elem)

	thunk := func(e ast.Expr) ast.Expr {
		return ast.Thunk(t.fresh.Fresh(config.ThunkParamName), t.translateFull(ctx, e), e.GetMark().Pos)
	}

	exceptions := make([]ast.Expr, len(d.Exceptions))
	for i, ex := range d.Exceptions {
		exceptions[i] = thunk(ex)
	}
	just := thunk(d.Just)
	cons := thunk(d.Cons)

	excType := typesystem.MakeArray(typesystem.MakeThunk(opt))
	fnType := typesystem.TFunc{
		Params:     []typesystem.Type{excType, just.GetMark().Type, cons.GetMark().Type},
		ReturnType: opt,
	}
	return &ast.EApp{
		Mark: ast.Mark{Pos: pos, Type: opt},
		Fn:   &ast.EOp{Mark: ast.Mark{Pos: pos, Type: fnType}, Op: ast.OpHandleDefaultOpt},
		Args: []ast.Expr{
			&ast.EArray{Mark: ast.Mark{Pos: pos, Type: excType}, Elements: exceptions},
			just,
			cons,
		},
	}
}

// resolveLet evaluates the bound value first; an absent value makes the
// whole let absent.
func (t *translator) resolveLet(ctx Ctx, n *ast.EApp, abs *ast.EAbs) ast.Expr {
	pos := n.Mark.Pos
	arg := t.translateFull(ctx, n.Args[0])
	elem, _ := typesystem.OptionElem(arg.GetMark().Type)
	x := t.fresh.Rename(abs.Params[0])
	inner := ctx.present(abs.Params[0], x, paramType(abs, 0), elem)
	body := t.translateFull(inner, abs.Body)
	bodyElem, _ := typesystem.OptionElem(body.GetMark().Type)
	return ast.MatchOption(arg, ast.None(bodyElem, pos), x, body, pos)
}

// resolveApp evaluates the operator and operands, then applies. A callee
// whose return may be absent already yields an option.
func (t *translator) resolveApp(ctx Ctx, n *ast.EApp) ast.Expr {
	pos := n.Mark.Pos

	if typesystem.IsThunk(n.Fn.GetMark().Type) {
		if ref, ok := n.Fn.(*ast.EVar); ok {
			if info, bound := ctx.lookup(ref.Var); bound && !info.mayBeAbsent {
				diagnostics.Internal(diagnostics.ErrI009, pos, "thunk %s forced but bound to a plain value", ref.Var)
			}
		}
		fn, fh := t.translateAndHoist(ctx, n.Fn)
		return t.materialize(fh, fn, false)
	}

	fn, fh := t.translateAndHoist(ctx, n.Fn)
	args, ah := t.translateAll(ctx, n.Args)
	returnsOption := t.of(n.Fn).ReturnMayBeAbsent
	typ := TranslateType(n.Mark.Type)
	if returnsOption {
		typ = typesystem.MakeOption(typ)
	}
	app := &ast.EApp{Mark: ast.Mark{Pos: pos, Type: typ}, Fn: fn, Args: args}
	return t.materialize(union(fh, ah), app, !returnsOption)
}
