package noexcept

import (
	"github.com/extinctpotato/catala/internal/ast"
	"github.com/extinctpotato/catala/internal/diagnostics"
	"github.com/extinctpotato/catala/internal/typesystem"
)

// translateStandalone translates the right-hand side of a binder. Hoists
// never cross a binder: an expression that may be absent is materialized
// into an option here, and the bound variable is marked accordingly.
func (t *translator) translateStandalone(ctx Ctx, src *ast.Var, e ast.Expr) (ast.Expr, *ast.Var, Ctx) {
	target := t.fresh.Rename(src)
	if t.of(e).MayBeAbsent {
		out := t.translateFull(ctx, e)
		return out, target, ctx.absent(src, target, out.GetMark().Type)
	}
	out := t.translateValue(ctx, e, "binding of "+src.String())
	return out, target, ctx.present(src, target, e.GetMark().Type, out.GetMark().Type)
}

// translateScopeLet checks the shape of one scope binding against its kind
// and translates it.
func (t *translator) translateScopeLet(ctx Ctx, let *ast.ScopeLet) (*ast.ScopeLet, Ctx) {
	unexpected := func() {
		diagnostics.Internal(diagnostics.ErrI004, let.Pos,
			"%s binding of %s has unexpected right-hand side %T", let.Kind, let.Var, let.Expr)
	}

	switch let.Kind {
	case ast.ScopeVarDefinition:
		if isThunkAbs(let.Expr) {
			unexpected()
		}

	case ast.SubScopeVarDefinition:
		if abs, ok := let.Expr.(*ast.EAbs); ok && isThunkAbs(abs) {
			// Caller-overridable input: the thunk is stripped and the
			// variable holds the option its body evaluates to.
			target := t.fresh.Rename(let.Var)
			inner := ctx.extend(abs.Params[0], varInfo{unitValue: true, typ: typesystem.Unit})
			out := t.translateFull(inner, abs.Body)
			info := varInfo{target: target, typ: out.GetMark().Type, mayBeAbsent: true, isThunk: true}
			return t.scopeLet(let, target, out), ctx.extend(let.Var, info)
		}
		if _, ok := let.Expr.(*ast.EErrorOnEmpty); !ok && !isTranslatedForm(let.Expr) {
			unexpected()
		}

	case ast.DestructuringInputStruct:
		access, ok := let.Expr.(*ast.EStructAccess)
		if !ok {
			unexpected()
		}
		out := t.translateValue(ctx, access, "input destructuring")
		target := t.fresh.Rename(let.Var)
		return t.scopeLet(let, target, out), ctx.present(let.Var, target, let.Type, out.GetMark().Type)

	case ast.CallingSubScope:
		app, ok := let.Expr.(*ast.EApp)
		if !ok {
			unexpected()
		}
		if _, ok := app.Fn.(*ast.EVar); !ok {
			unexpected()
		}

	case ast.DestructuringSubScopeResults:
		if _, ok := let.Expr.(*ast.EStructAccess); !ok && !isTranslatedForm(let.Expr) {
			unexpected()
		}

	case ast.Assertion:
		if _, ok := let.Expr.(*ast.EAssert); !ok && !isTranslatedForm(let.Expr) {
			unexpected()
		}

	default:
		unexpected()
	}

	out, target, next := t.translateStandalone(ctx, let.Var, let.Expr)
	return t.scopeLet(let, target, out), next
}

func (t *translator) scopeLet(src *ast.ScopeLet, target *ast.Var, out ast.Expr) *ast.ScopeLet {
	return &ast.ScopeLet{Pos: src.Pos, Kind: src.Kind, Var: target, Type: out.GetMark().Type, Expr: out}
}

// translateScopeBody threads the context through the let chain. The result
// is an option of the output struct when the scope may not produce it.
func (t *translator) translateScopeBody(ctx Ctx, body *ast.ScopeBody) *ast.ScopeBody {
	input := t.fresh.Rename(body.InputVar)
	inType := typesystem.TStruct{Name: body.InputStruct}
	ctx = ctx.present(body.InputVar, input, inType, inType)

	lets := make([]*ast.ScopeLet, len(body.Lets))
	for i, let := range body.Lets {
		lets[i], ctx = t.translateScopeLet(ctx, let)
	}

	var result ast.Expr
	if t.of(body.Result).MayBeAbsent {
		result = t.translateFull(ctx, body.Result)
	} else {
		result = t.translateValue(ctx, body.Result, "scope result")
	}
	return &ast.ScopeBody{
		InputVar:     input,
		InputStruct:  body.InputStruct,
		OutputStruct: body.OutputStruct,
		Lets:         lets,
		Result:       result,
	}
}

func isThunkAbs(e ast.Expr) bool {
	abs, ok := e.(*ast.EAbs)
	return ok && len(abs.Params) == 1 && typesystem.IsThunk(abs.Mark.Type)
}

// isTranslatedForm accepts the option-typed, default-free right-hand sides
// this pass itself produces, so translated programs can be translated again.
func isTranslatedForm(e ast.Expr) bool {
	if _, ok := typesystem.OptionElem(e.GetMark().Type); !ok {
		return false
	}
	return ast.FindDefaultConstruct(e) == nil
}
