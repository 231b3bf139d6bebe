package analyzer

import (
	"github.com/extinctpotato/catala/internal/ast"
	"github.com/extinctpotato/catala/internal/diagnostics"
	"github.com/extinctpotato/catala/internal/persistent"
	"github.com/extinctpotato/catala/internal/typesystem"
)

// Env maps variables to the purity recorded at their binding site.
type Env = *persistent.Map[*ast.Var, ast.Purity]

func EmptyEnv() Env {
	return persistent.Empty[*ast.Var, ast.Purity]()
}

// maxFixpointRounds bounds the re-analysis of recursive declarations. Both
// flags only ever flip from false to true.
const maxFixpointRounds = 3

type Analyzer struct {
	decls     *ast.DeclContext
	PurityMap ast.PurityMap
}

func New(decls *ast.DeclContext) *Analyzer {
	if decls == nil {
		decls = ast.NewDeclContext()
	}
	return &Analyzer{decls: decls, PurityMap: make(ast.PurityMap)}
}

// AnalyzeExpr annotates a closed expression.
func (a *Analyzer) AnalyzeExpr(e ast.Expr) (p ast.Purity, err error) {
	defer diagnostics.Recover(&err)
	return a.Analyze(EmptyEnv(), e), nil
}

// Analyze annotates e and all its subexpressions under env. Invariant
// violations abort through diagnostics.Internal.
func (a *Analyzer) Analyze(env Env, e ast.Expr) ast.Purity {
	p := a.analyze(env, e)
	// Thunks are the deferred-absence device: forcing one may yield nothing.
	if typesystem.IsThunk(e.GetMark().Type) {
		p.ReturnMayBeAbsent = true
	}
	a.PurityMap[e] = p
	return p
}

func (a *Analyzer) analyze(env Env, e ast.Expr) ast.Purity {
	switch n := e.(type) {
	case *ast.EVar:
		p, ok := env.Get(n.Var)
		if !ok {
			diagnostics.Internal(diagnostics.ErrI005, n.Mark.Pos, "variable %s is not bound", n.Var)
		}
		return p

	case *ast.ELit:
		return ast.Purity{MayBeAbsent: n.IsEmpty()}

	case *ast.EOp, *ast.ERaise:
		return ast.Purity{}

	case *ast.EDefault:
		for _, ex := range n.Exceptions {
			a.checkNotFunction(n, ex)
			a.Analyze(env, ex)
		}
		a.checkNotFunction(n, n.Cons)
		a.Analyze(env, n.Just)
		a.Analyze(env, n.Cons)
		return ast.Purity{MayBeAbsent: true}

	case *ast.EErrorOnEmpty:
		a.Analyze(env, n.Arg)
		return ast.Purity{}

	case *ast.EAbs:
		inner := env
		for i, param := range n.Params {
			inner = inner.Put(param, ast.Purity{ReturnMayBeAbsent: typesystem.IsThunk(paramType(n, i))})
		}
		body := a.Analyze(inner, n.Body)
		a.checkTracked("function result", n.Body, body)
		return ast.Purity{ReturnMayBeAbsent: body.MayBeAbsent}

	case *ast.EApp:
		return a.analyzeApp(env, n)

	case *ast.EMatch:
		p := a.Analyze(env, n.Scrutinee)
		for _, arm := range n.Arms {
			inner := env
			if arm.Var != nil {
				inner = inner.Put(arm.Var, a.payloadPurity(n.Enum, arm.Ctor))
			}
			body := a.Analyze(inner, arm.Body)
			a.checkTracked("match arm", arm.Body, body)
			p.MayBeAbsent = body.MayBeAbsent || p.MayBeAbsent
		}
		return ast.Purity{MayBeAbsent: p.MayBeAbsent}

	default:
		var p ast.Purity
		for _, child := range ast.Children(e) {
			cp := a.Analyze(env, child)
			a.checkTracked("component", child, cp)
			if cp.MayBeAbsent {
				p.MayBeAbsent = true
			}
		}
		return p
	}
}

func (a *Analyzer) analyzeApp(env Env, app *ast.EApp) ast.Purity {
	if inner, ok := app.Fn.(*ast.EApp); ok {
		if _, redex := inner.Fn.(*ast.EAbs); redex {
			diagnostics.Internal(diagnostics.ErrI001, app.Mark.Pos, "operator is itself an unreduced redex")
		}
	}

	if abs, ok := app.Fn.(*ast.EAbs); ok {
		if _, let := app.IsLetRedex(); !let {
			diagnostics.Internal(diagnostics.ErrI001, app.Mark.Pos,
				"abstraction of %d parameters applied to %d arguments", len(abs.Params), len(app.Args))
		}
		arg := a.Analyze(env, app.Args[0])
		inner := env.Put(abs.Params[0], ast.Purity{ReturnMayBeAbsent: arg.ReturnMayBeAbsent})
		body := a.Analyze(inner, abs.Body)
		a.PurityMap[abs] = ast.Purity{ReturnMayBeAbsent: body.MayBeAbsent}
		return ast.Purity{
			MayBeAbsent:       arg.MayBeAbsent || body.MayBeAbsent,
			ReturnMayBeAbsent: body.ReturnMayBeAbsent,
		}
	}

	fn := a.Analyze(env, app.Fn)
	var p ast.Purity
	for _, arg := range app.Args {
		ap := a.Analyze(env, arg)
		a.checkTracked("argument", arg, ap)
		if ap.MayBeAbsent {
			p.MayBeAbsent = true
		}
	}
	if _, ok := app.Fn.(*ast.EOp); ok {
		return p
	}
	p.MayBeAbsent = p.MayBeAbsent || fn.MayBeAbsent || fn.ReturnMayBeAbsent
	return p
}

// payloadPurity is the purity of a match-arm binder: thunked payloads carry
// their absence in their codomain.
func (a *Analyzer) payloadPurity(enum, ctor string) ast.Purity {
	decl, ok := a.decls.Enums[enum]
	if !ok {
		return ast.Purity{}
	}
	t, ok := decl.CtorType(ctor)
	if !ok {
		return ast.Purity{}
	}
	return ast.Purity{ReturnMayBeAbsent: typesystem.IsThunk(t)}
}

func (a *Analyzer) checkNotFunction(def *ast.EDefault, part ast.Expr) {
	if typesystem.IsFunc(part.GetMark().Type) {
		diagnostics.Internal(diagnostics.ErrI007, def.Mark.Pos,
			"default component of type %s; only function results may be absent", part.GetMark().Type)
	}
}

// checkTracked aborts when a function whose result may be absent reaches a
// position where that flag is not kept, such as a call argument or a struct
// field. Only let-bound and declared functions keep it. Thunks carry their
// absence in their translated option type and may appear anywhere.
func (a *Analyzer) checkTracked(where string, e ast.Expr, p ast.Purity) {
	t := e.GetMark().Type
	if !p.ReturnMayBeAbsent || !typesystem.IsFunc(t) || typesystem.IsThunk(t) {
		return
	}
	diagnostics.Internal(diagnostics.ErrI010, e.GetMark().Pos,
		"%s of type %s may return no value; only thunks may carry absence as values", where, t)
}

func paramType(abs *ast.EAbs, i int) typesystem.Type {
	if i < len(abs.ParamTypes) {
		return abs.ParamTypes[i]
	}
	return nil
}

// AnalyzeScopeBody annotates every let of a scope body and returns the
// purity of the scope seen as a function of its input struct.
func (a *Analyzer) AnalyzeScopeBody(env Env, body *ast.ScopeBody) ast.Purity {
	env = env.Put(body.InputVar, ast.Purity{})
	for _, let := range body.Lets {
		env = env.Put(let.Var, a.Analyze(env, let.Expr))
	}
	result := a.Analyze(env, body.Result)
	return ast.Purity{ReturnMayBeAbsent: result.MayBeAbsent}
}
