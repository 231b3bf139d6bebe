package noexcept

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/extinctpotato/catala/internal/analyzer"
	"github.com/extinctpotato/catala/internal/ast"
	"github.com/extinctpotato/catala/internal/config"
	"github.com/extinctpotato/catala/internal/diagnostics"
	"github.com/extinctpotato/catala/internal/fresh"
	"github.com/extinctpotato/catala/internal/typesystem"
)

// Pass translates whole programs.
type Pass struct {
	Options *config.Options
	// Tracef, when set, receives one line per translated declaration.
	Tracef func(format string, args ...any)
}

// TranslateProgram translates p with the default options.
func TranslateProgram(ctx context.Context, p *ast.Program, purity *analyzer.Result) (*ast.Program, error) {
	return (&Pass{}).TranslateProgram(ctx, p, purity)
}

// TranslateProgram binds every declaration to a global target variable, then
// translates declarations independently. Each declaration draws its fresh
// names from its own namespace, so the output does not depend on whether
// declarations were translated concurrently. When several declarations fail,
// the error of the first one in program order is returned.
func (ps *Pass) TranslateProgram(ctx context.Context, p *ast.Program, purity *analyzer.Result) (*ast.Program, error) {
	opts := ps.Options
	if opts == nil {
		opts = config.DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var (
		globals Ctx
		targets []*ast.Var
	)
	if err := diagnostics.Catch(func() { globals, targets = bindGlobals(p, purity) }); err != nil {
		return nil, err
	}

	decls := make([]ast.Decl, len(p.Decls))
	errs := make([]error, len(p.Decls))
	translateOne := func(i int) error {
		start := time.Now()
		tr := newTranslator(fresh.ForDecl(i), purity, p.Ctx)
		errs[i] = diagnostics.Catch(func() {
			decls[i] = tr.translateDecl(globals, p.Decls[i], targets[i])
		})
		ps.tracef("decl %d %s -> %s (%s)", i, p.Decls[i].DeclVar(), targets[i], time.Since(start))
		return errs[i]
	}

	if opts.Parallel && len(p.Decls) > 1 {
		var g errgroup.Group
		g.SetLimit(opts.MaxWorkers)
		for i := range p.Decls {
			i := i
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				return translateOne(i)
			})
		}
		_ = g.Wait()
	} else {
		for i := range p.Decls {
			if ctx.Err() != nil || translateOne(i) != nil {
				break
			}
		}
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &ast.Program{Name: p.Name, Ctx: TranslateDeclContext(p.Ctx), Decls: decls}
	if opts.VerifyOutput {
		if err := Verify(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (ps *Pass) tracef(format string, args ...any) {
	if ps.Tracef != nil {
		ps.Tracef(format, args...)
	}
}

// bindGlobals creates the target variable of every declaration, typed from
// the declaration's purity so references can be translated before the
// declaration itself.
func bindGlobals(p *ast.Program, purity *analyzer.Result) (Ctx, []*ast.Var) {
	gen := fresh.Global()
	ctx := EmptyCtx()
	targets := make([]*ast.Var, len(p.Decls))
	for i, d := range p.Decls {
		src := d.DeclVar()
		dp, ok := purity.Decls[src]
		if !ok {
			diagnostics.Internal(diagnostics.ErrI002, d.DeclPos(), "no purity recorded for declaration %s", src)
		}
		var srcType typesystem.Type
		switch d := d.(type) {
		case *ast.ScopeDecl:
			srcType = d.Type()
		case *ast.TopLevelDecl:
			srcType = d.Type
		}
		thunk := typesystem.IsThunk(srcType)
		targets[i] = gen.Rename(src)
		ctx = ctx.extend(src, varInfo{
			target:      targets[i],
			typ:         binderType(dp, srcType),
			mayBeAbsent: dp.MayBeAbsent || thunk,
			isThunk:     thunk,
		})
	}
	return ctx, targets
}

func (t *translator) translateDecl(globals Ctx, d ast.Decl, target *ast.Var) ast.Decl {
	switch d := d.(type) {
	case *ast.ScopeDecl:
		return &ast.ScopeDecl{Pos: d.Pos, Var: target, Body: t.translateScopeBody(globals, d.Body)}
	case *ast.TopLevelDecl:
		var out ast.Expr
		if t.of(d.Expr).MayBeAbsent {
			out = t.translateFull(globals, d.Expr)
		} else {
			out = t.translateValue(globals, d.Expr, "declaration "+d.Var.String())
		}
		return &ast.TopLevelDecl{Pos: d.Pos, Var: target, Type: out.GetMark().Type, Expr: out}
	}
	diagnostics.Internal(diagnostics.ErrI009, d.DeclPos(), "unexpected declaration %T", d)
	return nil
}
