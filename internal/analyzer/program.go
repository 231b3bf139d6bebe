package analyzer

import (
	"github.com/extinctpotato/catala/internal/ast"
	"github.com/extinctpotato/catala/internal/diagnostics"
)

// Result is what the analysis exports to later passes.
type Result struct {
	Exprs ast.PurityMap
	// Decls holds the purity of every top-level binder, keyed by its var.
	Decls map[*ast.Var]ast.Purity
}

// Of returns the annotation of e. A missing entry means the tree given to the
// translator is not the one that was analyzed.
func (r *Result) Of(e ast.Expr) ast.Purity {
	p, ok := r.Exprs[e]
	if !ok {
		diagnostics.Internal(diagnostics.ErrI002, e.GetMark().Pos, "no purity recorded for %T", e)
	}
	return p
}

// AnalyzeProgram annotates every declaration of p in order. Each declaration
// sees the purity of the ones before it and of itself, so recursive function
// declarations are iterated until their return flag is stable.
func AnalyzeProgram(p *ast.Program) (res *Result, err error) {
	defer diagnostics.Recover(&err)

	a := New(p.Ctx)
	res = &Result{Exprs: a.PurityMap, Decls: make(map[*ast.Var]ast.Purity, len(p.Decls))}
	env := EmptyEnv()

	for _, d := range p.Decls {
		var dp ast.Purity
		switch d := d.(type) {
		case *ast.ScopeDecl:
			dp = a.AnalyzeScopeBody(env, d.Body)
		case *ast.TopLevelDecl:
			dp = a.analyzeTopLevel(env, d)
		}
		res.Decls[d.DeclVar()] = dp
		env = env.Put(d.DeclVar(), dp)
	}
	return res, nil
}

func (a *Analyzer) analyzeTopLevel(env Env, d *ast.TopLevelDecl) ast.Purity {
	assumed := ast.Purity{}
	for round := 0; ; round++ {
		p := a.Analyze(env.Put(d.Var, assumed), d.Expr)
		if p == assumed || round == maxFixpointRounds {
			return p
		}
		assumed = p
	}
}
