package noexcept

import (
	"github.com/extinctpotato/catala/internal/analyzer"
	"github.com/extinctpotato/catala/internal/ast"
	"github.com/extinctpotato/catala/internal/config"
	"github.com/extinctpotato/catala/internal/diagnostics"
	"github.com/extinctpotato/catala/internal/fresh"
)

// TranslateExpr translates a closed expression into one of type Option<T>:
// it evaluates to ESome v where e evaluates to v, and to ENone where e is
// empty. decls may be nil when e uses no user-declared enum.
func TranslateExpr(e ast.Expr, decls *ast.DeclContext) (out ast.Expr, err error) {
	defer diagnostics.Recover(&err)

	a := analyzer.New(decls)
	a.Analyze(analyzer.EmptyEnv(), e)
	purity := &analyzer.Result{Exprs: a.PurityMap}

	tr := newTranslator(fresh.NewGenerator(config.ExprNamespace), purity, decls)
	out = tr.translateFull(EmptyCtx(), e)
	if bad := ast.FindDefaultConstruct(out); bad != nil {
		diagnostics.Internal(diagnostics.ErrI008, bad.GetMark().Pos, "%T left in translated expression", bad)
	}
	return out, nil
}
