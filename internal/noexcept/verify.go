package noexcept

import (
	"fmt"

	"github.com/extinctpotato/catala/internal/ast"
	"github.com/extinctpotato/catala/internal/diagnostics"
)

// Verify reports the first default construct left in a translated program.
func Verify(p *ast.Program) error {
	for _, d := range p.Decls {
		var exprs []ast.Expr
		switch d := d.(type) {
		case *ast.ScopeDecl:
			for _, let := range d.Body.Lets {
				exprs = append(exprs, let.Expr)
			}
			exprs = append(exprs, d.Body.Result)
		case *ast.TopLevelDecl:
			exprs = append(exprs, d.Expr)
		}
		for _, e := range exprs {
			if bad := ast.FindDefaultConstruct(e); bad != nil {
				return diagnostics.NewError(diagnostics.ErrI008, bad.GetMark().Pos,
					fmt.Sprintf("%T left in declaration %s", bad, d.DeclVar()))
			}
		}
	}
	return nil
}
