// Package fresh generates binder names that cannot collide with source names
// or with names produced for other declarations of the same unit.
package fresh

import (
	"fmt"

	"github.com/extinctpotato/catala/internal/ast"
	"github.com/extinctpotato/catala/internal/config"
)

// Generator hands out vars from a monotonic counter private to one
// namespace. Each declaration owns its generator, so translating declarations
// in parallel needs no shared state. A Generator is not safe for concurrent use.
type Generator struct {
	namespace string
	next      int
}

func NewGenerator(namespace string) *Generator {
	return &Generator{namespace: namespace}
}

// ForDecl returns the generator of the index-th declaration of a unit.
func ForDecl(index int) *Generator {
	return NewGenerator(fmt.Sprintf(config.DeclNamespaceFmt, index))
}

// Global returns the generator used for the top-level binders of a unit.
func Global() *Generator {
	return NewGenerator(config.GlobalNamespace)
}

func (g *Generator) Namespace() string { return g.namespace }

// Fresh returns a new var named after base.
func (g *Generator) Fresh(base string) *ast.Var {
	g.next++
	return ast.NewIndexedVar(base, g.namespace, g.next)
}

// Rename returns a fresh var derived from a source binder.
func (g *Generator) Rename(v *ast.Var) *ast.Var {
	return g.Fresh(v.Name)
}
