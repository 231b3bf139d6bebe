package noexcept

import (
	"github.com/extinctpotato/catala/internal/ast"
	"github.com/extinctpotato/catala/internal/diagnostics"
)

// hoist is an absence-producing subexpression lifted out of its position.
// The placeholder v stands for its present value; expr is kept untranslated
// together with the context it was found in, and is resolved when the hoist
// is materialized.
type hoist struct {
	v    *ast.Var
	expr ast.Expr
	ctx  Ctx
}

// hoists is an insertion-ordered set of hoist entries keyed by placeholder.
// The order is the left-to-right discovery order of the source tree.
type hoists struct {
	entries []*hoist
	keys    map[*ast.Var]struct{}
}

func noHoists() *hoists {
	return &hoists{}
}

func single(h *hoist) *hoists {
	return &hoists{entries: []*hoist{h}, keys: map[*ast.Var]struct{}{h.v: {}}}
}

func (h *hoists) Len() int {
	if h == nil {
		return 0
	}
	return len(h.entries)
}

func (h *hoists) isEmpty() bool { return h.Len() == 0 }

// union merges tables in order. Placeholders are fresh, so a collision means
// a hoist was registered twice.
func union(tables ...*hoists) *hoists {
	out := noHoists()
	for _, t := range tables {
		if t.isEmpty() {
			continue
		}
		if out.keys == nil {
			out.keys = make(map[*ast.Var]struct{}, t.Len())
		}
		for _, e := range t.entries {
			if _, dup := out.keys[e.v]; dup {
				diagnostics.Internal(diagnostics.ErrI003, e.expr.GetMark().Pos, "placeholder %s bound twice", e.v)
			}
			out.keys[e.v] = struct{}{}
			out.entries = append(out.entries, e)
		}
	}
	return out
}

// requireEmpty aborts when hoists would escape the binder at e.
func requireEmpty(h *hoists, e ast.Expr, where string) {
	if h.isEmpty() {
		return
	}
	diagnostics.Internal(diagnostics.ErrI006, e.GetMark().Pos,
		"%d hoist(s) starting with %s would escape %s", h.Len(), h.entries[0].v, where)
}
