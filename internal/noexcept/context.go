package noexcept

import (
	"github.com/extinctpotato/catala/internal/ast"
	"github.com/extinctpotato/catala/internal/persistent"
	"github.com/extinctpotato/catala/internal/source"
	"github.com/extinctpotato/catala/internal/typesystem"
)

// varInfo describes how a source variable is represented in the target tree.
type varInfo struct {
	target *ast.Var
	// typ is the target type of the variable. It is an option type whenever
	// mayBeAbsent is set.
	typ typesystem.Type
	// mayBeAbsent is set when the target variable holds an option value.
	mayBeAbsent bool
	// isThunk is set for variables whose source type was a thunk. Their
	// option value is passed around as is; only forcing them is hoisted.
	isThunk bool
	// unitValue replaces references to the parameter of a stripped thunk.
	unitValue bool
}

func (i varInfo) ref(pos source.Pos) ast.Expr {
	if i.unitValue {
		return ast.UnitLit(pos)
	}
	return ast.Ref(i.target, i.typ, pos)
}

// Ctx maps source variables to their target representation. Extending a
// context never affects the contexts it was derived from.
type Ctx struct {
	vars *persistent.Map[*ast.Var, varInfo]
}

func EmptyCtx() Ctx {
	return Ctx{vars: persistent.Empty[*ast.Var, varInfo]()}
}

func (c Ctx) extend(src *ast.Var, info varInfo) Ctx {
	return Ctx{vars: c.vars.Put(src, info)}
}

func (c Ctx) lookup(v *ast.Var) (varInfo, bool) {
	return c.vars.Get(v)
}

// present binds src to a target variable holding a plain value of type typ.
// Thunk-typed sources still hold an option, which is how thunks are
// represented after translation.
func (c Ctx) present(src, target *ast.Var, srcType, typ typesystem.Type) Ctx {
	thunk := typesystem.IsThunk(srcType)
	return c.extend(src, varInfo{target: target, typ: typ, mayBeAbsent: thunk, isThunk: thunk})
}

// absent binds src to a target variable holding an option of typ.
func (c Ctx) absent(src, target *ast.Var, optionType typesystem.Type) Ctx {
	return c.extend(src, varInfo{target: target, typ: optionType, mayBeAbsent: true})
}
