package ast

// Purity is the may-be-absent annotation of one node.
type Purity struct {
	// MayBeAbsent is set when the node can evaluate to the empty value.
	MayBeAbsent bool
	// ReturnMayBeAbsent is set on function-typed nodes whose result, once
	// applied, can be empty. Absence never flows through a function value
	// itself, only through its codomain.
	ReturnMayBeAbsent bool
}

// PurityMap is the side table filled by the purity analysis. The annotated
// tree itself is never mutated.
type PurityMap map[Expr]Purity
