package ast

import (
	"fmt"
	"hash/fnv"
	"sync/atomic"

	"github.com/extinctpotato/catala/internal/source"
	"github.com/extinctpotato/catala/internal/typesystem"
)

// Node is the base interface for all expression nodes.
type Node interface {
	Accept(v Visitor)
}

// Expr is a Node that represents an expression. Every expression carries a
// mark with its source position and static type.
type Expr interface {
	Node
	expressionNode()
	GetMark() Mark
}

// Mark is the annotation attached to every expression node.
type Mark struct {
	Pos  source.Pos
	Type typesystem.Type
}

func (m Mark) WithType(t typesystem.Type) Mark {
	m.Type = t
	return m
}

// Var is a binder. Vars are compared by identity; Name, Namespace and Index
// only serve printing. Source vars have an empty namespace and index 0,
// vars produced by a fresh.Generator always carry both.
type Var struct {
	Name      string
	Namespace string
	Index     int

	// id is unique per constructed var and only feeds Hash.
	id uint32
}

var varIDs atomic.Uint32

func NewVar(name string) *Var {
	return &Var{Name: name, id: varIDs.Add(1)}
}

// NewIndexedVar builds a var for a name generator.
func NewIndexedVar(name, namespace string, index int) *Var {
	return &Var{Name: name, Namespace: namespace, Index: index, id: varIDs.Add(1)}
}

func (v *Var) String() string {
	if v == nil {
		return "<nil var>"
	}
	if v.Namespace == "" && v.Index == 0 {
		return v.Name
	}
	return fmt.Sprintf("%s__%s_%d", v.Name, v.Namespace, v.Index)
}

// Hash makes *Var usable as a persistent map key. Vars built as literals
// have no id and fall back to hashing their printed name.
func (v *Var) Hash() uint32 {
	if v.id != 0 {
		return v.id * 2654435761
	}
	h := fnv.New32a()
	h.Write([]byte(v.String()))
	return h.Sum32()
}

// Visitor is implemented by passes that walk every expression kind.
type Visitor interface {
	VisitVar(e *EVar)
	VisitLit(e *ELit)
	VisitOp(e *EOp)
	VisitAbs(e *EAbs)
	VisitApp(e *EApp)
	VisitStruct(e *EStruct)
	VisitStructAccess(e *EStructAccess)
	VisitTuple(e *ETuple)
	VisitTupleAccess(e *ETupleAccess)
	VisitInj(e *EInj)
	VisitMatch(e *EMatch)
	VisitArray(e *EArray)
	VisitIfThenElse(e *EIfThenElse)
	VisitAssert(e *EAssert)
	VisitErrorOnEmpty(e *EErrorOnEmpty)
	VisitDefault(e *EDefault)
	VisitRaise(e *ERaise)
}
