package ast

import (
	"github.com/extinctpotato/catala/internal/source"
	"github.com/extinctpotato/catala/internal/typesystem"
)

type Field struct {
	Name string
	Type typesystem.Type
}

type StructDecl struct {
	Name   string
	Fields []Field
}

func (s *StructDecl) FieldType(name string) (typesystem.Type, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

type Ctor struct {
	Name string
	Type typesystem.Type
}

type EnumDecl struct {
	Name  string
	Ctors []Ctor
}

func (e *EnumDecl) CtorType(name string) (typesystem.Type, bool) {
	for _, c := range e.Ctors {
		if c.Name == name {
			return c.Type, true
		}
	}
	return nil, false
}

// DeclContext lists every struct and enum type of a program. Order lists the
// type names in declaration order so printing and translation are stable.
type DeclContext struct {
	Structs map[string]*StructDecl
	Enums   map[string]*EnumDecl
	Order   []string
}

func NewDeclContext() *DeclContext {
	return &DeclContext{
		Structs: make(map[string]*StructDecl),
		Enums:   make(map[string]*EnumDecl),
	}
}

func (c *DeclContext) AddStruct(s *StructDecl) {
	if _, ok := c.Structs[s.Name]; !ok {
		c.Order = append(c.Order, s.Name)
	}
	c.Structs[s.Name] = s
}

func (c *DeclContext) AddEnum(e *EnumDecl) {
	if _, ok := c.Enums[e.Name]; !ok {
		c.Order = append(c.Order, e.Name)
	}
	c.Enums[e.Name] = e
}

// ScopeLetKind is the structural role of a binding inside a scope body.
type ScopeLetKind int

const (
	ScopeVarDefinition ScopeLetKind = iota
	SubScopeVarDefinition
	DestructuringInputStruct
	CallingSubScope
	DestructuringSubScopeResults
	Assertion
)

func (k ScopeLetKind) String() string {
	switch k {
	case ScopeVarDefinition:
		return "scope_var_definition"
	case SubScopeVarDefinition:
		return "subscope_var_definition"
	case DestructuringInputStruct:
		return "destructuring_input_struct"
	case CallingSubScope:
		return "calling_subscope"
	case DestructuringSubScopeResults:
		return "destructuring_subscope_results"
	case Assertion:
		return "assertion"
	default:
		return "<scope let>"
	}
}

// ScopeLetKindByName is the inverse of ScopeLetKind.String.
func ScopeLetKindByName(name string) (ScopeLetKind, bool) {
	for k := ScopeVarDefinition; k <= Assertion; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}

// ScopeLet is one binding of a scope's sequential let chain.
type ScopeLet struct {
	Pos  source.Pos
	Kind ScopeLetKind
	Var  *Var
	Type typesystem.Type
	Expr Expr
}

// ScopeBody is the body of a scope: a function from its input struct to its
// output struct, written as a let chain ending in Result.
type ScopeBody struct {
	InputVar     *Var
	InputStruct  string
	OutputStruct string
	Lets         []*ScopeLet
	Result       Expr
}

// Decl is a top-level declaration of a program.
type Decl interface {
	declNode()
	DeclVar() *Var
	DeclPos() source.Pos
}

// ScopeDecl binds a scope, callable as a function of its input struct.
type ScopeDecl struct {
	Pos  source.Pos
	Var  *Var
	Body *ScopeBody
}

func (d *ScopeDecl) declNode()           {}
func (d *ScopeDecl) DeclVar() *Var       { return d.Var }
func (d *ScopeDecl) DeclPos() source.Pos { return d.Pos }

// Type is the function type of the scope. After default elimination the
// result may be an option of the output struct.
func (d *ScopeDecl) Type() typesystem.Type {
	var ret typesystem.Type = typesystem.TStruct{Name: d.Body.OutputStruct}
	if d.Body.Result != nil {
		ret = d.Body.Result.GetMark().Type
	}
	return typesystem.TFunc{
		Params:     []typesystem.Type{typesystem.TStruct{Name: d.Body.InputStruct}},
		ReturnType: ret,
	}
}

// TopLevelDecl binds a global value or function.
type TopLevelDecl struct {
	Pos  source.Pos
	Var  *Var
	Type typesystem.Type
	Expr Expr
}

func (d *TopLevelDecl) declNode()           {}
func (d *TopLevelDecl) DeclVar() *Var       { return d.Var }
func (d *TopLevelDecl) DeclPos() source.Pos { return d.Pos }

// Program is one compilation unit.
type Program struct {
	Name  string
	Ctx   *DeclContext
	Decls []Decl
}
