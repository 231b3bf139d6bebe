package interpreter

import (
	"fmt"
	"strings"

	"github.com/extinctpotato/catala/internal/ast"
	"github.com/extinctpotato/catala/internal/config"
)

type ObjectType string

const (
	UNIT_OBJ     = "UNIT"
	BOOLEAN_OBJ  = "BOOLEAN"
	INTEGER_OBJ  = "INTEGER"
	MONEY_OBJ    = "MONEY"
	STRING_OBJ   = "STRING"
	TUPLE_OBJ    = "TUPLE"
	ARRAY_OBJ    = "ARRAY"
	STRUCT_OBJ   = "STRUCT"
	ENUM_OBJ     = "ENUM"
	FUNCTION_OBJ = "FUNCTION"
	SCOPE_OBJ    = "SCOPE"
	EMPTY_OBJ    = "EMPTY"
)

type Object interface {
	Type() ObjectType
	Inspect() string
}

type Unit struct{}

func (u *Unit) Type() ObjectType { return UNIT_OBJ }
func (u *Unit) Inspect() string  { return "()" }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return fmt.Sprintf("%t", b.Value) }

type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return fmt.Sprintf("%d", i.Value) }

// Money holds an amount in cents.
type Money struct {
	Cents int64
}

func (m *Money) Type() ObjectType { return MONEY_OBJ }
func (m *Money) Inspect() string {
	sign := ""
	c := m.Cents
	if c < 0 {
		sign, c = "-", -c
	}
	return fmt.Sprintf("$%s%d.%02d", sign, c/100, c%100)
}

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return fmt.Sprintf("%q", s.Value) }

type Tuple struct {
	Elements []Object
}

func (t *Tuple) Type() ObjectType { return TUPLE_OBJ }
func (t *Tuple) Inspect() string  { return "(" + inspectAll(t.Elements) + ")" }

type Array struct {
	Elements []Object
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) Inspect() string  { return "[" + inspectAll(a.Elements) + "]" }

type StructField struct {
	Name  string
	Value Object
}

// Struct keeps its fields in declaration order.
type Struct struct {
	Name   string
	Fields []StructField
}

func (s *Struct) Type() ObjectType { return STRUCT_OBJ }
func (s *Struct) Inspect() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = f.Name + " = " + f.Value.Inspect()
	}
	return s.Name + " { " + strings.Join(parts, "; ") + " }"
}

func (s *Struct) Get(field string) (Object, bool) {
	for _, f := range s.Fields {
		if f.Name == field {
			return f.Value, true
		}
	}
	return nil, false
}

type EnumValue struct {
	Enum    string
	Ctor    string
	Payload Object
}

func (e *EnumValue) Type() ObjectType { return ENUM_OBJ }
func (e *EnumValue) Inspect() string {
	if _, unit := e.Payload.(*Unit); unit || e.Payload == nil {
		return e.Ctor
	}
	return e.Ctor + " " + e.Payload.Inspect()
}

// Function is a closure.
type Function struct {
	Params []*ast.Var
	Body   ast.Expr
	Env    Env
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string  { return fmt.Sprintf("<function/%d>", len(f.Params)) }

// Scope is a scope declaration, called with its input struct.
type Scope struct {
	Name string
	Body *ast.ScopeBody
}

func (s *Scope) Type() ObjectType { return SCOPE_OBJ }
func (s *Scope) Inspect() string  { return "<scope " + s.Name + ">" }

// Empty marks a binder whose value was empty. Reading it is empty again.
type Empty struct{}

func (e *Empty) Type() ObjectType { return EMPTY_OBJ }
func (e *Empty) Inspect() string  { return "<empty>" }

var (
	UNIT  = &Unit{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
	EMPTY = &Empty{}
)

func nativeBool(b bool) *Boolean {
	if b {
		return TRUE
	}
	return FALSE
}

func Some(v Object) *EnumValue {
	return &EnumValue{Enum: config.OptionEnumName, Ctor: config.SomeCtorName, Payload: v}
}

func None() *EnumValue {
	return &EnumValue{Enum: config.OptionEnumName, Ctor: config.NoneCtorName, Payload: UNIT}
}

// AsOption decodes an option value. ok is false when obj is not one.
func AsOption(obj Object) (payload Object, present bool, ok bool) {
	ev, isEnum := obj.(*EnumValue)
	if !isEnum || ev.Enum != config.OptionEnumName {
		return nil, false, false
	}
	switch ev.Ctor {
	case config.SomeCtorName:
		return ev.Payload, true, true
	case config.NoneCtorName:
		return nil, false, true
	}
	return nil, false, false
}

func inspectAll(objs []Object) string {
	parts := make([]string, len(objs))
	for i, o := range objs {
		parts[i] = o.Inspect()
	}
	return strings.Join(parts, ", ")
}

// ObjectsEqual performs a deep equality check between two values.
func ObjectsEqual(a, b Object) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Type() != b.Type() {
		return false
	}

	switch aVal := a.(type) {
	case *Unit:
		return true
	case *Boolean:
		return aVal.Value == b.(*Boolean).Value
	case *Integer:
		return aVal.Value == b.(*Integer).Value
	case *Money:
		return aVal.Cents == b.(*Money).Cents
	case *String:
		return aVal.Value == b.(*String).Value
	case *Tuple:
		return allEqual(aVal.Elements, b.(*Tuple).Elements)
	case *Array:
		return allEqual(aVal.Elements, b.(*Array).Elements)
	case *Struct:
		bVal := b.(*Struct)
		if aVal.Name != bVal.Name || len(aVal.Fields) != len(bVal.Fields) {
			return false
		}
		for i := range aVal.Fields {
			if aVal.Fields[i].Name != bVal.Fields[i].Name || !ObjectsEqual(aVal.Fields[i].Value, bVal.Fields[i].Value) {
				return false
			}
		}
		return true
	case *EnumValue:
		bVal := b.(*EnumValue)
		return aVal.Enum == bVal.Enum && aVal.Ctor == bVal.Ctor && ObjectsEqual(aVal.Payload, bVal.Payload)
	}
	return false
}

func allEqual(as, bs []Object) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !ObjectsEqual(as[i], bs[i]) {
			return false
		}
	}
	return true
}
