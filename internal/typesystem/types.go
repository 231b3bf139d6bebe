package typesystem

import (
	"fmt"
	"strings"

	"github.com/extinctpotato/catala/internal/config"
)

// Type is the interface for all static types carried by expression marks.
type Type interface {
	String() string
	// Map rebuilds the type bottom-up, calling f on every rebuilt component.
	Map(f func(Type) Type) Type
	isType()
}

// TCon represents a literal type constant (e.g. Int, Bool, Unit).
type TCon struct {
	Name string
}

func (t TCon) isType()                    {}
func (t TCon) String() string             { return t.Name }
func (t TCon) Map(f func(Type) Type) Type { return f(t) }

// TApp represents an application of a built-in type constructor
// (Option<T>, Array<T>).
type TApp struct {
	Constructor TCon
	Args        []Type
}

func (t TApp) isType() {}

func (t TApp) String() string {
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = typeString(a)
	}
	return fmt.Sprintf("%s<%s>", t.Constructor.Name, strings.Join(args, ", "))
}

func (t TApp) Map(f func(Type) Type) Type {
	args := make([]Type, len(t.Args))
	for i, a := range t.Args {
		args[i] = mapType(a, f)
	}
	return f(TApp{Constructor: t.Constructor, Args: args})
}

// TTuple represents a tuple type (e.g. (Int, Bool)).
type TTuple struct {
	Elements []Type
}

func (t TTuple) isType() {}

func (t TTuple) String() string {
	elems := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = typeString(e)
	}
	return fmt.Sprintf("(%s)", strings.Join(elems, ", "))
}

func (t TTuple) Map(f func(Type) Type) Type {
	elems := make([]Type, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = mapType(e, f)
	}
	return f(TTuple{Elements: elems})
}

// TStruct refers to a struct declared in the declaration context.
type TStruct struct {
	Name string
}

func (t TStruct) isType()                    {}
func (t TStruct) String() string             { return t.Name }
func (t TStruct) Map(f func(Type) Type) Type { return f(t) }

// TEnum refers to an enum declared in the declaration context.
type TEnum struct {
	Name string
}

func (t TEnum) isType()                    {}
func (t TEnum) String() string             { return t.Name }
func (t TEnum) Map(f func(Type) Type) Type { return f(t) }

// TFunc represents a function type (e.g. (Int, Int) -> Bool).
type TFunc struct {
	Params     []Type
	ReturnType Type
}

func (t TFunc) isType() {}

func (t TFunc) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = typeString(p)
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), typeString(t.ReturnType))
}

func (t TFunc) Map(f func(Type) Type) Type {
	params := make([]Type, len(t.Params))
	for i, p := range t.Params {
		params[i] = mapType(p, f)
	}
	return f(TFunc{Params: params, ReturnType: mapType(t.ReturnType, f)})
}

// TAny is the payload type of polymorphic built-ins such as the option enum.
type TAny struct{}

func (t TAny) isType()                    {}
func (t TAny) String() string             { return "any" }
func (t TAny) Map(f func(Type) Type) Type { return f(t) }

// Built-in literal types.
var (
	Unit     = TCon{Name: "Unit"}
	Bool     = TCon{Name: "Bool"}
	Int      = TCon{Name: "Int"}
	Money    = TCon{Name: "Money"}
	Decimal  = TCon{Name: "Decimal"}
	String   = TCon{Name: "String"}
	Date     = TCon{Name: "Date"}
	Duration = TCon{Name: "Duration"}
)

var (
	optionCon = TCon{Name: config.OptionTypeName}
	arrayCon  = TCon{Name: config.ArrayTypeName}
)

func typeString(t Type) string {
	if t == nil {
		return "?"
	}
	return t.String()
}

func mapType(t Type, f func(Type) Type) Type {
	if t == nil {
		return nil
	}
	return t.Map(f)
}
