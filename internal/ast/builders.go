package ast

import (
	"github.com/extinctpotato/catala/internal/config"
	"github.com/extinctpotato/catala/internal/source"
	"github.com/extinctpotato/catala/internal/typesystem"
)

func UnitLit(pos source.Pos) *ELit {
	return &ELit{Mark: Mark{Pos: pos, Type: typesystem.Unit}, Kind: LitUnit}
}

func BoolLit(b bool, pos source.Pos) *ELit {
	return &ELit{Mark: Mark{Pos: pos, Type: typesystem.Bool}, Kind: LitBool, Bool: b}
}

func IntLit(n int64, pos source.Pos) *ELit {
	return &ELit{Mark: Mark{Pos: pos, Type: typesystem.Int}, Kind: LitInt, Int: n}
}

func EmptyLit(t typesystem.Type, pos source.Pos) *ELit {
	return &ELit{Mark: Mark{Pos: pos, Type: t}, Kind: LitEmpty}
}

func Ref(v *Var, t typesystem.Type, pos source.Pos) *EVar {
	return &EVar{Mark: Mark{Pos: pos, Type: t}, Var: v}
}

// Some injects e into the present case of the option enum.
func Some(e Expr, pos source.Pos) *EInj {
	return &EInj{
		Mark: Mark{Pos: pos, Type: typesystem.MakeOption(e.GetMark().Type)},
		Enum: config.OptionEnumName,
		Ctor: config.SomeCtorName,
		Arg:  e,
	}
}

// None builds the absent case of Option<elem>.
func None(elem typesystem.Type, pos source.Pos) *EInj {
	return &EInj{
		Mark: Mark{Pos: pos, Type: typesystem.MakeOption(elem)},
		Enum: config.OptionEnumName,
		Ctor: config.NoneCtorName,
		Arg:  UnitLit(pos),
	}
}

// MatchOption builds
//
//	match scrutinee with
//	| ENone _ -> none
//	| ESome v -> some
//
// typed as the type of some.
func MatchOption(scrutinee, none Expr, v *Var, some Expr, pos source.Pos) *EMatch {
	return &EMatch{
		Mark:      Mark{Pos: pos, Type: some.GetMark().Type},
		Scrutinee: scrutinee,
		Enum:      config.OptionEnumName,
		Arms: []*MatchArm{
			{Ctor: config.NoneCtorName, Body: none},
			{Ctor: config.SomeCtorName, Var: v, Body: some},
		},
	}
}

// Thunk wraps body in a unit-parameter abstraction.
func Thunk(param *Var, body Expr, pos source.Pos) *EAbs {
	return &EAbs{
		Mark:       Mark{Pos: pos, Type: typesystem.MakeThunk(body.GetMark().Type)},
		Params:     []*Var{param},
		ParamTypes: []typesystem.Type{typesystem.Unit},
		Body:       body,
	}
}

// Let builds the let-binding form (fun v -> body) value.
func Let(v *Var, t typesystem.Type, value, body Expr, pos source.Pos) *EApp {
	abs := &EAbs{
		Mark:       Mark{Pos: pos, Type: typesystem.TFunc{Params: []typesystem.Type{t}, ReturnType: body.GetMark().Type}},
		Params:     []*Var{v},
		ParamTypes: []typesystem.Type{t},
		Body:       body,
	}
	return &EApp{Mark: Mark{Pos: pos, Type: body.GetMark().Type}, Fn: abs, Args: []Expr{value}}
}

// OptionEnum is the enum declaration registered for translated programs.
func OptionEnum() *EnumDecl {
	return &EnumDecl{
		Name: config.OptionEnumName,
		Ctors: []Ctor{
			{Name: config.NoneCtorName, Type: typesystem.Unit},
			{Name: config.SomeCtorName, Type: typesystem.TAny{}},
		},
	}
}
