// Package irload decodes serialized, type-annotated programs.
//
// A program file is YAML:
//
//	version: 1
//	name: tax
//	file: tax.catala_en
//	structs:
//	  - name: In
//	    fields: [{name: income, type: Money}]
//	decls:
//	  - scope: Compute
//	    input: In
//	    output: Out
//	    lets:
//	      - {kind: destructuring_input_struct, var: income, type: Money,
//	         expr: {field: income, of: {var: input}}}
//	    result: {struct: Out, fields: [{name: tax, value: {var: income}}]}
//
// Every expression is a mapping with exactly one form key (int, var, op,
// default, ...). Types are written as annotations such as
// "(Unit) -> Option<Int>" and are only required where they cannot be
// derived from the children.
package irload

// File is the top-level document.
type File struct {
	Version int        `yaml:"version"`
	Name    string     `yaml:"name"`
	File    string     `yaml:"file,omitempty"`
	Structs []TypeSpec `yaml:"structs,omitempty"`
	Enums   []TypeSpec `yaml:"enums,omitempty"`
	Decls   []DeclSpec `yaml:"decls"`
}

// TypeSpec declares a struct (fields) or an enum (constructors).
type TypeSpec struct {
	Name   string      `yaml:"name"`
	Fields []FieldSpec `yaml:"fields,omitempty"`
	Ctors  []FieldSpec `yaml:"ctors,omitempty"`
}

type FieldSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// DeclSpec is either a scope (Scope set) or a top-level value (Let set).
type DeclSpec struct {
	Scope    string   `yaml:"scope,omitempty"`
	Let      string   `yaml:"let,omitempty"`
	Line     int      `yaml:"line,omitempty"`
	Headings []string `yaml:"headings,omitempty"`

	// Scopes
	InputVar string    `yaml:"input_var,omitempty"`
	Input    string    `yaml:"input,omitempty"`
	Output   string    `yaml:"output,omitempty"`
	Lets     []LetSpec `yaml:"lets,omitempty"`
	Result   *ExprSpec `yaml:"result,omitempty"`

	// Top-level values
	Type string    `yaml:"type,omitempty"`
	Expr *ExprSpec `yaml:"expr,omitempty"`
}

type LetSpec struct {
	Kind string    `yaml:"kind"`
	Var  string    `yaml:"var"`
	Type string    `yaml:"type"`
	Line int       `yaml:"line,omitempty"`
	Expr *ExprSpec `yaml:"expr"`
}

// ExprSpec is one expression. Line and Type may accompany any form.
type ExprSpec struct {
	Line int    `yaml:"line,omitempty"`
	Type string `yaml:"type,omitempty"`

	Unit   bool    `yaml:"unit,omitempty"`
	Bool   *bool   `yaml:"bool,omitempty"`
	Int    *int64  `yaml:"int,omitempty"`
	Money  *int64  `yaml:"money,omitempty"`
	String *string `yaml:"string,omitempty"`
	Empty  string  `yaml:"empty,omitempty"`

	Var string `yaml:"var,omitempty"`

	Op   string      `yaml:"op,omitempty"`
	App  *ExprSpec   `yaml:"app,omitempty"`
	Args []*ExprSpec `yaml:"args,omitempty"`

	Fun  []FieldSpec `yaml:"fun,omitempty"`
	Body *ExprSpec   `yaml:"body,omitempty"`

	Let   string    `yaml:"let,omitempty"`
	Value *ExprSpec `yaml:"value,omitempty"`
	In    *ExprSpec `yaml:"in,omitempty"`

	Struct string           `yaml:"struct,omitempty"`
	Fields []FieldValueSpec `yaml:"fields,omitempty"`
	Field  string           `yaml:"field,omitempty"`
	Of     *ExprSpec        `yaml:"of,omitempty"`

	Tuple []*ExprSpec `yaml:"tuple,omitempty"`
	Index *int        `yaml:"index,omitempty"`

	Inj  string    `yaml:"inj,omitempty"`
	Enum string    `yaml:"enum,omitempty"`
	Arg  *ExprSpec `yaml:"arg,omitempty"`
	Some *ExprSpec `yaml:"some,omitempty"`
	None string    `yaml:"none,omitempty"`

	Match *ExprSpec `yaml:"match,omitempty"`
	Arms  []ArmSpec `yaml:"arms,omitempty"`

	Array []*ExprSpec `yaml:"array,omitempty"`
	Elem  string      `yaml:"elem,omitempty"`

	If   *ExprSpec `yaml:"if,omitempty"`
	Then *ExprSpec `yaml:"then,omitempty"`
	Else *ExprSpec `yaml:"else,omitempty"`

	Assert       *ExprSpec    `yaml:"assert,omitempty"`
	ErrorOnEmpty *ExprSpec    `yaml:"error_on_empty,omitempty"`
	Default      *DefaultSpec `yaml:"default,omitempty"`
	Raise        string       `yaml:"raise,omitempty"`
}

type FieldValueSpec struct {
	Name  string    `yaml:"name"`
	Value *ExprSpec `yaml:"value"`
}

type ArmSpec struct {
	Ctor string    `yaml:"ctor"`
	Var  string    `yaml:"var,omitempty"`
	Body *ExprSpec `yaml:"body"`
}

type DefaultSpec struct {
	Exceptions []*ExprSpec `yaml:"exceptions,omitempty"`
	Just       *ExprSpec   `yaml:"just"`
	Cons       *ExprSpec   `yaml:"cons"`
}
