package ast

import (
	"github.com/extinctpotato/catala/internal/config"
	"github.com/extinctpotato/catala/internal/typesystem"
)

// EVar is a reference to a bound variable.
type EVar struct {
	Mark Mark
	Var  *Var
}

func (e *EVar) Accept(v Visitor) { v.VisitVar(e) }
func (e *EVar) expressionNode()  {}
func (e *EVar) GetMark() Mark    { return e.Mark }

type LitKind int

const (
	LitUnit LitKind = iota
	LitBool
	LitInt
	LitMoney // Int holds cents
	LitString
	// LitEmpty is the distinguished empty literal. It only exists in source trees.
	LitEmpty
)

// ELit is a literal. Only the field matching Kind is meaningful.
type ELit struct {
	Mark Mark
	Kind LitKind
	Int  int64
	Bool bool
	Str  string
}

func (e *ELit) Accept(v Visitor) { v.VisitLit(e) }
func (e *ELit) expressionNode()  {}
func (e *ELit) GetMark() Mark    { return e.Mark }

func (e *ELit) IsEmpty() bool { return e.Kind == LitEmpty }

// Operator is a primitive applied through EApp.
type Operator int

const (
	OpNot Operator = iota
	OpNeg
	OpAnd
	OpOr
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpLength
	// OpHandleDefaultOpt resolves a default node at runtime. It only appears
	// in translated trees.
	OpHandleDefaultOpt
)

var operatorNames = map[Operator]string{
	OpNot:              "not",
	OpNeg:              "~",
	OpAnd:              "&&",
	OpOr:               "||",
	OpAdd:              "+",
	OpSub:              "-",
	OpMul:              "*",
	OpDiv:              "/",
	OpEq:               "=",
	OpNeq:              "!=",
	OpLt:               "<",
	OpLte:              "<=",
	OpGt:               ">",
	OpGte:              ">=",
	OpLength:           "length",
	OpHandleDefaultOpt: config.HandleDefaultOptName,
}

func (op Operator) String() string {
	if name, ok := operatorNames[op]; ok {
		return name
	}
	return "<op>"
}

// Arity is the number of arguments the operator takes.
func (op Operator) Arity() int {
	switch op {
	case OpNot, OpNeg, OpLength:
		return 1
	case OpHandleDefaultOpt:
		return 3
	default:
		return 2
	}
}

// IsInfix reports whether the printer should place the operator between its operands.
func (op Operator) IsInfix() bool {
	return op.Arity() == 2
}

// OperatorByName returns the operator printed as name.
func OperatorByName(name string) (Operator, bool) {
	for op, n := range operatorNames {
		if n == name {
			return op, true
		}
	}
	return 0, false
}

// EOp is an operator primitive in function position.
type EOp struct {
	Mark Mark
	Op   Operator
}

func (e *EOp) Accept(v Visitor) { v.VisitOp(e) }
func (e *EOp) expressionNode()  {}
func (e *EOp) GetMark() Mark    { return e.Mark }

// EAbs is a lambda abstraction. ParamTypes is parallel to Params.
type EAbs struct {
	Mark       Mark
	Params     []*Var
	ParamTypes []typesystem.Type
	Body       Expr
}

func (e *EAbs) Accept(v Visitor) { v.VisitAbs(e) }
func (e *EAbs) expressionNode()  {}
func (e *EAbs) GetMark() Mark    { return e.Mark }

// EApp is a function application. Arguments are evaluated left to right.
type EApp struct {
	Mark Mark
	Fn   Expr
	Args []Expr
}

func (e *EApp) Accept(v Visitor) { v.VisitApp(e) }
func (e *EApp) expressionNode()  {}
func (e *EApp) GetMark() Mark    { return e.Mark }

// IsLetRedex reports whether e is (fun x -> body) arg, the let-binding form.
func (e *EApp) IsLetRedex() (*EAbs, bool) {
	abs, ok := e.Fn.(*EAbs)
	if !ok || len(abs.Params) != 1 || len(e.Args) != 1 {
		return nil, false
	}
	return abs, true
}

// FieldValue is one field of a struct construction, in declaration order.
type FieldValue struct {
	Name  string
	Value Expr
}

type EStruct struct {
	Mark   Mark
	Name   string
	Fields []*FieldValue
}

func (e *EStruct) Accept(v Visitor) { v.VisitStruct(e) }
func (e *EStruct) expressionNode()  {}
func (e *EStruct) GetMark() Mark    { return e.Mark }

type EStructAccess struct {
	Mark   Mark
	Struct Expr
	Name   string
	Field  string
}

func (e *EStructAccess) Accept(v Visitor) { v.VisitStructAccess(e) }
func (e *EStructAccess) expressionNode()  {}
func (e *EStructAccess) GetMark() Mark    { return e.Mark }

type ETuple struct {
	Mark     Mark
	Elements []Expr
}

func (e *ETuple) Accept(v Visitor) { v.VisitTuple(e) }
func (e *ETuple) expressionNode()  {}
func (e *ETuple) GetMark() Mark    { return e.Mark }

type ETupleAccess struct {
	Mark  Mark
	Tuple Expr
	Index int
}

func (e *ETupleAccess) Accept(v Visitor) { v.VisitTupleAccess(e) }
func (e *ETupleAccess) expressionNode()  {}
func (e *ETupleAccess) GetMark() Mark    { return e.Mark }

// EInj injects a payload into an enum constructor.
type EInj struct {
	Mark Mark
	Enum string
	Ctor string
	Arg  Expr
}

func (e *EInj) Accept(v Visitor) { v.VisitInj(e) }
func (e *EInj) expressionNode()  {}
func (e *EInj) GetMark() Mark    { return e.Mark }

// MatchArm binds the payload of Ctor to Var while evaluating Body.
type MatchArm struct {
	Ctor string
	Var  *Var
	Body Expr
}

type EMatch struct {
	Mark      Mark
	Scrutinee Expr
	Enum      string
	Arms      []*MatchArm
}

func (e *EMatch) Accept(v Visitor) { v.VisitMatch(e) }
func (e *EMatch) expressionNode()  {}
func (e *EMatch) GetMark() Mark    { return e.Mark }

type EArray struct {
	Mark     Mark
	Elements []Expr
}

func (e *EArray) Accept(v Visitor) { v.VisitArray(e) }
func (e *EArray) expressionNode()  {}
func (e *EArray) GetMark() Mark    { return e.Mark }

type EIfThenElse struct {
	Mark Mark
	Cond Expr
	Then Expr
	Else Expr
}

func (e *EIfThenElse) Accept(v Visitor) { v.VisitIfThenElse(e) }
func (e *EIfThenElse) expressionNode()  {}
func (e *EIfThenElse) GetMark() Mark    { return e.Mark }

// EAssert fails at runtime when Arg evaluates to false. It evaluates to unit.
type EAssert struct {
	Mark Mark
	Arg  Expr
}

func (e *EAssert) Accept(v Visitor) { v.VisitAssert(e) }
func (e *EAssert) expressionNode()  {}
func (e *EAssert) GetMark() Mark    { return e.Mark }

// EErrorOnEmpty turns an empty Arg into the fatal "no value provided"
// condition. It only exists in source trees.
type EErrorOnEmpty struct {
	Mark Mark
	Arg  Expr
}

func (e *EErrorOnEmpty) Accept(v Visitor) { v.VisitErrorOnEmpty(e) }
func (e *EErrorOnEmpty) expressionNode()  {}
func (e *EErrorOnEmpty) GetMark() Mark    { return e.Mark }

// EDefault is the default-logic construct: ordered exceptions, a
// justification and a consequence. It only exists in source trees.
type EDefault struct {
	Mark       Mark
	Exceptions []Expr
	Just       Expr
	Cons       Expr
}

func (e *EDefault) Accept(v Visitor) { v.VisitDefault(e) }
func (e *EDefault) expressionNode()  {}
func (e *EDefault) GetMark() Mark    { return e.Mark }

type RaiseKind int

const (
	RaiseNoValueProvided RaiseKind = iota
	RaiseConflict
)

func (k RaiseKind) String() string {
	switch k {
	case RaiseNoValueProvided:
		return config.NoValueProvidedName
	case RaiseConflict:
		return config.ConflictErrorName
	default:
		return "<raise>"
	}
}

// ERaise aborts the program with a runtime condition. It has no handler form.
type ERaise struct {
	Mark Mark
	Kind RaiseKind
}

func (e *ERaise) Accept(v Visitor) { v.VisitRaise(e) }
func (e *ERaise) expressionNode()  {}
func (e *ERaise) GetMark() Mark    { return e.Mark }
