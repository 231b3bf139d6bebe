package config

// Built-in type names
const (
	OptionTypeName = "Option"
	ArrayTypeName  = "Array"
)

// The option enum registered in every translated declaration context.
const (
	OptionEnumName = "eoption"
	NoneCtorName   = "ENone"
	SomeCtorName   = "ESome"
)

// Runtime primitive names
const (
	HandleDefaultOptName = "handle_default_opt"
)

// Runtime conditions raised by translated programs
const (
	NoValueProvidedName     = "NoValueProvided"
	ConflictErrorName       = "ConflictError"
	AssertionFailedName     = "AssertionFailed"
	DivisionByZeroName      = "DivisionByZero"
	IndexOutOfBoundsName    = "IndexOutOfBounds"
	EmptyErrorName          = "EmptyError"
	NoValueProvidedMessage  = "no value provided"
	ConflictErrorMessage    = "conflicting definitions"
	AssertionFailedMessage  = "assertion failed"
	DivisionByZeroMessage   = "division by zero"
	IndexOutOfBoundsMessage = "index out of bounds"
)

// Base names of synthesized binders. Fresh names are derived from these.
const (
	DefaultHoistName   = "default_term"
	EmptyHoistName     = "empty_literal"
	ApplyHoistName     = "app_result"
	AssertHoistName    = "assertion_value"
	LetHoistName       = "let_result"
	CondHoistName      = "cond_result"
	MatchHoistName     = "match_result"
	UnwrappedName      = "unwrapped"
	ScopeInputName     = "input"
	ThunkParamName     = "unit"
	OptionalValueName  = "value"
	GlobalNamespace    = "g"
	ExprNamespace      = "e"
	DeclNamespaceFmt   = "d%d"
	DefaultUnitName    = "main"
	DefaultMaxWorkers  = 4
	DefaultLineWidth   = 100
	ProgramFileVersion = 1
)
