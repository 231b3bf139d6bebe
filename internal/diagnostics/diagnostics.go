package diagnostics

import (
	"fmt"

	"github.com/extinctpotato/catala/internal/source"
)

type ErrorCode string

// Internal invariant violations. Each one points at a bug in an earlier
// stage or in the default-elimination pass, never at user input.
const (
	ErrI001 ErrorCode = "I001" // unresolved redex of a disallowed shape
	ErrI002 ErrorCode = "I002" // missing purity annotation
	ErrI003 ErrorCode = "I003" // two hoist tables share a placeholder
	ErrI004 ErrorCode = "I004" // scope-let binder kind paired with an unexpected right-hand side
	ErrI005 ErrorCode = "I005" // unbound variable
	ErrI006 ErrorCode = "I006" // hoist escaping the binder it depends on
	ErrI007 ErrorCode = "I007" // function-typed default component
	ErrI008 ErrorCode = "I008" // default construct left in the output
	ErrI009 ErrorCode = "I009" // malformed application
	ErrI010 ErrorCode = "I010" // absent-returning function stored or passed as a plain value
)

var descriptions = map[ErrorCode]string{
	ErrI001: "unresolved redex",
	ErrI002: "missing purity annotation",
	ErrI003: "hoist table collision",
	ErrI004: "unexpected scope binding shape",
	ErrI005: "unbound variable",
	ErrI006: "escaping hoist",
	ErrI007: "function-typed default component",
	ErrI008: "residual default construct",
	ErrI009: "malformed application",
	ErrI010: "untracked function result absence",
}

func (c ErrorCode) Description() string {
	if d, ok := descriptions[c]; ok {
		return d
	}
	return "internal error"
}

// DiagnosticError is an error attached to a source position.
type DiagnosticError struct {
	Code    ErrorCode
	Pos     source.Pos
	Message string
}

func NewError(code ErrorCode, pos source.Pos, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, Pos: pos, Message: message}
}

func (e *DiagnosticError) Error() string {
	return fmt.Sprintf("%s: internal error [%s %s]: %s", e.Pos, e.Code, e.Code.Description(), e.Message)
}

// internalAbort is the panic payload used to unwind a compilation unit.
type internalAbort struct {
	err *DiagnosticError
}

// Internal aborts the current compilation unit. It must only be called
// below a Recover boundary.
func Internal(code ErrorCode, pos source.Pos, format string, args ...any) {
	panic(internalAbort{err: NewError(code, pos, fmt.Sprintf(format, args...))})
}

// Recover turns an abort raised by Internal into *errp. Any other panic is
// propagated unchanged. Use as: defer diagnostics.Recover(&err).
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	abort, ok := r.(internalAbort)
	if !ok {
		panic(r)
	}
	*errp = abort.err
}

// Catch runs f under a Recover boundary.
func Catch(f func()) (err error) {
	defer Recover(&err)
	f()
	return nil
}
