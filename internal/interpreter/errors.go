package interpreter

import (
	"errors"
	"fmt"

	"github.com/extinctpotato/catala/internal/config"
	"github.com/extinctpotato/catala/internal/source"
)

// ErrEmpty is returned when a source expression evaluates to the empty
// value. Translated programs never produce it.
var ErrEmpty = errors.New(config.EmptyErrorName)

// RuntimeError is a fatal runtime condition. Kind is one of the condition
// names in the config package.
type RuntimeError struct {
	Kind    string
	Message string
	Pos     source.Pos
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos.Describe(), e.Kind, e.Message)
}

func newError(kind, message string, pos source.Pos) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: message, Pos: pos}
}

// IsKind reports whether err is a RuntimeError of the given kind.
func IsKind(err error, kind string) bool {
	var rt *RuntimeError
	return errors.As(err, &rt) && rt.Kind == kind
}
