package diagnostics

import (
	"errors"
	"strings"
	"testing"

	"github.com/extinctpotato/catala/internal/source"
)

func TestCatchConvertsInternalAbort(t *testing.T) {
	pos := source.At("tax.catala_en", 12, 4)
	err := Catch(func() {
		Internal(ErrI003, pos, "placeholder %s bound twice", "x__d0_1")
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	var diag *DiagnosticError
	if !errors.As(err, &diag) {
		t.Fatalf("error %T is not a *DiagnosticError", err)
	}
	if diag.Code != ErrI003 {
		t.Errorf("Code = %s, want %s", diag.Code, ErrI003)
	}
	msg := err.Error()
	for _, want := range []string{"tax.catala_en:12:4", "I003", "x__d0_1"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q does not mention %q", msg, want)
		}
	}
}

func TestCatchPropagatesForeignPanics(t *testing.T) {
	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("recovered %v, want boom", r)
		}
	}()
	_ = Catch(func() { panic("boom") })
	t.Error("foreign panic was swallowed")
}

func TestCatchWithoutPanic(t *testing.T) {
	if err := Catch(func() {}); err != nil {
		t.Errorf("Catch() = %v, want nil", err)
	}
}
