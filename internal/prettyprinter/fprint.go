package prettyprinter

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/extinctpotato/catala/internal/ast"
)

// colorEnabled reports whether keywords written to w should be colored.
func colorEnabled(w io.Writer) bool {
	// NO_COLOR convention: https://no-color.org/
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// Fprint writes prog to w, coloring keywords when w is a terminal.
func Fprint(w io.Writer, prog *ast.Program, width int) error {
	p := NewCodePrinterWithWidth(width)
	p.SetColor(colorEnabled(w))
	p.PrintProgram(prog)
	_, err := io.WriteString(w, p.String())
	return err
}
