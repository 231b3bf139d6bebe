package source

import (
	"fmt"
	"strings"
)

// Pos is a source span. LawHeadings lists the headings of the law text the
// surrounding definition was written under, outermost first. They are carried
// opaquely and only read back when a conflict is reported.
type Pos struct {
	File        string
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
	LawHeadings []string
}

// NoPos is used for synthesized nodes that have no source counterpart.
var NoPos = Pos{}

func At(file string, line, column int) Pos {
	return Pos{File: file, StartLine: line, StartColumn: column, EndLine: line, EndColumn: column}
}

// WithHeadings returns a copy of p attributed to the given law headings.
func (p Pos) WithHeadings(headings ...string) Pos {
	hs := make([]string, 0, len(p.LawHeadings)+len(headings))
	hs = append(hs, p.LawHeadings...)
	hs = append(hs, headings...)
	p.LawHeadings = hs
	return p
}

func (p Pos) IsZero() bool {
	return p.File == "" && p.StartLine == 0 && p.StartColumn == 0
}

func (p Pos) String() string {
	if p.IsZero() {
		return "<no position>"
	}
	file := p.File
	if file == "" {
		file = "<unknown>"
	}
	if p.EndLine > p.StartLine || (p.EndLine == p.StartLine && p.EndColumn > p.StartColumn) {
		return fmt.Sprintf("%s:%d.%d-%d.%d", file, p.StartLine, p.StartColumn, p.EndLine, p.EndColumn)
	}
	return fmt.Sprintf("%s:%d:%d", file, p.StartLine, p.StartColumn)
}

// Describe renders the position followed by its law headings, one per line.
func (p Pos) Describe() string {
	if len(p.LawHeadings) == 0 {
		return p.String()
	}
	var b strings.Builder
	b.WriteString(p.String())
	for _, h := range p.LawHeadings {
		b.WriteString("\n  in ")
		b.WriteString(h)
	}
	return b.String()
}
