package prettyprinter

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/extinctpotato/catala/internal/ast"
	"github.com/extinctpotato/catala/internal/config"
	"github.com/extinctpotato/catala/internal/typesystem"
)

// --- Code Printer (Output looks like source code) ---

// Operator precedence (higher = binds tighter)
var operatorPrecedence = map[ast.Operator]int{
	ast.OpOr:  1,
	ast.OpAnd: 2,
	ast.OpEq:  3,
	ast.OpNeq: 3,
	ast.OpLt:  4,
	ast.OpGt:  4,
	ast.OpLte: 4,
	ast.OpGte: 4,
	ast.OpAdd: 7,
	ast.OpSub: 7,
	ast.OpMul: 8,
	ast.OpDiv: 8,
}

const (
	precLowest = 0
	precApp    = 10 // function application
	precAtom   = 11
)

func getPrecedence(op ast.Operator) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return precApp
}

var keywords = map[string]bool{
	"let": true, "in": true, "fun": true, "match": true, "with": true,
	"if": true, "then": true, "else": true, "raise": true, "assert": true,
	"type": true, "scope": true, "error_empty": true,
}

type CodePrinter struct {
	buf       bytes.Buffer
	indent    int
	lineWidth int  // max line width (0 = unlimited)
	column    int  // current column position
	color     bool // emit ANSI colors for keywords
	prec      int  // precedence of the enclosing context
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{lineWidth: config.DefaultLineWidth}
}

func NewCodePrinterWithWidth(width int) *CodePrinter {
	return &CodePrinter{lineWidth: width}
}

func (p *CodePrinter) SetLineWidth(width int) {
	p.lineWidth = width
}

func (p *CodePrinter) SetColor(color bool) {
	p.color = color
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
	// Track column position
	if idx := strings.LastIndex(s, "\n"); idx != -1 {
		p.column = len(s) - idx - 1
	} else {
		p.column += len(s)
	}
}

func (p *CodePrinter) writeln() {
	p.buf.WriteString("\n")
	p.column = 0
	p.writeIndent()
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("  ")
	}
	p.column = p.indent * 2
}

func (p *CodePrinter) keyword(kw string) {
	if p.color && keywords[kw] {
		p.buf.WriteString("\x1b[1;34m")
		p.buf.WriteString(kw)
		p.buf.WriteString("\x1b[0m")
		p.column += len(kw)
		return
	}
	p.write(kw)
}

// fits reports whether e can be printed on the rest of the current line.
func (p *CodePrinter) fits(e ast.Expr) bool {
	if p.lineWidth <= 0 {
		return true
	}
	sub := &CodePrinter{lineWidth: 0}
	sub.printExpr(e, precLowest)
	s := sub.String()
	return !strings.Contains(s, "\n") && p.column+len(s) <= p.lineWidth
}

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(e ast.Expr, parentPrec int) {
	if e == nil {
		p.write("<???>")
		return
	}
	saved := p.prec
	p.prec = parentPrec
	e.Accept(p)
	p.prec = saved
}

func (p *CodePrinter) open(prec int) bool {
	if prec < p.prec {
		p.write("(")
		return true
	}
	return false
}

func (p *CodePrinter) close(opened bool) {
	if opened {
		p.write(")")
	}
}

func (p *CodePrinter) VisitVar(e *ast.EVar) {
	p.write(e.Var.String())
}

func (p *CodePrinter) VisitLit(e *ast.ELit) {
	switch e.Kind {
	case ast.LitUnit:
		p.write("()")
	case ast.LitBool:
		p.write(strconv.FormatBool(e.Bool))
	case ast.LitInt:
		p.write(strconv.FormatInt(e.Int, 10))
	case ast.LitMoney:
		sign, c := "", e.Int
		if c < 0 {
			sign, c = "-", -c
		}
		p.write(fmt.Sprintf("$%s%d.%02d", sign, c/100, c%100))
	case ast.LitString:
		p.write(strconv.Quote(e.Str))
	case ast.LitEmpty:
		p.write("<empty>")
	}
}

func (p *CodePrinter) VisitOp(e *ast.EOp) {
	p.write("(" + e.Op.String() + ")")
}

func (p *CodePrinter) VisitAbs(e *ast.EAbs) {
	opened := p.open(precApp)
	p.keyword("fun")
	for i, v := range e.Params {
		p.write(" (" + v.String())
		if i < len(e.ParamTypes) && e.ParamTypes[i] != nil {
			p.write(": " + e.ParamTypes[i].String())
		}
		p.write(")")
	}
	p.write(" -> ")
	p.printBody(e.Body)
	p.close(opened)
}

// printBody prints e on the current line if it fits, else indented on the
// next one.
func (p *CodePrinter) printBody(e ast.Expr) {
	if p.fits(e) {
		p.printExpr(e, precLowest)
		return
	}
	p.indent++
	p.writeln()
	p.printExpr(e, precLowest)
	p.indent--
}

func (p *CodePrinter) VisitApp(e *ast.EApp) {
	if abs, ok := e.IsLetRedex(); ok {
		p.printLet(abs, e.Args[0])
		return
	}

	if op, ok := e.Fn.(*ast.EOp); ok && op.Op.IsInfix() && len(e.Args) == 2 {
		prec := getPrecedence(op.Op)
		opened := p.open(prec)
		p.printExpr(e.Args[0], prec)
		p.write(" " + op.Op.String() + " ")
		p.printExpr(e.Args[1], prec+1)
		p.close(opened)
		return
	}

	opened := p.open(precApp)
	if op, ok := e.Fn.(*ast.EOp); ok {
		p.write(op.Op.String())
	} else {
		p.printExpr(e.Fn, precApp)
	}
	for _, arg := range e.Args {
		p.write(" ")
		p.printExpr(arg, precAtom)
	}
	p.close(opened)
}

func (p *CodePrinter) printLet(abs *ast.EAbs, value ast.Expr) {
	opened := p.open(precLowest + 1)
	p.keyword("let")
	p.write(" " + abs.Params[0].String())
	if len(abs.ParamTypes) > 0 && abs.ParamTypes[0] != nil {
		p.write(" : " + abs.ParamTypes[0].String())
	}
	p.write(" = ")
	p.printBody(value)
	p.write(" ")
	p.keyword("in")
	p.writeln()
	p.printExpr(abs.Body, precLowest)
	p.close(opened)
}

func (p *CodePrinter) VisitStruct(e *ast.EStruct) {
	p.write(e.Name + " {")
	multiline := !p.fits(e)
	if multiline {
		p.indent++
	}
	for i, f := range e.Fields {
		if multiline {
			p.writeln()
		} else if i > 0 {
			p.write(";")
		}
		if !multiline {
			p.write(" ")
		}
		p.write(f.Name + " = ")
		p.printExpr(f.Value, precLowest)
		if multiline {
			p.write(";")
		}
	}
	if multiline {
		p.indent--
		p.writeln()
	} else {
		p.write(" ")
	}
	p.write("}")
}

func (p *CodePrinter) VisitStructAccess(e *ast.EStructAccess) {
	p.printExpr(e.Struct, precAtom)
	p.write("." + e.Field)
}

func (p *CodePrinter) VisitTuple(e *ast.ETuple) {
	p.write("(")
	p.printList(e.Elements, ", ")
	p.write(")")
}

func (p *CodePrinter) VisitTupleAccess(e *ast.ETupleAccess) {
	p.printExpr(e.Tuple, precAtom)
	p.write("." + strconv.Itoa(e.Index))
}

func (p *CodePrinter) VisitInj(e *ast.EInj) {
	opened := p.open(precApp)
	p.write(e.Ctor + " ")
	p.printExpr(e.Arg, precAtom)
	p.close(opened)
}

func (p *CodePrinter) VisitMatch(e *ast.EMatch) {
	opened := p.open(precLowest + 1)
	p.keyword("match")
	p.write(" ")
	p.printExpr(e.Scrutinee, precLowest)
	p.write(" ")
	p.keyword("with")
	for _, arm := range e.Arms {
		p.writeln()
		p.write("| " + arm.Ctor + " ")
		if arm.Var != nil {
			p.write(arm.Var.String())
		} else {
			p.write("_")
		}
		p.write(" -> ")
		p.indent++
		p.printBody(arm.Body)
		p.indent--
	}
	p.close(opened)
}

func (p *CodePrinter) VisitArray(e *ast.EArray) {
	p.write("[")
	if p.fits(e) {
		p.printList(e.Elements, "; ")
		p.write("]")
		return
	}
	p.indent++
	for _, el := range e.Elements {
		p.writeln()
		p.printExpr(el, precLowest)
		p.write(";")
	}
	p.indent--
	p.writeln()
	p.write("]")
}

func (p *CodePrinter) VisitIfThenElse(e *ast.EIfThenElse) {
	opened := p.open(precLowest + 1)
	p.keyword("if")
	p.write(" ")
	p.printExpr(e.Cond, precLowest)
	p.write(" ")
	p.keyword("then")
	p.write(" ")
	p.printBody(e.Then)
	p.writeln()
	p.keyword("else")
	p.write(" ")
	p.printBody(e.Else)
	p.close(opened)
}

func (p *CodePrinter) VisitAssert(e *ast.EAssert) {
	opened := p.open(precApp)
	p.keyword("assert")
	p.write(" ")
	p.printExpr(e.Arg, precAtom)
	p.close(opened)
}

func (p *CodePrinter) VisitErrorOnEmpty(e *ast.EErrorOnEmpty) {
	opened := p.open(precApp)
	p.keyword("error_empty")
	p.write(" ")
	p.printExpr(e.Arg, precAtom)
	p.close(opened)
}

func (p *CodePrinter) VisitDefault(e *ast.EDefault) {
	p.write("< ")
	p.printList(e.Exceptions, ", ")
	p.write(" | ")
	p.printExpr(e.Just, precLowest)
	p.write(" :- ")
	p.printExpr(e.Cons, precLowest)
	p.write(" >")
}

func (p *CodePrinter) VisitRaise(e *ast.ERaise) {
	opened := p.open(precApp)
	p.keyword("raise")
	p.write(" " + e.Kind.String())
	p.close(opened)
}

func (p *CodePrinter) printList(es []ast.Expr, sep string) {
	for i, e := range es {
		if i > 0 {
			p.write(sep)
		}
		p.printExpr(e, precLowest)
	}
}

// --- Declarations ---

func (p *CodePrinter) printDeclContext(ctx *ast.DeclContext) {
	for _, name := range ctx.Order {
		if s, ok := ctx.Structs[name]; ok {
			p.keyword("type")
			p.write(" " + s.Name + " = {")
			p.indent++
			for _, f := range s.Fields {
				p.writeln()
				p.write(f.Name + ": " + typeString(f.Type) + ";")
			}
			p.indent--
			p.writeln()
			p.write("}")
			p.writeln()
			p.writeln()
		}
		if e, ok := ctx.Enums[name]; ok {
			p.keyword("type")
			p.write(" " + e.Name + " =")
			p.indent++
			for _, c := range e.Ctors {
				p.writeln()
				p.write("| " + c.Name + " of " + typeString(c.Type))
			}
			p.indent--
			p.writeln()
			p.writeln()
		}
	}
}

func (p *CodePrinter) printDecl(d ast.Decl) {
	switch d := d.(type) {
	case *ast.ScopeDecl:
		b := d.Body
		p.keyword("let")
		p.write(" ")
		p.keyword("scope")
		ret, _ := typesystem.ReturnType(d.Type())
		p.write(fmt.Sprintf(" %s (%s: %s) : %s =", d.Var, b.InputVar, b.InputStruct, typeString(ret)))
		p.indent++
		for _, let := range b.Lets {
			p.writeln()
			p.keyword("let")
			p.write(fmt.Sprintf(" %s : %s = ", let.Var, typeString(let.Type)))
			p.printBody(let.Expr)
			p.write(" ")
			p.keyword("in")
			p.write(" (* " + let.Kind.String() + " *)")
		}
		p.writeln()
		p.printExpr(b.Result, precLowest)
		p.indent--
	case *ast.TopLevelDecl:
		p.keyword("let")
		p.write(fmt.Sprintf(" %s : %s =", d.Var, typeString(d.Type)))
		p.indent++
		p.writeln()
		p.printExpr(d.Expr, precLowest)
		p.indent--
	}
	p.writeln()
	p.writeln()
}

// PrintProgram renders a whole program.
func (p *CodePrinter) PrintProgram(prog *ast.Program) {
	if prog.Ctx != nil {
		p.printDeclContext(prog.Ctx)
	}
	for _, d := range prog.Decls {
		p.printDecl(d)
	}
}

func typeString(t typesystem.Type) string {
	if t == nil {
		return "?"
	}
	return t.String()
}

// PrintExpr renders a single expression without colors.
func PrintExpr(e ast.Expr) string {
	p := NewCodePrinter()
	p.printExpr(e, precLowest)
	return p.String()
}

// PrintProgram renders a program without colors.
func PrintProgram(prog *ast.Program) string {
	p := NewCodePrinter()
	p.PrintProgram(prog)
	return p.String()
}
