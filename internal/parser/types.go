// Package parser reads the type annotations of serialized programs.
//
//	type   := atom [ "->" type ]
//	atom   := Name [ "<" type { "," type } ">" ]
//	        | "(" [ type { "," type } ] ")"
//
// A parenthesized list followed by an arrow is a parameter list; otherwise a
// single element is grouping and several are a tuple.
package parser

import (
	"fmt"

	"github.com/extinctpotato/catala/internal/config"
	"github.com/extinctpotato/catala/internal/lexer"
	"github.com/extinctpotato/catala/internal/typesystem"
)

// Resolver maps a user type name to its struct or enum type.
type Resolver func(name string) (typesystem.Type, bool)

type Parser struct {
	l       *lexer.Lexer
	resolve Resolver

	curToken  lexer.Token
	peekToken lexer.Token
	errors    []string
}

func New(input string, resolve Resolver) *Parser {
	p := &Parser{l: lexer.New(input), resolve: resolve}
	p.nextToken()
	p.nextToken()
	return p
}

// ParseType parses a complete annotation.
func ParseType(input string, resolve Resolver) (typesystem.Type, error) {
	p := New(input, resolve)
	t := p.parseType()
	if t != nil && !p.peekTokenIs(lexer.EOF) {
		p.errorf(p.peekToken, "unexpected %q after type", p.peekToken.Literal)
	}
	if len(p.errors) > 0 {
		return nil, fmt.Errorf("type %q: %s", input, p.errors[0])
	}
	return t, nil
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorf(p.peekToken, "expected %s, got %q", t, p.peekToken.Literal)
	return false
}

func (p *Parser) errorf(tok lexer.Token, format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf("column %d: ", tok.Column)+fmt.Sprintf(format, args...))
}

func (p *Parser) parseType() typesystem.Type {
	var params []typesystem.Type
	var t typesystem.Type
	if p.curTokenIs(lexer.LPAREN) {
		list, ok := p.parseTypeList(lexer.RPAREN)
		if !ok {
			return nil
		}
		if p.peekTokenIs(lexer.ARROW) {
			params = list
		} else {
			switch len(list) {
			case 0:
				return typesystem.Unit
			case 1:
				return list[0]
			default:
				return typesystem.TTuple{Elements: list}
			}
		}
	} else {
		t = p.parseNamedType()
		if t == nil {
			return nil
		}
		params = []typesystem.Type{t}
	}

	if !p.peekTokenIs(lexer.ARROW) {
		return t
	}
	p.nextToken() // consume '->'
	p.nextToken()
	ret := p.parseType()
	if ret == nil {
		return nil
	}
	return typesystem.TFunc{Params: params, ReturnType: ret}
}

// parseTypeList parses "( t, ... )" with curToken on the opening token and
// leaves curToken on the closing one.
func (p *Parser) parseTypeList(end lexer.TokenType) ([]typesystem.Type, bool) {
	var list []typesystem.Type
	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}
	for {
		p.nextToken()
		t := p.parseType()
		if t == nil {
			return nil, false
		}
		list = append(list, t)
		if !p.peekTokenIs(lexer.COMMA) {
			break
		}
		p.nextToken() // consume ','
	}
	if !p.expectPeek(end) {
		return nil, false
	}
	return list, true
}

func (p *Parser) parseNamedType() typesystem.Type {
	if !p.curTokenIs(lexer.IDENT) {
		p.errorf(p.curToken, "expected a type, got %q", p.curToken.Literal)
		return nil
	}
	name := p.curToken

	if p.peekTokenIs(lexer.LT) {
		p.nextToken()
		args, ok := p.parseTypeList(lexer.GT)
		if !ok {
			return nil
		}
		if len(args) != 1 {
			p.errorf(name, "%s takes one type argument, got %d", name.Literal, len(args))
			return nil
		}
		switch name.Literal {
		case config.OptionTypeName:
			return typesystem.MakeOption(args[0])
		case config.ArrayTypeName:
			return typesystem.MakeArray(args[0])
		}
		p.errorf(name, "unknown type constructor %s", name.Literal)
		return nil
	}

	if t, ok := builtins[name.Literal]; ok {
		return t
	}
	if p.resolve != nil {
		if t, ok := p.resolve(name.Literal); ok {
			return t
		}
	}
	p.errorf(name, "unknown type %s", name.Literal)
	return nil
}

var builtins = map[string]typesystem.Type{
	typesystem.Unit.Name:     typesystem.Unit,
	typesystem.Bool.Name:     typesystem.Bool,
	typesystem.Int.Name:      typesystem.Int,
	typesystem.Money.Name:    typesystem.Money,
	typesystem.Decimal.Name:  typesystem.Decimal,
	typesystem.String.Name:   typesystem.String,
	typesystem.Date.Name:     typesystem.Date,
	typesystem.Duration.Name: typesystem.Duration,
	"any":                    typesystem.TAny{},
}
