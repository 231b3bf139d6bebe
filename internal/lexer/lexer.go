// Package lexer splits the type annotations of serialized programs into
// tokens, e.g. "(Unit) -> Option<Int>".
package lexer

import (
	"unicode"
	"unicode/utf8"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) NextToken() Token {
	var tok Token

	l.skipWhitespace()

	switch l.ch {
	case '<':
		tok = newToken(LT, l.ch, l.column)
	case '>':
		tok = newToken(GT, l.ch, l.column)
	case '(':
		tok = newToken(LPAREN, l.ch, l.column)
	case ')':
		tok = newToken(RPAREN, l.ch, l.column)
	case ',':
		tok = newToken(COMMA, l.ch, l.column)
	case '-':
		if l.peekChar() == '>' {
			col := l.column
			l.readChar()
			tok = Token{Type: ARROW, Literal: "->", Column: col}
		} else {
			tok = newToken(ILLEGAL, l.ch, l.column)
		}
	case 0:
		tok = Token{Type: EOF, Column: l.column}
		return tok
	default:
		if isLetter(l.ch) {
			col := l.column
			return Token{Type: IDENT, Literal: l.readIdentifier(), Column: col}
		}
		tok = newToken(ILLEGAL, l.ch, l.column)
	}

	l.readChar()
	return tok
}

// Tokens lexes the whole input, EOF included.
func (l *Lexer) Tokens() []Token {
	var out []Token
	for {
		tok := l.NextToken()
		out = append(out, tok)
		if tok.Type == EOF {
			return out
		}
	}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || (ch >= 0x80 && unicode.IsLetter(ch))
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func newToken(tokenType TokenType, ch rune, col int) Token {
	return Token{Type: tokenType, Literal: string(ch), Column: col}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
		l.readChar()
	}
}
