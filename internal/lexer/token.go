package lexer

type TokenType string

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	IDENT TokenType = "IDENT"

	LT     TokenType = "<"
	GT     TokenType = ">"
	LPAREN TokenType = "("
	RPAREN TokenType = ")"
	COMMA  TokenType = ","
	ARROW  TokenType = "->"
)

// Token is one lexeme of a type annotation. Column is 1-based.
type Token struct {
	Type    TokenType
	Literal string
	Column  int
}
