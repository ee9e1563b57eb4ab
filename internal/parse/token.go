// Package parse turns fragment source lines into ir trees. A fragment file
// holds one condition or case fragment per line; // starts a comment.
package parse

import "fmt"

// TokenType represents the type of a lexical token.
type TokenType int

const (
	TokenIdent TokenType = iota
	TokenInt
	TokenString
	TokenAndAnd      // &&
	TokenEq          // ==
	TokenNeq         // !=
	TokenLt          // <
	TokenLte         // <=
	TokenGt          // >
	TokenGte         // >=
	TokenBang        // !
	TokenDot         // .
	TokenQuestionDot // ?.
	TokenMinus       // -
	TokenLParen      // (
	TokenRParen      // )
	TokenLBrace      // {
	TokenRBrace      // }
	TokenColon       // :
	TokenComma       // ,
	TokenEOF
)

func (t TokenType) String() string {
	switch t {
	case TokenIdent:
		return "IDENT"
	case TokenInt:
		return "INT"
	case TokenString:
		return "STRING"
	case TokenAndAnd:
		return "AND"
	case TokenEq:
		return "EQ"
	case TokenNeq:
		return "NEQ"
	case TokenLt:
		return "LT"
	case TokenLte:
		return "LTE"
	case TokenGt:
		return "GT"
	case TokenGte:
		return "GTE"
	case TokenBang:
		return "BANG"
	case TokenDot:
		return "DOT"
	case TokenQuestionDot:
		return "QUESTION_DOT"
	case TokenMinus:
		return "MINUS"
	case TokenLParen:
		return "LPAREN"
	case TokenRParen:
		return "RPAREN"
	case TokenLBrace:
		return "LBRACE"
	case TokenRBrace:
		return "RBRACE"
	case TokenColon:
		return "COLON"
	case TokenComma:
		return "COMMA"
	case TokenEOF:
		return "EOF"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(t))
	}
}

// Token represents one lexical token with its half-open byte range.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
	End   int
}
