package parse

import (
	"errors"
	"fmt"
)

// ErrUnterminatedString is returned when a string literal is missing its
// closing quote.
var ErrUnterminatedString = errors.New("unterminated string literal")

// Lexer tokenizes one fragment line.
type Lexer struct {
	input    string
	position int
	tokens   []Token
}

// NewLexer creates a lexer over the given fragment source.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize scans the input and returns its tokens, ending with an EOF
// token. A // comment runs to the end of the input.
func (l *Lexer) Tokenize() ([]Token, error) {
	for l.position < len(l.input) {
		ch := l.input[l.position]
		switch {
		case ch == ' ' || ch == '\t':
			l.position++
		case ch == '/' && l.peekAt(1) == '/':
			l.position = len(l.input)
		case ch == '&' && l.peekAt(1) == '&':
			l.addToken(TokenAndAnd, "&&", 2)
		case ch == '=' && l.peekAt(1) == '=':
			l.addToken(TokenEq, "==", 2)
		case ch == '!' && l.peekAt(1) == '=':
			l.addToken(TokenNeq, "!=", 2)
		case ch == '<' && l.peekAt(1) == '=':
			l.addToken(TokenLte, "<=", 2)
		case ch == '>' && l.peekAt(1) == '=':
			l.addToken(TokenGte, ">=", 2)
		case ch == '?' && l.peekAt(1) == '.':
			l.addToken(TokenQuestionDot, "?.", 2)
		case ch == '<':
			l.addToken(TokenLt, "<", 1)
		case ch == '>':
			l.addToken(TokenGt, ">", 1)
		case ch == '!':
			l.addToken(TokenBang, "!", 1)
		case ch == '.':
			l.addToken(TokenDot, ".", 1)
		case ch == '-':
			l.addToken(TokenMinus, "-", 1)
		case ch == '(':
			l.addToken(TokenLParen, "(", 1)
		case ch == ')':
			l.addToken(TokenRParen, ")", 1)
		case ch == '{':
			l.addToken(TokenLBrace, "{", 1)
		case ch == '}':
			l.addToken(TokenRBrace, "}", 1)
		case ch == ':':
			l.addToken(TokenColon, ":", 1)
		case ch == ',':
			l.addToken(TokenComma, ",", 1)
		case ch == '"':
			if err := l.lexString(); err != nil {
				return nil, err
			}
		case isDigit(ch):
			l.lexNumber()
		case isIdentStart(ch):
			l.lexIdent()
		default:
			return nil, fmt.Errorf("unexpected character %q at offset %d", ch, l.position)
		}
	}
	l.tokens = append(l.tokens, Token{Type: TokenEOF, Pos: len(l.input), End: len(l.input)})
	return l.tokens, nil
}

func (l *Lexer) addToken(t TokenType, value string, width int) {
	l.tokens = append(l.tokens, Token{Type: t, Value: value, Pos: l.position, End: l.position + width})
	l.position += width
}

func (l *Lexer) peekAt(offset int) byte {
	if l.position+offset >= len(l.input) {
		return 0
	}
	return l.input[l.position+offset]
}

func (l *Lexer) lexString() error {
	start := l.position
	l.position++ // opening quote
	for l.position < len(l.input) && l.input[l.position] != '"' {
		l.position++
	}
	if l.position >= len(l.input) {
		return fmt.Errorf("%w starting at offset %d", ErrUnterminatedString, start)
	}
	l.position++ // closing quote
	l.tokens = append(l.tokens, Token{
		Type:  TokenString,
		Value: l.input[start+1 : l.position-1],
		Pos:   start,
		End:   l.position,
	})
	return nil
}

func (l *Lexer) lexNumber() {
	start := l.position
	for l.position < len(l.input) && isDigit(l.input[l.position]) {
		l.position++
	}
	l.tokens = append(l.tokens, Token{
		Type:  TokenInt,
		Value: l.input[start:l.position],
		Pos:   start,
		End:   l.position,
	})
}

func (l *Lexer) lexIdent() {
	start := l.position
	for l.position < len(l.input) && isIdentPart(l.input[l.position]) {
		l.position++
	}
	l.tokens = append(l.tokens, Token{
		Type:  TokenIdent,
		Value: l.input[start:l.position],
		Pos:   start,
		End:   l.position,
	})
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
