package parse

import (
	"fmt"
	"strconv"

	"github.com/gnolang/repat/internal/ir"
)

// reserved words of the fragment language; never valid as plain identifiers.
var keywords = map[string]bool{
	"case":  true,
	"when":  true,
	"is":    true,
	"var":   true,
	"not":   true,
	"true":  true,
	"false": true,
	"null":  true,
}

// Parser builds ir trees from a token stream.
type Parser struct {
	tokens  []Token
	current int
}

// ParseFragment parses a single fragment: either a condition expression or
// a case arm ("case <pattern> [when <condition>]").
func ParseFragment(src string) (ir.Node, error) {
	tokens, err := NewLexer(src).Tokenize()
	if err != nil {
		return nil, err
	}
	p := &Parser{tokens: tokens}
	return p.parseFragment()
}

func (p *Parser) parseFragment() (ir.Node, error) {
	var (
		node ir.Node
		err  error
	)
	if p.atKeyword("case") {
		node, err = p.parseArm()
	} else {
		node, err = p.parseExpr()
	}
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, fmt.Errorf("offset %d: unexpected %s after fragment", tok.Pos, tok.Type)
	}
	return node, nil
}

func (p *Parser) parseArm() (*ir.Arm, error) {
	caseTok := p.advance()
	pat, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	arm := &ir.Arm{Pattern: pat, Loc: ir.Span{Start: caseTok.Pos, End: pat.Span().End}}
	if p.atKeyword("when") {
		p.advance()
		guard, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		arm.Guard = guard
		arm.Loc.End = guard.Span().End
	}
	if p.peek().Type == TokenColon {
		p.advance()
	}
	return arm, nil
}

// parseExpr parses a left-associative && chain.
func (p *Parser) parseExpr() (ir.Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == TokenAndAnd {
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ir.BinaryExpr{
			Op:    ir.OpAnd,
			Left:  left,
			Right: right,
			Loc:   ir.Span{Start: left.Span().Start, End: right.Span().End},
		}
	}
	return left, nil
}

// parseComparison parses at most one comparison; comparisons do not chain.
func (p *Parser) parseComparison() (ir.Expr, error) {
	left, err := p.parseIs()
	if err != nil {
		return nil, err
	}
	op, ok := comparisonOp(p.peek().Type)
	if !ok {
		return left, nil
	}
	p.advance()
	right, err := p.parseIs()
	if err != nil {
		return nil, err
	}
	return &ir.BinaryExpr{
		Op:    op,
		Left:  left,
		Right: right,
		Loc:   ir.Span{Start: left.Span().Start, End: right.Span().End},
	}, nil
}

func comparisonOp(t TokenType) (ir.BinaryOp, bool) {
	switch t {
	case TokenEq:
		return ir.OpEq, true
	case TokenNeq:
		return ir.OpNeq, true
	case TokenLt:
		return ir.OpLt, true
	case TokenLte:
		return ir.OpLte, true
	case TokenGt:
		return ir.OpGt, true
	case TokenGte:
		return ir.OpGte, true
	default:
		return 0, false
	}
}

func (p *Parser) parseIs() (ir.Expr, error) {
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if !p.atKeyword("is") {
		return x, nil
	}
	p.advance()
	pat, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	loc := ir.Span{Start: x.Span().Start, End: pat.Span().End}
	// A bare type pattern is the plain type test; anything richer is a
	// pattern test.
	if tp, ok := pat.(*ir.TypePattern); ok {
		return &ir.IsTypeExpr{X: x, Type: tp.Type, Loc: loc}, nil
	}
	return &ir.IsPatternExpr{X: x, Pat: pat, Loc: loc}, nil
}

func (p *Parser) parseUnary() (ir.Expr, error) {
	if tok := p.peek(); tok.Type == TokenBang {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ir.UnaryExpr{
			Op:      ir.OpNot,
			Operand: operand,
			Loc:     ir.Span{Start: tok.Pos, End: operand.Span().End},
		}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ir.Expr, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().Type {
		case TokenDot:
			p.advance()
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			x = &ir.MemberExpr{X: x, Name: name.Value, Loc: ir.Span{Start: x.Span().Start, End: name.End}}
		case TokenQuestionDot:
			p.advance()
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			x = &ir.NullSafeExpr{X: x, Name: name.Value, Loc: ir.Span{Start: x.Span().Start, End: name.End}}
		default:
			return x, nil
		}
	}
}

func (p *Parser) parsePrimary() (ir.Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case TokenInt:
		p.advance()
		return p.intLiteral(tok, false)
	case TokenMinus:
		p.advance()
		num, err := p.expect(TokenInt)
		if err != nil {
			return nil, err
		}
		lit, err := p.intLiteral(num, true)
		if err != nil {
			return nil, err
		}
		lit.(*ir.LiteralExpr).Loc.Start = tok.Pos
		return lit, nil
	case TokenString:
		p.advance()
		return &ir.LiteralExpr{Val: ir.StringValue{Val: tok.Value}, Loc: span(tok)}, nil
	case TokenIdent:
		switch tok.Value {
		case "true":
			p.advance()
			return &ir.LiteralExpr{Val: ir.BoolValue{Val: true}, Loc: span(tok)}, nil
		case "false":
			p.advance()
			return &ir.LiteralExpr{Val: ir.BoolValue{Val: false}, Loc: span(tok)}, nil
		case "null":
			p.advance()
			return &ir.LiteralExpr{Val: ir.NullValue{}, Loc: span(tok)}, nil
		}
		if keywords[tok.Value] {
			return nil, fmt.Errorf("offset %d: unexpected keyword %q", tok.Pos, tok.Value)
		}
		p.advance()
		if p.peek().Type == TokenLParen {
			return p.parseCallArgs(tok)
		}
		return &ir.IdentExpr{Name: tok.Value, Loc: span(tok)}, nil
	case TokenLParen:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, fmt.Errorf("offset %d: unexpected %s in expression", tok.Pos, tok.Type)
	}
}

func (p *Parser) parseCallArgs(fn Token) (ir.Expr, error) {
	p.advance() // (
	call := &ir.CallExpr{Func: fn.Value}
	for p.peek().Type != TokenRParen {
		if len(call.Args) > 0 {
			if _, err := p.expect(TokenComma); err != nil {
				return nil, err
			}
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
	}
	rparen := p.advance()
	call.Loc = ir.Span{Start: fn.Pos, End: rparen.End}
	return call, nil
}

func (p *Parser) intLiteral(tok Token, negative bool) (ir.Expr, error) {
	v, err := strconv.ParseInt(tok.Value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("offset %d: invalid integer %q", tok.Pos, tok.Value)
	}
	if negative {
		v = -v
	}
	return &ir.LiteralExpr{Val: ir.IntValue{Val: v}, Loc: span(tok)}, nil
}

// parsePattern parses the pattern grammar.
func (p *Parser) parsePattern() (ir.Pattern, error) {
	tok := p.peek()
	switch {
	case p.atKeyword("var"):
		p.advance()
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		return &ir.VarPattern{Name: name.Value, Loc: ir.Span{Start: tok.Pos, End: name.End}}, nil

	case p.atKeyword("not"):
		p.advance()
		inner, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		return &ir.NegatedPattern{Pat: inner, Loc: ir.Span{Start: tok.Pos, End: inner.Span().End}}, nil

	case tok.Type == TokenLt || tok.Type == TokenLte || tok.Type == TokenGt || tok.Type == TokenGte:
		p.advance()
		op, _ := comparisonOp(tok.Type)
		val, end, err := p.parseConstant()
		if err != nil {
			return nil, err
		}
		return &ir.RelationalPattern{Op: op, Val: val, Loc: ir.Span{Start: tok.Pos, End: end}}, nil

	case tok.Type == TokenInt || tok.Type == TokenMinus || tok.Type == TokenString ||
		p.atKeyword("true") || p.atKeyword("false") || p.atKeyword("null"):
		val, end, err := p.parseConstant()
		if err != nil {
			return nil, err
		}
		return &ir.ConstantPattern{Val: val, Loc: ir.Span{Start: tok.Pos, End: end}}, nil

	case tok.Type == TokenLBrace:
		return p.parseRecursiveTail("", tok.Pos)

	case tok.Type == TokenLParen:
		return p.parseParenOrPositional(tok)

	case tok.Type == TokenIdent && !keywords[tok.Value]:
		p.advance()
		return p.parseTypedPattern(tok)

	default:
		return nil, fmt.Errorf("offset %d: unexpected %s in pattern", tok.Pos, tok.Type)
	}
}

// parseTypedPattern handles patterns that start with a type name:
// "C", "C c", "C { ... } [c]", "C (p, ...) [{ ... }] [c]".
func (p *Parser) parseTypedPattern(typeTok Token) (ir.Pattern, error) {
	switch next := p.peek(); {
	case next.Type == TokenLParen || next.Type == TokenLBrace:
		return p.parseRecursiveTail(typeTok.Value, typeTok.Pos)
	case next.Type == TokenIdent && !keywords[next.Value]:
		p.advance()
		return &ir.DeclarationPattern{
			Type:    typeTok.Value,
			Binding: next.Value,
			Loc:     ir.Span{Start: typeTok.Pos, End: next.End},
		}, nil
	default:
		return &ir.TypePattern{Type: typeTok.Value, Loc: span(typeTok)}, nil
	}
}

// parseRecursiveTail parses the positional/field/binding tail of a
// recursive pattern, after any leading type name.
func (p *Parser) parseRecursiveTail(typeName string, start int) (ir.Pattern, error) {
	pat := &ir.RecursivePattern{Type: typeName, Loc: ir.Span{Start: start}}
	if p.peek().Type == TokenLParen {
		p.advance()
		for p.peek().Type != TokenRParen {
			if len(pat.Positional) > 0 {
				if _, err := p.expect(TokenComma); err != nil {
					return nil, err
				}
			}
			sub, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			pat.Positional = append(pat.Positional, sub)
		}
		rparen := p.advance()
		pat.Loc.End = rparen.End
		if pat.Positional == nil {
			pat.Positional = []ir.Pattern{}
		}
	}
	if p.peek().Type == TokenLBrace {
		p.advance()
		for p.peek().Type != TokenRBrace {
			if len(pat.Fields) > 0 {
				if _, err := p.expect(TokenComma); err != nil {
					return nil, err
				}
			}
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if _, dup := pat.Field(name.Value); dup {
				return nil, fmt.Errorf("offset %d: duplicate subpattern name %q", name.Pos, name.Value)
			}
			if _, err := p.expect(TokenColon); err != nil {
				return nil, err
			}
			sub, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			pat.Fields = append(pat.Fields, ir.Field{Name: name.Value, Pat: sub})
		}
		rbrace := p.advance()
		pat.Loc.End = rbrace.End
	}
	if pat.Positional == nil && pat.Loc.End == 0 {
		return nil, fmt.Errorf("offset %d: expected pattern body", start)
	}
	if next := p.peek(); next.Type == TokenIdent && !keywords[next.Value] {
		p.advance()
		pat.Binding = next.Value
		pat.Loc.End = next.End
	}
	return pat, nil
}

// parseParenOrPositional disambiguates "(P)" from a positional pattern
// "(P1, P2) [{ ... }] [binding]".
func (p *Parser) parseParenOrPositional(lparen Token) (ir.Pattern, error) {
	p.advance() // (
	var subs []ir.Pattern
	for p.peek().Type != TokenRParen {
		if len(subs) > 0 {
			if _, err := p.expect(TokenComma); err != nil {
				return nil, err
			}
		}
		sub, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	rparen := p.advance()

	next := p.peek()
	positionalTail := next.Type == TokenLBrace || (next.Type == TokenIdent && !keywords[next.Value])
	if len(subs) == 1 && !positionalTail {
		return subs[0], nil
	}

	pat := &ir.RecursivePattern{Positional: subs, Loc: ir.Span{Start: lparen.Pos, End: rparen.End}}
	if pat.Positional == nil {
		pat.Positional = []ir.Pattern{}
	}
	if next.Type == TokenLBrace {
		p.advance()
		for p.peek().Type != TokenRBrace {
			if len(pat.Fields) > 0 {
				if _, err := p.expect(TokenComma); err != nil {
					return nil, err
				}
			}
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokenColon); err != nil {
				return nil, err
			}
			sub, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			pat.Fields = append(pat.Fields, ir.Field{Name: name.Value, Pat: sub})
		}
		rbrace := p.advance()
		pat.Loc.End = rbrace.End
	}
	if after := p.peek(); after.Type == TokenIdent && !keywords[after.Value] {
		p.advance()
		pat.Binding = after.Value
		pat.Loc.End = after.End
	}
	return pat, nil
}

// parseConstant parses a literal constant and returns its value and end
// offset.
func (p *Parser) parseConstant() (ir.Value, int, error) {
	tok := p.advance()
	switch tok.Type {
	case TokenInt:
		v, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, 0, fmt.Errorf("offset %d: invalid integer %q", tok.Pos, tok.Value)
		}
		return ir.IntValue{Val: v}, tok.End, nil
	case TokenMinus:
		num, err := p.expect(TokenInt)
		if err != nil {
			return nil, 0, err
		}
		v, err := strconv.ParseInt(num.Value, 10, 64)
		if err != nil {
			return nil, 0, fmt.Errorf("offset %d: invalid integer %q", num.Pos, num.Value)
		}
		return ir.IntValue{Val: -v}, num.End, nil
	case TokenString:
		return ir.StringValue{Val: tok.Value}, tok.End, nil
	case TokenIdent:
		switch tok.Value {
		case "true":
			return ir.BoolValue{Val: true}, tok.End, nil
		case "false":
			return ir.BoolValue{Val: false}, tok.End, nil
		case "null":
			return ir.NullValue{}, tok.End, nil
		}
	}
	return nil, 0, fmt.Errorf("offset %d: expected constant, found %s", tok.Pos, tok.Type)
}

func (p *Parser) peek() Token {
	if p.current >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.current]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.current < len(p.tokens) {
		p.current++
	}
	return tok
}

func (p *Parser) atKeyword(kw string) bool {
	tok := p.peek()
	return tok.Type == TokenIdent && tok.Value == kw
}

func (p *Parser) expect(t TokenType) (Token, error) {
	tok := p.peek()
	if tok.Type != t {
		return Token{}, fmt.Errorf("offset %d: expected %s, found %s", tok.Pos, t, tok.Type)
	}
	return p.advance(), nil
}

func (p *Parser) expectIdent() (Token, error) {
	tok := p.peek()
	if tok.Type != TokenIdent || keywords[tok.Value] {
		return Token{}, fmt.Errorf("offset %d: expected identifier, found %s", tok.Pos, tok.Type)
	}
	return p.advance(), nil
}

func span(tok Token) ir.Span {
	return ir.Span{Start: tok.Pos, End: tok.End}
}
