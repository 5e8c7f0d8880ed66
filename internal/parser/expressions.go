package parser

import (
	"strconv"
	"strings"

	"github.com/nxlang/nx/internal/ast"
	"github.com/nxlang/nx/internal/token"
)

// parseExpression is the Pratt loop. Before continuing into an infix
// continuation it checks the newline-sensitivity rule from spec.md 4.2:
// if the next token starts a new source line and isn't '.', the
// expression ends there even if it could otherwise continue.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixFns[p.cur.Type]
	if prefix == nil {
		p.errorf("unexpected token %s in expression", p.cur.Type)
		return nil
	}
	left := prefix()

	for {
		if p.peek.FirstOnLine && p.peek.Type != token.DOT {
			break
		}
		infix, ok := p.infixFns[p.peek.Type]
		if !ok || precedence >= p.peekPrecedence() {
			break
		}
		p.advance()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	tok := p.cur
	lit := &ast.NumberLiteral{Token: tok}
	if tok.Type == token.FLOAT {
		f, err := strconv.ParseFloat(strings.ReplaceAll(tok.Lexeme, "_", ""), 64)
		if err != nil {
			p.errorf("invalid float literal %q", tok.Lexeme)
		}
		lit.IsFloat = true
		lit.Float = f
		return lit
	}
	v, base := parseIntLexeme(tok.Lexeme)
	n, err := strconv.ParseInt(v, base, 64)
	if err != nil {
		p.errorf("invalid integer literal %q", tok.Lexeme)
	}
	lit.Int = n
	return lit
}

// parseIntLexeme strips a 0b/0o/0x prefix and underscores, returning the
// digit text and the base to parse it in.
func parseIntLexeme(lexeme string) (string, int) {
	lexeme = strings.ReplaceAll(lexeme, "_", "")
	if len(lexeme) > 2 && lexeme[0] == '0' {
		switch lexeme[1] {
		case 'b', 'B':
			return lexeme[2:], 2
		case 'o', 'O':
			return lexeme[2:], 8
		case 'x', 'X':
			return lexeme[2:], 16
		}
	}
	return lexeme, 10
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.cur, Value: p.cur.Lexeme}
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	return &ast.BoolLiteral{Token: p.cur, Value: p.cur.Type == token.TRUE}
}

func (p *Parser) parseNilLiteral() ast.Expression {
	return &ast.NilLiteral{Token: p.cur}
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
}

func (p *Parser) parseThis() ast.Expression { return &ast.ThisExpression{Token: p.cur} }
func (p *Parser) parseBase() ast.Expression { return &ast.BaseExpression{Token: p.cur} }

// parseGroupingOrTuple disambiguates `(expr)` from a tuple literal
// `(a, b)` / single-element `(a,)` by looking for a comma before ')'.
func (p *Parser) parseGroupingOrTuple() ast.Expression {
	tok := p.cur
	p.advance()
	if p.curIs(token.RPAREN) {
		return &ast.TupleLiteral{Token: tok}
	}
	first := p.parseExpression(LOWEST)
	if p.peekIs(token.COMMA) {
		elems := []ast.Expression{first}
		for p.peekIs(token.COMMA) {
			p.advance()
			if p.peekIs(token.RPAREN) {
				break
			}
			p.advance()
			elems = append(elems, p.parseExpression(LOWEST))
		}
		if !p.expect(token.RPAREN) {
			return nil
		}
		return &ast.TupleLiteral{Token: tok, Elements: elems}
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	return &ast.GroupingExpression{Token: tok, Inner: first}
}

// parseSeqLiteral parses `[ ... ]`, capping element count at 65535 per
// spec.md 4.2's collection-literal limit (the operand width of the
// corresponding bytecode instruction).
func (p *Parser) parseSeqLiteral() ast.Expression {
	tok := p.cur
	lit := &ast.SeqLiteral{Token: tok}
	lit.Elements = p.parseExpressionList(token.RBRACKET)
	if len(lit.Elements) > 65535 {
		p.errorf("seq literal has more than 65535 elements")
	}
	return lit
}

func (p *Parser) parseExpressionList(end token.Type) []ast.Expression {
	var list []ast.Expression
	if p.peekIs(end) {
		p.advance()
		return list
	}
	p.advance()
	list = append(list, p.parseExpression(LOWEST))
	for p.peekIs(token.COMMA) {
		p.advance()
		if p.peekIs(end) {
			break
		}
		p.advance()
		list = append(list, p.parseExpression(LOWEST))
	}
	if !p.expect(end) {
		return list
	}
	return list
}

func (p *Parser) parseObjLiteral() ast.Expression {
	tok := p.cur
	lit := &ast.ObjLiteral{Token: tok}
	for !p.peekIs(token.RBRACE) {
		p.advance()
		if !p.curIs(token.IDENT) {
			p.errorf("expected object key, got %s", p.cur.Type)
			return lit
		}
		key := &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
		if !p.expect(token.COLON) {
			return lit
		}
		p.advance()
		val := p.parseExpression(LOWEST)
		lit.Entries = append(lit.Entries, ast.ObjEntry{Key: key, Value: val})
		if p.peekIs(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	if !p.expect(token.RBRACE) {
		return lit
	}
	return lit
}

func (p *Parser) parseUnary() ast.Expression {
	tok := p.cur
	p.advance()
	right := p.parseExpression(UNARY)
	return &ast.UnaryExpression{Token: tok, Operator: tok.Type, Right: right}
}

func (p *Parser) parsePostfix(left ast.Expression) ast.Expression {
	return &ast.PostfixExpression{Token: p.cur, Operator: p.cur.Type, Left: left}
}

func (p *Parser) parseBinary(left ast.Expression) ast.Expression {
	tok := p.cur
	prec := p.curPrecedence()
	p.advance()
	right := p.parseExpression(prec)
	return &ast.BinaryExpression{Token: tok, Left: left, Operator: tok.Type, Right: right}
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) parseAnd(left ast.Expression) ast.Expression {
	tok := p.cur
	p.advance()
	right := p.parseExpression(LOGIC_AND)
	return &ast.AndExpression{Token: tok, Left: left, Right: right}
}

func (p *Parser) parseOr(left ast.Expression) ast.Expression {
	tok := p.cur
	p.advance()
	right := p.parseExpression(LOGIC_OR)
	return &ast.OrExpression{Token: tok, Left: left, Right: right}
}

func (p *Parser) parseIs(left ast.Expression) ast.Expression {
	tok := p.cur
	if !p.expect(token.IDENT) {
		return left
	}
	class := &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
	return &ast.IsExpression{Token: tok, Left: left, Class: class}
}

func (p *Parser) parseIn(left ast.Expression) ast.Expression {
	tok := p.cur
	p.advance()
	coll := p.parseExpression(COMPARISON)
	return &ast.InExpression{Token: tok, Value: left, Collection: coll}
}

func (p *Parser) parseTernary(cond ast.Expression) ast.Expression {
	tok := p.cur
	p.advance()
	then := p.parseExpression(LOWEST)
	if !p.expect(token.COLON) {
		return nil
	}
	p.advance()
	els := p.parseExpression(TERNARY)
	return &ast.TernaryExpression{Token: tok, Condition: cond, Then: then, Else: els}
}

func (p *Parser) parseAssign(target ast.Expression) ast.Expression {
	tok := p.cur
	op := tok.Type
	p.advance()
	value := p.parseExpression(ASSIGNMENT - 1)
	return &ast.AssignExpression{Token: tok, Target: target, Operator: op, Value: value}
}

func (p *Parser) parseCall(callee ast.Expression) ast.Expression {
	tok := p.cur
	args := p.parseExpressionList(token.RPAREN)
	if len(args) > 255 {
		p.errorf("call has more than 255 arguments")
	}
	return &ast.CallExpression{Token: tok, Callee: callee, Arguments: args}
}

func (p *Parser) parseDot(receiver ast.Expression) ast.Expression {
	tok := p.cur
	if !p.expect(token.IDENT) {
		return receiver
	}
	return &ast.DotExpression{Token: tok, Receiver: receiver, Name: p.cur.Lexeme}
}

// parseSubscriptOrSlice disambiguates `recv[i]` from `recv[from..to]`.
func (p *Parser) parseSubscriptOrSlice(receiver ast.Expression) ast.Expression {
	tok := p.cur
	if p.peekIs(token.DOTDOT) {
		p.advance() // cur = DOTDOT
		var to ast.Expression
		if !p.peekIs(token.RBRACKET) {
			p.advance()
			to = p.parseExpression(LOWEST)
		}
		if !p.expect(token.RBRACKET) {
			return nil
		}
		return &ast.SliceExpression{Token: tok, Receiver: receiver, From: nil, To: to}
	}
	p.advance()
	first := p.parseExpression(LOWEST)
	if p.peekIs(token.DOTDOT) {
		p.advance()
		var to ast.Expression
		if !p.peekIs(token.RBRACKET) {
			p.advance()
			to = p.parseExpression(LOWEST)
		}
		if !p.expect(token.RBRACKET) {
			return nil
		}
		return &ast.SliceExpression{Token: tok, Receiver: receiver, From: first, To: to}
	}
	if !p.expect(token.RBRACKET) {
		return nil
	}
	return &ast.SubscriptExpression{Token: tok, Receiver: receiver, Index: first}
}

func (p *Parser) parseLambda() ast.Expression {
	tok := p.cur
	fn := p.parseFunctionLiteral(tok)
	return &ast.LambdaExpression{Token: tok, Fn: fn}
}

func (p *Parser) parseTryExpression() ast.Expression {
	tok := p.cur
	p.advance()
	inner := p.parseExpression(UNARY)
	return &ast.TryExpression{Token: tok, Inner: inner}
}
