package parser

import (
	"github.com/nxlang/nx/internal/ast"
	"github.com/nxlang/nx/internal/token"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case token.LET, token.CONST:
		return p.parseVariableDeclaration()
	case token.FN:
		return p.parseFunctionDeclaration()
	case token.CLASS:
		return p.parseClassDeclaration()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.PRINT:
		return p.parsePrintStatement()
	case token.BREAK:
		stmt := &ast.BreakStatement{Token: p.cur}
		if p.peekIs(token.SEMICOLON) {
			p.advance()
		}
		return stmt
	case token.SKIP:
		stmt := &ast.SkipStatement{Token: p.cur}
		if p.peekIs(token.SEMICOLON) {
			p.advance()
		}
		return stmt
	case token.THROW:
		return p.parseThrowStatement()
	case token.TRY:
		return p.parseTryStatement()
	case token.IMPORT:
		return p.parseImportStatement()
	case token.LBRACE:
		return p.parseBlockStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	tok := p.cur
	return &ast.BlockStatement{Token: tok, Statements: p.parseBlockStatements()}
}

func (p *Parser) parseIfStatement() ast.Statement {
	tok := p.cur
	if !p.expect(token.LPAREN) {
		return nil
	}
	p.advance()
	cond := p.parseExpression(LOWEST)
	if !p.expect(token.RPAREN) {
		return nil
	}
	if !p.expect(token.LBRACE) {
		return nil
	}
	then := p.parseBlockStatement()

	stmt := &ast.IfStatement{Token: tok, Condition: cond, Then: then}
	if p.peekIs(token.ELSE) {
		p.advance()
		if p.peekIs(token.IF) {
			p.advance()
			stmt.Else = p.parseIfStatement()
		} else if p.expect(token.LBRACE) {
			stmt.Else = p.parseBlockStatement()
		}
	}
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	tok := p.cur
	if !p.expect(token.LPAREN) {
		return nil
	}
	p.advance()
	cond := p.parseExpression(LOWEST)
	if !p.expect(token.RPAREN) {
		return nil
	}
	if !p.expect(token.LBRACE) {
		return nil
	}
	body := p.parseBlockStatement()
	return &ast.WhileStatement{Token: tok, Condition: cond, Body: body}
}

// parseForStatement handles both the classic `for (init; cond; post)` form
// and the iterator form `for (item in collection)`.
func (p *Parser) parseForStatement() ast.Statement {
	tok := p.cur
	if !p.expect(token.LPAREN) {
		return nil
	}
	p.advance()

	if p.curIs(token.IDENT) && p.peekIs(token.IN) {
		item := &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
		p.advance() // consume IDENT, cur == IN
		p.advance() // consume IN, cur == start of collection expr
		coll := p.parseExpression(LOWEST)
		if !p.expect(token.RPAREN) {
			return nil
		}
		if !p.expect(token.LBRACE) {
			return nil
		}
		body := p.parseBlockStatement()
		init := &ast.VariableDeclaration{Token: tok, Name: item}
		cond := &ast.InExpression{Token: tok, Value: &ast.Identifier{Token: item.Token, Value: item.Value}, Collection: coll}
		return &ast.ForStatement{Token: tok, Init: init, Condition: cond, Body: body}
	}

	var init ast.Statement
	if !p.curIs(token.SEMICOLON) {
		init = p.parseStatement()
		p.advance() // step off the init clause's ';'
	} else {
		p.advance()
	}

	var cond ast.Expression
	if !p.curIs(token.SEMICOLON) {
		cond = p.parseExpression(LOWEST)
		if !p.expect(token.SEMICOLON) {
			return nil
		}
	}
	p.advance()

	var post ast.Statement
	if !p.curIs(token.RPAREN) {
		expr := p.parseExpression(LOWEST)
		post = &ast.ExpressionStatement{Token: expr.GetToken(), Expression: expr}
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	if !p.expect(token.LBRACE) {
		return nil
	}
	body := p.parseBlockStatement()
	return &ast.ForStatement{Token: tok, Init: init, Condition: cond, Post: post, Body: body}
}

func (p *Parser) parseReturnStatement() ast.Statement {
	tok := p.cur
	stmt := &ast.ReturnStatement{Token: tok}
	if p.peekIs(token.SEMICOLON) || p.peek.FirstOnLine {
		if p.peekIs(token.SEMICOLON) {
			p.advance()
		}
		return stmt
	}
	p.advance()
	stmt.Value = p.parseExpression(LOWEST)
	if p.peekIs(token.SEMICOLON) {
		p.advance()
	}
	return stmt
}

func (p *Parser) parsePrintStatement() ast.Statement {
	tok := p.cur
	p.advance()
	value := p.parseExpression(LOWEST)
	stmt := &ast.PrintStatement{Token: tok, Value: value}
	if p.peekIs(token.SEMICOLON) {
		p.advance()
	}
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	tok := p.cur
	expr := p.parseExpression(LOWEST)
	stmt := &ast.ExpressionStatement{Token: tok, Expression: expr}
	if p.peekIs(token.SEMICOLON) {
		p.advance()
	}
	return stmt
}

func (p *Parser) parseThrowStatement() ast.Statement {
	tok := p.cur
	p.advance()
	value := p.parseExpression(LOWEST)
	stmt := &ast.ThrowStatement{Token: tok, Value: value}
	if p.peekIs(token.SEMICOLON) {
		p.advance()
	}
	return stmt
}

func (p *Parser) parseTryStatement() ast.Statement {
	tok := p.cur
	if !p.expect(token.LBRACE) {
		return nil
	}
	tryBlock := p.parseBlockStatement()
	stmt := &ast.TryStatement{Token: tok, Try: tryBlock}
	if p.peekIs(token.CATCH) {
		p.advance()
		if !p.expect(token.LBRACE) {
			return stmt
		}
		stmt.Catch = p.parseBlockStatement()
	}
	return stmt
}

func (p *Parser) parseImportStatement() ast.Statement {
	tok := p.cur
	stmt := &ast.ImportStatement{Token: tok}

	if p.peekIs(token.LBRACE) {
		p.advance()
		p.advance()
		for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
			if p.curIs(token.ELLIPSIS) {
				p.advance()
				stmt.Rest = &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
			} else {
				stmt.Names = append(stmt.Names, &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme})
			}
			if p.peekIs(token.COMMA) {
				p.advance()
				p.advance()
			} else {
				break
			}
		}
		p.expect(token.RBRACE)
	} else {
		if !p.expect(token.IDENT) {
			return stmt
		}
		stmt.Name = &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
	}

	if p.peekIs(token.FROM) {
		p.advance()
		if !p.expect(token.STRING) {
			return stmt
		}
		stmt.Path = p.cur.Lexeme
	}
	if p.peekIs(token.SEMICOLON) {
		p.advance()
	}
	return stmt
}
