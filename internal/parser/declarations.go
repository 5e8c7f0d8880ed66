package parser

import (
	"github.com/nxlang/nx/internal/ast"
	"github.com/nxlang/nx/internal/token"
)

// parseFunctionLiteral parses the shared `(params) { body }` shape used by
// named functions, methods, ctors, and lambdas. tok is the introducing
// 'fn' token (or, for a method, the method-name token: callers that don't
// have a leading 'fn' pass their own current token).
func (p *Parser) parseFunctionLiteral(tok token.Token) *ast.FunctionLiteral {
	fn := &ast.FunctionLiteral{Token: tok}
	if !p.expect(token.LPAREN) {
		return fn
	}
	fn.Params = p.parseParamList()
	if len(fn.Params) > 255 {
		p.errorf("function has more than 255 parameters")
	}
	for _, param := range fn.Params {
		if param.Rest {
			fn.IsVariadic = true
		}
	}
	if !p.expect(token.LBRACE) {
		return fn
	}
	fn.Body = p.parseBlockStatements()
	return fn
}

func (p *Parser) parseParamList() []*ast.Param {
	var params []*ast.Param
	if p.peekIs(token.RPAREN) {
		p.advance()
		return params
	}
	p.advance()
	params = append(params, p.parseParam())
	for p.peekIs(token.COMMA) {
		p.advance()
		p.advance()
		params = append(params, p.parseParam())
	}
	p.expect(token.RPAREN)
	return params
}

func (p *Parser) parseParam() *ast.Param {
	param := &ast.Param{}
	if p.curIs(token.ELLIPSIS) {
		param.Rest = true
		p.advance()
	}
	param.Name = &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
	if p.peekIs(token.ASSIGN) {
		p.advance()
		p.advance()
		param.Default = p.parseExpression(LOWEST)
	}
	return param
}

// parseBlockStatements consumes statements up to (and past) the closing
// '}'; p.cur is '{' on entry and '}' on return.
func (p *Parser) parseBlockStatements() []ast.Statement {
	var stmts []ast.Statement
	p.advance()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.advance() // step off the statement's last token
		if p.panicMode {
			p.synchronize()
		}
	}
	return stmts
}

func (p *Parser) parseFunctionDeclaration() ast.Statement {
	tok := p.cur // 'fn'
	if !p.expect(token.IDENT) {
		return nil
	}
	name := &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
	fn := p.parseFunctionLiteral(tok)
	fn.Name = name.Value
	return &ast.FunctionDeclaration{Token: tok, Name: name, Fn: fn}
}

func (p *Parser) parseClassDeclaration() ast.Statement {
	tok := p.cur // 'cls'
	if !p.expect(token.IDENT) {
		return nil
	}
	decl := &ast.ClassDeclaration{Token: tok, Name: &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}}

	if p.peekIs(token.COLON) {
		p.advance()
		if !p.expect(token.IDENT) {
			return decl
		}
		decl.Base = &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
	}

	if !p.expect(token.LBRACE) {
		return decl
	}
	p.advance()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		m := p.parseMethodDeclaration()
		if m != nil {
			decl.Methods = append(decl.Methods, m)
			p.advance() // step off the method body's closing '}'
		}
		if p.panicMode {
			p.synchronize()
		}
	}
	return decl
}

func (p *Parser) parseMethodDeclaration() *ast.MethodDeclaration {
	kind := ast.MethodInstance
	if p.curIs(token.FN) && p.peekIs(token.IDENT) {
		// static method: `fn name(...)` at class scope is still an instance
		// method; a leading `static` identifier marks a static one.
	}
	if p.curIs(token.IDENT) && p.cur.Lexeme == "static" {
		kind = ast.MethodStatic
		p.advance()
	}

	switch {
	case p.curIs(token.CTOR):
		tok := p.cur
		fn := p.parseFunctionLiteral(tok)
		fn.Name = "ctor"
		return &ast.MethodDeclaration{Token: tok, Name: "ctor", Kind: ast.MethodCtor, Fn: fn}
	case p.curIs(token.FN):
		tok := p.cur
		if !p.expect(token.IDENT) {
			return nil
		}
		name := p.cur.Lexeme
		fn := p.parseFunctionLiteral(tok)
		fn.Name = name
		return &ast.MethodDeclaration{Token: tok, Name: name, Kind: kind, Fn: fn}
	default:
		p.errorf("expected method declaration, got %s", p.cur.Type)
		p.advance()
		return nil
	}
}

func (p *Parser) parseVariableDeclaration() ast.Statement {
	tok := p.cur // 'let' or 'const'
	isConst := tok.Type == token.CONST
	decl := &ast.VariableDeclaration{Token: tok, Const: isConst}

	p.advance()
	switch p.cur.Type {
	case token.LBRACKET, token.LPAREN, token.LBRACE:
		decl.Pattern = p.parsePattern()
	case token.IDENT:
		decl.Name = &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
	default:
		p.errorf("expected a variable name or destructuring pattern, got %s", p.cur.Type)
	}

	if p.peekIs(token.ASSIGN) {
		p.advance()
		p.advance()
		decl.Value = p.parseExpression(LOWEST)
	} else if decl.Pattern != nil {
		p.errorf("destructuring declaration requires an initializer")
	}

	if p.peekIs(token.SEMICOLON) {
		p.advance()
	}
	return decl
}

// parsePattern parses a destructuring binding target: a seq pattern `[...]`,
// a tuple pattern `(...)`, an object pattern `{...}`, or a plain binding.
// A rest element must be last in seq/tuple patterns and is rejected
// entirely for object patterns by the resolver, not here (the grammar
// alone can't tell a trailing rest from a later duplicate).
func (p *Parser) parsePattern() ast.Pattern {
	switch p.cur.Type {
	case token.LBRACKET:
		tok := p.cur
		pat := &ast.SeqPattern{Token: tok}
		p.advance()
		for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
			pat.Elements = append(pat.Elements, p.parsePatternElement())
			if p.peekIs(token.COMMA) {
				p.advance()
				p.advance()
			} else {
				break
			}
		}
		p.expect(token.RBRACKET)
		if len(pat.Elements) > 255 {
			p.errorf("pattern has more than 255 bindings")
		}
		return pat
	case token.LPAREN:
		tok := p.cur
		pat := &ast.TuplePattern{Token: tok}
		p.advance()
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			pat.Elements = append(pat.Elements, p.parsePatternElement())
			if p.peekIs(token.COMMA) {
				p.advance()
				p.advance()
			} else {
				break
			}
		}
		p.expect(token.RPAREN)
		if len(pat.Elements) > 255 {
			p.errorf("pattern has more than 255 bindings")
		}
		return pat
	case token.LBRACE:
		tok := p.cur
		pat := &ast.ObjPattern{Token: tok}
		p.advance()
		for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
			if p.curIs(token.ELLIPSIS) {
				p.errorf("rest binding is not allowed in an object pattern")
				p.advance()
				continue
			}
			key := &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
			entry := ast.ObjPatternEntry{Key: key, Value: &ast.BindingPattern{Token: p.cur, Name: key}}
			if p.peekIs(token.COLON) {
				p.advance()
				p.advance()
				entry.Value = p.parsePatternElement()
			}
			pat.Entries = append(pat.Entries, entry)
			if p.peekIs(token.COMMA) {
				p.advance()
				p.advance()
			} else {
				break
			}
		}
		p.expect(token.RBRACE)
		if len(pat.Entries) > 255 {
			p.errorf("pattern has more than 255 bindings")
		}
		return pat
	default:
		return p.parsePatternElement()
	}
}

func (p *Parser) parsePatternElement() ast.Pattern {
	if p.curIs(token.ELLIPSIS) {
		tok := p.cur
		p.advance()
		name := &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
		return &ast.RestPattern{Token: tok, Name: name}
	}
	switch p.cur.Type {
	case token.LBRACKET, token.LPAREN, token.LBRACE:
		return p.parsePattern()
	default:
		return &ast.BindingPattern{Token: p.cur, Name: &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}}
	}
}
