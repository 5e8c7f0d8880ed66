// Package parser implements a Pratt parser that turns a token stream into
// an AST rooted in a Program node, grounded on the teacher's
// internal/parser package (per-concern file split, registerPrefix /
// registerInfix precedence tables) but generalized to nx's grammar.
package parser

import (
	"github.com/nxlang/nx/internal/ast"
	"github.com/nxlang/nx/internal/diagnostics"
	"github.com/nxlang/nx/internal/pipeline"
	"github.com/nxlang/nx/internal/token"
)

// Precedence levels, low to high, per spec.md 4.2.
const (
	LOWEST = iota
	ASSIGNMENT
	TERNARY
	LOGIC_OR
	LOGIC_AND
	EQUALITY
	COMPARISON
	ADDITIVE
	MULTIPLICATIVE
	UNARY
	CALL
)

var precedences = map[token.Type]int{
	token.ASSIGN:         ASSIGNMENT,
	token.PLUS_ASSIGN:    ASSIGNMENT,
	token.MINUS_ASSIGN:   ASSIGNMENT,
	token.STAR_ASSIGN:    ASSIGNMENT,
	token.SLASH_ASSIGN:   ASSIGNMENT,
	token.PERCENT_ASSIGN: ASSIGNMENT,
	token.QUESTION:       TERNARY,
	token.OR:             LOGIC_OR,
	token.AND:            LOGIC_AND,
	token.EQ:             EQUALITY,
	token.NEQ:            EQUALITY,
	token.LT:              COMPARISON,
	token.GT:              COMPARISON,
	token.LTEQ:            COMPARISON,
	token.GTEQ:            COMPARISON,
	token.IS:              COMPARISON,
	token.IN:              COMPARISON,
	token.PLUS:            ADDITIVE,
	token.MINUS:           ADDITIVE,
	token.STAR:            MULTIPLICATIVE,
	token.SLASH:           MULTIPLICATIVE,
	token.PERCENT:         MULTIPLICATIVE,
	token.LPAREN:          CALL,
	token.DOT:             CALL,
	token.LBRACKET:        CALL,
	token.INCR:            CALL,
	token.DECR:            CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// statementStartKeywords are the tokens panic-mode recovery synchronizes to.
var statementStartKeywords = map[token.Type]bool{
	token.CLASS:  true,
	token.FN:     true,
	token.LET:    true,
	token.FOR:    true,
	token.IF:     true,
	token.WHILE:  true,
	token.PRINT:  true,
	token.RETURN: true,
}

// Parser is a single-pass Pratt parser over a finite token slice.
type Parser struct {
	tokens []token.Token
	pos    int

	cur  token.Token
	peek token.Token

	ctx *pipeline.PipelineContext

	prefixFns map[token.Type]prefixParseFn
	infixFns  map[token.Type]infixParseFn

	panicMode bool
}

func New(tokens []token.Token, ctx *pipeline.PipelineContext) *Parser {
	p := &Parser{tokens: tokens, ctx: ctx}
	p.advance()
	p.advance()

	p.prefixFns = map[token.Type]prefixParseFn{
		token.INT:      p.parseNumberLiteral,
		token.FLOAT:    p.parseNumberLiteral,
		token.STRING:   p.parseStringLiteral,
		token.TRUE:     p.parseBoolLiteral,
		token.FALSE:    p.parseBoolLiteral,
		token.NIL:      p.parseNilLiteral,
		token.IDENT:    p.parseIdentifier,
		token.LPAREN:   p.parseGroupingOrTuple,
		token.LBRACKET: p.parseSeqLiteral,
		token.LBRACE:   p.parseObjLiteral,
		token.MINUS:    p.parseUnary,
		token.BANG:     p.parseUnary,
		token.INCR:     p.parseUnary,
		token.DECR:     p.parseUnary,
		token.THIS:     p.parseThis,
		token.BASE:     p.parseBase,
		token.FN:       p.parseLambda,
		token.TRY:      p.parseTryExpression,
	}

	p.infixFns = map[token.Type]infixParseFn{
		token.PLUS:           p.parseBinary,
		token.MINUS:          p.parseBinary,
		token.STAR:           p.parseBinary,
		token.SLASH:          p.parseBinary,
		token.PERCENT:        p.parseBinary,
		token.EQ:             p.parseBinary,
		token.NEQ:            p.parseBinary,
		token.LT:             p.parseBinary,
		token.GT:             p.parseBinary,
		token.LTEQ:           p.parseBinary,
		token.GTEQ:           p.parseBinary,
		token.AND:            p.parseAnd,
		token.OR:             p.parseOr,
		token.IS:             p.parseIs,
		token.IN:             p.parseIn,
		token.QUESTION:       p.parseTernary,
		token.ASSIGN:         p.parseAssign,
		token.PLUS_ASSIGN:    p.parseAssign,
		token.MINUS_ASSIGN:   p.parseAssign,
		token.STAR_ASSIGN:    p.parseAssign,
		token.SLASH_ASSIGN:   p.parseAssign,
		token.PERCENT_ASSIGN: p.parseAssign,
		token.LPAREN:         p.parseCall,
		token.DOT:            p.parseDot,
		token.LBRACKET:       p.parseSubscriptOrSlice,
		token.INCR:           p.parsePostfix,
		token.DECR:           p.parsePostfix,
	}

	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	if p.pos < len(p.tokens) {
		p.peek = p.tokens[p.pos]
		p.pos++
	} else {
		p.peek = token.Token{Type: token.EOF}
	}
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peek.Type == t }

func (p *Parser) expect(t token.Type) bool {
	if p.peekIs(t) {
		p.advance()
		return true
	}
	p.errorf("expected %s, got %s", t, p.peek.Type)
	return false
}

func (p *Parser) errorf(format string, args ...interface{}) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.ctx.Errors = append(p.ctx.Errors, diagnostics.New(diagnostics.StageParse, p.cur, format, args...))
}

// synchronize discards tokens until a likely statement boundary so parsing
// can continue collecting further diagnostics.
func (p *Parser) synchronize() {
	p.panicMode = false
	for !p.curIs(token.EOF) {
		if statementStartKeywords[p.cur.Type] {
			return
		}
		p.advance()
	}
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peek.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram parses the whole token stream into a Program node.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.advance() // step off the statement's last token
		if p.panicMode {
			p.synchronize()
		}
	}
	return prog
}
