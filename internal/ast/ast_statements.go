package ast

import "github.com/nxlang/nx/internal/token"

// ImportStatement: `import name` | `import name from "path"` |
// `import { a, b, ...rest } from "path"`.
type ImportStatement struct {
	Token   token.Token
	Name    *Identifier   // simple import binding, nil for a destructured import
	Names   []*Identifier // `{ a, b }` form
	Rest    *Identifier   // `...rest` in the `{ }` form, nil if absent
	Path    string        // optional explicit path; "" means resolve by Name

	// ContainerSlot is the local slot the imported module value rests in
	// while individual fields are read out of it; -1 at global scope.
	ContainerSlot int
}

func (i *ImportStatement) TokenLiteral() string  { return i.Token.Lexeme }
func (i *ImportStatement) GetToken() token.Token { return i.Token }
func (i *ImportStatement) statementNode()        {}

// BlockStatement is a `{ ... }` sequence of statements introducing a scope.
type BlockStatement struct {
	Token      token.Token
	Statements []Statement
}

func (b *BlockStatement) TokenLiteral() string  { return b.Token.Lexeme }
func (b *BlockStatement) GetToken() token.Token { return b.Token }
func (b *BlockStatement) statementNode()        {}

// IfStatement: `if (cond) { ... } else { ... }`. Else may be nil, or itself
// be another IfStatement (else-if chains), or a BlockStatement.
type IfStatement struct {
	Token     token.Token
	Condition Expression
	Then      *BlockStatement
	Else      Statement // *BlockStatement or *IfStatement, nil if absent
}

func (i *IfStatement) TokenLiteral() string  { return i.Token.Lexeme }
func (i *IfStatement) GetToken() token.Token { return i.Token }
func (i *IfStatement) statementNode()        {}

// WhileStatement: `while (cond) { ... }`.
type WhileStatement struct {
	Token     token.Token
	Condition Expression
	Body      *BlockStatement
}

func (w *WhileStatement) TokenLiteral() string  { return w.Token.Lexeme }
func (w *WhileStatement) GetToken() token.Token { return w.Token }
func (w *WhileStatement) statementNode()        {}

// ForStatement: `for (init; cond; post) { ... }`. Any clause may be nil.
type ForStatement struct {
	Token     token.Token
	Init      Statement
	Condition Expression
	Post      Statement
	Body      *BlockStatement
}

func (f *ForStatement) TokenLiteral() string  { return f.Token.Lexeme }
func (f *ForStatement) GetToken() token.Token { return f.Token }
func (f *ForStatement) statementNode()        {}

// ReturnStatement: `ret expr;` or bare `ret;` (returns nil).
type ReturnStatement struct {
	Token token.Token
	Value Expression // nil for a bare return
}

func (r *ReturnStatement) TokenLiteral() string  { return r.Token.Lexeme }
func (r *ReturnStatement) GetToken() token.Token { return r.Token }
func (r *ReturnStatement) statementNode()        {}

// PrintStatement: `print expr;`.
type PrintStatement struct {
	Token token.Token
	Value Expression
}

func (p *PrintStatement) TokenLiteral() string  { return p.Token.Lexeme }
func (p *PrintStatement) GetToken() token.Token { return p.Token }
func (p *PrintStatement) statementNode()        {}

// ExpressionStatement wraps an expression used for its side effects.
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (e *ExpressionStatement) TokenLiteral() string  { return e.Token.Lexeme }
func (e *ExpressionStatement) GetToken() token.Token { return e.Token }
func (e *ExpressionStatement) statementNode()        {}

// BreakStatement: `break;`.
type BreakStatement struct{ Token token.Token }

func (b *BreakStatement) TokenLiteral() string  { return b.Token.Lexeme }
func (b *BreakStatement) GetToken() token.Token { return b.Token }
func (b *BreakStatement) statementNode()        {}

// SkipStatement: `skip;` (continue).
type SkipStatement struct{ Token token.Token }

func (s *SkipStatement) TokenLiteral() string  { return s.Token.Lexeme }
func (s *SkipStatement) GetToken() token.Token { return s.Token }
func (s *SkipStatement) statementNode()        {}

// ThrowStatement: `throw expr;`.
type ThrowStatement struct {
	Token token.Token
	Value Expression
}

func (t *ThrowStatement) TokenLiteral() string  { return t.Token.Lexeme }
func (t *ThrowStatement) GetToken() token.Token { return t.Token }
func (t *ThrowStatement) statementNode()        {}

// TryStatement: `try { ... } catch { ... }`. The caught value is bound to
// the synthetic `error` local inside Catch.
type TryStatement struct {
	Token     token.Token
	Try       *BlockStatement
	Catch     *BlockStatement // nil if there is no catch clause
	ErrorSlot int             // local slot index of the synthetic `error` binding; -1 if Catch == nil
}

func (t *TryStatement) TokenLiteral() string  { return t.Token.Lexeme }
func (t *TryStatement) GetToken() token.Token { return t.Token }
func (t *TryStatement) statementNode()        {}
