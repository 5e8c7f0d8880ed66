package ast

import "github.com/nxlang/nx/internal/token"

// NumberLiteral is an integer or float literal.
type NumberLiteral struct {
	Token   token.Token
	IsFloat bool
	Int     int64
	Float   float64
}

func (n *NumberLiteral) TokenLiteral() string  { return n.Token.Lexeme }
func (n *NumberLiteral) GetToken() token.Token { return n.Token }
func (n *NumberLiteral) expressionNode()       {}

// StringLiteral is a quoted string, already escape-decoded by the lexer.
// Parts holds interpolation fragments when non-nil: alternating literal
// string parts and embedded expressions (`"a ${b} c"`); when Parts is nil
// the literal has no interpolation and Value is used directly.
type StringLiteral struct {
	Token token.Token
	Value string
	Parts []Expression // interleaved *StringLiteral / other Expression, nil if plain
}

func (s *StringLiteral) TokenLiteral() string  { return s.Token.Lexeme }
func (s *StringLiteral) GetToken() token.Token { return s.Token }
func (s *StringLiteral) expressionNode()       {}

// BoolLiteral: `true` / `false`.
type BoolLiteral struct {
	Token token.Token
	Value bool
}

func (b *BoolLiteral) TokenLiteral() string  { return b.Token.Lexeme }
func (b *BoolLiteral) GetToken() token.Token { return b.Token }
func (b *BoolLiteral) expressionNode()       {}

// NilLiteral: `nil`.
type NilLiteral struct{ Token token.Token }

func (n *NilLiteral) TokenLiteral() string  { return n.Token.Lexeme }
func (n *NilLiteral) GetToken() token.Token { return n.Token }
func (n *NilLiteral) expressionNode()       {}

// SeqLiteral: `[1, 2, 3]`.
type SeqLiteral struct {
	Token    token.Token
	Elements []Expression
}

func (s *SeqLiteral) TokenLiteral() string  { return s.Token.Lexeme }
func (s *SeqLiteral) GetToken() token.Token { return s.Token }
func (s *SeqLiteral) expressionNode()       {}

// TupleLiteral: `(1, 2, 3)`. A single-element tuple requires a trailing
// comma at parse time to disambiguate from a grouping expression.
type TupleLiteral struct {
	Token    token.Token
	Elements []Expression
}

func (t *TupleLiteral) TokenLiteral() string  { return t.Token.Lexeme }
func (t *TupleLiteral) GetToken() token.Token { return t.Token }
func (t *TupleLiteral) expressionNode()       {}

// ObjEntry is one `key: value` pair of an object literal.
type ObjEntry struct {
	Key   *Identifier
	Value Expression
}

// ObjLiteral: `{ a: 1, b: 2 }`.
type ObjLiteral struct {
	Token   token.Token
	Entries []ObjEntry
}

func (o *ObjLiteral) TokenLiteral() string  { return o.Token.Lexeme }
func (o *ObjLiteral) GetToken() token.Token { return o.Token }
func (o *ObjLiteral) expressionNode()       {}

// GroupingExpression: `( expr )`.
type GroupingExpression struct {
	Token token.Token
	Inner Expression
}

func (g *GroupingExpression) TokenLiteral() string  { return g.Token.Lexeme }
func (g *GroupingExpression) GetToken() token.Token { return g.Token }
func (g *GroupingExpression) expressionNode()       {}

// UnaryExpression: prefix `! - ++ --`.
type UnaryExpression struct {
	Token    token.Token
	Operator token.Type
	Right    Expression
}

func (u *UnaryExpression) TokenLiteral() string  { return u.Token.Lexeme }
func (u *UnaryExpression) GetToken() token.Token { return u.Token }
func (u *UnaryExpression) expressionNode()       {}

// PostfixExpression: postfix `++ --`. Evaluates to the pre-increment value.
type PostfixExpression struct {
	Token    token.Token
	Operator token.Type
	Left     Expression
}

func (p *PostfixExpression) TokenLiteral() string  { return p.Token.Lexeme }
func (p *PostfixExpression) GetToken() token.Token { return p.Token }
func (p *PostfixExpression) expressionNode()       {}

// BinaryExpression covers arithmetic, comparison, `is`/`in`, and
// additive/multiplicative operators.
type BinaryExpression struct {
	Token    token.Token
	Left     Expression
	Operator token.Type
	Right    Expression
}

func (b *BinaryExpression) TokenLiteral() string  { return b.Token.Lexeme }
func (b *BinaryExpression) GetToken() token.Token { return b.Token }
func (b *BinaryExpression) expressionNode()       {}

// AndExpression / OrExpression are kept distinct from BinaryExpression so
// the compiler can short-circuit with a single JUMP_IF_FALSE / jump pair
// instead of always evaluating both sides.
type AndExpression struct {
	Token token.Token
	Left  Expression
	Right Expression
}

func (a *AndExpression) TokenLiteral() string  { return a.Token.Lexeme }
func (a *AndExpression) GetToken() token.Token { return a.Token }
func (a *AndExpression) expressionNode()       {}

type OrExpression struct {
	Token token.Token
	Left  Expression
	Right Expression
}

func (o *OrExpression) TokenLiteral() string  { return o.Token.Lexeme }
func (o *OrExpression) GetToken() token.Token { return o.Token }
func (o *OrExpression) expressionNode()       {}

// TernaryExpression: `cond ? then : else`.
type TernaryExpression struct {
	Token     token.Token
	Condition Expression
	Then      Expression
	Else      Expression
}

func (t *TernaryExpression) TokenLiteral() string  { return t.Token.Lexeme }
func (t *TernaryExpression) GetToken() token.Token { return t.Token }
func (t *TernaryExpression) expressionNode()       {}

// AssignExpression covers `=` and the compound `+= -= *= /= %=` forms.
// Target is one of *Identifier, *DotExpression, *SubscriptExpression.
type AssignExpression struct {
	Token    token.Token
	Target   Expression
	Operator token.Type // token.ASSIGN for plain `=`
	Value    Expression
}

func (a *AssignExpression) TokenLiteral() string  { return a.Token.Lexeme }
func (a *AssignExpression) GetToken() token.Token { return a.Token }
func (a *AssignExpression) expressionNode()       {}

// CallExpression: `callee(args...)`.
type CallExpression struct {
	Token     token.Token
	Callee    Expression
	Arguments []Expression
}

func (c *CallExpression) TokenLiteral() string  { return c.Token.Lexeme }
func (c *CallExpression) GetToken() token.Token { return c.Token }
func (c *CallExpression) expressionNode()       {}

// DotExpression: `receiver.name` property access, or (as a CallExpression
// callee) the basis for a fused INVOKE.
type DotExpression struct {
	Token    token.Token
	Receiver Expression
	Name     string
}

func (d *DotExpression) TokenLiteral() string  { return d.Token.Lexeme }
func (d *DotExpression) GetToken() token.Token { return d.Token }
func (d *DotExpression) expressionNode()       {}

// SubscriptExpression: `receiver[index]`.
type SubscriptExpression struct {
	Token    token.Token
	Receiver Expression
	Index    Expression
}

func (s *SubscriptExpression) TokenLiteral() string  { return s.Token.Lexeme }
func (s *SubscriptExpression) GetToken() token.Token { return s.Token }
func (s *SubscriptExpression) expressionNode()       {}

// SliceExpression: `receiver[from..to]`. From/To may be nil (open range).
type SliceExpression struct {
	Token    token.Token
	Receiver Expression
	From     Expression
	To       Expression
}

func (s *SliceExpression) TokenLiteral() string  { return s.Token.Lexeme }
func (s *SliceExpression) GetToken() token.Token { return s.Token }
func (s *SliceExpression) expressionNode()       {}

// ThisExpression: `this`, only valid inside a method body.
type ThisExpression struct{ Token token.Token }

func (t *ThisExpression) TokenLiteral() string  { return t.Token.Lexeme }
func (t *ThisExpression) GetToken() token.Token { return t.Token }
func (t *ThisExpression) expressionNode()       {}

// BaseExpression: `base` used as `base(...)` (super-constructor call) or as
// the receiver of `base.method(...)` (BASE_INVOKE).
type BaseExpression struct{ Token token.Token }

func (b *BaseExpression) TokenLiteral() string  { return b.Token.Lexeme }
func (b *BaseExpression) GetToken() token.Token { return b.Token }
func (b *BaseExpression) expressionNode()       {}

// LambdaExpression: `fn(params) { body }` used as a value.
type LambdaExpression struct {
	Token token.Token
	Fn    *FunctionLiteral
}

func (l *LambdaExpression) TokenLiteral() string  { return l.Token.Lexeme }
func (l *LambdaExpression) GetToken() token.Token { return l.Token }
func (l *LambdaExpression) expressionNode()       {}

// IsExpression: `value is ClassName`.
type IsExpression struct {
	Token token.Token
	Left  Expression
	Class *Identifier
}

func (i *IsExpression) TokenLiteral() string  { return i.Token.Lexeme }
func (i *IsExpression) GetToken() token.Token { return i.Token }
func (i *IsExpression) expressionNode()       {}

// InExpression: `value in collection`, dispatches to the collection's
// `__has` special method.
type InExpression struct {
	Token      token.Token
	Value      Expression
	Collection Expression
}

func (i *InExpression) TokenLiteral() string  { return i.Token.Lexeme }
func (i *InExpression) GetToken() token.Token { return i.Token }
func (i *InExpression) expressionNode()       {}

// TryExpression: `try expr` evaluates expr and, if it throws, yields nil
// instead of propagating (an expression-level try, distinct from the
// try/catch statement).
type TryExpression struct {
	Token token.Token
	Inner Expression
}

func (t *TryExpression) TokenLiteral() string  { return t.Token.Lexeme }
func (t *TryExpression) GetToken() token.Token { return t.Token }
func (t *TryExpression) expressionNode()       {}
