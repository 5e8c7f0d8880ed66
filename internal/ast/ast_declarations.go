package ast

import "github.com/nxlang/nx/internal/token"

// Param is one function parameter, optionally with a default value
// expression and/or a rest (variadic) marker.
type Param struct {
	Name    *Identifier
	Default Expression // nil if required
	Rest    bool       // true for the trailing `...args` parameter
}

// FunctionLiteral is the shared body of a named function declaration, a
// method/ctor, and a lambda expression — they all compile to one
// ObjFunction and differ only in how they're bound.
type FunctionLiteral struct {
	Token      token.Token // 'fn' token
	Name       string      // empty for anonymous lambdas
	Params     []*Param
	Body       []Statement
	IsVariadic bool

	// Populated by the resolver:
	Upvalues   []UpvalueDesc
	LocalCount int
}

func (f *FunctionLiteral) TokenLiteral() string  { return f.Token.Lexeme }
func (f *FunctionLiteral) GetToken() token.Token { return f.Token }
func (f *FunctionLiteral) expressionNode()       {}

// FunctionDeclaration binds a FunctionLiteral to a name in the enclosing scope.
type FunctionDeclaration struct {
	Token token.Token
	Name  *Identifier
	Fn    *FunctionLiteral
}

func (f *FunctionDeclaration) TokenLiteral() string  { return f.Token.Lexeme }
func (f *FunctionDeclaration) GetToken() token.Token { return f.Token }
func (f *FunctionDeclaration) statementNode()        {}

// MethodKind distinguishes how a method is invoked/dispatched.
type MethodKind int

const (
	MethodInstance MethodKind = iota
	MethodStatic
	MethodCtor
)

// MethodDeclaration is one method body inside a class declaration.
type MethodDeclaration struct {
	Token token.Token
	Name  string
	Kind  MethodKind
	Fn    *FunctionLiteral
}

func (m *MethodDeclaration) TokenLiteral() string  { return m.Token.Lexeme }
func (m *MethodDeclaration) GetToken() token.Token { return m.Token }

// ClassDeclaration declares a class, optionally inheriting from a base.
type ClassDeclaration struct {
	Token   token.Token
	Name    *Identifier
	Base    *Identifier // nil if no base class
	Methods []*MethodDeclaration
}

func (c *ClassDeclaration) TokenLiteral() string  { return c.Token.Lexeme }
func (c *ClassDeclaration) GetToken() token.Token { return c.Token }
func (c *ClassDeclaration) statementNode()        {}

// VariableDeclaration declares a local or global: `let x = ...` /
// `const x = ...`, or a destructuring form `let [a, b, ...r] = ...`.
type VariableDeclaration struct {
	Token   token.Token
	Const   bool
	Name    *Identifier // simple binding form (mutually exclusive with Pattern)
	Pattern Pattern     // destructuring form
	Value   Expression  // nil if uninitialized (`let x;`)
}

func (v *VariableDeclaration) TokenLiteral() string  { return v.Token.Lexeme }
func (v *VariableDeclaration) GetToken() token.Token { return v.Token }
func (v *VariableDeclaration) statementNode()        {}
