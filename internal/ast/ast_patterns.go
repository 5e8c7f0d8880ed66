package ast

import "github.com/nxlang/nx/internal/token"

// BindingPattern is a leaf pattern: a simple name binding.
type BindingPattern struct {
	Token token.Token
	Name  *Identifier
}

func (b *BindingPattern) TokenLiteral() string  { return b.Token.Lexeme }
func (b *BindingPattern) GetToken() token.Token { return b.Token }
func (b *BindingPattern) patternNode()          {}

// RestPattern: `...rest` — must be the last element of a seq/tuple pattern,
// and is rejected entirely in object patterns by the resolver.
type RestPattern struct {
	Token token.Token
	Name  *Identifier
}

func (r *RestPattern) TokenLiteral() string  { return r.Token.Lexeme }
func (r *RestPattern) GetToken() token.Token { return r.Token }
func (r *RestPattern) patternNode()          {}

// SeqPattern: `[a, b, ...r]`.
type SeqPattern struct {
	Token    token.Token
	Elements []Pattern

	// ContainerSlot is the local slot the resolver reserves to hold this
	// pattern's own container value for the duration of its extractions,
	// so each extraction can fetch it by slot instead of assuming it sits
	// at stack-top (an earlier local binding in the same pattern would
	// already have broken that assumption). -1 at global scope, where the
	// container is left at the top of the stack and popped once all its
	// bindings (each of which pops itself) are done.
	ContainerSlot int
}

func (s *SeqPattern) TokenLiteral() string  { return s.Token.Lexeme }
func (s *SeqPattern) GetToken() token.Token { return s.Token }
func (s *SeqPattern) patternNode()          {}

// TuplePattern: `(a, b)`.
type TuplePattern struct {
	Token    token.Token
	Elements []Pattern

	ContainerSlot int // see SeqPattern.ContainerSlot
}

func (t *TuplePattern) TokenLiteral() string  { return t.Token.Lexeme }
func (t *TuplePattern) GetToken() token.Token { return t.Token }
func (t *TuplePattern) patternNode()          {}

// ObjPatternEntry binds a named field of an object pattern, optionally
// renaming it (`{ a: x }` binds field `a` to local name `x`).
type ObjPatternEntry struct {
	Key   *Identifier
	Value Pattern
}

// ObjPattern: `{ a, b: c }`. A rest binding is never valid here.
type ObjPattern struct {
	Token   token.Token
	Entries []ObjPatternEntry

	ContainerSlot int // see SeqPattern.ContainerSlot
}

func (o *ObjPattern) TokenLiteral() string  { return o.Token.Lexeme }
func (o *ObjPattern) GetToken() token.Token { return o.Token }
func (o *ObjPattern) patternNode()          {}
