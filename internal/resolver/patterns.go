package resolver

import "github.com/nxlang/nx/internal/ast"

// declarePattern recursively declares every binding a destructuring pattern
// introduces. A rest element must be the last element of a seq/tuple
// pattern; the parser already rejects one inside an object pattern.
//
// Every container pattern (seq/tuple/obj, at any nesting depth) reserves its
// own local slot for the value it destructures before declaring its
// elements' bindings, so the compiler can reload that value by slot rather
// than assume it sits at stack-top once a sibling binding has buried it.
// Only meaningful inside a function: at global scope every binding pops
// itself (OP_DEFINE_GLOBAL), so the container is never buried and the slot
// is left unset (-1).
func (r *Resolver) declarePattern(pat ast.Pattern, isConst bool) {
	switch p := pat.(type) {
	case *ast.BindingPattern:
		r.declareVariable(p.Name, isConst)
	case *ast.RestPattern:
		r.declareVariable(p.Name, isConst)
	case *ast.SeqPattern:
		p.ContainerSlot = r.reserveContainerSlot()
		r.declareElementList(p.Elements, isConst)
	case *ast.TuplePattern:
		p.ContainerSlot = r.reserveContainerSlot()
		r.declareElementList(p.Elements, isConst)
	case *ast.ObjPattern:
		p.ContainerSlot = r.reserveContainerSlot()
		for _, entry := range p.Entries {
			r.declarePattern(entry.Value, isConst)
		}
	}
}

// reserveContainerSlot reserves the next local slot for a container
// pattern's own value, or reports -1 at global scope where none is needed.
func (r *Resolver) reserveContainerSlot() int {
	return r.reserveContainerSlotNamed("$pattern")
}

// reserveContainerSlotNamed is reserveContainerSlot with a caller-chosen
// synthetic name, so the in-scope entry reads usefully (e.g. "$module" for
// a destructured import's own container).
func (r *Resolver) reserveContainerSlotNamed(name string) int {
	if r.inGlobalScope() {
		return -1
	}
	slot := r.fn.localCount
	r.injectSynthetic(name, slot)
	r.fn.localCount++
	return slot
}

func (r *Resolver) declareElementList(elems []ast.Pattern, isConst bool) {
	for i, el := range elems {
		if _, ok := el.(*ast.RestPattern); ok && i != len(elems)-1 {
			tok := el.GetToken()
			r.errorf(tok, "a rest binding must be the last element of a pattern")
		}
		r.declarePattern(el, isConst)
	}
}

func (r *Resolver) definePattern(pat ast.Pattern) {
	switch p := pat.(type) {
	case *ast.BindingPattern:
		r.defineVariable(p.Name.Ref)
	case *ast.RestPattern:
		r.defineVariable(p.Name.Ref)
	case *ast.SeqPattern:
		for _, el := range p.Elements {
			r.definePattern(el)
		}
	case *ast.TuplePattern:
		for _, el := range p.Elements {
			r.definePattern(el)
		}
	case *ast.ObjPattern:
		for _, entry := range p.Entries {
			r.definePattern(entry.Value)
		}
	}
}
