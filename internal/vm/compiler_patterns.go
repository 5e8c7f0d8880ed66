package vm

import (
	"github.com/nxlang/nx/internal/ast"
	"github.com/nxlang/nx/internal/token"
)

// compilePatternBind destructures the container value on top of the stack
// into every binding the pattern introduces, in the same left-to-right,
// depth-first order the resolver declared them in, so sequential local slot
// indices line up with the extractions' pushes.
func (c *compiler) compilePatternBind(pat ast.Pattern) {
	c.compileContainerPattern(pat)
	if containerSlotOf(pat) < 0 {
		c.emit(OpPop, pat.GetToken())
	}
}

// containerSlotOf returns the local slot the resolver reserved to hold a
// container pattern's own value for the duration of its extractions, or -1
// at global scope (where the container sits at stack-top throughout, since
// every binding there pops itself via OP_DEFINE_GLOBAL).
func containerSlotOf(pat ast.Pattern) int {
	switch p := pat.(type) {
	case *ast.SeqPattern:
		return p.ContainerSlot
	case *ast.TuplePattern:
		return p.ContainerSlot
	case *ast.ObjPattern:
		return p.ContainerSlot
	}
	return -1
}

// dupeContainer pushes another reference to a pattern's container value:
// a fresh local read if it has its own reserved slot, otherwise a plain
// stack dupe (global scope, or a container consumed in place).
func (c *compiler) dupeContainer(containerSlot int, pos token.Token) {
	if containerSlot >= 0 {
		c.emit(OpGetLocal, pos)
		c.emitWord(uint16(containerSlot), pos)
		return
	}
	c.emit(OpDupe, pos)
	c.emitWord(0, pos)
}

func (c *compiler) compileContainerPattern(pat ast.Pattern) {
	switch p := pat.(type) {
	case *ast.SeqPattern:
		c.bindSeqElements(p.Elements, p.ContainerSlot)
	case *ast.TuplePattern:
		c.bindSeqElements(p.Elements, p.ContainerSlot)
	case *ast.ObjPattern:
		for _, entry := range p.Entries {
			pos := entry.Key.Token
			c.dupeContainer(p.ContainerSlot, pos)
			c.emitConstant(Obj(c.vm.InternString(entry.Key.Value)), pos)
			c.emit(OpGetSubscript, pos)
			c.bindOne(entry.Value)
		}
	}
}

func (c *compiler) bindSeqElements(elements []ast.Pattern, containerSlot int) {
	for i, el := range elements {
		pos := el.GetToken()
		if rp, ok := el.(*ast.RestPattern); ok {
			c.dupeContainer(containerSlot, pos)
			c.emitConstant(Int(int64(i)), pos)
			c.emit(OpNil, pos) // open upper bound: rest runs to the end
			c.emit(OpGetSlice, pos)
			c.bindLeaf(rp.Name)
			continue
		}
		c.dupeContainer(containerSlot, pos)
		c.emitConstant(Int(int64(i)), pos)
		c.emit(OpGetSubscript, pos)
		c.bindOne(el)
	}
}

func (c *compiler) bindOne(pat ast.Pattern) {
	if bp, ok := pat.(*ast.BindingPattern); ok {
		c.bindLeaf(bp.Name)
		return
	}
	// A nested container pattern (e.g. `[a, [b, c]]`) extracts from the
	// value just pushed for this element, which has its own reserved slot
	// just like a top-level pattern's container.
	c.compileContainerPattern(pat)
	if containerSlotOf(pat) < 0 {
		c.emit(OpPop, pat.GetToken())
	}
}

func (c *compiler) bindLeaf(id *ast.Identifier) {
	c.defineBinding(id, id.Token)
}
