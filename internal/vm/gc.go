package vm

import "github.com/nxlang/nx/internal/config"

// gcState tracks the tri-color collector's allocation accounting and the
// intrusive object chain every heap allocation joins. Grounded on
// original_source/memory.c's bytes_allocated/next_gc scheduling.
type gcState struct {
	bytesAllocated int
	nextGC         int
	paused         bool
	stress         bool
	objects        Object // intrusive linked list head, threaded through gcHeader.next
}

// trackAllocation links obj into the object chain and charges size against
// the allocation budget, collecting first if the budget (or stress mode)
// demands it.
func (vm *VM) trackAllocation(obj Object, size int) {
	if vm.gc.stress || (!vm.gc.paused && vm.gc.bytesAllocated+size > vm.gc.nextGC) {
		vm.collectGarbage()
	}
	vm.gc.bytesAllocated += size
	linkObject(obj, vm)
}

// linkObject threads obj onto the head of the intrusive GC chain via its
// embedded gcHeader. Every heap type in objects.go exposes this through a
// small non-exported accessor so the GC doesn't need a type switch to
// reach the header.
func linkObject(obj Object, vm *VM) {
	switch o := obj.(type) {
	case *ObjString:
		o.next, vm.gc.objects = vm.gc.objects, o
	case *ObjSeq:
		o.next, vm.gc.objects = vm.gc.objects, o
	case *ObjTuple:
		o.next, vm.gc.objects = vm.gc.objects, o
	case *ObjFunction:
		o.next, vm.gc.objects = vm.gc.objects, o
	case *ObjClosure:
		o.next, vm.gc.objects = vm.gc.objects, o
	case *ObjUpvalue:
		o.next, vm.gc.objects = vm.gc.objects, o
	case *ObjClass:
		o.next, vm.gc.objects = vm.gc.objects, o
	case *ObjInstance:
		o.next, vm.gc.objects = vm.gc.objects, o
	case *ObjBoundMethod:
		o.next, vm.gc.objects = vm.gc.objects, o
	case *ObjNative:
		o.next, vm.gc.objects = vm.gc.objects, o
	}
}

// collectGarbage runs one stop-the-world tri-color mark-and-sweep cycle:
// gray every root, drain the worklist tracing owned references, sweep the
// object chain freeing anything left white, and weakly prune the interned
// string table.
func (vm *VM) collectGarbage() {
	if vm.gc.paused {
		return
	}
	var gray []Object

	mark := func(o Object) {
		if o == nil || isMarked(o) {
			return
		}
		setMarked(o, true)
		gray = append(gray, o)
	}

	for _, v := range vm.stack {
		if v.Type == ValObj {
			mark(v.Obj)
		}
	}
	for _, f := range vm.frames {
		mark(f.closure)
	}
	for uv := vm.openUpvalues; uv != nil; uv = uv.next {
		mark(uv)
	}
	for _, m := range vm.modules {
		m.Globals.Each(func(_ *ObjString, v Value) {
			if v.Type == ValObj {
				mark(v.Obj)
			}
		})
	}
	for _, n := range vm.natives {
		mark(n)
	}
	if vm.currentError.Type == ValObj {
		mark(vm.currentError.Obj)
	}

	for len(gray) > 0 {
		o := gray[len(gray)-1]
		gray = gray[:len(gray)-1]
		blacken(o, mark)
	}

	vm.strings.RemoveWhite(func(s *ObjString) bool { return isMarked(s) })

	vm.sweep()
	vm.gc.nextGC = vm.gc.bytesAllocated * config.GCGrowFactor
}

func blacken(o Object, mark func(Object)) {
	switch t := o.(type) {
	case *ObjClosure:
		mark(t.Function)
		for _, uv := range t.Upvalues {
			mark(uv)
		}
	case *ObjFunction:
		for _, c := range t.Chunk.Constants {
			if c.Type == ValObj {
				mark(c.Obj)
			}
		}
		if t.DefiningClass != nil {
			mark(t.DefiningClass)
		}
	case *ObjClass:
		for _, m := range t.Methods {
			if m.Type == ValObj {
				mark(m.Obj)
			}
		}
		for _, m := range t.Statics {
			if m.Type == ValObj {
				mark(m.Obj)
			}
		}
		for _, f := range t.Fields {
			if f.Type == ValObj {
				mark(f.Obj)
			}
		}
		if t.Base != nil {
			mark(t.Base)
		}
	case *ObjInstance:
		mark(t.Class)
		for _, v := range t.Fields {
			if v.Type == ValObj {
				mark(v.Obj)
			}
		}
	case *ObjSeq:
		for _, v := range t.Elements {
			if v.Type == ValObj {
				mark(v.Obj)
			}
		}
	case *ObjTuple:
		for _, v := range t.Elements {
			if v.Type == ValObj {
				mark(v.Obj)
			}
		}
	case *ObjBoundMethod:
		if t.Receiver.Type == ValObj {
			mark(t.Receiver.Obj)
		}
		if t.Method.Type == ValObj {
			mark(t.Method.Obj)
		}
	case *ObjUpvalue:
		if t.Location != nil && t.Location.Type == ValObj {
			mark(t.Location.Obj)
		}
	}
}

func (vm *VM) sweep() {
	var prev Object
	obj := vm.gc.objects
	for obj != nil {
		next := objNext(obj)
		if isMarked(obj) {
			setMarked(obj, false)
			prev = obj
			obj = next
			continue
		}
		if prev == nil {
			vm.gc.objects = next
		} else {
			setNext(prev, next)
		}
		obj = next
	}
}

func isMarked(o Object) bool {
	switch t := o.(type) {
	case *ObjString:
		return t.marked
	case *ObjSeq:
		return t.marked
	case *ObjTuple:
		return t.marked
	case *ObjFunction:
		return t.marked
	case *ObjClosure:
		return t.marked
	case *ObjUpvalue:
		return t.marked
	case *ObjClass:
		return t.marked
	case *ObjInstance:
		return t.marked
	case *ObjBoundMethod:
		return t.marked
	case *ObjNative:
		return t.marked
	}
	return true
}

func setMarked(o Object, v bool) {
	switch t := o.(type) {
	case *ObjString:
		t.marked = v
	case *ObjSeq:
		t.marked = v
	case *ObjTuple:
		t.marked = v
	case *ObjFunction:
		t.marked = v
	case *ObjClosure:
		t.marked = v
	case *ObjUpvalue:
		t.marked = v
	case *ObjClass:
		t.marked = v
	case *ObjInstance:
		t.marked = v
	case *ObjBoundMethod:
		t.marked = v
	case *ObjNative:
		t.marked = v
	}
}

func objNext(o Object) Object {
	switch t := o.(type) {
	case *ObjString:
		return t.next
	case *ObjSeq:
		return t.next
	case *ObjTuple:
		return t.next
	case *ObjFunction:
		return t.next
	case *ObjClosure:
		return t.next
	case *ObjUpvalue:
		return t.next
	case *ObjClass:
		return t.next
	case *ObjInstance:
		return t.next
	case *ObjBoundMethod:
		return t.next
	case *ObjNative:
		return t.next
	}
	return nil
}

func setNext(o Object, next Object) {
	switch t := o.(type) {
	case *ObjString:
		t.next = next
	case *ObjSeq:
		t.next = next
	case *ObjTuple:
		t.next = next
	case *ObjFunction:
		t.next = next
	case *ObjClosure:
		t.next = next
	case *ObjUpvalue:
		t.next = next
	case *ObjClass:
		t.next = next
	case *ObjInstance:
		t.next = next
	case *ObjBoundMethod:
		t.next = next
	case *ObjNative:
		t.next = next
	}
}
