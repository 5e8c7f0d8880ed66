package vm

import (
	"fmt"
	"math"
	"strings"

	"github.com/nxlang/nx/internal/config"
)

// callValue handles a plain OP_CALL: the callee sits argc slots below the
// top of the stack, with its arguments above it.
func (vm *VM) callValue(callee Value, argc int) error {
	baseIdx := len(vm.stack) - 1 - argc
	return vm.enterCall(callee, baseIdx, argc)
}

// invoke handles OP_INVOKE: receiver.name(args), fusing the property
// lookup into the call instead of materializing a bound method first.
func (vm *VM) invoke(name string, argc int) error {
	recvIdx := len(vm.stack) - 1 - argc
	receiver := vm.stack[recvIdx]
	if receiver.Type == ValObj {
		if inst, ok := receiver.Obj.(*ObjInstance); ok {
			if v, ok := inst.Fields[name]; ok {
				return vm.enterCall(v, recvIdx, argc)
			}
			if m, ok := inst.Class.Resolve(name); ok {
				return vm.enterCall(m, recvIdx, argc)
			}
			return fmt.Errorf("undefined method %q", name)
		}
		if cls, ok := receiver.Obj.(*ObjClass); ok {
			if m, ok := cls.ResolveStatic(name); ok {
				return vm.enterCall(m, recvIdx, argc)
			}
			return fmt.Errorf("undefined static method %q", name)
		}
	}
	class := receiver.Class(vm)
	if class == nil {
		return fmt.Errorf("value has no methods")
	}
	if m, ok := class.Resolve(name); ok {
		return vm.enterCall(m, recvIdx, argc)
	}
	return fmt.Errorf("undefined method %q", name)
}

// baseInvoke handles OP_BASE_INVOKE: base.name(args), resolved from the
// base of the class that defined the currently executing method rather
// than the receiver's dynamic runtime class.
func (vm *VM) baseInvoke(frame *CallFrame, name string, argc int) error {
	base := vm.definingBase(frame)
	if base == nil {
		return fmt.Errorf("'base' has no superclass here")
	}
	m, ok := base.Resolve(name)
	if !ok {
		return fmt.Errorf("undefined base method %q", name)
	}
	recvIdx := len(vm.stack) - 1 - argc
	return vm.enterCall(m, recvIdx, argc)
}

// enterCall dispatches on the callee's dynamic kind: a managed closure
// pushes a new frame and lets the dispatch loop pick it up on the next
// iteration; a native runs in place; a bound method rebinds its receiver
// into the call slot and recurses; a class constructs an instance.
func (vm *VM) enterCall(callee Value, baseIdx, argc int) error {
	if callee.Type != ValObj {
		return fmt.Errorf("value is not callable")
	}
	switch fn := callee.Obj.(type) {
	case *ObjClosure:
		return vm.enterManaged(fn, baseIdx, argc, false)
	case *ObjNative:
		return vm.callNative(fn, baseIdx, argc)
	case *ObjBoundMethod:
		vm.stack[baseIdx] = fn.Receiver
		return vm.enterCall(fn.Method, baseIdx, argc)
	case *ObjClass:
		return vm.enterConstructor(fn, baseIdx, argc)
	default:
		return fmt.Errorf("value is not callable")
	}
}

func (vm *VM) enterManaged(fn *ObjClosure, baseIdx, argc int, isInit bool) error {
	want := fn.Function.Arity
	if fn.Function.IsVariadic {
		required := want - 1
		if argc < required {
			return fmt.Errorf("%s expects at least %d argument(s), got %d", fnLabel(fn), required, argc)
		}
		rest := append([]Value(nil), vm.stack[baseIdx+1+required:]...)
		vm.stack = vm.stack[:baseIdx+1+required]
		seq := NewSeq(rest)
		vm.trackAllocation(seq, 16+len(rest)*16)
		vm.push(Obj(seq))
	} else if argc != want {
		return fmt.Errorf("%s expects %d argument(s), got %d", fnLabel(fn), want, argc)
	}
	if len(vm.frames) >= config.FramesMax {
		return fmt.Errorf("stack overflow")
	}
	vm.frames = append(vm.frames, CallFrame{closure: fn, base: baseIdx, isInitializer: isInit})
	return nil
}

func fnLabel(fn *ObjClosure) string {
	if fn.Function.Name == "" {
		return "anonymous function"
	}
	return fn.Function.Name
}

func (vm *VM) callNative(fn *ObjNative, baseIdx, argc int) error {
	if fn.Arity >= 0 && argc != fn.Arity {
		return fmt.Errorf("%s expects %d argument(s), got %d", fn.Name, fn.Arity, argc)
	}
	args := append([]Value(nil), vm.stack[baseIdx+1:]...)
	result, err := fn.Fn(vm, args)
	if err != nil {
		return err
	}
	vm.stack = vm.stack[:baseIdx]
	vm.push(result)
	return nil
}

func (vm *VM) enterConstructor(class *ObjClass, baseIdx, argc int) error {
	inst := vm.NewInstance(class)
	vm.stack[baseIdx] = Obj(inst)
	if class.Ctor.IsNil() {
		if argc != 0 {
			return fmt.Errorf("%s takes no arguments", class.Name)
		}
		vm.stack = vm.stack[:baseIdx+1]
		return nil
	}
	switch ctor := class.Ctor.Obj.(type) {
	case *ObjClosure:
		return vm.enterManaged(ctor, baseIdx, argc, true)
	case *ObjNative:
		args := append([]Value(nil), vm.stack[baseIdx+1:]...)
		if ctor.Arity >= 0 && argc != ctor.Arity {
			return fmt.Errorf("%s expects %d argument(s), got %d", class.Name, ctor.Arity, argc)
		}
		if _, err := ctor.Fn(vm, args); err != nil {
			return err
		}
		vm.stack = vm.stack[:baseIdx+1]
		return nil
	}
	return fmt.Errorf("invalid constructor for %s", class.Name)
}

// callMethodSync runs a method to completion synchronously and returns its
// result, used by operator dispatch (__has, __to_str, __slice) that needs
// an answer mid-instruction rather than a new frame to pick up later.
func (vm *VM) callMethodSync(method Value, receiver Value, args []Value) (Value, error) {
	if method.Type != ValObj {
		return Value{}, fmt.Errorf("value not callable")
	}
	switch fn := method.Obj.(type) {
	case *ObjNative:
		return fn.Fn(vm, args)
	case *ObjClosure:
		base := len(vm.stack)
		vm.push(receiver)
		for _, a := range args {
			vm.push(a)
		}
		vm.frames = append(vm.frames, CallFrame{closure: fn, base: base})
		if err := vm.run(); err != nil {
			return Value{}, err
		}
		return vm.pop(), nil
	case *ObjBoundMethod:
		return vm.callMethodSync(fn.Method, fn.Receiver, args)
	}
	return Value{}, fmt.Errorf("value not callable")
}

// captureUpvalue returns the open upvalue for stack slot `slot`, reusing
// one already captured by another closure if the list (kept sorted
// descending by slot) already has it.
func (vm *VM) captureUpvalue(slot int) *ObjUpvalue {
	var prev *ObjUpvalue
	cur := vm.openUpvalues
	for cur != nil && cur.slot > slot {
		prev = cur
		cur = cur.next
	}
	if cur != nil && cur.slot == slot {
		return cur
	}
	uv := &ObjUpvalue{Location: &vm.stack[slot], slot: slot, next: cur}
	vm.trackAllocation(uv, 24)
	if prev == nil {
		vm.openUpvalues = uv
	} else {
		prev.next = uv
	}
	return uv
}

// closeUpvalues closes every open upvalue pointing at or above stack index
// `from`, copying its value off the stack before the frame that owns it
// is torn down.
func (vm *VM) closeUpvalues(from int) {
	for vm.openUpvalues != nil && vm.openUpvalues.slot >= from {
		uv := vm.openUpvalues
		uv.Close()
		vm.openUpvalues = uv.next
	}
}

// throwRuntime builds an interned-string error value and throws it,
// the way a faulting opcode (type mismatch, division by zero, undefined
// name) reports failure without a user `throw` statement.
func (vm *VM) throwRuntime(format string, args ...interface{}) error {
	return vm.throwValue(Obj(vm.InternString(fmt.Sprintf(format, args...))))
}

// throwValue implements OP_THROW's unwind: find the nearest handler value
// on the data stack, discard everything above and including it, pop any
// call frames that lived above that point, and resume at the handler's
// target. An empty search means the error reached the top uncaught.
func (vm *VM) throwValue(v Value) error {
	vm.currentError = v
	for i := len(vm.stack) - 1; i >= 0; i-- {
		if vm.stack[i].Type != ValHandler {
			continue
		}
		target := vm.stack[i].AsHandler()
		vm.stack = vm.stack[:i]
		for len(vm.frames) > 0 && vm.frames[len(vm.frames)-1].base > i {
			vm.frames = vm.frames[:len(vm.frames)-1]
		}
		if len(vm.frames) == 0 {
			return &RuntimeError{Value: v}
		}
		vm.frames[len(vm.frames)-1].ip = target
		return nil
	}
	return &RuntimeError{Value: v}
}

func toFloat(v Value) float64 {
	if v.Type == ValInt {
		return float64(v.AsInt())
	}
	return v.AsFloat()
}

// execArith implements ADD/SUB/MUL/DIV/MOD: int/int stays exact, any float
// operand promotes both sides, string/string ADD concatenates, seq/seq ADD
// concatenates.
func (vm *VM) execArith(op Opcode) error {
	b := vm.pop()
	a := vm.pop()
	if a.Type == ValObj || b.Type == ValObj {
		if op == OpAdd {
			if as, ok := a.Obj.(*ObjString); a.Type == ValObj && ok {
				if bs, ok2 := b.Obj.(*ObjString); b.Type == ValObj && ok2 {
					vm.push(Obj(vm.InternString(as.Value + bs.Value)))
					return nil
				}
			}
			if aseq, ok := a.Obj.(*ObjSeq); a.Type == ValObj && ok {
				if bseq, ok2 := b.Obj.(*ObjSeq); b.Type == ValObj && ok2 {
					elems := append(append([]Value{}, aseq.Elements...), bseq.Elements...)
					seq := NewSeq(elems)
					vm.trackAllocation(seq, 16+len(elems)*16)
					vm.push(Obj(seq))
					return nil
				}
			}
		}
		return fmt.Errorf("unsupported operand types for arithmetic")
	}
	if !a.IsNumber() || !b.IsNumber() {
		return fmt.Errorf("unsupported operand types for arithmetic")
	}
	if a.Type == ValInt && b.Type == ValInt {
		x, y := a.AsInt(), b.AsInt()
		switch op {
		case OpAdd:
			vm.push(Int(x + y))
		case OpSub:
			vm.push(Int(x - y))
		case OpMul:
			vm.push(Int(x * y))
		case OpDiv:
			if y == 0 {
				return fmt.Errorf("division by zero")
			}
			vm.push(Int(x / y))
		case OpMod:
			if y == 0 {
				return fmt.Errorf("division by zero")
			}
			vm.push(Int(x % y))
		}
		return nil
	}
	fa, fb := toFloat(a), toFloat(b)
	switch op {
	case OpAdd:
		vm.push(Float(fa + fb))
	case OpSub:
		vm.push(Float(fa - fb))
	case OpMul:
		vm.push(Float(fa * fb))
	case OpDiv:
		vm.push(Float(fa / fb))
	case OpMod:
		vm.push(Float(math.Mod(fa, fb)))
	}
	return nil
}

// execCompare implements LT/GT/LTEQ/GTEQ over numbers (cross int/float)
// and lexicographic string comparison.
func (vm *VM) execCompare(op Opcode) error {
	b := vm.pop()
	a := vm.pop()
	if a.Type == ValObj && b.Type == ValObj {
		as, aok := a.Obj.(*ObjString)
		bs, bok := b.Obj.(*ObjString)
		if aok && bok {
			vm.push(Bool(stringCompare(as.Value, bs.Value, op)))
			return nil
		}
		return fmt.Errorf("unsupported operand types for comparison")
	}
	if !a.IsNumber() || !b.IsNumber() {
		return fmt.Errorf("unsupported operand types for comparison")
	}
	fa, fb := toFloat(a), toFloat(b)
	var res bool
	switch op {
	case OpLt:
		res = fa < fb
	case OpGt:
		res = fa > fb
	case OpLtEq:
		res = fa <= fb
	case OpGtEq:
		res = fa >= fb
	}
	vm.push(Bool(res))
	return nil
}

func stringCompare(a, b string, op Opcode) bool {
	switch op {
	case OpLt:
		return a < b
	case OpGt:
		return a > b
	case OpLtEq:
		return a <= b
	case OpGtEq:
		return a >= b
	}
	return false
}

// isInstanceOf walks v's class chain looking for class, implementing the
// `is` operator.
func isInstanceOf(vm *VM, v Value, class *ObjClass) bool {
	if class == nil {
		return false
	}
	for c := v.Class(vm); c != nil; c = c.Base {
		if c == class {
			return true
		}
	}
	return false
}

// execIn implements `in`: membership for seq/tuple by equality, substring
// for strings, __has dispatch (falling back to field presence) for
// instances.
func (vm *VM) execIn(v, collection Value) (bool, error) {
	if collection.Type == ValObj {
		switch c := collection.Obj.(type) {
		case *ObjSeq:
			for _, e := range c.Elements {
				if Equal(e, v) {
					return true, nil
				}
			}
			return false, nil
		case *ObjTuple:
			for _, e := range c.Elements {
				if Equal(e, v) {
					return true, nil
				}
			}
			return false, nil
		case *ObjString:
			if s, ok := v.Obj.(*ObjString); v.Type == ValObj && ok {
				return strings.Contains(c.Value, s.Value), nil
			}
			return false, fmt.Errorf("'in' requires a string operand for a string container")
		case *ObjInstance:
			if !c.Class.HasM.IsNil() {
				res, err := vm.callMethodSync(c.Class.HasM, collection, []Value{v})
				if err != nil {
					return false, err
				}
				return res.IsTruthy(), nil
			}
			if s, ok := v.Obj.(*ObjString); v.Type == ValObj && ok {
				_, ok2 := c.Fields[s.Value]
				return ok2, nil
			}
			return false, nil
		}
	}
	return false, fmt.Errorf("value does not support 'in'")
}

// sliceValue implements GET_SLICE for seq/tuple/string (Go-style half-open
// ranges with nil bounds left open) and __slice dispatch for instances.
func (vm *VM) sliceValue(recv, from, to Value) (Value, error) {
	if recv.Type == ValObj {
		switch r := recv.Obj.(type) {
		case *ObjSeq:
			start, end, err := resolveSliceBounds(from, to, len(r.Elements))
			if err != nil {
				return Value{}, err
			}
			elems := append([]Value{}, r.Elements[start:end]...)
			seq := NewSeq(elems)
			vm.trackAllocation(seq, 16+len(elems)*16)
			return Obj(seq), nil
		case *ObjTuple:
			start, end, err := resolveSliceBounds(from, to, len(r.Elements))
			if err != nil {
				return Value{}, err
			}
			elems := append([]Value{}, r.Elements[start:end]...)
			tup := NewTuple(elems)
			vm.trackAllocation(tup, 16+len(elems)*16)
			return Obj(tup), nil
		case *ObjString:
			start, end, err := resolveSliceBounds(from, to, len(r.Value))
			if err != nil {
				return Value{}, err
			}
			return Obj(vm.InternString(r.Value[start:end])), nil
		case *ObjInstance:
			if !r.Class.SliceM.IsNil() {
				return vm.callMethodSync(r.Class.SliceM, recv, []Value{from, to})
			}
		}
	}
	return Value{}, fmt.Errorf("value does not support slicing")
}

func resolveSliceBounds(from, to Value, length int) (int, int, error) {
	start, end := 0, length
	if !from.IsNil() {
		if from.Type != ValInt {
			return 0, 0, fmt.Errorf("slice bounds must be int")
		}
		start = clampIndex(int(from.AsInt()), length)
	}
	if !to.IsNil() {
		if to.Type != ValInt {
			return 0, 0, fmt.Errorf("slice bounds must be int")
		}
		end = clampIndex(int(to.AsInt()), length)
	}
	if end < start {
		end = start
	}
	return start, end, nil
}

func clampIndex(i, length int) int {
	if i < 0 {
		i += length
	}
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}

// stringify renders a value for PRINT and implicit string conversion,
// deferring to a class's __to_str override when one is cached.
// Stringify is stringify, exported for native modules (e.g. Json.stringify's
// fallback for values with no built-in JSON shape) that need the same
// __to_str-aware rendering PRINT uses.
func (vm *VM) Stringify(v Value) string { return vm.stringify(v) }

func (vm *VM) stringify(v Value) string {
	if inst, ok := v.Obj.(*ObjInstance); v.Type == ValObj && ok {
		if !inst.Class.ToStrM.IsNil() {
			res, err := vm.callMethodSync(inst.Class.ToStrM, v, nil)
			if err == nil {
				if s, ok := res.Obj.(*ObjString); res.Type == ValObj && ok {
					return s.Value
				}
			}
		}
	}
	return v.String()
}
