// Package vm implements the bytecode compiler and stack-based virtual
// machine: per-function compilation into a Chunk, dispatch over a value
// stack and call-frame stack, and a tracing garbage collector. Grounded on
// the teacher's internal/vm package (Value as a tagged struct, Chunk as a
// flat instruction array with parallel source-position tracking, a
// CallFrame-per-invocation dispatch loop) adapted to nx's object model
// from original_source/value.h and object.h.
package vm

import (
	"fmt"
	"math"
)

// ValueType tags the variant held by a Value.
type ValueType uint8

const (
	ValNil ValueType = iota
	ValBool
	ValInt
	ValFloat
	ValHandler // internal: a bytecode offset used by TRY's pushed handler value
	ValEmpty   // internal: hashtable tombstone / unset marker
	ValObj     // heap object: string, seq, tuple, function, closure, class, ...
)

// Value is a stack-allocated tagged union. Every non-heap variant fits in
// the Data word; heap variants additionally carry Obj.
type Value struct {
	Type ValueType
	Data uint64 // int64 bits, float64 bits, bool (0/1), or a handler offset
	Obj  Object
}

func Nil() Value                  { return Value{Type: ValNil} }
func Bool(b bool) Value           { d := uint64(0); if b { d = 1 }; return Value{Type: ValBool, Data: d} }
func Int(v int64) Value           { return Value{Type: ValInt, Data: uint64(v)} }
func Float(v float64) Value       { return Value{Type: ValFloat, Data: math.Float64bits(v)} }
func Handler(offset int) Value    { return Value{Type: ValHandler, Data: uint64(offset)} }
func Empty() Value                { return Value{Type: ValEmpty} }
func Obj(o Object) Value          { return Value{Type: ValObj, Obj: o} }

func (v Value) AsBool() bool      { return v.Data != 0 }
func (v Value) AsInt() int64      { return int64(v.Data) }
func (v Value) AsFloat() float64  { return math.Float64frombits(v.Data) }
func (v Value) AsHandler() int    { return int(v.Data) }

func (v Value) IsNil() bool    { return v.Type == ValNil }
func (v Value) IsNumber() bool { return v.Type == ValInt || v.Type == ValFloat }
func (v Value) IsObj() bool    { return v.Type == ValObj }

// IsTruthy: nil and false are falsy; everything else (including 0 and "")
// is truthy, matching original_source's IS_FALSEY (only NIL and false).
func (v Value) IsTruthy() bool {
	switch v.Type {
	case ValNil:
		return false
	case ValBool:
		return v.AsBool()
	default:
		return true
	}
}

// Class returns the value's class object, used as its runtime type tag for
// equality and dispatch. Primitive classes are installed once by the VM
// that owns this value (see vm.go's builtin class set).
func (v Value) Class(vm *VM) *ObjClass {
	switch v.Type {
	case ValNil:
		return vm.nilClass
	case ValBool:
		return vm.boolClass
	case ValInt:
		return vm.intClass
	case ValFloat:
		return vm.floatClass
	case ValObj:
		return v.Obj.Class(vm)
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.Type {
	case ValNil:
		return "nil"
	case ValBool:
		if v.AsBool() {
			return "true"
		}
		return "false"
	case ValInt:
		return fmt.Sprintf("%d", v.AsInt())
	case ValFloat:
		return fmt.Sprintf("%g", v.AsFloat())
	case ValObj:
		return v.Obj.String()
	default:
		return "<internal>"
	}
}

// Equal implements value equality: interned strings compare by identity
// (cheap because the interner guarantees one allocation per content),
// tuples compare by content, other heap objects by identity, numbers
// cross-compare int<->float.
func Equal(a, b Value) bool {
	if a.Type == ValInt && b.Type == ValFloat {
		return float64(a.AsInt()) == b.AsFloat()
	}
	if a.Type == ValFloat && b.Type == ValInt {
		return a.AsFloat() == float64(b.AsInt())
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case ValNil:
		return true
	case ValBool:
		return a.AsBool() == b.AsBool()
	case ValInt:
		return a.AsInt() == b.AsInt()
	case ValFloat:
		return a.AsFloat() == b.AsFloat()
	case ValHandler:
		return a.AsHandler() == b.AsHandler()
	case ValObj:
		if as, ok := a.Obj.(*ObjString); ok {
			bs, ok := b.Obj.(*ObjString)
			return ok && as == bs // interned: identity implies content equality
		}
		if at, ok := a.Obj.(*ObjTuple); ok {
			bt, ok := b.Obj.(*ObjTuple)
			return ok && equalTuples(at, bt)
		}
		return a.Obj == b.Obj
	default:
		return false
	}
}

func equalTuples(a, b *ObjTuple) bool {
	if a.Hash != b.Hash || len(a.Elements) != len(b.Elements) {
		return false
	}
	for i := range a.Elements {
		if !Equal(a.Elements[i], b.Elements[i]) {
			return false
		}
	}
	return true
}
