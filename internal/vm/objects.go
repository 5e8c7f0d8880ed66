package vm

import (
	"fmt"
	"strings"
)

// Object is the interface every heap value implements. Grounded on
// original_source/object.h's Obj header (type tag + GC link fields) but
// expressed as a Go interface with an embedded gcHeader struct instead of
// an intrusive C struct field.
type Object interface {
	objType() ObjType
	String() string
	Class(vm *VM) *ObjClass
}

// ObjType discriminates the heap object kinds for GC tracing and dynamic
// introspection (`is` dispatch falls back to these when a user class isn't
// involved, e.g. "is Function").
type ObjType int

const (
	ObjTString ObjType = iota
	ObjTSeq
	ObjTTuple
	ObjTFunction
	ObjTClosure
	ObjTUpvalue
	ObjTClass
	ObjTInstance
	ObjTBoundMethod
	ObjTNative
)

// gcHeader is embedded in every heap object: the mark bit and the
// intrusive linked-list pointer the collector walks during sweep.
type gcHeader struct {
	marked bool
	next   Object
}

// ObjString is an immutable interned byte sequence.
type ObjString struct {
	gcHeader
	Value string
	Hash  uint32
}

func (s *ObjString) objType() ObjType      { return ObjTString }
func (s *ObjString) String() string        { return s.Value }
func (s *ObjString) Class(vm *VM) *ObjClass { return vm.stringClass }

func hashString(s string) uint32 {
	// FNV-1a, matching original_source/table.c's hash_string.
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

// ObjSeq is a mutable growable array, hashed (and equality-compared) by
// identity.
type ObjSeq struct {
	gcHeader
	Elements []Value
}

func NewSeq(elems []Value) *ObjSeq { return &ObjSeq{Elements: elems} }

func (s *ObjSeq) objType() ObjType { return ObjTSeq }
func (s *ObjSeq) String() string {
	parts := make([]string, len(s.Elements))
	for i, e := range s.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (s *ObjSeq) Class(vm *VM) *ObjClass { return vm.seqClass }

// ObjTuple is immutable; its hash and elements are fixed at construction.
type ObjTuple struct {
	gcHeader
	Elements []Value
	Hash     uint32
}

func NewTuple(elems []Value) *ObjTuple {
	var h uint32 = 2166136261
	for _, e := range elems {
		h ^= uint32(e.Type)*0x9e3779b1 + uint32(e.Data)
		h *= 16777619
	}
	return &ObjTuple{Elements: elems, Hash: h}
}

func (t *ObjTuple) objType() ObjType { return ObjTTuple }
func (t *ObjTuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t *ObjTuple) Class(vm *VM) *ObjClass { return vm.tupleClass }

// ObjFunction is the compiled body of one nx function: a named or
// anonymous chunk of bytecode plus its arity and upvalue count.
type ObjFunction struct {
	gcHeader
	Name       string
	Arity      int
	IsVariadic bool
	UpvalueCnt int
	Chunk      *Chunk
	Module     *Module // the module whose globals this function's free names resolve against

	// DefiningClass is set by METHOD for a class's own methods: the class
	// whose method body this is, used by base.method() to start its lookup
	// from the defining class's base rather than the receiver's dynamic
	// (possibly further-derived) runtime class.
	DefiningClass *ObjClass
}

func (f *ObjFunction) objType() ObjType { return ObjTFunction }
func (f *ObjFunction) String() string {
	if f.Name == "" {
		return "<fn anonymous>"
	}
	return fmt.Sprintf("<fn %s>", f.Name)
}
func (f *ObjFunction) Class(vm *VM) *ObjClass { return vm.functionClass }

// ObjUpvalue is a captured local. While the owning frame is live, Location
// points at a live stack slot (open); Close copies the value into Closed
// and rebinds Location to point at it.
type ObjUpvalue struct {
	gcHeader
	Location *Value
	Closed   Value
	slot     int         // stack index Location points at while open; unused once closed
	next     *ObjUpvalue // open-upvalue list, sorted descending by stack position
}

func (u *ObjUpvalue) objType() ObjType { return ObjTUpvalue }
func (u *ObjUpvalue) String() string   { return "<upvalue>" }
func (u *ObjUpvalue) Class(vm *VM) *ObjClass { return nil }

func (u *ObjUpvalue) Close() {
	u.Closed = *u.Location
	u.Location = &u.Closed
}

// ObjClosure pairs a compiled ObjFunction with its captured upvalues.
type ObjClosure struct {
	gcHeader
	Function *ObjFunction
	Upvalues []*ObjUpvalue
}

func (c *ObjClosure) objType() ObjType { return ObjTClosure }
func (c *ObjClosure) String() string   { return c.Function.String() }
func (c *ObjClosure) Class(vm *VM) *ObjClass { return vm.functionClass }

// NativeFn is a Go-implemented function invoked in-place by the VM: no new
// call frame is pushed. It receives the VM (for allocation/error raising)
// and the argument slice, returning the result or an error value to throw.
type NativeFn func(vm *VM, args []Value) (Value, error)

type ObjNative struct {
	gcHeader
	Name  string
	Arity int // -1 for variadic
	Fn    NativeFn
}

func (n *ObjNative) objType() ObjType { return ObjTNative }
func (n *ObjNative) String() string   { return fmt.Sprintf("<native %s>", n.Name) }
func (n *ObjNative) Class(vm *VM) *ObjClass { return vm.functionClass }

// capability function pointers implement a class's property/subscript
// protocol, overridable per class the way original_source/object.h's
// ObjClass.get_prop/set_prop/get_subs/set_subs are.
type getPropFn func(vm *VM, receiver Value, name string) (Value, bool)
type setPropFn func(vm *VM, receiver Value, name string, val Value) bool
type getSubsFn func(vm *VM, receiver Value, index Value) (Value, error)
type setSubsFn func(vm *VM, receiver Value, index Value, val Value) error

// ObjClass describes a user-defined (or builtin) class: its method table,
// optional base, capability hooks, and special methods cached at
// finalization.
type ObjClass struct {
	gcHeader
	Name     string
	Base     *ObjClass
	Methods  map[string]Value // name -> ObjClosure/ObjNative
	Statics  map[string]Value
	Fields   map[string]Value // static-initialized instance field defaults, if any

	GetProp getPropFn
	SetProp setPropFn
	GetSubs getSubsFn
	SetSubs setSubsFn

	Ctor   Value
	HasM   Value
	ToStrM Value
	SliceM Value
}

func NewClass(name string) *ObjClass {
	c := &ObjClass{Name: name, Methods: map[string]Value{}, Statics: map[string]Value{}, Fields: map[string]Value{}}
	c.GetProp = defaultGetProp
	c.SetProp = defaultSetProp
	c.GetSubs = defaultGetSubs
	c.SetSubs = defaultSetSubs
	return c
}

func (c *ObjClass) objType() ObjType { return ObjTClass }
func (c *ObjClass) String() string   { return fmt.Sprintf("<class %s>", c.Name) }
func (c *ObjClass) Class(vm *VM) *ObjClass { return vm.classClass }

// Resolve looks up a method by name on this class or its base chain.
func (c *ObjClass) Resolve(name string) (Value, bool) {
	for k := c; k != nil; k = k.Base {
		if m, ok := k.Methods[name]; ok {
			return m, true
		}
	}
	return Value{}, false
}

// ResolveStatic looks up a static member (a static method, or a bundled
// native module's function) by name on this class or its base chain.
func (c *ObjClass) ResolveStatic(name string) (Value, bool) {
	for k := c; k != nil; k = k.Base {
		if v, ok := k.Statics[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Finalize links the special-method caches and fills any capability hook
// left nil from its base (INHERIT has already copied the base's hooks onto
// the class), mirroring the compiler's FINALIZE opcode semantics.
func (c *ObjClass) Finalize() {
	if c.Ctor.IsNil() {
		if m, ok := c.Resolve("ctor"); ok {
			c.Ctor = m
		}
	}
	if m, ok := c.Resolve("__has"); ok {
		c.HasM = m
	}
	if m, ok := c.Resolve("__to_str"); ok {
		c.ToStrM = m
	}
	if m, ok := c.Resolve("__slice"); ok {
		c.SliceM = m
	}
	if c.Base != nil {
		if c.GetProp == nil {
			c.GetProp = c.Base.GetProp
		}
		if c.SetProp == nil {
			c.SetProp = c.Base.SetProp
		}
		if c.GetSubs == nil {
			c.GetSubs = c.Base.GetSubs
		}
		if c.SetSubs == nil {
			c.SetSubs = c.Base.SetSubs
		}
	}
}

// ObjInstance is the representation for both user-class instances and
// anonymous object literals (whose class is the VM's shared "obj" class).
type ObjInstance struct {
	gcHeader
	Class  *ObjClass
	Fields map[string]Value
}

func NewInstance(class *ObjClass) *ObjInstance {
	return &ObjInstance{Class: class, Fields: map[string]Value{}}
}

func (o *ObjInstance) objType() ObjType { return ObjTInstance }
func (o *ObjInstance) String() string {
	if m, ok := o.Fields["__name"]; ok {
		return fmt.Sprintf("<%s %s>", o.Class.Name, m.String())
	}
	return fmt.Sprintf("<%s instance>", o.Class.Name)
}
func (o *ObjInstance) Class_() *ObjClass    { return o.Class }
func (o *ObjInstance) Class(vm *VM) *ObjClass { return o.Class }

// ObjBoundMethod pairs a receiver with the method closure/native fetched
// off its class, produced when GET_PROPERTY resolves to a method.
type ObjBoundMethod struct {
	gcHeader
	Receiver Value
	Method   Value
}

func (b *ObjBoundMethod) objType() ObjType { return ObjTBoundMethod }
func (b *ObjBoundMethod) String() string   { return b.Method.String() }
func (b *ObjBoundMethod) Class(vm *VM) *ObjClass { return vm.functionClass }

// defaultGetProp first tries the instance's own field table, then binds a
// matching method from its class.
func defaultGetProp(vm *VM, receiver Value, name string) (Value, bool) {
	inst, ok := receiver.Obj.(*ObjInstance)
	if !ok {
		return Value{}, false
	}
	if v, ok := inst.Fields[name]; ok {
		return v, true
	}
	if m, ok := inst.Class.Resolve(name); ok {
		return Obj(vm.newBoundMethod(receiver, m)), true
	}
	return Value{}, false
}

// classGetProp resolves a static member off a class value itself, e.g. a
// static method (`MyClass.make()`) or a bundled native module's function
// (`File.read(...)`, with the module represented as a class whose Statics
// table holds its natives).
func classGetProp(vm *VM, receiver Value, name string) (Value, bool) {
	cls, ok := receiver.Obj.(*ObjClass)
	if !ok {
		return Value{}, false
	}
	if v, ok := cls.ResolveStatic(name); ok {
		return v, true
	}
	return Value{}, false
}

func defaultSetProp(vm *VM, receiver Value, name string, val Value) bool {
	inst, ok := receiver.Obj.(*ObjInstance)
	if !ok {
		return false
	}
	inst.Fields[name] = val
	return true
}

func defaultGetSubs(vm *VM, receiver Value, index Value) (Value, error) {
	switch r := receiver.Obj.(type) {
	case *ObjSeq:
		i, ok, err := getIndexInto(index, len(r.Elements))
		if err != nil {
			return Value{}, err
		}
		if !ok {
			return Nil(), nil
		}
		return r.Elements[i], nil
	case *ObjTuple:
		i, ok, err := getIndexInto(index, len(r.Elements))
		if err != nil {
			return Value{}, err
		}
		if !ok {
			return Nil(), nil
		}
		return r.Elements[i], nil
	case *ObjString:
		i, ok, err := getIndexInto(index, len(r.Value))
		if err != nil {
			return Value{}, err
		}
		if !ok {
			return Nil(), nil
		}
		return Obj(vm.InternString(string(r.Value[i]))), nil
	case *ObjInstance:
		if index.Type == ValObj {
			if s, ok := index.Obj.(*ObjString); ok {
				if v, ok := r.Fields[s.Value]; ok {
					return v, nil
				}
			}
		}
	}
	return Nil(), fmt.Errorf("value does not support subscript access")
}

func defaultSetSubs(vm *VM, receiver Value, index Value, val Value) error {
	switch r := receiver.Obj.(type) {
	case *ObjSeq:
		i, err := indexInto(index, len(r.Elements))
		if err != nil {
			return err
		}
		r.Elements[i] = val
		return nil
	case *ObjInstance:
		if s, ok := index.Obj.(*ObjString); ok {
			r.Fields[s.Value] = val
			return nil
		}
	}
	return fmt.Errorf("value does not support subscript assignment")
}

// indexInto resolves a subscript index for set-subscript, where an
// out-of-range index is a runtime error.
func indexInto(index Value, length int) (int, error) {
	if index.Type != ValInt {
		return 0, fmt.Errorf("subscript index must be an int")
	}
	i := int(index.AsInt())
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return 0, fmt.Errorf("index out of range")
	}
	return i, nil
}

// getIndexInto resolves a subscript index for get-subscript, where a
// non-int index is still a type error but an index still out of bounds
// after the negative-index adjustment yields "no such element" (ok=false)
// rather than an error, so the caller can answer nil instead of throwing.
func getIndexInto(index Value, length int) (i int, ok bool, err error) {
	if index.Type != ValInt {
		return 0, false, fmt.Errorf("subscript index must be an int")
	}
	i = int(index.AsInt())
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return 0, false, nil
	}
	return i, true, nil
}
