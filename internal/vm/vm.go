package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/nxlang/nx/internal/config"
	"github.com/nxlang/nx/internal/diagnostics"
)

// CallFrame is one ongoing invocation: the closure being executed, its
// instruction pointer, and the base slot its locals start at on the value
// stack. Grounded on the teacher's CallFrame (closure + ip + base).
type CallFrame struct {
	closure       *ObjClosure
	ip            int
	base          int
	isInitializer bool // true when this frame is a class's ctor: RETURN yields the receiver, not the popped value
}

// VM is the single-threaded stack machine described by the data model: a
// value stack, a call-frame stack, the interned-string table, the module
// registry, a native registry, the open-upvalue list, and the GC's object
// chain.
type VM struct {
	stack []Value
	frames []CallFrame

	strings *Table // interned ObjString table, weakly referenced (see InternString)

	modules       map[string]*Module
	currentModule *Module

	// natives is the bundled-module registry: a flat native function's own
	// name, or a module namespace's name (e.g. "File") mapped to the
	// *ObjClass whose Statics table holds its functions. Every new module's
	// Globals table is seeded from this at creation.
	natives map[string]Object

	openUpvalues *ObjUpvalue

	currentError Value
	hasError     bool

	out io.Writer

	gc gcState

	// Builtin class tags, installed once at NewVM so every primitive Value
	// can answer Class() without a nil check at each call site.
	nilClass, boolClass, intClass, floatClass *ObjClass
	stringClass, seqClass, tupleClass         *ObjClass
	functionClass, classClass, objClass       *ObjClass
}

func NewVM() *VM {
	vm := &VM{
		stack:            make([]Value, 0, config.StackMax),
		frames:           make([]CallFrame, 0, config.FramesMax),
		strings:          NewTable(),
		modules:          map[string]*Module{},
		natives:          map[string]Object{},
		out:              os.Stdout,
	}
	vm.nilClass = NewClass(config.ClassNil)
	vm.boolClass = NewClass(config.ClassBool)
	vm.intClass = NewClass(config.ClassInt)
	vm.floatClass = NewClass(config.ClassFloat)
	vm.stringClass = NewClass(config.ClassStr)
	vm.seqClass = NewClass(config.ClassSeq)
	vm.tupleClass = NewClass(config.ClassTuple)
	vm.functionClass = NewClass(config.ClassFn)
	vm.classClass = NewClass(config.ClassClass)
	vm.classClass.GetProp = classGetProp
	vm.objClass = NewClass(config.ClassObj)
	vm.gc.nextGC = config.InitialNextGC
	return vm
}

func (vm *VM) SetOutput(w io.Writer) { vm.out = w }

// RegisterNative installs a bundled native under name — either a standalone
// *ObjNative or a module namespace's *ObjClass (its functions hung off
// Statics) — so every module compiled afterward starts with it predefined.
// Called by internal/natives during VM setup, before any source runs.
func (vm *VM) RegisterNative(name string, obj Object) {
	vm.natives[name] = obj
}

// seedNatives pre-seeds mod's globals with every registered native, mirroring
// the teacher's builtin-registration-at-startup idiom but scoped per module
// (imported modules and the entry module alike see the same bundled set).
func (vm *VM) seedNatives(mod *Module) {
	for name, obj := range vm.natives {
		mod.Globals.Set(vm.InternString(name), Obj(obj))
	}
}

// InternString returns the canonical ObjString for s, allocating it once.
func (vm *VM) InternString(s string) *ObjString {
	hash := hashString(s)
	if existing := vm.strings.FindString(s, hash); existing != nil {
		return existing
	}
	obj := &ObjString{Value: s, Hash: hash}
	vm.trackAllocation(obj, len(s))
	vm.strings.Set(obj, Nil())
	return obj
}

func (vm *VM) newBoundMethod(receiver, method Value) *ObjBoundMethod {
	bm := &ObjBoundMethod{Receiver: receiver, Method: method}
	vm.trackAllocation(bm, 32)
	return bm
}

func (vm *VM) NewInstance(class *ObjClass) *ObjInstance {
	inst := NewInstance(class)
	vm.trackAllocation(inst, 64)
	return inst
}

// NewTrackedSeq allocates a seq under GC tracking, for native code that
// needs to hand a freshly built sequence back into the running program
// (e.g. Debug.stack(), Json.parse()).
func (vm *VM) NewTrackedSeq(elems []Value) *ObjSeq {
	seq := NewSeq(elems)
	vm.trackAllocation(seq, 16+len(elems)*16)
	return seq
}

// NewTrackedTuple is NewTrackedSeq for tuples.
func (vm *VM) NewTrackedTuple(elems []Value) *ObjTuple {
	tup := NewTuple(elems)
	vm.trackAllocation(tup, 16+len(elems)*16)
	return tup
}

// NewObjectLiteral builds an instance of the shared anonymous "obj" class,
// for native code that needs to hand back a plain object (e.g. Json.parse()
// decoding a JSON object, Yaml.parse() decoding a mapping).
func (vm *VM) NewObjectLiteral(fields map[string]Value) *ObjInstance {
	inst := vm.NewInstance(vm.objClass)
	if fields != nil {
		inst.Fields = fields
	}
	return inst
}

// RunFile compiles and executes a single source file as the entry module,
// returning any compile diagnostics or the runtime error that terminated
// execution (per §6/§7's exit-code mapping, left to the caller).
func (vm *VM) RunFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return &IOError{Err: err}
	}
	return vm.RunSource(string(src), path)
}

func (vm *VM) RunSource(src, filePath string) error {
	fn, errs := CompileSource(vm, src, filePath)
	if len(errs) != 0 {
		return &CompileError{Errs: errs}
	}
	dir := "."
	if filePath != "" {
		dir = dirOf(filePath)
	}
	vm.currentModule = newModule("main", filePath, dir)
	vm.seedNatives(vm.currentModule)
	vm.modules["main"] = vm.currentModule
	fn.Module = vm.currentModule
	closure := &ObjClosure{Function: fn}
	return vm.runClosure(closure, nil)
}

// RunREPLLine compiles and runs one line of source against a module that
// persists across calls, so top-level var/class/fn declarations made on
// one line stay visible on the next — unlike RunSource, which always starts
// a fresh "main" module. The first call lazily creates the persistent
// module; later calls reuse it.
func (vm *VM) RunREPLLine(src string) error {
	if vm.currentModule == nil {
		vm.currentModule = newModule("repl", "<repl>", ".")
		vm.seedNatives(vm.currentModule)
		vm.modules["repl"] = vm.currentModule
	}
	fn, errs := CompileSource(vm, src, "<repl>")
	if len(errs) != 0 {
		return &CompileError{Errs: errs}
	}
	fn.Module = vm.currentModule
	closure := &ObjClosure{Function: fn}
	return vm.runClosure(closure, nil)
}

func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[:i]
		}
	}
	return "."
}

// runClosure pushes a fresh frame for closure, runs the dispatch loop to
// completion, and returns any uncaught runtime error.
func (vm *VM) runClosure(closure *ObjClosure, args []Value) error {
	base := len(vm.stack)
	vm.push(Obj(closure))
	for _, a := range args {
		vm.push(a)
	}
	vm.frames = append(vm.frames, CallFrame{closure: closure, base: base})
	return vm.run()
}

func (vm *VM) push(v Value) { vm.stack = append(vm.stack, v) }
func (vm *VM) pop() Value {
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}
func (vm *VM) peek(distance int) Value { return vm.stack[len(vm.stack)-1-distance] }

// StackSnapshot returns a copy of the value stack, bottom to top, excluding
// the trailing n slots (a calling native's own callee and argument slots),
// for a debug inspector to walk without exposing the live stack slice.
func (vm *VM) StackSnapshot(n int) []Value {
	end := len(vm.stack) - n
	if end < 0 {
		end = 0
	}
	out := make([]Value, end)
	copy(out, vm.stack[:end])
	return out
}

// RuntimeError is a thrown-and-uncaught error that reached the top frame.
type RuntimeError struct {
	Value Value
	Trace []string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("uncaught runtime error: %s", e.Value.String())
}

type CompileError struct{ Errs []*diagnostics.Error }

func (e *CompileError) Error() string {
	if len(e.Errs) == 0 {
		return "compile error"
	}
	return fmt.Sprintf("%d compile error(s), first: %s", len(e.Errs), e.Errs[0].Error())
}

type IOError struct{ Err error }

func (e *IOError) Error() string { return e.Err.Error() }
