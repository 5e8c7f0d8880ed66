package vm

import "fmt"

// run is the dispatch loop: decode one 16-bit opcode, switch, repeat until
// the outermost frame returns or an uncaught error unwinds past it.
func (vm *VM) run() error {
	baseFrameCount := len(vm.frames) - 1

	for {
		frame := &vm.frames[len(vm.frames)-1]
		chunk := frame.closure.Function.Chunk
		op := Opcode(chunk.Code[frame.ip])
		frame.ip++

		switch op {
		case OpConstant:
			vm.push(chunk.Constants[vm.readWord(frame)])
		case OpNil:
			vm.push(Nil())
		case OpTrue:
			vm.push(Bool(true))
		case OpFalse:
			vm.push(Bool(false))
		case OpPop:
			vm.pop()
		case OpDupe:
			d := vm.readWord(frame)
			vm.push(vm.peek(int(d)))

		case OpGetLocal:
			slot := vm.readWord(frame)
			vm.push(vm.stack[frame.base+int(slot)])
		case OpSetLocal:
			slot := vm.readWord(frame)
			vm.stack[frame.base+int(slot)] = vm.peek(0)
		case OpGetUpvalue:
			idx := vm.readWord(frame)
			vm.push(*frame.closure.Upvalues[idx].Location)
		case OpSetUpvalue:
			idx := vm.readWord(frame)
			*frame.closure.Upvalues[idx].Location = vm.peek(0)
		case OpGetGlobal:
			name := vm.constString(chunk, vm.readWord(frame))
			v, ok := frame.closure.Function.Module.Globals.Get(name)
			if !ok {
				if err := vm.throwRuntime("undefined variable %q", name.Value); err != nil {
					return err
				}
				continue
			}
			vm.push(v)
		case OpSetGlobal:
			name := vm.constString(chunk, vm.readWord(frame))
			if _, ok := frame.closure.Function.Module.Globals.Get(name); !ok {
				if err := vm.throwRuntime("undefined variable %q", name.Value); err != nil {
					return err
				}
				continue
			}
			frame.closure.Function.Module.Globals.Set(name, vm.peek(0))
		case OpDefineGlobal:
			name := vm.constString(chunk, vm.readWord(frame))
			frame.closure.Function.Module.Globals.Set(name, vm.pop())

		case OpGetProperty:
			name := vm.constString(chunk, vm.readWord(frame))
			recv := vm.pop()
			cls := recv.Class(vm)
			if cls == nil || cls.GetProp == nil {
				if err := vm.throwRuntime("value has no properties"); err != nil {
					return err
				}
				continue
			}
			v, ok := cls.GetProp(vm, recv, name.Value)
			if !ok {
				if err := vm.throwRuntime("undefined property %q", name.Value); err != nil {
					return err
				}
				continue
			}
			vm.push(v)
		case OpSetProperty:
			name := vm.constString(chunk, vm.readWord(frame))
			val := vm.pop()
			recv := vm.pop()
			cls := recv.Class(vm)
			if cls == nil || cls.SetProp == nil || !cls.SetProp(vm, recv, name.Value, val) {
				if err := vm.throwRuntime("value does not support property assignment"); err != nil {
					return err
				}
				continue
			}
			vm.push(val)
		case OpGetSubscript:
			idx := vm.pop()
			recv := vm.pop()
			cls := recv.Class(vm)
			if cls == nil || cls.GetSubs == nil {
				if err := vm.throwRuntime("value does not support subscript access"); err != nil {
					return err
				}
				continue
			}
			v, err := cls.GetSubs(vm, recv, idx)
			if err != nil {
				if terr := vm.throwRuntime("%s", err.Error()); terr != nil {
					return terr
				}
				continue
			}
			vm.push(v)
		case OpSetSubscript:
			val := vm.pop()
			idx := vm.pop()
			recv := vm.pop()
			cls := recv.Class(vm)
			if cls == nil || cls.SetSubs == nil {
				if err := vm.throwRuntime("value does not support subscript assignment"); err != nil {
					return err
				}
				continue
			}
			if err := cls.SetSubs(vm, recv, idx, val); err != nil {
				if terr := vm.throwRuntime("%s", err.Error()); terr != nil {
					return terr
				}
				continue
			}
			vm.push(val)
		case OpGetSlice:
			to := vm.pop()
			from := vm.pop()
			recv := vm.pop()
			v, err := vm.sliceValue(recv, from, to)
			if err != nil {
				if terr := vm.throwRuntime("%s", err.Error()); terr != nil {
					return terr
				}
				continue
			}
			vm.push(v)
		case OpGetBaseMethod:
			name := vm.constString(chunk, vm.readWord(frame))
			recv := vm.pop()
			base := vm.definingBase(frame)
			if base == nil {
				if err := vm.throwRuntime("'base' has no superclass here"); err != nil {
					return err
				}
				continue
			}
			m, ok := base.Resolve(name.Value)
			if !ok {
				if err := vm.throwRuntime("undefined base method %q", name.Value); err != nil {
					return err
				}
				continue
			}
			vm.push(Obj(vm.newBoundMethod(recv, m)))

		case OpAdd, OpSub, OpMul, OpDiv, OpMod:
			if err := vm.execArith(op); err != nil {
				if terr := vm.throwRuntime("%s", err.Error()); terr != nil {
					return terr
				}
			}
		case OpNegate:
			v := vm.pop()
			switch v.Type {
			case ValInt:
				vm.push(Int(-v.AsInt()))
			case ValFloat:
				vm.push(Float(-v.AsFloat()))
			default:
				if err := vm.throwRuntime("cannot negate a non-number"); err != nil {
					return err
				}
			}
		case OpNot:
			vm.push(Bool(!vm.pop().IsTruthy()))
		case OpEq:
			b, a := vm.pop(), vm.pop()
			vm.push(Bool(Equal(a, b)))
		case OpNeq:
			b, a := vm.pop(), vm.pop()
			vm.push(Bool(!Equal(a, b)))
		case OpLt, OpGt, OpLtEq, OpGtEq:
			if err := vm.execCompare(op); err != nil {
				if terr := vm.throwRuntime("%s", err.Error()); terr != nil {
					return terr
				}
			}
		case OpIs:
			class := vm.pop()
			v := vm.pop()
			co, _ := class.Obj.(*ObjClass)
			vm.push(Bool(isInstanceOf(vm, v, co)))
		case OpIn:
			collection := vm.pop()
			v := vm.pop()
			res, err := vm.execIn(v, collection)
			if err != nil {
				if terr := vm.throwRuntime("%s", err.Error()); terr != nil {
					return terr
				}
				continue
			}
			vm.push(Bool(res))

		case OpJump:
			offset := vm.readWord(frame)
			frame.ip = int(offset)
		case OpJumpIfFalse:
			offset := vm.readWord(frame)
			if !vm.peek(0).IsTruthy() {
				frame.ip = int(offset)
			}
		case OpLoop:
			offset := vm.readWord(frame)
			frame.ip = int(offset)
		case OpTry:
			offset := vm.readWord(frame)
			vm.push(Handler(int(offset)))
		case OpThrow:
			v := vm.pop()
			if err := vm.throwValue(v); err != nil {
				return err
			}
		case OpGetError:
			vm.push(vm.currentError)
		case OpReturn:
			result := vm.pop()
			if frame.isInitializer {
				result = vm.stack[frame.base]
			}
			vm.closeUpvalues(frame.base)
			vm.stack = vm.stack[:frame.base]
			vm.frames = vm.frames[:len(vm.frames)-1]
			vm.push(result)
			if len(vm.frames) <= baseFrameCount {
				return nil
			}

		case OpCall:
			argc := int(vm.readWord(frame))
			if err := vm.callValue(vm.peek(argc), argc); err != nil {
				if terr := vm.throwRuntime("%s", err.Error()); terr != nil {
					return terr
				}
			}
		case OpInvoke:
			name := vm.constString(chunk, vm.readWord(frame))
			argc := int(vm.readWord(frame))
			if err := vm.invoke(name.Value, argc); err != nil {
				if terr := vm.throwRuntime("%s", err.Error()); terr != nil {
					return terr
				}
			}
		case OpBaseInvoke:
			name := vm.constString(chunk, vm.readWord(frame))
			argc := int(vm.readWord(frame))
			if err := vm.baseInvoke(frame, name.Value, argc); err != nil {
				if terr := vm.throwRuntime("%s", err.Error()); terr != nil {
					return terr
				}
			}
		case OpClosure:
			fnVal := chunk.Constants[vm.readWord(frame)]
			fn := fnVal.Obj.(*ObjFunction)
			closure := &ObjClosure{Function: fn, Upvalues: make([]*ObjUpvalue, fn.UpvalueCnt)}
			for i := 0; i < fn.UpvalueCnt; i++ {
				isLocal := vm.readWord(frame)
				idx := vm.readWord(frame)
				if isLocal == 1 {
					closure.Upvalues[i] = vm.captureUpvalue(frame.base + int(idx))
				} else {
					closure.Upvalues[i] = frame.closure.Upvalues[idx]
				}
			}
			fn.Module = frame.closure.Function.Module
			vm.trackAllocation(closure, 32)
			vm.push(Obj(closure))
		case OpCloseUpvalue:
			slot := vm.readWord(frame)
			vm.closeUpvalues(frame.base + int(slot))

		case OpSeqLiteral:
			n := int(vm.readWord(frame))
			elems := make([]Value, n)
			copy(elems, vm.stack[len(vm.stack)-n:])
			vm.stack = vm.stack[:len(vm.stack)-n]
			seq := NewSeq(elems)
			vm.trackAllocation(seq, 16+n*16)
			vm.push(Obj(seq))
		case OpTupleLiteral:
			n := int(vm.readWord(frame))
			elems := make([]Value, n)
			copy(elems, vm.stack[len(vm.stack)-n:])
			vm.stack = vm.stack[:len(vm.stack)-n]
			tup := NewTuple(elems)
			vm.trackAllocation(tup, 16+n*16)
			vm.push(Obj(tup))
		case OpObjectLiteral:
			n := int(vm.readWord(frame))
			inst := vm.NewInstance(vm.objClass)
			base := len(vm.stack) - n*2
			for i := 0; i < n; i++ {
				key := vm.stack[base+i*2].Obj.(*ObjString)
				val := vm.stack[base+i*2+1]
				inst.Fields[key.Value] = val
			}
			vm.stack = vm.stack[:base]
			vm.push(Obj(inst))

		case OpClass:
			name := vm.constString(chunk, vm.readWord(frame))
			class := NewClass(name.Value)
			vm.trackAllocation(class, 64)
			vm.push(Obj(class))
		case OpInherit:
			baseVal := vm.pop()
			class := vm.peek(0).Obj.(*ObjClass)
			baseClass, ok := baseVal.Obj.(*ObjClass)
			if !ok {
				if err := vm.throwRuntime("base must be a class"); err != nil {
					return err
				}
				continue
			}
			class.Base = baseClass
			class.GetProp, class.SetProp = baseClass.GetProp, baseClass.SetProp
			class.GetSubs, class.SetSubs = baseClass.GetSubs, baseClass.SetSubs
		case OpMethod:
			closureVal := vm.pop()
			class := vm.peek(0).Obj.(*ObjClass)
			nameIdx := vm.readWord(frame)
			kind := vm.readWord(frame)
			name := chunk.Constants[nameIdx].Obj.(*ObjString).Value
			if cl, ok := closureVal.Obj.(*ObjClosure); ok {
				cl.Function.DefiningClass = class
			}
			switch kind {
			case uint16(1): // static
				class.Statics[name] = closureVal
			default:
				class.Methods[name] = closureVal
			}
		case OpFinalize:
			class := vm.peek(0).Obj.(*ObjClass)
			class.Finalize()

		case OpPrint:
			fmt.Fprintln(vm.out, vm.stringify(vm.pop()))
		case OpImport:
			name := vm.constString(chunk, vm.readWord(frame))
			mod, err := vm.LoadModule(name.Value, "")
			if err != nil {
				if terr := vm.throwRuntime("%s", err.Error()); terr != nil {
					return terr
				}
				continue
			}
			vm.push(Obj(vm.moduleValue(mod)))
		case OpImportFrom:
			name := vm.constString(chunk, vm.readWord(frame))
			path := vm.constString(chunk, vm.readWord(frame))
			mod, err := vm.LoadModule(name.Value, path.Value)
			if err != nil {
				if terr := vm.throwRuntime("%s", err.Error()); terr != nil {
					return terr
				}
				continue
			}
			vm.push(Obj(vm.moduleValue(mod)))

		case OpNop:
			// no operation

		default:
			if err := vm.throwRuntime("unimplemented opcode %s", op); err != nil {
				return err
			}
		}
	}
}

func (vm *VM) readWord(frame *CallFrame) uint16 {
	w := frame.closure.Function.Chunk.Code[frame.ip]
	frame.ip++
	return w
}

func (vm *VM) constString(chunk *Chunk, idx uint16) *ObjString {
	return chunk.Constants[idx].Obj.(*ObjString)
}

// definingBase finds the base class for a base.method() call executing in
// frame: the base of the class that defined the currently-executing
// method, not the receiver's dynamic runtime class.
func (vm *VM) definingBase(frame *CallFrame) *ObjClass {
	fn := frame.closure.Function
	if fn.DefiningClass == nil {
		return nil
	}
	return fn.DefiningClass.Base
}

// moduleValue wraps a Module's globals as an ObjInstance of the shared obj
// class so IMPORT results support plain property access (`mod.export`).
func (vm *VM) moduleValue(mod *Module) *ObjInstance {
	inst := vm.NewInstance(vm.objClass)
	mod.Globals.Each(func(k *ObjString, v Value) {
		inst.Fields[k.Value] = v
	})
	return inst
}
