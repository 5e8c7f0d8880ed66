package natives

import (
	"github.com/google/uuid"
	"github.com/nxlang/nx/internal/config"
	"github.com/nxlang/nx/internal/vm"
)

// objectIDs memoizes the id minted for each heap object the first time it's
// inspected, keyed by the object's own identity (a Go interface holding a
// pointer compares equal iff the pointers do, so this holds one entry per
// distinct heap allocation). There is no standing feature to ever evict an
// entry: an inspected object's id must stay stable for its whole lifetime,
// which for the debugger's purposes is the process lifetime.
var objectIDs = map[vm.Object]string{}

// debugModule builds the Debug module: stack()/version()/id(value).
func debugModule() *vm.ObjClass {
	class := vm.NewClass("Debug")
	nativeFn(class, "stack", 0, nativeDebugStack)
	nativeFn(class, "version", 0, nativeDebugVersion)
	nativeFn(class, "id", 1, nativeDebugID)
	return class
}

func nativeDebugStack(vmach *vm.VM, args []vm.Value) (vm.Value, error) {
	snapshot := vmach.StackSnapshot(1 + len(args))
	return vm.Obj(vmach.NewTrackedSeq(snapshot)), nil
}

func nativeDebugVersion(vmach *vm.VM, args []vm.Value) (vm.Value, error) {
	return vm.Obj(vmach.InternString(config.Version)), nil
}

// nativeDebugID mints (or recalls) a stable, process-lifetime id for a
// heap value's identity. Primitive values (nil, bool, int, float) have no
// heap identity to key on, so each call mints a fresh one for them.
func nativeDebugID(vmach *vm.VM, args []vm.Value) (vm.Value, error) {
	if args[0].Type != vm.ValObj {
		return vm.Obj(vmach.InternString(uuid.NewString())), nil
	}
	if id, ok := objectIDs[args[0].Obj]; ok {
		return vm.Obj(vmach.InternString(id)), nil
	}
	id := uuid.NewString()
	objectIDs[args[0].Obj] = id
	return vm.Obj(vmach.InternString(id)), nil
}
