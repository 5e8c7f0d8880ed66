package natives

import (
	"fmt"

	"github.com/nxlang/nx/internal/vm"
)

func nativeFn(class *vm.ObjClass, name string, arity int, fn vm.NativeFn) {
	class.Statics[name] = vm.Obj(&vm.ObjNative{Name: name, Arity: arity, Fn: fn})
}

func argString(args []vm.Value, i int) (string, bool) {
	if i >= len(args) || args[i].Type != vm.ValObj {
		return "", false
	}
	s, ok := args[i].Obj.(*vm.ObjString)
	if !ok {
		return "", false
	}
	return s.Value, true
}

// argFloat accepts either an int or a float argument, matching the
// language's usual numeric-coercion leniency at native boundaries.
func argFloat(args []vm.Value, i int) (float64, bool) {
	if i >= len(args) {
		return 0, false
	}
	switch args[i].Type {
	case vm.ValInt:
		return float64(args[i].AsInt()), true
	case vm.ValFloat:
		return args[i].AsFloat(), true
	default:
		return 0, false
	}
}

func argError(fn, want string) error {
	return fmt.Errorf("%s expects %s", fn, want)
}
