// Package natives implements the bundled native modules (File, Perf, Debug,
// Json, Yaml) that every compiled module sees predefined, grounded on
// original_source/native_module_*.c and builtin_module_debug.c. Each module
// is built as an *ObjClass whose Statics table holds its functions, the same
// representation a user class's static methods use.
package natives

import (
	"os"

	"github.com/nxlang/nx/internal/utils"
	"github.com/nxlang/nx/internal/vm"
)

// fileModule builds the File module: read/write/exists/join_path plus the
// newl/sep constants. A missing file is reported as nil from read rather
// than a thrown error, departing from the original's dual nil-and-throw
// behavior (the throw there never has a visible effect since the returned
// nil already signals failure).
func fileModule(vmach *vm.VM) *vm.ObjClass {
	class := vm.NewClass("File")
	class.Statics["newl"] = vm.Obj(vmach.InternString("\n"))
	class.Statics["sep"] = vm.Obj(vmach.InternString(string(os.PathSeparator)))

	nativeFn(class, "read", 1, nativeFileRead)
	nativeFn(class, "write", 2, nativeFileWrite)
	nativeFn(class, "exists", 1, nativeFileExists)
	nativeFn(class, "join_path", 2, nativeFileJoinPath)
	return class
}

func nativeFileRead(vmach *vm.VM, args []vm.Value) (vm.Value, error) {
	path, ok := argString(args, 0)
	if !ok {
		return vm.Value{}, argError("File.read", "a string path")
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return vm.Nil(), nil
	}
	return vm.Obj(vmach.InternString(string(content))), nil
}

func nativeFileWrite(vmach *vm.VM, args []vm.Value) (vm.Value, error) {
	path, ok := argString(args, 0)
	if !ok {
		return vm.Value{}, argError("File.write", "a string path")
	}
	content, ok := argString(args, 1)
	if !ok {
		return vm.Value{}, argError("File.write", "a string content")
	}
	err := os.WriteFile(path, []byte(content), 0644)
	return vm.Bool(err == nil), nil
}

func nativeFileExists(vmach *vm.VM, args []vm.Value) (vm.Value, error) {
	path, ok := argString(args, 0)
	if !ok {
		return vm.Value{}, argError("File.exists", "a string path")
	}
	_, err := os.Stat(path)
	return vm.Bool(err == nil), nil
}

func nativeFileJoinPath(vmach *vm.VM, args []vm.Value) (vm.Value, error) {
	a, ok := argString(args, 0)
	if !ok {
		return vm.Value{}, argError("File.join_path", "a string path")
	}
	b, ok := argString(args, 1)
	if !ok {
		return vm.Value{}, argError("File.join_path", "a string path")
	}
	return vm.Obj(vmach.InternString(utils.JoinPath(a, b))), nil
}
