package vm

import (
	"os"

	"github.com/nxlang/nx/internal/utils"
)

// Module is one compiled and executed source file: its own global table,
// keyed by the logical name it was imported under.
type Module struct {
	Name    string
	Path    string
	Dir     string
	Globals *Table
}

func newModule(name, path, dir string) *Module {
	return &Module{Name: name, Path: path, Dir: dir, Globals: NewTable()}
}

// resolveModulePath implements §4.7: candidate = baseDir/name(or path).<ext>,
// falling back to an absolute interpretation of an explicit relative path
// that doesn't exist under baseDir.
func resolveModulePath(baseDir, name, path string) string {
	return utils.ResolveImportCandidate(baseDir, name, path, func(p string) bool {
		_, err := os.Stat(p)
		return err == nil
	})
}

// LoadModule resolves, compiles (if not already registered), and runs the
// module imported as `name` from `path` (path == "" for a name-only
// import), returning the resulting Module.
func (vm *VM) LoadModule(name, path string) (*Module, error) {
	filePath := resolveModulePath(vm.currentModule.Dir, name, path)
	key := utils.ExtractModuleName(filePath)

	if mod, ok := vm.modules[key]; ok {
		return mod, nil
	}

	src, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	fn, errs := CompileSource(vm, string(src), filePath)
	if len(errs) != 0 {
		return nil, errs[0]
	}

	mod := newModule(key, filePath, utils.GetModuleDir(filePath))
	vm.seedNatives(mod)
	vm.modules[key] = mod
	fn.Module = mod

	closure := &ObjClosure{Function: fn}
	prevModule := vm.currentModule
	vm.currentModule = mod
	err = vm.runClosure(closure, nil)
	vm.currentModule = prevModule
	if err != nil {
		return nil, err
	}
	return mod, nil
}
