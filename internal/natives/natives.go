package natives

import "github.com/nxlang/nx/internal/vm"

// Register installs every bundled module's namespace class into vmach's
// native registry, so each module a program imports starts with File, Perf,
// Debug, Json, and Yaml predefined. Called once from the CLI entry point
// right after vm.NewVM().
func Register(vmach *vm.VM) {
	vmach.RegisterNative("File", fileModule(vmach))
	vmach.RegisterNative("Perf", perfModule())
	vmach.RegisterNative("Debug", debugModule())
	vmach.RegisterNative("Json", jsonModule())
	vmach.RegisterNative("Yaml", yamlModule())
}
