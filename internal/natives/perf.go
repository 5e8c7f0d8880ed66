package natives

import (
	"time"

	"github.com/nxlang/nx/internal/vm"
)

// perfStart anchors Perf.now() to process start; Go's monotonic clock reading
// inside time.Since stands in for the original's QueryPerformanceCounter.
var perfStart = time.Now()

// perfModule builds the Perf module: now()/since(start), both float seconds.
func perfModule() *vm.ObjClass {
	class := vm.NewClass("Perf")
	nativeFn(class, "now", 0, nativePerfNow)
	nativeFn(class, "since", 1, nativePerfSince)
	return class
}

func nativePerfNow(vmach *vm.VM, args []vm.Value) (vm.Value, error) {
	return vm.Float(time.Since(perfStart).Seconds()), nil
}

func nativePerfSince(vmach *vm.VM, args []vm.Value) (vm.Value, error) {
	start, ok := argFloat(args, 0)
	if !ok {
		return vm.Value{}, argError("Perf.since", "a float timestamp from Perf.now()")
	}
	return vm.Float(time.Since(perfStart).Seconds() - start), nil
}
