// Package cli separates argument parsing from execution for the nx
// command-line front end, grounded on the teacher's pkg/cli/entry.go split
// between a thin cmd/ main() and the actual subcommand dispatch living in
// its own package (testable without a process boundary).
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/nxlang/nx/internal/natives"
	"github.com/nxlang/nx/internal/repl"
	"github.com/nxlang/nx/internal/testrunner"
	"github.com/nxlang/nx/internal/vm"
)

// Exit codes, exactly as specified: 0 success, 1 general, 2 compile error,
// 3 runtime error, 64 bad usage, 70 memory error, 74 I/O error, 75 internal.
const (
	ExitOK            = 0
	ExitGeneral       = 1
	ExitCompileError  = 2
	ExitRuntimeError  = 3
	ExitBadUsage      = 64
	ExitMemoryError   = 70
	ExitIOError       = 74
	ExitInternalError = 75
)

// Run dispatches args[1:] (args[0] is the binary name, matching os.Args) to
// the run/test/repl subcommands and returns the process exit code. Stdout
// and stderr are the process's own; callers that want to capture output
// should use the internal/vm, internal/testrunner, or internal/repl
// packages directly instead.
func Run(args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: nx run <path> | nx test <dir> | nx repl")
		return ExitBadUsage
	}

	switch args[1] {
	case "run":
		if len(args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: nx run <path>")
			return ExitBadUsage
		}
		return runScript(args[2])
	case "test":
		if len(args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: nx test <dir>")
			return ExitBadUsage
		}
		return runTests(args[2])
	case "repl":
		return runRepl()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[1])
		fmt.Fprintln(os.Stderr, "Usage: nx run <path> | nx test <dir> | nx repl")
		return ExitBadUsage
	}
}

// newVM builds a VM with the bundled native modules installed, the shape
// every subcommand shares.
func newVM() *vm.VM {
	vmach := vm.NewVM()
	natives.Register(vmach)
	return vmach
}

func runScript(path string) int {
	vmach := newVM()
	err := vmach.RunFile(path)
	return exitCodeFor(err)
}

func runTests(dir string) int {
	results, err := testrunner.RunDir(dir, newVM, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return ExitIOError
	}
	failed := 0
	for _, r := range results {
		if !r.Passed {
			failed++
		}
	}
	if failed > 0 {
		return ExitGeneral
	}
	return ExitOK
}

func runRepl() int {
	r := repl.New(newVM(), os.Stdin, os.Stdout, os.Stderr)
	r.Loop()
	return ExitOK
}

// exitCodeFor maps a vm run error to the spec's exit-code contract.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	switch err.(type) {
	case *vm.CompileError:
		return ExitCompileError
	case *vm.RuntimeError:
		return ExitRuntimeError
	case *vm.IOError:
		return ExitIOError
	default:
		if err == io.EOF {
			return ExitOK
		}
		return ExitInternalError
	}
}
