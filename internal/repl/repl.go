// Package repl implements the interactive line-at-a-time shell, grounded on
// the teacher's TTY-aware output handling (internal/evaluator/builtins_term.go)
// adapted to this runtime's persistent-module VM entry point.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/nxlang/nx/internal/diagnostics"
	"github.com/nxlang/nx/internal/vm"
)

const prompt = "nx> "

// REPL reads one line at a time from in, compiles and runs it against a
// single persistent VM, and reports diagnostics to errOut. A syntax or
// runtime error on one line never aborts the session — the prompt returns
// and the VM's globals from earlier lines stay intact.
type REPL struct {
	vmach  *vm.VM
	in     *bufio.Scanner
	out    io.Writer
	errOut io.Writer
	isTTY  bool
}

// New builds a REPL bound to vmach. stdin is only consulted for TTY-ness
// when it is an *os.File (e.g. os.Stdin); a piped or in-memory reader is
// treated as non-interactive and suppresses the prompt, matching `nx repl
// < script.sl` behaving like a script runner.
func New(vmach *vm.VM, stdin io.Reader, stdout, stderr io.Writer) *REPL {
	isTTY := false
	if f, ok := stdin.(*os.File); ok {
		isTTY = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	vmach.SetOutput(stdout)
	return &REPL{
		vmach:  vmach,
		in:     bufio.NewScanner(stdin),
		out:    stdout,
		errOut: stderr,
		isTTY:  isTTY,
	}
}

// Loop runs until stdin is exhausted.
func (r *REPL) Loop() {
	for {
		if r.isTTY {
			fmt.Fprint(r.out, prompt)
		}
		if !r.in.Scan() {
			return
		}
		line := r.in.Text()
		if line == "" {
			continue
		}
		r.runLine(line)
	}
}

func (r *REPL) runLine(line string) {
	err := r.vmach.RunREPLLine(line)
	if err == nil {
		return
	}
	switch e := err.(type) {
	case *vm.CompileError:
		fmt.Fprint(r.errOut, diagnostics.Report(e.Errs, line))
	case *vm.RuntimeError:
		fmt.Fprintln(r.errOut, e.Error())
	default:
		fmt.Fprintln(r.errOut, err)
	}
}
