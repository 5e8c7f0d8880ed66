// Command nx is the interpreter's command-line front end: run a script,
// run a test directory, or start the REPL. Grounded on the teacher's
// cmd/funxy/main.go, trimmed to this runtime's run/test/repl surface (no
// bytecode bundling or native-extension build pipeline).
package main

import (
	"fmt"
	"os"

	"github.com/nxlang/nx/pkg/cli"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("NX_DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			os.Exit(cli.ExitInternalError)
		}
	}()

	os.Exit(cli.Run(os.Args))
}
