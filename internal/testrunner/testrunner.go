// Package testrunner implements the `nx test <dir>` subcommand: every
// *.spec.sl file under dir is run in its own VM, and its stdout is compared
// line by line against `// [Expect ...]` tags embedded in the source.
// Grounded on the teacher's original_source/test.c (parse_expectations /
// compare_string_with_expectations / run_test), adapted from its
// Windows-only freopen-based stdout capture to vm.SetOutput, and from its
// directory-scan-with-fixed-size-arrays to filepath.WalkDir.
package testrunner

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nxlang/nx/internal/vm"
)

// ExpectType distinguishes the three tag kinds a spec file can carry.
type ExpectType int

const (
	ExpectPrint ExpectType = iota
	ExpectCompileError
	ExpectRuntimeError
)

// Expectation is one `// [Expect ...]` tag, anchored to the source line it
// appeared on (for diagnostics only — it is matched against the Nth line
// of captured output, not against its own source line).
type Expectation struct {
	Line  int
	Type  ExpectType
	Value string
}

// Result is one spec file's outcome.
type Result struct {
	File  string
	Passed bool
	Diffs []string
}

// RunDir finds every *.spec.sl file under dir, runs each with a VM built by
// newVM, writes a running narration to out, and returns one Result per
// file.
func RunDir(dir string, newVM func() *vm.VM, out io.Writer) ([]Result, error) {
	files, err := findSpecFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		fmt.Fprintf(out, "No test files found in %q\n", dir)
		return nil, nil
	}

	fmt.Fprintf(out, "Running %d tests\n", len(files))

	var results []Result
	failed := 0
	for _, path := range files {
		fmt.Fprintf(out, "    - running %s ", path)
		r, err := runSpecFile(path, newVM)
		if err != nil {
			fmt.Fprintf(out, "Failed to read: %s\n", err)
			results = append(results, Result{File: path, Passed: false, Diffs: []string{err.Error()}})
			failed++
			continue
		}
		if r.Passed {
			fmt.Fprintln(out, "Passed!")
		} else {
			fmt.Fprintf(out, "Failed, %d diffs!\n", len(r.Diffs))
			for i, d := range r.Diffs {
				fmt.Fprintf(out, "        #%d: %s\n", i+1, d)
			}
			failed++
		}
		results = append(results, r)
	}

	fmt.Fprintf(out, "Result: %d/%d tests passed\n", len(files)-failed, len(files))
	return results, nil
}

func findSpecFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".spec.sl") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func runSpecFile(path string, newVM func() *vm.VM) (Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Result{}, err
	}
	source := string(src)
	expectations := parseExpectations(source)

	var buf bytes.Buffer
	vmach := newVM()
	vmach.SetOutput(&buf)

	runErr := vmach.RunSource(source, path)

	// The original harness redirects stdout and stderr into one stream before
	// comparing, so an Expect*Error tag's value is matched against the error
	// message itself rather than skipped. Mirror that by appending the bare
	// message (no file/line decoration) to the captured output before the
	// line-by-line comparison.
	switch e := runErr.(type) {
	case *vm.CompileError:
		if len(e.Errs) > 0 {
			fmt.Fprintln(&buf, e.Errs[0].Message)
		}
	case *vm.RuntimeError:
		fmt.Fprintln(&buf, e.Value.String())
	}

	diffs := compareWithExpectations(buf.String(), expectations)
	if len(diffs) > 0 {
		return Result{File: path, Passed: false, Diffs: diffs}, nil
	}

	allowCompileError, allowRuntimeError := false, false
	for _, e := range expectations {
		switch e.Type {
		case ExpectCompileError:
			allowCompileError = true
		case ExpectRuntimeError:
			allowRuntimeError = true
		}
	}

	switch runErr.(type) {
	case nil:
		return Result{File: path, Passed: true}, nil
	case *vm.CompileError:
		if allowCompileError {
			return Result{File: path, Passed: true}, nil
		}
		return Result{File: path, Passed: false, Diffs: []string{"unexpected compile error: " + runErr.Error()}}, nil
	case *vm.RuntimeError:
		if allowRuntimeError {
			return Result{File: path, Passed: true}, nil
		}
		return Result{File: path, Passed: false, Diffs: []string{"unexpected runtime error: " + runErr.Error()}}, nil
	default:
		return Result{File: path, Passed: false, Diffs: []string{"internal error: " + runErr.Error()}}, nil
	}
}

// parseExpectations scans src line by line for a `//` comment containing a
// `[Expect ...]`/`[ExpectCompileError ...]`/`[ExpectRuntimeError ...]` tag,
// collecting the trimmed text after the closing bracket as the expected
// output line.
func parseExpectations(src string) []Expectation {
	var out []Expectation
	for lineNo, line := range strings.Split(src, "\n") {
		commentAt := strings.Index(line, "//")
		if commentAt < 0 {
			continue
		}
		comment := line[commentAt+2:]
		tagAt := strings.Index(comment, "[Expect")
		if tagAt < 0 {
			continue
		}
		rest := comment[tagAt+1:] // drop the leading '['
		closeAt := strings.IndexByte(rest, ']')
		if closeAt < 0 {
			continue
		}
		tag := rest[:closeAt]
		value := strings.TrimSpace(rest[closeAt+1:])

		var typ ExpectType
		switch {
		case strings.HasPrefix(tag, "ExpectRuntimeError"):
			typ = ExpectRuntimeError
		case strings.HasPrefix(tag, "ExpectCompileError"):
			typ = ExpectCompileError
		case strings.HasPrefix(tag, "Expect"):
			typ = ExpectPrint
		default:
			continue
		}
		out = append(out, Expectation{Line: lineNo + 1, Type: typ, Value: value})
	}
	return out
}

// compareWithExpectations matches captured output against expectations line
// by line, reporting a mismatch for each differing line, each extra output
// line beyond the expectation count, and each unmet expectation beyond the
// output count.
func compareWithExpectations(output string, expectations []Expectation) []string {
	outLines := splitNonEmpty(output)
	var diffs []string

	n := len(expectations)
	if len(outLines) < n {
		n = len(outLines)
	}
	for i := 0; i < n; i++ {
		if outLines[i] != expectations[i].Value {
			diffs = append(diffs, fmt.Sprintf("on line %d: expected %q, but was %q in output",
				expectations[i].Line, expectations[i].Value, outLines[i]))
		}
	}
	for i := len(expectations); i < len(outLines); i++ {
		diffs = append(diffs, fmt.Sprintf("unhandled output: %q", outLines[i]))
	}
	for i := len(outLines); i < len(expectations); i++ {
		diffs = append(diffs, fmt.Sprintf("unexhausted expectation on line %d: %q",
			expectations[i].Line, expectations[i].Value))
	}
	return diffs
}

func splitNonEmpty(s string) []string {
	s = strings.TrimRight(s, "\r\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
