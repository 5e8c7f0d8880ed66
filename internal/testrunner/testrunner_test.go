package testrunner

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/nxlang/nx/internal/vm"
)

func TestParseExpectations(t *testing.T) {
	src := `print 1; // [Expect 1]
print "boom"; // [ExpectRuntimeError boom]
let x = ; // [ExpectCompileError]
`
	got := parseExpectations(src)
	if len(got) != 3 {
		t.Fatalf("want 3 expectations, got %d: %+v", len(got), got)
	}
	if got[0].Type != ExpectPrint || got[0].Value != "1" {
		t.Fatalf("bad expectation 0: %+v", got[0])
	}
	if got[1].Type != ExpectRuntimeError || got[1].Value != "boom" {
		t.Fatalf("bad expectation 1: %+v", got[1])
	}
	if got[2].Type != ExpectCompileError {
		t.Fatalf("bad expectation 2: %+v", got[2])
	}
}

func TestCompareWithExpectationsReportsEveryMismatchKind(t *testing.T) {
	expectations := []Expectation{{Line: 1, Type: ExpectPrint, Value: "a"}, {Line: 2, Type: ExpectPrint, Value: "b"}}

	if diffs := compareWithExpectations("a\nb\n", expectations); len(diffs) != 0 {
		t.Fatalf("want no diffs, got %v", diffs)
	}
	if diffs := compareWithExpectations("a\nwrong\n", expectations); len(diffs) != 1 {
		t.Fatalf("want 1 diff, got %v", diffs)
	}
	if diffs := compareWithExpectations("a\nb\nextra\n", expectations); len(diffs) != 1 {
		t.Fatalf("want 1 diff for unhandled output, got %v", diffs)
	}
	if diffs := compareWithExpectations("a\n", expectations); len(diffs) != 1 {
		t.Fatalf("want 1 diff for unexhausted expectation, got %v", diffs)
	}
}

func TestRunDirPassesAndFails(t *testing.T) {
	dir := t.TempDir()
	passing := "print 1 + 1; // [Expect 2]\n"
	failing := "print 1 + 1; // [Expect 3]\n"
	if err := os.WriteFile(filepath.Join(dir, "ok.spec.sl"), []byte(passing), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.spec.sl"), []byte(failing), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	results, err := RunDir(dir, vm.NewVM, &out)
	if err != nil {
		t.Fatalf("RunDir error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("want 2 results, got %d", len(results))
	}
	passed, failed := 0, 0
	for _, r := range results {
		if r.Passed {
			passed++
		} else {
			failed++
		}
	}
	if passed != 1 || failed != 1 {
		t.Fatalf("want 1 passed + 1 failed, got %d passed, %d failed", passed, failed)
	}
}

func TestRunDirAllowsExpectedRuntimeError(t *testing.T) {
	dir := t.TempDir()
	src := "throw \"boom\"; // [ExpectRuntimeError boom]\n"
	if err := os.WriteFile(filepath.Join(dir, "throws.spec.sl"), []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	results, err := RunDir(dir, vm.NewVM, &out)
	if err != nil {
		t.Fatalf("RunDir error: %v", err)
	}
	if len(results) != 1 || !results[0].Passed {
		t.Fatalf("want the runtime-error test to pass, got %+v", results)
	}
}
