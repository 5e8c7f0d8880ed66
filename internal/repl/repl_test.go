package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nxlang/nx/internal/vm"
)

func run(t *testing.T, script string) (stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	r := New(vm.NewVM(), strings.NewReader(script), &out, &errOut)
	r.Loop()
	return out.String(), errOut.String()
}

func TestReplEvaluatesEachLine(t *testing.T) {
	out, errOut := run(t, "print 1 + 1;\nprint \"hi\";\n")
	if errOut != "" {
		t.Fatalf("unexpected stderr: %q", errOut)
	}
	if out != "2\nhi\n" {
		t.Fatalf("got %q", out)
	}
}

func TestReplGlobalsPersistAcrossLines(t *testing.T) {
	out, errOut := run(t, "let x = 41;\nprint x + 1;\n")
	if errOut != "" {
		t.Fatalf("unexpected stderr: %q", errOut)
	}
	if out != "42\n" {
		t.Fatalf("got %q", out)
	}
}

func TestReplSkipsBlankLines(t *testing.T) {
	out, errOut := run(t, "\nprint 1;\n\n")
	if errOut != "" {
		t.Fatalf("unexpected stderr: %q", errOut)
	}
	if out != "1\n" {
		t.Fatalf("got %q", out)
	}
}

func TestReplRuntimeErrorDoesNotAbortSession(t *testing.T) {
	out, errOut := run(t, "throw \"boom\";\nprint \"still alive\";\n")
	if out != "still alive\n" {
		t.Fatalf("got stdout %q", out)
	}
	if !strings.Contains(errOut, "boom") {
		t.Fatalf("want stderr to mention the thrown value, got %q", errOut)
	}
}

func TestReplCompileErrorDoesNotAbortSession(t *testing.T) {
	out, errOut := run(t, "let x = ;\nprint \"still alive\";\n")
	if out != "still alive\n" {
		t.Fatalf("got stdout %q", out)
	}
	if errOut == "" {
		t.Fatalf("want a reported compile error")
	}
}

func TestReplNonTTYSuppressesPrompt(t *testing.T) {
	out, _ := run(t, "print 1;\n")
	if strings.Contains(out, prompt) {
		t.Fatalf("non-TTY stdin should not print the prompt, got %q", out)
	}
}
