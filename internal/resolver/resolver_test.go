package resolver

import (
	"testing"

	"github.com/nxlang/nx/internal/ast"
	"github.com/nxlang/nx/internal/lexer"
	"github.com/nxlang/nx/internal/parser"
	"github.com/nxlang/nx/internal/pipeline"
)

func resolveSource(t *testing.T, src string) (*ast.Program, []*struct{ Msg string }) {
	t.Helper()
	ctx := pipeline.NewPipelineContext(src)
	l := lexer.New(src)
	ctx.Tokens = l.Tokens()
	p := parser.New(ctx.Tokens, ctx)
	prog := p.ParseProgram()
	if len(ctx.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %v", ctx.Errors)
	}
	errs := New().Resolve(prog)
	var msgs []*struct{ Msg string }
	for _, e := range errs {
		msgs = append(msgs, &struct{ Msg string }{Msg: e.Message})
	}
	return prog, msgs
}

func TestResolveLocalSlotsAndGlobals(t *testing.T) {
	prog, errs := resolveSource(t, `
let g = 1;
fn f() {
	let a = 2;
	let b = 3;
	ret a + b + g;
}
`)
	if len(errs) != 0 {
		t.Fatalf("unexpected resolve errors: %v", errs)
	}
	global := prog.Statements[0].(*ast.VariableDeclaration)
	if global.Name.Ref.Kind != ast.SymGlobal {
		t.Fatalf("want global symbol, got %s", global.Name.Ref.Kind)
	}

	fnDecl := prog.Statements[1].(*ast.FunctionDeclaration)
	aDecl := fnDecl.Fn.Body[0].(*ast.VariableDeclaration)
	bDecl := fnDecl.Fn.Body[1].(*ast.VariableDeclaration)
	if aDecl.Name.Ref.Kind != ast.SymLocal || aDecl.Name.Ref.Index != 1 {
		t.Fatalf("want local slot 1 for a, got kind=%s index=%d", aDecl.Name.Ref.Kind, aDecl.Name.Ref.Index)
	}
	if bDecl.Name.Ref.Index != 2 {
		t.Fatalf("want local slot 2 for b, got %d", bDecl.Name.Ref.Index)
	}
}

func TestResolveCapturesUpvalue(t *testing.T) {
	prog, errs := resolveSource(t, `
fn outer() {
	let x = 1;
	fn inner() {
		ret x;
	}
	ret inner;
}
`)
	if len(errs) != 0 {
		t.Fatalf("unexpected resolve errors: %v", errs)
	}
	outer := prog.Statements[0].(*ast.FunctionDeclaration)
	xDecl := outer.Fn.Body[0].(*ast.VariableDeclaration)
	if !xDecl.Name.Ref.Captured {
		t.Fatalf("want x marked captured")
	}
	innerDecl := outer.Fn.Body[1].(*ast.FunctionDeclaration)
	if len(innerDecl.Fn.Upvalues) != 1 {
		t.Fatalf("want 1 upvalue on inner, got %d", len(innerDecl.Fn.Upvalues))
	}
	if !innerDecl.Fn.Upvalues[0].IsLocal {
		t.Fatalf("want the upvalue to capture outer's local directly")
	}
}

func TestResolveUndefinedVariable(t *testing.T) {
	_, errs := resolveSource(t, `print nosuch;`)
	if len(errs) != 0 {
		t.Fatalf("undefined identifiers resolve to natives, not errors here: %v", errs)
	}
}

func TestResolveDuplicateDeclarationErrors(t *testing.T) {
	_, errs := resolveSource(t, `
let a = 1;
let a = 2;
`)
	if len(errs) == 0 {
		t.Fatalf("want a duplicate-declaration error")
	}
}

func TestResolveBreakOutsideLoopErrors(t *testing.T) {
	_, errs := resolveSource(t, `break;`)
	if len(errs) == 0 {
		t.Fatalf("want a break-outside-loop error")
	}
}

func TestResolveReturnValueInCtorErrors(t *testing.T) {
	_, errs := resolveSource(t, `
cls Foo {
	ctor() {
		ret 1;
	}
}
`)
	if len(errs) == 0 {
		t.Fatalf("want a return-value-in-constructor error")
	}
}

func TestResolveThisOutsideMethodErrors(t *testing.T) {
	_, errs := resolveSource(t, `fn f() { ret this; }`)
	if len(errs) == 0 {
		t.Fatalf("want a this-outside-method error")
	}
}

func TestResolveConstReassignmentErrors(t *testing.T) {
	_, errs := resolveSource(t, `
const a = 1;
a = 2;
`)
	if len(errs) == 0 {
		t.Fatalf("want a const-reassignment error")
	}
}

func TestResolveRestMustBeLast(t *testing.T) {
	_, errs := resolveSource(t, `let [...rest, b] = seq;`)
	if len(errs) == 0 {
		t.Fatalf("want a rest-must-be-last error")
	}
}

func TestResolveNestedClassErrors(t *testing.T) {
	_, errs := resolveSource(t, `
cls Outer {
	fn m() {
		cls Inner {
			ctor() {}
		}
	}
}
`)
	if len(errs) == 0 {
		t.Fatalf("want a nested-class error")
	}
}
