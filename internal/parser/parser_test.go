package parser

import (
	"testing"

	"github.com/nxlang/nx/internal/ast"
	"github.com/nxlang/nx/internal/lexer"
	"github.com/nxlang/nx/internal/pipeline"
)

func parseSource(t *testing.T, src string) (*ast.Program, *pipeline.PipelineContext) {
	t.Helper()
	ctx := pipeline.NewPipelineContext(src)
	l := lexer.New(src)
	ctx.Tokens = l.Tokens()
	p := New(ctx.Tokens, ctx)
	prog := p.ParseProgram()
	return prog, ctx
}

func TestParseVariableDeclaration(t *testing.T) {
	prog, ctx := parseSource(t, `let x = 1 + 2;`)
	if len(ctx.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	if len(prog.Statements) != 1 {
		t.Fatalf("want 1 statement, got %d", len(prog.Statements))
	}
	decl, ok := prog.Statements[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("want *ast.VariableDeclaration, got %T", prog.Statements[0])
	}
	if decl.Const {
		t.Fatalf("want non-const let")
	}
	if decl.Name.Value != "x" {
		t.Fatalf("want name x, got %s", decl.Name.Value)
	}
	bin, ok := decl.Value.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("want *ast.BinaryExpression, got %T", decl.Value)
	}
	if bin.Operator.String() != "+" {
		t.Fatalf("want +, got %s", bin.Operator)
	}
}

func TestBinaryPrecedence(t *testing.T) {
	prog, ctx := parseSource(t, `1 + 2 * 3;`)
	if len(ctx.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	bin := stmt.Expression.(*ast.BinaryExpression)
	if bin.Operator.String() != "+" {
		t.Fatalf("top operator should be +, got %s", bin.Operator)
	}
	right, ok := bin.Right.(*ast.BinaryExpression)
	if !ok || right.Operator.String() != "*" {
		t.Fatalf("right side should be a * expression, got %#v", bin.Right)
	}
}

func TestNewlineEndsExpression(t *testing.T) {
	src := "let a = [1, 2, 3]\n[4].len()"
	prog, ctx := parseSource(t, src)
	if len(ctx.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	if len(prog.Statements) != 2 {
		t.Fatalf("want 2 statements (newline should end the first), got %d", len(prog.Statements))
	}
	if _, ok := prog.Statements[0].(*ast.VariableDeclaration); !ok {
		t.Fatalf("statement 0: want *ast.VariableDeclaration, got %T", prog.Statements[0])
	}
	if _, ok := prog.Statements[1].(*ast.ExpressionStatement); !ok {
		t.Fatalf("statement 1: want *ast.ExpressionStatement, got %T", prog.Statements[1])
	}
}

func TestDotContinuesAcrossNewline(t *testing.T) {
	src := "a\n.b()"
	prog, ctx := parseSource(t, src)
	if len(ctx.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	if len(prog.Statements) != 1 {
		t.Fatalf("leading-dot continuation should form a single statement, got %d", len(prog.Statements))
	}
	stmt, ok := prog.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("want *ast.ExpressionStatement, got %T", prog.Statements[0])
	}
	if _, ok := stmt.Expression.(*ast.CallExpression); !ok {
		t.Fatalf("want *ast.CallExpression, got %T", stmt.Expression)
	}
}

func TestIfElseChain(t *testing.T) {
	src := `if (x) { print 1; } else if (y) { print 2; } else { print 3; }`
	prog, ctx := parseSource(t, src)
	if len(ctx.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	top := prog.Statements[0].(*ast.IfStatement)
	mid, ok := top.Else.(*ast.IfStatement)
	if !ok {
		t.Fatalf("want else-if chain, got %T", top.Else)
	}
	if _, ok := mid.Else.(*ast.BlockStatement); !ok {
		t.Fatalf("want final else block, got %T", mid.Else)
	}
}

func TestForInLoop(t *testing.T) {
	prog, ctx := parseSource(t, `for (item in items) { print item; }`)
	if len(ctx.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	forStmt := prog.Statements[0].(*ast.ForStatement)
	if forStmt.Post != nil {
		t.Fatalf("for-in should have no post clause")
	}
	if _, ok := forStmt.Condition.(*ast.InExpression); !ok {
		t.Fatalf("want *ast.InExpression condition, got %T", forStmt.Condition)
	}
}

func TestClassDeclarationWithBase(t *testing.T) {
	src := `cls Dog : Animal {
		ctor(name) { this.name = name; }
		fn bark() { print "woof"; }
		static fn make() { ret Dog("Rex"); }
	}`
	prog, ctx := parseSource(t, src)
	if len(ctx.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	cls := prog.Statements[0].(*ast.ClassDeclaration)
	if cls.Name.Value != "Dog" || cls.Base.Value != "Animal" {
		t.Fatalf("unexpected class header: %+v", cls)
	}
	if len(cls.Methods) != 3 {
		t.Fatalf("want 3 methods, got %d", len(cls.Methods))
	}
	if cls.Methods[0].Kind != ast.MethodCtor {
		t.Fatalf("first method should be the ctor")
	}
}

func TestDestructuringDeclaration(t *testing.T) {
	prog, ctx := parseSource(t, `let [a, b, ...rest] = seq;`)
	if len(ctx.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	decl := prog.Statements[0].(*ast.VariableDeclaration)
	pat, ok := decl.Pattern.(*ast.SeqPattern)
	if !ok {
		t.Fatalf("want *ast.SeqPattern, got %T", decl.Pattern)
	}
	if len(pat.Elements) != 3 {
		t.Fatalf("want 3 pattern elements, got %d", len(pat.Elements))
	}
	if _, ok := pat.Elements[2].(*ast.RestPattern); !ok {
		t.Fatalf("last element should be a rest pattern, got %T", pat.Elements[2])
	}
}

func TestTryCatchStatement(t *testing.T) {
	prog, ctx := parseSource(t, `try { throw "boom"; } catch { print error; }`)
	if len(ctx.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	stmt := prog.Statements[0].(*ast.TryStatement)
	if stmt.Catch == nil {
		t.Fatalf("want catch block")
	}
}

func TestImportForms(t *testing.T) {
	prog, ctx := parseSource(t, `import { a, b, ...rest } from "math";`)
	if len(ctx.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	imp := prog.Statements[0].(*ast.ImportStatement)
	if imp.Path != "math" {
		t.Fatalf("want path math, got %q", imp.Path)
	}
	if len(imp.Names) != 2 || imp.Rest == nil {
		t.Fatalf("want 2 names + rest, got %+v", imp)
	}
}

func TestMalformedStatementRecovers(t *testing.T) {
	src := `let 123 = 5;
let y = 1;`
	prog, ctx := parseSource(t, src)
	if len(ctx.Errors) == 0 {
		t.Fatalf("want at least one parse error")
	}
	found := false
	for _, s := range prog.Statements {
		if decl, ok := s.(*ast.VariableDeclaration); ok && decl.Name != nil && decl.Name.Value == "y" {
			found = true
		}
	}
	if !found {
		t.Fatalf("parser should recover and still parse the second declaration")
	}
}
