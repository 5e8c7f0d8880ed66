package natives

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/nxlang/nx/internal/vm"
)

// runSource mirrors the vm package's own test helper, adapted to exercise a
// VM with the bundled native modules installed (internal/vm's own tests
// can't do this without an import cycle).
func runSource(t *testing.T, src string) string {
	t.Helper()
	vmach := vm.NewVM()
	Register(vmach)
	var buf bytes.Buffer
	vmach.SetOutput(&buf)
	if err := vmach.RunSource(src, "<test>"); err != nil {
		t.Fatalf("RunSource(%q) failed: %v", src, err)
	}
	return buf.String()
}

func TestFileReadWriteExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.ToSlash(filepath.Join(dir, "greeting.txt"))

	src := `
	print File.exists("` + path + `");
	File.write("` + path + `", "hello");
	print File.exists("` + path + `");
	print File.read("` + path + `");
	print File.read("` + path + `/missing");
	`
	got := runSource(t, src)
	want := "false\ntrue\nhello\nnil\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "hello" {
		t.Fatalf("File.write did not persist: %v %q", err, data)
	}
}

func TestFileJoinPath(t *testing.T) {
	got := runSource(t, `print File.join_path("a/b", "/c/d");`)
	want := "a/b" + string(os.PathSeparator) + "c/d\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFileConstants(t *testing.T) {
	got := runSource(t, `print File.sep; print File.newl == "\n";`)
	want := string(os.PathSeparator) + "\ntrue\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPerfNowAndSince(t *testing.T) {
	got := runSource(t, `
	let start = Perf.now();
	print Perf.since(start) >= 0.0;
	`)
	if got != "true\n" {
		t.Fatalf("got %q", got)
	}
}

func TestDebugVersionAndStack(t *testing.T) {
	got := runSource(t, `
	print Debug.version() != nil;
	`)
	if got != "true\n" {
		t.Fatalf("got %q", got)
	}
}

func TestDebugIdStableForSameObject(t *testing.T) {
	got := runSource(t, `
	cls Thing { ctor() {} }
	let t = Thing();
	print Debug.id(t) == Debug.id(t);
	`)
	if got != "true\n" {
		t.Fatalf("got %q", got)
	}
}

func TestJsonStringifyCompactAndIndented(t *testing.T) {
	got := runSource(t, `
	cls Point { ctor(x, y) { this.x = x; this.y = y; } }
	let p = Point(1, 2);
	print Json.stringify(p, 0);
	print Json.stringify([1, 2, 3], 0);
	`)
	want := "{\"x\":1,\"y\":2}\n[1,2,3]\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestJsonParseIsAStub(t *testing.T) {
	got := runSource(t, `print Json.parse("{\"a\":1}");`)
	if got != "nil\n" {
		t.Fatalf("Json.parse should always answer nil, got %q", got)
	}
}

func TestYamlRoundTripsThroughStringifyAndParse(t *testing.T) {
	got := runSource(t, `
	let obj = Yaml.parse(Yaml.stringify([1, 2, 3]));
	print obj[0];
	print obj[2];
	`)
	want := "1\n3\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestYamlParseInvalidReturnsNil(t *testing.T) {
	got := runSource(t, `print Yaml.parse("[unterminated");`)
	if got != "nil\n" {
		t.Fatalf("got %q", got)
	}
}
