package parse

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/andrewchambers/cparse/ast"
)

func parseTestCase(t *testing.T, path string) {
	src, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	_, err = Parse(string(src), path)
	if err != nil {
		t.Fatal(err)
	}
}

func TestParser(t *testing.T) {
	info, err := os.ReadDir("parsetests")
	if err != nil {
		t.Fatal(err)
	}
	for i := range info {
		filename := info[i].Name()
		if !strings.HasSuffix(filename, ".c") {
			continue
		}
		t.Run(filename, func(t *testing.T) {
			parseTestCase(t, "parsetests/"+filename)
		})
	}
}

type shapeTest struct {
	Name  string   `yaml:"name"`
	Input string   `yaml:"input"`
	Decls []string `yaml:"decls"`
	Stmts []string `yaml:"stmts"`
}

type shapeFile struct {
	Tests []shapeTest `yaml:"tests"`
}

func TestParseShapes(t *testing.T) {
	data, err := os.ReadFile("testdata/parse.yaml")
	if err != nil {
		t.Fatalf("failed to read parse.yaml: %v", err)
	}
	var f shapeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		t.Fatalf("failed to decode parse.yaml: %v", err)
	}
	if len(f.Tests) == 0 {
		t.Fatal("no tests in parse.yaml")
	}
	for _, tc := range f.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			src := tc.Input
			if tc.Stmts != nil {
				src = "void f(void) {\n" + tc.Input + "\n}\n"
			}
			file, err := Parse(src, "test.c")
			if err != nil {
				t.Fatalf("parse failed: %s", err)
			}
			expected := tc.Decls
			nodes := file.Decls
			if tc.Stmts != nil {
				expected = tc.Stmts
				nodes = file.Decls[0].(*ast.FuncDef).Body.BlockItems
			}
			if len(nodes) != len(expected) {
				var got []string
				for _, n := range nodes {
					got = append(got, shape(n))
				}
				t.Fatalf("expected %d nodes, got %d:\n%s", len(expected), len(nodes), strings.Join(got, "\n"))
			}
			for i, n := range nodes {
				if got := shape(n); got != expected[i] {
					t.Errorf("node %d:\ngot      %s\nexpected %s", i, got, expected[i])
				}
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src  string
		kind ErrorKind
		// The full error text, or only the message when the position is
		// not checked.
		exp     string
		msgOnly bool
	}{
		{"int x", SyntaxError, "test.c: At end of input", false},
		{"void f(void) { x = 1;", SyntaxError, "test.c: At end of input", false},
		{"int x = ;", SyntaxError, "test.c:1:9: before: ;", false},
		{"}", SyntaxError, "test.c:1:1: before: }", false},
		{"void f(...);", SyntaxError, "test.c:1:8: before: ...", false},
		{"int a[static];", SyntaxError, "test.c:1:13: before: ]", false},
		{"struct {} s;", SyntaxError, "test.c:1:9: before: }", false},
		{"int T;\ntypedef int T;", DeclError, "test.c:2:13: Typedef 'T' previously declared as non-typedef in this scope", false},
		{"typedef int T;\nint T;", DeclError, "test.c:2:5: Non-typedef 'T' previously declared as typedef in this scope", false},
		{"struct s int x;", DeclError, "test.c:1:8: Invalid multiple types specified", false},
		{"const x;", DeclError, "test.c:1:7: Missing type in declaration", false},
		{"int;", DeclError, "test.c:1:1: Invalid declaration", false},
		{"int f(a) int b; { return 0; }", DeclError, "test.c:1:14: 'b' is not a parameter of 'f'", false},
		{"typedef int f(void) { }", DeclError, "test.c:1:13: Invalid declaration", false},
		{"#include <stdio.h>\nint x;", UnsupportedError, "Directives not supported yet", true},
		{"int x = 1 @ 2;", TokenError, "illegal character '@'", true},
		{"int x = /* open", TokenError, "unclosed comment", true},
		{"int x = 0x;", TokenError, "test.c:1:9: invalid constant int", false},
		{"int x = 08;", TokenError, "test.c:1:9: invalid octal constant", false},
		{"int x = 1uu;", TokenError, "test.c:1:9: invalid constant int", false},
		{"double d = 1e", TokenError, "test.c:1:12: invalid floating point constant", false},
	}
	for _, tc := range tests {
		f, err := Parse(tc.src, "test.c")
		if err == nil {
			t.Errorf("%q: expected an error", tc.src)
			continue
		}
		if f != nil {
			t.Errorf("%q: expected no tree on error", tc.src)
		}
		var perr *Error
		if !errors.As(err, &perr) {
			t.Errorf("%q: expected *Error, got %T", tc.src, err)
			continue
		}
		if perr.Kind != tc.kind {
			t.Errorf("%q: got kind %s expected %s", tc.src, perr.Kind, tc.kind)
		}
		got := err.Error()
		if tc.msgOnly {
			got = perr.Msg
		}
		if got != tc.exp {
			t.Errorf("%q: got %q expected %q", tc.src, got, tc.exp)
		}
	}
}

func TestDebugStack(t *testing.T) {
	t.Setenv("CPARSEDEBUG", "true")
	_, err := Parse("int x = ;", "test.c")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "goroutine") {
		t.Fatalf("expected a stack trace in %q", err)
	}
}

func TestParserReuse(t *testing.T) {
	p := New()
	if _, err := p.Parse("typedef int T; T x;", "a.c"); err != nil {
		t.Fatal(err)
	}
	// T is unknown in a fresh file scope.
	_, err := p.Parse("T x;", "b.c")
	var perr *Error
	if !errors.As(err, &perr) || perr.Kind != SyntaxError {
		t.Fatalf("expected a syntax error, got %v", err)
	}
	if _, err := p.Parse("int T;", "c.c"); err != nil {
		t.Fatal(err)
	}
}

func TestPositions(t *testing.T) {
	f, err := Parse("int x;\nint *y;\n", "pos.c")
	if err != nil {
		t.Fatal(err)
	}
	// A declaration is positioned at its outermost declarator.
	y := f.Decls[1].(*ast.Decl)
	if y.Pos != (ast.Coord{File: "pos.c", Line: 2, Column: 5, Offset: 11}) {
		t.Errorf("bad decl position %s", y.Pos)
	}
	td := y.Type.(*ast.PtrDecl).Type.(*ast.TypeDecl)
	if td.Pos != (ast.Coord{File: "pos.c", Line: 2, Column: 6, Offset: 12}) {
		t.Errorf("bad name position %s", td.Pos)
	}
	if f.Pos.File != "pos.c" {
		t.Errorf("bad file position %s", f.Pos)
	}
}

func TestLineMarkers(t *testing.T) {
	f, err := Parse("# 7 \"orig.c\"\nint x;\n", "pp.i")
	if err != nil {
		t.Fatal(err)
	}
	pos := f.Decls[0].GetPos()
	if pos.File != "orig.c" || pos.Line != 7 {
		t.Fatalf("line marker ignored, got %s", pos)
	}
	// Running out of input is reported against the current file.
	_, err = Parse("int a;\n# 3 \"inc.h\"\nint x", "pp.i")
	if err == nil || err.Error() != "inc.h: At end of input" {
		t.Fatalf("unexpected error %v", err)
	}
}

type recorder struct {
	rules []string
}

func (r *recorder) Reduced(rule string, n ast.Node) {
	r.rules = append(r.rules, rule)
}

func TestObserver(t *testing.T) {
	r := &recorder{}
	p := &Parser{Observer: r}
	if _, err := p.Parse("int x;\nvoid f(void) { return; }\n", "test.c"); err != nil {
		t.Fatal(err)
	}
	exp := "declaration parameter_declaration statement function_definition"
	if got := strings.Join(r.rules, " "); got != exp {
		t.Fatalf("got %q expected %q", got, exp)
	}
}

func TestTracer(t *testing.T) {
	var buf bytes.Buffer
	p := &Parser{Observer: NewTracer(&buf)}
	if _, err := p.Parse("int x;", "test.c"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "test.c:1:5: declaration Decl\n" {
		t.Fatalf("unexpected trace %q", buf.String())
	}
}

func TestInspectParsed(t *testing.T) {
	f, err := Parse("int f(int a) { return a + g(a, 1); }", "test.c")
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	ast.Inspect(f, func(n ast.Node) bool {
		if id, ok := n.(*ast.ID); ok {
			ids = append(ids, id.Name)
		}
		return true
	})
	if strings.Join(ids, ",") != "a,g,a" {
		t.Fatalf("unexpected identifiers %v", ids)
	}
}

func TestParseAll(t *testing.T) {
	units := []Unit{
		{Filename: "a.c", Src: "int a;"},
		{Filename: "b.c", Src: "typedef int T; T b;"},
		// T must not leak in from b.c.
		{Filename: "c.c", Src: "int T; int c;"},
	}
	files, err := ParseAll(context.Background(), units, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != len(units) {
		t.Fatalf("expected %d results, got %d", len(units), len(files))
	}
	for i, f := range files {
		if f.Pos.File != units[i].Filename {
			t.Errorf("result %d is for %s", i, f.Pos.File)
		}
	}
	if files[1].Decls[1].(*ast.Decl).Name != "b" {
		t.Errorf("unexpected second unit %s", shape(files[1]))
	}
}

func TestParseAllError(t *testing.T) {
	units := []Unit{
		{Filename: "ok.c", Src: "int a;"},
		{Filename: "bad.c", Src: "int"},
	}
	files, err := ParseAll(context.Background(), units, 0)
	if files != nil {
		t.Errorf("expected no results on error")
	}
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if err.Error() != "bad.c: At end of input" {
		t.Fatalf("unexpected error %q", err)
	}
}

func TestParseAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ParseAll(ctx, []Unit{{Filename: "a.c", Src: "int a;"}}, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
