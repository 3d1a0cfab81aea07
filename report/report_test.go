package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/andrewchambers/cparse/lex"
	"github.com/andrewchambers/cparse/parse"
)

func TestWrite(t *testing.T) {
	tests := []struct {
		src string
		exp string
	}{
		{
			"int x = ;\n",
			"test.c:1:9: before: ;\n\nint x = ;\n        ^\n",
		},
		{
			"int f(void) {\n\treturn 1 +;\n}\n",
			"test.c:2:12: before: ;\n\n    return 1 +;\n              ^\n",
		},
		{
			// Line markers move the reported line, not the printed one.
			"# 1 \"a.c\"\nint x = ;\n",
			"a.c:1:9: before: ;\n\nint x = ;\n        ^\n",
		},
		{
			"# 40 \"b.h\"\nint a;\n# 7 \"c.c\"\nint b = ;\n",
			"c.c:7:9: before: ;\n\nint b = ;\n        ^\n",
		},
		{
			// Columns count bytes, the caret counts characters.
			"char *s = \"\u00e9\"; int y = ;\n",
			"test.c:1:25: before: ;\n\nchar *s = \"\u00e9\"; int y = ;\n                       ^\n",
		},
		{
			// No position, no source line.
			"int x",
			"test.c: At end of input\n\n",
		},
	}
	for _, tc := range tests {
		_, err := parse.Parse(tc.src, "test.c")
		if err == nil {
			t.Fatalf("expected %q to fail", tc.src)
		}
		var buf bytes.Buffer
		Write(&buf, err, tc.src)
		if buf.String() != tc.exp {
			t.Errorf("got:\n%q\nexpected:\n%q", buf.String(), tc.exp)
		}
	}
}

func TestWriteLexError(t *testing.T) {
	src := "a\nb @\n"
	err := lex.ErrWithLoc(errors.New("illegal character '@'"), lex.FilePos{File: "x.c", Line: 2, Col: 3, Offset: 4})
	var buf bytes.Buffer
	Write(&buf, err, src)
	exp := "illegal character '@' at x.c:2:3\n\nb @\n  ^\n"
	if buf.String() != exp {
		t.Fatalf("got %q expected %q", buf.String(), exp)
	}
}

func TestWriteNil(t *testing.T) {
	var buf bytes.Buffer
	Write(&buf, nil, "int x;")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}
