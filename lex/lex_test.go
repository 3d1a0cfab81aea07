package lex

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"testing"
)

func sourceToExpectFile(s string) string {
	return s[0:len(s)-2] + ".exp"
}

func lexTestCase(t *testing.T, cfile string, expectfile string) {
	src, err := os.ReadFile(cfile)
	if err != nil {
		t.Fatal(err)
	}
	ef, err := os.Open(expectfile)
	if err != nil {
		t.Fatal(err)
	}
	defer ef.Close()
	scanner := bufio.NewScanner(ef)
	errorReported := false
	lexer := New(cfile, string(src))
	for {
		expectedTokS := ""
		if scanner.Scan() {
			expectedTokS = scanner.Text()
		}
		tok, err := lexer.Next()
		if err != nil {
			t.Errorf("Testfile %s failed because %s", cfile, err)
			return
		}
		tokS := fmt.Sprintf("%s:%s:%d:%d", tok.Kind, tok.Val, tok.Pos.Line, tok.Pos.Col)
		if tokS != expectedTokS && !errorReported {
			if expectedTokS == "" {
				t.Errorf("Test failed %s - extra token %s", cfile, tokS)
			} else {
				t.Errorf("Test failed %s: got %s expected %s ", cfile, tokS, expectedTokS)
			}
			errorReported = true
		}
		if tok.Kind == EOF {
			break
		}
	}
}

func TestLexer(t *testing.T) {
	info, err := os.ReadDir("lextests")
	if err != nil {
		t.Fatal(err)
	}
	for i := range info {
		filename := info[i].Name()
		if !strings.HasSuffix(filename, ".c") {
			continue
		}
		expectPath := sourceToExpectFile(filename)
		lexTestCase(t, "lextests/"+filename, "lextests/"+expectPath)
	}
}

func lexAll(t *testing.T, src string) []*Token {
	t.Helper()
	lexer := New("test.c", src)
	var toks []*Token
	for {
		tok, err := lexer.Next()
		if err != nil {
			t.Fatalf("lexing %q: %s", src, err)
		}
		if tok.Kind == EOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func TestTokenKinds(t *testing.T) {
	tests := []struct {
		src  string
		kind TokenKind
		val  string
	}{
		{"...", ELLIPSIS, "..."},
		{"<<=", SHL_ASSIGN, "<<="},
		{">>=", SHR_ASSIGN, ">>="},
		{"^=", XOR_ASSIGN, "^="},
		{"/=", QUO_ASSIGN, "/="},
		{"->", ARROW, "->"},
		{"L'x'", WCHAR_CONSTANT, "L'x'"},
		{`L"wide"`, WSTRING, `L"wide"`},
		{`"a\"b"`, STRING, `"a\"b"`},
		{"'\\n'", CHAR_CONSTANT, "'\\n'"},
		{"0b101", INT_CONSTANT, "0b101"},
		{"10UL", INT_CONSTANT, "10UL"},
		{"7u", INT_CONSTANT, "7u"},
		{".5", FLOAT_CONSTANT, ".5"},
		{"1.", FLOAT_CONSTANT, "1."},
		{"2e-3", FLOAT_CONSTANT, "2e-3"},
		{"0x1.8p1", FLOAT_CONSTANT, "0x1.8p1"},
		{"Lfoo", IDENT, "Lfoo"},
		{"_Bool", BOOL, "_Bool"},
		{"offsetof", OFFSETOF, "offsetof"},
		{"x$1", IDENT, "x$1"},
		{"0777", INT_CONSTANT, "0777"},
		{"1ULL", INT_CONSTANT, "1ULL"},
		{"5llu", INT_CONSTANT, "5llu"},
		{"09.5", FLOAT_CONSTANT, "09.5"},
		{"0x1fp2f", FLOAT_CONSTANT, "0x1fp2f"},
		{"1e+5L", FLOAT_CONSTANT, "1e+5L"},
	}
	for _, tc := range tests {
		toks := lexAll(t, tc.src)
		if len(toks) != 1 {
			t.Errorf("%q: expected one token, got %d", tc.src, len(toks))
			continue
		}
		if toks[0].Kind != tc.kind || toks[0].Val != tc.val {
			t.Errorf("%q: got %s %q, expected %s %q", tc.src, toks[0].Kind, toks[0].Val, tc.kind, tc.val)
		}
	}
}

func TestDirectives(t *testing.T) {
	toks := lexAll(t, "#include <stdio.h>\nint x; #\n")
	if len(toks) != 5 {
		t.Fatalf("expected 5 tokens, got %d", len(toks))
	}
	if toks[0].Kind != DIRECTIVE || toks[0].Val != "include" {
		t.Errorf("expected include directive, got %s %q", toks[0].Kind, toks[0].Val)
	}
	// A '#' that does not start a line is just a token.
	if toks[4].Kind != HASH {
		t.Errorf("expected '#', got %s", toks[4].Kind)
	}
	toks = lexAll(t, "#\n#line 40 \"bar.h\"\ny\n")
	if len(toks) != 1 {
		t.Fatalf("expected 1 token, got %d", len(toks))
	}
	if toks[0].Pos.File != "bar.h" || toks[0].Pos.Line != 40 {
		t.Errorf("line directive not honoured: %s", toks[0].Pos)
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		src string
		msg string
	}{
		{"/* never closed", "unclosed comment"},
		{"\"abc\n\"", "newline in string literal"},
		{"''", "empty char literal"},
		{"int @", "illegal character '@'"},
		{"12abc", "invalid constant int"},
		{"0x", "invalid constant int"},
		{"int x = 0x;", "invalid constant int"},
		{"0b", "invalid constant int"},
		{"08", "invalid octal constant"},
		{"1uu", "invalid constant int"},
		{"1ulUL", "invalid constant int"},
		{"1ux", "invalid constant int"},
		{"1e", "invalid floating point constant"},
		{"1e+;", "invalid floating point constant"},
		{"1.5ff", "invalid floating point constant"},
		{"0x1.8", "invalid hex float constant"},
	}
	for _, tc := range tests {
		lexer := New("err.c", tc.src)
		var err error
		for err == nil {
			var tok *Token
			tok, err = lexer.Next()
			if err == nil && tok.Kind == EOF {
				break
			}
		}
		if err == nil {
			t.Errorf("%q: expected error", tc.src)
			continue
		}
		if !strings.Contains(err.Error(), tc.msg) {
			t.Errorf("%q: expected error containing %q, got %q", tc.src, tc.msg, err)
		}
		// Errors are sticky.
		tok, err2 := lexer.Next()
		if err2 != err || tok.Kind != ERROR {
			t.Errorf("%q: expected the same error on the next call", tc.src)
		}
	}
}

func TestConstantErrorPos(t *testing.T) {
	lexer := New("err.c", "x = 0x;")
	var err error
	for err == nil {
		_, err = lexer.Next()
	}
	if err.Error() != "invalid constant int at err.c:1:5" {
		t.Fatalf("unexpected error %q", err)
	}
}
