package lex

import (
	"fmt"
)

// The list of tokens.
const (

	// Single char tokens are themselves.
	ADD       = '+'
	SUB       = '-'
	MUL       = '*'
	QUO       = '/'
	REM       = '%'
	AND       = '&'
	OR        = '|'
	XOR       = '^'
	QUESTION  = '?'
	HASH      = '#'
	LSS       = '<'
	GTR       = '>'
	ASSIGN    = '='
	NOT       = '!'
	BNOT      = '~'
	LPAREN    = '('
	LBRACK    = '['
	LBRACE    = '{'
	COMMA     = ','
	PERIOD    = '.'
	RPAREN    = ')'
	RBRACK    = ']'
	RBRACE    = '}'
	SEMICOLON = ';'
	COLON     = ':'

	ERROR = 10000 + iota
	EOF
	DIRECTIVE // #include #define etc, left over after preprocessing
	PRAGMA    // #pragma, Val holds the rest of the line
	// Identifiers and basic type literals
	// (these tokens stand for classes of literals)
	TYPENAME        // Same as ident, but typedefed.
	IDENT           // main
	INT_CONSTANT    // 12345
	FLOAT_CONSTANT  // 123.45
	CHAR_CONSTANT   // 'a'
	WCHAR_CONSTANT  // L'a'
	STRING          // "abc"
	WSTRING         // L"abc"

	SHL        // <<
	SHR        // >>
	ADD_ASSIGN // +=
	SUB_ASSIGN // -=
	MUL_ASSIGN // *=
	QUO_ASSIGN // /=
	REM_ASSIGN // %=
	AND_ASSIGN // &=
	OR_ASSIGN  // |=
	XOR_ASSIGN // ^=
	SHL_ASSIGN // <<=
	SHR_ASSIGN // >>=
	LAND       // &&
	LOR        // ||
	ARROW      // ->
	INC        // ++
	DEC        // --
	EQL        // ==
	NEQ        // !=
	LEQ        // <=
	GEQ        // >=
	ELLIPSIS   // ...

	// Keywords
	AUTO
	REGISTER
	EXTERN
	STATIC
	SHORT
	BREAK
	CASE
	DO
	CONST
	CONTINUE
	DEFAULT
	ELSE
	ENUM
	FOR
	WHILE
	GOTO
	IF
	INLINE
	RESTRICT
	RETURN
	STRUCT
	UNION
	VOLATILE
	SWITCH
	TYPEDEF
	SIZEOF
	OFFSETOF
	VOID
	BOOL
	COMPLEX
	CHAR
	INT
	INT128
	FLOAT
	DOUBLE
	SIGNED
	UNSIGNED
	LONG
)

var tokenKindToStr = [...]string{
	HASH:           "#",
	EOF:            "EOF",
	ERROR:          "error",
	DIRECTIVE:      "cppdirective",
	PRAGMA:         "pragma",
	TYPENAME:       "typename",
	CHAR_CONSTANT:  "charconst",
	WCHAR_CONSTANT: "wcharconst",
	INT_CONSTANT:   "intconst",
	FLOAT_CONSTANT: "floatconst",
	IDENT:          "ident",
	STRING:         "string",
	WSTRING:        "wstring",
	ADD:            "'+'",
	SUB:            "'-'",
	MUL:            "'*'",
	QUO:            "'/'",
	REM:            "'%'",
	AND:            "'&'",
	OR:             "'|'",
	XOR:            "'^'",
	SHL:            "'<<'",
	SHR:            "'>>'",
	ADD_ASSIGN:     "'+='",
	SUB_ASSIGN:     "'-='",
	MUL_ASSIGN:     "'*='",
	QUO_ASSIGN:     "'/='",
	REM_ASSIGN:     "'%='",
	AND_ASSIGN:     "'&='",
	OR_ASSIGN:      "'|='",
	XOR_ASSIGN:     "'^='",
	SHL_ASSIGN:     "'<<='",
	SHR_ASSIGN:     "'>>='",
	LAND:           "'&&'",
	LOR:            "'||'",
	ARROW:          "'->'",
	INC:            "'++'",
	DEC:            "'--'",
	EQL:            "'=='",
	LSS:            "'<'",
	GTR:            "'>'",
	ASSIGN:         "'='",
	NOT:            "'!'",
	BNOT:           "'~'",
	NEQ:            "'!='",
	LEQ:            "'<='",
	GEQ:            "'>='",
	ELLIPSIS:       "'...'",
	LPAREN:         "'('",
	LBRACK:         "'['",
	LBRACE:         "'{'",
	COMMA:          "','",
	PERIOD:         "'.'",
	RPAREN:         "')'",
	RBRACK:         "']'",
	RBRACE:         "'}'",
	SEMICOLON:      "';'",
	COLON:          "':'",
	QUESTION:       "'?'",
	AUTO:           "auto",
	REGISTER:       "register",
	EXTERN:         "extern",
	STATIC:         "static",
	SHORT:          "short",
	BREAK:          "break",
	CASE:           "case",
	DO:             "do",
	CONST:          "const",
	CONTINUE:       "continue",
	DEFAULT:        "default",
	ELSE:           "else",
	ENUM:           "enum",
	FOR:            "for",
	WHILE:          "while",
	GOTO:           "goto",
	IF:             "if",
	INLINE:         "inline",
	RESTRICT:       "restrict",
	RETURN:         "return",
	STRUCT:         "struct",
	UNION:          "union",
	VOLATILE:       "volatile",
	SWITCH:         "switch",
	TYPEDEF:        "typedef",
	SIZEOF:         "sizeof",
	OFFSETOF:       "offsetof",
	VOID:           "void",
	BOOL:           "_Bool",
	COMPLEX:        "_Complex",
	CHAR:           "char",
	INT:            "int",
	INT128:         "__int128",
	FLOAT:          "float",
	DOUBLE:         "double",
	SIGNED:         "signed",
	UNSIGNED:       "unsigned",
	LONG:           "long",
}

var keywordLUT = map[string]TokenKind{
	"auto":     AUTO,
	"register": REGISTER,
	"extern":   EXTERN,
	"static":   STATIC,
	"for":      FOR,
	"while":    WHILE,
	"do":       DO,
	"if":       IF,
	"else":     ELSE,
	"goto":     GOTO,
	"break":    BREAK,
	"continue": CONTINUE,
	"case":     CASE,
	"default":  DEFAULT,
	"switch":   SWITCH,
	"struct":   STRUCT,
	"union":    UNION,
	"enum":     ENUM,
	"const":    CONST,
	"volatile": VOLATILE,
	"restrict": RESTRICT,
	"inline":   INLINE,
	"signed":   SIGNED,
	"unsigned": UNSIGNED,
	"typedef":  TYPEDEF,
	"return":   RETURN,
	"void":     VOID,
	"_Bool":    BOOL,
	"_Complex": COMPLEX,
	"char":     CHAR,
	"int":      INT,
	"__int128": INT128,
	"short":    SHORT,
	"long":     LONG,
	"float":    FLOAT,
	"double":   DOUBLE,
	"sizeof":   SIZEOF,
	"offsetof": OFFSETOF,
}

type TokenKind uint32

func (tk TokenKind) String() string {
	if uint32(tk) >= uint32(len(tokenKindToStr)) {
		return "Unknown"
	}
	ret := tokenKindToStr[tk]
	if ret == "" {
		return "Unknown"
	}
	return ret
}

// IsKeyword reports whether the kind is a reserved word.
func (tk TokenKind) IsKeyword() bool {
	return tk >= AUTO && tk <= LONG
}

type FilePos struct {
	File   string
	Line   int
	Col    int
	Offset int // Byte offset into the lexed text, not adjusted by line markers.
}

func (pos FilePos) String() string {
	return fmt.Sprintf("%s:%d:%d", pos.File, pos.Line, pos.Col)
}

//Token represents a grouping of characters
//that provide semantic meaning in a C program.
type Token struct {
	Kind TokenKind
	Val  string
	Pos  FilePos
}

func (t Token) String() string {
	return fmt.Sprintf("%s at %s", t.Val, t.Pos)
}
