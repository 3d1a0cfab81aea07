package parse

import (
	"fmt"

	"github.com/andrewchambers/cparse/ast"
)

type ErrorKind int

const (
	// TokenError is a malformed lexeme.
	TokenError ErrorKind = iota
	// SyntaxError is a token no grammar rule accepts.
	SyntaxError
	// DeclError is an inconsistent declaration or a conflicting
	// redeclaration of a typedef name.
	DeclError
	// UnsupportedError is a construct the parser does not handle, such as
	// a preprocessor directive.
	UnsupportedError
)

func (k ErrorKind) String() string {
	switch k {
	case TokenError:
		return "token error"
	case SyntaxError:
		return "syntax error"
	case DeclError:
		return "declaration error"
	case UnsupportedError:
		return "unsupported"
	}
	return "unknown error"
}

// Error is returned by Parse. Pos has a zero Line when the error refers to
// the file as a whole, such as running out of input.
type Error struct {
	Kind ErrorKind
	Msg  string
	Pos  ast.Coord
}

func (e *Error) Error() string {
	if e.Pos.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Pos.File, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}
