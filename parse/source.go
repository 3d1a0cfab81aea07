package parse

import (
	"errors"

	"github.com/andrewchambers/cparse/lex"
)

var errUnbalancedBrace = errors.New("unbalanced '}'")

// source hands tokens from the lexer to the parser. It turns identifiers
// that currently name a type into TYPENAME tokens and opens and closes
// scopes as braces go past, before the parser sees them, so that the
// classification of the following token is already correct.
type source struct {
	lx     *lex.Lexer
	scopes *scopeStack
	last *lex.Token
}

func newSource(lx *lex.Lexer, scopes *scopeStack) *source {
	return &source{lx: lx, scopes: scopes}
}

// lookahead is the token most recently handed to the parser.
func (s *source) lookahead() *lex.Token {
	return s.last
}

func (s *source) next() (*lex.Token, error) {
	t, err := s.lx.Next()
	if err != nil {
		return t, err
	}
	switch t.Kind {
	case lex.IDENT:
		if s.scopes.isType(t.Val) {
			typeTok := *t
			typeTok.Kind = lex.TYPENAME
			t = &typeTok
		}
	case lex.LBRACE:
		s.scopes.push()
	case lex.RBRACE:
		if !s.scopes.pop() {
			s.last = t
			return t, errUnbalancedBrace
		}
	}
	s.last = t
	return t, nil
}
