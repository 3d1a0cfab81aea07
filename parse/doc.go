// Package parse turns preprocessed C source into an ast.FileAST.
//
// The parser is hand written recursive descent with one token of lookahead.
// Identifiers are classified as typedef names or ordinary identifiers by the
// token source using the scopes built up so far (the lexer hack), so the
// grammar itself never has to guess.
//
// Glossary:
//
// Declarator
// ----------
//
// A declarator is the part of a declaration that specifies
// the name that is to be introduced into the program.
//
// e.g.
// unsigned int a, *b, **c, *const*d *volatile*e ;
//              ^  ^^  ^^^  ^^^^^^^^ ^^^^^^^^^^^
//
// Direct Declarator
// -----------------
//
// A direct declarator is missing the pointer prefix.
//
// e.g.
// unsigned int a[32], b[];
//              ^^^^^  ^^^
//
// Abstract Declarator
// -------------------
//
// A declarator missing an identifier, as in casts and sizeof.
//
// e.g.
// (char *[4])
//       ^^^^
//
// Specifier Qualifier List
// ------------------------
//
// The type and qualifier part of a declaration, shared between ordinary
// declarations, struct members and type names.
//
// K&R Definition
// --------------
//
// An old style function definition, parameter names in the declarator and
// their types in a declaration list before the body.
//
// e.g.
// int f(a, b) int a; char *b; { ... }
package parse
