package parse

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/andrewchambers/cparse/ast"
	"github.com/andrewchambers/cparse/lex"
)

// Observer is told about each node a production builds, after it is built.
type Observer interface {
	Reduced(rule string, n ast.Node)
}

// Parser parses C translation units. A Parser may be reused for any number
// of inputs, each call to Parse starts from an empty file scope, but it must
// not be used from several goroutines at once.
type Parser struct {
	// Observer is optional.
	Observer Observer
}

func New() *Parser {
	return &Parser{}
}

// Parse parses preprocessed C source. filename is used in positions and
// error messages. On error the returned *ast.FileAST is nil and the error
// is a *Error.
func Parse(src string, filename string) (*ast.FileAST, error) {
	return New().Parse(src, filename)
}

func (ps *Parser) Parse(src string, filename string) (ret *ast.FileAST, errRet error) {
	p := &parser{}
	p.filename = filename
	p.obs = ps.Observer
	p.scopes = newScopeStack()
	p.src = newSource(lex.New(filename, src), p.scopes)

	defer func() {
		if e := recover(); e != nil {
			peb := e.(parseErrorBreakOut) // Will re-panic if not a breakout.
			ret = nil
			errRet = peb.err
		}
	}()
	p.next()
	return p.parseTranslationUnit(), nil
}

type parser struct {
	filename string
	obs      Observer
	scopes   *scopeStack
	src      *source
	// curt is the current token, peekt the one after it once something has
	// asked for it. The token after curt is only lexed on demand so that
	// names declared while curt is current classify it correctly.
	curt, peekt *lex.Token
}

type parseErrorBreakOut struct {
	err error
}

func (p *parser) pos(t *lex.Token) ast.Coord {
	return coordOf(t.Pos)
}

func coordOf(pos lex.FilePos) ast.Coord {
	return ast.Coord{
		File:   pos.File,
		Line:   pos.Line,
		Column: pos.Col,
		Offset: pos.Offset,
	}
}

func (p *parser) errorPos(kind ErrorKind, pos ast.Coord, m string, vals ...interface{}) {
	msg := fmt.Sprintf(m, vals...)
	if os.Getenv("CPARSEDEBUG") == "true" {
		msg = fmt.Sprintf("%s\n%s", msg, debug.Stack())
	}
	panic(parseErrorBreakOut{&Error{Kind: kind, Msg: msg, Pos: pos}})
}

func (p *parser) syntaxError(t *lex.Token) {
	if t.Kind == lex.EOF {
		p.errorPos(SyntaxError, ast.Coord{File: p.src.lx.Filename()}, "At end of input")
	}
	p.errorPos(SyntaxError, p.pos(t), "before: %s", t.Val)
}

func (p *parser) declError(pos ast.Coord, m string, vals ...interface{}) {
	p.errorPos(DeclError, pos, m, vals...)
}

func (p *parser) expect(k lex.TokenKind) {
	if p.curt.Kind != k {
		p.syntaxError(p.curt)
	}
	p.next()
}

func (p *parser) next() {
	if p.peekt != nil {
		p.curt = p.peekt
		p.peekt = nil
		return
	}
	p.curt = p.read()
}

func (p *parser) peek() *lex.Token {
	if p.peekt == nil {
		p.peekt = p.read()
	}
	return p.peekt
}

func (p *parser) read() *lex.Token {
	t, err := p.src.next()
	if err == errUnbalancedBrace {
		p.syntaxError(t)
	}
	if err != nil {
		var el lex.ErrorLoc
		if errors.As(err, &el) {
			p.errorPos(TokenError, coordOf(el.Pos), "%s", el.Err)
		}
		p.errorPos(TokenError, ast.Coord{File: p.filename}, "%s", err)
	}
	return t
}

func (p *parser) reduced(rule string, n ast.Node) {
	if p.obs != nil {
		p.obs.Reduced(rule, n)
	}
}

func (p *parser) addTypedefName(name string, pos ast.Coord) {
	if err := p.scopes.cur.addTypedefName(name); err != nil {
		p.declError(pos, "%s", err)
	}
}

func (p *parser) addIdentifier(name string, pos ast.Coord) {
	p.addIdentifierIn(p.scopes.cur, name, pos)
}

func (p *parser) addIdentifierIn(s *scope, name string, pos ast.Coord) {
	if err := s.addIdentifier(name); err != nil {
		p.declError(pos, "%s", err)
	}
}

func (p *parser) parseTranslationUnit() *ast.FileAST {
	file := &ast.FileAST{Pos: ast.Coord{File: p.filename}}
	for p.curt.Kind != lex.EOF {
		file.Decls = append(file.Decls, p.parseExternalDeclaration()...)
	}
	return file
}

func (p *parser) parseExternalDeclaration() []ast.Node {
	switch p.curt.Kind {
	case ';':
		p.next()
		return nil
	case lex.DIRECTIVE, lex.PRAGMA:
		p.errorPos(UnsupportedError, p.pos(p.curt), "Directives not supported yet")
	case lex.IDENT, '*', '(':
		// No specifiers, an old style definition returning int.
		spec := &declSpec{
			Type: []ast.Node{&ast.IdentifierType{Pos: p.pos(p.curt), Names: []string{"int"}}},
		}
		d := p.parseDeclarator(declNamed)
		return []ast.Node{p.parseFunctionDefinition(spec, d)}
	}
	spec := p.parseDeclSpecs()
	if spec.empty() {
		p.syntaxError(p.curt)
	}
	var first ast.Node
	if p.curt.Kind != ';' && p.curt.Kind != '=' {
		first = p.parseDeclarator(declEither)
		if first != nil && declName(first) != "" && p.startsFunctionBody(first) {
			return []ast.Node{p.parseFunctionDefinition(spec, first)}
		}
	}
	return p.finishDeclaration(spec, first, true)
}
