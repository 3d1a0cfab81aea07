package parse

import (
	"github.com/andrewchambers/cparse/ast"
	"github.com/andrewchambers/cparse/lex"
)

// parseCompound parses a brace enclosed block. beforeClose, if not nil, is
// called once the closing brace is the current token, at which point the
// block's scope has already been popped.
func (p *parser) parseCompound(beforeClose func()) *ast.Compound {
	c := &ast.Compound{Pos: p.pos(p.curt)}
	p.expect('{')
	for p.curt.Kind != '}' {
		c.BlockItems = append(c.BlockItems, p.parseBlockItem()...)
	}
	if beforeClose != nil {
		beforeClose()
	}
	p.expect('}')
	return c
}

func (p *parser) parseBlockItem() []ast.Node {
	if isDeclStart(p.curt.Kind) {
		return p.parseDeclaration(true)
	}
	return []ast.Node{p.parseStatement()}
}

func (p *parser) parseStatement() ast.Node {
	var s ast.Node
	pos := p.pos(p.curt)
	switch p.curt.Kind {
	case lex.IDENT:
		if p.peek().Kind == ':' {
			name := p.curt.Val
			p.next()
			p.next()
			s = &ast.Label{Pos: pos, Name: name, Stmt: p.parseStatement()}
		} else {
			s = p.parseExpressionStatement()
		}
	case lex.CASE:
		p.next()
		e := p.parseConditionalExpression()
		p.expect(':')
		s = &ast.Case{Pos: pos, Expr: e, Stmts: []ast.Node{p.parseStatement()}}
	case lex.DEFAULT:
		p.next()
		p.expect(':')
		s = &ast.Default{Pos: pos, Stmts: []ast.Node{p.parseStatement()}}
	case '{':
		s = p.parseCompound(nil)
	case lex.IF:
		s = p.parseIf()
	case lex.SWITCH:
		s = p.parseSwitch()
	case lex.WHILE:
		s = p.parseWhile()
	case lex.DO:
		s = p.parseDoWhile()
	case lex.FOR:
		s = p.parseFor()
	case lex.GOTO:
		p.next()
		t := p.curt
		p.expect(lex.IDENT)
		p.expect(';')
		s = &ast.Goto{Pos: pos, Name: t.Val}
	case lex.BREAK:
		p.next()
		p.expect(';')
		s = &ast.Break{Pos: pos}
	case lex.CONTINUE:
		p.next()
		p.expect(';')
		s = &ast.Continue{Pos: pos}
	case lex.RETURN:
		p.next()
		r := &ast.Return{Pos: pos}
		if p.curt.Kind != ';' {
			r.Expr = p.parseExpression()
		}
		p.expect(';')
		s = r
	case lex.PRAGMA:
		s = &ast.Pragma{Pos: pos, String: p.curt.Val}
		p.next()
	case lex.DIRECTIVE:
		p.errorPos(UnsupportedError, pos, "Directives not supported yet")
	case ';':
		p.next()
		s = &ast.EmptyStatement{Pos: pos}
	default:
		s = p.parseExpressionStatement()
	}
	p.reduced("statement", s)
	return s
}

func (p *parser) parseExpressionStatement() ast.Node {
	e := p.parseExpression()
	p.expect(';')
	return e
}

func (p *parser) parseIf() ast.Node {
	s := &ast.If{Pos: p.pos(p.curt)}
	p.expect(lex.IF)
	p.expect('(')
	s.Cond = p.parseExpression()
	p.expect(')')
	s.Then = p.parseStatement()
	if p.curt.Kind == lex.ELSE {
		p.next()
		s.Else = p.parseStatement()
	}
	return s
}

func (p *parser) parseSwitch() ast.Node {
	s := &ast.Switch{Pos: p.pos(p.curt)}
	p.expect(lex.SWITCH)
	p.expect('(')
	s.Cond = p.parseExpression()
	p.expect(')')
	s.Body = p.parseStatement()
	return ast.FixSwitchCases(s)
}

func (p *parser) parseFor() ast.Node {
	s := &ast.For{Pos: p.pos(p.curt)}
	p.expect(lex.FOR)
	p.expect('(')
	if isDeclStart(p.curt.Kind) {
		// The declaration consumes the ';'.
		s.Init = &ast.DeclList{Pos: s.Pos, Decls: p.parseDeclaration(true)}
	} else {
		if p.curt.Kind != ';' {
			s.Init = p.parseExpression()
		}
		p.expect(';')
	}
	if p.curt.Kind != ';' {
		s.Cond = p.parseExpression()
	}
	p.expect(';')
	if p.curt.Kind != ')' {
		s.Next = p.parseExpression()
	}
	p.expect(')')
	s.Body = p.parseStatement()
	return s
}

func (p *parser) parseWhile() ast.Node {
	s := &ast.While{Pos: p.pos(p.curt)}
	p.expect(lex.WHILE)
	p.expect('(')
	s.Cond = p.parseExpression()
	p.expect(')')
	s.Body = p.parseStatement()
	return s
}

func (p *parser) parseDoWhile() ast.Node {
	s := &ast.DoWhile{Pos: p.pos(p.curt)}
	p.expect(lex.DO)
	s.Body = p.parseStatement()
	p.expect(lex.WHILE)
	p.expect('(')
	s.Cond = p.parseExpression()
	p.expect(')')
	p.expect(';')
	return s
}
