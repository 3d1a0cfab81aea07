package parse

import (
	"strings"

	"github.com/andrewchambers/cparse/ast"
	"github.com/andrewchambers/cparse/lex"
)

func isAssignmentOperator(k lex.TokenKind) bool {
	switch k {
	case '=', lex.ADD_ASSIGN, lex.SUB_ASSIGN, lex.MUL_ASSIGN, lex.QUO_ASSIGN, lex.REM_ASSIGN,
		lex.AND_ASSIGN, lex.OR_ASSIGN, lex.XOR_ASSIGN, lex.SHL_ASSIGN, lex.SHR_ASSIGN:
		return true
	}
	return false
}

func (p *parser) parseExpression() ast.Node {
	first := p.parseAssignmentExpression()
	if p.curt.Kind != ',' {
		return first
	}
	l := &ast.ExprList{Pos: first.GetPos(), Exprs: []ast.Node{first}}
	for p.curt.Kind == ',' {
		p.next()
		l.Exprs = append(l.Exprs, p.parseAssignmentExpression())
	}
	return l
}

func (p *parser) parseAssignmentExpression() ast.Node {
	l := p.parseConditionalExpression()
	if isAssignmentOperator(p.curt.Kind) {
		op := p.curt.Val
		p.next()
		r := p.parseAssignmentExpression()
		return &ast.Assignment{Pos: l.GetPos(), Op: op, Target: l, Value: r}
	}
	return l
}

// Aka Ternary operator.
func (p *parser) parseConditionalExpression() ast.Node {
	cond := p.parseLogicalOrExpression()
	if p.curt.Kind != '?' {
		return cond
	}
	p.next()
	then := p.parseExpression()
	p.expect(':')
	els := p.parseConditionalExpression()
	return &ast.TernaryOp{Pos: cond.GetPos(), Cond: cond, Then: then, Else: els}
}

// binop consumes the operator token and parses the right operand with
// operand.
func (p *parser) binop(l ast.Node, operand func() ast.Node) ast.Node {
	op := p.curt.Val
	p.next()
	r := operand()
	return &ast.BinaryOp{Pos: l.GetPos(), Op: op, Left: l, Right: r}
}

func (p *parser) parseLogicalOrExpression() ast.Node {
	l := p.parseLogicalAndExpression()
	for p.curt.Kind == lex.LOR {
		l = p.binop(l, p.parseLogicalAndExpression)
	}
	return l
}

func (p *parser) parseLogicalAndExpression() ast.Node {
	l := p.parseInclusiveOrExpression()
	for p.curt.Kind == lex.LAND {
		l = p.binop(l, p.parseInclusiveOrExpression)
	}
	return l
}

func (p *parser) parseInclusiveOrExpression() ast.Node {
	l := p.parseExclusiveOrExpression()
	for p.curt.Kind == '|' {
		l = p.binop(l, p.parseExclusiveOrExpression)
	}
	return l
}

func (p *parser) parseExclusiveOrExpression() ast.Node {
	l := p.parseAndExpression()
	for p.curt.Kind == '^' {
		l = p.binop(l, p.parseAndExpression)
	}
	return l
}

func (p *parser) parseAndExpression() ast.Node {
	l := p.parseEqualityExpression()
	for p.curt.Kind == '&' {
		l = p.binop(l, p.parseEqualityExpression)
	}
	return l
}

func (p *parser) parseEqualityExpression() ast.Node {
	l := p.parseRelationalExpression()
	for p.curt.Kind == lex.EQL || p.curt.Kind == lex.NEQ {
		l = p.binop(l, p.parseRelationalExpression)
	}
	return l
}

func (p *parser) parseRelationalExpression() ast.Node {
	l := p.parseShiftExpression()
	for p.curt.Kind == '>' || p.curt.Kind == '<' || p.curt.Kind == lex.LEQ || p.curt.Kind == lex.GEQ {
		l = p.binop(l, p.parseShiftExpression)
	}
	return l
}

func (p *parser) parseShiftExpression() ast.Node {
	l := p.parseAdditiveExpression()
	for p.curt.Kind == lex.SHL || p.curt.Kind == lex.SHR {
		l = p.binop(l, p.parseAdditiveExpression)
	}
	return l
}

func (p *parser) parseAdditiveExpression() ast.Node {
	l := p.parseMultiplicativeExpression()
	for p.curt.Kind == '+' || p.curt.Kind == '-' {
		l = p.binop(l, p.parseMultiplicativeExpression)
	}
	return l
}

func (p *parser) parseMultiplicativeExpression() ast.Node {
	l := p.parseCastExpression()
	for p.curt.Kind == '*' || p.curt.Kind == '/' || p.curt.Kind == '%' {
		l = p.binop(l, p.parseCastExpression)
	}
	return l
}

func (p *parser) startsTypeNameInParens() bool {
	return p.curt.Kind == '(' && isTypeNameStart(p.peek().Kind)
}

func (p *parser) parseCastExpression() ast.Node {
	if !p.startsTypeNameInParens() {
		return p.parseUnaryExpression()
	}
	pos := p.pos(p.curt)
	p.next()
	tn := p.parseTypeName()
	p.expect(')')
	if p.curt.Kind == '{' {
		return p.parsePostfixOperators(p.parseCompoundLiteral(pos, tn))
	}
	return &ast.Cast{Pos: pos, ToType: tn, Expr: p.parseCastExpression()}
}

func (p *parser) parseUnaryExpression() ast.Node {
	switch p.curt.Kind {
	case lex.INC, lex.DEC:
		op := p.curt.Val
		p.next()
		operand := p.parseUnaryExpression()
		return &ast.UnaryOp{Pos: operand.GetPos(), Op: op, Operand: operand}
	case '*', '+', '-', '!', '~', '&':
		op := p.curt.Val
		p.next()
		operand := p.parseCastExpression()
		return &ast.UnaryOp{Pos: operand.GetPos(), Op: op, Operand: operand}
	case lex.SIZEOF:
		pos := p.pos(p.curt)
		p.next()
		if p.startsTypeNameInParens() {
			lpos := p.pos(p.curt)
			p.next()
			tn := p.parseTypeName()
			p.expect(')')
			if p.curt.Kind == '{' {
				// sizeof applied to a compound literal.
				e := p.parsePostfixOperators(p.parseCompoundLiteral(lpos, tn))
				return &ast.UnaryOp{Pos: pos, Op: "sizeof", Operand: e}
			}
			return &ast.UnaryOp{Pos: pos, Op: "sizeof", Operand: tn}
		}
		return &ast.UnaryOp{Pos: pos, Op: "sizeof", Operand: p.parseUnaryExpression()}
	default:
		return p.parsePostfixExpression()
	}
}

func (p *parser) parseCompoundLiteral(pos ast.Coord, tn *ast.Typename) ast.Node {
	return &ast.CompoundLiteral{Pos: pos, Type: tn, Init: p.parseBraceInitializer()}
}

func (p *parser) parsePostfixExpression() ast.Node {
	if p.startsTypeNameInParens() {
		pos := p.pos(p.curt)
		p.next()
		tn := p.parseTypeName()
		p.expect(')')
		if p.curt.Kind != '{' {
			p.syntaxError(p.curt)
		}
		return p.parsePostfixOperators(p.parseCompoundLiteral(pos, tn))
	}
	return p.parsePostfixOperators(p.parsePrimaryExpression())
}

func (p *parser) parsePostfixOperators(l ast.Node) ast.Node {
	for {
		switch p.curt.Kind {
		case '[':
			p.next()
			idx := p.parseExpression()
			p.expect(']')
			l = &ast.ArrayRef{Pos: l.GetPos(), Array: l, Index: idx}
		case '.', lex.ARROW:
			access := p.curt.Val
			p.next()
			t := p.curt
			if t.Kind != lex.IDENT && t.Kind != lex.TYPENAME {
				p.syntaxError(t)
			}
			p.next()
			l = &ast.StructRef{
				Pos:    l.GetPos(),
				Target: l,
				Access: access,
				Field:  &ast.ID{Pos: p.pos(t), Name: t.Val},
			}
		case '(':
			p.next()
			call := &ast.FuncCall{Pos: l.GetPos(), Callee: l}
			if p.curt.Kind != ')' {
				first := p.parseAssignmentExpression()
				args := &ast.ExprList{Pos: first.GetPos(), Exprs: []ast.Node{first}}
				for p.curt.Kind == ',' {
					p.next()
					args.Exprs = append(args.Exprs, p.parseAssignmentExpression())
				}
				call.Args = args
			}
			p.expect(')')
			l = call
		case lex.INC, lex.DEC:
			l = &ast.UnaryOp{Pos: l.GetPos(), Op: "p" + p.curt.Val, Operand: l}
			p.next()
		default:
			return l
		}
	}
}

func (p *parser) parsePrimaryExpression() ast.Node {
	t := p.curt
	pos := p.pos(t)
	switch t.Kind {
	case lex.IDENT:
		p.next()
		return &ast.ID{Pos: pos, Name: t.Val}
	case lex.INT_CONSTANT:
		p.next()
		return &ast.Constant{Pos: pos, Type: "int", Value: t.Val}
	case lex.FLOAT_CONSTANT:
		p.next()
		return &ast.Constant{Pos: pos, Type: "float", Value: t.Val}
	case lex.CHAR_CONSTANT, lex.WCHAR_CONSTANT:
		p.next()
		return &ast.Constant{Pos: pos, Type: "char", Value: t.Val}
	case lex.STRING:
		p.next()
		v := t.Val
		// Adjacent literals are joined, dropping the inner quotes.
		for p.curt.Kind == lex.STRING {
			v = v[:len(v)-1] + p.curt.Val[1:]
			p.next()
		}
		return &ast.Constant{Pos: pos, Type: "string", Value: v}
	case lex.WSTRING:
		p.next()
		v := t.Val
		for p.curt.Kind == lex.WSTRING {
			v = strings.TrimRight(v, " \t")
			v = v[:len(v)-1] + p.curt.Val[2:]
			p.next()
		}
		return &ast.Constant{Pos: pos, Type: "string", Value: v}
	case '(':
		p.next()
		e := p.parseExpression()
		p.expect(')')
		return e
	case lex.OFFSETOF:
		return p.parseOffsetof()
	}
	p.syntaxError(t)
	panic("unreachable")
}

// parseOffsetof parses offsetof(type, member) into a call of offsetof.
func (p *parser) parseOffsetof() ast.Node {
	t := p.curt
	pos := p.pos(t)
	p.expect(lex.OFFSETOF)
	p.expect('(')
	tn := p.parseTypeName()
	p.expect(',')
	member := p.parseMemberDesignator()
	p.expect(')')
	return &ast.FuncCall{
		Pos:    pos,
		Callee: &ast.ID{Pos: pos, Name: t.Val},
		Args:   &ast.ExprList{Pos: tn.Pos, Exprs: []ast.Node{tn, member}},
	}
}

func (p *parser) parseMemberDesignator() ast.Node {
	t := p.curt
	if t.Kind != lex.IDENT && t.Kind != lex.TYPENAME {
		p.syntaxError(t)
	}
	p.next()
	var d ast.Node = &ast.ID{Pos: p.pos(t), Name: t.Val}
	for {
		switch p.curt.Kind {
		case '.':
			p.next()
			f := p.curt
			if f.Kind != lex.IDENT && f.Kind != lex.TYPENAME {
				p.syntaxError(f)
			}
			p.next()
			d = &ast.StructRef{Pos: d.GetPos(), Target: d, Access: ".", Field: &ast.ID{Pos: p.pos(f), Name: f.Val}}
		case '[':
			p.next()
			idx := p.parseExpression()
			p.expect(']')
			d = &ast.ArrayRef{Pos: d.GetPos(), Array: d, Index: idx}
		default:
			return d
		}
	}
}

func (p *parser) parseInitializer() ast.Node {
	if p.curt.Kind == '{' {
		return p.parseBraceInitializer()
	}
	return p.parseAssignmentExpression()
}

// parseBraceInitializer parses an initializer list. The list may be empty
// and may end in a comma.
func (p *parser) parseBraceInitializer() *ast.InitList {
	l := &ast.InitList{Pos: p.pos(p.curt)}
	p.expect('{')
	for p.curt.Kind != '}' {
		var item ast.Node
		if p.curt.Kind == '[' || p.curt.Kind == '.' {
			designators := p.parseDesignation()
			item = &ast.NamedInitializer{
				Pos:         designators[0].GetPos(),
				Designators: designators,
				Expr:        p.parseInitializer(),
			}
		} else {
			item = p.parseInitializer()
		}
		l.Exprs = append(l.Exprs, item)
		if p.curt.Kind != ',' {
			break
		}
		p.next()
	}
	p.expect('}')
	return l
}

// parseDesignation parses designators up to and including the '='.
func (p *parser) parseDesignation() []ast.Node {
	var designators []ast.Node
	for {
		switch p.curt.Kind {
		case '[':
			p.next()
			designators = append(designators, p.parseConditionalExpression())
			p.expect(']')
		case '.':
			p.next()
			t := p.curt
			if t.Kind != lex.IDENT && t.Kind != lex.TYPENAME {
				p.syntaxError(t)
			}
			p.next()
			designators = append(designators, &ast.ID{Pos: p.pos(t), Name: t.Val})
		default:
			p.expect('=')
			return designators
		}
	}
}
