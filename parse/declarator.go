package parse

import (
	"github.com/andrewchambers/cparse/ast"
	"github.com/andrewchambers/cparse/lex"
)

type declMode int

const (
	// declNamed requires an identifier, as in a variable declaration.
	declNamed declMode = iota
	// declAbstract forbids an identifier, as in a cast.
	declAbstract
	// declEither accepts both, as in a parameter list.
	declEither
)

// parseDeclarator parses a declarator and returns its outermost node, or
// nil if the declarator is abstract and empty. The innermost node is always
// a TypeDecl whose Type is filled in later from the specifiers.
func (p *parser) parseDeclarator(mode declMode) ast.Node {
	if p.curt.Kind != '*' {
		return p.parseDirectDeclarator(mode)
	}
	ptr := p.parsePointer()
	var d ast.Node
	if p.curt.Kind == lex.TYPENAME && mode != declAbstract {
		// A typedef name redeclared behind a pointer.
		t := p.curt
		p.next()
		d = p.parseDeclaratorSuffixes(&ast.TypeDecl{Pos: p.pos(t), Declname: t.Val}, mode)
	} else {
		d = p.parseDirectDeclarator(mode)
	}
	if d == nil {
		d = &ast.TypeDecl{Pos: ptr.GetPos()}
	}
	return modifyDecl(d, ptr)
}

// parsePointer parses a chain of '*' each with its qualifiers. The last
// '*' is the outermost node.
func (p *parser) parsePointer() ast.Node {
	var head ast.Node
	for p.curt.Kind == '*' {
		ptr := &ast.PtrDecl{Pos: p.pos(p.curt)}
		p.next()
		for isTypeQualifier(p.curt.Kind) {
			ptr.Quals = append(ptr.Quals, p.curt.Val)
			p.next()
		}
		ptr.Type = head
		head = ptr
	}
	return head
}

func (p *parser) parseDirectDeclarator(mode declMode) ast.Node {
	var d ast.Node
	switch p.curt.Kind {
	case lex.IDENT:
		if mode == declAbstract {
			return nil
		}
		d = &ast.TypeDecl{Pos: p.pos(p.curt), Declname: p.curt.Val}
		p.next()
	case '(':
		if mode != declNamed {
			// An abstract function declarator, not grouping.
			pk := p.peek()
			if pk.Kind == ')' || isDeclStart(pk.Kind) {
				break
			}
		}
		p.next()
		d = p.parseDeclarator(mode)
		if d == nil {
			p.syntaxError(p.curt)
		}
		p.expect(')')
	case '[':
		if mode == declNamed {
			p.syntaxError(p.curt)
		}
	default:
		if mode == declNamed {
			p.syntaxError(p.curt)
		}
		return nil
	}
	return p.parseDeclaratorSuffixes(d, mode)
}

// parseDeclaratorSuffixes applies any array and function suffixes to d,
// which may be nil for an abstract declarator.
func (p *parser) parseDeclaratorSuffixes(d ast.Node, mode declMode) ast.Node {
	for {
		var suffix ast.Node
		switch p.curt.Kind {
		case '[':
			arr := p.parseArraySuffix()
			if d != nil {
				arr.Pos = d.GetPos()
			}
			suffix = arr
		case '(':
			fn := p.parseFunctionSuffix(mode)
			if d != nil {
				fn.Pos = d.GetPos()
			}
			suffix = fn
		default:
			return d
		}
		if d == nil {
			d = &ast.TypeDecl{Pos: suffix.GetPos()}
		}
		d = modifyDecl(d, suffix)
	}
}

func (p *parser) parseArraySuffix() *ast.ArrayDecl {
	arr := &ast.ArrayDecl{Pos: p.pos(p.curt)}
	p.expect('[')
	static := false
	for {
		if isTypeQualifier(p.curt.Kind) || (p.curt.Kind == lex.STATIC && !static) {
			static = static || p.curt.Kind == lex.STATIC
			arr.DimQuals = append(arr.DimQuals, p.curt.Val)
			p.next()
			continue
		}
		break
	}
	switch {
	case p.curt.Kind == '*' && p.peek().Kind == ']':
		// Variable length array of unspecified size.
		arr.Dim = &ast.ID{Pos: p.pos(p.curt), Name: "*"}
		p.next()
	case p.curt.Kind != ']':
		arr.Dim = p.parseAssignmentExpression()
	}
	if static && arr.Dim == nil {
		p.syntaxError(p.curt)
	}
	p.expect(']')
	return arr
}

func (p *parser) parseFunctionSuffix(mode declMode) *ast.FuncDecl {
	fn := &ast.FuncDecl{Pos: p.pos(p.curt)}
	p.expect('(')
	switch {
	case p.curt.Kind == ')':
	case p.curt.Kind == lex.IDENT && mode != declAbstract:
		fn.Args = p.parseIdentifierList()
	default:
		fn.Args = p.parseParameterTypeList()
	}
	p.expect(')')
	return fn
}

// parseIdentifierList parses the parameter names of an old style
// definition.
func (p *parser) parseIdentifierList() *ast.ParamList {
	list := &ast.ParamList{Pos: p.pos(p.curt)}
	for {
		t := p.curt
		p.expect(lex.IDENT)
		list.Params = append(list.Params, &ast.ID{Pos: p.pos(t), Name: t.Val})
		if p.curt.Kind != ',' {
			return list
		}
		p.next()
	}
}

func (p *parser) parseParameterTypeList() *ast.ParamList {
	list := &ast.ParamList{}
	for {
		if p.curt.Kind == lex.ELLIPSIS {
			if len(list.Params) == 0 {
				p.syntaxError(p.curt)
			}
			list.Params = append(list.Params, &ast.EllipsisParam{Pos: p.pos(p.curt)})
			p.next()
			break
		}
		list.Params = append(list.Params, p.parseParameterDeclaration())
		if p.curt.Kind != ',' {
			break
		}
		p.next()
	}
	list.Pos = list.Params[0].GetPos()
	return list
}

func (p *parser) parseParameterDeclaration() ast.Node {
	pos := p.pos(p.curt)
	spec := p.parseDeclSpecs()
	if spec.empty() {
		p.syntaxError(p.curt)
	}
	if len(spec.Type) == 0 {
		spec.Type = []ast.Node{&ast.IdentifierType{Pos: pos, Names: []string{"int"}}}
	}
	d := p.parseDeclarator(declEither)
	var param ast.Node
	if declName(d) != "" || p.typedefNameRedeclared(spec) {
		param = p.buildDeclarations(spec, []declInit{{decl: d}}, false)[0]
	} else {
		if d == nil {
			d = &ast.TypeDecl{Pos: pos}
		}
		tn := &ast.Typename{Pos: pos, Quals: spec.Qual, Type: d}
		p.fixDeclNameType(tn, spec.Type)
		param = tn
	}
	p.reduced("parameter_declaration", param)
	return param
}

// modifyDecl inserts modifier, a chain of pointer, array and function
// declarators built without a base, just above the TypeDecl at the bottom
// of decl. The result is decl with the modifier applied closest to the
// declared name.
func modifyDecl(decl, modifier ast.Node) ast.Node {
	modTail := modifier
	for {
		next, _ := declChild(modTail)
		if next == nil {
			break
		}
		modTail = next
	}
	if _, ok := declChild(decl); !ok {
		setDeclChild(modTail, decl)
		return modifier
	}
	declTail := decl
	for {
		next, _ := declChild(declTail)
		if _, ok := declChild(next); !ok {
			break
		}
		declTail = next
	}
	next, _ := declChild(declTail)
	setDeclChild(modTail, next)
	setDeclChild(declTail, modifier)
	return decl
}

// declChild returns the node a pointer, array or function declarator
// modifies. ok is false for any other node.
func declChild(n ast.Node) (child ast.Node, ok bool) {
	switch n := n.(type) {
	case *ast.PtrDecl:
		return n.Type, true
	case *ast.ArrayDecl:
		return n.Type, true
	case *ast.FuncDecl:
		return n.Type, true
	}
	return nil, false
}

func setDeclChild(n, child ast.Node) {
	switch n := n.(type) {
	case *ast.PtrDecl:
		n.Type = child
	case *ast.ArrayDecl:
		n.Type = child
	case *ast.FuncDecl:
		n.Type = child
	default:
		panic("internal error")
	}
}
