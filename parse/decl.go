package parse

import (
	"github.com/andrewchambers/cparse/ast"
	"github.com/andrewchambers/cparse/lex"
)

// declSpec accumulates declaration specifiers in source order.
type declSpec struct {
	Qual     []string
	Storage  []string
	Type     []ast.Node
	Function []string
}

func (s *declSpec) empty() bool {
	return len(s.Qual) == 0 && len(s.Storage) == 0 && len(s.Type) == 0 && len(s.Function) == 0
}

func (s *declSpec) isTypedef() bool {
	for _, sc := range s.Storage {
		if sc == "typedef" {
			return true
		}
	}
	return false
}

// declInit is one declarator of a declaration with its initializer or
// bit-field width.
type declInit struct {
	decl    ast.Node
	init    ast.Node
	bitsize ast.Node
}

func isStorageClass(k lex.TokenKind) bool {
	switch k {
	case lex.AUTO, lex.REGISTER, lex.STATIC, lex.EXTERN, lex.TYPEDEF:
		return true
	}
	return false
}

func isTypeQualifier(k lex.TokenKind) bool {
	switch k {
	case lex.CONST, lex.RESTRICT, lex.VOLATILE:
		return true
	}
	return false
}

func isBasicType(k lex.TokenKind) bool {
	switch k {
	case lex.VOID, lex.BOOL, lex.CHAR, lex.SHORT, lex.INT, lex.LONG, lex.FLOAT,
		lex.DOUBLE, lex.COMPLEX, lex.SIGNED, lex.UNSIGNED, lex.INT128:
		return true
	}
	return false
}

func isTypeSpecifier(k lex.TokenKind) bool {
	if isBasicType(k) {
		return true
	}
	switch k {
	case lex.TYPENAME, lex.STRUCT, lex.UNION, lex.ENUM:
		return true
	}
	return false
}

// isTypeNameStart reports whether k can start a specifier qualifier list,
// as in a cast or sizeof.
func isTypeNameStart(k lex.TokenKind) bool {
	return isTypeSpecifier(k) || isTypeQualifier(k)
}

// isDeclStart reports whether k can start declaration specifiers.
func isDeclStart(k lex.TokenKind) bool {
	return isTypeNameStart(k) || isStorageClass(k) || k == lex.INLINE
}

func (p *parser) parseDeclSpecs() *declSpec {
	spec := &declSpec{}
	for {
		switch k := p.curt.Kind; {
		case isStorageClass(k):
			spec.Storage = append(spec.Storage, p.curt.Val)
			p.next()
		case isTypeQualifier(k):
			spec.Qual = append(spec.Qual, p.curt.Val)
			p.next()
		case k == lex.INLINE:
			spec.Function = append(spec.Function, p.curt.Val)
			p.next()
		case isTypeSpecifier(k):
			spec.Type = append(spec.Type, p.parseTypeSpecifier())
		default:
			return spec
		}
	}
}

func (p *parser) parseSpecQualList() *declSpec {
	spec := &declSpec{}
	for {
		switch k := p.curt.Kind; {
		case isTypeQualifier(k):
			spec.Qual = append(spec.Qual, p.curt.Val)
			p.next()
		case isTypeSpecifier(k):
			spec.Type = append(spec.Type, p.parseTypeSpecifier())
		default:
			if spec.empty() {
				p.syntaxError(p.curt)
			}
			return spec
		}
	}
}

func (p *parser) parseTypeSpecifier() ast.Node {
	switch p.curt.Kind {
	case lex.STRUCT, lex.UNION:
		return p.parseStructOrUnion()
	case lex.ENUM:
		return p.parseEnum()
	}
	// Basic types and typedef names.
	t := p.curt
	p.next()
	return &ast.IdentifierType{Pos: p.pos(t), Names: []string{t.Val}}
}

func (p *parser) parseStructOrUnion() ast.Node {
	kind := p.curt.Kind
	pos := p.pos(p.curt)
	p.next()
	name := ""
	// Tags live in their own namespace, so a typedef name is fine here.
	if p.curt.Kind == lex.IDENT || p.curt.Kind == lex.TYPENAME {
		name = p.curt.Val
		pos = p.pos(p.curt)
		p.next()
	} else if p.curt.Kind == '{' {
		pos = p.pos(p.curt)
	}
	var decls []ast.Node
	if p.curt.Kind == '{' {
		p.next()
		if p.curt.Kind == '}' {
			p.syntaxError(p.curt)
		}
		decls = []ast.Node{}
		for p.curt.Kind != '}' {
			decls = append(decls, p.parseStructDeclaration()...)
		}
		p.expect('}')
	} else if name == "" {
		p.syntaxError(p.curt)
	}
	if kind == lex.UNION {
		return &ast.Union{Pos: pos, Name: name, Decls: decls}
	}
	return &ast.Struct{Pos: pos, Name: name, Decls: decls}
}

// parseStructDeclaration parses one member declaration. Member names are
// not entered into any scope.
func (p *parser) parseStructDeclaration() []ast.Node {
	if p.curt.Kind == ';' {
		p.next()
		return nil
	}
	spec := p.parseSpecQualList()
	var decls []declInit
	switch {
	case p.curt.Kind == ';':
		// Anonymous struct or union member, or a member whose name was
		// taken for a typedef name.
		if len(spec.Type) == 1 {
			decls = []declInit{{decl: spec.Type[0]}}
		} else {
			decls = []declInit{{}}
		}
	default:
		for {
			var di declInit
			if p.curt.Kind != ':' {
				di.decl = p.parseDeclarator(declEither)
				if di.decl == nil {
					p.syntaxError(p.curt)
				}
			}
			if p.curt.Kind == ':' {
				p.next()
				di.bitsize = p.parseConditionalExpression()
				if di.decl == nil {
					di.decl = &ast.TypeDecl{Pos: di.bitsize.GetPos()}
				}
			}
			decls = append(decls, di)
			if declName(di.decl) == "" && di.bitsize == nil {
				// Abstract, the name went into the specifiers.
				break
			}
			if p.curt.Kind != ',' {
				break
			}
			p.next()
		}
	}
	ret := p.buildDeclarations(spec, decls, false)
	for _, d := range ret {
		p.reduced("struct_declaration", d)
	}
	p.expect(';')
	return ret
}

func (p *parser) parseEnum() ast.Node {
	pos := p.pos(p.curt)
	p.expect(lex.ENUM)
	name := ""
	if p.curt.Kind == lex.IDENT || p.curt.Kind == lex.TYPENAME {
		name = p.curt.Val
		pos = p.pos(p.curt)
		p.next()
	} else if p.curt.Kind == '{' {
		pos = p.pos(p.curt)
	}
	if p.curt.Kind != '{' {
		if name == "" {
			p.syntaxError(p.curt)
		}
		return &ast.Enum{Pos: pos, Name: name}
	}
	// The brace has already opened a scope, enumerators belong to the
	// enclosing one.
	outer := p.scopes.cur.parent
	p.next()
	list := &ast.EnumeratorList{Pos: p.pos(p.curt)}
	for {
		t := p.curt
		p.expect(lex.IDENT)
		e := &ast.Enumerator{Pos: p.pos(t), Name: t.Val}
		if p.curt.Kind == '=' {
			p.next()
			e.Value = p.parseConditionalExpression()
		}
		p.addIdentifierIn(outer, e.Name, e.Pos)
		p.reduced("enumerator", e)
		list.Enumerators = append(list.Enumerators, e)
		if p.curt.Kind != ',' {
			break
		}
		p.next()
		if p.curt.Kind == '}' {
			break
		}
	}
	p.expect('}')
	return &ast.Enum{Pos: pos, Name: name, Values: list}
}

// parseDeclaration parses a declaration that can not be a function
// definition, up to and including the ';'.
func (p *parser) parseDeclaration(register bool) []ast.Node {
	spec := p.parseDeclSpecs()
	if spec.empty() {
		p.syntaxError(p.curt)
	}
	var first ast.Node
	if p.curt.Kind != ';' && p.curt.Kind != '=' {
		first = p.parseDeclarator(declEither)
	}
	return p.finishDeclaration(spec, first, register)
}

// finishDeclaration parses the rest of the init declarator list after its
// first declarator, builds the declarations and consumes the ';'.
//
// Names are registered before the ';' is consumed so that the token after
// it is classified with the new names in scope.
func (p *parser) finishDeclaration(spec *declSpec, first ast.Node, register bool) []ast.Node {
	var decls []declInit
	switch {
	case first == nil && p.curt.Kind == ';':
		if len(spec.Type) == 1 {
			switch spec.Type[0].(type) {
			case *ast.Struct, *ast.Union, *ast.Enum:
				d := &ast.Decl{
					Pos:      spec.Type[0].GetPos(),
					Quals:    spec.Qual,
					Storage:  spec.Storage,
					Funcspec: spec.Function,
					Type:     spec.Type[0],
				}
				p.reduced("declaration", d)
				p.next()
				return []ast.Node{d}
			}
		}
		decls = []declInit{{}}
	case first == nil:
		// A typedef name redeclared with an initializer, the name is in
		// the specifiers.
		p.expect('=')
		decls = []declInit{{init: p.parseInitializer()}}
	case declName(first) == "":
		decls = []declInit{{decl: first}}
	default:
		d := first
		for {
			di := declInit{decl: d}
			if p.curt.Kind == '=' {
				p.next()
				di.init = p.parseInitializer()
			}
			decls = append(decls, di)
			if p.curt.Kind != ',' {
				break
			}
			p.next()
			d = p.parseDeclarator(declNamed)
		}
	}
	ret := p.buildDeclarations(spec, decls, register)
	for _, d := range ret {
		p.reduced("declaration", d)
	}
	p.expect(';')
	return ret
}

// startsFunctionBody reports whether the declarator d just parsed at file
// scope is followed by a function body or an old style declaration list.
func (p *parser) startsFunctionBody(d ast.Node) bool {
	if p.curt.Kind == '{' {
		return true
	}
	return funcDeclOf(d) != nil && isDeclStart(p.curt.Kind)
}

func (p *parser) parseFunctionDefinition(spec *declSpec, d ast.Node) *ast.FuncDef {
	var paramDecls []ast.Node
	for p.curt.Kind != '{' {
		if !isDeclStart(p.curt.Kind) {
			p.syntaxError(p.curt)
		}
		paramDecls = append(paramDecls, p.parseDeclaration(false)...)
	}
	// The '{' has opened the body scope, parameters belong to it. They
	// must be registered before anything after the brace is lexed.
	if p.src.lookahead() != p.curt {
		panic("internal error: function body lexed before its parameters were registered")
	}
	if fn := funcDeclOf(d); fn != nil && fn.Args != nil {
		for _, param := range fn.Args.Params {
			switch param := param.(type) {
			case *ast.ID:
				p.addIdentifier(param.Name, param.Pos)
			case *ast.Decl:
				if param.Name != "" {
					p.addIdentifier(param.Name, param.Pos)
				}
			case *ast.Typedef:
				if param.Name != "" {
					p.addTypedefName(param.Name, param.Pos)
				}
			}
		}
	}
	var fd *ast.FuncDef
	body := p.parseCompound(func() {
		// The closing brace has popped the body scope, the function name
		// goes into the enclosing one.
		fd = p.buildFunctionDefinition(spec, d, paramDecls)
	})
	fd.Body = body
	p.reduced("function_definition", fd)
	return fd
}

func (p *parser) buildFunctionDefinition(spec *declSpec, d ast.Node, paramDecls []ast.Node) *ast.FuncDef {
	if spec.isTypedef() {
		p.declError(d.GetPos(), "Invalid declaration")
	}
	decl := p.buildDeclarations(spec, []declInit{{decl: d}}, true)[0].(*ast.Decl)
	p.fixOldStyleParams(decl, paramDecls)
	return &ast.FuncDef{
		Pos:        d.GetPos(),
		Decl:       decl,
		ParamDecls: paramDecls,
	}
}

// fixOldStyleParams replaces the identifier list of an old style
// definition with the declarations that follow the declarator. Identifiers
// without a declaration are int.
func (p *parser) fixOldStyleParams(decl *ast.Decl, paramDecls []ast.Node) {
	fn := funcDeclOf(decl.Type)
	if fn == nil || fn.Args == nil || len(paramDecls) == 0 {
		return
	}
	isParam := make(map[string]bool)
	for _, param := range fn.Args.Params {
		id, ok := param.(*ast.ID)
		if !ok {
			return
		}
		isParam[id.Name] = true
	}
	byName := make(map[string]*ast.Decl)
	for _, pd := range paramDecls {
		d, ok := pd.(*ast.Decl)
		if !ok || !isParam[d.Name] {
			p.declError(pd.GetPos(), "'%s' is not a parameter of '%s'", nodeName(pd), decl.Name)
		}
		byName[d.Name] = d
	}
	params := make([]ast.Node, len(fn.Args.Params))
	for i, param := range fn.Args.Params {
		id := param.(*ast.ID)
		if d, ok := byName[id.Name]; ok {
			params[i] = d
			continue
		}
		params[i] = &ast.Decl{
			Pos:  id.Pos,
			Name: id.Name,
			Type: &ast.TypeDecl{
				Pos:      id.Pos,
				Declname: id.Name,
				Type:     &ast.IdentifierType{Pos: id.Pos, Names: []string{"int"}},
			},
		}
	}
	fn.Args = &ast.ParamList{Pos: fn.Args.Pos, Params: params}
}

// typedefNameRedeclared reports whether the last type specifier is really
// the name being declared: a typedef name after at least one other type.
func (p *parser) typedefNameRedeclared(spec *declSpec) bool {
	if len(spec.Type) < 2 {
		return false
	}
	last, ok := spec.Type[len(spec.Type)-1].(*ast.IdentifierType)
	return ok && len(last.Names) == 1 && p.scopes.isType(last.Names[0])
}

// buildDeclarations builds one Decl or Typedef per declarator, all sharing
// spec. When register is set the declared names are entered into the
// current scope.
func (p *parser) buildDeclarations(spec *declSpec, decls []declInit, register bool) []ast.Node {
	first := &decls[0]
	switch {
	case first.bitsize != nil:
		// Unnamed bit-fields are fine.
	case first.decl == nil:
		// The declared name was taken for a typedef name and ended up in
		// the specifiers.
		if !p.typedefNameRedeclared(spec) {
			pos := ast.Coord{File: p.filename}
			if len(spec.Type) > 0 {
				pos = spec.Type[0].GetPos()
			}
			p.declError(pos, "Invalid declaration")
		}
		last := spec.Type[len(spec.Type)-1].(*ast.IdentifierType)
		first.decl = &ast.TypeDecl{Pos: last.Pos, Declname: last.Names[0]}
		spec.Type = spec.Type[:len(spec.Type)-1]
	case !isLeafType(first.decl):
		// Same again, but the rest of the declarator looked abstract.
		td := typeDeclOf(first.decl)
		if td != nil && td.Declname == "" {
			var last *ast.IdentifierType
			if len(spec.Type) > 0 {
				last, _ = spec.Type[len(spec.Type)-1].(*ast.IdentifierType)
			}
			if last == nil || len(last.Names) == 0 {
				p.declError(first.decl.GetPos(), "Invalid declaration")
			}
			td.Declname = last.Names[0]
			spec.Type = spec.Type[:len(spec.Type)-1]
		}
	}

	isTypedef := spec.isTypedef()
	var ret []ast.Node
	for _, di := range decls {
		var decl ast.Node
		if isTypedef {
			decl = &ast.Typedef{
				Pos:     di.decl.GetPos(),
				Quals:   spec.Qual,
				Storage: spec.Storage,
				Type:    di.decl,
			}
		} else {
			decl = &ast.Decl{
				Pos:      di.decl.GetPos(),
				Quals:    spec.Qual,
				Storage:  spec.Storage,
				Funcspec: spec.Function,
				Type:     di.decl,
				Init:     di.init,
				Bitsize:  di.bitsize,
			}
		}
		if !isLeafType(di.decl) {
			p.fixDeclNameType(decl, spec.Type)
		}
		if name := nodeName(decl); register && name != "" {
			if isTypedef {
				p.addTypedefName(name, decl.GetPos())
			} else {
				p.addIdentifier(name, decl.GetPos())
			}
		}
		ret = append(ret, decl)
	}
	return ret
}

// fixDeclNameType moves the declared name from the TypeDecl at the bottom
// of the declarator up to decl, gives the TypeDecl the qualifiers of decl
// and sets its type from the type specifiers.
func (p *parser) fixDeclNameType(decl ast.Node, types []ast.Node) {
	var root ast.Node
	var quals []string
	switch d := decl.(type) {
	case *ast.Decl:
		root, quals = d.Type, d.Quals
	case *ast.Typedef:
		root, quals = d.Type, d.Quals
	case *ast.Typename:
		root, quals = d.Type, d.Quals
	default:
		panic("internal error")
	}
	td := typeDeclOf(root)
	if td == nil {
		p.declError(decl.GetPos(), "Invalid declaration")
	}
	td.Quals = quals
	switch d := decl.(type) {
	case *ast.Decl:
		d.Name = td.Declname
	case *ast.Typedef:
		d.Name = td.Declname
	case *ast.Typename:
		d.Name = td.Declname
	}

	// A struct, union, enum may not be mixed with any other type.
	for _, tn := range types {
		if _, ok := tn.(*ast.IdentifierType); !ok {
			if len(types) > 1 {
				p.declError(tn.GetPos(), "Invalid multiple types specified")
			}
			td.Type = tn
			return
		}
	}
	if len(types) == 0 {
		// Functions default to returning int.
		if _, ok := root.(*ast.FuncDecl); !ok {
			p.declError(decl.GetPos(), "Missing type in declaration")
		}
		td.Type = &ast.IdentifierType{Pos: decl.GetPos(), Names: []string{"int"}}
		return
	}
	var names []string
	for _, tn := range types {
		names = append(names, tn.(*ast.IdentifierType).Names...)
	}
	td.Type = &ast.IdentifierType{Pos: types[0].GetPos(), Names: names}
}

// parseTypeName parses a specifier qualifier list and an optional abstract
// declarator.
func (p *parser) parseTypeName() *ast.Typename {
	pos := p.pos(p.curt)
	spec := p.parseSpecQualList()
	d := p.parseDeclarator(declAbstract)
	if d == nil {
		d = &ast.TypeDecl{Pos: pos}
	}
	tn := &ast.Typename{Pos: pos, Quals: spec.Qual, Type: d}
	p.fixDeclNameType(tn, spec.Type)
	p.reduced("type_name", tn)
	return tn
}

func isLeafType(n ast.Node) bool {
	switch n.(type) {
	case *ast.Struct, *ast.Union, *ast.Enum, *ast.IdentifierType:
		return true
	}
	return false
}

// typeDeclOf walks a declarator down to its TypeDecl.
func typeDeclOf(n ast.Node) *ast.TypeDecl {
	for {
		switch t := n.(type) {
		case *ast.TypeDecl:
			return t
		case *ast.PtrDecl:
			n = t.Type
		case *ast.ArrayDecl:
			n = t.Type
		case *ast.FuncDecl:
			n = t.Type
		default:
			return nil
		}
	}
}

// funcDeclOf returns the outermost FuncDecl of a declarator. For a
// function definition it holds the parameters of the function itself,
// in int (*f(int a))(char) that is (int a), not the (char) of the
// returned pointer's type.
func funcDeclOf(n ast.Node) *ast.FuncDecl {
	for {
		switch t := n.(type) {
		case *ast.PtrDecl:
			n = t.Type
		case *ast.ArrayDecl:
			n = t.Type
		case *ast.FuncDecl:
			return t
		default:
			return nil
		}
	}
}

// declName is the name a declarator declares, "" for abstract ones.
func declName(d ast.Node) string {
	td := typeDeclOf(d)
	if td == nil {
		return ""
	}
	return td.Declname
}

func nodeName(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Decl:
		return n.Name
	case *ast.Typedef:
		return n.Name
	case *ast.Typename:
		return n.Name
	case *ast.ID:
		return n.Name
	}
	return ""
}
