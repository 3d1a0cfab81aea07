// Package ast declares the types used to represent the syntax tree of a
// parsed C translation unit.
package ast

import "fmt"

// Coord is a source location. Column is zero when unknown. File and Line
// follow line markers, Offset is the byte offset in the parsed text.
type Coord struct {
	File   string
	Line   int
	Column int
	Offset int
}

func (c Coord) String() string {
	s := fmt.Sprintf("%s:%d", c.File, c.Line)
	if c.Column != 0 {
		s += fmt.Sprintf(":%d", c.Column)
	}
	return s
}

// Node is implemented by every syntax tree node.
type Node interface {
	GetPos() Coord
}

// Declarations.

// Decl is a variable, function or tag declaration. Name is empty for
// nameless declarations such as `struct s;`.
type Decl struct {
	Pos      Coord
	Name     string
	Quals    []string
	Storage  []string
	Funcspec []string
	Type     Node
	Init     Node
	Bitsize  Node
}

type Typedef struct {
	Pos     Coord
	Name    string
	Quals   []string
	Storage []string
	Type    Node
}

// FuncDef is a function definition. ParamDecls holds the declaration list
// of an old style definition, nil otherwise.
type FuncDef struct {
	Pos        Coord
	Decl       *Decl
	ParamDecls []Node
	Body       *Compound
}

// DeclList is a declaration used as the init clause of a for loop.
type DeclList struct {
	Pos   Coord
	Decls []Node
}

// Type chain.
//
// PtrDecl, ArrayDecl and FuncDecl wrap an inner type, the chain ends in a
// TypeDecl carrying the declared name, which in turn wraps the base type.

type TypeDecl struct {
	Pos      Coord
	Declname string
	Quals    []string
	Type     Node
}

type PtrDecl struct {
	Pos   Coord
	Quals []string
	Type  Node
}

type ArrayDecl struct {
	Pos      Coord
	Type     Node
	Dim      Node
	DimQuals []string
}

// FuncDecl is a function type. Args is nil for `f()`.
type FuncDecl struct {
	Pos  Coord
	Args *ParamList
	Type Node
}

// ParamList holds Decl, Typename, ID or EllipsisParam nodes.
type ParamList struct {
	Pos    Coord
	Params []Node
}

type EllipsisParam struct {
	Pos Coord
}

// IdentifierType is a base type spelled with keywords or a typedef name.
type IdentifierType struct {
	Pos   Coord
	Names []string
}

// Struct is a struct specifier. Decls is nil when no body was given.
type Struct struct {
	Pos   Coord
	Name  string
	Decls []Node
}

type Union struct {
	Pos   Coord
	Name  string
	Decls []Node
}

type Enum struct {
	Pos    Coord
	Name   string
	Values *EnumeratorList
}

type EnumeratorList struct {
	Pos         Coord
	Enumerators []*Enumerator
}

type Enumerator struct {
	Pos   Coord
	Name  string
	Value Node
}

// Typename is an abstract declaration, as used by casts, sizeof and
// unnamed parameters.
type Typename struct {
	Pos   Coord
	Name  string
	Quals []string
	Type  Node
}

// Expressions.

type ID struct {
	Pos  Coord
	Name string
}

// Constant is a literal. Type is one of int, float, char or string and
// Value is the literal as written.
type Constant struct {
	Pos   Coord
	Type  string
	Value string
}

type BinaryOp struct {
	Pos   Coord
	Op    string
	Left  Node
	Right Node
}

// UnaryOp covers prefix operators, sizeof and the postfix p++ and p--.
type UnaryOp struct {
	Pos     Coord
	Op      string
	Operand Node
}

type TernaryOp struct {
	Pos  Coord
	Cond Node
	Then Node
	Else Node
}

type Assignment struct {
	Pos    Coord
	Op     string
	Target Node
	Value  Node
}

type Cast struct {
	Pos    Coord
	ToType *Typename
	Expr   Node
}

type ArrayRef struct {
	Pos   Coord
	Array Node
	Index Node
}

// StructRef is a member access, Access is "." or "->".
type StructRef struct {
	Pos    Coord
	Target Node
	Access string
	Field  *ID
}

type FuncCall struct {
	Pos    Coord
	Callee Node
	Args   *ExprList
}

type ExprList struct {
	Pos   Coord
	Exprs []Node
}

type InitList struct {
	Pos   Coord
	Exprs []Node
}

// NamedInitializer is a designated initializer. Each designator is either
// an ID for .field or an expression for [index].
type NamedInitializer struct {
	Pos         Coord
	Designators []Node
	Expr        Node
}

type CompoundLiteral struct {
	Pos  Coord
	Type *Typename
	Init *InitList
}

// Statements.

type Compound struct {
	Pos        Coord
	BlockItems []Node
}

type If struct {
	Pos  Coord
	Cond Node
	Then Node
	Else Node
}

type While struct {
	Pos  Coord
	Cond Node
	Body Node
}

type DoWhile struct {
	Pos  Coord
	Cond Node
	Body Node
}

// For is a for loop, Init is an expression or a DeclList.
type For struct {
	Pos  Coord
	Init Node
	Cond Node
	Next Node
	Body Node
}

type Switch struct {
	Pos  Coord
	Cond Node
	Body Node
}

type Case struct {
	Pos   Coord
	Expr  Node
	Stmts []Node
}

type Default struct {
	Pos   Coord
	Stmts []Node
}

type Label struct {
	Pos  Coord
	Name string
	Stmt Node
}

type Goto struct {
	Pos  Coord
	Name string
}

type Break struct {
	Pos Coord
}

type Continue struct {
	Pos Coord
}

type Return struct {
	Pos  Coord
	Expr Node
}

type EmptyStatement struct {
	Pos Coord
}

// Pragma is a #pragma line inside a function body.
type Pragma struct {
	Pos    Coord
	String string
}

// FileAST is the root of a parsed translation unit.
type FileAST struct {
	Pos   Coord
	Decls []Node
}

func (n *Decl) GetPos() Coord             { return n.Pos }
func (n *Typedef) GetPos() Coord          { return n.Pos }
func (n *FuncDef) GetPos() Coord          { return n.Pos }
func (n *DeclList) GetPos() Coord         { return n.Pos }
func (n *TypeDecl) GetPos() Coord         { return n.Pos }
func (n *PtrDecl) GetPos() Coord          { return n.Pos }
func (n *ArrayDecl) GetPos() Coord        { return n.Pos }
func (n *FuncDecl) GetPos() Coord         { return n.Pos }
func (n *ParamList) GetPos() Coord        { return n.Pos }
func (n *EllipsisParam) GetPos() Coord    { return n.Pos }
func (n *IdentifierType) GetPos() Coord   { return n.Pos }
func (n *Struct) GetPos() Coord           { return n.Pos }
func (n *Union) GetPos() Coord            { return n.Pos }
func (n *Enum) GetPos() Coord             { return n.Pos }
func (n *EnumeratorList) GetPos() Coord   { return n.Pos }
func (n *Enumerator) GetPos() Coord       { return n.Pos }
func (n *Typename) GetPos() Coord         { return n.Pos }
func (n *ID) GetPos() Coord               { return n.Pos }
func (n *Constant) GetPos() Coord         { return n.Pos }
func (n *BinaryOp) GetPos() Coord         { return n.Pos }
func (n *UnaryOp) GetPos() Coord          { return n.Pos }
func (n *TernaryOp) GetPos() Coord        { return n.Pos }
func (n *Assignment) GetPos() Coord       { return n.Pos }
func (n *Cast) GetPos() Coord             { return n.Pos }
func (n *ArrayRef) GetPos() Coord         { return n.Pos }
func (n *StructRef) GetPos() Coord        { return n.Pos }
func (n *FuncCall) GetPos() Coord         { return n.Pos }
func (n *ExprList) GetPos() Coord         { return n.Pos }
func (n *InitList) GetPos() Coord         { return n.Pos }
func (n *NamedInitializer) GetPos() Coord { return n.Pos }
func (n *CompoundLiteral) GetPos() Coord  { return n.Pos }
func (n *Compound) GetPos() Coord         { return n.Pos }
func (n *If) GetPos() Coord               { return n.Pos }
func (n *While) GetPos() Coord            { return n.Pos }
func (n *DoWhile) GetPos() Coord          { return n.Pos }
func (n *For) GetPos() Coord              { return n.Pos }
func (n *Switch) GetPos() Coord           { return n.Pos }
func (n *Case) GetPos() Coord             { return n.Pos }
func (n *Default) GetPos() Coord          { return n.Pos }
func (n *Label) GetPos() Coord            { return n.Pos }
func (n *Goto) GetPos() Coord             { return n.Pos }
func (n *Break) GetPos() Coord            { return n.Pos }
func (n *Continue) GetPos() Coord         { return n.Pos }
func (n *Return) GetPos() Coord           { return n.Pos }
func (n *EmptyStatement) GetPos() Coord   { return n.Pos }
func (n *Pragma) GetPos() Coord           { return n.Pos }
func (n *FileAST) GetPos() Coord          { return n.Pos }
