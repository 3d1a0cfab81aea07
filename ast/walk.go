package ast

import "fmt"

// Inspect traverses the tree rooted at n in depth first order, children in
// source order. It calls f(n) and, if f returns true, visits the children
// of n. Nil children are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	walkList := func(l []Node) {
		for _, c := range l {
			Inspect(c, f)
		}
	}
	switch n := n.(type) {
	case *Decl:
		Inspect(n.Type, f)
		Inspect(n.Init, f)
		Inspect(n.Bitsize, f)
	case *Typedef:
		Inspect(n.Type, f)
	case *FuncDef:
		if n.Decl != nil {
			Inspect(n.Decl, f)
		}
		walkList(n.ParamDecls)
		if n.Body != nil {
			Inspect(n.Body, f)
		}
	case *DeclList:
		walkList(n.Decls)
	case *TypeDecl:
		Inspect(n.Type, f)
	case *PtrDecl:
		Inspect(n.Type, f)
	case *ArrayDecl:
		Inspect(n.Type, f)
		Inspect(n.Dim, f)
	case *FuncDecl:
		if n.Args != nil {
			Inspect(n.Args, f)
		}
		Inspect(n.Type, f)
	case *ParamList:
		walkList(n.Params)
	case *Struct:
		walkList(n.Decls)
	case *Union:
		walkList(n.Decls)
	case *Enum:
		if n.Values != nil {
			Inspect(n.Values, f)
		}
	case *EnumeratorList:
		for _, e := range n.Enumerators {
			Inspect(e, f)
		}
	case *Enumerator:
		Inspect(n.Value, f)
	case *Typename:
		Inspect(n.Type, f)
	case *BinaryOp:
		Inspect(n.Left, f)
		Inspect(n.Right, f)
	case *UnaryOp:
		Inspect(n.Operand, f)
	case *TernaryOp:
		Inspect(n.Cond, f)
		Inspect(n.Then, f)
		Inspect(n.Else, f)
	case *Assignment:
		Inspect(n.Target, f)
		Inspect(n.Value, f)
	case *Cast:
		if n.ToType != nil {
			Inspect(n.ToType, f)
		}
		Inspect(n.Expr, f)
	case *ArrayRef:
		Inspect(n.Array, f)
		Inspect(n.Index, f)
	case *StructRef:
		Inspect(n.Target, f)
		if n.Field != nil {
			Inspect(n.Field, f)
		}
	case *FuncCall:
		Inspect(n.Callee, f)
		if n.Args != nil {
			Inspect(n.Args, f)
		}
	case *ExprList:
		walkList(n.Exprs)
	case *InitList:
		walkList(n.Exprs)
	case *NamedInitializer:
		walkList(n.Designators)
		Inspect(n.Expr, f)
	case *CompoundLiteral:
		if n.Type != nil {
			Inspect(n.Type, f)
		}
		if n.Init != nil {
			Inspect(n.Init, f)
		}
	case *Compound:
		walkList(n.BlockItems)
	case *If:
		Inspect(n.Cond, f)
		Inspect(n.Then, f)
		Inspect(n.Else, f)
	case *While:
		Inspect(n.Cond, f)
		Inspect(n.Body, f)
	case *DoWhile:
		Inspect(n.Body, f)
		Inspect(n.Cond, f)
	case *For:
		Inspect(n.Init, f)
		Inspect(n.Cond, f)
		Inspect(n.Next, f)
		Inspect(n.Body, f)
	case *Switch:
		Inspect(n.Cond, f)
		Inspect(n.Body, f)
	case *Case:
		Inspect(n.Expr, f)
		walkList(n.Stmts)
	case *Default:
		walkList(n.Stmts)
	case *Label:
		Inspect(n.Stmt, f)
	case *Return:
		Inspect(n.Expr, f)
	case *FileAST:
		walkList(n.Decls)
	case *EllipsisParam, *IdentifierType, *ID, *Constant, *Goto, *Break,
		*Continue, *EmptyStatement, *Pragma:
		// Leaves.
	default:
		panic(fmt.Sprintf("ast.Inspect: unexpected node type %T", n))
	}
}
