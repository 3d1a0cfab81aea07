package parse

import (
	"fmt"
	"strings"

	"github.com/andrewchambers/cparse/ast"
)

// shape renders a tree compactly for comparing against expectations.
// Positions are left out.
func shape(n ast.Node) string {
	var b strings.Builder
	writeShape(&b, n)
	return b.String()
}

func attrs(name string, lists ...interface{}) string {
	parts := []string{}
	if name != "" {
		parts = append(parts, name)
	}
	for i := 0; i+1 < len(lists); i += 2 {
		l := lists[i+1].([]string)
		if len(l) != 0 {
			parts = append(parts, fmt.Sprintf("%s=[%s]", lists[i], strings.Join(l, " ")))
		}
	}
	return strings.Join(parts, " ")
}

func writeShape(b *strings.Builder, n ast.Node) {
	node := func(kind string, parts ...string) {
		b.WriteString(kind)
		var nonEmpty []string
		for _, p := range parts {
			if p != "" {
				nonEmpty = append(nonEmpty, p)
			}
		}
		if len(nonEmpty) != 0 || len(parts) == 0 {
			b.WriteString("(" + strings.Join(nonEmpty, ", ") + ")")
		}
	}
	list := func(l []ast.Node) []string {
		var ret []string
		for _, c := range l {
			ret = append(ret, shape(c))
		}
		return ret
	}
	opt := func(prefix string, c ast.Node) string {
		if c == nil {
			return ""
		}
		return prefix + shape(c)
	}
	switch n := n.(type) {
	case nil:
		b.WriteString("nil")
	case *ast.Decl:
		node("Decl", attrs(n.Name, "quals", n.Quals, "storage", n.Storage, "funcspec", n.Funcspec),
			shape(n.Type), opt("init=", n.Init), opt("bits=", n.Bitsize))
	case *ast.Typedef:
		node("Typedef", attrs(n.Name, "quals", n.Quals), shape(n.Type))
	case *ast.FuncDef:
		params := ""
		if len(n.ParamDecls) != 0 {
			params = "params=[" + strings.Join(list(n.ParamDecls), ", ") + "]"
		}
		node("FuncDef", shape(n.Decl), params, shape(n.Body))
	case *ast.DeclList:
		node("DeclList", list(n.Decls)...)
	case *ast.TypeDecl:
		node("TypeDecl", attrs(n.Declname, "quals", n.Quals), shape(n.Type))
	case *ast.PtrDecl:
		node("PtrDecl", attrs("", "quals", n.Quals), shape(n.Type))
	case *ast.ArrayDecl:
		node("ArrayDecl", attrs("", "dimquals", n.DimQuals), shape(n.Type), shape(n.Dim))
	case *ast.FuncDecl:
		args := "nil"
		if n.Args != nil {
			args = shape(n.Args)
		}
		node("FuncDecl", args, shape(n.Type))
	case *ast.ParamList:
		node("ParamList", list(n.Params)...)
	case *ast.EllipsisParam:
		b.WriteString("EllipsisParam")
	case *ast.IdentifierType:
		node("IdentifierType", strings.Join(n.Names, " "))
	case *ast.Struct:
		node("Struct", n.Name, members(n.Decls, list))
	case *ast.Union:
		node("Union", n.Name, members(n.Decls, list))
	case *ast.Enum:
		values := ""
		if n.Values != nil {
			var l []ast.Node
			for _, e := range n.Values.Enumerators {
				l = append(l, e)
			}
			values = "{" + strings.Join(list(l), ", ") + "}"
		}
		node("Enum", n.Name, values)
	case *ast.Enumerator:
		node("Enumerator", n.Name, opt("", n.Value))
	case *ast.Typename:
		node("Typename", attrs(n.Name, "quals", n.Quals), shape(n.Type))
	case *ast.ID:
		node("ID", n.Name)
	case *ast.Constant:
		node("Constant", n.Type+" "+n.Value)
	case *ast.BinaryOp:
		node("BinaryOp", n.Op, shape(n.Left), shape(n.Right))
	case *ast.UnaryOp:
		node("UnaryOp", n.Op, shape(n.Operand))
	case *ast.TernaryOp:
		node("TernaryOp", shape(n.Cond), shape(n.Then), shape(n.Else))
	case *ast.Assignment:
		node("Assignment", n.Op, shape(n.Target), shape(n.Value))
	case *ast.Cast:
		node("Cast", shape(n.ToType), shape(n.Expr))
	case *ast.ArrayRef:
		node("ArrayRef", shape(n.Array), shape(n.Index))
	case *ast.StructRef:
		node("StructRef", shape(n.Target), n.Access, shape(n.Field))
	case *ast.FuncCall:
		args := ""
		if n.Args != nil {
			args = shape(n.Args)
		}
		node("FuncCall", shape(n.Callee), args)
	case *ast.ExprList:
		node("ExprList", list(n.Exprs)...)
	case *ast.InitList:
		node("InitList", list(n.Exprs)...)
	case *ast.NamedInitializer:
		node("NamedInitializer", "["+strings.Join(list(n.Designators), " ")+"]", shape(n.Expr))
	case *ast.CompoundLiteral:
		node("CompoundLiteral", shape(n.Type), shape(n.Init))
	case *ast.Compound:
		node("Compound", list(n.BlockItems)...)
	case *ast.If:
		node("If", shape(n.Cond), shape(n.Then), shape(n.Else))
	case *ast.While:
		node("While", shape(n.Cond), shape(n.Body))
	case *ast.DoWhile:
		node("DoWhile", shape(n.Cond), shape(n.Body))
	case *ast.For:
		node("For", shape(n.Init), shape(n.Cond), shape(n.Next), shape(n.Body))
	case *ast.Switch:
		node("Switch", shape(n.Cond), shape(n.Body))
	case *ast.Case:
		node("Case", append([]string{shape(n.Expr)}, list(n.Stmts)...)...)
	case *ast.Default:
		node("Default", list(n.Stmts)...)
	case *ast.Label:
		node("Label", n.Name, shape(n.Stmt))
	case *ast.Goto:
		node("Goto", n.Name)
	case *ast.Break:
		b.WriteString("Break")
	case *ast.Continue:
		b.WriteString("Continue")
	case *ast.Return:
		if n.Expr == nil {
			b.WriteString("Return")
			return
		}
		node("Return", shape(n.Expr))
	case *ast.EmptyStatement:
		b.WriteString("EmptyStatement")
	case *ast.Pragma:
		node("Pragma", n.String)
	case *ast.FileAST:
		node("FileAST", list(n.Decls)...)
	default:
		panic(fmt.Sprintf("shape: unexpected node %T", n))
	}
}

func members(decls []ast.Node, list func([]ast.Node) []string) string {
	if decls == nil {
		return ""
	}
	return "{" + strings.Join(list(decls), ", ") + "}"
}
