package compiler

import (
	"fmt"

	"github.com/hexza-lang/hexza/ast"
)

var arithmetic = map[string]bool{"+": true, "-": true, "*": true, "/": true}

// unsupportedStmt returns why stmt cannot be compiled, or "" if it can.
func unsupportedStmt(stmt ast.Stmt) string {
	switch node := stmt.(type) {
	case *ast.Var:
		if node.Value == nil {
			return fmt.Sprintf("%s without an initializer is not supported", node.Kind)
		}
		return unsupportedExpr(node.Value)
	case *ast.ExprStmt:
		if assign, ok := node.X.(*ast.Assign); ok {
			if assign.Op != "=" {
				return fmt.Sprintf("operator %q is not supported", assign.Op)
			}
			if _, ok := assign.Target.(*ast.Ident); !ok {
				return "assignment to " + assign.Target.String() + " is not supported"
			}
			return unsupportedExpr(assign.Value)
		}
		return unsupportedExpr(node.X)
	default:
		return fmt.Sprintf("%s statement is not supported", describe(stmt))
	}
}

func unsupportedExpr(expr ast.Expr) string {
	switch node := expr.(type) {
	case *ast.Int, *ast.Float, *ast.String, *ast.Ident:
		return ""
	case *ast.Infix:
		if !arithmetic[node.Op] {
			return fmt.Sprintf("operator %q is not supported", node.Op)
		}
		if reason := unsupportedExpr(node.X); reason != "" {
			return reason
		}
		return unsupportedExpr(node.Y)
	case *ast.Call:
		if len(node.Args) > MaxArgs {
			return fmt.Sprintf("calls with more than %d arguments are not supported", MaxArgs)
		}
		if reason := unsupportedExpr(node.Fun); reason != "" {
			return reason
		}
		for _, arg := range node.Args {
			if reason := unsupportedExpr(arg); reason != "" {
				return reason
			}
		}
		return ""
	case *ast.Assign:
		return "assignment inside an expression is not supported"
	default:
		return fmt.Sprintf("%s expression is not supported", describe(expr))
	}
}

// describe names a node kind for skip messages.
func describe(node ast.Node) string {
	switch node.(type) {
	case *ast.If:
		return "if"
	case *ast.While:
		return "while"
	case *ast.For, *ast.ForIn:
		return "for"
	case *ast.Func:
		return "func"
	case *ast.Class:
		return "class"
	case *ast.Return:
		return "return"
	case *ast.Break:
		return "break"
	case *ast.Continue:
		return "continue"
	case *ast.Import:
		return "import"
	case *ast.Export:
		return "export"
	case *ast.Try:
		return "try"
	case *ast.Throw:
		return "throw"
	case *ast.API:
		return "api"
	case *ast.Block:
		return "block"
	case *ast.Bool:
		return "boolean"
	case *ast.Null:
		return "null"
	case *ast.This:
		return "this"
	case *ast.List:
		return "list"
	case *ast.Map:
		return "map"
	case *ast.Prefix:
		return "unary"
	case *ast.Ternary:
		return "ternary"
	case *ast.Index:
		return "index"
	case *ast.Member:
		return "member"
	case *ast.Postfix:
		return "postfix"
	case *ast.New:
		return "new"
	case *ast.Lambda:
		return "lambda"
	case *ast.Await:
		return "await"
	default:
		return fmt.Sprintf("%T", node)
	}
}
