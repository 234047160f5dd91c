// Package ast defines the abstract syntax tree representation of Hexza code.
//
// Every node is either a statement (Stmt) or an expression (Expr). Both
// interfaces are sealed with unexported marker methods, so the set of node
// types is closed and consumers can switch over it exhaustively.
package ast

import (
	"strings"

	"github.com/hexza-lang/hexza/internal/token"
)

// Node represents a portion of the syntax tree. All nodes have position
// information indicating where they appear in the source code.
type Node interface {
	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position

	// End returns the position of the first character immediately after the node.
	End() token.Position

	// String returns a human friendly representation of the Node. This should
	// be similar to the original source code, but not necessarily identical.
	String() string
}

// Stmt represents a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression node. Expressions evaluate to a value
// and may be embedded within other expressions.
type Expr interface {
	Node
	exprNode()
}

// Program represents a complete program.
type Program struct {
	Stmts []Stmt
}

func (p *Program) Pos() token.Position {
	if len(p.Stmts) > 0 {
		return p.Stmts[0].Pos()
	}
	return token.NoPos
}

func (p *Program) End() token.Position {
	if len(p.Stmts) > 0 {
		return p.Stmts[len(p.Stmts)-1].End()
	}
	return token.NoPos
}

func (p *Program) String() string {
	var out strings.Builder
	for i, s := range p.Stmts {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(s.String())
	}
	return out.String()
}

// TypeRef is a type annotation. Annotations are recorded but never checked.
type TypeRef struct {
	NamePos token.Position
	Name    string // e.g. "int", "list[]"
}

func (t *TypeRef) String() string {
	if t == nil {
		return ""
	}
	return t.Name
}

// Param is a function parameter with an optional type annotation.
type Param struct {
	Name *Ident
	Type *TypeRef
}

func (p *Param) String() string {
	if p.Type != nil {
		return p.Name.Name + ": " + p.Type.Name
	}
	return p.Name.Name
}

func joinParams(params []*Param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, ", ")
}

func joinExprs(exprs []Expr) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}
