package ast

import (
	"bytes"

	"github.com/hexza-lang/hexza/internal/token"
)

// Ident is an expression node that refers to a variable by name.
type Ident struct {
	NamePos token.Position // position of identifier
	Name    string         // identifier name
}

func (x *Ident) exprNode() {}

func (x *Ident) Pos() token.Position { return x.NamePos }
func (x *Ident) End() token.Position { return x.NamePos.Advance(len(x.Name)) }

func (x *Ident) String() string { return x.Name }

// Prefix is an operator expression where the operator precedes the operand.
// Examples include "!false", "not x", "-x" and "~mask".
type Prefix struct {
	OpPos token.Position // position of operator
	Op    string         // operator: "!", "not", "-", "~"
	X     Expr           // operand
}

func (x *Prefix) exprNode() {}

func (x *Prefix) Pos() token.Position { return x.OpPos }
func (x *Prefix) End() token.Position { return x.X.End() }

func (x *Prefix) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(x.Op)
	if x.Op == "not" {
		out.WriteString(" ")
	}
	out.WriteString(x.X.String())
	out.WriteString(")")
	return out.String()
}

// Infix is an operator expression where the operator is between the operands.
// Examples include "x + y", "a and b" and "5 ** 2".
type Infix struct {
	X     Expr           // left operand
	OpPos token.Position // position of operator
	Op    string         // operator: "+", "-", "and", "||", etc.
	Y     Expr           // right operand
}

func (x *Infix) exprNode() {}

func (x *Infix) Pos() token.Position { return x.X.Pos() }
func (x *Infix) End() token.Position { return x.Y.End() }

func (x *Infix) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(x.X.String())
	out.WriteString(" " + x.Op + " ")
	out.WriteString(x.Y.String())
	out.WriteString(")")
	return out.String()
}

// Ternary is a conditional expression: "cond ? a : b".
type Ternary struct {
	Cond     Expr
	Question token.Position
	IfTrue   Expr
	Colon    token.Position
	IfFalse  Expr
}

func (x *Ternary) exprNode() {}

func (x *Ternary) Pos() token.Position { return x.Cond.Pos() }
func (x *Ternary) End() token.Position { return x.IfFalse.End() }

func (x *Ternary) String() string {
	return "(" + x.Cond.String() + " ? " + x.IfTrue.String() + " : " + x.IfFalse.String() + ")"
}

// Index is an index or key lookup: "x[i]".
type Index struct {
	X      Expr
	Lbrack token.Position
	Index  Expr
	Rbrack token.Position
}

func (x *Index) exprNode() {}

func (x *Index) Pos() token.Position { return x.X.Pos() }
func (x *Index) End() token.Position { return x.Rbrack.Advance(1) }

func (x *Index) String() string {
	return "(" + x.X.String() + "[" + x.Index.String() + "])"
}

// Member is an attribute access: "x.name".
type Member struct {
	X      Expr
	Period token.Position
	Name   *Ident
}

func (x *Member) exprNode() {}

func (x *Member) Pos() token.Position { return x.X.Pos() }
func (x *Member) End() token.Position { return x.Name.End() }

func (x *Member) String() string { return x.X.String() + "." + x.Name.Name }

// Assign assigns to a variable, index or member. Op is "=" or a compound
// operator such as "+=". The target is validated when evaluated.
type Assign struct {
	Target Expr
	OpPos  token.Position
	Op     string
	Value  Expr
}

func (x *Assign) exprNode() {}

func (x *Assign) Pos() token.Position { return x.Target.Pos() }
func (x *Assign) End() token.Position { return x.Value.End() }

func (x *Assign) String() string {
	return x.Target.String() + " " + x.Op + " " + x.Value.String()
}

// Postfix is an increment or decrement: "x++" or "x--".
type Postfix struct {
	X     Expr
	OpPos token.Position
	Op    string // "++" or "--"
}

func (x *Postfix) exprNode() {}

func (x *Postfix) Pos() token.Position { return x.X.Pos() }
func (x *Postfix) End() token.Position { return x.OpPos.Advance(2) }
func (x *Postfix) String() string      { return "(" + x.X.String() + x.Op + ")" }

// Call is a function call: "f(a, b)".
type Call struct {
	Fun    Expr
	Lparen token.Position
	Args   []Expr
	Rparen token.Position
}

func (x *Call) exprNode() {}

func (x *Call) Pos() token.Position { return x.Fun.Pos() }
func (x *Call) End() token.Position { return x.Rparen.Advance(1) }

func (x *Call) String() string {
	return x.Fun.String() + "(" + joinExprs(x.Args) + ")"
}

// New instantiates a class: "new Point(1, 2)".
type New struct {
	NewPos token.Position
	Class  *Ident
	Args   []Expr
	Rparen token.Position
}

func (x *New) exprNode() {}

func (x *New) Pos() token.Position { return x.NewPos }
func (x *New) End() token.Position { return x.Rparen.Advance(1) }

func (x *New) String() string {
	return "new " + x.Class.Name + "(" + joinExprs(x.Args) + ")"
}

// Lambda is a single-expression anonymous function: "lambda (x) -> x * 2".
type Lambda struct {
	LambdaPos token.Position
	Params    []*Param
	Body      Expr
}

func (x *Lambda) exprNode() {}

func (x *Lambda) Pos() token.Position { return x.LambdaPos }
func (x *Lambda) End() token.Position { return x.Body.End() }

func (x *Lambda) String() string {
	return "lambda (" + joinParams(x.Params) + ") -> " + x.Body.String()
}

// Await drives a suspended computation to completion: "await f()".
type Await struct {
	AwaitPos token.Position
	X        Expr
}

func (x *Await) exprNode() {}

func (x *Await) Pos() token.Position { return x.AwaitPos }
func (x *Await) End() token.Position { return x.X.End() }
func (x *Await) String() string      { return "await " + x.X.String() }
