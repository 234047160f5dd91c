package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/hexza-lang/hexza/internal/token"
)

// Block is a braced sequence of statements.
type Block struct {
	Lbrace token.Position
	Stmts  []Stmt
	Rbrace token.Position
}

func (s *Block) stmtNode() {}

func (s *Block) Pos() token.Position { return s.Lbrace }
func (s *Block) End() token.Position { return s.Rbrace.Advance(1) }

func (s *Block) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, stmt := range s.Stmts {
		out.WriteString(stmt.String())
		out.WriteString("; ")
	}
	out.WriteString("}")
	return out.String()
}

// VarKind distinguishes let, var and const declarations.
type VarKind string

const (
	Let   VarKind = "let"
	VarKw VarKind = "var"
	Const VarKind = "const"
)

// Var is a variable declaration: "let x: int = 5".
type Var struct {
	DeclPos token.Position
	Kind    VarKind
	Name    *Ident
	Type    *TypeRef
	Value   Expr // nil when no initializer was given
}

func (s *Var) stmtNode() {}

func (s *Var) Pos() token.Position { return s.DeclPos }

func (s *Var) End() token.Position {
	if s.Value != nil {
		return s.Value.End()
	}
	return s.Name.End()
}

func (s *Var) String() string {
	var out bytes.Buffer
	out.WriteString(string(s.Kind) + " " + s.Name.Name)
	if s.Type != nil {
		out.WriteString(": " + s.Type.Name)
	}
	if s.Value != nil {
		out.WriteString(" = " + s.Value.String())
	}
	return out.String()
}

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	X Expr
}

func (s *ExprStmt) stmtNode() {}

func (s *ExprStmt) Pos() token.Position { return s.X.Pos() }
func (s *ExprStmt) End() token.Position { return s.X.End() }
func (s *ExprStmt) String() string      { return s.X.String() }

// If is a conditional statement. Alternative is nil, a *Block, or an *If
// for elseif chains.
type If struct {
	IfPos       token.Position
	Cond        Expr
	Consequence *Block
	Alternative Stmt
}

func (s *If) stmtNode() {}

func (s *If) Pos() token.Position { return s.IfPos }

func (s *If) End() token.Position {
	if s.Alternative != nil {
		return s.Alternative.End()
	}
	return s.Consequence.End()
}

func (s *If) String() string {
	out := "if (" + s.Cond.String() + ") " + s.Consequence.String()
	if s.Alternative != nil {
		out += " else " + s.Alternative.String()
	}
	return out
}

// While loops while the condition is truthy.
type While struct {
	WhilePos token.Position
	Cond     Expr
	Body     *Block
}

func (s *While) stmtNode() {}

func (s *While) Pos() token.Position { return s.WhilePos }
func (s *While) End() token.Position { return s.Body.End() }

func (s *While) String() string {
	return "while (" + s.Cond.String() + ") " + s.Body.String()
}

// For is a C-style loop: "for (init; cond; post) { }". Any clause may be nil.
type For struct {
	ForPos token.Position
	Init   Stmt
	Cond   Expr
	Post   Expr
	Body   *Block
}

func (s *For) stmtNode() {}

func (s *For) Pos() token.Position { return s.ForPos }
func (s *For) End() token.Position { return s.Body.End() }

func (s *For) String() string {
	var parts [3]string
	if s.Init != nil {
		parts[0] = s.Init.String()
	}
	if s.Cond != nil {
		parts[1] = s.Cond.String()
	}
	if s.Post != nil {
		parts[2] = s.Post.String()
	}
	return "for (" + strings.Join(parts[:], "; ") + ") " + s.Body.String()
}

// ForIn iterates over a collection: "for (x in items) { }".
type ForIn struct {
	ForPos   token.Position
	Name     *Ident
	Iterable Expr
	Body     *Block
}

func (s *ForIn) stmtNode() {}

func (s *ForIn) Pos() token.Position { return s.ForPos }
func (s *ForIn) End() token.Position { return s.Body.End() }

func (s *ForIn) String() string {
	return "for (" + s.Name.Name + " in " + s.Iterable.String() + ") " + s.Body.String()
}

// Func is a named function declaration.
type Func struct {
	FuncPos    token.Position
	Async      bool
	Name       *Ident
	Params     []*Param
	ReturnType *TypeRef
	Body       *Block
}

func (s *Func) stmtNode() {}

func (s *Func) Pos() token.Position { return s.FuncPos }
func (s *Func) End() token.Position { return s.Body.End() }

func (s *Func) String() string {
	var out bytes.Buffer
	if s.Async {
		out.WriteString("async ")
	}
	out.WriteString("func " + s.Name.Name + "(" + joinParams(s.Params) + ")")
	if s.ReturnType != nil {
		out.WriteString(" -> " + s.ReturnType.Name)
	}
	out.WriteString(" " + s.Body.String())
	return out.String()
}

// Class declares a class with an optional base class.
type Class struct {
	ClassPos token.Position
	Name     *Ident
	Base     *Ident
	Methods  []*Func
	Rbrace   token.Position
}

func (s *Class) stmtNode() {}

func (s *Class) Pos() token.Position { return s.ClassPos }
func (s *Class) End() token.Position { return s.Rbrace.Advance(1) }

func (s *Class) String() string {
	var out bytes.Buffer
	out.WriteString("class " + s.Name.Name)
	if s.Base != nil {
		out.WriteString(" < " + s.Base.Name)
	}
	out.WriteString(" { ")
	for _, m := range s.Methods {
		out.WriteString(m.String() + " ")
	}
	out.WriteString("}")
	return out.String()
}

// Return exits the enclosing function with an optional value.
type Return struct {
	ReturnPos token.Position
	Value     Expr
}

func (s *Return) stmtNode() {}

func (s *Return) Pos() token.Position { return s.ReturnPos }

func (s *Return) End() token.Position {
	if s.Value != nil {
		return s.Value.End()
	}
	return s.ReturnPos.Advance(6)
}

func (s *Return) String() string {
	if s.Value != nil {
		return "return " + s.Value.String()
	}
	return "return"
}

// Break exits the innermost loop.
type Break struct {
	BreakPos token.Position
}

func (s *Break) stmtNode() {}

func (s *Break) Pos() token.Position { return s.BreakPos }
func (s *Break) End() token.Position { return s.BreakPos.Advance(5) }
func (s *Break) String() string      { return "break" }

// Continue advances the innermost loop.
type Continue struct {
	ContinuePos token.Position
}

func (s *Continue) stmtNode() {}

func (s *Continue) Pos() token.Position { return s.ContinuePos }
func (s *Continue) End() token.Position { return s.ContinuePos.Advance(8) }
func (s *Continue) String() string      { return "continue" }

// Import loads a module: `import "lib/math" , hx as m`.
type Import struct {
	ImportPos token.Position
	Path      *String
	Ext       string // optional extension hint
	Alias     *Ident // defaults to the file stem
}

func (s *Import) stmtNode() {}

func (s *Import) Pos() token.Position { return s.ImportPos }

func (s *Import) End() token.Position {
	if s.Alias != nil && s.Alias.NamePos.IsValid() {
		return s.Alias.End()
	}
	return s.Path.End()
}

func (s *Import) String() string {
	out := "import " + s.Path.String()
	if s.Ext != "" {
		out += ", " + s.Ext
	}
	if s.Alias != nil {
		out += " as " + s.Alias.Name
	}
	return out
}

// Export marks the declarations of the wrapped statement as module exports.
type Export struct {
	ExportPos token.Position
	Stmt      Stmt
}

func (s *Export) stmtNode() {}

func (s *Export) Pos() token.Position { return s.ExportPos }
func (s *Export) End() token.Position { return s.Stmt.End() }
func (s *Export) String() string      { return "export " + s.Stmt.String() }

// Try is a try/catch/finally statement. CatchBlock and FinallyBlock are
// optional; CatchIdent is optional even when a catch block is present.
type Try struct {
	TryPos       token.Position
	Body         *Block
	CatchIdent   *Ident
	CatchBlock   *Block
	FinallyBlock *Block
}

func (s *Try) stmtNode() {}

func (s *Try) Pos() token.Position { return s.TryPos }

func (s *Try) End() token.Position {
	if s.FinallyBlock != nil {
		return s.FinallyBlock.End()
	}
	if s.CatchBlock != nil {
		return s.CatchBlock.End()
	}
	return s.Body.End()
}

func (s *Try) String() string {
	var out bytes.Buffer
	out.WriteString("try " + s.Body.String())
	if s.CatchBlock != nil {
		out.WriteString(" catch ")
		if s.CatchIdent != nil {
			out.WriteString("(" + s.CatchIdent.Name + ") ")
		}
		out.WriteString(s.CatchBlock.String())
	}
	if s.FinallyBlock != nil {
		out.WriteString(" finally " + s.FinallyBlock.String())
	}
	return out.String()
}

// Throw raises a value as a runtime error.
type Throw struct {
	ThrowPos token.Position
	Value    Expr
}

func (s *Throw) stmtNode() {}

func (s *Throw) Pos() token.Position { return s.ThrowPos }
func (s *Throw) End() token.Position { return s.Value.End() }
func (s *Throw) String() string      { return "throw " + s.Value.String() }

// Route is one entry of an api block: `GET "/users" -> listUsers`.
type Route struct {
	MethodPos token.Position
	Method    string // upper case HTTP method
	Path      string
	Handler   *Ident
}

func (r *Route) String() string {
	return r.Method + " " + strconv.Quote(r.Path) + " -> " + r.Handler.Name
}

// API declares a route table.
type API struct {
	APIPos token.Position
	Name   *Ident
	Routes []*Route
	Rbrace token.Position
}

func (s *API) stmtNode() {}

func (s *API) Pos() token.Position { return s.APIPos }
func (s *API) End() token.Position { return s.Rbrace.Advance(1) }

func (s *API) String() string {
	var out bytes.Buffer
	out.WriteString("api " + s.Name.Name + " { ")
	for _, r := range s.Routes {
		out.WriteString(r.String() + " ")
	}
	out.WriteString("}")
	return out.String()
}
