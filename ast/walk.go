package ast

// Visitor defines the interface for AST traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, stmt := range n.Stmts {
			Walk(v, stmt)
		}

	// Statements
	case *Block:
		for _, stmt := range n.Stmts {
			Walk(v, stmt)
		}
	case *Var:
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *ExprStmt:
		Walk(v, n.X)
	case *If:
		Walk(v, n.Cond)
		Walk(v, n.Consequence)
		if n.Alternative != nil {
			Walk(v, n.Alternative)
		}
	case *While:
		Walk(v, n.Cond)
		Walk(v, n.Body)
	case *For:
		if n.Init != nil {
			Walk(v, n.Init)
		}
		if n.Cond != nil {
			Walk(v, n.Cond)
		}
		if n.Post != nil {
			Walk(v, n.Post)
		}
		Walk(v, n.Body)
	case *ForIn:
		Walk(v, n.Iterable)
		Walk(v, n.Body)
	case *Func:
		Walk(v, n.Body)
	case *Class:
		for _, m := range n.Methods {
			Walk(v, m)
		}
	case *Return:
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *Export:
		Walk(v, n.Stmt)
	case *Try:
		Walk(v, n.Body)
		if n.CatchBlock != nil {
			Walk(v, n.CatchBlock)
		}
		if n.FinallyBlock != nil {
			Walk(v, n.FinallyBlock)
		}
	case *Throw:
		Walk(v, n.Value)

	// Expressions
	case *List:
		for _, item := range n.Items {
			Walk(v, item)
		}
	case *Map:
		for _, item := range n.Items {
			Walk(v, item.Value)
		}
	case *Prefix:
		Walk(v, n.X)
	case *Infix:
		Walk(v, n.X)
		Walk(v, n.Y)
	case *Ternary:
		Walk(v, n.Cond)
		Walk(v, n.IfTrue)
		Walk(v, n.IfFalse)
	case *Index:
		Walk(v, n.X)
		Walk(v, n.Index)
	case *Member:
		Walk(v, n.X)
	case *Assign:
		Walk(v, n.Target)
		Walk(v, n.Value)
	case *Postfix:
		Walk(v, n.X)
	case *Call:
		Walk(v, n.Fun)
		for _, arg := range n.Args {
			Walk(v, arg)
		}
	case *New:
		for _, arg := range n.Args {
			Walk(v, arg)
		}
	case *Lambda:
		Walk(v, n.Body)
	case *Await:
		Walk(v, n.X)
	}
	v.Visit(nil)
}

// Inspect traverses an AST in depth-first order. It calls f(node) for each
// node; if f returns true, Inspect invokes f recursively for each of the
// non-nil children of node, followed by a call of f(nil).
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}
