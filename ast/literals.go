package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hexza-lang/hexza/internal/token"
)

// Int is an integer literal.
type Int struct {
	ValuePos token.Position
	Literal  string
	Value    int64
}

func (x *Int) exprNode() {}

func (x *Int) Pos() token.Position { return x.ValuePos }
func (x *Int) End() token.Position { return x.ValuePos.Advance(len(x.Literal)) }
func (x *Int) String() string      { return x.Literal }

// Float is a floating point literal.
type Float struct {
	ValuePos token.Position
	Literal  string
	Value    float64
}

func (x *Float) exprNode() {}

func (x *Float) Pos() token.Position { return x.ValuePos }
func (x *Float) End() token.Position { return x.ValuePos.Advance(len(x.Literal)) }
func (x *Float) String() string      { return x.Literal }

// String is a string literal. Multiline is set for triple-quoted strings.
type String struct {
	ValuePos  token.Position
	EndPos    token.Position
	Value     string
	Multiline bool
}

func (x *String) exprNode() {}

func (x *String) Pos() token.Position { return x.ValuePos }
func (x *String) End() token.Position { return x.EndPos.Advance(1) }

func (x *String) String() string {
	if x.Multiline {
		return `"""` + x.Value + `"""`
	}
	return strconv.Quote(x.Value)
}

// Bool is a boolean literal.
type Bool struct {
	ValuePos token.Position
	Value    bool
}

func (x *Bool) exprNode() {}

func (x *Bool) Pos() token.Position { return x.ValuePos }

func (x *Bool) End() token.Position {
	if x.Value {
		return x.ValuePos.Advance(4)
	}
	return x.ValuePos.Advance(5)
}

func (x *Bool) String() string { return fmt.Sprintf("%t", x.Value) }

// Null is the null literal.
type Null struct {
	NullPos token.Position
}

func (x *Null) exprNode() {}

func (x *Null) Pos() token.Position { return x.NullPos }
func (x *Null) End() token.Position { return x.NullPos.Advance(4) }
func (x *Null) String() string      { return "null" }

// This refers to the instance a method was called on.
type This struct {
	ThisPos token.Position
	Literal string // "this" or "self"
}

func (x *This) exprNode() {}

func (x *This) Pos() token.Position { return x.ThisPos }
func (x *This) End() token.Position { return x.ThisPos.Advance(len(x.Literal)) }
func (x *This) String() string      { return x.Literal }

// List is an array literal.
type List struct {
	Lbrack token.Position
	Items  []Expr
	Rbrack token.Position
}

func (x *List) exprNode() {}

func (x *List) Pos() token.Position { return x.Lbrack }
func (x *List) End() token.Position { return x.Rbrack.Advance(1) }
func (x *List) String() string      { return "[" + joinExprs(x.Items) + "]" }

// MapItem is one key/value pair of an object literal.
type MapItem struct {
	Key   string
	Value Expr
}

// Map is an object literal. Item order follows the source.
type Map struct {
	Lbrace token.Position
	Items  []MapItem
	Rbrace token.Position
}

func (x *Map) exprNode() {}

func (x *Map) Pos() token.Position { return x.Lbrace }
func (x *Map) End() token.Position { return x.Rbrace.Advance(1) }

func (x *Map) String() string {
	parts := make([]string, 0, len(x.Items))
	for _, item := range x.Items {
		parts = append(parts, strconv.Quote(item.Key)+": "+item.Value.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
