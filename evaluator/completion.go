package evaluator

import (
	"context"
	stderrors "errors"

	"github.com/hexza-lang/hexza/ast"
	"github.com/hexza-lang/hexza/object"
)

type completionKind uint8

const (
	completionNormal completionKind = iota
	completionReturn
	completionBreak
	completionContinue
)

// completion is the outcome of executing a statement. Non-normal kinds
// unwind enclosing blocks until a loop or function boundary handles them.
type completion struct {
	kind  completionKind
	value object.Object
	node  ast.Node
}

func normal(value object.Object) completion {
	if value == nil {
		value = object.Nil
	}
	return completion{kind: completionNormal, value: value}
}

var done = normal(object.Nil)

func isContextError(err error) bool {
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
}
