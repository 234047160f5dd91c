package syntax

import "github.com/hexza-lang/hexza/ast"

// SyntaxValidator validates a program against a SyntaxConfig.
type SyntaxValidator struct {
	config SyntaxConfig
}

// NewSyntaxValidator creates a validator for the given configuration.
func NewSyntaxValidator(config SyntaxConfig) *SyntaxValidator {
	return &SyntaxValidator{config: config}
}

// Validate reports every node that uses a disallowed feature, in source
// order.
func (v *SyntaxValidator) Validate(program *ast.Program) []ValidationError {
	var errs []ValidationError
	ast.Inspect(program, func(node ast.Node) bool {
		if node == nil {
			return false
		}
		if msg := v.violation(node); msg != "" {
			errs = append(errs, ValidationError{Message: msg, Node: node, Position: node.Pos()})
		}
		return true
	})
	return errs
}

func (v *SyntaxValidator) violation(node ast.Node) string {
	c := v.config
	switch n := node.(type) {
	case *ast.Var:
		if c.DisallowVariableDecl {
			return "variable declarations are not allowed"
		}
	case *ast.Assign, *ast.Postfix:
		if c.DisallowAssignment {
			return "assignment is not allowed"
		}
	case *ast.Return:
		if c.DisallowReturn {
			return "return statements are not allowed"
		}
	case *ast.Func:
		if n.Async && c.DisallowAsync {
			return "async functions are not allowed"
		}
		if c.DisallowFuncDef {
			return "function definitions are not allowed"
		}
	case *ast.Lambda:
		if c.DisallowFuncDef {
			return "function definitions are not allowed"
		}
	case *ast.Await:
		if c.DisallowAsync {
			return "await is not allowed"
		}
	case *ast.Call, *ast.New:
		if c.DisallowFuncCall {
			return "function calls are not allowed"
		}
	case *ast.If, *ast.Ternary:
		if c.DisallowIf {
			return "conditionals are not allowed"
		}
	case *ast.While, *ast.For, *ast.ForIn:
		if c.DisallowLoops {
			return "loops are not allowed"
		}
	case *ast.Try, *ast.Throw:
		if c.DisallowTryCatch {
			return "try/catch/throw is not allowed"
		}
	case *ast.Class:
		if c.DisallowClasses {
			return "class definitions are not allowed"
		}
	case *ast.Import, *ast.Export:
		if c.DisallowImport {
			return "import and export are not allowed"
		}
	case *ast.API:
		if c.DisallowAPI {
			return "api blocks are not allowed"
		}
	}
	return ""
}
