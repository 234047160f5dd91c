// Package syntax restricts and rewrites Hexza programs before they run.
//
// A SyntaxConfig names language features to reject. NewSyntaxValidator turns
// it into a Validator that reports every violation in a program at once.
// Embedders pass a config with hexza.WithSyntax, or supply their own
// Validator and Transformer implementations.
package syntax

// SyntaxConfig lists the features a program may not use. The zero value
// allows everything.
type SyntaxConfig struct {
	// Statements
	DisallowVariableDecl bool // let, var, const
	DisallowAssignment   bool // x = value, x += value, x++

	// Functions
	DisallowReturn   bool // return statements
	DisallowFuncDef  bool // func declarations and lambdas
	DisallowFuncCall bool // calls and new
	DisallowAsync    bool // async func and await

	// Control flow
	DisallowIf    bool // if/else and ternaries
	DisallowLoops bool // while, for, for-in

	// Error handling
	DisallowTryCatch bool // try/catch/finally, throw

	// Program structure
	DisallowClasses bool // class declarations
	DisallowImport  bool // import and export
	DisallowAPI     bool // api blocks
}

// Presets for common use cases.
var (
	// ExpressionOnly restricts programs to expressions: literals, operators,
	// variable access, indexing, member access and calls of functions the
	// host provides.
	ExpressionOnly = SyntaxConfig{
		DisallowVariableDecl: true,
		DisallowAssignment:   true,
		DisallowReturn:       true,
		DisallowFuncDef:      true,
		DisallowAsync:        true,
		DisallowIf:           true,
		DisallowLoops:        true,
		DisallowTryCatch:     true,
		DisallowClasses:      true,
		DisallowImport:       true,
		DisallowAPI:          true,
	}

	// BasicScripting allows control flow and error handling but no reusable
	// definitions.
	BasicScripting = SyntaxConfig{
		DisallowReturn:  true,
		DisallowFuncDef: true,
		DisallowAsync:   true,
		DisallowClasses: true,
	}

	// Sandboxed allows the whole language except reaching outside the
	// program through imports or by serving routes.
	Sandboxed = SyntaxConfig{
		DisallowImport: true,
		DisallowAPI:    true,
	}

	// FullLanguage allows all features.
	FullLanguage = SyntaxConfig{}
)
