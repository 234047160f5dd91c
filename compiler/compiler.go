// Package compiler lowers a Hexza syntax tree into bytecode for the vm
// package.
//
// The bytecode path covers a deliberately small subset of the language:
//
//   - integer, float and string literals
//   - identifier loads
//   - let, var and const declarations with an initializer
//   - plain assignment to a name ("x = expr") as a statement
//   - the arithmetic operators + - * /
//   - calls whose callee and arguments are themselves supported
//   - expression statements
//
// A statement that contains anything else is skipped as a whole and recorded
// as a Skip, so the compiled program never executes half of a statement. In
// strict mode every skip is reported as a compile error instead.
package compiler

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hexza-lang/hexza/ast"
	"github.com/hexza-lang/hexza/bytecode"
	"github.com/hexza-lang/hexza/errors"
	"github.com/hexza-lang/hexza/internal/lexer"
	"github.com/hexza-lang/hexza/internal/token"
	"github.com/hexza-lang/hexza/op"
)

// MaxArgs is the maximum number of arguments in a compiled call.
const MaxArgs = 255

// Skip records a statement the compiler left out of the program.
type Skip struct {
	Stmt   ast.Stmt
	Reason string
}

// Pos returns the position of the skipped statement.
func (s Skip) Pos() token.Position {
	return s.Stmt.Pos()
}

func (s Skip) String() string {
	pos := s.Stmt.Pos()
	return fmt.Sprintf("%d:%d: %s", pos.LineNumber(), pos.ColumnNumber(), s.Reason)
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithStrict makes unsupported statements compile errors.
func WithStrict() Option {
	return func(c *Compiler) {
		c.strict = true
	}
}

// WithFilename sets the filename recorded in the compiled code.
func WithFilename(filename string) Option {
	return func(c *Compiler) {
		c.filename = filename
	}
}

// WithSource sets the source text recorded in the compiled code. It is used
// to show the offending line in error messages.
func WithSource(source string) Option {
	return func(c *Compiler) {
		c.source = source
	}
}

// WithLogger sets the logger that receives a debug entry per skipped
// statement.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// Compiler lowers one program into bytecode. A Compiler is used once.
type Compiler struct {
	strict   bool
	filename string
	source   string
	logger   zerolog.Logger

	instructions []bytecode.Instruction
	locations    []bytecode.SourceLocation
	constants    []any
	constIndex   map[any]int
	names        []string
	nameIndex    map[string]int
	skipped      []Skip

	// Position of the node currently being compiled, for the source map
	pos token.Position
}

// New returns a Compiler configured with the given options.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		logger:     zerolog.Nop(),
		constIndex: map[any]int{},
		nameIndex:  map[string]int{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile compiles the program with a new Compiler.
func Compile(program *ast.Program, opts ...Option) (*bytecode.Code, error) {
	return New(opts...).Compile(program)
}

// Skipped returns the statements left out of the compiled program.
func (c *Compiler) Skipped() []Skip {
	return append([]Skip(nil), c.skipped...)
}

// Compile lowers the program. In strict mode any skipped statement makes
// Compile fail with the collected compile errors.
func (c *Compiler) Compile(program *ast.Program) (*bytecode.Code, error) {
	for _, stmt := range program.Stmts {
		if reason := unsupportedStmt(stmt); reason != "" {
			c.skip(stmt, reason)
			continue
		}
		if err := c.compileStmt(stmt); err != nil {
			return nil, err
		}
	}
	if c.strict && len(c.skipped) > 0 {
		var errs errors.CompileErrors
		for _, s := range c.skipped {
			errs.Add(c.compileError(s))
		}
		return nil, errs.ToError()
	}
	return bytecode.NewCode(bytecode.CodeParams{
		Name:         "__main__",
		Source:       c.source,
		Filename:     c.filename,
		Instructions: c.instructions,
		Constants:    c.constants,
		Names:        c.names,
		Locations:    c.locations,
	}), nil
}

func (c *Compiler) skip(stmt ast.Stmt, reason string) {
	s := Skip{Stmt: stmt, Reason: reason}
	c.skipped = append(c.skipped, s)
	pos := stmt.Pos()
	c.logger.Debug().
		Int("line", pos.LineNumber()).
		Int("column", pos.ColumnNumber()).
		Str("reason", reason).
		Msg("skipped statement")
}

func (c *Compiler) compileError(s Skip) *errors.CompileError {
	pos := s.Pos()
	ce := &errors.CompileError{
		Code:     errors.E2001,
		Message:  s.Reason,
		Filename: c.filename,
		Line:     pos.LineNumber(),
		Column:   pos.ColumnNumber(),
		Note:     "use the tree-walking evaluator to run this statement",
	}
	if c.source != "" {
		ce.SourceLine = lexer.LineText(c.source, pos)
	}
	return ce
}

func (c *Compiler) compileStmt(stmt ast.Stmt) error {
	c.pos = stmt.Pos()
	switch node := stmt.(type) {
	case *ast.Var:
		if err := c.compileExpr(node.Value); err != nil {
			return err
		}
		c.pos = node.Pos()
		opcode := op.DeclareName
		if node.Kind == ast.Const {
			opcode = op.DeclareConst
		}
		c.emit(opcode, c.name(node.Name.Name))
	case *ast.ExprStmt:
		if assign, ok := node.X.(*ast.Assign); ok {
			if err := c.compileExpr(assign.Value); err != nil {
				return err
			}
			c.pos = assign.Pos()
			c.emit(op.StoreName, c.name(assign.Target.(*ast.Ident).Name))
			return nil
		}
		if err := c.compileExpr(node.X); err != nil {
			return err
		}
		c.pos = node.Pos()
		c.emit(op.PopTop, 0)
	default:
		return fmt.Errorf("compile error: unexpected statement %T", stmt)
	}
	return nil
}

func (c *Compiler) compileExpr(expr ast.Expr) error {
	c.pos = expr.Pos()
	switch node := expr.(type) {
	case *ast.Int:
		c.emit(op.LoadConst, c.constant(node.Value))
	case *ast.Float:
		c.emit(op.LoadConst, c.constant(node.Value))
	case *ast.String:
		c.emit(op.LoadConst, c.constant(node.Value))
	case *ast.Ident:
		c.emit(op.LoadName, c.name(node.Name))
	case *ast.Infix:
		bop, ok := op.LookupBinaryOp(node.Op)
		if !ok {
			return fmt.Errorf("compile error: unexpected operator %q", node.Op)
		}
		if err := c.compileExpr(node.X); err != nil {
			return err
		}
		if err := c.compileExpr(node.Y); err != nil {
			return err
		}
		c.pos = node.OpPos
		c.emit(op.BinaryOp, int(bop))
	case *ast.Call:
		if err := c.compileExpr(node.Fun); err != nil {
			return err
		}
		for _, arg := range node.Args {
			if err := c.compileExpr(arg); err != nil {
				return err
			}
		}
		c.pos = node.Pos()
		c.emit(op.Call, len(node.Args))
	default:
		return fmt.Errorf("compile error: unexpected expression %T", expr)
	}
	return nil
}

func (c *Compiler) emit(opcode op.Code, operand int) int {
	c.instructions = append(c.instructions, bytecode.Instruction{Op: opcode, Operand: operand})
	c.locations = append(c.locations, bytecode.SourceLocation{
		Line:   c.pos.LineNumber(),
		Column: c.pos.ColumnNumber(),
	})
	return len(c.instructions) - 1
}

// constant returns the pool index of value, adding it on first use.
func (c *Compiler) constant(value any) int {
	if index, ok := c.constIndex[value]; ok {
		return index
	}
	c.constants = append(c.constants, value)
	c.constIndex[value] = len(c.constants) - 1
	return len(c.constants) - 1
}

// name returns the name table index of name, adding it on first use.
func (c *Compiler) name(name string) int {
	if index, ok := c.nameIndex[name]; ok {
		return index
	}
	c.names = append(c.names, name)
	c.nameIndex[name] = len(c.names) - 1
	return len(c.names) - 1
}
