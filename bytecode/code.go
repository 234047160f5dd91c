package bytecode

import (
	"fmt"
	"strings"

	"github.com/hexza-lang/hexza/op"
)

// Instruction is a single opcode and its operand.
type Instruction struct {
	Op      op.Code
	Operand int
}

func (i Instruction) String() string {
	info := op.GetInfo(i.Op)
	if info.OperandCount == 0 {
		return info.Name
	}
	return fmt.Sprintf("%s %d", info.Name, i.Operand)
}

// Code represents a compiled program. It is immutable after creation and safe
// for concurrent use.
type Code struct {
	name         string
	source       string
	filename     string
	instructions []Instruction
	constants    []any
	names        []string

	// Source map: one location per instruction for error reporting
	locations []SourceLocation
}

// CodeParams contains parameters for creating a new Code.
type CodeParams struct {
	Name         string
	Source       string
	Filename     string
	Instructions []Instruction
	Constants    []any
	Names        []string
	Locations    []SourceLocation
}

// NewCode creates a new immutable Code from the given parameters.
// Input slices are copied so later changes by the caller are not visible.
func NewCode(params CodeParams) *Code {
	return &Code{
		name:         params.Name,
		source:       params.Source,
		filename:     params.Filename,
		instructions: copySlice(params.Instructions),
		constants:    copySlice(params.Constants),
		names:        copySlice(params.Names),
		locations:    copySlice(params.Locations),
	}
}

func copySlice[T any](src []T) []T {
	if src == nil {
		return nil
	}
	dst := make([]T, len(src))
	copy(dst, src)
	return dst
}

// Name returns the name of this code block.
func (c *Code) Name() string {
	return c.name
}

// Source returns the source code the program was compiled from.
func (c *Code) Source() string {
	return c.source
}

// Filename returns the source filename.
func (c *Code) Filename() string {
	return c.filename
}

// InstructionCount returns the number of instructions.
func (c *Code) InstructionCount() int {
	return len(c.instructions)
}

// InstructionAt returns the instruction at the given index.
func (c *Code) InstructionAt(index int) Instruction {
	return c.instructions[index]
}

// ConstantCount returns the number of constants.
func (c *Code) ConstantCount() int {
	return len(c.constants)
}

// ConstantAt returns the constant at the given index.
func (c *Code) ConstantAt(index int) any {
	return c.constants[index]
}

// NameCount returns the number of names.
func (c *Code) NameCount() int {
	return len(c.names)
}

// NameAt returns the name at the given index.
func (c *Code) NameAt(index int) string {
	return c.names[index]
}

// LocationAt returns the source location for the instruction at the given
// index, or a zero location if none was recorded.
func (c *Code) LocationAt(ip int) SourceLocation {
	if ip < 0 || ip >= len(c.locations) {
		return SourceLocation{}
	}
	return c.locations[ip]
}

// LocationCount returns the number of recorded source locations.
func (c *Code) LocationCount() int {
	return len(c.locations)
}

// GetSourceLine returns the source code line at the given 1-based line number.
func (c *Code) GetSourceLine(lineNum int) string {
	if lineNum < 1 || c.source == "" {
		return ""
	}
	lines := strings.Split(c.source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// Stats returns statistics about this code block.
func (c *Code) Stats() Stats {
	calls := 0
	for _, instr := range c.instructions {
		if instr.Op == op.Call {
			calls++
		}
	}
	return Stats{
		InstructionCount: len(c.instructions),
		ConstantCount:    len(c.constants),
		NameCount:        len(c.names),
		CallCount:        calls,
		SourceBytes:      len(c.source),
	}
}
