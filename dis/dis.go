// Package dis disassembles compiled Hexza bytecode into a readable listing.
package dis

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/hexza-lang/hexza/bytecode"
	"github.com/hexza-lang/hexza/internal/table"
	"github.com/hexza-lang/hexza/op"
)

// Instruction represents a single bytecode instruction and its operand.
type Instruction struct {
	Offset     int
	Name       string
	Opcode     op.Code
	Operand    int
	HasOperand bool
	Annotation string
	Constant   any
	Line       int
}

// Disassemble returns a parsed representation of the given bytecode.
func Disassemble(code *bytecode.Code) ([]Instruction, error) {
	var instructions []Instruction
	for offset := 0; offset < code.InstructionCount(); offset++ {
		instr := code.InstructionAt(offset)
		info := op.GetInfo(instr.Op)
		if info.Name == "" {
			return nil, fmt.Errorf("unknown opcode %d at offset %d", instr.Op, offset)
		}
		var constant any
		var annotation string
		switch instr.Op {
		case op.LoadName, op.StoreName, op.DeclareName, op.DeclareConst:
			if instr.Operand >= code.NameCount() {
				return nil, fmt.Errorf("name index out of range: %d", instr.Operand)
			}
			annotation = code.NameAt(instr.Operand)
		case op.BinaryOp:
			annotation = op.BinaryOpType(instr.Operand).String()
		case op.LoadConst:
			if instr.Operand >= code.ConstantCount() {
				return nil, fmt.Errorf("constant index out of range: %d", instr.Operand)
			}
			constant = code.ConstantAt(instr.Operand)
			annotation = fmt.Sprintf("%v", constant)
		}
		instructions = append(instructions, Instruction{
			Offset:     offset,
			Name:       info.Name,
			Opcode:     instr.Op,
			Operand:    instr.Operand,
			HasOperand: info.OperandCount > 0,
			Annotation: annotation,
			Constant:   constant,
			Line:       code.LocationAt(offset).Line,
		})
	}
	return instructions, nil
}

var (
	colorName     = color.New(color.Bold)
	colorNumber   = color.New(color.FgYellow)
	colorString   = color.New(color.FgGreen)
	colorInfo     = color.New(color.FgHiCyan)
	colorLocation = color.New(color.FgHiBlack)
)

// Printer writes disassembly listings.
type Printer struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool
}

func (p Printer) paint(c *color.Color, s string) string {
	if !p.UseColor {
		return s
	}
	c.EnableColor()
	return c.Sprint(s)
}

// Print writes a table of the given instructions to w.
func (p Printer) Print(instructions []Instruction, w io.Writer) error {
	var lines [][]string
	for _, instr := range instructions {
		operand := ""
		if instr.HasOperand {
			operand = fmt.Sprintf("%d", instr.Operand)
		}
		info := ""
		switch c := instr.Constant.(type) {
		case int64:
			info = p.paint(colorNumber, fmt.Sprintf("%d", c))
		case float64:
			info = p.paint(colorNumber, fmt.Sprintf("%g", c))
		case string:
			if len(c) > 80 {
				c = c[:77] + "..."
			}
			info = p.paint(colorString, fmt.Sprintf("%q", c))
		default:
			if instr.Annotation != "" {
				info = p.paint(colorInfo, instr.Annotation)
			}
		}
		line := ""
		if instr.Line > 0 {
			line = p.paint(colorLocation, fmt.Sprintf("%d", instr.Line))
		}
		lines = append(lines, []string{
			fmt.Sprintf("%d", instr.Offset),
			line,
			p.paint(colorName, instr.Name),
			operand,
			info,
		})
	}
	return table.NewTable(w).
		WithHeader([]string{"OFFSET", "LINE", "OPCODE", "OPERAND", "INFO"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignRight,
			table.AlignRight,
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
		}).
		WithHeaderAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
		}).
		WithRows(lines).
		Render()
}

// Print writes the instructions without colors.
func Print(instructions []Instruction, w io.Writer) error {
	return Printer{}.Print(instructions, w)
}
