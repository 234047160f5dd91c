package dis

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hexza-lang/hexza/bytecode"
	"github.com/hexza-lang/hexza/compiler"
	"github.com/hexza-lang/hexza/op"
	"github.com/hexza-lang/hexza/parser"
)

func TestDisassembly(t *testing.T) {
	program, err := parser.Parse(context.Background(), "let x = 42 + 1.5\nprint(x, \"kaboom\")")
	require.Nil(t, err)
	code, err := compiler.Compile(program)
	require.Nil(t, err)

	instructions, err := Disassemble(code)
	require.Nil(t, err)
	require.Len(t, instructions, 9)
	require.Equal(t, "+", instructions[2].Annotation)
	require.Equal(t, "print", instructions[4].Annotation)
	require.Equal(t, 2, instructions[4].Line)

	var buf bytes.Buffer
	require.Nil(t, Print(instructions, &buf))
	expected := strings.TrimSpace(`
+--------+------+--------------+---------+----------+
| OFFSET | LINE |    OPCODE    | OPERAND |   INFO   |
+--------+------+--------------+---------+----------+
|      0 |    1 | LOAD_CONST   |       0 | 42       |
|      1 |    1 | LOAD_CONST   |       1 | 1.5      |
|      2 |    1 | BINARY_OP    |       1 | +        |
|      3 |    1 | DECLARE_NAME |       0 | x        |
|      4 |    2 | LOAD_NAME    |       1 | print    |
|      5 |    2 | LOAD_NAME    |       0 | x        |
|      6 |    2 | LOAD_CONST   |       2 | "kaboom" |
|      7 |    2 | CALL         |       2 |          |
|      8 |    2 | POP_TOP      |         |          |
+--------+------+--------------+---------+----------+
`)
	require.Equal(t, expected+"\n", buf.String())
}

func TestColoredDisassembly(t *testing.T) {
	code := bytecode.NewCode(bytecode.CodeParams{
		Instructions: []bytecode.Instruction{{Op: op.LoadConst, Operand: 0}, {Op: op.PopTop}},
		Constants:    []any{"hello"},
	})
	instructions, err := Disassemble(code)
	require.Nil(t, err)
	var buf bytes.Buffer
	require.Nil(t, Printer{UseColor: true}.Print(instructions, &buf))
	require.Contains(t, buf.String(), "\x1b[")
}

func TestDisassembleErrors(t *testing.T) {
	_, err := Disassemble(bytecode.NewCode(bytecode.CodeParams{
		Instructions: []bytecode.Instruction{{Op: op.LoadConst, Operand: 3}},
	}))
	require.ErrorContains(t, err, "constant index out of range: 3")

	_, err = Disassemble(bytecode.NewCode(bytecode.CodeParams{
		Instructions: []bytecode.Instruction{{Op: op.Code(199)}},
	}))
	require.ErrorContains(t, err, "unknown opcode 199")
}
