// Package op defines opcodes used by the Hexza compiler and virtual machine.
package op

// Code is an integer opcode that indicates an operation to execute.
type Code uint16

const (
	Invalid Code = 0

	// Execution
	Nop  Code = 1
	Halt Code = 2
	Call Code = 3

	// Load
	LoadConst Code = 20
	LoadName  Code = 21

	// Store
	StoreName    Code = 30
	DeclareName  Code = 31
	DeclareConst Code = 32

	// Operations
	BinaryOp Code = 40

	// Stack
	PopTop Code = 72
)

// BinaryOpType describes a type of binary operation, as in an operation that
// takes two operands. For example, addition, subtraction, multiplication, etc.
type BinaryOpType uint16

const (
	Add        BinaryOpType = 1
	Subtract   BinaryOpType = 2
	Multiply   BinaryOpType = 3
	Divide     BinaryOpType = 4
	Modulo     BinaryOpType = 5
	Xor        BinaryOpType = 8
	Power      BinaryOpType = 9
	LShift     BinaryOpType = 10
	RShift     BinaryOpType = 11
	BitwiseAnd BinaryOpType = 12
	BitwiseOr  BinaryOpType = 13
)

// String returns the source operator of the binary operation.
// For example "+" for addition.
func (bop BinaryOpType) String() string {
	switch bop {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	case Modulo:
		return "%"
	case Xor:
		return "^"
	case Power:
		return "**"
	case LShift:
		return "<<"
	case RShift:
		return ">>"
	case BitwiseAnd:
		return "&"
	case BitwiseOr:
		return "|"
	default:
		return ""
	}
}

var binaryOps = map[string]BinaryOpType{
	"+":  Add,
	"-":  Subtract,
	"*":  Multiply,
	"/":  Divide,
	"%":  Modulo,
	"^":  Xor,
	"**": Power,
	"<<": LShift,
	">>": RShift,
	"&":  BitwiseAnd,
	"|":  BitwiseOr,
}

// LookupBinaryOp returns the binary operation for a source operator.
func LookupBinaryOp(operator string) (BinaryOpType, bool) {
	bop, ok := binaryOps[operator]
	return bop, ok
}

// CompareOpType describes a type of comparison operation. For example, less
// than, greater than, equal, etc.
type CompareOpType uint16

const (
	LessThan           CompareOpType = 1
	LessThanOrEqual    CompareOpType = 2
	Equal              CompareOpType = 3
	NotEqual           CompareOpType = 4
	GreaterThan        CompareOpType = 5
	GreaterThanOrEqual CompareOpType = 6
)

// String returns a string representation of the comparison operation.
// For example "<" for less than.
func (cop CompareOpType) String() string {
	switch cop {
	case LessThan:
		return "<"
	case LessThanOrEqual:
		return "<="
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	case GreaterThan:
		return ">"
	case GreaterThanOrEqual:
		return ">="
	default:
		return ""
	}
}

var compareOps = map[string]CompareOpType{
	"<":  LessThan,
	"<=": LessThanOrEqual,
	"==": Equal,
	"!=": NotEqual,
	">":  GreaterThan,
	">=": GreaterThanOrEqual,
}

// LookupCompareOp returns the comparison operation for a source operator.
func LookupCompareOp(operator string) (CompareOpType, bool) {
	cop, ok := compareOps[operator]
	return cop, ok
}

// Info contains information about an opcode.
type Info struct {
	Code         Code
	Name         string
	OperandCount int
}

var infos = make([]Info, 256)

func init() {
	type opInfo struct {
		op    Code
		name  string
		count int
	}
	ops := []opInfo{
		{BinaryOp, "BINARY_OP", 1},
		{Call, "CALL", 1},
		{DeclareConst, "DECLARE_CONST", 1},
		{DeclareName, "DECLARE_NAME", 1},
		{Halt, "HALT", 0},
		{LoadConst, "LOAD_CONST", 1},
		{LoadName, "LOAD_NAME", 1},
		{Nop, "NOP", 0},
		{PopTop, "POP_TOP", 0},
		{StoreName, "STORE_NAME", 1},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Name:         o.name,
			Code:         o.op,
			OperandCount: o.count,
		}
	}
}

// GetInfo returns information about the given opcode.
func GetInfo(op Code) Info {
	return infos[op]
}
