// Package bytecode provides immutable representations of compiled Hexza code.
//
// A [Code] holds a flat instruction array, a constant pool and a name table.
// Each [Instruction] is an opcode with a single integer operand whose meaning
// depends on the opcode: an index into the constant pool for LOAD_CONST, an
// index into the name table for LOAD_NAME and the store opcodes, an argument
// count for CALL, and an [op.BinaryOpType] for BINARY_OP.
//
// Code values are created once by the compiler and never modified, so they
// can be shared between goroutines and VM instances. Collections are exposed
// through index-based accessors:
//
//	for i := 0; i < code.InstructionCount(); i++ {
//	    instr := code.InstructionAt(i)
//	    ...
//	}
//
// [Marshal] and [Unmarshal] convert Code to and from CBOR, which is how the
// command line tool stores compiled programs.
package bytecode
