package bytecode

// Stats contains statistics about compiled bytecode.
// This is useful for auditing programs before execution.
type Stats struct {
	// InstructionCount is the total number of bytecode instructions.
	InstructionCount int

	// ConstantCount is the number of constants in the constant pool.
	ConstantCount int

	// NameCount is the number of distinct names loaded or stored.
	NameCount int

	// CallCount is the number of call instructions.
	CallCount int

	// SourceBytes is the size of the original source code in bytes.
	SourceBytes int
}
