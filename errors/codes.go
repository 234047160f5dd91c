package errors

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E1xxx: Syntax errors
//   - E2xxx: Compile errors
//   - E3xxx: Runtime errors
type ErrorCode string

const (
	// Syntax errors (E1xxx)
	E1001 ErrorCode = "E1001" // Unexpected token
	E1002 ErrorCode = "E1002" // Unterminated string literal
	E1003 ErrorCode = "E1003" // Invalid syntax
	E1004 ErrorCode = "E1004" // Unexpected end of input
	E1005 ErrorCode = "E1005" // Disallowed syntax
	E1009 ErrorCode = "E1009" // Maximum nesting depth exceeded

	// Compile errors (E2xxx)
	E2001 ErrorCode = "E2001" // Construct not supported by the bytecode compiler

	// Runtime errors (E3xxx)
	E3001 ErrorCode = "E3001" // Type error
	E3002 ErrorCode = "E3002" // Undefined variable
	E3003 ErrorCode = "E3003" // Index out of bounds
	E3004 ErrorCode = "E3004" // Constant reassignment
	E3005 ErrorCode = "E3005" // Invalid assignment target
	E3006 ErrorCode = "E3006" // Unknown operator
	E3007 ErrorCode = "E3007" // Call on non-callable
	E3008 ErrorCode = "E3008" // Import error
	E3009 ErrorCode = "E3009" // Raised error
	E3010 ErrorCode = "E3010" // Invalid value
	E3011 ErrorCode = "E3011" // Misplaced break or continue
)

var kindCodes = map[Kind]ErrorCode{
	NameError:       E3002,
	ConstError:      E3004,
	AssignmentError: E3005,
	OperatorError:   E3006,
	TypeError:       E3001,
	CallError:       E3007,
	ValueError:      E3010,
	IndexError:      E3003,
	ThrownError:     E3009,
	ImportError:     E3008,
	ControlError:    E3011,
}

// CodeFor returns the error code associated with a runtime error kind.
func CodeFor(kind Kind) ErrorCode {
	return kindCodes[kind]
}
