package bytecode

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/hexza-lang/hexza/op"
)

// FormatVersion is written into every serialized program. Unmarshal rejects
// data written with a different version.
const FormatVersion = 1

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	encMode = em
}

// Marshal converts a Code object into its CBOR representation.
func Marshal(code *Code) ([]byte, error) {
	state, err := stateFromCode(code)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(state)
}

// Unmarshal converts a CBOR representation into a Code object.
func Unmarshal(data []byte) (*Code, error) {
	var state codeState
	if err := cbor.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("bytecode: unmarshal: %w", err)
	}
	return codeFromState(&state)
}

// Serialization types

const (
	constantInt    = "int"
	constantFloat  = "float"
	constantString = "string"
)

type constantDef struct {
	Type   string  `cbor:"1,keyasint"`
	Int    int64   `cbor:"2,keyasint,omitempty"`
	Float  float64 `cbor:"3,keyasint,omitempty"`
	String string  `cbor:"4,keyasint,omitempty"`
}

type instructionDef struct {
	Op      op.Code `cbor:"1,keyasint"`
	Operand int     `cbor:"2,keyasint,omitempty"`
}

type locationDef struct {
	Line   int `cbor:"1,keyasint"`
	Column int `cbor:"2,keyasint"`
}

type codeState struct {
	Version      int              `cbor:"1,keyasint"`
	Name         string           `cbor:"2,keyasint,omitempty"`
	Filename     string           `cbor:"3,keyasint,omitempty"`
	Source       string           `cbor:"4,keyasint,omitempty"`
	Instructions []instructionDef `cbor:"5,keyasint"`
	Constants    []constantDef    `cbor:"6,keyasint,omitempty"`
	Names        []string         `cbor:"7,keyasint,omitempty"`
	Locations    []locationDef    `cbor:"8,keyasint,omitempty"`
}

func stateFromCode(code *Code) (*codeState, error) {
	state := &codeState{
		Version:      FormatVersion,
		Name:         code.name,
		Filename:     code.filename,
		Source:       code.source,
		Instructions: make([]instructionDef, len(code.instructions)),
		Names:        copySlice(code.names),
	}
	for i, instr := range code.instructions {
		state.Instructions[i] = instructionDef{Op: instr.Op, Operand: instr.Operand}
	}
	for i, c := range code.constants {
		var def constantDef
		switch v := c.(type) {
		case int64:
			def = constantDef{Type: constantInt, Int: v}
		case float64:
			def = constantDef{Type: constantFloat, Float: v}
		case string:
			def = constantDef{Type: constantString, String: v}
		default:
			return nil, fmt.Errorf("bytecode: unsupported constant type %T at index %d", c, i)
		}
		state.Constants = append(state.Constants, def)
	}
	for _, loc := range code.locations {
		state.Locations = append(state.Locations, locationDef{Line: loc.Line, Column: loc.Column})
	}
	return state, nil
}

func codeFromState(state *codeState) (*Code, error) {
	if state.Version != FormatVersion {
		return nil, fmt.Errorf("bytecode: unsupported format version %d (want %d)", state.Version, FormatVersion)
	}
	params := CodeParams{
		Name:         state.Name,
		Filename:     state.Filename,
		Source:       state.Source,
		Instructions: make([]Instruction, len(state.Instructions)),
		Names:        state.Names,
	}
	for i, def := range state.Instructions {
		if op.GetInfo(def.Op).Name == "" {
			return nil, fmt.Errorf("bytecode: unknown opcode %d at offset %d", def.Op, i)
		}
		params.Instructions[i] = Instruction{Op: def.Op, Operand: def.Operand}
	}
	for i, def := range state.Constants {
		switch def.Type {
		case constantInt:
			params.Constants = append(params.Constants, def.Int)
		case constantFloat:
			params.Constants = append(params.Constants, def.Float)
		case constantString:
			params.Constants = append(params.Constants, def.String)
		default:
			return nil, fmt.Errorf("bytecode: unknown constant type %q at index %d", def.Type, i)
		}
	}
	for _, loc := range state.Locations {
		params.Locations = append(params.Locations, SourceLocation{Line: loc.Line, Column: loc.Column})
	}
	return NewCode(params), nil
}
