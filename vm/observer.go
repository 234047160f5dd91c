package vm

import (
	"github.com/rs/zerolog"

	"github.com/hexza-lang/hexza/bytecode"
	"github.com/hexza-lang/hexza/op"
)

// StepEvent describes the instruction about to be executed.
type StepEvent struct {
	IP          int
	Instruction bytecode.Instruction
	Location    bytecode.SourceLocation
	StackDepth  int
}

// OpcodeName returns the name of the instruction's opcode.
func (e StepEvent) OpcodeName() string {
	return op.GetInfo(e.Instruction.Op).Name
}

// Observer receives VM execution events. It can be used for tracing,
// instruction counting or coverage without modifying the VM.
type Observer interface {
	// OnStep is called before each instruction. Returning false halts
	// execution.
	OnStep(event StepEvent) bool
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(event StepEvent) bool

func (f ObserverFunc) OnStep(event StepEvent) bool {
	return f(event)
}

// TraceObserver logs every instruction at trace level.
type TraceObserver struct {
	Logger zerolog.Logger
}

func (o TraceObserver) OnStep(event StepEvent) bool {
	o.Logger.Trace().
		Int("ip", event.IP).
		Str("op", event.OpcodeName()).
		Int("operand", event.Instruction.Operand).
		Int("line", event.Location.Line).
		Int("stack", event.StackDepth).
		Msg("step")
	return true
}

// LimitObserver halts execution after Max instructions.
type LimitObserver struct {
	Max   int
	count int
}

func (o *LimitObserver) OnStep(event StepEvent) bool {
	o.count++
	return o.count <= o.Max
}

// Count returns the number of instructions observed.
func (o *LimitObserver) Count() int {
	return o.count
}
