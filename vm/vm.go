// Package vm provides a VirtualMachine that executes compiled Hexza code.
//
// The machine is a fetch, decode and execute loop over a bytecode.Code with
// an operand stack. Names are resolved against a Globals table. A
// *scope.Scope satisfies Globals, so the VM and the tree-walking evaluator
// can share one global frame, one after the other.
package vm

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/hexza-lang/hexza/builtins"
	"github.com/hexza-lang/hexza/bytecode"
	"github.com/hexza-lang/hexza/errors"
	"github.com/hexza-lang/hexza/object"
	"github.com/hexza-lang/hexza/op"
	"github.com/hexza-lang/hexza/scope"
)

const (
	MaxStackDepth = 1024

	// DefaultContextCheckInterval is the number of instructions between
	// checks of ctx.Done(). Set to 0 to disable.
	DefaultContextCheckInterval = 1000
)

// Globals is the name table the VM loads from and stores to.
type Globals interface {
	Get(name string) (object.Object, error)
	Assign(name string, value object.Object) error
	Declare(name string, value object.Object) error
	DeclareConst(name string, value object.Object) error
}

var _ Globals = (*scope.Scope)(nil)

// VirtualMachine executes one compiled program.
type VirtualMachine struct {
	code    *bytecode.Code
	globals Globals
	logger  zerolog.Logger
	ip      int
	sp      int
	stack   [MaxStackDepth]object.Object
	result  object.Object

	// contextCheckInterval is the number of instructions between checks of
	// ctx.Done(). A value of 0 disables the check.
	contextCheckInterval int

	// observer receives a callback before each instruction. If nil, no
	// callbacks are made.
	observer Observer
}

// New creates a new Virtual Machine for the given code. Without WithGlobals
// the machine gets a fresh global frame holding the builtins.
func New(code *bytecode.Code, opts ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		code:                 code,
		logger:               zerolog.Nop(),
		sp:                   -1,
		result:               object.Nil,
		contextCheckInterval: DefaultContextCheckInterval,
	}
	for _, opt := range opts {
		opt(vm)
	}
	if vm.globals == nil {
		vm.globals = scope.NewRoot(builtins.Builtins(os.Stdout))
	}
	return vm
}

// Run the given code in a new Virtual Machine and return the result.
func Run(ctx context.Context, code *bytecode.Code, opts ...Option) (object.Object, error) {
	machine := New(code, opts...)
	if err := machine.Run(ctx); err != nil {
		return nil, err
	}
	return machine.Result(), nil
}

// Result returns the value of the last expression statement executed, or
// the value stored by the last assignment. It is null for a program that
// ends with a declaration.
func (vm *VirtualMachine) Result() object.Object {
	return vm.result
}

// Globals returns the global table used by the machine.
func (vm *VirtualMachine) Globals() Globals {
	return vm.globals
}

// Run executes the program from the first instruction.
func (vm *VirtualMachine) Run(ctx context.Context) error {
	vm.ip = 0
	vm.sp = -1
	vm.result = object.Nil
	if _, ok := object.GetCallFunc(ctx); !ok {
		ctx = object.WithCallFunc(ctx, callValue)
	}
	vm.logger.Debug().
		Str("filename", vm.code.Filename()).
		Int("instructions", vm.code.InstructionCount()).
		Msg("running bytecode")
	if err := vm.eval(ctx); err != nil {
		return vm.locate(err)
	}
	return nil
}

func (vm *VirtualMachine) eval(ctx context.Context) error {
	var instructionCount int
	checkInterval := vm.contextCheckInterval
	doneChan := ctx.Done()

	for vm.ip < vm.code.InstructionCount() {
		if checkInterval > 0 && doneChan != nil {
			instructionCount++
			if instructionCount >= checkInterval {
				instructionCount = 0
				select {
				case <-doneChan:
					return ctx.Err()
				default:
				}
			}
		}

		instr := vm.code.InstructionAt(vm.ip)
		if vm.observer != nil {
			event := StepEvent{
				IP:          vm.ip,
				Instruction: instr,
				Location:    vm.code.LocationAt(vm.ip),
				StackDepth:  vm.sp + 1,
			}
			if !vm.observer.OnStep(event) {
				return errors.Newf(errors.InternalError, "execution halted by observer")
			}
		}
		vm.ip++

		switch instr.Op {
		case op.Nop:
		case op.Halt:
			return nil
		case op.LoadConst:
			value, err := vm.constant(instr.Operand)
			if err != nil {
				return err
			}
			if err := vm.push(value); err != nil {
				return err
			}
		case op.LoadName:
			value, err := vm.globals.Get(vm.code.NameAt(instr.Operand))
			if err != nil {
				return err
			}
			if err := vm.push(value); err != nil {
				return err
			}
		case op.StoreName:
			value := vm.pop()
			if err := vm.globals.Assign(vm.code.NameAt(instr.Operand), value); err != nil {
				return err
			}
			vm.result = value
		case op.DeclareName:
			if err := vm.globals.Declare(vm.code.NameAt(instr.Operand), vm.pop()); err != nil {
				return err
			}
			vm.result = object.Nil
		case op.DeclareConst:
			if err := vm.globals.DeclareConst(vm.code.NameAt(instr.Operand), vm.pop()); err != nil {
				return err
			}
			vm.result = object.Nil
		case op.BinaryOp:
			b := vm.pop()
			a := vm.pop()
			value, err := object.BinaryOp(op.BinaryOpType(instr.Operand), a, b)
			if err != nil {
				return err
			}
			if err := vm.push(value); err != nil {
				return err
			}
		case op.Call:
			argc := instr.Operand
			if vm.sp+1 < argc+1 {
				return errors.Newf(errors.InternalError, "stack underflow in call with %d arguments", argc)
			}
			args := make([]object.Object, argc)
			for i := argc - 1; i >= 0; i-- {
				args[i] = vm.pop()
			}
			fn := vm.pop()
			callable, ok := fn.(object.Callable)
			if !ok {
				return errors.Newf(errors.CallError, "%s is not callable", fn.Type())
			}
			value, err := callable.Call(ctx, args...)
			if err != nil {
				return err
			}
			if value == nil {
				value = object.Nil
			}
			if err := vm.push(value); err != nil {
				return err
			}
		case op.PopTop:
			vm.result = vm.pop()
		default:
			return errors.Newf(errors.InternalError, "unknown opcode %d at offset %d", instr.Op, vm.ip-1)
		}
	}
	return nil
}

func (vm *VirtualMachine) constant(index int) (object.Object, error) {
	switch value := vm.code.ConstantAt(index).(type) {
	case int64:
		return object.NewInt(value), nil
	case float64:
		return object.NewFloat(value), nil
	case string:
		return object.NewString(value), nil
	default:
		return nil, errors.Newf(errors.InternalError, "unsupported constant type %T", value)
	}
}

func (vm *VirtualMachine) push(value object.Object) error {
	if vm.sp+1 >= MaxStackDepth {
		return errors.Newf(errors.InternalError, "stack overflow")
	}
	vm.sp++
	vm.stack[vm.sp] = value
	return nil
}

func (vm *VirtualMachine) pop() object.Object {
	if vm.sp < 0 {
		return object.Nil
	}
	value := vm.stack[vm.sp]
	vm.stack[vm.sp] = nil
	vm.sp--
	return value
}

// locate attaches the source location of the failing instruction.
func (vm *VirtualMachine) locate(err error) error {
	if err == nil || err == context.Canceled || err == context.DeadlineExceeded {
		return err
	}
	loc := vm.code.LocationAt(vm.ip - 1)
	if loc.IsZero() {
		return errors.Wrap(err)
	}
	return errors.Wrap(err).WithLocation(errors.SourceLocation{
		Filename: vm.code.Filename(),
		Line:     loc.Line,
		Column:   loc.Column,
		Source:   vm.code.GetSourceLine(loc.Line),
	})
}

// callValue is installed as the context CallFunc when the VM runs without
// an evaluator, so builtins that call back into callables still work.
func callValue(ctx context.Context, fn object.Object, args []object.Object) (object.Object, error) {
	if callable, ok := fn.(object.Callable); ok {
		return callable.Call(ctx, args...)
	}
	return nil, errors.Newf(errors.CallError, "%s is not callable", fn.Type())
}

func (vm *VirtualMachine) String() string {
	return fmt.Sprintf("vm(%s ip=%d sp=%d)", vm.code.Name(), vm.ip, vm.sp)
}
