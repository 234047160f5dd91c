package vm

import "github.com/rs/zerolog"

// Option is a configuration function for a Virtual Machine.
type Option func(*VirtualMachine)

// WithGlobals sets the global table. Passing the evaluator's *scope.Scope
// lets both execution paths see the same bindings.
func WithGlobals(globals Globals) Option {
	return func(vm *VirtualMachine) {
		vm.globals = globals
	}
}

// WithLogger sets the logger used by the VM.
func WithLogger(logger zerolog.Logger) Option {
	return func(vm *VirtualMachine) {
		vm.logger = logger
	}
}

// WithContextCheckInterval sets how often the VM checks ctx.Done() during
// execution. The interval is specified in number of instructions. A value of
// 0 disables the check. The default is DefaultContextCheckInterval.
func WithContextCheckInterval(interval int) Option {
	return func(vm *VirtualMachine) {
		vm.contextCheckInterval = interval
	}
}

// WithObserver sets an observer for VM execution events.
//
// Observer methods are called synchronously during execution, so
// implementations should be fast. Returning false from OnStep halts
// execution immediately.
func WithObserver(observer Observer) Option {
	return func(vm *VirtualMachine) {
		vm.observer = observer
	}
}
