package evaluator

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/hexza-lang/hexza/ast"
	"github.com/hexza-lang/hexza/object"
	"github.com/hexza-lang/hexza/scope"
)

// Route is a method and path bound to a handler function by an api block.
type Route struct {
	API     string
	Method  string
	Path    string
	Handler *Function
}

func (r Route) String() string {
	return fmt.Sprintf("%s %s -> %s", r.Method, r.Path, r.Handler.name)
}

// execAPI registers the routes of an api block. Routes whose handler is not
// a function are skipped; all problems are logged together as a warning and
// do not stop the program.
func (e *Interpreter) execAPI(node *ast.API, s *scope.Scope) error {
	var problems *multierror.Error
	for _, r := range node.Routes {
		value, ok := s.Lookup(r.Handler.Name)
		if !ok {
			problems = multierror.Append(problems,
				fmt.Errorf("%s %s: handler %q is not defined", r.Method, r.Path, r.Handler.Name))
			continue
		}
		fn, ok := value.(*Function)
		if !ok {
			problems = multierror.Append(problems,
				fmt.Errorf("%s %s: handler %q is not a function (%s)", r.Method, r.Path, r.Handler.Name, value.Type()))
			continue
		}
		route := Route{API: node.Name.Name, Method: r.Method, Path: r.Path, Handler: fn}
		if err := e.register(route); err != nil {
			problems = multierror.Append(problems, fmt.Errorf("%s %s: %w", r.Method, r.Path, err))
			continue
		}
		e.logger.Debug().
			Str("api", route.API).
			Str("method", route.Method).
			Str("path", route.Path).
			Str("handler", fn.name).
			Msg("registered route")
	}
	if err := problems.ErrorOrNil(); err != nil {
		e.logger.Warn().Err(err).Str("api", node.Name.Name).Msg("skipped routes")
	}
	return nil
}

func (e *Interpreter) register(route Route) error {
	e.shared.mu.Lock()
	defer e.shared.mu.Unlock()
	if e.shared.registrar == nil && e.shared.newRegistrar != nil {
		registrar, err := e.shared.newRegistrar()
		if err != nil {
			return err
		}
		e.shared.registrar = registrar
	}
	if e.shared.registrar != nil {
		if err := e.shared.registrar.Register(route.Method, route.Path, route.Handler); err != nil {
			return err
		}
	}
	e.shared.routes = append(e.shared.routes, route)
	return nil
}

// Invoke calls fn with extra bindings visible to its body, as request
// handlers are called. The bindings live in a fresh frame between the
// closure and the call frame. Invocations on an interpreter are serialized.
// The returned flag reports whether the body ended with a return.
func (e *Interpreter) Invoke(ctx context.Context, fn *Function, bindings map[string]object.Object) (object.Object, bool, error) {
	e.shared.invokeMu.Lock()
	defer e.shared.invokeMu.Unlock()

	inner := scope.New(fn.closure)
	for name, value := range bindings {
		if err := inner.Declare(name, value); err != nil {
			return nil, false, err
		}
	}
	call := *fn
	call.closure = inner
	owner := fn.owner
	ctx = owner.withCallFunc(ctx)
	if !call.async {
		return owner.run(ctx, &call, nil)
	}
	task, err := owner.newTask(&call, nil)
	if err != nil {
		return nil, false, err
	}
	value, err := task.Await(ctx)
	return value, task.returned, err
}

// Invoke calls f through the interpreter that defined it. See
// Interpreter.Invoke.
func (f *Function) Invoke(ctx context.Context, bindings map[string]object.Object) (object.Object, bool, error) {
	return f.owner.Invoke(ctx, f, bindings)
}
