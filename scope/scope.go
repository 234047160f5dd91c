// Package scope implements the chained binding frames used by the Hexza
// evaluator and VM.
//
// Lookup walks from a frame to its parents. Assignment updates the nearest
// frame that already binds the name and otherwise declares it in the
// current frame. Names declared const are recorded per frame and cannot be
// reassigned through that frame.
package scope

import (
	"sort"

	"github.com/hexza-lang/hexza/errors"
	"github.com/hexza-lang/hexza/object"
)

// Scope is one frame of bindings with an optional parent.
type Scope struct {
	vars   map[string]object.Object
	consts map[string]struct{}
	parent *Scope
}

// New returns an empty frame whose parent is the given scope, which may be
// nil for a root frame.
func New(parent *Scope) *Scope {
	return &Scope{
		vars:   map[string]object.Object{},
		consts: map[string]struct{}{},
		parent: parent,
	}
}

// NewRoot returns a root frame holding the given bindings.
func NewRoot(bindings map[string]object.Object) *Scope {
	s := New(nil)
	for name, value := range bindings {
		s.vars[name] = value
	}
	return s
}

// Parent returns the enclosing frame, or nil for a root frame.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Root returns the outermost frame of the chain.
func (s *Scope) Root() *Scope {
	root := s
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// Lookup finds the value bound to name in this frame or its ancestors.
func (s *Scope) Lookup(name string) (object.Object, bool) {
	for frame := s; frame != nil; frame = frame.parent {
		if value, ok := frame.vars[name]; ok {
			return value, true
		}
	}
	return nil, false
}

// Get is Lookup that reports a missing name as an undefined variable error,
// with a suggestion when a similarly named binding exists.
func (s *Scope) Get(name string) (object.Object, error) {
	if value, ok := s.Lookup(name); ok {
		return value, nil
	}
	err := errors.Newf(errors.NameError, "undefined variable %q", name)
	err.Hint = errors.DidYouMean(errors.SuggestSimilar(name, s.VisibleNames()))
	return nil, err
}

// Has reports whether this frame itself binds name.
func (s *Scope) Has(name string) bool {
	_, ok := s.vars[name]
	return ok
}

// IsConst reports whether name was declared const in this frame.
func (s *Scope) IsConst(name string) bool {
	_, ok := s.consts[name]
	return ok
}

// Assign sets name in the nearest frame that binds it, or declares it in
// this frame if no frame does.
func (s *Scope) Assign(name string, value object.Object) error {
	for frame := s; frame != nil; frame = frame.parent {
		if _, ok := frame.vars[name]; ok {
			if frame.IsConst(name) {
				return constError(name)
			}
			frame.vars[name] = value
			return nil
		}
	}
	s.vars[name] = value
	return nil
}

// Declare binds name in this frame, shadowing any outer binding. Redeclaring
// a const of this frame fails.
func (s *Scope) Declare(name string, value object.Object) error {
	if s.IsConst(name) {
		return constError(name)
	}
	s.vars[name] = value
	return nil
}

// DeclareConst binds name in this frame and marks it constant.
func (s *Scope) DeclareConst(name string, value object.Object) error {
	if err := s.Declare(name, value); err != nil {
		return err
	}
	s.consts[name] = struct{}{}
	return nil
}

// Names returns the names bound in this frame, sorted.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.vars))
	for name := range s.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// VisibleNames returns every name reachable from this frame, sorted.
func (s *Scope) VisibleNames() []string {
	seen := map[string]struct{}{}
	var names []string
	for frame := s; frame != nil; frame = frame.parent {
		for name := range frame.vars {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// Bindings returns a copy of this frame's bindings.
func (s *Scope) Bindings() map[string]object.Object {
	result := make(map[string]object.Object, len(s.vars))
	for name, value := range s.vars {
		result[name] = value
	}
	return result
}

func constError(name string) *errors.RuntimeError {
	return errors.Newf(errors.ConstError, "cannot reassign constant %q", name)
}
