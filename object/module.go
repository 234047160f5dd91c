package object

import (
	"fmt"

	"github.com/hexza-lang/hexza/errors"
)

// Module is the value bound by an import of a source module. Its attributes
// are the module's exported names.
type Module struct {
	name    string
	path    string
	exports *Map
}

func NewModule(name, path string, exports *Map) *Module {
	if exports == nil {
		exports = NewMap()
	}
	return &Module{name: name, path: path, exports: exports}
}

func (m *Module) Type() Type {
	return MODULE
}

func (m *Module) Name() string {
	return m.name
}

func (m *Module) Path() string {
	return m.path
}

func (m *Module) Exports() *Map {
	return m.exports
}

func (m *Module) GetAttr(name string) (Object, bool) {
	return m.exports.Get(name)
}

func (m *Module) SetAttr(name string, value Object) error {
	return errors.Newf(errors.AssignmentError, "cannot modify module attribute %q", name)
}

func (m *Module) Inspect() string {
	return fmt.Sprintf("module(%s)", m.name)
}

func (m *Module) String() string {
	return m.Inspect()
}

func (m *Module) Interface() any {
	return m.exports.Interface()
}

func (m *Module) Equals(other Object) bool {
	return m == other
}

func (m *Module) IsTruthy() bool {
	return true
}

// Frame is the view of a scope frame used by Namespace.
type Frame interface {
	Lookup(name string) (Object, bool)
	Assign(name string, value Object) error
}

// Namespace exposes the bindings of a frame as attributes, as in
// global.x and global.x = 1.
type Namespace struct {
	name  string
	frame Frame
}

func NewNamespace(name string, frame Frame) *Namespace {
	return &Namespace{name: name, frame: frame}
}

func (n *Namespace) Type() Type {
	return NAMESPACE
}

func (n *Namespace) GetAttr(name string) (Object, bool) {
	return n.frame.Lookup(name)
}

func (n *Namespace) SetAttr(name string, value Object) error {
	return n.frame.Assign(name, value)
}

func (n *Namespace) Inspect() string {
	return fmt.Sprintf("namespace(%s)", n.name)
}

func (n *Namespace) String() string {
	return n.Inspect()
}

func (n *Namespace) Interface() any {
	return nil
}

func (n *Namespace) Equals(other Object) bool {
	return n == other
}

func (n *Namespace) IsTruthy() bool {
	return true
}
