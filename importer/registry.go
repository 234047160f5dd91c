package importer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
)

const (
	// DefaultRegistryDir is the directory holding the package registry.
	DefaultRegistryDir = ".hexza_packages"
	// RegistryFile is the name of the registry file inside that directory.
	RegistryFile = "registry.toml"
)

// Package is a registry record.
type Package struct {
	Path        string    `toml:"path"`
	Kind        Kind      `toml:"kind"`
	Ext         string    `toml:"ext"`
	InstalledAt time.Time `toml:"installed_at"`
}

// Entry pairs a package with its registered name.
type Entry struct {
	Name string
	Package
}

type registryFile struct {
	Packages map[string]Package `toml:"packages"`
}

// Registry maps package names to local paths. It is stored as TOML in
// <dir>/registry.toml.
type Registry struct {
	dir      string
	packages map[string]Package
}

// Open loads the registry stored in dir. A missing registry file yields an
// empty registry; nothing is written until Save is called.
func Open(dir string) (*Registry, error) {
	if dir == "" {
		dir = DefaultRegistryDir
	}
	r := &Registry{dir: dir, packages: map[string]Package{}}
	path := r.File()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	var file registryFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	for name, pkg := range file.Packages {
		r.packages[name] = pkg
	}
	return r, nil
}

// Dir returns the registry directory.
func (r *Registry) Dir() string {
	return r.dir
}

// File returns the path of the registry file.
func (r *Registry) File() string {
	return filepath.Join(r.dir, RegistryFile)
}

// Add registers a package under name, replacing any previous record. The
// kind and extension are derived from the path when not given.
func (r *Registry) Add(name string, pkg Package) error {
	if name == "" {
		return fmt.Errorf("package name is required")
	}
	if pkg.Path == "" {
		return fmt.Errorf("package %q: path is required", name)
	}
	if pkg.Ext == "" {
		pkg.Ext = filepath.Ext(pkg.Path)
	}
	if pkg.Kind == "" {
		kind, ok := KindOf(pkg.Ext)
		if !ok {
			kind = Foreign
		}
		pkg.Kind = kind
	}
	if pkg.InstalledAt.IsZero() {
		pkg.InstalledAt = time.Now().UTC().Truncate(time.Second)
	}
	r.packages[name] = pkg
	return nil
}

// Remove deletes the named package.
func (r *Registry) Remove(name string) error {
	if _, ok := r.packages[name]; !ok {
		return fmt.Errorf("package %q is not installed", name)
	}
	delete(r.packages, name)
	return nil
}

// Lookup returns the record for name.
func (r *Registry) Lookup(name string) (Package, bool) {
	pkg, ok := r.packages[name]
	return pkg, ok
}

// Names returns the registered package names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.packages))
	for name := range r.packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns all records sorted by name.
func (r *Registry) List() []Entry {
	entries := make([]Entry, 0, len(r.packages))
	for _, name := range r.Names() {
		entries = append(entries, Entry{Name: name, Package: r.packages[name]})
	}
	return entries
}

// Save writes the registry file, creating the directory if needed.
func (r *Registry) Save() error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(registryFile{Packages: r.packages}); err != nil {
		return err
	}
	return os.WriteFile(r.File(), buf.Bytes(), 0o644)
}

// Validate checks that every registered path exists. All problems are
// reported together.
func (r *Registry) Validate() error {
	var result *multierror.Error
	for _, entry := range r.List() {
		if _, err := os.Stat(entry.Path); err != nil {
			result = multierror.Append(result, fmt.Errorf("package %q: %w", entry.Name, err))
		}
	}
	return result.ErrorOrNil()
}
