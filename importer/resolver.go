package importer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hexza-lang/hexza/errors"
	"github.com/hexza-lang/hexza/object"
)

// DefaultTimeout bounds a single foreign function call.
const DefaultTimeout = 30 * time.Second

// Option configures a Resolver.
type Option func(*Resolver)

// WithRegistry makes the resolver consult the package registry first.
func WithRegistry(registry *Registry) Option {
	return func(r *Resolver) {
		r.registry = registry
	}
}

// WithBaseDir sets the directory relative import paths are resolved from.
func WithBaseDir(dir string) Option {
	return func(r *Resolver) {
		r.baseDir = dir
	}
}

// WithRuntime sets the command used to run foreign modules. Defaults to
// "node".
func WithRuntime(command string) Option {
	return func(r *Resolver) {
		r.runtime = command
	}
}

// WithRunner sets the path of the runner script handed to the runtime. By
// default the bundled runner is written next to the registry.
func WithRunner(path string) Option {
	return func(r *Resolver) {
		r.runner = path
	}
}

// WithTimeout sets the per-call timeout of foreign function calls.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Resolver) {
		r.timeout = timeout
	}
}

// WithLogger sets the logger used to trace resolution and foreign calls.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// Resolver turns import paths into module files.
type Resolver struct {
	registry *Registry
	baseDir  string
	runtime  string
	runner   string
	timeout  time.Duration
	logger   zerolog.Logger

	runnerOnce sync.Once
	bundled    string
	runnerErr  error
}

// NewResolver returns a Resolver configured with the given options.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		baseDir: ".",
		runtime: "node",
		timeout: DefaultTimeout,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve finds the module named by path. The registry is consulted by exact
// name and then by file stem, followed by the literal path, the path with
// each known extension (extHint first), and finally a directory containing
// an index file or a package.json main entry.
func (r *Resolver) Resolve(path, extHint string) (Resolved, error) {
	extHint = strings.TrimPrefix(extHint, ".")
	if r.registry != nil {
		if res, ok, err := r.fromRegistry(path, extHint); ok || err != nil {
			return res, err
		}
		if stem := stemOf(path); stem != path {
			if res, ok, err := r.fromRegistry(stem, extHint); ok || err != nil {
				return res, err
			}
		}
	}

	full := r.abs(path)
	if isFile(full) {
		return r.resolvedFile(full, extHint)
	}
	var exts []string
	if extHint != "" {
		exts = append(exts, "."+extHint)
	}
	exts = append(exts, knownExtensions()...)
	for _, ext := range exts {
		if candidate := full + ext; isFile(candidate) {
			return r.resolvedFile(candidate, extHint)
		}
	}
	if isDir(full) {
		if res, ok, err := r.fromDir(full, extHint); ok || err != nil {
			return res, err
		}
	}
	return Resolved{}, r.notFound(path)
}

// Proxy returns the value bound by importing a foreign module.
func (r *Resolver) Proxy(resolved Resolved) object.Object {
	return NewProxy(resolved.Path, ProxyConfig{
		Runtime: r.runtime,
		Runner:  r.runnerPath,
		Timeout: r.timeout,
		Logger:  r.logger,
	})
}

func (r *Resolver) fromRegistry(name, extHint string) (Resolved, bool, error) {
	pkg, ok := r.registry.Lookup(name)
	if !ok {
		return Resolved{}, false, nil
	}
	switch {
	case isFile(pkg.Path):
		if pkg.Kind != "" {
			return Resolved{Path: pkg.Path, Kind: pkg.Kind}, true, nil
		}
		hint := extHint
		if hint == "" {
			hint = pkg.Ext
		}
		res, err := r.resolvedFile(pkg.Path, hint)
		return res, true, err
	case isDir(pkg.Path):
		return r.fromDir(pkg.Path, extHint)
	default:
		r.logger.Debug().Str("package", name).Str("path", pkg.Path).Msg("registered path does not exist")
		return Resolved{}, false, nil
	}
}

func (r *Resolver) fromDir(dir, extHint string) (Resolved, bool, error) {
	for _, ext := range knownExtensions() {
		if index := filepath.Join(dir, "index"+ext); isFile(index) {
			res, err := r.resolvedFile(index, extHint)
			return res, true, err
		}
	}
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return Resolved{}, false, nil
	}
	var manifest struct {
		Main string `json:"main"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil || manifest.Main == "" {
		return Resolved{}, false, nil
	}
	main := filepath.Join(dir, manifest.Main)
	if !isFile(main) {
		return Resolved{}, false, nil
	}
	if _, ok := KindOfPath(main); !ok && extHint == "" {
		return Resolved{Path: main, Kind: Foreign}, true, nil
	}
	res, err := r.resolvedFile(main, extHint)
	return res, true, err
}

func (r *Resolver) resolvedFile(path, extHint string) (Resolved, error) {
	kind, ok := KindOfPath(path)
	if !ok && extHint != "" {
		kind, ok = KindOf(extHint)
	}
	if !ok {
		return Resolved{}, errors.Newf(errors.ImportError, "unsupported module format: %q", filepath.Ext(path))
	}
	r.logger.Debug().Str("path", path).Str("kind", string(kind)).Msg("resolved module")
	return Resolved{Path: path, Kind: kind}, nil
}

func (r *Resolver) notFound(path string) error {
	installed := "none"
	if r.registry != nil {
		if names := r.registry.Names(); len(names) > 0 {
			installed = strings.Join(names, ", ")
		}
	}
	err := errors.Newf(errors.ImportError, "module %q not found", path)
	err.Note = "installed packages: " + installed
	err.Hint = "search paths: registry, " + r.baseDir
	return err
}

// runnerPath returns the runner script, writing the bundled one on first use.
func (r *Resolver) runnerPath() (string, error) {
	if r.runner != "" {
		return r.runner, nil
	}
	r.runnerOnce.Do(func() {
		dir := os.TempDir()
		if r.registry != nil {
			dir = r.registry.Dir()
		}
		r.bundled, r.runnerErr = WriteRunner(dir)
	})
	return r.bundled, r.runnerErr
}

func (r *Resolver) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.baseDir, path)
}

func stemOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
