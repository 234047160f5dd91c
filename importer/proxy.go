package importer

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hexza-lang/hexza/errors"
	"github.com/hexza-lang/hexza/object"
)

//go:embed runner.js
var runnerSource []byte

// RunnerFile is the file name the bundled runner is written to.
const RunnerFile = "hexza_js_runner.js"

// WriteRunner writes the bundled runner script into dir, unless a file with
// that name already exists, and returns its path.
func WriteRunner(dir string) (string, error) {
	path := filepath.Join(dir, RunnerFile)
	if isFile(path) {
		return path, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, runnerSource, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// ProxyConfig controls how a Proxy runs foreign functions.
type ProxyConfig struct {
	Runtime string
	Runner  func() (string, error)
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Proxy stands in for a foreign module. Each attribute is a callable that
// runs the function of that name in a separate runtime process; calling the
// proxy itself calls the module's default export.
type Proxy struct {
	path string
	cfg  ProxyConfig
}

var (
	_ object.Callable   = (*Proxy)(nil)
	_ object.AttrGetter = (*Proxy)(nil)
	_ object.ItemGetter = (*Proxy)(nil)
)

// NewProxy returns a proxy for the module at path.
func NewProxy(path string, cfg ProxyConfig) *Proxy {
	if cfg.Runtime == "" {
		cfg.Runtime = "node"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Runner == nil {
		cfg.Runner = func() (string, error) { return WriteRunner(os.TempDir()) }
	}
	return &Proxy{path: path, cfg: cfg}
}

func (p *Proxy) Type() object.Type {
	return object.PROXY
}

func (p *Proxy) Path() string {
	return p.path
}

func (p *Proxy) Inspect() string {
	return fmt.Sprintf("proxy(%s)", filepath.Base(p.path))
}

func (p *Proxy) String() string {
	return p.Inspect()
}

func (p *Proxy) Interface() any {
	return p.path
}

func (p *Proxy) Equals(other object.Object) bool {
	o, ok := other.(*Proxy)
	return ok && o.path == p.path
}

func (p *Proxy) IsTruthy() bool {
	return true
}

func (p *Proxy) GetAttr(name string) (object.Object, bool) {
	if strings.HasPrefix(name, "_") {
		return nil, false
	}
	return p.function(name), true
}

func (p *Proxy) GetItem(key object.Object) (object.Object, error) {
	name, ok := key.(*object.String)
	if !ok {
		return nil, errors.Newf(errors.TypeError, "proxy keys must be strings (%s given)", key.Type())
	}
	return p.function(name.Value()), nil
}

// Call invokes the module's default export.
func (p *Proxy) Call(ctx context.Context, args ...object.Object) (object.Object, error) {
	return p.Invoke(ctx, "default", args)
}

func (p *Proxy) function(name string) *object.Builtin {
	return object.NewBuiltin(name, func(ctx context.Context, args ...object.Object) (object.Object, error) {
		return p.Invoke(ctx, name, args)
	})
}

type response struct {
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
	Stack  string          `json:"stack"`
}

// Invoke runs the named function with the given arguments, encoded as JSON.
func (p *Proxy) Invoke(ctx context.Context, name string, args []object.Object) (object.Object, error) {
	runner, err := p.cfg.Runner()
	if err != nil {
		return nil, errors.Newf(errors.CallError, "cannot prepare foreign runner: %v", err)
	}
	encodedArgs, err := object.MarshalJSON(object.NewList(args))
	if err != nil {
		return nil, errors.Newf(errors.TypeError, "cannot encode arguments for %s: %v", name, err)
	}
	payload := `{"args":` + string(encodedArgs) + `}`

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.cfg.Runtime, runner, p.path, name, payload)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	start := time.Now()
	runErr := cmd.Run()
	p.cfg.Logger.Debug().
		Str("module", p.path).
		Str("function", name).
		Dur("elapsed", time.Since(start)).
		Msg("foreign call")

	switch {
	case stderrors.Is(ctx.Err(), context.DeadlineExceeded):
		return nil, errors.Newf(errors.CallError, "foreign call %s timed out after %s", name, p.cfg.Timeout)
	case stderrors.Is(runErr, exec.ErrNotFound):
		return nil, errors.Newf(errors.CallError, "%s not found; install it to import foreign modules", p.cfg.Runtime)
	}

	output := strings.TrimSpace(stdout.String())
	if output == "" {
		output = strings.TrimSpace(stderr.String())
	}
	if output == "" {
		if runErr != nil {
			return nil, errors.Newf(errors.CallError, "foreign call %s failed: %v", name, runErr)
		}
		return nil, errors.Newf(errors.CallError, "no output from foreign runner")
	}

	var resp response
	if err := json.Unmarshal([]byte(output), &resp); err != nil {
		return nil, errors.Newf(errors.ValueError, "invalid foreign response: %s", output)
	}
	if !resp.OK {
		rerr := errors.Newf(errors.ThrownError, "foreign error: %s", resp.Error)
		rerr.Note = resp.Stack
		return nil, rerr
	}
	if len(resp.Result) == 0 {
		return object.Nil, nil
	}
	return object.FromJSON(resp.Result)
}
