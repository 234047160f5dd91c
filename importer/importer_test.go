package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hexza-lang/hexza/errors"
	"github.com/hexza-lang/hexza/object"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.Nil(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.Nil(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		ext  string
		kind Kind
		ok   bool
	}{
		{".hxza", Source, true},
		{"hx", Source, true},
		{".JS", Foreign, true},
		{"mjs", Foreign, true},
		{".cjs", Foreign, true},
		{".py", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		kind, ok := KindOf(tt.ext)
		require.Equal(t, tt.ok, ok, tt.ext)
		require.Equal(t, tt.kind, kind, tt.ext)
	}
}

func TestRegistryRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), DefaultRegistryDir)
	reg, err := Open(dir)
	require.Nil(t, err)
	require.Empty(t, reg.List())

	installed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.Nil(t, reg.Add("utils", Package{Path: "/tmp/utils.hxza", InstalledAt: installed}))
	require.Nil(t, reg.Add("axios", Package{Path: "/tmp/node_modules/axios"}))
	require.Error(t, reg.Add("", Package{Path: "x"}))
	require.Nil(t, reg.Save())

	reopened, err := Open(dir)
	require.Nil(t, err)
	require.Equal(t, []string{"axios", "utils"}, reopened.Names())

	utils, ok := reopened.Lookup("utils")
	require.True(t, ok)
	require.Equal(t, Source, utils.Kind)
	require.Equal(t, ".hxza", utils.Ext)
	require.True(t, installed.Equal(utils.InstalledAt))

	axios, _ := reopened.Lookup("axios")
	require.Equal(t, Foreign, axios.Kind)
	require.False(t, axios.InstalledAt.IsZero())

	require.Nil(t, reopened.Remove("axios"))
	require.Error(t, reopened.Remove("axios"))
	require.Len(t, reopened.List(), 1)
}

func TestRegistryValidate(t *testing.T) {
	root := t.TempDir()
	present := writeFile(t, filepath.Join(root, "ok.hx"), "let x = 1")
	reg, err := Open(filepath.Join(root, DefaultRegistryDir))
	require.Nil(t, err)
	require.Nil(t, reg.Add("ok", Package{Path: present}))
	require.Nil(t, reg.Validate())

	require.Nil(t, reg.Add("gone", Package{Path: filepath.Join(root, "gone.hx")}))
	require.Nil(t, reg.Add("lost", Package{Path: filepath.Join(root, "lost.js")}))
	err = reg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), `package "gone"`)
	require.Contains(t, err.Error(), `package "lost"`)
}

func TestResolveOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "helpers.hxza"), "export func f() {}")
	writeFile(t, filepath.Join(root, "helpers.js"), "module.exports = {}")
	writeFile(t, filepath.Join(root, "lib", "index.js"), "module.exports = {}")
	writeFile(t, filepath.Join(root, "pkg", "package.json"), `{"main": "dist/main.js"}`)
	writeFile(t, filepath.Join(root, "pkg", "dist", "main.js"), "module.exports = {}")
	registered := writeFile(t, filepath.Join(root, "vendor", "shared.hx"), "let y = 2")

	reg, err := Open(filepath.Join(root, DefaultRegistryDir))
	require.Nil(t, err)
	require.Nil(t, reg.Add("shared", Package{Path: registered}))

	r := NewResolver(WithBaseDir(root), WithRegistry(reg))
	tests := []struct {
		path string
		ext  string
		want Resolved
	}{
		{"shared", "", Resolved{Path: registered, Kind: Source}},
		{"./somewhere/shared.hx", "", Resolved{Path: registered, Kind: Source}},
		{"helpers.js", "", Resolved{Path: filepath.Join(root, "helpers.js"), Kind: Foreign}},
		{"helpers", "", Resolved{Path: filepath.Join(root, "helpers.hxza"), Kind: Source}},
		{"helpers", "js", Resolved{Path: filepath.Join(root, "helpers.js"), Kind: Foreign}},
		{"lib", "", Resolved{Path: filepath.Join(root, "lib", "index.js"), Kind: Foreign}},
		{"pkg", "", Resolved{Path: filepath.Join(root, "pkg", "dist", "main.js"), Kind: Foreign}},
	}
	for _, tt := range tests {
		got, err := r.Resolve(tt.path, tt.ext)
		require.Nil(t, err, tt.path)
		require.Equal(t, tt.want, got, tt.path)
	}
}

func TestResolveErrors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "script.py"), "print(1)")
	reg, err := Open(filepath.Join(root, DefaultRegistryDir))
	require.Nil(t, err)
	require.Nil(t, reg.Add("left-pad", Package{Path: filepath.Join(root, "missing.js")}))

	r := NewResolver(WithBaseDir(root), WithRegistry(reg))
	_, err = r.Resolve("nothing", "")
	require.ErrorIs(t, err, errors.ImportError)
	require.Equal(t, `module "nothing" not found`, errors.Message(err))
	require.Equal(t, "installed packages: left-pad", err.(*errors.RuntimeError).Note)

	_, err = r.Resolve("script.py", "")
	require.ErrorIs(t, err, errors.ImportError)
	require.Contains(t, errors.Message(err), "unsupported module format")

	// An explicit extension hint decides the kind of an unknown extension.
	res, err := r.Resolve("script.py", "js")
	require.Nil(t, err)
	require.Equal(t, Foreign, res.Kind)
}

// fakeRuntime writes a shell script that stands in for the runner. The
// runtime is sh, so argv is: runner, module, function, payload.
func fakeRuntime(t *testing.T, body string) (string, func() (string, error)) {
	t.Helper()
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	script := writeFile(t, filepath.Join(t.TempDir(), "runner.sh"), body)
	return "/bin/sh", func() (string, error) { return script, nil }
}

func TestProxyInvoke(t *testing.T) {
	runtime, runner := fakeRuntime(t, `printf '{"ok":true,"result":{"fn":"%s","payload":%s}}' "$2" "$3"`)
	proxy := NewProxy("/tmp/mod.js", ProxyConfig{Runtime: runtime, Runner: runner})

	fn, ok := proxy.GetAttr("greet")
	require.True(t, ok)
	result, err := fn.(object.Callable).Call(context.Background(), object.NewString("ada"), object.NewInt(3))
	require.Nil(t, err)
	require.Equal(t, `{"fn": "greet", "payload": {"args": ["ada", 3]}}`, result.Inspect())

	result, err = proxy.Call(context.Background())
	require.Nil(t, err)
	m := result.(*object.Map)
	name, _ := m.Get("fn")
	require.Equal(t, object.NewString("default"), name)

	_, ok = proxy.GetAttr("_private")
	require.False(t, ok)
	require.Equal(t, object.PROXY, proxy.Type())
}

func TestProxyForeignError(t *testing.T) {
	runtime, runner := fakeRuntime(t, `printf '{"ok":false,"error":"boom","stack":"at f (mod.js:1)"}'`)
	proxy := NewProxy("/tmp/mod.js", ProxyConfig{Runtime: runtime, Runner: runner})
	_, err := proxy.Invoke(context.Background(), "f", nil)
	require.Error(t, err)
	require.Equal(t, "foreign error: boom", errors.Message(err))
	require.Equal(t, "at f (mod.js:1)", err.(*errors.RuntimeError).Note)
}

func TestProxyTimeout(t *testing.T) {
	runtime, runner := fakeRuntime(t, "exec sleep 5")
	proxy := NewProxy("/tmp/mod.js", ProxyConfig{Runtime: runtime, Runner: runner, Timeout: 50 * time.Millisecond})
	_, err := proxy.Invoke(context.Background(), "slow", nil)
	require.ErrorIs(t, err, errors.CallError)
	require.Contains(t, errors.Message(err), "timed out")
}

func TestProxyMissingRuntime(t *testing.T) {
	proxy := NewProxy("/tmp/mod.js", ProxyConfig{
		Runtime: "hexza-no-such-runtime",
		Runner:  func() (string, error) { return "runner.js", nil },
	})
	_, err := proxy.Invoke(context.Background(), "f", nil)
	require.ErrorIs(t, err, errors.CallError)
	require.Contains(t, errors.Message(err), "hexza-no-such-runtime not found")
}

func TestWriteRunner(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pkgs")
	path, err := WriteRunner(dir)
	require.Nil(t, err)
	data, err := os.ReadFile(path)
	require.Nil(t, err)
	require.Contains(t, string(data), "process.argv[3]")
}
