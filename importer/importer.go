// Package importer resolves import paths to module files, keeps the local
// package registry and proxies calls into foreign (JavaScript) modules.
package importer

import (
	"path/filepath"
	"strings"
)

// Kind says how a resolved module is loaded.
type Kind string

const (
	// Source modules are Hexza files that are parsed and evaluated.
	Source Kind = "source"
	// Foreign modules are JavaScript files called through a proxy.
	Foreign Kind = "foreign"
)

// Resolved is the outcome of resolving an import path.
type Resolved struct {
	Path string
	Kind Kind
}

var (
	// SourceExtensions lists the extensions of Hexza source modules.
	SourceExtensions = []string{".hxza", ".hx"}
	// ForeignExtensions lists the extensions of JavaScript modules.
	ForeignExtensions = []string{".js", ".mjs", ".cjs"}
)

// KindOf returns the module kind for a file extension. The leading dot is
// optional.
func KindOf(ext string) (Kind, bool) {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	for _, e := range SourceExtensions {
		if e == ext {
			return Source, true
		}
	}
	for _, e := range ForeignExtensions {
		if e == ext {
			return Foreign, true
		}
	}
	return "", false
}

// KindOfPath returns the module kind for the extension of path.
func KindOfPath(path string) (Kind, bool) {
	return KindOf(filepath.Ext(path))
}

func knownExtensions() []string {
	exts := make([]string, 0, len(SourceExtensions)+len(ForeignExtensions))
	exts = append(exts, SourceExtensions...)
	return append(exts, ForeignExtensions...)
}
