// Package utils holds small path-resolution helpers shared by the VM's
// module loader and the CLI, grounded on the teacher's
// internal/utils/path_utils.go (ResolveImportPath / ExtractModuleName /
// GetModuleDir) and widened per the module-resolution rules.
package utils

import (
	"path/filepath"
	"strings"

	"github.com/nxlang/nx/internal/config"
)

// ResolveImportCandidate computes the file path to load for an import
// directive (name, optional explicit path) issued from a module whose
// source file lives in baseDir:
//  1. name-only: candidate = baseDir/name.<ext>
//  2. explicit relative path: candidate = baseDir/path.<ext>; if that file
//     doesn't exist, path is treated as absolute and used as-is.
//
// Path components are normalized to the platform separator with
// consecutive separators collapsed, and a leading separator on the second
// joined component is stripped before joining (so "./sub//mod" and
// "sub/mod" resolve identically).
func ResolveImportCandidate(baseDir, name, path string, exists func(string) bool) string {
	rel := path
	if rel == "" {
		rel = name
	}
	rel = normalizeSeparators(rel)
	rel = strings.TrimLeft(rel, string(filepath.Separator))

	candidate := withSourceExt(filepath.Join(baseDir, rel))
	if path == "" || exists(candidate) {
		return candidate
	}

	abs := withSourceExt(rel)
	if filepath.IsAbs(path) && exists(abs) {
		return abs
	}
	return candidate
}

func normalizeSeparators(p string) string {
	p = strings.ReplaceAll(p, "/", string(filepath.Separator))
	p = strings.ReplaceAll(p, "\\", string(filepath.Separator))
	for strings.Contains(p, string(filepath.Separator)+string(filepath.Separator)) {
		p = strings.ReplaceAll(p, string(filepath.Separator)+string(filepath.Separator), string(filepath.Separator))
	}
	return p
}

func withSourceExt(p string) string {
	if config.HasSourceExt(p) {
		return p
	}
	return p + config.SourceFileExt
}

// JoinPath joins two path fragments the way a filesystem path is composed at
// runtime (as opposed to ResolveImportCandidate's source-module resolution):
// both sides are normalized to the platform separator, any leading
// separator on b is stripped so b never looks absolute once joined, and the
// two are joined with exactly one separator.
func JoinPath(a, b string) string {
	a = normalizeSeparators(a)
	b = normalizeSeparators(b)
	b = strings.TrimLeft(b, string(filepath.Separator))
	if a == "" {
		return b
	}
	if strings.HasSuffix(a, string(filepath.Separator)) {
		return a + b
	}
	return a + string(filepath.Separator) + b
}

// ExtractModuleName derives a module's registry key from its file path:
// the base filename with any recognized source extension stripped.
func ExtractModuleName(path string) string {
	return config.TrimSourceExt(filepath.Base(path))
}

// GetModuleDir returns the directory a module's own relative imports
// resolve against.
func GetModuleDir(path string) string {
	if config.HasSourceExt(path) {
		return filepath.Dir(path)
	}
	return path
}
