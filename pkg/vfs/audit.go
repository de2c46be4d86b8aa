package vfs

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/revset/checkout/pkg/errors"
)

// PathAuditor validates that repo-relative paths stay inside the
// working directory root. Validation results are cached; the cache is
// shared by reference across all VFS clones.
type PathAuditor struct {
	cache sync.Map // path -> struct{}
}

// NewPathAuditor creates an empty auditor.
func NewPathAuditor() *PathAuditor {
	return &PathAuditor{}
}

// Audit checks that path is a clean, relative path that cannot escape
// the root. Valid paths are cached so repeated checks are cheap.
func (a *PathAuditor) Audit(path string) error {
	if _, ok := a.cache.Load(path); ok {
		return nil
	}
	if err := auditPath(path); err != nil {
		return err
	}
	a.cache.Store(path, struct{}{})
	return nil
}

func auditPath(path string) error {
	if path == "" {
		return errors.New(errors.ErrPathEscapes, "empty path")
	}
	if filepath.IsAbs(path) {
		return errors.Newf(errors.ErrPathEscapes, "absolute path not allowed: %s", path)
	}
	clean := filepath.ToSlash(filepath.Clean(path))
	if clean != filepath.ToSlash(path) {
		return errors.Newf(errors.ErrPathEscapes, "path is not clean: %s", path)
	}
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return errors.Newf(errors.ErrPathEscapes, "path escapes working directory: %s", path)
	}
	return nil
}
