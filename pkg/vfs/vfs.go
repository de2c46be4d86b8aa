package vfs

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/revset/checkout/pkg/errors"
	"github.com/revset/checkout/pkg/types"
)

// UpdateFlag tells Write what kind of file it is materializing.
type UpdateFlag int

const (
	// FlagNone writes a plain, non-executable file.
	FlagNone UpdateFlag = iota
	// FlagExecutable writes a plain file with the executable bit set.
	FlagExecutable
	// FlagSymlink creates a symlink whose target is the file content.
	FlagSymlink
)

const (
	regularPerm    fs.FileMode = 0644
	executablePerm fs.FileMode = 0755
)

// VFS is a handle onto a working directory. The zero value is not
// usable; construct with New. Copies made with Clone share the auditor
// cache, which is the intended way to hand the mutator to workers.
type VFS struct {
	root    string
	fs      types.FS
	auditor *PathAuditor
}

// New creates a VFS rooted at root on the given filesystem.
func New(root string, filesystem types.FS) *VFS {
	return &VFS{
		root:    root,
		fs:      filesystem,
		auditor: NewPathAuditor(),
	}
}

// Clone returns a handle sharing the root, filesystem and auditor
// cache. Cloning is cheap; workers each take a clone.
func (v *VFS) Clone() *VFS {
	clone := *v
	return &clone
}

// Root returns the working directory root.
func (v *VFS) Root() string {
	return v.root
}

// Join resolves a repo-relative path against the root.
func (v *VFS) Join(path string) string {
	return filepath.Join(v.root, filepath.FromSlash(path))
}

// Write materializes data at path, creating parent directories as
// needed. The returned count is the number of bytes written.
func (v *VFS) Write(path string, data []byte, flag UpdateFlag) (int, error) {
	if err := v.auditor.Audit(path); err != nil {
		return 0, err
	}
	full := v.Join(path)
	if err := v.fs.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return 0, errors.Wrapf(err, errors.ErrDirCreate, "failed to create parent directory for %s", path)
	}

	if flag == FlagSymlink {
		// Replace whatever currently occupies the path; Symlink does
		// not overwrite.
		if err := v.fs.Remove(full); err != nil && !os.IsNotExist(err) {
			return 0, errors.Wrapf(err, errors.ErrFileWrite, "failed to replace %s with symlink", path)
		}
		if err := v.fs.Symlink(string(data), full); err != nil {
			return 0, errors.Wrapf(err, errors.ErrFileWrite, "failed to create symlink %s", path)
		}
		return len(data), nil
	}

	perm := regularPerm
	if flag == FlagExecutable {
		perm = executablePerm
	}
	if err := v.fs.WriteFile(full, data, perm); err != nil {
		return 0, errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
	}
	// WriteFile leaves the mode untouched when the file already exists,
	// so enforce it.
	if err := v.fs.Chmod(full, perm); err != nil {
		return 0, errors.Wrapf(err, errors.ErrFileWrite, "failed to set mode on %s", path)
	}
	return len(data), nil
}

// Remove deletes the file at path. Removing a path that does not exist
// is not an error.
func (v *VFS) Remove(path string) error {
	if err := v.auditor.Audit(path); err != nil {
		return err
	}
	if err := v.fs.Remove(v.Join(path)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrFileRemove, "failed to remove %s", path)
	}
	return nil
}

// SetExecutable flips the executable bit on an existing file.
func (v *VFS) SetExecutable(path string, executable bool) error {
	if err := v.auditor.Audit(path); err != nil {
		return err
	}
	perm := regularPerm
	if executable {
		perm = executablePerm
	}
	if err := v.fs.Chmod(v.Join(path), perm); err != nil {
		return errors.Wrapf(err, errors.ErrSetExec, "failed to set executable=%v on %s", executable, path)
	}
	return nil
}

// Read returns the content of the file at path. Used by tests and the
// round-trip differ, not by the engine itself.
func (v *VFS) Read(path string) ([]byte, error) {
	if err := v.auditor.Audit(path); err != nil {
		return nil, err
	}
	return v.fs.ReadFile(v.Join(path))
}
