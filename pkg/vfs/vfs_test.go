package vfs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revset/checkout/pkg/errors"
	"github.com/revset/checkout/pkg/filesystem"
	"github.com/revset/checkout/pkg/vfs"
)

func TestWriteRegularFile(t *testing.T) {
	fs := filesystem.NewMemory()
	v := vfs.New("/work", fs)

	n, err := v.Write("dir/hello.txt", []byte("hello"), vfs.FlagNone)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	data, err := fs.ReadFile("/work/dir/hello.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	info, err := fs.Stat("/work/dir/hello.txt")
	require.NoError(t, err)
	assert.Zero(t, info.Mode()&0111, "regular file must not be executable")
}

func TestWriteExecutableFile(t *testing.T) {
	fs := filesystem.NewMemory()
	v := vfs.New("/work", fs)

	_, err := v.Write("bin/run.sh", []byte("#!/bin/sh\n"), vfs.FlagExecutable)
	require.NoError(t, err)

	info, err := fs.Stat("/work/bin/run.sh")
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0111, "executable file must have the x bit")
}

func TestWriteSymlink(t *testing.T) {
	fs := filesystem.NewMemory()
	v := vfs.New("/work", fs)

	n, err := v.Write("link", []byte("target/file"), vfs.FlagSymlink)
	require.NoError(t, err)
	assert.Equal(t, len("target/file"), n)

	target, err := fs.Readlink("/work/link")
	require.NoError(t, err)
	assert.Equal(t, "target/file", target)
}

func TestWriteOverwritesExisting(t *testing.T) {
	fs := filesystem.NewMemory()
	v := vfs.New("/work", fs)

	_, err := v.Write("f.txt", []byte("one"), vfs.FlagNone)
	require.NoError(t, err)
	_, err = v.Write("f.txt", []byte("two"), vfs.FlagExecutable)
	require.NoError(t, err)

	data, err := v.Read("f.txt")
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	info, err := fs.Stat("/work/f.txt")
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0111)
}

func TestRemove(t *testing.T) {
	fs := filesystem.NewMemory()
	v := vfs.New("/work", fs)

	_, err := v.Write("gone.txt", []byte("x"), vfs.FlagNone)
	require.NoError(t, err)

	require.NoError(t, v.Remove("gone.txt"))
	_, err = fs.Stat("/work/gone.txt")
	assert.Error(t, err)
}

func TestRemoveMissingIsNotAnError(t *testing.T) {
	v := vfs.New("/work", filesystem.NewMemory())
	assert.NoError(t, v.Remove("never-existed.txt"))
}

func TestSetExecutable(t *testing.T) {
	fs := filesystem.NewMemory()
	v := vfs.New("/work", fs)

	_, err := v.Write("tool", []byte("bits"), vfs.FlagNone)
	require.NoError(t, err)

	require.NoError(t, v.SetExecutable("tool", true))
	info, err := fs.Stat("/work/tool")
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0111)

	require.NoError(t, v.SetExecutable("tool", false))
	info, err = fs.Stat("/work/tool")
	require.NoError(t, err)
	assert.Zero(t, info.Mode()&0111)
}

func TestAuditRejectsEscapingPaths(t *testing.T) {
	v := vfs.New("/work", filesystem.NewMemory())

	tests := []struct {
		name string
		path string
	}{
		{"absolute", "/etc/passwd"},
		{"parent traversal", "../outside.txt"},
		{"nested traversal", "dir/../../outside.txt"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Write(tt.path, []byte("x"), vfs.FlagNone)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrPathEscapes))

			assert.Error(t, v.Remove(tt.path))
			assert.Error(t, v.SetExecutable(tt.path, true))
		})
	}
}

func TestCloneSharesAuditorCache(t *testing.T) {
	v := vfs.New("/work", filesystem.NewMemory())
	clone := v.Clone()

	_, err := v.Write("shared.txt", []byte("x"), vfs.FlagNone)
	require.NoError(t, err)

	// The clone mutates the same tree and audits through the same cache.
	require.NoError(t, clone.SetExecutable("shared.txt", true))
	require.NoError(t, clone.Remove("shared.txt"))
}

func TestPathAuditorCaches(t *testing.T) {
	a := vfs.NewPathAuditor()
	require.NoError(t, a.Audit("a/b/c.txt"))
	require.NoError(t, a.Audit("a/b/c.txt"))
	assert.Error(t, a.Audit("../escape"))
}
