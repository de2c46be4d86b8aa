// Package vfs provides the working-directory abstraction used by the
// checkout engine.
//
// A VFS is a handle onto a working directory rooted at a single path.
// Handles are cheap to clone and safe to use from concurrent workers:
// clones share the underlying path-audit cache rather than copying it,
// so a path validated by one worker is validated for all of them.
package vfs
