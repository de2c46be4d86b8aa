package types

import (
	"fmt"
)

// FileType describes the kind of a file tracked in a tree snapshot.
type FileType int

const (
	// FileTypeRegular is a plain file without the executable bit.
	FileTypeRegular FileType = iota
	// FileTypeExecutable is a plain file with the executable bit set.
	FileTypeExecutable
	// FileTypeSymlink is a symbolic link whose content is the link target.
	FileTypeSymlink
)

// String returns a human-readable name for the file type.
func (t FileType) String() string {
	switch t {
	case FileTypeRegular:
		return "regular"
	case FileTypeExecutable:
		return "executable"
	case FileTypeSymlink:
		return "symlink"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// ContentID is an opaque, content-derived identifier resolving a file's
// bytes in a content-addressed store.
type ContentID string

// String implements fmt.Stringer.
func (c ContentID) String() string {
	return string(c)
}

// FileMetadata is the per-file information carried by a tree snapshot:
// what the content is and what kind of file holds it.
type FileMetadata struct {
	ContentID ContentID
	FileType  FileType
}

// DiffKind classifies how a path differs between two tree snapshots.
type DiffKind int

const (
	// DiffLeftOnly means the path exists only in the left (current) tree.
	DiffLeftOnly DiffKind = iota
	// DiffRightOnly means the path exists only in the right (target) tree.
	DiffRightOnly
	// DiffChanged means the path exists in both trees with differing
	// metadata.
	DiffChanged
)

// DiffEntry is one path's classification between two tree snapshots.
// Left is populated for DiffLeftOnly and DiffChanged; Right for
// DiffRightOnly and DiffChanged.
type DiffEntry struct {
	Path  string
	Kind  DiffKind
	Left  FileMetadata
	Right FileMetadata
}

// LeftOnly builds a diff entry for a path present only in the left tree.
func LeftOnly(path string, meta FileMetadata) DiffEntry {
	return DiffEntry{Path: path, Kind: DiffLeftOnly, Left: meta}
}

// RightOnly builds a diff entry for a path present only in the right tree.
func RightOnly(path string, meta FileMetadata) DiffEntry {
	return DiffEntry{Path: path, Kind: DiffRightOnly, Right: meta}
}

// Changed builds a diff entry for a path present in both trees.
func Changed(path string, old, new FileMetadata) DiffEntry {
	return DiffEntry{Path: path, Kind: DiffChanged, Left: old, Right: new}
}

// Key identifies one blob fetch: the path it is destined for plus the
// content identifier resolving its bytes.
type Key struct {
	Path      string
	ContentID ContentID
}

// String implements fmt.Stringer.
func (k Key) String() string {
	return fmt.Sprintf("%s@%s", k.Path, k.ContentID)
}

// FetchResult is one outcome of a bulk fetch. Key echoes the requested
// key so callers can detect a store that violated request order. Found
// is false when the store does not hold the content; Data is only valid
// when Found is true.
type FetchResult struct {
	Key   Key
	Found bool
	Data  []byte
}
