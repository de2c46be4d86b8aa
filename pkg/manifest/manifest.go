// Package manifest loads diff manifests: YAML documents describing how
// a working directory differs from a target tree. The CLI feeds the
// parsed entries to the checkout planner.
package manifest

import (
	"gopkg.in/yaml.v3"

	"github.com/revset/checkout/pkg/errors"
	"github.com/revset/checkout/pkg/types"
)

// Manifest is the on-disk shape of a diff manifest.
type Manifest struct {
	Entries []Entry `yaml:"entries"`
}

// Entry is one path's change in the manifest.
type Entry struct {
	Path   string    `yaml:"path"`
	Change string    `yaml:"change"`
	Old    *FileMeta `yaml:"old,omitempty"`
	New    *FileMeta `yaml:"new,omitempty"`
}

// FileMeta carries the content identifier and file kind for one side
// of a change.
type FileMeta struct {
	Content string `yaml:"content"`
	Type    string `yaml:"type"`
}

// Change kinds accepted in a manifest.
const (
	ChangeRemove = "remove"
	ChangeAdd    = "add"
	ChangeModify = "modify"
)

// Load parses a manifest file into diff entries.
func Load(path string, fs types.FS) ([]types.DiffEntry, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestRead, "failed to read manifest %s", path)
	}
	return Parse(data)
}

// Parse decodes manifest bytes into diff entries, validating every
// entry as it goes.
func Parse(data []byte) ([]types.DiffEntry, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestParse, "failed to parse manifest")
	}

	entries := make([]types.DiffEntry, 0, len(m.Entries))
	for i, e := range m.Entries {
		if e.Path == "" {
			return nil, errors.Newf(errors.ErrManifestParse, "entry %d has no path", i)
		}
		switch e.Change {
		case ChangeRemove:
			meta, err := fileMeta(e.Old, e.Path, "old")
			if err != nil {
				return nil, err
			}
			entries = append(entries, types.LeftOnly(e.Path, meta))
		case ChangeAdd:
			meta, err := fileMeta(e.New, e.Path, "new")
			if err != nil {
				return nil, err
			}
			entries = append(entries, types.RightOnly(e.Path, meta))
		case ChangeModify:
			oldMeta, err := fileMeta(e.Old, e.Path, "old")
			if err != nil {
				return nil, err
			}
			newMeta, err := fileMeta(e.New, e.Path, "new")
			if err != nil {
				return nil, err
			}
			entries = append(entries, types.Changed(e.Path, oldMeta, newMeta))
		default:
			return nil, errors.Newf(errors.ErrManifestParse,
				"entry %s has unknown change kind %q", e.Path, e.Change)
		}
	}
	return entries, nil
}

func fileMeta(meta *FileMeta, path, side string) (types.FileMetadata, error) {
	if meta == nil {
		return types.FileMetadata{}, errors.Newf(errors.ErrManifestParse,
			"entry %s is missing %s metadata", path, side)
	}
	fileType, err := parseFileType(meta.Type)
	if err != nil {
		return types.FileMetadata{}, errors.Wrapf(err, errors.ErrManifestParse,
			"entry %s has invalid %s metadata", path, side)
	}
	return types.FileMetadata{
		ContentID: types.ContentID(meta.Content),
		FileType:  fileType,
	}, nil
}

func parseFileType(name string) (types.FileType, error) {
	switch name {
	case "regular", "":
		return types.FileTypeRegular, nil
	case "executable":
		return types.FileTypeExecutable, nil
	case "symlink":
		return types.FileTypeSymlink, nil
	default:
		return types.FileTypeRegular, errors.Newf(errors.ErrInvalidInput, "unknown file type %q", name)
	}
}
