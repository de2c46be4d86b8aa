package store

import (
	"os"
	"path/filepath"

	"github.com/revset/checkout/pkg/errors"
	"github.com/revset/checkout/pkg/types"
)

// LocalStore is a content-addressed blob store laid out under a single
// directory: each blob lives at <root>/<id[:2]>/<id[2:]>.
type LocalStore struct {
	root string
	fs   types.FS
}

// NewLocalStore creates a store over the blob directory at root.
func NewLocalStore(root string, filesystem types.FS) *LocalStore {
	return &LocalStore{root: root, fs: filesystem}
}

// Fetch resolves each key against the blob directory, preserving
// request order.
func (s *LocalStore) Fetch(keys []types.Key) ([]types.FetchResult, error) {
	results := make([]types.FetchResult, 0, len(keys))
	for _, key := range keys {
		data, err := s.fs.ReadFile(s.blobPath(key.ContentID))
		if err != nil {
			if os.IsNotExist(err) {
				results = append(results, types.FetchResult{Key: key, Found: false})
				continue
			}
			return nil, errors.Wrapf(err, errors.ErrFetch, "failed to read blob %s", key.ContentID)
		}
		results = append(results, types.FetchResult{Key: key, Found: true, Data: data})
	}
	return results, nil
}

// Put stores data under id. Used to populate stores in tests and by
// tooling; the engine itself never writes blobs.
func (s *LocalStore) Put(id types.ContentID, data []byte) error {
	path := s.blobPath(id)
	if err := s.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create blob directory for %s", id)
	}
	if err := s.fs.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write blob %s", id)
	}
	return nil
}

func (s *LocalStore) blobPath(id types.ContentID) string {
	name := string(id)
	if len(name) <= 2 {
		return filepath.Join(s.root, name)
	}
	return filepath.Join(s.root, name[:2], name[2:])
}
