package store

import (
	"sync"

	"github.com/revset/checkout/pkg/types"
)

// RemoteStore fronts an upstream store with a prefetch cache. Prefetch
// pulls blobs from the upstream in one round trip; Fetch then serves
// them from memory, falling back to the upstream for anything the
// prefetch did not cover.
type RemoteStore struct {
	upstream DataStore

	mu    sync.Mutex
	cache map[types.ContentID][]byte
}

// NewRemoteStore creates a prefetching store over upstream.
func NewRemoteStore(upstream DataStore) *RemoteStore {
	return &RemoteStore{
		upstream: upstream,
		cache:    make(map[types.ContentID][]byte),
	}
}

// Prefetch warms the cache for keys. Keys the upstream does not hold
// are left uncached; the later Fetch reports them not found.
func (s *RemoteStore) Prefetch(keys []types.Key) error {
	missing := make([]types.Key, 0, len(keys))
	s.mu.Lock()
	for _, key := range keys {
		if _, ok := s.cache[key.ContentID]; !ok {
			missing = append(missing, key)
		}
	}
	s.mu.Unlock()
	if len(missing) == 0 {
		return nil
	}

	results, err := s.upstream.Fetch(missing)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range results {
		if r.Found {
			s.cache[r.Key.ContentID] = r.Data
		}
	}
	return nil
}

// Fetch resolves each key from the cache, falling back to the upstream
// for cache misses. Request order is preserved.
func (s *RemoteStore) Fetch(keys []types.Key) ([]types.FetchResult, error) {
	results := make([]types.FetchResult, len(keys))
	var missing []types.Key
	var missingIdx []int

	s.mu.Lock()
	for i, key := range keys {
		if data, ok := s.cache[key.ContentID]; ok {
			results[i] = types.FetchResult{Key: key, Found: true, Data: data}
		} else {
			missing = append(missing, key)
			missingIdx = append(missingIdx, i)
		}
	}
	s.mu.Unlock()

	if len(missing) > 0 {
		fetched, err := s.upstream.Fetch(missing)
		if err != nil {
			return nil, err
		}
		for j, r := range fetched {
			results[missingIdx[j]] = r
		}
	}
	return results, nil
}
