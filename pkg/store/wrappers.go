package store

import (
	"sync/atomic"
	"time"

	"github.com/revset/checkout/pkg/errors"
	"github.com/revset/checkout/pkg/logging"
	"github.com/revset/checkout/pkg/types"
)

// LoggedStore logs every bulk fetch passing through it.
type LoggedStore struct {
	inner DataStore
	name  string
}

// NewLoggedStore wraps inner, tagging log lines with name.
func NewLoggedStore(inner DataStore, name string) *LoggedStore {
	return &LoggedStore{inner: inner, name: name}
}

func (s *LoggedStore) Fetch(keys []types.Key) ([]types.FetchResult, error) {
	logger := logging.GetLogger("store.logged")
	start := time.Now()
	results, err := s.inner.Fetch(keys)
	if err != nil {
		logger.Error().
			Str("store", s.name).
			Int("keys", len(keys)).
			Err(err).
			Msg("Fetch failed")
		return nil, err
	}
	found := 0
	for _, r := range results {
		if r.Found {
			found++
		}
	}
	logger.Debug().
		Str("store", s.name).
		Int("keys", len(keys)).
		Int("found", found).
		Dur("duration", time.Since(start)).
		Msg("Fetch completed")
	return results, nil
}

// CountedStore counts fetches, hits, misses and bytes served. Counters
// use atomics so the wrapper is safe to share across workers.
type CountedStore struct {
	inner   DataStore
	fetches int64
	hits    int64
	misses  int64
	bytes   int64
}

// NewCountedStore wraps inner with counting.
func NewCountedStore(inner DataStore) *CountedStore {
	return &CountedStore{inner: inner}
}

func (s *CountedStore) Fetch(keys []types.Key) ([]types.FetchResult, error) {
	atomic.AddInt64(&s.fetches, 1)
	results, err := s.inner.Fetch(keys)
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		if r.Found {
			atomic.AddInt64(&s.hits, 1)
			atomic.AddInt64(&s.bytes, int64(len(r.Data)))
		} else {
			atomic.AddInt64(&s.misses, 1)
		}
	}
	return results, nil
}

// Fetches returns the number of bulk fetches issued.
func (s *CountedStore) Fetches() int64 { return atomic.LoadInt64(&s.fetches) }

// Hits returns the number of keys resolved successfully.
func (s *CountedStore) Hits() int64 { return atomic.LoadInt64(&s.hits) }

// Misses returns the number of keys not found.
func (s *CountedStore) Misses() int64 { return atomic.LoadInt64(&s.misses) }

// Bytes returns the total bytes served.
func (s *CountedStore) Bytes() int64 { return atomic.LoadInt64(&s.bytes) }

// DisabledStore fails all operations with a reason. Primarily used as
// a placeholder for administratively disabled stores.
type DisabledStore struct {
	reason string
}

// NewDisabledStore creates a store that rejects every fetch.
func NewDisabledStore(reason string) *DisabledStore {
	return &DisabledStore{reason: reason}
}

func (s *DisabledStore) Fetch(keys []types.Key) ([]types.FetchResult, error) {
	return nil, errors.Newf(errors.ErrStoreDisabled, "store disabled: %s", s.reason)
}

// RetryStore retries failed bulk fetches a bounded number of times
// with a fixed delay between attempts. Not-found results are not
// retried; only store-level errors are.
type RetryStore struct {
	inner    DataStore
	attempts int
	delay    time.Duration
}

// NewRetryStore wraps inner with up to attempts tries per fetch.
func NewRetryStore(inner DataStore, attempts int, delay time.Duration) *RetryStore {
	if attempts < 1 {
		attempts = 1
	}
	return &RetryStore{inner: inner, attempts: attempts, delay: delay}
}

func (s *RetryStore) Fetch(keys []types.Key) ([]types.FetchResult, error) {
	logger := logging.GetLogger("store.retry")
	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		results, err := s.inner.Fetch(keys)
		if err == nil {
			return results, nil
		}
		lastErr = err
		if attempt < s.attempts {
			logger.Warn().
				Int("attempt", attempt).
				Int("max_attempts", s.attempts).
				Err(err).
				Msg("Fetch failed, retrying")
			time.Sleep(s.delay)
		}
	}
	return nil, lastErr
}
