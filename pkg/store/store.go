// Package store provides content-addressed blob stores used by the
// checkout engine to resolve content identifiers to file bytes.
//
// Stores implement bulk fetch: given an ordered list of keys they
// return one result per key, in the same order. The checkout engine
// relies on that positional contract when pairing results with plan
// actions, so every implementation and wrapper in this package must
// preserve request order.
package store

import (
	"github.com/revset/checkout/pkg/types"
)

// DataStore resolves content identifiers to bytes.
type DataStore interface {
	// Fetch resolves each key and returns one result per key, in
	// request order. A missing blob is reported as a not-found result,
	// not an error; errors are reserved for store-level failures.
	Fetch(keys []types.Key) ([]types.FetchResult, error)
}

// RemoteDataStore is a DataStore that can warm its cache with a bulk
// prefetch hint before individual keys are resolved.
type RemoteDataStore interface {
	DataStore

	// Prefetch hints the store that keys are about to be fetched.
	Prefetch(keys []types.Key) error
}
