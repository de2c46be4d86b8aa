package checkout

import (
	"github.com/revset/checkout/pkg/errors"
	"github.com/revset/checkout/pkg/logging"
	"github.com/revset/checkout/pkg/store"
	"github.com/revset/checkout/pkg/types"
	"github.com/revset/checkout/pkg/vfs"
)

// DefaultParallelism is the default bounded-concurrency window: at
// most this many filesystem operations are in flight per phase.
// Filesystem mutation blocks; uncapped dispatch exhausts descriptors
// while serial dispatch wastes I/O concurrency.
const DefaultParallelism = 16

// ProgressFunc reports aggregate progress: done actions out of total.
// It is called from concurrent workers and must be safe for that.
type ProgressFunc func(done, total int64)

// fetchFunc resolves an ordered key list to positionally-aligned
// results.
type fetchFunc func(keys []types.Key) ([]types.FetchResult, error)

// Executor applies plans to a working directory. The VFS handle is
// cloned per worker; clones share the path-audit cache.
type Executor struct {
	vfs         *vfs.VFS
	parallelism int
	progress    ProgressFunc
}

// NewExecutor creates an executor over the given working directory.
// A non-positive parallelism selects DefaultParallelism.
func NewExecutor(v *vfs.VFS, parallelism int) *Executor {
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}
	return &Executor{vfs: v, parallelism: parallelism}
}

// WithProgress sets a progress callback invoked after each completed
// action.
func (e *Executor) WithProgress(fn ProgressFunc) *Executor {
	e.progress = fn
	return e
}

// Apply applies the plan, resolving content through a local store's
// bulk fetch. Stats are returned only if every action succeeded.
func (e *Executor) Apply(plan *Plan, s store.DataStore) (Stats, error) {
	return e.applyStream(plan, s.Fetch)
}

// ApplyRemote applies the plan against a remote store, issuing a bulk
// prefetch hint for all content keys before resolving them.
func (e *Executor) ApplyRemote(plan *Plan, s store.RemoteDataStore) (Stats, error) {
	return e.applyStream(plan, func(keys []types.Key) ([]types.FetchResult, error) {
		if err := s.Prefetch(keys); err != nil {
			return nil, errors.Wrap(err, errors.ErrFetch, "prefetch failed")
		}
		return s.Fetch(keys)
	})
}

// applyStream runs the plan in two sequenced stages: removals drain
// completely first, then content writes and metadata updates run
// concurrently with each other. The first error aborts the operation;
// no stats are returned on any error path. Work already dispatched
// when the error surfaces may still finish in the background, but its
// results are ignored.
func (e *Executor) applyStream(plan *Plan, fetch fetchFunc) (Stats, error) {
	logger := logging.GetLogger("checkout.executor").With().
		Int("remove", len(plan.remove)).
		Int("update_content", len(plan.updateContent)).
		Int("update_meta", len(plan.updateMeta)).
		Int("parallelism", e.parallelism).
		Logger()

	if !plan.consume() {
		return Stats{}, errors.New(errors.ErrPlanInvalid, "plan has already been applied")
	}

	stats := &counters{}
	total := int64(plan.ActionCount())
	done := logging.LogOperationStart(logger, "apply")
	defer done()

	// Stage A: removals drain before any update starts.
	if err := e.runRemovals(plan, stats, total); err != nil {
		logger.Error().Err(err).Msg("Removal stage failed")
		return Stats{}, err
	}

	// Stage B: the two sub-stages run concurrently; the first error
	// short-circuits the join.
	contentDone := make(chan error, 1)
	metaDone := make(chan error, 1)
	go func() { contentDone <- e.runContentUpdates(plan, fetch, stats, total) }()
	go func() { metaDone <- e.runMetaUpdates(plan, stats, total) }()

	for i := 0; i < 2; i++ {
		select {
		case err := <-contentDone:
			if err != nil {
				logger.Error().Err(err).Msg("Content stage failed")
				return Stats{}, err
			}
			contentDone = nil
		case err := <-metaDone:
			if err != nil {
				logger.Error().Err(err).Msg("Metadata stage failed")
				return Stats{}, err
			}
			metaDone = nil
		}
	}

	// Both sub-stage channels delivered nil, which means every worker
	// pool was joined. The counters can no longer be written; snapshot
	// them as the result.
	result := stats.snapshot()
	logger.Info().
		Int64("removed", result.Removed).
		Int64("updated", result.Updated).
		Int64("meta_updated", result.MetaUpdated).
		Int64("written_bytes", result.WrittenBytes).
		Msg("Checkout applied")
	return result, nil
}

// runRemovals dispatches all removal actions through the bounded
// window and drains them.
func (e *Executor) runRemovals(plan *Plan, stats *counters, total int64) error {
	pool := newWorkerPool(e.parallelism)
	handle := e.vfs.Clone()
	for _, action := range plan.remove {
		path := action.Path
		ok := pool.dispatch(func() error {
			// One offloaded unit per action: the removal and its
			// counter update happen together.
			if err := handle.Remove(path); err != nil {
				return err
			}
			stats.removed.Add(1)
			e.reportProgress(stats, total)
			return nil
		})
		if !ok {
			break
		}
	}
	return pool.wait()
}

// runContentUpdates issues one bulk fetch for all content keys, pairs
// each result with its action, and writes through the bounded window.
// A not-found result is a hard failure; so is a result whose key does
// not match the request at that position, which would otherwise land
// the wrong bytes at the wrong path.
func (e *Executor) runContentUpdates(plan *Plan, fetch fetchFunc, stats *counters, total int64) error {
	if len(plan.updateContent) == 0 {
		return nil
	}

	keys := plan.contentKeys()
	results, err := fetch(keys)
	if err != nil {
		return errors.Wrap(err, errors.ErrFetch, "content fetch failed")
	}
	if len(results) != len(keys) {
		return errors.Newf(errors.ErrFetchOrder,
			"store returned %d results for %d keys", len(results), len(keys))
	}

	pool := newWorkerPool(e.parallelism)
	handle := e.vfs.Clone()
	for i, action := range plan.updateContent {
		result := results[i]
		if result.Key != keys[i] {
			pool.fail(errors.Newf(errors.ErrFetchOrder,
				"store reordered results: wanted %s at position %d, got %s",
				keys[i], i, result.Key))
			break
		}
		if !result.Found {
			pool.fail(errors.Newf(errors.ErrNotFound,
				"content %s for %s not found in store", action.ContentID, action.Path))
			break
		}

		action := action
		data := result.Data
		ok := pool.dispatch(func() error {
			flag := updateFlagFor(action.FileType)
			n, err := handle.Write(action.Path, data, flag)
			if err != nil {
				return err
			}
			stats.updated.Add(1)
			stats.writtenBytes.Add(int64(n))
			e.reportProgress(stats, total)
			return nil
		})
		if !ok {
			break
		}
	}
	return pool.wait()
}

// runMetaUpdates flips executable bits through the bounded window.
func (e *Executor) runMetaUpdates(plan *Plan, stats *counters, total int64) error {
	if len(plan.updateMeta) == 0 {
		return nil
	}

	pool := newWorkerPool(e.parallelism)
	handle := e.vfs.Clone()
	for _, action := range plan.updateMeta {
		action := action
		ok := pool.dispatch(func() error {
			if err := handle.SetExecutable(action.Path, action.SetExecutable); err != nil {
				return err
			}
			stats.metaUpdated.Add(1)
			e.reportProgress(stats, total)
			return nil
		})
		if !ok {
			break
		}
	}
	return pool.wait()
}

func (e *Executor) reportProgress(stats *counters, total int64) {
	if e.progress == nil {
		return
	}
	e.progress(stats.done.Add(1), total)
}

// updateFlagFor maps a file kind to the write flag the mutator
// expects: none for regular files, executable or symlink otherwise.
func updateFlagFor(t types.FileType) vfs.UpdateFlag {
	switch t {
	case types.FileTypeExecutable:
		return vfs.FlagExecutable
	case types.FileTypeSymlink:
		return vfs.FlagSymlink
	default:
		return vfs.FlagNone
	}
}
