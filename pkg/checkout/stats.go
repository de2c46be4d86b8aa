package checkout

import (
	"fmt"
	"sync/atomic"
)

// Stats summarizes a fully completed checkout. It is a plain snapshot:
// the executor only produces one after every worker has been joined.
type Stats struct {
	// Removed is the number of files deleted.
	Removed int64
	// Updated is the number of files whose content was written.
	Updated int64
	// MetaUpdated is the number of files whose executable bit was
	// flipped without rewriting content.
	MetaUpdated int64
	// WrittenBytes is the total bytes written by content updates.
	WrittenBytes int64
}

// String returns a one-line summary.
func (s Stats) String() string {
	return fmt.Sprintf("removed=%d updated=%d meta_updated=%d written_bytes=%d",
		s.Removed, s.Updated, s.MetaUpdated, s.WrittenBytes)
}

// counters is the shared working set incremented by concurrent
// workers. Increments happen only after the underlying filesystem
// operation succeeded.
type counters struct {
	removed      atomic.Int64
	updated      atomic.Int64
	metaUpdated  atomic.Int64
	writtenBytes atomic.Int64
	done         atomic.Int64
}

// snapshot reads the counters into a Stats value. Callers must have
// joined all workers first; the executor's stage joins are that
// barrier.
func (c *counters) snapshot() Stats {
	return Stats{
		Removed:      c.removed.Load(),
		Updated:      c.updated.Load(),
		MetaUpdated:  c.metaUpdated.Load(),
		WrittenBytes: c.writtenBytes.Load(),
	}
}
