package checkout

import (
	"sync/atomic"

	"github.com/revset/checkout/pkg/errors"
	"github.com/revset/checkout/pkg/types"
)

// RemoveAction deletes the file at Path.
type RemoveAction struct {
	Path string
}

// UpdateContentAction writes new content (and possibly new metadata)
// to the file at Path.
type UpdateContentAction struct {
	Path      string
	ContentID types.ContentID
	FileType  types.FileType
}

// UpdateMetaAction only flips the executable bit on the file at Path;
// content is untouched.
type UpdateMetaAction struct {
	Path          string
	SetExecutable bool
}

// Action is the single filesystem action derived from one diff entry.
// Exactly one of the three concrete types implements it per entry.
type Action interface {
	actionPath() string
}

func (a RemoveAction) actionPath() string        { return a.Path }
func (a UpdateContentAction) actionPath() string { return a.Path }
func (a UpdateMetaAction) actionPath() string    { return a.Path }

// ClassifyEntry turns one diff entry into its action. Every entry
// produces exactly one action:
//
//   - left-only paths are removed
//   - right-only paths get their content written
//   - changed paths with identical content where only the executable
//     bit toggles get a metadata-only update
//   - every other change rewrites content from the right-side metadata
//
// A pure permission flip never re-fetches content; that is the whole
// point of the metadata-only class.
func ClassifyEntry(entry types.DiffEntry) Action {
	switch entry.Kind {
	case types.DiffLeftOnly:
		return RemoveAction{Path: entry.Path}
	case types.DiffRightOnly:
		return UpdateContentAction{
			Path:      entry.Path,
			ContentID: entry.Right.ContentID,
			FileType:  entry.Right.FileType,
		}
	default:
		oldMeta, newMeta := entry.Left, entry.Right
		if oldMeta.ContentID == newMeta.ContentID {
			if oldMeta.FileType == types.FileTypeExecutable && newMeta.FileType == types.FileTypeRegular {
				return UpdateMetaAction{Path: entry.Path, SetExecutable: false}
			}
			if oldMeta.FileType == types.FileTypeRegular && newMeta.FileType == types.FileTypeExecutable {
				return UpdateMetaAction{Path: entry.Path, SetExecutable: true}
			}
		}
		return UpdateContentAction{
			Path:      entry.Path,
			ContentID: newMeta.ContentID,
			FileType:  newMeta.FileType,
		}
	}
}

// DiffSource produces a finite sequence of diff entries. The sequence
// may fail mid-iteration, in which case plan building aborts.
type DiffSource interface {
	// Next returns the next entry. ok is false once the sequence is
	// exhausted; a non-nil error aborts iteration.
	Next() (entry types.DiffEntry, ok bool, err error)
}

// sliceDiffSource adapts an in-memory slice to DiffSource.
type sliceDiffSource struct {
	entries []types.DiffEntry
	pos     int
}

// NewSliceDiffSource wraps entries as a DiffSource.
func NewSliceDiffSource(entries []types.DiffEntry) DiffSource {
	return &sliceDiffSource{entries: entries}
}

func (s *sliceDiffSource) Next() (types.DiffEntry, bool, error) {
	if s.pos >= len(s.entries) {
		return types.DiffEntry{}, false, nil
	}
	entry := s.entries[s.pos]
	s.pos++
	return entry, true, nil
}

// Plan is the classified form of a whole diff: which paths to remove,
// which to rewrite, and which only need their executable bit flipped.
// A plan is built once and applied at most once.
type Plan struct {
	remove        []RemoveAction
	updateContent []UpdateContentAction
	updateMeta    []UpdateMetaAction

	applied atomic.Bool
}

// FromDiff classifies every entry of the diff into a plan. Each path
// may appear at most once across the whole diff; a duplicate means the
// differ misbehaved and is rejected rather than risking two concurrent
// workers mutating the same file.
func FromDiff(diff DiffSource) (*Plan, error) {
	plan := &Plan{}
	seen := make(map[string]struct{})
	for {
		entry, ok, err := diff.Next()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrDiffRead, "diff source failed")
		}
		if !ok {
			break
		}
		if _, dup := seen[entry.Path]; dup {
			return nil, errors.Newf(errors.ErrPlanInvalid, "duplicate path in diff: %s", entry.Path)
		}
		seen[entry.Path] = struct{}{}

		switch action := ClassifyEntry(entry).(type) {
		case RemoveAction:
			plan.remove = append(plan.remove, action)
		case UpdateContentAction:
			plan.updateContent = append(plan.updateContent, action)
		case UpdateMetaAction:
			plan.updateMeta = append(plan.updateMeta, action)
		}
	}
	return plan, nil
}

// FromDiffEntries is FromDiff over an in-memory slice.
func FromDiffEntries(entries []types.DiffEntry) (*Plan, error) {
	return FromDiff(NewSliceDiffSource(entries))
}

// Removes returns the removal actions in dispatch order. The returned
// slice is the plan's own; callers must not mutate it.
func (p *Plan) Removes() []RemoveAction {
	return p.remove
}

// ContentUpdates returns the content-update actions in dispatch order.
func (p *Plan) ContentUpdates() []UpdateContentAction {
	return p.updateContent
}

// MetaUpdates returns the metadata-update actions in dispatch order.
func (p *Plan) MetaUpdates() []UpdateMetaAction {
	return p.updateMeta
}

// ActionCount returns the total number of planned actions.
func (p *Plan) ActionCount() int {
	return len(p.remove) + len(p.updateContent) + len(p.updateMeta)
}

// contentKeys extracts the ordered fetch keys for the content updates.
func (p *Plan) contentKeys() []types.Key {
	keys := make([]types.Key, len(p.updateContent))
	for i, action := range p.updateContent {
		keys[i] = types.Key{Path: action.Path, ContentID: action.ContentID}
	}
	return keys
}

// consume marks the plan applied, returning false if it already was.
func (p *Plan) consume() bool {
	return p.applied.CompareAndSwap(false, true)
}
