// Package history provides the append-only mutation log every façade write
// funnels through.
package history

import (
	"context"

	"github.com/taskgraph-dev/tg/internal/storage"
	"github.com/taskgraph-dev/tg/internal/types"
)

// Recorder is a plain collaborator owned by the Manager façade — not a
// global, but constructed once per façade and passed by reference, with a
// single history writer wired through every mutating operation.
type Recorder struct {
	store storage.Store
}

func New(store storage.Store) *Recorder {
	return &Recorder{store: store}
}

// Record appends exactly one HistoryEntry. Callers must only invoke this
// after a mutation has fully succeeded; failed operations must never emit
// a history entry.
func (r *Recorder) Record(ctx context.Context, itemID, listID *int64, action string, oldValue, newValue map[string]any, userContext string) (*types.HistoryEntry, error) {
	return r.store.RecordHistory(ctx, storage.HistoryFields{
		ItemID:      itemID,
		ListID:      listID,
		Action:      action,
		OldValue:    oldValue,
		NewValue:    newValue,
		UserContext: userContext,
	})
}
