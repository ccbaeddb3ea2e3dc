package manager

import (
	"context"

	"github.com/taskgraph-dev/tg/internal/apperr"
	"github.com/taskgraph-dev/tg/internal/types"
)

// ItemHistory returns the append-only mutation log for one item.
func (m *Manager) ItemHistory(ctx context.Context, listKey, itemKey string, limit int) ([]*types.HistoryEntry, error) {
	item, err := m.GetItem(ctx, listKey, itemKey)
	if err != nil {
		return nil, err
	}
	return m.store.GetItemHistory(ctx, item.ID, limit)
}

// ListHistory returns the append-only mutation log for a whole list.
func (m *Manager) ListHistory(ctx context.Context, listKey string, limit int) ([]*types.HistoryEntry, error) {
	list, err := m.GetList(ctx, listKey)
	if err != nil {
		return nil, err
	}
	return m.store.GetListHistory(ctx, list.ID, limit)
}

// Statistics returns the cross-list aggregate summary. It is not scoped by
// FORCE_TAGS/FILTER_TAGS: the counters are process-wide health metrics, the
// the same way a process-wide health counter reports totals regardless of the
// caller's current working context.
func (m *Manager) Statistics(ctx context.Context) (*types.Statistics, error) {
	stats, err := m.store.GetStatistics(ctx)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return nil, apperr.New(apperr.StorageFailure, "statistics unavailable")
	}
	return stats, nil
}
