package manager

import (
	"context"

	"github.com/taskgraph-dev/tg/internal/storage"
	"github.com/taskgraph-dev/tg/internal/types"
)

// CompletionStates returns an item's free-form multi-state completion map
// stored and returned as an opaque map[string]any.
func (m *Manager) CompletionStates(ctx context.Context, listKey, itemKey string) (map[string]any, error) {
	item, err := m.GetItem(ctx, listKey, itemKey)
	if err != nil {
		return nil, err
	}
	return item.CompletionStates, nil
}

// SetCompletionState upserts one key in an item's completion-states map.
func (m *Manager) SetCompletionState(ctx context.Context, listKey, itemKey, key string, value any, userContext string) (*types.Item, error) {
	item, err := m.GetItem(ctx, listKey, itemKey)
	if err != nil {
		return nil, err
	}
	merged := map[string]any{}
	for k, v := range item.CompletionStates {
		merged[k] = v
	}
	merged[key] = value
	updated, err := m.store.UpdateItem(ctx, item.ID, storage.ItemPatch{CompletionStates: merged})
	if err != nil {
		return nil, err
	}
	if _, err := m.hist.Record(ctx, &item.ID, &item.ListID, "item_state_set", nil, map[string]any{key: value}, userContext); err != nil {
		return nil, err
	}
	return updated, nil
}

// RemoveCompletionState deletes one key from an item's completion-states map.
func (m *Manager) RemoveCompletionState(ctx context.Context, listKey, itemKey, key, userContext string) (*types.Item, error) {
	item, err := m.GetItem(ctx, listKey, itemKey)
	if err != nil {
		return nil, err
	}
	merged := map[string]any{}
	for k, v := range item.CompletionStates {
		if k != key {
			merged[k] = v
		}
	}
	updated, err := m.store.UpdateItem(ctx, item.ID, storage.ItemPatch{CompletionStates: merged})
	if err != nil {
		return nil, err
	}
	if _, err := m.hist.Record(ctx, &item.ID, &item.ListID, "item_state_removed", map[string]any{"key": key}, nil, userContext); err != nil {
		return nil, err
	}
	return updated, nil
}

// ClearCompletionStates empties an item's completion-states map.
func (m *Manager) ClearCompletionStates(ctx context.Context, listKey, itemKey, userContext string) (*types.Item, error) {
	item, err := m.GetItem(ctx, listKey, itemKey)
	if err != nil {
		return nil, err
	}
	updated, err := m.store.UpdateItem(ctx, item.ID, storage.ItemPatch{CompletionStates: map[string]any{}})
	if err != nil {
		return nil, err
	}
	if _, err := m.hist.Record(ctx, &item.ID, &item.ListID, "item_state_cleared", nil, nil, userContext); err != nil {
		return nil, err
	}
	return updated, nil
}
