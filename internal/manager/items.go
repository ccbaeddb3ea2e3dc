package manager

import (
	"context"
	"strings"

	"github.com/taskgraph-dev/tg/internal/apperr"
	"github.com/taskgraph-dev/tg/internal/storage"
	"github.com/taskgraph-dev/tg/internal/types"
)

// AddItem creates an item under listKey, optionally nested under parentKey.
func (m *Manager) AddItem(ctx context.Context, listKey, itemKey, content string, parentKey *string, metadata map[string]any, userContext string) (*types.Item, error) {
	if strings.TrimSpace(itemKey) == "" {
		return nil, apperr.New(apperr.InvalidArgument, "item key must not be empty")
	}
	list, err := m.store.GetListByKey(ctx, listKey)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, apperr.New(apperr.NotFound, "list %q not found", listKey)
	}
	if err := m.scope.CheckWrite(ctx, m.store, list.ID); err != nil {
		return nil, err
	}

	var parentID *int64
	if parentKey != nil {
		parent, err := m.store.GetItemByKey(ctx, list.ID, *parentKey)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, apperr.New(apperr.NotFound, "parent item %q not found in list %q", *parentKey, listKey)
		}
		parentID = &parent.ID
	}

	if existing, err := m.store.GetItemByKeyAndParent(ctx, list.ID, itemKey, parentID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.New(apperr.DuplicateKey, "item %q already exists under this parent", itemKey)
	}

	var item *types.Item
	err = m.withTx(ctx, func(tx *Manager) error {
		position, txErr := tx.store.GetNextPosition(ctx, list.ID, parentID)
		if txErr != nil {
			return txErr
		}
		item, txErr = tx.store.CreateItem(ctx, storage.ItemFields{
			ListID:       list.ID,
			ItemKey:      itemKey,
			Content:      content,
			ParentItemID: parentID,
			Position:     position,
			Status:       types.StatusPending,
			Metadata:     metadata,
		})
		if txErr != nil {
			return txErr
		}
		if parentID != nil {
			if txErr := tx.hier.Sync(ctx, *parentID, map[int64]bool{}); txErr != nil {
				return txErr
			}
		}
		_, txErr = tx.hist.Record(ctx, &item.ID, &list.ID, "item_created", nil, map[string]any{"item_key": itemKey}, userContext)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem resolves an item by (listKey, itemKey).
func (m *Manager) GetItem(ctx context.Context, listKey, itemKey string) (*types.Item, error) {
	list, err := m.store.GetListByKey(ctx, listKey)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, apperr.New(apperr.NotFound, "list %q not found", listKey)
	}
	if err := m.scope.CheckWrite(ctx, m.store, list.ID); err != nil {
		return nil, err
	}
	item, err := m.store.GetItemByKey(ctx, list.ID, itemKey)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.New(apperr.NotFound, "item %q not found in list %q", itemKey, listKey)
	}
	return item, nil
}

// ListItems returns a list's items, optionally filtered by status.
func (m *Manager) ListItems(ctx context.Context, listKey string, status *types.ItemStatus, limit int) ([]*types.Item, error) {
	list, err := m.store.GetListByKey(ctx, listKey)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, apperr.New(apperr.NotFound, "list %q not found", listKey)
	}
	if err := m.scope.CheckWrite(ctx, m.store, list.ID); err != nil {
		return nil, err
	}
	return m.store.GetListItems(ctx, list.ID, status, limit)
}

// Tree returns every item of a list in the same depth-first, naturally
// sorted order the CLI's `item tree` command renders.
func (m *Manager) Tree(ctx context.Context, listKey string) ([]*types.Item, error) {
	return m.ListItems(ctx, listKey, nil, 0)
}

// SetItemStatus applies a direct status change to a leaf item, rejecting
// transitions into in_progress/completed while the item is blocked by an
// unmet requires/blocks dependency.
func (m *Manager) SetItemStatus(ctx context.Context, listKey, itemKey string, newStatus types.ItemStatus, userContext string) (*types.Item, error) {
	if !newStatus.Valid() {
		return nil, apperr.New(apperr.InvalidArgument, "invalid item status %q", newStatus)
	}
	item, err := m.GetItem(ctx, listKey, itemKey)
	if err != nil {
		return nil, err
	}

	if newStatus == types.StatusInProgress || newStatus == types.StatusCompleted {
		blocked, err := m.deps.IsBlocked(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		if blocked {
			return nil, apperr.New(apperr.InvalidArgument, "item %q is blocked by an incomplete dependency", itemKey)
		}
	}

	oldStatus := item.Status
	var updated *types.Item
	err = m.withTx(ctx, func(tx *Manager) error {
		var txErr error
		updated, txErr = tx.hier.SetLeafStatus(ctx, item.ID, newStatus)
		if txErr != nil {
			return txErr
		}
		_, txErr = tx.hist.Record(ctx, &item.ID, &item.ListID, "item_status_changed",
			map[string]any{"status": string(oldStatus)}, map[string]any{"status": string(newStatus)}, userContext)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// EditItemContent rewrites an item's free-text content.
func (m *Manager) EditItemContent(ctx context.Context, listKey, itemKey, content, userContext string) (*types.Item, error) {
	item, err := m.GetItem(ctx, listKey, itemKey)
	if err != nil {
		return nil, err
	}
	updated, err := m.store.UpdateItem(ctx, item.ID, storage.ItemPatch{Content: &content})
	if err != nil {
		return nil, err
	}
	if _, err := m.hist.Record(ctx, &item.ID, &item.ListID, "item_content_edited",
		map[string]any{"content": item.Content}, map[string]any{"content": content}, userContext); err != nil {
		return nil, err
	}
	return updated, nil
}

// MoveItem moves itemKey to be a child of newParentKey within the same list.
func (m *Manager) MoveItem(ctx context.Context, listKey, itemKey, newParentKey, userContext string) (*types.Item, error) {
	item, err := m.GetItem(ctx, listKey, itemKey)
	if err != nil {
		return nil, err
	}
	newParent, err := m.GetItem(ctx, listKey, newParentKey)
	if err != nil {
		return nil, err
	}
	var moved *types.Item
	err = m.withTx(ctx, func(tx *Manager) error {
		var txErr error
		moved, txErr = tx.hier.MoveToSubitem(ctx, item.ID, newParent.ID)
		if txErr != nil {
			return txErr
		}
		_, txErr = tx.hist.Record(ctx, &item.ID, &item.ListID, "item_moved", nil, map[string]any{"new_parent": newParentKey}, userContext)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// DeleteItem removes a leaf item, rejecting deletion of an item with
// children.
func (m *Manager) DeleteItem(ctx context.Context, listKey, itemKey, userContext string) (bool, error) {
	item, err := m.GetItem(ctx, listKey, itemKey)
	if err != nil {
		return false, err
	}
	if err := m.hier.GuardDeletion(ctx, item.ID); err != nil {
		return false, err
	}
	var deleted bool
	err = m.withTx(ctx, func(tx *Manager) error {
		var txErr error
		deleted, txErr = tx.store.DeleteItem(ctx, item.ID)
		if txErr != nil {
			return txErr
		}
		if !deleted {
			return nil
		}
		if item.ParentItemID != nil {
			if txErr := tx.hier.Sync(ctx, *item.ParentItemID, map[int64]bool{}); txErr != nil {
				return txErr
			}
		}
		_, txErr = tx.hist.Record(ctx, nil, &item.ListID, "item_deleted",
			map[string]any{"item_key": item.ItemKey, "content": item.Content, "status": string(item.Status)}, nil, userContext)
		return txErr
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// Reorder reassigns sibling positions under parentKey (nil for roots).
func (m *Manager) Reorder(ctx context.Context, listKey string, parentKey *string, orderedItemKeys []string) error {
	list, err := m.store.GetListByKey(ctx, listKey)
	if err != nil {
		return err
	}
	if list == nil {
		return apperr.New(apperr.NotFound, "list %q not found", listKey)
	}
	if err := m.scope.CheckWrite(ctx, m.store, list.ID); err != nil {
		return err
	}

	var parentID *int64
	if parentKey != nil {
		parent, err := m.store.GetItemByKey(ctx, list.ID, *parentKey)
		if err != nil {
			return err
		}
		if parent == nil {
			return apperr.New(apperr.NotFound, "parent item %q not found", *parentKey)
		}
		parentID = &parent.ID
	}

	ids := make([]int64, len(orderedItemKeys))
	for i, key := range orderedItemKeys {
		item, err := m.store.GetItemByKeyAndParent(ctx, list.ID, key, parentID)
		if err != nil {
			return err
		}
		if item == nil {
			return apperr.New(apperr.NotFound, "item %q not found", key)
		}
		ids[i] = item.ID
	}
	return m.withTx(ctx, func(tx *Manager) error {
		return tx.store.Reorder(ctx, list.ID, parentID, ids)
	})
}

// NextPending returns the next actionable pending item, using the smart
// algorithm unless simple is requested.
func (m *Manager) NextPending(ctx context.Context, listKey string, simple bool) (*types.Item, error) {
	list, err := m.store.GetListByKey(ctx, listKey)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, apperr.New(apperr.NotFound, "list %q not found", listKey)
	}
	if err := m.scope.CheckWrite(ctx, m.store, list.ID); err != nil {
		return nil, err
	}
	if simple {
		return m.sel.NextSimple(ctx, list.ID)
	}
	return m.sel.NextSmart(ctx, list.ID)
}
