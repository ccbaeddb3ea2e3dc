// Package hierarchy implements the parent/child forest operations: status
// derivation, upward synchronization, moves, and the deletion guard.
package hierarchy

import (
	"context"
	"time"

	"github.com/taskgraph-dev/tg/internal/apperr"
	"github.com/taskgraph-dev/tg/internal/storage"
	"github.com/taskgraph-dev/tg/internal/types"
)

// Engine operates over a Store. It holds no state of its own: every call
// re-reads what it needs rather than trusting a cached view.
type Engine struct {
	store storage.Store
}

func New(store storage.Store) *Engine {
	return &Engine{store: store}
}

// HasChildren reports whether item id has any children at all (not just
// pending ones) — used by the deletion guard and the direct-status-mutation
// guard.
func (e *Engine) HasChildren(ctx context.Context, id int64) (bool, error) {
	summary, err := e.store.GetChildrenStatusSummary(ctx, id)
	if err != nil {
		return false, err
	}
	return summary.Total > 0, nil
}

// Sync recomputes and, if changed, applies the derived status of parentID,
// then recurses to its own parent. visited guards against a cycle making
// this loop forever; it is shared across the whole call chain of one
// mutation.
func (e *Engine) Sync(ctx context.Context, parentID int64, visited map[int64]bool) error {
	if visited[parentID] {
		return nil
	}
	visited[parentID] = true

	summary, err := e.store.GetChildrenStatusSummary(ctx, parentID)
	if err != nil {
		return err
	}
	if summary.Total == 0 {
		return nil
	}

	parent, err := e.store.GetItemByID(ctx, parentID)
	if err != nil {
		return err
	}
	if parent == nil {
		return nil
	}

	derived := summary.Derive()
	if derived == parent.Status {
		return nil
	}

	if _, err := e.store.UpdateItem(ctx, parentID, storage.ItemPatch{Status: &derived}); err != nil {
		return err
	}

	if parent.ParentItemID != nil {
		return e.Sync(ctx, *parent.ParentItemID, visited)
	}
	return nil
}

// SyncFrom runs Sync starting at a freshly-changed child's parent, if any.
// Convenience for call sites that just mutated a leaf.
func (e *Engine) SyncFrom(ctx context.Context, item *types.Item) error {
	if item.ParentItemID == nil {
		return nil
	}
	return e.Sync(ctx, *item.ParentItemID, map[int64]bool{})
}

// wouldCycle reports whether making newParentID the parent of itemID would
// introduce a cycle, by walking newParentID's own parent chain looking for
// itemID.
func (e *Engine) wouldCycle(ctx context.Context, itemID, newParentID int64) (bool, error) {
	current := newParentID
	visited := map[int64]bool{}
	for depth := 0; ; depth++ {
		if current == itemID {
			return true, nil
		}
		if visited[current] {
			return true, nil
		}
		visited[current] = true
		if depth > types.MaxHierarchyDepth {
			return true, nil
		}
		node, err := e.store.GetItemByID(ctx, current)
		if err != nil {
			return false, err
		}
		if node == nil || node.ParentItemID == nil {
			return false, nil
		}
		current = *node.ParentItemID
	}
}

// MoveToSubitem converts item itemID to be a child of newParentID, appended
// at the next sibling position, then synchronizes both the old and new
// parent chains.
func (e *Engine) MoveToSubitem(ctx context.Context, itemID, newParentID int64) (*types.Item, error) {
	item, err := e.store.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.New(apperr.NotFound, "item %d not found", itemID)
	}
	newParent, err := e.store.GetItemByID(ctx, newParentID)
	if err != nil {
		return nil, err
	}
	if newParent == nil || newParent.ListID != item.ListID {
		return nil, apperr.New(apperr.NotFound, "target parent %d not found in this list", newParentID)
	}

	cyclic, err := e.wouldCycle(ctx, itemID, newParentID)
	if err != nil {
		return nil, err
	}
	if cyclic {
		return nil, apperr.New(apperr.WouldCreateCycle, "moving item %d under %d would create a cycle", itemID, newParentID)
	}

	oldParentID := item.ParentItemID

	nextPos, err := e.store.GetNextPosition(ctx, item.ListID, &newParentID)
	if err != nil {
		return nil, err
	}
	parentPtr := &newParentID
	updated, err := e.store.UpdateItem(ctx, itemID, storage.ItemPatch{
		ParentItemID: &parentPtr,
		Position:     &nextPos,
	})
	if err != nil {
		return nil, err
	}

	visited := map[int64]bool{}
	if oldParentID != nil {
		if err := e.Sync(ctx, *oldParentID, visited); err != nil {
			return nil, err
		}
	}
	if err := e.Sync(ctx, newParentID, visited); err != nil {
		return nil, err
	}

	return e.store.GetItemByID(ctx, updated.ID)
}

// SetLeafStatus applies a user-driven status change to a leaf item,
// stamping started_at/completed_at on the relevant transitions, then
// synchronizes the parent chain. Rejects with HasChildren if the item is
// not a leaf (direct mutation of a derived-status item).
func (e *Engine) SetLeafStatus(ctx context.Context, itemID int64, newStatus types.ItemStatus) (*types.Item, error) {
	item, err := e.store.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.New(apperr.NotFound, "item %d not found", itemID)
	}
	hasChildren, err := e.HasChildren(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if hasChildren {
		return nil, apperr.New(apperr.HasChildren, "item %d has children; status is derived", itemID)
	}

	patch := storage.ItemPatch{Status: &newStatus}
	now := time.Now().UTC()
	if newStatus == types.StatusInProgress && item.StartedAt == nil {
		startedPtr := &now
		patch.StartedAt = &startedPtr
	}
	if newStatus == types.StatusCompleted {
		completedPtr := &now
		patch.CompletedAt = &completedPtr
	}

	updated, err := e.store.UpdateItem(ctx, itemID, patch)
	if err != nil {
		return nil, err
	}
	if err := e.SyncFrom(ctx, updated); err != nil {
		return nil, err
	}
	return e.store.GetItemByID(ctx, updated.ID)
}

// GuardDeletion rejects deleting an item that still has children; children
// must be deleted first.
func (e *Engine) GuardDeletion(ctx context.Context, id int64) error {
	hasChildren, err := e.HasChildren(ctx, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return apperr.New(apperr.HasChildren, "item %d has children; delete them first", id)
	}
	return nil
}
