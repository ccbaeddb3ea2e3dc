// Package selection implements the "next pending item" algorithm of
// next-pending-item selection, in both its smart (hierarchy + dependency
// aware) and simple
// (compatibility) modes.
package selection

import (
	"context"
	"sort"

	"github.com/taskgraph-dev/tg/internal/dependency"
	"github.com/taskgraph-dev/tg/internal/naturalsort"
	"github.com/taskgraph-dev/tg/internal/storage"
	"github.com/taskgraph-dev/tg/internal/types"
)

type Engine struct {
	store storage.Store
	deps  *dependency.Engine
}

func New(store storage.Store, deps *dependency.Engine) *Engine {
	return &Engine{store: store, deps: deps}
}

type candidate struct {
	item      *types.Item
	priority  int
	parentPos int
	itemPos   int
}

// NextSmart implements the default, hierarchy-aware selection algorithm.
func (e *Engine) NextSmart(ctx context.Context, listID int64) (*types.Item, error) {
	roots, err := e.store.GetRootItems(ctx, listID)
	if err != nil {
		return nil, err
	}

	var candidates []candidate

	for _, root := range roots {
		switch root.Status {
		case types.StatusInProgress:
			children, err := e.store.GetItemChildren(ctx, root.ID)
			if err != nil {
				return nil, err
			}
			naturalsort.SortByKey(children, func(it *types.Item) string { return it.ItemKey })
			for _, child := range children {
				if child.Status != types.StatusPending {
					continue
				}
				blocked, err := e.deps.IsBlocked(ctx, child.ID)
				if err != nil {
					return nil, err
				}
				if !blocked {
					candidates = append(candidates, candidate{item: child, priority: 1, parentPos: root.Position, itemPos: child.Position})
				}
			}
		case types.StatusPending:
			blocked, err := e.deps.IsBlocked(ctx, root.ID)
			if err != nil {
				return nil, err
			}
			if blocked {
				continue
			}
			hasPendingChildren, err := e.store.HasPendingChildren(ctx, root.ID)
			if err != nil {
				return nil, err
			}
			if hasPendingChildren {
				children, err := e.store.GetItemChildren(ctx, root.ID)
				if err != nil {
					return nil, err
				}
				naturalsort.SortByKey(children, func(it *types.Item) string { return it.ItemKey })
				for _, child := range children {
					if child.Status != types.StatusPending {
						continue
					}
					childBlocked, err := e.deps.IsBlocked(ctx, child.ID)
					if err != nil {
						return nil, err
					}
					if !childBlocked {
						candidates = append(candidates, candidate{item: child, priority: 2, parentPos: root.Position, itemPos: child.Position})
						break
					}
				}
			} else {
				candidates = append(candidates, candidate{item: root, priority: 3, parentPos: root.Position, itemPos: root.Position})
			}
		}
	}

	orphans, err := e.orphanedPending(ctx, roots)
	if err != nil {
		return nil, err
	}
	candidates = append(candidates, orphans...)

	if len(candidates) == 0 {
		return nil, nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.priority != b.priority {
			return a.priority < b.priority
		}
		if a.parentPos != b.parentPos {
			return a.parentPos < b.parentPos
		}
		return a.itemPos < b.itemPos
	})
	return candidates[0].item, nil
}

// orphanedPending scans every root's subtree for a pending child whose
// direct parent is completed or failed.
func (e *Engine) orphanedPending(ctx context.Context, roots []*types.Item) ([]candidate, error) {
	var out []candidate
	var walk func(parent *types.Item) error
	walk = func(parent *types.Item) error {
		children, err := e.store.GetItemChildren(ctx, parent.ID)
		if err != nil {
			return err
		}
		naturalsort.SortByKey(children, func(it *types.Item) string { return it.ItemKey })
		for _, child := range children {
			if child.Status == types.StatusPending && (parent.Status == types.StatusCompleted || parent.Status == types.StatusFailed) {
				out = append(out, candidate{item: child, priority: 4, parentPos: parent.Position, itemPos: child.Position})
			}
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range roots {
		if err := walk(r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// NextSimple implements the simpler compatibility algorithm: the first
// pending item in natural order that is neither blocked nor has an
// incomplete parent.
func (e *Engine) NextSimple(ctx context.Context, listID int64) (*types.Item, error) {
	pending := types.StatusPending
	items, err := e.store.GetListItems(ctx, listID, &pending, 0)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		blocked, err := e.deps.IsBlocked(ctx, it.ID)
		if err != nil {
			return nil, err
		}
		if blocked {
			continue
		}
		if it.ParentItemID != nil {
			parent, err := e.store.GetItemByID(ctx, *it.ParentItemID)
			if err != nil {
				return nil, err
			}
			if parent != nil && parent.Status != types.StatusCompleted {
				continue
			}
		}
		return it, nil
	}
	return nil, nil
}
