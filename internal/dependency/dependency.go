// Package dependency implements the cross-item dependency graph:
// cycle-safe edge creation, blocker queries, and the can-start/can-complete
// predicates.
package dependency

import (
	"context"

	"github.com/taskgraph-dev/tg/internal/apperr"
	"github.com/taskgraph-dev/tg/internal/storage"
	"github.com/taskgraph-dev/tg/internal/types"
)

type Engine struct {
	store storage.Store
}

func New(store storage.Store) *Engine {
	return &Engine{store: store}
}

// AddDependency inserts dependentID --(depType)--> requiredID, rejecting
// self-edges and edges that would create a cycle in the enforced
// (requires/blocks) subgraph. "related" edges are exempt from cycle
// checking — they carry no enforcement semantics, so the only subgraph
// worth guarding against cycles is the blocking one.
func (e *Engine) AddDependency(ctx context.Context, dependentID, requiredID int64, depType types.DependencyType, metadata map[string]any) (*types.ItemDependency, error) {
	if dependentID == requiredID {
		return nil, apperr.New(apperr.InvalidArgument, "an item cannot depend on itself")
	}
	if !depType.Valid() {
		return nil, apperr.New(apperr.InvalidArgument, "invalid dependency type %q", depType)
	}

	dependent, err := e.store.GetItemByID(ctx, dependentID)
	if err != nil {
		return nil, err
	}
	if dependent == nil {
		return nil, apperr.New(apperr.NotFound, "item %d not found", dependentID)
	}
	required, err := e.store.GetItemByID(ctx, requiredID)
	if err != nil {
		return nil, err
	}
	if required == nil {
		return nil, apperr.New(apperr.NotFound, "item %d not found", requiredID)
	}

	if depType.Enforced() {
		// Before inserting dependent --> required, confirm required cannot
		// already reach dependent.
		reaches, err := e.store.HasEnforcedPath(ctx, requiredID, dependentID)
		if err != nil {
			return nil, err
		}
		if reaches {
			return nil, apperr.New(apperr.WouldCreateCycle, "dependency %d -> %d would create a cycle", dependentID, requiredID)
		}
	}

	return e.store.CreateItemDependency(ctx, dependentID, requiredID, depType, metadata)
}

func (e *Engine) RemoveDependency(ctx context.Context, dependentID, requiredID int64) (bool, error) {
	return e.store.RemoveItemDependency(ctx, dependentID, requiredID)
}

// Blockers returns the not-yet-completed required items for id.
func (e *Engine) Blockers(ctx context.Context, id int64) ([]*types.Item, error) {
	return e.store.GetItemBlockers(ctx, id)
}

// IsBlocked reports whether id has at least one blocker.
func (e *Engine) IsBlocked(ctx context.Context, id int64) (bool, error) {
	blockers, err := e.store.GetItemBlockers(ctx, id)
	if err != nil {
		return false, err
	}
	return len(blockers) > 0, nil
}

// CanStart combines blocker presence and unfinished-subitem presence.
func (e *Engine) CanStart(ctx context.Context, id int64) (bool, error) {
	blocked, err := e.IsBlocked(ctx, id)
	if err != nil {
		return false, err
	}
	if blocked {
		return false, nil
	}
	hasPending, err := e.store.HasPendingChildren(ctx, id)
	if err != nil {
		return false, err
	}
	return !hasPending, nil
}

// CanComplete is solely a function of subitem completion: any
// non-completed subitem blocks completion.
func (e *Engine) CanComplete(ctx context.Context, id int64) (bool, error) {
	summary, err := e.store.GetChildrenStatusSummary(ctx, id)
	if err != nil {
		return false, err
	}
	if summary.Total == 0 {
		return true, nil
	}
	return summary.Completed == summary.Total, nil
}
