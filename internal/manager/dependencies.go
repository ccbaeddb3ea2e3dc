package manager

import (
	"context"

	"github.com/taskgraph-dev/tg/internal/types"
)

// ItemRef addresses an item across lists, for cross-list dependency edges.
type ItemRef struct {
	ListKey string
	ItemKey string
}

func (m *Manager) resolveRef(ctx context.Context, ref ItemRef) (*types.Item, error) {
	return m.GetItem(ctx, ref.ListKey, ref.ItemKey)
}

// AddDependency links dependent --(depType)--> required, which may live in
// different lists.
func (m *Manager) AddDependency(ctx context.Context, dependent, required ItemRef, depType types.DependencyType, metadata map[string]any, userContext string) (*types.ItemDependency, error) {
	dependentItem, err := m.resolveRef(ctx, dependent)
	if err != nil {
		return nil, err
	}
	requiredItem, err := m.resolveRef(ctx, required)
	if err != nil {
		return nil, err
	}
	dep, err := m.deps.AddDependency(ctx, dependentItem.ID, requiredItem.ID, depType, metadata)
	if err != nil {
		return nil, err
	}
	if _, err := m.hist.Record(ctx, &dependentItem.ID, &dependentItem.ListID, "dependency_added", nil,
		map[string]any{"required": required.ItemKey, "type": string(depType)}, userContext); err != nil {
		return nil, err
	}
	return dep, nil
}

func (m *Manager) RemoveDependency(ctx context.Context, dependent, required ItemRef, userContext string) (bool, error) {
	dependentItem, err := m.resolveRef(ctx, dependent)
	if err != nil {
		return false, err
	}
	requiredItem, err := m.resolveRef(ctx, required)
	if err != nil {
		return false, err
	}
	removed, err := m.deps.RemoveDependency(ctx, dependentItem.ID, requiredItem.ID)
	if err != nil {
		return false, err
	}
	if removed {
		if _, err := m.hist.Record(ctx, &dependentItem.ID, &dependentItem.ListID, "dependency_removed", nil,
			map[string]any{"required": required.ItemKey}, userContext); err != nil {
			return false, err
		}
	}
	return removed, nil
}

func (m *Manager) ItemDependencies(ctx context.Context, ref ItemRef) ([]*types.ItemDependency, error) {
	item, err := m.resolveRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	return m.store.GetItemDependencies(ctx, item.ID)
}

func (m *Manager) ItemDependents(ctx context.Context, ref ItemRef) ([]*types.ItemDependency, error) {
	item, err := m.resolveRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	return m.store.GetItemDependents(ctx, item.ID)
}

func (m *Manager) Blockers(ctx context.Context, ref ItemRef) ([]*types.Item, error) {
	item, err := m.resolveRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	return m.deps.Blockers(ctx, item.ID)
}

func (m *Manager) CanStart(ctx context.Context, ref ItemRef) (bool, error) {
	item, err := m.resolveRef(ctx, ref)
	if err != nil {
		return false, err
	}
	return m.deps.CanStart(ctx, item.ID)
}

func (m *Manager) CanComplete(ctx context.Context, ref ItemRef) (bool, error) {
	item, err := m.resolveRef(ctx, ref)
	if err != nil {
		return false, err
	}
	return m.deps.CanComplete(ctx, item.ID)
}
