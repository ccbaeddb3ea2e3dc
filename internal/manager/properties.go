package manager

import (
	"context"

	"github.com/taskgraph-dev/tg/internal/apperr"
	"github.com/taskgraph-dev/tg/internal/proptag"
	"github.com/taskgraph-dev/tg/internal/types"
)

// SetItemProperty validates and upserts a key-value property on an item.
func (m *Manager) SetItemProperty(ctx context.Context, listKey, itemKey, key, value, userContext string) (*types.ItemProperty, error) {
	if err := proptag.Validate(key, value); err != nil {
		return nil, err
	}
	item, err := m.GetItem(ctx, listKey, itemKey)
	if err != nil {
		return nil, err
	}
	prop, err := m.store.SetItemProperty(ctx, item.ID, key, value)
	if err != nil {
		return nil, err
	}
	if _, err := m.hist.Record(ctx, &item.ID, &item.ListID, "item_property_set", nil, map[string]any{key: value}, userContext); err != nil {
		return nil, err
	}
	return prop, nil
}

func (m *Manager) GetItemProperty(ctx context.Context, listKey, itemKey, key string) (*types.ItemProperty, error) {
	item, err := m.GetItem(ctx, listKey, itemKey)
	if err != nil {
		return nil, err
	}
	prop, err := m.store.GetItemProperty(ctx, item.ID, key)
	if err != nil {
		return nil, err
	}
	if prop == nil {
		return nil, apperr.New(apperr.NotFound, "property %q not set on item %q", key, itemKey)
	}
	return prop, nil
}

func (m *Manager) ListItemProperties(ctx context.Context, listKey, itemKey string) ([]*types.ItemProperty, error) {
	item, err := m.GetItem(ctx, listKey, itemKey)
	if err != nil {
		return nil, err
	}
	return m.store.ListItemProperties(ctx, item.ID)
}

func (m *Manager) DeleteItemProperty(ctx context.Context, listKey, itemKey, key, userContext string) (bool, error) {
	item, err := m.GetItem(ctx, listKey, itemKey)
	if err != nil {
		return false, err
	}
	deleted, err := m.store.DeleteItemProperty(ctx, item.ID, key)
	if err != nil {
		return false, err
	}
	if deleted {
		if _, err := m.hist.Record(ctx, &item.ID, &item.ListID, "item_property_deleted", map[string]any{"key": key}, nil, userContext); err != nil {
			return false, err
		}
	}
	return deleted, nil
}

// SetListProperty validates and upserts a key-value property on a list.
func (m *Manager) SetListProperty(ctx context.Context, listKey, key, value, userContext string) (*types.ListProperty, error) {
	if err := proptag.Validate(key, value); err != nil {
		return nil, err
	}
	list, err := m.GetList(ctx, listKey)
	if err != nil {
		return nil, err
	}
	prop, err := m.store.SetListProperty(ctx, list.ID, key, value)
	if err != nil {
		return nil, err
	}
	if _, err := m.hist.Record(ctx, nil, &list.ID, "list_property_set", nil, map[string]any{key: value}, userContext); err != nil {
		return nil, err
	}
	return prop, nil
}

func (m *Manager) GetListProperty(ctx context.Context, listKey, key string) (*types.ListProperty, error) {
	list, err := m.GetList(ctx, listKey)
	if err != nil {
		return nil, err
	}
	prop, err := m.store.GetListProperty(ctx, list.ID, key)
	if err != nil {
		return nil, err
	}
	if prop == nil {
		return nil, apperr.New(apperr.NotFound, "property %q not set on list %q", key, listKey)
	}
	return prop, nil
}

func (m *Manager) ListListProperties(ctx context.Context, listKey string) ([]*types.ListProperty, error) {
	list, err := m.GetList(ctx, listKey)
	if err != nil {
		return nil, err
	}
	return m.store.ListListProperties(ctx, list.ID)
}

func (m *Manager) DeleteListProperty(ctx context.Context, listKey, key, userContext string) (bool, error) {
	list, err := m.GetList(ctx, listKey)
	if err != nil {
		return false, err
	}
	deleted, err := m.store.DeleteListProperty(ctx, list.ID, key)
	if err != nil {
		return false, err
	}
	if deleted {
		if _, err := m.hist.Record(ctx, nil, &list.ID, "list_property_deleted", map[string]any{"key": key}, nil, userContext); err != nil {
			return false, err
		}
	}
	return deleted, nil
}

// FindItemsByProperty returns items in listKey whose property key matches
// value exactly.
func (m *Manager) FindItemsByProperty(ctx context.Context, listKey, key, value string, limit int) ([]*types.Item, error) {
	list, err := m.GetList(ctx, listKey)
	if err != nil {
		return nil, err
	}
	return m.store.FindItemsByProperty(ctx, list.ID, key, value, limit)
}

// FindSubitemsByStatus groups items by parent whose named children all
// match the given status conditions.
func (m *Manager) FindSubitemsByStatus(ctx context.Context, listKey string, conditions map[string]types.ItemStatus, limit int) ([]SubitemGroup, error) {
	list, err := m.GetList(ctx, listKey)
	if err != nil {
		return nil, err
	}
	groups, err := m.store.FindSubitemsByStatus(ctx, list.ID, conditions, limit)
	if err != nil {
		return nil, err
	}
	out := make([]SubitemGroup, len(groups))
	for i, g := range groups {
		out[i] = SubitemGroup{Parent: g.Parent, MatchingSubitems: g.MatchingSubitems}
	}
	return out, nil
}

// SubitemGroup mirrors storage.SubitemGroup at the façade boundary so
// callers never import the storage package directly.
type SubitemGroup struct {
	Parent           *types.Item
	MatchingSubitems []*types.Item
}
