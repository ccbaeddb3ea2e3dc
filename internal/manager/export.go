package manager

import (
	"context"

	"github.com/taskgraph-dev/tg/internal/apperr"
	"github.com/taskgraph-dev/tg/internal/types"
)

// ExportedItem is one item plus its own properties, in export/import order
// (parents always precede children, since CreateItem requires the parent to
// already exist).
type ExportedItem struct {
	Item       *types.Item             `json:"item" yaml:"item"`
	Properties []*types.ItemProperty   `json:"properties,omitempty" yaml:"properties,omitempty"`
	ParentKey  string                  `json:"parent_key,omitempty" yaml:"parent_key,omitempty"`
}

// ExportedList is the full portable snapshot of one list, used by `tg io
// export`/`tg io import`. Cross-list dependency edges are intentionally
// excluded — an import target may not yet have the other end of the edge.
type ExportedList struct {
	List       *types.List             `json:"list" yaml:"list"`
	Properties []*types.ListProperty   `json:"properties,omitempty" yaml:"properties,omitempty"`
	Items      []ExportedItem          `json:"items,omitempty" yaml:"items,omitempty"`
}

// ExportList snapshots a list, its properties, and every item in
// depth-first (parent-before-child) order.
func (m *Manager) ExportList(ctx context.Context, listKey string) (*ExportedList, error) {
	list, err := m.GetList(ctx, listKey)
	if err != nil {
		return nil, err
	}
	listProps, err := m.store.ListListProperties(ctx, list.ID)
	if err != nil {
		return nil, err
	}
	items, err := m.store.GetListItems(ctx, list.ID, nil, 0)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*types.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	out := &ExportedList{List: list, Properties: listProps}
	for _, it := range items {
		props, err := m.store.ListItemProperties(ctx, it.ID)
		if err != nil {
			return nil, err
		}
		var parentKey string
		if it.ParentItemID != nil {
			if parent, ok := byID[*it.ParentItemID]; ok {
				parentKey = parent.ItemKey
			}
		}
		out.Items = append(out.Items, ExportedItem{Item: it, Properties: props, ParentKey: parentKey})
	}
	return out, nil
}

// ImportList recreates a list from an ExportedList snapshot under a new (or
// the same) key. Items are created in the snapshot's order, which must keep
// every parent ahead of its children.
func (m *Manager) ImportList(ctx context.Context, data *ExportedList, newListKey, userContext string) (*types.List, error) {
	if data == nil || data.List == nil {
		return nil, apperr.New(apperr.InvalidArgument, "import payload has no list")
	}
	if newListKey == "" {
		newListKey = data.List.ListKey
	}

	list, err := m.CreateList(ctx, newListKey, data.List.Title, data.List.ListType, data.List.Metadata, userContext)
	if err != nil {
		return nil, err
	}
	for _, p := range data.Properties {
		if _, err := m.SetListProperty(ctx, newListKey, p.PropertyKey, p.PropertyValue, userContext); err != nil {
			return nil, err
		}
	}

	for _, ei := range data.Items {
		var parentPtr *string
		if ei.ParentKey != "" {
			parentPtr = &ei.ParentKey
		}
		if _, err := m.AddItem(ctx, newListKey, ei.Item.ItemKey, ei.Item.Content, parentPtr, ei.Item.Metadata, userContext); err != nil {
			return nil, err
		}
		if ei.Item.Status != types.StatusPending {
			if _, err := m.SetItemStatus(ctx, newListKey, ei.Item.ItemKey, ei.Item.Status, userContext); err != nil {
				return nil, err
			}
		}
		for _, p := range ei.Properties {
			if _, err := m.SetItemProperty(ctx, newListKey, ei.Item.ItemKey, p.PropertyKey, p.PropertyValue, userContext); err != nil {
				return nil, err
			}
		}
	}
	return list, nil
}
