package manager

import (
	"context"
	"strings"

	"github.com/taskgraph-dev/tg/internal/apperr"
	"github.com/taskgraph-dev/tg/internal/proptag"
	"github.com/taskgraph-dev/tg/internal/storage"
	"github.com/taskgraph-dev/tg/internal/types"
)

// CreateList creates a list, auto-tagging it with the active FORCE_TAGS
// so it remains visible to its own creator.
func (m *Manager) CreateList(ctx context.Context, listKey, title string, listType types.ListType, metadata map[string]any, userContext string) (*types.List, error) {
	if strings.TrimSpace(listKey) == "" {
		return nil, apperr.New(apperr.InvalidArgument, "list key must not be empty")
	}
	if err := proptag.ValidateListKey(listKey); err != nil {
		return nil, err
	}
	if listType == "" {
		listType = types.ListTypeSequential
	}

	existing, err := m.store.GetListByKey(ctx, listKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.New(apperr.DuplicateKey, "list %q already exists", listKey)
	}

	var list *types.List
	err = m.withTx(ctx, func(tx *Manager) error {
		var txErr error
		list, txErr = tx.store.CreateList(ctx, listKey, title, listType, metadata)
		if txErr != nil {
			return txErr
		}
		for _, tagName := range tx.scope.AutoTags() {
			tag, txErr := tx.ensureTag(ctx, tagName)
			if txErr != nil {
				return txErr
			}
			if txErr := tx.store.AddListTag(ctx, list.ID, tag.ID); txErr != nil {
				return txErr
			}
		}
		list, txErr = tx.hydrateList(ctx, list)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	if _, err := m.hist.Record(ctx, nil, &list.ID, "list_created", nil, map[string]any{"list_key": listKey, "title": title}, userContext); err != nil {
		return nil, err
	}
	return list, nil
}

// GetList resolves a list by key, enforcing FORCE_TAGS accessibility.
func (m *Manager) GetList(ctx context.Context, listKey string) (*types.List, error) {
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
	return m.hydrateList(ctx, list)
}

// ListLists returns every list the active scope can see.
func (m *Manager) ListLists(ctx context.Context, limit int) ([]*types.List, error) {
	all, err := m.store.ListAll(ctx, limit)
	if err != nil {
		return nil, err
	}
	filtered, err := m.scope.FilterLists(ctx, m.store, all)
	if err != nil {
		return nil, err
	}
	for i, l := range filtered {
		hydrated, err := m.hydrateList(ctx, l)
		if err != nil {
			return nil, err
		}
		filtered[i] = hydrated
	}
	return filtered, nil
}

// UpdateList applies a patch to an existing list.
func (m *Manager) UpdateList(ctx context.Context, listKey string, patch storage.ListPatch, userContext string) (*types.List, error) {
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
	updated, err := m.store.UpdateList(ctx, list.ID, patch)
	if err != nil {
		return nil, err
	}
	updated, err = m.hydrateList(ctx, updated)
	if err != nil {
		return nil, err
	}
	if _, err := m.hist.Record(ctx, nil, &list.ID, "list_updated", nil, nil, userContext); err != nil {
		return nil, err
	}
	return updated, nil
}

// ArchiveList and UnarchiveList toggle list lifecycle status.
func (m *Manager) ArchiveList(ctx context.Context, listKey, userContext string) (*types.List, error) {
	return m.UpdateList(ctx, listKey, storage.ListPatch{Status: ptr(types.ListStatusArchived)}, userContext)
}

func (m *Manager) UnarchiveList(ctx context.Context, listKey, userContext string) (*types.List, error) {
	return m.UpdateList(ctx, listKey, storage.ListPatch{Status: ptr(types.ListStatusActive)}, userContext)
}

// DeleteList removes a list and everything under it (cascading via the
// schema's foreign keys).
func (m *Manager) DeleteList(ctx context.Context, listKey, userContext string) (bool, error) {
	list, err := m.store.GetListByKey(ctx, listKey)
	if err != nil {
		return false, err
	}
	if list == nil {
		return false, apperr.New(apperr.NotFound, "list %q not found", listKey)
	}
	if err := m.scope.CheckWrite(ctx, m.store, list.ID); err != nil {
		return false, err
	}
	deleted, err := m.store.DeleteList(ctx, list.ID)
	if err != nil {
		return false, err
	}
	if deleted {
		if _, err := m.hist.Record(ctx, nil, nil, "list_deleted",
			map[string]any{"list_key": list.ListKey, "title": list.Title}, nil, userContext); err != nil {
			return false, err
		}
	}
	return deleted, nil
}

// LinkTag attaches a tag to a list, creating the tag if it does not yet
// exist, using positional color assignment for newly created tags.
func (m *Manager) LinkTag(ctx context.Context, listKey, tagName, userContext string) (*types.Tag, error) {
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
	tag, err := m.ensureTag(ctx, tagName)
	if err != nil {
		return nil, err
	}
	if err := m.store.AddListTag(ctx, list.ID, tag.ID); err != nil {
		return nil, err
	}
	if _, err := m.hist.Record(ctx, nil, &list.ID, "tag_linked", nil, map[string]any{"tag": tag.Name}, userContext); err != nil {
		return nil, err
	}
	return tag, nil
}

// UnlinkTag removes a tag from a list, rejecting removal of a currently
// active FORCE_TAGS tag.
func (m *Manager) UnlinkTag(ctx context.Context, listKey, tagName, userContext string) (bool, error) {
	if m.scope.GuardsTagRemoval(tagName) {
		return false, apperr.New(apperr.CannotRemoveForceTag, "cannot remove active force tag %q", tagName)
	}
	list, err := m.store.GetListByKey(ctx, listKey)
	if err != nil {
		return false, err
	}
	if list == nil {
		return false, apperr.New(apperr.NotFound, "list %q not found", listKey)
	}
	if err := m.scope.CheckWrite(ctx, m.store, list.ID); err != nil {
		return false, err
	}
	tag, err := m.store.GetTagByName(ctx, proptag.Normalize(tagName))
	if err != nil {
		return false, err
	}
	if tag == nil {
		return false, nil
	}
	removed, err := m.store.RemoveListTag(ctx, list.ID, tag.ID)
	if err != nil {
		return false, err
	}
	if removed {
		if _, err := m.hist.Record(ctx, nil, &list.ID, "tag_unlinked", nil, map[string]any{"tag": tag.Name}, userContext); err != nil {
			return false, err
		}
	}
	return removed, nil
}

// hydrateList fills in Tags for a list fetched without them.
func (m *Manager) hydrateList(ctx context.Context, list *types.List) (*types.List, error) {
	tags, err := m.store.ListTagsForList(ctx, list.ID)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	list.Tags = names
	return list, nil
}

// ensureTag fetches a tag by normalized name or creates it with the next
// positional color.
func (m *Manager) ensureTag(ctx context.Context, name string) (*types.Tag, error) {
	normalized := proptag.Normalize(name)
	existing, err := m.store.GetTagByName(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	all, err := m.store.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(all))
	for i, t := range all {
		names[i] = t.Name
	}
	color, err := proptag.NextColor(names)
	if err != nil {
		return nil, err
	}
	return m.store.CreateTag(ctx, normalized, color)
}
