package manager

import (
	"context"

	"github.com/taskgraph-dev/tg/internal/apperr"
	"github.com/taskgraph-dev/tg/internal/proptag"
	"github.com/taskgraph-dev/tg/internal/types"
)

// CreateTag registers a new global tag with the next positional palette
// color.
func (m *Manager) CreateTag(ctx context.Context, name string) (*types.Tag, error) {
	return m.ensureTag(ctx, name)
}

func (m *Manager) ListTags(ctx context.Context) ([]*types.Tag, error) {
	return m.store.ListTags(ctx)
}

func (m *Manager) DeleteTag(ctx context.Context, name string) (bool, error) {
	tag, err := m.store.GetTagByName(ctx, proptag.Normalize(name))
	if err != nil {
		return false, err
	}
	if tag == nil {
		return false, apperr.New(apperr.NotFound, "tag %q not found", name)
	}
	return m.store.DeleteTag(ctx, tag.ID)
}
