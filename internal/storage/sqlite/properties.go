package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/taskgraph-dev/tg/internal/apperr"
	"github.com/taskgraph-dev/tg/internal/storage"
	"github.com/taskgraph-dev/tg/internal/types"
)

func (s *Store) SetItemProperty(ctx context.Context, itemID int64, key, value string) (*types.ItemProperty, error) {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO item_properties (item_id, property_key, property_value)
		VALUES (?, ?, ?)
		ON CONFLICT (item_id, property_key) DO UPDATE SET property_value = excluded.property_value, updated_at = CURRENT_TIMESTAMP`,
		itemID, key, value)
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "setting item property")
	}
	return s.GetItemProperty(ctx, itemID, key)
}

func (s *Store) GetItemProperty(ctx context.Context, itemID int64, key string) (*types.ItemProperty, error) {
	row := s.q.QueryRowContext(ctx, `SELECT id, item_id, property_key, property_value, created_at, updated_at
		FROM item_properties WHERE item_id = ? AND property_key = ?`, itemID, key)
	var p types.ItemProperty
	err := row.Scan(&p.ID, &p.ItemID, &p.PropertyKey, &p.PropertyValue, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "getting item property")
	}
	return &p, nil
}

func (s *Store) ListItemProperties(ctx context.Context, itemID int64) ([]*types.ItemProperty, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT id, item_id, property_key, property_value, created_at, updated_at
		FROM item_properties WHERE item_id = ? ORDER BY property_key`, itemID)
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "listing item properties")
	}
	defer func() { _ = rows.Close() }()
	var out []*types.ItemProperty
	for rows.Next() {
		var p types.ItemProperty
		if err := rows.Scan(&p.ID, &p.ItemID, &p.PropertyKey, &p.PropertyValue, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, apperr.Wrap(apperr.StorageFailure, err, "scanning item property")
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (s *Store) DeleteItemProperty(ctx context.Context, itemID int64, key string) (bool, error) {
	res, err := s.q.ExecContext(ctx, `DELETE FROM item_properties WHERE item_id = ? AND property_key = ?`, itemID, key)
	if err != nil {
		return false, apperr.Wrap(apperr.StorageFailure, err, "deleting item property")
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *Store) SetListProperty(ctx context.Context, listID int64, key, value string) (*types.ListProperty, error) {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO list_properties (list_id, property_key, property_value)
		VALUES (?, ?, ?)
		ON CONFLICT (list_id, property_key) DO UPDATE SET property_value = excluded.property_value, updated_at = CURRENT_TIMESTAMP`,
		listID, key, value)
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "setting list property")
	}
	return s.GetListProperty(ctx, listID, key)
}

func (s *Store) GetListProperty(ctx context.Context, listID int64, key string) (*types.ListProperty, error) {
	row := s.q.QueryRowContext(ctx, `SELECT id, list_id, property_key, property_value, created_at, updated_at
		FROM list_properties WHERE list_id = ? AND property_key = ?`, listID, key)
	var p types.ListProperty
	err := row.Scan(&p.ID, &p.ListID, &p.PropertyKey, &p.PropertyValue, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "getting list property")
	}
	return &p, nil
}

func (s *Store) ListListProperties(ctx context.Context, listID int64) ([]*types.ListProperty, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT id, list_id, property_key, property_value, created_at, updated_at
		FROM list_properties WHERE list_id = ? ORDER BY property_key`, listID)
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "listing list properties")
	}
	defer func() { _ = rows.Close() }()
	var out []*types.ListProperty
	for rows.Next() {
		var p types.ListProperty
		if err := rows.Scan(&p.ID, &p.ListID, &p.PropertyKey, &p.PropertyValue, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, apperr.Wrap(apperr.StorageFailure, err, "scanning list property")
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (s *Store) DeleteListProperty(ctx context.Context, listID int64, key string) (bool, error) {
	res, err := s.q.ExecContext(ctx, `DELETE FROM list_properties WHERE list_id = ? AND property_key = ?`, listID, key)
	if err != nil {
		return false, apperr.Wrap(apperr.StorageFailure, err, "deleting list property")
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *Store) FindItemsByProperty(ctx context.Context, listID int64, key, value string, limit int) ([]*types.Item, error) {
	q := `SELECT i.id, i.list_id, i.item_key, i.content, i.position, i.status, i.completion_states_json,
			i.parent_item_id, i.metadata_json, i.started_at, i.completed_at, i.created_at, i.updated_at
		FROM todo_items i
		JOIN item_properties p ON p.item_id = i.id
		WHERE i.list_id = ? AND p.property_key = ? AND p.property_value = ?
		ORDER BY i.item_key`
	args := []any{listID, key, value}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryItems(ctx, q, args...)
}

// FindSubitemsByStatus returns, per parent, the group of children that
// satisfy ALL the given (subitem_key -> expected_status) conditions.
func (s *Store) FindSubitemsByStatus(ctx context.Context, listID int64, conditions map[string]types.ItemStatus, limit int) ([]storage.SubitemGroup, error) {
	if len(conditions) == 0 {
		return nil, nil
	}
	parents, err := s.GetListItems(ctx, listID, nil, 0)
	if err != nil {
		return nil, err
	}
	var groups []storage.SubitemGroup
	for _, parent := range parents {
		children, err := s.GetItemChildren(ctx, parent.ID)
		if err != nil {
			return nil, err
		}
		byKey := map[string]*types.Item{}
		for _, c := range children {
			byKey[c.ItemKey] = c
		}
		matched := make([]*types.Item, 0, len(conditions))
		satisfiesAll := true
		for key, want := range conditions {
			child, ok := byKey[key]
			if !ok || child.Status != want {
				satisfiesAll = false
				break
			}
			matched = append(matched, child)
		}
		if satisfiesAll {
			groups = append(groups, storage.SubitemGroup{Parent: parent, MatchingSubitems: matched})
			if limit > 0 && len(groups) >= limit {
				break
			}
		}
	}
	return groups, nil
}
