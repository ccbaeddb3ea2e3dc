package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/taskgraph-dev/tg/internal/apperr"
	"github.com/taskgraph-dev/tg/internal/naturalsort"
	"github.com/taskgraph-dev/tg/internal/storage"
	"github.com/taskgraph-dev/tg/internal/types"
)

func (s *Store) CreateList(ctx context.Context, listKey, title string, listType types.ListType, metadata map[string]any) (*types.List, error) {
	metaJSON, err := encodeJSON(metadata)
	if err != nil {
		return nil, err
	}
	res, err := s.q.ExecContext(ctx, `
		INSERT INTO todo_lists (list_key, title, list_type, status, metadata_json)
		VALUES (?, ?, ?, 'active', ?)`,
		listKey, title, string(listType), metaJSON)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.New(apperr.DuplicateKey, "list key %q already exists", listKey)
		}
		return nil, apperr.Wrap(apperr.StorageFailure, err, "creating list")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "reading new list id")
	}
	return s.GetListByID(ctx, id)
}

func (s *Store) scanList(row *sql.Row) (*types.List, error) {
	var l types.List
	var metaJSON string
	err := row.Scan(&l.ID, &l.ListKey, &l.Title, &l.ListType, &l.Status, &metaJSON, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "scanning list")
	}
	l.Metadata, err = decodeJSON(metaJSON)
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "decoding list metadata")
	}
	return &l, nil
}

const listColumns = `id, list_key, title, list_type, status, metadata_json, created_at, updated_at`

func (s *Store) GetListByID(ctx context.Context, id int64) (*types.List, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+listColumns+` FROM todo_lists WHERE id = ?`, id)
	return s.scanList(row)
}

func (s *Store) GetListByKey(ctx context.Context, key string) (*types.List, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+listColumns+` FROM todo_lists WHERE list_key = ?`, key)
	return s.scanList(row)
}

func (s *Store) ListAll(ctx context.Context, limit int) ([]*types.List, error) {
	q := `SELECT ` + listColumns + ` FROM todo_lists`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "listing lists")
	}
	defer func() { _ = rows.Close() }()

	var out []*types.List
	for rows.Next() {
		var l types.List
		var metaJSON string
		if err := rows.Scan(&l.ID, &l.ListKey, &l.Title, &l.ListType, &l.Status, &metaJSON, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, apperr.Wrap(apperr.StorageFailure, err, "scanning list row")
		}
		l.Metadata, err = decodeJSON(metaJSON)
		if err != nil {
			return nil, apperr.Wrap(apperr.StorageFailure, err, "decoding list metadata")
		}
		out = append(out, &l)
	}
	naturalsort.SortByKey(out, func(l *types.List) string { return l.ListKey })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) UpdateList(ctx context.Context, id int64, patch storage.ListPatch) (*types.List, error) {
	existing, err := s.GetListByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.New(apperr.NotFound, "list %d not found", id)
	}

	title := existing.Title
	if patch.Title != nil {
		title = *patch.Title
	}
	status := existing.Status
	if patch.Status != nil {
		status = *patch.Status
	}
	meta := existing.Metadata
	if patch.Metadata != nil {
		meta = patch.Metadata
	}
	metaJSON, err := encodeJSON(meta)
	if err != nil {
		return nil, err
	}

	_, err = s.q.ExecContext(ctx, `
		UPDATE todo_lists SET title = ?, status = ?, metadata_json = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, title, string(status), metaJSON, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "updating list")
	}
	return s.GetListByID(ctx, id)
}

func (s *Store) DeleteList(ctx context.Context, id int64) (bool, error) {
	res, err := s.q.ExecContext(ctx, `DELETE FROM todo_lists WHERE id = ?`, id)
	if err != nil {
		return false, apperr.Wrap(apperr.StorageFailure, err, "deleting list")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperr.Wrap(apperr.StorageFailure, err, "reading delete result")
	}
	return n > 0, nil
}

// isUniqueViolation detects a UNIQUE constraint error from the driver.
// Checks the sqlite3 unique-constraint error the same way every other
// duplicate-key check in this package does.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed: UNIQUE")
}
