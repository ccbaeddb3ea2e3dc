package sqlite

import (
	"context"
	"database/sql"

	"github.com/taskgraph-dev/tg/internal/apperr"
	"github.com/taskgraph-dev/tg/internal/storage"
	"github.com/taskgraph-dev/tg/internal/types"
)

func (s *Store) RecordHistory(ctx context.Context, f storage.HistoryFields) (*types.HistoryEntry, error) {
	oldJSON, err := encodeNullableJSON(f.OldValue)
	if err != nil {
		return nil, err
	}
	newJSON, err := encodeNullableJSON(f.NewValue)
	if err != nil {
		return nil, err
	}
	var itemArg, listArg any
	if f.ItemID != nil {
		itemArg = *f.ItemID
	}
	if f.ListID != nil {
		listArg = *f.ListID
	}
	res, err := s.q.ExecContext(ctx, `
		INSERT INTO todo_history (item_id, list_id, action, old_value_json, new_value_json, user_context)
		VALUES (?, ?, ?, ?, ?, ?)`, itemArg, listArg, f.Action, oldJSON, newJSON, f.UserContext)
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "recording history entry")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "reading new history id")
	}
	row := s.q.QueryRowContext(ctx, `SELECT id, item_id, list_id, action, old_value_json, new_value_json, user_context, timestamp
		FROM todo_history WHERE id = ?`, id)
	return scanHistory(row)
}

func scanHistory(row *sql.Row) (*types.HistoryEntry, error) {
	var h types.HistoryEntry
	var itemID, listID sql.NullInt64
	var oldJSON, newJSON sql.NullString
	err := row.Scan(&h.ID, &itemID, &listID, &h.Action, &oldJSON, &newJSON, &h.UserContext, &h.Timestamp)
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "scanning history entry")
	}
	if itemID.Valid {
		v := itemID.Int64
		h.ItemID = &v
	}
	if listID.Valid {
		v := listID.Int64
		h.ListID = &v
	}
	if oldJSON.Valid && oldJSON.String != "" {
		m, err := decodeJSON(oldJSON.String)
		if err != nil {
			return nil, apperr.Wrap(apperr.StorageFailure, err, "decoding history old_value")
		}
		h.OldValue = m
	}
	if newJSON.Valid && newJSON.String != "" {
		m, err := decodeJSON(newJSON.String)
		if err != nil {
			return nil, apperr.Wrap(apperr.StorageFailure, err, "decoding history new_value")
		}
		h.NewValue = m
	}
	return &h, nil
}

func (s *Store) queryHistory(ctx context.Context, q string, args ...any) ([]*types.HistoryEntry, error) {
	rows, err := s.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "querying history")
	}
	defer func() { _ = rows.Close() }()
	var out []*types.HistoryEntry
	for rows.Next() {
		var h types.HistoryEntry
		var itemID, listID sql.NullInt64
		var oldJSON, newJSON sql.NullString
		if err := rows.Scan(&h.ID, &itemID, &listID, &h.Action, &oldJSON, &newJSON, &h.UserContext, &h.Timestamp); err != nil {
			return nil, apperr.Wrap(apperr.StorageFailure, err, "scanning history row")
		}
		if itemID.Valid {
			v := itemID.Int64
			h.ItemID = &v
		}
		if listID.Valid {
			v := listID.Int64
			h.ListID = &v
		}
		if oldJSON.Valid && oldJSON.String != "" {
			if h.OldValue, err = decodeJSON(oldJSON.String); err != nil {
				return nil, apperr.Wrap(apperr.StorageFailure, err, "decoding history old_value")
			}
		}
		if newJSON.Valid && newJSON.String != "" {
			if h.NewValue, err = decodeJSON(newJSON.String); err != nil {
				return nil, apperr.Wrap(apperr.StorageFailure, err, "decoding history new_value")
			}
		}
		out = append(out, &h)
	}
	return out, rows.Err()
}

func (s *Store) GetItemHistory(ctx context.Context, itemID int64, limit int) ([]*types.HistoryEntry, error) {
	q := `SELECT id, item_id, list_id, action, old_value_json, new_value_json, user_context, timestamp
		FROM todo_history WHERE item_id = ? ORDER BY timestamp DESC`
	args := []any{itemID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryHistory(ctx, q, args...)
}

func (s *Store) GetListHistory(ctx context.Context, listID int64, limit int) ([]*types.HistoryEntry, error) {
	q := `SELECT id, item_id, list_id, action, old_value_json, new_value_json, user_context, timestamp
		FROM todo_history WHERE list_id = ? ORDER BY timestamp DESC, id DESC`
	args := []any{listID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryHistory(ctx, q, args...)
}

func encodeNullableJSON(m map[string]any) (any, error) {
	if m == nil {
		return nil, nil
	}
	s, err := encodeJSON(m)
	if err != nil {
		return nil, err
	}
	return s, nil
}
