package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/taskgraph-dev/tg/internal/apperr"
	"github.com/taskgraph-dev/tg/internal/naturalsort"
	"github.com/taskgraph-dev/tg/internal/types"
)

func (s *Store) CreateItemDependency(ctx context.Context, dependentID, requiredID int64, depType types.DependencyType, metadata map[string]any) (*types.ItemDependency, error) {
	metaJSON, err := encodeJSON(metadata)
	if err != nil {
		return nil, err
	}
	res, err := s.q.ExecContext(ctx, `
		INSERT INTO item_dependencies (dependent_item_id, required_item_id, dependency_type, metadata_json)
		VALUES (?, ?, ?, ?)`, dependentID, requiredID, string(depType), metaJSON)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.New(apperr.DuplicateKey, "dependency already exists")
		}
		return nil, apperr.Wrap(apperr.StorageFailure, err, "creating dependency")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "reading new dependency id")
	}
	row := s.q.QueryRowContext(ctx, `SELECT id, dependent_item_id, required_item_id, dependency_type, metadata_json, created_at
		FROM item_dependencies WHERE id = ?`, id)
	return scanDependency(row)
}

func scanDependency(row *sql.Row) (*types.ItemDependency, error) {
	var d types.ItemDependency
	var depType, metaJSON string
	err := row.Scan(&d.ID, &d.DependentItemID, &d.RequiredItemID, &depType, &metaJSON, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "scanning dependency")
	}
	d.DependencyType = types.DependencyType(depType)
	d.Metadata, err = decodeJSON(metaJSON)
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "decoding dependency metadata")
	}
	return &d, nil
}

func (s *Store) RemoveItemDependency(ctx context.Context, dependentID, requiredID int64) (bool, error) {
	res, err := s.q.ExecContext(ctx, `DELETE FROM item_dependencies WHERE dependent_item_id = ? AND required_item_id = ?`, dependentID, requiredID)
	if err != nil {
		return false, apperr.Wrap(apperr.StorageFailure, err, "removing dependency")
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *Store) queryDependencies(ctx context.Context, q string, args ...any) ([]*types.ItemDependency, error) {
	rows, err := s.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "querying dependencies")
	}
	defer func() { _ = rows.Close() }()
	var out []*types.ItemDependency
	for rows.Next() {
		var d types.ItemDependency
		var depType, metaJSON string
		if err := rows.Scan(&d.ID, &d.DependentItemID, &d.RequiredItemID, &depType, &metaJSON, &d.CreatedAt); err != nil {
			return nil, apperr.Wrap(apperr.StorageFailure, err, "scanning dependency row")
		}
		d.DependencyType = types.DependencyType(depType)
		d.Metadata, err = decodeJSON(metaJSON)
		if err != nil {
			return nil, apperr.Wrap(apperr.StorageFailure, err, "decoding dependency metadata")
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

func (s *Store) GetItemDependencies(ctx context.Context, itemID int64) ([]*types.ItemDependency, error) {
	return s.queryDependencies(ctx, `SELECT id, dependent_item_id, required_item_id, dependency_type, metadata_json, created_at
		FROM item_dependencies WHERE dependent_item_id = ?`, itemID)
}

func (s *Store) GetItemDependents(ctx context.Context, itemID int64) ([]*types.ItemDependency, error) {
	return s.queryDependencies(ctx, `SELECT id, dependent_item_id, required_item_id, dependency_type, metadata_json, created_at
		FROM item_dependencies WHERE required_item_id = ?`, itemID)
}

// GetItemBlockers returns required items, linked via an enforced
// (blocks/requires) edge, whose status is not yet completed.
func (s *Store) GetItemBlockers(ctx context.Context, id int64) ([]*types.Item, error) {
	blockers, err := s.queryItems(ctx, `
		SELECT `+qualifiedItemColumns("req")+`
		FROM item_dependencies d
		JOIN todo_items req ON req.id = d.required_item_id
		WHERE d.dependent_item_id = ?
			AND d.dependency_type IN (?, ?)
			AND req.status != ?`,
		id, string(types.DependencyBlocks), string(types.DependencyRequires), string(types.StatusCompleted))
	if err != nil {
		return nil, err
	}
	naturalsort.SortByKey(blockers, func(it *types.Item) string { return it.ItemKey })
	return blockers, nil
}

func qualifiedItemColumns(alias string) string {
	return alias + ".id, " + alias + ".list_id, " + alias + ".item_key, " + alias + ".content, " +
		alias + ".position, " + alias + ".status, " + alias + ".completion_states_json, " +
		alias + ".parent_item_id, " + alias + ".metadata_json, " + alias + ".started_at, " +
		alias + ".completed_at, " + alias + ".created_at, " + alias + ".updated_at"
}

// HasEnforcedPath reports whether a directed path of enforced
// (blocks/requires) edges exists from fromID to toID. Used by the
// dependency engine's cycle check: before inserting A --> B, it asks
// whether B can already reach A.
func (s *Store) HasEnforcedPath(ctx context.Context, fromID, toID int64) (bool, error) {
	visited := map[int64]bool{}
	var dfs func(node int64) (bool, error)
	dfs = func(node int64) (bool, error) {
		if node == toID {
			return true, nil
		}
		if visited[node] {
			return false, nil
		}
		visited[node] = true
		rows, err := s.q.QueryContext(ctx, `
			SELECT required_item_id FROM item_dependencies
			WHERE dependent_item_id = ? AND dependency_type IN (?, ?)`,
			node, string(types.DependencyBlocks), string(types.DependencyRequires))
		if err != nil {
			return false, apperr.Wrap(apperr.StorageFailure, err, "walking dependency graph")
		}
		var next []int64
		for rows.Next() {
			var n int64
			if err := rows.Scan(&n); err != nil {
				_ = rows.Close()
				return false, apperr.Wrap(apperr.StorageFailure, err, "scanning dependency edge")
			}
			next = append(next, n)
		}
		_ = rows.Close()
		for _, n := range next {
			found, err := dfs(n)
			if err != nil {
				return false, err
			}
			if found {
				return true, nil
			}
		}
		return false, nil
	}
	return dfs(fromID)
}
