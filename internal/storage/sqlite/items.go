package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/taskgraph-dev/tg/internal/apperr"
	"github.com/taskgraph-dev/tg/internal/naturalsort"
	"github.com/taskgraph-dev/tg/internal/storage"
	"github.com/taskgraph-dev/tg/internal/types"
)

const itemColumns = `id, list_id, item_key, content, position, status, completion_states_json,
	parent_item_id, metadata_json, started_at, completed_at, created_at, updated_at`

func (s *Store) scanItemRow(scan func(dest ...any) error) (*types.Item, error) {
	var it types.Item
	var parentID sql.NullInt64
	var startedAt, completedAt sql.NullTime
	var completionJSON, metaJSON string
	err := scan(&it.ID, &it.ListID, &it.ItemKey, &it.Content, &it.Position, &it.Status,
		&completionJSON, &parentID, &metaJSON, &startedAt, &completedAt, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "scanning item")
	}
	if parentID.Valid {
		v := parentID.Int64
		it.ParentItemID = &v
	}
	if startedAt.Valid {
		v := startedAt.Time
		it.StartedAt = &v
	}
	if completedAt.Valid {
		v := completedAt.Time
		it.CompletedAt = &v
	}
	it.CompletionStates, err = decodeJSON(completionJSON)
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "decoding completion states")
	}
	it.Metadata, err = decodeJSON(metaJSON)
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "decoding item metadata")
	}
	return &it, nil
}

func (s *Store) CreateItem(ctx context.Context, f storage.ItemFields) (*types.Item, error) {
	if f.Status == "" {
		f.Status = types.StatusPending
	}
	metaJSON, err := encodeJSON(f.Metadata)
	if err != nil {
		return nil, err
	}
	var parentArg any
	if f.ParentItemID != nil {
		parentArg = *f.ParentItemID
	}
	res, err := s.q.ExecContext(ctx, `
		INSERT INTO todo_items (list_id, item_key, content, position, status, parent_item_id, metadata_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.ListID, f.ItemKey, f.Content, f.Position, string(f.Status), parentArg, metaJSON)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.New(apperr.DuplicateKey, "item key %q already exists in this scope", f.ItemKey)
		}
		return nil, apperr.Wrap(apperr.StorageFailure, err, "creating item")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "reading new item id")
	}
	return s.GetItemByID(ctx, id)
}

func (s *Store) GetItemByID(ctx context.Context, id int64) (*types.Item, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM todo_items WHERE id = ?`, id)
	return s.scanItemRow(row.Scan)
}

// GetItemByKey returns the first match by (list, key) without regard to
// parent scope. Precise lookup when subitem keys repeat
// across parents requires GetItemByKeyAndParent instead.
func (s *Store) GetItemByKey(ctx context.Context, listID int64, key string) (*types.Item, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM todo_items WHERE list_id = ? AND item_key = ? LIMIT 1`, listID, key)
	return s.scanItemRow(row.Scan)
}

func (s *Store) GetItemByKeyAndParent(ctx context.Context, listID int64, key string, parentID *int64) (*types.Item, error) {
	var row *sql.Row
	if parentID == nil {
		row = s.q.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM todo_items WHERE list_id = ? AND item_key = ? AND parent_item_id IS NULL`, listID, key)
	} else {
		row = s.q.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM todo_items WHERE list_id = ? AND item_key = ? AND parent_item_id = ?`, listID, key, *parentID)
	}
	return s.scanItemRow(row.Scan)
}

func (s *Store) queryItems(ctx context.Context, query string, args ...any) ([]*types.Item, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "querying items")
	}
	defer func() { _ = rows.Close() }()
	var out []*types.Item
	for rows.Next() {
		it, err := s.scanItemRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// GetListItems returns root items in natural order, each immediately
// followed by its own children in natural order (DFS-grouped); children of
// missing/orphaned roots are appended at the end.
func (s *Store) GetListItems(ctx context.Context, listID int64, status *types.ItemStatus, limit int) ([]*types.Item, error) {
	all, err := s.queryItems(ctx, `SELECT `+itemColumns+` FROM todo_items WHERE list_id = ?`, listID)
	if err != nil {
		return nil, err
	}

	byParent := map[int64][]*types.Item{}
	var roots []*types.Item
	present := map[int64]bool{}
	for _, it := range all {
		present[it.ID] = true
	}
	for _, it := range all {
		if it.ParentItemID == nil {
			roots = append(roots, it)
		} else if present[*it.ParentItemID] {
			byParent[*it.ParentItemID] = append(byParent[*it.ParentItemID], it)
		}
	}
	naturalsort.SortByKey(roots, func(it *types.Item) string { return it.ItemKey })
	for pid := range byParent {
		naturalsort.SortByKey(byParent[pid], func(it *types.Item) string { return it.ItemKey })
	}

	var ordered []*types.Item
	var dfs func(it *types.Item)
	dfs = func(it *types.Item) {
		ordered = append(ordered, it)
		for _, child := range byParent[it.ID] {
			dfs(child)
		}
	}
	for _, r := range roots {
		dfs(r)
	}
	// Orphans: children whose parent id does not exist among this list's items.
	for _, it := range all {
		if it.ParentItemID != nil && !present[*it.ParentItemID] {
			ordered = append(ordered, it)
		}
	}

	if status != nil {
		filtered := ordered[:0:0]
		for _, it := range ordered {
			if it.Status == *status {
				filtered = append(filtered, it)
			}
		}
		ordered = filtered
	}
	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}
	return ordered, nil
}

func (s *Store) UpdateItem(ctx context.Context, id int64, patch storage.ItemPatch) (*types.Item, error) {
	existing, err := s.GetItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.New(apperr.NotFound, "item %d not found", id)
	}

	content := existing.Content
	if patch.Content != nil {
		content = *patch.Content
	}
	status := existing.Status
	if patch.Status != nil {
		status = *patch.Status
	}
	position := existing.Position
	if patch.Position != nil {
		position = *patch.Position
	}
	parentID := existing.ParentItemID
	if patch.ParentItemID != nil {
		parentID = *patch.ParentItemID
	}
	completion := existing.CompletionStates
	if patch.CompletionStates != nil {
		completion = patch.CompletionStates
	}
	meta := existing.Metadata
	if patch.Metadata != nil {
		meta = patch.Metadata
	}
	startedAt := existing.StartedAt
	if patch.StartedAt != nil {
		startedAt = *patch.StartedAt
	}
	completedAt := existing.CompletedAt
	if patch.CompletedAt != nil {
		completedAt = *patch.CompletedAt
	}

	completionJSON, err := encodeJSON(completion)
	if err != nil {
		return nil, err
	}
	metaJSON, err := encodeJSON(meta)
	if err != nil {
		return nil, err
	}
	var parentArg, startedArg, completedArg any
	if parentID != nil {
		parentArg = *parentID
	}
	if startedAt != nil {
		startedArg = *startedAt
	}
	if completedAt != nil {
		completedArg = *completedAt
	}

	_, err = s.q.ExecContext(ctx, `
		UPDATE todo_items SET content = ?, status = ?, position = ?, parent_item_id = ?,
			completion_states_json = ?, metadata_json = ?, started_at = ?, completed_at = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		content, string(status), position, parentArg, completionJSON, metaJSON, startedArg, completedArg, id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.New(apperr.DuplicateKey, "item key already exists in the target scope")
		}
		return nil, apperr.Wrap(apperr.StorageFailure, err, "updating item")
	}
	return s.GetItemByID(ctx, id)
}

func (s *Store) DeleteItem(ctx context.Context, id int64) (bool, error) {
	res, err := s.q.ExecContext(ctx, `DELETE FROM todo_items WHERE id = ?`, id)
	if err != nil {
		return false, apperr.Wrap(apperr.StorageFailure, err, "deleting item")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperr.Wrap(apperr.StorageFailure, err, "reading delete result")
	}
	return n > 0, nil
}

func (s *Store) GetNextPosition(ctx context.Context, listID int64, parentID *int64) (int, error) {
	var row *sql.Row
	if parentID == nil {
		row = s.q.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), 0) FROM todo_items WHERE list_id = ? AND parent_item_id IS NULL`, listID)
	} else {
		row = s.q.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), 0) FROM todo_items WHERE list_id = ? AND parent_item_id = ?`, listID, *parentID)
	}
	var maxPos int
	if err := row.Scan(&maxPos); err != nil {
		return 0, apperr.Wrap(apperr.StorageFailure, err, "computing next position")
	}
	return maxPos + 1, nil
}

func (s *Store) GetItemChildren(ctx context.Context, id int64) ([]*types.Item, error) {
	children, err := s.queryItems(ctx, `SELECT `+itemColumns+` FROM todo_items WHERE parent_item_id = ?`, id)
	if err != nil {
		return nil, err
	}
	naturalsort.SortByKey(children, func(it *types.Item) string { return it.ItemKey })
	return children, nil
}

func (s *Store) GetChildrenStatusSummary(ctx context.Context, id int64) (types.ChildrenSummary, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT status, COUNT(*) FROM todo_items WHERE parent_item_id = ? GROUP BY status`, id)
	if err != nil {
		return types.ChildrenSummary{}, apperr.Wrap(apperr.StorageFailure, err, "summarizing children status")
	}
	defer func() { _ = rows.Close() }()
	var sum types.ChildrenSummary
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return types.ChildrenSummary{}, apperr.Wrap(apperr.StorageFailure, err, "scanning status summary")
		}
		sum.Total += count
		switch types.ItemStatus(status) {
		case types.StatusPending:
			sum.Pending = count
		case types.StatusInProgress:
			sum.InProgress = count
		case types.StatusCompleted:
			sum.Completed = count
		case types.StatusFailed:
			sum.Failed = count
		}
	}
	return sum, rows.Err()
}

func (s *Store) HasPendingChildren(ctx context.Context, id int64) (bool, error) {
	var count int
	err := s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM todo_items WHERE parent_item_id = ? AND status = ?`, id, string(types.StatusPending)).Scan(&count)
	if err != nil {
		return false, apperr.Wrap(apperr.StorageFailure, err, "checking pending children")
	}
	return count > 0, nil
}

func (s *Store) GetRootItems(ctx context.Context, listID int64) ([]*types.Item, error) {
	roots, err := s.queryItems(ctx, `SELECT `+itemColumns+` FROM todo_items WHERE list_id = ? AND parent_item_id IS NULL`, listID)
	if err != nil {
		return nil, err
	}
	naturalsort.SortByKey(roots, func(it *types.Item) string { return it.ItemKey })
	return roots, nil
}

// GetItemDepth walks the parent chain iteratively (prefer a
// bounded iterative walk over recursion to guard against storage-level
// cycles), capped at types.MaxHierarchyDepth.
func (s *Store) GetItemDepth(ctx context.Context, id int64) (int, error) {
	depth := 0
	current := id
	visited := map[int64]bool{}
	for {
		if visited[current] {
			return 0, apperr.New(apperr.StorageFailure, "cycle detected walking parent chain from item %d", id)
		}
		visited[current] = true
		it, err := s.GetItemByID(ctx, current)
		if err != nil {
			return 0, err
		}
		if it == nil || it.ParentItemID == nil {
			return depth, nil
		}
		depth++
		if depth > types.MaxHierarchyDepth {
			return depth, apperr.New(apperr.StorageFailure, "item %d exceeds max hierarchy depth %d", id, types.MaxHierarchyDepth)
		}
		current = *it.ParentItemID
	}
}

// GetItemPath returns the chain from root to item, capped at
// types.MaxHierarchyDepth entries.
func (s *Store) GetItemPath(ctx context.Context, id int64) ([]*types.Item, error) {
	var chain []*types.Item
	current := id
	visited := map[int64]bool{}
	for {
		if visited[current] {
			return nil, apperr.New(apperr.StorageFailure, "cycle detected walking parent chain from item %d", id)
		}
		visited[current] = true
		it, err := s.GetItemByID(ctx, current)
		if err != nil {
			return nil, err
		}
		if it == nil {
			break
		}
		chain = append(chain, it)
		if it.ParentItemID == nil {
			break
		}
		if len(chain) > types.MaxHierarchyDepth {
			return nil, apperr.New(apperr.StorageFailure, "item %d exceeds max hierarchy depth %d", id, types.MaxHierarchyDepth)
		}
		current = *it.ParentItemID
	}
	// reverse: chain was built leaf -> root
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// Reorder assigns fresh 1-based positions to a full sibling set in one pass.
// the bulk natural-ordering operation, grounded on the pattern from the
// batch update helpers (batch_ops.go).
func (s *Store) Reorder(ctx context.Context, listID int64, parentID *int64, orderedItemIDs []int64) error {
	for i, id := range orderedItemIDs {
		res, err := s.q.ExecContext(ctx, `UPDATE todo_items SET position = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND list_id = ?`, i+1, id, listID)
		if err != nil {
			return apperr.Wrap(apperr.StorageFailure, err, "reordering item %d", id)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperr.New(apperr.NotFound, "item %d not found in list %d", id, listID)
		}
	}
	return nil
}
