package sqlite

import (
	"context"

	"github.com/taskgraph-dev/tg/internal/apperr"
	"github.com/taskgraph-dev/tg/internal/types"
)

// GetStatistics computes the aggregate summary backing `tg stats progress`
// in a small, fixed number of queries rather than per-list/per-item calls.
func (s *Store) GetStatistics(ctx context.Context) (*types.Statistics, error) {
	stats := &types.Statistics{ByStatus: map[types.ItemStatus]int{}}

	row := s.q.QueryRowContext(ctx, `SELECT
		COUNT(*),
		SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END),
		SUM(CASE WHEN status = 'archived' THEN 1 ELSE 0 END)
		FROM todo_lists`)
	var active, archived sqlNullInt
	if err := row.Scan(&stats.TotalLists, &active, &archived); err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "computing list statistics")
	}
	stats.ActiveLists = active.val()
	stats.ArchivedLists = archived.val()

	rows, err := s.q.QueryContext(ctx, `SELECT status, COUNT(*) FROM todo_items GROUP BY status`)
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "computing item status statistics")
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			_ = rows.Close()
			return nil, apperr.Wrap(apperr.StorageFailure, err, "scanning item status row")
		}
		stats.ByStatus[types.ItemStatus(status)] = count
		stats.TotalItems += count
	}
	_ = rows.Close()

	row = s.q.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT d.dependent_item_id)
		FROM item_dependencies d
		JOIN todo_items req ON req.id = d.required_item_id
		WHERE d.dependency_type IN ('blocks', 'requires') AND req.status != 'completed'`)
	if err := row.Scan(&stats.BlockedItems); err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "computing blocked item statistics")
	}

	row = s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM list_tags`)
	if err := row.Scan(&stats.TotalTags); err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "computing tag statistics")
	}

	return stats, nil
}

type sqlNullInt struct {
	Int32 int
	Valid bool
}

func (n *sqlNullInt) Scan(value any) error {
	if value == nil {
		n.Valid = false
		return nil
	}
	n.Valid = true
	switch v := value.(type) {
	case int64:
		n.Int32 = int(v)
	case int:
		n.Int32 = v
	}
	return nil
}

func (n sqlNullInt) val() int {
	if !n.Valid {
		return 0
	}
	return n.Int32
}
