package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/taskgraph-dev/tg/internal/apperr"
	"github.com/taskgraph-dev/tg/internal/naturalsort"
	"github.com/taskgraph-dev/tg/internal/types"
)

func (s *Store) CreateTag(ctx context.Context, name, color string) (*types.Tag, error) {
	res, err := s.q.ExecContext(ctx, `INSERT INTO list_tags (name, color) VALUES (?, ?)`, name, color)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.New(apperr.DuplicateKey, "tag %q already exists", name)
		}
		return nil, apperr.Wrap(apperr.StorageFailure, err, "creating tag")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "reading new tag id")
	}
	row := s.q.QueryRowContext(ctx, `SELECT id, name, color, created_at FROM list_tags WHERE id = ?`, id)
	return scanTag(row)
}

func scanTag(row *sql.Row) (*types.Tag, error) {
	var t types.Tag
	err := row.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "scanning tag")
	}
	return &t, nil
}

func (s *Store) GetTagByName(ctx context.Context, name string) (*types.Tag, error) {
	row := s.q.QueryRowContext(ctx, `SELECT id, name, color, created_at FROM list_tags WHERE name = ?`, name)
	return scanTag(row)
}

func (s *Store) ListTags(ctx context.Context) ([]*types.Tag, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT id, name, color, created_at FROM list_tags ORDER BY name`)
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "listing tags")
	}
	defer func() { _ = rows.Close() }()
	var out []*types.Tag
	for rows.Next() {
		var t types.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, apperr.Wrap(apperr.StorageFailure, err, "scanning tag row")
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (s *Store) DeleteTag(ctx context.Context, id int64) (bool, error) {
	res, err := s.q.ExecContext(ctx, `DELETE FROM list_tags WHERE id = ?`, id)
	if err != nil {
		return false, apperr.Wrap(apperr.StorageFailure, err, "deleting tag")
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *Store) AddListTag(ctx context.Context, listID, tagID int64) error {
	_, err := s.q.ExecContext(ctx, `INSERT OR IGNORE INTO list_tag_assignments (list_id, tag_id) VALUES (?, ?)`, listID, tagID)
	if err != nil {
		return apperr.Wrap(apperr.StorageFailure, err, "assigning tag")
	}
	return nil
}

func (s *Store) RemoveListTag(ctx context.Context, listID, tagID int64) (bool, error) {
	res, err := s.q.ExecContext(ctx, `DELETE FROM list_tag_assignments WHERE list_id = ? AND tag_id = ?`, listID, tagID)
	if err != nil {
		return false, apperr.Wrap(apperr.StorageFailure, err, "removing tag assignment")
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *Store) ListTagsForList(ctx context.Context, listID int64) ([]*types.Tag, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT t.id, t.name, t.color, t.created_at FROM list_tags t
		JOIN list_tag_assignments a ON a.tag_id = t.id
		WHERE a.list_id = ? ORDER BY t.name`, listID)
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "listing tags for list")
	}
	defer func() { _ = rows.Close() }()
	var out []*types.Tag
	for rows.Next() {
		var t types.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, apperr.Wrap(apperr.StorageFailure, err, "scanning tag row")
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (s *Store) GetListsByTagsAny(ctx context.Context, names []string) ([]*types.List, error) {
	if len(names) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(names)
	q := `SELECT DISTINCT ` + listColumnsAliased() + ` FROM todo_lists l
		JOIN list_tag_assignments a ON a.list_id = l.id
		JOIN list_tags t ON t.id = a.tag_id
		WHERE t.name IN (` + placeholders + `)`
	return s.queryListsByTags(ctx, q, args)
}

func (s *Store) GetListsByTagsAll(ctx context.Context, names []string) ([]*types.List, error) {
	if len(names) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(names)
	q := `SELECT ` + listColumnsAliased() + ` FROM todo_lists l
		JOIN list_tag_assignments a ON a.list_id = l.id
		JOIN list_tags t ON t.id = a.tag_id
		WHERE t.name IN (` + placeholders + `)
		GROUP BY l.id
		HAVING COUNT(DISTINCT t.name) = ?`
	args = append(args, len(names))
	return s.queryListsByTags(ctx, q, args)
}

func listColumnsAliased() string {
	return "l.id, l.list_key, l.title, l.list_type, l.status, l.metadata_json, l.created_at, l.updated_at"
}

func (s *Store) queryListsByTags(ctx context.Context, q string, args []any) ([]*types.List, error) {
	rows, err := s.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, err, "querying lists by tags")
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
	return out, rows.Err()
}

func inClause(values []string) (string, []any) {
	placeholders := ""
	args := make([]any, len(values))
	for i, v := range values {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += "?"
		args[i] = v
	}
	return placeholders, args
}
