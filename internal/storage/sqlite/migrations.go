package sqlite

import (
	"database/sql"
	"fmt"
)

// migration is one forward-only schema change, applied at most once per
// database file. Follows an ordered migrationsList convention:
// new migrations are appended, never reordered or removed.
type migration struct {
	Name string
	Func func(*sql.DB) error
}

var migrationsList = []migration{
	{"schema_migrations_table", migrateSchemaMigrationsTable},
	{"item_depth_guard_index", migrateItemDepthGuardIndex},
}

func migrateSchemaMigrationsTable(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

// migrateItemDepthGuardIndex adds an index on todo_items(parent_item_id);
// harmless if already present from a fresh schema.
func migrateItemDepthGuardIndex(db *sql.DB) error {
	_, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_items_parent_id ON todo_items(parent_item_id)`)
	return err
}

// runMigrations applies every migration not yet recorded, in order. No
// transaction is used: each migration is applied and then recorded by a
// separate statement, so a crash between the two leaves it unrecorded and
// it runs again on the next open (both migrations are idempotent).
func runMigrations(db *sql.DB) error {
	for _, m := range migrationsList {
		if m.Name != "schema_migrations_table" {
			var count int
			err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations WHERE name = ?`, m.Name).Scan(&count)
			if err != nil {
				return fmt.Errorf("checking migration %s: %w", m.Name, err)
			}
			if count > 0 {
				continue
			}
		}
		if err := m.Func(db); err != nil {
			return fmt.Errorf("applying migration %s: %w", m.Name, err)
		}
		if m.Name != "schema_migrations_table" {
			if _, err := db.Exec(`INSERT OR IGNORE INTO schema_migrations (name) VALUES (?)`, m.Name); err != nil {
				return fmt.Errorf("recording migration %s: %w", m.Name, err)
			}
		}
	}
	return nil
}
