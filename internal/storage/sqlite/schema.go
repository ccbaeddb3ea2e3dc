package sqlite

// schema is applied in full on every open; every statement is idempotent
// (CREATE TABLE/INDEX IF NOT EXISTS), following a "schema plus
// forward-only migrations" bootstrap.
const schema = `
CREATE TABLE IF NOT EXISTS todo_lists (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	list_key TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	list_type TEXT NOT NULL DEFAULT 'sequential',
	status TEXT NOT NULL DEFAULT 'active',
	metadata_json TEXT NOT NULL DEFAULT '{}',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS todo_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	list_id INTEGER NOT NULL REFERENCES todo_lists(id) ON DELETE CASCADE,
	item_key TEXT NOT NULL,
	content TEXT NOT NULL,
	position INTEGER NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	completion_states_json TEXT NOT NULL DEFAULT '{}',
	parent_item_id INTEGER REFERENCES todo_items(id) ON DELETE CASCADE,
	metadata_json TEXT NOT NULL DEFAULT '{}',
	started_at DATETIME,
	completed_at DATETIME,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (list_id, parent_item_id, item_key)
);

CREATE INDEX IF NOT EXISTS idx_items_list_status ON todo_items(list_id, status);
CREATE INDEX IF NOT EXISTS idx_items_list_position ON todo_items(list_id, position);
CREATE INDEX IF NOT EXISTS idx_items_parent_status ON todo_items(parent_item_id, status);

CREATE TABLE IF NOT EXISTS list_properties (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	list_id INTEGER NOT NULL REFERENCES todo_lists(id) ON DELETE CASCADE,
	property_key TEXT NOT NULL,
	property_value TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (list_id, property_key)
);

CREATE TABLE IF NOT EXISTS item_properties (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	item_id INTEGER NOT NULL REFERENCES todo_items(id) ON DELETE CASCADE,
	property_key TEXT NOT NULL,
	property_value TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (item_id, property_key)
);

CREATE INDEX IF NOT EXISTS idx_item_properties_key_value ON item_properties(property_key, property_value);

CREATE TABLE IF NOT EXISTS list_tags (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	color TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS list_tag_assignments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	list_id INTEGER NOT NULL REFERENCES todo_lists(id) ON DELETE CASCADE,
	tag_id INTEGER NOT NULL REFERENCES list_tags(id) ON DELETE CASCADE,
	assigned_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (list_id, tag_id)
);

CREATE TABLE IF NOT EXISTS item_dependencies (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	dependent_item_id INTEGER NOT NULL REFERENCES todo_items(id) ON DELETE CASCADE,
	required_item_id INTEGER NOT NULL REFERENCES todo_items(id) ON DELETE CASCADE,
	dependency_type TEXT NOT NULL DEFAULT 'blocks',
	metadata_json TEXT NOT NULL DEFAULT '{}',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (dependent_item_id, required_item_id)
);

CREATE INDEX IF NOT EXISTS idx_dependencies_dependent ON item_dependencies(dependent_item_id);
CREATE INDEX IF NOT EXISTS idx_dependencies_required ON item_dependencies(required_item_id);

CREATE TABLE IF NOT EXISTS todo_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	item_id INTEGER REFERENCES todo_items(id) ON DELETE SET NULL,
	list_id INTEGER REFERENCES todo_lists(id) ON DELETE SET NULL,
	action TEXT NOT NULL,
	old_value_json TEXT,
	new_value_json TEXT,
	user_context TEXT NOT NULL DEFAULT '',
	timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_history_item ON todo_history(item_id);
CREATE INDEX IF NOT EXISTS idx_history_list ON todo_history(list_id);
CREATE INDEX IF NOT EXISTS idx_history_timestamp ON todo_history(timestamp);
`

// SchemaSQL returns the full bootstrap DDL, for `tg schema`.
func SchemaSQL() string { return schema }
