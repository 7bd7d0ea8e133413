package sqlite

import (
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    position INTEGER NOT NULL DEFAULT 0,
    text TEXT NOT NULL CHECK (length(trim(text)) > 0),
    due TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

const positionIndex = `CREATE INDEX IF NOT EXISTS idx_tasks_position ON tasks (position);`

// initialize creates the schema if it does not exist and brings older
// databases up to date
func initialize(conn *sql.DB) error {
	if _, err := conn.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	if err := runMigrations(conn); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	if _, err := conn.Exec(positionIndex); err != nil {
		return fmt.Errorf("creating index: %w", err)
	}

	return nil
}
