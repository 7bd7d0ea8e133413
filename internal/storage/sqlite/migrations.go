package sqlite

import (
	"database/sql"
	"fmt"
	"log"
)

// runMigrations applies any pending schema migrations
func runMigrations(conn *sql.DB) error {
	if err := runPositionMigration(conn); err != nil {
		return err
	}

	return nil
}

// runPositionMigration adds the position column to databases created before
// tasks kept an explicit order. Existing rows keep their insertion order.
func runPositionMigration(conn *sql.DB) error {
	var count int
	err := conn.QueryRow(`
		SELECT COUNT(*)
		FROM pragma_table_info('tasks')
		WHERE name = 'position'
	`).Scan(&count)

	if err != nil {
		return fmt.Errorf("checking for position column: %w", err)
	}

	if count > 0 {
		return nil
	}

	log.Println("Running migration: Adding task position column...")

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`ALTER TABLE tasks ADD COLUMN position INTEGER NOT NULL DEFAULT 0`)
	if err != nil && err.Error() != "duplicate column name: position" {
		return fmt.Errorf("adding position column: %w", err)
	}

	if _, err := tx.Exec(`UPDATE tasks SET position = id`); err != nil {
		return fmt.Errorf("backfilling positions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration: %w", err)
	}

	log.Println("Migration completed successfully")
	return nil
}
