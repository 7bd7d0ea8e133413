// Package sqlite stores the task list in a SQLite database.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pdxmph/todolist-tui/internal/storage"
	"github.com/pdxmph/todolist-tui/internal/task"
)

// DefaultFileName is the database used when no path is configured
const DefaultFileName = "tasks.db"

// Backend implements storage.Backend on a SQLite database file
type Backend struct {
	path string
}

// NewBackend creates a SQLite backend for path
func NewBackend(path string) storage.Backend {
	if path == "" {
		path = DefaultFileName
	}
	return &Backend{path: path}
}

// Name returns the backend identifier
func (b *Backend) Name() string {
	return "sqlite"
}

// Path returns the database file path
func (b *Backend) Path() string {
	return b.path
}

// open connects to the database and makes sure the schema is current
func (b *Backend) open() (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", b.path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := initialize(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return conn, nil
}

// Load returns all tasks in stored order. A database that does not exist yet
// is an empty list and is not created.
func (b *Backend) Load() ([]task.Task, error) {
	if _, err := os.Stat(b.path); errors.Is(err, fs.ErrNotExist) {
		return []task.Task{}, nil
	}

	tasks, err := b.load()
	if err != nil {
		return nil, &storage.IOError{Op: "load", Path: b.path, Err: err}
	}
	return tasks, nil
}

func (b *Backend) load() ([]task.Task, error) {
	conn, err := b.open()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.Query(`SELECT id, position, text, due FROM tasks ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		var r taskRow
		if err := rows.Scan(&r.ID, &r.Position, &r.Text, &r.Due); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}

		t, err := r.toTask()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// Save replaces every stored task in a single transaction. If anything fails
// the previous rows are left untouched.
func (b *Backend) Save(tasks []task.Task) error {
	if err := b.save(tasks); err != nil {
		return &storage.IOError{Op: "save", Path: b.path, Err: err}
	}
	return nil
}

func (b *Backend) save(tasks []task.Task) error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}

	conn, err := b.open()
	if err != nil {
		return err
	}
	defer conn.Close()

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clearing tasks: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO tasks (position, text, due) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range tasks {
		if _, err := stmt.Exec(i, t.Text(), newNullString(t.FormatTimestamp())); err != nil {
			return fmt.Errorf("inserting task %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Register the SQLite backend
func init() {
	storage.Register("sqlite", func(path string) storage.Backend { return NewBackend(path) })
}
