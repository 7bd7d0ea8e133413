package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/pdxmph/todolist-tui/internal/task"
)

// taskRow is a row of the tasks table
type taskRow struct {
	ID       int
	Position int
	Text     string
	Due      sql.NullString
}

// toTask validates a row the same way the text format validates a line
func (r taskRow) toTask() (task.Task, error) {
	if !r.Due.Valid {
		return task.New(r.Text, nil)
	}

	ts, err := task.ParseDateTime(r.Due.String)
	if err != nil {
		return task.Task{}, fmt.Errorf("row %d: parsing due %q: %w", r.ID, r.Due.String, err)
	}
	t, err := task.New(r.Text, &ts)
	if err != nil {
		return task.Task{}, fmt.Errorf("row %d: %w", r.ID, err)
	}
	return t, nil
}

// newNullString creates a sql.NullString from a string
func newNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
