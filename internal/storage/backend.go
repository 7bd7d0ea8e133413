package storage

import (
	"fmt"

	"github.com/pdxmph/todolist-tui/internal/task"
)

// Backend defines where a task collection is persisted
type Backend interface {
	// Name returns the backend identifier (e.g., "file", "sqlite")
	Name() string

	// Path returns the location the backend reads and writes
	Path() string

	// Load returns every stored task. A missing store is an empty collection.
	Load() ([]task.Task, error)

	// Save replaces the stored collection with tasks, in the order given
	Save(tasks []task.Task) error
}

// BackendFactory creates a Backend bound to a path
type BackendFactory func(path string) Backend

// IOError reports a store that could not be read or written
type IOError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
