// Package todolist owns the in-memory task collection and the operations
// the presentation layer invokes on it.
package todolist

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pdxmph/todolist-tui/internal/storage"
	"github.com/pdxmph/todolist-tui/internal/task"
)

// ErrOutOfRange is returned by Remove for an index outside the snapshot
var ErrOutOfRange = errors.New("index out of range")

// List is the ordered task collection. It is always kept sorted by
// task.Compare. Load and Save may run on background goroutines, so every
// access goes through the mutex.
type List struct {
	mu      sync.RWMutex
	backend storage.Backend
	tasks   []task.Task
	dirty   bool
}

// New creates an empty list persisted through backend
func New(backend storage.Backend) *List {
	return &List{backend: backend}
}

// Backend returns the storage backend
func (l *List) Backend() storage.Backend {
	return l.backend
}

// Add validates and inserts a task, then re-sorts
func (l *List) Add(text string, ts *time.Time) (task.Task, error) {
	t, err := task.New(text, ts)
	if err != nil {
		return task.Task{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.tasks = append(l.tasks, t)
	task.Sort(l.tasks)
	l.dirty = true
	return t, nil
}

// AddInput adds a task from raw user input: date as YYYY-MM-DD and time as
// HH:MM, either of which may be empty.
func (l *List) AddInput(text, date, clock string) (task.Task, error) {
	ts, err := task.ParseTimestamp(date, clock)
	if err != nil {
		return task.Task{}, err
	}
	return l.Add(text, ts)
}

// Remove deletes the task at index in the current snapshot
func (l *List) Remove(index int) (task.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if index < 0 || index >= len(l.tasks) {
		return task.Task{}, fmt.Errorf("removing task %d of %d: %w", index, len(l.tasks), ErrOutOfRange)
	}

	removed := l.tasks[index]
	l.tasks = append(l.tasks[:index:index], l.tasks[index+1:]...)
	l.dirty = true
	return removed, nil
}

// Replace swaps in a whole new collection, sorted
func (l *List) Replace(tasks []task.Task) {
	sorted := append([]task.Task(nil), tasks...)
	task.Sort(sorted)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.tasks = sorted
	l.dirty = true
}

// Load replaces the collection with the backend's contents. On failure the
// collection is left exactly as it was.
func (l *List) Load() error {
	loaded, err := l.backend.Load()
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}
	task.Sort(loaded)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.tasks = loaded
	l.dirty = false
	return nil
}

// Save writes the current snapshot through the backend
func (l *List) Save() error {
	l.mu.RLock()
	snapshot := append([]task.Task(nil), l.tasks...)
	l.mu.RUnlock()

	if err := l.backend.Save(snapshot); err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if sameTasks(l.tasks, snapshot) {
		l.dirty = false
	}
	return nil
}

// Tasks returns a copy of the ordered snapshot
func (l *List) Tasks() []task.Task {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]task.Task(nil), l.tasks...)
}

// Len returns the number of tasks
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.tasks)
}

// Dirty reports whether there are changes since the last load or save
func (l *List) Dirty() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.dirty
}

func sameTasks(a, b []task.Task) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !task.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
