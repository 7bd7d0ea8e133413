package storage

import (
	"sync"

	"github.com/pdxmph/todolist-tui/internal/task"
)

// MemoryBackend keeps tasks in process memory. Nothing survives a restart.
type MemoryBackend struct {
	mu    sync.Mutex
	tasks []task.Task
	saves int
}

// NewMemoryBackend creates a memory backend seeded with tasks
func NewMemoryBackend(tasks ...task.Task) *MemoryBackend {
	return &MemoryBackend{tasks: append([]task.Task(nil), tasks...)}
}

// Name returns the backend identifier
func (m *MemoryBackend) Name() string {
	return "memory"
}

// Path returns a placeholder since nothing touches disk
func (m *MemoryBackend) Path() string {
	return ":memory:"
}

// Load returns a copy of the stored tasks
func (m *MemoryBackend) Load() ([]task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]task.Task(nil), m.tasks...), nil
}

// Save replaces the stored tasks
func (m *MemoryBackend) Save(tasks []task.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append([]task.Task(nil), tasks...)
	m.saves++
	return nil
}

// Saves returns how many times Save has been called
func (m *MemoryBackend) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Register the memory backend
func init() {
	Register("memory", func(string) Backend { return NewMemoryBackend() })
}
