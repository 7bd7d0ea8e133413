package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pdxmph/todolist-tui/internal/codec"
	"github.com/pdxmph/todolist-tui/internal/task"
)

// DefaultFileName is the tasks file used when no path is configured
const DefaultFileName = "tasks.txt"

// FileBackend stores tasks in the line-oriented text format
type FileBackend struct {
	path string
}

// NewFileBackend creates a file backend for path
func NewFileBackend(path string) *FileBackend {
	if path == "" {
		path = DefaultFileName
	}
	return &FileBackend{path: path}
}

// Name returns the backend identifier
func (b *FileBackend) Name() string {
	return "file"
}

// Path returns the tasks file path
func (b *FileBackend) Path() string {
	return b.path
}

// Load reads the tasks file. A file that does not exist yet is an empty list.
func (b *FileBackend) Load() ([]task.Task, error) {
	f, err := os.Open(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []task.Task{}, nil
	}
	if err != nil {
		return nil, &IOError{Op: "load", Path: b.path, Err: err}
	}
	defer f.Close()

	tasks, err := codec.Decode(f)
	if err != nil {
		var ferr *codec.FormatError
		if errors.As(err, &ferr) {
			return nil, fmt.Errorf("%s: %w", b.path, err)
		}
		return nil, &IOError{Op: "load", Path: b.path, Err: err}
	}

	return tasks, nil
}

// Save writes tasks to a temporary file next to the target and renames it
// into place, so readers never see a half-written file.
func (b *FileBackend) Save(tasks []task.Task) error {
	if err := b.save(tasks); err != nil {
		return &IOError{Op: "save", Path: b.path, Err: err}
	}
	return nil
}

func (b *FileBackend) save(tasks []task.Task) error {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if err := codec.Encode(tmp, tasks); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if info, err := os.Stat(b.path); err == nil {
		// keep the mode of an existing file
		if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
			return fmt.Errorf("setting file mode: %w", err)
		}
	} else if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("setting file mode: %w", err)
	}

	if err := os.Rename(tmpPath, b.path); err != nil {
		return fmt.Errorf("replacing tasks file: %w", err)
	}
	return nil
}

// Register the file backend
func init() {
	Register("file", func(path string) Backend { return NewFileBackend(path) })
}
