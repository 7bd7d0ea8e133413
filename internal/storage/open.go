package storage

import (
	"fmt"
)

// DefaultBackend is used when no backend is named
const DefaultBackend = "file"

// Open creates the named backend bound to path.
// An empty name selects the plain text file backend.
func Open(name, path string) (Backend, error) {
	if name == "" {
		name = DefaultBackend
	}

	backend, err := CreateBackend(name, path)
	if err != nil {
		return nil, fmt.Errorf("creating backend %s: %w", name, err)
	}

	return backend, nil
}
