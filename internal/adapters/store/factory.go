package store

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
)

// New creates a DebateStore for the configured backend. The JSON backend
// treats path as a directory; the SQLite backend treats it as the database
// file, appending a .db extension if missing.
func New(backend, path string) (core.DebateStore, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", "json":
		return NewJSONStore(path)
	case "sqlite":
		if !strings.HasSuffix(path, ".db") {
			path = strings.TrimSuffix(path, filepath.Ext(path)) + ".db"
		}
		return NewSQLiteStore(path)
	default:
		return nil, core.ErrValidation(core.CodeInvalidConfig,
			fmt.Sprintf("unknown storage backend %q: must be json or sqlite", backend))
	}
}

// Closeable is an optional interface for stores that hold resources.
type Closeable interface {
	Close() error
}

// Close safely closes a store if it implements Closeable.
func Close(s core.DebateStore) error {
	if closeable, ok := s.(Closeable); ok {
		return closeable.Close()
	}
	return nil
}
