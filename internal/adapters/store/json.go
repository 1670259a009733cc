package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
)

const indexFile = "_index.json"

// JSONStore persists debate records as one JSON file per debate plus an
// append-ordered index used for listing. Writes go through a rename so a
// crash never leaves a half-written record or index behind.
type JSONStore struct {
	dir string
	mu  sync.Mutex
}

// NewJSONStore creates the storage directory and an empty index if absent.
func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	s := &JSONStore{dir: dir}

	if _, err := os.Stat(s.indexPath()); errors.Is(err, fs.ErrNotExist) {
		if err := s.writeIndex([]core.IndexEntry{}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Dir returns the storage directory.
func (s *JSONStore) Dir() string {
	return s.dir
}

func (s *JSONStore) indexPath() string {
	return filepath.Join(s.dir, indexFile)
}

func (s *JSONStore) recordPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save writes the record file, then appends an index entry.
func (s *JSONStore) Save(_ context.Context, record *core.DebateRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", core.ErrStorage(core.CodeSaveFailed, "marshaling debate record").WithCause(err)
	}

	if err := renameio.WriteFile(s.recordPath(record.DebateID), data, 0o644); err != nil {
		return "", core.ErrStorage(core.CodeSaveFailed,
			fmt.Sprintf("writing debate %s", record.DebateID)).WithCause(err)
	}

	index, err := s.loadIndex()
	if err != nil {
		return "", err
	}
	index = append(index, core.IndexEntry{
		DebateID:   record.DebateID,
		CreatedAt:  record.CreatedAt,
		TopicTitle: record.Topic.Title,
	})
	if err := s.writeIndex(index); err != nil {
		return "", err
	}

	return record.DebateID, nil
}

// Get reads one record by ID.
func (s *JSONStore) Get(_ context.Context, id string) (*core.DebateRecord, error) {
	data, err := os.ReadFile(s.recordPath(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, core.ErrNotFound("debate", id)
		}
		return nil, core.ErrStorage(core.CodeDecodeFailed,
			fmt.Sprintf("reading debate %s", id)).WithCause(err)
	}

	var record core.DebateRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, core.ErrStorage(core.CodeDecodeFailed,
			fmt.Sprintf("decoding debate %s", id)).WithCause(err)
	}
	return &record, nil
}

// List walks the index newest first, loading up to limit records. Index
// entries whose record file has gone missing are skipped, not errors. A
// non-positive limit yields no records.
func (s *JSONStore) List(ctx context.Context, limit int) ([]*core.DebateRecord, error) {
	if limit <= 0 {
		return []*core.DebateRecord{}, nil
	}

	s.mu.Lock()
	index, err := s.loadIndex()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	records := make([]*core.DebateRecord, 0, limit)
	for i := len(index) - 1; i >= 0 && len(records) < limit; i-- {
		record, err := s.Get(ctx, index[i].DebateID)
		if err != nil {
			if core.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// Delete removes the record file and its index entry.
func (s *JSONStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.recordPath(id)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, core.ErrStorage(core.CodeSaveFailed,
			fmt.Sprintf("deleting debate %s", id)).WithCause(err)
	}

	index, err := s.loadIndex()
	if err != nil {
		return true, err
	}
	kept := index[:0]
	for _, entry := range index {
		if entry.DebateID != id {
			kept = append(kept, entry)
		}
	}
	if err := s.writeIndex(kept); err != nil {
		return true, err
	}
	return true, nil
}

// loadIndex reads the index, treating a missing or corrupt file as empty so
// one bad write cannot brick the whole store.
func (s *JSONStore) loadIndex() ([]core.IndexEntry, error) {
	data, err := os.ReadFile(s.indexPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []core.IndexEntry{}, nil
		}
		return nil, core.ErrStorage(core.CodeIndexFailed, "reading index").WithCause(err)
	}

	var index []core.IndexEntry
	if err := json.Unmarshal(data, &index); err != nil {
		return []core.IndexEntry{}, nil
	}
	return index, nil
}

func (s *JSONStore) writeIndex(index []core.IndexEntry) error {
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return core.ErrStorage(core.CodeIndexFailed, "marshaling index").WithCause(err)
	}
	if err := renameio.WriteFile(s.indexPath(), data, 0o644); err != nil {
		return core.ErrStorage(core.CodeIndexFailed, "writing index").WithCause(err)
	}
	return nil
}

var _ core.DebateStore = (*JSONStore)(nil)
