package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
	_ "modernc.org/sqlite"
)

// Fixed-width fraction keeps lexicographic and chronological order aligned.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS debates (
	debate_id   TEXT PRIMARY KEY,
	topic_title TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	record      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_debates_created_at ON debates(created_at);
`

// SQLiteStore persists debate records in a single SQLite database. The full
// record travels as a JSON column; the indexed columns exist for listing
// and lookup only, so the JSON file format and this backend stay
// interchangeable.
type SQLiteStore struct {
	dbPath string
	db     *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("applying schema: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &SQLiteStore{dbPath: dbPath, db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save upserts the record keyed by its debate ID.
func (s *SQLiteStore) Save(ctx context.Context, record *core.DebateRecord) (string, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return "", core.ErrStorage(core.CodeSaveFailed, "marshaling debate record").WithCause(err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO debates (debate_id, topic_title, created_at, record)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(debate_id) DO UPDATE SET
			topic_title = excluded.topic_title,
			created_at  = excluded.created_at,
			record      = excluded.record`,
		record.DebateID,
		record.Topic.Title,
		record.CreatedAt.UTC().Format(timeLayout),
		string(data),
	)
	if err != nil {
		return "", core.ErrStorage(core.CodeSaveFailed,
			fmt.Sprintf("writing debate %s", record.DebateID)).WithCause(err)
	}
	return record.DebateID, nil
}

// Get retrieves one record by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*core.DebateRecord, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT record FROM debates WHERE debate_id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound("debate", id)
	}
	if err != nil {
		return nil, core.ErrStorage(core.CodeDecodeFailed,
			fmt.Sprintf("reading debate %s", id)).WithCause(err)
	}

	var record core.DebateRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, core.ErrStorage(core.CodeDecodeFailed,
			fmt.Sprintf("decoding debate %s", id)).WithCause(err)
	}
	return &record, nil
}

// List returns up to limit records, newest first. A non-positive limit
// yields no records; SQLite would read a negative LIMIT as unbounded.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]*core.DebateRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT record FROM debates ORDER BY created_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, core.ErrStorage(core.CodeIndexFailed, "listing debates").WithCause(err)
	}
	defer rows.Close()

	var records []*core.DebateRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, core.ErrStorage(core.CodeDecodeFailed, "scanning debate row").WithCause(err)
		}
		var record core.DebateRecord
		if err := json.Unmarshal([]byte(data), &record); err != nil {
			// A corrupt row should not hide the rest.
			continue
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, core.ErrStorage(core.CodeIndexFailed, "iterating debates").WithCause(err)
	}
	return records, nil
}

// Delete removes a record, reporting whether a row existed.
func (s *SQLiteStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM debates WHERE debate_id = ?", id)
	if err != nil {
		return false, core.ErrStorage(core.CodeSaveFailed,
			fmt.Sprintf("deleting debate %s", id)).WithCause(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, core.ErrStorage(core.CodeSaveFailed, "reading delete result").WithCause(err)
	}
	return n > 0, nil
}

var _ core.DebateStore = (*SQLiteStore)(nil)
