package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
)

func sampleRecord(title string) *core.DebateRecord {
	topic := core.Topic{Title: title, Description: "a test debate"}
	configs := []core.AgentConfig{
		core.NewAgentConfig("pro", core.RoleFor, "claude", "haiku"),
		core.NewAgentConfig("con", core.RoleAgainst, "gemini", "flash"),
		core.NewAgentConfig("judge", core.RoleSynthesis, "claude", "sonnet"),
	}
	responses := []core.AgentResponse{
		core.NewSuccessResponse(configs[0], "argument for", 120*time.Millisecond),
		core.NewFailureResponse(configs[1], "agent con timed out after 60s", 60*time.Second),
		core.NewSuccessResponse(configs[2], "balanced synthesis", 200*time.Millisecond),
	}
	return core.NewDebateRecord(topic, configs, responses, 61*time.Second)
}

// storeFactories lets the contract tests run against both backends.
var storeFactories = map[string]func(t *testing.T) core.DebateStore{
	"json": func(t *testing.T) core.DebateStore {
		s, err := NewJSONStore(t.TempDir())
		if err != nil {
			t.Fatalf("NewJSONStore() error = %v", err)
		}
		return s
	},
	"sqlite": func(t *testing.T) core.DebateStore {
		s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "debates.db"))
		if err != nil {
			t.Fatalf("NewSQLiteStore() error = %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		return s
	},
}

func TestStoreSaveAndGet(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()
			record := sampleRecord("round trip")

			id, err := s.Save(ctx, record)
			if err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if id != record.DebateID {
				t.Errorf("Save() returned %s, want %s", id, record.DebateID)
			}

			got, err := s.Get(ctx, id)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.Topic.Title != "round trip" {
				t.Errorf("Topic.Title = %q", got.Topic.Title)
			}
			if len(got.AgentResponses) != 3 {
				t.Fatalf("got %d responses, want 3", len(got.AgentResponses))
			}
			if got.AgentResponses[1].Success {
				t.Error("failed response should survive the round trip as failed")
			}
			if got.AgentResponses[1].ErrorMessage == "" {
				t.Error("failure message should survive the round trip")
			}
			if got.TotalExecutionTimeMS != record.TotalExecutionTimeMS {
				t.Errorf("TotalExecutionTimeMS = %d, want %d",
					got.TotalExecutionTimeMS, record.TotalExecutionTimeMS)
			}
		})
	}
}

func TestStoreGetMissing(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)

			_, err := s.Get(context.Background(), "no-such-debate")
			if !core.IsNotFound(err) {
				t.Errorf("Get(missing) error = %v, want not_found", err)
			}
		})
	}
}

func TestStoreListNewestFirstWithLimit(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			var ids []string
			for i := 0; i < 5; i++ {
				record := sampleRecord(fmt.Sprintf("debate %d", i))
				// Listing orders on creation time, so keep them distinct.
				record.CreatedAt = record.CreatedAt.Add(time.Duration(i) * time.Second)
				if _, err := s.Save(ctx, record); err != nil {
					t.Fatalf("Save() error = %v", err)
				}
				ids = append(ids, record.DebateID)
			}

			records, err := s.List(ctx, 3)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(records) != 3 {
				t.Fatalf("List() = %d records, want 3", len(records))
			}
			for i, record := range records {
				want := ids[len(ids)-1-i]
				if record.DebateID != want {
					t.Errorf("records[%d] = %s, want %s", i, record.DebateID, want)
				}
			}
		})
	}
}

func TestStoreListNonPositiveLimit(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			if _, err := s.Save(ctx, sampleRecord("present")); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			// A negative limit must not panic or return everything.
			for _, limit := range []int{-1, 0} {
				records, err := s.List(ctx, limit)
				if err != nil {
					t.Fatalf("List(%d) error = %v", limit, err)
				}
				if len(records) != 0 {
					t.Errorf("List(%d) = %d records, want 0", limit, len(records))
				}
			}
		})
	}
}

func TestStoreDelete(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			record := sampleRecord("to delete")
			if _, err := s.Save(ctx, record); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			deleted, err := s.Delete(ctx, record.DebateID)
			if err != nil || !deleted {
				t.Fatalf("Delete() = (%v, %v), want (true, nil)", deleted, err)
			}

			if _, err := s.Get(ctx, record.DebateID); !core.IsNotFound(err) {
				t.Errorf("Get(deleted) error = %v, want not_found", err)
			}

			deleted, err = s.Delete(ctx, record.DebateID)
			if err != nil {
				t.Fatalf("Delete(again) error = %v", err)
			}
			if deleted {
				t.Error("second delete should report false")
			}

			records, err := s.List(ctx, 10)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(records) != 0 {
				t.Errorf("List() after delete = %d records, want 0", len(records))
			}
		})
	}
}

func TestJSONStoreLayout(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONStore(dir)
	if err != nil {
		t.Fatalf("NewJSONStore() error = %v", err)
	}
	ctx := context.Background()

	record := sampleRecord("layout")
	if _, err := s.Save(ctx, record); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, record.DebateID+".json")); err != nil {
		t.Errorf("record file missing: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, indexFile))
	if err != nil {
		t.Fatalf("index file missing: %v", err)
	}
	var index []core.IndexEntry
	if err := json.Unmarshal(data, &index); err != nil {
		t.Fatalf("index not valid JSON: %v", err)
	}
	if len(index) != 1 || index[0].DebateID != record.DebateID {
		t.Errorf("index = %+v", index)
	}
	if index[0].TopicTitle != "layout" {
		t.Errorf("index topic = %q", index[0].TopicTitle)
	}
}

func TestJSONStoreListSkipsMissingRecords(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONStore(dir)
	if err != nil {
		t.Fatalf("NewJSONStore() error = %v", err)
	}
	ctx := context.Background()

	kept := sampleRecord("kept")
	orphaned := sampleRecord("orphaned")
	for _, record := range []*core.DebateRecord{kept, orphaned} {
		if _, err := s.Save(ctx, record); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	// Remove a record file behind the index's back.
	if err := os.Remove(filepath.Join(dir, orphaned.DebateID+".json")); err != nil {
		t.Fatal(err)
	}

	records, err := s.List(ctx, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("List() = %d records, want the orphaned entry skipped", len(records))
	}
	if records[0].DebateID != kept.DebateID {
		t.Errorf("List() returned %s, want %s", records[0].DebateID, kept.DebateID)
	}
}

func TestJSONStoreCorruptIndexTreatedAsEmpty(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONStore(dir)
	if err != nil {
		t.Fatalf("NewJSONStore() error = %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, indexFile), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	records, err := s.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("List() = %d records, want 0 for corrupt index", len(records))
	}
}

func TestSQLiteStoreSaveIsUpsert(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "debates.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	record := sampleRecord("first title")
	if _, err := s.Save(ctx, record); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	record.Topic.Title = "second title"
	if _, err := s.Save(ctx, record); err != nil {
		t.Fatalf("Save(update) error = %v", err)
	}

	got, err := s.Get(ctx, record.DebateID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Topic.Title != "second title" {
		t.Errorf("Topic.Title = %q, want updated value", got.Topic.Title)
	}

	records, err := s.List(ctx, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 1 {
		t.Errorf("List() = %d records, want 1 after upsert", len(records))
	}
}

func TestFactorySelectsBackend(t *testing.T) {
	dir := t.TempDir()

	jsonStore, err := New("json", filepath.Join(dir, "debates"))
	if err != nil {
		t.Fatalf("New(json) error = %v", err)
	}
	if _, ok := jsonStore.(*JSONStore); !ok {
		t.Errorf("New(json) = %T", jsonStore)
	}

	sqliteStore, err := New("sqlite", filepath.Join(dir, "debates"))
	if err != nil {
		t.Fatalf("New(sqlite) error = %v", err)
	}
	if _, ok := sqliteStore.(*SQLiteStore); !ok {
		t.Errorf("New(sqlite) = %T", sqliteStore)
	}
	if err := Close(sqliteStore); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	if _, err := New("redis", dir); err == nil {
		t.Error("expected error for unknown backend")
	}

	// Empty backend defaults to JSON.
	defaultStore, err := New("", filepath.Join(dir, "default"))
	if err != nil {
		t.Fatalf("New(default) error = %v", err)
	}
	if _, ok := defaultStore.(*JSONStore); !ok {
		t.Errorf("New(default) = %T", defaultStore)
	}
}
