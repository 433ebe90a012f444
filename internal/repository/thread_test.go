package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/thread-drafts/internal/db"
	"github.com/debemdeboas/thread-drafts/internal/model"
	"github.com/debemdeboas/thread-drafts/internal/storage"
)

// failingBackend fails reads and/or writes on demand.
type failingBackend struct {
	storage.Backend
	failGet bool
	failPut bool
}

func (f *failingBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if f.failGet {
		return nil, errors.New("disk on fire")
	}
	return f.Backend.Get(ctx, key)
}

func (f *failingBackend) Put(ctx context.Context, key string, value []byte) error {
	if f.failPut {
		return errors.New("disk full")
	}
	return f.Backend.Put(ctx, key, value)
}

func newThread(id, topic string, tweets ...string) *model.Thread {
	ts := model.FromMillis(1_700_000_000_000)
	return &model.Thread{
		ID:        model.ThreadID(id),
		Topic:     topic,
		Tweets:    tweets,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

func ids(threads []model.Thread) []model.ThreadID {
	out := make([]model.ThreadID, 0, len(threads))
	for _, t := range threads {
		out = append(out, t.ID)
	}
	return out
}

func TestThreadRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty medium lists nothing", func(t *testing.T) {
		repo := NewThreadRepository(storage.NewMemoryBackend(), "")

		threads := repo.List(ctx)
		if threads == nil || len(threads) != 0 {
			t.Errorf("Expected empty non-nil list, got %v", threads)
		}
	})

	t.Run("Save then Get round trips", func(t *testing.T) {
		repo := NewThreadRepository(storage.NewMemoryBackend(), "")
		thread := newThread("a", "Launch tips", "hook", "body", "cta")

		if err := repo.Save(ctx, thread); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		got, err := repo.Get(ctx, "a")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.ID != thread.ID || got.Topic != thread.Topic || !reflect.DeepEqual(got.Tweets, thread.Tweets) {
			t.Errorf("Expected %+v, got %+v", thread, got)
		}
		if !got.CreatedAt.Equal(thread.CreatedAt) || !got.UpdatedAt.Equal(thread.UpdatedAt) {
			t.Errorf("Expected timestamps to survive, got %v / %v", got.CreatedAt, got.UpdatedAt)
		}
	})

	t.Run("Save is idempotent", func(t *testing.T) {
		repo := NewThreadRepository(storage.NewMemoryBackend(), "")
		thread := newThread("a", "Topic", "h", "b", "c")

		repo.Save(ctx, thread)
		repo.Save(ctx, thread)

		if n := len(repo.List(ctx)); n != 1 {
			t.Errorf("Expected 1 thread, got %d", n)
		}
	})

	t.Run("New threads go to the front", func(t *testing.T) {
		repo := NewThreadRepository(storage.NewMemoryBackend(), "")

		repo.Save(ctx, newThread("a", "first", "h", "b", "c"))
		repo.Save(ctx, newThread("b", "second", "h", "b", "c"))
		repo.Save(ctx, newThread("c", "third", "h", "b", "c"))

		expected := []model.ThreadID{"c", "b", "a"}
		if got := ids(repo.List(ctx)); !reflect.DeepEqual(got, expected) {
			t.Errorf("Expected order %v, got %v", expected, got)
		}
	})

	t.Run("Edits keep their position", func(t *testing.T) {
		repo := NewThreadRepository(storage.NewMemoryBackend(), "")

		repo.Save(ctx, newThread("a", "first", "h", "b", "c"))
		repo.Save(ctx, newThread("b", "second", "h", "b", "c"))
		repo.Save(ctx, newThread("a", "first, edited", "h", "b", "b2", "c"))

		threads := repo.List(ctx)
		expected := []model.ThreadID{"b", "a"}
		if got := ids(threads); !reflect.DeepEqual(got, expected) {
			t.Errorf("Expected order %v, got %v", expected, got)
		}
		if threads[1].Topic != "first, edited" || len(threads[1].Tweets) != 4 {
			t.Errorf("Expected edited thread in place, got %+v", threads[1])
		}
	})

	t.Run("Saved copy is isolated from caller", func(t *testing.T) {
		repo := NewThreadRepository(storage.NewMemoryBackend(), "")
		thread := newThread("a", "Topic", "h", "b", "c")

		repo.Save(ctx, thread)
		thread.Tweets[0] = "mutated"

		got, _ := repo.Get(ctx, "a")
		if got.Tweets[0] != "h" {
			t.Errorf("Expected stored hook 'h', got %q", got.Tweets[0])
		}
	})

	t.Run("Save requires an id", func(t *testing.T) {
		repo := NewThreadRepository(storage.NewMemoryBackend(), "")

		if err := repo.Save(ctx, &model.Thread{Topic: "no id"}); err == nil {
			t.Error("Expected error saving thread without id")
		}
		if err := repo.Save(ctx, nil); err == nil {
			t.Error("Expected error saving nil thread")
		}
	})

	t.Run("Get unknown id", func(t *testing.T) {
		repo := NewThreadRepository(storage.NewMemoryBackend(), "")

		_, err := repo.Get(ctx, "ghost")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Delete existing", func(t *testing.T) {
		repo := NewThreadRepository(storage.NewMemoryBackend(), "")
		repo.Save(ctx, newThread("a", "first", "h", "b", "c"))
		repo.Save(ctx, newThread("b", "second", "h", "b", "c"))

		if err := repo.Delete(ctx, "a"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		if _, err := repo.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
		if n := len(repo.List(ctx)); n != 1 {
			t.Errorf("Expected 1 thread left, got %d", n)
		}
	})

	t.Run("Delete unknown leaves list unchanged", func(t *testing.T) {
		repo := NewThreadRepository(storage.NewMemoryBackend(), "")
		repo.Save(ctx, newThread("a", "first", "h", "b", "c"))

		if err := repo.Delete(ctx, "ghost"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if n := len(repo.List(ctx)); n != 1 {
			t.Errorf("Expected 1 thread, got %d", n)
		}
	})
}

func TestThreadRepositoryRecovery(t *testing.T) {
	ctx := context.Background()

	t.Run("Corrupt collection reads as empty", func(t *testing.T) {
		backend := storage.NewMemoryBackend()
		backend.Put(ctx, DefaultCollectionKey, []byte("{not json"))

		repo := NewThreadRepository(backend, "")
		var diagnosed []error
		repo.SetDiagnostic(func(err error) { diagnosed = append(diagnosed, err) })

		if threads := repo.List(ctx); len(threads) != 0 {
			t.Errorf("Expected empty list, got %v", threads)
		}
		if len(diagnosed) != 1 {
			t.Errorf("Expected one diagnostic, got %d", len(diagnosed))
		}
	})

	t.Run("Records without id are skipped", func(t *testing.T) {
		backend := storage.NewMemoryBackend()
		backend.Put(ctx, DefaultCollectionKey, []byte(`[{"topic":"x","tweets":[]},{"id":"a","topic":"kept","tweets":["h"]}]`))

		repo := NewThreadRepository(backend, "")
		var diagnosed []error
		repo.SetDiagnostic(func(err error) { diagnosed = append(diagnosed, err) })

		threads := repo.List(ctx)
		if len(threads) != 1 || threads[0].ID != "a" {
			t.Fatalf("Expected only the thread with an id, got %v", threads)
		}
		if len(diagnosed) != 1 {
			t.Errorf("Expected one diagnostic, got %d", len(diagnosed))
		}

		if err := repo.Save(ctx, newThread("b", "second", "h", "b", "c")); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if got := ids(repo.List(ctx)); len(got) != 2 || got[0] != "b" || got[1] != "a" {
			t.Errorf("Expected existing thread to survive a save, got %v", got)
		}
	})

	t.Run("Recovery is logged once", func(t *testing.T) {
		var buf bytes.Buffer
		SetLogger(zerolog.New(&buf))
		t.Cleanup(func() { SetLogger(zerolog.Nop()) })

		backend := storage.NewMemoryBackend()
		backend.Put(ctx, DefaultCollectionKey, []byte("{not json"))
		repo := NewThreadRepository(backend, "")
		repo.SetDiagnostic(func(error) {})
		repo.List(ctx)

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 1 || !strings.Contains(lines[0], `"level":"warn"`) || !strings.Contains(lines[0], DefaultCollectionKey) {
			t.Errorf("Expected one warning naming the key, got %q", buf.String())
		}
	})

	t.Run("JSON null reads as empty", func(t *testing.T) {
		backend := storage.NewMemoryBackend()
		backend.Put(ctx, DefaultCollectionKey, []byte(`null`))

		repo := NewThreadRepository(backend, "")
		threads := repo.List(ctx)
		if threads == nil || len(threads) != 0 {
			t.Errorf("Expected empty non-nil list, got %v", threads)
		}
	})

	t.Run("Unreadable medium reads as empty", func(t *testing.T) {
		repo := NewThreadRepository(&failingBackend{Backend: storage.NewMemoryBackend(), failGet: true}, "")

		called := false
		repo.SetDiagnostic(func(error) { called = true })

		if threads := repo.List(ctx); len(threads) != 0 {
			t.Errorf("Expected empty list, got %v", threads)
		}
		if !called {
			t.Error("Expected diagnostic callback to be called")
		}
	})

	t.Run("Missing collection is not a diagnostic", func(t *testing.T) {
		repo := NewThreadRepository(storage.NewMemoryBackend(), "")

		called := false
		repo.SetDiagnostic(func(error) { called = true })
		repo.List(ctx)

		if called {
			t.Error("Expected no diagnostic for an absent collection")
		}
	})

	t.Run("Write failures are returned", func(t *testing.T) {
		repo := NewThreadRepository(&failingBackend{Backend: storage.NewMemoryBackend(), failPut: true}, "")

		if err := repo.Save(ctx, newThread("a", "t", "h", "b", "c")); err == nil {
			t.Error("Expected save error")
		}
		if err := repo.Delete(ctx, "a"); err == nil {
			t.Error("Expected delete error")
		}
	})
}

func TestThreadRepositoryLayout(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryBackend()
	repo := NewThreadRepository(backend, "custom-key")

	repo.Save(ctx, newThread("a", "Launch tips", "h", "b", "c"))

	data, err := backend.Get(ctx, "custom-key")
	if err != nil {
		t.Fatalf("Expected collection under custom key: %v", err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Expected a JSON array, got %q", data)
	}
	if len(raw) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(raw))
	}

	record := raw[0]
	for _, field := range []string{"id", "topic", "tweets", "createdAt", "updatedAt"} {
		if _, ok := record[field]; !ok {
			t.Errorf("Expected field %q in stored record", field)
		}
	}
	if record["createdAt"].(float64) != 1_700_000_000_000 {
		t.Errorf("Expected createdAt as epoch millis, got %v", record["createdAt"])
	}
}

func TestThreadRepositoryNotifier(t *testing.T) {
	ctx := context.Background()
	repo := NewThreadRepository(storage.NewMemoryBackend(), "")

	var notified []model.ThreadID
	repo.SetChangeNotifier(func(id model.ThreadID) { notified = append(notified, id) })

	repo.Save(ctx, newThread("a", "t", "h", "b", "c"))
	repo.Delete(ctx, "ghost")
	repo.Delete(ctx, "a")

	expected := []model.ThreadID{"a", "a"}
	if !reflect.DeepEqual(notified, expected) {
		t.Errorf("Expected notifications %v, got %v", expected, notified)
	}
}

func TestThreadRepositoryConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	repo := NewThreadRepository(storage.NewMemoryBackend(), "")

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			repo.Save(ctx, newThread(fmt.Sprintf("t-%d", i), "topic", "h", "b", "c"))
		}(i)
	}
	wg.Wait()

	if got := len(repo.List(ctx)); got != n {
		t.Errorf("Expected %d threads, got %d", n, got)
	}
}

func TestThreadRepositorySQLite(t *testing.T) {
	ctx := context.Background()

	database := db.NewSQLite(db.MemoryPath)
	if err := database.InitDB(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	repo := NewThreadRepository(storage.NewSQLiteBackend(database), "")
	thread := newThread("a", "Launch tips", "h", "b", "c")
	thread.UpdatedAt = thread.UpdatedAt.Add(time.Hour)

	if err := repo.Save(ctx, thread); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.UpdatedAt.Equal(thread.UpdatedAt) {
		t.Errorf("Expected updatedAt %v, got %v", thread.UpdatedAt, got.UpdatedAt)
	}
}
