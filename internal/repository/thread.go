package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/debemdeboas/thread-drafts/internal/model"
	"github.com/debemdeboas/thread-drafts/internal/storage"
)

const DefaultCollectionKey = "x-thread-drafts"

// ThreadRepository keeps every thread in one JSON array stored under a single key.
// Every mutation reads the whole collection and writes it back.
type ThreadRepository struct { // implements ThreadStore
	backend storage.Backend
	key     string

	// mu serialises read-modify-write cycles within this process.
	mu sync.Mutex

	diagnostic     func(error)
	changeNotifier func(model.ThreadID)
}

func NewThreadRepository(backend storage.Backend, key string) *ThreadRepository {
	if key == "" {
		key = DefaultCollectionKey
	}

	return &ThreadRepository{
		backend: backend,
		key:     key,
	}
}

// SetDiagnostic registers a callback that receives the errors List swallows
// when the stored collection is unreadable.
func (r *ThreadRepository) SetDiagnostic(fn func(error)) {
	r.diagnostic = fn
}

func (r *ThreadRepository) SetChangeNotifier(notifier func(model.ThreadID)) {
	r.changeNotifier = notifier
}

func (r *ThreadRepository) notifyChange(id model.ThreadID) {
	if r.changeNotifier != nil {
		r.changeNotifier(id)
	}
}

// List returns every thread in stored order: newest created first, edits keep their position.
// A missing, corrupt or unreadable collection reads as empty. Records without an id are
// left out and dropped from storage by the next write.
func (r *ThreadRepository) List(ctx context.Context) []model.Thread {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load(ctx)
}

func (r *ThreadRepository) load(ctx context.Context) []model.Thread {
	data, err := r.backend.Get(ctx, r.key)
	if errors.Is(err, storage.ErrNotFound) {
		return []model.Thread{}
	}
	if err != nil {
		r.recoverEmpty(fmt.Errorf("error reading thread collection: %w", err))
		return []model.Thread{}
	}

	var threads []model.Thread
	if err := json.Unmarshal(data, &threads); err != nil {
		r.recoverEmpty(fmt.Errorf("error decoding thread collection: %w", err))
		return []model.Thread{}
	}
	if threads == nil {
		threads = []model.Thread{}
	}

	kept := slices.DeleteFunc(threads, func(t model.Thread) bool { return t.ID == "" })
	if dropped := len(threads) - len(kept); dropped > 0 {
		r.report(fmt.Errorf("skipped %d thread records without id", dropped))
	}

	return kept
}

func (r *ThreadRepository) recoverEmpty(err error) {
	repoLogger.Warn().Err(err).Str("key", r.key).Msg("Treating thread collection as empty")
	if r.diagnostic != nil {
		r.diagnostic(err)
	}
}

func (r *ThreadRepository) report(err error) {
	repoLogger.Warn().Err(err).Str("key", r.key).Msg("Ignoring unreadable thread records")
	if r.diagnostic != nil {
		r.diagnostic(err)
	}
}

func (r *ThreadRepository) store(ctx context.Context, threads []model.Thread) error {
	data, err := json.Marshal(threads)
	if err != nil {
		return fmt.Errorf("error encoding thread collection: %w", err)
	}

	if err := r.backend.Put(ctx, r.key, data); err != nil {
		return fmt.Errorf("error writing thread collection: %w", err)
	}
	return nil
}

func (r *ThreadRepository) Get(ctx context.Context, id model.ThreadID) (*model.Thread, error) {
	for _, thread := range r.List(ctx) {
		if thread.ID == id {
			return &thread, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Save replaces the thread with the same id in place, or inserts it at the front.
func (r *ThreadRepository) Save(ctx context.Context, thread *model.Thread) error {
	if thread == nil || thread.ID == "" {
		return errors.New("cannot save thread without id")
	}

	r.mu.Lock()
	threads := r.load(ctx)

	saved := *thread.Clone()
	idx := slices.IndexFunc(threads, func(t model.Thread) bool { return t.ID == thread.ID })
	if idx >= 0 {
		threads[idx] = saved
	} else {
		threads = slices.Insert(threads, 0, saved)
	}

	err := r.store(ctx, threads)
	r.mu.Unlock()
	if err != nil {
		return err
	}

	repoLogger.Info().
		Str("thread_id", string(thread.ID)).
		Str("topic", thread.Topic).
		Bool("new", idx < 0).
		Int("tweets", len(thread.Tweets)).
		Msg("Thread saved")

	r.notifyChange(thread.ID)
	return nil
}

// Delete removes the thread with the given id, if any, and rewrites the collection.
func (r *ThreadRepository) Delete(ctx context.Context, id model.ThreadID) error {
	r.mu.Lock()
	threads := r.load(ctx)

	before := len(threads)
	threads = slices.DeleteFunc(threads, func(t model.Thread) bool { return t.ID == id })

	err := r.store(ctx, threads)
	r.mu.Unlock()
	if err != nil {
		return err
	}

	if len(threads) < before {
		repoLogger.Info().Str("thread_id", string(id)).Msg("Thread deleted")
		r.notifyChange(id)
	}
	return nil
}
