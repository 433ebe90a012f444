package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/thread-drafts/internal/export"
	"github.com/debemdeboas/thread-drafts/internal/model"
	"github.com/debemdeboas/thread-drafts/internal/repository"
	"github.com/debemdeboas/thread-drafts/internal/storage"
)

// copyCollection copies the stored collection as is and returns how many threads the
// target now holds.
func copyCollection(ctx context.Context, source, target storage.Backend, key string) (int, error) {
	if key == "" {
		key = repository.DefaultCollectionKey
	}

	data, err := source.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("error reading source collection: %w", err)
	}
	if err := target.Put(ctx, key, data); err != nil {
		return 0, fmt.Errorf("error writing target collection: %w", err)
	}

	return len(repository.NewThreadRepository(target, key).List(ctx)), nil
}

// importDir saves every .md export in dir. Files are saved oldest first so the newest
// thread ends up at the front of the list. A file without timestamps takes its
// modification time.
func importDir(ctx context.Context, dir string, store repository.ThreadStore) (int, error) {
	l := zerolog.Ctx(ctx)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("error reading directory %s: %w", dir, err)
	}

	var threads []*model.Thread
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		thread, err := readExport(filepath.Join(dir, entry.Name()), entry)
		if err != nil {
			l.Warn().Err(err).Str("file", entry.Name()).Msg("Skipping file")
			continue
		}
		threads = append(threads, thread)
	}

	slices.SortStableFunc(threads, func(a, b *model.Thread) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	for _, thread := range threads {
		if err := store.Save(ctx, thread); err != nil {
			return 0, err
		}
	}
	return len(threads), nil
}

func readExport(path string, entry os.DirEntry) (*model.Thread, error) {
	md, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	thread, _, err := export.ParseMarkdown(md)
	if err != nil {
		return nil, err
	}

	if thread.CreatedAt.IsZero() {
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		thread.CreatedAt = info.ModTime().UTC().Truncate(time.Millisecond)
	}
	if thread.UpdatedAt.IsZero() {
		thread.UpdatedAt = thread.CreatedAt
	}
	return thread, nil
}

// fixTimes fills zero timestamps: a missing creation time takes the update time (or now),
// a missing update time takes the creation time.
func fixTimes(ctx context.Context, store repository.ThreadStore, now time.Time) (int, error) {
	now = now.UTC().Truncate(time.Millisecond)

	var fixed int
	for _, thread := range store.List(ctx) {
		if !thread.CreatedAt.IsZero() && !thread.UpdatedAt.IsZero() {
			continue
		}

		switch {
		case thread.CreatedAt.IsZero() && !thread.UpdatedAt.IsZero():
			thread.CreatedAt = thread.UpdatedAt
		case thread.CreatedAt.IsZero():
			thread.CreatedAt = now
		}
		if thread.UpdatedAt.IsZero() {
			thread.UpdatedAt = thread.CreatedAt
		}

		if err := store.Save(ctx, &thread); err != nil {
			return fixed, err
		}
		fixed++
	}
	return fixed, nil
}
