// Package repository owns the persisted thread collection.
package repository

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/thread-drafts/internal/model"
)

var ErrNotFound = errors.New("thread not found")

type ThreadStore interface {
	List(ctx context.Context) []model.Thread
	Get(ctx context.Context, id model.ThreadID) (*model.Thread, error)
	Save(ctx context.Context, thread *model.Thread) error
	Delete(ctx context.Context, id model.ThreadID) error

	// SetChangeNotifier sets a function that will be called after a thread is saved or deleted.
	SetChangeNotifier(notifier func(model.ThreadID))
}

var repoLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	repoLogger = l
}
