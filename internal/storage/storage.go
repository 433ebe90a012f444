// Package storage provides the key-value media the thread collection is persisted to.
//
// Every backend stores opaque byte values under string keys. Callers read and
// write whole values; there is no partial update path.
package storage

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// ErrNotFound is returned by Get when the key has never been written (or was deleted).
var ErrNotFound = errors.New("storage: key not found")

type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

var storageLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	storageLogger = l
}
