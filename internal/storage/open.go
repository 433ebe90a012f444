package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/debemdeboas/thread-drafts/internal/config"
	"github.com/debemdeboas/thread-drafts/internal/db"
	"github.com/debemdeboas/thread-drafts/internal/util/compression"
)

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendS3     = "s3"
)

// Open builds the backend described by cfg, wrapped with the configured compression.
// The returned close function releases whatever the backend holds open and is never nil.
func Open(ctx context.Context, cfg config.StorageConfig) (Backend, func() error, error) {
	noop := func() error { return nil }

	var backend Backend
	closeFn := noop

	switch cfg.Backend {
	case BackendMemory:
		backend = NewMemoryBackend()
	case "", BackendFile:
		fb, err := NewFileBackend(cfg.File.Dir)
		if err != nil {
			return nil, noop, err
		}
		backend = fb
	case BackendSQLite:
		database := db.NewSQLite(cfg.SQLite.Path)
		if err := database.InitDB(); err != nil {
			database.Close()
			return nil, noop, fmt.Errorf("error initializing sqlite: %w", err)
		}
		backend = NewSQLiteBackend(database)
		closeFn = database.Close
	case BackendS3:
		if cfg.S3.Bucket == "" {
			return nil, noop, errors.New("storage: s3 backend needs a bucket")
		}
		client, err := NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, noop, err
		}
		backend = NewS3Backend(client, cfg.S3.Bucket, cfg.S3.Prefix)
	default:
		return nil, noop, fmt.Errorf("%s: %q", config.ErrUnknownBackend, cfg.Backend)
	}

	compressor, err := compression.ByName(cfg.Compression)
	if err != nil {
		closeFn()
		return nil, noop, err
	}
	if _, ok := compressor.(compression.NoopCompressor); !ok {
		backend = NewCompressedBackend(backend, compressor)
	}

	storageLogger.Info().
		Str("backend", cfg.Backend).
		Str("compression", cfg.Compression).
		Msg("Storage opened")

	return backend, closeFn, nil
}
