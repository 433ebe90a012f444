package storage

import (
	"context"
	"fmt"

	"github.com/debemdeboas/thread-drafts/internal/util/compression"
)

// CompressedBackend compresses values before handing them to the wrapped backend.
type CompressedBackend struct {
	next       Backend
	compressor compression.Compressor
}

func NewCompressedBackend(next Backend, compressor compression.Compressor) *CompressedBackend {
	return &CompressedBackend{next: next, compressor: compressor}
}

func (c *CompressedBackend) Get(ctx context.Context, key string) ([]byte, error) {
	compressed, err := c.next.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	content, err := c.compressor.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("error decompressing content: %w", err)
	}
	return content, nil
}

func (c *CompressedBackend) Put(ctx context.Context, key string, value []byte) error {
	compressed, err := c.compressor.Compress(value)
	if err != nil {
		return fmt.Errorf("error compressing content: %w", err)
	}
	return c.next.Put(ctx, key, compressed)
}

func (c *CompressedBackend) Delete(ctx context.Context, key string) error {
	return c.next.Delete(ctx, key)
}
