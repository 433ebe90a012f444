// Package compression provides the codecs applied to stored thread collections.
package compression

import "fmt"

type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

const (
	None = "none"
	Gzip = "gzip"
	Zstd = "zstd"
)

// ByName returns the compressor configured under name. An empty name means no compression.
func ByName(name string) (Compressor, error) {
	switch name {
	case "", None:
		return NoopCompressor{}, nil
	case Gzip:
		return GzipCompressor{}, nil
	case Zstd:
		return NewZstdCompressor()
	default:
		return nil, fmt.Errorf("unknown compression %q", name)
	}
}

type NoopCompressor struct{}

func (NoopCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

func (NoopCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
