package ports

import (
	"context"
	"io"
)

// ObjectStorage stores ticket file attachments. The core only tracks the
// metadata row; the bytes live behind this interface.
type ObjectStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}
