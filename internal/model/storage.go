package model

import (
	"context"
	"io"
)

// CoverStorage stores book cover images in an object store keyed by
// book id.
type CoverStorage interface {
	Upload(ctx context.Context, bookID string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, bookID string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, bookID string) error
	Exists(ctx context.Context, bookID string) (bool, error)
}
