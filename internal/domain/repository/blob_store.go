package repository

import (
	"context"
	"io"
)

// BlobStore keeps uploaded files such as project logos
type BlobStore interface {
	// Put stores size bytes read from r under key and returns the stable
	// public path or URL of the stored object
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}
