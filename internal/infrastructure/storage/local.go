// Package storage implements the blob store on a local filesystem or MinIO.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	domainRepo "github.com/sangkips/receipts-api/internal/domain/repository"
	"github.com/spf13/afero"
)

// LocalBlobStore writes blobs below the root of an afero filesystem. The same
// filesystem is served read-only under publicPrefix.
type LocalBlobStore struct {
	fs           afero.Fs
	publicPrefix string
}

// NewLocalBlobStore creates a blob store on fs
func NewLocalBlobStore(fs afero.Fs, publicPrefix string) *LocalBlobStore {
	return &LocalBlobStore{
		fs:           fs,
		publicPrefix: "/" + strings.Trim(publicPrefix, "/"),
	}
}

// NewOsBlobStore roots a local blob store at dir on disk
func NewOsBlobStore(dir, publicPrefix string) (*LocalBlobStore, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return NewLocalBlobStore(afero.NewBasePathFs(osFs, dir), publicPrefix), nil
}

var _ domainRepo.BlobStore = (*LocalBlobStore)(nil)

// Fs exposes the underlying filesystem for static serving
func (s *LocalBlobStore) Fs() afero.Fs {
	return s.fs
}

// PublicPrefix is the URL prefix blobs are served under
func (s *LocalBlobStore) PublicPrefix() string {
	return s.publicPrefix
}

func (s *LocalBlobStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Absolute names keep writes and static serving on the same entries
	name := "/" + key
	if err := s.fs.MkdirAll(path.Dir(name), 0o755); err != nil {
		return "", fmt.Errorf("create blob dir: %w", err)
	}
	if err := afero.WriteReader(s.fs, name, io.LimitReader(r, size)); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}
	return s.publicPrefix + "/" + key, nil
}

// cleanKey rejects keys that would escape the store root
func cleanKey(key string) (string, error) {
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned != strings.TrimPrefix(key, "/") {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return cleaned, nil
}
