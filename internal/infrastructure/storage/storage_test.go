package storage

import (
	"bytes"
	"context"
	"testing"

	"github.com/sangkips/receipts-api/internal/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBlobStore_Put(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewLocalBlobStore(fs, "uploads/")

	payload := []byte("\x89PNG\r\n\x1a\nfake")
	publicPath, err := store.Put(context.Background(), "logos/abc.png", bytes.NewReader(payload), int64(len(payload)), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/logos/abc.png", publicPath)

	stored, err := afero.ReadFile(fs, "/logos/abc.png")
	require.NoError(t, err)
	assert.Equal(t, payload, stored)
}

func TestLocalBlobStore_TruncatesToSize(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewLocalBlobStore(fs, "/uploads")

	_, err := store.Put(context.Background(), "/logos/a.bin", bytes.NewReader([]byte("abcdef")), 3, "")
	require.NoError(t, err)

	stored, err := afero.ReadFile(fs, "/logos/a.bin")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(stored))
}

func TestLocalBlobStore_RejectsEscapingKeys(t *testing.T) {
	store := NewLocalBlobStore(afero.NewMemMapFs(), "/uploads")

	for _, key := range []string{"../etc/passwd", "logos/../../x", "", "logos//a.png"} {
		_, err := store.Put(context.Background(), key, bytes.NewReader(nil), 0, "")
		assert.Error(t, err, "key %q", key)
	}
}

func TestLocalBlobStore_CanceledContext(t *testing.T) {
	store := NewLocalBlobStore(afero.NewMemMapFs(), "/uploads")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Put(ctx, "logos/a.png", bytes.NewReader([]byte("x")), 1, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMinioPublicURL(t *testing.T) {
	assert.Equal(t, "http://minio:9000", publicBaseURL(config.MinioConfig{Endpoint: "minio:9000"}))
	assert.Equal(t, "https://minio:9000", publicBaseURL(config.MinioConfig{Endpoint: "minio:9000", UseSSL: true}))
	assert.Equal(t, "https://cdn.example.com", publicBaseURL(config.MinioConfig{Endpoint: "minio:9000", PublicURL: "https://cdn.example.com/"}))

	assert.Equal(t, "https://cdn.example.com/receipts/logos/a%20b.png",
		objectURL("https://cdn.example.com", "receipts", "logos/a b.png"))
}
