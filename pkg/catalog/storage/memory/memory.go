package memory

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/sonarhq/sonar-catalog/pkg/catalog"
)

// Backend is an in-memory implementation of the catalog.BlobStore interface
type Backend struct {
	mu       sync.RWMutex
	payloads map[int64][]byte
}

// New creates a new in-memory blob store
func New() catalog.BlobStore {
	return &Backend{
		payloads: make(map[int64][]byte),
	}
}

// Put stores the payload for a song, overwriting any existing payload
func (b *Backend) Put(ctx context.Context, songID int64, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.payloads[songID] = data
	return nil
}

// Get returns the payload for a song
func (b *Backend) Get(ctx context.Context, songID int64) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.payloads[songID]
	if !exists {
		return nil, catalog.ErrAudioNotFound
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}
