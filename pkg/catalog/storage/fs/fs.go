package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sonarhq/sonar-catalog/pkg/catalog"
)

// Backend is a filesystem implementation of the catalog.BlobStore
// interface, storing one file per song id under a base directory.
type Backend struct {
	baseDir string
}

// Config options for the filesystem blob store
type Config struct {
	BaseDir string // Base directory for storing audio payloads
}

// New creates a new filesystem blob store
func New(config Config) (catalog.BlobStore, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{baseDir: config.BaseDir}, nil
}

func (b *Backend) path(songID int64) string {
	return filepath.Join(b.baseDir, fmt.Sprintf("%d.audio", songID))
}

// Put stores the payload for a song, overwriting any existing payload
func (b *Backend) Put(ctx context.Context, songID int64, r io.Reader) error {
	file, err := os.Create(b.path(songID))
	if err != nil {
		return fmt.Errorf("failed to create payload file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, r); err != nil {
		return fmt.Errorf("failed to write payload file: %w", err)
	}

	return nil
}

// Get returns the payload for a song
func (b *Backend) Get(ctx context.Context, songID int64) (io.ReadCloser, error) {
	file, err := os.Open(b.path(songID))
	if os.IsNotExist(err) {
		return nil, catalog.ErrAudioNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to open payload file: %w", err)
	}

	return file, nil
}
