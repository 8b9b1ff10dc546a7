package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/sonarhq/sonar-catalog/pkg/catalog"
)

const documentFile = "catalog.json"

// Store is a filesystem implementation of the catalog.DocumentStore
// interface holding the whole document in a single JSON file.
type Store struct {
	mu      sync.RWMutex
	baseDir string
}

// Config options for the filesystem document store
type Config struct {
	BaseDir string // Base directory for the catalog document
}

// New creates a new filesystem document store
func New(config Config) (catalog.DocumentStore, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Store{baseDir: config.BaseDir}, nil
}

// Load returns the current catalog document
func (s *Store) Load(ctx context.Context) (*catalog.CatalogDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.load()
}

func (s *Store) load() (*catalog.CatalogDocument, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, documentFile))
	if os.IsNotExist(err) {
		return nil, catalog.ErrDocumentNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to read catalog document: %w", err)
	}

	return catalog.DecodeDocument(data)
}

// Save replaces the persisted document, guarded by the revision token. The
// new content is written to a temporary file and renamed into place so a
// crashed save never leaves a torn document behind.
func (s *Store) Save(ctx context.Context, doc *catalog.CatalogDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil && !errors.Is(err, catalog.ErrDocumentNotFound) {
		return err
	}

	var storedRevision int64
	if current != nil {
		storedRevision = current.Revision
	}
	if doc.Revision != storedRevision {
		return catalog.ErrConflict
	}

	doc.Revision++
	data, err := catalog.EncodeDocument(doc)
	if err != nil {
		doc.Revision--
		return err
	}

	target := filepath.Join(s.baseDir, documentFile)
	tmp := filepath.Join(s.baseDir, fmt.Sprintf(".%s.%s.tmp", documentFile, uuid.NewString()))
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		doc.Revision--
		return fmt.Errorf("failed to write catalog document: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		doc.Revision--
		os.Remove(tmp)
		return fmt.Errorf("failed to replace catalog document: %w", err)
	}

	return nil
}
