package memory

import (
	"context"
	"sync"

	"github.com/sonarhq/sonar-catalog/pkg/catalog"
)

// Store is an in-memory implementation of the catalog.DocumentStore
// interface. It keeps the document in serialized form so every load goes
// through the same decode path as the durable backends.
type Store struct {
	mu       sync.RWMutex
	data     []byte
	revision int64
}

// New creates a new in-memory document store
func New() catalog.DocumentStore {
	return &Store{}
}

// Load returns the current catalog document
func (s *Store) Load(ctx context.Context) (*catalog.CatalogDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return nil, catalog.ErrDocumentNotFound
	}

	return catalog.DecodeDocument(s.data)
}

// Save replaces the persisted document, guarded by the revision token
func (s *Store) Save(ctx context.Context, doc *catalog.CatalogDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.Revision != s.revision {
		return catalog.ErrConflict
	}

	doc.Revision++
	data, err := catalog.EncodeDocument(doc)
	if err != nil {
		doc.Revision--
		return err
	}

	s.data = data
	s.revision = doc.Revision
	return nil
}
