package catalog

import (
	"context"
	"io"
)

// DocumentStore defines the interface for catalog document persistence.
//
// It has whole-document semantics: Load returns the complete current state
// and Save atomically replaces the entire persisted document. There is no
// partial-field update; callers load, mutate a local copy and save the
// whole thing back.
type DocumentStore interface {
	// Load returns the current catalog document. It returns
	// ErrDocumentNotFound when nothing has been persisted yet and
	// ErrCorruptDocument when the stored content fails to parse.
	Load(ctx context.Context) (*CatalogDocument, error)

	// Save replaces the persisted document. The save succeeds only when
	// doc.Revision matches the stored revision (zero for a fresh store);
	// otherwise it fails with ErrConflict. On success the store bumps
	// doc.Revision in place so the caller's copy stays current.
	Save(ctx context.Context, doc *CatalogDocument) error
}

// BlobStore defines the interface for audio payload storage, keyed by song
// id. Operations against different ids may run concurrently; operations
// against the same id are serialized by the backend, so a Put followed by a
// Get for the same id observes the put's effect.
type BlobStore interface {
	// Put stores the payload for a song, silently overwriting any existing
	// payload for that id.
	Put(ctx context.Context, songID int64, r io.Reader) error

	// Get returns the payload for a song. It returns ErrAudioNotFound when
	// no payload exists for the id; a song may legitimately have none.
	Get(ctx context.Context, songID int64) (io.ReadCloser, error)
}
