package catalog

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrArtistNotFound indicates an artist was not found
	ErrArtistNotFound = errors.New("artist not found")

	// ErrAlbumNotFound indicates an album was not found
	ErrAlbumNotFound = errors.New("album not found")

	// ErrSongNotFound indicates a song was not found
	ErrSongNotFound = errors.New("song not found")

	// ErrAudioNotFound indicates a song has no payload in the blob store.
	// Absence is expected for external-source songs.
	ErrAudioNotFound = errors.New("audio not found")

	// ErrDocumentNotFound indicates no catalog document has been persisted yet
	ErrDocumentNotFound = errors.New("catalog document not found")

	// ErrCorruptDocument indicates the persisted catalog document failed to
	// parse or has an unsupported schema version. Fatal; there is no repair
	// path and the seed is never reapplied over it.
	ErrCorruptDocument = errors.New("catalog document corrupt")

	// ErrConflict indicates a save lost the revision race against another
	// writer. The caller must reload and retry the mutation.
	ErrConflict = errors.New("catalog document revision conflict")
)

// CatalogError represents an error from a catalog mutation or query
type CatalogError struct {
	Op   string
	Kind string
	ID   int64
	Err  error
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("catalog operation %s failed for %s %d: %v", e.Op, e.Kind, e.ID, e.Err)
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}

// BlobError represents an error from a blob store operation
type BlobError struct {
	SongID int64
	Op     string
	Err    error
}

func (e *BlobError) Error() string {
	return fmt.Sprintf("blob operation %s failed for song %d: %v", e.Op, e.SongID, e.Err)
}

func (e *BlobError) Unwrap() error {
	return e.Err
}
