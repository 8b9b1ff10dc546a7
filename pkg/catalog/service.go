package catalog

import (
	"context"
	"io"
)

// Service defines the main interface for the catalog storage engine
type Service interface {
	// EnsureInitialized seeds the document store with the demo dataset when
	// no document exists yet. Idempotent; must run before anything else.
	EnsureInitialized(ctx context.Context) error

	// Query operations
	GetCatalogSnapshot(ctx context.Context) (*CatalogSnapshot, error)
	GetArtist(ctx context.Context, id int64) (*Artist, error)
	GetAlbum(ctx context.Context, id int64) (*Album, error)
	GetSong(ctx context.Context, id int64) (*Song, error)
	ListAlbumsByArtist(ctx context.Context, artistID int64) ([]Album, error)
	ListSongsByArtist(ctx context.Context, artistID int64) ([]Song, error)
	ListSongsByAlbum(ctx context.Context, albumID int64) ([]Song, error)
	SearchSongs(ctx context.Context, query string) ([]Song, error)
	ListPosts(ctx context.Context) ([]Post, error)
	CountSongsByArtist(ctx context.Context, artistID int64) (int, error)

	// ResolveIdentity returns the artist record for an identity, or a guest
	// placeholder (never persisted) when the identity has no record yet.
	ResolveIdentity(ctx context.Context, identity Identity) (*Artist, error)

	// GetAudioForSong streams a song's local payload from the blob store.
	// Returns ErrAudioNotFound when the song has no local payload.
	GetAudioForSong(ctx context.Context, songID int64) (io.ReadCloser, error)

	// Mutation operations
	PublishRelease(ctx context.Context, req PublishReleaseRequest) (*Release, error)
	PublishPost(ctx context.Context, identity Identity, text string) (*Post, error)
	UpsertProfile(ctx context.Context, identity Identity, req UpsertProfileRequest) (*Artist, error)
}
