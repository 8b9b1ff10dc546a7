package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Placeholder profile data for artist records created on the fly.
const (
	guestArtistName         = "Guest"
	placeholderProfileImage = "https://via.placeholder.com/150"
	placeholderBannerImage  = "https://via.placeholder.com/1200x400/333/333"
)

const defaultBlobTimeout = 30 * time.Second

// service implements the Service interface
type service struct {
	docs        DocumentStore
	blobs       BlobStore
	logger      *slog.Logger
	blobTimeout time.Duration
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithDocumentStore sets the catalog document store for the service
func WithDocumentStore(store DocumentStore) Option {
	return func(s *service) {
		s.docs = store
	}
}

// WithBlobStore sets the audio blob store for the service
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobs = store
	}
}

// WithLogger sets the logger used for non-fatal blob failures
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithBlobTimeout bounds each blob write issued during PublishRelease. A
// hung storage transaction fails the affected song instead of blocking the
// mutation indefinitely.
func WithBlobTimeout(d time.Duration) Option {
	return func(s *service) {
		s.blobTimeout = d
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		blobTimeout: defaultBlobTimeout,
	}

	for _, option := range options {
		option(s)
	}

	if s.docs == nil {
		return nil, fmt.Errorf("document store is required")
	}
	if s.blobs == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

func (s *service) EnsureInitialized(ctx context.Context) error {
	return EnsureInitialized(ctx, s.docs)
}

// Query operations

func (s *service) GetCatalogSnapshot(ctx context.Context) (*CatalogSnapshot, error) {
	doc, err := s.docs.Load(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := &CatalogSnapshot{
		Artists: append([]Artist(nil), doc.Artists...),
		Albums:  append([]Album(nil), doc.Albums...),
		Songs:   append([]Song(nil), doc.Songs...),
		Posts:   append([]Post(nil), doc.Posts...),
	}
	return snapshot, nil
}

func (s *service) GetArtist(ctx context.Context, id int64) (*Artist, error) {
	doc, err := s.docs.Load(ctx)
	if err != nil {
		return nil, err
	}

	artist := doc.artistByID(id)
	if artist == nil {
		return nil, &CatalogError{Op: "get", Kind: "artist", ID: id, Err: ErrArtistNotFound}
	}
	artistCopy := *artist
	return &artistCopy, nil
}

func (s *service) GetAlbum(ctx context.Context, id int64) (*Album, error) {
	doc, err := s.docs.Load(ctx)
	if err != nil {
		return nil, err
	}

	album := doc.albumByID(id)
	if album == nil {
		return nil, &CatalogError{Op: "get", Kind: "album", ID: id, Err: ErrAlbumNotFound}
	}
	albumCopy := *album
	return &albumCopy, nil
}

func (s *service) GetSong(ctx context.Context, id int64) (*Song, error) {
	doc, err := s.docs.Load(ctx)
	if err != nil {
		return nil, err
	}

	song := doc.songByID(id)
	if song == nil {
		return nil, &CatalogError{Op: "get", Kind: "song", ID: id, Err: ErrSongNotFound}
	}
	songCopy := *song
	return &songCopy, nil
}

func (s *service) ListAlbumsByArtist(ctx context.Context, artistID int64) ([]Album, error) {
	doc, err := s.docs.Load(ctx)
	if err != nil {
		return nil, err
	}

	var result []Album
	for _, album := range doc.Albums {
		if album.ArtistID == artistID {
			result = append(result, album)
		}
	}
	return result, nil
}

func (s *service) ListSongsByArtist(ctx context.Context, artistID int64) ([]Song, error) {
	doc, err := s.docs.Load(ctx)
	if err != nil {
		return nil, err
	}

	var result []Song
	for _, song := range doc.Songs {
		if song.ArtistID == artistID {
			result = append(result, song)
		}
	}
	return result, nil
}

func (s *service) ListSongsByAlbum(ctx context.Context, albumID int64) ([]Song, error) {
	doc, err := s.docs.Load(ctx)
	if err != nil {
		return nil, err
	}

	var result []Song
	for _, song := range doc.Songs {
		if song.AlbumID == albumID {
			result = append(result, song)
		}
	}
	return result, nil
}

func (s *service) SearchSongs(ctx context.Context, query string) ([]Song, error) {
	doc, err := s.docs.Load(ctx)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(query)
	var result []Song
	for _, song := range doc.Songs {
		if strings.Contains(strings.ToLower(song.Title), term) {
			result = append(result, song)
		}
	}
	return result, nil
}

func (s *service) ListPosts(ctx context.Context) ([]Post, error) {
	doc, err := s.docs.Load(ctx)
	if err != nil {
		return nil, err
	}
	return append([]Post(nil), doc.Posts...), nil
}

func (s *service) CountSongsByArtist(ctx context.Context, artistID int64) (int, error) {
	doc, err := s.docs.Load(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, song := range doc.Songs {
		if song.ArtistID == artistID {
			count++
		}
	}
	return count, nil
}

func (s *service) ResolveIdentity(ctx context.Context, identity Identity) (*Artist, error) {
	doc, err := s.docs.Load(ctx)
	if err != nil {
		return nil, err
	}

	if artist := doc.artistByID(identity.ArtistID); artist != nil {
		artistCopy := *artist
		return &artistCopy, nil
	}

	// No record yet: return a guest placeholder without persisting it.
	return &Artist{
		ID:           identity.ArtistID,
		Kind:         ArtistKindGuest,
		Name:         displayNameOrGuest(identity),
		ProfileImage: placeholderProfileImage,
	}, nil
}

func (s *service) GetAudioForSong(ctx context.Context, songID int64) (io.ReadCloser, error) {
	doc, err := s.docs.Load(ctx)
	if err != nil {
		return nil, err
	}

	song := doc.songByID(songID)
	if song == nil {
		return nil, &CatalogError{Op: "get_audio", Kind: "song", ID: songID, Err: ErrSongNotFound}
	}
	if song.Source == SongSourceExternal {
		return nil, ErrAudioNotFound
	}

	rc, err := s.blobs.Get(ctx, songID)
	if err != nil {
		if errors.Is(err, ErrAudioNotFound) {
			return nil, err
		}
		return nil, &BlobError{SongID: songID, Op: "get", Err: err}
	}
	return rc, nil
}

// Mutation operations

func (s *service) PublishRelease(ctx context.Context, req PublishReleaseRequest) (*Release, error) {
	doc, err := s.docs.Load(ctx)
	if err != nil {
		return nil, err
	}

	// Resolve artist by case-insensitive exact name match, creating a new
	// record only when no match exists.
	artist := doc.artistByName(req.ArtistName)
	if artist == nil {
		newArtist := Artist{
			ID:           doc.allocArtistID(),
			Kind:         ArtistKindRegistered,
			Name:         req.ArtistName,
			ProfileImage: req.ProfileImage,
			BannerImage:  req.BannerImage,
		}
		doc.Artists = append(doc.Artists, newArtist)
		artist = &doc.Artists[len(doc.Artists)-1]
	}

	album := Album{
		ID:         doc.allocAlbumID(),
		Title:      req.Title,
		ArtistID:   artist.ID,
		Genre:      req.Genre,
		CoverImage: req.CoverImage,
	}
	doc.Albums = append(doc.Albums, album)

	// Song metadata is created even when the payload write fails; metadata
	// is the source of truth and the blob is a best-effort cache.
	songs := make([]Song, 0, len(req.Songs))
	var failed []int64
	for _, entry := range req.Songs {
		song := Song{
			ID:       doc.allocSongID(),
			Title:    entry.Title,
			ArtistID: artist.ID,
			AlbumID:  album.ID,
			Source:   SongSourceLocal,
		}
		if len(entry.Payload) == 0 && entry.ExternalURL != "" {
			song.Source = SongSourceExternal
			song.ExternalURL = entry.ExternalURL
		}
		doc.Songs = append(doc.Songs, song)
		songs = append(songs, song)

		if song.Source == SongSourceLocal {
			if err := s.putBlob(ctx, song.ID, entry.Payload); err != nil {
				s.logger.Error("failed to store audio payload",
					"song_id", song.ID, "title", song.Title, "error", err)
				failed = append(failed, song.ID)
			}
		}
	}

	announcement := Post{
		ID:        doc.allocPostID(),
		ArtistID:  artist.ID,
		Text:      fmt.Sprintf("Just released my new project %q. Listen now on Sonar!", album.Title),
		CreatedAt: time.Now().UTC(),
	}
	doc.prependPost(announcement)

	if err := s.docs.Save(ctx, doc); err != nil {
		return nil, &CatalogError{Op: "publish_release", Kind: "album", ID: album.ID, Err: err}
	}

	return &Release{
		Artist:        *artist,
		Album:         album,
		Songs:         songs,
		Announcement:  announcement,
		FailedSongIDs: failed,
	}, nil
}

func (s *service) PublishPost(ctx context.Context, identity Identity, text string) (*Post, error) {
	doc, err := s.docs.Load(ctx)
	if err != nil {
		return nil, err
	}

	// First post creates the identity's artist record on the fly with
	// placeholder profile data.
	if doc.artistByID(identity.ArtistID) == nil {
		doc.Artists = append(doc.Artists, Artist{
			ID:           identity.ArtistID,
			Kind:         ArtistKindRegistered,
			Name:         displayNameOrGuest(identity),
			ProfileImage: placeholderProfileImage,
			BannerImage:  placeholderBannerImage,
		})
		doc.claimArtistID(identity.ArtistID)
	}

	post := Post{
		ID:        doc.allocPostID(),
		ArtistID:  identity.ArtistID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	doc.prependPost(post)

	if err := s.docs.Save(ctx, doc); err != nil {
		return nil, &CatalogError{Op: "publish_post", Kind: "post", ID: post.ID, Err: err}
	}

	return &post, nil
}

func (s *service) UpsertProfile(ctx context.Context, identity Identity, req UpsertProfileRequest) (*Artist, error) {
	doc, err := s.docs.Load(ctx)
	if err != nil {
		return nil, err
	}

	artist := doc.artistByID(identity.ArtistID)
	if artist != nil {
		if req.Name != "" {
			artist.Name = req.Name
		}
		if req.ProfileImage != "" {
			artist.ProfileImage = req.ProfileImage
		}
		if req.BannerImage != "" {
			artist.BannerImage = req.BannerImage
		}
	} else {
		name := req.Name
		if name == "" {
			name = displayNameOrGuest(identity)
		}
		doc.Artists = append(doc.Artists, Artist{
			ID:           identity.ArtistID,
			Kind:         ArtistKindRegistered,
			Name:         name,
			ProfileImage: req.ProfileImage,
			BannerImage:  req.BannerImage,
		})
		doc.claimArtistID(identity.ArtistID)
		artist = &doc.Artists[len(doc.Artists)-1]
	}

	if err := s.docs.Save(ctx, doc); err != nil {
		return nil, &CatalogError{Op: "upsert_profile", Kind: "artist", ID: identity.ArtistID, Err: err}
	}

	artistCopy := *artist
	return &artistCopy, nil
}

func (s *service) putBlob(ctx context.Context, songID int64, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, s.blobTimeout)
	defer cancel()

	if err := s.blobs.Put(ctx, songID, bytes.NewReader(payload)); err != nil {
		return &BlobError{SongID: songID, Op: "put", Err: err}
	}
	return nil
}

func displayNameOrGuest(identity Identity) string {
	if identity.DisplayName != "" {
		return identity.DisplayName
	}
	return guestArtistName
}
