package catalog

import (
	"strings"
	"time"
)

// SchemaVersion is the only document shape this package reads or writes.
// A stored document with any other version fails as ErrCorruptDocument.
const SchemaVersion = 1

// ArtistKind is the domain type for artist record variants.
type ArtistKind string

// Artist kind constants (typed).
const (
	// ArtistKindRegistered is a real profile persisted in the catalog.
	ArtistKindRegistered ArtistKind = "registered"
	// ArtistKindGuest is the placeholder returned for an identity that has
	// no artist record yet. Guest records are never persisted.
	ArtistKindGuest ArtistKind = "guest"
)

// SongSource is the domain type for where a song's audio comes from.
type SongSource string

// Song source constants (typed).
const (
	// SongSourceLocal means the payload lives in the blob store under the
	// song's id.
	SongSourceLocal SongSource = "local"
	// SongSourceExternal means the audio is fetched from ExternalURL and no
	// blob store entry exists.
	SongSourceExternal SongSource = "external"
)

// Artist represents a profile in the catalog. Ids are immutable once
// assigned; editable fields change only through UpsertProfile.
type Artist struct {
	ID           int64      `json:"id"`
	Kind         ArtistKind `json:"kind"`
	Name         string     `json:"name"`
	ProfileImage string     `json:"profile_image"`
	BannerImage  string     `json:"banner_image,omitempty"`
}

// Album represents a released album. Albums are immutable after creation;
// there is no edit or delete path.
type Album struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	ArtistID   int64  `json:"artist_id"`
	Genre      string `json:"genre"`
	CoverImage string `json:"cover_image"`
}

// Song represents a track bound to an artist and an album. Local songs key
// their audio payload into the blob store by this same id.
type Song struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	ArtistID    int64      `json:"artist_id"`
	AlbumID     int64      `json:"album_id"`
	Source      SongSource `json:"source"`
	ExternalURL string     `json:"external_url,omitempty"`
}

// Post represents a feed entry. The stored sequence is newest-first: new
// posts are prepended, never appended.
type Post struct {
	ID        int64     `json:"id"`
	ArtistID  int64     `json:"artist_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// NextIDs holds the per-kind id allocation counters. Every allocated id for
// a kind is strictly less than that kind's counter; counters never decrease.
type NextIDs struct {
	Artist int64 `json:"artist"`
	Album  int64 `json:"album"`
	Song   int64 `json:"song"`
	Post   int64 `json:"post"`
}

// CatalogDocument is the whole catalog state: one serialized record holding
// every entity plus the id counters. It is read and rewritten wholesale on
// every mutation; Revision is bumped by the document store on each save.
type CatalogDocument struct {
	SchemaVersion int      `json:"schema_version"`
	Revision      int64    `json:"revision"`
	Artists       []Artist `json:"artists"`
	Albums        []Album  `json:"albums"`
	Songs         []Song   `json:"songs"`
	Posts         []Post   `json:"posts"`
	NextIDs       NextIDs  `json:"next_ids"`
}

// Identity names the acting user for mutations. DisplayName is used only
// when an artist record has to be created on the fly for a first post.
type Identity struct {
	ArtistID    int64
	DisplayName string
}

// CatalogSnapshot is a read-only copy of the catalog for display joins.
type CatalogSnapshot struct {
	Artists []Artist `json:"artists"`
	Albums  []Album  `json:"albums"`
	Songs   []Song   `json:"songs"`
	Posts   []Post   `json:"posts"`
}

// Release is the result of a PublishRelease: the resolved artist, the new
// album and songs, and the auto-generated announcement post.
type Release struct {
	Artist       Artist `json:"artist"`
	Album        Album  `json:"album"`
	Songs        []Song `json:"songs"`
	Announcement Post   `json:"announcement"`
	// FailedSongIDs lists songs whose blob write failed; their metadata
	// records still exist.
	FailedSongIDs []int64 `json:"failed_song_ids,omitempty"`
}

func (d *CatalogDocument) artistByID(id int64) *Artist {
	for i := range d.Artists {
		if d.Artists[i].ID == id {
			return &d.Artists[i]
		}
	}
	return nil
}

// artistByName resolves an artist by case-insensitive exact name match.
func (d *CatalogDocument) artistByName(name string) *Artist {
	for i := range d.Artists {
		if strings.EqualFold(d.Artists[i].Name, name) {
			return &d.Artists[i]
		}
	}
	return nil
}

func (d *CatalogDocument) albumByID(id int64) *Album {
	for i := range d.Albums {
		if d.Albums[i].ID == id {
			return &d.Albums[i]
		}
	}
	return nil
}

func (d *CatalogDocument) songByID(id int64) *Song {
	for i := range d.Songs {
		if d.Songs[i].ID == id {
			return &d.Songs[i]
		}
	}
	return nil
}

func (d *CatalogDocument) allocArtistID() int64 {
	id := d.NextIDs.Artist
	d.NextIDs.Artist++
	return id
}

func (d *CatalogDocument) allocAlbumID() int64 {
	id := d.NextIDs.Album
	d.NextIDs.Album++
	return id
}

func (d *CatalogDocument) allocSongID() int64 {
	id := d.NextIDs.Song
	d.NextIDs.Song++
	return id
}

func (d *CatalogDocument) allocPostID() int64 {
	id := d.NextIDs.Post
	d.NextIDs.Post++
	return id
}

// claimArtistID keeps the counter invariant when a caller supplies its own
// artist id (profile upsert, first-post-creates-identity).
func (d *CatalogDocument) claimArtistID(id int64) {
	if id >= d.NextIDs.Artist {
		d.NextIDs.Artist = id + 1
	}
}

// prependPost keeps the posts sequence newest-first.
func (d *CatalogDocument) prependPost(p Post) {
	d.Posts = append([]Post{p}, d.Posts...)
}
