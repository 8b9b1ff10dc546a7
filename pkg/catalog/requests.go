package catalog

// Request DTOs

// ReleaseSong is one song entry in a PublishReleaseRequest, in input order.
// Payload and ExternalURL are mutually exclusive in practice; when both are
// set the payload wins and the entry is stored as a local song.
type ReleaseSong struct {
	Title       string
	Payload     []byte
	ExternalURL string
}

// PublishReleaseRequest contains parameters for publishing a release: one
// album plus its songs plus an announcement post.
//
// ArtistName resolves an existing artist by case-insensitive exact match;
// ProfileImage and BannerImage are used only when no match is found and a
// new artist record is created. The service is deliberately permissive:
// field validation (non-empty title, cover image, at least one song) is the
// caller's responsibility.
type PublishReleaseRequest struct {
	ArtistName   string
	ProfileImage string
	BannerImage  string
	Title        string
	Genre        string
	CoverImage   string
	Songs        []ReleaseSong
}

// UpsertProfileRequest contains the editable artist fields. Empty fields
// leave the existing value unchanged when the artist already exists.
type UpsertProfileRequest struct {
	Name         string
	ProfileImage string
	BannerImage  string
}
