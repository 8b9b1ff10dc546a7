package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/sonarhq/sonar-catalog/pkg/catalog"
)

// CatalogHandler exposes the catalog service over HTTP for UI collaborators
type CatalogHandler struct {
	service catalog.Service
}

func NewCatalogHandler(service catalog.Service) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// Routes returns the router for catalog endpoints
func (h *CatalogHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/catalog", h.GetCatalogSnapshot)
	r.Get("/posts", h.ListPosts)
	r.Post("/posts", h.PublishPost)
	r.Get("/songs", h.SearchSongs)
	r.Get("/songs/{song_id}/audio", h.GetAudio)
	r.Post("/releases", h.PublishRelease)
	r.Get("/artists/{artist_id}", h.GetArtist)
	r.Get("/artists/{artist_id}/albums", h.ListAlbumsByArtist)
	r.Get("/artists/{artist_id}/songs", h.ListSongsByArtist)
	r.Put("/artists/{artist_id}", h.UpsertProfile)
	return r
}

// PublishReleaseRequest represents the request to publish a release.
// Each song carries either a base64 payload or an external URL.
type PublishReleaseRequest struct {
	ArtistName   string               `json:"artist_name"`
	ProfileImage string               `json:"profile_image,omitempty"`
	BannerImage  string               `json:"banner_image,omitempty"`
	Title        string               `json:"title"`
	Genre        string               `json:"genre"`
	CoverImage   string               `json:"cover_image"`
	Songs        []ReleaseSongRequest `json:"songs"`
}

// ReleaseSongRequest represents one song entry in a release
type ReleaseSongRequest struct {
	Title       string `json:"title"`
	Data        string `json:"data,omitempty"` // base64 audio payload
	ExternalURL string `json:"external_url,omitempty"`
}

// PublishPostRequest represents the request to publish a feed post
type PublishPostRequest struct {
	ArtistID    int64  `json:"artist_id"`
	DisplayName string `json:"display_name,omitempty"`
	Text        string `json:"text"`
}

// UpsertProfileRequest represents the request to create or edit a profile
type UpsertProfileRequest struct {
	Name         string `json:"name,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
	BannerImage  string `json:"banner_image,omitempty"`
}

// PostResponse represents a created post
type PostResponse struct {
	ID        int64     `json:"id"`
	ArtistID  int64     `json:"artist_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// GetCatalogSnapshot returns the full catalog for display joins
func (h *CatalogHandler) GetCatalogSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.GetCatalogSnapshot(r.Context())
	if err != nil {
		h.renderError(w, r, "get catalog snapshot", err)
		return
	}

	render.JSON(w, r, snapshot)
}

// ListPosts returns the feed, newest-first
func (h *CatalogHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPosts(r.Context())
	if err != nil {
		h.renderError(w, r, "list posts", err)
		return
	}

	render.JSON(w, r, posts)
}

// PublishPost publishes a user-authored feed post
func (h *CatalogHandler) PublishPost(w http.ResponseWriter, r *http.Request) {
	var req PublishPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Input validation lives at this boundary; the service stays permissive.
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "Post text is required", http.StatusBadRequest)
		return
	}

	identity := catalog.Identity{ArtistID: req.ArtistID, DisplayName: req.DisplayName}
	post, err := h.service.PublishPost(r.Context(), identity, req.Text)
	if err != nil {
		h.renderError(w, r, "publish post", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, PostResponse{
		ID:        post.ID,
		ArtistID:  post.ArtistID,
		Text:      post.Text,
		CreatedAt: post.CreatedAt,
	})
}

// SearchSongs filters songs by title substring via the q parameter
func (h *CatalogHandler) SearchSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := h.service.SearchSongs(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.renderError(w, r, "search songs", err)
		return
	}

	render.JSON(w, r, songs)
}

// GetAudio streams a song's local audio payload
func (h *CatalogHandler) GetAudio(w http.ResponseWriter, r *http.Request) {
	songID, err := parseID(chi.URLParam(r, "song_id"))
	if err != nil {
		http.Error(w, "Invalid song ID", http.StatusBadRequest)
		return
	}

	rc, err := h.service.GetAudioForSong(r.Context(), songID)
	if err != nil {
		if errors.Is(err, catalog.ErrAudioNotFound) || errors.Is(err, catalog.ErrSongNotFound) {
			http.Error(w, "Audio not found", http.StatusNotFound)
			return
		}
		// A failed blob read must surface to the player without crashing it.
		slog.Error("Failed to read audio payload", "song_id", songID, "error", err)
		http.Error(w, "Audio unavailable", http.StatusBadGateway)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("Failed to stream audio payload", "song_id", songID, "error", err)
	}
}

// PublishRelease publishes an album with its songs and announcement post
func (h *CatalogHandler) PublishRelease(w http.ResponseWriter, r *http.Request) {
	var req PublishReleaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.ArtistName == "" {
		http.Error(w, "Artist name is required", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "Album title is required", http.StatusBadRequest)
		return
	}
	if req.CoverImage == "" {
		http.Error(w, "Cover image is required", http.StatusBadRequest)
		return
	}
	if len(req.Songs) == 0 {
		http.Error(w, "At least one song is required", http.StatusBadRequest)
		return
	}

	songs := make([]catalog.ReleaseSong, 0, len(req.Songs))
	for _, entry := range req.Songs {
		song := catalog.ReleaseSong{
			Title:       entry.Title,
			ExternalURL: entry.ExternalURL,
		}
		if entry.Data != "" {
			payload, err := base64.StdEncoding.DecodeString(entry.Data)
			if err != nil {
				http.Error(w, "Invalid audio payload encoding", http.StatusBadRequest)
				return
			}
			song.Payload = payload
		}
		songs = append(songs, song)
	}

	release, err := h.service.PublishRelease(r.Context(), catalog.PublishReleaseRequest{
		ArtistName:   req.ArtistName,
		ProfileImage: req.ProfileImage,
		BannerImage:  req.BannerImage,
		Title:        req.Title,
		Genre:        req.Genre,
		CoverImage:   req.CoverImage,
		Songs:        songs,
	})
	if err != nil {
		h.renderError(w, r, "publish release", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, release)
}

// ArtistResponse represents an artist with the derived feed handle
type ArtistResponse struct {
	catalog.Artist
	Handle string `json:"handle"`
}

// GetArtist resolves an artist by id
func (h *CatalogHandler) GetArtist(w http.ResponseWriter, r *http.Request) {
	artistID, err := parseID(chi.URLParam(r, "artist_id"))
	if err != nil {
		http.Error(w, "Invalid artist ID", http.StatusBadRequest)
		return
	}

	artist, err := h.service.GetArtist(r.Context(), artistID)
	if err != nil {
		h.renderError(w, r, "get artist", err)
		return
	}

	render.JSON(w, r, ArtistResponse{Artist: *artist, Handle: artist.Handle()})
}

// ListAlbumsByArtist returns an artist's releases
func (h *CatalogHandler) ListAlbumsByArtist(w http.ResponseWriter, r *http.Request) {
	artistID, err := parseID(chi.URLParam(r, "artist_id"))
	if err != nil {
		http.Error(w, "Invalid artist ID", http.StatusBadRequest)
		return
	}

	albums, err := h.service.ListAlbumsByArtist(r.Context(), artistID)
	if err != nil {
		h.renderError(w, r, "list albums", err)
		return
	}

	render.JSON(w, r, albums)
}

// ListSongsByArtist returns an artist's songs
func (h *CatalogHandler) ListSongsByArtist(w http.ResponseWriter, r *http.Request) {
	artistID, err := parseID(chi.URLParam(r, "artist_id"))
	if err != nil {
		http.Error(w, "Invalid artist ID", http.StatusBadRequest)
		return
	}

	songs, err := h.service.ListSongsByArtist(r.Context(), artistID)
	if err != nil {
		h.renderError(w, r, "list songs", err)
		return
	}

	render.JSON(w, r, songs)
}

// UpsertProfile creates or edits an artist profile
func (h *CatalogHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	artistID, err := parseID(chi.URLParam(r, "artist_id"))
	if err != nil {
		http.Error(w, "Invalid artist ID", http.StatusBadRequest)
		return
	}

	var req UpsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	artist, err := h.service.UpsertProfile(r.Context(), catalog.Identity{ArtistID: artistID}, catalog.UpsertProfileRequest{
		Name:         req.Name,
		ProfileImage: req.ProfileImage,
		BannerImage:  req.BannerImage,
	})
	if err != nil {
		h.renderError(w, r, "upsert profile", err)
		return
	}

	render.JSON(w, r, artist)
}

func (h *CatalogHandler) renderError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, catalog.ErrArtistNotFound),
		errors.Is(err, catalog.ErrAlbumNotFound),
		errors.Is(err, catalog.ErrSongNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, catalog.ErrConflict):
		http.Error(w, "Conflicting update, retry", http.StatusConflict)
	case errors.Is(err, catalog.ErrCorruptDocument):
		slog.Error("Catalog document corrupt", "op", op, "error", err)
		http.Error(w, "Catalog unavailable", http.StatusInternalServerError)
	default:
		slog.Error("Catalog operation failed", "op", op, "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}
