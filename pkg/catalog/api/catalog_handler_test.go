package api_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonarhq/sonar-catalog/pkg/catalog"
	"github.com/sonarhq/sonar-catalog/pkg/catalog/api"
	docmemory "github.com/sonarhq/sonar-catalog/pkg/catalog/docstore/memory"
	memorystorage "github.com/sonarhq/sonar-catalog/pkg/catalog/storage/memory"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	docs := docmemory.New()
	svc, err := catalog.New(
		catalog.WithDocumentStore(docs),
		catalog.WithBlobStore(memorystorage.New()),
	)
	require.NoError(t, err)
	require.NoError(t, svc.EnsureInitialized(context.Background()))

	server := httptest.NewServer(api.NewCatalogHandler(svc).Routes())
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestGetCatalogSnapshot(t *testing.T) {
	server := setupTestServer(t)

	resp, err := http.Get(server.URL + "/catalog")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snapshot catalog.CatalogSnapshot
	decodeJSON(t, resp, &snapshot)
	assert.Len(t, snapshot.Artists, 3)
	assert.Len(t, snapshot.Albums, 3)
	assert.Len(t, snapshot.Songs, 4)
	assert.Len(t, snapshot.Posts, 2)
}

func TestGetArtist(t *testing.T) {
	server := setupTestServer(t)

	t.Run("found", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/artists/3")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var artist struct {
			catalog.Artist
			Handle string `json:"handle"`
		}
		decodeJSON(t, resp, &artist)
		assert.Equal(t, "Los Sónicos", artist.Name)
		assert.Equal(t, "lossonicos", artist.Handle)
	})

	t.Run("unknown id", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/artists/999")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("malformed id", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/artists/abc")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestSearchSongs(t *testing.T) {
	server := setupTestServer(t)

	resp, err := http.Get(server.URL + "/songs?q=LUCES")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var songs []catalog.Song
	decodeJSON(t, resp, &songs)
	require.Len(t, songs, 1)
	assert.Equal(t, "Luces de Neón", songs[0].Title)
}

func TestPublishRelease(t *testing.T) {
	server := setupTestServer(t)

	t.Run("creates album, songs and announcement", func(t *testing.T) {
		payload := base64.StdEncoding.EncodeToString([]byte("audio-bytes"))
		resp := postJSON(t, server.URL+"/releases", map[string]any{
			"artist_name": "Kaze",
			"title":       "New EP",
			"genre":       "Electronic",
			"cover_image": "https://example.com/cover.png",
			"songs": []map[string]any{
				{"title": "Track A", "data": payload},
			},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var release catalog.Release
		decodeJSON(t, resp, &release)
		assert.Equal(t, "New EP", release.Album.Title)
		assert.Equal(t, int64(1), release.Album.ArtistID)
		require.Len(t, release.Songs, 1)
		assert.Equal(t, catalog.SongSourceLocal, release.Songs[0].Source)
		assert.Contains(t, release.Announcement.Text, `"New EP"`)

		// The uploaded payload is immediately streamable.
		audioResp, err := http.Get(server.URL + "/songs/" + strconv.FormatInt(release.Songs[0].ID, 10) + "/audio")
		require.NoError(t, err)
		defer audioResp.Body.Close()
		assert.Equal(t, http.StatusOK, audioResp.StatusCode)
	})

	t.Run("validation failures", func(t *testing.T) {
		tests := []struct {
			name string
			body map[string]any
		}{
			{"missing artist name", map[string]any{
				"title": "X", "cover_image": "c",
				"songs": []map[string]any{{"title": "S"}},
			}},
			{"missing title", map[string]any{
				"artist_name": "Kaze", "cover_image": "c",
				"songs": []map[string]any{{"title": "S"}},
			}},
			{"missing cover image", map[string]any{
				"artist_name": "Kaze", "title": "X",
				"songs": []map[string]any{{"title": "S"}},
			}},
			{"no songs", map[string]any{
				"artist_name": "Kaze", "title": "X", "cover_image": "c",
			}},
			{"bad payload encoding", map[string]any{
				"artist_name": "Kaze", "title": "X", "cover_image": "c",
				"songs": []map[string]any{{"title": "S", "data": "!!not-base64!!"}},
			}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				resp := postJSON(t, server.URL+"/releases", tt.body)
				resp.Body.Close()
				assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			})
		}
	})
}

func TestPublishPost(t *testing.T) {
	server := setupTestServer(t)

	t.Run("registered artist", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/posts", map[string]any{
			"artist_id": 1,
			"text":      "hello from the api",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var post struct {
			ID       int64  `json:"id"`
			ArtistID int64  `json:"artist_id"`
			Text     string `json:"text"`
		}
		decodeJSON(t, resp, &post)
		assert.Equal(t, int64(5003), post.ID)
		assert.Equal(t, int64(1), post.ArtistID)
		assert.Equal(t, "hello from the api", post.Text)

		// New posts lead the feed.
		feedResp, err := http.Get(server.URL + "/posts")
		require.NoError(t, err)
		var posts []catalog.Post
		decodeJSON(t, feedResp, &posts)
		require.NotEmpty(t, posts)
		assert.Equal(t, int64(5003), posts[0].ID)
	})

	t.Run("blank text rejected", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/posts", map[string]any{
			"artist_id": 1,
			"text":      "   ",
		})
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		resp, err := http.Post(server.URL+"/posts", "application/json",
			strings.NewReader("{broken"))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetAudio(t *testing.T) {
	server := setupTestServer(t)

	t.Run("unknown song", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/songs/424242/audio")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("externally hosted song has no payload", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/songs/1001/audio")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestUpsertProfile(t *testing.T) {
	server := setupTestServer(t)

	body, err := json.Marshal(map[string]any{
		"name":          "Kaze Renamed",
		"profile_image": "https://example.com/new.png",
	})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut, server.URL+"/artists/1", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var artist catalog.Artist
	decodeJSON(t, resp, &artist)
	assert.Equal(t, int64(1), artist.ID)
	assert.Equal(t, "Kaze Renamed", artist.Name)
	assert.Equal(t, "https://example.com/new.png", artist.ProfileImage)
}

