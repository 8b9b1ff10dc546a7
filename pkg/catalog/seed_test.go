package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonarhq/sonar-catalog/pkg/catalog"
	docfs "github.com/sonarhq/sonar-catalog/pkg/catalog/docstore/fs"
	docmemory "github.com/sonarhq/sonar-catalog/pkg/catalog/docstore/memory"
)

func TestSeedContents(t *testing.T) {
	store := docmemory.New()
	ctx := context.Background()

	require.NoError(t, catalog.EnsureInitialized(ctx, store))

	doc, err := store.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, catalog.SchemaVersion, doc.SchemaVersion)
	assert.Equal(t, catalog.NextIDs{Artist: 4, Album: 104, Song: 1005, Post: 5003}, doc.NextIDs)

	// Counters start strictly above the highest seeded id per kind.
	for _, artist := range doc.Artists {
		assert.Less(t, artist.ID, doc.NextIDs.Artist)
	}
	for _, album := range doc.Albums {
		assert.Less(t, album.ID, doc.NextIDs.Album)
	}
	for _, song := range doc.Songs {
		assert.Less(t, song.ID, doc.NextIDs.Song)
		assert.Equal(t, catalog.SongSourceExternal, song.Source, "seeded songs are externally hosted")
		assert.NotEmpty(t, song.ExternalURL)
	}
	for _, post := range doc.Posts {
		assert.Less(t, post.ID, doc.NextIDs.Post)
	}
}

func TestEnsureInitializedDoesNotReseedCorruptStore(t *testing.T) {
	dir := t.TempDir()
	store, err := docfs.New(docfs.Config{BaseDir: dir})
	require.NoError(t, err)

	corrupted := []byte("{definitely not a catalog")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.json"), corrupted, 0644))

	err = catalog.EnsureInitialized(context.Background(), store)
	assert.ErrorIs(t, err, catalog.ErrCorruptDocument)

	// The corrupt content is untouched: fail loudly, never reseed over it.
	data, readErr := os.ReadFile(filepath.Join(dir, "catalog.json"))
	require.NoError(t, readErr)
	assert.Equal(t, corrupted, data)
}
