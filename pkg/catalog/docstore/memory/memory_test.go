package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonarhq/sonar-catalog/pkg/catalog"
	"github.com/sonarhq/sonar-catalog/pkg/catalog/docstore/memory"
)

func testDocument() *catalog.CatalogDocument {
	return &catalog.CatalogDocument{
		SchemaVersion: catalog.SchemaVersion,
		Artists: []catalog.Artist{
			{ID: 1, Kind: catalog.ArtistKindRegistered, Name: "Kaze", ProfileImage: "p"},
		},
		NextIDs: catalog.NextIDs{Artist: 2, Album: 1, Song: 1, Post: 1},
	}
}

func TestLoadMissingDocument(t *testing.T) {
	store := memory.New()

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, catalog.ErrDocumentNotFound)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	doc := testDocument()
	require.NoError(t, store.Save(ctx, doc))
	assert.Equal(t, int64(1), doc.Revision, "save bumps the caller's revision")

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc.Artists, loaded.Artists)
	assert.Equal(t, doc.NextIDs, loaded.NextIDs)
	assert.Equal(t, int64(1), loaded.Revision)
}

func TestSaveRevisionConflict(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testDocument()))

	// A writer holding a stale copy loses the race.
	stale := testDocument() // revision 0
	err := store.Save(ctx, stale)
	assert.ErrorIs(t, err, catalog.ErrConflict)
	assert.Equal(t, int64(0), stale.Revision, "failed save leaves the copy untouched")

	// The current copy can keep saving.
	current, err := store.Load(ctx)
	require.NoError(t, err)
	current.NextIDs.Artist++
	require.NoError(t, store.Save(ctx, current))
	assert.Equal(t, int64(2), current.Revision)
}

func TestLostUpdateIsDetected(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testDocument()))

	first, err := store.Load(ctx)
	require.NoError(t, err)
	second, err := store.Load(ctx)
	require.NoError(t, err)

	first.Artists[0].Name = "First Writer"
	require.NoError(t, store.Save(ctx, first))

	second.Artists[0].Name = "Second Writer"
	assert.ErrorIs(t, store.Save(ctx, second), catalog.ErrConflict)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "First Writer", loaded.Artists[0].Name)
}
