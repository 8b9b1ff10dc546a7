package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonarhq/sonar-catalog/pkg/catalog"
	"github.com/sonarhq/sonar-catalog/pkg/catalog/docstore/fs"
)

func newTestStore(t *testing.T) (catalog.DocumentStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := fs.New(fs.Config{BaseDir: dir})
	require.NoError(t, err)
	return store, dir
}

func testDocument() *catalog.CatalogDocument {
	return &catalog.CatalogDocument{
		SchemaVersion: catalog.SchemaVersion,
		Artists: []catalog.Artist{
			{ID: 1, Kind: catalog.ArtistKindRegistered, Name: "Kaze", ProfileImage: "p"},
		},
		NextIDs: catalog.NextIDs{Artist: 2, Album: 1, Song: 1, Post: 1},
	}
}

func TestNewRequiresBaseDir(t *testing.T) {
	_, err := fs.New(fs.Config{})
	assert.Error(t, err)
}

func TestLoadMissingDocument(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, catalog.ErrDocumentNotFound)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	doc := testDocument()
	require.NoError(t, store.Save(ctx, doc))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc.Artists, loaded.Artists)
	assert.Equal(t, int64(1), loaded.Revision)

	// The document survives a new store instance over the same directory.
	reopened, err := fs.New(fs.Config{BaseDir: dir})
	require.NoError(t, err)
	loaded, err = reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Kaze", loaded.Artists[0].Name)
}

func TestSaveRevisionConflict(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testDocument()))

	stale := testDocument()
	assert.ErrorIs(t, store.Save(ctx, stale), catalog.ErrConflict)
}

func TestCorruptDocumentFailsLoudly(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.json"), []byte("{not json"), 0644))

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, catalog.ErrCorruptDocument)

	// A corrupt document also blocks saves rather than being overwritten.
	assert.ErrorIs(t, store.Save(ctx, testDocument()), catalog.ErrCorruptDocument)
}

func TestUnsupportedSchemaVersionIsCorrupt(t *testing.T) {
	store, dir := newTestStore(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.json"),
		[]byte(`{"schema_version": 99, "revision": 1}`), 0644))

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, catalog.ErrCorruptDocument)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	store, dir := newTestStore(t)
	require.NoError(t, store.Save(context.Background(), testDocument()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "catalog.json", entries[0].Name())
}
