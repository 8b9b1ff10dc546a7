package catalog

import (
	"context"
	"errors"
	"time"
)

// seedDocument builds the fixed demo dataset used to populate an empty
// store. Counters start strictly above the highest seeded id per kind.
func seedDocument() *CatalogDocument {
	now := time.Now().UTC()
	return &CatalogDocument{
		SchemaVersion: SchemaVersion,
		Artists: []Artist{
			{ID: 1, Kind: ArtistKindRegistered, Name: "Kaze", ProfileImage: "https://i.pravatar.cc/150?u=kaze", BannerImage: "https://picsum.photos/seed/kaze/800/300"},
			{ID: 2, Kind: ArtistKindRegistered, Name: "Neon Vibes", ProfileImage: "https://i.pravatar.cc/150?u=neon", BannerImage: "https://picsum.photos/seed/neon/800/300"},
			{ID: 3, Kind: ArtistKindRegistered, Name: "Los Sónicos", ProfileImage: "https://i.pravatar.cc/150?u=sonic", BannerImage: "https://picsum.photos/seed/sonic/800/300"},
		},
		Albums: []Album{
			{ID: 101, Title: "Arcane Signet", ArtistID: 1, Genre: "Hip Hop", CoverImage: "https://picsum.photos/seed/arcane/300/300"},
			{ID: 102, Title: "Midnight City", ArtistID: 2, Genre: "Synthwave", CoverImage: "https://picsum.photos/seed/midnight/300/300"},
			{ID: 103, Title: "Ruido Blanco", ArtistID: 3, Genre: "Rock", CoverImage: "https://picsum.photos/seed/ruido/300/300"},
		},
		Songs: []Song{
			{ID: 1001, Title: "Sacando la mano", ArtistID: 1, AlbumID: 101, Source: SongSourceExternal, ExternalURL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-1.mp3"},
			{ID: 1002, Title: "Vienen para levantarte", ArtistID: 1, AlbumID: 101, Source: SongSourceExternal, ExternalURL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-1.mp3"},
			{ID: 1003, Title: "Luces de Neón", ArtistID: 2, AlbumID: 102, Source: SongSourceExternal, ExternalURL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-2.mp3"},
			{ID: 1004, Title: "Distorsión", ArtistID: 3, AlbumID: 103, Source: SongSourceExternal, ExternalURL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-3.mp3"},
		},
		Posts: []Post{
			{ID: 5001, ArtistID: 1, Text: "New release out now! Listen to 'Arcane Signet'.", CreatedAt: now},
			{ID: 5002, ArtistID: 2, Text: "What do you think of the new visual style?", CreatedAt: now},
		},
		NextIDs: NextIDs{Artist: 4, Album: 104, Song: 1005, Post: 5003},
	}
}

// EnsureInitialized populates the document store with the demo seed exactly
// once, only when no document exists yet. It never merges into or reseeds
// over an existing document; a corrupt document propagates as-is rather
// than being silently replaced.
func EnsureInitialized(ctx context.Context, store DocumentStore) error {
	_, err := store.Load(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrDocumentNotFound) {
		return err
	}

	return store.Save(ctx, seedDocument())
}
