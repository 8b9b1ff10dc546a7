// Package catalog provides the storage engine for the Sonar audio-sharing
// demo: a catalog of artists, albums, songs and posts kept in a single
// versioned document, plus per-song audio payloads in a separate blob store.
//
// It exposes a single Service interface that orchestrates queries and
// mutations (publishing releases and posts, editing profiles) over two
// pluggable backends: a DocumentStore holding the whole catalog document
// with whole-document replace semantics, and a BlobStore holding raw audio
// keyed by song id. Implementations of both (memory, filesystem, Postgres,
// S3) are provided under subpackages.
//
// Consistency Model
//
// The catalog document is the sole source of truth for metadata; blob
// payloads are a best-effort cache. Every mutation loads the full document,
// edits it in memory and saves it back in one terminal write. Saves carry an
// optimistic revision token: a concurrent writer that saved in between makes
// the save fail with ErrConflict instead of silently losing updates.
package catalog
