package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sonarhq/sonar-catalog/pkg/catalog"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// documentID is the primary key of the single catalog document row. The
// whole-document replace model maps to exactly one row.
const documentID = 1

// Store implements catalog.DocumentStore using PostgreSQL, holding the
// serialized document in a single JSONB row guarded by a revision column.
type Store struct {
	db DBTX
}

// New creates a new PostgreSQL document store
func New(db DBTX) catalog.DocumentStore {
	return &Store{db: db}
}

// NewWithPool creates a new PostgreSQL document store with connection pool
func NewWithPool(pool *pgxpool.Pool) catalog.DocumentStore {
	return &Store{db: pool}
}

// Schema returns the DDL for the backing table.
func Schema() string {
	return `
		CREATE TABLE IF NOT EXISTS catalog_document (
			id INTEGER PRIMARY KEY,
			revision BIGINT NOT NULL,
			doc JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
}

// EnsureSchema creates the backing table if it does not exist.
func EnsureSchema(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, Schema()); err != nil {
		return fmt.Errorf("failed to create catalog_document table: %w", err)
	}
	return nil
}

// Load returns the current catalog document
func (s *Store) Load(ctx context.Context) (*catalog.CatalogDocument, error) {
	var data []byte
	err := s.db.QueryRow(ctx,
		`SELECT doc FROM catalog_document WHERE id = $1`, documentID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, catalog.ErrDocumentNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to load catalog document: %w", err)
	}

	return catalog.DecodeDocument(data)
}

// Save replaces the persisted document, guarded by the revision column. A
// concurrent writer that saved in between makes the guarded update match
// zero rows, which surfaces as ErrConflict.
func (s *Store) Save(ctx context.Context, doc *catalog.CatalogDocument) error {
	doc.Revision++
	data, err := catalog.EncodeDocument(doc)
	if err != nil {
		doc.Revision--
		return err
	}

	if doc.Revision == 1 {
		_, err := s.db.Exec(ctx, `
			INSERT INTO catalog_document (id, revision, doc, updated_at)
			VALUES ($1, $2, $3, now())`,
			documentID, doc.Revision, data)
		if err != nil {
			doc.Revision--
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return catalog.ErrConflict
			}
			return fmt.Errorf("failed to insert catalog document: %w", err)
		}
		return nil
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE catalog_document
		SET revision = $2, doc = $3, updated_at = now()
		WHERE id = $1 AND revision = $4`,
		documentID, doc.Revision, data, doc.Revision-1)
	if err != nil {
		doc.Revision--
		return fmt.Errorf("failed to update catalog document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		doc.Revision--
		return catalog.ErrConflict
	}

	return nil
}
