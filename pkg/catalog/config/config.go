package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sonarhq/sonar-catalog/pkg/catalog"
	docfs "github.com/sonarhq/sonar-catalog/pkg/catalog/docstore/fs"
	docmemory "github.com/sonarhq/sonar-catalog/pkg/catalog/docstore/memory"
	docpg "github.com/sonarhq/sonar-catalog/pkg/catalog/docstore/postgres"
	fsstorage "github.com/sonarhq/sonar-catalog/pkg/catalog/storage/fs"
	memorystorage "github.com/sonarhq/sonar-catalog/pkg/catalog/storage/memory"
	s3storage "github.com/sonarhq/sonar-catalog/pkg/catalog/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		Environment:  "development",
		DatabaseType: "memory",
		StorageType:  "memory",
		BlobTimeout:  30 * time.Second,
		SeedOnStart:  true,
	}
}

// ServerConfig represents server configuration for the catalog service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Document store configuration
	DatabaseType string // "memory", "file", "postgres"
	DatabaseURL  string // Postgres connection string
	DatabaseDir  string // Base directory for the file document store

	// Blob store configuration
	StorageType string // "memory", "fs", "s3"
	StorageDir  string // Base directory for the fs blob store
	S3          S3Config

	// Service options
	BlobTimeout time.Duration
	SeedOnStart bool
}

// S3Config represents configuration for the S3 blob store
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	UsePathStyle    bool
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	switch c.DatabaseType {
	case "memory":
	case "file":
		if c.DatabaseDir == "" {
			return errors.New("database_dir is required when using the file document store")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("database_url is required when using postgres")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}

	switch c.StorageType {
	case "memory":
	case "fs":
		if c.StorageDir == "" {
			return errors.New("storage_dir is required when using the fs blob store")
		}
	case "s3":
		if c.S3.Bucket == "" {
			return errors.New("s3 bucket is required when using the s3 blob store")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}

	return nil
}

// BuildService creates a catalog.Service instance from the server configuration
func (c *ServerConfig) BuildService() (catalog.Service, error) {
	docs, err := c.buildDocumentStore()
	if err != nil {
		return nil, fmt.Errorf("failed to build document store: %w", err)
	}

	blobs, err := c.buildBlobStore()
	if err != nil {
		return nil, fmt.Errorf("failed to build blob store: %w", err)
	}

	options := []catalog.Option{
		catalog.WithDocumentStore(docs),
		catalog.WithBlobStore(blobs),
	}
	if c.BlobTimeout > 0 {
		options = append(options, catalog.WithBlobTimeout(c.BlobTimeout))
	}

	return catalog.New(options...)
}

// buildDocumentStore creates a DocumentStore based on the configuration
func (c *ServerConfig) buildDocumentStore() (catalog.DocumentStore, error) {
	switch c.DatabaseType {
	case "memory":
		return docmemory.New(), nil
	case "file":
		return docfs.New(docfs.Config{BaseDir: c.DatabaseDir})
	case "postgres":
		pool, err := pgxpool.New(context.Background(), c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		if err := docpg.EnsureSchema(context.Background(), pool); err != nil {
			return nil, err
		}
		return docpg.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// buildBlobStore creates a BlobStore based on the configuration
func (c *ServerConfig) buildBlobStore() (catalog.BlobStore, error) {
	switch c.StorageType {
	case "memory":
		return memorystorage.New(), nil
	case "fs":
		return fsstorage.New(fsstorage.Config{BaseDir: c.StorageDir})
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:          c.S3.Region,
			Bucket:          c.S3.Bucket,
			AccessKeyID:     c.S3.AccessKeyID,
			SecretAccessKey: c.S3.SecretAccessKey,
			Endpoint:        c.S3.Endpoint,
			UsePathStyle:    c.S3.UsePathStyle,
		})
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}
}

// PingPostgres verifies connectivity to Postgres before the server starts.
func PingPostgres(databaseURL string) error {
	if databaseURL == "" {
		return errors.New("database_url is required")
	}
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool: %w", err)
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
