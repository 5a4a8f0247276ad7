package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mediavault/mediavault/pkg/mediavault"
	repomemory "github.com/mediavault/mediavault/pkg/mediavault/repo/memory"
	repopg "github.com/mediavault/mediavault/pkg/mediavault/repo/postgres"
	fsstorage "github.com/mediavault/mediavault/pkg/mediavault/storage/fs"
	memorystorage "github.com/mediavault/mediavault/pkg/mediavault/storage/memory"
	"github.com/mediavault/mediavault/pkg/mediavault/storage/retry"
	s3storage "github.com/mediavault/mediavault/pkg/mediavault/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
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
		Port:            "8080",
		Environment:     "development",
		DatabaseType:    "memory",
		StorageType:     "memory",
		FSBaseDir:       "./data/storage",
		TrashRelocation: true,
		RetryAttempts:   3,
		RetryBaseDelay:  100 * time.Millisecond,
	}
}

// ServerConfig represents server configuration for the mediavault service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"

	// Storage configuration
	StorageType string // "memory", "fs", "s3"
	FSBaseDir   string
	S3          S3Config

	// Lifecycle options
	TrashRelocation bool
	RetryAttempts   int
	RetryBaseDelay  time.Duration

	// Server options
	EnableEventLogging bool
}

// S3Config represents configuration for the S3 storage backend
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	UsePathStyle    bool
	CreateBucket    bool
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}

	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	switch c.StorageType {
	case "memory":
	case "fs":
		if c.FSBaseDir == "" {
			return errors.New("fs base dir is required when using fs storage")
		}
	case "s3":
		if c.S3.Bucket == "" {
			return errors.New("s3 bucket is required when using s3 storage")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}

	return nil
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService() (mediavault.Service, error) {
	repo, err := c.buildRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	store, err := c.buildBlobStore()
	if err != nil {
		return nil, fmt.Errorf("failed to build blob store: %w", err)
	}

	options := []mediavault.Option{
		mediavault.WithRepository(repo),
		mediavault.WithBlobStore(store),
		mediavault.WithTrashRelocation(c.TrashRelocation),
	}

	if c.EnableEventLogging {
		options = append(options, mediavault.WithEventSink(mediavault.NewLoggingEventSink(slog.Default())))
	}

	return mediavault.New(options...)
}

// buildRepository creates a Repository based on the configuration
func (c *ServerConfig) buildRepository() (mediavault.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return repomemory.New(), nil
	case "postgres":
		pool, err := pgxpool.New(context.Background(), c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		return repopg.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// buildBlobStore creates a BlobStore based on the configuration, wrapped with
// bounded retries on mutating operations.
func (c *ServerConfig) buildBlobStore() (mediavault.BlobStore, error) {
	var store mediavault.BlobStore
	var err error

	switch c.StorageType {
	case "memory":
		store = memorystorage.New()
	case "fs":
		store, err = fsstorage.New(fsstorage.Config{BaseDir: c.FSBaseDir})
	case "s3":
		store, err = s3storage.New(s3storage.Config{
			Region:                 c.S3.Region,
			Bucket:                 c.S3.Bucket,
			AccessKeyID:            c.S3.AccessKeyID,
			SecretAccessKey:        c.S3.SecretAccessKey,
			Endpoint:               c.S3.Endpoint,
			UsePathStyle:           c.S3.UsePathStyle,
			CreateBucketIfNotExist: c.S3.CreateBucket,
		})
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}
	if err != nil {
		return nil, err
	}

	if c.RetryAttempts > 1 {
		store = retry.New(store, retry.Config{
			MaxAttempts: c.RetryAttempts,
			BaseDelay:   c.RetryBaseDelay,
		})
	}

	return store, nil
}

// PingPostgres verifies connectivity to Postgres.
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
