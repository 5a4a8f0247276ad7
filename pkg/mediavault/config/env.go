package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// envConfig is the environment surface of the service, read with cleanenv.
type envConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	// DATABASE_URL: empty or "memory" for the in-memory repository, or a
	// postgres:// connection string.
	DatabaseURL string `env:"DATABASE_URL" env-default:""`

	// STORAGE_TYPE: "memory", "fs" or "s3".
	StorageType string `env:"STORAGE_TYPE" env-default:"memory"`
	FSBaseDir   string `env:"FS_BASE_DIR" env-default:"./data/storage"`

	S3Region          string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	S3Bucket          string `env:"AWS_S3_BUCKET" env-default:""`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
	S3Endpoint        string `env:"AWS_S3_ENDPOINT" env-default:""`
	S3UsePathStyle    bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"false"`
	S3CreateBucket    bool   `env:"AWS_S3_CREATE_BUCKET" env-default:"false"`

	TrashRelocation bool          `env:"TRASH_RELOCATION" env-default:"true"`
	RetryAttempts   int           `env:"STORAGE_RETRY_ATTEMPTS" env-default:"3"`
	RetryBaseDelay  time.Duration `env:"STORAGE_RETRY_BASE_DELAY" env-default:"100ms"`

	EnableEventLogging bool `env:"ENABLE_EVENT_LOGGING" env-default:"true"`
}

// WithEnv applies environment variable overrides on top of the defaults.
func WithEnv() Option {
	return func(c *ServerConfig) error {
		var env envConfig
		if err := cleanenv.ReadEnv(&env); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}

		c.Port = env.Port
		c.Environment = env.Environment

		switch {
		case env.DatabaseURL == "" || env.DatabaseURL == "memory":
			c.DatabaseType = "memory"
			c.DatabaseURL = ""
		case strings.HasPrefix(env.DatabaseURL, "postgres://"),
			strings.HasPrefix(env.DatabaseURL, "postgresql://"):
			c.DatabaseType = "postgres"
			c.DatabaseURL = env.DatabaseURL
		default:
			return fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory' or 'postgres://...')", env.DatabaseURL)
		}

		c.StorageType = env.StorageType
		c.FSBaseDir = env.FSBaseDir
		c.S3 = S3Config{
			Region:          env.S3Region,
			Bucket:          env.S3Bucket,
			AccessKeyID:     env.S3AccessKeyID,
			SecretAccessKey: env.S3SecretAccessKey,
			Endpoint:        env.S3Endpoint,
			UsePathStyle:    env.S3UsePathStyle,
			CreateBucket:    env.S3CreateBucket,
		}

		c.TrashRelocation = env.TrashRelocation
		c.RetryAttempts = env.RetryAttempts
		c.RetryBaseDelay = env.RetryBaseDelay
		c.EnableEventLogging = env.EnableEventLogging

		return nil
	}
}
