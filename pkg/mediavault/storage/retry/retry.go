// Package retry wraps a mediavault.BlobStore with bounded retries.
//
// The blob store is the one collaborator reached over the network in every
// deployment, so transient failures there are retried with exponential
// backoff before surfacing to the lifecycle service. Read-only probes
// (Exists, Meta) and Download are passed through once; retrying mutations is
// safe because Upload, Delete and Move are idempotent on the same key.
// Upload only retries when its reader can seek back to the start of the
// stream, so nothing is ever buffered in memory for the replay.
package retry

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mediavault/mediavault/pkg/mediavault"
)

// Config options for the retry decorator
type Config struct {
	MaxAttempts int           // Total attempts per mutation (default: 3)
	BaseDelay   time.Duration // Delay before the first retry, doubled each attempt (default: 100ms)
}

// Backend decorates another BlobStore with retries on mutating operations
type Backend struct {
	inner       mediavault.BlobStore
	maxAttempts int
	baseDelay   time.Duration
}

// New wraps the given blob store with retry behavior
func New(inner mediavault.BlobStore, config Config) mediavault.BlobStore {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = 100 * time.Millisecond
	}
	return &Backend{
		inner:       inner,
		maxAttempts: config.MaxAttempts,
		baseDelay:   config.BaseDelay,
	}
}

func (b *Backend) retry(ctx context.Context, op func() error) error {
	var err error
	delay := b.baseDelay
	for attempt := 1; attempt <= b.maxAttempts; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if attempt == b.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("after %d attempts: %w", b.maxAttempts, err)
}

// Upload writes the blob, retrying when the reader can be rewound. A plain
// io.Reader is consumed by the first attempt, so it gets exactly one; readers
// that also seek (files, multipart parts, bytes readers) are rewound between
// attempts instead of being buffered in memory.
func (b *Backend) Upload(ctx context.Context, key string, reader io.Reader) error {
	seeker, ok := reader.(io.Seeker)
	if !ok {
		return b.inner.Upload(ctx, key, reader)
	}

	start, err := seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		return b.inner.Upload(ctx, key, reader)
	}

	return b.retry(ctx, func() error {
		if _, err := seeker.Seek(start, io.SeekStart); err != nil {
			return err
		}
		return b.inner.Upload(ctx, key, reader)
	})
}

// Download streams the blob without retrying
func (b *Backend) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	return b.inner.Download(ctx, key)
}

// Delete removes the blob, retrying on failure
func (b *Backend) Delete(ctx context.Context, key string) error {
	return b.retry(ctx, func() error {
		return b.inner.Delete(ctx, key)
	})
}

// Move relocates the blob, retrying on failure
func (b *Backend) Move(ctx context.Context, oldKey, newKey string) error {
	return b.retry(ctx, func() error {
		return b.inner.Move(ctx, oldKey, newKey)
	})
}

// Exists reports blob presence without retrying
func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	return b.inner.Exists(ctx, key)
}

// Meta retrieves blob metadata without retrying
func (b *Backend) Meta(ctx context.Context, key string) (*mediavault.ObjectMeta, error) {
	return b.inner.Meta(ctx, key)
}
