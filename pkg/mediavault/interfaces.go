package mediavault

import (
	"context"
	"io"
	"time"
)

// BlobStore defines the interface for storage backends
type BlobStore interface {
	// Upload writes the blob bytes under the given key
	Upload(ctx context.Context, key string, reader io.Reader) error

	// Download streams the blob bytes for the given key
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the blob at the given key
	Delete(ctx context.Context, key string) error

	// Move relocates a blob from oldKey to newKey
	Move(ctx context.Context, oldKey, newKey string) error

	// Exists reports whether a blob is present at the given key
	Exists(ctx context.Context, key string) (bool, error)

	// Meta retrieves metadata for the blob at the given key
	Meta(ctx context.Context, key string) (*ObjectMeta, error)
}

// Repository defines the interface for media record persistence
type Repository interface {
	// CreateMedia inserts a new record, assigning its ID. It fails with
	// ErrDuplicateName or ErrDuplicateLocation when a record with the same
	// name or location already exists; the check and insert are atomic.
	CreateMedia(ctx context.Context, media *Media) error

	GetMedia(ctx context.Context, id int64) (*Media, error)
	GetMediaByName(ctx context.Context, name string) (*Media, error)
	GetMediaByLocation(ctx context.Context, location string) (*Media, error)
	UpdateMedia(ctx context.Context, media *Media) error
	DeleteMedia(ctx context.Context, id int64) error

	// ListMedia returns all records ordered by created_at descending.
	ListMedia(ctx context.Context) ([]*Media, error)
}

// EventSink defines the interface for lifecycle event handling
type EventSink interface {
	// MediaAdded is fired when a media record is created
	MediaAdded(ctx context.Context, media *Media) error

	// MediaTrashed is fired when a media record is moved to the trash
	MediaTrashed(ctx context.Context, media *Media) error

	// MediaRestored is fired when a media record is restored from the trash
	MediaRestored(ctx context.Context, media *Media) error

	// MediaDeleted is fired when a media record is permanently deleted
	MediaDeleted(ctx context.Context, id int64) error
}

// ObjectMeta contains metadata about a blob in storage
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
	ETag        string
}
