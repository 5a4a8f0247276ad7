package mediavault

import (
	"context"
	"io"
)

// Service is the main interface for media lifecycle operations
type Service interface {
	// AddMedia classifies, stores and registers a new media file
	AddMedia(ctx context.Context, req AddMediaRequest) (*Media, error)

	// GetMedia retrieves a media record by ID
	GetMedia(ctx context.Context, id int64) (*Media, error)

	// ListMedia returns all media records
	ListMedia(ctx context.Context) ([]*Media, error)

	// ListMediaByKind returns non-trashed records of the given kind
	ListMediaByKind(ctx context.Context, kind Kind) ([]*Media, error)

	// ListOther returns non-trashed records whose kind is KindElse
	ListOther(ctx context.Context) ([]*Media, error)

	// ListTrash returns all records currently in the trash
	ListTrash(ctx context.Context) ([]*Media, error)

	// MoveToTrash soft-deletes a record, relocating its blob to the trash area
	MoveToTrash(ctx context.Context, id int64) (*Media, error)

	// RestoreMedia brings a trashed record back to its kind folder
	RestoreMedia(ctx context.Context, id int64) (*Media, error)

	// DeleteMedia permanently removes a record and its blob
	DeleteMedia(ctx context.Context, id int64) (*DeleteMediaResult, error)

	// DownloadMedia streams the blob bytes for a record, along with the
	// record itself and the blob's storage metadata
	DownloadMedia(ctx context.Context, id int64) (io.ReadCloser, *DownloadMediaResult, error)
}

// AddMediaRequest contains parameters for adding a media file
type AddMediaRequest struct {
	FileName    string
	Title       string
	Description string
	Reader      io.Reader
}

// DeleteMediaResult reports the outcome of a permanent delete. BlobMissing is
// set when the record was removed but the blob was already gone from storage.
type DeleteMediaResult struct {
	Media       *Media
	BlobMissing bool
}

// DownloadMediaResult carries the record and the blob's storage metadata for
// a download. Meta is nil when the backend could not describe the blob.
type DownloadMediaResult struct {
	Media *Media
	Meta  *ObjectMeta
}
