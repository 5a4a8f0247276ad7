package mediavault

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// service implements the Service interface
type service struct {
	repository Repository
	blobStore  BlobStore
	eventSink  EventSink

	// relocateOnTrash controls whether trash/restore move the blob and
	// rewrite Location, or only flip the status. Some deployments of the
	// predecessor system ran with the latter behavior.
	relocateOnTrash bool
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the blob storage backend
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobStore = store
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// WithTrashRelocation controls blob relocation on trash and restore. When
// disabled, MoveToTrash and RestoreMedia only update the record status,
// leaving the blob and Location untouched.
func WithTrashRelocation(enabled bool) Option {
	return func(s *service) {
		s.relocateOnTrash = enabled
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		relocateOnTrash: true,
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.blobStore == nil {
		return nil, fmt.Errorf("blob store is required")
	}

	return s, nil
}

func (s *service) AddMedia(ctx context.Context, req AddMediaRequest) (*Media, error) {
	if req.FileName == "" {
		return nil, fmt.Errorf("file name is required")
	}
	if !ValidFilename(req.FileName) {
		return nil, ErrInvalidName
	}
	if req.Reader == nil {
		return nil, fmt.Errorf("file content is required")
	}

	kind := ClassifyFilename(req.FileName)
	location := kind.ObjectKey(req.FileName)

	// Uniqueness by name and by location before any blob is written. The
	// repository re-checks atomically on insert; this pre-check keeps the
	// blob store clean on the common duplicate path.
	if _, err := s.repository.GetMediaByName(ctx, req.FileName); err == nil {
		return nil, ErrDuplicateName
	} else if !errors.Is(err, ErrMediaNotFound) {
		return nil, fmt.Errorf("check name uniqueness: %w", err)
	}
	if _, err := s.repository.GetMediaByLocation(ctx, location); err == nil {
		return nil, ErrDuplicateLocation
	} else if !errors.Is(err, ErrMediaNotFound) {
		return nil, fmt.Errorf("check location uniqueness: %w", err)
	}

	if err := s.blobStore.Upload(ctx, location, req.Reader); err != nil {
		return nil, &StorageError{Key: location, Op: "upload", Err: err}
	}

	media := &Media{
		Name:        req.FileName,
		Title:       strings.ToLower(req.Title),
		Kind:        kind,
		Description: strings.ToLower(req.Description),
		Location:    location,
		Status:      StatusActive,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repository.CreateMedia(ctx, media); err != nil {
		// Roll the blob back so the store does not hold orphaned bytes.
		if delErr := s.blobStore.Delete(ctx, location); delErr != nil {
			return nil, fmt.Errorf("create media: %w (blob cleanup also failed: %v)", err, delErr)
		}
		return nil, err
	}

	if s.eventSink != nil {
		// Events are best-effort; the record is already persisted.
		_ = s.eventSink.MediaAdded(ctx, media)
	}

	return media, nil
}

func (s *service) GetMedia(ctx context.Context, id int64) (*Media, error) {
	return s.repository.GetMedia(ctx, id)
}

func (s *service) ListMedia(ctx context.Context) ([]*Media, error) {
	return s.repository.ListMedia(ctx)
}

func (s *service) ListMediaByKind(ctx context.Context, kind Kind) ([]*Media, error) {
	media, err := s.repository.ListMedia(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByKind(media, kind), nil
}

func (s *service) ListOther(ctx context.Context) ([]*Media, error) {
	media, err := s.repository.ListMedia(ctx)
	if err != nil {
		return nil, err
	}
	return FilterOther(media), nil
}

func (s *service) ListTrash(ctx context.Context) ([]*Media, error) {
	media, err := s.repository.ListMedia(ctx)
	if err != nil {
		return nil, err
	}
	return FilterTrash(media), nil
}

func (s *service) MoveToTrash(ctx context.Context, id int64) (*Media, error) {
	media, err := s.repository.GetMedia(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.blobStore.Exists(ctx, media.Location)
	if err != nil {
		return nil, &StorageError{Key: media.Location, Op: "exists", Err: err}
	}
	if !exists {
		// The record is orphaned: its blob is gone. Remove the record
		// instead of trashing it.
		if err := s.repository.DeleteMedia(ctx, id); err != nil {
			return nil, &MediaError{MediaID: id, Op: "orphan_cleanup", Err: err}
		}
		return nil, ErrBlobMissing
	}

	if !s.relocateOnTrash {
		media.Status = StatusPending
		if err := s.repository.UpdateMedia(ctx, media); err != nil {
			return nil, &MediaError{MediaID: id, Op: "trash", Err: err}
		}
		s.fireTrashed(ctx, media)
		return media, nil
	}

	trashKey := TrashKey(media.Name)
	occupied, err := s.blobStore.Exists(ctx, trashKey)
	if err != nil {
		return nil, &StorageError{Key: trashKey, Op: "exists", Err: err}
	}
	if occupied {
		return nil, ErrTrashCollision
	}

	if err := s.blobStore.Move(ctx, media.Location, trashKey); err != nil {
		return nil, &StorageError{Key: media.Location, Op: "move", Err: err}
	}

	media.Location = trashKey
	media.Status = StatusPending
	if err := s.repository.UpdateMedia(ctx, media); err != nil {
		return nil, &MediaError{MediaID: id, Op: "trash", Err: err}
	}

	s.fireTrashed(ctx, media)
	return media, nil
}

func (s *service) RestoreMedia(ctx context.Context, id int64) (*Media, error) {
	media, err := s.repository.GetMedia(ctx, id)
	if err != nil {
		return nil, err
	}

	if media.Status != StatusPending {
		return nil, ErrInvalidRestore
	}

	if !s.relocateOnTrash {
		media.Status = StatusRestored
		if err := s.repository.UpdateMedia(ctx, media); err != nil {
			return nil, &MediaError{MediaID: id, Op: "restore", Err: err}
		}
		s.fireRestored(ctx, media)
		return media, nil
	}

	// The target folder is re-derived from the record's kind.
	target := media.Kind.ObjectKey(media.Name)
	occupied, err := s.blobStore.Exists(ctx, target)
	if err != nil {
		return nil, &StorageError{Key: target, Op: "exists", Err: err}
	}
	if occupied {
		return nil, ErrDuplicateLocation
	}

	if err := s.blobStore.Move(ctx, media.Location, target); err != nil {
		return nil, &StorageError{Key: media.Location, Op: "move", Err: err}
	}

	media.Location = target
	media.Status = StatusRestored
	if err := s.repository.UpdateMedia(ctx, media); err != nil {
		return nil, &MediaError{MediaID: id, Op: "restore", Err: err}
	}

	s.fireRestored(ctx, media)
	return media, nil
}

func (s *service) DeleteMedia(ctx context.Context, id int64) (*DeleteMediaResult, error) {
	media, err := s.repository.GetMedia(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &DeleteMediaResult{Media: media}

	exists, err := s.blobStore.Exists(ctx, media.Location)
	if err != nil {
		return nil, &StorageError{Key: media.Location, Op: "exists", Err: err}
	}
	if exists {
		if err := s.blobStore.Delete(ctx, media.Location); err != nil {
			return nil, &StorageError{Key: media.Location, Op: "delete", Err: err}
		}
	} else {
		// The blob is already gone; deleting the record is still correct.
		result.BlobMissing = true
	}

	if err := s.repository.DeleteMedia(ctx, id); err != nil {
		return nil, &MediaError{MediaID: id, Op: "delete", Err: err}
	}

	if s.eventSink != nil {
		_ = s.eventSink.MediaDeleted(ctx, id)
	}

	return result, nil
}

func (s *service) DownloadMedia(ctx context.Context, id int64) (io.ReadCloser, *DownloadMediaResult, error) {
	media, err := s.repository.GetMedia(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	result := &DownloadMediaResult{Media: media}

	// Metadata is advisory; a backend that cannot describe the blob can
	// still stream it.
	if meta, err := s.blobStore.Meta(ctx, media.Location); err == nil {
		result.Meta = meta
	}

	rc, err := s.blobStore.Download(ctx, media.Location)
	if err != nil {
		return nil, nil, &StorageError{Key: media.Location, Op: "download", Err: err}
	}

	return rc, result, nil
}

func (s *service) fireTrashed(ctx context.Context, media *Media) {
	if s.eventSink != nil {
		_ = s.eventSink.MediaTrashed(ctx, media)
	}
}

func (s *service) fireRestored(ctx context.Context, media *Media) {
	if s.eventSink != nil {
		_ = s.eventSink.MediaRestored(ctx, media)
	}
}
