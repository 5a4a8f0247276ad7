package mediavault

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrMediaNotFound indicates a media record was not found
	ErrMediaNotFound = errors.New("media not found")

	// ErrInvalidName indicates a file name that cannot become a media name,
	// such as one carrying path separators or dot segments
	ErrInvalidName = errors.New("invalid media name")

	// ErrDuplicateName indicates a media with the same name already exists
	ErrDuplicateName = errors.New("a media with this name already exists")

	// ErrDuplicateLocation indicates a blob already occupies the target location
	ErrDuplicateLocation = errors.New("a media with this location already exists")

	// ErrInvalidRestore indicates a restore was attempted on a record that is not in the trash
	ErrInvalidRestore = errors.New("media is not in the trash")

	// ErrTrashCollision indicates a blob with the same name already sits in the trash area
	ErrTrashCollision = errors.New("a media with this name is already in the trash")

	// ErrBlobMissing indicates the blob backing a record no longer exists in storage
	ErrBlobMissing = errors.New("blob missing from storage")
)

// MediaError represents an error related to a media lifecycle operation
type MediaError struct {
	MediaID int64
	Op      string
	Err     error
}

func (e *MediaError) Error() string {
	return fmt.Sprintf("media operation %s failed for media %d: %v", e.Op, e.MediaID, e.Err)
}

func (e *MediaError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to blob storage operations
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
