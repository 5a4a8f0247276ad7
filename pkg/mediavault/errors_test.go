package mediavault_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mediavault/mediavault/pkg/mediavault"
)

func TestMediaError(t *testing.T) {
	err := &mediavault.MediaError{
		MediaID: 42,
		Op:      "restore",
		Err:     mediavault.ErrMediaNotFound,
	}

	assert.Contains(t, err.Error(), "restore")
	assert.Contains(t, err.Error(), "42")
	assert.ErrorIs(t, err, mediavault.ErrMediaNotFound)
}

func TestStorageError(t *testing.T) {
	cause := errors.New("connection reset")
	err := &mediavault.StorageError{
		Key: "images/photo.png",
		Op:  "upload",
		Err: cause,
	}

	assert.Contains(t, err.Error(), "upload")
	assert.Contains(t, err.Error(), "images/photo.png")
	assert.ErrorIs(t, err, cause)
}

func TestStatusIsValid(t *testing.T) {
	assert.True(t, mediavault.StatusActive.IsValid())
	assert.True(t, mediavault.StatusPending.IsValid())
	assert.True(t, mediavault.StatusRestored.IsValid())
	assert.False(t, mediavault.Status("deleted").IsValid())
}

func TestMediaInTrash(t *testing.T) {
	media := mediavault.Media{Status: mediavault.StatusActive}
	assert.False(t, media.InTrash())

	media.Status = mediavault.StatusPending
	assert.True(t, media.InTrash())

	media.Status = mediavault.StatusRestored
	assert.False(t, media.InTrash())
}
