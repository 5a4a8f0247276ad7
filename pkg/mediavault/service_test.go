package mediavault_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediavault/mediavault/pkg/mediavault"
	repomemory "github.com/mediavault/mediavault/pkg/mediavault/repo/memory"
	fsstorage "github.com/mediavault/mediavault/pkg/mediavault/storage/fs"
	memorystorage "github.com/mediavault/mediavault/pkg/mediavault/storage/memory"
)

func TestServiceCreation(t *testing.T) {
	tests := []struct {
		name        string
		options     []mediavault.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []mediavault.Option{},
			expectError: true,
		},
		{
			name: "repository only should fail",
			options: []mediavault.Option{
				mediavault.WithRepository(repomemory.New()),
			},
			expectError: true,
		},
		{
			name: "with repository and blob store should succeed",
			options: []mediavault.Option{
				mediavault.WithRepository(repomemory.New()),
				mediavault.WithBlobStore(memorystorage.New()),
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := mediavault.New(tt.options...)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

type testEnv struct {
	svc   mediavault.Service
	store mediavault.BlobStore
}

func setupTestService(t *testing.T, opts ...mediavault.Option) testEnv {
	repo := repomemory.New()
	store := memorystorage.New()

	options := append([]mediavault.Option{
		mediavault.WithRepository(repo),
		mediavault.WithBlobStore(store),
		mediavault.WithEventSink(mediavault.NewNoopEventSink()),
	}, opts...)

	svc, err := mediavault.New(options...)
	require.NoError(t, err)
	require.NotNil(t, svc)

	return testEnv{svc: svc, store: store}
}

func addFile(t *testing.T, svc mediavault.Service, name, title string) *mediavault.Media {
	media, err := svc.AddMedia(context.Background(), mediavault.AddMediaRequest{
		FileName:    name,
		Title:       title,
		Description: "Test Description",
		Reader:      strings.NewReader("file content of " + name),
	})
	require.NoError(t, err)
	return media
}

func TestAddMedia(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()

	t.Run("classifies and stores", func(t *testing.T) {
		media := addFile(t, env.svc, "photo.JPG", "Sunset")

		assert.NotZero(t, media.ID)
		assert.Equal(t, "photo.JPG", media.Name)
		assert.Equal(t, mediavault.KindImage, media.Kind)
		assert.Equal(t, "images/photo.JPG", media.Location)
		assert.Equal(t, mediavault.StatusActive, media.Status)
		assert.False(t, media.CreatedAt.IsZero())

		exists, err := env.store.Exists(ctx, media.Location)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("lowercases title and description", func(t *testing.T) {
		media, err := env.svc.AddMedia(ctx, mediavault.AddMediaRequest{
			FileName:    "notes.txt",
			Title:       "My NOTES",
			Description: "Important STUFF",
			Reader:      strings.NewReader("hello"),
		})
		require.NoError(t, err)
		assert.Equal(t, "my notes", media.Title)
		assert.Equal(t, "important stuff", media.Description)
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		_, err := env.svc.AddMedia(ctx, mediavault.AddMediaRequest{
			FileName: "photo.JPG",
			Title:    "Another",
			Reader:   strings.NewReader("other bytes"),
		})
		assert.ErrorIs(t, err, mediavault.ErrDuplicateName)

		// Exactly one record for the name survives
		all, err := env.svc.ListMedia(ctx)
		require.NoError(t, err)
		count := 0
		for _, m := range all {
			if m.Name == "photo.JPG" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("path traversal name rejected", func(t *testing.T) {
		for _, name := range []string{"../../escaped.sh", "nested/evil.png", `back\slash.txt`, "..", "."} {
			_, err := env.svc.AddMedia(ctx, mediavault.AddMediaRequest{
				FileName: name,
				Title:    "Escape",
				Reader:   strings.NewReader("payload"),
			})
			assert.ErrorIs(t, err, mediavault.ErrInvalidName, "name %q must be rejected", name)
		}
	})

	t.Run("missing file name rejected", func(t *testing.T) {
		_, err := env.svc.AddMedia(ctx, mediavault.AddMediaRequest{
			Reader: strings.NewReader("x"),
		})
		assert.Error(t, err)
	})

	t.Run("missing reader rejected", func(t *testing.T) {
		_, err := env.svc.AddMedia(ctx, mediavault.AddMediaRequest{
			FileName: "orphan.txt",
		})
		assert.Error(t, err)
	})
}

// A traversal name must never produce a file outside the storage root on the
// filesystem backend.
func TestAddMediaFilesystemContainment(t *testing.T) {
	baseDir := t.TempDir()
	store, err := fsstorage.New(fsstorage.Config{BaseDir: baseDir})
	require.NoError(t, err)

	svc, err := mediavault.New(
		mediavault.WithRepository(repomemory.New()),
		mediavault.WithBlobStore(store),
	)
	require.NoError(t, err)

	_, err = svc.AddMedia(context.Background(), mediavault.AddMediaRequest{
		FileName: "../../escaped.sh",
		Title:    "Escape",
		Reader:   strings.NewReader("#!/bin/sh"),
	})
	assert.ErrorIs(t, err, mediavault.ErrInvalidName)

	// Nothing landed where the unsanitized key would have resolved
	escaped := filepath.Join(baseDir, "..", "..", "escaped.sh")
	_, statErr := os.Stat(escaped)
	assert.True(t, os.IsNotExist(statErr), "no file may be written outside the storage root")
}

func TestTypedListings(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()

	addFile(t, env.svc, "a.png", "Image A")
	addFile(t, env.svc, "b.pdf", "Doc B")
	addFile(t, env.svc, "c.zip", "Archive C")

	images, err := env.svc.ListMediaByKind(ctx, mediavault.KindImage)
	require.NoError(t, err)
	assert.Len(t, images, 1)
	assert.Equal(t, "a.png", images[0].Name)

	pdfs, err := env.svc.ListMediaByKind(ctx, mediavault.KindPDF)
	require.NoError(t, err)
	assert.Len(t, pdfs, 1)

	other, err := env.svc.ListOther(ctx)
	require.NoError(t, err)
	assert.Len(t, other, 1)
	assert.Equal(t, "c.zip", other[0].Name)

	videos, err := env.svc.ListMediaByKind(ctx, mediavault.KindVideo)
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestMoveToTrash(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()

	t.Run("relocates blob and flips status", func(t *testing.T) {
		media := addFile(t, env.svc, "trash-me.png", "Doomed")

		trashed, err := env.svc.MoveToTrash(ctx, media.ID)
		require.NoError(t, err)
		assert.Equal(t, mediavault.StatusPending, trashed.Status)
		assert.Equal(t, "corbeille/trash-me.png", trashed.Location)

		// Blob moved: gone from the kind folder, present in the trash
		exists, err := env.store.Exists(ctx, "images/trash-me.png")
		require.NoError(t, err)
		assert.False(t, exists)
		exists, err = env.store.Exists(ctx, "corbeille/trash-me.png")
		require.NoError(t, err)
		assert.True(t, exists)

		// Hidden from typed listings, visible in the trash listing
		images, err := env.svc.ListMediaByKind(ctx, mediavault.KindImage)
		require.NoError(t, err)
		for _, m := range images {
			assert.NotEqual(t, media.ID, m.ID)
		}
		trash, err := env.svc.ListTrash(ctx)
		require.NoError(t, err)
		require.Len(t, trash, 1)
		assert.Equal(t, media.ID, trash[0].ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := env.svc.MoveToTrash(ctx, 99999)
		assert.ErrorIs(t, err, mediavault.ErrMediaNotFound)
	})

	t.Run("orphaned record is cleaned up", func(t *testing.T) {
		media := addFile(t, env.svc, "orphan.mp3", "Ghost")

		// Simulate divergence: the blob disappears behind the record's back
		require.NoError(t, env.store.Delete(ctx, media.Location))

		_, err := env.svc.MoveToTrash(ctx, media.ID)
		assert.ErrorIs(t, err, mediavault.ErrBlobMissing)

		// The record was removed as part of the cleanup
		_, err = env.svc.GetMedia(ctx, media.ID)
		assert.ErrorIs(t, err, mediavault.ErrMediaNotFound)
	})

	t.Run("trash collision", func(t *testing.T) {
		media := addFile(t, env.svc, "clash.pdf", "First")

		// Something already occupies the trash slot for this name
		require.NoError(t, env.store.Upload(ctx, "corbeille/clash.pdf", strings.NewReader("squatter")))

		_, err := env.svc.MoveToTrash(ctx, media.ID)
		assert.ErrorIs(t, err, mediavault.ErrTrashCollision)

		// Record untouched
		current, err := env.svc.GetMedia(ctx, media.ID)
		require.NoError(t, err)
		assert.Equal(t, mediavault.StatusActive, current.Status)
		assert.Equal(t, "pdf/clash.pdf", current.Location)
	})
}

func TestRestoreMedia(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()

	t.Run("restores a pending record", func(t *testing.T) {
		media := addFile(t, env.svc, "come-back.mp4", "Video")
		_, err := env.svc.MoveToTrash(ctx, media.ID)
		require.NoError(t, err)

		restored, err := env.svc.RestoreMedia(ctx, media.ID)
		require.NoError(t, err)
		assert.Equal(t, mediavault.StatusRestored, restored.Status)
		assert.Equal(t, "video/come-back.mp4", restored.Location)

		// Blob is back in its kind folder
		exists, err := env.store.Exists(ctx, "video/come-back.mp4")
		require.NoError(t, err)
		assert.True(t, exists)
		exists, err = env.store.Exists(ctx, "corbeille/come-back.mp4")
		require.NoError(t, err)
		assert.False(t, exists)

		// Visible in typed listings again
		videos, err := env.svc.ListMediaByKind(ctx, mediavault.KindVideo)
		require.NoError(t, err)
		require.Len(t, videos, 1)
		assert.Equal(t, media.ID, videos[0].ID)
	})

	t.Run("rejects non-pending records", func(t *testing.T) {
		media := addFile(t, env.svc, "active.txt", "Active")

		_, err := env.svc.RestoreMedia(ctx, media.ID)
		assert.ErrorIs(t, err, mediavault.ErrInvalidRestore)
	})

	t.Run("rejects restore onto an occupied target", func(t *testing.T) {
		media := addFile(t, env.svc, "blocked.txt", "Blocked")
		_, err := env.svc.MoveToTrash(ctx, media.ID)
		require.NoError(t, err)

		// Another blob takes the slot while the record sits in the trash
		require.NoError(t, env.store.Upload(ctx, "text/blocked.txt", strings.NewReader("squatter")))

		_, err = env.svc.RestoreMedia(ctx, media.ID)
		assert.ErrorIs(t, err, mediavault.ErrDuplicateLocation)

		// Record unchanged
		current, err := env.svc.GetMedia(ctx, media.ID)
		require.NoError(t, err)
		assert.Equal(t, mediavault.StatusPending, current.Status)
		assert.Equal(t, "corbeille/blocked.txt", current.Location)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := env.svc.RestoreMedia(ctx, 99999)
		assert.ErrorIs(t, err, mediavault.ErrMediaNotFound)
	})
}

func TestDeleteMedia(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()

	t.Run("removes record and blob", func(t *testing.T) {
		media := addFile(t, env.svc, "goner.pdf", "Doomed")

		result, err := env.svc.DeleteMedia(ctx, media.ID)
		require.NoError(t, err)
		assert.False(t, result.BlobMissing)

		_, err = env.svc.GetMedia(ctx, media.ID)
		assert.ErrorIs(t, err, mediavault.ErrMediaNotFound)

		exists, err := env.store.Exists(ctx, "pdf/goner.pdf")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("reports already-missing blob", func(t *testing.T) {
		media := addFile(t, env.svc, "half-gone.txt", "Half")
		require.NoError(t, env.store.Delete(ctx, media.Location))

		result, err := env.svc.DeleteMedia(ctx, media.ID)
		require.NoError(t, err)
		assert.True(t, result.BlobMissing)

		_, err = env.svc.GetMedia(ctx, media.ID)
		assert.ErrorIs(t, err, mediavault.ErrMediaNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := env.svc.DeleteMedia(ctx, 99999)
		assert.ErrorIs(t, err, mediavault.ErrMediaNotFound)
	})
}

func TestDownloadMedia(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()

	media := addFile(t, env.svc, "read-me.txt", "Readable")

	rc, result, err := env.svc.DownloadMedia(ctx, media.ID)
	require.NoError(t, err)
	defer rc.Close()

	assert.Equal(t, media.ID, result.Media.ID)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "file content of read-me.txt", string(data))

	// The blob's storage metadata rides along with the stream
	require.NotNil(t, result.Meta)
	assert.Equal(t, int64(len(data)), result.Meta.Size)
	assert.Contains(t, result.Meta.ContentType, "text/plain")
}

// Full lifecycle walk: add, trash, restore, delete.
func TestLifecycleScenario(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()

	media := addFile(t, env.svc, "photo.JPG", "sunset")
	assert.Equal(t, mediavault.KindImage, media.Kind)
	assert.Equal(t, mediavault.StatusActive, media.Status)

	images, err := env.svc.ListMediaByKind(ctx, mediavault.KindImage)
	require.NoError(t, err)
	require.Len(t, images, 1)

	_, err = env.svc.MoveToTrash(ctx, media.ID)
	require.NoError(t, err)

	images, err = env.svc.ListMediaByKind(ctx, mediavault.KindImage)
	require.NoError(t, err)
	assert.Empty(t, images)

	trash, err := env.svc.ListTrash(ctx)
	require.NoError(t, err)
	require.Len(t, trash, 1)

	restored, err := env.svc.RestoreMedia(ctx, media.ID)
	require.NoError(t, err)
	assert.Equal(t, mediavault.StatusRestored, restored.Status)

	images, err = env.svc.ListMediaByKind(ctx, mediavault.KindImage)
	require.NoError(t, err)
	require.Len(t, images, 1)

	_, err = env.svc.DeleteMedia(ctx, media.ID)
	require.NoError(t, err)

	_, err = env.svc.GetMedia(ctx, media.ID)
	assert.ErrorIs(t, err, mediavault.ErrMediaNotFound)
}

func TestTrashRelocationDisabled(t *testing.T) {
	env := setupTestService(t, mediavault.WithTrashRelocation(false))
	ctx := context.Background()

	media := addFile(t, env.svc, "stay-put.png", "Static")

	trashed, err := env.svc.MoveToTrash(ctx, media.ID)
	require.NoError(t, err)
	assert.Equal(t, mediavault.StatusPending, trashed.Status)
	// Location and blob untouched in this mode
	assert.Equal(t, "images/stay-put.png", trashed.Location)
	exists, err := env.store.Exists(ctx, "images/stay-put.png")
	require.NoError(t, err)
	assert.True(t, exists)

	restored, err := env.svc.RestoreMedia(ctx, media.ID)
	require.NoError(t, err)
	assert.Equal(t, mediavault.StatusRestored, restored.Status)
	assert.Equal(t, "images/stay-put.png", restored.Location)
}
