package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mediavault/mediavault/pkg/mediavault"
)

// Repository implements mediavault.Repository using in-memory storage
type Repository struct {
	mu         sync.RWMutex
	nextID     int64
	media      map[int64]*mediavault.Media
	byName     map[string]int64
	byLocation map[string]int64
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		nextID:     1,
		media:      make(map[int64]*mediavault.Media),
		byName:     make(map[string]int64),
		byLocation: make(map[string]int64),
	}
}

// CreateMedia inserts a record, assigning its ID. The uniqueness check and
// insert happen under one lock, so concurrent adds of the same name cannot
// both succeed.
func (r *Repository) CreateMedia(ctx context.Context, media *mediavault.Media) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[media.Name]; exists {
		return mediavault.ErrDuplicateName
	}
	if _, exists := r.byLocation[media.Location]; exists {
		return mediavault.ErrDuplicateLocation
	}

	media.ID = r.nextID
	r.nextID++

	// Store a copy to avoid external modifications
	mediaCopy := *media
	r.media[media.ID] = &mediaCopy
	r.byName[media.Name] = media.ID
	r.byLocation[media.Location] = media.ID

	return nil
}

func (r *Repository) GetMedia(ctx context.Context, id int64) (*mediavault.Media, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	media, exists := r.media[id]
	if !exists {
		return nil, mediavault.ErrMediaNotFound
	}

	mediaCopy := *media
	return &mediaCopy, nil
}

func (r *Repository) GetMediaByName(ctx context.Context, name string) (*mediavault.Media, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byName[name]
	if !exists {
		return nil, mediavault.ErrMediaNotFound
	}

	mediaCopy := *r.media[id]
	return &mediaCopy, nil
}

func (r *Repository) GetMediaByLocation(ctx context.Context, location string) (*mediavault.Media, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byLocation[location]
	if !exists {
		return nil, mediavault.ErrMediaNotFound
	}

	mediaCopy := *r.media[id]
	return &mediaCopy, nil
}

func (r *Repository) UpdateMedia(ctx context.Context, media *mediavault.Media) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.media[media.ID]
	if !exists {
		return mediavault.ErrMediaNotFound
	}

	// Location may change on trash/restore; another record must not hold
	// the target.
	if id, taken := r.byLocation[media.Location]; taken && id != media.ID {
		return mediavault.ErrDuplicateLocation
	}

	delete(r.byName, current.Name)
	delete(r.byLocation, current.Location)

	mediaCopy := *media
	r.media[media.ID] = &mediaCopy
	r.byName[media.Name] = media.ID
	r.byLocation[media.Location] = media.ID

	return nil
}

func (r *Repository) DeleteMedia(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	media, exists := r.media[id]
	if !exists {
		return mediavault.ErrMediaNotFound
	}

	delete(r.byName, media.Name)
	delete(r.byLocation, media.Location)
	delete(r.media, id)

	return nil
}

func (r *Repository) ListMedia(ctx context.Context) ([]*mediavault.Media, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*mediavault.Media, 0, len(r.media))
	for _, media := range r.media {
		mediaCopy := *media
		result = append(result, &mediaCopy)
	}

	// Sort by created_at descending, newest first; break ties by ID so the
	// order is stable under fast successive inserts.
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}
