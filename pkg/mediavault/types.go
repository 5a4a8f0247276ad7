package mediavault

import "time"

// Status is the domain type for media lifecycle states.
type Status string

// Media status constants (typed).
const (
	// StatusActive is the initial state of every record.
	StatusActive Status = "active"
	// StatusPending marks a record whose blob sits in the trash area.
	StatusPending Status = "pending"
	// StatusRestored marks a record explicitly brought back from the trash.
	StatusRestored Status = "restaure"
)

// IsValid reports whether s is one of the known lifecycle states.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusPending, StatusRestored:
		return true
	}
	return false
}

// Media represents a stored media file and its metadata.
//
// Name and Location are globally unique. Kind is derived from the filename
// extension at creation time and never changes afterwards. Location always
// names the blob currently holding the bytes: trash and restore move the blob
// and rewrite Location together.
type Media struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Title       string    `json:"title"`
	Kind        Kind      `json:"kind"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// InTrash reports whether the record is currently soft-deleted.
func (m *Media) InTrash() bool {
	return m.Status == StatusPending
}
