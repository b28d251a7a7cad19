// Package schemas defines the data structures
package schemas

import (
	"time"

	"github.com/google/uuid"
)

// User represents the data model for a user in the system.
type User struct {
	ID                uuid.UUID `json:"id"`                  // Unique identifier for the user.
	Username          string    `json:"username"`            // Username of the user.
	Nickname          string    `json:"nickname"`            // Display name shown instead of the username.
	Email             string    `json:"email"`               // Email address of the user.
	Password          string    `json:"-"`                   // Password hash of the user, never serialized.
	Status            string    `json:"status"`              // Free-text status line.
	ProfilePictureURL string    `json:"profile_picture_url"` // URL of the profile picture.
	CreatedAt         time.Time `json:"created_at"`          // Timestamp when the user was created.
	UpdatedAt         time.Time `json:"updated_at"`          // Timestamp when the user was last updated.
}

// Diary represents a single journal entry owned by a user.
type Diary struct {
	ID             uuid.UUID   `json:"id"`
	UserID         uuid.UUID   `json:"user_id"`
	Title          string      `json:"title"`
	Content        string      `json:"content"`
	Mood           string      `json:"mood"`
	Category       string      `json:"category"`
	Tags           []string    `json:"tags"`
	EntryDate      time.Time   `json:"date"` // Effective date of the entry, distinct from CreatedAt.
	IsPublic       bool        `json:"is_public"`
	AttachedPhotos []uuid.UUID `json:"attached_photos"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Album groups photos of a user. At most one album per user is flagged as
// the default; the default album cannot be deleted.
type Album struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CoverPhoto  string    `json:"cover_photo"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Photo represents an uploaded image file and its metadata.
type Photo struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	AlbumID      uuid.UUID `json:"album_id"`
	Filename     string    `json:"filename"`      // Unique stored filename.
	OriginalName string    `json:"original_name"` // Filename as uploaded by the client.
	Path         string    `json:"path"`          // Location of the original on disk.
	URL          string    `json:"url"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mime_type"`
	Description  string    `json:"description,omitempty"`
	Tags         []string  `json:"tags"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Countdown represents an anniversary or upcoming event. Direction decides
// whether days are counted up from a past date or down towards a future one.
type Countdown struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	TargetDate    time.Time `json:"target_date"`
	Type          string    `json:"type"`
	Direction     string    `json:"direction"`
	IsRecurring   bool      `json:"is_recurring"`
	RecurringType string    `json:"recurring_type,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
