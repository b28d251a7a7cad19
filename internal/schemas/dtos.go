package schemas

import "time"

// UserDTO is a struct that represents a user response
// Username is the username of the user
// Email is the email of the user
type UserDTO struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	Nickname          string `json:"nickname,omitempty"`
	Email             string `json:"email"`
	Status            string `json:"status,omitempty"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
	CreatedAt         string `json:"createdAt,omitempty"`
}

// TokenPairDTO is a struct that represents a token response
// Token is the main JWT token used for auth
// RefreshToken is the refresh token used to get a new token
type TokenPairDTO struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// DiaryDTO is a struct that represents a diary response.
// FormattedDate and WordCount are derived at serialization time and never stored.
type DiaryDTO struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	Mood           string     `json:"mood"`
	Category       string     `json:"category"`
	Tags           []string   `json:"tags"`
	Date           string     `json:"date"`
	FormattedDate  string     `json:"formattedDate"`
	WordCount      int        `json:"wordCount"`
	IsPublic       bool       `json:"isPublic"`
	AttachedPhotos []PhotoDTO `json:"attachedPhotos"`
	CreatedAt      string     `json:"createdAt"`
	UpdatedAt      string     `json:"updatedAt"`
}

// AlbumDTO is a struct that represents an album response
type AlbumDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CoverPhoto  string `json:"coverPhoto,omitempty"`
	IsDefault   bool   `json:"isDefault"`
	PhotoCount  int    `json:"photoCount"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// PhotoDTO is a struct that represents a photo response.
// ThumbnailURL and SizeFormatted are derived at serialization time and never stored.
type PhotoDTO struct {
	ID            string   `json:"id"`
	AlbumID       string   `json:"albumId"`
	Filename      string   `json:"filename"`
	OriginalName  string   `json:"originalName"`
	URL           string   `json:"url"`
	ThumbnailURL  string   `json:"thumbnailUrl"`
	Size          int64    `json:"size"`
	SizeFormatted string   `json:"sizeFormatted"`
	MimeType      string   `json:"mimetype"`
	Description   string   `json:"description,omitempty"`
	Tags          []string `json:"tags"`
	CreatedAt     string   `json:"createdAt"`
}

// CountdownDTO is a struct that represents a countdown response.
// Days, AbsoluteDays, Status and FormattedTargetDate are derived from the
// target date and the current day on every read; they are never persisted.
type CountdownDTO struct {
	ID                  string `json:"id"`
	Title               string `json:"title"`
	Description         string `json:"description,omitempty"`
	TargetDate          string `json:"targetDate"`
	FormattedTargetDate string `json:"formattedTargetDate"`
	Type                string `json:"type"`
	Direction           string `json:"direction"`
	IsRecurring         bool   `json:"isRecurring"`
	RecurringType       string `json:"recurringType,omitempty"`
	Days                int    `json:"days"`
	AbsoluteDays        int    `json:"absoluteDays"`
	Status              string `json:"status"`
	CreatedAt           string `json:"createdAt"`
	UpdatedAt           string `json:"updatedAt"`
}

// PaginationDTO is a struct that represents a pagination
// Page is the 1-based page number
// Limit is the given page size
// Total is the total number of records
// Pages is the total number of pages
type PaginationDTO struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// BackupMetadata is the structured snapshot written as metadata.json into a
// backup archive.
type BackupMetadata struct {
	Diaries    []Diary     `json:"diaries"`
	Albums     []Album     `json:"albums"`
	Photos     []Photo     `json:"photos"`
	Countdowns []Countdown `json:"countdowns"`
	ExportedAt time.Time   `json:"exportedAt"`
}

// MetadataDTO describes the running API version on the root route.
type MetadataDTO struct {
	ApiVersion string `json:"apiVersion"`
	ApiName    string `json:"apiName"`
}
