// Package schemas defines the request structures for various operations in the application.
package schemas

// RegistrationRequest is a struct that represents a registration request
// Username is required and must be less than 20 characters
// Email is required and must be a valid email
// Password is required and must be at least 8 characters
type RegistrationRequest struct {
	Username string `json:"username" validate:"required,notblank,max=20,username_validation"`
	Nickname string `json:"nickname" validate:"omitempty,max=25"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest is a struct that represents a login request
// Email is required and must be a valid email
// Password is required
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest is a struct that represents a RefreshToken request
// RefreshToken is required and must be a valid refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// ChangeProfileRequest is a struct that represents a profile change request
// Username is required and must be less than 20 characters
// Email is required and must be a valid email
type ChangeProfileRequest struct {
	Username          string `json:"username" validate:"required,notblank,max=20,username_validation"`
	Nickname          string `json:"nickname" validate:"omitempty,max=25"`
	Email             string `json:"email" validate:"required,email"`
	Status            string `json:"status" validate:"omitempty,max=256"`
	ProfilePictureURL string `json:"profilePictureUrl" validate:"omitempty,max=2048"`
}

// ChangePasswordRequest is a struct that represents a PasswordChange request
// CurrentPassword is required
// NewPassword is required and must be at least 8 characters
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// CreateDiaryRequest is a struct that represents a create diary request
// Title, Content and Category are required and must be non-blank
// Mood must be one of the fixed moods when given
// Date is the effective entry date and defaults to today when omitted
// PhotoIds optionally attaches owned photos on creation
type CreateDiaryRequest struct {
	Title    string   `json:"title" validate:"required,notblank,max=100"`
	Content  string   `json:"content" validate:"required,notblank,max=10000"`
	Mood     string   `json:"mood" validate:"omitempty,oneof=happy sad excited calm angry tired loved grateful"`
	Category string   `json:"category" validate:"required,notblank,max=20"`
	Tags     []string `json:"tags" validate:"omitempty,dive,max=20"`
	Date     string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	IsPublic bool     `json:"isPublic"`
	PhotoIds []string `json:"photoIds" validate:"omitempty,dive,uuid"`
}

// UpdateDiaryRequest is a struct that represents an update diary request.
// All fields are optional; absent fields keep their stored values.
type UpdateDiaryRequest struct {
	Title    *string   `json:"title" validate:"omitempty,notblank,max=100"`
	Content  *string   `json:"content" validate:"omitempty,notblank,max=10000"`
	Mood     *string   `json:"mood" validate:"omitempty,oneof=happy sad excited calm angry tired loved grateful"`
	Category *string   `json:"category" validate:"omitempty,notblank,max=20"`
	Tags     *[]string `json:"tags" validate:"omitempty,dive,max=20"`
	Date     *string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	IsPublic *bool     `json:"isPublic"`
}

// AttachPhotosRequest is a struct that represents a request to attach photos to a diary
// PhotoIds is required and must contain at least one photo ID
type AttachPhotosRequest struct {
	PhotoIds []string `json:"photoIds" validate:"required,min=1,dive,uuid"`
}

// CreateAlbumRequest is a struct that represents a create album request
// Name is required and must be non-blank
type CreateAlbumRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=50"`
	Description string `json:"description" validate:"max=200"`
	IsDefault   bool   `json:"isDefault"`
}

// UpdateAlbumRequest is a struct that represents an update album request.
// All fields are optional; absent fields keep their stored values.
type UpdateAlbumRequest struct {
	Name        *string `json:"name" validate:"omitempty,notblank,max=50"`
	Description *string `json:"description" validate:"omitempty,max=200"`
	CoverPhoto  *string `json:"coverPhoto"`
	IsDefault   *bool   `json:"isDefault"`
}

// CreateCountdownRequest is a struct that represents a create countdown request
// TargetDate is required; Direction is derived from the date when omitted
// RecurringType is required when IsRecurring is set
type CreateCountdownRequest struct {
	Title         string `json:"title" validate:"required,notblank,max=50"`
	Description   string `json:"description" validate:"max=200"`
	TargetDate    string `json:"targetDate" validate:"required,datetime=2006-01-02"`
	Type          string `json:"type" validate:"omitempty,oneof=anniversary birthday event other"`
	Direction     string `json:"direction" validate:"omitempty,oneof=countup countdown"`
	IsRecurring   bool   `json:"isRecurring"`
	RecurringType string `json:"recurringType" validate:"required_if=IsRecurring true,omitempty,oneof=yearly monthly daily"`
}

// UpdateCountdownRequest is a struct that represents an update countdown request.
// All fields are optional; absent fields keep their stored values.
type UpdateCountdownRequest struct {
	Title         *string `json:"title" validate:"omitempty,notblank,max=50"`
	Description   *string `json:"description" validate:"omitempty,max=200"`
	TargetDate    *string `json:"targetDate" validate:"omitempty,datetime=2006-01-02"`
	Type          *string `json:"type" validate:"omitempty,oneof=anniversary birthday event other"`
	Direction     *string `json:"direction" validate:"omitempty,oneof=countup countdown"`
	IsRecurring   *bool   `json:"isRecurring"`
	RecurringType *string `json:"recurringType" validate:"omitempty,oneof=yearly monthly daily"`
}
