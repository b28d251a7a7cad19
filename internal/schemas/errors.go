// Package schemas defines the data structures exchanged over the API.
package schemas

// Response is the envelope every endpoint answers with.
// Success reports whether the request succeeded.
// Message is an optional human-readable message.
// Code is a stable error code, only set on failures.
// Data carries the payload on success.
// Details is only populated in the development environment.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Details string      `json:"details,omitempty"`
}

// CustomError is a struct that represents an error with a stable code and a
// human-readable message.
type CustomError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WithMessage returns a copy of the error carrying a more specific message,
// used for validation failures where the message is built per request.
func (e *CustomError) WithMessage(message string) *CustomError {
	return &CustomError{Code: e.Code, Message: message}
}

var (
	BadRequest            = &CustomError{"ERR-001", "The request body is invalid. Please check the request body and try again."}
	UsernameTaken         = &CustomError{"ERR-002", "The username is already taken. Please try another username."}
	EmailTaken            = &CustomError{"ERR-003", "The email is already registered. Please try another email."}
	UserNotFound          = &CustomError{"ERR-004", "The user was not found."}
	InvalidCredentials    = &CustomError{"ERR-005", "The email or password is incorrect."}
	DiaryNotFound         = &CustomError{"ERR-006", "The diary was not found."}
	AlbumNotFound         = &CustomError{"ERR-007", "The album was not found."}
	PhotoNotFound         = &CustomError{"ERR-008", "The photo was not found."}
	CountdownNotFound     = &CustomError{"ERR-009", "The countdown was not found."}
	DefaultAlbumProtected = &CustomError{"ERR-010", "The default album cannot be deleted."}
	NoFilesUploaded       = &CustomError{"ERR-011", "At least one photo file is required."}
	UnsupportedFileType   = &CustomError{"ERR-012", "Only image files can be uploaded."}
	PayloadTooLarge       = &CustomError{"ERR-013", "The upload exceeds the maximum allowed size."}
	Unauthorized          = &CustomError{"ERR-014", "The request is unauthorized. Please login to your account."}
	InvalidToken          = &CustomError{"ERR-015", "The token is invalid or expired."}
	DatabaseError         = &CustomError{"ERR-016", "A database error occurred. Please try again later."}
	InternalServerError   = &CustomError{"ERR-017", "An internal error occurred. Please try again later."}
	EmailUnreachable      = &CustomError{"ERR-018", "The email address appears to be unreachable."}
	PasswordIncorrect     = &CustomError{"ERR-019", "The current password is incorrect."}
	ExportFailed          = &CustomError{"ERR-020", "The backup export failed. Please try again later."}
)
