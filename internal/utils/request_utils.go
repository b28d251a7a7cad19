package utils

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"lovelog/internal/schemas"
)

// WriteAndLogResponse wraps the payload in the success envelope and writes it
// with the provided status code.
func WriteAndLogResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	LogMessageWithFields(c, "info", "Returning response")
	c.JSON(statusCode, &schemas.Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// WriteAndLogError logs the provided error and sends an error envelope with
// the specified status code. In the development environment the underlying
// error is included in the response details.
func WriteAndLogError(c *gin.Context, customErr *schemas.CustomError, statusCode int, err error) {
	LogMessageWithFields(c, "error", "Error occurred: "+err.Error())
	LogMessageWithFields(c, "error", "Returning "+customErr.Code+" / "+customErr.Message)

	response := &schemas.Response{
		Success: false,
		Message: customErr.Message,
		Code:    customErr.Code,
	}
	if os.Getenv("ENVIRONMENT") == "development" {
		response.Details = err.Error()
	}

	c.JSON(statusCode, response)
}

// DecodeRequestBody decodes the request body into the given struct.
// On failure it writes a BadRequest envelope and returns the error.
func DecodeRequestBody(c *gin.Context, target interface{}) error {
	if err := c.ShouldBindJSON(target); err != nil {
		WriteAndLogError(c, schemas.BadRequest, 400, err)
		return err
	}
	return nil
}

// ValidateStruct sanitizes and validates the given struct using the validator
// singleton. Validation failures are converted into a single concatenated
// message and written as a BadRequest envelope.
func ValidateStruct(c *gin.Context, target interface{}) error {
	v := GetValidator()
	v.SanitizeData(target)

	if err := v.Validate.Struct(target); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			message := joinValidationMessages(validationErrs)
			WriteAndLogError(c, schemas.BadRequest.WithMessage(message), 400, err)
			return err
		}

		WriteAndLogError(c, schemas.BadRequest, 400, err)
		return err
	}
	return nil
}

// joinValidationMessages builds one human-readable message out of all field
// violations, mirroring how the API reports schema constraint failures.
func joinValidationMessages(errs validator.ValidationErrors) string {
	messages := make([]string, 0, len(errs))
	for _, fieldErr := range errs {
		messages = append(messages, validationMessage(fieldErr))
	}
	return strings.Join(messages, ", ")
}

func validationMessage(fieldErr validator.FieldError) string {
	field := fieldErr.Field()

	switch fieldErr.Tag() {
	case "required":
		return field + " is required"
	case "required_if":
		return field + " is required when " + strings.ToLower(fieldErr.Param()) + " is set"
	case "notblank":
		return field + " must not be blank"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fieldErr.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fieldErr.Param())
	case "email":
		return field + " must be a valid email address"
	case "datetime":
		return field + " must be a date in the format YYYY-MM-DD"
	case "uuid":
		return field + " must be a valid ID"
	default:
		return field + " is invalid"
	}
}
