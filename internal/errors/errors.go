package errors

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when an email is already taken by another user.
	ErrDuplicateEmail = errors.New("email already in use")
	// ErrInvalidCredential is returned when a supplied password does not match the stored one.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrInvalidResetToken is returned when a reset token is unknown, expired or already consumed.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	// ErrFoodNotFound is returned when a food item is not found for the requesting user.
	ErrFoodNotFound = errors.New("food item not found")
	// ErrRoleNotAllowed is returned when a non-admin tries to change a role.
	ErrRoleNotAllowed = errors.New("role change not allowed")
	// ErrMailDeliveryFailed signals that a notification email could not be sent.
	// It is a soft failure: the state mutation that preceded it stands.
	ErrMailDeliveryFailed = errors.New("could not send email")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ValidationErrorResponse carries one reason per offending field so callers
// can highlight the exact inputs that failed.
type ValidationErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrFoodNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "FOOD_NOT_FOUND")
	case errors.Is(err, ErrDuplicateEmail):
		return NewHTTPError(http.StatusConflict, err.Error(), "DUPLICATE_EMAIL")
	case errors.Is(err, ErrInvalidCredential):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIAL")
	case errors.Is(err, ErrInvalidResetToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_RESET_TOKEN")
	case errors.Is(err, ErrRoleNotAllowed):
		return NewHTTPError(http.StatusForbidden, err.Error(), "ROLE_NOT_ALLOWED")
	case errors.Is(err, ErrMailDeliveryFailed):
		return NewHTTPError(http.StatusBadGateway, err.Error(), "MAIL_DELIVERY_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

// NewValidationResponse converts validator failures into a field-scoped
// response. Field names come from the struct's json tags.
func NewValidationResponse(verrs validator.ValidationErrors) ValidationErrorResponse {
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fieldMessage(fe)
	}
	return ValidationErrorResponse{
		Error:   "validation failed",
		Code:    "VALIDATION_ERROR",
		Details: details,
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "eqfield":
		return "does not match " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	default:
		return "is invalid"
	}
}
