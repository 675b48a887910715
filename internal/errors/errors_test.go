package errors

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
		{ErrFoodNotFound, http.StatusNotFound, "FOOD_NOT_FOUND"},
		{ErrDuplicateEmail, http.StatusConflict, "DUPLICATE_EMAIL"},
		{ErrInvalidCredential, http.StatusUnauthorized, "INVALID_CREDENTIAL"},
		{ErrInvalidResetToken, http.StatusUnauthorized, "INVALID_RESET_TOKEN"},
		{ErrRoleNotAllowed, http.StatusForbidden, "ROLE_NOT_ALLOWED"},
		{ErrMailDeliveryFailed, http.StatusBadGateway, "MAIL_DELIVERY_FAILED"},
		{errors.New("something else"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.expectedCode, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.expectedStatus, httpErr.StatusCode)
			assert.Equal(t, tt.expectedCode, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_WrappedError(t *testing.T) {
	httpErr := MapErrorToHTTP(fmt.Errorf("register: %w", ErrDuplicateEmail))
	assert.Equal(t, http.StatusConflict, httpErr.StatusCode)
	assert.Equal(t, "DUPLICATE_EMAIL", httpErr.Code)
}

func TestNewValidationResponse(t *testing.T) {
	type registerRequest struct {
		Name            string `json:"name" validate:"required"`
		Email           string `json:"email" validate:"required,email"`
		Password        string `json:"password" validate:"required,min=8"`
		PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	err := v.Struct(registerRequest{
		Email:           "not-an-email",
		Password:        "short",
		PasswordConfirm: "different",
	})
	verrs := validator.ValidationErrors{}
	assert.ErrorAs(t, err, &verrs)

	resp := NewValidationResponse(verrs)
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
	assert.Equal(t, "is required", resp.Details["name"])
	assert.Equal(t, "must be a valid email address", resp.Details["email"])
	assert.Equal(t, "must be at least 8 characters", resp.Details["password"])
	assert.Equal(t, "does not match Password", resp.Details["password_confirm"])
}
