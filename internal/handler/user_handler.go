package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "smartfridge/internal/errors"
	"smartfridge/internal/model"
	"smartfridge/internal/service"
)

// UserHandler handles profile and credential-change endpoints.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// ProfileRequest represents a profile update.
type ProfileRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=admin manager guest"`
}

// PasswordRequest represents a password change.
type PasswordRequest struct {
	OldPassword     string `json:"old_password" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

// VerifyPasswordRequest carries a candidate password for pre-submit checking.
type VerifyPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

func userIDParam(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid id",
			Code:  "INVALID_ID",
		})
	}
	return uint(id), nil
}

// UpdateProfile godoc
// @Summary Update a user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body ProfileRequest true "Profile data"
// @Success 200 {object} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ValidationErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	id, err := userIDParam(c)
	if err != nil {
		return err
	}
	if claims.UserID != id && claims.Role != string(model.RoleAdmin) {
		return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
			Error: "cannot edit another user's profile",
			Code:  "FORBIDDEN",
		})
	}

	var req ProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.svc.UpdateProfile(c.Request().Context(), model.Role(claims.Role), id, req.Name, req.Email, model.Role(req.Role))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword godoc
// @Summary Change the caller's password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body PasswordRequest true "Password data"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ValidationErrorResponse
// @Router /users/{id}/password [put]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	id, err := userIDParam(c)
	if err != nil {
		return err
	}
	// Password changes require the old password, so they are self-only.
	if claims.UserID != id {
		return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
			Error: "cannot change another user's password",
			Code:  "FORBIDDEN",
		})
	}

	var req PasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.svc.ChangePassword(c.Request().Context(), id, req.OldPassword, req.Password); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "password changed successfully",
	})
}

// EmailAvailable godoc
// @Summary Check whether an email is free to register
// @Tags users
// @Produce json
// @Param email query string true "Email to check"
// @Param excluding_id query int false "User ID whose own email is exempt"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} errors.ErrorResponse
// @Router /users/email-available [get]
func (h *UserHandler) EmailAvailable(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "email is required",
			Code:  "INVALID_REQUEST",
		})
	}
	var excludingID uint
	if raw := c.QueryParam("excluding_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
				Error: "invalid excluding_id",
				Code:  "INVALID_REQUEST",
			})
		}
		excludingID = uint(id)
	}

	available, err := h.svc.IsEmailAvailable(c.Request().Context(), email, excludingID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"available": available})
}

// VerifyPassword godoc
// @Summary Check a candidate password against the stored credential
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body VerifyPasswordRequest true "Candidate password"
// @Success 200 {object} map[string]bool
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/verify-password [post]
func (h *UserHandler) VerifyPassword(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	id, err := userIDParam(c)
	if err != nil {
		return err
	}
	if claims.UserID != id {
		return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
			Error: "cannot verify another user's password",
			Code:  "FORBIDDEN",
		})
	}

	var req VerifyPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ok, err := h.svc.VerifyPassword(c.Request().Context(), id, req.Password)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"valid": ok})
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	id, err := userIDParam(c)
	if err != nil {
		return err
	}
	if claims.UserID != id && claims.Role != string(model.RoleAdmin) {
		return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
			Error: "cannot view another user's profile",
			Code:  "FORBIDDEN",
		})
	}

	user, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// ListUsers godoc
// @Summary List users (admin only)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, users)
}
