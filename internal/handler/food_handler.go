package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	apperrors "smartfridge/internal/errors"
	"smartfridge/internal/model"
	"smartfridge/internal/service"
)

const dateLayout = "2006-01-02"

// FoodHandler handles fridge inventory endpoints.
type FoodHandler struct {
	svc service.FoodService
}

// NewFoodHandler creates a new food handler.
func NewFoodHandler(svc service.FoodService) *FoodHandler {
	return &FoodHandler{svc: svc}
}

// FoodRequest represents a food create/update payload. Dates use YYYY-MM-DD
// and price travels as a decimal string to avoid float rounding.
type FoodRequest struct {
	Name         string `json:"name" validate:"required,max=255"`
	PurchaseDate string `json:"purchase_date" validate:"required"`
	UseByDate    string `json:"use_by_date" validate:"required"`
	Calories     int    `json:"calories" validate:"gte=0"`
	Protein      int    `json:"protein" validate:"gte=0"`
	Fibre        int    `json:"fibre" validate:"gte=0"`
	Carbs        int    `json:"carbs" validate:"gte=0"`
	Price        string `json:"price" validate:"required"`
}

func (r *FoodRequest) toModel() (*model.Food, error) {
	purchase, err := time.Parse(dateLayout, r.PurchaseDate)
	if err != nil {
		return nil, fieldError("purchase_date", "must be a date in YYYY-MM-DD format")
	}
	useBy, err := time.Parse(dateLayout, r.UseByDate)
	if err != nil {
		return nil, fieldError("use_by_date", "must be a date in YYYY-MM-DD format")
	}
	price, err := decimal.NewFromString(r.Price)
	if err != nil || price.IsNegative() {
		return nil, fieldError("price", "must be a non-negative decimal")
	}
	return &model.Food{
		Name:         r.Name,
		PurchaseDate: purchase,
		UseByDate:    useBy,
		Calories:     r.Calories,
		Protein:      r.Protein,
		Fibre:        r.Fibre,
		Carbs:        r.Carbs,
		Price:        price,
	}, nil
}

func fieldError(field, reason string) error {
	return echo.NewHTTPError(http.StatusUnprocessableEntity, apperrors.ValidationErrorResponse{
		Error:   "validation failed",
		Code:    "VALIDATION_ERROR",
		Details: map[string]string{field: reason},
	})
}

func foodIDParam(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid food id",
			Code:  "INVALID_ID",
		})
	}
	return id, nil
}

// CreateFood godoc
// @Summary Add a food item to the caller's fridge
// @Tags foods
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body FoodRequest true "Food data"
// @Success 201 {object} model.Food
// @Failure 422 {object} errors.ValidationErrorResponse
// @Router /foods [post]
func (h *FoodHandler) CreateFood(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	var req FoodRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	food, err := req.toModel()
	if err != nil {
		return err
	}

	created, err := h.svc.CreateFood(c.Request().Context(), claims.UserID, food)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

// ListFoods godoc
// @Summary List the caller's fridge inventory
// @Tags foods
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Food
// @Router /foods [get]
func (h *FoodHandler) ListFoods(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	foods, err := h.svc.ListFoods(c.Request().Context(), claims.UserID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, foods)
}

// GetFood godoc
// @Summary Get one food item
// @Tags foods
// @Produce json
// @Security BearerAuth
// @Param id path string true "Food ID"
// @Success 200 {object} model.Food
// @Failure 404 {object} errors.ErrorResponse
// @Router /foods/{id} [get]
func (h *FoodHandler) GetFood(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	id, err := foodIDParam(c)
	if err != nil {
		return err
	}

	food, err := h.svc.GetFood(c.Request().Context(), claims.UserID, id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, food)
}

// UpdateFood godoc
// @Summary Update a food item
// @Tags foods
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Food ID"
// @Param request body FoodRequest true "Food data"
// @Success 200 {object} model.Food
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ValidationErrorResponse
// @Router /foods/{id} [put]
func (h *FoodHandler) UpdateFood(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	id, err := foodIDParam(c)
	if err != nil {
		return err
	}

	var req FoodRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	food, err := req.toModel()
	if err != nil {
		return err
	}

	updated, err := h.svc.UpdateFood(c.Request().Context(), claims.UserID, id, food)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteFood godoc
// @Summary Remove a food item
// @Tags foods
// @Produce json
// @Security BearerAuth
// @Param id path string true "Food ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /foods/{id} [delete]
func (h *FoodHandler) DeleteFood(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	id, err := foodIDParam(c)
	if err != nil {
		return err
	}

	if err := h.svc.DeleteFood(c.Request().Context(), claims.UserID, id); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "food item removed",
	})
}
