package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smartfridge/internal/cache"
	apperrors "smartfridge/internal/errors"
	"smartfridge/internal/model"
	"smartfridge/internal/repository"
)

const foodCacheTTL = 5 * time.Minute

// FoodService manages a user's fridge inventory.
type FoodService interface {
	CreateFood(ctx context.Context, userID uint, food *model.Food) (*model.Food, error)
	GetFood(ctx context.Context, userID uint, id uuid.UUID) (*model.Food, error)
	ListFoods(ctx context.Context, userID uint) ([]model.Food, error)
	UpdateFood(ctx context.Context, userID uint, id uuid.UUID, in *model.Food) (*model.Food, error)
	DeleteFood(ctx context.Context, userID uint, id uuid.UUID) error
}

type foodService struct {
	repo  repository.FoodRepository
	cache *cache.Client
	now   func() time.Time
}

// NewFoodService creates a new food service.
func NewFoodService(repo repository.FoodRepository, cacheClient *cache.Client) FoodService {
	return &foodService{
		repo:  repo,
		cache: cacheClient,
		now:   time.Now,
	}
}

func (s *foodService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("food:%s", id.String())
}

// CreateFood stores a new item owned by userID.
func (s *foodService) CreateFood(ctx context.Context, userID uint, food *model.Food) (*model.Food, error) {
	food.ID = uuid.Nil // assigned in BeforeCreate
	food.UserID = userID
	if err := s.repo.Create(ctx, food); err != nil {
		return nil, fmt.Errorf("create food: %w", err)
	}
	food.RefreshDaysLeft(s.now())
	return food, nil
}

// GetFood retrieves one item with caching. DaysLeft is recomputed on every
// read, including cache hits, so it never goes stale.
func (s *foodService) GetFood(ctx context.Context, userID uint, id uuid.UUID) (*model.Food, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Food
		if err := json.Unmarshal(data, &cached); err == nil && cached.UserID == userID {
			cached.RefreshDaysLeft(s.now())
			return &cached, nil
		}
	}

	food, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFoodNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(food); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, foodCacheTTL)
	}
	food.RefreshDaysLeft(s.now())
	return food, nil
}

// ListFoods returns the user's inventory ordered by use-by date.
func (s *foodService) ListFoods(ctx context.Context, userID uint) ([]model.Food, error) {
	foods, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range foods {
		foods[i].RefreshDaysLeft(now)
	}
	return foods, nil
}

// UpdateFood replaces the mutable fields of an item the user owns.
func (s *foodService) UpdateFood(ctx context.Context, userID uint, id uuid.UUID, in *model.Food) (*model.Food, error) {
	food, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFoodNotFound
		}
		return nil, err
	}

	food.Name = in.Name
	food.PurchaseDate = in.PurchaseDate
	food.UseByDate = in.UseByDate
	food.Calories = in.Calories
	food.Protein = in.Protein
	food.Fibre = in.Fibre
	food.Carbs = in.Carbs
	food.Price = in.Price
	if err := s.repo.Update(ctx, food); err != nil {
		return nil, fmt.Errorf("update food: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	food.RefreshDaysLeft(s.now())
	return food, nil
}

// DeleteFood removes an item if the user owns it.
func (s *foodService) DeleteFood(ctx context.Context, userID uint, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrFoodNotFound
		}
		return err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}
