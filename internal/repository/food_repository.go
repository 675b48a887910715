package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smartfridge/internal/model"
)

// FoodRepository defines persistence operations for fridge items. Every query
// is scoped by the owning user.
type FoodRepository interface {
	Create(ctx context.Context, food *model.Food) error
	Update(ctx context.Context, food *model.Food) error
	FindByID(ctx context.Context, userID uint, id uuid.UUID) (*model.Food, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Food, error)
	Delete(ctx context.Context, userID uint, id uuid.UUID) error
}

type foodRepository struct {
	db *gorm.DB
}

// NewFoodRepository creates a new food repository.
func NewFoodRepository(db *gorm.DB) FoodRepository {
	return &foodRepository{db: db}
}

func (r *foodRepository) Create(ctx context.Context, food *model.Food) error {
	return r.db.WithContext(ctx).Create(food).Error
}

func (r *foodRepository) Update(ctx context.Context, food *model.Food) error {
	return r.db.WithContext(ctx).Save(food).Error
}

func (r *foodRepository) FindByID(ctx context.Context, userID uint, id uuid.UUID) (*model.Food, error) {
	var food model.Food
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&food).Error
	if err != nil {
		return nil, err
	}
	return &food, nil
}

func (r *foodRepository) ListByUser(ctx context.Context, userID uint) ([]model.Food, error) {
	var foods []model.Food
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("use_by_date ASC").
		Find(&foods).Error
	if err != nil {
		return nil, err
	}
	return foods, nil
}

func (r *foodRepository) Delete(ctx context.Context, userID uint, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Food{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
