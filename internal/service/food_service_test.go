package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "smartfridge/internal/errors"
	"smartfridge/internal/model"
)

// MockFoodRepository is a mock implementation of FoodRepository.
type MockFoodRepository struct {
	mock.Mock
}

func (m *MockFoodRepository) Create(ctx context.Context, food *model.Food) error {
	args := m.Called(ctx, food)
	return args.Error(0)
}

func (m *MockFoodRepository) Update(ctx context.Context, food *model.Food) error {
	args := m.Called(ctx, food)
	return args.Error(0)
}

func (m *MockFoodRepository) FindByID(ctx context.Context, userID uint, id uuid.UUID) (*model.Food, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Food), args.Error(1)
}

func (m *MockFoodRepository) ListByUser(ctx context.Context, userID uint) ([]model.Food, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Food), args.Error(1)
}

func (m *MockFoodRepository) Delete(ctx context.Context, userID uint, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func newFoodServiceForTest(repo *MockFoodRepository, now time.Time) FoodService {
	svc := NewFoodService(repo, nil).(*foodService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestFoodService_CreateFood(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mockRepo := new(MockFoodRepository)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(f *model.Food) bool {
		return f.UserID == 42
	})).Return(nil)

	svc := newFoodServiceForTest(mockRepo, now)
	food, err := svc.CreateFood(context.Background(), 42, &model.Food{
		Name:         "Milk",
		PurchaseDate: now,
		UseByDate:    now.Add(72 * time.Hour),
		Calories:     64,
		Price:        decimal.NewFromFloat(1.29),
	})

	assert.NoError(t, err)
	assert.Equal(t, uint(42), food.UserID)
	assert.Equal(t, 3, food.DaysLeft)
	mockRepo.AssertExpectations(t)
}

func TestFoodService_GetFood(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id := uuid.New()

	t.Run("found with fresh days left", func(t *testing.T) {
		mockRepo := new(MockFoodRepository)
		mockRepo.On("FindByID", mock.Anything, uint(42), id).
			Return(&model.Food{ID: id, UserID: 42, Name: "Milk", UseByDate: now.Add(36 * time.Hour)}, nil)

		svc := newFoodServiceForTest(mockRepo, now)
		food, err := svc.GetFood(context.Background(), 42, id)

		assert.NoError(t, err)
		assert.Equal(t, 2, food.DaysLeft)
		mockRepo.AssertExpectations(t)
	})

	t.Run("item of another user is invisible", func(t *testing.T) {
		mockRepo := new(MockFoodRepository)
		mockRepo.On("FindByID", mock.Anything, uint(43), id).Return(nil, gorm.ErrRecordNotFound)

		svc := newFoodServiceForTest(mockRepo, now)
		food, err := svc.GetFood(context.Background(), 43, id)

		assert.ErrorIs(t, err, apperrors.ErrFoodNotFound)
		assert.Nil(t, food)
	})
}

func TestFoodService_ListFoods(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mockRepo := new(MockFoodRepository)
	mockRepo.On("ListByUser", mock.Anything, uint(42)).Return([]model.Food{
		{Name: "Expired yoghurt", UseByDate: now.Add(-48 * time.Hour)},
		{Name: "Milk", UseByDate: now.Add(72 * time.Hour)},
	}, nil)

	svc := newFoodServiceForTest(mockRepo, now)
	foods, err := svc.ListFoods(context.Background(), 42)

	assert.NoError(t, err)
	assert.Len(t, foods, 2)
	assert.Equal(t, 0, foods[0].DaysLeft) // expired items never go negative
	assert.Equal(t, 3, foods[1].DaysLeft)
	mockRepo.AssertExpectations(t)
}

func TestFoodService_UpdateFood(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id := uuid.New()

	t.Run("replaces mutable fields", func(t *testing.T) {
		mockRepo := new(MockFoodRepository)
		mockRepo.On("FindByID", mock.Anything, uint(42), id).
			Return(&model.Food{ID: id, UserID: 42, Name: "Milk", Calories: 64}, nil)
		mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(f *model.Food) bool {
			return f.ID == id && f.UserID == 42 && f.Name == "Oat milk" && f.Calories == 46
		})).Return(nil)

		svc := newFoodServiceForTest(mockRepo, now)
		food, err := svc.UpdateFood(context.Background(), 42, id, &model.Food{
			Name:      "Oat milk",
			Calories:  46,
			UseByDate: now.Add(24 * time.Hour),
		})

		assert.NoError(t, err)
		assert.Equal(t, "Oat milk", food.Name)
		assert.Equal(t, 1, food.DaysLeft)
		mockRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockFoodRepository)
		mockRepo.On("FindByID", mock.Anything, uint(42), id).Return(nil, gorm.ErrRecordNotFound)

		svc := newFoodServiceForTest(mockRepo, now)
		_, err := svc.UpdateFood(context.Background(), 42, id, &model.Food{Name: "Oat milk"})
		assert.ErrorIs(t, err, apperrors.ErrFoodNotFound)
	})
}

func TestFoodService_DeleteFood(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id := uuid.New()

	t.Run("deletes owned item", func(t *testing.T) {
		mockRepo := new(MockFoodRepository)
		mockRepo.On("Delete", mock.Anything, uint(42), id).Return(nil)

		svc := newFoodServiceForTest(mockRepo, now)
		assert.NoError(t, svc.DeleteFood(context.Background(), 42, id))
		mockRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockFoodRepository)
		mockRepo.On("Delete", mock.Anything, uint(42), id).Return(gorm.ErrRecordNotFound)

		svc := newFoodServiceForTest(mockRepo, now)
		assert.ErrorIs(t, svc.DeleteFood(context.Background(), 42, id), apperrors.ErrFoodNotFound)
	})
}
