package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"smartfridge/internal/auth"
	"smartfridge/internal/model"
)

func TestAuthService_Login(t *testing.T) {
	storedHash := hashOf(t, "Secret1!")

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "ana@x.com",
			password: "Secret1!",
			setupMock: func(mRepo *MockUserRepository, mTokens *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "ana@x.com").
					Return(&model.User{ID: 1, Email: "ana@x.com", PasswordHash: storedHash, Role: model.RoleGuest}, nil)
				mTokens.On("StoreRefreshToken", mock.Anything, mock.AnythingOfType("string"), uint(1), "ana@x.com", auth.RefreshTokenExpiry).
					Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "unknown email",
			email:    "nobody@x.com",
			password: "Secret1!",
			setupMock: func(mRepo *MockUserRepository, mTokens *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "nobody@x.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "ana@x.com",
			password: "wrong",
			setupMock: func(mRepo *MockUserRepository, mTokens *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "ana@x.com").
					Return(&model.User{ID: 1, Email: "ana@x.com", PasswordHash: storedHash}, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokens := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokens)

			svc := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), mockTokens)
			accessToken, refreshToken, user, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, accessToken)
				assert.NotEmpty(t, refreshToken)
				assert.Equal(t, tt.email, user.Email)
			}

			mockRepo.AssertExpectations(t)
			mockTokens.AssertExpectations(t)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(1, "ana@x.com")
	assert.NoError(t, err)

	t.Run("valid refresh token carries the current role", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokens := new(MockTokenStore)

		mockTokens.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(1), "ana@x.com", nil)
		mockRepo.On("FindByID", mock.Anything, uint(1)).
			Return(&model.User{ID: 1, Email: "ana@x.com", Role: model.RoleManager}, nil)

		svc := NewAuthService(mockRepo, jwtService, mockTokens)
		accessToken, err := svc.RefreshToken(context.Background(), refreshToken)

		assert.NoError(t, err)
		claims, err := jwtService.ValidateToken(accessToken)
		assert.NoError(t, err)
		assert.Equal(t, string(model.RoleManager), claims.Role)

		mockRepo.AssertExpectations(t)
		mockTokens.AssertExpectations(t)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore))
		_, err := svc.RefreshToken(context.Background(), "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("token unknown to the store is rejected", func(t *testing.T) {
		mockTokens := new(MockTokenStore)
		mockTokens.On("GetRefreshToken", mock.Anything, tokenID).
			Return(uint(0), "", assert.AnError)

		svc := NewAuthService(new(MockUserRepository), jwtService, mockTokens)
		_, err := svc.RefreshToken(context.Background(), refreshToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}

func TestAuthService_Logout(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(1, "ana@x.com")
	assert.NoError(t, err)

	t.Run("deletes the stored refresh token", func(t *testing.T) {
		mockTokens := new(MockTokenStore)
		mockTokens.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)

		svc := NewAuthService(new(MockUserRepository), jwtService, mockTokens)
		assert.NoError(t, svc.Logout(context.Background(), refreshToken))
		mockTokens.AssertExpectations(t)
	})

	t.Run("invalid token", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore))
		assert.ErrorIs(t, svc.Logout(context.Background(), "not-a-jwt"), ErrInvalidRefreshToken)
	})
}
