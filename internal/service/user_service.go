package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"smartfridge/internal/auth"
	"smartfridge/internal/cache"
	apperrors "smartfridge/internal/errors"
	"smartfridge/internal/mail"
	"smartfridge/internal/model"
	"smartfridge/internal/repository"
)

const (
	bcryptCost    = 10
	userCacheTTL  = 5 * time.Minute
	resetTokenTTL = 30 * time.Minute
)

// UserService orchestrates the identity and credential-change workflows:
// registration, profile edits, password changes and the reset-token flow.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateProfile(ctx context.Context, actorRole model.Role, id uint, name, email string, role model.Role) (*model.User, error)
	ChangePassword(ctx context.Context, id uint, oldPassword, newPassword string) error
	RequestPasswordReset(ctx context.Context, email string) error
	CompletePasswordReset(ctx context.Context, email, token, newPassword string) error
	IsEmailAvailable(ctx context.Context, email string, excludingID uint) (bool, error)
	VerifyPassword(ctx context.Context, id uint, candidate string) (bool, error)
}

type userService struct {
	repo       repository.UserRepository
	tokenStore auth.TokenStoreInterface
	mailer     mail.Gateway
	cache      *cache.Client
	baseURL    string
}

// NewUserService builds the orchestrator with its collaborators.
func NewUserService(repo repository.UserRepository, tokenStore auth.TokenStoreInterface, mailer mail.Gateway, cacheClient *cache.Client, baseURL string) UserService {
	return &userService{
		repo:       repo,
		tokenStore: tokenStore,
		mailer:     mailer,
		cache:      cacheClient,
		baseURL:    baseURL,
	}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// Register creates a guest user with a hashed credential. The email pre-check
// gives a fast answer, but the unique index is what prevents two concurrent
// registrations from both succeeding.
func (s *userService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	available, err := s.IsEmailAvailable(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, apperrors.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleGuest,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	// Confirmation mail is best effort and must not block or fail registration.
	s.mailer.SendAsync(context.WithoutCancel(ctx),
		"Welcome to SmartFridge",
		fmt.Sprintf("<p>Hi %s,</p><p>your SmartFridge account is ready.</p>", name),
		email, "", true)

	return user, nil
}

// GetUser retrieves a user by ID with read-through caching.
func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

// UpdateProfile mutates name, email and role in place. A role different from
// the current one requires an admin actor. Email uniqueness excludes the
// user's own record so keeping the address untouched always succeeds.
func (s *userService) UpdateProfile(ctx context.Context, actorRole model.Role, id uint, name, email string, role model.Role) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	if email != user.Email {
		available, err := s.IsEmailAvailable(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if !available {
			return nil, apperrors.ErrDuplicateEmail
		}
	}

	if role != "" && role != user.Role {
		if actorRole != model.RoleAdmin {
			return nil, apperrors.ErrRoleNotAllowed
		}
		user.Role = role
	}

	user.Name = name
	user.Email = email
	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}

// ChangePassword replaces the stored credential after verifying the old one.
func (s *userService) ChangePassword(ctx context.Context, id uint, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return apperrors.ErrInvalidCredential
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, id, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

// RequestPasswordReset issues a fresh single-use token for the email,
// superseding any earlier one, and mails it out. A failed send is reported as
// ErrMailDeliveryFailed but leaves the token valid so a retry can re-send.
func (s *userService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return err
	}

	token, err := s.tokenStore.IssueResetToken(ctx, email, resetTokenTTL)
	if err != nil {
		return err
	}

	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Use this link to reset your SmartFridge password:</p>"+
			"<p><a href=%q>%s/reset-password?token=%s</a></p>"+
			"<p>The link is valid for %d minutes and can be used once.</p>",
		user.Name, s.baseURL+"/reset-password?token="+token, s.baseURL, token,
		int(resetTokenTTL.Minutes()))
	if !s.mailer.Send(ctx, "Reset your SmartFridge password", body, email, "", true) {
		return apperrors.ErrMailDeliveryFailed
	}
	return nil
}

// CompletePasswordReset redeems a reset token and replaces the credential.
// Token consumption is atomic in the store, so a token redeems exactly once.
func (s *userService) CompletePasswordReset(ctx context.Context, email, token, newPassword string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInvalidResetToken
		}
		return err
	}

	ok, err := s.tokenStore.ConsumeResetToken(ctx, email, token)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(user.ID))
	return nil
}

// IsEmailAvailable reports whether the email is free to use. A non-zero
// excludingID exempts that user's own record, for profile edits.
func (s *userService) IsEmailAvailable(ctx context.Context, email string, excludingID uint) (bool, error) {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("check email: %w", err)
	}
	return existing.ID == excludingID, nil
}

// VerifyPassword checks a candidate against the stored credential for user id.
func (s *userService) VerifyPassword(ctx context.Context, id uint, candidate string) (bool, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperrors.ErrUserNotFound
		}
		return false, err
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(candidate)) == nil, nil
}
