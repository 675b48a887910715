package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"smartfridge/internal/cache"
)

const (
	refreshTokenKeyPrefix = "refresh_token:"
	resetTokenKeyPrefix   = "password_reset:"
)

// consumeResetScript deletes the stored token only when it matches the
// candidate, so a token is redeemable exactly once and a stale candidate
// cannot destroy the live token.
const consumeResetScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) else return 0 end`

// TokenStoreInterface defines the interface for token storage operations.
type TokenStoreInterface interface {
	StoreRefreshToken(ctx context.Context, tokenID string, userID uint, email string, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, tokenID string) (userID uint, email string, err error)
	DeleteRefreshToken(ctx context.Context, tokenID string) error
	IssueResetToken(ctx context.Context, email string, ttl time.Duration) (string, error)
	ConsumeResetToken(ctx context.Context, email, token string) (bool, error)
}

// TokenStore handles storage and retrieval of tokens in Redis.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// StoreRefreshToken stores a refresh token in Redis with TTL.
func (s *TokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, email string, ttl time.Duration) error {
	data := map[string]interface{}{
		"user_id": userID,
		"email":   email,
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal token data: %w", err)
	}

	key := refreshTokenKeyPrefix + tokenID
	return s.cache.Store(ctx, key, payload, ttl)
}

// GetRefreshToken retrieves refresh token data from Redis.
func (s *TokenStore) GetRefreshToken(ctx context.Context, tokenID string) (userID uint, email string, err error) {
	key := refreshTokenKeyPrefix + tokenID
	data, err := s.cache.Get(ctx, key)
	if err != nil || data == nil {
		return 0, "", fmt.Errorf("refresh token not found")
	}

	var tokenData map[string]interface{}
	if err := json.Unmarshal(data, &tokenData); err != nil {
		return 0, "", fmt.Errorf("unmarshal token data: %w", err)
	}

	uid, ok := tokenData["user_id"].(float64)
	if !ok {
		return 0, "", fmt.Errorf("invalid user_id in token data")
	}
	userID = uint(uid)

	email, ok = tokenData["email"].(string)
	if !ok {
		return 0, "", fmt.Errorf("invalid email in token data")
	}

	return userID, email, nil
}

// DeleteRefreshToken removes a refresh token from Redis.
func (s *TokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	key := refreshTokenKeyPrefix + tokenID
	return s.cache.Delete(ctx, key)
}

// IssueResetToken creates a fresh password-reset token bound to the email.
// Writing the key overwrites any previously issued token for that email,
// which invalidates it.
func (s *TokenStore) IssueResetToken(ctx context.Context, email string, ttl time.Duration) (string, error) {
	token := uuid.New().String()
	key := resetTokenKeyPrefix + email
	if err := s.cache.Store(ctx, key, []byte(token), ttl); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}
	return token, nil
}

// ConsumeResetToken atomically checks the candidate against the stored token
// and removes it on match. Returns false when the token is unknown, expired,
// superseded, or already consumed.
func (s *TokenStore) ConsumeResetToken(ctx context.Context, email, token string) (bool, error) {
	key := resetTokenKeyPrefix + email
	res, err := s.cache.Eval(ctx, consumeResetScript, []string{key}, token)
	if err != nil {
		return false, fmt.Errorf("consume reset token: %w", err)
	}
	n, ok := res.(int64)
	return ok && n == 1, nil
}
