package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/hugh/go-tracker/internal/database/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// TokenStore keeps issued refresh tokens keyed by their string value.
// Deleting a token revokes it.
type TokenStore interface {
	Save(ctx context.Context, token string, userID uint, expiresAt time.Time) error
	Exists(ctx context.Context, token string) (bool, error)
	Delete(ctx context.Context, token string) error
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// DBTokenStore persists refresh tokens in the refresh_tokens table.
type DBTokenStore struct {
	db *gorm.DB
}

func NewDBTokenStore(db *gorm.DB) *DBTokenStore {
	return &DBTokenStore{db: db}
}

func (s *DBTokenStore) Save(ctx context.Context, token string, userID uint, expiresAt time.Time) error {
	row := models.RefreshToken{Token: token, UserID: userID, ExpiresAt: expiresAt}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("saving refresh token: %w", err)
	}
	return nil
}

func (s *DBTokenStore) Exists(ctx context.Context, token string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("token = ? AND expires_at > ?", token, time.Now()).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("looking up refresh token: %w", err)
	}
	return count > 0, nil
}

func (s *DBTokenStore) Delete(ctx context.Context, token string) error {
	if err := s.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&models.RefreshToken{}).Error; err != nil {
		return fmt.Errorf("deleting refresh token: %w", err)
	}
	return nil
}

func (s *DBTokenStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&models.RefreshToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("purging refresh tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// RedisTokenStore keeps refresh tokens as keys that expire with the token.
type RedisTokenStore struct {
	client *redis.Client
	prefix string
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client, prefix: "refresh_token:"}
}

func (s *RedisTokenStore) key(token string) string {
	return s.prefix + token
}

func (s *RedisTokenStore) Save(ctx context.Context, token string, userID uint, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.key(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("saving refresh token: %w", err)
	}
	return nil
}

func (s *RedisTokenStore) Exists(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("looking up refresh token: %w", err)
	}
	return n > 0, nil
}

func (s *RedisTokenStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("deleting refresh token: %w", err)
	}
	return nil
}

// PurgeExpired is a no-op: Redis expires the keys itself.
func (s *RedisTokenStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}
