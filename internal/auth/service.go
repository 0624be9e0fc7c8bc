package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hugh/go-tracker/internal/database/models"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("user already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

type Service struct {
	db      *gorm.DB
	access  *JWTService
	refresh *JWTService
	tokens  TokenStore
}

func NewService(db *gorm.DB, access, refresh *JWTService, tokens TokenStore) *Service {
	return &Service{db: db, access: access, refresh: refresh, tokens: tokens}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := normalizeEmail(input.Email)
	db := s.db.WithContext(ctx)

	exists, err := s.emailTaken(db, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := models.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
	}
	if err := db.Create(&user).Error; err != nil {
		// Lost a race with a concurrent registration of the same email.
		if taken, _ := s.emailTaken(db, email); taken {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return &user, nil
}

func (s *Service) emailTaken(db *gorm.DB, email string) (bool, error) {
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("checking email: %w", err)
	}
	return count > 0, nil
}

// Login verifies the credentials and issues an access token plus a stored
// refresh token.
func (s *Service) Login(ctx context.Context, input LoginInput) (*TokenPair, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Where("email = ?", normalizeEmail(input.Email)).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !CheckPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.access.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.refresh.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.refresh.Expiry())
	if err := s.tokens.Save(ctx, refreshToken, user.ID, expiresAt); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh exchanges a stored, valid refresh token for a new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrInvalidRefreshToken
	}

	ok, err := s.tokens.Exists(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrInvalidRefreshToken
	}

	claims, err := s.refresh.ValidateToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	return s.access.GenerateToken(claims.UserID, claims.Email)
}

// Logout revokes the refresh token. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.tokens.Delete(ctx, refreshToken)
}

func (s *Service) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
