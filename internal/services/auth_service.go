package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/catalog"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/config"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/database"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/report"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

type AuthService struct {
	db      *gorm.DB
	cfg     *config.Config
	catalog *catalog.Catalog
}

func NewAuthService(db *gorm.DB, cfg *config.Config, cat *catalog.Catalog) *AuthService {
	return &AuthService{db: db, cfg: cfg, catalog: cat}
}

// Register creates the user with the catalog's default templates and signs
// them in. today becomes the challenge start date.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest, today time.Time) (*dto.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	name := strings.TrimSpace(req.Name)

	switch {
	case username == "" || req.Password == "" || name == "":
		return nil, validationErr("username, password and name are required")
	case len(username) < minUsernameLen:
		return nil, validationErr("username must be at least %d characters", minUsernameLen)
	case len(req.Password) < minPasswordLen:
		return nil, validationErr("password must be at least %d characters", minPasswordLen)
	}

	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	start := report.DateOnly(today)
	user := models.User{
		ID:                 uuid.New(),
		Username:           username,
		Name:               name,
		Password:           string(hash),
		Role:               "user",
		ChallengeStartDate: &start,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		_, err := seedTemplates(tx, user.ID, s.catalog.DefaultTemplates())
		return err
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username)
	return s.generateTokenPair(db, &user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.Where("username = ?", strings.TrimSpace(req.Username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(db, &user)
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (*dto.AuthResponse, error) {
	if rawToken == "" {
		return nil, ErrInvalidToken
	}
	db := s.db.WithContext(ctx)

	var stored models.RefreshToken
	if err := db.Where("token_hash = ? AND revoked = ?", hashToken(rawToken), false).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}

	if err := db.Model(&stored).Update("revoked", true).Error; err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	var user models.User
	if err := db.First(&user, "id = ?", stored.UserID).Error; err != nil {
		return nil, ErrInvalidToken
	}

	return s.generateTokenPair(db, &user)
}

func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}
	return s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ?", hashToken(rawToken)).
		Update("revoked", true).Error
}

// ParseAccessToken validates an access token and returns its subject.
func (s *AuthService) ParseAccessToken(raw string) (uuid.UUID, error) {
	token, err := jwt.Parse(raw, func(*jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return uuid.Nil, err
	}
	return session.UserIDFromToken(token)
}

func (s *AuthService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// DeleteAccount removes the user and everything they own.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	if password == "" {
		return validationErr("password is required")
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			query string
			model interface{}
		}{
			{"user_id = ?", &models.Spending{}},
			{"daily_task_id IN (SELECT id FROM daily_tasks WHERE user_id = ?)", &models.TaskCompletion{}},
			{"user_id = ?", &models.DailyTask{}},
			{"user_id = ?", &models.TaskTemplate{}},
			{"user_id = ?", &models.DietMeal{}},
			{"user_id = ?", &models.RefreshToken{}},
		}
		for _, step := range steps {
			if err := tx.Where(step.query, userID).Delete(step.model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.User{}, "id = ?", userID).Error
	})
}

// SetChallengeStartDate updates one user, or every user when userID is nil.
func (s *AuthService) SetChallengeStartDate(ctx context.Context, userID *uuid.UUID, date time.Time) (int64, error) {
	date = report.DateOnly(date)
	db := s.db.WithContext(ctx).Model(&models.User{})

	var res *gorm.DB
	if userID != nil {
		res = db.Where("id = ?", *userID).Update("challenge_start_date", date)
	} else {
		res = db.Session(&gorm.Session{AllowGlobalUpdate: true}).Update("challenge_start_date", date)
	}
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update challenge start date: %w", res.Error)
	}
	if userID != nil && res.RowsAffected == 0 {
		return 0, ErrUserNotFound
	}
	return res.RowsAffected, nil
}

func (s *AuthService) generateTokenPair(db *gorm.DB, user *models.User) (*dto.AuthResponse, error) {
	expiresAt := time.Now().Add(s.cfg.JWTAccessExpiry)
	accessToken, err := s.generateAccessToken(user, expiresAt)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(db, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         dto.NewUserResponse(user),
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
		"iat":      time.Now().Unix(),
		"exp":      expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(db *gorm.DB, user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.RawURLEncoding.EncodeToString(rawBytes)

	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}
	if err := db.Omit("User").Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
