package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/models"
	"github.com/google/uuid"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest may be empty when the refresh token travels as a cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID                 uuid.UUID `json:"id"`
	Username           string    `json:"username"`
	Name               string    `json:"name"`
	Role               string    `json:"role"`
	ChallengeStartDate *string   `json:"challenge_start_date"`
}

func NewUserResponse(u *models.User) UserResponse {
	resp := UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Role:     u.Role,
	}
	if u.ChallengeStartDate != nil {
		d := u.ChallengeStartDate.Format(DateLayout)
		resp.ChallengeStartDate = &d
	}
	return resp
}

// MeResponse carries a null user when the caller has no valid session.
type MeResponse struct {
	User *UserResponse `json:"user"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

type ChallengeStartRequest struct {
	Date string `json:"date"`
}

type ChallengeStartResponse struct {
	Date    string `json:"date"`
	Updated int64  `json:"updated"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
