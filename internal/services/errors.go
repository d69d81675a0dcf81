package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/report"
)

// Base kinds. Handlers map these to status codes with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrForbidden  = errors.New("forbidden")
)

var (
	ErrUsernameTaken      = fmt.Errorf("username %w", ErrConflict)
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)

	ErrDailyTaskNotFound  = fmt.Errorf("daily task %w", ErrNotFound)
	ErrDailyTaskForbidden = fmt.Errorf("daily task belongs to another user: %w", ErrForbidden)
	ErrCompletionNotFound = fmt.Errorf("task completion %w", ErrNotFound)
	ErrSpendingNotFound   = fmt.Errorf("spending %w", ErrNotFound)
	ErrInvalidAmount      = fmt.Errorf("%w: amount must be greater than zero", ErrValidation)

	ErrTemplateNotFound  = fmt.Errorf("task template %w", ErrNotFound)
	ErrTemplateNameTaken = fmt.Errorf("task template name %w", ErrConflict)

	ErrDietMealNotFound = fmt.Errorf("diet meal %w", ErrNotFound)
)

func validationErr(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns the
// calendar date it names at midnight UTC. The timestamp's own offset decides
// the date, so "2025-12-01T23:30:00-05:00" is December 1st.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, validationErr("date is required")
	}
	if t, err := time.Parse(dto.DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return report.DateOnly(t), nil
	}
	return time.Time{}, validationErr("invalid date %q, expected YYYY-MM-DD", s)
}
