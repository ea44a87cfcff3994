package usecase

import (
	"context"

	authdomain "planner-backend/internal/auth/domain"
	authdto "planner-backend/internal/auth/dto"
)

// AuthUsecase defines the interface for authentication and account settings
type AuthUsecase interface {
	Register(ctx context.Context, req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error)

	// ValidateToken resolves a bearer token to its user
	ValidateToken(ctx context.Context, token string) (*authdomain.User, error)

	// UpdateNotificationSettings toggles email reminders. Enabling them queues a
	// confirmation email; a failure to queue it does not fail the update.
	UpdateNotificationSettings(ctx context.Context, user *authdomain.User, enabled bool) (*authdomain.User, error)

	RegisterFCMToken(ctx context.Context, userID, token, deviceInfo string) error
	UnregisterFCMToken(ctx context.Context, userID, token string) error
}

// ConfirmationQueue accepts best-effort "notifications enabled" emails.
type ConfirmationQueue interface {
	QueueNotificationsEnabled(user *authdomain.User) bool
}
