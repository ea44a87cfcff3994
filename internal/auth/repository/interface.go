package repository

import (
	"context"

	authdomain "planner-backend/internal/auth/domain"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *authdomain.User) error
	FindByEmail(ctx context.Context, email string) (*authdomain.User, error)
	FindByID(ctx context.Context, id string) (*authdomain.User, error)
	// FindByIDs returns the users that exist among ids, keyed by id
	FindByIDs(ctx context.Context, ids []string) (map[string]*authdomain.User, error)
	// FindWithNotificationsEnabled returns every user who opted in to email reminders
	FindWithNotificationsEnabled(ctx context.Context) ([]*authdomain.User, error)
	Update(ctx context.Context, user *authdomain.User) error
}

// FCMTokenRepository defines the interface for FCM token operations
type FCMTokenRepository interface {
	SaveToken(ctx context.Context, userID, token, deviceInfo string) error
	GetTokensByUserID(ctx context.Context, userID string) ([]authdomain.FCMToken, error)
	DeleteToken(ctx context.Context, userID, token string) error
	DeleteTokens(ctx context.Context, tokens []string) error
}
