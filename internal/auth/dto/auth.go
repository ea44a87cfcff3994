package dto

import authdomain "planner-backend/internal/auth/domain"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

type NotificationSettingsRequest struct {
	EmailNotifications *bool `json:"emailNotifications" binding:"required"`
}

type RegisterFCMTokenRequest struct {
	Token      string `json:"token" binding:"required"`
	DeviceInfo string `json:"deviceInfo"`
}

// UserSummary is the public view of a user.
type UserSummary struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	EmailNotifications bool   `json:"emailNotifications"`
}

type TokenResponse struct {
	Token string       `json:"token"`
	User  *UserSummary `json:"user"`
}

func NewUserSummary(u *authdomain.User) *UserSummary {
	return &UserSummary{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		EmailNotifications: u.EmailNotifications,
	}
}
