package domain

import (
	"errors"
	"time"
)

var (
	ErrEmailTaken         = errors.New("user already exists with this email")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
)

type User struct {
	ID                 string    `json:"id" gorm:"primaryKey"`
	Name               string    `json:"name" gorm:"not null"`
	Email              string    `json:"email" gorm:"uniqueIndex;not null"`
	Password           string    `json:"-"` // bcrypt hash, never returned
	EmailNotifications bool      `json:"emailNotifications" gorm:"default:false"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// CanReceiveEmail reports whether reminder emails may be sent to the user.
func (u *User) CanReceiveEmail() bool {
	return u != nil && u.EmailNotifications && u.Email != ""
}
