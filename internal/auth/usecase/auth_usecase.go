package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	authdomain "planner-backend/internal/auth/domain"
	authdto "planner-backend/internal/auth/dto"
	"planner-backend/internal/auth/repository"
	"planner-backend/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo     repository.UserRepository
	fcmTokenRepo repository.FCMTokenRepository
	confirmQueue ConfirmationQueue
	config       *config.Config
}

// NewAuthUsecase creates a new instance of authUsecase. confirmQueue may be nil.
func NewAuthUsecase(userRepo repository.UserRepository, fcmTokenRepo repository.FCMTokenRepository, confirmQueue ConfirmationQueue, cfg *config.Config) AuthUsecase {
	return &authUsecase{
		userRepo:     userRepo,
		fcmTokenRepo: fcmTokenRepo,
		confirmQueue: confirmQueue,
		config:       cfg,
	}
}

func (u *authUsecase) Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}

	if user == nil || !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, authdomain.ErrInvalidCredentials
	}

	return u.issueToken(user)
}

func (u *authUsecase) Register(ctx context.Context, req *authdto.RegisterRequest) (*authdto.TokenResponse, error) {
	email := normalizeEmail(req.Email)
	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, authdomain.ErrEmailTaken
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &authdomain.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hashedPassword,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return u.issueToken(user)
}

func (u *authUsecase) issueToken(user *authdomain.User) (*authdto.TokenResponse, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     now.Add(u.config.JWTExpiry).Unix(),
		"iat":     now.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(u.config.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &authdto.TokenResponse{
		Token: token,
		User:  authdto.NewUserSummary(user),
	}, nil
}

func (u *authUsecase) ValidateToken(ctx context.Context, tokenString string) (*authdomain.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil || !token.Valid {
		return nil, authdomain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, authdomain.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, authdomain.ErrInvalidToken
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, authdomain.ErrUserNotFound
	}

	return user, nil
}

func (u *authUsecase) UpdateNotificationSettings(ctx context.Context, user *authdomain.User, enabled bool) (*authdomain.User, error) {
	user.EmailNotifications = enabled
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if enabled && u.confirmQueue != nil {
		if !u.confirmQueue.QueueNotificationsEnabled(user) {
			log.Warn().Str("component", "auth").Str("user_id", user.ID).Msg("confirmation email not queued")
		}
	}

	return user, nil
}

func (u *authUsecase) RegisterFCMToken(ctx context.Context, userID, token, deviceInfo string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("token is required")
	}
	return u.fcmTokenRepo.SaveToken(ctx, userID, token, deviceInfo)
}

func (u *authUsecase) UnregisterFCMToken(ctx context.Context, userID, token string) error {
	return u.fcmTokenRepo.DeleteToken(ctx, userID, token)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
