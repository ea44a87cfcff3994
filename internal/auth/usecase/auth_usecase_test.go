package usecase_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	authdomain "planner-backend/internal/auth/domain"
	authdto "planner-backend/internal/auth/dto"
	"planner-backend/internal/auth/repository"
	"planner-backend/internal/auth/usecase"
	"planner-backend/pkg/config"
	"planner-backend/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	queued []string
}

func (q *fakeQueue) QueueNotificationsEnabled(user *authdomain.User) bool {
	q.queued = append(q.queued, user.Email)
	return true
}

func newAuth(t *testing.T) (usecase.AuthUsecase, repository.UserRepository, *fakeQueue) {
	t.Helper()

	db, err := database.NewConnection("sqlite://" + filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, &authdomain.User{}, &authdomain.FCMToken{}))
	t.Cleanup(func() { database.Close(db) })

	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour}
	users := repository.NewUserRepository(db)
	queue := &fakeQueue{}
	return usecase.NewAuthUsecase(users, repository.NewFCMTokenRepository(db), queue, cfg), users, queue
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	auth, _, _ := newAuth(t)

	resp, err := auth.Register(ctx, &authdto.RegisterRequest{Name: "Ada", Email: "Ada@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.False(t, resp.User.EmailNotifications)

	_, err = auth.Register(ctx, &authdto.RegisterRequest{Name: "Ada 2", Email: "ada@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, authdomain.ErrEmailTaken)

	login, err := auth.Login(ctx, &authdto.LoginRequest{Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = auth.Login(ctx, &authdto.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)

	_, err = auth.Login(ctx, &authdto.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	auth, _, _ := newAuth(t)

	resp, err := auth.Register(ctx, &authdto.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	user, err := auth.ValidateToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, user.ID)

	_, err = auth.ValidateToken(ctx, resp.Token+"x")
	assert.ErrorIs(t, err, authdomain.ErrInvalidToken)

	_, err = auth.ValidateToken(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, authdomain.ErrInvalidToken)
}

func TestUpdateNotificationSettingsQueuesConfirmationOnlyWhenEnabling(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	auth, users, queue := newAuth(t)

	resp, err := auth.Register(ctx, &authdto.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	user, err := users.FindByID(ctx, resp.User.ID)
	require.NoError(t, err)

	updated, err := auth.UpdateNotificationSettings(ctx, user, true)
	require.NoError(t, err)
	assert.True(t, updated.EmailNotifications)
	assert.Equal(t, []string{"ada@example.com"}, queue.queued)

	_, err = auth.UpdateNotificationSettings(ctx, user, false)
	require.NoError(t, err)
	assert.Len(t, queue.queued, 1)

	stored, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.EmailNotifications)
}
