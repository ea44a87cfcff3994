package delivery_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"planner-backend/internal/auth/delivery"
	authdomain "planner-backend/internal/auth/domain"
	"planner-backend/internal/auth/repository"
	"planner-backend/internal/auth/usecase"
	"planner-backend/pkg/config"
	"planner-backend/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewConnection("sqlite://" + filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, &authdomain.User{}, &authdomain.FCMToken{}))
	t.Cleanup(func() { database.Close(db) })

	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour}
	auth := usecase.NewAuthUsecase(repository.NewUserRepository(db), repository.NewFCMTokenRepository(db), nil, cfg)
	h := delivery.NewAuthHandler(auth)

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.GET("/auth/me", delivery.AuthMiddleware(auth), h.Me)
	r.PATCH("/auth/settings/notifications", delivery.AuthMiddleware(auth), h.UpdateNotificationSettings)
	return r
}

func do(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthFlow(t *testing.T) {
	t.Parallel()
	r := newRouter(t)

	w := do(r, http.MethodPost, "/auth/register", "", `{"name":"Ada","email":"ada@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var reg struct {
		Token string `json:"token"`
		User  struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))
	assert.NotEmpty(t, reg.Token)

	w = do(r, http.MethodPost, "/auth/register", "", `{"name":"Ada","email":"ada@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/auth/register", "", `{"name":"Bob","email":"not-an-email","password":"secret1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/auth/login", "", `{"email":"ada@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/auth/me", reg.Token, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ada@example.com")

	w = do(r, http.MethodGet, "/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/auth/me", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNotificationSettingsRequiresBoolean(t *testing.T) {
	t.Parallel()
	r := newRouter(t)

	w := do(r, http.MethodPost, "/auth/register", "", `{"name":"Ada","email":"ada@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var reg struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))

	w = do(r, http.MethodPatch, "/auth/settings/notifications", reg.Token, `{"emailNotifications":"yes"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPatch, "/auth/settings/notifications", reg.Token, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPatch, "/auth/settings/notifications", reg.Token, `{"emailNotifications":true}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"emailNotifications":true`)
}
