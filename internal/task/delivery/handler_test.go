package delivery_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"planner-backend/internal/task/delivery"
	"planner-backend/internal/task/domain"
	"planner-backend/internal/task/repository"
	"planner-backend/internal/task/usecase"
	"planner-backend/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewConnection("sqlite://" + filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, &domain.Task{}))
	t.Cleanup(func() { database.Close(db) })

	h := delivery.NewTaskHandler(usecase.NewTaskUsecase(repository.NewGormTaskRepository(db), time.UTC))

	r := gin.New()
	tasks := r.Group("/tasks", func(c *gin.Context) {
		c.Set("userID", c.GetHeader("X-User"))
		c.Next()
	})
	tasks.GET("", h.GetTasks)
	tasks.POST("", h.CreateTask)
	tasks.DELETE("", h.DeleteAllTasks)
	tasks.GET("/:id", h.GetTaskByID)
	tasks.PUT("/:id", h.UpdateTask)
	tasks.PATCH("/:id/status", h.UpdateTaskStatus)
	tasks.DELETE("/:id", h.DeleteTask)
	return r
}

func do(r *gin.Engine, method, path, user, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User", user)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTaskEndpoints(t *testing.T) {
	t.Parallel()
	r := newRouter(t)

	w := do(r, http.MethodPost, "/tasks", "u1", `{"description":"no title"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/tasks", "u1", `{"title":"Pay rent","dueDate":"2024-02-01"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var task domain.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	assert.Equal(t, domain.TaskStatusPending, task.Status)

	w = do(r, http.MethodGet, "/tasks/"+task.ID, "u2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPatch, "/tasks/"+task.ID+"/status", "u1", `{"status":"archived"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPatch, "/tasks/"+task.ID+"/status", "u1", `{"status":"complete"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"complete"`)

	w = do(r, http.MethodPut, "/tasks/"+task.ID, "u1", `{"dueDate":"soon"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/tasks", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)

	w = do(r, http.MethodDelete, "/tasks/"+task.ID, "u1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodDelete, "/tasks/"+task.ID, "u1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteAllTasksReportsCount(t *testing.T) {
	t.Parallel()
	r := newRouter(t)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/tasks", "u1", `{"title":"t"}`).Code)
	}

	w := do(r, http.MethodDelete, "/tasks", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deletedCount":3`)
}
