package usecase

import (
	"context"

	"planner-backend/internal/task/domain"
)

// TaskUsecase defines the interface for task business logic. Every method is
// scoped to userID; tasks owned by someone else are reported as not found.
type TaskUsecase interface {
	CreateTask(ctx context.Context, userID string, req TaskCreateRequest) (*domain.Task, error)
	GetTaskByID(ctx context.Context, userID, taskID string) (*domain.Task, error)
	GetUserTasks(ctx context.Context, userID string, status *string, limit, offset int) ([]*domain.Task, int64, error)
	UpdateTask(ctx context.Context, userID, taskID string, updates TaskUpdateRequest) (*domain.Task, error)
	UpdateTaskStatus(ctx context.Context, userID, taskID, status string) (*domain.Task, error)
	DeleteTask(ctx context.Context, userID, taskID string) error
	DeleteAllTasks(ctx context.Context, userID string) (int64, error)
}

// TaskCreateRequest represents the request body for creating a task
type TaskCreateRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	DueDate     *string `json:"dueDate"`
	Status      string  `json:"status"`
}

// TaskUpdateRequest represents the fields that can be updated
type TaskUpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	Status      *string `json:"status,omitempty"`
}
