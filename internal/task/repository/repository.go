package repository

import (
	"context"
	"time"

	"planner-backend/internal/task/domain"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error

	// FindByID returns nil, nil when the task does not exist
	FindByID(ctx context.Context, id string) (*domain.Task, error)

	// FindByUserID finds all tasks for a user with optional status filter
	FindByUserID(ctx context.Context, userID string, status *domain.TaskStatus, limit, offset int) ([]*domain.Task, int64, error)

	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) (int64, error)

	// FindPendingDueBetween returns pending tasks with from <= due_date < to
	FindPendingDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Task, error)
}
