package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"planner-backend/internal/task/domain"
	"planner-backend/internal/task/repository"
)

// taskUsecase implements TaskUsecase interface
type taskUsecase struct {
	taskRepo repository.TaskRepository
	loc      *time.Location
}

// NewTaskUsecase creates a new instance of taskUsecase. Date-only due dates
// are interpreted in loc.
func NewTaskUsecase(taskRepo repository.TaskRepository, loc *time.Location) TaskUsecase {
	if loc == nil {
		loc = time.Local
	}
	return &taskUsecase{
		taskRepo: taskRepo,
		loc:      loc,
	}
}

func (u *taskUsecase) CreateTask(ctx context.Context, userID string, req TaskCreateRequest) (*domain.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidTask)
	}

	task := &domain.Task{
		UserID:      userID,
		Title:       title,
		Description: req.Description,
		Status:      domain.TaskStatusPending,
	}

	if req.Status != "" {
		status := domain.TaskStatus(req.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: invalid status %q", domain.ErrInvalidTask, req.Status)
		}
		task.Status = status
	}

	if req.DueDate != nil && *req.DueDate != "" {
		due, err := u.parseDueDate(*req.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = due
	}

	if err := u.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

func (u *taskUsecase) GetTaskByID(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	task, err := u.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil || task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

func (u *taskUsecase) GetUserTasks(ctx context.Context, userID string, status *string, limit, offset int) ([]*domain.Task, int64, error) {
	var statusFilter *domain.TaskStatus
	if status != nil && *status != "" {
		s := domain.TaskStatus(*status)
		if !s.Valid() {
			return nil, 0, fmt.Errorf("%w: invalid status %q", domain.ErrInvalidTask, *status)
		}
		statusFilter = &s
	}
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return u.taskRepo.FindByUserID(ctx, userID, statusFilter, limit, offset)
}

func (u *taskUsecase) UpdateTask(ctx context.Context, userID, taskID string, updates TaskUpdateRequest) (*domain.Task, error) {
	task, err := u.GetTaskByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if updates.Title != nil {
		title := strings.TrimSpace(*updates.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidTask)
		}
		task.Title = title
	}
	if updates.Description != nil {
		task.Description = *updates.Description
	}
	if updates.Status != nil {
		status := domain.TaskStatus(*updates.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: invalid status %q", domain.ErrInvalidTask, *updates.Status)
		}
		task.Status = status
	}
	if updates.DueDate != nil {
		if *updates.DueDate == "" {
			task.DueDate = nil
		} else {
			due, err := u.parseDueDate(*updates.DueDate)
			if err != nil {
				return nil, err
			}
			task.DueDate = due
		}
	}

	if err := u.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

func (u *taskUsecase) UpdateTaskStatus(ctx context.Context, userID, taskID, status string) (*domain.Task, error) {
	return u.UpdateTask(ctx, userID, taskID, TaskUpdateRequest{Status: &status})
}

func (u *taskUsecase) DeleteTask(ctx context.Context, userID, taskID string) error {
	task, err := u.GetTaskByID(ctx, userID, taskID)
	if err != nil {
		return err
	}
	return u.taskRepo.Delete(ctx, task.ID)
}

func (u *taskUsecase) DeleteAllTasks(ctx context.Context, userID string) (int64, error) {
	return u.taskRepo.DeleteByUserID(ctx, userID)
}

// parseDueDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates.
// The result is stored in UTC.
func (u *taskUsecase) parseDueDate(value string) (*time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.UTC()
		return &t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, value, u.loc); err == nil {
		t = t.UTC()
		return &t, nil
	}
	return nil, fmt.Errorf("%w: invalid dueDate %q", domain.ErrInvalidTask, value)
}
