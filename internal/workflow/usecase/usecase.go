package usecase

import (
	"context"
	"time"

	"planner-backend/internal/workflow/domain"
)

// WorkflowUsecase owns every write path of a workflow. Each write runs the
// progress/status recalculation right before it is persisted.
type WorkflowUsecase interface {
	ListWorkflows(ctx context.Context, userID string, query ListQuery) ([]*domain.Workflow, error)
	GetWorkflow(ctx context.Context, userID, workflowID string) (*domain.Workflow, error)
	WorkflowsOnDay(ctx context.Context, userID, date string) ([]*domain.Workflow, error)
	CreateWorkflow(ctx context.Context, userID string, input WorkflowInput) (*domain.Workflow, error)
	UpdateWorkflow(ctx context.Context, userID, workflowID string, input WorkflowInput) (*domain.Workflow, error)
	ToggleStep(ctx context.Context, userID, workflowID, stepID string) (*domain.Workflow, error)
	UpdateStatus(ctx context.Context, userID, workflowID, status string) (*domain.Workflow, error)
	DeleteWorkflow(ctx context.Context, userID, workflowID string) error
	GetStats(ctx context.Context, userID string) (*domain.Stats, error)
	DuplicateWorkflow(ctx context.Context, userID, workflowID string) (*domain.Workflow, error)
}

// ListQuery holds the raw query-string filters of GET /api/workflows
type ListQuery struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	Category  string `form:"category" binding:"omitempty,oneof=daily weekly project meeting custom"`
	Status    string `form:"status" binding:"omitempty,oneof=scheduled in-progress completed cancelled"`
}

// StepInput is a step as sent by the client
type StepInput struct {
	ID          string     `json:"id"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Duration    *int       `json:"duration" binding:"omitempty,min=0"`
	IsCompleted bool       `json:"isCompleted"`
	CompletedAt *time.Time `json:"completedAt"`
	Order       *int       `json:"order"`
}

// WorkflowInput is used for both create and update. On update only non-nil
// fields are applied. Progress is never accepted from the client.
type WorkflowInput struct {
	Title         *string      `json:"title"`
	Description   *string      `json:"description"`
	Category      *string      `json:"category" binding:"omitempty,oneof=daily weekly project meeting custom"`
	StartDate     *string      `json:"startDate"`
	EndDate       *string      `json:"endDate"`
	StartTime     *string      `json:"startTime" binding:"omitempty,hhmm"`
	IsRecurring   *bool        `json:"isRecurring"`
	RecurringDays *[]string    `json:"recurringDays"`
	Steps         *[]StepInput `json:"steps" binding:"omitempty,dive"`
	Status        *string      `json:"status" binding:"omitempty,oneof=scheduled in-progress completed cancelled"`
	Color         *string      `json:"color"`
}
