package repository

import (
	"context"
	"time"

	"planner-backend/internal/workflow/domain"
)

// Filter narrows a user's workflows. Nil fields are ignored.
type Filter struct {
	StartFrom   *time.Time // start_date >= StartFrom
	StartTo     *time.Time // start_date <= StartTo
	StartBefore *time.Time // start_date < StartBefore
	Category    *domain.Category
	Status      *domain.Status
}

// WorkflowRepository defines data access for workflows. Steps are embedded
// in the workflow row and are written with it.
type WorkflowRepository interface {
	Create(ctx context.Context, workflow *domain.Workflow) error

	// FindByID returns nil, nil when the workflow does not exist
	FindByID(ctx context.Context, id string) (*domain.Workflow, error)

	// FindByUserID returns matching workflows ordered by start date, then start time
	FindByUserID(ctx context.Context, userID string, filter Filter) ([]*domain.Workflow, error)

	Update(ctx context.Context, workflow *domain.Workflow) error
	Delete(ctx context.Context, id string) error
}
