package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"planner-backend/internal/workflow/domain"
	"planner-backend/internal/workflow/repository"
)

type workflowUsecase struct {
	repo repository.WorkflowRepository
	loc  *time.Location
	now  func() time.Time
}

// NewWorkflowUsecase creates the workflow usecase. Date-only inputs and the
// per-day lookup use loc. now defaults to time.Now.
func NewWorkflowUsecase(repo repository.WorkflowRepository, loc *time.Location, now func() time.Time) WorkflowUsecase {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &workflowUsecase{repo: repo, loc: loc, now: now}
}

func (u *workflowUsecase) ListWorkflows(ctx context.Context, userID string, query ListQuery) ([]*domain.Workflow, error) {
	var filter repository.Filter
	if query.StartDate != "" {
		from, err := u.parseDate(query.StartDate, "startDate")
		if err != nil {
			return nil, err
		}
		filter.StartFrom = &from
	}
	if query.EndDate != "" {
		to, err := u.parseDate(query.EndDate, "endDate")
		if err != nil {
			return nil, err
		}
		filter.StartTo = &to
	}
	if query.Category != "" {
		c := domain.Category(query.Category)
		if !c.Valid() {
			return nil, fmt.Errorf("%w: invalid category %q", domain.ErrInvalidWorkflow, query.Category)
		}
		filter.Category = &c
	}
	if query.Status != "" {
		s := domain.Status(query.Status)
		if !s.Valid() {
			return nil, fmt.Errorf("%w: invalid status %q", domain.ErrInvalidWorkflow, query.Status)
		}
		filter.Status = &s
	}
	return u.repo.FindByUserID(ctx, userID, filter)
}

func (u *workflowUsecase) GetWorkflow(ctx context.Context, userID, workflowID string) (*domain.Workflow, error) {
	workflow, err := u.repo.FindByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	if workflow == nil || workflow.UserID != userID {
		return nil, domain.ErrWorkflowNotFound
	}
	return workflow, nil
}

func (u *workflowUsecase) WorkflowsOnDay(ctx context.Context, userID, date string) ([]*domain.Workflow, error) {
	day, err := time.ParseInLocation(time.DateOnly, date, u.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidWorkflow)
	}
	next := day.AddDate(0, 0, 1)

	candidates, err := u.repo.FindByUserID(ctx, userID, repository.Filter{StartFrom: &day, StartBefore: &next})
	if err != nil {
		return nil, err
	}
	workflows := make([]*domain.Workflow, 0, len(candidates))
	for _, w := range candidates {
		if w.OccursOn(day, u.loc) {
			workflows = append(workflows, w)
		}
	}
	return workflows, nil
}

func (u *workflowUsecase) CreateWorkflow(ctx context.Context, userID string, input WorkflowInput) (*domain.Workflow, error) {
	if input.Title == nil || strings.TrimSpace(*input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidWorkflow)
	}
	if input.StartDate == nil || *input.StartDate == "" {
		return nil, fmt.Errorf("%w: startDate is required", domain.ErrInvalidWorkflow)
	}

	workflow := &domain.Workflow{
		UserID:    userID,
		Category:  domain.CategoryCustom,
		StartTime: domain.DefaultStartTime,
		Status:    domain.StatusScheduled,
		Color:     domain.DefaultColor,
	}
	if err := u.apply(workflow, input); err != nil {
		return nil, err
	}

	workflow.Recalculate(u.now(), input.Status != nil)
	if err := u.repo.Create(ctx, workflow); err != nil {
		return nil, err
	}
	return workflow, nil
}

func (u *workflowUsecase) UpdateWorkflow(ctx context.Context, userID, workflowID string, input WorkflowInput) (*domain.Workflow, error) {
	workflow, err := u.GetWorkflow(ctx, userID, workflowID)
	if err != nil {
		return nil, err
	}
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidWorkflow)
	}
	if err := u.apply(workflow, input); err != nil {
		return nil, err
	}
	return u.save(ctx, workflow, input.Status != nil)
}

func (u *workflowUsecase) ToggleStep(ctx context.Context, userID, workflowID, stepID string) (*domain.Workflow, error) {
	workflow, err := u.GetWorkflow(ctx, userID, workflowID)
	if err != nil {
		return nil, err
	}
	if err := workflow.ToggleStep(stepID, u.now()); err != nil {
		return nil, err
	}
	return u.save(ctx, workflow, false)
}

func (u *workflowUsecase) UpdateStatus(ctx context.Context, userID, workflowID, status string) (*domain.Workflow, error) {
	s := domain.Status(status)
	if !s.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", domain.ErrInvalidWorkflow, status)
	}
	workflow, err := u.GetWorkflow(ctx, userID, workflowID)
	if err != nil {
		return nil, err
	}
	workflow.Status = s
	return u.save(ctx, workflow, true)
}

func (u *workflowUsecase) DeleteWorkflow(ctx context.Context, userID, workflowID string) error {
	workflow, err := u.GetWorkflow(ctx, userID, workflowID)
	if err != nil {
		return err
	}
	return u.repo.Delete(ctx, workflow.ID)
}

func (u *workflowUsecase) GetStats(ctx context.Context, userID string) (*domain.Stats, error) {
	workflows, err := u.repo.FindByUserID(ctx, userID, repository.Filter{})
	if err != nil {
		return nil, err
	}
	stats := domain.Summarize(workflows)
	return &stats, nil
}

func (u *workflowUsecase) DuplicateWorkflow(ctx context.Context, userID, workflowID string) (*domain.Workflow, error) {
	original, err := u.GetWorkflow(ctx, userID, workflowID)
	if err != nil {
		return nil, err
	}
	dup := original.Duplicate(u.now())
	if err := u.repo.Create(ctx, dup); err != nil {
		return nil, err
	}
	return dup, nil
}

func (u *workflowUsecase) save(ctx context.Context, workflow *domain.Workflow, explicitStatus bool) (*domain.Workflow, error) {
	workflow.Recalculate(u.now(), explicitStatus)
	if err := u.repo.Update(ctx, workflow); err != nil {
		return nil, err
	}
	return workflow, nil
}

// apply copies the non-nil fields of input onto workflow.
func (u *workflowUsecase) apply(workflow *domain.Workflow, input WorkflowInput) error {
	if input.Title != nil {
		workflow.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		workflow.Description = *input.Description
	}
	if input.Category != nil {
		c := domain.Category(*input.Category)
		if !c.Valid() {
			return fmt.Errorf("%w: invalid category %q", domain.ErrInvalidWorkflow, *input.Category)
		}
		workflow.Category = c
	}
	if input.StartDate != nil {
		start, err := u.parseDate(*input.StartDate, "startDate")
		if err != nil {
			return err
		}
		workflow.StartDate = start
	}
	if input.EndDate != nil {
		if *input.EndDate == "" {
			workflow.EndDate = nil
		} else {
			end, err := u.parseDate(*input.EndDate, "endDate")
			if err != nil {
				return err
			}
			workflow.EndDate = &end
		}
	}
	if workflow.EndDate != nil && workflow.EndDate.Before(workflow.StartDate) {
		return fmt.Errorf("%w: endDate is before startDate", domain.ErrInvalidWorkflow)
	}
	if input.StartTime != nil {
		if !domain.ValidClock(*input.StartTime) {
			return fmt.Errorf("%w: startTime must be HH:MM", domain.ErrInvalidWorkflow)
		}
		workflow.StartTime = *input.StartTime
	}
	if input.IsRecurring != nil {
		workflow.IsRecurring = *input.IsRecurring
	}
	if input.RecurringDays != nil {
		days := make(domain.RecurringDays, 0, len(*input.RecurringDays))
		for _, d := range *input.RecurringDays {
			days = append(days, strings.ToLower(d))
		}
		if err := days.Validate(); err != nil {
			return err
		}
		workflow.RecurringDays = days
	}
	if input.Steps != nil {
		steps, err := mergeSteps(workflow.Steps, *input.Steps)
		if err != nil {
			return err
		}
		workflow.Steps = steps
	}
	if input.Status != nil {
		s := domain.Status(*input.Status)
		if !s.Valid() {
			return fmt.Errorf("%w: invalid status %q", domain.ErrInvalidWorkflow, *input.Status)
		}
		workflow.Status = s
	}
	if input.Color != nil && *input.Color != "" {
		workflow.Color = *input.Color
	}
	return nil
}

// mergeSteps replaces the step list. Steps keep their id and, while still
// completed, their original completion time.
func mergeSteps(existing domain.Steps, inputs []StepInput) (domain.Steps, error) {
	byID := make(map[string]domain.Step, len(existing))
	for _, s := range existing {
		byID[s.ID] = s
	}

	steps := make(domain.Steps, 0, len(inputs))
	for i, in := range inputs {
		title := strings.TrimSpace(in.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: step title is required", domain.ErrInvalidWorkflow)
		}
		step := domain.Step{
			ID:          in.ID,
			Title:       title,
			Description: in.Description,
			Duration:    domain.DefaultStepDuration,
			IsCompleted: in.IsCompleted,
			CompletedAt: in.CompletedAt,
			Order:       i,
		}
		if in.Duration != nil {
			step.Duration = *in.Duration
		}
		if in.Order != nil {
			step.Order = *in.Order
		}
		if prev, ok := byID[in.ID]; ok && in.ID != "" && step.IsCompleted && step.CompletedAt == nil {
			step.CompletedAt = prev.CompletedAt
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// parseDate accepts RFC 3339 timestamps or YYYY-MM-DD dates in the
// configured location.
func (u *workflowUsecase) parseDate(value, field string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, value, u.loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: invalid %s %q", domain.ErrInvalidWorkflow, field, value)
}
