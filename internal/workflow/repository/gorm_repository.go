package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"planner-backend/internal/workflow/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormWorkflowRepository struct {
	db *gorm.DB
}

func NewGormWorkflowRepository(db *gorm.DB) WorkflowRepository {
	return &gormWorkflowRepository{db: db}
}

func (r *gormWorkflowRepository) Create(ctx context.Context, workflow *domain.Workflow) error {
	if workflow.ID == "" {
		workflow.ID = uuid.New().String()
	}
	now := time.Now()
	workflow.CreatedAt = now
	workflow.UpdatedAt = now
	workflow.StartDate = workflow.StartDate.UTC()
	if err := r.db.WithContext(ctx).Create(workflow).Error; err != nil {
		return fmt.Errorf("create workflow: %w", err)
	}
	return nil
}

func (r *gormWorkflowRepository) FindByID(ctx context.Context, id string) (*domain.Workflow, error) {
	var workflow domain.Workflow
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&workflow).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &workflow, nil
}

func (r *gormWorkflowRepository) FindByUserID(ctx context.Context, userID string, filter Filter) ([]*domain.Workflow, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if filter.StartFrom != nil {
		query = query.Where("start_date >= ?", filter.StartFrom.UTC())
	}
	if filter.StartTo != nil {
		query = query.Where("start_date <= ?", filter.StartTo.UTC())
	}
	if filter.StartBefore != nil {
		query = query.Where("start_date < ?", filter.StartBefore.UTC())
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var workflows []*domain.Workflow
	if err := query.Order("start_date ASC, start_time ASC").Find(&workflows).Error; err != nil {
		return nil, fmt.Errorf("find workflows: %w", err)
	}
	return workflows, nil
}

func (r *gormWorkflowRepository) Update(ctx context.Context, workflow *domain.Workflow) error {
	workflow.UpdatedAt = time.Now()
	workflow.StartDate = workflow.StartDate.UTC()
	if err := r.db.WithContext(ctx).Save(workflow).Error; err != nil {
		return fmt.Errorf("update workflow: %w", err)
	}
	return nil
}

func (r *gormWorkflowRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Workflow{}, "id = ?", id).Error
}
