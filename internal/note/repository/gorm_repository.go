package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"planner-backend/internal/note/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormNoteRepository struct {
	db *gorm.DB
}

func NewGormNoteRepository(db *gorm.DB) NoteRepository {
	return &gormNoteRepository{db: db}
}

func (r *gormNoteRepository) Create(ctx context.Context, note *domain.Note) error {
	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	if note.Images == nil {
		note.Images = domain.Attachments{}
	}
	now := time.Now()
	note.CreatedAt = now
	note.UpdatedAt = now
	if err := r.db.WithContext(ctx).Create(note).Error; err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

func (r *gormNoteRepository) FindByID(ctx context.Context, id string) (*domain.Note, error) {
	var note domain.Note
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&note).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &note, nil
}

func (r *gormNoteRepository) FindByUserID(ctx context.Context, userID string) ([]*domain.Note, error) {
	var notes []*domain.Note
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_pinned DESC, updated_at DESC").
		Find(&notes).Error
	return notes, err
}

func (r *gormNoteRepository) FindPinnedByUserID(ctx context.Context, userID string, limit int) ([]*domain.Note, error) {
	var notes []*domain.Note
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_pinned = ?", userID, true).
		Order("updated_at DESC").
		Limit(limit).
		Find(&notes).Error
	return notes, err
}

func (r *gormNoteRepository) Update(ctx context.Context, note *domain.Note) error {
	note.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).Save(note).Error; err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return nil
}

func (r *gormNoteRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Note{}, "id = ?", id).Error
}

func (r *gormNoteRepository) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Note{})
	return res.RowsAffected, res.Error
}
