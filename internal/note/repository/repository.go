package repository

import (
	"context"

	"planner-backend/internal/note/domain"
)

// NoteRepository defines data access for notes
type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) error

	// FindByID returns nil, nil when the note does not exist
	FindByID(ctx context.Context, id string) (*domain.Note, error)

	// FindByUserID returns pinned notes first, then most recently updated
	FindByUserID(ctx context.Context, userID string) ([]*domain.Note, error)

	// FindPinnedByUserID returns at most limit pinned notes, most recently updated first
	FindPinnedByUserID(ctx context.Context, userID string, limit int) ([]*domain.Note, error)

	Update(ctx context.Context, note *domain.Note) error
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) (int64, error)
}
