package usecase

import (
	"context"
	"mime/multipart"

	"planner-backend/internal/note/domain"
)

// NoteUsecase manages notes and their image attachments
type NoteUsecase interface {
	ListNotes(ctx context.Context, userID string) ([]*domain.Note, error)
	GetNote(ctx context.Context, userID, noteID string) (*domain.Note, error)
	CreateNote(ctx context.Context, userID string, input CreateNoteInput) (*domain.Note, error)
	UpdateNote(ctx context.Context, userID, noteID string, input UpdateNoteInput) (*domain.Note, error)
	TogglePin(ctx context.Context, userID, noteID string) (*domain.Note, error)
	DeleteNote(ctx context.Context, userID, noteID string) error
	DeleteAllNotes(ctx context.Context, userID string) (int64, error)
}

type CreateNoteInput struct {
	Title    string
	Content  string
	Color    string
	IsPinned bool
	Images   []*multipart.FileHeader
}

// UpdateNoteInput carries optional field changes. RemovedImages lists stored
// filenames to detach; Images are appended after removal.
type UpdateNoteInput struct {
	Title         *string
	Content       *string
	Color         *string
	IsPinned      *bool
	RemovedImages []string
	Images        []*multipart.FileHeader
}
