package usecase

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"planner-backend/internal/note/domain"
	"planner-backend/internal/note/repository"
	"planner-backend/pkg/storage"

	"github.com/rs/zerolog/log"
)

type noteUsecase struct {
	noteRepo repository.NoteRepository
	files    storage.FileStore
}

func NewNoteUsecase(noteRepo repository.NoteRepository, files storage.FileStore) NoteUsecase {
	return &noteUsecase{
		noteRepo: noteRepo,
		files:    files,
	}
}

func (u *noteUsecase) ListNotes(ctx context.Context, userID string) ([]*domain.Note, error) {
	return u.noteRepo.FindByUserID(ctx, userID)
}

func (u *noteUsecase) GetNote(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	note, err := u.noteRepo.FindByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note == nil || note.UserID != userID {
		return nil, domain.ErrNoteNotFound
	}
	return note, nil
}

func (u *noteUsecase) CreateNote(ctx context.Context, userID string, input CreateNoteInput) (*domain.Note, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidNote)
	}
	if input.Content == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrInvalidNote)
	}

	images, err := u.saveImages(input.Images)
	if err != nil {
		return nil, err
	}

	note := &domain.Note{
		UserID:   userID,
		Title:    title,
		Content:  input.Content,
		Images:   images,
		Color:    input.Color,
		IsPinned: input.IsPinned,
	}
	if note.Color == "" {
		note.Color = domain.DefaultColor
	}

	if err := u.noteRepo.Create(ctx, note); err != nil {
		u.removeFiles(images.Filenames())
		return nil, err
	}
	return note, nil
}

func (u *noteUsecase) UpdateNote(ctx context.Context, userID, noteID string, input UpdateNoteInput) (*domain.Note, error) {
	note, err := u.GetNote(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil && strings.TrimSpace(*input.Title) != "" {
		note.Title = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil && *input.Content != "" {
		note.Content = *input.Content
	}
	if input.Color != nil && *input.Color != "" {
		note.Color = *input.Color
	}
	if input.IsPinned != nil {
		note.IsPinned = *input.IsPinned
	}

	added, err := u.saveImages(input.Images)
	if err != nil {
		return nil, err
	}

	var removed []string
	if len(input.RemovedImages) > 0 {
		drop := make(map[string]bool, len(input.RemovedImages))
		for _, name := range input.RemovedImages {
			drop[name] = true
		}
		kept := make(domain.Attachments, 0, len(note.Images))
		for _, img := range note.Images {
			if drop[img.Filename] {
				removed = append(removed, img.Filename)
				continue
			}
			kept = append(kept, img)
		}
		note.Images = kept
	}
	note.Images = append(note.Images, added...)

	if err := u.noteRepo.Update(ctx, note); err != nil {
		u.removeFiles(added.Filenames())
		return nil, err
	}

	// metadata is authoritative; stale files are only cleaned up afterwards
	u.removeFiles(removed)
	return note, nil
}

func (u *noteUsecase) TogglePin(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	note, err := u.GetNote(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	note.IsPinned = !note.IsPinned
	if err := u.noteRepo.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (u *noteUsecase) DeleteNote(ctx context.Context, userID, noteID string) error {
	note, err := u.GetNote(ctx, userID, noteID)
	if err != nil {
		return err
	}
	if err := u.noteRepo.Delete(ctx, note.ID); err != nil {
		return err
	}
	u.removeFiles(note.Images.Filenames())
	return nil
}

func (u *noteUsecase) DeleteAllNotes(ctx context.Context, userID string) (int64, error) {
	notes, err := u.noteRepo.FindByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	deleted, err := u.noteRepo.DeleteByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	for _, note := range notes {
		u.removeFiles(note.Images.Filenames())
	}
	return deleted, nil
}

// saveImages validates the whole batch first, then writes each file. A failed
// write removes whatever was already written.
func (u *noteUsecase) saveImages(files []*multipart.FileHeader) (domain.Attachments, error) {
	if len(files) == 0 {
		return domain.Attachments{}, nil
	}
	if err := storage.ValidateImages(files); err != nil {
		return nil, err
	}

	saved := make(domain.Attachments, 0, len(files))
	for _, fh := range files {
		stored, err := u.files.Save(fh)
		if err != nil {
			u.removeFiles(saved.Filenames())
			return nil, err
		}
		saved = append(saved, domain.Attachment{
			Filename:   stored.Filename,
			Path:       stored.Path,
			UploadedAt: stored.UploadedAt,
		})
	}
	return saved, nil
}

func (u *noteUsecase) removeFiles(names []string) {
	for _, name := range names {
		if err := u.files.Delete(name); err != nil {
			log.Warn().Err(err).Str("component", "note").Str("file", name).Msg("delete attachment file")
		}
	}
}
