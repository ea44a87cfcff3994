package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"planner-backend/internal/note/domain"
	"planner-backend/internal/note/repository"
	"planner-backend/internal/note/usecase"
	"planner-backend/pkg/database"
	"planner-backend/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

// memoryStore keeps filenames in memory and fails Delete for names in failDelete.
type memoryStore struct {
	mu         sync.Mutex
	seq        int
	files      map[string]bool
	failDelete map[string]bool
	deleted    []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{files: map[string]bool{}, failDelete: map[string]bool{}}
}

func (s *memoryStore) Save(fh *multipart.FileHeader) (*storage.StoredFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	name := fmt.Sprintf("%d-%s", s.seq, fh.Filename)
	s.files[name] = true
	return &storage.StoredFile{Filename: name, Path: "/uploads/notes/" + name, UploadedAt: time.Now()}, nil
}

func (s *memoryStore) Delete(filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, filename)
	if s.failDelete[filename] {
		return errors.New("disk on fire")
	}
	delete(s.files, filename)
	return nil
}

func images(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, name := range names {
		part, err := w.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write(pngBytes)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	return form.File["images"]
}

func setup(t *testing.T) (usecase.NoteUsecase, repository.NoteRepository, *memoryStore) {
	t.Helper()
	db, err := database.NewConnection("sqlite://" + filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, &domain.Note{}))
	t.Cleanup(func() { database.Close(db) })

	repo := repository.NewGormNoteRepository(db)
	store := newMemoryStore()
	return usecase.NewNoteUsecase(repo, store), repo, store
}

func TestCreateNote(t *testing.T) {
	t.Parallel()
	uc, _, store := setup(t)
	ctx := context.Background()

	note, err := uc.CreateNote(ctx, "u1", usecase.CreateNoteInput{
		Title:   "Trip",
		Content: "pack bags",
		Images:  images(t, "a.png", "b.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultColor, note.Color)
	assert.False(t, note.IsPinned)
	require.Len(t, note.Images, 2)
	assert.Len(t, store.files, 2)

	got, err := uc.GetNote(ctx, "u1", note.ID)
	require.NoError(t, err)
	require.Len(t, got.Images, 2)
	assert.Equal(t, note.Images[0].Filename, got.Images[0].Filename)

	_, err = uc.CreateNote(ctx, "u1", usecase.CreateNoteInput{Title: "", Content: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidNote)

	_, err = uc.CreateNote(ctx, "u1", usecase.CreateNoteInput{Title: "x", Content: "y", Images: images(t, "1.png", "2.png", "3.png", "4.png", "5.png", "6.png")})
	assert.ErrorIs(t, err, storage.ErrTooManyFiles)
	assert.Len(t, store.files, 2, "nothing written when validation fails")

	_, err = uc.GetNote(ctx, "u2", note.ID)
	assert.ErrorIs(t, err, domain.ErrNoteNotFound)
}

func TestUpdateNoteReplacesImages(t *testing.T) {
	t.Parallel()
	uc, _, store := setup(t)
	ctx := context.Background()

	note, err := uc.CreateNote(ctx, "u1", usecase.CreateNoteInput{Title: "t", Content: "c", Images: images(t, "a.png", "b.png")})
	require.NoError(t, err)
	drop := note.Images[0].Filename
	keep := note.Images[1].Filename

	pinned := true
	title := "renamed"
	updated, err := uc.UpdateNote(ctx, "u1", note.ID, usecase.UpdateNoteInput{
		Title:         &title,
		IsPinned:      &pinned,
		RemovedImages: []string{drop, "not-mine.png"},
		Images:        images(t, "c.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "c", updated.Content)
	assert.True(t, updated.IsPinned)
	require.Len(t, updated.Images, 2)
	assert.Equal(t, keep, updated.Images[0].Filename)
	assert.Equal(t, []string{drop}, store.deleted, "only attached files are removed")
}

func TestTogglePin(t *testing.T) {
	t.Parallel()
	uc, _, _ := setup(t)
	ctx := context.Background()

	note, err := uc.CreateNote(ctx, "u1", usecase.CreateNoteInput{Title: "t", Content: "c"})
	require.NoError(t, err)

	toggled, err := uc.TogglePin(ctx, "u1", note.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsPinned)

	toggled, err = uc.TogglePin(ctx, "u1", note.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsPinned)

	_, err = uc.TogglePin(ctx, "u2", note.ID)
	assert.ErrorIs(t, err, domain.ErrNoteNotFound)
}

func TestDeleteNoteSurvivesFileDeleteFailure(t *testing.T) {
	t.Parallel()
	uc, repo, store := setup(t)
	ctx := context.Background()

	note, err := uc.CreateNote(ctx, "u1", usecase.CreateNoteInput{Title: "t", Content: "c", Images: images(t, "a.png", "b.png")})
	require.NoError(t, err)
	store.failDelete[note.Images[0].Filename] = true

	require.NoError(t, uc.DeleteNote(ctx, "u1", note.ID))

	found, err := repo.FindByID(ctx, note.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
	assert.ElementsMatch(t, note.Images.Filenames(), store.deleted)
}

func TestListOrderAndDeleteAll(t *testing.T) {
	t.Parallel()
	uc, repo, store := setup(t)
	ctx := context.Background()

	first, err := uc.CreateNote(ctx, "u1", usecase.CreateNoteInput{Title: "first", Content: "c", Images: images(t, "a.png")})
	require.NoError(t, err)
	_, err = uc.CreateNote(ctx, "u1", usecase.CreateNoteInput{Title: "pinned", Content: "c", IsPinned: true})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = uc.CreateNote(ctx, "u1", usecase.CreateNoteInput{Title: "latest", Content: "c"})
	require.NoError(t, err)

	notes, err := uc.ListNotes(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, "pinned", notes[0].Title)
	assert.Equal(t, "latest", notes[1].Title)
	assert.Equal(t, "first", notes[2].Title)

	pinned, err := repo.FindPinnedByUserID(ctx, "u1", 5)
	require.NoError(t, err)
	require.Len(t, pinned, 1)

	deleted, err := uc.DeleteAllNotes(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.Equal(t, first.Images.Filenames(), store.deleted)
}
