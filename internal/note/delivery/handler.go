package delivery

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"

	"planner-backend/internal/note/domain"
	"planner-backend/internal/note/usecase"
	"planner-backend/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const imagesField = "images"

// NoteHandler handles note HTTP requests. Create and update take
// multipart/form-data with up to five "images" parts.
type NoteHandler struct {
	noteUsecase usecase.NoteUsecase
}

func NewNoteHandler(noteUsecase usecase.NoteUsecase) *NoteHandler {
	return &NoteHandler{noteUsecase: noteUsecase}
}

// GetNotes GET /api/notes
func (h *NoteHandler) GetNotes(c *gin.Context) {
	notes, err := h.noteUsecase.ListNotes(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

// GetNote GET /api/notes/:id
func (h *NoteHandler) GetNote(c *gin.Context) {
	note, err := h.noteUsecase.GetNote(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// CreateNote POST /api/notes
func (h *NoteHandler) CreateNote(c *gin.Context) {
	files, err := uploadedImages(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := h.noteUsecase.CreateNote(c.Request.Context(), c.GetString("userID"), usecase.CreateNoteInput{
		Title:    c.PostForm("title"),
		Content:  c.PostForm("content"),
		Color:    c.PostForm("color"),
		IsPinned: c.PostForm("isPinned") == "true",
		Images:   files,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

// UpdateNote PUT /api/notes/:id
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	files, err := uploadedImages(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := usecase.UpdateNoteInput{Images: files}
	if v, ok := c.GetPostForm("title"); ok {
		input.Title = &v
	}
	if v, ok := c.GetPostForm("content"); ok {
		input.Content = &v
	}
	if v, ok := c.GetPostForm("color"); ok {
		input.Color = &v
	}
	if v, ok := c.GetPostForm("isPinned"); ok {
		pinned := v == "true"
		input.IsPinned = &pinned
	}
	if v, ok := c.GetPostForm("removedImages"); ok && v != "" {
		if err := json.Unmarshal([]byte(v), &input.RemovedImages); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "removedImages must be a JSON array of filenames"})
			return
		}
	}

	note, err := h.noteUsecase.UpdateNote(c.Request.Context(), c.GetString("userID"), c.Param("id"), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// TogglePin PATCH /api/notes/:id/pin
func (h *NoteHandler) TogglePin(c *gin.Context) {
	note, err := h.noteUsecase.TogglePin(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// DeleteNote DELETE /api/notes/:id
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	if err := h.noteUsecase.DeleteNote(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Note deleted"})
}

// DeleteAllNotes DELETE /api/notes
func (h *NoteHandler) DeleteAllNotes(c *gin.Context) {
	deleted, err := h.noteUsecase.DeleteAllNotes(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "All notes deleted",
		"deletedCount": deleted,
	})
}

// uploadedImages returns the "images" parts of a multipart request, or nil
// for other content types.
func uploadedImages(c *gin.Context) ([]*multipart.FileHeader, error) {
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	return form.File[imagesField], nil
}

func (h *NoteHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNoteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
	case errors.Is(err, domain.ErrInvalidNote),
		errors.Is(err, storage.ErrInvalidFileType),
		errors.Is(err, storage.ErrFileTooLarge),
		errors.Is(err, storage.ErrTooManyFiles):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("component", "note").Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}
