package api

import (
	"context"
	"net/http"
	"time"

	"planner-backend/internal/reminder"
	"planner-backend/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Reminders is the part of the reminder scheduler exposed over HTTP.
type Reminders interface {
	TriggerTaskReminders(ctx context.Context) (reminder.Result, error)
	TriggerNotesDigest(ctx context.Context) (reminder.Result, error)
	Triggers() []reminder.TriggerInfo
	Location() *time.Location
}

// ReminderHandler exposes manual scan triggers and the reminder schedule.
type ReminderHandler struct {
	reminders Reminders
	config    *config.Config
}

// NewReminderHandler creates the handler. reminders may be nil, in which
// case every endpoint answers 503.
func NewReminderHandler(reminders Reminders, cfg *config.Config) *ReminderHandler {
	return &ReminderHandler{reminders: reminders, config: cfg}
}

// TestTaskReminders POST /api/auth/test-reminder
func (h *ReminderHandler) TestTaskReminders(c *gin.Context) {
	h.trigger(c, "Task reminders triggered successfully", func(r Reminders, ctx context.Context) (reminder.Result, error) {
		return r.TriggerTaskReminders(ctx)
	})
}

// TestNotesDigest POST /api/auth/test-digest
func (h *ReminderHandler) TestNotesDigest(c *gin.Context) {
	h.trigger(c, "Notes digest triggered successfully", func(r Reminders, ctx context.Context) (reminder.Result, error) {
		return r.TriggerNotesDigest(ctx)
	})
}

func (h *ReminderHandler) trigger(c *gin.Context, message string, run func(Reminders, context.Context) (reminder.Result, error)) {
	if h.reminders == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reminders are not configured"})
		return
	}

	result, err := run(h.reminders, c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("component", "reminder").Str("user_id", c.GetString("userID")).Msg("manual trigger failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"result":  result,
	})
}

// GetReminderSettings GET /api/settings/reminders
func (h *ReminderHandler) GetReminderSettings(c *gin.Context) {
	if h.reminders == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reminders are not configured"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"timezone":         h.reminders.Location().String(),
		"taskReminderTime": h.config.TaskReminderTime,
		"notesDigestTime":  h.config.NotesDigestTime,
		"triggers":         h.reminders.Triggers(),
	})
}
