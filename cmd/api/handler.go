package api

import (
	"net/http"
	"path/filepath"
	"time"

	authDelivery "planner-backend/internal/auth/delivery"
	authUsecase "planner-backend/internal/auth/usecase"
	noteDelivery "planner-backend/internal/note/delivery"
	noteUsecase "planner-backend/internal/note/usecase"
	taskDelivery "planner-backend/internal/task/delivery"
	taskUsecase "planner-backend/internal/task/usecase"
	workflowDelivery "planner-backend/internal/workflow/delivery"
	workflowUsecase "planner-backend/internal/workflow/usecase"
	"planner-backend/pkg/config"
	"planner-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// UploadsPrefix is the URL path uploaded files are served under.
const UploadsPrefix = "/uploads"

type Handler struct {
	config          *config.Config
	authUsecase     authUsecase.AuthUsecase
	authHandler     *authDelivery.AuthHandler
	taskHandler     *taskDelivery.TaskHandler
	noteHandler     *noteDelivery.NoteHandler
	workflowHandler *workflowDelivery.WorkflowHandler
	reminderHandler *ReminderHandler
}

func NewHandler(
	cfg *config.Config,
	authUc authUsecase.AuthUsecase,
	taskUc taskUsecase.TaskUsecase,
	noteUc noteUsecase.NoteUsecase,
	workflowUc workflowUsecase.WorkflowUsecase,
	reminders Reminders,
) *Handler {
	return &Handler{
		config:          cfg,
		authUsecase:     authUc,
		authHandler:     authDelivery.NewAuthHandler(authUc),
		taskHandler:     taskDelivery.NewTaskHandler(taskUc),
		noteHandler:     noteDelivery.NewNoteHandler(noteUc),
		workflowHandler: workflowDelivery.NewWorkflowHandler(workflowUc),
		reminderHandler: NewReminderHandler(reminders, cfg),
	}
}

// Engine builds the gin engine with middleware, static uploads and routes.
func (h *Handler) Engine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), cors())
	r.MaxMultipartMemory = 32 << 20

	r.Static(UploadsPrefix, filepath.Clean(h.config.UploadDir))

	SetupRoutes(r, h)
	return r
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	httpLog := logger.Component("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := httpLog.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = httpLog.Error()
		case status >= http.StatusBadRequest:
			event = httpLog.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}
