package api

import (
	"net/http"

	"planner-backend/internal/auth/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	requireAuth := delivery.AuthMiddleware(h.authUsecase)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		auth := api.Group("/auth")
		{
			auth.POST("/register", h.authHandler.Register)
			auth.POST("/login", h.authHandler.Login)
			auth.GET("/me", requireAuth, h.authHandler.Me)
			auth.PATCH("/settings/notifications", requireAuth, h.authHandler.UpdateNotificationSettings)
			auth.POST("/test-reminder", requireAuth, h.reminderHandler.TestTaskReminders)
			auth.POST("/test-digest", requireAuth, h.reminderHandler.TestNotesDigest)
		}

		fcm := api.Group("/fcm")
		fcm.Use(requireAuth)
		{
			fcm.POST("/register", h.authHandler.RegisterFCMToken)
			fcm.DELETE("/:token", h.authHandler.UnregisterFCMToken)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", h.taskHandler.GetTasks)
			tasks.POST("", h.taskHandler.CreateTask)
			tasks.DELETE("", h.taskHandler.DeleteAllTasks)
			tasks.GET("/:id", h.taskHandler.GetTaskByID)
			tasks.PUT("/:id", h.taskHandler.UpdateTask)
			tasks.DELETE("/:id", h.taskHandler.DeleteTask)
			tasks.PATCH("/:id/status", h.taskHandler.UpdateTaskStatus)
		}

		notes := api.Group("/notes")
		notes.Use(requireAuth)
		{
			notes.GET("", h.noteHandler.GetNotes)
			notes.POST("", h.noteHandler.CreateNote)
			notes.DELETE("", h.noteHandler.DeleteAllNotes)
			notes.GET("/:id", h.noteHandler.GetNote)
			notes.PUT("/:id", h.noteHandler.UpdateNote)
			notes.DELETE("/:id", h.noteHandler.DeleteNote)
			notes.PATCH("/:id/pin", h.noteHandler.TogglePin)
		}

		workflows := api.Group("/workflows")
		workflows.Use(requireAuth)
		{
			workflows.GET("", h.workflowHandler.GetWorkflows)
			workflows.POST("", h.workflowHandler.CreateWorkflow)
			workflows.GET("/stats/summary", h.workflowHandler.GetStats)
			workflows.GET("/day/:date", h.workflowHandler.GetWorkflowsOnDay)
			workflows.GET("/:id", h.workflowHandler.GetWorkflow)
			workflows.PUT("/:id", h.workflowHandler.UpdateWorkflow)
			workflows.DELETE("/:id", h.workflowHandler.DeleteWorkflow)
			workflows.PATCH("/:id/status", h.workflowHandler.UpdateStatus)
			workflows.PATCH("/:id/steps/:stepId/toggle", h.workflowHandler.ToggleStep)
			workflows.POST("/:id/duplicate", h.workflowHandler.DuplicateWorkflow)
		}

		settings := api.Group("/settings")
		settings.Use(requireAuth)
		{
			settings.GET("/reminders", h.reminderHandler.GetReminderSettings)
		}
	}
}
