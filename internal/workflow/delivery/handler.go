package delivery

import (
	"errors"
	"net/http"

	"planner-backend/internal/workflow/domain"
	"planner-backend/internal/workflow/usecase"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// WorkflowHandler handles workflow HTTP requests
type WorkflowHandler struct {
	workflowUsecase usecase.WorkflowUsecase
}

func NewWorkflowHandler(workflowUsecase usecase.WorkflowUsecase) *WorkflowHandler {
	RegisterValidators()
	return &WorkflowHandler{workflowUsecase: workflowUsecase}
}

// UpdateStatusRequest is the body of PATCH /api/workflows/:id/status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=scheduled in-progress completed cancelled"`
}

// GetWorkflows GET /api/workflows?startDate=&endDate=&category=&status=
func (h *WorkflowHandler) GetWorkflows(c *gin.Context) {
	var query usecase.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	workflows, err := h.workflowUsecase.ListWorkflows(c.Request.Context(), c.GetString("userID"), query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workflows)
}

// GetWorkflowsOnDay GET /api/workflows/day/:date
func (h *WorkflowHandler) GetWorkflowsOnDay(c *gin.Context) {
	workflows, err := h.workflowUsecase.WorkflowsOnDay(c.Request.Context(), c.GetString("userID"), c.Param("date"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workflows)
}

// GetWorkflow GET /api/workflows/:id
func (h *WorkflowHandler) GetWorkflow(c *gin.Context) {
	workflow, err := h.workflowUsecase.GetWorkflow(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workflow)
}

// CreateWorkflow POST /api/workflows
func (h *WorkflowHandler) CreateWorkflow(c *gin.Context) {
	var input usecase.WorkflowInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	workflow, err := h.workflowUsecase.CreateWorkflow(c.Request.Context(), c.GetString("userID"), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, workflow)
}

// UpdateWorkflow PUT /api/workflows/:id
func (h *WorkflowHandler) UpdateWorkflow(c *gin.Context) {
	var input usecase.WorkflowInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	workflow, err := h.workflowUsecase.UpdateWorkflow(c.Request.Context(), c.GetString("userID"), c.Param("id"), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workflow)
}

// ToggleStep PATCH /api/workflows/:id/steps/:stepId/toggle
func (h *WorkflowHandler) ToggleStep(c *gin.Context) {
	workflow, err := h.workflowUsecase.ToggleStep(c.Request.Context(), c.GetString("userID"), c.Param("id"), c.Param("stepId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workflow)
}

// UpdateStatus PATCH /api/workflows/:id/status
func (h *WorkflowHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	workflow, err := h.workflowUsecase.UpdateStatus(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workflow)
}

// DeleteWorkflow DELETE /api/workflows/:id
func (h *WorkflowHandler) DeleteWorkflow(c *gin.Context) {
	if err := h.workflowUsecase.DeleteWorkflow(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Workflow deleted"})
}

// GetStats GET /api/workflows/stats/summary
func (h *WorkflowHandler) GetStats(c *gin.Context) {
	stats, err := h.workflowUsecase.GetStats(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// DuplicateWorkflow POST /api/workflows/:id/duplicate
func (h *WorkflowHandler) DuplicateWorkflow(c *gin.Context) {
	workflow, err := h.workflowUsecase.DuplicateWorkflow(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, workflow)
}

func (h *WorkflowHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrWorkflowNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Workflow not found"})
	case errors.Is(err, domain.ErrStepNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Step not found"})
	case errors.Is(err, domain.ErrInvalidWorkflow):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("component", "workflow").Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}
