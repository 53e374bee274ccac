package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stackstep/internal/service"
)

type ProjectHandler struct {
	generator *service.Generator
	projects  *service.ProjectService
	logger    *zap.Logger
}

func NewProjectHandler(generator *service.Generator, projects *service.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{generator: generator, projects: projects, logger: logger}
}

func callerID(c *gin.Context) (int, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return 0, false
	}
	id, ok := v.(int)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid user_id"})
		return 0, false
	}
	return id, true
}

func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return v, true
}

// Generate handles POST /projects: runs the full generation pipeline
// and returns the persisted project.
func (h *ProjectHandler) Generate(c *gin.Context) {
	var req struct {
		TechStack       string `json:"techStack" binding:"required"`
		ExperienceLevel string `json:"experienceLevel"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "techStack is required"})
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	h.logger.Info("Generate request received",
		zap.Int("user_id", userID),
		zap.String("tech_stack", req.TechStack),
		zap.String("experience_level", req.ExperienceLevel),
	)

	project, err := h.generator.GeneratePlan(c.Request.Context(), req.TechStack, req.ExperienceLevel, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Project created successfully",
		"project": project,
	})
}

// List handles GET /projects with limit/page pagination.
func (h *ProjectHandler) List(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	projects, err := h.projects.ListProjects(c.Request.Context(), userID, limit, page)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// Get handles GET /projects/:id.
func (h *ProjectHandler) Get(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	projectID, ok := intParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projects.GetProject(c.Request.Context(), projectID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// Delete handles DELETE /projects/:id.
func (h *ProjectHandler) Delete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	projectID, ok := intParam(c, "id")
	if !ok {
		return
	}

	if err := h.projects.DeleteProject(c.Request.Context(), projectID, userID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// UpdateTaskStatus handles PATCH /projects/:id/tasks/:taskId/status.
func (h *ProjectHandler) UpdateTaskStatus(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	projectID, ok := intParam(c, "id")
	if !ok {
		return
	}
	taskID, ok := intParam(c, "taskId")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	task, err := h.projects.UpdateTaskStatus(c.Request.Context(), projectID, taskID, req.Status, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// respondError maps service errors onto the caller-facing contract.
func (h *ProjectHandler) respondError(c *gin.Context, err error) {
	if code, ok := service.ErrorCode(err); ok {
		status := http.StatusInternalServerError
		message := "server error"
		switch code {
		case service.CodeLLMGenerationFailed:
			status, message = http.StatusBadGateway, "generation failed, try again"
		case service.CodeProjectSaveFailed:
			status, message = http.StatusInternalServerError, "project save failed"
		case service.CodeInvalidStatus:
			status, message = http.StatusBadRequest, "invalid task status"
		case service.CodeAccessDenied:
			status, message = http.StatusForbidden, "access denied"
		case service.CodeTaskNotFound:
			status, message = http.StatusNotFound, "task not found"
		}
		c.JSON(status, gin.H{"code": code, "message": message})
		return
	}

	if errors.Is(err, service.ErrProjectNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}

	h.logger.Error("Request failed", zap.Error(err), zap.String("path", c.FullPath()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
}
