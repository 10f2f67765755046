package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"project-submission-api/models"
	"project-submission-api/services"
)

type updateStatusRequest struct {
	Status    string `json:"status" binding:"required,projectstatus"`
	Comment   string `json:"comment"`
	SendEmail bool   `json:"send_email"`
}

type bulkProjectsRequest struct {
	ProjectIDs []uint `json:"project_ids" binding:"required,min=1"`
	Action     string `json:"action" binding:"required,oneof=update_status delete"`
	Status     string `json:"status" binding:"omitempty,projectstatus"`
	Comment    string `json:"comment"`
}

// UpdateProjectStatus transitions one project.
// PUT /api/v1/projects/:id/status (admin|teacher)
func UpdateProjectStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := workflowSvc.TransitionStatus(uint(id), req.Status, req.Comment, actor, req.SendEmail)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrProjectNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project status"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

// canViewStatusHistory reports whether the caller may read a project's
// transition log. Any teacher or admin may review it, not only the
// supervising teacher; students see their own projects only.
func canViewStatusHistory(project *models.Project, userID, roleID int) bool {
	if roleID == models.RoleTeacher || roleID == models.RoleAdmin {
		return true
	}
	return project.OwnerID == userID
}

// GetStatusHistory returns a project's transitions, most recent first.
// GET /api/v1/projects/:id/status-history (admin|teacher|owner)
func GetStatusHistory(c *gin.Context) {
	project, ok := loadProjectByID(c)
	if !ok {
		return
	}

	uid, _ := getCurrentUserID(c)
	roleID, _ := getCurrentRoleID(c)
	if !canViewStatusHistory(project, uid, roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	history, err := workflowSvc.StatusHistory(project.ProjectID)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project_id": project.ProjectID,
		"status":     project.Status,
		"history":    history,
	})
}

// BulkProjects applies a status update or delete to a batch of projects with
// per-item isolation.
// PUT /api/v1/projects/bulk (admin)
func BulkProjects(c *gin.Context) {
	var req bulkProjectsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Action == services.BulkActionUpdateStatus && !models.IsValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required for update_status"})
		return
	}

	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := bulkSvc.BulkApply(req.ProjectIDs, req.Action, req.Status, req.Comment, actor)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"results": gin.H{
			"successful": result.Successful,
			"failed":     result.Failed,
		},
		"summary": gin.H{
			"total":     result.Total,
			"succeeded": result.Succeeded,
			"failed":    result.FailedN,
		},
	})
}
