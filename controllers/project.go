package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"project-submission-api/models"
	"project-submission-api/utils"
)

type projectStudentPayload struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type createProjectRequest struct {
	Title                   string                  `json:"title" binding:"required"`
	Description             string                  `json:"description" binding:"required"`
	SustainabilityStatement string                  `json:"sustainability_statement" binding:"required"`
	SupervisorID            int                     `json:"supervisor_id" binding:"required"`
	CoSupervisorID          *int                    `json:"co_supervisor_id"`
	Students                []projectStudentPayload `json:"students" binding:"required,min=1,max=4,dive"`
}

type updateProjectRequest struct {
	Title                   *string                 `json:"title"`
	Description             *string                 `json:"description"`
	SustainabilityStatement *string                 `json:"sustainability_statement"`
	Students                []projectStudentPayload `json:"students" binding:"omitempty,min=1,max=4,dive"`
}

// CreateProject registers a new proposal. The project starts at pending and
// the supervisor (and co-supervisor, when distinct) get an assignment
// notification.
func CreateProject(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var supervisor models.User
	if err := db.Where("user_id = ? AND role_id = ? AND delete_at IS NULL", req.SupervisorID, models.RoleTeacher).
		First(&supervisor).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Supervisor must be an existing teacher"})
		return
	}
	if req.CoSupervisorID != nil {
		var co models.User
		if err := db.Where("user_id = ? AND role_id = ? AND delete_at IS NULL", *req.CoSupervisorID, models.RoleTeacher).
			First(&co).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Co-supervisor must be an existing teacher"})
			return
		}
	}

	now := time.Now()
	project := models.Project{
		Title:                   utils.SanitizeInput(req.Title),
		Description:             utils.SanitizeInput(req.Description),
		SustainabilityStatement: utils.SanitizeInput(req.SustainabilityStatement),
		OwnerID:                 uid,
		SupervisorID:            req.SupervisorID,
		CoSupervisorID:          req.CoSupervisorID,
		Status:                  models.StatusPending,
		CreatedAt:               now,
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&project).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	for i, s := range req.Students {
		student := models.ProjectStudent{
			ProjectID:    project.ProjectID,
			Name:         utils.SanitizeInput(s.Name),
			Email:        strings.TrimSpace(s.Email),
			DisplayOrder: i + 1,
		}
		if err := tx.Create(&student).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save project students"})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction failed"})
		return
	}

	dispatcher.NotifyNewAssignment(&project, project.SupervisorID, project.CoSupervisorID)

	var out models.Project
	_ = db.Preload("Students").Where("project_id = ?", project.ProjectID).First(&out).Error

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"project": out,
	})
}

// GetProjects lists projects scoped by role: students see their own,
// teachers the ones they supervise, admins everything. Supports an optional
// status filter.
func GetProjects(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	roleID, _ := getCurrentRoleID(c)

	q := db.Model(&models.Project{}).Preload("Students")

	switch roleID {
	case models.RoleAdmin:
	case models.RoleTeacher:
		q = q.Where("supervisor_id = ? OR co_supervisor_id = ?", uid, uid)
	default:
		q = q.Where("owner_id = ?", uid)
	}

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		if !models.IsValidStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		q = q.Where("status = ?", status)
	}

	var projects []models.Project
	if err := q.Order("created_at DESC").Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects, "total": len(projects)})
}

// GetProject returns one project. Owners, supervisors and admins only.
func GetProject(c *gin.Context) {
	db := getDB()

	project, ok := loadProjectOrAbort(c)
	if !ok {
		return
	}

	var full models.Project
	if err := db.Preload("Students").Preload("Supervisor").
		Where("project_id = ?", project.ProjectID).
		First(&full).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": full})
}

// UpdateProject applies owner-initiated field edits. Status is never touched
// here; it changes only through the review workflow.
func UpdateProject(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	project, ok := loadProjectOrAbort(c)
	if !ok {
		return
	}
	if project.OwnerID != uid {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the project owner can edit it"})
		return
	}

	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{"updated_at": now}
	if req.Title != nil {
		updates["title"] = utils.SanitizeInput(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = utils.SanitizeInput(*req.Description)
	}
	if req.SustainabilityStatement != nil {
		updates["sustainability_statement"] = utils.SanitizeInput(*req.SustainabilityStatement)
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Model(&models.Project{}).
		Where("project_id = ?", project.ProjectID).
		Updates(updates).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	if req.Students != nil {
		if err := tx.Where("project_id = ?", project.ProjectID).
			Delete(&models.ProjectStudent{}).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project students"})
			return
		}
		for i, s := range req.Students {
			student := models.ProjectStudent{
				ProjectID:    project.ProjectID,
				Name:         utils.SanitizeInput(s.Name),
				Email:        strings.TrimSpace(s.Email),
				DisplayOrder: i + 1,
			}
			if err := tx.Create(&student).Error; err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project students"})
				return
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction failed"})
		return
	}

	var out models.Project
	_ = db.Preload("Students").Where("project_id = ?", project.ProjectID).First(&out).Error

	c.JSON(http.StatusOK, gin.H{"success": true, "project": out})
}

// DeleteProject removes a project (owner or admin). The stored image is
// deleted best-effort before the record.
func DeleteProject(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	roleID, _ := getCurrentRoleID(c)

	project, ok := loadProjectOrAbort(c)
	if !ok {
		return
	}
	if project.OwnerID != uid && roleID != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner or an admin can delete a project"})
		return
	}

	if err := bulkSvc.DeleteProject(project.ProjectID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Project deleted successfully"})
}

// loadProjectByID parses :id and loads the project without any access check.
func loadProjectByID(c *gin.Context) (*models.Project, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return nil, false
	}

	project, err := projectStore.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return nil, false
	}
	return project, true
}

// loadProjectOrAbort loads the project and enforces view access
// (owner, supervisor, co-supervisor or admin).
func loadProjectOrAbort(c *gin.Context) (*models.Project, bool) {
	uid, _ := getCurrentUserID(c)
	roleID, _ := getCurrentRoleID(c)

	project, ok := loadProjectByID(c)
	if !ok {
		return nil, false
	}

	isSupervisor := project.SupervisorID == uid ||
		(project.CoSupervisorID != nil && *project.CoSupervisorID == uid)
	if project.OwnerID != uid && !isSupervisor && roleID != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return nil, false
	}

	return project, true
}
