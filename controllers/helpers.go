package controllers

import (
	"gorm.io/gorm"

	"github.com/gin-gonic/gin"

	"project-submission-api/config"
	"project-submission-api/middleware"
	"project-submission-api/models"
	"project-submission-api/services"
)

var (
	workflowSvc  *services.WorkflowService
	dispatcher   *services.Dispatcher
	bulkSvc      *services.BulkCoordinator
	projectStore services.ProjectStore
	imageStore   services.ImageStore
	userCache    *middleware.UserCache
	uploadRoot   string
)

// Setup wires the controllers to their services. Called once from main after
// the database connection is established.
func Setup(db *gorm.DB, cache *middleware.UserCache, uploadPath string) {
	projectStore = services.NewProjectStore(db)
	imageStore = services.NewImageStore(uploadPath)
	dispatcher = services.NewDispatcher(
		services.NewNotificationStore(db),
		services.NewMailQueue(db),
		services.NewUserDirectory(db),
	)
	workflowSvc = services.NewWorkflowService(projectStore, dispatcher)
	bulkSvc = services.NewBulkCoordinator(workflowSvc, projectStore, imageStore)
	userCache = cache
	uploadRoot = uploadPath
}

func getDB() *gorm.DB { return config.DB }

func getCurrentUserID(c *gin.Context) (int, bool) {
	if v, ok := c.Get("userID"); ok {
		switch t := v.(type) {
		case int:
			return t, true
		case int64:
			return int(t), true
		case float64:
			return int(t), true
		case uint:
			return int(t), true
		}
	}
	return 0, false
}

func getCurrentRoleID(c *gin.Context) (int, bool) {
	if v, ok := c.Get("roleID"); ok {
		switch t := v.(type) {
		case int:
			return t, true
		case int64:
			return int(t), true
		case float64:
			return int(t), true
		case uint:
			return int(t), true
		}
	}
	return 0, false
}

// currentActor builds the workflow actor from the values the auth middleware
// stored on the context.
func currentActor(c *gin.Context) (services.Actor, bool) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		return services.Actor{}, false
	}
	roleID, _ := getCurrentRoleID(c)

	name := ""
	if v, ok := c.Get("userName"); ok {
		if s, ok := v.(string); ok {
			name = s
		}
	}

	return services.Actor{
		UserID: uid,
		Name:   name,
		Role:   models.RoleName(roleID),
	}, true
}
