package routes

import (
	"project-submission-api/controllers"
	"project-submission-api/middleware"
	"project-submission-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, userCache *middleware.UserCache) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)

			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Project Submission API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(userCache))
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Supervisor candidates (all authenticated users)
			protected.GET("/teachers", controllers.ListTeachers)

			// Projects
			projects := protected.Group("/projects")
			{
				projects.GET("", controllers.GetProjects)
				projects.POST("", controllers.CreateProject)

				// Bulk operations come before :id routes so "bulk" is not
				// parsed as a project id.
				projects.PUT("/bulk", middleware.RequireRole(models.RoleAdmin), controllers.BulkProjects)

				projects.GET("/:id", controllers.GetProject)
				projects.PUT("/:id", controllers.UpdateProject)
				projects.DELETE("/:id", controllers.DeleteProject)
				projects.POST("/:id/image", controllers.UploadProjectImage)

				// Review workflow
				projects.PUT("/:id/status",
					middleware.RequireRole(models.RoleTeacher, models.RoleAdmin),
					controllers.UpdateProjectStatus)
				projects.GET("/:id/status-history", controllers.GetStatusHistory)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.PUT("/mark-all-read", controllers.MarkAllNotificationsRead)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.DELETE("/:id", controllers.DeleteNotification)
			}

			// Admin
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/users", controllers.ListUsers)
				admin.POST("/users", controllers.CreateUser)
				admin.PUT("/users/:id", controllers.UpdateUser)
				admin.DELETE("/users/:id", controllers.DeleteUser)

				admin.GET("/dashboard/stats", controllers.GetDashboardStats)
			}
		}
	}
}
