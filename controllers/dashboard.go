package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"project-submission-api/models"
)

// GetDashboardStats returns aggregate project statistics for admins:
// totals per status, per-supervisor counts and the most recent transitions.
func GetDashboardStats(c *gin.Context) {
	db := getDB()

	var total int64
	if err := db.Model(&models.Project{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var byStatus []statusCount
	if err := db.Model(&models.Project{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Every status shows up even when it has no projects yet.
	counts := make(map[string]int64, 5)
	for _, s := range models.ValidStatuses() {
		counts[s] = 0
	}
	for _, row := range byStatus {
		counts[row.Status] = row.Count
	}

	type supervisorCount struct {
		SupervisorID int    `json:"supervisor_id"`
		Name         string `json:"name"`
		Count        int64  `json:"count"`
	}
	var bySupervisor []supervisorCount
	if err := db.Raw(`
		SELECT p.supervisor_id,
		       TRIM(CONCAT(u.user_fname, ' ', u.user_lname)) AS name,
		       COUNT(*) AS count
		FROM projects p
		JOIN users u ON u.user_id = p.supervisor_id
		GROUP BY p.supervisor_id, name
		ORDER BY count DESC
	`).Scan(&bySupervisor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var recent []models.ProjectStatusHistory
	if err := db.Order("created_at DESC, history_id DESC").
		Limit(10).
		Find(&recent).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_projects":     total,
		"by_status":          counts,
		"by_supervisor":      bySupervisor,
		"recent_transitions": recent,
	})
}
