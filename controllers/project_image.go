package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"project-submission-api/models"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

const maxImageSize = 5 << 20 // 5 MB

// UploadProjectImage stores or replaces the project image. Owner only.
// POST /api/v1/projects/:id/image
func UploadProjectImage(c *gin.Context) {
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
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the project owner can upload an image"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if file.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image exceeds the 5MB limit"})
		return
	}

	contentType := file.Header.Get("Content-Type")
	ext, valid := allowedImageTypes[strings.ToLower(strings.TrimSpace(contentType))]
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type"})
		return
	}

	relPath := filepath.Join("projects", time.Now().Format("2006/01"), uuid.NewString()+ext)
	fullPath := filepath.Join(uploadRoot, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), os.ModePerm); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare upload directory"})
		return
	}

	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
		return
	}

	oldPath := project.ImagePath

	now := time.Now()
	if err := db.Model(&models.Project{}).
		Where("project_id = ?", project.ProjectID).
		Updates(map[string]interface{}{"image_path": relPath, "updated_at": now}).Error; err != nil {
		os.Remove(fullPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image reference"})
		return
	}

	// Replacing an image drops the previous file; a missing one is fine.
	if oldPath != nil && *oldPath != relPath {
		_ = imageStore.Remove(*oldPath)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"image_path": relPath,
	})
}
