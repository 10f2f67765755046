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

type createUserRequest struct {
	UserFname string `json:"user_fname" binding:"required"`
	UserLname string `json:"user_lname" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	RoleID    int    `json:"role_id" binding:"required,oneof=1 2 3"`
}

type updateUserRequest struct {
	UserFname *string `json:"user_fname"`
	UserLname *string `json:"user_lname"`
	Email     *string `json:"email" binding:"omitempty,email"`
	RoleID    *int    `json:"role_id" binding:"omitempty,oneof=1 2 3"`
}

// ListUsers returns all non-deleted users. Admin only.
func ListUsers(c *gin.Context) {
	db := getDB()

	q := db.Model(&models.User{}).Preload("Role").Where("delete_at IS NULL")
	if roleStr := strings.TrimSpace(c.Query("role_id")); roleStr != "" {
		roleID, err := strconv.Atoi(roleStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role_id"})
			return
		}
		q = q.Where("role_id = ?", roleID)
	}

	var users []models.User
	if err := q.Order("user_id ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "total": len(users)})
}

// ListTeachers returns supervisor candidates. Any authenticated user may call
// it (students pick supervisors at submission time).
func ListTeachers(c *gin.Context) {
	db := getDB()

	var teachers []models.User
	if err := db.Where("role_id = ? AND delete_at IS NULL", models.RoleTeacher).
		Order("user_lname ASC, user_fname ASC").
		Find(&teachers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"teachers": teachers, "total": len(teachers)})
}

// CreateUser registers a new account. Admin only.
func CreateUser(c *gin.Context) {
	db := getDB()

	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.User
	if err := db.Where("email = ? AND delete_at IS NULL", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already in use"})
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	now := time.Now()
	user := models.User{
		UserFname: utils.SanitizeInput(req.UserFname),
		UserLname: utils.SanitizeInput(req.UserLname),
		Email:     strings.TrimSpace(req.Email),
		Password:  hashed,
		RoleID:    req.RoleID,
		CreateAt:  &now,
	}

	if err := db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
}

// UpdateUser edits an account. Admin only. Cached auth lookups are
// invalidated so role changes take effect immediately.
func UpdateUser(c *gin.Context) {
	db := getDB()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := db.Where("user_id = ? AND delete_at IS NULL", id).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{"update_at": now}
	if req.UserFname != nil {
		updates["user_fname"] = utils.SanitizeInput(*req.UserFname)
	}
	if req.UserLname != nil {
		updates["user_lname"] = utils.SanitizeInput(*req.UserLname)
	}
	if req.Email != nil {
		updates["email"] = strings.TrimSpace(*req.Email)
	}
	if req.RoleID != nil {
		updates["role_id"] = *req.RoleID
	}

	if err := db.Model(&models.User{}).Where("user_id = ?", id).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	userCache.Invalidate(id)

	var out models.User
	_ = db.Preload("Role").Where("user_id = ?", id).First(&out).Error
	c.JSON(http.StatusOK, gin.H{"success": true, "user": out})
}

// DeleteUser soft-deletes an account. Admin only.
func DeleteUser(c *gin.Context) {
	db := getDB()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	uid, _ := getCurrentUserID(c)
	if uid == id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete your own account"})
		return
	}

	now := time.Now()
	res := db.Model(&models.User{}).
		Where("user_id = ? AND delete_at IS NULL", id).
		Update("delete_at", now)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	userCache.Invalidate(id)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted successfully"})
}
