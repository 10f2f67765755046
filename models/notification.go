package models

import (
	"encoding/json"
	"time"
)

// Notification types and categories accepted by the notifications table.
const (
	NotifTypeInfo    = "info"
	NotifTypeSuccess = "success"
	NotifTypeWarning = "warning"
	NotifTypeError   = "error"

	NotifCategoryGeneral = "general"
	NotifCategoryProject = "project"
	NotifCategorySystem  = "system"
	NotifCategoryAdmin   = "admin"
)

type Notification struct {
	NotificationID   uint            `gorm:"primaryKey;column:notification_id" json:"notification_id"`
	UserID           int             `gorm:"column:user_id" json:"user_id"`
	Title            string          `gorm:"column:title" json:"title"`
	Message          string          `gorm:"column:message" json:"message"`
	Type             string          `gorm:"column:type" json:"type"` // info|success|warning|error
	Category         string          `gorm:"column:category" json:"category"`
	RelatedProjectID *uint           `gorm:"column:related_project_id" json:"related_project_id,omitempty"`
	Data             json.RawMessage `gorm:"column:data" json:"data,omitempty"`
	IsRead           bool            `gorm:"column:is_read" json:"is_read"`
	ReadAt           *time.Time      `gorm:"column:read_at" json:"read_at,omitempty"`
	CreateAt         time.Time       `gorm:"column:create_at" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
