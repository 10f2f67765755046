package models

import "time"

// Project statuses. The review workflow accepts any of these as a target
// regardless of the current status; corrective transitions such as
// approved -> under-review are part of the admin workflow.
const (
	StatusPending          = "pending"
	StatusUnderReview      = "under-review"
	StatusApproved         = "approved"
	StatusRejected         = "rejected"
	StatusRevisionRequired = "revision-required"
)

var validStatuses = map[string]bool{
	StatusPending:          true,
	StatusUnderReview:      true,
	StatusApproved:         true,
	StatusRejected:         true,
	StatusRevisionRequired: true,
}

// IsValidStatus reports whether s is one of the five project statuses.
func IsValidStatus(s string) bool {
	return validStatuses[s]
}

// ValidStatuses returns the accepted status values.
func ValidStatuses() []string {
	return []string{
		StatusPending,
		StatusUnderReview,
		StatusApproved,
		StatusRejected,
		StatusRevisionRequired,
	}
}

// Project represents the projects table
type Project struct {
	ProjectID               uint       `gorm:"primaryKey;column:project_id" json:"project_id"`
	Title                   string     `gorm:"column:title" json:"title"`
	Description             string     `gorm:"column:description" json:"description"`
	SustainabilityStatement string     `gorm:"column:sustainability_statement" json:"sustainability_statement"`
	OwnerID                 int        `gorm:"column:owner_id" json:"owner_id"`
	SupervisorID            int        `gorm:"column:supervisor_id" json:"supervisor_id"`
	CoSupervisorID          *int       `gorm:"column:co_supervisor_id" json:"co_supervisor_id,omitempty"`
	ImagePath               *string    `gorm:"column:image_path" json:"image_path,omitempty"`
	Status                  string     `gorm:"column:status" json:"status"`
	LastReviewedAt          *time.Time `gorm:"column:last_reviewed_at" json:"last_reviewed_at,omitempty"`
	LastReviewedBy          *int       `gorm:"column:last_reviewed_by" json:"last_reviewed_by,omitempty"`
	LastFeedback            *string    `gorm:"column:last_feedback" json:"last_feedback,omitempty"`
	CreatedAt               time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt               *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`

	Owner         User                   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Supervisor    User                   `gorm:"foreignKey:SupervisorID" json:"supervisor,omitempty"`
	Students      []ProjectStudent       `gorm:"foreignKey:ProjectID;references:ProjectID" json:"students,omitempty"`
	StatusHistory []ProjectStatusHistory `gorm:"foreignKey:ProjectID;references:ProjectID" json:"status_history,omitempty"`
}

// TableName overrides the table name for Project
func (Project) TableName() string {
	return "projects"
}

// ProjectStudent represents the project_students table (1-4 rows per project)
type ProjectStudent struct {
	StudentID    uint   `gorm:"primaryKey;column:student_id" json:"student_id"`
	ProjectID    uint   `gorm:"column:project_id" json:"project_id"`
	Name         string `gorm:"column:name" json:"name"`
	Email        string `gorm:"column:email" json:"email"`
	DisplayOrder int    `gorm:"column:display_order" json:"display_order"`
}

// TableName overrides the table name for ProjectStudent
func (ProjectStudent) TableName() string {
	return "project_students"
}

// ProjectStatusHistory tracks historical status changes for projects.
// Rows are append-only: they are never edited or removed, and the project's
// current status always equals the newest row's new_status.
type ProjectStatusHistory struct {
	HistoryID     uint      `gorm:"primaryKey;column:history_id" json:"history_id"`
	ProjectID     uint      `gorm:"column:project_id" json:"project_id"`
	OldStatus     string    `gorm:"column:old_status" json:"old_status"`
	NewStatus     string    `gorm:"column:new_status" json:"new_status"`
	Comment       string    `gorm:"column:comment" json:"comment"`
	ChangedBy     int       `gorm:"column:changed_by" json:"changed_by"`
	ChangedByName string    `gorm:"column:changed_by_name" json:"changed_by_name"`
	ChangedByRole string    `gorm:"column:changed_by_role" json:"changed_by_role"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table for ProjectStatusHistory.
func (ProjectStatusHistory) TableName() string {
	return "project_status_history"
}
