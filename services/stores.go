package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"project-submission-api/models"
)

// Actor identifies the authenticated caller of a workflow operation. It is
// populated by the auth middleware; the services trust it as-is.
type Actor struct {
	UserID int    `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// ProjectStore is the persistence surface the workflow needs. The GORM
// implementation backs it with the projects and project_status_history
// tables; tests substitute in-memory fakes.
type ProjectStore interface {
	GetByID(projectID uint) (*models.Project, error)
	// ApplyTransition persists the new status, the denormalized
	// last-reviewed fields and the history row in one transaction.
	ApplyTransition(projectID uint, entry models.ProjectStatusHistory) error
	// History returns the project's transitions, most recent first.
	History(projectID uint) ([]models.ProjectStatusHistory, error)
	Delete(projectID uint) error
}

// NotificationStore creates in-app notification rows.
type NotificationStore interface {
	Create(n *models.Notification) error
}

// MailQueue appends outbound email jobs for the cmd/mailer worker.
type MailQueue interface {
	Enqueue(job *models.EmailJob) error
}

// UserDirectory resolves recipients for notifications and emails.
type UserDirectory interface {
	GetByID(userID int) (*models.User, error)
}

// ImageStore removes stored project images. A missing object is not an
// error: the delete path tolerates already-gone files.
type ImageStore interface {
	Remove(path string) error
}

/* ==========================
   GORM implementations
   ========================== */

type gormProjectStore struct {
	db *gorm.DB
}

// NewProjectStore returns the MySQL-backed project store.
func NewProjectStore(db *gorm.DB) ProjectStore {
	return &gormProjectStore{db: db}
}

func (s *gormProjectStore) GetByID(projectID uint) (*models.Project, error) {
	var project models.Project
	err := s.db.Preload("Students").
		Where("project_id = ?", projectID).
		First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (s *gormProjectStore) ApplyTransition(projectID uint, entry models.ProjectStatusHistory) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		entry.ProjectID = projectID
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to append status history: %w", err)
		}

		updates := map[string]interface{}{
			"status":           entry.NewStatus,
			"last_reviewed_at": entry.CreatedAt,
			"last_reviewed_by": entry.ChangedBy,
			"updated_at":       entry.CreatedAt,
		}
		if entry.Comment != "" {
			updates["last_feedback"] = entry.Comment
		}

		res := tx.Model(&models.Project{}).
			Where("project_id = ?", projectID).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to update project status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrProjectNotFound
		}
		return nil
	})
}

func (s *gormProjectStore) History(projectID uint) ([]models.ProjectStatusHistory, error) {
	var entries []models.ProjectStatusHistory
	err := s.db.Where("project_id = ?", projectID).
		Order("created_at DESC, history_id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *gormProjectStore) Delete(projectID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("project_id = ?", projectID).Delete(&models.Project{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProjectNotFound
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectStudent{}).Error; err != nil {
			return err
		}
		return tx.Where("project_id = ?", projectID).Delete(&models.ProjectStatusHistory{}).Error
	})
}

type gormNotificationStore struct {
	db *gorm.DB
}

// NewNotificationStore returns the MySQL-backed notification store.
func NewNotificationStore(db *gorm.DB) NotificationStore {
	return &gormNotificationStore{db: db}
}

func (s *gormNotificationStore) Create(n *models.Notification) error {
	if n.CreateAt.IsZero() {
		n.CreateAt = time.Now()
	}
	return s.db.Create(n).Error
}

type gormMailQueue struct {
	db *gorm.DB
}

// NewMailQueue returns the email_queue-backed mail queue.
func NewMailQueue(db *gorm.DB) MailQueue {
	return &gormMailQueue{db: db}
}

func (q *gormMailQueue) Enqueue(job *models.EmailJob) error {
	if job.Status == "" {
		job.Status = models.EmailStatusPending
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	return q.db.Create(job).Error
}

type gormUserDirectory struct {
	db *gorm.DB
}

// NewUserDirectory returns the users-table-backed directory.
func NewUserDirectory(db *gorm.DB) UserDirectory {
	return &gormUserDirectory{db: db}
}

func (d *gormUserDirectory) GetByID(userID int) (*models.User, error) {
	var user models.User
	err := d.db.Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

type localImageStore struct {
	root string
}

// NewImageStore returns an image store rooted at the upload directory.
func NewImageStore(root string) ImageStore {
	return &localImageStore{root: root}
}

func (s *localImageStore) Remove(path string) error {
	if path == "" {
		return nil
	}
	full := filepath.Join(s.root, filepath.Clean("/"+path))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
