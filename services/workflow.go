package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"project-submission-api/models"
)

// StatusNotifier receives transition events after the status change has been
// persisted. Implementations must be best-effort; the workflow additionally
// shields itself so a notifier failure can never undo a committed transition.
type StatusNotifier interface {
	NotifyStatusChange(project *models.Project, newStatus, comment string, actor Actor, sendEmail bool)
}

// TransitionResult is returned to the caller of TransitionStatus.
type TransitionResult struct {
	ProjectID      uint                          `json:"project_id"`
	Status         string                        `json:"status"`
	StatusHistory  []models.ProjectStatusHistory `json:"status_history"`
	LastReviewedAt time.Time                     `json:"last_reviewed_at"`
	LastReviewedBy int                           `json:"last_reviewed_by"`
	LastFeedback   string                        `json:"last_feedback"`
}

// WorkflowService owns the project status state machine: it validates the
// requested status, appends the immutable history entry and persists the new
// state in one atomic update.
type WorkflowService struct {
	projects ProjectStore
	notifier StatusNotifier
	now      func() time.Time
}

// NewWorkflowService wires the workflow to its store and dispatcher.
func NewWorkflowService(projects ProjectStore, notifier StatusNotifier) *WorkflowService {
	return &WorkflowService{
		projects: projects,
		notifier: notifier,
		now:      time.Now,
	}
}

// TransitionStatus moves a project to newStatus. Any of the five statuses is
// a legal target from any current status; the admin workflow relies on
// corrective transitions, so no transition graph is enforced beyond the
// enumeration itself.
//
// The history append and the project update commit together. Notification
// dispatch happens after the commit and is fire-and-forget: the caller learns
// whether the transition succeeded, never whether the notifications did.
func (s *WorkflowService) TransitionStatus(projectID uint, newStatus, comment string, actor Actor, sendEmail bool) (*TransitionResult, error) {
	newStatus = strings.TrimSpace(newStatus)
	if !models.IsValidStatus(newStatus) {
		return nil, fmt.Errorf("%w: %q (expected one of %s)",
			ErrInvalidStatus, newStatus, strings.Join(models.ValidStatuses(), ", "))
	}

	project, err := s.projects.GetByID(projectID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entry := models.ProjectStatusHistory{
		ProjectID:     projectID,
		OldStatus:     project.Status,
		NewStatus:     newStatus,
		Comment:       strings.TrimSpace(comment),
		ChangedBy:     actor.UserID,
		ChangedByName: actor.Name,
		ChangedByRole: actor.Role,
		CreatedAt:     now,
	}

	if err := s.projects.ApplyTransition(projectID, entry); err != nil {
		return nil, err
	}

	runSideEffect("status change notifications", func() error {
		s.notifier.NotifyStatusChange(project, newStatus, entry.Comment, actor, sendEmail)
		return nil
	})

	history, err := s.projects.History(projectID)
	if err != nil {
		// The transition itself committed; return what we know.
		log.Printf("status history read failed after transition of project %d: %v", projectID, err)
		history = []models.ProjectStatusHistory{entry}
	}

	result := &TransitionResult{
		ProjectID:      projectID,
		Status:         newStatus,
		StatusHistory:  history,
		LastReviewedAt: now,
		LastReviewedBy: actor.UserID,
		LastFeedback:   entry.Comment,
	}
	if entry.Comment == "" && project.LastFeedback != nil {
		result.LastFeedback = *project.LastFeedback
	}
	return result, nil
}

// StatusHistory returns a project's transitions, most recent first.
func (s *WorkflowService) StatusHistory(projectID uint) ([]models.ProjectStatusHistory, error) {
	if _, err := s.projects.GetByID(projectID); err != nil {
		return nil, err
	}
	return s.projects.History(projectID)
}
