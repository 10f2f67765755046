package services

import (
	"encoding/json"
	"fmt"
	"time"

	"project-submission-api/models"
)

// Dispatcher turns workflow events into in-app notifications and queued
// emails. Every side effect runs in its own error boundary: a failure to
// notify the owner must not stop the supervisor notification or the email,
// and nothing here ever propagates back into the transition that fired it.
type Dispatcher struct {
	notifications NotificationStore
	mail          MailQueue
	users         UserDirectory
	now           func() time.Time
}

// NewDispatcher wires the dispatcher to its stores.
func NewDispatcher(notifications NotificationStore, mail MailQueue, users UserDirectory) *Dispatcher {
	return &Dispatcher{
		notifications: notifications,
		mail:          mail,
		users:         users,
		now:           time.Now,
	}
}

type statusChangeData struct {
	ProjectID      uint   `json:"project_id"`
	ProjectTitle   string `json:"project_title"`
	OldStatus      string `json:"old_status"`
	NewStatus      string `json:"new_status"`
	Comment        string `json:"comment,omitempty"`
	ReviewerName   string `json:"reviewer_name"`
	ActionRequired bool   `json:"action_required"`
	Role           string `json:"role,omitempty"`
}

// NotifyStatusChange fans out the side effects of a status transition:
// always one notification to the project owner, a second one to the
// supervisor on approval, and a queued email to the owner. Emails are
// automatic for approved/rejected and opt-in (sendEmail) for everything else.
func (d *Dispatcher) NotifyStatusChange(project *models.Project, newStatus, comment string, actor Actor, sendEmail bool) {
	if project == nil {
		return
	}

	runSideEffect("owner status notification", func() error {
		return d.createOwnerNotification(project, newStatus, comment, actor)
	})

	if newStatus == models.StatusApproved {
		runSideEffect("supervisor approval notification", func() error {
			return d.createSupervisorNotification(project, actor)
		})
	}

	if newStatus == models.StatusApproved || newStatus == models.StatusRejected || sendEmail {
		runSideEffect("status change email", func() error {
			return d.enqueueStatusEmail(project, newStatus, comment, actor)
		})
	}
}

// NotifyNewAssignment informs the supervisor (and the co-supervisor, when
// distinct) that a project has been assigned to them. Invoked at project
// creation, not at status changes.
func (d *Dispatcher) NotifyNewAssignment(project *models.Project, supervisorID int, coSupervisorID *int) {
	if project == nil {
		return
	}

	runSideEffect("supervisor assignment notification", func() error {
		return d.createAssignmentNotification(project, supervisorID, "supervisor")
	})

	if coSupervisorID != nil && *coSupervisorID != 0 && *coSupervisorID != supervisorID {
		runSideEffect("co-supervisor assignment notification", func() error {
			return d.createAssignmentNotification(project, *coSupervisorID, "co-supervisor")
		})
	}
}

func (d *Dispatcher) createOwnerNotification(project *models.Project, newStatus, comment string, actor Actor) error {
	title := "Project Status Updated"
	notifType := models.NotifTypeInfo
	switch newStatus {
	case models.StatusApproved:
		title = "Project Approved"
		notifType = models.NotifTypeSuccess
	case models.StatusRejected:
		title = "Project Rejected"
		notifType = models.NotifTypeError
	}

	message := fmt.Sprintf("Your project %q is now %s.", project.Title, humanStatus(newStatus))
	if comment != "" {
		message += " Reviewer comment: " + comment
	}

	data, err := json.Marshal(statusChangeData{
		ProjectID:      project.ProjectID,
		ProjectTitle:   project.Title,
		OldStatus:      project.Status,
		NewStatus:      newStatus,
		Comment:        comment,
		ReviewerName:   actor.Name,
		ActionRequired: newStatus == models.StatusRevisionRequired,
	})
	if err != nil {
		return fmt.Errorf("failed to encode notification data: %w", err)
	}

	projectID := project.ProjectID
	return d.notifications.Create(&models.Notification{
		UserID:           project.OwnerID,
		Title:            title,
		Message:          message,
		Type:             notifType,
		Category:         models.NotifCategoryProject,
		RelatedProjectID: &projectID,
		Data:             data,
		CreateAt:         d.now(),
	})
}

func (d *Dispatcher) createSupervisorNotification(project *models.Project, actor Actor) error {
	data, err := json.Marshal(statusChangeData{
		ProjectID:    project.ProjectID,
		ProjectTitle: project.Title,
		OldStatus:    project.Status,
		NewStatus:    models.StatusApproved,
		ReviewerName: actor.Name,
		Role:         "supervisor",
	})
	if err != nil {
		return fmt.Errorf("failed to encode notification data: %w", err)
	}

	projectID := project.ProjectID
	return d.notifications.Create(&models.Notification{
		UserID:           project.SupervisorID,
		Title:            "Supervised Project Approved",
		Message:          fmt.Sprintf("The project %q you supervise has been approved.", project.Title),
		Type:             models.NotifTypeSuccess,
		Category:         models.NotifCategoryProject,
		RelatedProjectID: &projectID,
		Data:             data,
		CreateAt:         d.now(),
	})
}

func (d *Dispatcher) createAssignmentNotification(project *models.Project, userID int, role string) error {
	data, err := json.Marshal(statusChangeData{
		ProjectID:    project.ProjectID,
		ProjectTitle: project.Title,
		NewStatus:    project.Status,
		Role:         role,
	})
	if err != nil {
		return fmt.Errorf("failed to encode notification data: %w", err)
	}

	projectID := project.ProjectID
	return d.notifications.Create(&models.Notification{
		UserID:           userID,
		Title:            "New Project Assignment",
		Message:          fmt.Sprintf("You have been assigned as %s of the project %q.", role, project.Title),
		Type:             models.NotifTypeInfo,
		Category:         models.NotifCategoryProject,
		RelatedProjectID: &projectID,
		Data:             data,
		CreateAt:         d.now(),
	})
}

func (d *Dispatcher) enqueueStatusEmail(project *models.Project, newStatus, comment string, actor Actor) error {
	owner, err := d.users.GetByID(project.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to resolve project owner %d: %w", project.OwnerID, err)
	}
	if owner.Email == "" {
		return fmt.Errorf("project owner %d has no email address", project.OwnerID)
	}

	now := d.now()
	return d.mail.Enqueue(&models.EmailJob{
		Recipients: owner.Email,
		Subject:    fmt.Sprintf("%s: %s", humanStatus(newStatus), project.Title),
		BodyHTML:   buildStatusEmailHTML(project.Title, newStatus, comment, actor.Name, now),
		Status:     models.EmailStatusPending,
		CreatedAt:  now,
	})
}
