package services

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"project-submission-api/models"
)

func newTestDispatcher() (*Dispatcher, *fakeNotificationStore, *fakeMailQueue, *fakeUserDirectory) {
	notifications := &fakeNotificationStore{}
	mail := &fakeMailQueue{}
	users := &fakeUserDirectory{users: map[int]*models.User{
		10: {UserID: 10, UserFname: "Omar", UserLname: "Owner", Email: "omar@student.example.edu"},
		20: {UserID: 20, UserFname: "Sara", UserLname: "Super", Email: "sara@teacher.example.edu", RoleID: models.RoleTeacher},
	}}

	d := NewDispatcher(notifications, mail, users)
	d.now = func() time.Time { return time.Date(2026, 5, 2, 14, 0, 0, 0, time.UTC) }
	return d, notifications, mail, users
}

func TestNotifyStatusChangeApproved(t *testing.T) {
	d, notifications, mail, _ := newTestDispatcher()
	project := testProject()

	d.NotifyStatusChange(project, models.StatusApproved, "Great work", testActor(), false)

	ownerNotifs := notifications.forUser(10)
	if len(ownerNotifs) != 1 {
		t.Fatalf("owner notifications: %d, want 1", len(ownerNotifs))
	}
	owner := ownerNotifs[0]
	if owner.Title != "Project Approved" || owner.Type != models.NotifTypeSuccess {
		t.Fatalf("unexpected owner notification: title=%q type=%q", owner.Title, owner.Type)
	}
	if owner.Category != models.NotifCategoryProject {
		t.Fatalf("owner notification category %q, want project", owner.Category)
	}
	if !strings.Contains(owner.Message, "Approved") || !strings.Contains(owner.Message, "Great work") {
		t.Fatalf("owner message missing status or comment: %q", owner.Message)
	}

	var data statusChangeData
	if err := json.Unmarshal(owner.Data, &data); err != nil {
		t.Fatalf("owner data not valid JSON: %v", err)
	}
	if data.ProjectID != 1 || data.OldStatus != models.StatusPending || data.NewStatus != models.StatusApproved {
		t.Fatalf("unexpected owner data payload: %+v", data)
	}
	if data.ReviewerName != "Ada Admin" || data.ActionRequired {
		t.Fatalf("unexpected owner data payload: %+v", data)
	}

	supNotifs := notifications.forUser(20)
	if len(supNotifs) != 1 {
		t.Fatalf("supervisor notifications: %d, want 1", len(supNotifs))
	}
	var supData statusChangeData
	if err := json.Unmarshal(supNotifs[0].Data, &supData); err != nil {
		t.Fatalf("supervisor data not valid JSON: %v", err)
	}
	if supData.Role != "supervisor" {
		t.Fatalf("supervisor data role %q, want supervisor", supData.Role)
	}

	if len(mail.jobs) != 1 {
		t.Fatalf("queued emails: %d, want 1", len(mail.jobs))
	}
	job := mail.jobs[0]
	if job.Recipients != "omar@student.example.edu" {
		t.Fatalf("email recipients %q", job.Recipients)
	}
	if !strings.Contains(job.Subject, "Solar Bench") {
		t.Fatalf("email subject missing project title: %q", job.Subject)
	}
	if !strings.Contains(job.BodyHTML, "Reviewer Comments") || !strings.Contains(job.BodyHTML, "Great work") {
		t.Fatalf("email body missing comment block")
	}
	if !strings.Contains(job.BodyHTML, "Ada Admin") || !strings.Contains(job.BodyHTML, "02 May 2026") {
		t.Fatalf("email body missing reviewer footer")
	}
}

func TestNotifyStatusChangeRejected(t *testing.T) {
	d, notifications, mail, _ := newTestDispatcher()

	d.NotifyStatusChange(testProject(), models.StatusRejected, "", testActor(), false)

	ownerNotifs := notifications.forUser(10)
	if len(ownerNotifs) != 1 {
		t.Fatalf("owner notifications: %d, want 1", len(ownerNotifs))
	}
	if ownerNotifs[0].Title != "Project Rejected" || ownerNotifs[0].Type != models.NotifTypeError {
		t.Fatalf("unexpected owner notification: %+v", ownerNotifs[0])
	}

	// No supervisor notification outside approval.
	if n := notifications.forUser(20); len(n) != 0 {
		t.Fatalf("supervisor notified on rejection: %d", len(n))
	}

	// Rejection always queues an email.
	if len(mail.jobs) != 1 {
		t.Fatalf("queued emails: %d, want 1", len(mail.jobs))
	}
}

func TestNotifyStatusChangeRevisionRequired(t *testing.T) {
	d, notifications, mail, _ := newTestDispatcher()

	d.NotifyStatusChange(testProject(), models.StatusRevisionRequired, "fix section 3", testActor(), false)

	ownerNotifs := notifications.forUser(10)
	if len(ownerNotifs) != 1 {
		t.Fatalf("owner notifications: %d, want 1", len(ownerNotifs))
	}
	if ownerNotifs[0].Title != "Project Status Updated" || ownerNotifs[0].Type != models.NotifTypeInfo {
		t.Fatalf("unexpected owner notification: %+v", ownerNotifs[0])
	}
	if !strings.Contains(ownerNotifs[0].Message, "Revision Required") {
		t.Fatalf("message missing human readable status: %q", ownerNotifs[0].Message)
	}

	var data statusChangeData
	if err := json.Unmarshal(ownerNotifs[0].Data, &data); err != nil {
		t.Fatalf("data not valid JSON: %v", err)
	}
	if !data.ActionRequired {
		t.Fatal("action_required must be set for revision-required")
	}

	if len(mail.jobs) != 0 {
		t.Fatalf("revision-required without send_email queued %d emails", len(mail.jobs))
	}
}

func TestEmailGating(t *testing.T) {
	tests := []struct {
		status    string
		sendEmail bool
		want      int
	}{
		{models.StatusApproved, false, 1},
		{models.StatusApproved, true, 1},
		{models.StatusRejected, false, 1},
		{models.StatusUnderReview, false, 0},
		{models.StatusUnderReview, true, 1},
		{models.StatusPending, false, 0},
		{models.StatusRevisionRequired, true, 1},
	}

	for _, tt := range tests {
		d, _, mail, _ := newTestDispatcher()
		d.NotifyStatusChange(testProject(), tt.status, "", testActor(), tt.sendEmail)
		if len(mail.jobs) != tt.want {
			t.Fatalf("%s sendEmail=%v: %d emails, want %d", tt.status, tt.sendEmail, len(mail.jobs), tt.want)
		}
	}
}

func TestSideEffectIsolation(t *testing.T) {
	// Notification store failing must not stop the email.
	d, notifications, mail, _ := newTestDispatcher()
	notifications.err = errors.New("notification backend down")
	d.NotifyStatusChange(testProject(), models.StatusApproved, "", testActor(), false)
	if len(mail.jobs) != 1 {
		t.Fatalf("email not queued when notification store fails: %d jobs", len(mail.jobs))
	}

	// Mail queue failing must not stop the notifications.
	d, notifications, mail, _ = newTestDispatcher()
	mail.err = errors.New("mail queue down")
	d.NotifyStatusChange(testProject(), models.StatusApproved, "", testActor(), false)
	if len(notifications.created) != 2 {
		t.Fatalf("notifications not created when mail queue fails: %d", len(notifications.created))
	}

	// Unknown owner: owner notification still recorded, email skipped.
	d, notifications, mail, users := newTestDispatcher()
	delete(users.users, 10)
	d.NotifyStatusChange(testProject(), models.StatusApproved, "", testActor(), false)
	if len(notifications.forUser(10)) != 1 {
		t.Fatal("owner notification missing when directory lookup fails")
	}
	if len(mail.jobs) != 0 {
		t.Fatalf("email queued despite missing owner: %d", len(mail.jobs))
	}
}

func TestNotifyNewAssignment(t *testing.T) {
	co := 30

	tests := []struct {
		name           string
		coSupervisorID *int
		want           int
	}{
		{"supervisor only", nil, 1},
		{"distinct co-supervisor", &co, 2},
		{"co-supervisor same as supervisor", intPtr(20), 1},
	}

	for _, tt := range tests {
		d, notifications, _, _ := newTestDispatcher()
		project := testProject()
		project.CoSupervisorID = tt.coSupervisorID

		d.NotifyNewAssignment(project, 20, tt.coSupervisorID)

		if len(notifications.created) != tt.want {
			t.Fatalf("%s: %d notifications, want %d", tt.name, len(notifications.created), tt.want)
		}
		sup := notifications.forUser(20)
		if len(sup) != 1 || sup[0].Type != models.NotifTypeInfo {
			t.Fatalf("%s: unexpected supervisor notification %+v", tt.name, sup)
		}
		if tt.want == 2 {
			coNotifs := notifications.forUser(co)
			if len(coNotifs) != 1 || !strings.Contains(coNotifs[0].Message, "co-supervisor") {
				t.Fatalf("%s: unexpected co-supervisor notification %+v", tt.name, coNotifs)
			}
		}
	}
}

func TestHumanStatus(t *testing.T) {
	tests := map[string]string{
		models.StatusPending:          "Pending",
		models.StatusUnderReview:      "Under Review",
		models.StatusRevisionRequired: "Revision Required",
		models.StatusApproved:         "Approved",
	}
	for in, want := range tests {
		if got := humanStatus(in); got != want {
			t.Fatalf("humanStatus(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildStatusEmailHTMLOmitsEmptyComment(t *testing.T) {
	at := time.Date(2026, 5, 2, 14, 0, 0, 0, time.UTC)

	withComment := buildStatusEmailHTML("Solar Bench", models.StatusApproved, "nice", "Ada", at)
	if !strings.Contains(withComment, "Reviewer Comments") {
		t.Fatal("comment block missing when comment present")
	}

	without := buildStatusEmailHTML("Solar Bench", models.StatusApproved, "  ", "Ada", at)
	if strings.Contains(without, "Reviewer Comments") {
		t.Fatal("comment block rendered for blank comment")
	}

	escaped := buildStatusEmailHTML("<script>", models.StatusRejected, "<b>hi</b>", "Ada", at)
	if strings.Contains(escaped, "<script>") || strings.Contains(escaped, "<b>hi</b>") {
		t.Fatal("user content not escaped in email body")
	}
}

func intPtr(v int) *int { return &v }
