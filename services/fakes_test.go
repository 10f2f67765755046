package services

import (
	"errors"
	"fmt"
	"sort"

	"project-submission-api/models"
)

type fakeProjectStore struct {
	projects   map[uint]*models.Project
	history    map[uint][]models.ProjectStatusHistory
	applyErr   error
	historyErr error
}

func newFakeProjectStore(projects ...*models.Project) *fakeProjectStore {
	s := &fakeProjectStore{
		projects: make(map[uint]*models.Project),
		history:  make(map[uint][]models.ProjectStatusHistory),
	}
	for _, p := range projects {
		cp := *p
		s.projects[p.ProjectID] = &cp
	}
	return s
}

func (s *fakeProjectStore) GetByID(projectID uint) (*models.Project, error) {
	p, ok := s.projects[projectID]
	if !ok {
		return nil, ErrProjectNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakeProjectStore) ApplyTransition(projectID uint, entry models.ProjectStatusHistory) error {
	if s.applyErr != nil {
		return s.applyErr
	}
	p, ok := s.projects[projectID]
	if !ok {
		return ErrProjectNotFound
	}

	entry.ProjectID = projectID
	entry.HistoryID = uint(len(s.history[projectID]) + 1)
	s.history[projectID] = append(s.history[projectID], entry)

	p.Status = entry.NewStatus
	at := entry.CreatedAt
	by := entry.ChangedBy
	p.LastReviewedAt = &at
	p.LastReviewedBy = &by
	if entry.Comment != "" {
		comment := entry.Comment
		p.LastFeedback = &comment
	}
	return nil
}

func (s *fakeProjectStore) History(projectID uint) ([]models.ProjectStatusHistory, error) {
	if s.historyErr != nil {
		return nil, s.historyErr
	}
	entries := make([]models.ProjectStatusHistory, len(s.history[projectID]))
	copy(entries, s.history[projectID])
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].HistoryID > entries[j].HistoryID
	})
	return entries, nil
}

func (s *fakeProjectStore) Delete(projectID uint) error {
	if _, ok := s.projects[projectID]; !ok {
		return ErrProjectNotFound
	}
	delete(s.projects, projectID)
	delete(s.history, projectID)
	return nil
}

type fakeNotificationStore struct {
	created []models.Notification
	err     error
}

func (s *fakeNotificationStore) Create(n *models.Notification) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, *n)
	return nil
}

func (s *fakeNotificationStore) forUser(userID int) []models.Notification {
	var out []models.Notification
	for _, n := range s.created {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type fakeMailQueue struct {
	jobs []models.EmailJob
	err  error
}

func (q *fakeMailQueue) Enqueue(job *models.EmailJob) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, *job)
	return nil
}

type fakeUserDirectory struct {
	users map[int]*models.User
}

func (d *fakeUserDirectory) GetByID(userID int) (*models.User, error) {
	u, ok := d.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

type fakeImageStore struct {
	removed []string
	err     error
}

func (s *fakeImageStore) Remove(path string) error {
	if s.err != nil {
		return s.err
	}
	s.removed = append(s.removed, path)
	return nil
}

// noopNotifier satisfies StatusNotifier for workflow tests that don't care
// about dispatch.
type noopNotifier struct{}

func (noopNotifier) NotifyStatusChange(*models.Project, string, string, Actor, bool) {}

// panickingNotifier simulates a broken dispatcher dependency.
type panickingNotifier struct{}

func (panickingNotifier) NotifyStatusChange(*models.Project, string, string, Actor, bool) {
	panic(errors.New("notification backend unavailable"))
}

// recordingNotifier captures the events the workflow fires.
type recordingNotifier struct {
	calls []string
}

func (n *recordingNotifier) NotifyStatusChange(p *models.Project, newStatus, comment string, actor Actor, sendEmail bool) {
	n.calls = append(n.calls, fmt.Sprintf("%d:%s->%s", p.ProjectID, p.Status, newStatus))
}
