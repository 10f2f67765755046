package services

import (
	"errors"
	"testing"

	"project-submission-api/models"
)

func newTestCoordinator(projects ...*models.Project) (*BulkCoordinator, *fakeProjectStore, *fakeImageStore) {
	store := newFakeProjectStore(projects...)
	images := &fakeImageStore{}
	workflow := NewWorkflowService(store, noopNotifier{})
	return NewBulkCoordinator(workflow, store, images), store, images
}

func projectWithID(id uint) *models.Project {
	p := testProject()
	p.ProjectID = id
	return p
}

func TestBulkUpdatePartialFailure(t *testing.T) {
	coord, store, _ := newTestCoordinator(
		projectWithID(1), projectWithID(2), projectWithID(3), projectWithID(4),
	)

	ids := []uint{1, 2, 99, 3, 4}
	result, err := coord.BulkApply(ids, BulkActionUpdateStatus, models.StatusApproved, "batch approval", testActor())
	if err != nil {
		t.Fatalf("BulkApply failed: %v", err)
	}

	if len(result.Successful) != 4 {
		t.Fatalf("successful: %d, want 4", len(result.Successful))
	}
	if len(result.Failed) != 1 {
		t.Fatalf("failed: %d, want 1", len(result.Failed))
	}
	if result.Failed[0].ProjectID != 99 || result.Failed[0].Error != "Project not found" {
		t.Fatalf("unexpected failure entry: %+v", result.Failed[0])
	}
	if result.Total != 5 || result.Succeeded != 4 || result.FailedN != 1 {
		t.Fatalf("unexpected summary: %+v", result)
	}

	for _, id := range []uint{1, 2, 3, 4} {
		project, _ := store.GetByID(id)
		if project.Status != models.StatusApproved {
			t.Fatalf("project %d status %q, want approved", id, project.Status)
		}
		history, _ := store.History(id)
		if len(history) != 1 || history[0].Comment != "batch approval" {
			t.Fatalf("project %d history not appended: %+v", id, history)
		}
	}
}

func TestBulkDelete(t *testing.T) {
	p1 := projectWithID(1)
	img := "projects/2026/01/cover.png"
	p1.ImagePath = &img

	coord, store, images := newTestCoordinator(p1, projectWithID(2))

	result, err := coord.BulkApply([]uint{1, 2, 77}, BulkActionDelete, "", "", testActor())
	if err != nil {
		t.Fatalf("BulkApply failed: %v", err)
	}

	if len(result.Successful) != 2 || len(result.Failed) != 1 {
		t.Fatalf("unexpected result split: %d/%d", len(result.Successful), len(result.Failed))
	}
	for _, item := range result.Successful {
		if item.Action != "deleted" {
			t.Fatalf("unexpected action label: %+v", item)
		}
	}
	if result.Failed[0].Error != "Project not found" {
		t.Fatalf("unexpected failure message: %q", result.Failed[0].Error)
	}

	if _, err := store.GetByID(1); !errors.Is(err, ErrProjectNotFound) {
		t.Fatal("project 1 not deleted")
	}
	if _, err := store.GetByID(2); !errors.Is(err, ErrProjectNotFound) {
		t.Fatal("project 2 not deleted")
	}

	if len(images.removed) != 1 || images.removed[0] != img {
		t.Fatalf("image not removed: %v", images.removed)
	}
}

func TestBulkDeleteSurvivesImageFailure(t *testing.T) {
	p := projectWithID(1)
	img := "projects/2026/01/cover.png"
	p.ImagePath = &img

	coord, store, images := newTestCoordinator(p)
	images.err = errors.New("object storage unavailable")

	result, err := coord.BulkApply([]uint{1}, BulkActionDelete, "", "", testActor())
	if err != nil {
		t.Fatalf("BulkApply failed: %v", err)
	}
	if len(result.Successful) != 1 {
		t.Fatalf("delete should succeed despite image failure: %+v", result)
	}
	if _, err := store.GetByID(1); !errors.Is(err, ErrProjectNotFound) {
		t.Fatal("project record not deleted")
	}
}

func TestBulkApplyInputValidation(t *testing.T) {
	coord, store, _ := newTestCoordinator(projectWithID(1))

	tests := []struct {
		name   string
		ids    []uint
		action string
		status string
		want   error
	}{
		{"empty ids", nil, BulkActionUpdateStatus, models.StatusApproved, ErrInvalidInput},
		{"unknown action", []uint{1}, "archive", "", ErrInvalidInput},
		{"missing status", []uint{1}, BulkActionUpdateStatus, "", ErrInvalidStatus},
		{"bad status", []uint{1}, BulkActionUpdateStatus, "done", ErrInvalidStatus},
	}

	for _, tt := range tests {
		_, err := coord.BulkApply(tt.ids, tt.action, tt.status, "", testActor())
		if !errors.Is(err, tt.want) {
			t.Fatalf("%s: got %v, want %v", tt.name, err, tt.want)
		}
	}

	// Rejected batches leave projects untouched.
	project, _ := store.GetByID(1)
	if project.Status != models.StatusPending {
		t.Fatalf("project mutated by rejected batch: %q", project.Status)
	}
}

func TestBulkUpdateDispatchesPerItem(t *testing.T) {
	store := newFakeProjectStore(projectWithID(1), projectWithID(2))
	notifier := &recordingNotifier{}
	workflow := NewWorkflowService(store, notifier)
	coord := NewBulkCoordinator(workflow, store, &fakeImageStore{})

	if _, err := coord.BulkApply([]uint{1, 2}, BulkActionUpdateStatus, models.StatusUnderReview, "", testActor()); err != nil {
		t.Fatalf("BulkApply failed: %v", err)
	}

	if len(notifier.calls) != 2 {
		t.Fatalf("dispatcher invoked %d times, want 2", len(notifier.calls))
	}
}
