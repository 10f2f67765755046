package services

import (
	"errors"
	"fmt"

	"project-submission-api/models"
)

// Bulk actions accepted by BulkApply.
const (
	BulkActionUpdateStatus = "update_status"
	BulkActionDelete       = "delete"
)

// BulkItemSuccess records one project that the batch handled.
type BulkItemSuccess struct {
	ProjectID uint   `json:"project_id"`
	Action    string `json:"action"`
	Status    string `json:"status,omitempty"`
}

// BulkItemFailure records one project the batch could not handle.
type BulkItemFailure struct {
	ProjectID uint   `json:"project_id"`
	Error     string `json:"error"`
}

// BulkResult aggregates per-item outcomes. Every input id lands in exactly
// one of the two lists.
type BulkResult struct {
	Successful []BulkItemSuccess `json:"successful"`
	Failed     []BulkItemFailure `json:"failed"`
	Total      int               `json:"total"`
	Succeeded  int               `json:"succeeded"`
	FailedN    int               `json:"failed_count"`
}

// BulkCoordinator applies a status transition or deletion to a list of
// projects while keeping each item independent: one project failing never
// aborts the rest of the batch.
type BulkCoordinator struct {
	workflow *WorkflowService
	projects ProjectStore
	images   ImageStore
}

// NewBulkCoordinator wires the coordinator to the single-item workflow.
func NewBulkCoordinator(workflow *WorkflowService, projects ProjectStore, images ImageStore) *BulkCoordinator {
	return &BulkCoordinator{
		workflow: workflow,
		projects: projects,
		images:   images,
	}
}

// BulkApply runs action over projectIDs sequentially, collecting per-item
// results. status is required (and validated) for update_status and ignored
// for delete. Items fail individually; the call itself only errors on bad
// input.
func (b *BulkCoordinator) BulkApply(projectIDs []uint, action, status, comment string, actor Actor) (*BulkResult, error) {
	if len(projectIDs) == 0 {
		return nil, fmt.Errorf("%w: project_ids must not be empty", ErrInvalidInput)
	}

	switch action {
	case BulkActionUpdateStatus:
		if !models.IsValidStatus(status) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
		}
	case BulkActionDelete:
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, action)
	}

	result := &BulkResult{
		Successful: make([]BulkItemSuccess, 0, len(projectIDs)),
		Failed:     make([]BulkItemFailure, 0),
		Total:      len(projectIDs),
	}

	for _, id := range projectIDs {
		var err error
		item := BulkItemSuccess{ProjectID: id, Action: action}

		switch action {
		case BulkActionUpdateStatus:
			_, err = b.workflow.TransitionStatus(id, status, comment, actor, false)
			item.Status = status
		case BulkActionDelete:
			err = b.DeleteProject(id)
			item.Action = "deleted"
		}

		if err != nil {
			result.Failed = append(result.Failed, BulkItemFailure{
				ProjectID: id,
				Error:     itemErrorMessage(err),
			})
			continue
		}
		result.Successful = append(result.Successful, item)
	}

	result.Succeeded = len(result.Successful)
	result.FailedN = len(result.Failed)
	return result, nil
}

// DeleteProject removes the stored image best-effort, then the project record
// and its children. Shared by the bulk coordinator and the single delete
// endpoint.
func (b *BulkCoordinator) DeleteProject(projectID uint) error {
	project, err := b.projects.GetByID(projectID)
	if err != nil {
		return err
	}

	if project.ImagePath != nil {
		path := *project.ImagePath
		runSideEffect("project image removal", func() error {
			return b.images.Remove(path)
		})
	}

	return b.projects.Delete(projectID)
}

func itemErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrProjectNotFound):
		return "Project not found"
	case errors.Is(err, ErrInvalidStatus):
		return "Invalid status"
	default:
		return err.Error()
	}
}
