package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/store"
	"github.com/runoshun/focus-pilot/internal/usecase/shared"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	TaskID string // Task ID to delete
}

// DeleteTaskOutput contains the result of deleting a task.
type DeleteTaskOutput struct {
	Task domain.Task // The deleted task
}

// DeleteTask is the use case for deleting a task.
// Recommendations and sessions that reference the task are kept.
type DeleteTask struct {
	store  *store.Store
	logger domain.Logger
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(st *store.Store, logger domain.Logger) *DeleteTask {
	return &DeleteTask{
		store:  st,
		logger: logger,
	}
}

// Execute deletes the task.
func (uc *DeleteTask) Execute(_ context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	task, err := shared.GetTask(uc.store, in.TaskID)
	if err != nil {
		return nil, err
	}

	ok, err := uc.store.Delete(in.TaskID)
	if err := shared.EnsureApplied(ok, err, in.TaskID); err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info("task", fmt.Sprintf("deleted %s: %q", task.ID, task.Title))
	}
	return &DeleteTaskOutput{Task: task}, nil
}
