package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/store"
	"github.com/runoshun/focus-pilot/internal/usecase/shared"
)

// CompleteTaskInput contains the parameters for completing a task.
type CompleteTaskInput struct {
	TaskID string // Task ID to complete
}

// CompleteTaskOutput contains the result of completing a task.
type CompleteTaskOutput struct {
	Task domain.Task // The completed task
}

// CompleteTask is the use case for marking a task as completed.
type CompleteTask struct {
	store *store.Store
}

// NewCompleteTask creates a new CompleteTask use case.
func NewCompleteTask(st *store.Store) *CompleteTask {
	return &CompleteTask{store: st}
}

// Execute marks the task completed.
func (uc *CompleteTask) Execute(_ context.Context, in CompleteTaskInput) (*CompleteTaskOutput, error) {
	ok, err := uc.store.Complete(in.TaskID)
	if err := shared.EnsureApplied(ok, err, in.TaskID); err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}

	task, err := shared.GetTask(uc.store, in.TaskID)
	if err != nil {
		return nil, err
	}
	return &CompleteTaskOutput{Task: task}, nil
}
