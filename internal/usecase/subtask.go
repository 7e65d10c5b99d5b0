package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/store"
	"github.com/runoshun/focus-pilot/internal/usecase/shared"
)

// AddSubtaskInput contains the parameters for adding a subtask.
type AddSubtaskInput struct {
	TaskID string // Parent task ID
	Title  string // Subtask title
}

// AddSubtaskOutput contains the result of adding a subtask.
type AddSubtaskOutput struct {
	Subtask domain.Subtask
	Task    domain.Task
}

// AddSubtask appends a checklist item to a task.
type AddSubtask struct {
	store *store.Store
}

// NewAddSubtask creates a new AddSubtask use case.
func NewAddSubtask(st *store.Store) *AddSubtask {
	return &AddSubtask{store: st}
}

// Execute adds the subtask.
func (uc *AddSubtask) Execute(_ context.Context, in AddSubtaskInput) (*AddSubtaskOutput, error) {
	sub, ok, err := uc.store.AddSubtask(in.TaskID, in.Title)
	if err := shared.EnsureApplied(ok, err, in.TaskID); err != nil {
		return nil, err
	}
	task, err := shared.GetTask(uc.store, in.TaskID)
	if err != nil {
		return nil, err
	}
	return &AddSubtaskOutput{Subtask: sub, Task: task}, nil
}

// ToggleSubtaskInput contains the parameters for toggling a subtask.
type ToggleSubtaskInput struct {
	TaskID    string
	SubtaskID string
}

// ToggleSubtaskOutput contains the result of toggling a subtask.
type ToggleSubtaskOutput struct {
	Task domain.Task // The parent task after status reconciliation
}

// ToggleSubtask flips a subtask's completion flag.
type ToggleSubtask struct {
	store *store.Store
}

// NewToggleSubtask creates a new ToggleSubtask use case.
func NewToggleSubtask(st *store.Store) *ToggleSubtask {
	return &ToggleSubtask{store: st}
}

// Execute toggles the subtask. Completing the last open subtask completes
// the task; reopening one moves a completed task back to in_progress.
func (uc *ToggleSubtask) Execute(_ context.Context, in ToggleSubtaskInput) (*ToggleSubtaskOutput, error) {
	task, err := shared.GetTask(uc.store, in.TaskID)
	if err != nil {
		return nil, err
	}
	if task.FindSubtask(in.SubtaskID) < 0 {
		return nil, fmt.Errorf("%s: %w", in.SubtaskID, domain.ErrSubtaskNotFound)
	}

	ok, err := uc.store.ToggleSubtask(in.TaskID, in.SubtaskID)
	if err := shared.EnsureApplied(ok, err, in.TaskID); err != nil {
		return nil, fmt.Errorf("toggle subtask: %w", err)
	}

	task, err = shared.GetTask(uc.store, in.TaskID)
	if err != nil {
		return nil, err
	}
	return &ToggleSubtaskOutput{Task: task}, nil
}
