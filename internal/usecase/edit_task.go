package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/store"
	"github.com/runoshun/focus-pilot/internal/usecase/shared"
)

// EditTaskInput contains the parameters for editing a task.
// All fields except TaskID are optional. Only non-nil fields will be updated.
type EditTaskInput struct {
	Title            *string    // New title (nil = no change)
	Description      *string    // New description (nil = no change)
	Priority         *string    // New priority (nil = no change)
	Status           *string    // New status (nil = no change)
	DueDate          *time.Time // New due date (nil = no change)
	EstimatedMinutes *int       // New estimate (nil = no change)
	TaskID           string     // Task ID to edit (required)
	ClearDueDate     bool       // Remove the due date
}

// EditTaskOutput contains the result of editing a task.
type EditTaskOutput struct {
	Task domain.Task // The updated task
}

// EditTask is the use case for editing an existing task.
type EditTask struct {
	store *store.Store
	clock domain.Clock
}

// NewEditTask creates a new EditTask use case.
func NewEditTask(st *store.Store, clock domain.Clock) *EditTask {
	return &EditTask{
		store: st,
		clock: clock,
	}
}

// Execute edits a task with the given input.
func (uc *EditTask) Execute(_ context.Context, in EditTaskInput) (*EditTaskOutput, error) {
	if in.Title == nil && in.Description == nil && in.Priority == nil && in.Status == nil &&
		in.DueDate == nil && in.EstimatedMinutes == nil && !in.ClearDueDate {
		return nil, domain.ErrNoFieldsToUpdate
	}

	task, err := shared.GetTask(uc.store, in.TaskID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, domain.ErrEmptyTitle
		}
		task.Title = title
	}
	if in.Description != nil {
		task.Description = strings.TrimSpace(*in.Description)
	}
	if in.Priority != nil {
		p, err := domain.ParsePriority(*in.Priority)
		if err != nil {
			return nil, err
		}
		task.Priority = p
	}
	if in.Status != nil {
		s, err := domain.ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		applyStatus(&task, s, uc.clock.Now())
	}
	if in.ClearDueDate {
		task.DueDate = nil
	} else if in.DueDate != nil {
		due := *in.DueDate
		task.DueDate = &due
	}
	if in.EstimatedMinutes != nil {
		if *in.EstimatedMinutes <= 0 {
			return nil, fmt.Errorf("estimate: %w", domain.ErrInvalidDuration)
		}
		est := *in.EstimatedMinutes
		task.EstimatedMinutes = &est
	}

	ok, err := uc.store.Update(task)
	if err := shared.EnsureApplied(ok, err, in.TaskID); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	return &EditTaskOutput{Task: task}, nil
}

// applyStatus sets the status and keeps CompletedAt consistent with it.
func applyStatus(t *domain.Task, s domain.Status, now time.Time) {
	if s == domain.StatusCompleted {
		if !t.IsCompleted() {
			t.MarkCompleted(now)
		}
		return
	}
	t.Status = s
	t.CompletedAt = nil
}
