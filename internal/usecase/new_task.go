// Package usecase contains application use cases.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/store"
)

// NewTaskInput contains the parameters for creating a new task.
// Fields are ordered to minimize memory padding.
type NewTaskInput struct {
	DueDate          *time.Time // Due date (optional)
	EstimatedMinutes *int       // Estimated duration in minutes (optional)
	Title            string     // Task title (required)
	Description      string     // Task description (optional)
	Priority         string     // high, medium or low (empty = medium)
}

// NewTaskOutput contains the result of creating a new task.
type NewTaskOutput struct {
	Task domain.Task // The created task
}

// NewTask is the use case for creating a new task.
type NewTask struct {
	store  *store.Store
	logger domain.Logger
}

// NewNewTask creates a new NewTask use case.
func NewNewTask(st *store.Store, logger domain.Logger) *NewTask {
	return &NewTask{
		store:  st,
		logger: logger,
	}
}

// Execute creates a new task with the given input.
func (uc *NewTask) Execute(_ context.Context, in NewTaskInput) (*NewTaskOutput, error) {
	priority, err := domain.ParsePriority(in.Priority)
	if err != nil {
		return nil, err
	}
	if in.EstimatedMinutes != nil && *in.EstimatedMinutes <= 0 {
		return nil, fmt.Errorf("estimate: %w", domain.ErrInvalidDuration)
	}

	task, err := uc.store.Add(store.NewTask{
		Title:            in.Title,
		Description:      in.Description,
		Priority:         priority,
		DueDate:          in.DueDate,
		EstimatedMinutes: in.EstimatedMinutes,
	})
	if errors.Is(err, domain.ErrEmptyTitle) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info("task", fmt.Sprintf("created %s: %q", task.ID, task.Title))
	}

	return &NewTaskOutput{Task: task}, nil
}
