package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/store"
)

// ClearCompletedInput contains the parameters for clearing completed tasks.
type ClearCompletedInput struct{}

// ClearCompletedOutput contains the result of clearing completed tasks.
type ClearCompletedOutput struct {
	Removed int
}

// ClearCompleted removes every completed task.
type ClearCompleted struct {
	store  *store.Store
	logger domain.Logger
}

// NewClearCompleted creates a new ClearCompleted use case.
func NewClearCompleted(st *store.Store, logger domain.Logger) *ClearCompleted {
	return &ClearCompleted{store: st, logger: logger}
}

// Execute removes completed tasks.
func (uc *ClearCompleted) Execute(_ context.Context, _ ClearCompletedInput) (*ClearCompletedOutput, error) {
	removed, err := uc.store.ClearCompleted()
	if err != nil {
		return nil, fmt.Errorf("save tasks: %w", err)
	}
	if uc.logger != nil && removed > 0 {
		uc.logger.Info("task", fmt.Sprintf("cleared %d completed tasks", removed))
	}
	return &ClearCompletedOutput{Removed: removed}, nil
}
