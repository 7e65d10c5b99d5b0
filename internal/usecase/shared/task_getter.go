// Package shared holds helpers used by several use cases.
package shared

import (
	"fmt"

	"github.com/runoshun/focus-pilot/internal/domain"
)

// TaskReader looks up tasks by ID.
type TaskReader interface {
	Task(id string) (domain.Task, bool)
}

// GetTask retrieves a task by ID and returns domain.ErrTaskNotFound if not found.
// The store treats unknown IDs as silent no-ops; commands addressed by the
// user go through here so the user sees a message.
func GetTask(tasks TaskReader, taskID string) (domain.Task, error) {
	task, ok := tasks.Task(taskID)
	if !ok {
		return domain.Task{}, fmt.Errorf("%s: %w", taskID, domain.ErrTaskNotFound)
	}
	return task, nil
}

// EnsureApplied turns a mutation's (applied, err) result into an error.
func EnsureApplied(applied bool, err error, taskID string) error {
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("%s: %w", taskID, domain.ErrTaskNotFound)
	}
	return nil
}
