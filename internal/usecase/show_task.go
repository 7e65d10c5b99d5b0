package usecase

import (
	"context"

	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/store"
	"github.com/runoshun/focus-pilot/internal/usecase/shared"
)

// ShowTaskInput contains the parameters for showing a task.
type ShowTaskInput struct {
	TaskID string
}

// ShowTaskOutput contains the task and its related records.
// Fields are ordered to minimize memory padding.
type ShowTaskOutput struct {
	Recommendation *domain.Recommendation // Today's recommendation, if any
	Sessions       []domain.FocusSession  // Focus sessions on this task, oldest first
	Task           domain.Task
	FocusMinutes   int // Sum of session minutes
}

// ShowTask is the use case for displaying task details.
type ShowTask struct {
	store *store.Store
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(st *store.Store) *ShowTask {
	return &ShowTask{store: st}
}

// Execute retrieves the task with its sessions and today's recommendation.
func (uc *ShowTask) Execute(_ context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	task, err := shared.GetTask(uc.store, in.TaskID)
	if err != nil {
		return nil, err
	}

	out := &ShowTaskOutput{Task: task, Sessions: []domain.FocusSession{}}
	for _, s := range uc.store.Sessions() {
		if s.TaskID != task.ID {
			continue
		}
		out.Sessions = append(out.Sessions, s)
		if s.IsFinished() {
			out.FocusMinutes += s.EffectiveMinutes()
		}
	}
	for _, r := range uc.store.Recommendations() {
		if r.TaskID == task.ID {
			out.Recommendation = &r
			break
		}
	}
	return out, nil
}
