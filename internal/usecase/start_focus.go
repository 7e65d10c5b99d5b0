package usecase

import (
	"context"

	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/focus"
	"github.com/runoshun/focus-pilot/internal/recommend"
	"github.com/runoshun/focus-pilot/internal/store"
	"github.com/runoshun/focus-pilot/internal/usecase/shared"
)

// StartFocusInput contains the parameters for starting a focus session.
type StartFocusInput struct {
	TaskID  string
	Minutes int // Session length (0 = today's suggestion, else a guess from the task)
}

// StartFocusOutput describes the started session.
type StartFocusOutput struct {
	Snapshot focus.Snapshot
	Minutes  int
}

// StartFocus starts a focus session on a task.
type StartFocus struct {
	store          *store.Store
	controller     *focus.Controller
	defaultMinutes int
}

// NewStartFocus creates a new StartFocus use case.
// defaultMinutes is used when nothing better is known about the task.
func NewStartFocus(st *store.Store, controller *focus.Controller, defaultMinutes int) *StartFocus {
	return &StartFocus{
		store:          st,
		controller:     controller,
		defaultMinutes: defaultMinutes,
	}
}

// Execute resolves the session length and starts the timer.
func (uc *StartFocus) Execute(ctx context.Context, in StartFocusInput) (*StartFocusOutput, error) {
	task, err := shared.GetTask(uc.store, in.TaskID)
	if err != nil {
		return nil, err
	}
	if in.Minutes < 0 {
		return nil, domain.ErrInvalidDuration
	}

	minutes := in.Minutes
	if minutes == 0 {
		minutes = uc.suggest(task)
	}

	if err := uc.controller.Start(ctx, task.ID, minutes); err != nil {
		return nil, err
	}
	return &StartFocusOutput{Snapshot: uc.controller.Snapshot(), Minutes: minutes}, nil
}

func (uc *StartFocus) suggest(task domain.Task) int {
	for _, r := range uc.store.Recommendations() {
		if r.TaskID == task.ID && r.SuggestedMinutes > 0 {
			return r.SuggestedMinutes
		}
	}
	return recommend.SuggestedMinutes(task, uc.defaultMinutes)
}
