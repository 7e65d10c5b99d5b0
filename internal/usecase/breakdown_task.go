package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/recommend"
	"github.com/runoshun/focus-pilot/internal/store"
	"github.com/runoshun/focus-pilot/internal/usecase/shared"
)

// BreakdownTaskInput contains the parameters for breaking a task down.
type BreakdownTaskInput struct {
	TaskID string
	DryRun bool // Only return the proposed titles
}

// BreakdownTaskOutput contains the proposed subtasks.
type BreakdownTaskOutput struct {
	Source recommend.Source
	Titles []string
	Task   domain.Task // The task after the checklist was replaced
}

// BreakdownTask replaces a task's checklist with proposed subtasks.
type BreakdownTask struct {
	store     *store.Store
	generator *recommend.Generator
}

// NewBreakdownTask creates a new BreakdownTask use case.
func NewBreakdownTask(st *store.Store, generator *recommend.Generator) *BreakdownTask {
	return &BreakdownTask{
		store:     st,
		generator: generator,
	}
}

// Execute asks for subtasks and, unless DryRun, stores them.
func (uc *BreakdownTask) Execute(ctx context.Context, in BreakdownTaskInput) (*BreakdownTaskOutput, error) {
	task, err := shared.GetTask(uc.store, in.TaskID)
	if err != nil {
		return nil, err
	}

	titles, source := uc.generator.Breakdown(ctx, task)
	out := &BreakdownTaskOutput{Source: source, Titles: titles, Task: task}
	if in.DryRun {
		return out, nil
	}

	ok, err := uc.store.SetSubtasks(in.TaskID, titles)
	if err := shared.EnsureApplied(ok, err, in.TaskID); err != nil {
		return nil, fmt.Errorf("save subtasks: %w", err)
	}
	if out.Task, err = shared.GetTask(uc.store, in.TaskID); err != nil {
		return nil, err
	}
	return out, nil
}
