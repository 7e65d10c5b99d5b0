package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/store"
)

type sampleTask struct {
	subtasks    []string
	title       string
	description string
	priority    domain.Priority
	status      domain.Status
	dueInDays   int // 0 = no due date
	estimate    int
}

var sampleTasks = []sampleTask{
	{
		title:       "Build user authentication module",
		description: "Sign-up, login and password reset, covering both UI and API",
		priority:    domain.PriorityHigh,
		dueInDays:   2,
		estimate:    25,
		subtasks:    []string{"Design the sign-up screen", "Implement the sign-up API", "Add form validation", "Write unit tests"},
	},
	{
		title:       "Write project technical docs",
		description: "API reference, deployment guide and user manual",
		priority:    domain.PriorityMedium,
		dueInDays:   5,
		estimate:    45,
		subtasks:    []string{"List the API endpoints", "Document the endpoints", "Write the deployment guide", "Write the user manual"},
	},
	{
		title:       "Code review and refactoring",
		description: "Review existing code, improve performance, remove duplication",
		priority:    domain.PriorityMedium,
		status:      domain.StatusCompleted,
		estimate:    60,
	},
	{
		title:       "Prepare customer demo",
		description: "Demo slides and a demo environment",
		priority:    domain.PriorityHigh,
		dueInDays:   1,
		estimate:    30,
	},
	{
		title:       "Learn a new framework",
		description: "Study advanced features and the reactive toolkit",
		priority:    domain.PriorityLow,
		status:      domain.StatusInProgress,
		dueInDays:   10,
		estimate:    90,
	},
	{
		title:       "Fix known bugs",
		description: "Display glitches and data sync issues reported by users",
		priority:    domain.PriorityHigh,
		dueInDays:   -1,
		estimate:    30,
	},
}

// SeedSampleTasksInput contains the parameters for seeding demo data.
type SeedSampleTasksInput struct{}

// SeedSampleTasksOutput contains the created tasks.
type SeedSampleTasksOutput struct {
	Tasks   []domain.Task
	Skipped bool // The store already had tasks
}

// SeedSampleTasks fills an empty store with demo tasks.
type SeedSampleTasks struct {
	store *store.Store
	clock domain.Clock
}

// NewSeedSampleTasks creates a new SeedSampleTasks use case.
func NewSeedSampleTasks(st *store.Store, clock domain.Clock) *SeedSampleTasks {
	return &SeedSampleTasks{store: st, clock: clock}
}

// Execute creates the demo tasks unless the store has tasks already.
func (uc *SeedSampleTasks) Execute(_ context.Context, _ SeedSampleTasksInput) (*SeedSampleTasksOutput, error) {
	if len(uc.store.Tasks()) > 0 {
		return &SeedSampleTasksOutput{Skipped: true}, nil
	}

	now := uc.clock.Now()
	created := make([]domain.Task, 0, len(sampleTasks))
	for i, s := range sampleTasks {
		in := store.NewTask{
			Title:       s.title,
			Description: s.description,
			Priority:    s.priority,
		}
		if s.dueInDays != 0 {
			due := now.AddDate(0, 0, s.dueInDays)
			in.DueDate = &due
		}
		estimate := s.estimate
		in.EstimatedMinutes = &estimate

		task, err := uc.store.Add(in)
		if err != nil {
			return nil, fmt.Errorf("seed task %d: %w", i+1, err)
		}
		if len(s.subtasks) > 0 {
			if _, err := uc.store.SetSubtasks(task.ID, s.subtasks); err != nil {
				return nil, fmt.Errorf("seed subtasks %d: %w", i+1, err)
			}
		}
		if i == 0 {
			// The first demo task starts with one subtask done.
			task, _ = uc.store.Task(task.ID)
			if _, err := uc.store.ToggleSubtask(task.ID, task.Subtasks[0].ID); err != nil {
				return nil, fmt.Errorf("seed subtasks %d: %w", i+1, err)
			}
		}
		if err := uc.applySampleStatus(task.ID, s.status, now); err != nil {
			return nil, fmt.Errorf("seed task %d: %w", i+1, err)
		}

		task, _ = uc.store.Task(task.ID)
		created = append(created, task)
	}
	return &SeedSampleTasksOutput{Tasks: created}, nil
}

func (uc *SeedSampleTasks) applySampleStatus(id string, status domain.Status, now time.Time) error {
	switch status {
	case domain.StatusCompleted:
		task, _ := uc.store.Task(id)
		task.MarkCompleted(now.Add(-2 * time.Hour))
		_, err := uc.store.Update(task)
		return err
	case domain.StatusInProgress:
		_, err := uc.store.MarkInProgress(id)
		return err
	}
	return nil
}
