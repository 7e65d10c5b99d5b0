package usecase

import (
	"context"
	"slices"

	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/store"
)

// ListTasksInput contains the parameters for listing tasks.
type ListTasksInput struct {
	Status          string // Filter by status (empty = all)
	Priority        string // Filter by priority (empty = all)
	IncludeDone     bool   // Include completed tasks when no status filter is set
	OverdueOnly     bool   // Only open tasks past their due date
	RecommendedOnly bool   // Only tasks selected at today's standup
}

// ListTasksOutput contains the result of listing tasks.
type ListTasksOutput struct {
	Tasks []domain.Task // Tasks in insertion order
}

// ListTasks is the use case for listing tasks.
type ListTasks struct {
	store *store.Store
	clock domain.Clock
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(st *store.Store, clock domain.Clock) *ListTasks {
	return &ListTasks{
		store: st,
		clock: clock,
	}
}

// Execute lists tasks matching the given input criteria.
func (uc *ListTasks) Execute(_ context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	var status domain.Status
	if in.Status != "" {
		s, err := domain.ParseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		status = s
	}
	var priority domain.Priority
	if in.Priority != "" {
		p, err := domain.ParsePriority(in.Priority)
		if err != nil {
			return nil, err
		}
		priority = p
	}

	now := uc.clock.Now()
	tasks := slices.DeleteFunc(uc.store.Tasks(), func(t domain.Task) bool {
		switch {
		case status != "" && t.Status != status:
			return true
		case status == "" && !in.IncludeDone && t.IsCompleted():
			return true
		case priority != "" && t.Priority != priority:
			return true
		case in.OverdueOnly && !t.IsOverdue(now):
			return true
		case in.RecommendedOnly && !t.RecommendedToday:
			return true
		}
		return false
	})

	return &ListTasksOutput{Tasks: tasks}, nil
}
