package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/recommend"
	"github.com/runoshun/focus-pilot/internal/store"
)

// RecommendedTask pairs a recommendation with the task it points to.
type RecommendedTask struct {
	Recommendation domain.Recommendation
	Task           domain.Task
}

// GenerateRecommendationsInput contains the parameters for the standup.
type GenerateRecommendationsInput struct{}

// GenerateRecommendationsOutput contains today's recommendations.
// Fields are ordered to minimize memory padding.
type GenerateRecommendationsOutput struct {
	LastStandup *time.Time // When a selection was last accepted
	Source      recommend.Source
	Items       []RecommendedTask
}

// GenerateRecommendations runs the daily standup: it recommends open
// tasks for today and replaces the stored recommendations.
type GenerateRecommendations struct {
	store     *store.Store
	generator *recommend.Generator
	logger    domain.Logger
}

// NewGenerateRecommendations creates a new GenerateRecommendations use case.
func NewGenerateRecommendations(st *store.Store, generator *recommend.Generator, logger domain.Logger) *GenerateRecommendations {
	return &GenerateRecommendations{
		store:     st,
		generator: generator,
		logger:    logger,
	}
}

// Execute generates and stores today's recommendations.
func (uc *GenerateRecommendations) Execute(ctx context.Context, _ GenerateRecommendationsInput) (*GenerateRecommendationsOutput, error) {
	open := uc.store.Open()
	res := uc.generator.Generate(ctx, open)

	if err := uc.store.SetRecommendations(res.Recommendations); err != nil {
		return nil, fmt.Errorf("save recommendations: %w", err)
	}
	if uc.logger != nil {
		uc.logger.Info("standup", fmt.Sprintf("%d recommendations from %s", len(res.Recommendations), res.Source))
	}

	out := &GenerateRecommendationsOutput{
		Source: res.Source,
		Items:  joinRecommendations(res.Recommendations, open),
	}
	if last, ok := uc.store.LastStandup(); ok {
		out.LastStandup = &last
	}
	return out, nil
}

// AcceptStandupInput contains the selected task IDs.
type AcceptStandupInput struct {
	TaskIDs []string // Tasks to work on today (empty = every recommended task)
}

// AcceptStandupOutput contains the tasks selected for today.
type AcceptStandupOutput struct {
	Tasks []domain.Task
}

// AcceptStandup records which tasks the user commits to today.
type AcceptStandup struct {
	store *store.Store
}

// NewAcceptStandup creates a new AcceptStandup use case.
func NewAcceptStandup(st *store.Store) *AcceptStandup {
	return &AcceptStandup{store: st}
}

// Execute flags exactly the selected tasks as recommended today.
func (uc *AcceptStandup) Execute(_ context.Context, in AcceptStandupInput) (*AcceptStandupOutput, error) {
	ids := in.TaskIDs
	if len(ids) == 0 {
		for _, r := range uc.store.Recommendations() {
			ids = append(ids, r.TaskID)
		}
	}
	for _, id := range ids {
		if _, ok := uc.store.Task(id); !ok {
			return nil, fmt.Errorf("%s: %w", id, domain.ErrTaskNotFound)
		}
	}

	if err := uc.store.SelectRecommended(ids); err != nil {
		return nil, fmt.Errorf("save selection: %w", err)
	}

	return &AcceptStandupOutput{Tasks: selectedTasks(uc.store.Tasks())}, nil
}

// ListTodayInput contains the parameters for listing today's plan.
type ListTodayInput struct{}

// ListTodayOutput contains today's recommendations and selection.
type ListTodayOutput struct {
	Recommendations []RecommendedTask // Recommendations whose task still exists
	Selected        []domain.Task     // Tasks selected at the standup
}

// ListToday shows today's plan.
type ListToday struct {
	store *store.Store
}

// NewListToday creates a new ListToday use case.
func NewListToday(st *store.Store) *ListToday {
	return &ListToday{store: st}
}

// Execute returns today's recommendations and selected tasks.
func (uc *ListToday) Execute(_ context.Context, _ ListTodayInput) (*ListTodayOutput, error) {
	tasks := uc.store.Tasks()
	return &ListTodayOutput{
		Recommendations: joinRecommendations(uc.store.Recommendations(), tasks),
		Selected:        selectedTasks(tasks),
	}, nil
}

func selectedTasks(tasks []domain.Task) []domain.Task {
	selected := make([]domain.Task, 0)
	for _, t := range tasks {
		if t.RecommendedToday {
			selected = append(selected, t)
		}
	}
	return selected
}

// joinRecommendations resolves each recommendation's task, skipping
// dangling references.
func joinRecommendations(recs []domain.Recommendation, tasks []domain.Task) []RecommendedTask {
	byID := make(map[string]domain.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	items := make([]RecommendedTask, 0, len(recs))
	for _, r := range recs {
		if t, ok := byID[r.TaskID]; ok {
			items = append(items, RecommendedTask{Recommendation: r, Task: t})
		}
	}
	return items
}
