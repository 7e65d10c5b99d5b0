// Package recommend produces the daily standup recommendations and task
// breakdowns, asking a completion service first and falling back to a
// deterministic ordering.
package recommend

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/runoshun/focus-pilot/internal/domain"
)

const logCategory = "recommend"

// Limits and defaults for recommendations.
const (
	MaxRecommendations      = 5
	FallbackCount           = 3
	DefaultSuggestedMinutes = 30
	FallbackReason          = "Recommended by priority and due date"
)

// Source tells where a result came from.
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

// Result is the outcome of Generate.
type Result struct {
	Source          Source
	Recommendations []domain.Recommendation
}

// Generator builds recommendations for the open tasks.
type Generator struct {
	completer domain.Completer
	clock     domain.Clock
	ids       domain.IDGenerator
	logger    domain.Logger
	timeout   time.Duration
}

// NewGenerator creates a Generator. completer may be nil, in which case
// every call uses the fallback ordering. A non-positive timeout means
// domain.DefaultLLMTimeout.
func NewGenerator(completer domain.Completer, clock domain.Clock, ids domain.IDGenerator, logger domain.Logger, timeout time.Duration) *Generator {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	if timeout <= 0 {
		timeout = domain.DefaultLLMTimeout
	}
	return &Generator{
		completer: completer,
		clock:     clock,
		ids:       ids,
		logger:    logger,
		timeout:   timeout,
	}
}

// Generate returns recommendations for open. It never fails: any problem
// with the completion service yields the fallback ordering instead.
// Input order matters for title matching; the first matching task wins.
func (g *Generator) Generate(ctx context.Context, open []domain.Task) Result {
	if len(open) == 0 {
		return Result{Source: SourceFallback, Recommendations: []domain.Recommendation{}}
	}

	recs, err := g.fromCompleter(ctx, open)
	if err != nil {
		g.logger.Warn(logCategory, fmt.Sprintf("using fallback: %v", err))
		return Result{Source: SourceFallback, Recommendations: g.Fallback(open)}
	}

	g.logger.Info(logCategory, fmt.Sprintf("generated %d recommendations", len(recs)))
	return Result{Source: SourceAI, Recommendations: recs}
}

func (g *Generator) fromCompleter(ctx context.Context, open []domain.Task) ([]domain.Recommendation, error) {
	if g.completer == nil || !g.completer.Available() {
		return nil, domain.ErrNoCredential
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.completer.Complete(ctx, recommendSystemPrompt, buildRecommendPrompt(open, g.clock.Now()))
	if err != nil {
		return nil, fmt.Errorf("completion: %w", err)
	}

	var suggestions []suggestion
	if err := decodeArray(text, &suggestions); err != nil {
		return nil, err
	}

	recs := g.match(suggestions, open)
	if len(recs) == 0 {
		return nil, errors.New("no suggestion matched an open task")
	}
	return recs, nil
}

// suggestion is one element of the completion service's JSON array.
type suggestion struct {
	TaskTitle         string `json:"taskTitle"`
	Reason            string `json:"reason"`
	SuggestedDuration int    `json:"suggestedDuration"`
}

// match resolves suggestions to tasks by title containment in either
// direction. Each task is recommended at most once.
func (g *Generator) match(suggestions []suggestion, open []domain.Task) []domain.Recommendation {
	now := g.clock.Now()
	seen := make(map[string]bool)
	recs := make([]domain.Recommendation, 0, MaxRecommendations)

	for _, s := range suggestions {
		if len(recs) == MaxRecommendations {
			break
		}
		title := strings.TrimSpace(s.TaskTitle)
		if title == "" {
			continue
		}
		task, ok := findByTitle(open, title)
		if !ok || seen[task.ID] {
			continue
		}
		seen[task.ID] = true

		minutes := s.SuggestedDuration
		if minutes <= 0 {
			minutes = DefaultSuggestedMinutes
		}
		recs = append(recs, domain.Recommendation{
			ID:               g.ids.NewID(),
			TaskID:           task.ID,
			Reason:           strings.TrimSpace(s.Reason),
			SuggestedMinutes: minutes,
			CreatedAt:        now,
		})
	}
	return recs
}

func findByTitle(tasks []domain.Task, title string) (domain.Task, bool) {
	for _, t := range tasks {
		stored := strings.TrimSpace(t.Title)
		if stored == "" {
			continue
		}
		if strings.Contains(stored, title) || strings.Contains(title, stored) {
			return t, true
		}
	}
	return domain.Task{}, false
}

// Fallback ranks open tasks by priority, then due date (dated first,
// earliest first), then creation time, then ID, and recommends the top three.
func (g *Generator) Fallback(open []domain.Task) []domain.Recommendation {
	ranked := slices.Clone(open)
	slices.SortStableFunc(ranked, compareForFallback)

	n := min(FallbackCount, len(ranked))
	now := g.clock.Now()
	recs := make([]domain.Recommendation, 0, n)
	for _, t := range ranked[:n] {
		recs = append(recs, domain.Recommendation{
			ID:               g.ids.NewID(),
			TaskID:           t.ID,
			Reason:           FallbackReason,
			SuggestedMinutes: DefaultSuggestedMinutes,
			CreatedAt:        now,
		})
	}
	return recs
}

func compareForFallback(a, b domain.Task) int {
	if c := cmp.Compare(a.Priority.Rank(), b.Priority.Rank()); c != 0 {
		return c
	}
	switch {
	case a.DueDate != nil && b.DueDate == nil:
		return -1
	case a.DueDate == nil && b.DueDate != nil:
		return 1
	case a.DueDate != nil && b.DueDate != nil:
		if c := a.DueDate.Compare(*b.DueDate); c != 0 {
			return c
		}
	}
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
