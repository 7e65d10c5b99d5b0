package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/focus-pilot/internal/domain"
)

// Bounds on the number of subtasks accepted from the completion service.
const (
	MinBreakdownSteps = 3
	MaxBreakdownSteps = 8
)

// FallbackBreakdown is used when the completion service cannot help.
var FallbackBreakdown = []string{
	"Analyze requirements",
	"Make a plan",
	"Implement",
	"Review and polish",
}

type breakdownStep struct {
	Title string `json:"title"`
}

// Breakdown asks for subtask titles for the task. It never fails; the
// second result reports whether the titles came from the completion service.
func (g *Generator) Breakdown(ctx context.Context, task domain.Task) ([]string, Source) {
	titles, err := g.breakdownFromCompleter(ctx, task)
	if err != nil {
		g.logger.Warn(logCategory, fmt.Sprintf("breakdown %s: using fallback: %v", task.ID, err))
		return append([]string(nil), FallbackBreakdown...), SourceFallback
	}
	return titles, SourceAI
}

func (g *Generator) breakdownFromCompleter(ctx context.Context, task domain.Task) ([]string, error) {
	if g.completer == nil || !g.completer.Available() {
		return nil, domain.ErrNoCredential
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.completer.Complete(ctx, breakdownSystemPrompt, buildBreakdownPrompt(task))
	if err != nil {
		return nil, fmt.Errorf("completion: %w", err)
	}

	var steps []breakdownStep
	if err := decodeArray(text, &steps); err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(steps))
	for _, s := range steps {
		if t := strings.TrimSpace(s.Title); t != "" {
			titles = append(titles, t)
		}
		if len(titles) == MaxBreakdownSteps {
			break
		}
	}
	if len(titles) < MinBreakdownSteps {
		return nil, fmt.Errorf("%w: %d usable subtasks", domain.ErrMalformedResponse, len(titles))
	}
	return titles, nil
}
