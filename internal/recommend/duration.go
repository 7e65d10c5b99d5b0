package recommend

import (
	"strings"

	"github.com/runoshun/focus-pilot/internal/domain"
)

// MaxSuggestedMinutes caps a suggestion taken from the task estimate.
const MaxSuggestedMinutes = 90

var durationKeywords = []struct {
	words   []string
	minutes int
}{
	{words: []string{"meeting", "call", "sync"}, minutes: 30},
	{words: []string{"code", "develop", "implement", "program"}, minutes: 45},
	{words: []string{"write", "doc", "report"}, minutes: 60},
	{words: []string{"learn", "research", "read", "study"}, minutes: 25},
}

// SuggestedMinutes proposes a focus duration for the task: its estimate
// capped at 90 minutes, otherwise a guess from title keywords, otherwise
// fallback. A non-positive fallback means the default pomodoro.
func SuggestedMinutes(task domain.Task, fallback int) int {
	if task.EstimatedMinutes != nil && *task.EstimatedMinutes > 0 {
		return min(*task.EstimatedMinutes, MaxSuggestedMinutes)
	}
	title := strings.ToLower(task.Title)
	for _, k := range durationKeywords {
		for _, w := range k.words {
			if strings.Contains(title, w) {
				return k.minutes
			}
		}
	}
	if fallback <= 0 {
		return domain.DefaultFocusMinutes
	}
	return fallback
}
