package usecase

import (
	"context"

	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/store"
)

// ShowStatsInput contains the parameters for ShowStats.
type ShowStatsInput struct{}

// ShowStatsOutput contains task and focus statistics.
type ShowStatsOutput struct {
	AverageSessionMinutes float64
	TotalTasks            int
	Pending               int
	InProgress            int
	Completed             int
	Overdue               int
	TotalSessions         int
	CompletedSessions     int
	TodaySessions         int
	TotalFocusMinutes     int
	TodayFocusMinutes     int
}

// CompletionRate returns the completed share of all tasks in [0, 1].
func (o *ShowStatsOutput) CompletionRate() float64 {
	if o.TotalTasks == 0 {
		return 0
	}
	return float64(o.Completed) / float64(o.TotalTasks)
}

// ShowStats summarizes tasks and focus sessions.
type ShowStats struct {
	store *store.Store
	clock domain.Clock
}

// NewShowStats creates a new ShowStats use case.
func NewShowStats(st *store.Store, clock domain.Clock) *ShowStats {
	return &ShowStats{store: st, clock: clock}
}

// Execute computes the statistics.
// Session minutes use the recorded actual time, else the planned time.
func (uc *ShowStats) Execute(_ context.Context, _ ShowStatsInput) (*ShowStatsOutput, error) {
	now := uc.clock.Now()
	out := &ShowStatsOutput{}

	for _, t := range uc.store.Tasks() {
		out.TotalTasks++
		switch t.Status {
		case domain.StatusPending:
			out.Pending++
		case domain.StatusInProgress:
			out.InProgress++
		case domain.StatusCompleted:
			out.Completed++
		}
		if t.IsOverdue(now) {
			out.Overdue++
		}
	}

	for _, s := range uc.store.Sessions() {
		out.TotalSessions++
		minutes := s.EffectiveMinutes()
		out.TotalFocusMinutes += minutes
		if s.Completed {
			out.CompletedSessions++
		}
		if domain.SameDay(s.StartedAt, now) {
			out.TodaySessions++
			out.TodayFocusMinutes += minutes
		}
	}
	if out.TotalSessions > 0 {
		out.AverageSessionMinutes = float64(out.TotalFocusMinutes) / float64(out.TotalSessions)
	}
	return out, nil
}
