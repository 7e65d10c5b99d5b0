package usecase

import (
	"context"
	"slices"

	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/store"
)

// ListSessionsInput contains the parameters for listing focus sessions.
type ListSessionsInput struct {
	TaskID    string // Filter by task (empty = all)
	TodayOnly bool   // Only sessions started today
}

// SessionWithTask pairs a session with its task title.
type SessionWithTask struct {
	TaskTitle string // Empty when the task was deleted
	Session   domain.FocusSession
}

// ListSessionsOutput contains the matching sessions, newest first.
type ListSessionsOutput struct {
	Sessions []SessionWithTask
}

// ListSessions is the use case for listing the focus session log.
type ListSessions struct {
	store *store.Store
	clock domain.Clock
}

// NewListSessions creates a new ListSessions use case.
func NewListSessions(st *store.Store, clock domain.Clock) *ListSessions {
	return &ListSessions{store: st, clock: clock}
}

// Execute lists sessions.
func (uc *ListSessions) Execute(_ context.Context, in ListSessionsInput) (*ListSessionsOutput, error) {
	titles := make(map[string]string)
	for _, t := range uc.store.Tasks() {
		titles[t.ID] = t.Title
	}

	now := uc.clock.Now()
	sessions := uc.store.Sessions()
	out := make([]SessionWithTask, 0, len(sessions))
	for _, s := range sessions {
		if in.TaskID != "" && s.TaskID != in.TaskID {
			continue
		}
		if in.TodayOnly && !domain.SameDay(s.StartedAt, now) {
			continue
		}
		out = append(out, SessionWithTask{Session: s, TaskTitle: titles[s.TaskID]})
	}
	slices.Reverse(out)
	return &ListSessionsOutput{Sessions: out}, nil
}
