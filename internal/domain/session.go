package domain

import "time"

// FocusSession is one timed interval of concentration on a single task.
// Sessions form an append-only log; Finish fills the completion fields once.
type FocusSession struct {
	StartedAt      time.Time  `json:"startTime" yaml:"startTime"`
	EndedAt        *time.Time `json:"endTime,omitempty" yaml:"endTime,omitempty"`
	ActualMinutes  *int       `json:"actualDuration,omitempty" yaml:"actualDuration,omitempty"`
	ID             string     `json:"id" yaml:"id"`
	TaskID         string     `json:"taskId" yaml:"taskId"`
	PlannedMinutes int        `json:"duration" yaml:"duration"`
	Completed      bool       `json:"isCompleted" yaml:"isCompleted"`
}

// IsFinished returns true once Finish has been called.
func (s *FocusSession) IsFinished() bool {
	return s.EndedAt != nil
}

// Finish records the outcome of the session.
// completed is false when the session was stopped early.
func (s *FocusSession) Finish(actualMinutes int, completed bool, now time.Time) error {
	if s.IsFinished() {
		return ErrSessionFinished
	}
	if actualMinutes < 0 {
		actualMinutes = 0
	}
	s.ActualMinutes = &actualMinutes
	s.EndedAt = &now
	s.Completed = completed
	return nil
}

// EffectiveMinutes returns the actual minutes if recorded, else the plan.
func (s *FocusSession) EffectiveMinutes() int {
	if s.ActualMinutes != nil {
		return *s.ActualMinutes
	}
	return s.PlannedMinutes
}
