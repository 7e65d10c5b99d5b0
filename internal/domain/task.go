// Package domain contains core business entities and interfaces.
package domain

import (
	"time"
)

// Task represents a unit of work tracked by focus-pilot.
// Fields are ordered to minimize memory padding.
type Task struct {
	CreatedAt        time.Time  `json:"createdAt" yaml:"createdAt"`
	DueDate          *time.Time `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	CompletedAt      *time.Time `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
	EstimatedMinutes *int       `json:"estimatedDuration,omitempty" yaml:"estimatedDuration,omitempty"`
	ActualMinutes    *int       `json:"actualDuration,omitempty" yaml:"actualDuration,omitempty"`
	ID               string     `json:"id" yaml:"id"`
	Title            string     `json:"title" yaml:"title"`
	Description      string     `json:"description,omitempty" yaml:"description,omitempty"`
	Priority         Priority   `json:"priority" yaml:"priority"`
	Status           Status     `json:"status" yaml:"status"`
	Subtasks         []Subtask  `json:"subtasks" yaml:"subtasks"`
	RecommendedToday bool       `json:"isRecommendedToday" yaml:"isRecommendedToday"`
}

// Subtask is a checklist item owned by a single task.
type Subtask struct {
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Completed   bool       `json:"isCompleted" yaml:"isCompleted"`
}

// Toggle flips the completion flag and stamps or clears CompletedAt.
func (s *Subtask) Toggle(now time.Time) {
	s.Completed = !s.Completed
	if s.Completed {
		s.CompletedAt = &now
	} else {
		s.CompletedAt = nil
	}
}

// Clone returns a deep copy of the task so callers cannot alias store state.
func (t Task) Clone() Task {
	c := t
	c.DueDate = CloneTime(t.DueDate)
	c.CompletedAt = CloneTime(t.CompletedAt)
	c.EstimatedMinutes = CloneInt(t.EstimatedMinutes)
	c.ActualMinutes = CloneInt(t.ActualMinutes)
	if t.Subtasks != nil {
		c.Subtasks = make([]Subtask, len(t.Subtasks))
		for i, s := range t.Subtasks {
			s.CompletedAt = CloneTime(s.CompletedAt)
			c.Subtasks[i] = s
		}
	}
	return c
}

// IsCompleted returns true if the task is in the completed state.
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// MarkCompleted sets the task to completed and stamps CompletedAt.
func (t *Task) MarkCompleted(now time.Time) {
	t.Status = StatusCompleted
	t.CompletedAt = &now
}

// ReconcileStatus derives the status from the subtask list.
// A non-empty, fully completed checklist forces completed; a completed task
// with any open subtask reverts to in_progress. Tasks without subtasks keep
// their explicit status.
func (t *Task) ReconcileStatus(now time.Time) {
	if len(t.Subtasks) == 0 {
		return
	}
	if t.allSubtasksCompleted() {
		if t.Status != StatusCompleted || t.CompletedAt == nil {
			t.MarkCompleted(now)
		}
		return
	}
	if t.Status == StatusCompleted {
		t.Status = StatusInProgress
		t.CompletedAt = nil
	}
}

func (t *Task) allSubtasksCompleted() bool {
	for _, s := range t.Subtasks {
		if !s.Completed {
			return false
		}
	}
	return true
}

// FindSubtask returns the index of the subtask with the given ID, or -1.
func (t *Task) FindSubtask(id string) int {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == id {
			return i
		}
	}
	return -1
}

// CompletionRatio returns the fraction of completed subtasks.
// Without subtasks it is 1 for a completed task and 0 otherwise.
func (t *Task) CompletionRatio() float64 {
	if len(t.Subtasks) == 0 {
		if t.IsCompleted() {
			return 1
		}
		return 0
	}
	done := 0
	for _, s := range t.Subtasks {
		if s.Completed {
			done++
		}
	}
	return float64(done) / float64(len(t.Subtasks))
}

// IsOverdue returns true if the due date has passed and the task is open.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	return t.DueDate.Before(now) && !t.IsCompleted()
}

// DaysUntilDue returns the number of whole days until the due date.
// ok is false when the task has no due date.
func (t *Task) DaysUntilDue(now time.Time) (days int, ok bool) {
	if t.DueDate == nil {
		return 0, false
	}
	return int(t.DueDate.Sub(now) / (24 * time.Hour)), true
}

// AddActualMinutes accumulates focused time on the task.
func (t *Task) AddActualMinutes(minutes int) {
	if minutes <= 0 {
		return
	}
	total := minutes
	if t.ActualMinutes != nil {
		total += *t.ActualMinutes
	}
	t.ActualMinutes = &total
}

// CloneTime returns a copy of the pointed-to time, or nil.
func CloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// CloneInt returns a copy of the pointed-to int, or nil.
func CloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
