// Package store holds the application state: tasks, today's
// recommendations and the focus session log.
package store

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/infra/persist"
)

const logCategory = "store"

// EventKind identifies what changed.
type EventKind int

const (
	EventTaskAdded EventKind = iota + 1
	EventTaskUpdated
	EventTaskDeleted
	EventTaskCompleted
	EventSubtaskToggled
	EventCompletedCleared
	EventRecommendationsChanged
	EventSessionStarted
	EventSessionFinished
)

// String returns the string representation of the kind.
func (k EventKind) String() string {
	switch k {
	case EventTaskAdded:
		return "task_added"
	case EventTaskUpdated:
		return "task_updated"
	case EventTaskDeleted:
		return "task_deleted"
	case EventTaskCompleted:
		return "task_completed"
	case EventSubtaskToggled:
		return "subtask_toggled"
	case EventCompletedCleared:
		return "completed_cleared"
	case EventRecommendationsChanged:
		return "recommendations_changed"
	case EventSessionStarted:
		return "session_started"
	case EventSessionFinished:
		return "session_finished"
	default:
		return "unknown"
	}
}

// Event is published to subscribers after every mutation.
type Event struct {
	TaskID string
	Kind   EventKind
}

// NewTask holds the fields for Add.
type NewTask struct {
	DueDate          *time.Time
	EstimatedMinutes *int
	Title            string
	Description      string
	Priority         domain.Priority
}

// Store is the single owner of the three collections.
// All methods are safe for concurrent use. Queries return copies.
// Mutations addressing an unknown ID are no-ops reported by a false result.
// A failed write is returned to the caller; the in-memory state keeps the change.
type Store struct {
	persist  *persist.Adapter
	clock    domain.Clock
	ids      domain.IDGenerator
	logger   domain.Logger
	subs     map[int]func(Event)
	tasks    []domain.Task
	recs     []domain.Recommendation
	sessions []domain.FocusSession
	standup  time.Time
	nextSub  int
	mu       sync.Mutex
}

// New loads the collections through the adapter.
func New(adapter *persist.Adapter, clock domain.Clock, ids domain.IDGenerator, logger domain.Logger) *Store {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	now := clock.Now()
	s := &Store{
		persist:  adapter,
		clock:    clock,
		ids:      ids,
		logger:   logger,
		subs:     make(map[int]func(Event)),
		tasks:    adapter.LoadTasks(),
		recs:     adapter.LoadRecommendations(now),
		sessions: adapter.LoadSessions(),
	}
	s.standup, _ = adapter.LastStandup()
	if n := s.expireSelectionLocked(now); n > 0 {
		logger.Info(logCategory, fmt.Sprintf("cleared %d selection(s) from an earlier standup", n))
	}
	logger.Debug(logCategory, fmt.Sprintf("loaded %d tasks, %d recommendations, %d sessions",
		len(s.tasks), len(s.recs), len(s.sessions)))
	return s
}

// expireSelectionLocked clears RecommendedToday on tasks selected on an
// earlier day. A flag survives when the last standup was today or when one
// of today's recommendations references the task. Caller holds s.mu.
func (s *Store) expireSelectionLocked(now time.Time) int {
	if !s.standup.IsZero() && domain.SameDay(s.standup, now) {
		return 0
	}
	referenced := make(map[string]bool, len(s.recs))
	for _, r := range domain.FilterForDay(s.recs, now) {
		referenced[r.TaskID] = true
	}
	var n int
	for i := range s.tasks {
		if s.tasks[i].RecommendedToday && !referenced[s.tasks[i].ID] {
			s.tasks[i].RecommendedToday = false
			n++
		}
	}
	return n
}

// Subscribe registers fn for every event. The returned func unsubscribes.
// fn is called outside the store lock and may call back into the store.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) publish(events ...Event) {
	s.mu.Lock()
	subs := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, e := range events {
		for _, fn := range subs {
			fn(e)
		}
	}
}

// indexOf returns the index of the task with id, or -1. Caller holds s.mu.
func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t domain.Task) bool { return t.ID == id })
}

// mutateTask applies fn to the task and saves tasks. Caller must not hold s.mu.
func (s *Store) mutateTask(id string, kind EventKind, fn func(t *domain.Task, now time.Time)) (bool, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}
	fn(&s.tasks[i], s.clock.Now())
	err := s.saveTasksLocked()
	s.mu.Unlock()

	s.publish(Event{Kind: kind, TaskID: id})
	return true, err
}

func (s *Store) saveTasksLocked() error {
	return s.persist.SaveTasks(s.tasks)
}

// === Task mutations ===

// Add appends a new pending task.
func (s *Store) Add(in NewTask) (domain.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Task{}, domain.ErrEmptyTitle
	}
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	s.mu.Lock()
	task := domain.Task{
		ID:               s.ids.NewID(),
		Title:            title,
		Description:      strings.TrimSpace(in.Description),
		Priority:         priority,
		Status:           domain.StatusPending,
		CreatedAt:        s.clock.Now(),
		DueDate:          domain.CloneTime(in.DueDate),
		EstimatedMinutes: domain.CloneInt(in.EstimatedMinutes),
		Subtasks:         []domain.Subtask{},
	}
	s.tasks = append(s.tasks, task.Clone())
	err := s.saveTasksLocked()
	s.mu.Unlock()

	s.publish(Event{Kind: EventTaskAdded, TaskID: task.ID})
	return task, err
}

// Update replaces the task with the same ID.
func (s *Store) Update(task domain.Task) (bool, error) {
	replacement := task.Clone()
	return s.mutateTask(task.ID, EventTaskUpdated, func(t *domain.Task, _ time.Time) {
		*t = replacement
	})
}

// Delete removes the task. Recommendations and sessions keep their
// now-dangling references.
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	err := s.saveTasksLocked()
	s.mu.Unlock()

	s.publish(Event{Kind: EventTaskDeleted, TaskID: id})
	return true, err
}

// Complete marks the task completed even with open subtasks.
// The next subtask toggle re-derives the status from the checklist.
func (s *Store) Complete(id string) (bool, error) {
	return s.mutateTask(id, EventTaskCompleted, func(t *domain.Task, now time.Time) {
		t.MarkCompleted(now)
	})
}

// ToggleSubtask flips a subtask and reconciles the task status.
func (s *Store) ToggleSubtask(taskID, subtaskID string) (bool, error) {
	s.mu.Lock()
	i := s.indexOf(taskID)
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}
	task := &s.tasks[i]
	j := task.FindSubtask(subtaskID)
	if j < 0 {
		s.mu.Unlock()
		return false, nil
	}
	now := s.clock.Now()
	task.Subtasks[j].Toggle(now)
	task.ReconcileStatus(now)
	err := s.saveTasksLocked()
	s.mu.Unlock()

	s.publish(Event{Kind: EventSubtaskToggled, TaskID: taskID})
	return true, err
}

// AddSubtask appends an open subtask.
func (s *Store) AddSubtask(taskID, title string) (domain.Subtask, bool, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Subtask{}, false, domain.ErrEmptyTitle
	}
	var added domain.Subtask
	ok, err := s.mutateTask(taskID, EventTaskUpdated, func(t *domain.Task, now time.Time) {
		added = domain.Subtask{ID: s.ids.NewID(), Title: title, CreatedAt: now}
		t.Subtasks = append(t.Subtasks, added)
		t.ReconcileStatus(now)
	})
	return added, ok, err
}

// SetSubtasks replaces the checklist with fresh open subtasks.
func (s *Store) SetSubtasks(taskID string, titles []string) (bool, error) {
	return s.mutateTask(taskID, EventTaskUpdated, func(t *domain.Task, now time.Time) {
		subtasks := make([]domain.Subtask, 0, len(titles))
		for _, title := range titles {
			title = strings.TrimSpace(title)
			if title == "" {
				continue
			}
			subtasks = append(subtasks, domain.Subtask{ID: s.ids.NewID(), Title: title, CreatedAt: now})
		}
		t.Subtasks = subtasks
		t.ReconcileStatus(now)
	})
}

// ClearCompleted removes every completed task and returns how many.
func (s *Store) ClearCompleted() (int, error) {
	s.mu.Lock()
	before := len(s.tasks)
	s.tasks = slices.DeleteFunc(s.tasks, func(t domain.Task) bool { return t.IsCompleted() })
	removed := before - len(s.tasks)
	var err error
	if removed > 0 {
		err = s.saveTasksLocked()
	}
	s.mu.Unlock()

	if removed > 0 {
		s.publish(Event{Kind: EventCompletedCleared})
	}
	return removed, err
}

// MarkInProgress moves the task to in_progress.
func (s *Store) MarkInProgress(id string) (bool, error) {
	return s.mutateTask(id, EventTaskUpdated, func(t *domain.Task, _ time.Time) {
		t.Status = domain.StatusInProgress
		t.CompletedAt = nil
	})
}

// AddActualMinutes accumulates focused minutes on the task.
func (s *Store) AddActualMinutes(id string, minutes int) (bool, error) {
	return s.mutateTask(id, EventTaskUpdated, func(t *domain.Task, _ time.Time) {
		t.AddActualMinutes(minutes)
	})
}

// === Recommendations ===

// SetRecommendations replaces today's recommendations and flags exactly
// the referenced tasks as recommended today.
func (s *Store) SetRecommendations(recs []domain.Recommendation) error {
	s.mu.Lock()
	s.recs = slices.Clone(recs)
	referenced := make(map[string]bool, len(recs))
	for _, r := range recs {
		referenced[r.TaskID] = true
	}
	for i := range s.tasks {
		s.tasks[i].RecommendedToday = referenced[s.tasks[i].ID]
	}
	recErr := s.persist.SaveRecommendations(s.recs)
	taskErr := s.saveTasksLocked()
	s.mu.Unlock()

	s.publish(Event{Kind: EventRecommendationsChanged})
	if recErr != nil {
		return recErr
	}
	return taskErr
}

// SelectRecommended sets RecommendedToday on exactly the given tasks and
// records the standup time.
func (s *Store) SelectRecommended(ids []string) error {
	s.mu.Lock()
	selected := make(map[string]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}
	for i := range s.tasks {
		s.tasks[i].RecommendedToday = selected[s.tasks[i].ID]
	}
	taskErr := s.saveTasksLocked()
	s.standup = s.clock.Now()
	standupErr := s.persist.MarkStandup(s.standup)
	s.mu.Unlock()

	s.publish(Event{Kind: EventRecommendationsChanged})
	if taskErr != nil {
		return taskErr
	}
	return standupErr
}

// LastStandup returns when the standup selection was last saved.
func (s *Store) LastStandup() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.standup, !s.standup.IsZero()
}

// === Sessions ===

// AppendSession adds a session to the log.
func (s *Store) AppendSession(session domain.FocusSession) error {
	s.mu.Lock()
	s.sessions = append(s.sessions, session)
	err := s.persist.SaveSessions(s.sessions)
	s.mu.Unlock()

	s.publish(Event{Kind: EventSessionStarted, TaskID: session.TaskID})
	return err
}

// FinishSession records the outcome of a logged session.
func (s *Store) FinishSession(id string, actualMinutes int, completed bool) (bool, error) {
	s.mu.Lock()
	i := slices.IndexFunc(s.sessions, func(fs domain.FocusSession) bool { return fs.ID == id })
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}
	if err := s.sessions[i].Finish(actualMinutes, completed, s.clock.Now()); err != nil {
		s.mu.Unlock()
		return false, err
	}
	taskID := s.sessions[i].TaskID
	err := s.persist.SaveSessions(s.sessions)
	s.mu.Unlock()

	s.publish(Event{Kind: EventSessionFinished, TaskID: taskID})
	return true, err
}

// === Queries ===

// Tasks returns all tasks in insertion order.
func (s *Store) Tasks() []domain.Task {
	return s.filter(func(domain.Task) bool { return true })
}

// Task returns the task with id.
func (s *Store) Task(id string) (domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireSelectionLocked(s.clock.Now())
	i := s.indexOf(id)
	if i < 0 {
		return domain.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// Pending returns tasks that have not been started.
func (s *Store) Pending() []domain.Task {
	return s.filter(func(t domain.Task) bool { return t.Status == domain.StatusPending })
}

// InProgress returns tasks being worked on.
func (s *Store) InProgress() []domain.Task {
	return s.filter(func(t domain.Task) bool { return t.Status == domain.StatusInProgress })
}

// Completed returns completed tasks.
func (s *Store) Completed() []domain.Task {
	return s.filter(func(t domain.Task) bool { return t.IsCompleted() })
}

// Open returns every task that is not completed.
func (s *Store) Open() []domain.Task {
	return s.filter(func(t domain.Task) bool { return !t.IsCompleted() })
}

// Overdue returns open tasks whose due date has passed.
func (s *Store) Overdue() []domain.Task {
	now := s.clock.Now()
	return s.filter(func(t domain.Task) bool { return t.IsOverdue(now) })
}

func (s *Store) filter(keep func(domain.Task) bool) []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireSelectionLocked(s.clock.Now())
	out := make([]domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if keep(t) {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Recommendations returns today's recommendations.
// Entries from an earlier day are dropped when the date rolls over.
func (s *Store) Recommendations() []domain.Recommendation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.FilterForDay(s.recs, s.clock.Now())
}

// TodayRecommended returns the tasks referenced by today's
// recommendations, in task order. Dangling references are skipped.
func (s *Store) TodayRecommended() []domain.Task {
	recs := s.Recommendations()
	ids := make(map[string]bool, len(recs))
	for _, r := range recs {
		ids[r.TaskID] = true
	}
	return s.filter(func(t domain.Task) bool { return ids[t.ID] })
}

// Sessions returns the focus session log.
func (s *Store) Sessions() []domain.FocusSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.FocusSession, len(s.sessions))
	for i, fs := range s.sessions {
		if fs.EndedAt != nil {
			end := *fs.EndedAt
			fs.EndedAt = &end
		}
		if fs.ActualMinutes != nil {
			m := *fs.ActualMinutes
			fs.ActualMinutes = &m
		}
		out[i] = fs
	}
	return out
}
