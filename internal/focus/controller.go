// Package focus runs focus sessions: it owns the countdown, keeps the
// session log in the store and drives the OS focus presentation.
package focus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/store"
)

const logCategory = "focus"

// Notification texts.
const (
	StartedTitle   = "Focus started"
	CompletedTitle = "Focus complete"
)

// Snapshot is a point-in-time copy of the controller state for display.
type Snapshot struct {
	TaskTitle string
	SessionID string
	Timer     domain.Timer
}

// Result describes a finished session.
type Result struct {
	SessionID string
	TaskID    string
	Minutes   int
	Completed bool
}

// Controller is the single owner of the focus timer.
// Fields are ordered to minimize memory padding.
type Controller struct {
	store     *store.Store
	presenter domain.FocusPresenter
	clock     domain.Clock
	ids       domain.IDGenerator
	logger    domain.Logger
	last      *Result
	sessionID string
	taskTitle string
	timer     domain.Timer
	mu        sync.Mutex
}

// NewController creates a Controller.
func NewController(st *store.Store, presenter domain.FocusPresenter, clock domain.Clock, ids domain.IDGenerator, logger domain.Logger) *Controller {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Controller{
		store:     st,
		presenter: presenter,
		clock:     clock,
		ids:       ids,
		logger:    logger,
	}
}

// Start begins a session on the task. A running or paused session must be
// stopped first.
func (c *Controller) Start(ctx context.Context, taskID string, minutes int) error {
	c.mu.Lock()
	if c.timer.Active() {
		c.mu.Unlock()
		return domain.ErrSessionRunning
	}
	task, ok := c.store.Task(taskID)
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%s: %w", taskID, domain.ErrTaskNotFound)
	}
	if err := c.timer.Start(taskID, minutes); err != nil {
		c.mu.Unlock()
		return err
	}
	session := domain.FocusSession{
		ID:             c.ids.NewID(),
		TaskID:         taskID,
		PlannedMinutes: minutes,
		StartedAt:      c.clock.Now(),
	}
	c.sessionID = session.ID
	c.taskTitle = task.Title
	c.last = nil
	c.mu.Unlock()

	if _, err := c.store.MarkInProgress(taskID); err != nil {
		c.logger.Error(logCategory, fmt.Sprintf("mark %s in progress: %v", taskID, err))
	}
	if err := c.store.AppendSession(session); err != nil {
		c.logger.Error(logCategory, fmt.Sprintf("append session %s: %v", session.ID, err))
	}

	c.present(ctx, c.presenter.EnableFocusPresentation, "enable presentation")
	c.notify(ctx, StartedTitle, fmt.Sprintf("%s (%d min)", task.Title, minutes))
	c.logger.Info(logCategory, fmt.Sprintf("started session %s on %s for %d min", session.ID, taskID, minutes))
	return nil
}

// Pause suspends the countdown.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer.Pause()
}

// Resume continues a paused countdown.
func (c *Controller) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer.Resume()
}

// Reset restores the full duration and pauses. The session stays open.
// A completed session is left as it is.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timer.Reset()
}

// Tick advances the countdown by one second. It returns true on the tick
// that completes the session, after the session has been recorded.
func (c *Controller) Tick(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if !c.timer.Tick() {
		c.mu.Unlock()
		return false, nil
	}
	res := Result{
		SessionID: c.sessionID,
		TaskID:    c.timer.TaskID,
		Minutes:   c.timer.Total / 60,
		Completed: true,
	}
	title := c.taskTitle
	c.last = &res
	c.mu.Unlock()

	err := c.record(res)
	c.present(ctx, c.presenter.DisableFocusPresentation, "disable presentation")
	c.notify(ctx, CompletedTitle, fmt.Sprintf("%s: %d min focused", title, res.Minutes))
	c.logger.Info(logCategory, fmt.Sprintf("completed session %s", res.SessionID))
	return true, err
}

// Stop ends the session early, recording the whole minutes elapsed.
// After a completed session it only returns the timer to idle.
func (c *Controller) Stop(ctx context.Context) (Result, error) {
	c.mu.Lock()
	switch c.timer.State {
	case domain.TimerIdle:
		c.mu.Unlock()
		return Result{}, domain.ErrNoSession
	case domain.TimerCompleted:
		var res Result
		if c.last != nil {
			res = *c.last
		}
		c.clearLocked()
		c.mu.Unlock()
		return res, nil
	}
	res := Result{
		SessionID: c.sessionID,
		TaskID:    c.timer.TaskID,
		Minutes:   c.timer.Elapsed() / 60,
	}
	c.last = &res
	c.clearLocked()
	c.mu.Unlock()

	err := c.record(res)
	c.present(ctx, c.presenter.DisableFocusPresentation, "disable presentation")
	c.logger.Info(logCategory, fmt.Sprintf("stopped session %s after %d min", res.SessionID, res.Minutes))
	return res, err
}

// Run ticks every interval until the session completes, is stopped, or
// ctx is done. Cancellation stops the session like Stop.
func (c *Controller) Run(ctx context.Context, interval time.Duration) (Result, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			res, err := c.Stop(context.WithoutCancel(ctx))
			if errors.Is(err, domain.ErrNoSession) {
				return c.lastResult(), nil
			}
			return res, err
		case <-ticker.C:
			done, err := c.Tick(ctx)
			if done {
				return c.lastResult(), err
			}
			if !c.active() {
				return c.lastResult(), nil
			}
		}
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		TaskTitle: c.taskTitle,
		SessionID: c.sessionID,
		Timer:     c.timer,
	}
}

func (c *Controller) active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer.Active()
}

func (c *Controller) lastResult() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return Result{}
	}
	return *c.last
}

// clearLocked returns the timer to idle. Caller holds c.mu.
func (c *Controller) clearLocked() {
	c.timer.Stop()
	c.sessionID = ""
	c.taskTitle = ""
}

// record writes the outcome to the session log and the task.
func (c *Controller) record(res Result) error {
	if _, err := c.store.FinishSession(res.SessionID, res.Minutes, res.Completed); err != nil {
		return fmt.Errorf("finish session %s: %w", res.SessionID, err)
	}
	if res.Minutes > 0 {
		if _, err := c.store.AddActualMinutes(res.TaskID, res.Minutes); err != nil {
			return fmt.Errorf("record minutes on %s: %w", res.TaskID, err)
		}
	}
	return nil
}

func (c *Controller) present(ctx context.Context, fn func(context.Context) error, what string) {
	if err := fn(ctx); err != nil {
		c.logger.Warn(logCategory, fmt.Sprintf("%s: %v", what, err))
	}
}

func (c *Controller) notify(ctx context.Context, title, body string) {
	if err := c.presenter.PostLocalNotification(ctx, title, body); err != nil {
		c.logger.Warn(logCategory, fmt.Sprintf("notify %q: %v", title, err))
	}
}
