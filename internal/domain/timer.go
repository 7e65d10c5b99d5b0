package domain

import "fmt"

// TimerState is the state of the focus countdown.
type TimerState int

const (
	TimerIdle      TimerState = iota // No session
	TimerRunning                     // Counting down
	TimerPaused                      // Countdown suspended, remaining time kept
	TimerCompleted                   // Reached zero
)

// String returns the string representation of the state.
func (s TimerState) String() string {
	switch s {
	case TimerIdle:
		return "idle"
	case TimerRunning:
		return "running"
	case TimerPaused:
		return "paused"
	case TimerCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// FocusPresets are the offered focus durations in minutes.
var FocusPresets = []int{15, 25, 45, 60, 90}

// DefaultFocusMinutes is the classic pomodoro length.
const DefaultFocusMinutes = 25

// Timer is the countdown state machine of a focus session.
// It owns no goroutines; the caller drives it with Tick once per second.
// Invariant: 0 <= Remaining <= Total.
type Timer struct {
	TaskID    string
	Total     int // seconds
	Remaining int // seconds
	State     TimerState
}

// Active returns true while a session is running or paused.
func (t *Timer) Active() bool {
	return t.State == TimerRunning || t.State == TimerPaused
}

// Start begins a countdown of the given minutes for the task.
func (t *Timer) Start(taskID string, minutes int) error {
	if t.Active() {
		return ErrSessionRunning
	}
	if minutes <= 0 {
		return ErrInvalidDuration
	}
	t.TaskID = taskID
	t.Total = minutes * 60
	t.Remaining = t.Total
	t.State = TimerRunning
	return nil
}

// Pause suspends a running countdown.
func (t *Timer) Pause() error {
	if t.State != TimerRunning {
		return fmt.Errorf("pause in %s state: %w", t.State, ErrNoSession)
	}
	t.State = TimerPaused
	return nil
}

// Resume continues a paused countdown that still has time left.
func (t *Timer) Resume() error {
	if t.State != TimerPaused || t.Remaining <= 0 {
		return fmt.Errorf("resume in %s state: %w", t.State, ErrNoSession)
	}
	t.State = TimerRunning
	return nil
}

// Tick advances a running countdown by one second.
// It returns true exactly once, on the tick that reaches zero.
func (t *Timer) Tick() bool {
	if t.State != TimerRunning {
		return false
	}
	if t.Remaining > 0 {
		t.Remaining--
	}
	if t.Remaining == 0 {
		t.State = TimerCompleted
		return true
	}
	return false
}

// Stop abandons the session and returns to idle.
func (t *Timer) Stop() {
	*t = Timer{}
}

// Reset restores the full duration and pauses, keeping the task.
// A finished session cannot be reset.
func (t *Timer) Reset() {
	if t.State == TimerIdle || t.State == TimerCompleted {
		return
	}
	t.Remaining = t.Total
	t.State = TimerPaused
}

// Elapsed returns the seconds counted down so far.
func (t *Timer) Elapsed() int {
	return t.Total - t.Remaining
}

// Progress returns the elapsed fraction in [0, 1].
func (t *Timer) Progress() float64 {
	if t.Total <= 0 {
		return 0
	}
	return float64(t.Elapsed()) / float64(t.Total)
}

// FormatClock formats seconds as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
