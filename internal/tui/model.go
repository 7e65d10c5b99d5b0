// Package tui provides the terminal focus screen.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/focus"
)

// Model is the bubbletea model of a running focus session.
// Fields are ordered to minimize memory padding.
type Model struct {
	ctx      context.Context
	ctrl     *focus.Controller
	err      error
	result   *focus.Result
	styles   Styles
	keys     KeyMap
	help     help.Model
	progress progress.Model
	width    int
	quitting bool
}

// New creates a Model for a controller whose session is already started.
func New(ctx context.Context, ctrl *focus.Controller) *Model {
	return &Model{
		ctx:      ctx,
		ctrl:     ctrl,
		styles:   DefaultStyles(),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient()),
	}
}

// Result returns the finished session, or nil while it is still open.
func (m *Model) Result() *focus.Result {
	return m.result
}

// Err returns the last controller error.
func (m *Model) Err() error {
	return m.err
}

// Init starts the countdown.
func (m *Model) Init() tea.Cmd {
	return tick()
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.progress.Width = max(msg.Width-8, 10)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case Msg:
		return m.handleMsg(msg)
	}
	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MsgTick:
		if m.quitting {
			return m, nil
		}
		done, err := m.ctrl.Tick(m.ctx)
		if err != nil {
			m.err = err
		}
		if done {
			return m, m.finish()
		}
		return m, tick()
	case MsgFinished:
		res := msg.Result
		m.result = &res
		m.quitting = true
		return m, tea.Quit
	case MsgError:
		m.err = msg.Err
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Toggle):
		m.toggle()
		return m, nil
	case key.Matches(msg, m.keys.Reset):
		m.ctrl.Reset()
		m.err = nil
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Stop), key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, m.finish()
	}
	return m, nil
}

func (m *Model) toggle() {
	var err error
	switch m.ctrl.Snapshot().Timer.State {
	case domain.TimerRunning:
		err = m.ctrl.Pause()
	case domain.TimerPaused:
		err = m.ctrl.Resume()
	case domain.TimerIdle, domain.TimerCompleted:
		return
	}
	m.err = err
}

// finish closes the session and reports the result.
func (m *Model) finish() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		res, err := ctrl.Stop(context.WithoutCancel(ctx))
		if err != nil && !errors.Is(err, domain.ErrNoSession) {
			return MsgError{Err: err}
		}
		return MsgFinished{Result: res}
	}
}

// View renders the focus screen.
func (m *Model) View() string {
	snap := m.ctrl.Snapshot()
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Focus"))
	b.WriteString("\n")
	b.WriteString(m.styles.Task.Render(snap.TaskTitle))
	b.WriteString("\n")

	if m.result != nil {
		b.WriteString(m.styles.Done.Render(resultLine(*m.result)))
		b.WriteString("\n")
		return m.styles.App.Render(b.String())
	}

	b.WriteString(m.styles.Clock.Render(domain.FormatClock(snap.Timer.Remaining)))
	b.WriteString("\n")
	b.WriteString(m.progress.ViewAs(snap.Timer.Progress()))
	b.WriteString("\n")
	b.WriteString(m.stateLine(snap.Timer))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(m.styles.ErrorMsg.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Footer.Render(m.help.View(m.keys)))
	return m.styles.App.Render(b.String())
}

func (m *Model) stateLine(t domain.Timer) string {
	label := fmt.Sprintf("%s · %d min session", t.State, t.Total/60)
	if t.State == domain.TimerPaused {
		return m.styles.Paused.Render(label)
	}
	return m.styles.State.Render(label)
}

func resultLine(r focus.Result) string {
	if r.Completed {
		return fmt.Sprintf("Session complete: %d min focused", r.Minutes)
	}
	return fmt.Sprintf("Session stopped: %d min recorded", r.Minutes)
}

// Run shows the focus screen until the session ends and returns its result.
func Run(ctx context.Context, ctrl *focus.Controller) (focus.Result, error) {
	m := New(ctx, ctrl)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return focus.Result{}, fmt.Errorf("run focus screen: %w", err)
	}
	if m.err != nil && m.result == nil {
		return focus.Result{}, m.err
	}
	if m.result == nil {
		// Interrupted before the stop command ran.
		res, err := ctrl.Stop(context.WithoutCancel(ctx))
		if err != nil && !errors.Is(err, domain.ErrNoSession) {
			return focus.Result{}, err
		}
		return res, nil
	}
	return *m.result, nil
}
