package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/focus-pilot/internal/focus"
)

// Msg is the sealed interface for all focus screen messages.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgTick advances the countdown by one second.
type MsgTick struct{}

func (MsgTick) sealed() {}

// MsgFinished is sent once the session has been recorded.
type MsgFinished struct {
	Result focus.Result
}

func (MsgFinished) sealed() {}

// MsgError reports a controller failure.
type MsgError struct {
	Err error
}

func (MsgError) sealed() {}

// tickInterval is how often the countdown advances.
const tickInterval = time.Second

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return MsgTick{}
	})
}
