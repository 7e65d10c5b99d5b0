// Package desktop drives OS focus presentation and notifications through
// external commands.
package desktop

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/runoshun/focus-pilot/internal/domain"
)

// Ensure Presenter implements domain.FocusPresenter.
var _ domain.FocusPresenter = (*Presenter)(nil)

// Presenter runs the configured enable/disable commands and posts
// notifications with the platform's notifier.
type Presenter struct {
	exec domain.CommandExecutor
	cfg  domain.FocusConfig
	goos string
}

// NewPresenter creates a Presenter for the running platform.
func NewPresenter(exec domain.CommandExecutor, cfg domain.FocusConfig) *Presenter {
	return &Presenter{exec: exec, cfg: cfg, goos: runtime.GOOS}
}

// EnableFocusPresentation runs focus.enable_command, if any.
func (p *Presenter) EnableFocusPresentation(ctx context.Context) error {
	return p.runShell(ctx, p.cfg.EnableCommand)
}

// DisableFocusPresentation runs focus.disable_command, if any.
func (p *Presenter) DisableFocusPresentation(ctx context.Context) error {
	return p.runShell(ctx, p.cfg.DisableCommand)
}

// PostLocalNotification shows a desktop notification.
// Platforms without a known notifier are silently skipped.
func (p *Presenter) PostLocalNotification(ctx context.Context, title, body string) error {
	cmd := p.notifyCommand(title, body)
	if cmd == nil {
		return nil
	}
	if out, err := p.exec.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("notify via %s: %w: %s", cmd.Program, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (p *Presenter) notifyCommand(title, body string) *domain.ExecCommand {
	if p.cfg.NotifyCommand != "" {
		return domain.NewCommand(p.cfg.NotifyCommand, []string{title, body}, "")
	}
	switch p.goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return domain.NewCommand("notify-send", []string{title, body}, "")
	case "darwin":
		script := fmt.Sprintf("display notification %s with title %s", strconv.Quote(body), strconv.Quote(title))
		return domain.NewCommand("osascript", []string{"-e", script}, "")
	default:
		return nil
	}
}

func (p *Presenter) runShell(ctx context.Context, script string) error {
	if strings.TrimSpace(script) == "" {
		return nil
	}
	if out, err := p.exec.Execute(ctx, domain.NewShellCommand(script, "")); err != nil {
		return fmt.Errorf("run %q: %w: %s", script, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Noop is a FocusPresenter that does nothing.
type Noop struct{}

// Ensure Noop implements domain.FocusPresenter.
var _ domain.FocusPresenter = Noop{}

func (Noop) EnableFocusPresentation(context.Context) error               { return nil }
func (Noop) DisableFocusPresentation(context.Context) error              { return nil }
func (Noop) PostLocalNotification(context.Context, string, string) error { return nil }
