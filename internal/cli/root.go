// Package cli provides the command-line interface for focus-pilot.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/focus-pilot/internal/app"
)

// Command group IDs.
const (
	groupTask    = "task"
	groupStandup = "standup"
	groupFocus   = "focus"
	groupSetup   = "setup"
)

// NewRootCommand creates the root command for focus-pilot.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "focuspilot",
		Short: "Tasks, daily standups and focus sessions",
		Long: `focus-pilot keeps a small task list, proposes what to work on
today at a daily standup, and runs focus sessions that silence
desktop notifications while the timer is running.

Start the day with "focuspilot standup", pick a task from
"focuspilot today" and run "focuspilot focus <id>".`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil || c.AppConfig == nil {
				return nil
			}
			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
	}

	root.AddGroup(
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
		&cobra.Group{ID: groupStandup, Title: "Daily Standup:"},
		&cobra.Group{ID: groupFocus, Title: "Focus Sessions:"},
		&cobra.Group{ID: groupSetup, Title: "Setup:"},
	)

	add := func(group string, cmds ...*cobra.Command) {
		for _, cmd := range cmds {
			cmd.GroupID = group
			root.AddCommand(cmd)
		}
	}

	add(groupTask,
		newTaskCommand(c),
		newSubtaskCommand(c),
		newBreakdownCommand(c),
	)
	add(groupStandup,
		newStandupCommand(c),
		newTodayCommand(c),
	)
	add(groupFocus,
		newFocusCommand(c),
		newSessionsCommand(c),
		newStatsCommand(c),
	)
	add(groupSetup,
		newConfigCommand(c),
	)

	root.SetHelpCommandGroupID(groupSetup)
	root.SetCompletionCommandGroupID(groupSetup)

	return root
}
