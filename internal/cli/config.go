package cli

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/runoshun/focus-pilot/internal/app"
	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/usecase"
)

// maskedValue replaces secrets in printed configuration.
const maskedValue = "********"

// newConfigCommand creates the config command.
func newConfigCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `Manage focus-pilot configuration files and settings.`,
		// No RunE: shows subcommand list when called without arguments
	}

	cmd.AddCommand(newConfigShowCommand(c))
	cmd.AddCommand(newConfigInitCommand(c))

	return cmd
}

// newConfigShowCommand creates the config show subcommand.
func newConfigShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display effective configuration after merging all sources.

Shows which config files were loaded and the final merged configuration.
The data directory config overrides the global config; OPENAI_API_KEY and
FOCUSPILOT_DATABASE_URL override both. Secrets are masked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowConfigUseCase().Execute(cmd.Context(), usecase.ShowConfigInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(w, "[Loaded from]")
			printConfigSource(w, out.GlobalConfig)
			printConfigSource(w, out.DataConfig)
			_, _ = fmt.Fprintln(w)

			_, _ = fmt.Fprintln(w, "[Effective Config]")
			return formatEffectiveConfig(w, out.Effective)
		},
	}
}

func printConfigSource(w io.Writer, info domain.ConfigInfo) {
	if info.Exists {
		_, _ = fmt.Fprintf(w, "- %s\n", info.Path)
	} else {
		_, _ = fmt.Fprintf(w, "- %s (not found)\n", info.Path)
	}
}

// formatEffectiveConfig writes cfg as TOML with secrets masked.
func formatEffectiveConfig(w io.Writer, cfg *domain.Config) error {
	if cfg == nil {
		cfg = domain.NewDefaultConfig()
	}
	output := map[string]any{
		"store": map[string]any{
			"backend":        cfg.Store.Backend,
			"codec":          cfg.Store.ResolvedCodec(),
			"namespace":      cfg.Store.Namespace,
			"encryption_key": mask(cfg.Store.EncryptionKey),
			"dsn":            mask(cfg.Store.DSN),
		},
		"llm": map[string]any{
			"api_key":  mask(cfg.LLM.APIKey),
			"base_url": cfg.LLM.BaseURL,
			"model":    cfg.LLM.Model,
			"timeout":  cfg.LLM.Timeout.String(),
		},
		"focus": map[string]any{
			"enable_command":  cfg.Focus.EnableCommand,
			"disable_command": cfg.Focus.DisableCommand,
			"notify_command":  cfg.Focus.NotifyCommand,
			"default_minutes": cfg.Focus.DefaultMinutes,
		},
		"log": map[string]any{
			"level": cfg.Log.Level,
		},
	}

	data, err := toml.Marshal(output)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return maskedValue
}

// newConfigInitCommand creates the config init subcommand.
func newConfigInitCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Backend string
		Global  bool
	}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a config file with defaults",
		Long: `Write a commented config file with the default settings.

By default the file is created in the data directory. Use --global to
create ~/.config/focuspilot/config.toml instead. Existing files are
never overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.InitConfigUseCase().Execute(cmd.Context(), usecase.InitConfigInput{
				Backend: opts.Backend,
				Global:  opts.Global,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", out.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Backend, "backend", "", "Storage backend: json, git or postgres")
	cmd.Flags().BoolVarP(&opts.Global, "global", "g", false, "Create the global config file")

	return cmd
}
