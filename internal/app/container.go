// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/focus"
	"github.com/runoshun/focus-pilot/internal/infra/config"
	"github.com/runoshun/focus-pilot/internal/infra/crypto"
	"github.com/runoshun/focus-pilot/internal/infra/desktop"
	"github.com/runoshun/focus-pilot/internal/infra/executor"
	"github.com/runoshun/focus-pilot/internal/infra/gitstore"
	"github.com/runoshun/focus-pilot/internal/infra/jsonstore"
	"github.com/runoshun/focus-pilot/internal/infra/llm"
	"github.com/runoshun/focus-pilot/internal/infra/logging"
	"github.com/runoshun/focus-pilot/internal/infra/persist"
	"github.com/runoshun/focus-pilot/internal/infra/pgstore"
	"github.com/runoshun/focus-pilot/internal/recommend"
	"github.com/runoshun/focus-pilot/internal/store"
	"github.com/runoshun/focus-pilot/internal/usecase"
)

// Config holds the application paths.
type Config struct {
	DataDir string // Directory holding config.toml, data and logs
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	KV            domain.KVStore
	Clock         domain.Clock
	IDs           domain.IDGenerator
	Completer     domain.Completer
	Presenter     domain.FocusPresenter
	AppLogger     domain.Logger
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager

	// Pointer fields
	Store     *store.Store
	Generator *recommend.Generator
	Logger    *slog.Logger
	AppConfig *domain.Config

	closers []func() error

	// Configuration
	Config Config
}

// New creates a new Container for the data directory.
// An empty dataDir resolves to the default location.
func New(ctx context.Context, dataDir string) (*Container, error) {
	if dataDir == "" {
		dir, err := config.DefaultDataDir()
		if err != nil {
			return nil, err
		}
		dataDir = dir
	}
	cfg := Config{DataDir: dataDir}

	// Create logger
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	configLoader := config.NewLoader(dataDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		logger.Warn("using default config", "error", err)
		appConfig = domain.NewDefaultConfig()
	}

	c := &Container{
		Clock:         domain.RealClock{},
		IDs:           domain.UUIDGenerator{},
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManager(dataDir),
		Logger:        logger,
		AppConfig:     appConfig,
		Config:        cfg,
	}

	fileLogger := logging.New(dataDir, logging.ParseLevel(appConfig.Log.Level))
	c.AppLogger = fileLogger
	c.closers = append(c.closers, fileLogger.Close)

	kv, err := c.openKV(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.KV = kv

	completer, err := llm.New(appConfig.LLM)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Completer = completer
	c.Presenter = desktop.NewPresenter(executor.NewClient(executor.DefaultTimeout), appConfig.Focus)

	if err := c.wire(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, appConfig *domain.Config, kv domain.KVStore, clock domain.Clock, ids domain.IDGenerator,
	completer domain.Completer, presenter domain.FocusPresenter, logger domain.Logger,
) (*Container, error) {
	if appConfig == nil {
		appConfig = domain.NewDefaultConfig()
	}
	c := &Container{
		KV:        kv,
		Clock:     clock,
		IDs:       ids,
		Completer: completer,
		Presenter: presenter,
		AppLogger: logger,
		Logger:    slog.New(slog.DiscardHandler),
		AppConfig: appConfig,
		Config:    cfg,
	}
	if err := c.wire(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) wire() error {
	codec, err := persist.CodecByName(c.AppConfig.Store.ResolvedCodec())
	if err != nil {
		return err
	}
	adapter := persist.New(c.KV, codec, c.AppLogger)
	c.Store = store.New(adapter, c.Clock, c.IDs, c.AppLogger)
	c.Generator = recommend.NewGenerator(c.Completer, c.Clock, c.IDs, c.AppLogger, c.AppConfig.LLM.Timeout)
	return nil
}

// openKV creates the key-value backend selected by [store] backend.
func (c *Container) openKV(ctx context.Context) (domain.KVStore, error) {
	sc := c.AppConfig.Store
	switch sc.Backend {
	case domain.BackendJSON, "":
		js := jsonstore.New(domain.StorePath(c.Config.DataDir))
		if !js.IsInitialized() {
			if err := js.Initialize(); err != nil {
				return nil, fmt.Errorf("initialize store: %w", err)
			}
		}
		return js, nil
	case domain.BackendGit:
		var sealer *crypto.Sealer
		if sc.EncryptionKey != "" {
			s, err := crypto.NewSealer(sc.EncryptionKey)
			if err != nil {
				return nil, fmt.Errorf("store encryption key: %w", err)
			}
			sealer = s
		}
		return gitstore.Open(domain.GitStorePath(c.Config.DataDir), sc.Namespace, sealer)
	case domain.BackendPostgres:
		pg, err := pgstore.Open(ctx, sc.DSN)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, func() error {
			pg.Close()
			return nil
		})
		return pg, nil
	default:
		return nil, fmt.Errorf("%q: %w", sc.Backend, domain.ErrUnknownBackend)
	}
}

// Close releases the backend and the log file.
func (c *Container) Close() error {
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.closers = nil
	return firstErr
}

// FocusController returns a controller owning a fresh timer.
// With quiet set, OS presentation and notifications are skipped.
func (c *Container) FocusController(quiet bool) *focus.Controller {
	presenter := c.Presenter
	if quiet || presenter == nil {
		presenter = desktop.Noop{}
	}
	return focus.NewController(c.Store, presenter, c.Clock, c.IDs, c.AppLogger)
}

// UseCase factory methods

// NewTaskUseCase returns a new NewTask use case.
func (c *Container) NewTaskUseCase() *usecase.NewTask {
	return usecase.NewNewTask(c.Store, c.AppLogger)
}

// EditTaskUseCase returns a new EditTask use case.
func (c *Container) EditTaskUseCase() *usecase.EditTask {
	return usecase.NewEditTask(c.Store, c.Clock)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Store, c.AppLogger)
}

// CompleteTaskUseCase returns a new CompleteTask use case.
func (c *Container) CompleteTaskUseCase() *usecase.CompleteTask {
	return usecase.NewCompleteTask(c.Store)
}

// AddSubtaskUseCase returns a new AddSubtask use case.
func (c *Container) AddSubtaskUseCase() *usecase.AddSubtask {
	return usecase.NewAddSubtask(c.Store)
}

// ToggleSubtaskUseCase returns a new ToggleSubtask use case.
func (c *Container) ToggleSubtaskUseCase() *usecase.ToggleSubtask {
	return usecase.NewToggleSubtask(c.Store)
}

// ClearCompletedUseCase returns a new ClearCompleted use case.
func (c *Container) ClearCompletedUseCase() *usecase.ClearCompleted {
	return usecase.NewClearCompleted(c.Store, c.AppLogger)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Store, c.Clock)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.Store)
}

// BreakdownTaskUseCase returns a new BreakdownTask use case.
func (c *Container) BreakdownTaskUseCase() *usecase.BreakdownTask {
	return usecase.NewBreakdownTask(c.Store, c.Generator)
}

// GenerateRecommendationsUseCase returns a new GenerateRecommendations use case.
func (c *Container) GenerateRecommendationsUseCase() *usecase.GenerateRecommendations {
	return usecase.NewGenerateRecommendations(c.Store, c.Generator, c.AppLogger)
}

// AcceptStandupUseCase returns a new AcceptStandup use case.
func (c *Container) AcceptStandupUseCase() *usecase.AcceptStandup {
	return usecase.NewAcceptStandup(c.Store)
}

// ListTodayUseCase returns a new ListToday use case.
func (c *Container) ListTodayUseCase() *usecase.ListToday {
	return usecase.NewListToday(c.Store)
}

// StartFocusUseCase returns a new StartFocus use case driving ctrl.
func (c *Container) StartFocusUseCase(ctrl *focus.Controller) *usecase.StartFocus {
	return usecase.NewStartFocus(c.Store, ctrl, c.AppConfig.Focus.DefaultMinutes)
}

// ListSessionsUseCase returns a new ListSessions use case.
func (c *Container) ListSessionsUseCase() *usecase.ListSessions {
	return usecase.NewListSessions(c.Store, c.Clock)
}

// ShowStatsUseCase returns a new ShowStats use case.
func (c *Container) ShowStatsUseCase() *usecase.ShowStats {
	return usecase.NewShowStats(c.Store, c.Clock)
}

// SeedSampleTasksUseCase returns a new SeedSampleTasks use case.
func (c *Container) SeedSampleTasksUseCase() *usecase.SeedSampleTasks {
	return usecase.NewSeedSampleTasks(c.Store, c.Clock)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}
