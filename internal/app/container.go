// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/runoshun/mfnd/internal/domain"
	"github.com/runoshun/mfnd/internal/infra/config"
	"github.com/runoshun/mfnd/internal/infra/jsonstore"
	"github.com/runoshun/mfnd/internal/infra/logging"
	"github.com/runoshun/mfnd/internal/infra/sqlitestore"
	"github.com/runoshun/mfnd/internal/shell"
	"github.com/runoshun/mfnd/internal/tasktree"
	"github.com/runoshun/mfnd/internal/usecase"
)

// StoreOpener opens the durable task store at path.
type StoreOpener func(ctx context.Context, path string, pumpkin domain.PumpkinTime) (domain.TaskStore, error)

// openSQLite is the default StoreOpener.
func openSQLite(ctx context.Context, path string, pumpkin domain.PumpkinTime) (domain.TaskStore, error) {
	return sqlitestore.Open(ctx, path, sqlitestore.WithDefaultPumpkinTime(pumpkin))
}

// openJSON opens a lock-guarded JSON file store.
func openJSON(_ context.Context, path string, pumpkin domain.PumpkinTime) (domain.TaskStore, error) {
	return jsonstore.New(path, jsonstore.WithDefaultPumpkinTime(pumpkin)), nil
}

// storeOpener selects the StoreOpener for a [store] backend.
func storeOpener(backend string) StoreOpener {
	if backend == domain.BackendJSON {
		return openJSON
	}
	return openSQLite
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
// Fields are ordered to minimize memory padding.
type Container struct {
	// Ports (interfaces bound to implementations)
	Store         domain.TaskStore // Opened on first use
	Clock         domain.Clock
	Logger        domain.Logger
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager

	// Pointer fields
	Config *domain.Config
	tree   *tasktree.Tree
	open   StoreOpener
	closer io.Closer

	SessionID string
}

// New creates a new Container for the given working directory.
// The store is not opened until a command needs it.
func New(dir string) (*Container, error) {
	configLoader := config.NewLoader(dir)
	cfg, err := configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	sessionID := uuid.NewString()
	logger := logging.New(domain.DataDir(cfg.Store.Path), sessionID, logging.ParseLevel(cfg.Log.Level))
	for _, w := range cfg.Warnings {
		logger.Warn("config", w)
	}

	return &Container{
		Clock:         domain.RealClock{},
		Logger:        logger,
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManager(),
		Config:        cfg,
		open:          storeOpener(cfg.Store.Backend),
		closer:        logger,
		SessionID:     sessionID,
	}, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg *domain.Config, store domain.TaskStore, clock domain.Clock, logger domain.Logger) *Container {
	if cfg == nil {
		cfg = domain.NewDefaultConfig()
	}
	return &Container{
		Store:     store,
		Clock:     clock,
		Logger:    logger,
		Config:    cfg,
		SessionID: "test",
	}
}

// OpenStore opens the configured store if it is not open yet.
func (c *Container) OpenStore(ctx context.Context) (domain.TaskStore, error) {
	if c.Store != nil {
		return c.Store, nil
	}
	if c.open == nil {
		return nil, fmt.Errorf("%w: no store configured", domain.ErrStoreUnavailable)
	}
	pumpkin, err := c.Config.PumpkinTime()
	if err != nil {
		return nil, err
	}
	store, err := c.open(ctx, c.Config.Store.Path, pumpkin)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("store", "opened "+c.Config.Store.Backend+" "+c.Config.Store.Path)
	c.Store = store
	return store, nil
}

// OpenTree opens the store and builds the task tree, applying the
// daily reset. The tree is built once per container.
func (c *Container) OpenTree(ctx context.Context) (*tasktree.Tree, error) {
	if c.tree != nil {
		return c.tree, nil
	}
	store, err := c.OpenStore(ctx)
	if err != nil {
		return nil, err
	}
	scheme, err := c.Config.LabelScheme()
	if err != nil {
		return nil, err
	}
	tree, err := tasktree.New(ctx, store,
		tasktree.WithClock(c.Clock),
		tasktree.WithLogger(c.Logger),
		tasktree.WithLabelScheme(scheme),
	)
	if err != nil {
		return nil, err
	}
	c.tree = tree
	return tree, nil
}

// NewSession creates an interactive session over the task tree.
func (c *Container) NewSession(ctx context.Context) (*shell.Session, error) {
	tree, err := c.OpenTree(ctx)
	if err != nil {
		return nil, err
	}
	scheme, err := c.Config.LabelScheme()
	if err != nil {
		return nil, err
	}
	c.Logger.Info("session", "started")
	return shell.NewSession(tree, c.Store,
		shell.WithClock(c.Clock),
		shell.WithLogger(c.Logger),
		shell.WithLabelScheme(scheme),
		shell.WithID(c.SessionID),
	), nil
}

// Close releases the store and the log file.
func (c *Container) Close() error {
	var errs []error
	if c.Store != nil {
		errs = append(errs, c.Store.Close())
	}
	if c.closer != nil {
		errs = append(errs, c.closer.Close())
	}
	return errors.Join(errs...)
}

// UseCase factory methods

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase(ctx context.Context) (*usecase.ListTasks, error) {
	tree, err := c.OpenTree(ctx)
	if err != nil {
		return nil, err
	}
	return usecase.NewListTasks(tree, c.Clock), nil
}

// AddTaskUseCase returns a new AddTask use case.
func (c *Container) AddTaskUseCase(ctx context.Context) (*usecase.AddTask, error) {
	tree, err := c.OpenTree(ctx)
	if err != nil {
		return nil, err
	}
	return usecase.NewAddTask(tree, c.Logger), nil
}

// ExportTreeUseCase returns a new ExportTree use case.
func (c *Container) ExportTreeUseCase(ctx context.Context) (*usecase.ExportTree, error) {
	tree, err := c.OpenTree(ctx)
	if err != nil {
		return nil, err
	}
	return usecase.NewExportTree(tree, c.Clock), nil
}

// ImportTreeUseCase returns a new ImportTree use case.
func (c *Container) ImportTreeUseCase(ctx context.Context) (*usecase.ImportTree, error) {
	tree, err := c.OpenTree(ctx)
	if err != nil {
		return nil, err
	}
	return usecase.NewImportTree(tree, c.Logger), nil
}

// ConfigurePumpkinUseCase returns a new ConfigurePumpkin use case.
func (c *Container) ConfigurePumpkinUseCase(ctx context.Context) (*usecase.ConfigurePumpkin, error) {
	store, err := c.OpenStore(ctx)
	if err != nil {
		return nil, err
	}
	return usecase.NewConfigurePumpkin(store, c.Logger), nil
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}
