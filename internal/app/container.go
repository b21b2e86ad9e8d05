// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/runoshun/taskboard/internal/boardstore"
	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/infra/config"
	"github.com/runoshun/taskboard/internal/infra/cookiestore"
	"github.com/runoshun/taskboard/internal/infra/crypto"
	"github.com/runoshun/taskboard/internal/infra/gitstore"
	"github.com/runoshun/taskboard/internal/infra/jsonstore"
	"github.com/runoshun/taskboard/internal/infra/logging"
	"github.com/runoshun/taskboard/internal/infra/redisstore"
	"github.com/runoshun/taskboard/internal/infra/sqlitestore"
	"github.com/runoshun/taskboard/internal/recovery"
	"github.com/runoshun/taskboard/internal/scheduler"
	"github.com/runoshun/taskboard/internal/usecase"
)

// Ensure the board store satisfies the use case port.
var _ usecase.BoardStore = (*boardstore.Store)(nil)

// Config holds the application paths.
type Config struct {
	DataDir    string // Config and log directory
	StorageDir string // Tier files; [storage] dir or DataDir
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Clock         domain.Clock
	Logger        domain.Logger
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager

	// Pointer fields
	Store     *boardstore.Store
	Engine    *recovery.Engine
	AppConfig *domain.Config

	closers []io.Closer

	// Configuration
	Config Config
}

// New creates a Container for the data directory, opening every storage
// tier the configuration selects. The board is not loaded until Open.
func New(dataDir string) (*Container, error) {
	configLoader := config.NewLoader(dataDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, err
	}

	cfg := Config{DataDir: dataDir, StorageDir: dataDir}
	if appConfig.Storage.Dir != "" {
		cfg.StorageDir = appConfig.Storage.Dir
	}

	logger := logging.New(dataDir, logging.ParseLevel(appConfig.Log.Level))
	for _, w := range appConfig.Warnings {
		logger.Warn("config", w)
	}

	clock := domain.RealClock{}
	tiers, closers, err := openTiers(cfg.StorageDir, appConfig, clock)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	c := NewWithDeps(cfg, appConfig, tiers, clock, domain.UUIDGenerator{}, logger)
	c.ConfigLoader = configLoader
	c.ConfigManager = config.NewManager(dataDir)
	c.closers = append(closers, logger)
	return c, nil
}

// NewWithDeps creates a Container over the given tiers. tiers are in
// recovery priority order; the first one is the primary snapshot store.
func NewWithDeps(cfg Config, appConfig *domain.Config, tiers []domain.StorageAdapter, clock domain.Clock, ids domain.IDGenerator, logger domain.Logger) *Container {
	timeout := appConfig.StorageTimeout()
	engine := recovery.New(tiers, clock, logger, timeout)
	store := boardstore.New(tiers[0], engine, boardstore.Options{
		Clock:   clock,
		IDs:     ids,
		Logger:  logger,
		Timeout: timeout,
	})
	return &Container{
		Clock:     clock,
		Logger:    logger,
		Store:     store,
		Engine:    engine,
		AppConfig: appConfig,
		Config:    cfg,
	}
}

// openTiers builds the structured, flat and tiny tiers in that order.
func openTiers(dir string, cfg *domain.Config, clock domain.Clock) ([]domain.StorageAdapter, []io.Closer, error) {
	var closers []io.Closer
	fail := func(err error) ([]domain.StorageAdapter, []io.Closer, error) {
		for _, c := range closers {
			_ = c.Close()
		}
		return nil, nil, err
	}

	var structured domain.StorageAdapter
	switch cfg.Storage.Structured {
	case domain.BackendSQLite, "":
		s, err := sqlitestore.New(filepath.Join(dir, sqlitestore.DBFileName))
		if err != nil {
			return fail(err)
		}
		structured = s
		closers = append(closers, s)
	case domain.BackendGit:
		s, err := gitstore.New(filepath.Join(dir, gitstore.RepoDirName))
		if err != nil {
			return fail(err)
		}
		structured = s
	default:
		return fail(fmt.Errorf("%w: structured tier %q", domain.ErrUnknownBackend, cfg.Storage.Structured))
	}
	if cfg.Storage.EncryptionKey != "" {
		sealed, err := crypto.Wrap(structured, cfg.Storage.EncryptionKey)
		if err != nil {
			return fail(fmt.Errorf("storage.encryption_key: %w", err))
		}
		structured = sealed
	}

	flat := jsonstore.New(filepath.Join(dir, jsonstore.FileName))

	var tiny domain.StorageAdapter
	switch cfg.Storage.Tiny {
	case domain.BackendCookie, "":
		tiny = cookiestore.New(filepath.Join(dir, cookiestore.FileName), clock)
	case domain.BackendRedis:
		s := redisstore.NewFromConfig(cfg.Redis)
		tiny = s
		closers = append(closers, s)
	default:
		return fail(fmt.Errorf("%w: tiny tier %q", domain.ErrUnknownBackend, cfg.Storage.Tiny))
	}

	return []domain.StorageAdapter{structured, flat, tiny}, closers, nil
}

// Open loads the board. It is safe to call more than once.
func (c *Container) Open(ctx context.Context) boardstore.Source {
	return c.Store.Load(ctx)
}

// Close drains pending writes and releases every tier.
func (c *Container) Close() error {
	c.Store.Close()
	var firstErr error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NewScheduler returns a scheduler whose jobs are bounded by the storage timeout.
func (c *Container) NewScheduler() *scheduler.Scheduler {
	return scheduler.New(c.Logger, c.AppConfig.StorageTimeout())
}

// UseCase factory methods

// ShowBoardUseCase returns a new ShowBoard use case.
func (c *Container) ShowBoardUseCase() *usecase.ShowBoard {
	return usecase.NewShowBoard(c.Store)
}

// NewTaskUseCase returns a new NewTask use case.
func (c *Container) NewTaskUseCase() *usecase.NewTask {
	return usecase.NewNewTask(c.Store)
}

// EditTaskUseCase returns a new EditTask use case.
func (c *Container) EditTaskUseCase() *usecase.EditTask {
	return usecase.NewEditTask(c.Store)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Store)
}

// MoveTaskUseCase returns a new MoveTask use case.
func (c *Container) MoveTaskUseCase() *usecase.MoveTask {
	return usecase.NewMoveTask(c.Store)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.Store)
}

// AddColumnUseCase returns a new AddColumn use case.
func (c *Container) AddColumnUseCase() *usecase.AddColumn {
	return usecase.NewAddColumn(c.Store)
}

// RenameColumnUseCase returns a new RenameColumn use case.
func (c *Container) RenameColumnUseCase() *usecase.RenameColumn {
	return usecase.NewRenameColumn(c.Store)
}

// DeleteColumnUseCase returns a new DeleteColumn use case.
func (c *Container) DeleteColumnUseCase() *usecase.DeleteColumn {
	return usecase.NewDeleteColumn(c.Store)
}

// OrderColumnsUseCase returns a new OrderColumns use case.
func (c *Container) OrderColumnsUseCase() *usecase.OrderColumns {
	return usecase.NewOrderColumns(c.Store)
}

// SetColumnTasksUseCase returns a new SetColumnTasks use case.
func (c *Container) SetColumnTasksUseCase() *usecase.SetColumnTasks {
	return usecase.NewSetColumnTasks(c.Store)
}

// AddTagUseCase returns a new AddTag use case.
func (c *Container) AddTagUseCase() *usecase.AddTag {
	return usecase.NewAddTag(c.Store)
}

// EditTagUseCase returns a new EditTag use case.
func (c *Container) EditTagUseCase() *usecase.EditTag {
	return usecase.NewEditTag(c.Store)
}

// DeleteTagUseCase returns a new DeleteTag use case.
func (c *Container) DeleteTagUseCase() *usecase.DeleteTag {
	return usecase.NewDeleteTag(c.Store)
}

// ListTagsUseCase returns a new ListTags use case.
func (c *Container) ListTagsUseCase() *usecase.ListTags {
	return usecase.NewListTags(c.Store)
}

// AddTaskItemUseCase returns a new AddTaskItem use case.
func (c *Container) AddTaskItemUseCase() *usecase.AddTaskItem {
	return usecase.NewAddTaskItem(c.Store)
}

// RemoveTaskItemUseCase returns a new RemoveTaskItem use case.
func (c *Container) RemoveTaskItemUseCase() *usecase.RemoveTaskItem {
	return usecase.NewRemoveTaskItem(c.Store)
}

// ToggleSubtaskUseCase returns a new ToggleSubtask use case.
func (c *Container) ToggleSubtaskUseCase() *usecase.ToggleSubtask {
	return usecase.NewToggleSubtask(c.Store)
}

// AttachFileUseCase returns a new AttachFile use case.
func (c *Container) AttachFileUseCase() *usecase.AttachFile {
	return usecase.NewAttachFile(c.Store)
}

// SearchTasksUseCase returns a new SearchTasks use case.
func (c *Container) SearchTasksUseCase() *usecase.SearchTasks {
	return usecase.NewSearchTasks(c.Store)
}

// ExportBoardUseCase returns a new ExportBoard use case.
func (c *Container) ExportBoardUseCase() *usecase.ExportBoard {
	return usecase.NewExportBoard(c.Store, c.Clock)
}

// ExportBytesUseCase returns a new ExportBytes use case.
func (c *Container) ExportBytesUseCase() *usecase.ExportBytes {
	return usecase.NewExportBytes(c.Store, c.Clock)
}

// ImportBoardUseCase returns a new ImportBoard use case.
func (c *Container) ImportBoardUseCase() *usecase.ImportBoard {
	return usecase.NewImportBoard(c.Store)
}

// RunBackupUseCase returns a new RunBackup use case.
func (c *Container) RunBackupUseCase() *usecase.RunBackup {
	return usecase.NewRunBackup(c.Store)
}

// BackupStatusUseCase returns a new BackupStatus use case.
func (c *Container) BackupStatusUseCase() *usecase.BackupStatus {
	return usecase.NewBackupStatus(c.Engine)
}

// ClearBackupsUseCase returns a new ClearBackups use case.
func (c *Container) ClearBackupsUseCase() *usecase.ClearBackups {
	return usecase.NewClearBackups(c.Engine)
}

// RecoverBoardUseCase returns a new RecoverBoard use case.
func (c *Container) RecoverBoardUseCase() *usecase.RecoverBoard {
	return usecase.NewRecoverBoard(c.Store, c.Engine)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// ShowLogsUseCase returns a new ShowLogs use case.
func (c *Container) ShowLogsUseCase() *usecase.ShowLogs {
	return usecase.NewShowLogs(c.Config.DataDir)
}
