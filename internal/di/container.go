package di

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/toolvizion/go-language-manager/internal/commands"
	stagingcmd "github.com/toolvizion/go-language-manager/internal/commands/staging"
	"github.com/toolvizion/go-language-manager/internal/content"
	"github.com/toolvizion/go-language-manager/internal/jobs"
	"github.com/toolvizion/go-language-manager/internal/logging"
	"github.com/toolvizion/go-language-manager/internal/reporting"
	"github.com/toolvizion/go-language-manager/internal/runtimeconfig"
	"github.com/toolvizion/go-language-manager/internal/staging"
	"github.com/toolvizion/go-language-manager/pkg/interfaces"
)

// Container wires module dependencies from configuration. Hosts construct
// one per installation; there are no package-level singletons.
type Container struct {
	Config runtimeconfig.Config

	bunDB         *bun.DB
	ownsDB        bool
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	loggerProvider interfaces.LoggerProvider
	users          interfaces.UserDirectory
	clock          func() time.Time

	contentStore interfaces.ContentStore
	stagingRepo  staging.Repository

	stagingSvc   staging.Service
	reportingSvc reporting.Service

	copyHandler     *stagingcmd.CopyHandler
	bulkCopyHandler *stagingcmd.BulkCopyHandler
	updateHandler   *stagingcmd.UpdateItemHandler
	syncHandler     *stagingcmd.SyncItemHandler
	cleanupHandler  *stagingcmd.CleanupHandler

	retention *jobs.RetentionWorker
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB supplies an externally managed database handle. The container
// will not close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default cache service and key serializer.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider supplies the structured logging provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithContentStore overrides the live content collaborator.
func WithContentStore(store interfaces.ContentStore) Option {
	return func(c *Container) {
		c.contentStore = store
	}
}

// WithStagingRepository overrides the staging persistence binding.
func WithStagingRepository(repo staging.Repository) Option {
	return func(c *Container) {
		c.stagingRepo = repo
	}
}

// WithUserDirectory injects actor display-name resolution for reporting.
func WithUserDirectory(users interfaces.UserDirectory) Option {
	return func(c *Container) {
		c.users = users
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithStagingService overrides the default staging service binding.
func WithStagingService(svc staging.Service) Option {
	return func(c *Container) {
		c.stagingSvc = svc
	}
}

// WithReportingService overrides the default reporting service binding.
func WithReportingService(svc reporting.Service) Option {
	return func(c *Container) {
		c.reportingSvc = svc
	}
}

// NewContainer validates the configuration, opens storage when the driver
// requires it, and wires every service and command handler.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
		clock:    time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureStorage(ctx); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()
	c.configureServices()
	c.configureHandlers()

	return c, nil
}

// Close releases the database handle when the container opened it.
func (c *Container) Close() error {
	if c.bunDB != nil && c.ownsDB {
		return c.bunDB.Close()
	}
	return nil
}

func (c *Container) configureStorage(ctx context.Context) error {
	driver := strings.ToLower(strings.TrimSpace(c.Config.Storage.Driver))
	if driver == "memory" || c.bunDB != nil {
		if c.bunDB != nil {
			return c.ensureSchema(ctx)
		}
		return nil
	}

	var (
		sqldb *sql.DB
		err   error
		db    *bun.DB
	)
	switch driver {
	case "sqlite":
		sqldb, err = sql.Open("sqlite3", c.Config.Storage.DSN)
		if err != nil {
			return fmt.Errorf("di: open sqlite: %w", err)
		}
		db = bun.NewDB(sqldb, sqlitedialect.New())
	case "postgres":
		sqldb, err = sql.Open("postgres", c.Config.Storage.DSN)
		if err != nil {
			return fmt.Errorf("di: open postgres: %w", err)
		}
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		return fmt.Errorf("di: unsupported storage driver %q", driver)
	}

	c.bunDB = db
	c.ownsDB = true
	return c.ensureSchema(ctx)
}

func (c *Container) ensureSchema(ctx context.Context) error {
	if err := staging.EnsureSchema(ctx, c.bunDB); err != nil {
		return err
	}
	if c.contentStore == nil {
		if err := content.EnsureSchema(ctx, c.bunDB); err != nil {
			return err
		}
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cacheCfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cacheCfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cacheCfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB != nil {
		if c.stagingRepo == nil {
			c.stagingRepo = staging.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		}
		if c.contentStore == nil {
			c.contentStore = content.NewBunStore(c.bunDB)
		}
		return
	}
	if c.stagingRepo == nil {
		c.stagingRepo = staging.NewMemoryRepository()
	}
	if c.contentStore == nil {
		c.contentStore = content.NewMemoryStore()
	}
}

func (c *Container) configureServices() {
	if c.stagingSvc == nil {
		c.stagingSvc = staging.NewService(
			c.stagingRepo,
			c.contentStore,
			staging.WithClock(c.clock),
			staging.WithLogger(c.moduleLogger(logging.StagingLogger)),
			staging.WithManagedContentType(c.Config.ManagedContentType),
			staging.WithDefaultLanguage(c.Config.DefaultLanguage),
			staging.WithRetentionDays(c.Config.Retention.MaxAgeDays),
		)
	}

	if c.reportingSvc == nil {
		reportingOpts := []reporting.ServiceOption{
			reporting.WithLogger(c.moduleLogger(logging.ReportingLogger)),
			reporting.WithManagedContentType(c.Config.ManagedContentType),
			reporting.WithDefaultLanguage(c.Config.DefaultLanguage),
			reporting.WithLanguages(c.Config.Languages),
		}
		if c.users != nil {
			reportingOpts = append(reportingOpts, reporting.WithUserDirectory(c.users))
		}
		c.reportingSvc = reporting.NewService(c.stagingRepo, c.contentStore, reportingOpts...)
	}

	retentionOpts := []jobs.RetentionOption{
		jobs.WithClock(c.clock),
		jobs.WithLogger(c.moduleLogger(logging.JobsLogger)),
		jobs.WithMaxAgeDays(c.Config.Retention.MaxAgeDays),
	}
	if c.Config.Retention.SweepInterval > 0 {
		retentionOpts = append(retentionOpts, jobs.WithInterval(c.Config.Retention.SweepInterval))
	}
	c.retention = jobs.NewRetentionWorker(c.stagingSvc, retentionOpts...)
}

func (c *Container) configureHandlers() {
	logger := commands.CommandLogger(c.loggerProvider, "staging")
	c.copyHandler = stagingcmd.NewCopyHandler(c.stagingSvc, logger)
	c.bulkCopyHandler = stagingcmd.NewBulkCopyHandler(c.stagingSvc, logger)
	c.updateHandler = stagingcmd.NewUpdateItemHandler(c.stagingSvc, logger)
	c.syncHandler = stagingcmd.NewSyncItemHandler(c.stagingSvc, logger)
	c.cleanupHandler = stagingcmd.NewCleanupHandler(c.stagingSvc, logger)
}

func (c *Container) moduleLogger(build func(interfaces.LoggerProvider) interfaces.Logger) interfaces.Logger {
	if c.loggerProvider == nil {
		return logging.NoOp()
	}
	return build(c.loggerProvider)
}

// DB exposes the database handle, nil when running on memory storage.
func (c *Container) DB() *bun.DB { return c.bunDB }

// ContentStore exposes the live content collaborator.
func (c *Container) ContentStore() interfaces.ContentStore { return c.contentStore }

// StagingRepository exposes the staging persistence binding.
func (c *Container) StagingRepository() staging.Repository { return c.stagingRepo }

// Staging exposes the staging engine.
func (c *Container) Staging() staging.Service { return c.stagingSvc }

// Reporting exposes the read-only query layer.
func (c *Container) Reporting() reporting.Service { return c.reportingSvc }

// RetentionWorker exposes the cleanup worker for host schedulers.
func (c *Container) RetentionWorker() *jobs.RetentionWorker { return c.retention }

// CopyHandler exposes the copy-one command boundary.
func (c *Container) CopyHandler() *stagingcmd.CopyHandler { return c.copyHandler }

// BulkCopyHandler exposes the copy-bulk command boundary.
func (c *Container) BulkCopyHandler() *stagingcmd.BulkCopyHandler { return c.bulkCopyHandler }

// UpdateItemHandler exposes the update-item command boundary.
func (c *Container) UpdateItemHandler() *stagingcmd.UpdateItemHandler { return c.updateHandler }

// SyncItemHandler exposes the sync-item command boundary.
func (c *Container) SyncItemHandler() *stagingcmd.SyncItemHandler { return c.syncHandler }

// CleanupHandler exposes the cleanup command boundary.
func (c *Container) CleanupHandler() *stagingcmd.CleanupHandler { return c.cleanupHandler }
