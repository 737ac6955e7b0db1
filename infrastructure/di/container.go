package di

import (
	"context"
	"fmt"
	"os"

	"github.com/ca-srg/tzexplorer/domain"
	"github.com/ca-srg/tzexplorer/domain/repository"
	"github.com/ca-srg/tzexplorer/infrastructure/config"
	"github.com/ca-srg/tzexplorer/infrastructure/logging"
	infraRepo "github.com/ca-srg/tzexplorer/infrastructure/repository"
	"github.com/ca-srg/tzexplorer/infrastructure/service"
	"github.com/ca-srg/tzexplorer/interface/cli"
	"github.com/ca-srg/tzexplorer/interface/controller"
	"github.com/ca-srg/tzexplorer/interface/presenter"
	"github.com/ca-srg/tzexplorer/usecase/impl"
	usecase "github.com/ca-srg/tzexplorer/usecase/interface"
)

// Container is the dependency injection container
type Container struct {
	// Configuration
	config        *config.AppConfig
	configRepo    repository.ConfigRepository
	configService usecase.ConfigService

	// Repositories
	catalogRepo    repository.TimezoneCatalogRepository
	preferenceRepo repository.PreferenceRepository
	metricsRepo    repository.MetricsRepository

	// Domain services
	resolver        repository.LocationResolver
	localeFormatter repository.LocaleFormatter

	// Use Cases
	snapshotService   usecase.SnapshotService
	explorerService   usecase.ExplorerService
	preferenceService usecase.PreferenceService
	metricsService    usecase.MetricsService

	// Presenters
	presenter presenter.Presenter

	// Controllers
	clockController  *controller.ClockController
	daemonController *controller.DaemonController
	trayController   *controller.TrayController
	cliController    *cli.CLIController

	// Logging
	loggerFactory domain.LoggerFactory
	logger        domain.Logger

	// Options
	configPath string
	debugMode  bool
	jsonOutput bool
}

// ContainerOption is a function that configures the container
type ContainerOption func(*Container)

// WithDebugMode sets the debug mode
func WithDebugMode(debug bool) ContainerOption {
	return func(c *Container) {
		c.debugMode = debug
	}
}

// WithConfigPath overrides ~/.config/tzexplorer/config.json
func WithConfigPath(path string) ContainerOption {
	return func(c *Container) {
		c.configPath = path
	}
}

// WithJSONOutput selects the JSON presenter
func WithJSONOutput(enabled bool) ContainerOption {
	return func(c *Container) {
		c.jsonOutput = enabled
	}
}

// NewContainer creates a new DI container
func NewContainer(opts ...ContainerOption) (*Container, error) {
	container := &Container{}

	// Apply options
	for _, opt := range opts {
		opt(container)
	}

	// Load configuration
	if err := container.initConfig(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	// Initialize logging
	if err := container.initLogging(); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	// Initialize domain services
	if err := container.initDomainServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize domain services: %w", err)
	}

	// Initialize repositories
	if err := container.initRepositories(); err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	// Initialize use cases
	if err := container.initUseCases(); err != nil {
		return nil, fmt.Errorf("failed to initialize use cases: %w", err)
	}

	// Initialize Prometheus components if enabled
	if err := container.initPrometheus(); err != nil {
		return nil, fmt.Errorf("failed to initialize prometheus: %w", err)
	}

	// Initialize presenters
	if err := container.initPresenters(); err != nil {
		return nil, fmt.Errorf("failed to initialize presenters: %w", err)
	}

	// Initialize controllers
	if err := container.initControllers(); err != nil {
		return nil, fmt.Errorf("failed to initialize controllers: %w", err)
	}

	return container, nil
}

// initConfig initializes configuration
func (c *Container) initConfig() error {
	// Create temporary NoOpLogger for initial configuration loading
	tempLogger := &logging.NoOpLogger{}
	c.configRepo = infraRepo.NewJSONConfigRepository(c.configPath, tempLogger)

	configService, err := impl.NewConfigService(c.configRepo, tempLogger)
	if err != nil {
		return fmt.Errorf("failed to create config service: %w", err)
	}
	c.configService = configService

	// Ensure config file exists (create template if needed)
	if err := configService.EnsureConfigExists(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to create config file: %v\n", err)
	}

	cfg := configService.GetConfig()

	// Override debug mode if set via command line
	if c.debugMode {
		if cfg.Logging == nil {
			cfg.Logging = config.DefaultConfig().Logging
		}
		cfg.Logging.Debug = true
	}

	c.config = cfg
	return nil
}

// initLogging initializes logging components
func (c *Container) initLogging() error {
	if c.config.Logging == nil {
		c.config.Logging = config.DefaultConfig().Logging
	}

	c.loggerFactory = logging.NewLoggerFactory(c.config.Logging)
	c.logger = c.loggerFactory.CreateLogger("tzexplorer")
	return nil
}

// initDomainServices initializes timezone and locale services
func (c *Container) initDomainServices() error {
	c.resolver = service.NewLocationResolver(c.config, c.CreateLogger("resolver"))
	c.localeFormatter = service.NewLocaleFormatter()
	return nil
}

// initRepositories initializes repository implementations
func (c *Container) initRepositories() error {
	ctx := context.Background()

	c.catalogRepo = infraRepo.NewZoneinfoCatalogRepository(c.config, c.CreateLogger("catalog"))

	path := ""
	var opts []infraRepo.SQLiteOption
	if c.config.Preferences != nil {
		path = c.config.Preferences.DatabasePath
		if c.config.Preferences.DisableWatch {
			opts = append(opts, infraRepo.WithoutWatch())
		}
	}
	if path == "" {
		defaultPath, err := config.DefaultPreferencesPath()
		if err != nil {
			return err
		}
		path = defaultPath
	}

	prefRepo, err := infraRepo.NewSQLitePreferenceRepository(path, c.CreateLogger("preferences"), opts...)
	if err != nil {
		// Preferences are not required to browse; keep them for this run only
		c.logger.Warn(ctx, "Preference store unavailable, changes will not persist",
			domain.NewField("path", path),
			domain.NewField("error", err.Error()))
		prefRepo = infraRepo.NewMemoryPreferenceRepository()
	}
	c.preferenceRepo = prefRepo

	return nil
}

// initUseCases initializes use case implementations
func (c *Container) initUseCases() error {
	offsets := impl.NewOffsetExtractor(c.resolver)
	classifier := impl.NewDSTClassifier(c.config.Explorer.DSTStrategy, c.resolver, offsets, c.localeFormatter)

	c.snapshotService = impl.NewSnapshotService(
		c.resolver,
		c.localeFormatter,
		offsets,
		classifier,
		c.config.Explorer.DefaultLocale,
		c.CreateLogger("snapshot"),
	)

	preferenceService := impl.NewPreferenceService(c.preferenceRepo, c.resolver, c.CreateLogger("preferences"))
	c.preferenceService = preferenceService

	c.explorerService = impl.NewExplorerService(
		c.catalogRepo,
		c.resolver,
		c.snapshotService,
		preferenceService,
		c.config.Explorer.PageSize,
		nil,
		c.CreateLogger("explorer"),
	)

	return nil
}

// initPrometheus wires the metrics push when a remote write URL is configured
func (c *Container) initPrometheus() error {
	if c.config.Prometheus == nil || c.config.Prometheus.RemoteWriteURL == "" {
		c.metricsRepo = infraRepo.NewNoOpMetricsRepository()
		return nil
	}

	metricsRepo, err := infraRepo.NewPrometheusMetricsRepository(c.config.Prometheus)
	if err != nil {
		return fmt.Errorf("failed to create metrics repository: %w", err)
	}
	c.metricsRepo = metricsRepo

	collector := impl.NewMetricsDataCollector(c.snapshotService, c.resolver, nil)
	c.metricsService = impl.NewMetricsServiceImpl(
		collector,
		c.metricsRepo,
		c.config.Prometheus,
		c.CreateLogger("metrics"),
	)
	return nil
}

// initPresenters initializes presenter implementations
func (c *Container) initPresenters() error {
	if c.jsonOutput {
		c.presenter = presenter.NewJSONPresenter()
	} else {
		c.presenter = presenter.NewConsolePresenter()
	}
	return nil
}

// initControllers initializes controller implementations
func (c *Container) initControllers() error {
	c.clockController = controller.NewClockController(
		c.preferenceService,
		c.presenter,
		c.config.RefreshInterval(),
		c.CreateLogger("clock"),
	)

	c.daemonController = controller.NewDaemonController(
		c.config,
		c.metricsService,
		c.CreateLogger("daemon"),
	)

	limit := 0
	if c.config.Daemon != nil {
		limit = c.config.Daemon.TrayFavoritesLimit
	}
	c.trayController = controller.NewTrayController(
		c.explorerService,
		c.preferenceService,
		c.metricsService,
		limit,
		c.config.RefreshInterval(),
		c.CreateLogger("tray"),
	)

	c.cliController = newCLIController(c)
	return nil
}

// Close releases the preference store and the metrics client
func (c *Container) Close() error {
	var firstErr error
	if c.preferenceRepo != nil {
		if err := c.preferenceRepo.Close(); err != nil {
			firstErr = err
		}
	}
	if c.metricsRepo != nil {
		if err := c.metricsRepo.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// GetConfig returns the application configuration
func (c *Container) GetConfig() *config.AppConfig {
	return c.config
}

// GetConfigService returns the config service
func (c *Container) GetConfigService() usecase.ConfigService {
	return c.configService
}

// GetExplorerService returns the explorer service
func (c *Container) GetExplorerService() usecase.ExplorerService {
	return c.explorerService
}

// GetPreferenceService returns the preference service
func (c *Container) GetPreferenceService() usecase.PreferenceService {
	return c.preferenceService
}

// GetMetricsService returns the metrics service, nil when no remote write URL is set
func (c *Container) GetMetricsService() usecase.MetricsService {
	return c.metricsService
}

// GetPresenter returns the selected presenter
func (c *Container) GetPresenter() presenter.Presenter {
	return c.presenter
}

// GetCLIController returns the CLI controller
func (c *Container) GetCLIController() *cli.CLIController {
	return c.cliController
}

// GetLogger returns the main logger
func (c *Container) GetLogger() domain.Logger {
	return c.logger
}

// CreateLogger creates a new logger for a specific component
func (c *Container) CreateLogger(component string) domain.Logger {
	if c.loggerFactory == nil {
		return &logging.NoOpLogger{}
	}
	return c.loggerFactory.CreateLogger(component)
}
