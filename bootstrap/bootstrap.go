// Package bootstrap wires all dependencies and starts the application.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/artpar/themedesigner/adapters/hasher"
	apihttp "github.com/artpar/themedesigner/adapters/http"
	"github.com/artpar/themedesigner/adapters/http/admin"
	"github.com/artpar/themedesigner/adapters/idgen"
	"github.com/artpar/themedesigner/adapters/markup"
	"github.com/artpar/themedesigner/adapters/metrics"
	"github.com/artpar/themedesigner/app"
	"github.com/artpar/themedesigner/config"
	"github.com/artpar/themedesigner/domain/field"
)

// Options configures application startup.
type Options struct {
	// ConfigPath is the YAML config file. When it does not exist the
	// configuration comes from the environment and is not hot-reloaded.
	ConfigPath string
}

// App represents the running application.
type App struct {
	Logger     zerolog.Logger
	Config     *config.Config // as loaded at startup
	Stores     *Stores
	HTTPServer *http.Server
	Metrics    *metrics.Collector
	Fields     *app.FieldService
	Settings   *app.SettingsService
	Admin      *admin.Handler // nil when no admin password is configured

	holder         *config.Holder
	sanitizers     field.Sanitizers
	metricsHandler http.Handler
}

// New loads the configuration and builds the application.
func New(opts Options) (*App, error) {
	cfg, err := config.LoadWithFallback(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := SetupLogger(cfg.Logging)

	var holder *config.Holder
	if fileExists(opts.ConfigPath) {
		holder, err = config.NewHolder(opts.ConfigPath, logger.With().Str("component", "config").Logger())
		if err != nil {
			return nil, err
		}
		cfg = holder.Get()
	}

	a := &App{
		Logger: logger,
		Config: cfg,
		holder: holder,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stores, err := OpenStores(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	a.Stores = stores

	if err := a.initServices(ctx); err != nil {
		stores.Close()
		return nil, err
	}
	a.initHTTPServer()

	if holder != nil {
		a.watchConfig()
	}

	logger.Info().
		Str("driver", cfg.Database.Driver).
		Int("managers", len(cfg.Fields.Managers)).
		Bool("admin", a.Admin != nil).
		Bool("metrics", cfg.Metrics.Enabled).
		Msg("application initialized")

	return a, nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func (a *App) initServices(ctx context.Context) error {
	cfg := a.Config

	var recorder app.Recorder
	if cfg.Metrics.Enabled {
		a.Metrics, a.metricsHandler = newMetrics()
		recorder = a.Metrics
	}

	filter := markup.New()
	a.sanitizers = field.DefaultSanitizers(filter.StripTags)

	reg, err := BuildRegistry(cfg.Fields, a.sanitizers, a.Logger)
	if err != nil {
		return fmt.Errorf("build field managers: %w", err)
	}

	a.Fields = app.NewFieldService(app.FieldDeps{
		Meta:     a.Stores.Meta,
		IDGen:    idgen.UUID{},
		Recorder: recorder,
		Logger:   a.Logger.With().Str("component", "fields").Logger(),
	}, reg)

	a.Settings = app.NewSettingsService(app.SettingsDeps{
		Store:    a.Stores.Settings,
		Markup:   filter,
		Recorder: recorder,
		Logger:   a.Logger.With().Str("component", "settings").Logger(),
	})
	if err := a.Settings.Load(ctx); err != nil {
		return err
	}

	if cfg.Admin.PasswordHash != "" {
		a.Admin = admin.NewHandler(admin.Deps{
			Fields:       a.Fields,
			Settings:     a.Settings,
			Hasher:       hasher.NewBcrypt(0),
			Metrics:      a.Metrics,
			Logger:       a.Logger.With().Str("component", "admin").Logger(),
			Namespace:    cfg.Fields.Namespace,
			Username:     cfg.Admin.Username,
			PasswordHash: cfg.Admin.PasswordHash,
		})
	} else {
		a.Logger.Warn().Msg("admin.password_hash is empty, admin API disabled")
	}

	return nil
}

// newMetrics registers the collector on its own registry along with the
// Go runtime and process collectors.
func newMetrics() (*metrics.Collector, http.Handler) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return metrics.NewWithRegistry(reg), promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func (a *App) initHTTPServer() {
	cfg := a.Config

	routerCfg := apihttp.RouterConfig{
		EnableOpenAPI: cfg.OpenAPI.Enabled,
	}
	if a.Metrics != nil {
		routerCfg.Metrics = a.Metrics
		routerCfg.MetricsPath = cfg.Metrics.Path
		routerCfg.MetricsHandler = a.metricsHandler
	}
	if a.Admin != nil {
		routerCfg.AdminHandler = a.Admin.Router()
	}

	router := apihttp.NewRouter(apihttp.NewHealthHandler(a.Stores.Pinger), a.Logger, routerCfg)

	a.HTTPServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

// BuildRegistry builds the field managers declared in cfg. Override keys
// that are not recognized are logged and skipped.
func BuildRegistry(cfg config.FieldsConfig, sanitizers field.Sanitizers, logger zerolog.Logger) (*field.Registry, error) {
	reg, _ := field.NewRegistry()

	for _, mc := range cfg.Managers {
		m := field.NewManager(cfg.Namespace, mc.Name)
		for _, fc := range mc.Fields {
			args, ignored, err := field.ArgsFromMap(fc.Args, sanitizers)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", mc.Name, fc.Name, err)
			}
			if len(ignored) > 0 {
				logger.Warn().
					Str("manager", mc.Name).
					Str("field", fc.Name).
					Strs("keys", ignored).
					Msg("ignoring unknown field options")
			}
			if _, err := m.Register(field.Kind(fc.Type), fc.Name, args); err != nil {
				return nil, err
			}
		}
		if err := reg.Add(m); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// watchConfig applies reloadable settings when the config file changes.
func (a *App) watchConfig() {
	a.holder.OnChange(a.applyConfig)
	a.holder.OnError(func(error) {
		if a.Metrics != nil {
			a.Metrics.ConfigReloadErrors.Inc()
		}
	})

	if err := a.holder.WatchFile(); err != nil {
		a.Logger.Warn().Err(err).Msg("config file watch unavailable")
	}
	a.holder.WatchSignals()
}

// applyConfig swaps in the reloadable parts of cfg.
func (a *App) applyConfig(cfg *config.Config) {
	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	reg, err := BuildRegistry(cfg.Fields, a.sanitizers, a.Logger)
	if err != nil {
		a.Logger.Error().Err(err).Msg("field managers not reloaded")
		if a.Metrics != nil {
			a.Metrics.ConfigReloadErrors.Inc()
		}
		return
	}
	a.Fields.SetRegistry(reg)

	if a.Admin != nil {
		a.Admin.SetCredentials(cfg.Admin.Username, cfg.Admin.PasswordHash)
	}

	if a.Metrics != nil {
		a.Metrics.ConfigReloads.Inc()
		a.Metrics.ConfigLastReload.SetToCurrentTime()
	}
}

// Run starts the HTTP server and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().
			Str("addr", a.HTTPServer.Addr).
			Msg("starting http server")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if a.holder != nil {
		a.holder.Stop()
	}

	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown error")
		}
	}

	if a.Stores != nil {
		if err := a.Stores.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("database close error")
			return err
		}
	}

	a.Logger.Info().Msg("shutdown complete")
	return nil
}

// SetupLogger returns the logger described by cfg and sets the global level.
func SetupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
