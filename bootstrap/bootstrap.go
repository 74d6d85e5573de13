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

	"github.com/codybmenefee/custodian-integration-tool/adapters/auth"
	"github.com/codybmenefee/custodian-integration-tool/adapters/clock"
	"github.com/codybmenefee/custodian-integration-tool/adapters/hasher"
	"github.com/codybmenefee/custodian-integration-tool/adapters/idgen"
	"github.com/codybmenefee/custodian-integration-tool/adapters/metrics"
	"github.com/codybmenefee/custodian-integration-tool/adapters/sqlite"
	"github.com/codybmenefee/custodian-integration-tool/app"
	"github.com/codybmenefee/custodian-integration-tool/config"
	"github.com/codybmenefee/custodian-integration-tool/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// App represents the running application.
type App struct {
	Logger     zerolog.Logger
	Config     *config.Config
	Holder     *config.Holder
	DB         *sqlite.DB
	HTTPServer *http.Server
	Metrics    *metrics.Collector

	Auth      *app.AuthService
	Schemas   *app.SchemaService
	Documents *app.DocumentService
}

// Options controls application initialization.
type Options struct {
	// ConfigPath points to a YAML config file. Empty falls back to
	// CUSTODIAN_* environment variables and defaults.
	ConfigPath string
	// WatchConfig enables hot reload of the config file.
	WatchConfig bool
}

// New creates and initializes the application.
func New(opts Options) (*App, error) {
	var (
		cfg    *config.Config
		holder *config.Holder
		err    error
	)

	if opts.ConfigPath != "" && opts.WatchConfig {
		holder, err = config.NewHolder(opts.ConfigPath, zerolog.New(os.Stdout).With().Timestamp().Logger())
		if err != nil {
			return nil, err
		}
		cfg = holder.Get()
	} else {
		cfg, err = config.LoadWithFallback(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
	}

	logger := setupLogger(cfg)
	logger.Info().Msg("initializing custodian")

	a := &App{
		Logger: logger,
		Config: cfg,
		Holder: holder,
	}

	if err := a.initDatabase(); err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	reg := prometheus.NewRegistry()
	a.Metrics = metrics.NewWithRegistry(reg)

	cl := clock.Real{}
	ids := idgen.UUID{}
	bcrypt := hasher.NewBcrypt(0)
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)

	schemaStore := sqlite.NewSchemaStore(a.DB)
	userStore := sqlite.NewUserStore(a.DB)
	documentStore := sqlite.NewDocumentStore(a.DB)

	a.Auth = app.NewAuthService(userStore, bcrypt, tokens, cl, ids, logger)
	a.Schemas = app.NewSchemaService(schemaStore, cl, ids, a.Metrics, logger)
	a.Documents = app.NewDocumentService(documentStore, schemaStore, cl, ids, a.Metrics, logger)

	if err := a.bootstrapUser(context.Background()); err != nil {
		return nil, fmt.Errorf("bootstrap user: %w", err)
	}

	var gatherer prometheus.Gatherer
	if cfg.Metrics.Enabled {
		gatherer = reg
		logger.Info().Msg("prometheus metrics enabled")
	}

	handler := web.NewHandler(web.Deps{
		Auth:           a.Auth,
		Schemas:        a.Schemas,
		Documents:      a.Documents,
		Tokens:         tokens,
		Metrics:        a.Metrics,
		Gatherer:       gatherer,
		Logger:         logger,
		MaxUploadBytes: cfg.Uploads.MaxBytes,
	})

	a.HTTPServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if holder != nil {
		holder.SetReloadCounters(a.Metrics.ConfigReloads, a.Metrics.ConfigReloadErrors)
		holder.OnChange(func(next *config.Config) {
			a.applyReloadableConfig(next)
		})
		if err := holder.WatchFile(); err != nil {
			logger.Warn().Err(err).Msg("config file watch unavailable")
		}
		holder.WatchSignals()
	}

	return a, nil
}

func (a *App) initDatabase() error {
	db, err := sqlite.Open(a.Config.Database.DSN)
	if err != nil {
		return err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return err
	}
	a.DB = db
	a.Logger.Info().Str("dsn", a.Config.Database.DSN).Msg("database ready")
	return nil
}

// bootstrapUser creates the initial account on first run when configured
// and the user table is empty.
func (a *App) bootstrapUser(ctx context.Context) error {
	email := a.Config.Auth.BootstrapEmail
	if email == "" {
		return nil
	}

	count, err := sqlite.NewUserStore(a.DB).Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if _, err := a.Auth.Register(ctx, email, a.Config.Auth.BootstrapPassword, "Bootstrap"); err != nil {
		return err
	}
	a.Logger.Info().Str("email", email).Msg("bootstrap account created")
	return nil
}

// applyReloadableConfig applies the subset of config that can change
// without a restart.
func (a *App) applyReloadableConfig(cfg *config.Config) {
	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	a.Config = cfg
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().Str("addr", a.HTTPServer.Addr).Msg("http server listening")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if a.Holder != nil {
		a.Holder.Stop()
	}

	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown error")
		}
	}

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("database close error")
		}
	}

	a.Logger.Info().Msg("shutdown complete")
	return nil
}

func setupLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Logging.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
