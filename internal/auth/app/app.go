package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aussiebroadwan/reel/internal/auth/challenge"
	"github.com/aussiebroadwan/reel/internal/auth/events"
	httpapi "github.com/aussiebroadwan/reel/internal/auth/http"
	"github.com/aussiebroadwan/reel/internal/auth/service"
	"github.com/aussiebroadwan/reel/internal/auth/store"
	"github.com/aussiebroadwan/reel/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/reel/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db         store.Store
	redis      redis.UniversalClient // nil unless a redis backend is configured
	challenges challenge.Store
	events     *events.Publisher // nil when events are disabled

	// Services
	flowService         *service.FlowService
	sessionService      *service.SessionService
	passkeyService      *service.PasskeyService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initRedis(); err != nil {
		app.closeBackends()
		return nil, err
	}
	if err := app.initChallenges(); err != nil {
		app.closeBackends()
		return nil, err
	}
	if err := app.initEvents(); err != nil {
		app.closeBackends()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler returns the fully wired HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("auth service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"challenge_backend", app.cfg.ChallengeBackend,
		"events_backend", app.cfg.EventsBackend,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.housekeepingService.Stop()
			app.closeBackends()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	if err := app.closeBackends(); err != nil {
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// closeBackends releases everything New opened, in reverse order. The
// database error, if any, is returned.
func (app *Application) closeBackends() error {
	if app.events != nil {
		if err := app.events.Close(); err != nil {
			app.logger.Error("error closing event publisher", "error", err)
		}
	}
	if c, ok := app.challenges.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			app.logger.Error("error closing challenge store", "error", err)
		}
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database", "error", err)
			return err
		}
	}
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	dsn := app.cfg.DatabaseFile
	if dsn != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", dsn)
	}
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		app.db = nil
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initRedis() error {
	if !app.cfg.needsRedis() {
		return nil
	}

	opts, err := redis.ParseURL(app.cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to parse AUTH_REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	app.redis = client
	app.logger.Info("connected to redis", "addr", opts.Addr)
	return nil
}

func (app *Application) initChallenges() error {
	switch app.cfg.ChallengeBackend {
	case BackendRedis:
		app.challenges = challenge.NewRedisStore(app.redis, app.cfg.ChallengeTTL)
	case BackendSQL:
		app.challenges = challenge.NewSQLStore(app.db, app.cfg.ChallengeTTL)
	case BackendMemory:
		app.challenges = challenge.NewMemoryStore(app.cfg.ChallengeTTL)
	default:
		return fmt.Errorf("unknown challenge backend %q", app.cfg.ChallengeBackend)
	}
	return nil
}

func (app *Application) initEvents() error {
	switch app.cfg.EventsBackend {
	case BackendRedis:
		pub, err := events.NewRedisPublisher(app.redis, app.logger)
		if err != nil {
			return err
		}
		app.events = pub
	case BackendMemory:
		// Events are dropped unless something subscribes to the in-process bus.
		app.events, _ = events.NewMemoryPublisher(app.logger)
	case BackendNone:
	default:
		return fmt.Errorf("unknown events backend %q", app.cfg.EventsBackend)
	}
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.sessionService = &service.SessionService{
		Store: app.db,
		TTL:   app.cfg.SessionTTL,
	}
	if app.events != nil {
		app.sessionService.Events = app.events
	}

	app.passkeyService = &service.PasskeyService{Store: app.db}

	app.flowService = &service.FlowService{
		Challenges: app.challenges,
		Directory:  &service.UserDirectory{Store: app.db},
		Validator:  &service.CredentialValidator{Store: app.db},
		Passkeys:   app.passkeyService,
		Sessions:   app.sessionService,
		CodeSender: &service.LogCodeSender{
			Logger:      app.logger,
			IncludeCode: !app.cfg.IsProduction(),
		},
		RP: service.RelyingParty{
			ID:      app.cfg.RPID,
			Name:    app.cfg.RPName,
			Timeout: app.cfg.ChallengeTTL,
		},
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	// Wire services to router
	router.Flow = app.flowService
	router.Sessions = app.sessionService
	router.Passkeys = app.passkeyService
	router.ExposeOTP = !app.cfg.IsProduction()
	router.CORSOrigins = app.cfg.CORSOrigins
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
