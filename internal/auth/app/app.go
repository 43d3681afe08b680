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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/sautiyetu/sauti/internal/auth/http"
	"github.com/sautiyetu/sauti/internal/auth/ratelimit"
	"github.com/sautiyetu/sauti/internal/auth/service"
	"github.com/sautiyetu/sauti/internal/auth/sms"
	"github.com/sautiyetu/sauti/internal/auth/store"
	"github.com/sautiyetu/sauti/internal/auth/store/drivers/sqlite"
	"github.com/sautiyetu/sauti/pkg/cryptox"
	"github.com/sautiyetu/sauti/pkg/jwtx"
	"github.com/sautiyetu/sauti/pkg/slogx"
)

const (
	// BuildVersion is overridden at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	redis    *redis.Client // nil unless configured
	signer   *jwtx.Signer
	sender   sms.Sender
	registry *prometheus.Registry
	guard    *ratelimit.Guard

	otpService          *service.OTPService
	tokenService        *service.TokenService
	phoneAuthService    *service.PhoneAuthService
	accountService      *service.AccountService
	adminAuthService    *service.AdminAuthService
	adminUserService    *service.AdminUserService
	mfaService          *service.MFAService
	geographyService    *service.GeographyService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "sauti-auth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	signer, err := InitSigner(app.cfg, app.logger)
	if err != nil {
		app.closeResources()
		return nil, fmt.Errorf("failed to initialize signing key: %w", err)
	}
	app.signer = signer

	sender, err := sms.New(app.cfg.SMS)
	if err != nil {
		app.closeResources()
		return nil, fmt.Errorf("failed to initialize sms sender: %w", err)
	}
	app.sender = sender
	app.logger.Info("sms sender configured", "driver", sender.Name())

	if err := app.initRateLimiter(); err != nil {
		app.closeResources()
		return nil, err
	}

	app.initServices()

	ctx := slogx.WithContext(context.Background(), app.logger)
	if _, err := app.bootstrapService.EnsureSuperAdmin(ctx); err != nil {
		app.closeResources()
		return nil, fmt.Errorf("failed to bootstrap super admin: %w", err)
	}

	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.closeResources(); err != nil {
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

func (app *Application) closeResources() error {
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

// initDatabase opens the database and applies migrations. Foreign keys are
// required for token cascades; immediate transactions avoid lock upgrades.
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_txlock=immediate",
		app.cfg.DatabaseFile,
	)
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

// initRateLimiter selects the action limiter backend and registers metrics.
func (app *Application) initRateLimiter() error {
	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if app.cfg.RedisURL != "" {
		opts, err := redis.ParseURL(app.cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		app.redis = redis.NewClient(opts)
	}

	var limiter ratelimit.Limiter
	switch app.cfg.RateLimitBackend {
	case LimiterBackendSQLite, "":
		limiter = ratelimit.NewStoreLimiter(app.db.RateLimits())
	case LimiterBackendRedis:
		if app.redis == nil {
			return errors.New("RATE_LIMIT_BACKEND=redis requires REDIS_URL")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to reach redis: %w", err)
		}
		limiter = ratelimit.NewRedisLimiter(app.redis)
	default:
		return fmt.Errorf("unknown RATE_LIMIT_BACKEND %q", app.cfg.RateLimitBackend)
	}

	app.guard = ratelimit.NewGuard(limiter, ratelimit.NewMetrics(app.registry))
	app.logger.Info("rate limiter configured", "backend", app.cfg.RateLimitBackend)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	metrics := service.NewMetrics(app.registry)

	app.tokenService = service.NewTokenService(app.signer, app.db, app.cfg.Issuer, app.cfg.TokenTTL)
	app.accountService = &service.AccountService{Store: app.db}
	app.otpService = &service.OTPService{
		Store:   app.db,
		Sender:  app.sender,
		Window:  app.cfg.OTPTTL,
		Metrics: metrics,
	}
	app.phoneAuthService = &service.PhoneAuthService{
		Store:   app.db,
		OTP:     app.otpService,
		Tokens:  app.tokenService,
		Guard:   app.guard,
		Metrics: metrics,
	}
	app.mfaService = &service.MFAService{
		Store:  app.db,
		Issuer: app.cfg.TOTPIssuer,
	}
	app.adminAuthService = &service.AdminAuthService{
		Store:   app.db,
		Tokens:  app.tokenService,
		MFA:     app.mfaService,
		Guard:   app.guard,
		Metrics: metrics,
	}
	app.adminUserService = &service.AdminUserService{
		Store:  app.db,
		Tokens: app.tokenService,
	}
	app.geographyService = &service.GeographyService{Store: app.db}
	app.bootstrapService = &service.BootstrapService{
		Store:    app.db,
		Admins:   app.adminUserService,
		Name:     app.cfg.BootstrapAdminName,
		Email:    app.cfg.BootstrapAdminEmail,
		Password: app.cfg.BootstrapAdminPassword,
		Phone:    app.cfg.BootstrapAdminPhone,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.otpService,
		app.tokenService,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.logger)

	router.DB = app.db
	if app.redis != nil {
		router.Cache = redisPinger{app.redis}
	}
	router.Registry = app.registry
	router.Guard = app.guard

	router.OTPService = app.otpService
	router.PhoneAuthService = app.phoneAuthService
	router.AccountService = app.accountService
	router.TokenService = app.tokenService
	router.AdminAuthService = app.adminAuthService
	router.AdminUserService = app.adminUserService
	router.MFAService = app.mfaService
	router.GeographyService = app.geographyService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

type redisPinger struct{ c *redis.Client }

func (p redisPinger) Ping(ctx context.Context) error { return p.c.Ping(ctx).Err() }
