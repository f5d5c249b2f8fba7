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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/krykon00/krk-budget-app/internal/config"
	"github.com/krykon00/krk-budget-app/internal/dataprocessing"
	apierrors "github.com/krykon00/krk-budget-app/internal/errors"
	"github.com/krykon00/krk-budget-app/internal/files"
	"github.com/krykon00/krk-budget-app/internal/infrastructure"
	customMiddleware "github.com/krykon00/krk-budget-app/internal/middleware"
	"github.com/krykon00/krk-budget-app/internal/services"
	handlers "github.com/krykon00/krk-budget-app/internal/transport/http"
	"github.com/krykon00/krk-budget-app/pkg/contracts"
)

// AppName is logged at startup
const AppName = "Kraków Budget Dashboard"

// compressionLevel is the gzip level of API and page responses
const compressionLevel = 5

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Views         *services.ViewService
	Health        *services.HealthService
	ErrorHandler  *apierrors.ErrorHandler
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
}

// NewApplication wires the services, handlers and middleware. A nil logger
// initializes the global logger from the configuration.
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		var err error
		logger, err = infrastructure.InitializeLogger(cfg.Logging)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.String("data_dir", cfg.Data.Dir))

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices creates the services and the error mapping for their sentinels
func (a *Application) initializeServices() {
	a.Views = services.NewViewService(a.Config.Data, a.Metrics, a.Logger)
	a.Health = services.NewHealthService(a.Config.Data, a.Logger)

	a.ErrorHandler = apierrors.NewErrorHandler(a.Logger, a.Config.Telemetry.Environment == "development")
	a.ErrorHandler.Register(services.ErrViewNotFound, http.StatusNotFound, apierrors.TypeViewNotFound, "View Not Found")
	a.ErrorHandler.Register(services.ErrNoPeriods, http.StatusNotFound, apierrors.TypeDataNotFound, "No Data")
	a.ErrorHandler.Register(files.ErrDirNotFound, http.StatusNotFound, apierrors.TypeDataNotFound, "Data Not Found")
	a.ErrorHandler.Register(dataprocessing.ErrFileNotFound, http.StatusNotFound, apierrors.TypeDataNotFound, "Data Not Found")
	a.ErrorHandler.Register(dataprocessing.ErrSheetNotFound, http.StatusNotFound, apierrors.TypeDataNotFound, "Data Not Found")
	for _, err := range []error{
		files.ErrPeriodNotInName,
		dataprocessing.ErrColumnNotFound,
		dataprocessing.ErrDuplicateColumn,
	} {
		a.ErrorHandler.Register(err, http.StatusUnprocessableEntity, apierrors.TypeDataCorrupted, "Invalid Data")
	}
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StripSlashes)

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	// Scraped outside the full chain so scrapes are neither logged nor rate limited
	r.Handle("/metrics", handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, a.ErrorHandler))

	r.Group(func(r chi.Router) {
		// RequestID → RealIP → OTel → Logger → Recoverer → Timeout
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(a.ErrorHandler.Recoverer)
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))
		r.Use(customMiddleware.DefaultSecureHeaders().Handler)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		r.Use(customMiddleware.Compress(compressionLevel))

		a.setupAPIRoutes(r)
		a.setupHTMLRoutes(r)
	})

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	health := handlers.NewHealthHandler(a.Health, a.Logger)
	dashboard := handlers.NewDashboardHandler(a.Views, a.Logger, a.ErrorHandler)
	clientLog := handlers.NewClientLogHandler(a.Logger, a.ErrorHandler)

	r.Route("/api", func(r chi.Router) {
		r.With(render.SetContentType(render.ContentTypeJSON)).Get("/version", health.Version)
		r.Mount("/health", health.Routes())
		r.Mount("/views", dashboard.Routes())
		r.Post("/client-log", clientLog.Handle)
	})
}

// setupHTMLRoutes configures the dashboard pages
func (a *Application) setupHTMLRoutes(r chi.Router) {
	pages := handlers.NewPageHandler(a.Views, a.Logger, a.ErrorHandler)
	r.Get("/", pages.Index)
	r.Get("/views/{view}", pages.View)
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			customMiddleware.RequestIDHeader,
		},
		ExposedHeaders: []string{customMiddleware.RequestIDHeader},
		MaxAge:         300,
		Logger:         a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts serving in the background. A listener failure cancels ctx
// through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.performStartupHealthCheck(ctx)

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.ErrorContext(ctx, "Error closing log file", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	<-sigCtx.Done()
	a.Logger.InfoContext(ctx, "Received shutdown signal")

	// The run context may already be cancelled by a listener failure
	return a.Stop(context.Background())
}

// performStartupHealthCheck logs data sources that are not usable yet. The
// server still starts so the data can be fixed without a restart.
func (a *Application) performStartupHealthCheck(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	status := a.Health.ReadinessCheck(checkCtx)
	for name, s := range status.Services {
		if s.Status != services.StatusReady {
			a.Logger.WarnContext(ctx, "Data source not ready",
				slog.String("source", name),
				slog.String("reason", s.Message))
		}
	}
	if status.Status == services.StatusReady {
		a.Logger.InfoContext(ctx, "Startup health check passed")
	}
}
