package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	hpentryapp "github.com/hpfin/backend/internal/application/hpentry"
	ledgerapp "github.com/hpfin/backend/internal/application/ledger"
	"github.com/hpfin/backend/internal/infrastructure/auth"
	"github.com/hpfin/backend/internal/infrastructure/config"
	"github.com/hpfin/backend/internal/infrastructure/lock"
	"github.com/hpfin/backend/internal/infrastructure/logger"
	"github.com/hpfin/backend/internal/infrastructure/persistence"
	"github.com/hpfin/backend/internal/infrastructure/scheduler"
	"github.com/hpfin/backend/internal/infrastructure/telemetry"
	"github.com/hpfin/backend/internal/interfaces/http/handler"
	"github.com/hpfin/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting HP finance backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
	}

	// Log export
	logsCfg := telemetryCfg
	logsCfg.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled
	lp, err := telemetry.NewLoggerProvider(context.Background(), logsCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	defer func() {
		if err := lp.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()
	log = lp.Tee(log, logger.ParseLevel(cfg.Telemetry.LogsLevel))

	// Tracing
	tp, err := telemetry.NewTracerProvider(context.Background(), telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Continuous profiling, linked to spans when tracing is on
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.ProfilingAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
		ProfileTypes:    cfg.Telemetry.ProfilingTypes,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	if profiler.IsEnabled() {
		tp.EnableSpanProfiles()
	}

	// Metrics
	metricsCfg := telemetryCfg
	metricsCfg.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled
	mp, err := telemetry.NewMeterProvider(context.Background(), metricsCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()
	closingMetrics, err := telemetry.NewClosingMetrics(mp.Meter(telemetry.TracerName))
	if err != nil {
		log.Fatal("Failed to register closing metrics", zap.Error(err))
	}

	// Database with zap backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Database.LogLevel),
		logger.WithSlowThreshold(cfg.Database.SlowThreshold))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if stats, err := db.Stats(); err == nil {
			log.Info("Database pool at shutdown",
				zap.Int("open", stats.OpenConnections),
				zap.Int("in_use", stats.InUse),
				zap.Int64("wait_count", stats.WaitCount),
				zap.Duration("wait_duration", stats.WaitDuration),
			)
		}
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	dbTracing.LogFullSQL = cfg.Telemetry.DBLogFullSQL
	dbTracing.SlowQueryThresh = cfg.Database.SlowThreshold
	dbTracing.DBName = cfg.Database.DBName
	if err := telemetry.RegisterDBTracing(db.DB, dbTracing, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Company locks for closing runs
	locker, closeLocker, err := lock.NewLocker(cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to initialize locker", zap.Error(err))
	}
	defer func() {
		if err := closeLocker(); err != nil {
			log.Error("Error closing locker", zap.Error(err))
		}
	}()

	// Repositories
	branchRepo := persistence.NewGormBranchRepository(db.DB)
	closingRepo := persistence.NewGormClosingBalanceRepository(db.DB)
	snapshotRepo := persistence.NewGormLedgerSnapshotRepository(db.DB)
	hpEntryStore := persistence.NewGormHpEntryStore(db.DB)

	// Application services
	closingService := ledgerapp.NewClosingBalanceService(branchRepo, closingRepo, snapshotRepo, locker, log,
		ledgerapp.WithLockTTL(cfg.Closing.LockTTL))
	openingService := ledgerapp.NewOpeningBalanceService(branchRepo, closingRepo, snapshotRepo)
	hpEntryService := hpentryapp.NewHpEntryService(hpEntryStore, branchRepo, closingService, log,
		hpentryapp.WithNotifier(hpentryapp.NewLoggingNotifier(log)))

	// Closing queue
	closingScheduler, err := scheduler.NewClosingScheduler(scheduler.Config{
		Workers:       cfg.Closing.Workers,
		QueueSize:     cfg.Closing.QueueSize,
		JobTimeout:    cfg.Closing.JobTimeout,
		RetryAttempts: cfg.Closing.RetryAttempts,
		RetryDelay:    cfg.Closing.RetryDelay,
	}, closingExecutor(closingService, closingMetrics, log), log)
	if err != nil {
		log.Fatal("Failed to create closing scheduler", zap.Error(err))
	}
	if err := closingScheduler.Start(context.Background()); err != nil {
		log.Fatal("Failed to start closing scheduler", zap.Error(err))
	}
	defer func() {
		if err := closingScheduler.Stop(context.Background()); err != nil {
			log.Error("Error stopping closing scheduler", zap.Error(err))
		}
	}()
	log.Info("Closing scheduler started",
		zap.Int("workers", cfg.Closing.Workers),
		zap.Int("queue_size", cfg.Closing.QueueSize),
		zap.Duration("job_timeout", cfg.Closing.JobTimeout),
	)

	if cfg.Closing.CatchUpEnabled {
		catchUp, err := scheduler.NewCatchUpTrigger(cfg.Closing.CatchUpSchedule, closingScheduler, branchRepo, log)
		if err != nil {
			log.Fatal("Failed to create catch-up trigger", zap.Error(err))
		}
		if err := catchUp.Start(context.Background()); err != nil {
			log.Fatal("Failed to start catch-up trigger", zap.Error(err))
		}
		// Registered after the scheduler's deferred Stop so it stops first.
		defer func() {
			if err := catchUp.Stop(context.Background()); err != nil {
				log.Error("Error stopping catch-up trigger", zap.Error(err))
			}
		}()
		log.Info("Catch-up trigger started", zap.String("schedule", cfg.Closing.CatchUpSchedule))
	}

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		middleware.Secure(cfg.IsProduction()),
		middleware.CORS(cfg.HTTP, cfg.IsProduction()),
	)

	jwtService := auth.NewJWTService(cfg.JWT)
	groups := registerRoutes(engine, handlers{
		hpEntries: handler.NewHpEntryHandler(hpEntryService),
		closing:   handler.NewClosingBalanceHandler(closingService, closingScheduler, nil),
		opening:   handler.NewOpeningBalanceHandler(openingService, nil),
		system:    handler.NewSystemHandler(cfg.App.Name, version, map[string]handler.Pinger{"database": db}),
	},
		middleware.CompanyAuth(middleware.CompanyAuthConfig{
			JWTService:         jwtService,
			AllowCompanyHeader: cfg.HTTP.AllowCompanyHeader && !cfg.IsProduction(),
			Logger:             log,
		}),
		middleware.SpanAttributes(),
	)
	for _, g := range groups {
		log.Debug("Routes registered", zap.String("group", g.Name()), zap.Strings("routes", g.Routes()))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

type closingAdvancer interface {
	AdvanceClosingBalance(ctx context.Context, companyID int64) (*ledgerapp.AdvanceResult, error)
}

// closingExecutor runs one queued closing job through the advancer.
func closingExecutor(svc closingAdvancer, metrics *telemetry.ClosingMetrics, log *zap.Logger) scheduler.ExecutorFunc {
	return func(ctx context.Context, job *scheduler.Job) error {
		start := time.Now()
		result, err := svc.AdvanceClosingBalance(ctx, job.CompanyID)
		if err != nil {
			metrics.RecordJob(ctx, string(job.Trigger), telemetry.ClosingOutcomeFailed, time.Since(start), 0)
			return err
		}
		metrics.RecordJob(ctx, string(job.Trigger), closingOutcome(result), time.Since(start), len(result.Closed))
		log.Debug("Closing job finished",
			zap.String("job_id", job.ID.String()),
			zap.Int64("company_id", result.CompanyID),
			zap.String("trigger", string(job.Trigger)),
			zap.Int("closed", len(result.Closed)),
			zap.Bool("up_to_date", result.UpToDate),
			zap.Bool("busy", result.Busy),
		)
		return nil
	}
}

func closingOutcome(result *ledgerapp.AdvanceResult) string {
	switch {
	case result.Busy:
		return telemetry.ClosingOutcomeBusy
	case len(result.Closed) > 0:
		return telemetry.ClosingOutcomeClosed
	default:
		return telemetry.ClosingOutcomeUpToDate
	}
}
