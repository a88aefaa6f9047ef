package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/komla9992-max/gestion-sub000/internal/domain/advance"
	"github.com/komla9992-max/gestion-sub000/internal/domain/attendance"
	"github.com/komla9992-max/gestion-sub000/internal/domain/audit"
	"github.com/komla9992-max/gestion-sub000/internal/domain/auth"
	"github.com/komla9992-max/gestion-sub000/internal/domain/billing"
	"github.com/komla9992-max/gestion-sub000/internal/domain/core"
	"github.com/komla9992-max/gestion-sub000/internal/domain/leave"
	"github.com/komla9992-max/gestion-sub000/internal/domain/payroll"
	"github.com/komla9992-max/gestion-sub000/internal/domain/planning"
	"github.com/komla9992-max/gestion-sub000/internal/domain/reports"
	"github.com/komla9992-max/gestion-sub000/internal/domain/treasury"
	"github.com/komla9992-max/gestion-sub000/internal/platform/config"
	"github.com/komla9992-max/gestion-sub000/internal/platform/db"
	"github.com/komla9992-max/gestion-sub000/internal/platform/jobs"
	"github.com/komla9992-max/gestion-sub000/internal/platform/metrics"
	advancehandler "github.com/komla9992-max/gestion-sub000/internal/transport/http/handlers/advance"
	attendancehandler "github.com/komla9992-max/gestion-sub000/internal/transport/http/handlers/attendance"
	authhandler "github.com/komla9992-max/gestion-sub000/internal/transport/http/handlers/auth"
	billinghandler "github.com/komla9992-max/gestion-sub000/internal/transport/http/handlers/billing"
	corehandler "github.com/komla9992-max/gestion-sub000/internal/transport/http/handlers/core"
	leavehandler "github.com/komla9992-max/gestion-sub000/internal/transport/http/handlers/leave"
	payrollhandler "github.com/komla9992-max/gestion-sub000/internal/transport/http/handlers/payroll"
	planninghandler "github.com/komla9992-max/gestion-sub000/internal/transport/http/handlers/planning"
	reportshandler "github.com/komla9992-max/gestion-sub000/internal/transport/http/handlers/reports"
	treasuryhandler "github.com/komla9992-max/gestion-sub000/internal/transport/http/handlers/treasury"
	"github.com/komla9992-max/gestion-sub000/internal/transport/http/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("config load failed")
	}
	logger := newLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("db connect failed")
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			logger.Fatal().Err(err).Msg("migrations failed")
		}
	}
	if cfg.RunSeed {
		if err := auth.SeedAdmin(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminName, cfg.SeedAdminPassword); err != nil {
			logger.Fatal().Err(err).Msg("seed failed")
		}
	}

	m := metrics.New()
	auditRec := audit.NewRecorder(audit.NewStore(pool), logger)

	authService := auth.NewService(auth.NewStore(pool))
	coreStore := core.NewStore(pool)
	billingStore := billing.NewStore(pool)
	billingService := billing.NewService(billingStore)
	treasuryService := treasury.NewService(treasury.NewStore(pool))
	leaveService := leave.NewService(leave.NewStore(pool), cfg.LeaveAllowanceDays)
	advanceService := advance.NewService(advance.NewStore(pool))
	attendanceService := attendance.NewService(attendance.NewStore(pool))
	planningService := planning.NewService(planning.NewStore(pool))
	payrollService := payroll.NewService(payroll.NewStore(pool), coreStore, advanceService)
	reportsService := reports.NewService(pool, billingStore)

	jobsService := jobs.New(pool, leaveService, logger)
	jobsService.Start(ctx, cfg.LeaveSweepInterval)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOriginList(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.Metrics(m))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if cfg.MetricsEnabled {
		router.Handle("/metrics", promhttp.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authService, auditRec, m, cfg.JWTSecret, cfg.TokenTTL).RegisterRoutes(r)
		corehandler.NewHandler(coreStore, auditRec).RegisterRoutes(r)
		leavehandler.NewHandler(leaveService, coreStore, auditRec, jobsService, m).RegisterRoutes(r)
		advancehandler.NewHandler(advanceService, coreStore, auditRec, m).RegisterRoutes(r)
		billinghandler.NewHandler(billingService, coreStore, auditRec, m).RegisterRoutes(r)
		treasuryhandler.NewHandler(treasuryService, auditRec).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceService, coreStore, auditRec).RegisterRoutes(r)
		planninghandler.NewHandler(planningService, coreStore, auditRec).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollService, coreStore, auditRec, m).RegisterRoutes(r)
		reportshandler.NewHandler(reportsService, auditRec).RegisterRoutes(r)
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("env", cfg.Environment).Msg("server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("server stopped")
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	var out = os.Stderr
	logger := zerolog.New(out)
	if cfg.LogFormat == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out})
	}
	return logger.Level(level).With().Timestamp().Str("service", "gestion-ses").Logger()
}
