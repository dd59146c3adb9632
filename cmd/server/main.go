package main // Entry point package

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/marlett/reservations/internal/config"
	"github.com/marlett/reservations/internal/handler"
	"github.com/marlett/reservations/internal/lib/logger/sl"
	"github.com/marlett/reservations/internal/metrics"
	"github.com/marlett/reservations/internal/middleware"
	"github.com/marlett/reservations/internal/queue"
	"github.com/marlett/reservations/internal/router"
	"github.com/marlett/reservations/internal/service"
	"github.com/marlett/reservations/internal/worker"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := setupLogger(cfg.Env)
	log.Info("starting application", slog.String("env", cfg.Env))

	m := metrics.New()
	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		log.Warn("redis unavailable, cache and rate limiting disabled")
	}

	st, err := openStores(log, cfg, rdb)
	if err != nil {
		log.Error("failed to open stores", sl.Err(err))
		os.Exit(1)
	}
	defer st.close()

	publisher := queue.NewPublisher(log, cfg.RabbitURL, cfg.EventsEnabled)
	settings := service.NewSettings(log, st.remoteSettings, st.localSettings, m)
	reservations := service.NewReservations(log, st.remoteReservations, st.localReservations,
		settings, publisher, m, cfg.Location())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var scheduler *worker.Scheduler
	if cfg.WorkersEnabled {
		scheduler = worker.NewScheduler(log, reservations, cfg.StatusSweepInterval, cfg.PruneInterval)
		scheduler.Start(ctx)
	}
	consumerDone := make(chan struct{})
	if publisher.Enabled() {
		consumer := queue.NewConsumer(log, cfg.RabbitURL, "logs")
		go func() {
			defer close(consumerDone)
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("event consumer stopped", sl.Err(err))
			}
		}()
	} else {
		close(consumerDone)
	}

	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)
	limit := middleware.NewTokenBucket(log, config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.Use(echomw.Recover())
	e.Use(middleware.ClientIdentity())
	e.Use(middleware.RequestLogger(log, m))

	router.RegisterRoutes(e, st.pingers, m.Handler())
	router.RegisterAuth(e, handler.NewAuthHandler(log, handler.TokenSettings{
		Secret:         cfg.JWTSecret,
		AccessTTLMin:   cfg.AccessTTLMin,
		RefreshTTLDays: cfg.RefreshTTLDays,
	}, st.users, st.tokens), cfg.JWTSecret)
	router.RegisterCatalog(e, handler.NewCatalogHandler(log, settings, reservations, cache), cache.Middleware(), limit)
	router.RegisterBooking(e, handler.NewBookingHandler(log, reservations, settings), limit)
	router.RegisterAdmin(e,
		handler.NewAdminReservationHandler(log, reservations, settings),
		handler.NewAdminSettingsHandler(log, settings, cache),
		cfg.JWTSecret)

	go func() {
		addr := ":" + cfg.Port
		log.Info("listening", slog.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", sl.Err(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("stopping application")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop http server", sl.Err(err))
	}
	if scheduler != nil {
		scheduler.Wait()
	}
	<-consumerDone
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info("application stopped")
}

func setupLogger(env string) *slog.Logger {
	var logger *slog.Logger

	switch env {
	case envLocal:
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return logger
}
