package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/KotFed0t/portfolio_tracker_api/config"
	"github.com/KotFed0t/portfolio_tracker_api/data"
	"github.com/KotFed0t/portfolio_tracker_api/data/cache"
	"github.com/KotFed0t/portfolio_tracker_api/data/repository/postgres"
	"github.com/KotFed0t/portfolio_tracker_api/data/session"
	"github.com/KotFed0t/portfolio_tracker_api/internal/externalApi/psxApi"
	"github.com/KotFed0t/portfolio_tracker_api/internal/httpserver"
	"github.com/KotFed0t/portfolio_tracker_api/internal/reportGenerator/xlsxGenerator"
	"github.com/KotFed0t/portfolio_tracker_api/internal/scheduler"
	"github.com/KotFed0t/portfolio_tracker_api/internal/service/portfolioService"
	"github.com/KotFed0t/portfolio_tracker_api/internal/transport/rest"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	pgClient := data.NewPostgresClient(cfg)
	defer pgClient.Close()

	pgRepo := postgres.NewPostgres(cfg, pgClient)

	redisClient := data.NewRedisClient(cfg)
	defer redisClient.Close()

	redisCache := cache.NewRedisCache(redisClient, cfg)
	redisSession := session.NewRedisSession(redisClient, cfg)

	psxApiClient := psxApi.New(cfg)

	reportGenerator := xlsxGenerator.New()

	portfolioSrv := portfolioService.New(cfg, pgRepo, redisCache, psxApiClient, reportGenerator)

	sched := scheduler.New()
	sched.NewIntervalJob("refresh all stock prices", portfolioSrv.RefreshAllPrices, cfg.Jobs.RefreshAllPricesInterval, false)
	sched.Start()
	defer sched.Stop()

	restController := rest.NewController(cfg, portfolioSrv, redisSession)

	server := httpserver.New(cfg, restController, redisSession)
	server.Start()

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-interrupt

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	server.Stop(shutdownCtx)
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
