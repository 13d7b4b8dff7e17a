package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hyejinmoon/babysteps-backend/api/routes"
	"github.com/hyejinmoon/babysteps-backend/internal/clipboard"
	"github.com/hyejinmoon/babysteps-backend/internal/estimator"
	"github.com/hyejinmoon/babysteps-backend/internal/meals"
	"github.com/hyejinmoon/babysteps-backend/internal/pantry"
	"github.com/hyejinmoon/babysteps-backend/pkg/config"
	"github.com/hyejinmoon/babysteps-backend/pkg/db"
	"github.com/hyejinmoon/babysteps-backend/pkg/instance"
	"github.com/hyejinmoon/babysteps-backend/pkg/logger"
	"github.com/hyejinmoon/babysteps-backend/pkg/metrics"
	"github.com/hyejinmoon/babysteps-backend/pkg/migrate"
	"github.com/hyejinmoon/babysteps-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	pantryRepo := pantry.NewRepository(dbClient.DB())
	mealsRepo := meals.NewRepository(dbClient.DB())

	mealsService, err := meals.NewService(mealsRepo, dbClient, pantryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create meals service", err)
		os.Exit(1)
	}

	est := estimator.Estimator{
		HistoryDays:     cfg.Estimator.HistoryDays,
		PlanHorizonDays: cfg.Estimator.PlanHorizonDays,
		CriticalDays:    cfg.Estimator.CriticalThreshold,
		WarningDays:     cfg.Estimator.WarningThreshold,
	}

	pantryService, err := pantry.NewService(pantryRepo, mealsService, est, cfg.Estimator.Policy)
	if err != nil {
		logg.Error(context.Background(), "failed to create pantry service", err)
		os.Exit(1)
	}

	clipboardService, err := clipboard.NewService(redisClient, mealsService, cfg.Clipboard.TTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create clipboard service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:    cfg,
			Logger:    logg,
			DB:        dbClient,
			Redis:     redisClient,
			Metrics:   httpMetrics,
			Registry:  registry,
			Pantry:    pantryService,
			Meals:     mealsService,
			Clipboard: clipboardService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
