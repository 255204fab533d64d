package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/weatherdash/backend/internal/config"
	"github.com/weatherdash/backend/internal/delivery/http"
	"github.com/weatherdash/backend/internal/repository/postgres"
	"github.com/weatherdash/backend/internal/repository/sqlite"
	"github.com/weatherdash/backend/internal/service"
)

func main() {
	// Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	// Dependency Injection: Repositories
	favoriteRepo, closeRepo := openFavoriteRepository(cfg, logger)
	defer closeRepo()

	// Dependency Injection: Services
	weatherSvc := service.NewWeatherService(cfg.OpenWeatherAPIKey, cfg.OpenWeatherURL, cfg.HTTPTimeout)
	airQualitySvc := service.NewAirQualityService(cfg.AirQualityAPIKey, cfg.AirVisualURL, cfg.HTTPTimeout)
	favoriteSvc := service.NewFavoriteService(favoriteRepo)
	dashboardSvc := service.NewDashboardService(weatherSvc, airQualitySvc, favoriteSvc, cfg.DefaultCity, logger)

	if !weatherSvc.Enabled() {
		logger.Warn("OPENWEATHER_API_KEY not set, weather lookups disabled")
	}
	if !airQualitySvc.Enabled() {
		logger.Info("OPENAIR_QUALITY_API_KEY not set, AQI lookups disabled")
	}

	sessions := session.New(session.Config{
		Expiration:     24 * time.Hour,
		CookieHTTPOnly: true,
		CookieSecure:   cfg.IsProduction(),
		CookieSameSite: "Lax",
	})

	handler := http.NewHandler(dashboardSvc, service.NewStatusClassifier(), sessions, logger)
	app := http.NewApp(handler, os.Stdout)

	// Graceful shutdown
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	logger.Info("server exited gracefully")
}

// openFavoriteRepository prefers Postgres, then a SQLite file, then the in-memory mock
func openFavoriteRepository(cfg *config.Config, logger *slog.Logger) (service.FavoriteRepository, func()) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err == nil {
			err = pool.Ping(ctx)
			if err != nil {
				pool.Close()
			}
		}
		if err == nil {
			repo := postgres.NewPostgresRepository(pool)
			if err := repo.Migrate(ctx); err != nil {
				logger.Error("failed to migrate postgres", "error", err)
				os.Exit(1)
			}
			logger.Info("connected to PostgreSQL")
			return repo, pool.Close
		}
		logger.Warn("could not connect to database", "error", err)
	}

	if cfg.SQLitePath != "" {
		repo, err := sqlite.Open(cfg.SQLitePath)
		if err == nil {
			err = repo.Migrate(ctx)
			if err != nil {
				_ = repo.Close()
			}
		}
		if err == nil {
			logger.Info("using SQLite favorites store", "path", cfg.SQLitePath)
			return repo, func() { _ = repo.Close() }
		}
		logger.Warn("could not open sqlite database", "path", cfg.SQLitePath, "error", err)
	}

	logger.Warn("running with in-memory favorites only")
	return postgres.NewMockRepository(), func() {}
}
