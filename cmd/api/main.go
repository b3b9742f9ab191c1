package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/octobees/nearby/api/internal/auth"
	"github.com/octobees/nearby/api/internal/config"
	"github.com/octobees/nearby/api/internal/database"
	"github.com/octobees/nearby/api/internal/handler"
	middlewarepkg "github.com/octobees/nearby/api/internal/middleware"
	"github.com/octobees/nearby/api/internal/places"
	"github.com/octobees/nearby/api/internal/repository"
	"github.com/octobees/nearby/api/internal/router"
	"github.com/octobees/nearby/api/internal/search"
	"github.com/octobees/nearby/api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	configureLogging(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL, database.PoolOptions{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer pool.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	usersRepo := repository.NewPGXUsersRepository(pool)
	businessesRepo := repository.NewPGXBusinessesRepository(pool)
	reviewsRepo := repository.NewPGXReviewsRepository(pool)
	favoritesRepo := repository.NewPGXFavoritesRepository(pool)

	placesClient, err := places.NewProvider(context.Background(), cfg.Places.API, cfg.Places.APIKey, cfg.Places.BaseURL)
	if err != nil {
		log.Fatalf("failed to create places client: %v", err)
	}
	if !placesClient.Enabled() {
		log.Warn("PLACES_API_KEY not set; external results are unavailable")
	}

	normalizer := search.NewNormalizer(placesClient.PhotoURL)
	planner := search.NewPlanner(businessesRepo, reviewsRepo, placesClient, search.PlannerConfig{
		InternalTimeout: cfg.Search.InternalTimeout,
		ExternalTimeout: cfg.Search.ExternalTimeout,
		InternalLimit:   cfg.Search.ResultCap,
	})
	searchService := search.NewService(planner, normalizer, search.Options{
		DefaultRadiusKm: cfg.Search.DefaultRadiusKm,
		MaxRadiusKm:     cfg.Search.MaxRadiusKm,
		ResultCap:       cfg.Search.ResultCap,
	})

	authService := service.NewAuthService(usersRepo, jwtManager)
	businessService := service.NewBusinessService(businessesRepo, reviewsRepo, service.NewListingSanitizer(cfg.DefaultPhoneRegion))
	reviewService := service.NewReviewService(reviewsRepo, businessesRepo)
	placesService := service.NewPlacesService(placesClient, reviewsRepo, normalizer)
	favoriteService := service.NewFavoriteService(favoritesRepo)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, router.Handlers{
		Health:      handler.NewHealthHandler(pool, placesClient.Enabled()),
		Auth:        handler.NewAuthHandler(authService),
		Search:      handler.NewSearchHandler(searchService),
		Businesses:  handler.NewBusinessesHandler(businessService, reviewService),
		Places:      handler.NewPlacesHandler(placesService, reviewService),
		Favorites:   handler.NewFavoritesHandler(favoriteService),
		AdminUpload: handler.NewAdminUploadHandler(businessService),
	})

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("api listening")
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Infof("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

func configureLogging(cfg config.LogConfig) {
	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		log.WithField("level", cfg.Level).Warn("unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
