package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TrueMarcoM/GroupProjectRepo2/internal/api"
	"github.com/TrueMarcoM/GroupProjectRepo2/internal/app/service"
	"github.com/TrueMarcoM/GroupProjectRepo2/internal/common/security"
	"github.com/TrueMarcoM/GroupProjectRepo2/internal/domain/repository"
	"github.com/TrueMarcoM/GroupProjectRepo2/internal/platform/cache"
	"github.com/TrueMarcoM/GroupProjectRepo2/internal/platform/config"
	"github.com/TrueMarcoM/GroupProjectRepo2/internal/platform/database"
	"github.com/TrueMarcoM/GroupProjectRepo2/internal/platform/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	// 1. Load Configuration
	config.Load()

	// 2. Logger
	log.Logger = logger.New(config.AppConfig.Env, config.AppConfig.LogLevel)
	log.Info().Msg("Configuration loaded")

	// 3. Initialize JWT
	security.InitJWT()

	// 4. Initialize Database (applies migrations)
	database.Connect()
	defer database.Close()
	log.Info().Msg("Database connected")

	// 5. Initialize Redis
	cache.ConnectRedis()
	defer cache.CloseRedis()
	log.Info().Msg("Redis connected")

	// 6. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	rentalRepo := repository.NewPgRentalRepository(database.DB)
	reviewRepo := repository.NewPgReviewRepository(database.DB)
	quotaRepo := repository.NewPgQuotaRepository(database.DB)

	// 7. Initialize Services
	listingCache := cache.NewListingCache(cache.RDB,
		time.Duration(config.AppConfig.ListingCacheTTLSeconds)*time.Second)
	authService := service.NewAuthService(userRepo)
	rentalService := service.NewRentalService(rentalRepo, quotaRepo, listingCache, database.DB)
	reviewService := service.NewReviewService(reviewRepo, rentalRepo, quotaRepo, database.DB)

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(authService, rentalService, reviewService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", config.AppConfig.APIPort).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Could not listen")
		}
	}()

	<-stop // Wait for interrupt signal

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Server stopped gracefully")
}
