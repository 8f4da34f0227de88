package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/bloodbridge-backend/internal/config"
	"github.com/pushp314/bloodbridge-backend/internal/database"
	"github.com/pushp314/bloodbridge-backend/internal/handlers"
	"github.com/pushp314/bloodbridge-backend/internal/migrations"
	"github.com/pushp314/bloodbridge-backend/internal/models"
	"github.com/pushp314/bloodbridge-backend/internal/routes"
	"github.com/pushp314/bloodbridge-backend/pkg/logger"
)

func main() {
	// 0. Load Config & Initialize Logger
	config.LoadConfig()
	env := config.AppConfig.Env
	logger.Init(env)

	logger.Info().Str("environment", env).Msg("Starting BloodBridge backend...")

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. Connect Database
	database.Connect()
	database.InitRedis()

	// --- Database Migration Stage ---
	logger.Info().Msg("Running database migrations (stage 1: tables)...")

	// Tables first so foreign keys never point at a missing table
	database.DB.Config.DisableForeignKeyConstraintWhenMigrating = true
	tableModels := models.All()
	for _, m := range tableModels {
		if err := database.DB.AutoMigrate(m); err != nil {
			logger.Fatal().Err(err).Msgf("Failed to migrate table for %T", m)
		}
	}

	logger.Info().Msg("Running database migrations (stage 2: constraints)...")
	database.DB.Config.DisableForeignKeyConstraintWhenMigrating = false
	if err := database.DB.AutoMigrate(tableModels...); err != nil {
		logger.Fatal().Err(err).Msg("Failed to add database constraints")
	}

	ran, err := migrations.NewMigrator(database.DB).Run()
	if err != nil {
		logger.Fatal().Err(err).Msg("Versioned migrations failed")
	}
	logger.Info().Strs("applied", ran).Msg("Database migrations complete")

	// 2. Socket.io + Router
	socketServer := handlers.InitSocketServer()
	defer socketServer.Close()

	r := routes.NewRouter(socketServer)

	// 3. Start Server with graceful shutdown
	port := config.AppConfig.Port
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", port).Str("env", env).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server gracefully...")

	// Give outstanding requests 10 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited gracefully")
}
