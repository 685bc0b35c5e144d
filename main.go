package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flextrack/timetrack-be/internal/api"
	"github.com/flextrack/timetrack-be/internal/config"
	"github.com/flextrack/timetrack-be/internal/database"
	"github.com/flextrack/timetrack-be/internal/logger"
	"github.com/flextrack/timetrack-be/internal/monitoring"
	"github.com/flextrack/timetrack-be/internal/services"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	// Set up services
	userService := services.NewUserService(db)
	tokenService := services.NewTokenService(db, cfg.TokenTTL)
	hoursService := services.NewHoursService(db)

	// Set up and run the background token cleaner
	tokenCleaner, err := monitoring.NewTokenCleaner(tokenService, "@hourly")
	if err != nil {
		log.Fatalf("Failed to initialize token cleaner: %v", err)
	}
	go tokenCleaner.Run()

	// Set up router
	router := api.NewRouter(cfg.AllowedOrigin, userService, tokenService, hoursService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	tokenCleaner.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
