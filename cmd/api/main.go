package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"go-task-list/backend/internal/config"
	"go-task-list/backend/internal/database"
	"go-task-list/backend/internal/events"
	"go-task-list/backend/internal/routes"
	"go-task-list/backend/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(cfg.Server.GinMode)

	ctx := context.Background()
	store, err := database.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled() {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Broker, cfg.Kafka.Topic)
		log.Printf("Publishing task events to %s (topic %s)", cfg.Kafka.Broker, cfg.Kafka.Topic)
	}

	// サービス
	svc := routes.Services{
		Tasks: services.NewTaskService(store.Tasks, publisher),
		Users: services.NewUserService(store.Users),
		JWT:   services.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL),
	}
	r := routes.SetupRouter(svc, store.DB, cfg.Server.AllowOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server listening on port %s...", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	if err := publisher.Close(); err != nil {
		log.Printf("Error closing event publisher: %v", err)
	}
	if err := store.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
	log.Println("Server stopped")
}
