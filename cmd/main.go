package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"payu-relay/internal/config"
	"payu-relay/internal/db"
	"payu-relay/internal/handlers"
	"payu-relay/internal/services"
	"payu-relay/internal/store"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Error loading .env: %s", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	client, err := db.Connect(context.Background(), cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	database := client.Database(cfg.DBName)
	txStore := store.NewMongoStore(database)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := txStore.EnsureIndexes(ctx); err != nil {
		log.Printf("Warning: %v", err)
	}
	cancel()

	signer := services.NewHashSigner(cfg.MerchantKey, cfg.MerchantSalt)
	adapter := services.NewPayUAdapter(cfg.MerchantKey, cfg.PayUBaseURL, cfg.PublicBaseURL)
	paymentService := services.NewPaymentService(txStore, signer, adapter, cfg.StrictCallbacks)

	paymentHandler := handlers.NewPaymentHandler(paymentService)
	authHandler := handlers.NewAuthHandler(cfg.AdminUser, cfg.AdminPasswordHash, cfg.JWTSecret)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	router := handlers.NewRouter(paymentHandler, authHandler, logger)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
