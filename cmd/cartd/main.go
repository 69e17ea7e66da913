package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/eworkforce/malabro-cart/internal/catalog"
	h "github.com/eworkforce/malabro-cart/internal/http"
	"github.com/eworkforce/malabro-cart/internal/poller"
	"github.com/eworkforce/malabro-cart/internal/storage"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Configuration
	httpPort := getEnv("HTTP_PORT", "8080")
	redisAddr := getEnv("REDIS_ADDR", "")
	catalogDBPath := getEnv("CATALOG_DB_PATH", "malabro.db")
	migrationsPath := getEnv("MIGRATIONS_PATH", "./migrations")
	kafkaBrokers := getEnv("KAFKA_BROKERS", "")
	requestTimeout := 30 * time.Second

	ctx := context.Background()

	// Cart persistence: Redis when configured, process memory otherwise
	var kv storage.KV
	if redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Redis connection failed:", err)
		}
		log.Printf("Connected to Redis at %s", redisAddr)
		kv = storage.NewRedisKV(redisClient)
	} else {
		log.Println("REDIS_ADDR not set, keeping carts in process memory")
		kv = storage.NewMemoryKV()
	}

	// Product catalog
	repo, err := catalog.NewRepository(catalogDBPath)
	if err != nil {
		log.Fatalf("Failed to open catalog: %v", err)
	}
	defer repo.Close()
	if err := repo.RunMigrations(migrationsPath); err != nil {
		log.Fatalf("Failed to run catalog migrations: %v", err)
	}
	log.Printf("Catalog ready at %s", catalogDBPath)

	products := catalog.NewCachedSource(repo)
	server := h.NewServer(products, kv, requestTimeout)

	// Checkout-completed consumer
	pollerCtx, stopPoller := context.WithCancel(ctx)
	defer stopPoller()
	var checkoutPoller *poller.Poller
	if kafkaBrokers != "" {
		checkoutPoller = poller.New(kv, server, strings.Split(kafkaBrokers, ",")...)
		go checkoutPoller.Run(pollerCtx)
		log.Printf("Checkout poller consuming from %s", kafkaBrokers)
	}

	srv := &http.Server{
		Addr:         ":" + httpPort,
		Handler:      server.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: requestTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("MALABRO cart service listening on :%s", httpPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down cart service...")
	stopPoller()
	if checkoutPoller != nil {
		checkoutPoller.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	log.Println("cart service stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
