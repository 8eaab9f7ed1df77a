/**
 * @description
 * This is the main entry point for the ledger-service. It is responsible for
 * initializing all components of the service: configuration, the account
 * store (PostgreSQL, or in-memory when no database is configured), the
 * RabbitMQ event producer, the transaction engine, and the HTTP server. It
 * wires everything together and starts the service.
 *
 * @dependencies
 * - log, net/http: Standard Go libraries for logging and HTTP server functionality.
 * - github.com/go-chi/chi/v5: For HTTP routing.
 * - github.com/jackc/pgx/v5: PostgreSQL driver.
 * - github.com/joho/godotenv: .env loading for local development.
 * - internal/api, internal/app, internal/config, internal/store: Internal packages for the service.
 * - pkg/rabbitmq: Event publishing.
 */

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/transfa/ledger-service/internal/api"
	"github.com/transfa/ledger-service/internal/app"
	"github.com/transfa/ledger-service/internal/config"
	"github.com/transfa/ledger-service/internal/store"
	"github.com/transfa/ledger-service/pkg/rabbitmq"
)

func main() {
	// Load .env for local development; absence is fine in containers.
	if err := godotenv.Load(); err != nil {
		log.Println("level=info component=bootstrap msg=\"no .env file found, relying on environment\"")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"config load failed\" err=%v", err)
	}

	log.Printf("level=info component=bootstrap msg=\"starting ledger-service\" port=%s", cfg.ServerPort)

	// Choose the account store: PostgreSQL when configured, otherwise an
	// in-memory store so the service can run without external infrastructure.
	var repository store.Repository
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Println("level=warn component=bootstrap msg=\"no database url configured; using in-memory store\"")
		repository = store.NewMemoryRepository()
	} else {
		poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("level=fatal component=bootstrap msg=\"database url parse failed\" err=%v", err)
		}
		poolConfig.MaxConns = 50
		poolConfig.MinConns = 5
		poolConfig.MaxConnLifetime = 30 * time.Minute
		poolConfig.MaxConnIdleTime = 5 * time.Minute

		dbpool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
		if err != nil {
			log.Fatalf("level=fatal component=bootstrap msg=\"database connection failed\" err=%v", err)
		}
		defer dbpool.Close()
		log.Println("level=info component=bootstrap msg=\"database connected\"")
		repository = store.NewPostgresRepository(dbpool)
	}

	// Initialize the RabbitMQ producer to publish ledger events. This
	// service only publishes; a missing broker degrades to a no-op producer.
	var producer rabbitmq.Publisher
	if strings.TrimSpace(cfg.RabbitMQURL) == "" {
		log.Println("level=warn component=bootstrap msg=\"no rabbitmq url configured; events disabled\"")
		producer = &rabbitmq.EventProducerFallback{}
	} else {
		eventProducer, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL)
		if err != nil {
			log.Printf("level=warn component=bootstrap msg=\"rabbitmq producer unavailable; using fallback\" err=%v", err)
			producer = &rabbitmq.EventProducerFallback{}
		} else {
			defer eventProducer.Close()
			log.Println("level=info component=bootstrap msg=\"rabbitmq producer connected\"")
			producer = eventProducer
		}
	}

	// Initialize the transaction engine with the configured policy.
	ledgerService := app.NewService(repository, producer, app.Config{
		OverdraftFloor:       cfg.OverdraftFloor,
		CreditBonusDivisor:   cfg.CreditBonusDivisor,
		TransferBonusDivisor: cfg.TransferBonusDivisor,
	})

	// Set up the HTTP router and define the API routes.
	accountHandlers := api.NewAccountHandlers(ledgerService)
	router := chi.NewRouter()
	router.Mount("/accounts", api.AccountRoutes(accountHandlers, cfg.RateLimitPerMinute))

	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		log.Printf("level=info component=http msg=\"server listening\" addr=%s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("level=fatal component=http msg=\"server stopped unexpectedly\" err=%v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("level=info component=http msg=\"shutdown started\"")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("level=error component=http msg=\"shutdown failed\" err=%v", err)
	}

	log.Println("level=info component=http msg=\"shutdown complete\"")
}
