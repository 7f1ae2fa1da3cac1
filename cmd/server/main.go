package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/ignite/agentops-portal/internal/api"
	"github.com/ignite/agentops-portal/internal/cache"
	"github.com/ignite/agentops-portal/internal/config"
	"github.com/ignite/agentops-portal/internal/dashboard"
	"github.com/ignite/agentops-portal/internal/export"
	"github.com/ignite/agentops-portal/internal/repository/postgres"
	"github.com/ignite/agentops-portal/internal/snowflake"
)

func main() {
	log.Println("AgentOps portal metrics server starting")

	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var (
		db       *sql.DB
		provider dashboard.AggregateProvider
		store    dashboard.BaselineStore
		roi      dashboard.ROIStore
	)

	switch cfg.Database.Driver {
	case "snowflake":
		client, err := snowflake.NewClient(cfg.Snowflake)
		if err != nil {
			log.Fatalf("Failed to open snowflake: %v", err)
		}
		db = client.DB()
		provider = snowflake.NewAggregateRepo(db)
		store = snowflake.NewBaselineRepo(db)
		roi = snowflake.NewROIRepo(db)
		log.Printf("Operational store: snowflake account=%s", cfg.Snowflake.Account)
	default:
		db, err = sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to open postgres: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
		provider = postgres.NewAggregateRepo(db)
		store = postgres.NewBaselineRepo(db)
		roi = postgres.NewROIRepo(db)
		log.Println("Operational store: postgres")
	}
	defer db.Close()

	policy := dashboard.PeriodPolicy{
		WeekDays:  cfg.Dashboard.WeekDays,
		MonthDays: cfg.Dashboard.MonthDays,
	}
	service := dashboard.NewService(provider, store, roi, policy)

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		service.SetCache(cache.NewPayloadCache(redisClient, cfg.Redis.TTL()))
		log.Printf("Payload cache: redis at %s (ttl %s)", cfg.Redis.Addr, cfg.Redis.TTL())
	}

	handlers := api.NewHandlers(service, store)
	handlers.SetDB(db)

	if cfg.Export.Enabled {
		exporter, err := export.NewExporter(context.Background(),
			cfg.Export.S3Bucket, cfg.Export.S3Region, cfg.Export.AWSProfile)
		if err != nil {
			log.Printf("WARNING: snapshot export disabled: %v", err)
		} else {
			handlers.SetExporter(exporter)
			log.Printf("Snapshot export: s3://%s", cfg.Export.S3Bucket)
		}
	}

	router := api.SetupRoutes(handlers)
	addr := fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Listening on http://%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
