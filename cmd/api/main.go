package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/cash-runway/internal/cache"
	"github.com/Dan9191/cash-runway/internal/config"
	"github.com/Dan9191/cash-runway/internal/handler"
	"github.com/Dan9191/cash-runway/internal/integrations/ratefeed"
	"github.com/Dan9191/cash-runway/internal/jobs"
	"github.com/Dan9191/cash-runway/internal/middleware"
	"github.com/Dan9191/cash-runway/internal/repository"
	"github.com/Dan9191/cash-runway/internal/service"
	"github.com/Dan9191/cash-runway/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize cache
	var positions cache.Cache = cache.NewMemory()
	if cfg.RedisAddr != "" {
		rdb := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, 0)
		defer rdb.Close()
		if err := rdb.Ping(context.Background()); err != nil {
			logger.Fatalf("Failed to ping redis: %v", err)
		}
		positions = rdb
	}

	// Initialize layers
	repo := repository.NewRepository(db, cfg.DBSchema, cfg.InsertBatchSize)
	var rates service.RateSource
	if cfg.RateFeedURL != "" {
		rates = ratefeed.NewClient(cfg, logger)
	}
	svc := service.NewService(repo, positions, rates, email.NewSender(cfg, logger), logger, cfg)
	h := handler.NewHandler(svc, logger)

	scheduler, err := jobs.NewScheduler(svc, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to schedule jobs: %v", err)
	}
	scheduler.Start()

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware(logger))
	h.Routes(r)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	scheduler.Stop(ctx)
	logger.Info("Server stopped")
}
