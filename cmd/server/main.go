package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/duyshop/backend/pkg/config"
	"github.com/duyshop/backend/pkg/repository"
	"github.com/duyshop/backend/pkg/vnpay"
	"github.com/duyshop/backend/server"
	"go.uber.org/zap"
)

func main() {
	// Load config
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting shop backend",
		zap.Int("port", cfg.Server.Port),
		zap.String("host", cfg.Server.Host))

	// Connect MongoDB
	mongoRepo, err := repository.NewMongoRepository(&cfg.MongoDB)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := mongoRepo.Ping(ctx); err != nil {
		cancel()
		logger.Fatal("MongoDB ping failed", zap.Error(err))
	}
	cancel()

	// Connect Redis; the server degrades to uncached reads without it
	var cache server.Cache
	redisRepo := repository.NewRedisRepository(&cfg.Redis)
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisRepo.Ping(pingCtx); err != nil {
		logger.Warn("Failed to connect to Redis, continuing without cache", zap.Error(err))
		redisRepo = nil
	} else {
		cache = redisRepo
	}
	pingCancel()

	stores := server.Stores{
		Orders:      repository.NewOrderRepository(mongoRepo),
		Products:    repository.NewProductRepository(mongoRepo),
		Users:       repository.NewUserRepository(mongoRepo),
		Warranties:  repository.NewWarrantyRepository(mongoRepo),
		Evaluations: repository.NewEvaluationRepository(mongoRepo),
		Features:    repository.NewFeatureRepository(mongoRepo),
		Stats:       repository.NewStatsRepository(mongoRepo),
	}

	srv := server.New(cfg, logger, stores, cache, vnpay.NewClient(cfg.VNPay))
	srv.SetupRoutes()

	// Start server in goroutine
	srvErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			srvErr <- err
		}
	}()

	logger.Info("Server started successfully")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-srvErr:
		logger.Fatal("Server error", zap.Error(err))
	}

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer closeCancel()
	if err := mongoRepo.Close(closeCtx); err != nil {
		logger.Warn("MongoDB close failed", zap.Error(err))
	}
	if redisRepo != nil {
		if err := redisRepo.Close(); err != nil {
			logger.Warn("Redis close failed", zap.Error(err))
		}
	}

	logger.Info("Server stopped")
}
