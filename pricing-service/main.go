package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Bipul-Dubey/car-price-api/pricing-service/config"
	"github.com/Bipul-Dubey/car-price-api/pricing-service/handlers"
	"github.com/Bipul-Dubey/car-price-api/pricing-service/inference"
	"github.com/Bipul-Dubey/car-price-api/pricing-service/repository"
	"github.com/Bipul-Dubey/car-price-api/pricing-service/routes"
	"github.com/Bipul-Dubey/car-price-api/pricing-service/services"
	"github.com/Bipul-Dubey/car-price-api/shared/constants"
	"github.com/Bipul-Dubey/car-price-api/shared/db"
	"github.com/Bipul-Dubey/car-price-api/shared/metrics"
	"github.com/Bipul-Dubey/car-price-api/shared/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if constants.EnvEnum(cfg.Env) != constants.EnvDev {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load the model before anything can accept traffic; no model, no service.
	logger.Info("Starting model loading", zap.String("path", cfg.ModelPath))
	model, err := inference.Load(cfg.ModelPath)
	if err != nil {
		logger.Fatal("Failed to load model", zap.String("path", cfg.ModelPath), zap.Error(err))
	}
	logger.Info("Model loaded successfully",
		zap.String("path", cfg.ModelPath),
		zap.String("name", model.Name),
		zap.String("version", model.Version),
		zap.String("kind", model.Kind),
		zap.Strings("features", model.Features()),
	)

	m := metrics.New(prometheus.NewRegistry())
	m.SetModelLoaded(true)

	// Optional prediction log
	var predictionLogs repository.PredictionLogRepository
	if cfg.PredictionLog.Enabled {
		database, err := db.NewDB(ctx, cfg.PredictionLog.Database().DSN())
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() {
			if cerr := db.Close(database); cerr != nil {
				logger.Warn("Error closing DB connection", zap.Error(cerr))
			}
		}()

		repo := repository.NewPredictionLogRepository(database)
		if err := repo.Migrate(ctx); err != nil {
			logger.Fatal("Failed to migrate prediction log", zap.Error(err))
		}
		predictionLogs = repo
		logger.Info("Prediction log enabled", zap.String("database", cfg.PredictionLog.Name))
	}

	// Create service manager with all dependencies
	serviceManager := services.NewServiceManager(model, predictionLogs, m, logger)

	// Create handler manager with service manager
	handlerManager := handlers.NewHandlerManager(serviceManager, m, logger)

	// Setup routes
	r := routes.SetupRoutes(handlerManager, routes.Options{
		Metrics:          m,
		Logger:           logger,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
	})

	// gRPC health (optional)
	var grpcHealth *config.GRPCHealthServer
	if cfg.GRPCHealthAddr != "" {
		grpcHealth, err = config.NewGRPCHealthServer(cfg.GRPCHealthAddr, serviceManager.PredictService.ModelLoaded())
		if err != nil {
			logger.Fatal("Failed to start gRPC health server", zap.Error(err))
		}
		go func() {
			logger.Info("gRPC health listening", zap.String("addr", grpcHealth.Addr().String()))
			if err := grpcHealth.Serve(); err != nil {
				logger.Error("gRPC health server stopped", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("Car Price Prediction API starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	if grpcHealth != nil {
		grpcHealth.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
}
