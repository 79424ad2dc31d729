package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"quote-service/config"
	"quote-service/internal/api"
	"quote-service/internal/broker"
	"quote-service/internal/redisclient"
	"quote-service/internal/service"
	"quote-service/internal/store"
	"quote-service/internal/util"
	"quote-service/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env, cfg.Server.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting inventory quote service")

	tp, err := util.InitTracer(util.ServiceName, cfg.Observ.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("Error shutting down tracer", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := store.NewRegistry(cfg.Database.Driver, cfg.Database.Location, cfg.Database.AutoMigrate)
	defer registry.Close()

	db, err := registry.Default(ctx)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	logger.Info("Database connected", zap.String("driver", db.Driver()))

	var bomCache *redisclient.Client
	if cfg.Redis.Enabled {
		bomCache, err = redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.BOMCacheTTL)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer bomCache.Close()
		logger.Info("Redis connected", zap.Duration("bom_cache_ttl", cfg.Redis.BOMCacheTTL))
	}

	var eventPublisher service.EventPublisher
	var auditWorker *worker.AuditWorker
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents)
		defer producer.Close()
		eventPublisher = broker.NewEventPublisher(producer)

		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents, cfg.Kafka.ConsumerGroup)
		auditWorker = worker.NewAuditWorker(consumer, db)
		logger.Info("Kafka initialized", zap.String("topic", cfg.Kafka.TopicEvents))
	}

	inventoryClient := service.NewInventoryClient(registry, bomCache)
	availabilityService := service.NewAvailabilityService(
		inventoryClient,
		eventPublisher,
		cfg.Quote.DefaultHandlingDays,
		cfg.Quote.DefaultShippingDays,
	)
	catalogService := service.NewCatalogService(db)
	customerService := service.NewCustomerService(db, eventPublisher)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(availabilityService, catalogService, customerService, db, cfg.Server.Env)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      httprate.LimitByIP(cfg.Server.RateLimitPerMinute, time.Minute)(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if auditWorker != nil {
		g.Go(func() error {
			err := auditWorker.Start(gctx)
			if errors.Is(err, context.Canceled) {
				err = nil
			}
			if stopErr := auditWorker.Stop(); stopErr != nil {
				logger.Error("Failed to stop audit worker", zap.Error(stopErr))
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
		return
	}

	logger.Info("Server exited")
}
