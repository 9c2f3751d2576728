package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/warungpos/pos-service/config"
	"github.com/warungpos/pos-service/internal/cart"
	"github.com/warungpos/pos-service/internal/db"
	"github.com/warungpos/pos-service/internal/platform/broker"
	"github.com/warungpos/pos-service/internal/platform/cache"
	"github.com/warungpos/pos-service/internal/platform/logger"
	"github.com/warungpos/pos-service/internal/platform/postgres"
	"github.com/warungpos/pos-service/internal/platform/search"
	"github.com/warungpos/pos-service/internal/server"

	catH "github.com/warungpos/pos-service/internal/category/handler"
	catRepoPkg "github.com/warungpos/pos-service/internal/category/repository"
	catUCPkg "github.com/warungpos/pos-service/internal/category/usecase"

	prodH "github.com/warungpos/pos-service/internal/product/handler"
	prodRepoPkg "github.com/warungpos/pos-service/internal/product/repository"
	prodUCPkg "github.com/warungpos/pos-service/internal/product/usecase"

	cartH "github.com/warungpos/pos-service/internal/cart/handler"

	txH "github.com/warungpos/pos-service/internal/transaction/handler"
	txRepoPkg "github.com/warungpos/pos-service/internal/transaction/repository"
	txUCPkg "github.com/warungpos/pos-service/internal/transaction/usecase"

	repH "github.com/warungpos/pos-service/internal/report/handler"
	repRepoPkg "github.com/warungpos/pos-service/internal/report/repository"
	repUCPkg "github.com/warungpos/pos-service/internal/report/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	pg, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer pg.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	if err := db.ApplySchema(context.Background(), pg); err != nil {
		appLogger.Fatal("Could not apply database schema", zap.Error(err))
	}

	// 4. Initialize Redis (optional: caching and checkout locks degrade off)
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Redis, caching disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// 5. Initialize Elasticsearch (optional: search falls back to SQL)
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch, search served from database", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 6. Initialize Kafka Producer (optional: events are best-effort)
	producer := broker.NewProducer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
	})
	defer producer.Close()
	appLogger.Info("Kafka producer ready", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	// 7. Initialize Repositories
	catRepo := catRepoPkg.NewPGRepository(pg)
	prodRepo := prodRepoPkg.NewPGRepository(pg)
	txRepo := txRepoPkg.NewPGRepository(pg)
	repRepo := repRepoPkg.NewPGRepository(pg)

	// 8. Initialize Carts
	carts := cart.NewStore()

	// 9. Initialize UseCases
	catUC := catUCPkg.NewCategoryUseCase(catRepo, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, catRepo, redisClient, esClient, appLogger)

	// A typed nil pointer wrapped in the interface would defeat the nil checks.
	var txCache txUCPkg.CacheClient
	if redisClient != nil {
		txCache = redisClient
	}
	txUC := txUCPkg.NewTransactionUseCase(txRepo, prodRepo, carts, txCache, producer, appLogger)
	repUC := repUCPkg.NewReportUseCase(repRepo, prodRepo, appLogger)

	// 10. Initialize Handlers and Router
	router := server.NewRouter(&server.Handlers{
		Category:    catH.NewCategoryHandler(catUC, appLogger),
		Product:     prodH.NewProductHandler(prodUC, appLogger),
		Cart:        cartH.NewCartHandler(carts, prodUC, appLogger),
		Transaction: txH.NewTransactionHandler(txUC, cfg.Checkout.Timeout, appLogger),
		Report:      repH.NewReportHandler(repUC, appLogger),
	})

	// 11. Start HTTP Server
	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("forced shutdown", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
