package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"fulfillment/cmd"
	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/carrier"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/redis"
	"fulfillment/internal/pkg/telemetry"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(getConfigs()); err != nil {
		log.Fatalf("%v", err)
	}
}

// run owns every resource; its deferred calls stop jobs and close clients
// before main exits, whatever the reason.
func run(configs cmd.Config) error {
	logger := telemetry.NewLogger(os.Stdout, configs.LogLevel)
	slog.SetDefault(logger)

	tracerProvider := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			logger.Error("tracer provider shutdown failed", "error", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	gormDB, err := postgres.Open(postgres.Config{
		Host:     configs.DBHost,
		Port:     configs.DBPort,
		User:     configs.DBUser,
		Password: configs.DBPassword,
		Name:     configs.DBName,
		SSLMode:  configs.DBSslMode,
		Driver:   configs.DBDriver,
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	if sqlDB, dbErr := gormDB.DB(); dbErr == nil {
		defer closeQuietly(logger, "database", sqlDB.Close)
	}
	if err = postgres.Migrate(gormDB); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	publisher := kafka.NewEventPublisher(
		kafka.NewWriter(strings.Split(configs.KafkaHost, ","), configs.KafkaOrderEventsTopic, logger),
	)
	defer closeQuietly(logger, "kafka writer", publisher.Close)

	redisClient := redis.NewClient(configs.RedisAddr)
	defer closeQuietly(logger, "redis client", redisClient.Close)

	app := cmd.NewCompositionRoot(
		configs,
		gormDB,
		publisher,
		redis.NewWebhookDeduplicator(redisClient, "", configs.WebhookDedupTTL),
		carrier.NewClient(carrier.Config{
			BaseURL: configs.CarrierBaseURL,
			Token:   configs.CarrierToken,
			ShopID:  configs.CarrierShopID,
			Name:    configs.CarrierName,
		}),
		telemetry.NewMetrics(registry),
		logger,
	)

	e, err := httpin.NewRouter(app.CreateHTTPServer(), registry, logger)
	if err != nil {
		return fmt.Errorf("build HTTP router: %w", err)
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return fmt.Errorf("start jobs: %w", err)
	}
	defer jobManager.StopAll()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serveHTTP(ctx, e, fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort), logger)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	config := cmd.Config{
		HTTPPort:              envOr("HTTP_PORT", "8080"),
		LogLevel:              envOr("LOG_LEVEL", "info"),
		DBHost:                os.Getenv("DB_HOST"),
		DBPort:                envOr("DB_PORT", "5432"),
		DBUser:                os.Getenv("DB_USER"),
		DBPassword:            os.Getenv("DB_PASSWORD"),
		DBName:                os.Getenv("DB_NAME"),
		DBSslMode:             envOr("DB_SSLMODE", "disable"),
		DBDriver:              envOr("DB_DRIVER", postgres.DriverPgx),
		KafkaHost:             envOr("KAFKA_HOST", "localhost:9092"),
		KafkaOrderEventsTopic: envOr("KAFKA_ORDER_EVENTS_TOPIC", "order.lifecycle"),
		RedisAddr:             envOr("REDIS_ADDR", "localhost:6379"),
		WebhookDedupTTL:       durationOr("WEBHOOK_DEDUP_TTL", 24*time.Hour),
		CarrierBaseURL:        os.Getenv("CARRIER_BASE_URL"),
		CarrierToken:          os.Getenv("CARRIER_TOKEN"),
		CarrierShopID:         os.Getenv("CARRIER_SHOP_ID"),
		CarrierName:           envOr("CARRIER_NAME", "ghn"),
		CarrierSyncSchedule:   envOr("CARRIER_SYNC_SCHEDULE", "0 */5 * * * *"),
		CarrierSyncBatchSize:  intOr("CARRIER_SYNC_BATCH_SIZE", 200),
		AutoCompleteSchedule:  envOr("AUTO_COMPLETE_SCHEDULE", "0 0 * * * *"),
		AutoCompleteAfter:     durationOr("AUTO_COMPLETE_AFTER", 7*24*time.Hour),
	}
	return config
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("Invalid %s %q: %v", key, raw, err)
	}
	return d
}

func intOr(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Invalid %s %q: %v", key, raw, err)
	}
	return n
}

// serveHTTP runs e until ctx is done or the listener fails, then shuts it
// down gracefully. A listener failure is returned; a shutdown is not.
func serveHTTP(ctx context.Context, e *echo.Echo, addr string, logger *slog.Logger) error {
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var err error
	select {
	case <-ctx.Done():
	case err = <-serveErr:
		if err != nil {
			err = fmt.Errorf("HTTP server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Error("HTTP server shutdown failed", "error", shutdownErr)
	}
	return err
}

func closeQuietly(logger *slog.Logger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.Error("close failed", "resource", name, "error", err)
	}
}
