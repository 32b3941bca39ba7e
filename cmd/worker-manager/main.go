// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"validation-workers/internal/common/camunda"
	"validation-workers/internal/common/config"
	"validation-workers/internal/common/database"
	"validation-workers/internal/common/genai"
	"validation-workers/internal/common/logger"
	"validation-workers/internal/common/observability"
	"validation-workers/internal/documents"
	"validation-workers/internal/validation/orchestrator"
	"validation-workers/pkg/registry"

	cf "validation-workers/internal/workers/validation/collect-feedback"
	es "validation-workers/internal/workers/validation/evaluate-stage"
	is "validation-workers/internal/workers/validation/improve-stage"
	sc "validation-workers/internal/workers/validation/stage-criteria"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Validate activity registry ---
	registryPath := os.Getenv("ACTIVITY_REGISTRY_PATH")
	if registryPath == "" {
		registryPath = "pkg/registry/registry.json"
	}
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	if err := reg.Validate(); err != nil {
		zapLog.Fatal("activity registry invalid", zap.Error(err))
	}
	zapLog.Info("Activity registry validated", zap.Int("activities", len(reg.Activities)))

	// --- Init Zeebe Client with retry ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Generation Client ---
	genClient := genai.NewClient(cfg.GenAI, log)
	if err := genClient.Available(); err != nil {
		// Not fatal: jobs will raise GENERATION_UNAVAILABLE until configured.
		zapLog.Warn("generation service not configured", zap.Error(err))
	}

	// --- Init Document Store (postgres behind a redis read-through cache) ---
	var docs documents.Store = documents.NewPostgresStore(pg.DB, log)
	cacheTTL := time.Duration(cfg.Database.Redis.CacheTTL) * time.Second
	if cacheTTL > 0 {
		docs = documents.NewCachedStore(docs, redis.Client, cacheTTL, log)
	}

	validator := orchestrator.New(
		genClient,
		docs,
		genClient.ScoringTemperature(),
		genClient.CreativeTemperature(),
		cfg.Personas.DefaultCount,
		log,
	)

	// --- Register Validation Workers (4) ---
	var workers []*camunda.CamundaWorker

	if cfg.Workers[es.TaskType].Enabled {
		handler := es.NewHandler(
			&es.Config{
				Timeout: time.Duration(cfg.Workers[es.TaskType].Timeout) * time.Millisecond,
			},
			validator, log,
		)
		workers = append(workers, startWorker(zeebeClient, es.TaskType, cfg.Workers[es.TaskType], handler, zapLog))
	}

	if cfg.Workers[cf.TaskType].Enabled {
		handler := cf.NewHandler(
			&cf.Config{
				Timeout: time.Duration(cfg.Workers[cf.TaskType].Timeout) * time.Millisecond,
			},
			validator, log,
		)
		workers = append(workers, startWorker(zeebeClient, cf.TaskType, cfg.Workers[cf.TaskType], handler, zapLog))
	}

	if cfg.Workers[is.TaskType].Enabled {
		handler := is.NewHandler(
			&is.Config{
				Timeout: time.Duration(cfg.Workers[is.TaskType].Timeout) * time.Millisecond,
			},
			validator, log,
		)
		workers = append(workers, startWorker(zeebeClient, is.TaskType, cfg.Workers[is.TaskType], handler, zapLog))
	}

	if cfg.Workers[sc.TaskType].Enabled {
		handler := sc.NewHandler(
			&sc.Config{
				Timeout: time.Duration(cfg.Workers[sc.TaskType].Timeout) * time.Millisecond,
			},
			validator, log,
		)
		workers = append(workers, startWorker(zeebeClient, sc.TaskType, cfg.Workers[sc.TaskType], handler, zapLog))
	}

	zapLog.Info("All validation workers registered successfully", zap.Int("workers", len(workers)))

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", cfg.App.MetricsPort)
		zapLog.Info("Health/Metrics server listening", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop(shutdownCtx)
	}

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler camunda.JobHandler, log *zap.Logger) *camunda.CamundaWorker {
	w := camunda.NewWorker(client, taskType, wcfg.MaxJobsActive, handler, log)
	w.Start()
	return w
}
