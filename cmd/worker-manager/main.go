// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"qscore-workers/internal/common/camunda"
	"qscore-workers/internal/common/config"
	"qscore-workers/internal/common/database"
	"qscore-workers/internal/common/logger"
	"qscore-workers/internal/common/observability"
	"qscore-workers/internal/history"
	"qscore-workers/internal/percentile"

	aab "qscore-workers/internal/workers/scoring/apply-artifact-boost"
	cq "qscore-workers/internal/workers/scoring/calculate-qscore"
	dbs "qscore-workers/internal/workers/scoring/detect-bluff-signals"
	ri "qscore-workers/internal/workers/scoring/recommend-improvements"
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
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog, err := logger.Build(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("observability disabled", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(ctx)
	}()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		if err != nil && !camunda.IsTransientError(err) {
			zapLog.Warn("zeebe error does not look transient", zap.Error(err))
		}
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()

	if err := pg.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("score history schema setup failed", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis (optional cohort cache) ---
	var cache redis.Cmdable
	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err == nil && rdb != nil {
		err = retryWithBackoff(func() error {
			return rdb.Ping(ctx)
		}, 5, time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Warn("redis unavailable, cohort cache disabled", zap.Error(err))
			rdb.Close()
		} else {
			defer rdb.Close()
			cache = rdb.GetClient()
			zapLog.Info("Redis connected successfully")
		}
	} else {
		zapLog.Info("redis not configured, cohort cache disabled")
	}

	// --- Scoring collaborators ---
	repo := history.NewRepository(pg.GetDB())
	ranker := percentile.NewService(repo, cache, percentile.Options{
		Mode:     history.CohortMode(cfg.Scoring.CohortMode),
		Timeout:  config.GetDuration(cfg.Scoring.PercentileTimeout),
		CacheTTL: config.GetDuration(cfg.Scoring.CohortCacheTTL),
	}, log)

	// --- Register Workers ---
	client := zeebe.GetClient()
	var workers []*camunda.CamundaWorker
	register := func(taskType string, handler camunda.JobHandler) {
		w := camunda.NewWorker(client, taskType, config.GetWorkerConfig(cfg, taskType), handler, obs, zapLog)
		if w != nil {
			workers = append(workers, w)
		}
	}

	if config.IsWorkerEnabled(cfg, cq.TaskType) {
		handler, err := cq.NewHandler(
			&cq.Config{
				Timeout:       config.GetDuration(config.GetWorkerConfig(cfg, cq.TaskType).Timeout),
				DefaultSector: cfg.Scoring.DefaultSector,
			},
			repo, ranker, obs, log,
		)
		if err != nil {
			zapLog.Fatal("calculate-qscore handler setup failed", zap.Error(err))
		}
		register(cq.TaskType, handler)
	}

	if config.IsWorkerEnabled(cfg, ri.TaskType) {
		handler := ri.NewHandler(
			&ri.Config{Timeout: config.GetDuration(config.GetWorkerConfig(cfg, ri.TaskType).Timeout)},
			log,
		)
		register(ri.TaskType, handler)
	}

	if config.IsWorkerEnabled(cfg, dbs.TaskType) {
		handler := dbs.NewHandler(
			&dbs.Config{Timeout: config.GetDuration(config.GetWorkerConfig(cfg, dbs.TaskType).Timeout)},
			log,
		)
		register(dbs.TaskType, handler)
	}

	if config.IsWorkerEnabled(cfg, aab.TaskType) {
		handler := aab.NewHandler(
			&aab.Config{Timeout: config.GetDuration(config.GetWorkerConfig(cfg, aab.TaskType).Timeout)},
			repo, log,
		)
		register(aab.TaskType, handler)
	}

	zapLog.Info("workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := pg.Ping(checkCtx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "postgres": err.Error()})
			return
		}
		if err := zeebe.HealthCheck(checkCtx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "zeebe": err.Error()})
			return
		}
		writeStatus(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	for _, w := range workers {
		w.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped")
}

func writeStatus(w http.ResponseWriter, code int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
