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

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"counsel-workers/internal/common/aws"
	"counsel-workers/internal/common/config"
	"counsel-workers/internal/common/database"
	"counsel-workers/internal/common/logger"
	"counsel-workers/internal/common/observability"
	"counsel-workers/pkg/registry"

	// Data Access Workers (2)
	qp "counsel-workers/internal/workers/data-access/query-postgresql"
	su "counsel-workers/internal/workers/data-access/search-universities"

	// Profile Workers (3)
	cps "counsel-workers/internal/workers/profile/compute-profile-strength"
	ds "counsel-workers/internal/workers/profile/determine-stage"
	vpd "counsel-workers/internal/workers/profile/validate-profile-data"

	// Matching Workers (2)
	mu "counsel-workers/internal/workers/matching/match-universities"
	ru "counsel-workers/internal/workers/matching/recommend-universities"

	// Task Workers (3)
	gpt "counsel-workers/internal/workers/tasks/generate-profile-tasks"
	gut "counsel-workers/internal/workers/tasks/generate-university-tasks"
	pt "counsel-workers/internal/workers/tasks/persist-tasks"

	// University Workers (1)
	lu "counsel-workers/internal/workers/university/lock-university"

	// Communication Workers (1)
	tr "counsel-workers/internal/workers/communication/task-reminder"
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
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

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
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init AWS Clients ---
	sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
	if err != nil {
		zapLog.Fatal("ses client init failed", zap.Error(err))
	}
	snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
	if err != nil {
		zapLog.Fatal("sns client init failed", zap.Error(err))
	}
	zapLog.Info("AWS clients initialized")

	// --- Load Activity Registry ---
	if cfg.Registry.Path != "" {
		reg, err := registry.LoadRegistry(cfg.Registry.Path)
		if err != nil {
			zapLog.Warn("activity registry load failed", zap.Error(err))
		} else {
			zapLog.Info("activity registry loaded",
				zap.String("version", reg.Version),
				zap.Int("activities", len(reg.Activities)),
			)
		}
	}

	// --- START: Register ALL 12 Workers ---

	// --- 1. Data Access Workers (2) ---
	if cfg.Workers[qp.TaskType].Enabled {
		handler := qp.NewHandler(
			&qp.Config{
				Timeout:  time.Duration(cfg.Workers[qp.TaskType].Timeout) * time.Millisecond,
				CacheTTL: time.Duration(cfg.Matching.CacheTTLMinutes) * time.Minute,
			},
			pg.DB, redis.Client, log,
		)
		startWorker(zeebeClient, qp.TaskType, cfg.Workers[qp.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[su.TaskType].Enabled {
		handler := su.NewHandler(
			&su.Config{
				Timeout: time.Duration(cfg.Workers[su.TaskType].Timeout) * time.Millisecond,
			},
			esClient.Client, log,
		)
		startWorker(zeebeClient, su.TaskType, cfg.Workers[su.TaskType], handler.Handle, zapLog)
	}

	// --- 2. Profile Workers (3) ---
	if cfg.Workers[vpd.TaskType].Enabled {
		handler := vpd.NewHandler(&vpd.Config{}, log)
		startWorker(zeebeClient, vpd.TaskType, cfg.Workers[vpd.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[cps.TaskType].Enabled {
		handler := cps.NewHandler(&cps.Config{}, log)
		startWorker(zeebeClient, cps.TaskType, cfg.Workers[cps.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[ds.TaskType].Enabled {
		handler := ds.NewHandler(&ds.Config{}, log)
		startWorker(zeebeClient, ds.TaskType, cfg.Workers[ds.TaskType], handler.Handle, zapLog)
	}

	// --- 3. Matching Workers (2) ---
	if cfg.Workers[mu.TaskType].Enabled {
		handler := mu.NewHandler(
			&mu.Config{
				CacheTTL:           time.Duration(cfg.Matching.CacheTTLMinutes) * time.Minute,
				SelectiveRateBelow: cfg.Matching.SelectiveRateBelow,
				ModerateRateBelow:  cfg.Matching.ModerateRateBelow,
			},
			pg.DB, redis.Client, log,
		)
		startWorker(zeebeClient, mu.TaskType, cfg.Workers[mu.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[ru.TaskType].Enabled {
		handler := ru.NewHandler(
			&ru.Config{
				DefaultLimit: cfg.Matching.RecommendLimit,
			},
			log,
		)
		startWorker(zeebeClient, ru.TaskType, cfg.Workers[ru.TaskType], handler.Handle, zapLog)
	}

	// --- 4. Task Workers (3) ---
	if cfg.Workers[gpt.TaskType].Enabled {
		handler := gpt.NewHandler(&gpt.Config{}, log)
		startWorker(zeebeClient, gpt.TaskType, cfg.Workers[gpt.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[gut.TaskType].Enabled {
		handler := gut.NewHandler(&gut.Config{}, log)
		startWorker(zeebeClient, gut.TaskType, cfg.Workers[gut.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[pt.TaskType].Enabled {
		handler := pt.NewHandler(&pt.Config{}, pg.DB, log)
		startWorker(zeebeClient, pt.TaskType, cfg.Workers[pt.TaskType], handler.Handle, zapLog)
	}

	// --- 5. University Workers (1) ---
	if cfg.Workers[lu.TaskType].Enabled {
		handler := lu.NewHandler(&lu.Config{}, pg.DB, redis.Client, log)
		startWorker(zeebeClient, lu.TaskType, cfg.Workers[lu.TaskType], handler.Handle, zapLog)
	}

	// --- 6. Communication Workers (1) ---
	if cfg.Workers[tr.TaskType].Enabled {
		trCfg := tr.DefaultConfig()
		trCfg.Timeout = time.Duration(cfg.Workers[tr.TaskType].Timeout) * time.Millisecond
		if cfg.Notifications.Email.FromEmail != "" {
			trCfg.DefaultFrom = cfg.Notifications.Email.FromEmail
		}
		handler := tr.NewHandler(trCfg, sesClient, snsClient, log)
		startWorker(zeebeClient, tr.TaskType, cfg.Workers[tr.TaskType], handler.Handle, zapLog)
	}

	zapLog.Info("All 12 workers registered successfully")

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
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
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

	_ = shutdownCtx

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
