// cmd/engine-server/main.go
package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/AirieImmigration/pathway-engine/internal/catalog"
	"github.com/AirieImmigration/pathway-engine/internal/common/config"
	"github.com/AirieImmigration/pathway-engine/internal/common/database"
	"github.com/AirieImmigration/pathway-engine/internal/common/errors"
	"github.com/AirieImmigration/pathway-engine/internal/common/logger"
	"github.com/AirieImmigration/pathway-engine/internal/common/observability"
	"github.com/AirieImmigration/pathway-engine/internal/common/validation"
	"github.com/AirieImmigration/pathway-engine/internal/engine/assessor"
	"github.com/AirieImmigration/pathway-engine/internal/models"
	"github.com/AirieImmigration/pathway-engine/internal/planstate"

	ap "github.com/AirieImmigration/pathway-engine/internal/service/assess-pathway"
	cp "github.com/AirieImmigration/pathway-engine/internal/service/compute-pathway"
	rs "github.com/AirieImmigration/pathway-engine/internal/service/recompute-scores"
	rt "github.com/AirieImmigration/pathway-engine/internal/service/recommend-tasks"
)

// planTTL bounds how long an untouched plan snapshot survives in Redis.
const planTTL = 30 * 24 * time.Hour

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

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting engine server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("engine-server")
	defer obs.Shutdown()

	// --- Init PostgreSQL with retry ---
	var pgClient *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pgClient, err = database.NewPostgres(cfg.Database.Postgres)
		return err
	}, 5, 2*time.Second, zapLog, "PostgreSQL initialization")
	if err != nil {
		zapLog.Fatal("PostgreSQL connection failed", zap.Error(err))
	}
	defer pgClient.Close()
	zapLog.Info("PostgreSQL connected", zap.String("host", cfg.Database.Postgres.Host))

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		return err
	}, 5, 2*time.Second, zapLog, "Redis initialization")
	if err != nil {
		zapLog.Fatal("Redis connection failed", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected", zap.String("address", cfg.Database.Redis.Address))

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 5, 2*time.Second, zapLog, "Elasticsearch initialization")
	if err != nil {
		zapLog.Fatal("Elasticsearch connection failed", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected", zap.String("url", cfg.Database.Elasticsearch.GetURL()))

	// --- Shared engine dependencies ---
	repo := catalog.NewRepository(pgClient.GetDB(), log)
	search := catalog.NewSearch(esClient.Client, cfg.Database.Elasticsearch.VisaIndex, log)
	plans := planstate.NewStore(redisClient.GetClient(), planTTL, log)
	assess := assessor.New(
		assessor.WithMedianWage(cfg.Engine.MedianWageNZD),
		assessor.WithSkilledMultiplier(cfg.Engine.SkilledWageMultiplier),
		assessor.WithExperienceThreshold(cfg.Engine.ExperienceThresholdYears),
	)

	// --- Service handlers ---
	cpCfg := cp.LoadConfig()
	computePathway := cp.NewHandler(cpCfg, repo, plans, log)

	apCfg := ap.LoadConfig()
	if cfg.Engine.ScoringStrategy != "" {
		apCfg.ScoringStrategy = cfg.Engine.ScoringStrategy
	}
	assessPathway := ap.NewHandler(apCfg, repo, plans, assess, log)

	rtCfg := rt.LoadConfig()
	if cfg.Engine.TaskMappingStrategy != "" {
		rtCfg.MappingStrategy = cfg.Engine.TaskMappingStrategy
	}
	recommendTasks := rt.NewHandler(rtCfg, plans, assess, log)

	rsCfg := rs.LoadConfig()
	recomputeScores := rs.NewHandler(rsCfg, plans, assess, log)

	errHandler := errors.NewErrorHandler(log)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := pgClient.Ping(ctx); err != nil {
			http.Error(w, "postgres unavailable", http.StatusServiceUnavailable)
			return
		}
		if err := redisClient.Ping(ctx); err != nil {
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /v1/pathway/compute", jsonEndpoint(errHandler, obs, cp.Operation, cpCfg.Timeout, computePathway.Execute))
	mux.HandleFunc("POST /v1/pathway/assess", jsonEndpoint(errHandler, obs, ap.Operation, apCfg.Timeout, assessPathway.Execute))
	mux.HandleFunc("POST /v1/tasks/recommend", jsonEndpoint(errHandler, obs, rt.Operation, rtCfg.Timeout, recommendTasks.Execute))
	mux.HandleFunc("POST /v1/scores/recompute", jsonEndpoint(errHandler, obs, rs.Operation, rsCfg.Timeout, recomputeScores.Execute))

	mux.HandleFunc("GET /v1/visas/search", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		size := 10
		if raw := r.URL.Query().Get("size"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				size = n
			}
		}

		visas, err := search.SearchVisas(ctx, r.URL.Query().Get("q"), models.Stage(r.URL.Query().Get("stage")), size)
		if err != nil {
			errHandler.HandleHTTPError(w, "search-visas", wrapError("search-visas", err))
			return
		}
		writeJSON(w, map[string]interface{}{"visas": visas})
	})

	mux.HandleFunc("GET /v1/visas/{slug}", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		slug := r.PathValue("slug")
		if err := validation.ValidateSlug(slug); err != nil {
			errHandler.HandleHTTPError(w, "get-visa", errors.NewInvalidRequestFormatError(err.Error()))
			return
		}
		visa, err := repo.GetVisaBySlug(ctx, slug)
		if err != nil {
			errHandler.HandleHTTPError(w, "get-visa", wrapError("get-visa", err))
			return
		}
		writeJSON(w, visa)
	})

	mux.HandleFunc("DELETE /v1/plans/{planId}", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := plans.Reset(ctx, r.PathValue("planId")); err != nil {
			errHandler.HandleHTTPError(w, "reset-plan", wrapError("reset-plan", err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("Engine server stopped")
}

// jsonEndpoint adapts a handler's Execute method to an HTTP endpoint with a
// JSON request body and JSON response.
func jsonEndpoint[I any, O any](errHandler *errors.ErrorHandler, obs *observability.Observability, operation string, timeout time.Duration, execute func(context.Context, *I) (*O, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		var input I
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			errHandler.HandleHTTPError(w, operation, errors.NewInvalidRequestFormatError(err.Error()))
			return
		}

		start := time.Now()
		output, err := execute(ctx, &input)
		status := "success"
		if err != nil {
			status = "error"
		}
		obs.RecordRequestProcessed(ctx, operation, status)
		obs.RecordRequestDuration(ctx, operation, time.Since(start), status)

		if err != nil {
			errHandler.HandleHTTPError(w, operation, wrapError(operation, err))
			return
		}
		writeJSON(w, output)
	}
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

// wrapError maps service sentinel errors to standardized error responses.
func wrapError(operation string, err error) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, planstate.ErrPlanNotFound):
		return errors.NewPlanNotFoundError("")
	case stderrors.Is(err, catalog.ErrVisaNotFound):
		return errors.NewVisaNotFoundError("")
	case stderrors.Is(err, catalog.ErrIndexNotFound):
		return errors.NewIndexNotFoundError("visas")
	case stderrors.Is(err, cp.ErrStartVisaUnresolved):
		return errors.NewStartVisaUnresolvedError("")
	case stderrors.Is(err, ap.ErrNoPathway), stderrors.Is(err, rt.ErrNoPathway), stderrors.Is(err, rs.ErrNoPathway):
		return errors.NewPathwayNotFoundError("", nil)
	case stderrors.Is(err, cp.ErrProfileInvalid), stderrors.Is(err, rs.ErrNoProfile):
		return errors.NewProfileValidationFailedError(err.Error())
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.NewTimeoutError(operation, err)
	default:
		return err
	}
}
