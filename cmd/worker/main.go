package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Yajiroobe/SAE-VISION360/internal/bootstrap"
	"github.com/Yajiroobe/SAE-VISION360/internal/config"
	"github.com/Yajiroobe/SAE-VISION360/internal/observability/logging"
	"github.com/Yajiroobe/SAE-VISION360/internal/observability/metrics"
)

const serviceName = "worker"

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		logger.Info("worker metrics listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("worker metrics server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logger.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeAnalysisRequested(ctx, func(handlerCtx context.Context, analysisID string) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
		defer cancel()

		if analysis, err := app.AnalysisUC.GetByID(processCtx, analysisID); err == nil {
			workerMetrics.ObserveQueueLag(serviceName, time.Since(analysis.CreatedAt))
		}

		workerMetrics.StartAnalysis()
		start := time.Now()
		processErr := app.AnalysisUC.ProcessByID(processCtx, analysisID)
		workerMetrics.FinishAnalysis(serviceName, time.Since(start), processErr)

		if processErr != nil {
			logger.Error("analysis processing failed", "analysis_id", analysisID, "error", processErr)
		} else {
			logger.Info("analysis processed", "analysis_id", analysisID, "duration_ms", time.Since(start).Milliseconds())
		}
		return processErr
	})
	if err != nil {
		logger.Error("worker subscribe error", "error", err)
		os.Exit(1)
	}
}
