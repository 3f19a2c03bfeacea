package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/feichai0017/resume-analyzer/config"
	"github.com/feichai0017/resume-analyzer/internal/service/analysis"
	"github.com/feichai0017/resume-analyzer/pkg/logger"
	"github.com/feichai0017/resume-analyzer/pkg/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(
		logger.WithLevel(cfg.App.LogLevel),
		logger.WithEncoding(cfg.App.LogEncoding),
		logger.WithOutputPaths([]string{"stdout", "logs/worker.log"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if !cfg.Queue.AsyncEnabled {
		log.Error("Async processing is disabled; set ASYNC_ENABLED=true to run the worker")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt, err := analysis.GetService(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to create analysis service", logger.Error(err))
		os.Exit(1)
	}
	defer rt.Close()

	analysisWorker, err := worker.NewAnalysisWorker(worker.ConfigFrom(&cfg.Queue), rt.Service, log)
	if err != nil {
		log.Error("Failed to create analysis worker", logger.Error(err))
		os.Exit(1)
	}

	if err := analysisWorker.Start(ctx); err != nil {
		log.Error("Failed to start worker", logger.Error(err))
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down worker...")
	analysisWorker.Stop()
	log.Info("Worker stopped")
}
