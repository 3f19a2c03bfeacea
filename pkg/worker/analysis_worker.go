package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/feichai0017/resume-analyzer/internal/service/analysis"
	"github.com/feichai0017/resume-analyzer/pkg/logger"
	"github.com/feichai0017/resume-analyzer/pkg/queue"
)

type AnalysisWorker struct {
	BaseWorker
	handler analysis.TaskHandler
}

func NewAnalysisWorker(cfg *Config, handler analysis.TaskHandler, log logger.Logger) (*AnalysisWorker, error) {
	if handler == nil {
		return nil, fmt.Errorf("task handler is required")
	}
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	server := asynq.NewServer(cfg.Redis, asynq.Config{
		Concurrency:    cfg.Concurrency,
		Queues:         cfg.Queues,
		RetryDelayFunc: retryDelay,
		Logger:         newAsynqLogger(log),
	})

	w := &AnalysisWorker{
		BaseWorker: BaseWorker{
			server:   server,
			mux:      asynq.NewServeMux(),
			logger:   log.Named("worker"),
			stopChan: make(chan struct{}),
		},
		handler: handler,
	}
	w.registerHandlers()
	return w, nil
}

func (w *AnalysisWorker) registerHandlers() {
	w.mux.HandleFunc(queue.TaskTypeResumeAnalyze, w.handleAnalyze)
}

func (w *AnalysisWorker) handleAnalyze(ctx context.Context, t *asynq.Task) error {
	task, err := queue.ParseTask(t)
	if err != nil {
		w.logger.Error("Invalid task payload",
			logger.Error(err),
			logger.String("payload", string(t.Payload())),
		)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	ctx = logger.IntoContext(ctx, task.ID)
	log := logger.FromContext(ctx, w.logger)
	log.Info("Processing analysis task",
		logger.String("filename", task.Payload.Filename),
		logger.String("role", task.Payload.Role),
	)

	err = w.handler.HandleTask(ctx, task)
	if err == nil {
		log.Info("Analysis task completed")
		return nil
	}

	if errors.Is(err, analysis.ErrNoTextExtracted) {
		err = fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}
	if final(ctx, err) {
		w.handler.MarkFailed(ctx, task, err)
	}
	log.Error("Analysis task failed", logger.Error(err))
	return err
}

// final reports whether asynq will give up on the task after err.
func final(ctx context.Context, err error) bool {
	if errors.Is(err, asynq.SkipRetry) {
		return true
	}
	retried, ok := asynq.GetRetryCount(ctx)
	if !ok {
		return true
	}
	maxRetry, ok := asynq.GetMaxRetry(ctx)
	if !ok {
		return true
	}
	return retried >= maxRetry
}

func (w *AnalysisWorker) Start(ctx context.Context) error {
	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("failed to start worker: %w", err)
	}
	w.logger.Info("Worker started")

	go func() {
		select {
		case <-ctx.Done():
			w.Stop()
		case <-w.stopChan:
		}
	}()
	return nil
}
