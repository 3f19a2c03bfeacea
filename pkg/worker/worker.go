package worker

import (
	"context"
	"sync"
	"time"

	"github.com/hibiken/asynq"

	"github.com/feichai0017/resume-analyzer/config"
	"github.com/feichai0017/resume-analyzer/pkg/logger"
	"github.com/feichai0017/resume-analyzer/pkg/queue"
)

type Worker interface {
	Start(ctx context.Context) error
	Stop() error
}

type Config struct {
	Redis       asynq.RedisClientOpt
	Concurrency int
	Queues      map[string]int
	Timeout     time.Duration
}

// ConfigFrom builds a worker config from the queue section.
func ConfigFrom(cfg *config.QueueConfig) *Config {
	return &Config{
		Redis:       queue.RedisOpt(cfg),
		Concurrency: cfg.Concurrency,
		Queues:      queue.Weights,
		Timeout:     cfg.TaskTimeout,
	}
}

type BaseWorker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	logger   logger.Logger
	stopOnce sync.Once
	stopChan chan struct{}
}

func (w *BaseWorker) Stop() error {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.server.Shutdown()
	})
	return nil
}

// Done is closed once Stop has been called.
func (w *BaseWorker) Done() <-chan struct{} {
	return w.stopChan
}

// retryDelay backs off one minute per attempt.
func retryDelay(n int, _ error, _ *asynq.Task) time.Duration {
	return time.Duration(n) * time.Minute
}
