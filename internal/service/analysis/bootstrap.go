package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/feichai0017/resume-analyzer/config"
	"github.com/feichai0017/resume-analyzer/internal/agent"
	"github.com/feichai0017/resume-analyzer/internal/analyzer"
	"github.com/feichai0017/resume-analyzer/pkg/logger"
	"github.com/feichai0017/resume-analyzer/pkg/queue"
	"github.com/feichai0017/resume-analyzer/pkg/storage"
)

// Runtime owns everything a process needs to run analyses.
type Runtime struct {
	Service *AnalysisService
	Factory *agent.ProcessorFactory
	Storage storage.Storage
	Queue   *queue.AsynqQueue // nil when async processing is disabled
}

// LoadProfiles builds the role registry: built-ins, optionally merged with a
// YAML file, with the configured default role.
func LoadProfiles(cfg *config.AnalyzerConfig) (*analyzer.Registry, error) {
	registry := analyzer.DefaultRegistry()
	if cfg.ProfilesPath != "" {
		var err error
		if registry, err = analyzer.LoadRegistry(cfg.ProfilesPath); err != nil {
			return nil, err
		}
	}
	if cfg.DefaultRole != "" {
		return registry.WithDefault(cfg.DefaultRole)
	}
	return registry, nil
}

// GetService wires storage, queue, OCR engine and profiles from cfg.
func GetService(ctx context.Context, cfg *config.Config, log logger.Logger) (*Runtime, error) {
	registry, err := LoadProfiles(&cfg.Analyzer)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}

	store, err := storage.NewStorage(ctx, &cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	factory, err := agent.NewProcessorFactory(ctx, log, &cfg.OCR)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize processor factory: %w", err)
	}

	rt := &Runtime{Factory: factory, Storage: store}
	var q queue.Queue
	if cfg.Queue.AsyncEnabled {
		if rt.Queue, err = queue.NewAsynqQueue(&cfg.Queue); err != nil {
			factory.Close()
			return nil, fmt.Errorf("failed to initialize queue: %w", err)
		}
		q = rt.Queue
	}

	svcCfg := DefaultServiceConfig()
	svcCfg.Retention = cfg.Analyzer.Retention
	rt.Service = NewService(agent.NewExtractor(factory, log), registry, store, q, log, svcCfg)

	log.Info("Analysis service ready",
		logger.String("storage", cfg.Storage.Type),
		logger.String("ocrEngine", cfg.OCR.Engine),
		logger.Bool("async", cfg.Queue.AsyncEnabled),
		logger.Strings("roles", registry.Roles()),
	)
	return rt, nil
}

func (r *Runtime) Close() error {
	var errs []error
	if r.Queue != nil {
		errs = append(errs, r.Queue.Close())
	}
	errs = append(errs, r.Factory.Close())
	return errors.Join(errs...)
}
