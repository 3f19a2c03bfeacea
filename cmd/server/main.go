package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/resume-analyzer/api/handlers"
	"github.com/feichai0017/resume-analyzer/api/routes"
	"github.com/feichai0017/resume-analyzer/config"
	"github.com/feichai0017/resume-analyzer/internal/service/analysis"
	"github.com/feichai0017/resume-analyzer/internal/utils/validator"
	"github.com/feichai0017/resume-analyzer/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(
		logger.WithLevel(cfg.App.LogLevel),
		logger.WithEncoding(cfg.App.LogEncoding),
		logger.WithOutputPaths([]string{"stdout", cfg.App.LogFile}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := analysis.GetService(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to get analysis service", logger.Error(err))
	}
	defer rt.Close()

	checks := map[string]handlers.Check{}
	if rt.Queue != nil {
		checks["redis"] = rt.Queue.Ping
	}

	uploads := validator.NewDocumentValidator(log, validator.DefaultConfig(cfg.Analyzer.MaxUploadBytes))
	h := handlers.NewHandlers(rt.Service, uploads, checks, log)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.MaxMultipartMemory = cfg.Analyzer.MaxUploadBytes
	routes.SetupRoutes(r, h, log)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go runCleanup(ctx, rt.Service, log)

	go func() {
		log.Info("Server starting", logger.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", logger.Error(err))
		os.Exit(1)
	}
}

// runCleanup drops expired artifacts once an hour.
func runCleanup(ctx context.Context, svc analysis.ResumeAnalyzer, log logger.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := svc.CleanupArtifacts(ctx); err != nil {
				log.Error("Artifact cleanup failed", logger.Error(err))
			}
		}
	}
}
