package handlers

import (
	"github.com/feichai0017/resume-analyzer/internal/service/analysis"
	"github.com/feichai0017/resume-analyzer/internal/utils/validator"
	"github.com/feichai0017/resume-analyzer/pkg/logger"
)

type Handlers struct {
	Resume *ResumeHandler
	Health *HealthHandler
}

func NewHandlers(
	service analysis.ResumeAnalyzer,
	uploads *validator.DocumentValidator,
	checks map[string]Check,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Resume: NewResumeHandler(service, uploads, log),
		Health: NewHealthHandler(checks),
	}
}
