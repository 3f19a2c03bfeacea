package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/feichai0017/resume-analyzer/api/handlers"
	"github.com/feichai0017/resume-analyzer/api/middleware"
	"github.com/feichai0017/resume-analyzer/pkg/logger"
)

// SetupRoutes registers every API route on r.
func SetupRoutes(r *gin.Engine, h *handlers.Handlers, log logger.Logger) {
	r.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.CORS())

	v1 := r.Group("/api/v1")
	v1.GET("/health", h.Health.Health)
	v1.GET("/roles", h.Resume.Roles)

	resumes := v1.Group("/resumes")
	{
		resumes.POST("/analyze", h.Resume.Analyze)
		resumes.POST("/submit", h.Resume.Submit)
		resumes.GET("/status/:id", h.Resume.GetStatus)
		resumes.GET("/result/:id", h.Resume.GetResult)
		resumes.DELETE("/task/:id", h.Resume.CancelTask)
		resumes.GET("/:id/report", h.Resume.Report)
		resumes.GET("/:id/chart", h.Resume.Chart)
		resumes.GET("/:id/text", h.Resume.Text)
	}
}
