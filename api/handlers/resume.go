package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/resume-analyzer/internal/analyzer"
	"github.com/feichai0017/resume-analyzer/internal/report"
	"github.com/feichai0017/resume-analyzer/internal/service/analysis"
	"github.com/feichai0017/resume-analyzer/internal/utils/validator"
	"github.com/feichai0017/resume-analyzer/pkg/converters"
	"github.com/feichai0017/resume-analyzer/pkg/logger"
)

type ResumeHandler struct {
	service   analysis.ResumeAnalyzer
	validator *validator.DocumentValidator
	logger    logger.Logger
}

type AnalyzeResponse struct {
	ID             string                       `json:"id"`
	Verdict        string                       `json:"verdict"`
	VerdictMessage string                       `json:"verdictMessage"`
	Analysis       *converters.AnalysisDocument `json:"analysis"`
	Links          map[string]string            `json:"links"`
}

type SubmitResponse struct {
	TaskID    string `json:"taskId"`
	Status    string `json:"status"`
	Role      string `json:"role"`
	Filename  string `json:"filename"`
	FileSize  int64  `json:"fileSize"`
	FileType  string `json:"fileType"`
	CreatedAt string `json:"createdAt"`
}

type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func NewResumeHandler(service analysis.ResumeAnalyzer, v *validator.DocumentValidator, log logger.Logger) *ResumeHandler {
	return &ResumeHandler{
		service:   service,
		validator: v,
		logger:    log.Named("http"),
	}
}

func (h *ResumeHandler) Roles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"roles":       h.service.Roles(),
		"defaultRole": h.service.DefaultRole(),
	})
}

// Analyze scores an uploaded resume synchronously.
func (h *ResumeHandler) Analyze(c *gin.Context) {
	header, ok := h.upload(c)
	if !ok {
		return
	}
	file, err := header.Open()
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid file upload", err)
		return
	}
	defer file.Close()

	doc, err := h.service.AnalyzeUpload(c.Request.Context(), file, header.Filename, c.PostForm("role"))
	if err != nil {
		h.handleError(c, statusFor(err), "Failed to analyze resume", err)
		return
	}

	c.JSON(http.StatusOK, AnalyzeResponse{
		ID:             doc.TaskID,
		Verdict:        doc.Verdict,
		VerdictMessage: report.Band(doc.Verdict).Message(),
		Analysis:       doc,
		Links:          links(doc.TaskID),
	})
}

// Submit queues an uploaded resume for the worker.
func (h *ResumeHandler) Submit(c *gin.Context) {
	header, ok := h.upload(c)
	if !ok {
		return
	}
	file, err := header.Open()
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid file upload", err)
		return
	}
	defer file.Close()

	task, err := h.service.SubmitUpload(c.Request.Context(), file, header.Filename, c.PostForm("role"))
	if err != nil {
		h.handleError(c, statusFor(err), "Failed to submit resume", err)
		return
	}

	c.JSON(http.StatusAccepted, SubmitResponse{
		TaskID:    task.ID,
		Status:    string(task.Status),
		Role:      task.Role,
		Filename:  header.Filename,
		FileSize:  header.Size,
		FileType:  filepath.Ext(header.Filename),
		CreatedAt: task.CreatedAt.Format(time.RFC3339),
	})
}

func (h *ResumeHandler) GetStatus(c *gin.Context) {
	taskID := c.Param("id")
	task, err := h.service.GetTaskStatus(c.Request.Context(), taskID)
	if err != nil {
		h.handleError(c, statusFor(err), "Failed to get status", err)
		return
	}

	resp := gin.H{
		"taskId":    task.ID,
		"status":    string(task.Status),
		"role":      task.Role,
		"progress":  task.Progress,
		"error":     task.Error,
		"createdAt": task.CreatedAt.Format(time.RFC3339),
	}
	if !task.UpdatedAt.IsZero() {
		resp["updatedAt"] = task.UpdatedAt.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ResumeHandler) GetResult(c *gin.Context) {
	taskID := c.Param("id")
	doc, err := h.service.GetResult(c.Request.Context(), taskID)
	if err != nil {
		h.handleError(c, statusFor(err), "Failed to get result", err)
		return
	}
	c.JSON(http.StatusOK, AnalyzeResponse{
		ID:             doc.TaskID,
		Verdict:        doc.Verdict,
		VerdictMessage: report.Band(doc.Verdict).Message(),
		Analysis:       doc,
		Links:          links(doc.TaskID),
	})
}

func (h *ResumeHandler) CancelTask(c *gin.Context) {
	taskID := c.Param("id")
	if err := h.service.CancelTask(c.Request.Context(), taskID); err != nil {
		h.handleError(c, statusFor(err), "Failed to cancel task", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Task cancelled successfully",
		"taskId":  taskID,
	})
}

func (h *ResumeHandler) Report(c *gin.Context) {
	h.artifact(c, analysis.ArtifactReport, "text/plain; charset=utf-8")
}

func (h *ResumeHandler) Chart(c *gin.Context) {
	h.artifact(c, analysis.ArtifactChart, "image/png")
}

func (h *ResumeHandler) Text(c *gin.Context) {
	h.artifact(c, analysis.ArtifactText, "text/plain; charset=utf-8")
}

func (h *ResumeHandler) artifact(c *gin.Context, name, contentType string) {
	id := c.Param("id")
	rc, err := h.service.OpenArtifact(c.Request.Context(), id, name)
	if err != nil {
		h.handleError(c, statusFor(err), "Failed to get artifact", err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, -1, contentType, rc, map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%s", name),
	})
}

// upload reads and validates the "file" form field.
func (h *ResumeHandler) upload(c *gin.Context) (*multipart.FileHeader, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid file upload", err)
		return nil, false
	}
	result, err := h.validator.ValidateFile(header)
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid file upload", err)
		return nil, false
	}
	if !result.IsValid {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   result.Err().Error(),
			Message: "File validation failed",
			Details: result.Errors,
		})
		return nil, false
	}
	return header, true
}

func links(id string) map[string]string {
	base := "/api/v1/resumes/" + id
	return map[string]string{
		"report": base + "/report",
		"chart":  base + "/chart",
		"text":   base + "/text",
	}
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, analysis.ErrNoTextExtracted):
		return http.StatusUnprocessableEntity
	case errors.Is(err, analyzer.ErrUnknownRole), errors.Is(err, validator.ErrInvalidUpload):
		return http.StatusBadRequest
	case errors.Is(err, analysis.ErrAsyncDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, analysis.ErrTaskNotCompleted):
		return http.StatusConflict
	case errors.Is(err, analysis.ErrUnknownArtifact), analysis.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *ResumeHandler) handleError(c *gin.Context, status int, message string, err error) {
	fields := []logger.Field{logger.String("path", c.Request.URL.Path), logger.Int("status", status)}
	if err != nil {
		fields = append(fields, logger.Error(err))
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error(message, fields...)
	} else {
		h.logger.Warn(message, fields...)
	}

	response := ErrorResponse{Message: message}
	if err != nil {
		response.Error = err.Error()
	}
	c.JSON(status, response)
}
