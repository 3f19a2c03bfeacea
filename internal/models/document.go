package models

import (
	"time"
)

// TextChunk is one unit of extracted text (a PDF page or an OCR pass).
type TextChunk struct {
	Content  string                 `json:"content"`
	Page     int                    `json:"page"`
	Metadata map[string]interface{} `json:"metadata"`
}

// AnalysisTask tracks an asynchronous analysis.
type AnalysisTask struct {
	ID        string            `json:"id"`
	Status    ProcessingStatus  `json:"status"`
	Role      string            `json:"role"`
	Progress  float64           `json:"progress"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt,omitempty"`
}

type ProcessingStatus string

const (
	StatusPending   ProcessingStatus = "pending"
	StatusRunning   ProcessingStatus = "running"
	StatusCompleted ProcessingStatus = "completed"
	StatusFailed    ProcessingStatus = "failed"
	StatusCancelled ProcessingStatus = "cancelled"
)
