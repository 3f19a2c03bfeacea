package analysis

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/feichai0017/resume-analyzer/internal/models"
	"github.com/feichai0017/resume-analyzer/pkg/converters"
	"github.com/feichai0017/resume-analyzer/pkg/queue"
)

var (
	// ErrNoTextExtracted is the one analysis failure: the resume was missing
	// or nothing could be read from it.
	ErrNoTextExtracted  = errors.New("no text extracted")
	ErrAsyncDisabled    = errors.New("asynchronous analysis is disabled")
	ErrTaskNotCompleted = errors.New("task is not completed")
	ErrUnknownArtifact  = errors.New("unknown artifact")
)

// Artifact names, stored under "<analysis id>/".
const (
	ArtifactReport = "resume_analysis_report.txt"
	ArtifactChart  = "resume_analysis_summary.png"
	ArtifactText   = "extracted_text.txt"
	ArtifactResult = "result.json"
)

type ResumeAnalyzer interface {
	Roles() []string
	DefaultRole() string
	AnalyzeFile(ctx context.Context, path, role string) (*converters.AnalysisDocument, error)
	AnalyzeUpload(ctx context.Context, r io.Reader, filename, role string) (*converters.AnalysisDocument, error)
	SubmitUpload(ctx context.Context, r io.Reader, filename, role string) (*models.AnalysisTask, error)
	GetTaskStatus(ctx context.Context, taskID string) (*models.AnalysisTask, error)
	GetResult(ctx context.Context, taskID string) (*converters.AnalysisDocument, error)
	CancelTask(ctx context.Context, taskID string) error
	OpenArtifact(ctx context.Context, id, name string) (io.ReadCloser, error)
	CleanupArtifacts(ctx context.Context) error
}

// TaskHandler is the worker side of the service.
type TaskHandler interface {
	HandleTask(ctx context.Context, task *queue.Task) error
	MarkFailed(ctx context.Context, task *queue.Task, cause error)
}

type ServiceConfig struct {
	QueuePriority int
	Retention     time.Duration
	TempDir       string // scratch space for uploads; "" uses os.TempDir
}

func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		QueuePriority: 2,
		Retention:     24 * time.Hour,
	}
}
