package analysis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/feichai0017/resume-analyzer/internal/agent"
	"github.com/feichai0017/resume-analyzer/internal/analyzer"
	"github.com/feichai0017/resume-analyzer/internal/models"
	"github.com/feichai0017/resume-analyzer/internal/report"
	"github.com/feichai0017/resume-analyzer/pkg/converters"
	"github.com/feichai0017/resume-analyzer/pkg/logger"
	"github.com/feichai0017/resume-analyzer/pkg/queue"
	"github.com/feichai0017/resume-analyzer/pkg/storage"
)

type AnalysisService struct {
	extractor agent.TextExtractor
	registry  *analyzer.Registry
	storage   storage.Storage
	queue     queue.Queue // nil disables the async path
	converter *converters.JSONConverter
	logger    logger.Logger
	config    *ServiceConfig
	newID     func() string
}

func NewService(
	extractor agent.TextExtractor,
	registry *analyzer.Registry,
	store storage.Storage,
	q queue.Queue,
	log logger.Logger,
	cfg *ServiceConfig,
) *AnalysisService {
	if cfg == nil {
		cfg = DefaultServiceConfig()
	}
	return &AnalysisService{
		extractor: extractor,
		registry:  registry,
		storage:   store,
		queue:     q,
		converter: converters.NewJSONConverter(),
		logger:    log.Named("analysis"),
		config:    cfg,
		newID:     func() string { return uuid.New().String() },
	}
}

func (s *AnalysisService) Roles() []string { return s.registry.Roles() }

func (s *AnalysisService) DefaultRole() string { return s.registry.DefaultRole() }

// AnalyzeFile runs the whole pipeline on a local file and stores the report,
// chart and extracted text under a fresh analysis ID.
func (s *AnalysisService) AnalyzeFile(ctx context.Context, filePath, role string) (*converters.AnalysisDocument, error) {
	return s.analyze(ctx, s.newID(), filePath, filepath.Base(filePath), role)
}

// AnalyzeUpload spools r to a temporary file named like filename and
// analyzes it synchronously.
func (s *AnalysisService) AnalyzeUpload(ctx context.Context, r io.Reader, filename, role string) (*converters.AnalysisDocument, error) {
	if _, err := s.registry.Get(role); err != nil {
		return nil, err
	}
	tmp, cleanup, err := s.spool(r, filename)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	return s.analyze(ctx, s.newID(), tmp, filepath.Base(filename), role)
}

func (s *AnalysisService) analyze(ctx context.Context, id, filePath, filename, role string) (*converters.AnalysisDocument, error) {
	ctx = logger.IntoContext(ctx, id)
	log := logger.FromContext(ctx, s.logger)
	start := time.Now()

	profile, err := s.registry.Get(role)
	if err != nil {
		return nil, err
	}

	chunks, err := s.extractor.ExtractChunks(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}
	text := agent.JoinChunks(chunks)
	if strings.TrimSpace(text) == "" {
		log.Warn("No text extracted", logger.String("filename", filename))
		return nil, ErrNoTextExtracted
	}

	result := analyzer.Analyze(text, profile)
	rep := report.Text(result)

	var chart bytes.Buffer
	if err := report.Chart(result, &chart); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	artifacts := make(map[string]string, 3)
	for _, a := range []struct {
		name string
		data []byte
	}{
		{ArtifactReport, []byte(rep)},
		{ArtifactChart, chart.Bytes()},
		{ArtifactText, []byte(text)},
	} {
		key, err := s.storage.Store(ctx, bytes.NewReader(a.data), artifactKey(id, a.name))
		if err != nil {
			s.discard(ctx, artifacts)
			return nil, fmt.Errorf("failed to store %s: %w", a.name, err)
		}
		artifacts[a.name] = key
	}

	doc, err := s.converter.Convert(converters.Input{
		TaskID:    id,
		Result:    result,
		Verdict:   string(report.Verdict(result.FinalScore)),
		Report:    rep,
		Artifacts: artifacts,
		FileName:  filename,
		FileType:  strings.ToLower(filepath.Ext(filename)),
		Text:      text,
		Chunks:    chunks,
		Elapsed:   time.Since(start),
	})
	if err != nil {
		s.discard(ctx, artifacts)
		return nil, fmt.Errorf("failed to convert result: %w", err)
	}

	log.Info("Resume analyzed",
		logger.String("role", result.Role),
		logger.Int("finalScore", result.FinalScore),
		logger.Duration("elapsed", time.Since(start)),
	)
	return doc, nil
}

// discard removes artifacts of an analysis that could not be completed.
// It runs even when ctx is already cancelled.
func (s *AnalysisService) discard(ctx context.Context, artifacts map[string]string) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range artifacts {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.Warn("Failed to remove partial artifact",
				logger.String("key", key),
				logger.Error(err),
			)
		}
	}
}

// SubmitUpload stores the upload and enqueues it for the worker.
func (s *AnalysisService) SubmitUpload(ctx context.Context, r io.Reader, filename, role string) (*models.AnalysisTask, error) {
	if s.queue == nil {
		return nil, ErrAsyncDisabled
	}
	profile, err := s.registry.Get(role)
	if err != nil {
		return nil, err
	}

	id := s.newID()
	ext := strings.ToLower(filepath.Ext(filename))
	uploadKey, err := s.storage.Store(ctx, r, artifactKey(id, "upload"+ext))
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	now := time.Now()
	task := &queue.Task{
		ID:       id,
		Type:     queue.TaskTypeResumeAnalyze,
		Priority: s.config.QueuePriority,
		Payload: queue.AnalyzePayload{
			UploadKey: uploadKey,
			Filename:  filepath.Base(filename),
			Role:      profile.Name,
		},
		Metadata:  map[string]string{"filename": filepath.Base(filename), "type": ext},
		CreatedAt: now,
	}
	if err := s.queue.Enqueue(ctx, task); err != nil {
		s.logger.Error("Failed to enqueue task", logger.String("taskId", id), logger.Error(err))
		return nil, fmt.Errorf("failed to enqueue task: %w", err)
	}

	if err := s.queue.SaveStatus(ctx, &queue.TaskStatus{
		TaskID:    id,
		Status:    queue.StatusPending,
		Role:      profile.Name,
		StartedAt: now,
	}); err != nil {
		s.logger.Error("Failed to save initial status", logger.String("taskId", id), logger.Error(err))
	}

	s.logger.Info("Analysis task created",
		logger.String("taskId", id),
		logger.String("filename", task.Payload.Filename),
		logger.String("role", profile.Name),
	)
	return &models.AnalysisTask{
		ID:        id,
		Status:    models.StatusPending,
		Role:      profile.Name,
		Metadata:  task.Metadata,
		CreatedAt: now,
	}, nil
}

// HandleTask runs a queued analysis and stores result.json next to the
// other artifacts.
func (s *AnalysisService) HandleTask(ctx context.Context, task *queue.Task) error {
	if task == nil || task.ID == "" || task.Payload.UploadKey == "" {
		return fmt.Errorf("invalid task: missing required data")
	}
	started := time.Now()
	s.saveStatus(ctx, &queue.TaskStatus{
		TaskID:    task.ID,
		Status:    queue.StatusRunning,
		Role:      task.Payload.Role,
		Progress:  0.1,
		StartedAt: started,
	})

	reader, err := s.storage.Get(ctx, task.Payload.UploadKey)
	if err != nil {
		return fmt.Errorf("failed to get upload: %w", err)
	}
	tmp, cleanup, err := s.spool(reader, task.Payload.Filename)
	reader.Close()
	if err != nil {
		return err
	}
	defer cleanup()

	doc, err := s.analyze(ctx, task.ID, tmp, task.Payload.Filename, task.Payload.Role)
	if err != nil {
		return err
	}
	doc.Artifacts[ArtifactResult] = artifactKey(task.ID, ArtifactResult)

	var buf bytes.Buffer
	if err := converters.Encode(&buf, doc); err != nil {
		return err
	}
	if _, err := s.storage.Store(ctx, &buf, artifactKey(task.ID, ArtifactResult)); err != nil {
		return fmt.Errorf("failed to store result: %w", err)
	}

	s.saveStatus(ctx, &queue.TaskStatus{
		TaskID:     task.ID,
		Status:     queue.StatusCompleted,
		Role:       doc.Result.Role,
		Progress:   1.0,
		StartedAt:  started,
		FinishedAt: time.Now(),
	})
	return nil
}

// MarkFailed records a task that will not be retried.
func (s *AnalysisService) MarkFailed(ctx context.Context, task *queue.Task, cause error) {
	s.saveStatus(ctx, &queue.TaskStatus{
		TaskID:     task.ID,
		Status:     queue.StatusFailed,
		Role:       task.Payload.Role,
		Error:      cause.Error(),
		StartedAt:  task.CreatedAt,
		FinishedAt: time.Now(),
	})
}

func (s *AnalysisService) saveStatus(ctx context.Context, status *queue.TaskStatus) {
	if s.queue == nil {
		return
	}
	if err := s.queue.SaveStatus(ctx, status); err != nil {
		s.logger.Error("Failed to save task status",
			logger.String("taskId", status.TaskID),
			logger.String("status", status.Status),
			logger.Error(err),
		)
	}
}

func (s *AnalysisService) GetTaskStatus(ctx context.Context, taskID string) (*models.AnalysisTask, error) {
	if s.queue == nil {
		return nil, ErrAsyncDisabled
	}
	status, err := s.queue.GetTaskStatus(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task status: %w", err)
	}
	return &models.AnalysisTask{
		ID:        status.TaskID,
		Status:    models.ProcessingStatus(status.Status),
		Role:      status.Role,
		Progress:  status.Progress,
		Error:     status.Error,
		Metadata:  map[string]string{},
		CreatedAt: status.StartedAt,
		UpdatedAt: status.FinishedAt,
	}, nil
}

func (s *AnalysisService) GetResult(ctx context.Context, taskID string) (*converters.AnalysisDocument, error) {
	status, err := s.GetTaskStatus(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if status.Status != models.StatusCompleted {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotCompleted, status.Status)
	}

	reader, err := s.OpenArtifact(ctx, taskID, ArtifactResult)
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	defer reader.Close()
	return converters.Decode(reader)
}

func (s *AnalysisService) CancelTask(ctx context.Context, taskID string) error {
	if s.queue == nil {
		return ErrAsyncDisabled
	}
	if err := s.queue.CancelTask(ctx, taskID); err != nil {
		return fmt.Errorf("failed to cancel task: %w", err)
	}
	s.logger.Info("Task cancelled", logger.String("taskId", taskID))
	return nil
}

// OpenArtifact opens one named artifact of an analysis. Only UUID ids and
// the known artifact names are accepted.
func (s *AnalysisService) OpenArtifact(ctx context.Context, id, name string) (io.ReadCloser, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: invalid id %q", ErrUnknownArtifact, id)
	}
	switch name {
	case ArtifactReport, ArtifactChart, ArtifactText, ArtifactResult:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownArtifact, name)
	}
	return s.storage.Get(ctx, artifactKey(id, name))
}

// CleanupArtifacts removes artifacts and uploads older than the retention period.
func (s *AnalysisService) CleanupArtifacts(ctx context.Context) error {
	threshold := time.Now().Add(-s.config.Retention)
	if err := s.storage.CleanupBefore(ctx, threshold); err != nil {
		return fmt.Errorf("failed to cleanup storage: %w", err)
	}
	s.logger.Info("Completed artifact cleanup", logger.Time("threshold", threshold))
	return nil
}

// spool copies r into a temporary file keeping filename's extension, which
// selects the text processor.
func (s *AnalysisService) spool(r io.Reader, filename string) (string, func(), error) {
	f, err := os.CreateTemp(s.config.TempDir, "resume-*"+strings.ToLower(filepath.Ext(filename)))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	cleanup := func() { os.Remove(f.Name()) }
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to spool upload: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to spool upload: %w", err)
	}
	return f.Name(), cleanup, nil
}

func artifactKey(id, name string) string {
	return path.Join(id, name)
}

// IsNotFound reports whether err means a task or artifact does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound) || errors.Is(err, queue.ErrTaskNotFound)
}
