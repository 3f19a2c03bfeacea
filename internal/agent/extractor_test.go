package agent

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfg "github.com/feichai0017/resume-analyzer/config"
	"github.com/feichai0017/resume-analyzer/internal/agent/document/image"
	"github.com/feichai0017/resume-analyzer/internal/agent/document/pdf"
	"github.com/feichai0017/resume-analyzer/internal/agent/document/text"
	"github.com/feichai0017/resume-analyzer/internal/models"
	"github.com/feichai0017/resume-analyzer/pkg/logger"
)

// pagedProcessor returns fixed chunks out of page order.
type pagedProcessor struct {
	chunks []models.TextChunk
	err    error
	closed int
}

func (p *pagedProcessor) CanProcess(string) bool { return true }

func (p *pagedProcessor) Process(_ context.Context, r io.Reader) ([]models.TextChunk, error) {
	if _, err := io.ReadAll(r); err != nil {
		return nil, err
	}
	return p.chunks, p.err
}

func (p *pagedProcessor) Close() error {
	p.closed++
	return nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtractMissingFileYieldsEmptyText(t *testing.T) {
	log := logger.NewTestLogger()
	factory := NewEmptyFactory(log)
	factory.Register("text/plain", text.NewProcessor(log))

	got, err := NewExtractor(factory, log).Extract(context.Background(), filepath.Join(t.TempDir(), "resume.png"))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.True(t, log.HasMessage("WARN", "Resume file not found"))
}

func TestExtractPlainText(t *testing.T) {
	log := logger.NewTestLogger()
	factory := NewEmptyFactory(log)
	factory.Register("text/plain", text.NewProcessor(log))

	path := writeFile(t, "resume.txt", "\ufeffPython and SQL\n5 years experience")
	got, err := NewExtractor(factory, log).Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Python and SQL\n5 years experience", got)
}

func TestExtractJoinsChunksInPageOrder(t *testing.T) {
	log := logger.NewNop()
	factory := NewEmptyFactory(log)
	factory.Register("application/pdf", &pagedProcessor{chunks: []models.TextChunk{
		{Content: "third", Page: 3},
		{Content: "first", Page: 1},
		{Content: "second", Page: 2},
	}})

	got, err := NewExtractor(factory, log).Extract(context.Background(), writeFile(t, "cv.PDF", "%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\nthird", got)
}

func TestExtractErrors(t *testing.T) {
	log := logger.NewNop()
	boom := errors.New("engine crashed")
	factory := NewEmptyFactory(log)
	factory.Register("image/png", &pagedProcessor{err: boom})
	e := NewExtractor(factory, log)

	_, err := e.Extract(context.Background(), writeFile(t, "resume.docx", "x"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = e.Extract(context.Background(), writeFile(t, "resume.jpg", "x"))
	assert.ErrorIs(t, err, ErrUnsupportedType, "no processor registered for jpeg")

	_, err = e.Extract(context.Background(), writeFile(t, "resume.png", "x"))
	assert.ErrorIs(t, err, boom)
}

func TestMimeType(t *testing.T) {
	tests := map[string]string{
		".png":  "image/png",
		"JPG":   "image/jpeg",
		".jpeg": "image/jpeg",
		".TIF":  "image/tiff",
		".tiff": "image/tiff",
		"pdf":   "application/pdf",
		".txt":  "text/plain",
	}
	for ext, want := range tests {
		got, ok := MimeType(ext)
		assert.True(t, ok, ext)
		assert.Equal(t, want, got, ext)
	}
	_, ok := MimeType(".docx")
	assert.False(t, ok)

	for _, ext := range SupportedExtensions() {
		_, ok := MimeType(ext)
		assert.True(t, ok, ext)
	}
}

func TestNewProcessorFactoryTesseract(t *testing.T) {
	factory, err := NewProcessorFactory(context.Background(), logger.NewNop(), &cfg.OCRConfig{
		Engine:        cfg.EngineTesseract,
		Languages:     []string{"eng"},
		PageSegMode:   3,
		MinConfidence: 60,
	})
	require.NoError(t, err)
	defer factory.Close()

	p, err := factory.GetProcessor(".png")
	require.NoError(t, err)
	assert.IsType(t, &image.Processor{}, p)

	p, err = factory.GetProcessor(".tif")
	require.NoError(t, err)
	assert.IsType(t, &image.Processor{}, p)

	p, err = factory.GetProcessor(".pdf")
	require.NoError(t, err)
	assert.IsType(t, &pdf.Processor{}, p)

	p, err = factory.GetProcessor(".txt")
	require.NoError(t, err)
	assert.IsType(t, &text.Processor{}, p)
}

func TestNewProcessorFactoryTextract(t *testing.T) {
	factory, err := NewProcessorFactory(context.Background(), logger.NewNop(), &cfg.OCRConfig{
		Engine: cfg.EngineTextract,
		Textract: cfg.TextractConfig{
			Region:        "us-east-1",
			AccessKey:     "test",
			SecretKey:     "test",
			MinConfidence: 80,
		},
	})
	require.NoError(t, err)

	p, err := factory.GetProcessor(".jpg")
	require.NoError(t, err)
	assert.IsType(t, &image.TextractProcessor{}, p)
}

func TestNewProcessorFactoryRejectsUnknownEngine(t *testing.T) {
	_, err := NewProcessorFactory(context.Background(), logger.NewNop(), &cfg.OCRConfig{Engine: "easyocr"})
	assert.Error(t, err)
}

func TestFactoryCloseClosesSharedProcessorOnce(t *testing.T) {
	p := &pagedProcessor{}
	factory := NewEmptyFactory(logger.NewNop())
	factory.Register("image/png", p)
	factory.Register("image/jpeg", p)

	require.NoError(t, factory.Close())
	assert.Equal(t, 1, p.closed)
}
