package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	cfg "github.com/feichai0017/resume-analyzer/config"
	"github.com/feichai0017/resume-analyzer/internal/agent/document"
	"github.com/feichai0017/resume-analyzer/internal/agent/document/image"
	"github.com/feichai0017/resume-analyzer/internal/agent/document/pdf"
	"github.com/feichai0017/resume-analyzer/internal/agent/document/text"
	"github.com/feichai0017/resume-analyzer/pkg/logger"
)

// ErrUnsupportedType is returned for file extensions no processor handles.
var ErrUnsupportedType = errors.New("unsupported file type")

var extToMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".pdf":  "application/pdf",
	".txt":  "text/plain",
}

// MimeType maps a file extension (with or without the dot) to its MIME type.
func MimeType(ext string) (string, bool) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	m, ok := extToMIME[ext]
	return m, ok
}

// SupportedExtensions lists the extensions the factory can map.
func SupportedExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".tif", ".tiff", ".pdf", ".txt"}
}

type ProcessorFactory struct {
	processors map[string]document.Processor
	logger     logger.Logger
}

// NewProcessorFactory wires the PDF and text processors and the image
// processor of the configured OCR engine.
func NewProcessorFactory(ctx context.Context, log logger.Logger, ocr *cfg.OCRConfig) (*ProcessorFactory, error) {
	factory := NewEmptyFactory(log)

	factory.Register("application/pdf", pdf.NewProcessor(log))
	factory.Register("text/plain", text.NewProcessor(log))

	var imageProcessor document.Processor
	switch strings.ToLower(ocr.Engine) {
	case cfg.EngineTextract:
		p, err := image.NewTextractProcessor(ctx, &image.TextractConfig{
			Region:        ocr.Textract.Region,
			Endpoint:      ocr.Textract.Endpoint,
			AccessKey:     ocr.Textract.AccessKey,
			SecretKey:     ocr.Textract.SecretKey,
			MinConfidence: float32(ocr.Textract.MinConfidence),
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create textract processor: %w", err)
		}
		imageProcessor = p
	case cfg.EngineTesseract, "":
		opts := image.DefaultProcessOptions()
		opts.Language = ocr.Languages
		opts.PageSegMode = gosseract.PageSegMode(ocr.PageSegMode)
		opts.MinConfidence = ocr.MinConfidence
		p, err := image.NewProcessor(log, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to create image processor: %w", err)
		}
		imageProcessor = p
	default:
		return nil, fmt.Errorf("unknown OCR engine %q", ocr.Engine)
	}

	for _, mimeType := range []string{"image/jpeg", "image/png", "image/tiff"} {
		factory.Register(mimeType, imageProcessor)
	}

	log.Info("Processor factory ready", logger.String("ocrEngine", ocr.Engine))
	return factory, nil
}

// NewEmptyFactory returns a factory with no processors registered.
func NewEmptyFactory(log logger.Logger) *ProcessorFactory {
	return &ProcessorFactory{
		processors: make(map[string]document.Processor),
		logger:     log,
	}
}

func (f *ProcessorFactory) Register(mimeType string, p document.Processor) {
	f.processors[mimeType] = p
}

// GetProcessor returns the processor for a file extension such as ".pdf".
func (f *ProcessorFactory) GetProcessor(fileType string) (document.Processor, error) {
	mimeType, ok := MimeType(fileType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, fileType)
	}

	processor, ok := f.processors[mimeType]
	if !ok || !processor.CanProcess(mimeType) {
		return nil, fmt.Errorf("%w: no processor for mime type %s", ErrUnsupportedType, mimeType)
	}

	f.logger.Debug("Processor selected",
		logger.String("fileType", fileType),
		logger.String("mimeType", mimeType),
	)
	return processor, nil
}

// Close closes every distinct registered processor.
func (f *ProcessorFactory) Close() error {
	seen := make(map[document.Processor]bool)
	var errs []error
	for _, p := range f.processors {
		if seen[p] {
			continue
		}
		seen[p] = true
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
