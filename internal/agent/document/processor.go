package document

import (
	"context"
	"io"

	"github.com/feichai0017/resume-analyzer/internal/models"
)

// Processor turns one input document into text chunks.
type Processor interface {
	// CanProcess reports whether the processor handles the MIME type.
	CanProcess(mimeType string) bool

	// Process extracts the text of the document, one chunk per page or OCR pass.
	Process(ctx context.Context, reader io.Reader) ([]models.TextChunk, error)

	// Close releases engine resources.
	Close() error
}
