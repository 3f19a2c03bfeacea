// Package text handles resumes that are already plain text.
package text

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/feichai0017/resume-analyzer/internal/models"
	"github.com/feichai0017/resume-analyzer/pkg/logger"
)

type Processor struct {
	logger logger.Logger
}

func NewProcessor(log logger.Logger) *Processor {
	return &Processor{logger: log.Named("text")}
}

func (p *Processor) CanProcess(mimeType string) bool {
	return strings.HasPrefix(mimeType, "text/plain")
}

func (p *Processor) Process(ctx context.Context, r io.Reader) ([]models.TextChunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read text: %w", err)
	}
	content := strings.ToValidUTF8(string(data), "")
	content = strings.TrimPrefix(content, "\ufeff")

	return []models.TextChunk{{
		Content:  content,
		Page:     1,
		Metadata: map[string]interface{}{"source": "text"},
	}}, nil
}

func (p *Processor) Close() error {
	return nil
}
