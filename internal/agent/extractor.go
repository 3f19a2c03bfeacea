// Package agent turns resume files into plain text.
package agent

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/feichai0017/resume-analyzer/internal/models"
	"github.com/feichai0017/resume-analyzer/pkg/logger"
)

// TextExtractor is what the analysis service needs from the extraction layer.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
	ExtractChunks(ctx context.Context, path string) ([]models.TextChunk, error)
}

type Extractor struct {
	factory *ProcessorFactory
	logger  logger.Logger
}

func NewExtractor(factory *ProcessorFactory, log logger.Logger) *Extractor {
	return &Extractor{factory: factory, logger: log.Named("extractor")}
}

// Extract returns the text of the file at path with chunks joined by "\n" in
// page order. A missing file is not an error: it yields empty text, which
// callers treat as "no text extracted".
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	chunks, err := e.ExtractChunks(ctx, path)
	if err != nil {
		return "", err
	}
	return JoinChunks(chunks), nil
}

// ExtractChunks is Extract without the final join. Chunks come back sorted by
// page; a missing file yields no chunks.
func (e *Extractor) ExtractChunks(ctx context.Context, path string) ([]models.TextChunk, error) {
	log := logger.FromContext(ctx, e.logger)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("Resume file not found", logger.String("path", path))
			return nil, nil
		}
		return nil, fmt.Errorf("open resume: %w", err)
	}
	defer f.Close()

	processor, err := e.factory.GetProcessor(filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	chunks, err := processor.Process(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", filepath.Base(path), err)
	}
	sort.SliceStable(chunks, func(i, j int) bool { return chunks[i].Page < chunks[j].Page })

	log.Info("Text extracted",
		logger.String("file", filepath.Base(path)),
		logger.Int("chunks", len(chunks)),
	)
	return chunks, nil
}

// JoinChunks concatenates chunk contents with "\n" in slice order.
func JoinChunks(chunks []models.TextChunk) string {
	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		parts = append(parts, c.Content)
	}
	return strings.Join(parts, "\n")
}
