package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"

	"github.com/feichai0017/resume-analyzer/internal/models"
	"github.com/feichai0017/resume-analyzer/pkg/logger"
)

const defaultMaxWorkers = 4

// Processor reads the embedded text layer of a PDF. Scanned PDFs without a
// text layer yield empty pages.
type Processor struct {
	logger     logger.Logger
	maxWorkers int
}

func NewProcessor(log logger.Logger) *Processor {
	return &Processor{
		logger:     log.Named("pdf"),
		maxWorkers: defaultMaxWorkers,
	}
}

func (p *Processor) CanProcess(mimeType string) bool {
	return mimeType == "application/pdf"
}

// Process extracts every page concurrently and returns the chunks in page
// order.
func (p *Processor) Process(ctx context.Context, file io.Reader) ([]models.TextChunk, error) {
	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf: %w", err)
	}

	numPages, err := pageCount(content)
	if err != nil {
		return nil, err
	}

	pages := make([]string, numPages)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxWorkers)

	for i := 1; i <= numPages; i++ {
		pageNum := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			text, err := pageText(content, pageNum)
			if err != nil {
				return fmt.Errorf("failed to get text from page %d: %w", pageNum, err)
			}
			pages[pageNum-1] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	chunks := make([]models.TextChunk, 0, numPages)
	for i, text := range pages {
		chunks = append(chunks, models.TextChunk{
			Content: cleanText(text),
			Page:    i + 1,
			Metadata: map[string]interface{}{
				"source":  "pdf",
				"section": fmt.Sprintf("page_%d", i+1),
			},
		})
	}

	p.logger.Debug("PDF text extracted", logger.Int("pages", numPages))
	return chunks, nil
}

func pageCount(content []byte) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return 0, fmt.Errorf("failed to open pdf: %w", err)
	}
	return reader.NumPage(), nil
}

// pageText opens its own reader: pdf.Reader is not safe for concurrent use.
func pageText(content []byte, pageNum int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed page: %v", r)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}
	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

// cleanText trims trailing whitespace from each line and drops runs of blank
// lines.
func cleanText(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func (p *Processor) Close() error {
	return nil
}
