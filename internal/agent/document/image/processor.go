package image

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
	_ "golang.org/x/image/tiff"

	"github.com/feichai0017/resume-analyzer/internal/models"
	"github.com/feichai0017/resume-analyzer/pkg/logger"
)

// Processor recognizes text in resume scans with Tesseract.
type Processor struct {
	logger        logger.Logger
	preprocessors []ImagePreprocessor
	config        *ProcessOptions
	clientFactory func() *gosseract.Client
}

type ProcessOptions struct {
	Language    []string
	PageSegMode gosseract.PageSegMode
	// MinConfidence splits word boxes into trusted and low-confidence counts.
	// It never removes text from the result.
	MinConfidence    float64
	PreprocessConfig *PreprocessConfig
}

type PreprocessConfig struct {
	MinWidth        int
	Contrast        float64
	SharpenStrength float64
}

// DefaultProcessOptions reads English text with automatic page segmentation.
func DefaultProcessOptions() *ProcessOptions {
	return &ProcessOptions{
		Language:      []string{"eng"},
		PageSegMode:   gosseract.PSM_AUTO,
		MinConfidence: 60,
		PreprocessConfig: &PreprocessConfig{
			MinWidth:        1000,
			Contrast:        20,
			SharpenStrength: 0.5,
		},
	}
}

func NewProcessor(log logger.Logger, opts *ProcessOptions) (*Processor, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if opts == nil {
		opts = DefaultProcessOptions()
	}
	if len(opts.Language) == 0 {
		opts.Language = []string{"eng"}
	}
	if opts.PreprocessConfig == nil {
		opts.PreprocessConfig = DefaultProcessOptions().PreprocessConfig
	}

	return &Processor{
		logger:        log.Named("tesseract"),
		preprocessors: DefaultPipeline(opts.PreprocessConfig),
		config:        opts,
		clientFactory: gosseract.NewClient,
	}, nil
}

func (p *Processor) CanProcess(mimeType string) bool {
	switch strings.ToLower(mimeType) {
	case "image/jpeg", "image/jpg", "image/png", "image/tiff":
		return true
	default:
		return false
	}
}

func (p *Processor) Process(ctx context.Context, file io.Reader) ([]models.TextChunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	imageData, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	processed, err := p.Preprocess(img)
	if err != nil {
		return nil, err
	}

	// a fresh client per call keeps Process safe for concurrent use
	client := p.clientFactory()
	defer client.Close()

	text, stats, err := p.recognize(client, processed)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("Image recognized",
		logger.String("format", format),
		logger.Int("words", stats.words),
		logger.Int("lowConfidenceWords", stats.lowConfidence),
		logger.Float64("confidence", stats.avgConfidence),
	)

	return []models.TextChunk{{
		Content: text,
		Page:    1,
		Metadata: map[string]interface{}{
			"source":             "tesseract",
			"format":             format,
			"confidence":         stats.avgConfidence,
			"words":              stats.words,
			"lowConfidenceWords": stats.lowConfidence,
		},
	}}, nil
}

// Preprocess runs the image through the preprocessing pipeline.
func (p *Processor) Preprocess(img image.Image) (image.Image, error) {
	out, err := applyPreprocessing(img, p.preprocessors)
	if err != nil {
		p.logger.Error("Preprocessing failed", logger.Error(err))
		return nil, err
	}
	return out, nil
}

type ocrStats struct {
	words         int
	lowConfidence int
	avgConfidence float64
}

func (p *Processor) recognize(client *gosseract.Client, img image.Image) (string, ocrStats, error) {
	if err := client.SetLanguage(p.config.Language...); err != nil {
		return "", ocrStats{}, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(p.config.PageSegMode); err != nil {
		return "", ocrStats{}, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.PNG); err != nil {
		return "", ocrStats{}, fmt.Errorf("failed to encode image: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", ocrStats{}, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", ocrStats{}, fmt.Errorf("failed to get text: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		p.logger.Warn("Failed to get bounding boxes", logger.Error(err))
		return text, ocrStats{}, nil
	}
	return text, p.confidenceStats(boxes), nil
}

func (p *Processor) confidenceStats(boxes []gosseract.BoundingBox) ocrStats {
	var stats ocrStats
	var total float64
	for _, box := range boxes {
		stats.words++
		total += box.Confidence
		if box.Confidence < p.config.MinConfidence {
			stats.lowConfidence++
		}
	}
	if stats.words > 0 {
		stats.avgConfidence = total / float64(stats.words)
	}
	return stats
}

func (p *Processor) Close() error {
	return nil
}
