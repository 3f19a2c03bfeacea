package image

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"github.com/feichai0017/resume-analyzer/internal/models"
	"github.com/feichai0017/resume-analyzer/pkg/logger"
)

// textractAPI is the subset of the Textract client the processor calls.
type textractAPI interface {
	DetectDocumentText(ctx context.Context, params *textract.DetectDocumentTextInput, optFns ...func(*textract.Options)) (*textract.DetectDocumentTextOutput, error)
}

type TextractProcessor struct {
	client textractAPI
	logger logger.Logger
	config *TextractConfig
}

type TextractConfig struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	// LINE blocks below this confidence are dropped.
	MinConfidence float32
}

func NewTextractProcessor(ctx context.Context, cfg *TextractConfig, log logger.Logger) (*TextractProcessor, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	client := textract.NewFromConfig(awsCfg, func(o *textract.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newTextractProcessor(client, cfg, log), nil
}

func newTextractProcessor(client textractAPI, cfg *TextractConfig, log logger.Logger) *TextractProcessor {
	return &TextractProcessor{
		client: client,
		logger: log.Named("textract"),
		config: cfg,
	}
}

func (p *TextractProcessor) CanProcess(mimeType string) bool {
	switch strings.ToLower(mimeType) {
	case "image/jpeg", "image/jpg", "image/png", "image/tiff":
		return true
	default:
		return false
	}
}

func (p *TextractProcessor) Process(ctx context.Context, reader io.Reader) ([]models.TextChunk, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	result, err := p.client.DetectDocumentText(ctx, &textract.DetectDocumentTextInput{
		Document: &types.Document{Bytes: data},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to detect document text: %w", err)
	}

	lines, dropped := p.lines(result.Blocks)
	p.logger.Debug("Document text detected",
		logger.Int("lines", len(lines)),
		logger.Int("droppedLines", dropped),
	)
	if len(lines) == 0 {
		return nil, nil
	}

	return []models.TextChunk{{
		Content: strings.Join(lines, "\n"),
		Page:    1,
		Metadata: map[string]interface{}{
			"source":       "textract",
			"lines":        len(lines),
			"droppedLines": dropped,
		},
	}}, nil
}

// lines keeps LINE blocks at or above the configured confidence, in
// document order.
func (p *TextractProcessor) lines(blocks []types.Block) ([]string, int) {
	var out []string
	dropped := 0
	for _, block := range blocks {
		if block.BlockType != types.BlockTypeLine || block.Text == nil {
			continue
		}
		if block.Confidence != nil && *block.Confidence < p.config.MinConfidence {
			dropped++
			continue
		}
		out = append(out, *block.Text)
	}
	return out, dropped
}

func (p *TextractProcessor) Close() error {
	return nil
}
