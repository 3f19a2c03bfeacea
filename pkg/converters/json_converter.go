package converters

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/feichai0017/resume-analyzer/internal/models"
)

// AnalysisDocument is the persisted JSON form of a finished analysis.
type AnalysisDocument struct {
	TaskID      string                `json:"taskId"`
	Status      string                `json:"status"`
	Result      models.AnalysisResult `json:"result"`
	Verdict     string                `json:"verdict"`
	Report      string                `json:"report"`
	Artifacts   map[string]string     `json:"artifacts"`
	Metadata    DocumentMetadata      `json:"metadata"`
	ProcessedAt time.Time             `json:"processedAt"`
}

type DocumentMetadata struct {
	FileName     string  `json:"fileName"`
	FileType     string  `json:"fileType"`
	Pages        int     `json:"pages,omitempty"`
	Characters   int     `json:"characters"`
	Confidence   float64 `json:"confidence,omitempty"`
	ProcessingMs int64   `json:"processingMs"`
}

// Input gathers what the converter needs from one analysis run.
type Input struct {
	TaskID    string
	Result    models.AnalysisResult
	Verdict   string
	Report    string
	Artifacts map[string]string
	FileName  string
	FileType  string
	Text      string
	Chunks    []models.TextChunk
	Elapsed   time.Duration
}

type JSONConverter struct {
	now func() time.Time
}

func NewJSONConverter() *JSONConverter {
	return &JSONConverter{now: time.Now}
}

func (c *JSONConverter) Convert(in Input) (*AnalysisDocument, error) {
	if in.TaskID == "" {
		return nil, fmt.Errorf("task id is required")
	}

	doc := &AnalysisDocument{
		TaskID:    in.TaskID,
		Status:    string(models.StatusCompleted),
		Result:    in.Result,
		Verdict:   in.Verdict,
		Report:    in.Report,
		Artifacts: in.Artifacts,
		Metadata: DocumentMetadata{
			FileName:     in.FileName,
			FileType:     in.FileType,
			Characters:   len([]rune(in.Text)),
			ProcessingMs: in.Elapsed.Milliseconds(),
		},
		ProcessedAt: c.now().UTC(),
	}
	if doc.Artifacts == nil {
		doc.Artifacts = map[string]string{}
	}

	var totalConfidence float64
	var scored int
	for _, chunk := range in.Chunks {
		if chunk.Page > doc.Metadata.Pages {
			doc.Metadata.Pages = chunk.Page
		}
		if conf, ok := chunk.Metadata["confidence"].(float64); ok {
			totalConfidence += conf
			scored++
		}
	}
	if scored > 0 {
		doc.Metadata.Confidence = totalConfidence / float64(scored)
	}
	return doc, nil
}

// Encode writes the document as indented JSON.
func Encode(w io.Writer, doc *AnalysisDocument) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

// Decode reads a document written by Encode.
func Decode(r io.Reader) (*AnalysisDocument, error) {
	var doc AnalysisDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	return &doc, nil
}
