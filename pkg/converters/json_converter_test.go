package converters

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/resume-analyzer/internal/models"
)

func TestConvert(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.FixedZone("CEST", 7200))
	c := &JSONConverter{now: func() time.Time { return fixed }}

	doc, err := c.Convert(Input{
		TaskID:   "t-1",
		Result:   models.AnalysisResult{Role: "Data Scientist", FinalScore: 74},
		Verdict:  "partial",
		Report:   "Resume Analysis Report",
		FileName: "cv.pdf",
		FileType: ".pdf",
		Text:     "héllo",
		Chunks: []models.TextChunk{
			{Page: 1, Metadata: map[string]interface{}{"confidence": 90.0}},
			{Page: 2, Metadata: map[string]interface{}{"confidence": 70.0}},
			{Page: 3, Metadata: map[string]interface{}{"source": "pdf"}},
		},
		Elapsed: 1500 * time.Millisecond,
	})
	require.NoError(t, err)

	assert.Equal(t, "completed", doc.Status)
	assert.Equal(t, 74, doc.Result.FinalScore)
	assert.Equal(t, 3, doc.Metadata.Pages)
	assert.Equal(t, 5, doc.Metadata.Characters)
	assert.InDelta(t, 80.0, doc.Metadata.Confidence, 1e-9)
	assert.Equal(t, int64(1500), doc.Metadata.ProcessingMs)
	assert.Equal(t, time.UTC, doc.ProcessedAt.Location())
	assert.NotNil(t, doc.Artifacts)
}

func TestConvertRequiresTaskID(t *testing.T) {
	_, err := NewJSONConverter().Convert(Input{})
	assert.Error(t, err)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(strings.NewReader("not json"))
	assert.Error(t, err)
}
