package validator

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/resume-analyzer/pkg/logger"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func validate(t *testing.T, v *DocumentValidator, name string, data []byte) *ValidationResult {
	t.Helper()
	res, err := v.Validate(name, int64(len(data)), bytes.NewReader(data))
	require.NoError(t, err)
	return res
}

func codes(r *ValidationResult) []string {
	out := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		out[i] = e.Code
	}
	return out
}

func TestValidateAcceptsSupportedFiles(t *testing.T) {
	v := NewDocumentValidator(logger.NewNop(), nil)

	res := validate(t, v, "resume.png", pngBytes(t, 200, 300))
	assert.True(t, res.IsValid, codes(res))
	assert.NoError(t, res.Err())
	assert.Equal(t, "image/png", res.FileInfo.MimeType)
	assert.Len(t, res.FileInfo.Hash, 64)

	res = validate(t, v, "resume.TXT", []byte("Python, SQL\n5 years experience"))
	assert.True(t, res.IsValid, codes(res))

	res = validate(t, v, "resume.pdf", []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n%%EOF\n"))
	assert.True(t, res.IsValid, codes(res))
}

func TestValidateRejections(t *testing.T) {
	v := NewDocumentValidator(logger.NewNop(), DefaultConfig(1024))

	tests := []struct {
		name string
		file string
		data []byte
		code string
	}{
		{"extension", "resume.docx", []byte("PK\x03\x04"), "INVALID_FILE_TYPE"},
		{"empty", "resume.txt", nil, "EMPTY_FILE"},
		{"too large", "resume.txt", []byte(strings.Repeat("a", 2048)), "FILE_TOO_LARGE"},
		{"disguised", "resume.png", []byte("%PDF-1.4\n%%EOF\n"), "INVALID_MIME_TYPE"},
		{"tiny image", "resume.png", pngBytes(t, 10, 10), "IMAGE_TOO_SMALL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := validate(t, v, tt.file, tt.data)
			assert.False(t, res.IsValid)
			assert.Contains(t, codes(res), tt.code)
			assert.ErrorIs(t, res.Err(), ErrInvalidUpload)
		})
	}
}

func TestValidateRewindsReader(t *testing.T) {
	v := NewDocumentValidator(logger.NewNop(), nil)
	data := pngBytes(t, 100, 100)
	r := bytes.NewReader(data)

	_, err := v.Validate("resume.png", int64(len(data)), r)
	require.NoError(t, err)

	pos, err := r.Seek(0, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pos)
}
