package validator

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/tiff"

	"github.com/feichai0017/resume-analyzer/pkg/logger"
)

// ErrInvalidUpload wraps every validation failure.
var ErrInvalidUpload = errors.New("invalid upload")

type DocumentValidator struct {
	logger logger.Logger
	config *ValidatorConfig
}

type ValidatorConfig struct {
	MaxFileSize  int64
	AllowedTypes map[string][]string // extension -> accepted sniffed MIME types
	MinDimension int                 // smallest accepted image side, in pixels
}

type ValidationResult struct {
	IsValid  bool              `json:"isValid"`
	Errors   []ValidationError `json:"errors,omitempty"`
	FileInfo FileInfo          `json:"fileInfo"`
}

type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type FileInfo struct {
	Filename  string `json:"filename"`
	Size      int64  `json:"size"`
	MimeType  string `json:"mimeType"`
	Extension string `json:"extension"`
	Hash      string `json:"hash"`
}

// Err returns nil for a valid result, else ErrInvalidUpload with the
// collected messages.
func (r *ValidationResult) Err() error {
	if r.IsValid {
		return nil
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return fmt.Errorf("%w: %s", ErrInvalidUpload, strings.Join(msgs, "; "))
}

func (r *ValidationResult) add(code, field, format string, args ...interface{}) {
	r.IsValid = false
	r.Errors = append(r.Errors, ValidationError{Code: code, Field: field, Message: fmt.Sprintf(format, args...)})
}

// DefaultConfig accepts resume scans, PDFs and plain text up to maxSize bytes.
func DefaultConfig(maxSize int64) *ValidatorConfig {
	return &ValidatorConfig{
		MaxFileSize: maxSize,
		AllowedTypes: map[string][]string{
			".pdf":  {"application/pdf"},
			".jpg":  {"image/jpeg"},
			".jpeg": {"image/jpeg"},
			".png":  {"image/png"},
			".tif":  {"image/tiff"},
			".tiff": {"image/tiff"},
			".txt":  {"text/plain"},
		},
		MinDimension: 50,
	}
}

func NewDocumentValidator(log logger.Logger, config *ValidatorConfig) *DocumentValidator {
	if config == nil {
		config = DefaultConfig(10 << 20)
	}
	return &DocumentValidator{logger: log, config: config}
}

// ValidateFile checks an uploaded multipart file.
func (v *DocumentValidator) ValidateFile(file *multipart.FileHeader) (*ValidationResult, error) {
	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return v.Validate(file.Filename, file.Size, f)
}

// Validate checks size, extension, sniffed content type and, for images,
// pixel dimensions. It reads r from the start and leaves it rewound.
func (v *DocumentValidator) Validate(filename string, size int64, r io.ReadSeeker) (*ValidationResult, error) {
	result := &ValidationResult{
		IsValid: true,
		FileInfo: FileInfo{
			Filename:  filename,
			Size:      size,
			Extension: strings.ToLower(filepath.Ext(filename)),
		},
	}

	hash := sha256.New()
	if _, err := io.Copy(hash, r); err != nil {
		return nil, fmt.Errorf("failed to calculate hash: %w", err)
	}
	result.FileInfo.Hash = hex.EncodeToString(hash.Sum(nil))
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to reset file pointer: %w", err)
	}

	if size <= 0 {
		result.add("EMPTY_FILE", "size", "File is empty")
	}
	if size > v.config.MaxFileSize {
		result.add("FILE_TOO_LARGE", "size", "File size exceeds maximum limit of %d bytes", v.config.MaxFileSize)
	}

	allowed, ok := v.config.AllowedTypes[result.FileInfo.Extension]
	if !ok {
		result.add("INVALID_FILE_TYPE", "extension", "File type %q is not allowed", result.FileInfo.Extension)
	}

	detected, err := mimetype.DetectReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to detect mime type: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to reset file pointer: %w", err)
	}
	result.FileInfo.MimeType = detected.String()

	if ok && size > 0 && !matches(detected, allowed) {
		result.add("INVALID_MIME_TYPE", "mimeType", "Content %s does not match extension %s", detected.String(), result.FileInfo.Extension)
	}

	if result.IsValid && strings.HasPrefix(allowed[0], "image/") {
		v.validateImage(r, result)
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("failed to reset file pointer: %w", err)
		}
	}

	if !result.IsValid {
		v.logger.Warn("Upload rejected",
			logger.String("filename", filename),
			logger.Any("errors", result.Errors),
		)
	}
	return result, nil
}

// matches walks the detected type and its parents, so e.g. an ASCII file
// still satisfies "text/plain".
func matches(detected *mimetype.MIME, allowed []string) bool {
	for m := detected; m != nil; m = m.Parent() {
		for _, want := range allowed {
			if m.Is(want) {
				return true
			}
		}
	}
	return false
}

func (v *DocumentValidator) validateImage(r io.Reader, result *ValidationResult) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		result.add("CORRUPT_IMAGE", "content", "Image cannot be decoded: %v", err)
		return
	}
	if cfg.Width < v.config.MinDimension || cfg.Height < v.config.MinDimension {
		result.add("IMAGE_TOO_SMALL", "dimensions", "Image %dx%d is smaller than %dpx", cfg.Width, cfg.Height, v.config.MinDimension)
	}
}
