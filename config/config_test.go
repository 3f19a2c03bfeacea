package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"OCR_ENGINE", "STORAGE_TYPE", "APP_PORT", "MAX_UPLOAD_BYTES", "ASYNC_ENABLED", "OCR_LANGUAGES"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, EngineTesseract, cfg.OCR.Engine)
	assert.Equal(t, []string{"eng"}, cfg.OCR.Languages)
	assert.Equal(t, StorageLocal, cfg.Storage.Type)
	assert.Equal(t, int64(10<<20), cfg.Analyzer.MaxUploadBytes)
	assert.Equal(t, 24*time.Hour, cfg.Analyzer.Retention)
	assert.True(t, cfg.Queue.AsyncEnabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("OCR_ENGINE", "Textract")
	t.Setenv("OCR_LANGUAGES", "eng, deu,,")
	t.Setenv("STORAGE_TYPE", "minio")
	t.Setenv("MINIO_ENDPOINT", "minio:9000")
	t.Setenv("MINIO_BUCKET_NAME", "resumes")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("ASYNC_ENABLED", "false")
	t.Setenv("TASK_TIMEOUT_SECONDS", "60")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, EngineTextract, cfg.OCR.Engine)
	assert.Equal(t, []string{"eng", "deu"}, cfg.OCR.Languages)
	assert.Equal(t, StorageMinio, cfg.Storage.Type)
	assert.Equal(t, "minio:9000", cfg.Storage.Minio.Endpoint)
	assert.True(t, cfg.Storage.Minio.UseSSL)
	assert.Equal(t, 2, cfg.Queue.RedisDB)
	assert.False(t, cfg.Queue.AsyncEnabled)
	assert.Equal(t, time.Minute, cfg.Queue.TaskTimeout)
}

func TestLoadFallsBackOnMalformedNumbers(t *testing.T) {
	t.Setenv("REDIS_DB", "two")
	t.Setenv("OCR_MIN_CONFIDENCE", "high")
	t.Setenv("ASYNC_ENABLED", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Queue.RedisDB)
	assert.Equal(t, 60.0, cfg.OCR.MinConfidence)
	assert.True(t, cfg.Queue.AsyncEnabled)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:      AppConfig{Port: "8080"},
			Analyzer: AnalyzerConfig{MaxUploadBytes: 1024},
			OCR:      OCRConfig{Engine: EngineTesseract, Languages: []string{"eng"}, PageSegMode: 3, MinConfidence: 60},
			Storage:  StorageConfig{Type: StorageLocal, LocalDir: "data"},
			Queue:    QueueConfig{RedisAddr: "localhost:6379", AsyncEnabled: true, Concurrency: 1},
		}
	}
	require.NoError(t, valid().Validate())

	tests := map[string]func(c *Config){
		"engine":      func(c *Config) { c.OCR.Engine = "easyocr" },
		"psm":         func(c *Config) { c.OCR.PageSegMode = 42 },
		"confidence":  func(c *Config) { c.OCR.MinConfidence = 120 },
		"storage":     func(c *Config) { c.Storage.Type = "ftp" },
		"s3 bucket":   func(c *Config) { c.Storage.Type = StorageS3 },
		"upload size": func(c *Config) { c.Analyzer.MaxUploadBytes = 0 },
		"concurrency": func(c *Config) { c.Queue.Concurrency = 0 },
		"languages":   func(c *Config) { c.OCR.Languages = nil },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}

	c := valid()
	c.Queue.AsyncEnabled = false
	c.Queue.Concurrency = 0
	assert.NoError(t, c.Validate())
}
