package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Storage backends selectable through STORAGE_TYPE.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
	StorageMinio = "minio"
)

type AppConfig struct {
	Port        string
	LogLevel    string
	LogEncoding string
	LogFile     string
}

type AnalyzerConfig struct {
	ProfilesPath   string
	DefaultRole    string
	OutputDir      string
	MaxUploadBytes int64
	// Retention is how long artifacts are kept before cleanup.
	Retention time.Duration
}

type StorageConfig struct {
	Type     string
	LocalDir string
	Minio    MinioConfig
	S3       S3Config
}

type QueueConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	AsyncEnabled  bool
	Concurrency   int
	MaxRetry      int
	TaskTimeout   time.Duration
	StatusTTL     time.Duration
}

type Config struct {
	App      AppConfig
	Analyzer AnalyzerConfig
	OCR      OCRConfig
	Storage  StorageConfig
	Queue    QueueConfig
}

// Load reads the full configuration from the environment.
func Load() (*Config, error) {
	loadEnv()

	cfg := &Config{
		App: AppConfig{
			Port:        getEnv("APP_PORT", "8080"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogEncoding: getEnv("LOG_ENCODING", "json"),
			LogFile:     getEnv("LOG_FILE", "logs/analyzer.log"),
		},
		Analyzer: AnalyzerConfig{
			ProfilesPath:   getEnv("ANALYZER_PROFILES", ""),
			DefaultRole:    getEnv("ANALYZER_DEFAULT_ROLE", ""),
			OutputDir:      getEnv("ANALYZER_OUTPUT_DIR", "output"),
			MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 10<<20),
			Retention:      time.Duration(getEnvInt("ARTIFACT_RETENTION_HOURS", 24)) * time.Hour,
		},
		OCR: *newOCRConfig(),
		Storage: StorageConfig{
			Type:     strings.ToLower(getEnv("STORAGE_TYPE", StorageLocal)),
			LocalDir: getEnv("STORAGE_LOCAL_DIR", "data/artifacts"),
			Minio:    *newMinioConfig(),
			S3:       *newS3Config(),
		},
		Queue: QueueConfig{
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
			AsyncEnabled:  getEnvBool("ASYNC_ENABLED", true),
			Concurrency:   getEnvInt("WORKER_CONCURRENCY", 4),
			MaxRetry:      getEnvInt("TASK_MAX_RETRY", 3),
			TaskTimeout:   time.Duration(getEnvInt("TASK_TIMEOUT_SECONDS", 300)) * time.Second,
			StatusTTL:     time.Duration(getEnvInt("TASK_STATUS_TTL_HOURS", 24)) * time.Hour,
		},
	}
	cfg.OCR.Engine = strings.ToLower(cfg.OCR.Engine)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.App.Port == "" {
		errs = append(errs, errors.New("APP_PORT is required"))
	}
	switch c.OCR.Engine {
	case EngineTesseract:
		if len(c.OCR.Languages) == 0 {
			errs = append(errs, errors.New("OCR_LANGUAGES must name at least one language"))
		}
		if c.OCR.PageSegMode < 0 || c.OCR.PageSegMode > 13 {
			errs = append(errs, fmt.Errorf("OCR_PSM must be within [0,13], got %d", c.OCR.PageSegMode))
		}
	case EngineTextract:
		if c.OCR.Textract.Region == "" {
			errs = append(errs, errors.New("AWS_REGION is required for textract"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported OCR_ENGINE %q", c.OCR.Engine))
	}
	if c.OCR.MinConfidence < 0 || c.OCR.MinConfidence > 100 {
		errs = append(errs, fmt.Errorf("OCR_MIN_CONFIDENCE must be within [0,100], got %g", c.OCR.MinConfidence))
	}

	switch c.Storage.Type {
	case StorageLocal:
		if c.Storage.LocalDir == "" {
			errs = append(errs, errors.New("STORAGE_LOCAL_DIR is required for local storage"))
		}
	case StorageS3:
		if c.Storage.S3.BucketName == "" {
			errs = append(errs, errors.New("AWS_S3_BUCKET_NAME is required for s3 storage"))
		}
	case StorageMinio:
		if c.Storage.Minio.Endpoint == "" || c.Storage.Minio.BucketName == "" {
			errs = append(errs, errors.New("MINIO_ENDPOINT and MINIO_BUCKET_NAME are required for minio storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported STORAGE_TYPE %q", c.Storage.Type))
	}

	if c.Analyzer.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}
	if c.Queue.AsyncEnabled {
		if c.Queue.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required when async processing is enabled"))
		}
		if c.Queue.Concurrency <= 0 {
			errs = append(errs, errors.New("WORKER_CONCURRENCY must be positive"))
		}
	}

	return errors.Join(errs...)
}
