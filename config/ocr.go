package config

import "sync"

// OCR engines selectable through OCR_ENGINE.
const (
	EngineTesseract = "tesseract"
	EngineTextract  = "textract"
)

var (
	ocrOnce   sync.Once
	ocrConfig *OCRConfig
)

type OCRConfig struct {
	Engine    string
	Languages []string
	// PageSegMode is the Tesseract page segmentation mode (3 = fully automatic).
	PageSegMode   int
	MinConfidence float64
	Textract      TextractConfig
}

type TextractConfig struct {
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	MinConfidence float64
}

func newOCRConfig() *OCRConfig {
	return &OCRConfig{
		Engine:        getEnv("OCR_ENGINE", EngineTesseract),
		Languages:     getEnvList("OCR_LANGUAGES", []string{"eng"}),
		PageSegMode:   getEnvInt("OCR_PSM", 3),
		MinConfidence: getEnvFloat("OCR_MIN_CONFIDENCE", 60),
		Textract: TextractConfig{
			Region:        getEnv("AWS_REGION", "us-east-1"),
			Endpoint:      getEnv("AWS_ENDPOINT", ""),
			AccessKey:     getEnv("AWS_ACCESS_KEY", ""),
			SecretKey:     getEnv("AWS_SECRET_KEY", ""),
			MinConfidence: getEnvFloat("TEXTRACT_MIN_CONFIDENCE", 80),
		},
	}
}

func GetOCRConfig() *OCRConfig {
	ocrOnce.Do(func() {
		loadEnv()
		ocrConfig = newOCRConfig()
	})
	return ocrConfig
}
