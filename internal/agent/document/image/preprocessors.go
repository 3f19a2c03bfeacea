package image

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ImagePreprocessor is one step of the pipeline run before OCR.
type ImagePreprocessor interface {
	Process(img image.Image) (image.Image, error)
}

// GrayscaleProcessor drops color information.
type GrayscaleProcessor struct{}

func NewGrayscaleProcessor() *GrayscaleProcessor {
	return &GrayscaleProcessor{}
}

func (p *GrayscaleProcessor) Process(img image.Image) (image.Image, error) {
	return imaging.Grayscale(img), nil
}

// ContrastProcessor adjusts contrast by a percentage in [-100,100].
type ContrastProcessor struct {
	amount float64
}

func NewContrastProcessor(amount float64) *ContrastProcessor {
	return &ContrastProcessor{amount: amount}
}

func (p *ContrastProcessor) Process(img image.Image) (image.Image, error) {
	return imaging.AdjustContrast(img, p.amount), nil
}

// SharpenProcessor applies an unsharp mask of the given sigma.
type SharpenProcessor struct {
	strength float64
}

func NewSharpenProcessor(strength float64) *SharpenProcessor {
	return &SharpenProcessor{strength: strength}
}

func (p *SharpenProcessor) Process(img image.Image) (image.Image, error) {
	return imaging.Sharpen(img, p.strength), nil
}

// UpscaleProcessor enlarges small scans, which Tesseract reads poorly.
type UpscaleProcessor struct {
	minWidth int
}

func NewUpscaleProcessor(minWidth int) *UpscaleProcessor {
	return &UpscaleProcessor{minWidth: minWidth}
}

func (p *UpscaleProcessor) Process(img image.Image) (image.Image, error) {
	if w := img.Bounds().Dx(); w > 0 && w < p.minWidth {
		return imaging.Resize(img, p.minWidth, 0, imaging.Lanczos), nil
	}
	return img, nil
}

// DefaultPipeline optionally upscales, then runs grayscale, contrast and sharpen.
func DefaultPipeline(cfg *PreprocessConfig) []ImagePreprocessor {
	steps := []ImagePreprocessor{}
	if cfg.MinWidth > 0 {
		steps = append(steps, NewUpscaleProcessor(cfg.MinWidth))
	}
	steps = append(steps,
		NewGrayscaleProcessor(),
		NewContrastProcessor(cfg.Contrast),
		NewSharpenProcessor(cfg.SharpenStrength),
	)
	return steps
}

func applyPreprocessing(img image.Image, steps []ImagePreprocessor) (image.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}
	result := img
	for _, step := range steps {
		var err error
		result, err = step.Process(result)
		if err != nil {
			return nil, fmt.Errorf("preprocessing failed: %w", err)
		}
		if result == nil {
			return nil, fmt.Errorf("preprocessor returned nil image")
		}
	}
	return result, nil
}
