// Package tesseract implements the OCR engine port on top of the gosseract
// client.
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"samarth/internal/domain"
	"samarth/internal/port"
)

type engine struct {
	clientFactory func() *gosseract.Client
}

// NewEngine constructs a Tesseract-backed OCR engine.
func NewEngine() port.OCREngine {
	return &engine{clientFactory: gosseract.NewClient}
}

// Recognize runs Tesseract over the image and reports the recognized text
// with a 0-100 confidence averaged over word-level boxes.
func (e *engine) Recognize(ctx context.Context, image []byte, language string) (domain.OCRResult, error) {
	select {
	case <-ctx.Done():
		return domain.OCRResult{}, ctx.Err()
	default:
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(image); err != nil {
		return domain.OCRResult{}, fmt.Errorf("set image: %w", err)
	}
	if language != "" {
		if err := c.SetLanguage(language); err != nil {
			return domain.OCRResult{}, fmt.Errorf("set language: %w", err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return domain.OCRResult{}, fmt.Errorf("recognize text: %w", err)
	}

	return domain.OCRResult{
		Text:       strings.TrimSpace(text),
		Confidence: wordConfidence(c),
	}, nil
}

// wordConfidence averages Tesseract's per-word confidences (already on a
// 0-100 scale). No boxes means no recognizable words: zero confidence.
func wordConfidence(c *gosseract.Client) float64 {
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence
	}
	return sum / float64(len(boxes))
}
