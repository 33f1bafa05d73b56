package preprocess

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"samarth/internal/domain"
)

// Strategy identifies one enhancement applied to the source image.
type Strategy string

const (
	StrategyNormalize Strategy = "grayscale_normalize"
	StrategyContrast  Strategy = "grayscale_contrast_normalize"
	StrategyMildGain  Strategy = "grayscale_gain_normalize"
)

// Candidate is one alternate rendering of the source image. It exists only
// for the duration of a single OCR call.
type Candidate struct {
	Strategy Strategy
	Data     []byte
}

type transform struct {
	strategy Strategy
	apply    func(*image.Gray) *image.Gray
}

// Transforms run in fixed order; each is applied independently to the
// original, never chained.
var transforms = []transform{
	{StrategyNormalize, normalize},
	{StrategyContrast, func(g *image.Gray) *image.Gray { return normalize(contrast(g, 1.5)) }},
	{StrategyMildGain, func(g *image.Gray) *image.Gray { return normalize(gain(g, 1.2)) }},
}

// Variants decodes the source image and produces candidate renderings tuned
// for OCR legibility. An undecodable source fails the whole pipeline with
// domain.ErrUnreadableImage before any OCR is attempted. A single failing
// strategy is skipped; only all strategies failing is an error.
func Variants(src []byte) ([]Candidate, error) {
	img, format, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadableImage, err)
	}

	gray := toGray(img)

	candidates := make([]Candidate, 0, len(transforms))
	for _, t := range transforms {
		data, err := encodePNG(t.apply(gray))
		if err != nil {
			log.Printf("preprocess.Variants: strategy %s failed on %s image: %v", t.strategy, format, err)
			continue
		}
		candidates = append(candidates, Candidate{Strategy: t.strategy, Data: data})
	}
	if len(candidates) == 0 {
		return nil, domain.ErrNoRenderings
	}
	return candidates, nil
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	g := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g.Set(x, y, img.At(x, y))
		}
	}
	return g
}

// normalize stretches the histogram so the darkest pixel maps to 0 and the
// brightest to 255.
func normalize(g *image.Gray) *image.Gray {
	minV, maxV := uint8(255), uint8(0)
	for _, p := range g.Pix {
		if p < minV {
			minV = p
		}
		if p > maxV {
			maxV = p
		}
	}
	if maxV <= minV {
		return g
	}
	out := image.NewGray(g.Bounds())
	scale := 255.0 / float64(maxV-minV)
	for i, p := range g.Pix {
		out.Pix[i] = uint8(float64(p-minV) * scale)
	}
	return out
}

// contrast applies a linear contrast boost recentred around mid-grey.
func contrast(g *image.Gray, factor float64) *image.Gray {
	out := image.NewGray(g.Bounds())
	for i, p := range g.Pix {
		out.Pix[i] = clamp((float64(p)-128)*factor + 128)
	}
	return out
}

// gain applies a plain linear multiplier.
func gain(g *image.Gray, factor float64) *image.Gray {
	out := image.NewGray(g.Bounds())
	for i, p := range g.Pix {
		out.Pix[i] = clamp(float64(p) * factor)
	}
	return out
}

func clamp(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func encodePNG(g *image.Gray) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, g); err != nil {
		return nil, fmt.Errorf("encoding candidate: %w", err)
	}
	return buf.Bytes(), nil
}
