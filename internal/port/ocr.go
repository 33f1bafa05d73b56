package port

import (
	"context"

	"samarth/internal/domain"
)

// OCREngine abstracts the external text recognition capability. Empty text
// and zero confidence are valid, non-exceptional outputs. Implementations
// may take non-trivial time; callers bound each call with a context timeout.
type OCREngine interface {
	Recognize(ctx context.Context, image []byte, language string) (domain.OCRResult, error)
}
