package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"samarth/internal/domain"
)

// MockOCREngine is a mock implementation of port.OCREngine.
type MockOCREngine struct {
	mock.Mock
}

func (m *MockOCREngine) Recognize(ctx context.Context, image []byte, language string) (domain.OCRResult, error) {
	args := m.Called(ctx, image, language)
	return args.Get(0).(domain.OCRResult), args.Error(1)
}
