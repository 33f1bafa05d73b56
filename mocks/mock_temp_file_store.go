package mocks

import (
	"io"

	"github.com/stretchr/testify/mock"
)

// MockTempFileStore is a mock implementation of port.TempFileStore.
type MockTempFileStore struct {
	mock.Mock
}

func (m *MockTempFileStore) Save(r io.Reader, ext string) (string, error) {
	args := m.Called(r, ext)
	return args.String(0), args.Error(1)
}

func (m *MockTempFileStore) Read(path string) ([]byte, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockTempFileStore) Delete(path string) error {
	args := m.Called(path)
	return args.Error(0)
}
