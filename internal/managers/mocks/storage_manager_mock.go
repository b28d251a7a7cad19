package mocks

import (
	"mime/multipart"

	"github.com/stretchr/testify/mock"

	"lovelog/internal/managers"
)

type MockStorageManager struct {
	mock.Mock
}

func (m *MockStorageManager) SaveUpload(fileHeader *multipart.FileHeader) (*managers.StoredFile, error) {
	args := m.Called(fileHeader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*managers.StoredFile), args.Error(1)
}

func (m *MockStorageManager) GenerateThumbnail(filename string) error {
	args := m.Called(filename)
	return args.Error(0)
}

func (m *MockStorageManager) RemoveFile(path string) {
	m.Called(path)
}

func (m *MockStorageManager) RemoveThumbnail(filename string) {
	m.Called(filename)
}

func (m *MockStorageManager) UploadDir() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockStorageManager) MaxUploadSize() int64 {
	args := m.Called()
	return args.Get(0).(int64)
}
