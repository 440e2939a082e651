package images

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// StoredImage is an object held by MockImageStore.
type StoredImage struct {
	Data        []byte
	ContentType string
}

// MockImageStore is an in-memory implementation of ImageStore.
type MockImageStore struct {
	BaseURL string

	objects map[string]StoredImage
	mu      sync.RWMutex
}

// NewMockImageStore creates a MockImageStore serving URLs under baseURL.
func NewMockImageStore(baseURL string) *MockImageStore {
	return &MockImageStore{
		BaseURL: baseURL,
		objects: make(map[string]StoredImage),
	}
}

// Upload reads body fully and keeps it under key.
func (s *MockImageStore) Upload(_ context.Context, key string, body io.Reader, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read image %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[key] = StoredImage{Data: data, ContentType: contentType}
	return nil
}

// URL joins BaseURL and key.
func (s *MockImageStore) URL(key string) string {
	return s.BaseURL + "/" + key
}

// Get returns the object stored under key.
func (s *MockImageStore) Get(key string) (StoredImage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	return obj, ok
}

// Len reports how many objects are stored.
func (s *MockImageStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
