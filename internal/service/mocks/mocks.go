package mocks

import (
	"context"
	"errors"
	"sync"

	"github.com/avklimov/url-shortener/internal/models"
	"github.com/avklimov/url-shortener/internal/repository"
)

// ErrSaveFailed возвращается MockStorage при включённом FailSave
var ErrSaveFailed = errors.New("save failed")

// MockStorage implements repository.Storage for testing
type MockStorage struct {
	mu       sync.RWMutex
	data     map[string][]byte
	FailSave bool // имитация сбоя записи в хранилище
}

func NewMockStorage() *MockStorage {
	return &MockStorage{
		data: make(map[string][]byte),
	}
}

func (m *MockStorage) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, exists := m.data[key]
	if !exists {
		return nil, repository.ErrKeyNotFound
	}
	return data, nil
}

func (m *MockStorage) Save(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailSave {
		return ErrSaveFailed
	}
	m.data[key] = data
	return nil
}

func (m *MockStorage) Close() error {
	return nil
}

// Seed кладёт значение напрямую, минуя Save (и FailSave)
func (m *MockStorage) Seed(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
}

// Get возвращает сохранённое значение для проверок в тестах
func (m *MockStorage) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, exists := m.data[key]
	return data, exists
}

// MockLocator implements geo.Locator for testing
type MockLocator struct {
	Location models.Location
	Err      error
	Calls    int
}

func (m *MockLocator) FetchLocation(ctx context.Context) (models.Location, error) {
	m.Calls++
	if m.Err != nil {
		return models.Location{}, m.Err
	}
	return m.Location, nil
}
