package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/meadcraft/meadery/internal/domain/shared"
	"github.com/meadcraft/meadery/internal/ports/outbound"
	"github.com/stretchr/testify/mock"
)

// MockRecipeGenerator provides a mock implementation of RecipeGenerator
type MockRecipeGenerator struct {
	mock.Mock
}

var _ outbound.RecipeGenerator = (*MockRecipeGenerator)(nil)

// Name identifies the generator
func (m *MockRecipeGenerator) Name() string {
	return "mock"
}

// Generate returns the configured Markdown
func (m *MockRecipeGenerator) Generate(ctx context.Context, req outbound.GenerationRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// MockCacheRepository provides a mock implementation of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

var _ outbound.CacheRepository = (*MockCacheRepository)(nil)

// Get retrieves a value
func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if v := args.Get(0); v != nil {
		return v.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

// Set stores a value
func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

// Delete removes a value
func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// Exists checks for a value
func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// EventRecorder records published domain events
type EventRecorder struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

var _ outbound.EventPublisher = (*EventRecorder)(nil)

// Publish records the events
func (r *EventRecorder) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

// Names returns the names of the recorded events in publish order
func (r *EventRecorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.events))
	for _, e := range r.events {
		names = append(names, e.EventName())
	}
	return names
}
