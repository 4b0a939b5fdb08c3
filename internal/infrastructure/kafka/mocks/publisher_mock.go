package mocks

import (
	"context"
	"sync"
)

// MockPublisher records published events
type MockPublisher struct {
	mu          sync.Mutex
	Published   []PublishCall
	PublishErr  error
	CloseCalled bool
	// Block makes Publish wait for its context, like a writer stuck on an
	// unreachable broker
	Block bool
}

// PublishCall records parameters passed to Publish
type PublishCall struct {
	Key   string
	Event any
}

// NewMockPublisher creates a new MockPublisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Publish records the event
func (m *MockPublisher) Publish(ctx context.Context, key string, event any) error {
	m.mu.Lock()
	m.Published = append(m.Published, PublishCall{Key: key, Event: event})
	block, err := m.Block, m.PublishErr
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

// Close marks the publisher closed
func (m *MockPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
	return nil
}

// Calls returns a copy of the recorded calls
func (m *MockPublisher) Calls() []PublishCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PublishCall(nil), m.Published...)
}
