package mocks

import (
	"context"
	"sync"
)

// MockStore is an in-memory Store that records calls and can inject errors
type MockStore struct {
	mu   sync.Mutex
	data map[string]map[string]string

	SetCalls    []SetCall
	RemoveCalls []RemoveCall

	GetErr    error
	SetErr    error
	RemoveErr error
}

// SetCall records parameters passed to SetItem
type SetCall struct {
	ProfileID string
	Key       string
	Value     string
}

// RemoveCall records parameters passed to RemoveItem
type RemoveCall struct {
	ProfileID string
	Key       string
}

// NewMockStore creates a new MockStore
func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]map[string]string),
	}
}

// GetItem returns the stored value
func (m *MockStore) GetItem(_ context.Context, profileID, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	value, ok := m.data[profileID][key]
	return value, ok, nil
}

// SetItem records and stores the value
func (m *MockStore) SetItem(_ context.Context, profileID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetCalls = append(m.SetCalls, SetCall{ProfileID: profileID, Key: key, Value: value})
	if m.SetErr != nil {
		return m.SetErr
	}
	if m.data[profileID] == nil {
		m.data[profileID] = make(map[string]string)
	}
	m.data[profileID][key] = value
	return nil
}

// RemoveItem records and deletes the value
func (m *MockStore) RemoveItem(_ context.Context, profileID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RemoveCalls = append(m.RemoveCalls, RemoveCall{ProfileID: profileID, Key: key})
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	delete(m.data[profileID], key)
	return nil
}

// SetData seeds a value without recording a call
func (m *MockStore) SetData(profileID, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data[profileID] == nil {
		m.data[profileID] = make(map[string]string)
	}
	m.data[profileID][key] = value
}

// Value returns the stored value without recording a call
func (m *MockStore) Value(profileID, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	value, ok := m.data[profileID][key]
	return value, ok
}
