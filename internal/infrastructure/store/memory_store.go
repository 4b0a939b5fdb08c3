package store

import (
	"context"
	"sync"
)

// MemoryStore keeps profiles in process memory. Profiles are lost on restart.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]string // profileID -> key -> value
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string]string),
	}
}

// GetItem retrieves a value
func (ms *MemoryStore) GetItem(_ context.Context, profileID, key string) (string, bool, error) {
	if profileID == "" {
		return "", false, ErrEmptyProfile
	}
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	if ms.data[profileID] == nil {
		return "", false, nil
	}
	value, ok := ms.data[profileID][key]
	return value, ok, nil
}

// SetItem stores a value
func (ms *MemoryStore) SetItem(_ context.Context, profileID, key, value string) error {
	if profileID == "" {
		return ErrEmptyProfile
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.data[profileID] == nil {
		ms.data[profileID] = make(map[string]string)
	}
	ms.data[profileID][key] = value
	return nil
}

// RemoveItem deletes a value; removing an absent key is not an error
func (ms *MemoryStore) RemoveItem(_ context.Context, profileID, key string) error {
	if profileID == "" {
		return ErrEmptyProfile
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.data[profileID] != nil {
		delete(ms.data[profileID], key)
		if len(ms.data[profileID]) == 0 {
			delete(ms.data, profileID)
		}
	}
	return nil
}
