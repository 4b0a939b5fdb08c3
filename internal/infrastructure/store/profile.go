package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Profile is a Store scoped to a single browser profile
type Profile struct {
	store Store
	id    string
}

// NewProfile scopes s to profileID
func NewProfile(s Store, profileID string) *Profile {
	return &Profile{store: s, id: profileID}
}

// ID returns the profile id
func (p *Profile) ID() string {
	return p.id
}

// GetString returns the raw value stored under key
func (p *Profile) GetString(ctx context.Context, key string) (string, bool, error) {
	return p.store.GetItem(ctx, p.id, key)
}

// SetString stores value under key
func (p *Profile) SetString(ctx context.Context, key, value string) error {
	return p.store.SetItem(ctx, p.id, key, value)
}

// GetJSON decodes the value under key into dst. A malformed value is
// returned as an error so callers can decide to start empty.
func (p *Profile) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok, err := p.store.GetItem(ctx, p.id, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return true, fmt.Errorf("decode %q: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key
func (p *Profile) SetJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return p.store.SetItem(ctx, p.id, key, string(data))
}

// Remove deletes every listed key, stopping at the first error
func (p *Profile) Remove(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if err := p.store.RemoveItem(ctx, p.id, key); err != nil {
			return err
		}
	}
	return nil
}

// TakeString returns and removes the value under key
func (p *Profile) TakeString(ctx context.Context, key string) (string, bool, error) {
	value, ok, err := p.GetString(ctx, key)
	if err != nil || !ok {
		return "", false, err
	}
	if err := p.store.RemoveItem(ctx, p.id, key); err != nil {
		return "", false, err
	}
	return value, true, nil
}
