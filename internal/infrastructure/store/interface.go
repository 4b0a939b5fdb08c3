package store

import (
	"context"
	"errors"
)

// Keys written by the storefront into a profile
const (
	KeyUser            = "user"
	KeyCart            = "cart"
	KeyStripeSessionID = "stripeSessionId"
	KeyOrderID         = "orderId"
	KeyFlash           = "flash"
)

var ErrEmptyProfile = errors.New("profile id is required")

// Store persists string values per browser profile, the server-side
// counterpart of window.localStorage.
type Store interface {
	GetItem(ctx context.Context, profileID, key string) (string, bool, error)
	SetItem(ctx context.Context, profileID, key, value string) error
	RemoveItem(ctx context.Context, profileID, key string) error
}
