package storage

import "context"

// StateKey is the fixed identifier the game state blob is stored under.
const StateKey = "deficit_slayer_state"

// Storage persists the serialized game state blob.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// LoadState returns the blob stored under key, or nil, nil when there is
	// none.
	LoadState(ctx context.Context, key string) ([]byte, error)

	// SaveState replaces the blob stored under key.
	SaveState(ctx context.Context, key string, data []byte) error
}
