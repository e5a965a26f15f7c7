package session

import (
	"context"
	"encoding/json"
	"maps"
	"slices"
	"time"
)

// Values is the persisted form of session data: JSON-encoded values by key.
type Values map[string]json.RawMessage

// Clone returns a deep copy of v.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, raw := range v {
		out[k] = append(json.RawMessage(nil), raw...)
	}
	return out
}

// Keys returns the stored keys in unspecified order.
func (v Values) Keys() []string {
	return slices.Collect(maps.Keys(v))
}

// Store defines the persistence interface for session data.
// Implementations must handle concurrent access safely.
type Store interface {
	// Load returns the data stored for id or ErrNotFound.
	Load(ctx context.Context, id string) (Values, error)
	// Save replaces the data stored for id. A non-positive ttl means no expiry.
	Save(ctx context.Context, id string, values Values, ttl time.Duration) error
	// Delete removes id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
}
