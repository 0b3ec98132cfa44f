// Package cache stores computed scenes so identical layout requests are not
// recomputed.
//
// Three backends share the [Cache] interface:
//
//   - [NullCache] never stores anything (caching disabled).
//   - [FileCache] keeps entries as JSON files under a directory, used by the CLI.
//   - [RedisCache] keeps entries in Redis, used by the HTTP server.
//
// Keys come from a [Keyer], which hashes every option that changes a layout.
package cache

import (
	"context"
	"time"
)

// TTLLayout is how long computed scenes are kept. Layouts are a pure function
// of their inputs, so the TTL only bounds disk and memory use.
const TTLLayout = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiration.
type Cache interface {
	// Get returns the stored value and whether it was found. A miss is not an
	// error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero or less never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys from layout inputs.
type Keyer interface {
	// LayoutKey returns the key for a scene computed from the tensor whose
	// content hashes to inputHash, under the given options.
	LayoutKey(inputHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts are the layout parameters that select a distinct scene.
type LayoutKeyOpts struct {
	Shape    []int       `json:"shape"`
	Axes     [3]int      `json:"axes"`
	Outer    []int       `json:"outer"`
	Mode     string      `json:"mode"`
	MaxCells int         `json:"max_cells"`
	Slices   map[int]int `json:"slices,omitempty"`
}

// DefaultKeyer hashes options into "layout:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(inputHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", inputHash, opts)
}
