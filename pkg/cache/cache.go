// Package cache stores rendered diagram bytes so unchanged diagrams are not
// rendered twice.
//
// Three backends implement [Cache]:
//
//   - [FileCache] keeps entries as JSON files under the user cache directory
//   - [RedisCache] shares entries between machines through Redis
//   - [NullCache] never stores anything
//
// Keys come from a [Keyer], which combines the content hash of a diagram
// source with the output format and resolution.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// A missing or expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the backend.
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	// Clear removes all entries and returns how many were deleted.
	Clear(ctx context.Context) (int, error)
}

// DefaultTTL is how long rendered artifacts stay cached.
const DefaultTTL = 7 * 24 * time.Hour

// ArtifactKeyOpts are the render settings that change the output bytes.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	DPI    float64 `json:"dpi,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key of one rendered output of a source.
	ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the source and render options into "artifact:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sourceHash, opts)
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "kind:<sha256>" over the JSON encoding of parts.
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + Hash(data)
}
