// Package cache stores evaluator responses so identical submissions are not
// sent to the model twice.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// KeyPrefix is bumped whenever the cached payload format changes.
const KeyPrefix = "conceptor:v1:"

// CacheKey hashes the given parts into a fixed-length key. Parts are joined
// with a separator that cannot appear in normal text, so ("ab","c") and
// ("a","bc") never collide.
func CacheKey(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return KeyPrefix + hex.EncodeToString(hash[:])
}
