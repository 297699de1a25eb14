package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the interface for the feed-response cache layers.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey derives a stable cache key from a fetched URL.
func CacheKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "episcan:v1:" + hex.EncodeToString(hash[:])
}
