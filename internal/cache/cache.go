package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte-value TTL cache for upstream lookup responses.
// Keys derive from the full request URL, so identical lookups
// (gene symbols, rsID records, recoder calls) skip the network.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from a request URL (query string included)
func Key(requestURL string) string {
	hash := sha256.Sum256([]byte(requestURL))
	return "varscout:v1:" + hex.EncodeToString(hash[:])
}

// Options selects which cache layers to build
type Options struct {
	Enabled bool
	TTL     time.Duration
	Dir     string // Non-empty enables the disk layer under this directory
}

// New builds a cache from options. Returns nil when caching is disabled;
// callers treat a nil Cache as a pass-through.
func New(opts Options) Cache {
	if !opts.Enabled {
		return nil
	}
	if opts.Dir != "" {
		return NewLayeredCache(opts.TTL, opts.Dir, opts.TTL)
	}
	return NewMemoryCache(opts.TTL, 10*time.Minute)
}
