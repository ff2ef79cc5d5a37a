package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrItemTooLarge is returned when an item exceeds the cache capacity.
var ErrItemTooLarge = errors.New("item too large for cache")

// CacheStats holds cache performance metrics.
type CacheStats struct {
	Capacity int64 // Maximum capacity in bytes

	Size      int64 // Current size in bytes
	ItemCount int64

	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64 // hits / (hits + misses)
}

// Key identifies one rendered symbol string. Everything that changes the
// samples must be part of it.
type Key struct {
	Symbols    string
	Dot        float64
	SampleRate int
	Frequency  float64
	Amplitude  float64
	Ramp       float64
}

// String returns a fixed length digest of the key.
func (k Key) String() string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%g|%d|%g|%g|%g",
		k.Symbols, k.Dot, k.SampleRate, k.Frequency, k.Amplitude, k.Ramp))
	return hex.EncodeToString(sum[:])
}

// Cache stores rendered lines for reuse.
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte) error
	Stats() CacheStats
}
