package config

import "time"

// CacheConfig tunes the Redis response cache placed in front of the
// public browse endpoints (movies by city, theatre shows, seat maps).
// When Enabled is false or no Redis client could be constructed the
// cache middleware is a pass-through.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration // entry lifetime
	Prefix       string        // key namespace
	MaxBodyBytes int           // responses larger than this are not cached
}

// LoadCacheConfig reads the cache settings from the environment.  The
// defaults cache GET responses for thirty seconds, which is short
// enough that seat availability shown to browsers lags reservations
// only briefly.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
