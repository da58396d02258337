package config

import "time"

// PageCacheConfig controls the Redis copy of the informational pages
// (home, about, gallery, dining and the like).  Room listings, forms and
// the admin panel are never cached because they show live availability.
type PageCacheConfig struct {
	Enabled      bool
	Methods      map[string]bool // request methods served from the cache
	TTL          time.Duration
	KeyStrategy  string // route_query, route, method_route or method_route_query
	Prefix       string
	MaxBodyBytes int // larger pages are served but not stored
}

// LoadPageCacheConfig reads CACHE_* variables.  The pages only change
// when the hotel details do, so entries live for minutes rather than
// seconds.
func LoadPageCacheConfig() PageCacheConfig {
	cfg := PageCacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      envSet("CACHE_METHODS", "GET"),
		TTL:          envDur("CACHE_TTL", 5*time.Minute),
		KeyStrategy:  getenv("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       getenv("CACHE_PREFIX", "hotel:page"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 512<<10),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Minute
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 512 << 10
	}
	return cfg
}
