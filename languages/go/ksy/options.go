package ksy

import (
	"go.uber.org/zap"
)

// config holds configuration for Build.
type config struct {
	// log receives debug output about type resolution.
	log *zap.Logger

	// cache holds built user types. A fresh cache is used per Build unless one is supplied.
	cache *TypeCache
}

func defaultConfig() *config {
	return &config{
		log: zap.NewNop(),
	}
}

// Option configures Build.
type Option func(*config)

// WithLogger sets the logger Build reports type resolution to.
// If not set, nothing is logged.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// WithTypeCache makes Build resolve user types through cache and store the types it builds
// there. Sharing a cache lets several schemas reuse each other's types by name.
func WithTypeCache(cache *TypeCache) Option {
	return func(c *config) {
		c.cache = cache
	}
}
