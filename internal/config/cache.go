package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the response cache placed on the public
// project endpoints.  Methods lists the HTTP methods to cache; TTL bounds how
// long an entry lives when no write invalidates it first.  KeyStrategy
// chooses which parts of the request form the key.
type CacheConfig struct {
	Enabled      bool          `envconfig:"ENABLED" default:"true"`
	Methods      []string      `envconfig:"METHODS" default:"GET"`
	TTL          time.Duration `envconfig:"TTL" default:"60s"`
	KeyStrategy  string        `envconfig:"KEY_STRATEGY" default:"route_query"`
	Prefix       string        `envconfig:"PREFIX" default:"cache"`
	MaxBodyBytes int           `envconfig:"MAX_BODY_BYTES" default:"1048576"`
}

// MethodSet returns the configured methods upper-cased as a lookup set.
func (c CacheConfig) MethodSet() map[string]bool {
	m := make(map[string]bool, len(c.Methods))
	for _, p := range c.Methods {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}

func (c *CacheConfig) normalize() {
	if c.TTL <= 0 {
		c.TTL = time.Minute
	}
	if c.Prefix == "" {
		c.Prefix = "cache"
	}
	if len(c.Methods) == 0 {
		c.Methods = []string{"GET"}
	}
}
