package platform

import (
	"sync"
	"time"

	"github.com/mj1618/stepcast/internal/model"
)

// CachedScreen wraps a Screen and caches its monitor list for a TTL.
// Grab is passed through untouched.
type CachedScreen struct {
	Screen

	mu        sync.Mutex
	monitors  []model.Monitor
	timestamp time.Time
	ttl       time.Duration
	now       func() time.Time
}

// NewCachedScreen creates a cache. A ttl of 0 disables caching.
func NewCachedScreen(s Screen, ttl time.Duration) *CachedScreen {
	return &CachedScreen{Screen: s, ttl: ttl, now: time.Now}
}

// Monitors returns the cached list if within TTL, otherwise reads fresh.
func (c *CachedScreen) Monitors() ([]model.Monitor, error) {
	if c.ttl == 0 {
		return c.Screen.Monitors()
	}

	c.mu.Lock()
	if c.monitors != nil && c.now().Sub(c.timestamp) < c.ttl {
		monitors := c.monitors
		c.mu.Unlock()
		return monitors, nil
	}
	c.mu.Unlock()

	monitors, err := c.Screen.Monitors()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.monitors = monitors
	c.timestamp = c.now()
	c.mu.Unlock()

	return monitors, nil
}

// Invalidate drops the cached monitor list.
func (c *CachedScreen) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.monitors = nil
}
