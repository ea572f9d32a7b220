package feedback

import (
	"time"

	"github.com/mitchellh/hashstructure/v2"
	"github.com/patrickmn/go-cache"
)

// ChangeMonitor reduces repeated feedback/log lines when the same
// underlying fact (e.g. "machine X has no capability rows for subseries
// Y") would otherwise be recorded once per affected order. Values expire
// after the configured visibility timeout so a fact that stops recurring
// eventually logs again instead of going silent forever.
//
// Adapted from the teacher's own change monitor: same hashstructure+TTL-
// cache shape, generalized from "log a changed Kubernetes object" to
// "suppress a repeated scheduling-feedback message".
type ChangeMonitor struct {
	lastSeen *cache.Cache
}

// NewChangeMonitor returns a ChangeMonitor whose entries expire after
// visibilityTimeout (defaulting to 24 hours, matching a single scheduling
// run's typical lifetime many times over).
func NewChangeMonitor(visibilityTimeout time.Duration) *ChangeMonitor {
	if visibilityTimeout <= 0 {
		visibilityTimeout = 24 * time.Hour
	}
	return &ChangeMonitor{lastSeen: cache.New(visibilityTimeout, visibilityTimeout/2)}
}

// HasChanged reports true the first time key/value is seen, and every
// time value's hash differs from what was last recorded for key.
func (c *ChangeMonitor) HasChanged(key string, value any) bool {
	hv, _ := hashstructure.Hash(value, hashstructure.FormatV2, &hashstructure.HashOptions{SlicesAsSets: true})
	existing, ok := c.lastSeen.Get(key)
	var existingHash uint64
	if ok {
		existingHash = existing.(uint64)
	}
	if !ok || existingHash != hv {
		c.lastSeen.SetDefault(key, hv)
		return true
	}
	return false
}
