package discord

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Cooldowns tracks per-user command cooldowns. Entries expire on their own.
type Cooldowns struct {
	entries *cache.Cache
}

// NewCooldowns creates an empty cooldown table.
func NewCooldowns() *Cooldowns {
	return &Cooldowns{entries: cache.New(time.Minute, 5*time.Minute)}
}

// Hit records a use of command by user. If the user is still cooling down it
// returns the remaining wait and true, leaving the existing window untouched.
func (c *Cooldowns) Hit(command, userID string, window time.Duration) (time.Duration, bool) {
	key := command + ":" + userID
	if err := c.entries.Add(key, struct{}{}, window); err == nil {
		return 0, false
	}

	_, expires, found := c.entries.GetWithExpiration(key)
	if !found {
		// Expired between Add and Get.
		c.entries.Set(key, struct{}{}, window)
		return 0, false
	}
	return time.Until(expires), true
}
