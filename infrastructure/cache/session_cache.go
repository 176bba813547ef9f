package cache

import (
	"time"

	"uattracker/models"
)

// UserSessionCache stores sessions by token. Expired sessions stay until
// the caller deletes them or PurgeExpired runs.
type UserSessionCache struct {
	sessions *keyed[models.Session]
}

func NewUserSessionCache() *UserSessionCache {
	return &UserSessionCache{sessions: newKeyed[models.Session]()}
}

func (c *UserSessionCache) AddSession(s models.Session) {
	c.sessions.put(s.ID, s)
}

func (c *UserSessionCache) FindSessionBySessionToken(token string) (models.Session, bool) {
	return c.sessions.get(token)
}

func (c *UserSessionCache) DeleteSessionBySessionToken(token string) {
	c.sessions.remove(token)
}

// PurgeExpired drops sessions that expired before now and returns their tokens.
func (c *UserSessionCache) PurgeExpired(now time.Time) []string {
	return c.sessions.removeWhere(func(s models.Session) bool {
		return now.After(s.ExpiresAt)
	})
}

func (c *UserSessionCache) Len() int {
	return c.sessions.len()
}
