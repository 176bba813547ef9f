package cache

import (
	"strings"

	"uattracker/models"
)

// UserCache caches users by case-folded username.
type UserCache struct {
	users *keyed[models.User]
}

func NewUserCache() *UserCache {
	return &UserCache{users: newKeyed[models.User]()}
}

func (c *UserCache) Add(username string, user models.User) {
	c.users.put(strings.ToLower(username), user)
}

func (c *UserCache) Get(username string) (models.User, bool) {
	return c.users.get(strings.ToLower(username))
}
