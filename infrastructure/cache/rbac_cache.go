package cache

import "sync"

// Resource grants one role access to one method on a path pattern.
type Resource struct {
	UserResourceCode string
	Path             string
	Method           string
	Role             string
}

// RbacRolesCache indexes resources by role. Registering the same role,
// method and path twice keeps the first entry.
type RbacRolesCache struct {
	mu        sync.RWMutex
	resources map[string][]Resource
	seen      map[Resource]struct{}
	codes     map[string]struct{}
}

func NewRbacRolesCache() *RbacRolesCache {
	return &RbacRolesCache{
		resources: make(map[string][]Resource),
		seen:      make(map[Resource]struct{}),
		codes:     make(map[string]struct{}),
	}
}

func (c *RbacRolesCache) Add(role string, r Resource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r.Role = role
	key := Resource{Role: role, Method: r.Method, Path: r.Path}
	if _, dup := c.seen[key]; dup {
		return
	}
	c.seen[key] = struct{}{}
	c.resources[role] = append(c.resources[role], r)
	c.codes[r.UserResourceCode] = struct{}{}
}

func (c *RbacRolesCache) GetRolesAndResources(roles []string) []Resource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Resource, 0)
	for _, role := range roles {
		out = append(out, c.resources[role]...)
	}
	return out
}

// GetAllRouteNames returns every registered resource code.
func (c *RbacRolesCache) GetAllRouteNames() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]int, len(c.codes))
	for code := range c.codes {
		out[code] = 1
	}
	return out
}
