package cache

import "uattracker/infrastructure/workspace"

// WorkspaceCache keeps one workspace controller per session token.
type WorkspaceCache struct {
	controllers *keyed[*workspace.Controller]
}

func NewWorkspaceCache() *WorkspaceCache {
	return &WorkspaceCache{controllers: newKeyed[*workspace.Controller]()}
}

func (c *WorkspaceCache) Get(token string) (*workspace.Controller, bool) {
	return c.controllers.get(token)
}

// GetOrCreate returns the cached controller for token, or stores the one
// built by create. The bool reports whether create was called.
func (c *WorkspaceCache) GetOrCreate(token string, create func() *workspace.Controller) (*workspace.Controller, bool) {
	return c.controllers.putIfAbsent(token, create)
}

func (c *WorkspaceCache) Delete(token string) {
	c.controllers.remove(token)
}

func (c *WorkspaceCache) Len() int {
	return c.controllers.len()
}
