package rbac

import (
	"strings"

	"uattracker/infrastructure/cache"
)

const (
	// RoleAdmin manages projects, participants, sign-offs, users and exports.
	RoleAdmin = "admin"
	// RoleTester reads the workspace and authors or executes test cases.
	RoleTester = "tester"
)

// ValidRole reports whether role is assignable to a user.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleTester
}

// Rbac stores route resources in cache.
type Rbac struct {
	cache *cache.RbacRolesCache
}

func New(c *cache.RbacRolesCache) *Rbac {
	return &Rbac{cache: c}
}

func (r *Rbac) Add(role, code, method, path string) {
	if r == nil || r.cache == nil {
		return
	}
	r.cache.Add(role, cache.Resource{
		Role:             role,
		UserResourceCode: code,
		Method:           strings.ToUpper(method),
		Path:             path,
	})
}

// ValidateResourceAccess reports whether any resource grants method on urlPath.
func ValidateResourceAccess(resources []cache.Resource, urlPath, method string) bool {
	method = strings.ToUpper(method)
	for _, res := range resources {
		if res.Method == method && matchPath(res.Path, urlPath) {
			return true
		}
	}
	return false
}

// matchPath compares slash separated segments. A "*" or chi style "{name}"
// segment matches any one segment; a trailing "*" also matches any deeper
// remainder.
func matchPath(pattern, path string) bool {
	if pattern == path {
		return true
	}
	want := segments(pattern)
	got := segments(path)

	for i, seg := range want {
		last := i == len(want)-1
		if last && seg == "*" && len(got) >= i {
			return true
		}
		if i >= len(got) {
			return false
		}
		if !wildcard(seg) && seg != got[i] {
			return false
		}
	}
	return len(want) == len(got)
}

func segments(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func wildcard(seg string) bool {
	return seg == "*" || (strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}"))
}
