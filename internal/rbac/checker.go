package rbac

import (
	"context"
	"strings"
)

// Checker answers permission questions against a role -> patterns policy.
type Checker struct {
	policy map[string][]string
}

// NewChecker uses policy, or RolePermissions when policy is nil.
func NewChecker(policy map[string][]string) *Checker {
	if policy == nil {
		policy = RolePermissions
	}
	return &Checker{policy: policy}
}

func (c *Checker) Has(role, perm string) bool {
	for _, pattern := range c.policy[role] {
		if matchPerm(pattern, perm) {
			return true
		}
	}
	return false
}

func (c *Checker) Any(role string, perms ...string) bool {
	for _, p := range perms {
		if c.Has(role, p) {
			return true
		}
	}
	return false
}

// matchPerm compares exactly unless pattern ends in "*", which matches by prefix.
// A bare "*" therefore matches every permission.
func matchPerm(pattern, perm string) bool {
	prefix, wildcard := strings.CutSuffix(pattern, "*")
	if !wildcard {
		return pattern == perm
	}
	return strings.HasPrefix(perm, prefix)
}

type roleKey struct{}

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey{}, role)
}

func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(roleKey{}).(string)
	return role
}
