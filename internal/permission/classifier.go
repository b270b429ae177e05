// Package permission classifies users into roles and derives the shop and
// salesperson filters each role may apply.
package permission

import (
	"strings"

	"github.com/ubigger/sales-report/internal/entity"
)

// Classifier maps users to roles according to a Policy.
type Classifier struct {
	admins   map[string]struct{}
	regional map[string]entity.RegionalManagerScope
	policy   entity.Policy
}

// NewClassifier copies the policy lists into lookup sets.
func NewClassifier(p entity.Policy) *Classifier {
	c := &Classifier{
		admins:   make(map[string]struct{}, len(p.AdminLoginIDs)),
		regional: make(map[string]entity.RegionalManagerScope, len(p.RegionalManagers)),
		policy:   p,
	}
	for _, id := range p.AdminLoginIDs {
		c.admins[id] = struct{}{}
	}
	for id, scope := range p.RegionalManagers {
		c.regional[id] = scope
	}
	if c.policy.ManagerRoleCode == 0 {
		c.policy.ManagerRoleCode = entity.DefaultManagerRoleCode
	}
	return c
}

// Role returns the role of u. It never fails: unknown users are employees.
func (c *Classifier) Role(u *entity.User) entity.Role {
	if c.policy.LegacyRoles {
		return c.legacyRole(u)
	}
	if _, ok := c.admins[u.LoginID]; ok {
		return entity.RoleAdmin
	}
	if _, ok := c.regional[u.LoginID]; ok {
		return entity.RoleRegionalManager
	}
	// shop id 0 marks an unaffiliated account and must win over the role code
	if u.HasShopID(0) {
		return entity.RoleEmployee
	}
	if u.RoleCode == c.policy.ManagerRoleCode {
		return entity.RoleManager
	}
	return entity.RoleEmployee
}

func (c *Classifier) legacyRole(u *entity.User) entity.Role {
	if u.HasShopID(0) {
		return entity.RoleAdmin
	}
	if u.RoleCode == c.policy.ManagerRoleCode {
		return entity.RoleManager
	}
	return entity.RoleEmployee
}

// RegionalScope returns the shops a regional manager may query.
func (c *Classifier) RegionalScope(loginID string) entity.RegionalManagerScope {
	return c.regional[loginID]
}

// NormalizeLoginID strips the first matching channel prefix from a login id.
func (c *Classifier) NormalizeLoginID(loginID string) string {
	for _, p := range c.policy.LoginIDPrefixes {
		if p != "" && strings.HasPrefix(loginID, p) && len(loginID) > len(p) {
			return strings.TrimPrefix(loginID, p)
		}
	}
	return loginID
}
