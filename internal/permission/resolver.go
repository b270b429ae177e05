package permission

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ubigger/sales-report/internal/dependency"
	"github.com/ubigger/sales-report/internal/entity"
	gerr "github.com/ubigger/sales-report/internal/errors"
)

// Resolver derives the effective scope of a request from the validated user.
type Resolver struct {
	*Classifier
	roster dependency.Roster
}

// NewResolver returns a resolver backed by the given roster for employee
// display name lookups.
func NewResolver(c *Classifier, roster dependency.Roster) *Resolver {
	return &Resolver{Classifier: c, roster: roster}
}

// ResolveShop returns the shop filter the user may apply. A nil shop means no
// shop restriction. ok is false when the user may see no shop at all.
func (r *Resolver) ResolveShop(u *entity.User, requested string) (shop *string, ok bool) {
	switch r.Role(u) {
	case entity.RoleAdmin, entity.RoleEmployee:
		return optional(requested), true
	case entity.RoleRegionalManager:
		allowed := r.RegionalScope(u.LoginID).ShopNames
		if len(allowed) == 0 {
			return nil, false
		}
		if requested != "" && slices.Contains(allowed, requested) {
			return &requested, true
		}
		first := allowed[0]
		return &first, true
	case entity.RoleManager:
		own := u.OwnShopName()
		if own == "" {
			return nil, false
		}
		return &own, true
	}
	return nil, false
}

// ResolveSalesperson returns the salesperson filter the user may apply.
// Employees are forced to their own roster display name; ok is false when the
// roster has no entry for them.
func (r *Resolver) ResolveSalesperson(ctx context.Context, u *entity.User, requested string) (salesperson *string, ok bool, err error) {
	if r.Role(u) != entity.RoleEmployee {
		return optional(requested), true, nil
	}
	if u.LoginID == "" {
		return nil, false, nil
	}
	key := r.NormalizeLoginID(u.LoginID)
	name, found, err := r.roster.LookupDisplayNameByLoginID(ctx, key)
	if err != nil {
		return nil, false, gerr.DataAccess("lookup display name", err)
	}
	if !found || name == "" {
		slog.Default().InfoContext(ctx, "salesperson lookup miss",
			slog.String("login_id", u.LoginID),
			slog.String("roster_key", key),
		)
		return nil, false, nil
	}
	return &name, true, nil
}

// Resolve builds the scope of a request. A salesperson filter drops the shop
// filter because a salesperson may sell in several shops.
func (r *Resolver) Resolve(ctx context.Context, u *entity.User, req entity.RequestFilter) (entity.ScopeFilter, error) {
	if u == nil {
		return entity.ScopeFilter{}, gerr.ErrUnauthorized
	}
	scope := entity.ScopeFilter{Period: req.Period}

	shop, ok := r.ResolveShop(u, req.Shop)
	if !ok {
		scope.Denied = true
		return scope, nil
	}
	person, ok, err := r.ResolveSalesperson(ctx, u, req.Salesperson)
	if err != nil {
		return entity.ScopeFilter{}, fmt.Errorf("resolve salesperson: %w", err)
	}
	if !ok {
		scope.Denied = true
		return scope, nil
	}

	scope.Salesperson = person
	if person == nil {
		scope.Shop = shop
	}
	return scope, nil
}

// CanAccessShop reports whether the user may see data of the named shop.
func (r *Resolver) CanAccessShop(u *entity.User, shopName string) bool {
	switch r.Role(u) {
	case entity.RoleAdmin, entity.RoleEmployee:
		return true
	case entity.RoleRegionalManager:
		return slices.Contains(r.RegionalScope(u.LoginID).ShopNames, shopName)
	case entity.RoleManager:
		return u.OwnShopName() != "" && u.OwnShopName() == shopName
	}
	return false
}

// AllowedShopIDs returns the shop ids the user may pick from. all is true when
// the user is not restricted.
func (r *Resolver) AllowedShopIDs(u *entity.User) (ids []string, all bool) {
	switch r.Role(u) {
	case entity.RoleAdmin, entity.RoleEmployee:
		return nil, true
	case entity.RoleRegionalManager:
		return r.RegionalScope(u.LoginID).ShopIDs, false
	case entity.RoleManager:
		if u.ShopID == nil || *u.ShopID == 0 {
			return nil, false
		}
		return []string{fmt.Sprint(*u.ShopID)}, false
	}
	return nil, false
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
