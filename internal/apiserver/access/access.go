// Package access carries the signed-in user through request contexts and
// holds the rules deciding what each role may do.
package access

import (
	"context"

	"github.com/guichet-numerique/carrousel/internal/apiserver/database"
	"github.com/guichet-numerique/carrousel/internal/common/errorx"
)

type userKey struct{}

// WithUser returns a context carrying the current user.
func WithUser(ctx context.Context, u *database.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFrom returns the current user, if any.
func UserFrom(ctx context.Context) (*database.User, bool) {
	u, ok := ctx.Value(userKey{}).(*database.User)
	return u, ok && u != nil
}

func IsAdmin(u *database.User) bool {
	return u != nil && (u.Role == database.RoleAdmin || u.Role == database.RoleSuperAdmin)
}

func IsSuperAdmin(u *database.User) bool {
	return u != nil && u.Role == database.RoleSuperAdmin
}

// CheckStatus gates every procedure except the session ones.
func CheckStatus(u *database.User) error {
	switch u.Status {
	case database.StatusApproved:
		return nil
	case database.StatusPending:
		return errorx.ErrAccountPending
	default:
		return errorx.ErrAccessDenied
	}
}

// CanChangeRole decides whether actor may give target the role next.
func CanChangeRole(actor, target *database.User, next database.UserRole) error {
	if !IsAdmin(actor) {
		return errorx.ErrForbidden
	}
	if IsSuperAdmin(actor) {
		return nil
	}
	if target.Role == database.RoleSuperAdmin {
		return errorx.ErrAdminCannotModifySuperAdmin
	}
	if next == database.RoleSuperAdmin {
		return errorx.ErrOnlySuperAdminPromotes
	}
	return nil
}

// CanDelete decides whether actor may delete target.
func CanDelete(actor, target *database.User) error {
	if !IsAdmin(actor) {
		return errorx.ErrForbidden
	}
	if actor.ID == target.ID {
		return errorx.ErrCannotDeleteSelf
	}
	if target.Role == database.RoleSuperAdmin && !IsSuperAdmin(actor) {
		return errorx.ErrAdminCannotDeleteSuperAdmin
	}
	return nil
}

// CanBlock decides whether actor may block target.
func CanBlock(actor, target *database.User) error {
	if !IsAdmin(actor) {
		return errorx.ErrForbidden
	}
	if actor.ID == target.ID {
		return errorx.ErrCannotBlockSelf
	}
	if target.Role == database.RoleSuperAdmin && !IsSuperAdmin(actor) {
		return errorx.ErrAdminCannotBlockSuperAdmin
	}
	return nil
}

// CanReject decides whether actor may reject target. Rejected accounts are
// locked out like blocked ones, so the same protections apply.
func CanReject(actor, target *database.User) error {
	if !IsAdmin(actor) {
		return errorx.ErrForbidden
	}
	if actor.ID == target.ID {
		return errorx.ErrCannotRejectSelf
	}
	if target.Role == database.RoleSuperAdmin && !IsSuperAdmin(actor) {
		return errorx.ErrAdminCannotRejectSuperAdmin
	}
	return nil
}

// CanAccessCarrousel allows the owner and administrators.
func CanAccessCarrousel(u *database.User, c *database.Carrousel) error {
	if u == nil {
		return errorx.ErrUnauthorized
	}
	if c.UserID == u.ID || IsAdmin(u) {
		return nil
	}
	return errorx.ErrAccessNotAllowed
}
