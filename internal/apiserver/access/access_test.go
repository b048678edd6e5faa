package access

import (
	"context"
	"testing"

	"github.com/guichet-numerique/carrousel/internal/apiserver/database"
	"github.com/guichet-numerique/carrousel/internal/common/errorx"

	"github.com/stretchr/testify/assert"
)

func user(id uint, role database.UserRole) *database.User {
	return &database.User{ID: id, Role: role, Status: database.StatusApproved}
}

func TestWithUser(t *testing.T) {
	_, ok := UserFrom(context.Background())
	assert.False(t, ok)

	u := user(1, database.RoleMember)
	got, ok := UserFrom(WithUser(context.Background(), u))
	assert.True(t, ok)
	assert.Same(t, u, got)

	_, ok = UserFrom(WithUser(context.Background(), nil))
	assert.False(t, ok)
}

func TestCheckStatus(t *testing.T) {
	u := &database.User{}
	for status, want := range map[database.UserStatus]error{
		database.StatusApproved: nil,
		database.StatusPending:  errorx.ErrAccountPending,
		database.StatusRejected: errorx.ErrAccessDenied,
		database.StatusBlocked:  errorx.ErrAccessDenied,
	} {
		u.Status = status
		if want == nil {
			assert.NoError(t, CheckStatus(u), status)
			continue
		}
		assert.ErrorIs(t, CheckStatus(u), want, status)
	}
}

func TestCanChangeRole(t *testing.T) {
	member := user(1, database.RoleMember)
	admin := user(2, database.RoleAdmin)
	super := user(3, database.RoleSuperAdmin)
	other := user(4, database.RoleMember)

	assert.ErrorIs(t, CanChangeRole(member, other, database.RoleAdmin), errorx.ErrForbidden)
	assert.NoError(t, CanChangeRole(admin, other, database.RoleAdmin))
	assert.ErrorIs(t, CanChangeRole(admin, other, database.RoleSuperAdmin), errorx.ErrOnlySuperAdminPromotes)
	assert.ErrorIs(t, CanChangeRole(admin, super, database.RoleMember), errorx.ErrAdminCannotModifySuperAdmin)
	assert.NoError(t, CanChangeRole(super, other, database.RoleSuperAdmin))
	assert.NoError(t, CanChangeRole(super, admin, database.RoleMember))
}

func TestCanDeleteAndBlock(t *testing.T) {
	member := user(1, database.RoleMember)
	admin := user(2, database.RoleAdmin)
	super := user(3, database.RoleSuperAdmin)
	super2 := user(5, database.RoleSuperAdmin)

	assert.ErrorIs(t, CanDelete(member, admin), errorx.ErrForbidden)
	assert.ErrorIs(t, CanDelete(admin, admin), errorx.ErrCannotDeleteSelf)
	assert.ErrorIs(t, CanDelete(admin, super), errorx.ErrAdminCannotDeleteSuperAdmin)
	assert.ErrorIs(t, CanDelete(super, super), errorx.ErrCannotDeleteSelf)
	assert.NoError(t, CanDelete(admin, member))
	assert.NoError(t, CanDelete(super, super2))

	assert.ErrorIs(t, CanBlock(member, admin), errorx.ErrForbidden)
	assert.ErrorIs(t, CanBlock(admin, admin), errorx.ErrCannotBlockSelf)
	assert.ErrorIs(t, CanBlock(admin, super), errorx.ErrAdminCannotBlockSuperAdmin)
	assert.NoError(t, CanBlock(super, admin))

	assert.ErrorIs(t, CanReject(member, admin), errorx.ErrForbidden)
	assert.ErrorIs(t, CanReject(admin, admin), errorx.ErrCannotRejectSelf)
	assert.ErrorIs(t, CanReject(admin, super), errorx.ErrAdminCannotRejectSuperAdmin)
	assert.ErrorIs(t, CanReject(super, super), errorx.ErrCannotRejectSelf)
	assert.NoError(t, CanReject(super, admin))
	assert.NoError(t, CanReject(admin, member))
}

func TestCanAccessCarrousel(t *testing.T) {
	c := &database.Carrousel{UserID: 1}
	assert.NoError(t, CanAccessCarrousel(user(1, database.RoleMember), c))
	assert.ErrorIs(t, CanAccessCarrousel(user(2, database.RoleMember), c), errorx.ErrAccessNotAllowed)
	assert.NoError(t, CanAccessCarrousel(user(2, database.RoleAdmin), c))
	assert.NoError(t, CanAccessCarrousel(user(3, database.RoleSuperAdmin), c))
	assert.ErrorIs(t, CanAccessCarrousel(nil, c), errorx.ErrUnauthorized)
}
