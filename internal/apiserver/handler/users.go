package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guichet-numerique/carrousel/internal/apiserver/access"
	"github.com/guichet-numerique/carrousel/internal/apiserver/database"
	"github.com/guichet-numerique/carrousel/internal/common/cnst"
	"github.com/guichet-numerique/carrousel/internal/common/dto"
	"github.com/guichet-numerique/carrousel/internal/common/errorx"
)

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.db.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, users)
}

func (h *Handler) PendingUsers(c *gin.Context) {
	users, err := h.db.ListUsersByStatus(c.Request.Context(), database.StatusPending)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, users)
}

func (h *Handler) loadUser(ctx context.Context, id uint) (*database.User, error) {
	u, err := h.db.GetUserByID(ctx, id)
	if err != nil {
		return nil, notFound(err, errorx.ErrUserNotFound)
	}
	return u, nil
}

func (h *Handler) UpdateUserRole(c *gin.Context) {
	var req dto.UpdateRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	actor := currentUser(c)

	target, err := h.loadUser(ctx, req.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	role := database.UserRole(req.Role)
	if err := access.CanChangeRole(actor, target, role); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.db.UpdateUserRole(ctx, target.ID, role); err != nil {
		h.fail(c, notFound(err, errorx.ErrUserNotFound))
		return
	}

	h.audit(ctx, actor, cnst.ActionUpdateUserRole, cnst.EntityUser, idRef(target.ID), map[string]any{
		"targetUserName": target.DisplayName(),
		"previousRole":   target.Role,
		"newRole":        role,
	})
	h.ok(c, dto.OK)
}

// DeleteUser removes an account with its carousels, notifications and
// audit entries.
func (h *Handler) DeleteUser(c *gin.Context) {
	var req dto.UserIDRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	actor := currentUser(c)

	target, err := h.loadUser(ctx, req.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := access.CanDelete(actor, target); err != nil {
		h.fail(c, err)
		return
	}

	err = h.db.Transaction(ctx, func(ctx context.Context) error {
		if err := h.db.DeleteCarrouselsByUser(ctx, target.ID); err != nil {
			return err
		}
		if err := h.db.DeleteNotificationsByUser(ctx, target.ID); err != nil {
			return err
		}
		if err := h.db.DeleteAuditLogsByUser(ctx, target.ID); err != nil {
			return err
		}
		return h.db.DeleteUser(ctx, target.ID)
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.audit(ctx, actor, cnst.ActionDeleteUser, cnst.EntityUser, idRef(target.ID), map[string]any{
		"deletedUserName":  target.DisplayName(),
		"deletedUserEmail": target.Email,
	})
	h.ok(c, dto.OK)
}

func (h *Handler) ApproveUser(c *gin.Context) {
	h.setStatus(c, database.StatusApproved, cnst.ActionApproveUser, "approved")
}

func (h *Handler) RejectUser(c *gin.Context) {
	h.setStatus(c, database.StatusRejected, cnst.ActionRejectUser, "rejected")
}

func (h *Handler) BlockUser(c *gin.Context) {
	h.setStatus(c, database.StatusBlocked, cnst.ActionBlockUser, "blocked")
}

func (h *Handler) UnblockUser(c *gin.Context) {
	h.setStatus(c, database.StatusApproved, cnst.ActionUnblockUser, "unblocked")
}

// setStatus moves an account to status. verb prefixes the audit detail
// keys, e.g. approvedUserName.
func (h *Handler) setStatus(c *gin.Context, status database.UserStatus, action cnst.AuditAction, verb string) {
	var req dto.UserIDRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	actor := currentUser(c)

	target, err := h.loadUser(ctx, req.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	var guard error
	switch status {
	case database.StatusBlocked:
		guard = access.CanBlock(actor, target)
	case database.StatusRejected:
		guard = access.CanReject(actor, target)
	}
	if guard != nil {
		h.fail(c, guard)
		return
	}
	if err := h.db.UpdateUserStatus(ctx, target.ID, status); err != nil {
		h.fail(c, notFound(err, errorx.ErrUserNotFound))
		return
	}

	h.audit(ctx, actor, action, cnst.EntityUser, idRef(target.ID), map[string]any{
		verb + "UserName":  target.DisplayName(),
		verb + "UserEmail": target.Email,
	})
	h.ok(c, dto.OK)
}

// UpdateProfile edits the caller's name and function.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user := *currentUser(c)
	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)
	user.Fonction = strings.TrimSpace(req.Fonction)
	if err := h.db.UpdateUser(c.Request.Context(), &user); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, &user)
}
