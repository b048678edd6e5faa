package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/guichet-numerique/carrousel/internal/apiserver/database"
	"github.com/guichet-numerique/carrousel/internal/auth/jwt"
	"github.com/guichet-numerique/carrousel/internal/common/dto"
	"github.com/guichet-numerique/carrousel/internal/common/errorx"
)

// Login exchanges an identity assertion from the portal for a session.
func (h *Handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	id, err := h.identity.Verify(req.IDToken)
	if err != nil {
		h.fail(c, errorx.ErrInvalidIdentity.Wrap(err))
		return
	}

	user, err := h.upsertUser(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	token, err := h.jwt.GenerateToken(user.ID, user.OpenID, string(user.Role))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.JWT.CookieName, token, int(h.jwt.Duration().Seconds()), "/", "", h.cfg.JWT.Secure, true)
	h.ok(c, dto.LoginResponse{Token: token, User: user})
}

// Me returns the signed-in user, or null.
func (h *Handler) Me(c *gin.Context) {
	h.ok(c, currentUser(c))
}

func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.JWT.CookieName, "", -1, "/", "", h.cfg.JWT.Secure, true)
	h.ok(c, dto.OK)
}

// upsertUser records a login. New accounts start as pending members and
// every approved administrator is notified; the owner is always an
// approved super admin.
func (h *Handler) upsertUser(ctx context.Context, id *jwt.Identity) (*database.User, error) {
	isOwner := h.cfg.Owner.OpenID != "" && id.OpenID == h.cfg.Owner.OpenID
	var user *database.User

	err := h.db.Transaction(ctx, func(ctx context.Context) error {
		existing, err := h.db.GetUserByOpenID(ctx, id.OpenID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = &database.User{
				OpenID:       id.OpenID,
				Name:         id.Name,
				Email:        id.Email,
				LoginMethod:  id.LoginMethod,
				FirstName:    id.FirstName,
				LastName:     id.LastName,
				Role:         database.RoleMember,
				Status:       database.StatusPending,
				LastSignedIn: h.now(),
			}
			if isOwner {
				user.Role, user.Status = database.RoleSuperAdmin, database.StatusApproved
			}
			if err := h.db.CreateUser(ctx, user); err != nil {
				return err
			}
			if user.Status == database.StatusPending {
				return h.notifyPending(ctx, user)
			}
			return nil
		case err != nil:
			return err
		}

		user = existing
		if id.Name != "" {
			user.Name = id.Name
		}
		if id.Email != "" {
			user.Email = id.Email
		}
		if id.LoginMethod != "" {
			user.LoginMethod = id.LoginMethod
		}
		// the profile page owns these once set
		if user.FirstName == "" {
			user.FirstName = id.FirstName
		}
		if user.LastName == "" {
			user.LastName = id.LastName
		}
		if isOwner {
			user.Role, user.Status = database.RoleSuperAdmin, database.StatusApproved
		}
		user.LastSignedIn = h.now()
		return h.db.UpdateUser(ctx, user)
	})
	if err != nil {
		return nil, fmt.Errorf("upsert user %s: %w", id.OpenID, err)
	}
	return user, nil
}

func (h *Handler) notifyPending(ctx context.Context, user *database.User) error {
	admins, err := h.db.ListApprovedAdmins(ctx)
	if err != nil {
		return err
	}
	for _, admin := range admins {
		n := &database.Notification{
			UserID:        admin.ID,
			Type:          database.NotificationUserPending,
			Title:         "Nouvelle demande d'accès",
			Message:       user.DisplayName() + " demande l'accès à l'application",
			RelatedUserID: &user.ID,
		}
		if err := h.db.CreateNotification(ctx, n); err != nil {
			return err
		}
	}
	h.logger.Info("new account awaiting approval",
		zap.Uint("user_id", user.ID),
		zap.Int("notified_admins", len(admins)))
	return nil
}
