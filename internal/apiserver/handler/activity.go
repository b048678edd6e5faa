package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guichet-numerique/carrousel/internal/apiserver/database"
	"github.com/guichet-numerique/carrousel/internal/common/cnst"
	"github.com/guichet-numerique/carrousel/internal/common/dto"
	"github.com/guichet-numerique/carrousel/internal/common/errorx"
	"github.com/guichet-numerique/carrousel/internal/storage"
)

const (
	defaultAuditLimit = 100
	thematiqueResults = 10
)

// Audit trail

func (h *Handler) ListAuditLogs(c *gin.Context) {
	var q dto.AuditListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultAuditLimit
	}
	logs, err := h.db.ListAuditLogs(c.Request.Context(), q.Limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, logs)
}

// ClearAuditLogs empties the trail, then records who did it.
func (h *Handler) ClearAuditLogs(c *gin.Context) {
	ctx := c.Request.Context()
	user := currentUser(c)
	if err := h.db.ClearAuditLogs(ctx); err != nil {
		h.fail(c, err)
		return
	}
	h.audit(ctx, user, cnst.ActionClearAuditLog, cnst.EntityAuditLog, nil, map[string]any{
		"clearedBy": user.DisplayName(),
	})
	h.ok(c, dto.OK)
}

// Notifications of the current user

func (h *Handler) ListNotifications(c *gin.Context) {
	list, err := h.db.ListNotifications(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, list)
}

func (h *Handler) UnreadNotifications(c *gin.Context) {
	n, err := h.db.CountUnreadNotifications(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, dto.UnreadCountResponse{Count: n})
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	var req dto.NotificationIDRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.db.MarkNotificationRead(c.Request.Context(), currentUser(c).ID, req.NotificationID); err != nil {
		h.fail(c, notFound(err, errorx.ErrNotificationNotFound))
		return
	}
	h.ok(c, dto.OK)
}

func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	if err := h.db.MarkAllNotificationsRead(c.Request.Context(), currentUser(c).ID); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, dto.OK)
}

func (h *Handler) DeleteNotification(c *gin.Context) {
	var req dto.NotificationIDRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.db.DeleteNotification(c.Request.Context(), currentUser(c).ID, req.NotificationID); err != nil {
		h.fail(c, notFound(err, errorx.ErrNotificationNotFound))
		return
	}
	h.ok(c, dto.OK)
}

// SearchThematiques suggests previously used themes, most used first.
func (h *Handler) SearchThematiques(c *gin.Context) {
	var q dto.ThematiqueQuery
	if !h.bindQuery(c, &q) {
		return
	}
	list, err := h.db.SearchThematiques(c.Request.Context(), strings.TrimSpace(q.SearchTerm), thematiqueResults)
	if err != nil {
		h.fail(c, err)
		return
	}
	names := make([]string, 0, len(list))
	for _, t := range list {
		names = append(names, t.Name)
	}
	h.ok(c, names)
}

// Help page

func (h *Handler) ListHelp(c *gin.Context) {
	h.listHelp(c, true)
}

func (h *Handler) ListHelpAdmin(c *gin.Context) {
	h.listHelp(c, false)
}

func (h *Handler) listHelp(c *gin.Context, activeOnly bool) {
	list, err := h.db.ListHelpResources(c.Request.Context(), activeOnly)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, list)
}

func (h *Handler) CreateHelp(c *gin.Context) {
	var req dto.CreateHelpRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	r := &database.HelpResource{
		Type:         req.Type,
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		URL:          strings.TrimSpace(req.URL),
		DisplayOrder: req.DisplayOrder,
		IsActive:     true,
	}
	if err := h.db.CreateHelpResource(ctx, r); err != nil {
		h.fail(c, err)
		return
	}
	h.audit(ctx, currentUser(c), cnst.ActionCreateHelpResource, cnst.EntityHelpResource, idRef(r.ID), map[string]any{
		"type":  r.Type,
		"title": r.Title,
	})
	h.ok(c, dto.IDResponse{Success: true, ID: r.ID})
}

func (h *Handler) DeleteHelp(c *gin.Context) {
	var req dto.HelpIDRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	if err := h.db.DeleteHelpResource(ctx, req.ID); err != nil {
		h.fail(c, notFound(err, errorx.ErrHelpResourceNotFound))
		return
	}
	h.audit(ctx, currentUser(c), cnst.ActionDeleteHelpResource, cnst.EntityHelpResource, idRef(req.ID), nil)
	h.ok(c, dto.OK)
}

// UploadHelpFile stores a document for a help resource and returns its URL.
func (h *Handler) UploadHelpFile(c *gin.Context) {
	var req dto.UploadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	data, mime, err := storage.DecodeData(req.FileData)
	if err != nil {
		h.fail(c, errorx.ErrInvalidFileData.Wrap(err))
		return
	}
	if len(data) > maxHelpFileBytes {
		h.fail(c, errorx.ErrFileTooLarge.WithParam("MaxMB", maxHelpFileBytes>>20))
		return
	}
	if req.MimeType != "" {
		mime = req.MimeType
	}
	if mime == "" {
		mime = "application/octet-stream"
	}

	url, err := h.storage.Put(c.Request.Context(), storage.UniqueKey(storage.PrefixHelpFiles, req.FileName), data, mime)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, dto.URLResponse{Success: true, URL: url})
}
