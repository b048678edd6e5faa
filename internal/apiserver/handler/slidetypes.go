package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guichet-numerique/carrousel/internal/apiserver/database"
	"github.com/guichet-numerique/carrousel/internal/carrousel"
	"github.com/guichet-numerique/carrousel/internal/common/cnst"
	"github.com/guichet-numerique/carrousel/internal/common/dto"
	"github.com/guichet-numerique/carrousel/internal/common/errorx"
	"github.com/guichet-numerique/carrousel/internal/storage"
)

// ListSlideTypes returns the whole registry, reserved keys included.
func (h *Handler) ListSlideTypes(c *gin.Context) {
	types, err := h.db.ListSlideTypes(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, types)
}

func (h *Handler) UpsertSlideType(c *gin.Context) {
	var req dto.UpsertSlideTypeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	active := req.IsActive == "true"
	// bookend kinds always stay available
	if carrousel.IsReservedKey(req.TypeKey) && !active {
		h.fail(c, errorx.ErrReservedSlideType)
		return
	}
	h.saveSlideType(c, &database.SlideTypeConfig{
		TypeKey:   strings.TrimSpace(req.TypeKey),
		Label:     strings.TrimSpace(req.Label),
		CharLimit: req.CharLimit,
		IsActive:  active,
	}, cnst.ActionUpsertSlideType)
}

func (h *Handler) CreateSlideType(c *gin.Context) {
	var req dto.CreateSlideTypeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.saveSlideType(c, &database.SlideTypeConfig{
		TypeKey:   strings.TrimSpace(req.TypeKey),
		Label:     strings.TrimSpace(req.Label),
		CharLimit: req.CharLimit,
		IsActive:  true,
	}, cnst.ActionCreateSlideType)
}

func (h *Handler) saveSlideType(c *gin.Context, st *database.SlideTypeConfig, action cnst.AuditAction) {
	ctx := c.Request.Context()
	if err := h.db.UpsertSlideType(ctx, st); err != nil {
		h.fail(c, err)
		return
	}
	h.audit(ctx, currentUser(c), action, cnst.EntitySlideType, idRef(st.ID), map[string]any{
		"typeKey":   st.TypeKey,
		"label":     st.Label,
		"charLimit": st.CharLimit,
		"isActive":  st.IsActive,
	})
	h.ok(c, dto.OK)
}

func (h *Handler) ToggleSlideType(c *gin.Context) {
	var req dto.ToggleSlideTypeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if carrousel.IsReservedKey(req.TypeKey) {
		h.fail(c, errorx.ErrReservedSlideType)
		return
	}
	ctx := c.Request.Context()
	active := req.IsActive == "true"
	if err := h.db.SetSlideTypeActive(ctx, req.TypeKey, active); err != nil {
		h.fail(c, notFound(err, errorx.ErrSlideTypeNotFound))
		return
	}
	h.audit(ctx, currentUser(c), cnst.ActionToggleSlideType, cnst.EntitySlideType, nil, map[string]any{
		"typeKey":  req.TypeKey,
		"isActive": active,
	})
	h.ok(c, dto.OK)
}

func (h *Handler) DeleteSlideType(c *gin.Context) {
	var req dto.SlideTypeKeyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if carrousel.IsReservedKey(req.TypeKey) {
		h.fail(c, errorx.ErrReservedSlideType)
		return
	}
	ctx := c.Request.Context()
	if err := h.db.DeleteSlideType(ctx, req.TypeKey); err != nil {
		h.fail(c, notFound(err, errorx.ErrSlideTypeNotFound))
		return
	}
	h.audit(ctx, currentUser(c), cnst.ActionDeleteSlideType, cnst.EntitySlideType, nil, map[string]any{
		"typeKey": req.TypeKey,
	})
	h.ok(c, dto.OK)
}

// UpdateSlideTypeImage stores the preview image of a slide type.
func (h *Handler) UpdateSlideTypeImage(c *gin.Context) {
	var req dto.UpdateSlideImageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	if _, err := h.db.GetSlideType(ctx, req.TypeKey); err != nil {
		h.fail(c, notFound(err, errorx.ErrSlideTypeNotFound))
		return
	}
	data, _, err := storage.DecodeData(req.ImageData)
	if err != nil {
		h.fail(c, errorx.ErrInvalidFileData.Wrap(err))
		return
	}

	ext := storage.Extension(req.FileName, "png")
	key := storage.ObjectKey(storage.PrefixSlideImages, req.TypeKey, ext, h.now())
	url, err := h.storage.Put(ctx, key, data, storage.ImageContentType(ext))
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.db.SetSlideTypeImage(ctx, req.TypeKey, url); err != nil {
		h.fail(c, notFound(err, errorx.ErrSlideTypeNotFound))
		return
	}

	h.audit(ctx, currentUser(c), cnst.ActionUpdateSlideImage, cnst.EntitySlideType, nil, map[string]any{
		"typeKey":  req.TypeKey,
		"imageUrl": url,
	})
	h.ok(c, dto.SlideImageResponse{Success: true, ImageURL: url})
}
