package handler

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/guichet-numerique/carrousel/internal/ai"
	"github.com/guichet-numerique/carrousel/internal/apiserver/database"
	"github.com/guichet-numerique/carrousel/internal/common/cnst"
	"github.com/guichet-numerique/carrousel/internal/common/dto"
	"github.com/guichet-numerique/carrousel/internal/common/errorx"
	"github.com/guichet-numerique/carrousel/internal/storage"
)

// Bounds accepted for the slide count configuration.
const (
	minSlidesFloor   = 2
	maxSlidesCeiling = 100
)

// Upload limits.
const (
	maxLogoBytes     = 5 << 20
	maxHelpFileBytes = 10 << 20
	maxBrandDescLen  = 250
)

// SMTP

func smtpResponse(cfg *database.SmtpConfig) *dto.SmtpConfigResponse {
	if cfg == nil {
		return nil
	}
	return &dto.SmtpConfigResponse{
		Host:             cfg.Host,
		Port:             cfg.Port,
		Secure:           cfg.Secure,
		User:             cfg.User,
		HasPass:          cfg.Pass != "",
		From:             cfg.From,
		DestinationEmail: cfg.DestinationEmail,
	}
}

func (h *Handler) GetSmtpConfig(c *gin.Context) {
	cfg, err := h.db.GetSmtpConfig(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, smtpResponse(cfg))
}

func (h *Handler) UpdateSmtpConfig(c *gin.Context) {
	var req dto.UpdateSmtpRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	cfg, err := h.db.GetSmtpConfig(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	if cfg == nil {
		cfg = &database.SmtpConfig{}
	}
	cfg.Host = strings.TrimSpace(req.Host)
	cfg.Port = req.Port
	cfg.Secure = req.Secure
	cfg.User = strings.TrimSpace(req.User)
	if req.Pass != "" {
		cfg.Pass = req.Pass
	}
	cfg.From = strings.TrimSpace(req.From)
	cfg.DestinationEmail = strings.TrimSpace(req.DestinationEmail)
	if err := h.db.SaveSmtpConfig(ctx, cfg); err != nil {
		h.fail(c, err)
		return
	}

	h.audit(ctx, currentUser(c), cnst.ActionUpdateSmtpConfig, cnst.EntitySmtpConfig, nil, map[string]any{
		"message": "Configuration SMTP mise à jour",
	})
	h.ok(c, dto.OK)
}

// AI

func aiResponse(cfg *database.AiConfig) *dto.AiConfigResponse {
	if cfg == nil {
		return nil
	}
	return &dto.AiConfigResponse{
		Provider:         cfg.Provider,
		HasAPIToken:      cfg.APIToken != "",
		ProductID:        cfg.ProductID,
		OrganizationID:   cfg.OrganizationID,
		AnthropicVersion: cfg.AnthropicVersion,
		Model:            cfg.Model,
		MaxTokens:        cfg.MaxTokens,
		Temperature:      cfg.Temperature,
		IsEnabled:        cfg.IsEnabled,
	}
}

func (h *Handler) GetAiConfig(c *gin.Context) {
	cfg, err := h.db.GetAiConfig(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, aiResponse(cfg))
}

func (h *Handler) UpdateAiConfig(c *gin.Context) {
	var req dto.UpdateAiConfigRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	cfg, err := h.db.GetAiConfig(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	if cfg == nil {
		cfg = &database.AiConfig{
			Provider:    "infomaniak",
			MaxTokens:   ai.DefaultMaxTokens,
			Temperature: ai.DefaultTemperature,
		}
	}

	var updated []string
	set := func(name string, dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
			updated = append(updated, name)
		}
	}
	set("provider", &cfg.Provider, req.Provider)
	set("productId", &cfg.ProductID, req.ProductID)
	set("organizationId", &cfg.OrganizationID, req.OrganizationID)
	set("anthropicVersion", &cfg.AnthropicVersion, req.AnthropicVersion)
	set("model", &cfg.Model, req.Model)
	if req.APIToken != nil && *req.APIToken != "" {
		cfg.APIToken = strings.TrimSpace(*req.APIToken)
		updated = append(updated, "apiToken")
	}
	if req.MaxTokens != nil {
		cfg.MaxTokens = *req.MaxTokens
		updated = append(updated, "maxTokens")
	}
	if req.Temperature != nil {
		cfg.Temperature = *req.Temperature
		updated = append(updated, "temperature")
	}
	if req.IsEnabled != nil {
		cfg.IsEnabled = *req.IsEnabled
		updated = append(updated, "isEnabled")
	}

	if err := h.db.SaveAiConfig(ctx, cfg); err != nil {
		h.fail(c, err)
		return
	}
	h.audit(ctx, currentUser(c), cnst.ActionUpdateAiConfig, cnst.EntityAiConfig, nil, map[string]any{
		"updatedFields": updated,
	})
	h.ok(c, dto.OK)
}

// GenerateImageDescription asks the configured vendor for an image prompt
// illustrating a slide's text.
func (h *Handler) GenerateImageDescription(c *gin.Context) {
	var req dto.GenerateDescriptionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cfg, err := h.db.GetAiConfig(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if cfg == nil || !cfg.IsEnabled || cfg.APIToken == "" {
		h.fail(c, errorx.ErrAiNotConfigured)
		return
	}

	span := h.tracer.Start(c.Request.Context(), cnst.SpanAIGenerate).
		WithAttrs(
			attribute.String(cnst.AttrAIProvider, cfg.Provider),
			attribute.String(cnst.AttrAIModel, cfg.Model))
	defer span.End()
	start := time.Now()

	desc, err := h.ai.Generate(span.Ctx, ai.Config{
		Provider:         cfg.Provider,
		APIToken:         cfg.APIToken,
		ProductID:        cfg.ProductID,
		OrganizationID:   cfg.OrganizationID,
		AnthropicVersion: cfg.AnthropicVersion,
		Model:            cfg.Model,
		MaxTokens:        cfg.MaxTokens,
		Temperature:      cfg.Temperature,
	}, req.TextContent)
	h.metrics.AIGenerationDone(cfg.Provider, start, err)
	if err != nil {
		span.Fail(err)
		h.fail(c, errorx.ErrAiGeneration.WithParam("Reason", err.Error()).Wrap(err))
		return
	}
	h.ok(c, dto.GenerateDescriptionResponse{Description: desc})
}

// Brand

func (h *Handler) GetBrandConfig(c *gin.Context) {
	cfg, err := h.db.GetBrandConfig(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, cfg)
}

func (h *Handler) UpdateBrandConfig(c *gin.Context) {
	var req dto.UpdateBrandRequest
	if !h.bindJSON(c, &req) {
		return
	}
	name := strings.TrimSpace(req.OrganizationName)
	desc := strings.TrimSpace(req.Description)
	if name == "" {
		h.fail(c, errorx.ErrBrandNameRequired)
		return
	}
	if utf8.RuneCountInString(desc) > maxBrandDescLen {
		h.fail(c, errorx.ErrBrandDescriptionTooLong)
		return
	}
	ctx := c.Request.Context()

	cfg, err := h.db.GetBrandConfig(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	if cfg == nil {
		cfg = &database.BrandConfig{}
	}
	cfg.OrganizationName = name
	cfg.Description = desc
	if req.LogoURL != nil {
		cfg.LogoURL = req.LogoURL
	}
	if err := h.db.SaveBrandConfig(ctx, cfg); err != nil {
		h.fail(c, err)
		return
	}

	h.audit(ctx, currentUser(c), cnst.ActionUpdateBrandConfig, cnst.EntityBrandConfig, nil, map[string]any{
		"organizationName": name,
	})
	h.ok(c, dto.OK)
}

// UploadBrandLogo stores a logo image and returns its URL. The brand
// configuration is updated separately by UpdateBrandConfig.
func (h *Handler) UploadBrandLogo(c *gin.Context) {
	var req dto.UploadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	data, mime, err := storage.DecodeData(req.FileData)
	if err != nil {
		h.fail(c, errorx.ErrInvalidFileData.Wrap(err))
		return
	}
	if req.MimeType != "" {
		mime = req.MimeType
	}
	if !strings.HasPrefix(mime, "image/") {
		h.fail(c, errorx.ErrInvalidImage)
		return
	}
	if len(data) > maxLogoBytes {
		h.fail(c, errorx.ErrFileTooLarge.WithParam("MaxMB", maxLogoBytes>>20))
		return
	}
	ctx := c.Request.Context()

	ext := storage.Extension(req.FileName, "png")
	url, err := h.storage.Put(ctx, storage.ObjectKey(storage.PrefixBrand, "logo", ext, h.now()), data, mime)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.audit(ctx, currentUser(c), cnst.ActionUploadBrandLogo, cnst.EntityBrandConfig, nil, map[string]any{
		"fileName": req.FileName,
		"url":      url,
	})
	h.ok(c, dto.URLResponse{Success: true, URL: url})
}

// Slide count bounds

func (h *Handler) GetSlideConfig(c *gin.Context) {
	cfg, err := h.db.GetSlideConfig(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if cfg == nil {
		cfg = &database.SlideConfig{MinSlides: database.DefaultMinSlides, MaxSlides: database.DefaultMaxSlides}
	}
	h.ok(c, cfg)
}

func (h *Handler) UpdateSlideConfig(c *gin.Context) {
	var req dto.UpdateSlideConfigRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if req.MinSlides < minSlidesFloor || req.MinSlides > req.MaxSlides || req.MaxSlides > maxSlidesCeiling {
		h.fail(c, errorx.ErrSlideConfigBounds)
		return
	}
	ctx := c.Request.Context()

	cfg, err := h.db.GetSlideConfig(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	if cfg == nil {
		cfg = &database.SlideConfig{}
	}
	previous := map[string]int{"minSlides": cfg.MinSlides, "maxSlides": cfg.MaxSlides}
	cfg.MinSlides, cfg.MaxSlides = req.MinSlides, req.MaxSlides
	if err := h.db.SaveSlideConfig(ctx, cfg); err != nil {
		h.fail(c, err)
		return
	}

	h.audit(ctx, currentUser(c), cnst.ActionUpdateSlideConfig, cnst.EntitySlideConfig, nil, map[string]any{
		"previous":  previous,
		"minSlides": cfg.MinSlides,
		"maxSlides": cfg.MaxSlides,
	})
	h.ok(c, cfg)
}
