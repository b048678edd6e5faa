package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/guichet-numerique/carrousel/internal/common/cnst"
	"github.com/guichet-numerique/carrousel/internal/common/dto"
	"github.com/guichet-numerique/carrousel/internal/common/errorx"
	"github.com/guichet-numerique/carrousel/internal/mail"
	"github.com/guichet-numerique/carrousel/internal/spreadsheet"
)

// SendCarrousel mails a carousel's workbook to emailTo, or to the
// configured destination address.
func (h *Handler) SendCarrousel(c *gin.Context) {
	var req dto.SendCarrouselRequest
	if !h.bindJSON(c, &req) {
		return
	}
	span := h.tracer.Start(c.Request.Context(), cnst.SpanSendEmail).
		WithAttrs(attribute.Int(cnst.AttrCarrouselID, int(req.CarrouselID)))
	defer span.End()
	ctx := span.Ctx

	car, err := h.loadCarrousel(c, req.CarrouselID)
	if err != nil {
		h.fail(c, err)
		return
	}

	stored, err := h.db.GetSmtpConfig(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	to := req.EmailTo
	if to == "" && stored != nil {
		to = stored.DestinationEmail
	}
	if to == "" {
		h.fail(c, errorx.ErrNoDestinationEmail)
		return
	}

	file, err := h.workbook(ctx, car)
	if err != nil {
		h.fail(c, err)
		return
	}

	logData := map[string]any{"to": to, "carrouselId": car.ID, "titre": car.Titre}
	h.emailLog.Info(ctx, "Préparation de l'envoi du carrousel", logData)

	settings := mail.Resolve(stored, h.getenv)
	if settings == nil {
		h.emailLog.Error(ctx, "Configuration SMTP indisponible", logData)
		h.metrics.EmailDone(mail.ErrNotConfigured)
		h.fail(c, errorx.ErrSmtpUnavailable)
		return
	}

	msg := mail.CarrouselMessage(to, car.Titre, car.Thematique, mail.Attachment{
		Name:        file.Name,
		ContentType: spreadsheet.ContentType,
		Data:        file.Data,
	})
	err = h.mailer.Send(ctx, settings, msg)
	h.metrics.EmailDone(err)
	if err != nil {
		span.Fail(err)
		h.emailLog.Error(ctx, "Échec de l'envoi de l'email", map[string]any{
			"to":     to,
			"host":   settings.Host,
			"source": settings.Source,
			"error":  err.Error(),
		})
		if errors.Is(err, mail.ErrNotConfigured) {
			h.fail(c, errorx.ErrSmtpUnavailable.Wrap(err))
			return
		}
		h.fail(c, errorx.ErrEmailSend.WithParam("Reason", err.Error()).Wrap(err))
		return
	}

	h.emailLog.Info(ctx, "Email envoyé avec succès", map[string]any{
		"to":      to,
		"subject": msg.Subject,
		"source":  settings.Source,
		"sentAt":  h.now().Format(time.RFC3339),
	})
	h.ok(c, dto.OK)
}

func (h *Handler) EmailLogs(c *gin.Context) {
	entries, err := h.emailLog.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, entries)
}

func (h *Handler) ClearEmailLogs(c *gin.Context) {
	if err := h.emailLog.Clear(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, dto.OK)
}

// TestSmtpConfig reports the mail settings that would be used, without
// sending anything.
func (h *Handler) TestSmtpConfig(c *gin.Context) {
	stored, err := h.db.GetSmtpConfig(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := dto.SmtpTestResponse{Exists: stored != nil}
	if stored != nil {
		resp.Host, resp.Port, resp.Secure = stored.Host, stored.Port, stored.Secure
		resp.User, resp.HasPass, resp.From = stored.User, stored.Pass != "", stored.From
		resp.DestinationEmail = stored.DestinationEmail
	}
	if s := mail.Resolve(stored, h.getenv); s != nil {
		resp.Source = string(s.Source)
		resp.Host, resp.Port, resp.Secure = s.Host, s.Port, s.Secure
		resp.User, resp.HasPass, resp.From = s.User, s.Pass != "", s.From
		resp.IsValid = s.DestinationEmail != ""
	}
	h.ok(c, resp)
}
