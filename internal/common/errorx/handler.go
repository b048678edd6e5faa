package errorx

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/guichet-numerique/carrousel/internal/carrousel"
	"github.com/guichet-numerique/carrousel/internal/i18n"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrorHandler renders errors as {"error": {...}} with a localized message.
type ErrorHandler struct {
	logger     *zap.Logger
	translator *i18n.I18n
}

// NewErrorHandler creates a new error handler. translator may be nil, in
// which case the built-in French messages are used.
func NewErrorHandler(logger *zap.Logger, translator *i18n.I18n) *ErrorHandler {
	return &ErrorHandler{logger: logger, translator: translator}
}

// HandleError converts err, logs it and aborts the request with its JSON form.
func (h *ErrorHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	lang := i18n.LangFromContext(c)
	apiErr := h.Localize(ConvertToAPIError(err), lang)
	apiErr.TraceID = ExtractTraceID(c)
	apiErr.Timestamp = time.Now().UTC().Format(time.RFC3339)

	h.logError(c, apiErr, err)
	c.AbortWithStatusJSON(apiErr.HTTPStatus(), gin.H{"error": apiErr})
}

// Localize returns a copy of e whose Message is rendered in lang.
func (h *ErrorHandler) Localize(e *APIError, lang string) *APIError {
	out := e.clone()
	if issues, ok := e.Details.([]carrousel.Issue); ok {
		reasons := make([]string, 0, len(issues))
		for _, is := range issues {
			reasons = append(reasons, h.translate(is.Code, lang, is.Params, is.Code))
		}
		e = e.WithParam("Reason", strings.Join(reasons, " ; "))
	}
	out.Message = h.translate(e.MessageID, lang, e.Data, e.Render())
	return out
}

func (h *ErrorHandler) translate(msgID, lang string, data map[string]any, fallback string) string {
	if h.translator == nil || msgID == "" {
		return fallback
	}
	if msg := h.translator.Translate(msgID, lang, data); msg != "" {
		return msg
	}
	return fallback
}

// ConvertToAPIError maps any error onto an APIError. Slide validation
// failures become BAD_REQUEST with the issues as details, missing records
// NOT_FOUND and everything else INTERNAL_SERVER_ERROR.
func ConvertToAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	var verr *carrousel.ValidationError
	if errors.As(err, &verr) {
		return ErrSlideValidation.WithDetails(verr.Issues).Wrap(err)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound.Wrap(err)
	}
	return ErrInternal.Wrap(err)
}

func (h *ErrorHandler) logError(c *gin.Context, apiErr *APIError, originalErr error) {
	fields := []zap.Field{
		zap.String("trace_id", apiErr.TraceID),
		zap.String("error_code", string(apiErr.Code)),
		zap.String("message_id", apiErr.MessageID),
		zap.Int("http_status", apiErr.HTTPStatus()),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("client_ip", c.ClientIP()),
		zap.Error(originalErr),
	}
	if apiErr.Code == CodeInternal {
		h.logger.Error(apiErr.Message, fields...)
		return
	}
	h.logger.Info(apiErr.Message, fields...)
}

// RecoveryMiddleware turns panics into INTERNAL_SERVER_ERROR responses.
func (h *ErrorHandler) RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		h.logger.Error("panic recovered", zap.Any("panic", recovered), zap.Stack("stack"))
		h.HandleError(c, ErrInternal)
	})
}

// ExtractTraceID returns the request's trace ID, reusing X-Trace-Id when the
// caller sent one.
func ExtractTraceID(c *gin.Context) string {
	if traceID := c.GetString("trace_id"); traceID != "" {
		return traceID
	}
	traceID := c.GetHeader("X-Trace-Id")
	if traceID == "" {
		traceID = uuid.New().String()
	}
	c.Set("trace_id", traceID)
	return traceID
}
