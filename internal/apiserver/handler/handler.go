// Package handler implements the procedures of the API. Queries are served
// as GET /api/<router>/<procedure> with their input in the query string,
// mutations as POST with a JSON body.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/guichet-numerique/carrousel/internal/ai"
	"github.com/guichet-numerique/carrousel/internal/apiserver/access"
	"github.com/guichet-numerique/carrousel/internal/apiserver/database"
	"github.com/guichet-numerique/carrousel/internal/apiserver/middleware"
	"github.com/guichet-numerique/carrousel/internal/auth/jwt"
	"github.com/guichet-numerique/carrousel/internal/common/cnst"
	"github.com/guichet-numerique/carrousel/internal/common/config"
	"github.com/guichet-numerique/carrousel/internal/common/errorx"
	"github.com/guichet-numerique/carrousel/internal/emaillog"
	"github.com/guichet-numerique/carrousel/internal/mail"
	"github.com/guichet-numerique/carrousel/internal/storage"
	"github.com/guichet-numerique/carrousel/pkg/metrics"
	"github.com/guichet-numerique/carrousel/pkg/trace"
)

// Deps are the collaborators of the procedures. Metrics may be nil.
type Deps struct {
	DB       database.Database
	JWT      *jwt.Service
	Identity *jwt.IdentityVerifier
	Session  *middleware.Session
	Storage  storage.Storage
	Mailer   mail.Sender
	EmailLog *emaillog.Recorder
	AI       *ai.Client
	Metrics  *metrics.Metrics
	Errors   *errorx.ErrorHandler
	Logger   *zap.Logger
	Config   *config.APIServerConfig
	// Getenv reads the SMTP_* fallback settings. Defaults to os.Getenv.
	Getenv func(string) string
}

// Handler serves every procedure of the API.
type Handler struct {
	db       database.Database
	jwt      *jwt.Service
	identity *jwt.IdentityVerifier
	session  *middleware.Session
	storage  storage.Storage
	mailer   mail.Sender
	emailLog *emaillog.Recorder
	ai       *ai.Client
	metrics  *metrics.Metrics
	errs     *errorx.ErrorHandler
	logger   *zap.Logger
	cfg      *config.APIServerConfig
	getenv   func(string) string
	tracer   *trace.Builder
	now      func() time.Time
}

func New(d Deps) *Handler {
	if d.Getenv == nil {
		d.Getenv = os.Getenv
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Handler{
		db:       d.DB,
		jwt:      d.JWT,
		identity: d.Identity,
		session:  d.Session,
		storage:  d.Storage,
		mailer:   d.Mailer,
		emailLog: d.EmailLog,
		ai:       d.AI,
		metrics:  d.Metrics,
		errs:     d.Errors,
		logger:   d.Logger.Named("handler"),
		cfg:      d.Config,
		getenv:   d.Getenv,
		tracer:   trace.Tracer(cnst.TraceAPIServer),
		now:      time.Now,
	}
}

// RegisterRoutes mounts the procedures under /api.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	s := h.session
	api := r.Group("/api")

	public := api.Group("", s.Optional())
	public.POST("/auth/login", h.Login)
	public.GET("/auth/me", h.Me)
	public.POST("/auth/logout", h.Logout)
	public.GET("/slideTypes/list", h.ListSlideTypes)

	member := api.Group("", s.Required(), s.RequireApproved())
	admin := member.Group("", s.RequireAdmin())
	super := member.Group("", s.RequireSuperAdmin())

	member.POST("/users/updateProfile", h.UpdateProfile)
	admin.GET("/users/list", h.ListUsers)
	admin.GET("/users/pending", h.PendingUsers)
	admin.POST("/users/updateRole", h.UpdateUserRole)
	admin.POST("/users/delete", h.DeleteUser)
	admin.POST("/users/approve", h.ApproveUser)
	admin.POST("/users/reject", h.RejectUser)
	admin.POST("/users/block", h.BlockUser)
	admin.POST("/users/unblock", h.UnblockUser)

	member.POST("/carrousels/create", h.CreateCarrousel)
	member.GET("/carrousels/list", h.ListCarrousels)
	member.GET("/carrousels/getById", h.GetCarrousel)
	member.POST("/carrousels/update", h.UpdateCarrousel)
	member.POST("/carrousels/delete", h.DeleteCarrousel)
	member.GET("/carrousels/export", h.ExportCarrousel)
	member.POST("/carrousels/exportMany", h.ExportCarrousels)

	admin.POST("/slideTypes/upsert", h.UpsertSlideType)
	admin.POST("/slideTypes/create", h.CreateSlideType)
	admin.POST("/slideTypes/toggle", h.ToggleSlideType)
	admin.POST("/slideTypes/delete", h.DeleteSlideType)
	super.POST("/slideTypes/updateImage", h.UpdateSlideTypeImage)

	member.POST("/email/sendCarrousel", h.SendCarrousel)
	admin.GET("/email/getLogs", h.EmailLogs)
	admin.POST("/email/clearLogs", h.ClearEmailLogs)
	admin.GET("/email/testSmtpConfig", h.TestSmtpConfig)

	super.GET("/smtp/get", h.GetSmtpConfig)
	super.POST("/smtp/update", h.UpdateSmtpConfig)

	super.GET("/ai/getConfig", h.GetAiConfig)
	super.POST("/ai/updateConfig", h.UpdateAiConfig)
	member.POST("/ai/generateImageDescription", h.GenerateImageDescription)

	admin.GET("/audit/list", h.ListAuditLogs)
	admin.POST("/audit/clear", h.ClearAuditLogs)

	member.GET("/notifications/list", h.ListNotifications)
	member.GET("/notifications/unreadCount", h.UnreadNotifications)
	member.POST("/notifications/markAsRead", h.MarkNotificationRead)
	member.POST("/notifications/markAllAsRead", h.MarkAllNotificationsRead)
	member.POST("/notifications/delete", h.DeleteNotification)

	member.GET("/thematiques/search", h.SearchThematiques)

	member.GET("/brand/getConfig", h.GetBrandConfig)
	admin.POST("/brand/updateConfig", h.UpdateBrandConfig)
	admin.POST("/brand/uploadLogo", h.UploadBrandLogo)

	member.GET("/slideConfigRouter/getConfig", h.GetSlideConfig)
	admin.POST("/slideConfigRouter/updateConfig", h.UpdateSlideConfig)

	member.GET("/help/list", h.ListHelp)
	admin.GET("/help/listAdmin", h.ListHelpAdmin)
	admin.POST("/help/create", h.CreateHelp)
	admin.POST("/help/delete", h.DeleteHelp)
	admin.POST("/help/uploadFile", h.UploadHelpFile)
}

func (h *Handler) fail(c *gin.Context, err error) {
	h.errs.HandleError(c, err)
}

func (h *Handler) ok(c *gin.Context, v any) {
	c.JSON(http.StatusOK, v)
}

func (h *Handler) bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		h.fail(c, errorx.ErrInvalidInput.WithParam("Reason", err.Error()).Wrap(err))
		return false
	}
	return true
}

func (h *Handler) bindQuery(c *gin.Context, v any) bool {
	if err := c.ShouldBindQuery(v); err != nil {
		h.fail(c, errorx.ErrInvalidInput.WithParam("Reason", err.Error()).Wrap(err))
		return false
	}
	return true
}

// currentUser is set by the session middleware on every gated route.
func currentUser(c *gin.Context) *database.User {
	u, _ := access.UserFrom(c.Request.Context())
	return u
}

// notFound swaps a missing-record error for a resource specific one.
func notFound(err error, apiErr *errorx.APIError) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apiErr.Wrap(err)
	}
	return err
}

// audit appends to the audit trail. A failed write is logged and never
// fails the request that triggered it.
func (h *Handler) audit(ctx context.Context, actor *database.User, action cnst.AuditAction,
	entityType string, entityID *uint, details any) {
	entry := &database.AuditLog{
		UserID:     actor.ID,
		UserName:   actor.DisplayName(),
		Action:     string(action),
		EntityType: entityType,
		EntityID:   entityID,
	}
	if details != nil {
		raw, err := json.Marshal(details)
		if err == nil {
			entry.Details = datatypes.JSON(raw)
		}
	}
	if err := h.db.CreateAuditLog(ctx, entry); err != nil {
		h.logger.Warn("failed to write audit entry",
			zap.String("action", string(action)),
			zap.Uint("actor_id", actor.ID),
			zap.Error(err))
	}
}

func idRef(id uint) *uint { return &id }
