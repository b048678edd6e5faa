package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/guichet-numerique/carrousel/internal/apiserver/access"
	"github.com/guichet-numerique/carrousel/internal/apiserver/database"
	"github.com/guichet-numerique/carrousel/internal/auth/jwt"
	"github.com/guichet-numerique/carrousel/internal/common/errorx"
)

// Session resolves the session token of a request into the current user.
type Session struct {
	jwt        *jwt.Service
	db         database.Database
	cookieName string
	loginURL   string
	errs       *errorx.ErrorHandler
	logger     *zap.Logger
}

func NewSession(jwtService *jwt.Service, db database.Database, cookieName, loginURL string,
	errs *errorx.ErrorHandler, logger *zap.Logger) *Session {
	return &Session{
		jwt:        jwtService,
		db:         db,
		cookieName: cookieName,
		loginURL:   loginURL,
		errs:       errs,
		logger:     logger,
	}
}

// Token returns the session token from the cookie or the Authorization header.
func (s *Session) Token(c *gin.Context) string {
	if tok, err := c.Cookie(s.cookieName); err == nil && tok != "" {
		return tok
	}
	h := c.GetHeader("Authorization")
	if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(tok)
	}
	return ""
}

func (s *Session) user(c *gin.Context) *database.User {
	tok := s.Token(c)
	if tok == "" {
		return nil
	}
	claims, err := s.jwt.ValidateToken(tok)
	if err != nil {
		s.logger.Debug("rejected session token", zap.Error(err))
		return nil
	}
	u, err := s.db.GetUserByID(c.Request.Context(), claims.UserID)
	if err != nil || u.OpenID != claims.OpenID {
		return nil
	}
	return u
}

func attach(c *gin.Context, u *database.User) {
	c.Request = c.Request.WithContext(access.WithUser(c.Request.Context(), u))
}

// Optional loads the current user when the request carries a valid session.
func (s *Session) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if u := s.user(c); u != nil {
			attach(c, u)
		}
		c.Next()
	}
}

// Required rejects requests without a valid session, pointing the client at
// the login portal.
func (s *Session) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := s.user(c)
		if u == nil {
			s.errs.HandleError(c, errorx.ErrUnauthorized.WithDetails(gin.H{"loginUrl": s.loginURL}))
			return
		}
		attach(c, u)
		c.Next()
	}
}

// RequireApproved lets only approved accounts through.
func (s *Session) RequireApproved() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := access.UserFrom(c.Request.Context())
		if !ok {
			s.errs.HandleError(c, errorx.ErrUnauthorized.WithDetails(gin.H{"loginUrl": s.loginURL}))
			return
		}
		if err := access.CheckStatus(u); err != nil {
			s.errs.HandleError(c, err)
			return
		}
		c.Next()
	}
}

// RequireAdmin lets admins and super admins through.
func (s *Session) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, _ := access.UserFrom(c.Request.Context())
		if !access.IsAdmin(u) {
			s.errs.HandleError(c, errorx.ErrForbidden)
			return
		}
		c.Next()
	}
}

// RequireSuperAdmin lets only super admins through.
func (s *Session) RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, _ := access.UserFrom(c.Request.Context())
		if !access.IsSuperAdmin(u) {
			s.errs.HandleError(c, errorx.ErrSuperAdminOnly)
			return
		}
		c.Next()
	}
}
