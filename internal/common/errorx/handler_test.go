package errorx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guichet-numerique/carrousel/internal/carrousel"
	"github.com/guichet-numerique/carrousel/internal/common/cnst"
	"github.com/guichet-numerique/carrousel/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type errorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		TraceID string            `json:"traceId"`
		Details []carrousel.Issue `json:"details"`
	} `json:"error"`
}

func serve(t *testing.T, err error, lang string) (*httptest.ResponseRecorder, errorBody) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tr, ierr := i18n.New("fr")
	require.NoError(t, ierr)
	h := NewErrorHandler(zap.NewNop(), tr)

	r := gin.New()
	r.Use(tr.Middleware())
	r.GET("/x", func(c *gin.Context) { h.HandleError(c, err) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if lang != "" {
		req.Header.Set(cnst.XLang, lang)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHandleError_APIError(t *testing.T) {
	w, body := serve(t, ErrCarrouselNotFound, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
	assert.Equal(t, "Carrousel non trouvé", body.Error.Message)
	assert.NotEmpty(t, body.Error.TraceID)

	w, body = serve(t, ErrCarrouselNotFound, "en")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Carousel not found", body.Error.Message)
}

func TestHandleError_Params(t *testing.T) {
	w, body := serve(t, ErrEmailSend.WithParam("Reason", "connection refused"), "fr")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Erreur d'envoi d'email: connection refused", body.Error.Message)
}

func TestHandleError_ValidationError(t *testing.T) {
	verr := &carrousel.ValidationError{Issues: []carrousel.Issue{
		{Code: carrousel.IssueTooFew, Params: map[string]any{"Min": 2}},
		{Code: carrousel.IssueMissingTitle, Page: 1},
	}}
	w, body := serve(t, fmt.Errorf("create: %w", verr), "fr")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", body.Error.Code)
	assert.Equal(t,
		"Le carrousel est invalide : Vous devez créer au moins 2 slides intermédiaires ; Veuillez remplir la thématique et le titre",
		body.Error.Message)
	require.Len(t, body.Error.Details, 2)
	assert.Equal(t, carrousel.IssueTooFew, body.Error.Details[0].Code)
}

func TestHandleError_Fallbacks(t *testing.T) {
	w, body := serve(t, fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)

	w, body = serve(t, errors.New("db exploded"), "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", body.Error.Code)
	assert.NotContains(t, body.Error.Message, "exploded")
}

func TestAPIError_CopyOnWrite(t *testing.T) {
	a := ErrFileTooLarge.WithParam("MaxMB", 5)
	b := ErrFileTooLarge.WithParam("MaxMB", 10)
	assert.Nil(t, ErrFileTooLarge.Data)
	assert.Equal(t, "Le fichier dépasse la taille maximale de 5 Mo", a.Render())
	assert.Equal(t, "Le fichier dépasse la taille maximale de 10 Mo", b.Render())

	cause := errors.New("smtp: 535")
	wrapped := ErrEmailSend.WithParam("Reason", "535").Wrap(cause)
	assert.ErrorIs(t, wrapped, cause)
	assert.ErrorIs(t, wrapped, ErrEmailSend)
	assert.NotErrorIs(t, wrapped, ErrSmtpUnavailable)
}

func TestCode_HTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusPreconditionFailed, CodePreconditionFailed.HTTPStatus())
	assert.Equal(t, http.StatusUnauthorized, CodeUnauthorized.HTTPStatus())
	assert.Equal(t, http.StatusForbidden, ErrSuperAdminOnly.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, Code("OTHER").HTTPStatus())
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewErrorHandler(zap.NewNop(), nil)
	r := gin.New()
	r.Use(h.RecoveryMiddleware())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")
}
