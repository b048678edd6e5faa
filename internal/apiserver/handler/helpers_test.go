package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/guichet-numerique/carrousel/internal/ai"
	"github.com/guichet-numerique/carrousel/internal/apiserver/database"
	"github.com/guichet-numerique/carrousel/internal/apiserver/middleware"
	jsvc "github.com/guichet-numerique/carrousel/internal/auth/jwt"
	"github.com/guichet-numerique/carrousel/internal/common/config"
	"github.com/guichet-numerique/carrousel/internal/common/errorx"
	"github.com/guichet-numerique/carrousel/internal/emaillog"
	"github.com/guichet-numerique/carrousel/internal/mail"
	"github.com/guichet-numerique/carrousel/internal/storage"
)

const (
	testSecret   = "this-is-a-very-long-secret-key-for-testing"
	testOwner    = "owner-open-id"
	loginPortal  = "https://portal.example.org/login"
	validSlides  = `[{"page":1,"type":"Titre","thematique":"Numérique responsable","titre":"Bien débuter"},{"page":2,"type":"type1","texte1":"Éteindre sa box la nuit","promptImage1":"une box"},{"page":3,"type":"type4","texte1":"Le meilleur déchet est celui qu'on ne produit pas","auteur":"Béa Johnson"},{"page":10,"type":"Finale","expert":"Ada Martin","expertise":"Conseillère numérique","url":"https://example.org"}]`
	uploadPrefix = "/uploads"
)

type fakeMailer struct {
	mu       sync.Mutex
	sent     []mail.Message
	settings []*mail.Settings
	err      error
}

func (m *fakeMailer) Send(_ context.Context, s *mail.Settings, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	m.settings = append(m.settings, s)
	return nil
}

type testEnv struct {
	t        *testing.T
	db       database.Database
	jwt      *jsvc.Service
	identity *jsvc.IdentityVerifier
	mailer   *fakeMailer
	emailLog *emaillog.Recorder
	store    *storage.DiskStorage
	env      map[string]string
	router   *gin.Engine
}

type envOption func(*Deps)

func withAI(baseURL string) envOption {
	return func(d *Deps) {
		d.AI = ai.NewClient(zap.NewNop(), 5*time.Second,
			ai.WithBaseURL("openai", baseURL),
			ai.WithBaseURL("infomaniak", baseURL))
	}
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	db, err := database.NewDatabase(&config.DatabaseConfig{Type: "sqlite", DBName: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.SeedDefaults(ctx, db, database.SeedOptions{}))

	jwtSvc, err := jsvc.NewService(jsvc.Config{SecretKey: testSecret, Duration: time.Hour})
	require.NoError(t, err)
	identity, err := jsvc.NewIdentityVerifier(testSecret, "")
	require.NoError(t, err)

	store, err := storage.NewDiskStorage(zap.NewNop(), t.TempDir(), uploadPrefix)
	require.NoError(t, err)

	cfg := &config.APIServerConfig{}
	cfg.JWT.CookieName = "app_session_id"
	cfg.Owner.OpenID = testOwner
	cfg.Identity.LoginURL = loginPortal

	errs := errorx.NewErrorHandler(zap.NewNop(), nil)
	e := &testEnv{
		t:        t,
		db:       db,
		jwt:      jwtSvc,
		identity: identity,
		mailer:   &fakeMailer{},
		emailLog: emaillog.NewRecorder(emaillog.NewMemory(emaillog.DefaultCapacity), zap.NewNop()),
		store:    store,
		env:      map[string]string{},
	}

	deps := Deps{
		DB:       db,
		JWT:      jwtSvc,
		Identity: identity,
		Session:  middleware.NewSession(jwtSvc, db, cfg.JWT.CookieName, loginPortal, errs, zap.NewNop()),
		Storage:  store,
		Mailer:   e.mailer,
		EmailLog: e.emailLog,
		AI:       ai.NewClient(zap.NewNop(), 5*time.Second),
		Errors:   errs,
		Logger:   zap.NewNop(),
		Config:   cfg,
		Getenv:   func(k string) string { return e.env[k] },
	}
	for _, opt := range opts {
		opt(&deps)
	}

	e.router = gin.New()
	New(deps).RegisterRoutes(e.router)
	return e
}

// user creates an account and returns it with a session token.
func (e *testEnv) user(openID string, role database.UserRole, status database.UserStatus) (*database.User, string) {
	e.t.Helper()
	u := &database.User{OpenID: openID, Name: openID, Email: openID + "@example.org", Role: role, Status: status}
	require.NoError(e.t, e.db.CreateUser(context.Background(), u))
	tok, err := e.jwt.GenerateToken(u.ID, u.OpenID, string(u.Role))
	require.NoError(e.t, err)
	return u, tok
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(path, token string, query url.Values) *httptest.ResponseRecorder {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return e.do(http.MethodGet, path, token, nil)
}

func (e *testEnv) post(path, token string, body any) *httptest.ResponseRecorder {
	return e.do(http.MethodPost, path, token, body)
}

// createCarrousel saves validSlides for token and returns the new id.
func (e *testEnv) createCarrousel(token string) uint {
	e.t.Helper()
	w := e.post("/api/carrousels/create", token, map[string]any{
		"titre":      "Bien débuter",
		"thematique": "Numérique responsable",
		"slides":     validSlides,
	})
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		ID uint `json:"id"`
	}
	decode(e.t, w, &resp)
	return resp.ID
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

type errorBody struct {
	Error struct {
		Code    string          `json:"code"`
		Reason  string          `json:"reason"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func apiError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var b errorBody
	decode(t, w, &b)
	return b
}
