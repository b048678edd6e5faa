package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/guichet-numerique/carrousel/internal/apiserver/database"
)

func TestSmtpConfig_SuperAdminOnly(t *testing.T) {
	e := newTestEnv(t)
	_, adminTok := e.user("a", database.RoleAdmin, database.StatusApproved)
	_, superTok := e.user("s", database.RoleSuperAdmin, database.StatusApproved)

	assert.Equal(t, http.StatusForbidden, e.get("/api/smtp/get", adminTok, nil).Code)

	w := e.get("/api/smtp/get", superTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())

	w = e.post("/api/smtp/update", superTok, map[string]any{
		"host": "smtp.example.org", "port": 587, "user": "bot", "pass": "hunter2",
		"from": "bot@example.org", "destinationEmail": "dest@example.org",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// an empty password keeps the stored one
	w = e.post("/api/smtp/update", superTok, map[string]any{"host": "smtp2.example.org", "port": 465, "secure": true, "user": "bot"})
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := e.db.GetSmtpConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "smtp2.example.org", stored.Host)
	assert.Equal(t, "hunter2", stored.Pass)
	assert.Empty(t, stored.DestinationEmail)

	w = e.get("/api/smtp/get", superTok, nil)
	assert.NotContains(t, w.Body.String(), "hunter2")
	assert.True(t, gjson.Get(w.Body.String(), "hasPass").Bool())

	w = e.post("/api/smtp/update", superTok, map[string]any{"host": "h", "destinationEmail": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAiConfig_MergesFields(t *testing.T) {
	e := newTestEnv(t)
	_, superTok := e.user("s", database.RoleSuperAdmin, database.StatusApproved)

	w := e.post("/api/ai/updateConfig", superTok, map[string]any{"apiToken": "tok-1", "productId": "42"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.get("/api/ai/getConfig", superTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, "infomaniak", gjson.Get(body, "provider").String())
	assert.Equal(t, int64(200), gjson.Get(body, "maxTokens").Int())
	assert.Equal(t, int64(70), gjson.Get(body, "temperature").Int())
	assert.True(t, gjson.Get(body, "hasApiToken").Bool())
	assert.False(t, gjson.Get(body, "isEnabled").Bool())
	assert.NotContains(t, body, "tok-1")

	w = e.post("/api/ai/updateConfig", superTok, map[string]any{"provider": "openai", "apiToken": "", "isEnabled": true})
	require.Equal(t, http.StatusOK, w.Code)
	cfg, err := e.db.GetAiConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "tok-1", cfg.APIToken)
	assert.Equal(t, "42", cfg.ProductID)
	assert.True(t, cfg.IsEnabled)

	assert.Equal(t, http.StatusBadRequest, e.post("/api/ai/updateConfig", superTok, map[string]any{"provider": "skynet"}).Code)
	assert.Equal(t, http.StatusBadRequest, e.post("/api/ai/updateConfig", superTok, map[string]any{"temperature": 101}).Code)

	logs, err := e.db.ListAuditLogs(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.JSONEq(t, `{"updatedFields":["provider","isEnabled"]}`, string(logs[0].Details))
}

func TestGenerateImageDescription(t *testing.T) {
	var prompt string
	vendor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		prompt = gjson.GetBytes(raw, "messages.#(role==\"user\").content").String()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":" Un vélo sous la pluie "}}]}`)
	}))
	defer vendor.Close()

	e := newTestEnv(t, withAI(vendor.URL))
	_, tok := e.user("m", database.RoleMember, database.StatusApproved)

	w := e.post("/api/ai/generateImageDescription", tok, map[string]string{"textContent": "Se déplacer autrement"})
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)

	require.NoError(t, e.db.SaveAiConfig(context.Background(), &database.AiConfig{
		Provider: "openai", APIToken: "tok", MaxTokens: 200, Temperature: 70, IsEnabled: false,
	}))
	w = e.post("/api/ai/generateImageDescription", tok, map[string]string{"textContent": "Se déplacer autrement"})
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)

	cfg, err := e.db.GetAiConfig(context.Background())
	require.NoError(t, err)
	cfg.IsEnabled = true
	require.NoError(t, e.db.SaveAiConfig(context.Background(), cfg))

	w = e.post("/api/ai/generateImageDescription", tok, map[string]string{"textContent": "Se déplacer autrement"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Un vélo sous la pluie", gjson.Get(w.Body.String(), "description").String())
	assert.Contains(t, prompt, "Se déplacer autrement")

	assert.Equal(t, http.StatusBadRequest, e.post("/api/ai/generateImageDescription", tok, map[string]string{}).Code)
}

func TestGenerateImageDescription_VendorError(t *testing.T) {
	vendor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
	}))
	defer vendor.Close()

	e := newTestEnv(t, withAI(vendor.URL))
	_, tok := e.user("m", database.RoleMember, database.StatusApproved)
	require.NoError(t, e.db.SaveAiConfig(context.Background(), &database.AiConfig{
		Provider: "openai", APIToken: "tok", MaxTokens: 200, Temperature: 70, IsEnabled: true,
	}))

	w := e.post("/api/ai/generateImageDescription", tok, map[string]string{"textContent": "x"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, apiError(t, w).Error.Message, "429")
}
