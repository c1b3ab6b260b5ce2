package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mizan/config"
	"mizan/internal/database/dbtest"
	"mizan/internal/domain"
	"mizan/internal/metrics"
	"mizan/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiClient struct {
	t      *testing.T
	engine *gin.Engine
	token  string
}

func newTestAPI(t *testing.T) *apiClient {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Env: "test", Timezone: "UTC"},
		JWT: config.JWTConfig{
			AccessSecret:  "access",
			RefreshSecret: "refresh",
			AccessExpiry:  time.Hour,
			RefreshExpiry: time.Hour,
			Issuer:        "test",
		},
		Advice:    config.AdviceConfig{Timeout: time.Second},
		RateLimit: config.RateLimitConfig{Requests: 0, Window: time.Minute},
	}
	engine, release := Setup(cfg, dbtest.New(t), Deps{Log: zap.NewNop(), Metrics: metrics.New()})
	t.Cleanup(release)
	return &apiClient{t: t, engine: engine}
}

func (a *apiClient) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *apiClient) register(username string) service.AuthResult {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/auth/register", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret1",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var res service.AuthResult
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &res))
	a.token = res.Token
	return res
}

type snapshotJSON struct {
	Date       string `json:"date"`
	GoodCount  int    `json:"goodCount"`
	BadCount   int    `json:"badCount"`
	GoodWeight int    `json:"goodWeight"`
	BadWeight  int    `json:"badWeight"`
	Verdict    string `json:"verdict"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestSetupReleaseIsIdempotent(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{Timezone: "UTC"}}
	engine, release := Setup(cfg, dbtest.New(t), Deps{})
	require.NotNil(t, engine)
	release()
	release()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t)
	res := api.register("amina")
	assert.Equal(t, "amina", res.Username)

	w := api.do(http.MethodPost, "/api/auth/register", gin.H{"username": "amina", "email": "x@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(http.MethodPost, "/api/auth/login", gin.H{"username": "amina", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodPost, "/api/auth/login", gin.H{"username": "amina", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodPost, "/api/auth/refresh", gin.H{"refreshToken": res.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[service.AuthResult](t, w).Token)

	w = api.do(http.MethodPost, "/api/auth/register", gin.H{"username": "bo", "email": "bad", "password": "1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)
	for _, path := range []string{"/api/actions", "/api/balance/today", "/api/advice/today"} {
		w := api.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestActionsEndpoints(t *testing.T) {
	api := newTestAPI(t)
	api.register("amina")

	w := api.do(http.MethodGet, "/api/actions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	actions := decode[[]map[string]any](t, w)
	assert.Len(t, actions, 28)
	assert.Contains(t, actions[0], "nameAr")

	w = api.do(http.MethodGet, "/api/actions/type/GOOD", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 15)

	w = api.do(http.MethodGet, "/api/actions/type/MAYBE", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/api/balance/toggle", gin.H{"actionId": 1, "date": "2024-01-01", "checked": true})
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodGet, "/api/actions/date/2024-01-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	statuses := decode[[]struct {
		ID      uint `json:"id"`
		Checked bool `json:"checked"`
	}](t, w)
	require.Len(t, statuses, 28)
	assert.True(t, statuses[0].Checked)
	assert.False(t, statuses[1].Checked)

	w = api.do(http.MethodGet, "/api/actions/today", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBalanceToggleAndHistory(t *testing.T) {
	api := newTestAPI(t)
	api.register("amina")

	w := api.do(http.MethodGet, "/api/balance/date/2024-01-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, snapshotJSON{Date: "2024-01-01", Verdict: domain.VerdictNeutral}, decode[snapshotJSON](t, w))

	// Action 1 is a GOOD action (weight 5), action 16 the first BAD one (weight 3).
	w = api.do(http.MethodPost, "/api/balance/toggle", gin.H{"actionId": 1, "date": "2024-01-02", "checked": true})
	require.Equal(t, http.StatusOK, w.Code)
	w = api.do(http.MethodPost, "/api/balance/toggle", gin.H{"actionId": 16, "date": "2024-01-02", "checked": true})
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[snapshotJSON](t, w)
	assert.Equal(t, snapshotJSON{Date: "2024-01-02", GoodCount: 1, BadCount: 1, GoodWeight: 5, BadWeight: 3, Verdict: domain.VerdictPositive}, snap)

	w = api.do(http.MethodGet, "/api/balance/date/2024-01-03", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodGet, "/api/balance/history?startDate=2024-01-01&endDate=2024-01-03", nil)
	require.Equal(t, http.StatusOK, w.Code)
	hist := decode[[]snapshotJSON](t, w)
	require.Len(t, hist, 3)
	assert.Equal(t, []string{"2024-01-03", "2024-01-02", "2024-01-01"}, []string{hist[0].Date, hist[1].Date, hist[2].Date})

	w = api.do(http.MethodGet, "/api/balance/recent", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]snapshotJSON](t, w), 3)

	w = api.do(http.MethodGet, "/api/balance/history?startDate=2024-01-03&endDate=2024-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = api.do(http.MethodGet, "/api/balance/history?startDate=2024-01-03", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = api.do(http.MethodGet, "/api/balance/date/yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggleValidation(t *testing.T) {
	api := newTestAPI(t)
	api.register("amina")

	cases := []struct {
		name   string
		body   gin.H
		status int
	}{
		{"missing actionId", gin.H{"checked": true}, http.StatusBadRequest},
		{"missing checked", gin.H{"actionId": 1}, http.StatusBadRequest},
		{"bad date", gin.H{"actionId": 1, "checked": true, "date": "2024/01/01"}, http.StatusBadRequest},
		{"unknown action", gin.H{"actionId": 999, "checked": true}, http.StatusNotFound},
		{"unchecked today", gin.H{"actionId": 1, "checked": false}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := api.do(http.MethodPost, "/api/balance/toggle", tc.body)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}
}

func TestAdviceFallsBackWithoutLLM(t *testing.T) {
	api := newTestAPI(t)
	api.register("amina")

	w := api.do(http.MethodGet, "/api/advice/today?lang=en", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.FallbackAdvice("en"), decode[service.Advice](t, w))

	w = api.do(http.MethodGet, "/api/advice/today?lang=zz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.FallbackAdvice("fr"), decode[service.Advice](t, w))
}

func TestMetricsEndpoint(t *testing.T) {
	api := newTestAPI(t)
	api.register("amina")
	w := api.do(http.MethodPost, "/api/balance/toggle", gin.H{"actionId": 16, "date": "2024-01-01", "checked": true})
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mizan_actions_bad_total 1")
}
