package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutnell/marketminds/pkg/auth"
	"github.com/nutnell/marketminds/pkg/config"
	"github.com/nutnell/marketminds/pkg/observability"
	"github.com/nutnell/marketminds/pkg/providers"
	"github.com/nutnell/marketminds/pkg/session"
)

type stubOrchestrator struct {
	answer  string
	err     error
	rawText string
	session string
}

func (s *stubOrchestrator) Answer(ctx context.Context, rawText, sessionKey string) (string, error) {
	s.rawText = rawText
	s.session = sessionKey
	return s.answer, s.err
}

type stubAdapter struct {
	name   string
	result providers.Result
	last   providers.Params
}

func (a *stubAdapter) Name() string {
	return a.name
}

func (a *stubAdapter) Invoke(ctx context.Context, params providers.Params) providers.Result {
	a.last = params
	return a.result
}

type testServer struct {
	server       *Server
	orchestrator *stubOrchestrator
	news         *stubAdapter
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.ServerConfig{}
	cfg.SetDefaults()

	tokens, err := auth.NewTokenService([]byte("0123456789abcdef0123456789abcdef"), "marketminds", 30*time.Minute)
	require.NoError(t, err)
	users, err := auth.NewUserStore(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { users.Close() })

	orch := &stubOrchestrator{answer: "composed answer"}
	news := &stubAdapter{name: "newsapi", result: providers.Success("Title: headline")}

	srv := New(cfg, Dependencies{
		Orchestrator: orch,
		Tokens:       tokens,
		Users:        users,
		Sessions:     session.NewInMemoryService(),
		NewsChain:    providers.NewChain("news", []providers.Adapter{news}),
		Metrics:      observability.NewMetrics(),
	})

	return &testServer{server: srv, orchestrator: orch, news: news}
}

func (ts *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) signupAndLogin(t *testing.T, username, password string) string {
	t.Helper()

	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	rec := ts.do(t, httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = ts.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bearer", resp.TokenType)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAuthRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signupAndLogin(t, "alice@example.com", "hunter2")

	req := httptest.NewRequest(http.MethodPost, "/v1/query",
		strings.NewReader(`{"input":"What's the latest news on Tesla?"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := ts.do(t, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Result string `json:"result"`
		User   string `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "composed answer", resp.Result)
	assert.Equal(t, "alice@example.com", resp.User)
	assert.Equal(t, "What's the latest news on Tesla?", ts.orchestrator.rawText)
	assert.Equal(t, "alice@example.com", ts.orchestrator.session)
}

func TestQueryRequiresToken(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader(`{"input":"x"}`))
	rec := ts.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenRejectsBadPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.signupAndLogin(t, "alice@example.com", "hunter2")

	form := url.Values{"username": {"alice@example.com"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := ts.do(t, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Incorrect username or password")
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestSignupRejectsDuplicate(t *testing.T) {
	ts := newTestServer(t)
	ts.signupAndLogin(t, "alice@example.com", "hunter2")

	body := `{"username":"alice@example.com","password":"other"}`
	rec := ts.do(t, httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body)))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestQueryRejectsEmptyInput(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signupAndLogin(t, "alice@example.com", "hunter2")

	req := httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader(`{"input":"  "}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := ts.do(t, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "input is required")
}

func TestQuerySurfacesFatalErrorsAs500(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signupAndLogin(t, "alice@example.com", "hunter2")
	ts.orchestrator.err = fmt.Errorf("entity extraction failed: classifier unavailable")

	req := httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader(`{"input":"anything"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := ts.do(t, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "entity extraction failed")
}

func TestQueryReturnsProviderFailureTextAs200(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signupAndLogin(t, "alice@example.com", "hunter2")
	ts.orchestrator.answer = "error fetching news: rate limit reached"

	req := httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader(`{"input":"news on Tesla"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := ts.do(t, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "error fetching news: rate limit reached")
}

func TestInternalNewsEndpointIsUnauthenticated(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/internal/news/tesla", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"news_summary":"Title: headline"}`, rec.Body.String())
	assert.Equal(t, "tesla", ts.news.last.Company)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "marketminds_http_requests_total")
}
