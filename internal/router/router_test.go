package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/kickoff/backend/internal/logger"
	"github.com/anonto42/kickoff/backend/internal/metrics"
	"github.com/anonto42/kickoff/backend/internal/repositories"
	"github.com/anonto42/kickoff/backend/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, rps float64) *echo.Echo {
	t.Helper()
	log := logger.Discard()
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	return New(Dependencies{
		Logger:       log,
		Tokens:       services.NewTokenService("router-test"),
		Credentials:  services.NewCredentials(repositories.NewMemoryUserRepository(), log),
		Comments:     services.NewComments(repositories.NewMemoryCommentRepository(), log, collector),
		Metrics:      collector,
		Gatherer:     reg,
		StoreTimeout: time.Second,
		RateLimitRPS: rps,
	})
}

func call(e *echo.Echo, method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}

func TestEndToEnd_SignupCommentLike(t *testing.T) {
	e := newTestServer(t, 0)

	signup := func(name, email string) string {
		rec := call(e, http.MethodPost, "/api/signup", "",
			`{"name":"`+name+`","email":"`+email+`","password":"hunter22"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decodeMap(t, rec)["token"].(string)
	}
	ada := signup("Ada", "ada@gmail.com")
	bob := signup("Bob", "bob@gmail.com")

	article := "football/2024/may/04/arsenal-bournemouth"
	rec := call(e, http.MethodPost, "/api/comments", ada, `{"articleId":"`+article+`","text":"Great match"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	commentID := decodeMap(t, rec)["comment"].(map[string]any)["id"].(string)

	rec = call(e, http.MethodPost, "/api/comments/"+commentID+"/like", bob, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"likes":1,"hasLiked":true}`, rec.Body.String())

	rec = call(e, http.MethodGet, "/api/comments/"+url.PathEscape(article), bob, "")
	require.Equal(t, http.StatusOK, rec.Code)
	comments := decodeMap(t, rec)["comments"].([]any)
	require.Len(t, comments, 1)
	first := comments[0].(map[string]any)
	assert.Equal(t, "Ada", first["userName"])
	assert.Equal(t, true, first["hasLiked"])
	assert.EqualValues(t, 1, first["likes"])

	rec = call(e, http.MethodPost, "/api/comments/"+commentID+"/like", bob, "")
	assert.JSONEq(t, `{"success":true,"likes":0,"hasLiked":false}`, rec.Body.String())

	rec = call(e, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `kickoff_like_toggles_total{state="liked"} 1`)
	assert.Contains(t, rec.Body.String(), `route="/api/comments/:commentId/like"`)
}

func TestUnknownRoute(t *testing.T) {
	e := newTestServer(t, 0)

	rec := call(e, http.MethodGet, "/api/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Not Found"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	assert.Equal(t, "nosniff", rec.Header().Get(echo.HeaderXContentTypeOptions))
}

func TestHealth(t *testing.T) {
	e := newTestServer(t, 0)

	rec := call(e, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeMap(t, rec)["status"])
}

func TestStatsRoutesAbsentWithoutProvider(t *testing.T) {
	e := newTestServer(t, 0)

	rec := call(e, http.MethodGet, "/api/standings/premier-league", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimit(t *testing.T) {
	e := newTestServer(t, 1)

	var limited bool
	for range 10 {
		rec := call(e, http.MethodPost, "/api/login", "", `{}`)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			assert.JSONEq(t, `{"success":false,"error":"Too many requests"}`, rec.Body.String())
			break
		}
	}
	assert.True(t, limited)

	assert.Equal(t, http.StatusOK, call(e, http.MethodGet, "/health", "", "").Code)
}

func TestStaticBundle(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>kickoff</h1>"), 0o644))

	log := logger.Discard()
	e := New(Dependencies{
		Logger:       log,
		Tokens:       services.NewTokenService("router-test"),
		Credentials:  services.NewCredentials(repositories.NewMemoryUserRepository(), log),
		Comments:     services.NewComments(repositories.NewMemoryCommentRepository(), log, nil),
		StoreTimeout: time.Second,
		StaticDir:    dir,
	})

	rec := call(e, http.MethodGet, "/index.html", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "kickoff")

	rec = call(e, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
