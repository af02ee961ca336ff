package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/kickoff/backend/internal/logger"
	"github.com/anonto42/kickoff/backend/internal/middleware"
	"github.com/anonto42/kickoff/backend/internal/repositories"
	"github.com/anonto42/kickoff/backend/internal/services"
	"github.com/anonto42/kickoff/backend/internal/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const testSecret = "handlers-test-secret"

type testApp struct {
	e        *echo.Echo
	tokens   *services.TokenService
	users    *repositories.MemoryUserRepository
	comments *repositories.MemoryCommentRepository
}

// newTestApp wires the account and comment routes on memory repositories.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	log := logger.Discard()
	app := &testApp{
		e:        echo.New(),
		tokens:   services.NewTokenService(testSecret),
		users:    repositories.NewMemoryUserRepository(),
		comments: repositories.NewMemoryCommentRepository(),
	}
	app.e.Validator = validators.NewValidator()
	app.e.HTTPErrorHandler = NewErrorHandler(log)

	credentials := services.NewCredentials(app.users, log)
	comments := services.NewComments(app.comments, log, nil)
	requireAuth := middleware.RequireAuth(app.tokens)
	optionalAuth := middleware.OptionalAuth(app.tokens)

	api := app.e.Group("/api")
	NewAuthHandler(credentials, app.tokens, time.Second, log).RegisterAuthRoutes(api)
	NewUserHandler(credentials, time.Second).RegisterProfileRoutes(api, requireAuth)
	NewCommentHandler(comments, credentials, time.Second).RegisterCommentRoutes(api, requireAuth, optionalAuth)
	return app
}

func (a *testApp) do(t *testing.T, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

// signup creates an account and returns its token.
func (a *testApp) signup(t *testing.T, name, email string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/signup", "",
		`{"name":"`+name+`","email":"`+email+`","password":"correct horse"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	decode(t, rec, &resp)
	return resp
}
