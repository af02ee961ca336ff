package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/anonto42/kickoff/backend/internal/logger"
	"github.com/anonto42/kickoff/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type newsSourceMock struct {
	mock.Mock
}

func (m *newsSourceMock) Search(ctx context.Context, q models.NewsQuery) (*models.NewsPage, error) {
	args := m.Called(ctx, q)
	page, _ := args.Get(0).(*models.NewsPage)
	return page, args.Error(1)
}

func (m *newsSourceMock) Article(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func newNewsServer(news NewsSource) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewErrorHandler(logger.Discard())
	NewNewsHandler(news).RegisterNewsRoutes(e.Group("/api"))
	return e
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestSearchNews(t *testing.T) {
	news := &newsSourceMock{}
	news.On("Search", mock.Anything, models.NewsQuery{Page: 2, PageSize: 6, Search: "arsenal"}).
		Return(&models.NewsPage{
			Articles:    []models.Article{{ID: "football/a", Title: "Arsenal win"}},
			Total:       13,
			Pages:       3,
			CurrentPage: 2,
		}, nil)

	rec := get(newNewsServer(news), "/api/news?page=2&pageSize=6&search=arsenal")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success bool `json:"success"`
		models.NewsPage
	}
	decode(t, rec, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, 13, resp.Total)
	assert.Equal(t, 3, resp.Pages)
	assert.Equal(t, 2, resp.CurrentPage)
	require.Len(t, resp.Articles, 1)
	assert.Equal(t, "Arsenal win", resp.Articles[0].Title)
	news.AssertExpectations(t)
}

func TestSearchNews_Errors(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"timeout", models.ErrUpstreamTimeout, http.StatusGatewayTimeout, "Request timeout - upstream provider is slow"},
		{"rate limited", models.ErrUpstreamRateLimited, http.StatusTooManyRequests, "API rate limit reached"},
		{"internal", assert.AnError, http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			news := &newsSourceMock{}
			news.On("Search", mock.Anything, mock.Anything).Return(nil, tc.err)

			rec := get(newNewsServer(news), "/api/news")
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.message, errorBody(t, rec).Error)
		})
	}
}

func TestSearchNews_BadQuery(t *testing.T) {
	news := &newsSourceMock{}
	rec := get(newNewsServer(news), "/api/news?page=two")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	news.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestGetArticle(t *testing.T) {
	news := &newsSourceMock{}
	news.On("Article", mock.Anything, "football/2024/may/04/report").Return("<p>Body</p>", nil)
	news.On("Article", mock.Anything, "football/missing").Return("", models.ErrArticleNotFound)
	e := newNewsServer(news)

	for _, target := range []string{
		"/api/article/football%2F2024%2Fmay%2F04%2Freport",
		"/api/article/football/2024/may/04/report",
	} {
		rec := get(e, target)
		require.Equal(t, http.StatusOK, rec.Code, target)
		assert.JSONEq(t, `{"success":true,"body":"<p>Body</p>"}`, rec.Body.String())
	}

	news.On("Article", mock.Anything, "football/100%25-record").Return("<p>Record</p>", nil)
	rec := get(e, "/api/article/"+url.PathEscape("football/100%25-record"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"body":"<p>Record</p>"}`, rec.Body.String())

	rec = get(e, "/api/article/football/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Article not found", errorBody(t, rec).Error)
}
