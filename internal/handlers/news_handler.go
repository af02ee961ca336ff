package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/kickoff/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// NewsSource is the football news provider.
type NewsSource interface {
	Search(ctx context.Context, q models.NewsQuery) (*models.NewsPage, error)
	Article(ctx context.Context, id string) (string, error)
}

// NewsHandler proxies news search and article bodies.
type NewsHandler struct {
	news NewsSource
}

func NewNewsHandler(news NewsSource) *NewsHandler {
	return &NewsHandler{news: news}
}

func (h *NewsHandler) RegisterNewsRoutes(g *echo.Group) {
	g.GET("/news", h.SearchNews)
	g.GET("/article/*", h.GetArticle)
}

type newsResponse struct {
	Success bool `json:"success"`
	*models.NewsPage
}

// SearchNews returns a page of football articles.
func (h *NewsHandler) SearchNews(c echo.Context) error {
	var q models.NewsQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return bindError(err)
	}

	page, err := h.news.Search(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newsResponse{Success: true, NewsPage: page})
}

// GetArticle returns the sanitized body of one article.
func (h *NewsHandler) GetArticle(c echo.Context) error {
	id, err := wildcardID(c)
	if err != nil || id == "" {
		return models.ErrArticleNotFound
	}

	body, err := h.news.Article(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"body":    body,
	})
}
