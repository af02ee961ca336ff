package handlers

import (
	"net/http"
	"time"

	"github.com/anonto42/kickoff/backend/internal/middleware"
	"github.com/anonto42/kickoff/backend/internal/models"
	"github.com/anonto42/kickoff/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles comments and likes on external articles.
type CommentHandler struct {
	comments    *services.Comments
	credentials *services.Credentials
	timeout     time.Duration
}

func NewCommentHandler(comments *services.Comments, credentials *services.Credentials, timeout time.Duration) *CommentHandler {
	return &CommentHandler{
		comments:    comments,
		credentials: credentials,
		timeout:     timeout,
	}
}

// RegisterCommentRoutes registers comment routes. Listing is public but
// personalised when optionalAuth finds a valid token.
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, requireAuth, optionalAuth echo.MiddlewareFunc) {
	g.GET("/comments/*", h.ListComments, optionalAuth)
	g.POST("/comments", h.CreateComment, requireAuth)
	g.POST("/comments/:commentId/like", h.ToggleLike, requireAuth)
}

// ListComments returns an article's comments newest first. The article id may
// arrive percent-encoded or with literal slashes.
func (h *CommentHandler) ListComments(c echo.Context) error {
	articleID, err := wildcardID(c)
	if err != nil || articleID == "" {
		return models.ErrMissingArticleID
	}

	var viewerID string
	if id, ok := middleware.IdentityFrom(c); ok {
		viewerID = id.UserID
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	comments, err := h.comments.ListByArticle(ctx, articleID, viewerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"comments": comments,
	})
}

// CreateComment posts a comment as the caller.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return models.ErrMissingToken
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}
	if req.ArticleID == "" {
		return models.ErrMissingArticleID
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	author, err := h.credentials.FindByID(ctx, id.UserID)
	if err != nil {
		return err
	}

	comment, err := h.comments.Add(ctx, req.ArticleID, author, req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Comment added successfully",
		"comment": comment.View(id.UserID),
	})
}

// ToggleLike flips the caller's like on a comment.
func (h *CommentHandler) ToggleLike(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return models.ErrMissingToken
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	res, err := h.comments.ToggleLike(ctx, c.Param("commentId"), id.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"likes":    res.Likes,
		"hasLiked": res.HasLiked,
	})
}
