package services

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/anonto42/kickoff/backend/internal/models"
	"github.com/anonto42/kickoff/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LikeRecorder receives like toggle outcomes.
type LikeRecorder interface {
	RecordLikeToggle(liked bool)
}

// Comments implements posting, listing and liking comments on external articles.
type Comments struct {
	comments repositories.CommentRepository
	logger   *slog.Logger
	recorder LikeRecorder
}

// NewComments creates a Comments service. recorder may be nil.
func NewComments(comments repositories.CommentRepository, logger *slog.Logger, recorder LikeRecorder) *Comments {
	return &Comments{comments: comments, logger: logger, recorder: recorder}
}

// Add stores a comment authored by author. Text is trimmed and must not be blank.
func (s *Comments) Add(ctx context.Context, articleID string, author *models.User, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if articleID == "" {
		return nil, models.ErrMissingArticleID
	}
	if text == "" {
		return nil, models.ErrEmptyText
	}
	if utf8.RuneCountInString(text) > models.MaxCommentLength {
		return nil, models.ErrTextTooLong
	}

	comment := &models.Comment{
		ArticleID: articleID,
		UserID:    author.ID,
		UserName:  author.Name,
		Text:      text,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "comment created",
		slog.String("comment_id", comment.ID.Hex()),
		slog.String("article_id", articleID),
	)
	return comment, nil
}

// ListByArticle returns the article's comments newest first, as seen by viewerID.
// An empty viewerID is an anonymous read and every hasLiked is false.
func (s *Comments) ListByArticle(ctx context.Context, articleID, viewerID string) ([]models.CommentView, error) {
	comments, err := s.comments.GetCommentsByArticleID(ctx, articleID)
	if err != nil {
		return nil, err
	}

	views := make([]models.CommentView, 0, len(comments))
	for i := range comments {
		views = append(views, comments[i].View(viewerID))
	}
	return views, nil
}

// ToggleLike flips userID's like on the comment.
func (s *Comments) ToggleLike(ctx context.Context, commentID, userID string) (*models.LikeResult, error) {
	if !primitive.IsValidObjectID(commentID) {
		return nil, models.ErrCommentNotFound
	}

	res, err := s.comments.ToggleLike(ctx, commentID, userID)
	if err != nil {
		return nil, err
	}

	if s.recorder != nil {
		s.recorder.RecordLikeToggle(res.HasLiked)
	}
	s.logger.DebugContext(ctx, "like toggled",
		slog.String("comment_id", commentID),
		slog.Int("likes", res.Likes),
		slog.Bool("has_liked", res.HasLiked),
	)
	return res, nil
}
