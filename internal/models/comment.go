package models

import (
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxCommentLength bounds comment text in characters.
const MaxCommentLength = 1000

// Comment is a comment on an external article. Likes always equals len(LikedBy).
type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ArticleID string             `json:"articleId" bson:"articleId"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	UserName  string             `json:"userName" bson:"userName"` // snapshot at creation
	Text      string             `json:"text" bson:"text"`
	Likes     int                `json:"likes" bson:"likes"`
	LikedBy   []string           `json:"-" bson:"likedBy"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// HasLikedBy reports whether userID is in the voter set. An empty userID never matches.
func (c *Comment) HasLikedBy(userID string) bool {
	if userID == "" {
		return false
	}
	return slices.Contains(c.LikedBy, userID)
}

// View projects the comment for a viewer; viewerID may be empty for anonymous reads.
func (c *Comment) View(viewerID string) CommentView {
	return CommentView{
		ID:        c.ID.Hex(),
		ArticleID: c.ArticleID,
		UserName:  c.UserName,
		Text:      c.Text,
		Likes:     c.Likes,
		CreatedAt: c.CreatedAt,
		HasLiked:  c.HasLikedBy(viewerID),
	}
}

// CommentView is the wire shape of a comment.
type CommentView struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"articleId"`
	UserName  string    `json:"userName"`
	Text      string    `json:"text"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
	HasLiked  bool      `json:"hasLiked"`
}

// LikeResult is the state after a like toggle.
type LikeResult struct {
	Likes    int  `json:"likes"`
	HasLiked bool `json:"hasLiked"`
}

// CreateCommentRequest carries a new comment. Text is checked by services.Comments.
type CreateCommentRequest struct {
	ArticleID string `json:"articleId" validate:"required,max=512"`
	Text      string `json:"text"`
}
