package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/kickoff/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	// CreateComment stores a new comment, assigning ID and CreatedAt and zeroing likes.
	CreateComment(ctx context.Context, comment *models.Comment) error
	// GetCommentsByArticleID returns the article's comments, most recent first.
	GetCommentsByArticleID(ctx context.Context, articleID string) ([]models.Comment, error)
	// ToggleLike flips userID's membership in the comment's voter set and returns the new state.
	// Returns models.ErrCommentNotFound for unknown or malformed ids.
	ToggleLike(ctx context.Context, commentID, userID string) (*models.LikeResult, error)
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection("comments")}
}

// EnsureIndexes creates the index backing per-article listing
func (r *MongoCommentRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "articleId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("article_created"),
	})
	if err != nil {
		return fmt.Errorf("failed to create comments index: %w", err)
	}
	return nil
}

// CreateComment creates a new comment in MongoDB
func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = now()
	comment.Likes = 0
	comment.LikedBy = []string{}

	if _, err := r.collection.InsertOne(ctx, comment); err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

// GetCommentsByArticleID retrieves all comments for an article from MongoDB
func (r *MongoCommentRepository) GetCommentsByArticleID(ctx context.Context, articleID string) ([]models.Comment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"articleId": articleID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}
	return comments, nil
}

// ToggleLike flips the like in a single pipeline update so concurrent toggles on the same
// document never lose an update and likes is always recomputed from likedBy.
func (r *MongoCommentRepository) ToggleLike(ctx context.Context, commentID, userID string) (*models.LikeResult, error) {
	objID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, models.ErrCommentNotFound
	}

	var comment models.Comment
	err = r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objID},
		toggleLikePipeline(userID),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to toggle like: %w", err)
	}

	return &models.LikeResult{
		Likes:    comment.Likes,
		HasLiked: comment.HasLikedBy(userID),
	}, nil
}

func toggleLikePipeline(userID string) mongo.Pipeline {
	voter := bson.D{{Key: "$literal", Value: userID}}
	likedBy := bson.D{{Key: "$ifNull", Value: bson.A{"$likedBy", bson.A{}}}}

	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "likedBy", Value: bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$in", Value: bson.A{voter, likedBy}}},
			bson.D{{Key: "$setDifference", Value: bson.A{likedBy, bson.A{voter}}}},
			bson.D{{Key: "$concatArrays", Value: bson.A{likedBy, bson.A{voter}}}},
		}}}}}}},
		{{Key: "$set", Value: bson.D{{Key: "likes", Value: bson.D{{Key: "$size", Value: "$likedBy"}}}}}},
	}
}
