package repositories

import (
	"context"
	"slices"
	"sync"

	"github.com/anonto42/kickoff/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryUserRepository is a process-local UserRepository for STORAGE_DRIVER=memory and tests.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[primitive.ObjectID]models.User
	byEmail map[string]primitive.ObjectID
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[primitive.ObjectID]models.User),
		byEmail: make(map[string]primitive.ObjectID),
	}
}

func (r *MemoryUserRepository) CreateUser(_ context.Context, user *models.User) error {
	email := models.NormalizeEmail(user.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[email]; exists {
		return models.ErrDuplicateEmail
	}

	user.ID = primitive.NewObjectID()
	user.Email = email
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now()
	}
	r.byID[user.ID] = *user
	r.byEmail[email] = user.ID
	return nil
}

func (r *MemoryUserRepository) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[models.NormalizeEmail(email)]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	user := r.byID[id]
	return &user, nil
}

func (r *MemoryUserRepository) GetUserByID(_ context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrUserNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[objID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return &user, nil
}

// MemoryCommentRepository is a process-local CommentRepository. The mutex gives each
// toggle the same per-document atomicity the Mongo pipeline update has.
type MemoryCommentRepository struct {
	mu       sync.Mutex
	comments map[primitive.ObjectID]*models.Comment
}

func NewMemoryCommentRepository() *MemoryCommentRepository {
	return &MemoryCommentRepository{comments: make(map[primitive.ObjectID]*models.Comment)}
}

func (r *MemoryCommentRepository) CreateComment(_ context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = now()
	comment.Likes = 0
	comment.LikedBy = []string{}

	stored := *comment
	r.comments[comment.ID] = &stored
	return nil
}

func (r *MemoryCommentRepository) GetCommentsByArticleID(_ context.Context, articleID string) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	comments := []models.Comment{}
	for _, c := range r.comments {
		if c.ArticleID != articleID {
			continue
		}
		cp := *c
		cp.LikedBy = slices.Clone(c.LikedBy)
		comments = append(comments, cp)
	}

	// ObjectIDs embed a counter, so they break ties between equal millisecond timestamps.
	slices.SortFunc(comments, func(a, b models.Comment) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return slices.Compare(b.ID[:], a.ID[:])
	})
	return comments, nil
}

func (r *MemoryCommentRepository) ToggleLike(_ context.Context, commentID, userID string) (*models.LikeResult, error) {
	objID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, models.ErrCommentNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.comments[objID]
	if !ok {
		return nil, models.ErrCommentNotFound
	}

	if i := slices.Index(c.LikedBy, userID); i >= 0 {
		c.LikedBy = slices.Delete(c.LikedBy, i, i+1)
	} else {
		c.LikedBy = append(c.LikedBy, userID)
	}
	c.Likes = len(c.LikedBy)

	return &models.LikeResult{Likes: c.Likes, HasLiked: c.HasLikedBy(userID)}, nil
}
