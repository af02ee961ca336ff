package repositories

import (
	"context"
	"sync"
	"testing"

	"github.com/anonto42/kickoff/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// runUserRepositoryContract exercises behavior every UserRepository must share.
func runUserRepositoryContract(t *testing.T, newRepo func(t *testing.T) UserRepository) {
	ctx := context.Background()

	t.Run("create and find", func(t *testing.T) {
		repo := newRepo(t)
		u := &models.User{Name: "Ada", Email: "Ada@Gmail.com", Password: "hash"}
		require.NoError(t, repo.CreateUser(ctx, u))
		require.False(t, u.ID.IsZero())
		assert.Equal(t, "ada@gmail.com", u.Email)
		assert.False(t, u.CreatedAt.IsZero())

		byEmail, err := repo.GetUserByEmail(ctx, "ADA@gmail.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)
		assert.Equal(t, "hash", byEmail.Password)

		byID, err := repo.GetUserByID(ctx, u.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, "Ada", byID.Name)
	})

	t.Run("duplicate email is rejected case-insensitively", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.CreateUser(ctx, &models.User{Name: "A", Email: "dup@gmail.com"}))
		err := repo.CreateUser(ctx, &models.User{Name: "B", Email: "DUP@gmail.com"})
		assert.ErrorIs(t, err, models.ErrDuplicateEmail)
	})

	t.Run("missing users", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.GetUserByEmail(ctx, "nobody@gmail.com")
		assert.ErrorIs(t, err, models.ErrUserNotFound)

		_, err = repo.GetUserByID(ctx, primitive.NewObjectID().Hex())
		assert.ErrorIs(t, err, models.ErrUserNotFound)

		_, err = repo.GetUserByID(ctx, "not-an-id")
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})
}

// runCommentRepositoryContract exercises behavior every CommentRepository must share.
func runCommentRepositoryContract(t *testing.T, newRepo func(t *testing.T) CommentRepository) {
	ctx := context.Background()
	author := primitive.NewObjectID()

	post := func(t *testing.T, repo CommentRepository, articleID, text string) *models.Comment {
		t.Helper()
		c := &models.Comment{ArticleID: articleID, UserID: author, UserName: "Ada", Text: text}
		require.NoError(t, repo.CreateComment(ctx, c))
		return c
	}

	t.Run("create initializes likes", func(t *testing.T) {
		repo := newRepo(t)
		c := post(t, repo, "football/2024/x", "Great match!")
		assert.False(t, c.ID.IsZero())
		assert.Zero(t, c.Likes)
		assert.Empty(t, c.LikedBy)
		assert.False(t, c.CreatedAt.IsZero())
	})

	t.Run("list is per article and most recent first", func(t *testing.T) {
		repo := newRepo(t)
		first := post(t, repo, "football/2024/x", "one")
		second := post(t, repo, "football/2024/x", "two")
		third := post(t, repo, "football/2024/x", "three")
		post(t, repo, "football/2024/y", "other article")

		comments, err := repo.GetCommentsByArticleID(ctx, "football/2024/x")
		require.NoError(t, err)
		require.Len(t, comments, 3)
		assert.Equal(t, third.ID, comments[0].ID)
		assert.Equal(t, second.ID, comments[1].ID)
		assert.Equal(t, first.ID, comments[2].ID)
		for i := 1; i < len(comments); i++ {
			assert.False(t, comments[i].CreatedAt.After(comments[i-1].CreatedAt))
		}
	})

	t.Run("list of unknown article is empty, not nil", func(t *testing.T) {
		repo := newRepo(t)
		comments, err := repo.GetCommentsByArticleID(ctx, "nothing/here")
		require.NoError(t, err)
		assert.NotNil(t, comments)
		assert.Empty(t, comments)
	})

	t.Run("toggle is an involution", func(t *testing.T) {
		repo := newRepo(t)
		c := post(t, repo, "a", "text")
		user := primitive.NewObjectID().Hex()

		res, err := repo.ToggleLike(ctx, c.ID.Hex(), user)
		require.NoError(t, err)
		assert.Equal(t, models.LikeResult{Likes: 1, HasLiked: true}, *res)

		res, err = repo.ToggleLike(ctx, c.ID.Hex(), user)
		require.NoError(t, err)
		assert.Equal(t, models.LikeResult{Likes: 0, HasLiked: false}, *res)
	})

	t.Run("likes track distinct voters and never go negative", func(t *testing.T) {
		repo := newRepo(t)
		c := post(t, repo, "a", "text")
		alice := primitive.NewObjectID().Hex()
		bob := primitive.NewObjectID().Hex()

		sequence := []string{alice, bob, alice, alice, bob, bob, bob}
		liked := map[string]bool{}
		for _, voter := range sequence {
			res, err := repo.ToggleLike(ctx, c.ID.Hex(), voter)
			require.NoError(t, err)
			liked[voter] = !liked[voter]

			expected := 0
			for _, v := range liked {
				if v {
					expected++
				}
			}
			assert.Equal(t, expected, res.Likes)
			assert.Equal(t, liked[voter], res.HasLiked)
			assert.GreaterOrEqual(t, res.Likes, 0)
		}

		comments, err := repo.GetCommentsByArticleID(ctx, "a")
		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal(t, len(comments[0].LikedBy), comments[0].Likes)
		assert.True(t, comments[0].HasLikedBy(bob))
		assert.False(t, comments[0].HasLikedBy(alice))
	})

	t.Run("concurrent toggles by different users are not lost", func(t *testing.T) {
		repo := newRepo(t)
		c := post(t, repo, "a", "text")

		const voters = 20
		var wg sync.WaitGroup
		for range voters {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.ToggleLike(ctx, c.ID.Hex(), primitive.NewObjectID().Hex())
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		comments, err := repo.GetCommentsByArticleID(ctx, "a")
		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal(t, voters, comments[0].Likes)
		assert.Len(t, comments[0].LikedBy, voters)
	})

	t.Run("toggle of unknown comment", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.ToggleLike(ctx, primitive.NewObjectID().Hex(), "u")
		assert.ErrorIs(t, err, models.ErrCommentNotFound)

		_, err = repo.ToggleLike(ctx, "zzz", "u")
		assert.ErrorIs(t, err, models.ErrCommentNotFound)
	})
}
