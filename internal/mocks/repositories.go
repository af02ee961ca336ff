// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"

	"github.com/anonto42/kickoff/backend/internal/models"
	"github.com/stretchr/testify/mock"
)

// UserRepository is a mock of repositories.UserRepository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// CommentRepository is a mock of repositories.CommentRepository.
type CommentRepository struct {
	mock.Mock
}

func (m *CommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *CommentRepository) GetCommentsByArticleID(ctx context.Context, articleID string) ([]models.Comment, error) {
	args := m.Called(ctx, articleID)
	if c := args.Get(0); c != nil {
		return c.([]models.Comment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CommentRepository) ToggleLike(ctx context.Context, commentID, userID string) (*models.LikeResult, error) {
	args := m.Called(ctx, commentID, userID)
	if r := args.Get(0); r != nil {
		return r.(*models.LikeResult), args.Error(1)
	}
	return nil, args.Error(1)
}

// LikeRecorder is a mock of services.LikeRecorder.
type LikeRecorder struct {
	mock.Mock
}

func (m *LikeRecorder) RecordLikeToggle(liked bool) {
	m.Called(liked)
}
